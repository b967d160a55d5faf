// Package schedule runs forecasts on a fixed interval so downstream consumers
// of the outcome topic see fresh data without anyone calling the API.
package schedule

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/tremorline/quake-forecast-service/internal/observability"
)

// ForecastRunner executes one forecast run and publishes the outcome.
type ForecastRunner interface {
	RunAndPublish(ctx context.Context, horizon int) error
}

// Runner triggers a forecast run at every interval tick, with a bounded
// retry inside each tick.
type Runner struct {
	service  ForecastRunner
	interval time.Duration
	horizon  int
	logger   *slog.Logger
	metrics  *observability.Metrics
	ready    atomic.Bool
}

// New creates a Runner with the given cadence and horizon.
func New(service ForecastRunner, interval time.Duration, horizon int, logger *slog.Logger, metrics *observability.Metrics) *Runner {
	return &Runner{
		service:  service,
		interval: interval,
		horizon:  horizon,
		logger:   logger,
		metrics:  metrics,
	}
}

// CheckReadiness returns nil once at least one scheduled run has succeeded.
func (r *Runner) CheckReadiness(_ context.Context) error {
	if !r.ready.Load() {
		return errors.New("no scheduled forecast run has completed yet")
	}
	return nil
}

// Run executes the schedule until the context is cancelled. The first run
// fires immediately so a fresh deployment publishes without waiting a full
// interval.
func (r *Runner) Run(ctx context.Context) error {
	r.logger.Info("forecast scheduler started", "interval", r.interval, "horizon", r.horizon)
	r.metrics.SchedulerRunning.Set(1)
	defer r.metrics.SchedulerRunning.Set(0)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	r.runOnce(ctx)

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("forecast scheduler stopping", "reason", ctx.Err())
			return nil
		case <-ticker.C:
			r.runOnce(ctx)
		}
	}
}

// runOnce attempts the run, retrying transient failures with exponential
// backoff: start at 200ms, double each retry, cap at 5s, give up after the
// cap. A failed tick waits for the next one rather than looping forever.
func (r *Runner) runOnce(ctx context.Context) {
	backoff := 200 * time.Millisecond
	maxBackoff := 5 * time.Second

	for {
		if ctx.Err() != nil {
			return
		}

		err := r.service.RunAndPublish(ctx, r.horizon)
		if err == nil {
			r.metrics.ScheduledRuns.WithLabelValues("success").Inc()
			r.ready.Store(true)
			return
		}
		if ctx.Err() != nil {
			return
		}

		r.logger.Error("scheduled forecast run failed", "horizon", r.horizon, "error", err)
		r.metrics.ScheduledRuns.WithLabelValues("error").Inc()

		if backoff > maxBackoff {
			return
		}
		if !sleepWithContext(ctx, backoff) {
			return
		}
		backoff *= 2
	}
}

func sleepWithContext(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
