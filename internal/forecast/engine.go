package forecast

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/tremorline/quake-forecast-service/internal/domain"
	"github.com/tremorline/quake-forecast-service/internal/observability"
)

// Request describes one forecast run. PreferredModel is an optional hint that
// is echoed back in the outcome; it never changes the cascade order.
type Request struct {
	Horizon        int
	Metric         domain.Metric
	PreferredModel string
}

// Engine drives the strategy cascade: each stage is tried in its fixed order
// and the first success wins. The terminal flat average stage cannot fail, so
// the cascade always produces an outcome for a valid request.
type Engine struct {
	attempts []ModelAttempt
	logger   *slog.Logger
	metrics  *observability.Metrics
}

// NewEngine creates an engine with the standard strategy chain.
func NewEngine(logger *slog.Logger, metrics *observability.Metrics) *Engine {
	return &Engine{
		attempts: []ModelAttempt{SeasonalTrend{}, Autoregressive{}, SmoothingTrend{}, FlatAverage{}},
		logger:   logger,
		metrics:  metrics,
	}
}

// Run executes the cascade against the series. The context is consulted
// between stages so a caller-imposed deadline can abandon the run, even
// though a single fit is not preemptible mid-flight.
func (e *Engine) Run(ctx context.Context, series domain.HistoricalSeries, req Request) (domain.ForecastOutcome, error) {
	if req.Horizon < domain.MinHorizonDays || req.Horizon > domain.MaxHorizonDays {
		return domain.ForecastOutcome{}, &domain.InvalidHorizonError{Horizon: req.Horizon}
	}

	ms, err := series.MetricSeries(req.Metric)
	if err != nil {
		return domain.ForecastOutcome{}, err
	}

	requested := req.PreferredModel
	if requested == "" {
		requested = ModelSeasonalTrend
	}

	for _, attempt := range e.attempts {
		if err := ctx.Err(); err != nil {
			return domain.ForecastOutcome{}, err
		}

		start := time.Now()
		raw, err := attempt.Forecast(ms, req.Horizon)
		e.metrics.FitDuration.WithLabelValues(attempt.Name()).Observe(time.Since(start).Seconds())

		if err != nil {
			failed := domain.ModelAttemptResult{
				Model:  attempt.Name(),
				Status: domain.AttemptFailed,
				Reason: err.Error(),
			}
			e.logger.Warn("strategy failed, falling back",
				"model", failed.Model,
				"metric", req.Metric,
				"reason", failed.Reason,
			)
			e.metrics.StrategyFailures.WithLabelValues(failed.Model).Inc()
			continue
		}

		points := finalizePoints(raw, req.Metric)
		e.metrics.ModelUsed.WithLabelValues(attempt.Name()).Inc()

		return domain.ForecastOutcome{
			RequestedModel: requested,
			ModelUsed:      attempt.Name(),
			Metric:         req.Metric,
			Horizon:        req.Horizon,
			Points:         points,
			Trend:          classifyTrend(attempt.Name(), points),
			HistoricalMean: stat.Mean(ms.Values, nil),
			ForecastMean:   forecastMean(points),
		}, nil
	}

	// Unreachable: the flat average terminus never fails.
	return domain.ForecastOutcome{}, errors.New("forecast cascade exhausted")
}

// finalizePoints applies the metric's domain constraints to raw strategy
// output. Counts are rounded to whole events with estimate and lower bound
// clamped at zero; the upper bound is only lifted to the estimate when
// clamping would otherwise invert the interval, never capped. Magnitudes are
// rounded to two decimals and deliberately not clamped.
func finalizePoints(raw []domain.ForecastPoint, metric domain.Metric) []domain.ForecastPoint {
	points := make([]domain.ForecastPoint, len(raw))
	for i, p := range raw {
		out := p
		switch metric {
		case domain.MetricCount:
			out.Estimate = math.Max(0, math.Round(p.Estimate))
			out.Lower = math.Max(0, math.Round(p.Lower))
			out.Upper = math.Max(out.Estimate, math.Round(p.Upper))
		case domain.MetricMagnitude:
			out.Estimate = round2(p.Estimate)
			out.Lower = round2(p.Lower)
			out.Upper = round2(p.Upper)
		}
		points[i] = out
	}
	return points
}

// classifyTrend compares the first and last finalized estimates. The strict
// comparison is binary by design; Stable is reserved for the flat average
// terminus and for single-point horizons, where direction is undefined.
func classifyTrend(model string, points []domain.ForecastPoint) domain.Trend {
	if model == ModelFlatAverage || len(points) < 2 {
		return domain.TrendStable
	}
	if points[len(points)-1].Estimate > points[0].Estimate {
		return domain.TrendIncreasing
	}
	return domain.TrendDecreasing
}

func forecastMean(points []domain.ForecastPoint) float64 {
	estimates := make([]float64, len(points))
	for i, p := range points {
		estimates[i] = p.Estimate
	}
	return stat.Mean(estimates, nil)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
