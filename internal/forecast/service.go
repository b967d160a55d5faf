package forecast

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/tremorline/quake-forecast-service/internal/domain"
	"github.com/tremorline/quake-forecast-service/internal/observability"
)

// SeriesSource supplies the daily aggregates the forecast window is built
// from. The window length is decided by the caller so the source stays a dumb
// query layer.
type SeriesSource interface {
	DailyAggregates(ctx context.Context, windowDays int) ([]domain.DailyAggregate, error)
}

// OutcomePublisher emits a completed forecast outcome to downstream consumers.
type OutcomePublisher interface {
	PublishOutcome(ctx context.Context, outcome domain.ForecastOutcome) error
}

// SourceUnavailableError wraps a failure to read the event history. Handlers
// map it to a gateway error rather than a client error.
type SourceUnavailableError struct {
	Err error
}

func (e *SourceUnavailableError) Error() string {
	return fmt.Sprintf("event history unavailable: %v", e.Err)
}

func (e *SourceUnavailableError) Unwrap() error { return e.Err }

// UnknownModelError reports a preferred-model name outside the selectable set.
type UnknownModelError struct {
	Model string
}

func (e *UnknownModelError) Error() string {
	return fmt.Sprintf("unknown model %q", e.Model)
}

// selectableModels are the names a caller may request up front. Fallback-only
// strategies are reachable through the cascade but not directly requestable.
var selectableModels = map[string]bool{
	ModelSeasonalTrend:  true,
	ModelAutoregressive: true,
}

// Service ties the series source, the engine, and the optional publisher into
// the operations the HTTP layer exposes.
type Service struct {
	source     SeriesSource
	engine     *Engine
	publisher  OutcomePublisher
	windowDays int
	logger     *slog.Logger
	metrics    *observability.Metrics
}

// NewService wires a forecast service. publisher may be nil when outcome
// publishing is disabled.
func NewService(source SeriesSource, engine *Engine, publisher OutcomePublisher, windowDays int, logger *slog.Logger, metrics *observability.Metrics) *Service {
	return &Service{
		source:     source,
		engine:     engine,
		publisher:  publisher,
		windowDays: windowDays,
		logger:     logger,
		metrics:    metrics,
	}
}

// CountForecast produces the daily event count forecast payload.
func (s *Service) CountForecast(ctx context.Context, horizon int, preferredModel string) (CountResponse, error) {
	if err := validateModel(preferredModel); err != nil {
		return CountResponse{}, err
	}

	series, err := s.loadSeries(ctx)
	if err != nil {
		return CountResponse{}, err
	}

	outcome, err := s.engine.Run(ctx, series, Request{
		Horizon:        horizon,
		Metric:         domain.MetricCount,
		PreferredModel: preferredModel,
	})
	if err != nil {
		return CountResponse{}, err
	}

	return AssembleCount(series, outcome), nil
}

// MagnitudeForecast produces the average magnitude forecast payload.
func (s *Service) MagnitudeForecast(ctx context.Context, horizon int) (MagnitudeResponse, error) {
	series, err := s.loadSeries(ctx)
	if err != nil {
		return MagnitudeResponse{}, err
	}

	outcome, err := s.engine.Run(ctx, series, Request{
		Horizon: horizon,
		Metric:  domain.MetricMagnitude,
	})
	if err != nil {
		return MagnitudeResponse{}, err
	}

	return AssembleMagnitude(outcome), nil
}

// RiskForecast runs a count forecast and classifies each day against the
// window's quantile thresholds. Thresholds are computed once per request from
// the same window the forecast was fit on.
func (s *Service) RiskForecast(ctx context.Context, horizon int) (RiskResponse, error) {
	series, err := s.loadSeries(ctx)
	if err != nil {
		return RiskResponse{}, err
	}

	outcome, err := s.engine.Run(ctx, series, Request{
		Horizon: horizon,
		Metric:  domain.MetricCount,
	})
	if err != nil {
		return RiskResponse{}, err
	}

	risks := ClassifyRisk(outcome.Points, series.RiskThresholds())
	return AssembleRisk(outcome, risks), nil
}

// RunAndPublish executes a count forecast and hands the outcome to the
// publisher. It is the body of the asynchronous run endpoint.
func (s *Service) RunAndPublish(ctx context.Context, horizon int) error {
	series, err := s.loadSeries(ctx)
	if err != nil {
		return err
	}

	outcome, err := s.engine.Run(ctx, series, Request{
		Horizon: horizon,
		Metric:  domain.MetricCount,
	})
	if err != nil {
		return err
	}

	if s.publisher == nil {
		s.logger.Info("outcome publishing disabled, discarding result",
			"model_used", outcome.ModelUsed,
			"horizon", outcome.Horizon,
		)
		return nil
	}

	start := time.Now()
	if err := s.publisher.PublishOutcome(ctx, outcome); err != nil {
		s.metrics.PublishErrors.Inc()
		return fmt.Errorf("publishing forecast outcome: %w", err)
	}
	s.logger.Info("published forecast outcome",
		"model_used", outcome.ModelUsed,
		"horizon", outcome.Horizon,
		"duration", time.Since(start),
	)
	return nil
}

func (s *Service) loadSeries(ctx context.Context) (domain.HistoricalSeries, error) {
	aggregates, err := s.source.DailyAggregates(ctx, s.windowDays)
	if err != nil {
		return domain.HistoricalSeries{}, &SourceUnavailableError{Err: err}
	}
	return domain.BuildSeries(aggregates, s.windowDays)
}

func validateModel(model string) error {
	if model == "" {
		return nil
	}
	if !selectableModels[model] {
		return &UnknownModelError{Model: model}
	}
	return nil
}
