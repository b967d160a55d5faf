package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters and histograms for the forecast service.
type Metrics struct {
	ForecastRequests *prometheus.CounterVec   // labels: endpoint={forecast,risk,magnitude,run}, outcome={success,client_error,server_error}
	RequestDuration  *prometheus.HistogramVec // labels: endpoint

	// Cascade metrics.
	StrategyFailures *prometheus.CounterVec   // labels: strategy
	ModelUsed        *prometheus.CounterVec   // labels: model
	FitDuration      *prometheus.HistogramVec // labels: strategy

	// Response cache metrics.
	CacheLookups *prometheus.CounterVec // labels: endpoint, result={hit,miss}

	// Outcome publishing metrics.
	PublishErrors    prometheus.Counter
	PublisherEnabled prometheus.Gauge

	// Scheduled run metrics.
	ScheduledRuns    *prometheus.CounterVec // labels: outcome={success,error}
	SchedulerRunning prometheus.Gauge
}

// NewMetrics creates and registers all service metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		ForecastRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "quake_forecast",
			Name:      "requests_total",
			Help:      "Forecast API requests by endpoint and outcome.",
		}, []string{"endpoint", "outcome"}),
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "quake_forecast",
			Name:      "request_duration_seconds",
			Help:      "End-to-end request handling duration per endpoint.",
			Buckets:   []float64{0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}, []string{"endpoint"}),
		StrategyFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "quake_forecast",
			Name:      "strategy_failures_total",
			Help:      "Cascade stages that failed and fell through to the next strategy.",
		}, []string{"strategy"}),
		ModelUsed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "quake_forecast",
			Name:      "model_used_total",
			Help:      "Completed forecasts by the model that produced them.",
		}, []string{"model"}),
		FitDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "quake_forecast",
			Name:      "fit_duration_seconds",
			Help:      "Duration of a single strategy fit attempt.",
			Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		}, []string{"strategy"}),
		CacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "quake_forecast",
			Name:      "cache_lookups_total",
			Help:      "Response cache lookups by endpoint and result.",
		}, []string{"endpoint", "result"}),
		PublishErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "quake_forecast",
			Name:      "publish_errors_total",
			Help:      "Forecast outcomes that failed to publish.",
		}),
		PublisherEnabled: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "quake_forecast",
			Name:      "publisher_enabled",
			Help:      "1 when outcome publishing is enabled, 0 otherwise.",
		}),
		ScheduledRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "quake_forecast",
			Name:      "scheduled_runs_total",
			Help:      "Background forecast runs by outcome.",
		}, []string{"outcome"}),
		SchedulerRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "quake_forecast",
			Name:      "scheduler_running",
			Help:      "1 when the periodic forecast scheduler is active, 0 when shut down.",
		}),
	}

	prometheus.MustRegister(
		m.ForecastRequests,
		m.RequestDuration,
		m.StrategyFailures,
		m.ModelUsed,
		m.FitDuration,
		m.CacheLookups,
		m.PublishErrors,
		m.PublisherEnabled,
		m.ScheduledRuns,
		m.SchedulerRunning,
	)

	return m
}

// NewMetricsForTesting creates Metrics with a fresh registry to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		ForecastRequests: prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "quake_forecast", Name: "requests_total"}, []string{"endpoint", "outcome"}),
		RequestDuration:  prometheus.NewHistogramVec(prometheus.HistogramOpts{Namespace: "quake_forecast", Name: "request_duration_seconds"}, []string{"endpoint"}),
		StrategyFailures: prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "quake_forecast", Name: "strategy_failures_total"}, []string{"strategy"}),
		ModelUsed:        prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "quake_forecast", Name: "model_used_total"}, []string{"model"}),
		FitDuration:      prometheus.NewHistogramVec(prometheus.HistogramOpts{Namespace: "quake_forecast", Name: "fit_duration_seconds"}, []string{"strategy"}),
		CacheLookups:     prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "quake_forecast", Name: "cache_lookups_total"}, []string{"endpoint", "result"}),
		PublishErrors:    prometheus.NewCounter(prometheus.CounterOpts{Namespace: "quake_forecast", Name: "publish_errors_total"}),
		PublisherEnabled: prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "quake_forecast", Name: "publisher_enabled"}),
		ScheduledRuns:    prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "quake_forecast", Name: "scheduled_runs_total"}, []string{"outcome"}),
		SchedulerRunning: prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "quake_forecast", Name: "scheduler_running"}),
	}
}
