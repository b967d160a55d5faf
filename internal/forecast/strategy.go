// Package forecast implements the cascading forecasting engine: an ordered
// chain of model strategies tried against the trailing window until one
// succeeds, followed by domain clamping, trend classification, and risk
// tier derivation.
package forecast

import (
	"time"

	"github.com/tremorline/quake-forecast-service/internal/domain"
)

// Strategy names, in cascade order. The order is fixed by design: a caller's
// model preference is recorded in the outcome but never reorders the chain.
const (
	ModelSeasonalTrend  = "seasonal_trend"
	ModelAutoregressive = "autoregressive"
	ModelSmoothing      = "smoothing"
	ModelFlatAverage    = "flat_average"
)

// ModelAttempt is one strategy in the cascade. Forecast returns raw,
// unclamped per-day points for the requested horizon, or an error when the
// fit is numerically unusable (singular design, zero variance, short series).
// Implementations must be deterministic: identical input always produces
// identical output.
type ModelAttempt interface {
	Name() string
	Forecast(series domain.MetricSeries, horizon int) ([]domain.ForecastPoint, error)
}

// forecastDate returns the calendar day for the given 1-based horizon step.
func forecastDate(end time.Time, step int) time.Time {
	return end.AddDate(0, 0, step)
}
