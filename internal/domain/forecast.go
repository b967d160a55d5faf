package domain

import "time"

const (
	// MinHorizonDays and MaxHorizonDays bound the forecast horizon.
	MinHorizonDays = 1
	MaxHorizonDays = 30
)

// ForecastPoint is one future day of a completed forecast.
// Invariant for count forecasts: 0 <= Lower <= Estimate <= Upper, enforced by
// the engine's clamping pass rather than by the strategies themselves.
type ForecastPoint struct {
	Date     time.Time `json:"date"`
	Estimate float64   `json:"estimate"`
	Lower    float64   `json:"lower_bound"`
	Upper    float64   `json:"upper_bound"`
}

// Trend summarizes the direction of a forecast across its horizon.
type Trend string

const (
	TrendIncreasing Trend = "increasing"
	TrendDecreasing Trend = "decreasing"
	TrendStable     Trend = "stable"
)

// AttemptStatus records whether a single strategy produced a usable forecast.
type AttemptStatus string

const (
	AttemptOk     AttemptStatus = "ok"
	AttemptFailed AttemptStatus = "failed"
)

// ModelAttemptResult is the transient record of one strategy's attempt within
// a cascade run. Points is populated only when Status is AttemptOk.
type ModelAttemptResult struct {
	Model  string
	Status AttemptStatus
	Points []ForecastPoint
	Reason string
}

// ForecastOutcome is the terminal result of one forecast request. ModelUsed
// names the strategy that actually produced the output, which differs from
// RequestedModel whenever the cascade had to fall back.
type ForecastOutcome struct {
	RequestedModel string
	ModelUsed      string
	Metric         Metric
	Horizon        int
	Points         []ForecastPoint
	Trend          Trend
	HistoricalMean float64
	ForecastMean   float64
}
