package domain

import "fmt"

// MinObservedDays is the global precondition for any forecast attempt: the
// trailing window must contain at least this many days with observations.
const MinObservedDays = 14

// InsufficientDataError reports a trailing window with too few qualifying days
// for the requested metric. Recoverable by the caller waiting for more history.
type InsufficientDataError struct {
	Metric Metric
	Days   int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("insufficient data for %s forecast: %d qualifying days, need at least %d",
		e.Metric, e.Days, MinObservedDays)
}

// InvalidHorizonError reports a forecast horizon outside the allowed range.
type InvalidHorizonError struct {
	Horizon int
}

func (e *InvalidHorizonError) Error() string {
	return fmt.Sprintf("invalid forecast horizon %d: must be between %d and %d days",
		e.Horizon, MinHorizonDays, MaxHorizonDays)
}

// InvalidMetricError reports an unrecognized forecast metric.
type InvalidMetricError struct {
	Value string
}

func (e *InvalidMetricError) Error() string {
	return fmt.Sprintf("invalid forecast metric %q: must be %q or %q", e.Value, MetricCount, MetricMagnitude)
}
