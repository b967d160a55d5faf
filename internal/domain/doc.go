// Package domain models the daily-aggregated earthquake time series that every
// forecast is fitted against.
//
// # Data Source
//
// The catalog service ingests raw events from the USGS earthquake feed and
// stores them in Postgres. Forecasting consumes only one contract from it: a
// daily aggregation of (date, event count, average magnitude, maximum
// magnitude) over a trailing window, produced by grouping event timestamps by
// calendar day. Days with no events are absent from the aggregation and are
// zero-filled here.
//
// # Trailing Window
//
// Every forecast trains on a fixed-length window (default 90 days) ending at
// the current UTC day, regardless of the requested horizon. Decoupling window
// length from horizon guarantees a stable minimum sample even for one-day
// forecasts. The window end comes from the package clock so tests can freeze
// "now" via [SetClock].
//
// # Minimum History
//
// A forecast needs at least 14 days with observed events. For magnitude
// forecasts the rule is applied twice: a quiet day still contributes a zero to
// the count series, but it has no average magnitude, so the magnitude
// sub-series drops nil-magnitude days and re-checks the minimum on what
// remains.
//
// # Quantile Thresholds
//
// Risk classification uses the 50th and 75th percentiles of the window's daily
// counts as fixed boundaries. Percentiles are computed with linear
// interpolation between order statistics, matching the semantics of the
// upstream analytics store. See [Percentile].
package domain
