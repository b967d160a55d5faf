package domain

import (
	"time"
)

// Metric identifies which column of the daily aggregation a forecast targets.
type Metric string

const (
	MetricCount     Metric = "count"
	MetricMagnitude Metric = "magnitude"
)

// ParseMetric validates a metric name from an external request.
func ParseMetric(s string) (Metric, error) {
	switch Metric(s) {
	case MetricCount, MetricMagnitude:
		return Metric(s), nil
	default:
		return "", &InvalidMetricError{Value: s}
	}
}

// DailyAggregate is one row of the upstream daily aggregation query. Days with
// no events are absent from the aggregation entirely.
type DailyAggregate struct {
	Date         time.Time
	Count        int
	AvgMagnitude *float64
	MaxMagnitude *float64
}

// HistoricalPoint is one calendar day of the gap-filled trailing window.
// Magnitude fields are nil on days with no events.
type HistoricalPoint struct {
	Date         time.Time `json:"date"`
	Count        int       `json:"count"`
	AvgMagnitude *float64  `json:"avg_magnitude"`
	MaxMagnitude *float64  `json:"max_magnitude"`
}

// HistoricalSeries is an ordered, gap-free sequence of daily points covering
// exactly WindowDays consecutive calendar days ending at the current UTC day.
// Each forecast request owns its own freshly built series.
type HistoricalSeries struct {
	Points     []HistoricalPoint
	WindowDays int
}

// BuildSeries turns a sparse daily aggregation into a gap-filled series ending
// at the current UTC day. Missing days get count=0 and nil magnitudes.
// Returns InsufficientDataError when fewer than MinObservedDays days in the
// window have at least one event, regardless of the metric later requested.
func BuildSeries(aggregates []DailyAggregate, windowDays int) (HistoricalSeries, error) {
	end := dateOnly(clock.Now().UTC())
	start := end.AddDate(0, 0, -(windowDays - 1))

	byDate := make(map[time.Time]DailyAggregate, len(aggregates))
	for _, agg := range aggregates {
		byDate[dateOnly(agg.Date.UTC())] = agg
	}

	points := make([]HistoricalPoint, 0, windowDays)
	observed := 0
	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		p := HistoricalPoint{Date: day}
		if agg, ok := byDate[day]; ok {
			p.Count = agg.Count
			p.AvgMagnitude = agg.AvgMagnitude
			p.MaxMagnitude = agg.MaxMagnitude
		}
		if p.Count > 0 {
			observed++
		}
		points = append(points, p)
	}

	if observed < MinObservedDays {
		return HistoricalSeries{}, &InsufficientDataError{Metric: MetricCount, Days: observed}
	}

	return HistoricalSeries{Points: points, WindowDays: windowDays}, nil
}

// End returns the last calendar day of the window.
func (s HistoricalSeries) End() time.Time {
	return s.Points[len(s.Points)-1].Date
}

// Counts returns the daily event counts as floats, one per window day.
func (s HistoricalSeries) Counts() []float64 {
	counts := make([]float64, len(s.Points))
	for i, p := range s.Points {
		counts[i] = float64(p.Count)
	}
	return counts
}

// MetricSeries is the numeric sub-series a strategy fits against. For the
// count metric it spans every window day; for magnitude it skips days with no
// events, so Dates may be non-contiguous.
type MetricSeries struct {
	Metric Metric
	Dates  []time.Time
	Values []float64
	End    time.Time
}

// MetricSeries extracts the fit-ready sub-series for the given metric.
// The magnitude sub-series re-checks the minimum history requirement because
// quiet days carry no average magnitude.
func (s HistoricalSeries) MetricSeries(metric Metric) (MetricSeries, error) {
	ms := MetricSeries{Metric: metric, End: s.End()}

	switch metric {
	case MetricCount:
		ms.Dates = make([]time.Time, len(s.Points))
		ms.Values = make([]float64, len(s.Points))
		for i, p := range s.Points {
			ms.Dates[i] = p.Date
			ms.Values[i] = float64(p.Count)
		}
	case MetricMagnitude:
		for _, p := range s.Points {
			if p.AvgMagnitude == nil {
				continue
			}
			ms.Dates = append(ms.Dates, p.Date)
			ms.Values = append(ms.Values, *p.AvgMagnitude)
		}
		if len(ms.Values) < MinObservedDays {
			return MetricSeries{}, &InsufficientDataError{Metric: MetricMagnitude, Days: len(ms.Values)}
		}
	default:
		return MetricSeries{}, &InvalidMetricError{Value: string(metric)}
	}

	return ms, nil
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
