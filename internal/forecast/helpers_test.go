package forecast

import (
	"time"

	"github.com/tremorline/quake-forecast-service/internal/domain"
)

var seriesEnd = time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)

// makeMetricSeries builds a fit-ready series of consecutive days ending at
// seriesEnd, one value per day.
func makeMetricSeries(metric domain.Metric, values []float64) domain.MetricSeries {
	n := len(values)
	dates := make([]time.Time, n)
	for i := range dates {
		dates[i] = seriesEnd.AddDate(0, 0, i-n+1)
	}
	return domain.MetricSeries{
		Metric: metric,
		Dates:  dates,
		Values: values,
		End:    seriesEnd,
	}
}

// makeHistory builds a gap-free window ending at seriesEnd with the given
// daily counts. Every day carries the same average magnitude.
func makeHistory(counts []int, avgMag float64) domain.HistoricalSeries {
	n := len(counts)
	points := make([]domain.HistoricalPoint, n)
	for i, c := range counts {
		mag := avgMag
		points[i] = domain.HistoricalPoint{
			Date:         seriesEnd.AddDate(0, 0, i-n+1),
			Count:        c,
			AvgMagnitude: &mag,
			MaxMagnitude: &mag,
		}
	}
	return domain.HistoricalSeries{Points: points, WindowDays: n}
}

func repeatCounts(value, n int) []int {
	counts := make([]int, n)
	for i := range counts {
		counts[i] = value
	}
	return counts
}
