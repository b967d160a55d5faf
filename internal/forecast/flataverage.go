package forecast

import (
	"gonum.org/v1/gonum/stat"

	"github.com/tremorline/quake-forecast-service/internal/domain"
)

// flatBandFraction is the fixed band width around the historical mean.
const flatBandFraction = 0.2

// FlatAverage is the guaranteed terminus of the cascade: the historical mean
// as a constant prediction with a fixed ±20% band. It never fails, which is
// what makes total cascade exhaustion impossible.
type FlatAverage struct{}

func (FlatAverage) Name() string { return ModelFlatAverage }

func (FlatAverage) Forecast(series domain.MetricSeries, horizon int) ([]domain.ForecastPoint, error) {
	mean := stat.Mean(series.Values, nil)

	points := make([]domain.ForecastPoint, horizon)
	for h := 1; h <= horizon; h++ {
		points[h-1] = domain.ForecastPoint{
			Date:     forecastDate(series.End, h),
			Estimate: mean,
			Lower:    mean * (1 - flatBandFraction),
			Upper:    mean * (1 + flatBandFraction),
		}
	}
	return points, nil
}
