package forecast

import (
	"fmt"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/tremorline/quake-forecast-service/internal/domain"
)

// seasonalInterval is the multiplier for a 95% confidence band around the
// seasonal fit, applied to the in-sample residual standard deviation.
const seasonalInterval = 1.96

// SeasonalTrend is the preferred strategy: a least-squares fit of a linear
// trend plus weekly seasonal components (weekday offsets, Sunday as baseline)
// over the full trailing window. The fit fails on constant series and on
// sub-series whose dates never cover a weekday, both of which leave the
// design matrix rank-deficient.
type SeasonalTrend struct{}

func (SeasonalTrend) Name() string { return ModelSeasonalTrend }

func (SeasonalTrend) Forecast(series domain.MetricSeries, horizon int) ([]domain.ForecastPoint, error) {
	n := len(series.Values)
	if n < domain.MinObservedDays {
		return nil, fmt.Errorf("seasonal fit needs %d points, have %d", domain.MinObservedDays, n)
	}
	if stat.PopVariance(series.Values, nil) == 0 {
		return nil, errZeroVariance
	}

	origin := series.Dates[0]
	rows := make([][]float64, n)
	for i, d := range series.Dates {
		rows[i] = seasonalRow(origin, d)
	}

	coeffs, residStd, err := fitLeastSquares(rows, series.Values)
	if err != nil {
		return nil, err
	}

	margin := seasonalInterval * residStd
	points := make([]domain.ForecastPoint, horizon)
	for h := 1; h <= horizon; h++ {
		date := forecastDate(series.End, h)
		estimate := floats.Dot(coeffs, seasonalRow(origin, date))
		points[h-1] = domain.ForecastPoint{
			Date:     date,
			Estimate: estimate,
			Lower:    estimate - margin,
			Upper:    estimate + margin,
		}
	}
	return points, nil
}

// seasonalRow builds one design matrix row: intercept, days since the series
// origin, and six weekday indicator columns.
func seasonalRow(origin, date time.Time) []float64 {
	row := make([]float64, 8)
	row[0] = 1
	row[1] = date.Sub(origin).Hours() / 24
	if wd := int(date.Weekday()); wd != 0 {
		row[1+wd] = 1
	}
	return row
}
