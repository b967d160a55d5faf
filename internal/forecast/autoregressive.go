package forecast

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/tremorline/quake-forecast-service/internal/domain"
)

// arInterval is the 95% multiplier applied to the residual standard deviation.
const arInterval = 1.96

// Autoregressive fits a low-order autoregressive model on the first
// differences of the series (an integrated model, so forecasts are rebuilt by
// cumulative summation from the last observed level). The lag order depends
// on window length: 2 for windows of more than 30 points, 1 otherwise.
//
// Count forecasts get a flat ±1.96σ band from the in-sample residuals.
// Magnitude forecasts get the model's native band, which widens with the
// square root of the step because forecast variance accumulates through the
// integration.
type Autoregressive struct{}

func (Autoregressive) Name() string { return ModelAutoregressive }

func (Autoregressive) Forecast(series domain.MetricSeries, horizon int) ([]domain.ForecastPoint, error) {
	values := series.Values
	n := len(values)
	if n < domain.MinObservedDays {
		return nil, fmt.Errorf("autoregressive fit needs %d points, have %d", domain.MinObservedDays, n)
	}
	if stat.PopVariance(values, nil) == 0 {
		return nil, errZeroVariance
	}

	order := 1
	if n > 30 {
		order = 2
	}

	diffs := make([]float64, n-1)
	for i := range diffs {
		diffs[i] = values[i+1] - values[i]
	}

	rows := make([][]float64, 0, len(diffs)-order)
	obs := make([]float64, 0, len(diffs)-order)
	for t := order; t < len(diffs); t++ {
		row := make([]float64, order+1)
		row[0] = 1
		for lag := 1; lag <= order; lag++ {
			row[lag] = diffs[t-lag]
		}
		rows = append(rows, row)
		obs = append(obs, diffs[t])
	}

	coeffs, residStd, err := fitLeastSquares(rows, obs)
	if err != nil {
		return nil, err
	}

	// Iterate the fitted difference equation forward, carrying the most
	// recent differences and accumulating the forecast level.
	recent := make([]float64, order)
	for lag := 1; lag <= order; lag++ {
		recent[lag-1] = diffs[len(diffs)-lag]
	}
	level := values[n-1]

	points := make([]domain.ForecastPoint, horizon)
	for h := 1; h <= horizon; h++ {
		next := coeffs[0]
		for lag := 1; lag <= order; lag++ {
			next += coeffs[lag] * recent[lag-1]
		}
		level += next
		copy(recent[1:], recent[:order-1])
		recent[0] = next

		margin := arInterval * residStd
		if series.Metric == domain.MetricMagnitude {
			margin *= math.Sqrt(float64(h))
		}
		points[h-1] = domain.ForecastPoint{
			Date:     forecastDate(series.End, h),
			Estimate: level,
			Lower:    level - margin,
			Upper:    level + margin,
		}
	}
	return points, nil
}
