package forecast

import (
	"fmt"

	"gonum.org/v1/gonum/stat"

	"github.com/tremorline/quake-forecast-service/internal/domain"
)

const (
	// smoothingAlpha is the exponential moving average smoothing factor.
	smoothingAlpha = 0.3

	// slopeWindowCap bounds the trailing slice used for the slope fit.
	slopeWindowCap = 14
	slopeWindowMin = 3
)

// SmoothingTrend is the heuristic fallback when neither proper model
// converges: an exponentially-weighted moving average supplies the baseline
// level, a linear fit over the most recent third of the window (capped at 14
// points, at least 3) supplies the slope, and each future step projects
// baseline + slope·step. The margin widens linearly with the step index,
// 0.5·σ·(1 + 0.1·step), so bounds grow monotonically into the horizon.
type SmoothingTrend struct{}

func (SmoothingTrend) Name() string { return ModelSmoothing }

func (SmoothingTrend) Forecast(series domain.MetricSeries, horizon int) ([]domain.ForecastPoint, error) {
	values := series.Values
	n := len(values)
	if n < slopeWindowMin {
		return nil, fmt.Errorf("smoothing fit needs %d points, have %d", slopeWindowMin, n)
	}

	histStd := stat.PopStdDev(values, nil)
	if histStd == 0 {
		return nil, errZeroVariance
	}

	baseline := values[0]
	for _, v := range values[1:] {
		baseline = smoothingAlpha*v + (1-smoothingAlpha)*baseline
	}

	window := n / 3
	if window > slopeWindowCap {
		window = slopeWindowCap
	}
	if window < slopeWindowMin {
		window = slopeWindowMin
	}

	recent := values[n-window:]
	steps := make([]float64, window)
	for i := range steps {
		steps[i] = float64(i)
	}
	_, slope := stat.LinearRegression(steps, recent, nil, false)

	points := make([]domain.ForecastPoint, horizon)
	for i := 0; i < horizon; i++ {
		estimate := baseline + slope*float64(i+1)
		margin := 0.5 * histStd * (1 + 0.1*float64(i))
		points[i] = domain.ForecastPoint{
			Date:     forecastDate(series.End, i+1),
			Estimate: estimate,
			Lower:    estimate - margin,
			Upper:    estimate + margin,
		}
	}
	return points, nil
}
