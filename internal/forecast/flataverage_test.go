package forecast

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tremorline/quake-forecast-service/internal/domain"
)

func TestFlatAverage_ConstantBandAroundMean(t *testing.T) {
	series := makeMetricSeries(domain.MetricCount, []float64{4, 6, 5, 5, 4, 6})

	points, err := FlatAverage{}.Forecast(series, 7)
	require.NoError(t, err)
	require.Len(t, points, 7)

	for h, p := range points {
		assert.InDelta(t, 5.0, p.Estimate, 1e-9)
		assert.InDelta(t, 4.0, p.Lower, 1e-9)
		assert.InDelta(t, 6.0, p.Upper, 1e-9)
		assert.Equal(t, seriesEnd.AddDate(0, 0, h+1), p.Date)
	}
}

func TestFlatAverage_NeverFailsOnDegenerateSeries(t *testing.T) {
	cases := map[string][]float64{
		"constant":     {3, 3, 3, 3},
		"single point": {9},
		"zeros":        {0, 0, 0},
	}
	for name, values := range cases {
		t.Run(name, func(t *testing.T) {
			points, err := FlatAverage{}.Forecast(makeMetricSeries(domain.MetricCount, values), 3)
			require.NoError(t, err)
			assert.Len(t, points, 3)
		})
	}
}
