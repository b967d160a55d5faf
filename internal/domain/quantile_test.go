package domain

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPercentile(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		p      float64
		want   float64
	}{
		{"median of odd-length series", []float64{3, 1, 2}, 0.50, 2},
		{"median interpolates between middle pair", []float64{1, 2, 3, 4}, 0.50, 2.5},
		{"q75 interpolates", []float64{1, 2, 3, 4}, 0.75, 3.25},
		{"p0 is the minimum", []float64{5, 1, 9}, 0, 1},
		{"p1 is the maximum", []float64{5, 1, 9}, 1, 9},
		{"single value", []float64{7}, 0.75, 7},
		{"empty slice", nil, 0.5, 0},
		{"constant series", []float64{5, 5, 5, 5}, 0.75, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Percentile(tt.values, tt.p), 1e-12)
		})
	}
}

// referencePercentile is an independent implementation of the linear
// interpolation convention, used to cross-check Percentile over a sweep.
func referencePercentile(values []float64, p float64) float64 {
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	n := len(sorted)
	rank := p * float64(n-1)
	lo := int(rank)
	hi := lo + 1
	if hi >= n {
		return sorted[n-1]
	}
	return sorted[lo]*(float64(hi)-rank) + sorted[hi]*(rank-float64(lo))
}

func TestPercentileMatchesReference(t *testing.T) {
	values := []float64{0, 0, 1, 1, 2, 3, 3, 4, 5, 5, 6, 8, 9, 12, 15, 20}

	for p := 0.0; p <= 1.0; p += 0.05 {
		assert.InDelta(t, referencePercentile(values, p), Percentile(values, p), 1e-12, "p=%v", p)
	}
}

func TestRiskThresholds(t *testing.T) {
	freezeClock(t)

	t.Run("thresholds equal window percentiles", func(t *testing.T) {
		aggs := denseAggregates(90, 0, 0)
		for i := range aggs {
			aggs[i].Count = i % 10 // 0..9 repeating
		}
		series, err := BuildSeries(aggs, 90)
		require.NoError(t, err)

		counts := series.Counts()
		thresholds := series.RiskThresholds()

		assert.InDelta(t, referencePercentile(counts, 0.50), thresholds.Q50, 1e-12)
		assert.InDelta(t, referencePercentile(counts, 0.75), thresholds.Q75, 1e-12)
	})

	t.Run("constant counts collapse both thresholds", func(t *testing.T) {
		series, err := BuildSeries(denseAggregates(90, 5, 4.0), 90)
		require.NoError(t, err)

		thresholds := series.RiskThresholds()
		assert.Equal(t, 5.0, thresholds.Q50)
		assert.Equal(t, 5.0, thresholds.Q75)
	})
}
