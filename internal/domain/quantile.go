package domain

import (
	"math"
	"sort"
	"time"
)

// RiskLevel is the categorical outlook for one forecast day.
type RiskLevel string

const (
	RiskLow    RiskLevel = "Low"
	RiskMedium RiskLevel = "Medium"
	RiskHigh   RiskLevel = "High"
)

// RiskPoint is one forecast day classified against the window's quantile
// thresholds. Score is the ordinal form of Level: Low=1, Medium=2, High=3.
type RiskPoint struct {
	Date           time.Time `json:"date"`
	PredictedCount int       `json:"predicted_count"`
	Level          RiskLevel `json:"risk_level"`
	Score          int       `json:"risk_score"`
	Lower          int       `json:"lower_bound"`
	Upper          int       `json:"upper_bound"`
}

// RiskThresholds holds the 50th and 75th percentile of the historical daily
// counts. Computed once per request and applied unchanged across the horizon;
// forecast days never feed back into threshold computation.
type RiskThresholds struct {
	Q50 float64
	Q75 float64
}

// RiskThresholds derives the classification boundaries from the window's counts.
func (s HistoricalSeries) RiskThresholds() RiskThresholds {
	counts := s.Counts()
	return RiskThresholds{
		Q50: Percentile(counts, 0.50),
		Q75: Percentile(counts, 0.75),
	}
}

// Percentile computes the p-th quantile (p in [0,1]) of values using linear
// interpolation between order statistics, the same convention the upstream
// analytics store uses for its quantile aggregates.
func Percentile(values []float64, p float64) float64 {
	if len(values) == 0 {
		return 0
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	if len(sorted) == 1 {
		return sorted[0]
	}

	rank := p * float64(len(sorted)-1)
	lo := int(math.Floor(rank))
	if lo >= len(sorted)-1 {
		return sorted[len(sorted)-1]
	}
	frac := rank - float64(lo)
	return sorted[lo] + frac*(sorted[lo+1]-sorted[lo])
}
