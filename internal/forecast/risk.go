package forecast

import (
	"github.com/tremorline/quake-forecast-service/internal/domain"
)

// ClassifyRisk maps each day of a count forecast onto a risk tier using the
// window's quantile thresholds. Days are classified independently: no
// smoothing or accumulation across the horizon, and the thresholds never move
// in response to forecast values. Boundaries are exclusive, so a predicted
// count exactly equal to q75 is Medium, not High.
func ClassifyRisk(points []domain.ForecastPoint, thresholds domain.RiskThresholds) []domain.RiskPoint {
	risks := make([]domain.RiskPoint, len(points))
	for i, p := range points {
		count := int(p.Estimate)

		level, score := domain.RiskLow, 1
		switch {
		case float64(count) > thresholds.Q75:
			level, score = domain.RiskHigh, 3
		case float64(count) > thresholds.Q50:
			level, score = domain.RiskMedium, 2
		}

		risks[i] = domain.RiskPoint{
			Date:           p.Date,
			PredictedCount: count,
			Level:          level,
			Score:          score,
			Lower:          int(p.Lower),
			Upper:          int(p.Upper),
		}
	}
	return risks
}

// RiskSummary aggregates a classified horizon: days per tier and the average
// predicted count across the horizon.
type RiskSummary struct {
	HighDays          int     `json:"high_risk_days"`
	MediumDays        int     `json:"medium_risk_days"`
	LowDays           int     `json:"low_risk_days"`
	AvgPredictedCount float64 `json:"avg_predicted_count"`
}

// SummarizeRisk tallies tier counts and the horizon-wide mean predicted count.
func SummarizeRisk(points []domain.RiskPoint) RiskSummary {
	var s RiskSummary
	var total int
	for _, p := range points {
		switch p.Level {
		case domain.RiskHigh:
			s.HighDays++
		case domain.RiskMedium:
			s.MediumDays++
		default:
			s.LowDays++
		}
		total += p.PredictedCount
	}
	if len(points) > 0 {
		s.AvgPredictedCount = float64(total) / float64(len(points))
	}
	return s
}
