package forecast

import (
	"math"

	"github.com/tremorline/quake-forecast-service/internal/domain"
)

const dateLayout = "2006-01-02"

// CountPoint is one forecast day of the count endpoint payload.
type CountPoint struct {
	Date           string `json:"date"`
	PredictedCount int    `json:"predicted_count"`
	LowerBound     int    `json:"lower_bound"`
	UpperBound     int    `json:"upper_bound"`
}

// Interval is the unrounded confidence band for one forecast day.
type Interval struct {
	Date  string  `json:"date"`
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
}

// CountSummary carries the historical and forecast means plus the trend label.
type CountSummary struct {
	AvgHistorical float64 `json:"avg_historical"`
	AvgForecast   float64 `json:"avg_forecast"`
	Trend         string  `json:"trend"`
}

// CountResponse is the payload of the count forecast endpoint.
type CountResponse struct {
	Model               string                   `json:"model"`
	ModelUsed           string                   `json:"model_used"`
	ForecastDays        int                      `json:"forecast_days"`
	HistoricalData      []domain.HistoricalPoint `json:"historical_data"`
	Forecast            []CountPoint             `json:"forecast"`
	ConfidenceIntervals []Interval               `json:"confidence_intervals"`
	Summary             CountSummary             `json:"summary"`
}

// MagnitudePoint is one forecast day of the magnitude endpoint payload.
type MagnitudePoint struct {
	Date               string  `json:"date"`
	PredictedMagnitude float64 `json:"predicted_magnitude"`
	LowerBound         float64 `json:"lower_bound"`
	UpperBound         float64 `json:"upper_bound"`
}

// MagnitudeSummary compares the window's average magnitude with the forecast's.
type MagnitudeSummary struct {
	HistoricalAvgMagnitude float64 `json:"historical_avg_magnitude"`
	ForecastAvgMagnitude   float64 `json:"forecast_avg_magnitude"`
}

// MagnitudeResponse is the payload of the magnitude forecast endpoint.
type MagnitudeResponse struct {
	ModelUsed         string           `json:"model_used"`
	ForecastDays      int              `json:"forecast_days"`
	MagnitudeForecast []MagnitudePoint `json:"magnitude_forecast"`
	Summary           MagnitudeSummary `json:"summary"`
}

// RiskEntry is one classified day of the risk endpoint payload.
type RiskEntry struct {
	Date            string          `json:"date"`
	PredictedCount  int             `json:"predicted_count"`
	RiskLevel       string          `json:"risk_level"`
	RiskScore       int             `json:"risk_score"`
	ConfidenceRange ConfidenceRange `json:"confidence_range"`
}

// ConfidenceRange is the rounded count band carried alongside a risk entry.
type ConfidenceRange struct {
	Lower int `json:"lower"`
	Upper int `json:"upper"`
}

// RiskResponse is the payload of the risk forecast endpoint.
type RiskResponse struct {
	ForecastDays int         `json:"forecast_days"`
	ModelUsed    string      `json:"model_used"`
	RiskForecast []RiskEntry `json:"risk_forecast"`
	Summary      RiskSummary `json:"summary"`
}

// AssembleCount shapes a completed count forecast into the response payload.
func AssembleCount(series domain.HistoricalSeries, outcome domain.ForecastOutcome) CountResponse {
	points := make([]CountPoint, len(outcome.Points))
	intervals := make([]Interval, len(outcome.Points))
	for i, p := range outcome.Points {
		date := p.Date.Format(dateLayout)
		points[i] = CountPoint{
			Date:           date,
			PredictedCount: int(p.Estimate),
			LowerBound:     int(p.Lower),
			UpperBound:     int(p.Upper),
		}
		intervals[i] = Interval{Date: date, Lower: p.Lower, Upper: p.Upper}
	}

	return CountResponse{
		Model:               outcome.RequestedModel,
		ModelUsed:           outcome.ModelUsed,
		ForecastDays:        outcome.Horizon,
		HistoricalData:      series.Points,
		Forecast:            points,
		ConfidenceIntervals: intervals,
		Summary: CountSummary{
			AvgHistorical: outcome.HistoricalMean,
			AvgForecast:   outcome.ForecastMean,
			Trend:         string(outcome.Trend),
		},
	}
}

// AssembleMagnitude shapes a completed magnitude forecast into the response payload.
func AssembleMagnitude(outcome domain.ForecastOutcome) MagnitudeResponse {
	points := make([]MagnitudePoint, len(outcome.Points))
	for i, p := range outcome.Points {
		points[i] = MagnitudePoint{
			Date:               p.Date.Format(dateLayout),
			PredictedMagnitude: p.Estimate,
			LowerBound:         p.Lower,
			UpperBound:         p.Upper,
		}
	}

	return MagnitudeResponse{
		ModelUsed:         outcome.ModelUsed,
		ForecastDays:      outcome.Horizon,
		MagnitudeForecast: points,
		Summary: MagnitudeSummary{
			HistoricalAvgMagnitude: math.Round(outcome.HistoricalMean*100) / 100,
			ForecastAvgMagnitude:   math.Round(outcome.ForecastMean*100) / 100,
		},
	}
}

// AssembleRisk shapes a classified count forecast into the response payload.
func AssembleRisk(outcome domain.ForecastOutcome, risks []domain.RiskPoint) RiskResponse {
	entries := make([]RiskEntry, len(risks))
	for i, r := range risks {
		entries[i] = RiskEntry{
			Date:            r.Date.Format(dateLayout),
			PredictedCount:  r.PredictedCount,
			RiskLevel:       string(r.Level),
			RiskScore:       r.Score,
			ConfidenceRange: ConfidenceRange{Lower: r.Lower, Upper: r.Upper},
		}
	}

	return RiskResponse{
		ForecastDays: outcome.Horizon,
		ModelUsed:    outcome.ModelUsed,
		RiskForecast: entries,
		Summary:      SummarizeRisk(risks),
	}
}
