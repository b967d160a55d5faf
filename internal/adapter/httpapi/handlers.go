package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/tremorline/quake-forecast-service/internal/domain"
	"github.com/tremorline/quake-forecast-service/internal/forecast"
)

const defaultHorizonDays = 7

func (s *Server) handleCountForecast(w http.ResponseWriter, r *http.Request) {
	s.instrumented(w, r, "forecast", func(ctx context.Context) (any, error) {
		days, err := parseDays(r)
		if err != nil {
			return nil, err
		}
		return s.service.CountForecast(ctx, days, r.URL.Query().Get("model"))
	})
}

func (s *Server) handleMagnitudeForecast(w http.ResponseWriter, r *http.Request) {
	s.instrumented(w, r, "magnitude", func(ctx context.Context) (any, error) {
		days, err := parseDays(r)
		if err != nil {
			return nil, err
		}
		return s.service.MagnitudeForecast(ctx, days)
	})
}

func (s *Server) handleRiskForecast(w http.ResponseWriter, r *http.Request) {
	s.instrumented(w, r, "risk", func(ctx context.Context) (any, error) {
		days, err := parseDays(r)
		if err != nil {
			return nil, err
		}
		return s.service.RiskForecast(ctx, days)
	})
}

// handleRun accepts the request, then runs the forecast and publishes the
// outcome in the background. Failures surface in logs and metrics only.
func (s *Server) handleRun(w http.ResponseWriter, r *http.Request) {
	days, err := parseDays(r)
	if err != nil {
		s.metrics.ForecastRequests.WithLabelValues("run", "client_error").Inc()
		writeError(w, http.StatusBadRequest, err)
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.requestTimeout)
		defer cancel()

		if err := s.service.RunAndPublish(ctx, days); err != nil {
			s.logger.Error("background forecast run failed", "days", days, "error", err)
			s.metrics.ForecastRequests.WithLabelValues("run", "server_error").Inc()
			return
		}
		s.metrics.ForecastRequests.WithLabelValues("run", "success").Inc()
	}()

	writeJSON(w, http.StatusAccepted, map[string]any{
		"status": "accepted",
		"days":   days,
	})
}

// instrumented wraps a handler body with the request timeout, error mapping,
// and per-endpoint metrics.
func (s *Server) instrumented(w http.ResponseWriter, r *http.Request, endpoint string, fn func(ctx context.Context) (any, error)) {
	ctx, cancel := context.WithTimeout(r.Context(), s.requestTimeout)
	defer cancel()

	start := time.Now()
	payload, err := fn(ctx)
	s.metrics.RequestDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())

	if err != nil {
		status := statusFor(err)
		outcome := "client_error"
		if status >= 500 {
			outcome = "server_error"
			s.logger.Error("forecast request failed", "endpoint", endpoint, "error", err)
		}
		s.metrics.ForecastRequests.WithLabelValues(endpoint, outcome).Inc()
		writeError(w, status, err)
		return
	}

	s.metrics.ForecastRequests.WithLabelValues(endpoint, "success").Inc()
	writeJSON(w, http.StatusOK, payload)
}

// badRequestError marks malformed query input that never reached the service.
type badRequestError struct {
	msg string
}

func (e *badRequestError) Error() string { return e.msg }

// statusFor maps service errors onto HTTP statuses. Bad input is the caller's
// fault, an unreachable catalog is the upstream's, everything else is ours.
func statusFor(err error) int {
	var (
		badRequest     *badRequestError
		invalidHorizon *domain.InvalidHorizonError
		invalidMetric  *domain.InvalidMetricError
		insufficient   *domain.InsufficientDataError
		unknownModel   *forecast.UnknownModelError
		unavailable    *forecast.SourceUnavailableError
	)
	switch {
	case errors.As(err, &badRequest),
		errors.As(err, &invalidHorizon),
		errors.As(err, &invalidMetric),
		errors.As(err, &insufficient),
		errors.As(err, &unknownModel):
		return http.StatusBadRequest
	case errors.As(err, &unavailable):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func parseDays(r *http.Request) (int, error) {
	raw := r.URL.Query().Get("days")
	if raw == "" {
		return defaultHorizonDays, nil
	}
	days, err := strconv.Atoi(raw)
	if err != nil {
		return 0, &badRequestError{msg: fmt.Sprintf("invalid days value %q: must be an integer", raw)}
	}
	return days, nil
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort response write
}
