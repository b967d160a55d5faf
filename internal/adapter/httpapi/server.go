// Package httpapi exposes the forecast endpoints plus health, readiness, and
// metrics routes.
package httpapi

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tremorline/quake-forecast-service/internal/forecast"
	"github.com/tremorline/quake-forecast-service/internal/observability"
)

// ForecastService is the operation surface the handlers call into.
type ForecastService interface {
	CountForecast(ctx context.Context, horizon int, preferredModel string) (forecast.CountResponse, error)
	MagnitudeForecast(ctx context.Context, horizon int) (forecast.MagnitudeResponse, error)
	RiskForecast(ctx context.Context, horizon int) (forecast.RiskResponse, error)
	RunAndPublish(ctx context.Context, horizon int) error
}

// ReadinessChecker reports whether the service is ready to serve traffic.
type ReadinessChecker interface {
	CheckReadiness(ctx context.Context) error
}

// Server exposes the forecast API.
type Server struct {
	httpServer     *http.Server
	service        ForecastService
	logger         *slog.Logger
	metrics        *observability.Metrics
	requestTimeout time.Duration
}

// NewServer creates an HTTP server with the forecast API and operational routes.
func NewServer(addr string, service ForecastService, ready ReadinessChecker, requestTimeout time.Duration, logger *slog.Logger, metrics *observability.Metrics) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 60 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		service:        service,
		logger:         logger,
		metrics:        metrics,
		requestTimeout: requestTimeout,
	}

	mux.HandleFunc("GET /api/predictions/forecast", s.handleCountForecast)
	mux.HandleFunc("GET /api/predictions/magnitude-forecast", s.handleMagnitudeForecast)
	mux.HandleFunc("GET /api/predictions/risk-forecast", s.handleRiskForecast)
	mux.HandleFunc("POST /api/predictions/run", s.handleRun)

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", handleReady(ready))
	mux.Handle("GET /metrics", promhttp.Handler())

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func handleReady(checker ReadinessChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := checker.CheckReadiness(ctx); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "not ready",
				"error":  err.Error(),
			})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	}
}
