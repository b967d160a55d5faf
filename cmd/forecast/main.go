package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/tremorline/quake-forecast-service/internal/adapter/httpapi"
	kafkaadapter "github.com/tremorline/quake-forecast-service/internal/adapter/kafka"
	"github.com/tremorline/quake-forecast-service/internal/adapter/postgres"
	"github.com/tremorline/quake-forecast-service/internal/config"
	"github.com/tremorline/quake-forecast-service/internal/forecast"
	"github.com/tremorline/quake-forecast-service/internal/observability"
	"github.com/tremorline/quake-forecast-service/internal/schedule"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	source, err := postgres.Connect(ctx, cfg.DatabaseURL, logger)
	if err != nil {
		logger.Error("failed to connect to catalog database", "error", err)
		os.Exit(1)
	}

	// Initialize the outcome publisher (feature-flagged via KAFKA_ENABLED).
	var publisher forecast.OutcomePublisher
	var kafkaPublisher *kafkaadapter.Publisher
	if cfg.KafkaEnabled {
		kafkaPublisher = kafkaadapter.NewPublisher(cfg, logger)
		publisher = kafkaPublisher
		metrics.PublisherEnabled.Set(1)
		logger.Info("outcome publishing enabled", "topic", cfg.KafkaOutcomeTopic, "brokers", cfg.KafkaBrokers)
	} else {
		logger.Info("outcome publishing disabled")
	}

	engine := forecast.NewEngine(logger, metrics)

	var service forecast.Provider = forecast.NewService(source, engine, publisher, cfg.WindowDays, logger, metrics)
	if cfg.CacheSize > 0 {
		service = forecast.NewCachedService(service, cfg.CacheSize, metrics)
		logger.Info("response caching enabled", "max_entries", cfg.CacheSize)
	}

	srv := httpapi.NewServer(cfg.HTTPAddr, service, source, cfg.RequestTimeout, logger, metrics)

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	// Start the periodic forecast scheduler (feature-flagged via SCHEDULE_ENABLED).
	if cfg.ScheduleEnabled {
		runner := schedule.New(service, cfg.ScheduleInterval, cfg.ScheduleHorizon, logger, metrics)
		go func() {
			if err := runner.Run(ctx); err != nil {
				logger.Error("scheduler error", "error", err)
			}
		}()
	}

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if kafkaPublisher != nil {
		if err := kafkaPublisher.Close(); err != nil {
			logger.Error("kafka publisher close error", "error", err)
		}
	}
	if err := source.Close(); err != nil {
		logger.Error("catalog database close error", "error", err)
	}

	logger.Info("shutdown complete")
}
