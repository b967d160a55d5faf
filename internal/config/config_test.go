package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const defaultBroker = "localhost:9092"

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8004", cfg.HTTPAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, 30*time.Second, cfg.RequestTimeout)
	assert.Contains(t, cfg.DatabaseURL, "earthquake_db")
	assert.Equal(t, 90, cfg.WindowDays)
	assert.Equal(t, 256, cfg.CacheSize)
	assert.False(t, cfg.KafkaEnabled)
	assert.Equal(t, []string{defaultBroker}, cfg.KafkaBrokers)
	assert.Equal(t, "forecast-outcomes", cfg.KafkaOutcomeTopic)
	assert.False(t, cfg.ScheduleEnabled)
	assert.Equal(t, 6*time.Hour, cfg.ScheduleInterval)
	assert.Equal(t, 7, cfg.ScheduleHorizon)
}

func TestLoad_CustomEnv(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "text")
	t.Setenv("SHUTDOWN_TIMEOUT", "30s")
	t.Setenv("REQUEST_TIMEOUT", "5s")
	t.Setenv("DATABASE_URL", "postgres://user:pass@db:5432/quakes?sslmode=disable")
	t.Setenv("WINDOW_DAYS", "120")
	t.Setenv("FORECAST_CACHE_SIZE", "0")
	t.Setenv("KAFKA_ENABLED", "true")
	t.Setenv("KAFKA_BROKERS", "broker1:9092,broker2:9092")
	t.Setenv("KAFKA_OUTCOME_TOPIC", "custom-outcomes")
	t.Setenv("SCHEDULE_ENABLED", "true")
	t.Setenv("SCHEDULE_INTERVAL", "1h")
	t.Setenv("SCHEDULE_HORIZON_DAYS", "14")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, 5*time.Second, cfg.RequestTimeout)
	assert.Equal(t, "postgres://user:pass@db:5432/quakes?sslmode=disable", cfg.DatabaseURL)
	assert.Equal(t, 120, cfg.WindowDays)
	assert.Equal(t, 0, cfg.CacheSize)
	assert.True(t, cfg.KafkaEnabled)
	assert.Equal(t, []string{"broker1:9092", "broker2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "custom-outcomes", cfg.KafkaOutcomeTopic)
	assert.True(t, cfg.ScheduleEnabled)
	assert.Equal(t, time.Hour, cfg.ScheduleInterval)
	assert.Equal(t, 14, cfg.ScheduleHorizon)
}

func TestLoad_InvalidShutdownTimeout(t *testing.T) {
	t.Setenv("SHUTDOWN_TIMEOUT", "not-a-duration")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SHUTDOWN_TIMEOUT")
}

func TestLoad_NegativeShutdownTimeout(t *testing.T) {
	t.Setenv("SHUTDOWN_TIMEOUT", "-1s")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SHUTDOWN_TIMEOUT")
}

func TestLoad_InvalidRequestTimeout(t *testing.T) {
	t.Setenv("REQUEST_TIMEOUT", "bad")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "REQUEST_TIMEOUT")
}

func TestLoad_WindowTooShort(t *testing.T) {
	t.Setenv("WINDOW_DAYS", "7")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "WINDOW_DAYS")
}

func TestLoad_WindowNotANumber(t *testing.T) {
	t.Setenv("WINDOW_DAYS", "ninety")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "WINDOW_DAYS")
}

func TestLoad_KafkaEnabledWithoutBrokers(t *testing.T) {
	t.Setenv("KAFKA_ENABLED", "true")
	t.Setenv("KAFKA_BROKERS", " ")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "KAFKA_BROKERS")
}

func TestLoad_KafkaDisabledByDefault(t *testing.T) {
	t.Setenv("KAFKA_BROKERS", "broker1:9092")
	cfg, err := Load()
	require.NoError(t, err)
	assert.False(t, cfg.KafkaEnabled)
}

func TestLoad_InvalidCacheSize(t *testing.T) {
	t.Setenv("FORECAST_CACHE_SIZE", "-5")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "FORECAST_CACHE_SIZE")
}

func TestLoad_ScheduleRequiresKafka(t *testing.T) {
	t.Setenv("SCHEDULE_ENABLED", "true")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "KAFKA_ENABLED")
}

func TestLoad_ScheduleHorizonOutOfRange(t *testing.T) {
	t.Setenv("SCHEDULE_HORIZON_DAYS", "45")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SCHEDULE_HORIZON_DAYS")
}

func TestLoad_InvalidScheduleInterval(t *testing.T) {
	t.Setenv("SCHEDULE_INTERVAL", "often")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SCHEDULE_INTERVAL")
}
