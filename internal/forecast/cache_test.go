package forecast

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tremorline/quake-forecast-service/internal/observability"
)

// --- mock for cache tests ---

type countingProvider struct {
	countCalls int
	magCalls   int
	riskCalls  int
	runCalls   int
	err        error
}

func (m *countingProvider) CountForecast(_ context.Context, horizon int, _ string) (CountResponse, error) {
	m.countCalls++
	return CountResponse{ForecastDays: horizon}, m.err
}

func (m *countingProvider) MagnitudeForecast(_ context.Context, horizon int) (MagnitudeResponse, error) {
	m.magCalls++
	return MagnitudeResponse{ForecastDays: horizon}, m.err
}

func (m *countingProvider) RiskForecast(_ context.Context, horizon int) (RiskResponse, error) {
	m.riskCalls++
	return RiskResponse{ForecastDays: horizon}, m.err
}

func (m *countingProvider) RunAndPublish(_ context.Context, _ int) error {
	m.runCalls++
	return m.err
}

func newCachedForTest(inner Provider) *CachedService {
	return NewCachedService(inner, 10, observability.NewMetricsForTesting())
}

// --- CachedService tests ---

func TestCachedService_CountForecastHit(t *testing.T) {
	inner := &countingProvider{}
	cached := newCachedForTest(inner)

	r1, err := cached.CountForecast(context.Background(), 7, "")
	require.NoError(t, err)
	assert.Equal(t, 7, r1.ForecastDays)

	r2, err := cached.CountForecast(context.Background(), 7, "")
	require.NoError(t, err)
	assert.Equal(t, 7, r2.ForecastDays)

	assert.Equal(t, 1, inner.countCalls, "should only call inner once")
}

func TestCachedService_DifferentParamsMiss(t *testing.T) {
	inner := &countingProvider{}
	cached := newCachedForTest(inner)

	_, _ = cached.CountForecast(context.Background(), 7, "")
	_, _ = cached.CountForecast(context.Background(), 14, "")
	_, _ = cached.CountForecast(context.Background(), 7, "autoregressive")

	assert.Equal(t, 3, inner.countCalls)
}

func TestCachedService_EndpointsCachedSeparately(t *testing.T) {
	inner := &countingProvider{}
	cached := newCachedForTest(inner)

	_, _ = cached.CountForecast(context.Background(), 7, "")
	_, _ = cached.MagnitudeForecast(context.Background(), 7)
	_, _ = cached.RiskForecast(context.Background(), 7)
	_, _ = cached.MagnitudeForecast(context.Background(), 7)
	_, _ = cached.RiskForecast(context.Background(), 7)

	assert.Equal(t, 1, inner.countCalls)
	assert.Equal(t, 1, inner.magCalls)
	assert.Equal(t, 1, inner.riskCalls)
}

func TestCachedService_ErrorsNotCached(t *testing.T) {
	inner := &countingProvider{err: errors.New("catalog down")}
	cached := newCachedForTest(inner)

	_, err := cached.CountForecast(context.Background(), 7, "")
	require.Error(t, err)

	inner.err = nil
	_, err = cached.CountForecast(context.Background(), 7, "")
	require.NoError(t, err)

	assert.Equal(t, 2, inner.countCalls, "failed lookup must not populate the cache")
}

func TestCachedService_EntriesExpireAtDayRollover(t *testing.T) {
	inner := &countingProvider{}
	cached := newCachedForTest(inner)

	now := time.Date(2024, 6, 15, 23, 0, 0, 0, time.UTC)
	cached.clock = func() time.Time { return now }

	_, _ = cached.CountForecast(context.Background(), 7, "")
	_, _ = cached.CountForecast(context.Background(), 7, "")
	assert.Equal(t, 1, inner.countCalls)

	now = now.Add(2 * time.Hour) // crosses midnight UTC
	_, _ = cached.CountForecast(context.Background(), 7, "")
	assert.Equal(t, 2, inner.countCalls, "new day must bypass yesterday's entry")
}

func TestCachedService_RunAndPublishNeverCached(t *testing.T) {
	inner := &countingProvider{}
	cached := newCachedForTest(inner)

	require.NoError(t, cached.RunAndPublish(context.Background(), 7))
	require.NoError(t, cached.RunAndPublish(context.Background(), 7))
	assert.Equal(t, 2, inner.runCalls)
}

// --- LRU cache unit tests ---

func TestLRUCache_BasicGetPut(t *testing.T) {
	c := newLRUCache(3)

	c.put("a", "A")
	c.put("b", "B")

	value, ok := c.get("a")
	assert.True(t, ok)
	assert.Equal(t, "A", value)

	_, ok = c.get("missing")
	assert.False(t, ok)
}

func TestLRUCache_Eviction(t *testing.T) {
	c := newLRUCache(2)

	c.put("a", "A")
	c.put("b", "B")
	c.put("c", "C") // evicts "a"

	_, ok := c.get("a")
	assert.False(t, ok, "a should have been evicted")

	value, ok := c.get("b")
	assert.True(t, ok)
	assert.Equal(t, "B", value)

	value, ok = c.get("c")
	assert.True(t, ok)
	assert.Equal(t, "C", value)
}

func TestLRUCache_AccessPromotesEntry(t *testing.T) {
	c := newLRUCache(2)

	c.put("a", "A")
	c.put("b", "B")

	// Access "a" to promote it
	c.get("a")

	// Insert "c": should evict "b" (LRU), not "a"
	c.put("c", "C")

	_, ok := c.get("a")
	assert.True(t, ok, "a was accessed recently, should not be evicted")

	_, ok = c.get("b")
	assert.False(t, ok, "b should have been evicted")
}

func TestLRUCache_UpdateExisting(t *testing.T) {
	c := newLRUCache(2)

	c.put("a", "A1")
	c.put("a", "A2")

	value, ok := c.get("a")
	assert.True(t, ok)
	assert.Equal(t, "A2", value)
}
