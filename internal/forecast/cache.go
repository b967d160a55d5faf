package forecast

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/tremorline/quake-forecast-service/internal/observability"
)

// Provider is the operation surface shared by Service and CachedService.
type Provider interface {
	CountForecast(ctx context.Context, horizon int, preferredModel string) (CountResponse, error)
	MagnitudeForecast(ctx context.Context, horizon int) (MagnitudeResponse, error)
	RiskForecast(ctx context.Context, horizon int) (RiskResponse, error)
	RunAndPublish(ctx context.Context, horizon int) error
}

// CachedService wraps a Provider with an in-memory LRU cache over the read
// operations. Cache keys include the current UTC day, so entries naturally
// expire when the trailing window rolls over at midnight. RunAndPublish is
// never cached.
type CachedService struct {
	inner   Provider
	cache   *lruCache
	metrics *observability.Metrics
	clock   func() time.Time
}

// NewCachedService creates a cache decorator around a forecast provider.
func NewCachedService(inner Provider, maxEntries int, metrics *observability.Metrics) *CachedService {
	return &CachedService{
		inner:   inner,
		cache:   newLRUCache(maxEntries),
		metrics: metrics,
		clock:   time.Now,
	}
}

func (c *CachedService) CountForecast(ctx context.Context, horizon int, preferredModel string) (CountResponse, error) {
	key := c.key("count", horizon, preferredModel)
	if cached, ok := c.cache.get(key); ok {
		c.metrics.CacheLookups.WithLabelValues("forecast", "hit").Inc()
		return cached.(CountResponse), nil
	}
	c.metrics.CacheLookups.WithLabelValues("forecast", "miss").Inc()

	resp, err := c.inner.CountForecast(ctx, horizon, preferredModel)
	if err != nil {
		return resp, err
	}
	c.cache.put(key, resp)
	return resp, nil
}

func (c *CachedService) MagnitudeForecast(ctx context.Context, horizon int) (MagnitudeResponse, error) {
	key := c.key("magnitude", horizon, "")
	if cached, ok := c.cache.get(key); ok {
		c.metrics.CacheLookups.WithLabelValues("magnitude", "hit").Inc()
		return cached.(MagnitudeResponse), nil
	}
	c.metrics.CacheLookups.WithLabelValues("magnitude", "miss").Inc()

	resp, err := c.inner.MagnitudeForecast(ctx, horizon)
	if err != nil {
		return resp, err
	}
	c.cache.put(key, resp)
	return resp, nil
}

func (c *CachedService) RiskForecast(ctx context.Context, horizon int) (RiskResponse, error) {
	key := c.key("risk", horizon, "")
	if cached, ok := c.cache.get(key); ok {
		c.metrics.CacheLookups.WithLabelValues("risk", "hit").Inc()
		return cached.(RiskResponse), nil
	}
	c.metrics.CacheLookups.WithLabelValues("risk", "miss").Inc()

	resp, err := c.inner.RiskForecast(ctx, horizon)
	if err != nil {
		return resp, err
	}
	c.cache.put(key, resp)
	return resp, nil
}

// RunAndPublish always reaches the inner provider; its point is the side effect.
func (c *CachedService) RunAndPublish(ctx context.Context, horizon int) error {
	return c.inner.RunAndPublish(ctx, horizon)
}

// key embeds the UTC day so a cached forecast never outlives its window.
func (c *CachedService) key(endpoint string, horizon int, model string) string {
	day := c.clock().UTC().Format("2006-01-02")
	return fmt.Sprintf("%s|%d|%s|%s", endpoint, horizon, model, day)
}

// lruCache is a simple thread-safe LRU cache for response payloads.
type lruCache struct {
	maxEntries int
	mu         sync.Mutex
	entries    map[string]*cacheEntry
	head       *cacheEntry // most recently used
	tail       *cacheEntry // least recently used
}

type cacheEntry struct {
	key   string
	value any
	prev  *cacheEntry
	next  *cacheEntry
}

func newLRUCache(maxEntries int) *lruCache {
	return &lruCache{
		maxEntries: maxEntries,
		entries:    make(map[string]*cacheEntry),
	}
}

func (c *lruCache) get(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	c.moveToFront(e)
	return e.value, true
}

func (c *lruCache) put(key string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[key]; ok {
		e.value = value
		c.moveToFront(e)
		return
	}

	e := &cacheEntry{key: key, value: value}
	c.entries[key] = e
	c.addToFront(e)

	if len(c.entries) > c.maxEntries {
		c.evictTail()
	}
}

func (c *lruCache) moveToFront(e *cacheEntry) {
	if e == c.head {
		return
	}
	c.remove(e)
	c.addToFront(e)
}

func (c *lruCache) addToFront(e *cacheEntry) {
	e.next = c.head
	e.prev = nil
	if c.head != nil {
		c.head.prev = e
	}
	c.head = e
	if c.tail == nil {
		c.tail = e
	}
}

func (c *lruCache) remove(e *cacheEntry) {
	if e.prev != nil {
		e.prev.next = e.next
	} else {
		c.head = e.next
	}
	if e.next != nil {
		e.next.prev = e.prev
	} else {
		c.tail = e.prev
	}
}

func (c *lruCache) evictTail() {
	if c.tail == nil {
		return
	}
	delete(c.entries, c.tail.key)
	c.remove(c.tail)
}
