package rangecache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/kailas-cloud/lexsearch/internal/db"
	"github.com/kailas-cloud/lexsearch/internal/domain/search/result"
)

// Key is where the corpus date range is cached, relative to the store prefix.
const Key = "date_range"

// Source computes the corpus date range.
type Source interface {
	GlobalDateRange(ctx context.Context) (*result.DateRange, error)
}

// store is the consumer interface for the range cache (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Del(ctx context.Context, key string) error
}

// Cached serves the date range from a key-value store and recomputes it on miss.
type Cached struct {
	inner      Source
	store      store
	ttl        time.Duration
	cacheTotal *prometheus.CounterVec
	logger     *zap.Logger
}

// New creates a caching decorator.
// cacheTotal is a counter vec with labels "cache" and "result", passed explicitly.
func New(inner Source, s store, ttl time.Duration, cacheTotal *prometheus.CounterVec, logger *zap.Logger) *Cached {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Cached{inner: inner, store: s, ttl: ttl, cacheTotal: cacheTotal, logger: logger}
}

// GlobalDateRange returns the cached range or computes and stores it.
// A nil range is never cached so an empty corpus is re-sampled next time.
func (c *Cached) GlobalDateRange(ctx context.Context) (*result.DateRange, error) {
	if r, ok := c.get(ctx); ok {
		c.inc("hit")
		return r, nil
	}
	c.inc("miss")

	r, err := c.inner.GlobalDateRange(ctx)
	if err != nil || r == nil {
		return r, err
	}
	c.put(ctx, r)
	return r, nil
}

func (c *Cached) inc(result string) {
	if c.cacheTotal != nil {
		c.cacheTotal.WithLabelValues("date_range", result).Inc()
	}
}

func (c *Cached) get(ctx context.Context) (*result.DateRange, bool) {
	data, err := c.store.Get(ctx, Key)
	if err != nil {
		if !errors.Is(err, db.ErrKeyNotFound) {
			c.logger.Warn("Failed to get cached date range", zap.Error(err))
		}
		return nil, false
	}
	var r result.DateRange
	if err := json.Unmarshal(data, &r); err != nil || r.Oldest == "" {
		c.logger.Warn("Failed to parse cached date range", zap.Error(err))
		return nil, false
	}
	return &r, true
}

func (c *Cached) put(ctx context.Context, r *result.DateRange) {
	data, err := json.Marshal(r)
	if err != nil {
		return
	}
	if err := c.store.SetWithTTL(ctx, Key, data, c.ttl); err != nil {
		c.logger.Warn("Failed to cache date range", zap.Error(err))
	}
}

// Invalidate drops the cached range so the next call re-samples the backend.
func (c *Cached) Invalidate(ctx context.Context) error {
	if err := c.store.Del(ctx, Key); err != nil {
		return fmt.Errorf("invalidate date range: %w", err)
	}
	c.logger.Info("Date range cache invalidated")
	return nil
}
