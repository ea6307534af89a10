// Package tplcache stores serialized query templates in an in-process TTL cache
// backed by an optional shared key-value store.
package tplcache

import (
	"context"
	"errors"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/kailas-cloud/typeahead/internal/db"
	"github.com/kailas-cloud/typeahead/internal/domain"
)

const (
	tierLocal  = "local"
	tierShared = "shared"
)

// store is the consumer interface for the shared tier (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Del(ctx context.Context, key string) error
}

// Config controls template expiry.
type Config struct {
	TTL             time.Duration
	CleanupInterval time.Duration
	KeyPrefix       string
}

// Cache is a two-tier template cache. Templates are strings so callers can never
// mutate a cached value.
type Cache struct {
	local      *cache.Cache
	shared     store
	ttl        time.Duration
	prefix     string
	cacheTotal *prometheus.CounterVec
	logger     *zap.Logger
}

// New creates a Cache. shared may be nil for a process-local cache.
// cacheTotal is a counter vec with labels "tier" and "result", passed explicitly.
func New(shared store, cfg Config, cacheTotal *prometheus.CounterVec, logger *zap.Logger) *Cache {
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = cache.NoExpiration
	}
	prefix := cfg.KeyPrefix
	if prefix == "" {
		prefix = domain.KeyPrefix
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Cache{
		local:      cache.New(ttl, cfg.CleanupInterval),
		shared:     shared,
		ttl:        ttl,
		prefix:     prefix + "tpl:",
		cacheTotal: cacheTotal,
		logger:     logger,
	}
}

// Get returns the template stored under key. Shared-tier errors count as a miss.
func (c *Cache) Get(ctx context.Context, key string) (string, bool) {
	if v, ok := c.local.Get(key); ok {
		c.inc(tierLocal, "hit")
		return v.(string), true
	}
	c.inc(tierLocal, "miss")

	if c.shared == nil {
		return "", false
	}
	data, err := c.shared.Get(ctx, c.prefix+key)
	if err != nil {
		if !errors.Is(err, db.ErrKeyNotFound) {
			c.logger.Warn("Failed to get shared template", zap.String("key", key), zap.Error(err))
		}
		c.inc(tierShared, "miss")
		return "", false
	}
	if len(data) == 0 {
		c.inc(tierShared, "miss")
		return "", false
	}
	c.inc(tierShared, "hit")

	tpl := string(data)
	c.local.Set(key, tpl, cache.DefaultExpiration)
	return tpl, true
}

// Set stores tpl under key in both tiers. Concurrent writers of the same key are
// last-write-wins.
func (c *Cache) Set(ctx context.Context, key, tpl string) {
	c.local.Set(key, tpl, cache.DefaultExpiration)
	if c.shared == nil {
		return
	}
	ttl := c.ttl
	if ttl == cache.NoExpiration {
		ttl = 0
	}
	if err := c.shared.SetWithTTL(ctx, c.prefix+key, []byte(tpl), ttl); err != nil {
		c.logger.Warn("Failed to store shared template", zap.String("key", key), zap.Error(err))
	}
}

// Invalidate drops the template stored under key from both tiers.
func (c *Cache) Invalidate(ctx context.Context, key string) {
	c.local.Delete(key)
	if c.shared == nil {
		return
	}
	if err := c.shared.Del(ctx, c.prefix+key); err != nil {
		c.logger.Warn("Failed to invalidate shared template", zap.String("key", key), zap.Error(err))
	}
}

// Len returns the number of templates held in the local tier.
func (c *Cache) Len() int {
	return c.local.ItemCount()
}

func (c *Cache) inc(tier, result string) {
	if c.cacheTotal != nil {
		c.cacheTotal.WithLabelValues(tier, result).Inc()
	}
}
