package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const cacheKeyPrefix = "catalog:"

// ResponseCache is a Redis read-through cache for provider responses. A nil
// *ResponseCache or one without a client is a no-op.
type ResponseCache struct {
	redis *redis.Client
	ttl   time.Duration
}

// NewResponseCache creates a ResponseCache; rdb may be nil.
func NewResponseCache(rdb *redis.Client, ttl time.Duration) *ResponseCache {
	return &ResponseCache{redis: rdb, ttl: ttl}
}

// Fetch returns the cached value for key or calls load and stores its result.
func (c *ResponseCache) Fetch(ctx context.Context, key string, load func() ([]byte, error)) ([]byte, error) {
	if cached, ok := c.get(ctx, key); ok {
		slog.Debug("cache hit", "key", key)
		return cached, nil
	}
	data, err := load()
	if err != nil {
		return nil, err
	}
	c.set(ctx, key, data)
	return data, nil
}

func (c *ResponseCache) get(ctx context.Context, key string) ([]byte, bool) {
	if c == nil || c.redis == nil {
		return nil, false
	}
	data, err := c.redis.Get(ctx, cacheKeyPrefix+key).Bytes()
	if err != nil {
		if err != redis.Nil {
			slog.Warn("failed to read cache", "key", key, "error", err)
		}
		return nil, false
	}
	return data, true
}

func (c *ResponseCache) set(ctx context.Context, key string, data []byte) {
	if c == nil || c.redis == nil || c.ttl <= 0 {
		return
	}
	if err := c.redis.Set(ctx, cacheKeyPrefix+key, data, c.ttl).Err(); err != nil {
		slog.Error("failed to set cache", "key", key, "error", err)
	}
}

// Invalidate removes keys from the cache.
func (c *ResponseCache) Invalidate(ctx context.Context, keys ...string) {
	if c == nil || c.redis == nil || len(keys) == 0 {
		return
	}
	prefixed := make([]string, len(keys))
	for i, k := range keys {
		prefixed[i] = cacheKeyPrefix + k
	}
	if err := c.redis.Del(ctx, prefixed...).Err(); err != nil {
		slog.Warn("failed to invalidate cache", "keys", keys, "error", err)
	}
}
