package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache stores values of type T under a key prefix with a fixed TTL.
// There is no update path: writers invalidate, readers repopulate on miss.
//
// Cache instances are safe for concurrent use.
type Cache[T any] struct {
	redis  redis.UniversalClient
	prefix string
	ttl    time.Duration
}

// New creates a Cache on client. Values live under "<prefix>:<id>" for ttl.
func New[T any](client redis.UniversalClient, prefix string, ttl time.Duration) *Cache[T] {
	return &Cache[T]{
		redis:  client,
		prefix: prefix,
		ttl:    ttl,
	}
}

func (c *Cache[T]) key(id string) string {
	return c.prefix + ":" + id
}

// Get returns the cached value for id, or ok=false on miss, decode failure,
// or backend failure.
func (c *Cache[T]) Get(ctx context.Context, id string) (T, bool) {
	var value T
	if c == nil || c.redis == nil {
		return value, false
	}

	data, err := c.redis.Get(ctx, c.key(id)).Bytes()
	if err != nil {
		return value, false
	}
	if err := json.Unmarshal(data, &value); err != nil {
		return value, false
	}

	return value, true
}

// Set stores value under id for the configured TTL. Best effort.
func (c *Cache[T]) Set(ctx context.Context, id string, value T) {
	if c == nil || c.redis == nil {
		return
	}

	data, err := json.Marshal(value)
	if err != nil {
		return
	}

	_ = c.redis.Set(ctx, c.key(id), data, c.ttl).Err()
}

// Invalidate evicts the entry for id immediately.
func (c *Cache[T]) Invalidate(ctx context.Context, id string) {
	if c == nil || c.redis == nil {
		return
	}

	_ = c.redis.Del(ctx, c.key(id)).Err()
}
