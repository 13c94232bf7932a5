// Package cache keeps rendered product listings in Redis so repeated
// catalog browsing does not hit the database on every request.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
)

// listingPattern matches every cached listing key under the prefix.
const listingPattern = "listing:*"

// Cache is a cache-aside layer over Redis with usage counters.
type Cache struct {
	client *redis.Client
	prefix string
	ttl    time.Duration

	hits    atomic.Uint64
	misses  atomic.Uint64
	sets    atomic.Uint64
	deletes atomic.Uint64
	errs    atomic.Uint64
}

// Stats is a point-in-time snapshot of the cache counters.
type Stats struct {
	Hits    uint64  `json:"hits"`
	Misses  uint64  `json:"misses"`
	Sets    uint64  `json:"sets"`
	Deletes uint64  `json:"deletes"`
	Errors  uint64  `json:"errors"`
	HitRate float64 `json:"hit_rate"`
}

// New creates a cache over the given Redis client.
func New(client *redis.Client, prefix string, ttl time.Duration) *Cache {
	return &Cache{client: client, prefix: prefix, ttl: ttl}
}

// Get loads a cached value into dest. The boolean reports whether the key
// was present.
func (c *Cache) Get(ctx context.Context, key string, dest any) (bool, error) {
	data, err := c.client.Get(ctx, c.prefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			c.misses.Add(1)
			return false, nil
		}
		c.errs.Add(1)
		return false, fmt.Errorf("cache get error: %w", err)
	}
	if err := json.Unmarshal(data, dest); err != nil {
		c.errs.Add(1)
		return false, fmt.Errorf("cache unmarshal error: %w", err)
	}
	c.hits.Add(1)
	return true, nil
}

// Set stores a value under the key with the configured TTL.
func (c *Cache) Set(ctx context.Context, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		c.errs.Add(1)
		return fmt.Errorf("cache marshal error: %w", err)
	}
	if err := c.client.Set(ctx, c.prefix+key, data, c.ttl).Err(); err != nil {
		c.errs.Add(1)
		return fmt.Errorf("cache set error: %w", err)
	}
	c.sets.Add(1)
	return nil
}

// Delete removes a single key.
func (c *Cache) Delete(ctx context.Context, key string) error {
	if err := c.client.Del(ctx, c.prefix+key).Err(); err != nil {
		c.errs.Add(1)
		return fmt.Errorf("cache delete error: %w", err)
	}
	c.deletes.Add(1)
	return nil
}

// DeletePattern removes every key matching the glob pattern, scanning in
// batches so large keyspaces do not block Redis.
func (c *Cache) DeletePattern(ctx context.Context, pattern string) error {
	var cursor uint64
	for {
		keys, next, err := c.client.Scan(ctx, cursor, c.prefix+pattern, 100).Result()
		if err != nil {
			c.errs.Add(1)
			return fmt.Errorf("cache scan error: %w", err)
		}
		if len(keys) > 0 {
			if err := c.client.Del(ctx, keys...).Err(); err != nil {
				c.errs.Add(1)
				return fmt.Errorf("cache delete error: %w", err)
			}
			c.deletes.Add(uint64(len(keys)))
		}
		cursor = next
		if cursor == 0 {
			return nil
		}
	}
}

// InvalidateListings drops every cached product listing. Called whenever
// catalog data or stock levels change.
func (c *Cache) InvalidateListings(ctx context.Context) error {
	return c.DeletePattern(ctx, listingPattern)
}

// Stats returns current counter values.
func (c *Cache) Stats() Stats {
	hits := c.hits.Load()
	misses := c.misses.Load()
	var rate float64
	if total := hits + misses; total > 0 {
		rate = float64(hits) / float64(total) * 100
	}
	return Stats{
		Hits:    hits,
		Misses:  misses,
		Sets:    c.sets.Load(),
		Deletes: c.deletes.Load(),
		Errors:  c.errs.Load(),
		HitRate: rate,
	}
}

// Ping checks the Redis connection.
func (c *Cache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}
