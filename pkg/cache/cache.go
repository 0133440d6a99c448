// Package cache is a two-tier JSON cache: an in-process ccache LRU in front
// of Redis. Every call degrades to a no-op (miss) when Redis is unavailable,
// so callers never need to branch on connectivity.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/karlseguin/ccache/v3"
	"github.com/redis/go-redis/v9"

	"github.com/staydesk/staydesk/config"
	"github.com/staydesk/staydesk/pkg/metrics"
)

// localTTLCap bounds how long the local tier may serve an entry without
// checking Redis, so deletes on other instances are picked up quickly.
const localTTLCap = 30 * time.Second

var (
	RDB   *redis.Client
	local = ccache.New(ccache.Configure[[]byte]().MaxSize(1000))
)

// Connect initialises the Redis client and verifies the connection with a ping.
// Returns an error so the caller can react (log warning, fall back, or abort).
func Connect(ctx context.Context) error {
	RDB = redis.NewClient(&redis.Options{
		Addr:     config.RedisAddr(),
		Password: config.RedisPassword(),
		DB:       0,
	})

	if err := RDB.Ping(ctx).Err(); err != nil {
		RDB = nil // mark as unavailable so Get/Set/Del no-op safely
		return fmt.Errorf("cache: redis ping: %w", err)
	}
	return nil
}

// Get looks key up in the local tier, then Redis, and unmarshals into dest.
// Returns true on a hit.
func Get(ctx context.Context, key string, dest interface{}) bool {
	if item := local.Get(key); item != nil && !item.Expired() {
		if json.Unmarshal(item.Value(), dest) == nil {
			metrics.CacheHits.WithLabelValues("local").Inc()
			return true
		}
	}

	if RDB == nil {
		metrics.CacheMisses.Inc()
		return false
	}

	raw, err := RDB.Get(ctx, key).Bytes()
	if err != nil {
		metrics.CacheMisses.Inc()
		return false
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		metrics.CacheMisses.Inc()
		return false
	}

	local.Set(key, raw, localTTLCap)
	metrics.CacheHits.WithLabelValues("redis").Inc()
	return true
}

// Set stores value in both tiers under key for the given TTL.
func Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache: marshal %s: %w", key, err)
	}

	local.Set(key, data, min(ttl, localTTLCap))

	if RDB == nil {
		return nil
	}
	return RDB.Set(ctx, key, data, ttl).Err()
}

// Forget removes keys from both tiers.
func Forget(ctx context.Context, keys ...string) error {
	for _, k := range keys {
		local.Delete(k)
	}
	if RDB == nil || len(keys) == 0 {
		return nil
	}
	return RDB.Del(ctx, keys...).Err()
}

// Remember returns the cached value for key, or calls fn, caches its result
// and stores it in dest. A failing cache write is not an error.
func Remember[T any](ctx context.Context, key string, ttl time.Duration, dest *T, fn func() (T, error)) error {
	if Get(ctx, key, dest) {
		return nil
	}
	v, err := fn()
	if err != nil {
		return err
	}
	*dest = v
	_ = Set(ctx, key, v, ttl)
	return nil
}

// Flush drops every entry in the local tier. Redis is left untouched.
func Flush() {
	local.Clear()
}
