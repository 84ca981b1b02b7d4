// Package cache stores JSON values in Redis with a TTL.
package cache

import (
	"context"       // Context for Redis operations
	"encoding/json" // JSON encoding/decoding
	"errors"        // Error matching
	"time"          // Time durations

	"github.com/redis/go-redis/v9" // Redis client
)

// Cache wraps a Redis client. A Cache with a nil client is a no-op, so
// callers never branch on whether Redis is configured.
type Cache struct {
	rdb *redis.Client // Redis client, may be nil
	ttl time.Duration // Default lifetime of entries
}

// New returns a cache backed by rdb
func New(rdb *redis.Client, ttl time.Duration) *Cache {
	return &Cache{rdb: rdb, ttl: ttl}
}

// Get retrieves a value and unmarshals it into dest
func (c *Cache) Get(ctx context.Context, key string, dest any) (bool, error) {
	if c == nil || c.rdb == nil {
		return false, nil
	}
	val, err := c.rdb.Get(ctx, key).Result() // Get value from Redis
	if errors.Is(err, redis.Nil) {
		return false, nil // Key does not exist
	} else if err != nil {
		return false, err // Other Redis error
	}
	return true, json.Unmarshal([]byte(val), dest) // Unmarshal JSON into dest
}

// Set stores value under key with the default TTL
func (c *Cache) Set(ctx context.Context, key string, value any) error {
	if c == nil || c.rdb == nil {
		return nil
	}
	b, err := json.Marshal(value) // Marshal value to JSON
	if err != nil {
		return err // Return error if marshaling fails
	}
	return c.rdb.Set(ctx, key, b, c.ttl).Err() // Set value in Redis with TTL
}

// Delete removes keys
func (c *Cache) Delete(ctx context.Context, keys ...string) error {
	if c == nil || c.rdb == nil || len(keys) == 0 {
		return nil
	}
	return c.rdb.Del(ctx, keys...).Err() // Delete keys from Redis
}
