// Package cache keeps read-mostly reference data in Redis.
//
// Redis is optional: any Redis failure is logged and the value is loaded
// from its source instead.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const keyPrefix = "mealplanner:"

// Cache stores JSON-encoded values under a common key prefix.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zerolog.Logger
}

// New returns a cache over client. A nil client disables caching.
func New(client *redis.Client, ttl time.Duration, logger *zerolog.Logger) *Cache {
	return &Cache{client: client, ttl: ttl, logger: logger}
}

// GetOrLoad returns the cached value for key, or calls load and caches its
// result.
func GetOrLoad[T any](ctx context.Context, c *Cache, key string, load func(ctx context.Context) (T, error)) (T, error) {
	if c == nil || c.client == nil {
		return load(ctx)
	}

	fullKey := keyPrefix + key

	raw, err := c.client.Get(ctx, fullKey).Bytes()
	switch {
	case err == nil:
		var cached T
		if jsonErr := json.Unmarshal(raw, &cached); jsonErr == nil {
			return cached, nil
		}
		c.logger.Warn().Str("key", fullKey).Msg("discarding undecodable cache entry")
	case !errors.Is(err, redis.Nil):
		c.logger.Warn().Err(err).Str("key", fullKey).Msg("cache read failed, loading from source")
	}

	value, err := load(ctx)
	if err != nil {
		return value, err
	}

	encoded, err := json.Marshal(value)
	if err != nil {
		return value, nil
	}
	if err := c.client.Set(ctx, fullKey, encoded, c.ttl).Err(); err != nil {
		c.logger.Warn().Err(err).Str("key", fullKey).Msg("cache write failed")
	}

	return value, nil
}
