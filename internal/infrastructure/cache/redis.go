package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"chatguard-lab/internal/config"
	"chatguard-lab/pkg/logger"
)

// RedisCache wraps the Redis client with typed operations. Everything here
// is best-effort: analysis never depends on the cache being reachable.
type RedisCache struct {
	client    *redis.Client
	keyPrefix string
	logger    *logger.Logger
}

// NewRedis creates a new Redis client
func NewRedis(ctx context.Context, cfg config.RedisConfig, log *logger.Logger) (*RedisCache, error) {
	log = log.WithComponent("redis")
	log.Info().Str("host", cfg.Host).Int("port", cfg.Port).Msg("connecting to Redis")

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping Redis: %w", err)
	}

	log.Info().Msg("connected to Redis successfully")

	return &RedisCache{
		client:    client,
		keyPrefix: cfg.KeyPrefix,
		logger:    log,
	}, nil
}

// Client returns the underlying Redis client
func (c *RedisCache) Client() *redis.Client {
	return c.client
}

// Close closes the Redis connection
func (c *RedisCache) Close() error {
	c.logger.Info().Msg("closing Redis connection")
	return c.client.Close()
}

// key prepends the namespace prefix to a key
func (c *RedisCache) key(k string) string {
	return c.keyPrefix + k
}

// Get retrieves a value from cache
func (c *RedisCache) Get(ctx context.Context, key string) (string, error) {
	return c.client.Get(ctx, c.key(key)).Result()
}

// GetJSON retrieves and unmarshals a JSON value from cache
func (c *RedisCache) GetJSON(ctx context.Context, key string, dest any) error {
	data, err := c.Get(ctx, key)
	if err != nil {
		return err
	}
	return json.Unmarshal([]byte(data), dest)
}

// Set stores a value in cache with optional TTL
func (c *RedisCache) Set(ctx context.Context, key string, value string, ttl time.Duration) error {
	return c.client.Set(ctx, c.key(key), value, ttl).Err()
}

// SetJSON marshals and stores a value in cache
func (c *RedisCache) SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal value: %w", err)
	}
	return c.Set(ctx, key, string(data), ttl)
}

// Delete removes a key from cache
func (c *RedisCache) Delete(ctx context.Context, keys ...string) error {
	prefixedKeys := make([]string, len(keys))
	for i, k := range keys {
		prefixedKeys[i] = c.key(k)
	}
	return c.client.Del(ctx, prefixedKeys...).Err()
}

// Incr increments an integer value
func (c *RedisCache) Incr(ctx context.Context, key string) (int64, error) {
	return c.client.Incr(ctx, c.key(key)).Result()
}

// Cache key constants
const (
	// Analysis result cache, keyed by content hash
	KeyResultPrefix = "cache:result:"
	KeyReportPrefix = "cache:report:"

	// Rate limiting keys
	KeyRateLimitPrefix = "rate_limit:"

	// Stats counters
	KeyStatsTexts   = "stats:texts_analyzed"
	KeyStatsChats   = "stats:chats_analyzed"
	KeyStatsThreats = "stats:threats_detected"
)

// ContentHash returns the cache key component for a text payload
func ContentHash(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}

// CheckRateLimit implements a fixed-window rate limit counter. Returns
// whether the request is allowed, remaining quota and the window reset time.
func (c *RedisCache) CheckRateLimit(ctx context.Context, clientID string, limit int64, window time.Duration) (bool, int64, time.Time, error) {
	key := c.key(KeyRateLimitPrefix + clientID)

	count, err := c.client.Incr(ctx, key).Result()
	if err != nil {
		return true, 0, time.Time{}, err
	}

	// First hit opens the window
	if count == 1 {
		if err := c.client.Expire(ctx, key, window).Err(); err != nil {
			return true, limit - count, time.Now().Add(window), err
		}
	}

	ttl, err := c.client.TTL(ctx, key).Result()
	if err != nil || ttl < 0 {
		ttl = window
	}
	resetTime := time.Now().Add(ttl)

	remaining := limit - count
	if remaining < 0 {
		remaining = 0
	}

	return count <= limit, remaining, resetTime, nil
}

// BumpCounter increments a stats counter, logging but not propagating errors
func (c *RedisCache) BumpCounter(ctx context.Context, key string) {
	if _, err := c.Incr(ctx, key); err != nil {
		c.logger.Debug().Err(err).Str("key", key).Msg("failed to bump counter")
	}
}

// CounterValue reads a stats counter, defaulting to zero
func (c *RedisCache) CounterValue(ctx context.Context, key string) int64 {
	val, err := c.client.Get(ctx, c.key(key)).Int64()
	if err != nil {
		return 0
	}
	return val
}
