package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"mauryavansham-service/pkg/config"

	"github.com/redis/go-redis/v9"
)

// RedisClient wraps the Redis client. A nil *RedisClient is a valid,
// always-missing cache so callers never branch on whether caching is on.
type RedisClient struct {
	Client *redis.Client
}

// NewRedis creates a new Redis client, or returns nil when no address is configured
func NewRedis(cfg config.RedisConfig) *RedisClient {
	if cfg.Addr == "" {
		return nil
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 2,
	})
	return &RedisClient{Client: rdb}
}

// Ping tests the Redis connection
func (c *RedisClient) Ping(ctx context.Context) error {
	if c == nil {
		return nil
	}
	if err := c.Client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

// Close closes the Redis connection
func (c *RedisClient) Close() error {
	if c == nil || c.Client == nil {
		return nil
	}
	return c.Client.Close()
}

// GetJSON decodes the value at key into dest. It reports false on a miss.
func (c *RedisClient) GetJSON(ctx context.Context, key string, dest interface{}) (bool, error) {
	if c == nil {
		return false, nil
	}
	raw, err := c.Client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return false, fmt.Errorf("decode cached %s: %w", key, err)
	}
	return true, nil
}

// SetJSON stores value at key as JSON
func (c *RedisClient) SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if c == nil {
		return nil
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.Client.Set(ctx, key, raw, ttl).Err()
}

// Del deletes one or more keys
func (c *RedisClient) Del(ctx context.Context, keys ...string) error {
	if c == nil || len(keys) == 0 {
		return nil
	}
	return c.Client.Del(ctx, keys...).Err()
}

// OwnProfilesKey is the cache key for a user's own profile list
func OwnProfilesKey(userID uint) string {
	return fmt.Sprintf("profiles:owner:%d", userID)
}
