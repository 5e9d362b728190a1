// internal/common/cache/redis.go
package cache

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"sbdc-assessment/internal/common/config"
	"sbdc-assessment/internal/common/errors"

	"github.com/redis/go-redis/v9"
)

// RedisClient wraps the Redis client
type RedisClient struct {
	Client *redis.Client
}

// NewRedis creates a new Redis client
func NewRedis(cfg config.RedisConfig) *RedisClient {
	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Address,
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
	if err := c.Client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

// Close closes the Redis connection
func (c *RedisClient) Close() error {
	if c.Client != nil {
		return c.Client.Close()
	}
	return nil
}

// RenderCache keeps rendered documents in Redis under a key prefix.
type RenderCache struct {
	client redis.Cmdable
	prefix string
	ttl    time.Duration
}

func NewRenderCache(client redis.Cmdable, prefix string, ttl time.Duration) *RenderCache {
	return &RenderCache{client: client, prefix: prefix, ttl: ttl}
}

// DocumentCache is satisfied by *RenderCache.
type DocumentCache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
}

// NewRenderCacheFromConfig returns a nil DocumentCache when caching is disabled.
func NewRenderCacheFromConfig(cfg config.CacheConfig, client *RedisClient) DocumentCache {
	if !cfg.Enabled || client == nil {
		return nil
	}
	return NewRenderCache(client.Client, cfg.Prefix, config.GetDuration(cfg.TTL))
}

func (c *RenderCache) Key(key string) string { return c.prefix + key }

// Get reports a miss as (nil, false, nil).
func (c *RenderCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	val, err := c.client.Get(ctx, c.Key(key)).Bytes()
	if stderrors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, errors.NewCacheFailedError("get", err)
	}
	return val, true, nil
}

func (c *RenderCache) Set(ctx context.Context, key string, value []byte) error {
	if err := c.client.Set(ctx, c.Key(key), value, c.ttl).Err(); err != nil {
		return errors.NewCacheFailedError("set", err)
	}
	return nil
}
