package cache

import (
	"context"
	"time"

	"quickpoll/core/logger"

	"github.com/redis/go-redis/v9"
)

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// Cache is a thin wrapper over the redis client; callers that can work
// without a cache should treat every miss or error as a recompute.
type Cache struct {
	client *redis.Client
}

func NewCache(cfg RedisConfig) *Cache {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	return &Cache{client: client}
}

// Ping verifies connectivity; a failed ping disables nothing, callers decide.
func (c *Cache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *Cache) Get(ctx context.Context, key string) (string, bool) {
	val, err := c.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", false
	}
	if err != nil {
		logger.Warn("Cache:Get:Error", "key", key, "error", err)
		return "", false
	}
	return val, true
}

func (c *Cache) Set(ctx context.Context, key, value string, ttl time.Duration) {
	if err := c.client.Set(ctx, key, value, ttl).Err(); err != nil {
		logger.Warn("Cache:Set:Error", "key", key, "error", err)
	}
}

func (c *Cache) Delete(ctx context.Context, keys ...string) {
	if len(keys) == 0 {
		return
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		logger.Warn("Cache:Delete:Error", "keys", keys, "error", err)
	}
}

// DeletePattern drops every key matching the glob pattern. Used to
// invalidate a poll's cached month projections in one call.
func (c *Cache) DeletePattern(ctx context.Context, pattern string) {
	iter := c.client.Scan(ctx, 0, pattern, 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		logger.Warn("Cache:DeletePattern:Error", "pattern", pattern, "error", err)
		return
	}
	c.Delete(ctx, keys...)
}
