package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisPrefix = "relo:hotels:"

type redisKV interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}

type redisCache struct {
	client redisKV
	ttl    time.Duration
	prefix string
}

// NewRedis comparte el cache entre procesos. Devuelve nil si client es nil.
func NewRedis(client *redis.Client, ttl time.Duration) ResultCache {
	if client == nil {
		return nil
	}
	return &redisCache{client: client, ttl: ttl, prefix: redisPrefix}
}

func (c *redisCache) Get(ctx context.Context, key string) (string, bool, error) {
	key = NormalizeKey(key)
	if key == "" {
		return "", false, nil
	}
	ctx, cancel := context.WithTimeout(ctx, 500*time.Millisecond)
	defer cancel()
	val, err := c.client.Get(ctx, c.prefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return val, true, nil
}

func (c *redisCache) Set(ctx context.Context, key, value string) error {
	key = NormalizeKey(key)
	if key == "" {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, 500*time.Millisecond)
	defer cancel()
	return c.client.Set(ctx, c.prefix+key, value, c.ttl).Err()
}
