package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis is a cache shared between server instances.
type Redis struct {
	c *redis.Client
}

// NewRedis connects lazily to the Redis server at addr.
func NewRedis(addr string, db int) *Redis {
	return &Redis{c: redis.NewClient(&redis.Options{Addr: addr, DB: db})}
}

// NewRedisFromClient wraps an existing client.
func NewRedisFromClient(c *redis.Client) *Redis {
	return &Redis{c: c}
}

func (r *Redis) Get(ctx context.Context, key string) ([]byte, error) {
	b, err := r.c.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("cache: redis get %s: %w", key, err)
	}
	return b, nil
}

func (r *Redis) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return r.c.Set(ctx, key, value, ttl).Err()
}

func (r *Redis) Delete(ctx context.Context, key string) error {
	return r.c.Del(ctx, key).Err()
}

// Ping checks connectivity; used by the readiness probe.
func (r *Redis) Ping(ctx context.Context) error {
	return r.c.Ping(ctx).Err()
}
