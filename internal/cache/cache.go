// Package cache defines a small byte cache used for provider signing keys
// and revoked refresh tokens, with in-memory and Redis backends.
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"hearsay/internal/config"
)

// ErrNotFound is returned by Get when the key is absent or expired.
var ErrNotFound = errors.New("cache: key not found")

// Cache is a TTL key/value store. Implementations must be safe for concurrent use.
type Cache interface {
	// Get returns ErrNotFound on a miss; any other error means the backend failed.
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// New builds the backend selected by cfg.Driver.
func New(cfg config.CacheConfig, defaultTTL time.Duration) (Cache, error) {
	switch cfg.Driver {
	case "", "memory":
		return NewMemory(defaultTTL), nil
	case "redis":
		return NewRedis(cfg.RedisAddr, cfg.RedisDB), nil
	default:
		return nil, fmt.Errorf("cache: unknown driver %q", cfg.Driver)
	}
}
