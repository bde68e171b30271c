package cache

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// Memory is a process-local cache backed by go-cache.
type Memory struct {
	c *gocache.Cache
}

// NewMemory returns a Memory cache whose entries default to defaultTTL.
func NewMemory(defaultTTL time.Duration) *Memory {
	return &Memory{c: gocache.New(defaultTTL, time.Minute)}
}

func (m *Memory) Get(_ context.Context, key string) ([]byte, error) {
	v, ok := m.c.Get(key)
	if !ok {
		return nil, ErrNotFound
	}
	b, ok := v.([]byte)
	if !ok {
		return nil, ErrNotFound
	}
	return b, nil
}

func (m *Memory) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	m.c.Set(key, value, ttl)
	return nil
}

func (m *Memory) Delete(_ context.Context, key string) error {
	m.c.Delete(key)
	return nil
}
