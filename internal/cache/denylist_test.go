package cache_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hearsay/internal/cache"
)

// brokenCache fails every call, like a Redis that is down.
type brokenCache struct{}

var errBackendDown = errors.New("connection refused")

func (brokenCache) Get(context.Context, string) ([]byte, error) { return nil, errBackendDown }
func (brokenCache) Set(context.Context, string, []byte, time.Duration) error {
	return errBackendDown
}
func (brokenCache) Delete(context.Context, string) error { return errBackendDown }

func TestDenylist(t *testing.T) {
	ctx := context.Background()
	d := cache.NewDenylist(cache.NewMemory(time.Minute))

	revoked, err := d.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, d.Revoke(ctx, "jti-1", time.Minute))

	revoked, err = d.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	revoked, err = d.IsRevoked(ctx, "jti-2")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestDenylist_BackendFailureIsAnError(t *testing.T) {
	d := cache.NewDenylist(brokenCache{})

	revoked, err := d.IsRevoked(context.Background(), "jti-1")
	assert.ErrorIs(t, err, errBackendDown)
	assert.False(t, revoked)
}

func TestDenylist_RedisUnreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	d := cache.NewDenylist(cache.NewRedis("127.0.0.1:1", 0))

	_, err := d.IsRevoked(ctx, "jti-1")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, cache.ErrNotFound)
}
