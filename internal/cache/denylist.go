package cache

import (
	"context"
	"errors"
	"time"
)

const denylistPrefix = "denylist:"

// Denylist stores revoked token ids in a Cache until they would have expired.
type Denylist struct {
	c Cache
}

// NewDenylist creates a Denylist backed by c.
func NewDenylist(c Cache) *Denylist {
	return &Denylist{c: c}
}

func (d *Denylist) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	return d.c.Set(ctx, denylistPrefix+jti, []byte{1}, ttl)
}

// IsRevoked reports whether jti was revoked. A backend failure is returned as
// an error so callers can refuse the token instead of treating it as live.
func (d *Denylist) IsRevoked(ctx context.Context, jti string) (bool, error) {
	_, err := d.c.Get(ctx, denylistPrefix+jti)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, ErrNotFound):
		return false, nil
	default:
		return false, err
	}
}
