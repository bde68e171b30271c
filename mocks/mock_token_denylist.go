package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
)

// MockTokenDenylist is a mock implementation of port.TokenDenylist.
type MockTokenDenylist struct {
	mock.Mock
}

func (m *MockTokenDenylist) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	args := m.Called(ctx, jti, ttl)
	return args.Error(0)
}

func (m *MockTokenDenylist) IsRevoked(ctx context.Context, jti string) (bool, error) {
	args := m.Called(ctx, jti)
	return args.Bool(0), args.Error(1)
}
