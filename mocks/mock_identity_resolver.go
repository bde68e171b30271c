package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"hearsay/internal/domain"
	"hearsay/internal/service"
)

// MockIdentityResolver is a mock implementation of service.IdentityResolver.
type MockIdentityResolver struct {
	mock.Mock
}

func (m *MockIdentityResolver) Resolve(ctx context.Context, identity domain.ExternalIdentity) (*service.Resolution, error) {
	args := m.Called(ctx, identity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Resolution), args.Error(1)
}
