package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"hearsay/internal/domain"
)

// MockProfileRepo is a mock implementation of port.ProfileRepository.
type MockProfileRepo struct {
	mock.Mock
}

func (m *MockProfileRepo) GetByUserID(ctx context.Context, userID int64) (*domain.UserProfile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.UserProfile), args.Error(1)
}

func (m *MockProfileRepo) CompleteOnboarding(ctx context.Context, profile *domain.UserProfile) error {
	args := m.Called(ctx, profile)
	return args.Error(0)
}
