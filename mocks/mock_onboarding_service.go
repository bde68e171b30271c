package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"hearsay/internal/service"
)

// MockOnboardingService is a mock implementation of service.OnboardingService.
type MockOnboardingService struct {
	mock.Mock
}

func (m *MockOnboardingService) Complete(ctx context.Context, userID int64, input service.CompleteOnboardingInput) (*service.OnboardingResult, error) {
	args := m.Called(ctx, userID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.OnboardingResult), args.Error(1)
}
