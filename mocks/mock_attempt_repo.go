package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"hearsay/internal/domain"
)

// MockAttemptRepo is a mock implementation of port.AttemptRepository.
type MockAttemptRepo struct {
	mock.Mock
}

func (m *MockAttemptRepo) ListRecent(ctx context.Context, userID, lessonID int64, limit int) ([]domain.Attempt, error) {
	args := m.Called(ctx, userID, lessonID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Attempt), args.Error(1)
}

func (m *MockAttemptRepo) Record(ctx context.Context, attempt *domain.Attempt, today time.Time) error {
	args := m.Called(ctx, attempt, today)
	return args.Error(0)
}

func (m *MockAttemptRepo) CountCompletedOn(ctx context.Context, userID int64, day time.Time) (int, error) {
	args := m.Called(ctx, userID, day)
	return args.Int(0), args.Error(1)
}
