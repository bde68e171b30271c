package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"hearsay/internal/domain"
	"hearsay/internal/port"
)

// MockLessonRepo is a mock implementation of port.LessonRepository.
type MockLessonRepo struct {
	mock.Mock
}

func (m *MockLessonRepo) ListActive(ctx context.Context, filter port.LessonFilter) ([]domain.Lesson, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Lesson), args.Error(1)
}

func (m *MockLessonRepo) GetActive(ctx context.Context, lessonID int64) (*domain.Lesson, error) {
	args := m.Called(ctx, lessonID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Lesson), args.Error(1)
}

func (m *MockLessonRepo) ListForPlan(ctx context.Context, language domain.TargetLanguage, limit int) ([]domain.Lesson, error) {
	args := m.Called(ctx, language, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Lesson), args.Error(1)
}

func (m *MockLessonRepo) GetByTitle(ctx context.Context, scenarioID int64, title string) (*domain.Lesson, error) {
	args := m.Called(ctx, scenarioID, title)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Lesson), args.Error(1)
}

func (m *MockLessonRepo) Create(ctx context.Context, lesson *domain.Lesson) error {
	args := m.Called(ctx, lesson)
	return args.Error(0)
}
