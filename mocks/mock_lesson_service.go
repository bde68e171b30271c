package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"hearsay/internal/domain"
	"hearsay/internal/service"
)

// MockLessonService is a mock implementation of service.LessonService.
type MockLessonService struct {
	mock.Mock
}

func (m *MockLessonService) ListScenarios(ctx context.Context, userID int64, language string) ([]domain.Scenario, error) {
	args := m.Called(ctx, userID, language)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Scenario), args.Error(1)
}

func (m *MockLessonService) ListLessons(ctx context.Context, userID int64, input service.ListLessonsInput) ([]service.LessonSummary, error) {
	args := m.Called(ctx, userID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]service.LessonSummary), args.Error(1)
}

func (m *MockLessonService) GetLesson(ctx context.Context, lessonID int64) (*service.LessonDetail, error) {
	args := m.Called(ctx, lessonID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.LessonDetail), args.Error(1)
}

func (m *MockLessonService) ListAttempts(ctx context.Context, userID, lessonID int64) ([]service.AttemptView, error) {
	args := m.Called(ctx, userID, lessonID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]service.AttemptView), args.Error(1)
}

func (m *MockLessonService) RecordAttempt(ctx context.Context, userID, lessonID int64, input service.RecordAttemptInput) (*service.AttemptView, error) {
	args := m.Called(ctx, userID, lessonID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.AttemptView), args.Error(1)
}

func (m *MockLessonService) TodayPlan(ctx context.Context, userID int64) (*service.TodayPlan, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.TodayPlan), args.Error(1)
}
