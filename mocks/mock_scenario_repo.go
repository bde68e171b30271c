package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"hearsay/internal/domain"
)

// MockScenarioRepo is a mock implementation of port.ScenarioRepository.
type MockScenarioRepo struct {
	mock.Mock
}

func (m *MockScenarioRepo) ListActive(ctx context.Context, language string) ([]domain.Scenario, error) {
	args := m.Called(ctx, language)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Scenario), args.Error(1)
}

func (m *MockScenarioRepo) GetByTitle(ctx context.Context, language domain.TargetLanguage, title string) (*domain.Scenario, error) {
	args := m.Called(ctx, language, title)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Scenario), args.Error(1)
}

func (m *MockScenarioRepo) Create(ctx context.Context, scenario *domain.Scenario) error {
	args := m.Called(ctx, scenario)
	return args.Error(0)
}
