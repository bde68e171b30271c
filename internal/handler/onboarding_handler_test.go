package handler_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"hearsay/internal/domain"
	"hearsay/internal/handler"
	"hearsay/internal/service"
	"hearsay/mocks"
)

func TestOnboardingHandler_Complete(t *testing.T) {
	mockOnboarding := new(mocks.MockOnboardingService)
	h := handler.NewOnboardingHandler(mockOnboarding)

	profile := &domain.UserProfile{UserID: 3, TargetLanguage: domain.LanguageSpanish, ProficiencyLevel: domain.ProficiencyElementary}
	mockOnboarding.On("Complete", mock.Anything, int64(3), mock.MatchedBy(func(in service.CompleteOnboardingInput) bool {
		return in.TargetLanguage == "es" && in.QuizScore != nil && *in.QuizScore == 2 &&
			in.ReminderTime != nil && *in.ReminderTime == "19:45"
	})).Return(&service.OnboardingResult{
		User:    &domain.User{ID: 3, OnboardingCompleted: true, Profile: profile},
		Profile: profile,
	}, nil)

	c, w := newTestContext(http.MethodPost, "/api/v1/onboarding/complete/", map[string]interface{}{
		"target_language": "es",
		"quiz_score":      2,
		"goals":           []string{"travel"},
		"reminder_time":   "19:45",
	}, 3)
	h.Complete(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"proficiency_level":"elementary"`)
	mockOnboarding.AssertExpectations(t)
}

func TestOnboardingHandler_Complete_ValidationErrors(t *testing.T) {
	tests := []struct {
		name  string
		body  map[string]interface{}
		field string
	}{
		{"missing language", map[string]interface{}{"quiz_score": 1}, "target_language"},
		{"unknown language", map[string]interface{}{"target_language": "de"}, "target_language"},
		{"score too high", map[string]interface{}{"target_language": "es", "quiz_score": 6}, "quiz_score"},
		{"negative score", map[string]interface{}{"target_language": "fr", "quiz_score": -1}, "quiz_score"},
		{"bad reminder", map[string]interface{}{"target_language": "fr", "reminder_time": "25:99"}, "reminder_time"},
		{"goals not a list", map[string]interface{}{"target_language": "fr", "goals": "travel"}, "goals"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockOnboarding := new(mocks.MockOnboardingService)
			h := handler.NewOnboardingHandler(mockOnboarding)

			c, w := newTestContext(http.MethodPost, "/api/v1/onboarding/complete/", tt.body, 3)
			h.Complete(c)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			resp := decodeError(t, w)
			assert.Equal(t, "VALIDATION_ERROR", resp.Code)
			assert.Contains(t, resp.Detail, tt.field)
			mockOnboarding.AssertNotCalled(t, "Complete", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestOnboardingHandler_Complete_EmptyReminderAccepted(t *testing.T) {
	mockOnboarding := new(mocks.MockOnboardingService)
	h := handler.NewOnboardingHandler(mockOnboarding)

	mockOnboarding.On("Complete", mock.Anything, int64(3), mock.Anything).
		Return(&service.OnboardingResult{User: &domain.User{ID: 3}, Profile: &domain.UserProfile{}}, nil)

	c, w := newTestContext(http.MethodPost, "/api/v1/onboarding/complete/", map[string]interface{}{
		"target_language": "fr",
		"reminder_time":   "",
	}, 3)
	h.Complete(c)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestOnboardingHandler_Complete_AlreadyCompleted(t *testing.T) {
	mockOnboarding := new(mocks.MockOnboardingService)
	h := handler.NewOnboardingHandler(mockOnboarding)

	mockOnboarding.On("Complete", mock.Anything, int64(3), mock.Anything).Return(nil, domain.ErrOnboardingAlreadyCompleted)

	c, w := newTestContext(http.MethodPost, "/api/v1/onboarding/complete/", map[string]interface{}{"target_language": "es"}, 3)
	h.Complete(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "ONBOARDING_ALREADY_COMPLETED", decodeError(t, w).Code)
}

func TestOnboardingHandler_Complete_NonIntegerSessionsFallsBack(t *testing.T) {
	mockOnboarding := new(mocks.MockOnboardingService)
	h := handler.NewOnboardingHandler(mockOnboarding)

	mockOnboarding.On("Complete", mock.Anything, int64(3), mock.MatchedBy(func(in service.CompleteOnboardingInput) bool {
		return in.SessionsPerWeek != nil && *in.SessionsPerWeek == domain.DefaultSessionsPerWeek
	})).Return(&service.OnboardingResult{User: &domain.User{ID: 3}, Profile: &domain.UserProfile{}}, nil)

	c, w := newTestContext(http.MethodPost, "/api/v1/onboarding/complete/", map[string]interface{}{
		"target_language":   "es",
		"sessions_per_week": "abc",
	}, 3)
	h.Complete(c)

	assert.Equal(t, http.StatusOK, w.Code)
	mockOnboarding.AssertExpectations(t)
}
