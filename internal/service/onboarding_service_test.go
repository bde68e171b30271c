package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"hearsay/internal/domain"
	"hearsay/internal/service"
	"hearsay/mocks"
)

func setupOnboarding() (*mocks.MockUserRepo, *mocks.MockProfileRepo, service.OnboardingService) {
	userRepo := new(mocks.MockUserRepo)
	profileRepo := new(mocks.MockProfileRepo)
	return userRepo, profileRepo, service.NewOnboardingService(userRepo, profileRepo)
}

func TestOnboarding_Complete_BuildsProfile(t *testing.T) {
	userRepo, profileRepo, svc := setupOnboarding()

	userRepo.On("GetByID", mock.Anything, int64(1)).Return(&domain.User{ID: 1}, nil)
	var saved *domain.UserProfile
	profileRepo.On("CompleteOnboarding", mock.Anything, mock.AnythingOfType("*domain.UserProfile")).
		Run(func(args mock.Arguments) { saved = args.Get(1).(*domain.UserProfile) }).
		Return(nil)

	result, err := svc.Complete(context.Background(), 1, service.CompleteOnboardingInput{
		TargetLanguage:       "fr",
		QuizScore:            ptr(4),
		Goals:                []string{"travel", "work"},
		SessionsPerWeek:      ptr(domain.SessionsPerWeek(5)),
		NotificationsEnabled: ptr(false),
		ReminderTime:         ptr("08:30"),
	})

	require.NoError(t, err)
	require.NotNil(t, saved)
	assert.Equal(t, domain.LanguageFrench, saved.TargetLanguage)
	assert.Equal(t, domain.ProficiencyIntermediate, saved.ProficiencyLevel)
	assert.Equal(t, domain.StringList{"travel", "work"}, saved.Goals)
	assert.Equal(t, 5, saved.SessionsPerWeek)
	assert.False(t, saved.NotificationsEnabled)
	assert.Equal(t, "08:30", *saved.ReminderTime)
	assert.Equal(t, "en", saved.NativeLanguage)
	assert.Equal(t, "UTC", saved.Timezone)

	assert.True(t, result.User.OnboardingCompleted)
	assert.Same(t, saved, result.Profile)
	assert.Same(t, saved, result.User.Profile)
}

func TestOnboarding_Complete_Defaults(t *testing.T) {
	userRepo, profileRepo, svc := setupOnboarding()

	userRepo.On("GetByID", mock.Anything, int64(2)).Return(&domain.User{ID: 2}, nil)
	var saved *domain.UserProfile
	profileRepo.On("CompleteOnboarding", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { saved = args.Get(1).(*domain.UserProfile) }).
		Return(nil)

	_, err := svc.Complete(context.Background(), 2, service.CompleteOnboardingInput{
		TargetLanguage:  "es",
		SessionsPerWeek: ptr(domain.SessionsPerWeek(12)),
	})

	require.NoError(t, err)
	assert.Equal(t, domain.ProficiencyBeginner, saved.ProficiencyLevel)
	assert.Equal(t, domain.StringList{}, saved.Goals)
	assert.Equal(t, 3, saved.SessionsPerWeek)
	assert.True(t, saved.NotificationsEnabled)
	assert.Nil(t, saved.ReminderTime)
}

func TestOnboarding_Complete_AlreadyCompleted(t *testing.T) {
	userRepo, profileRepo, svc := setupOnboarding()

	userRepo.On("GetByID", mock.Anything, int64(3)).Return(&domain.User{ID: 3, OnboardingCompleted: true}, nil)

	_, err := svc.Complete(context.Background(), 3, service.CompleteOnboardingInput{TargetLanguage: "es"})
	assert.ErrorIs(t, err, domain.ErrOnboardingAlreadyCompleted)
	profileRepo.AssertNotCalled(t, "CompleteOnboarding", mock.Anything, mock.Anything)
}

func TestOnboarding_Complete_ConcurrentCompletionRejectedByStore(t *testing.T) {
	userRepo, profileRepo, svc := setupOnboarding()

	userRepo.On("GetByID", mock.Anything, int64(4)).Return(&domain.User{ID: 4}, nil)
	profileRepo.On("CompleteOnboarding", mock.Anything, mock.Anything).Return(domain.ErrOnboardingAlreadyCompleted)

	_, err := svc.Complete(context.Background(), 4, service.CompleteOnboardingInput{TargetLanguage: "es"})
	assert.ErrorIs(t, err, domain.ErrOnboardingAlreadyCompleted)
}

func TestOnboarding_Complete_InvalidScore(t *testing.T) {
	userRepo, _, svc := setupOnboarding()

	userRepo.On("GetByID", mock.Anything, int64(5)).Return(&domain.User{ID: 5}, nil)

	_, err := svc.Complete(context.Background(), 5, service.CompleteOnboardingInput{
		TargetLanguage: "es",
		QuizScore:      ptr(9),
	})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestOnboarding_Complete_InvalidLanguage(t *testing.T) {
	userRepo, _, svc := setupOnboarding()

	userRepo.On("GetByID", mock.Anything, int64(6)).Return(&domain.User{ID: 6}, nil)

	_, err := svc.Complete(context.Background(), 6, service.CompleteOnboardingInput{TargetLanguage: "de"})
	assert.ErrorIs(t, err, domain.ErrValidation)
}
