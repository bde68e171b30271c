package service

import (
	"context"
	"fmt"

	"hearsay/internal/domain"
	"hearsay/internal/port"
)

// CompleteOnboardingInput is the DTO for finishing onboarding.
type CompleteOnboardingInput struct {
	TargetLanguage       string                  `json:"target_language" binding:"required,oneof=es fr"`
	QuizScore            *int                    `json:"quiz_score" binding:"omitempty,min=0,max=5"`
	Goals                []string                `json:"goals" binding:"omitempty,max=20,dive,max=100"`
	SessionsPerWeek      *domain.SessionsPerWeek `json:"sessions_per_week"`
	NotificationsEnabled *bool                   `json:"notifications_enabled"`
	ReminderTime         *string                 `json:"reminder_time" binding:"omitempty,hhmm"`
}

// OnboardingResult is returned once onboarding completes.
type OnboardingResult struct {
	User    *domain.User        `json:"user"`
	Profile *domain.UserProfile `json:"profile"`
}

// OnboardingService defines the onboarding contract.
type OnboardingService interface {
	Complete(ctx context.Context, userID int64, input CompleteOnboardingInput) (*OnboardingResult, error)
}

type onboardingService struct {
	userRepo    port.UserRepository
	profileRepo port.ProfileRepository
}

// NewOnboardingService creates a new OnboardingService implementation.
func NewOnboardingService(userRepo port.UserRepository, profileRepo port.ProfileRepository) OnboardingService {
	return &onboardingService{userRepo: userRepo, profileRepo: profileRepo}
}

func (s *onboardingService) Complete(ctx context.Context, userID int64, input CompleteOnboardingInput) (*OnboardingResult, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.OnboardingCompleted {
		return nil, domain.ErrOnboardingAlreadyCompleted
	}

	language := domain.TargetLanguage(input.TargetLanguage)
	if !domain.ValidTargetLanguages[language] {
		return nil, fmt.Errorf("%w: unsupported target language %q", domain.ErrValidation, input.TargetLanguage)
	}

	score := 0
	if input.QuizScore != nil {
		score = *input.QuizScore
	}
	level, err := domain.ClassifyProficiency(score)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	goals := domain.StringList(input.Goals)
	if goals == nil {
		goals = domain.StringList{}
	}
	notifications := true
	if input.NotificationsEnabled != nil {
		notifications = *input.NotificationsEnabled
	}
	sessions := domain.DefaultSessionsPerWeek
	if input.SessionsPerWeek != nil {
		sessions = domain.NormalizeSessionsPerWeek(int(*input.SessionsPerWeek))
	}
	var reminder *string
	if input.ReminderTime != nil && domain.IsReminderTime(*input.ReminderTime) {
		r := *input.ReminderTime
		reminder = &r
	}

	profile := &domain.UserProfile{
		UserID:                 user.ID,
		TargetLanguage:         language,
		NativeLanguage:         domain.DefaultNativeLanguage,
		ProficiencyLevel:       level,
		Goals:                  goals,
		SessionsPerWeek:        sessions,
		SessionDurationMinutes: domain.DefaultSessionDurationMinutes,
		NotificationsEnabled:   notifications,
		ReminderTime:           reminder,
		Timezone:               domain.DefaultTimezone,
	}
	if err := s.profileRepo.CompleteOnboarding(ctx, profile); err != nil {
		return nil, err
	}

	user.OnboardingCompleted = true
	user.Profile = profile
	return &OnboardingResult{User: user, Profile: profile}, nil
}
