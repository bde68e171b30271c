package port

import (
	"context"
	"time"

	"hearsay/internal/domain"
)

// UserRepository defines the contract for account persistence.
// The unique constraints on email, username and (provider, subject id) are
// enforced by the store; violations come back as domain.ErrDuplicate* errors.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, userID int64) (*domain.User, error)
	GetByProviderID(ctx context.Context, provider domain.AuthProvider, subjectID string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	ExistsUsername(ctx context.Context, username string) (bool, error)
	LinkProvider(ctx context.Context, userID int64, provider domain.AuthProvider, subjectID string) (*domain.User, error)
	UpdateNames(ctx context.Context, userID int64, firstName, lastName *string) (*domain.User, error)
	TouchLastLogin(ctx context.Context, userID int64) error
}

// ProfileRepository defines the contract for learner profile persistence.
type ProfileRepository interface {
	GetByUserID(ctx context.Context, userID int64) (*domain.UserProfile, error)
	// CompleteOnboarding upserts the profile and flips users.onboarding_completed
	// in one transaction. Returns domain.ErrOnboardingAlreadyCompleted if the
	// flag was already set.
	CompleteOnboarding(ctx context.Context, profile *domain.UserProfile) error
}

// ScenarioRepository defines the contract for scenario persistence.
type ScenarioRepository interface {
	ListActive(ctx context.Context, language string) ([]domain.Scenario, error)
	GetByTitle(ctx context.Context, language domain.TargetLanguage, title string) (*domain.Scenario, error)
	Create(ctx context.Context, scenario *domain.Scenario) error
}

// LessonFilter narrows ListActive. Zero values mean "any".
type LessonFilter struct {
	ScenarioID int64
	LessonType domain.LessonType
	Language   string
}

// LessonRepository defines the contract for lesson persistence.
type LessonRepository interface {
	ListActive(ctx context.Context, filter LessonFilter) ([]domain.Lesson, error)
	GetActive(ctx context.Context, lessonID int64) (*domain.Lesson, error)
	ListForPlan(ctx context.Context, language domain.TargetLanguage, limit int) ([]domain.Lesson, error)
	GetByTitle(ctx context.Context, scenarioID int64, title string) (*domain.Lesson, error)
	Create(ctx context.Context, lesson *domain.Lesson) error
}

// AttemptRepository defines the contract for lesson attempt persistence.
type AttemptRepository interface {
	ListRecent(ctx context.Context, userID, lessonID int64, limit int) ([]domain.Attempt, error)
	// Record inserts a completed attempt and, when the user has a profile,
	// updates its totals and streak for the given day in the same transaction.
	Record(ctx context.Context, attempt *domain.Attempt, today time.Time) error
	CountCompletedOn(ctx context.Context, userID int64, day time.Time) (int, error)
}

// TokenDenylist records revoked refresh-token ids until they expire.
type TokenDenylist interface {
	Revoke(ctx context.Context, jti string, ttl time.Duration) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}
