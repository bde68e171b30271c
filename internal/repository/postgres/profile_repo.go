package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"hearsay/internal/domain"
	"hearsay/internal/port"
)

type profileRepo struct {
	db *sqlx.DB
}

// NewProfileRepo creates a new PostgreSQL-backed ProfileRepository.
func NewProfileRepo(db *sqlx.DB) port.ProfileRepository {
	return &profileRepo{db: db}
}

func (r *profileRepo) GetByUserID(ctx context.Context, userID int64) (*domain.UserProfile, error) {
	var profile domain.UserProfile
	err := r.db.GetContext(ctx, &profile, "SELECT * FROM user_profiles WHERE user_id = $1", userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("profileRepo.GetByUserID: %w", err)
	}
	return &profile, nil
}

func (r *profileRepo) CompleteOnboarding(ctx context.Context, p *domain.UserProfile) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("profileRepo.CompleteOnboarding begin: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	result, err := tx.ExecContext(ctx,
		`UPDATE users SET onboarding_completed = TRUE, updated_at = NOW()
		WHERE id = $1 AND onboarding_completed = FALSE`, p.UserID)
	if err != nil {
		return fmt.Errorf("profileRepo.CompleteOnboarding flag: %w", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		var exists bool
		if err := tx.GetContext(ctx, &exists, "SELECT EXISTS(SELECT 1 FROM users WHERE id = $1)", p.UserID); err != nil {
			return fmt.Errorf("profileRepo.CompleteOnboarding lookup: %w", err)
		}
		if !exists {
			return domain.ErrNotFound
		}
		return domain.ErrOnboardingAlreadyCompleted
	}

	query := `INSERT INTO user_profiles (user_id, target_language, native_language, proficiency_level,
		goals, sessions_per_week, session_duration_minutes, notifications_enabled, reminder_time, timezone)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (user_id) DO UPDATE SET
			target_language = EXCLUDED.target_language,
			native_language = EXCLUDED.native_language,
			proficiency_level = EXCLUDED.proficiency_level,
			goals = EXCLUDED.goals,
			sessions_per_week = EXCLUDED.sessions_per_week,
			session_duration_minutes = EXCLUDED.session_duration_minutes,
			notifications_enabled = EXCLUDED.notifications_enabled,
			reminder_time = EXCLUDED.reminder_time,
			timezone = EXCLUDED.timezone,
			updated_at = NOW()
		RETURNING *`

	err = tx.GetContext(ctx, p, query,
		p.UserID, p.TargetLanguage, p.NativeLanguage, p.ProficiencyLevel,
		p.Goals, p.SessionsPerWeek, p.SessionDurationMinutes, p.NotificationsEnabled,
		p.ReminderTime, p.Timezone)
	if err != nil {
		return fmt.Errorf("profileRepo.CompleteOnboarding upsert: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("profileRepo.CompleteOnboarding commit: %w", err)
	}
	return nil
}
