package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"hearsay/internal/domain"
	"hearsay/internal/port"
)

type attemptRepo struct {
	db *sqlx.DB
}

// NewAttemptRepo creates a new PostgreSQL-backed AttemptRepository.
func NewAttemptRepo(db *sqlx.DB) port.AttemptRepository {
	return &attemptRepo{db: db}
}

func (r *attemptRepo) ListRecent(ctx context.Context, userID, lessonID int64, limit int) ([]domain.Attempt, error) {
	query := `SELECT a.id, a.user_id, a.lesson_id, l.title AS lesson_title, a.started_at, a.completed_at,
		a.score, a.responses, a.duration_seconds
		FROM lesson_attempts a JOIN lessons l ON l.id = a.lesson_id
		WHERE a.user_id = $1 AND a.lesson_id = $2
		ORDER BY a.started_at DESC, a.id DESC
		LIMIT $3`

	attempts := []domain.Attempt{}
	if err := r.db.SelectContext(ctx, &attempts, query, userID, lessonID, limit); err != nil {
		return nil, fmt.Errorf("attemptRepo.ListRecent: %w", err)
	}
	return attempts, nil
}

type streakRow struct {
	CurrentStreakDays int        `db:"current_streak_days"`
	LongestStreakDays int        `db:"longest_streak_days"`
	LastActivityDate  *time.Time `db:"last_activity_date"`
}

func (r *attemptRepo) Record(ctx context.Context, a *domain.Attempt, today time.Time) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("attemptRepo.Record begin: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	responses := a.Responses
	if len(responses) == 0 {
		responses = []byte("[]")
	}
	err = tx.QueryRowxContext(ctx,
		`INSERT INTO lesson_attempts (user_id, lesson_id, started_at, completed_at, score, responses, duration_seconds)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`,
		a.UserID, a.LessonID, a.StartedAt, a.CompletedAt, a.Score, string(responses), a.DurationSeconds,
	).Scan(&a.ID)
	if err != nil {
		return fmt.Errorf("attemptRepo.Record insert: %w", err)
	}

	var row streakRow
	err = tx.GetContext(ctx, &row,
		`SELECT current_streak_days, longest_streak_days, last_activity_date
		FROM user_profiles WHERE user_id = $1 FOR UPDATE`, a.UserID)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		// No profile yet: the attempt is kept, stats start at onboarding.
	case err != nil:
		return fmt.Errorf("attemptRepo.Record profile: %w", err)
	default:
		streak := domain.AdvanceStreak(row.CurrentStreakDays, row.LastActivityDate, today)
		longest := max(row.LongestStreakDays, streak)
		minutes := 0
		if a.DurationSeconds != nil {
			minutes = *a.DurationSeconds / 60
		}
		_, err = tx.ExecContext(ctx,
			`UPDATE user_profiles SET
				total_lessons_completed = total_lessons_completed + 1,
				total_practice_minutes = total_practice_minutes + $1,
				last_activity_date = $2,
				current_streak_days = $3,
				longest_streak_days = $4,
				updated_at = NOW()
			WHERE user_id = $5`,
			minutes, domain.DayOf(today), streak, longest, a.UserID)
		if err != nil {
			return fmt.Errorf("attemptRepo.Record stats: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("attemptRepo.Record commit: %w", err)
	}
	return nil
}

func (r *attemptRepo) CountCompletedOn(ctx context.Context, userID int64, day time.Time) (int, error) {
	start := domain.DayOf(day)
	var n int
	err := r.db.GetContext(ctx, &n,
		`SELECT COUNT(*) FROM lesson_attempts
		WHERE user_id = $1 AND completed_at >= $2 AND completed_at < $3`,
		userID, start, start.AddDate(0, 0, 1))
	if err != nil {
		return 0, fmt.Errorf("attemptRepo.CountCompletedOn: %w", err)
	}
	return n, nil
}
