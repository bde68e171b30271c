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

const lessonColumns = `l.id, l.scenario_id, s.title AS scenario_title, s.description AS scenario_description,
	l.lesson_type, l.title, l.description, l.sort_order, l.steps, l.estimated_minutes, l.is_active,
	l.created_at, l.updated_at`

type lessonRepo struct {
	db *sqlx.DB
}

// NewLessonRepo creates a new PostgreSQL-backed LessonRepository.
func NewLessonRepo(db *sqlx.DB) port.LessonRepository {
	return &lessonRepo{db: db}
}

func (r *lessonRepo) ListActive(ctx context.Context, filter port.LessonFilter) ([]domain.Lesson, error) {
	query := "SELECT " + lessonColumns + " FROM lessons l JOIN scenarios s ON s.id = l.scenario_id WHERE l.is_active"
	var args []any
	if filter.ScenarioID != 0 {
		args = append(args, filter.ScenarioID)
		query += fmt.Sprintf(" AND l.scenario_id = $%d", len(args))
	}
	if filter.LessonType != "" {
		args = append(args, filter.LessonType)
		query += fmt.Sprintf(" AND l.lesson_type = $%d", len(args))
	}
	if filter.Language != "" {
		args = append(args, filter.Language)
		query += fmt.Sprintf(" AND s.language = $%d", len(args))
	}
	query += " ORDER BY l.scenario_id, l.sort_order, l.id"

	lessons := []domain.Lesson{}
	if err := r.db.SelectContext(ctx, &lessons, query, args...); err != nil {
		return nil, fmt.Errorf("lessonRepo.ListActive: %w", err)
	}
	return lessons, nil
}

func (r *lessonRepo) GetActive(ctx context.Context, lessonID int64) (*domain.Lesson, error) {
	var lesson domain.Lesson
	err := r.db.GetContext(ctx, &lesson,
		"SELECT "+lessonColumns+" FROM lessons l JOIN scenarios s ON s.id = l.scenario_id WHERE l.id = $1 AND l.is_active",
		lessonID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrLessonNotFound
		}
		return nil, fmt.Errorf("lessonRepo.GetActive: %w", err)
	}
	return &lesson, nil
}

func (r *lessonRepo) ListForPlan(ctx context.Context, language domain.TargetLanguage, limit int) ([]domain.Lesson, error) {
	query := "SELECT " + lessonColumns + ` FROM lessons l JOIN scenarios s ON s.id = l.scenario_id
		WHERE l.is_active AND s.is_active AND s.language = $1
		ORDER BY ` + difficultyRank + `, l.sort_order, l.id
		LIMIT $2`

	lessons := []domain.Lesson{}
	if err := r.db.SelectContext(ctx, &lessons, query, language, limit); err != nil {
		return nil, fmt.Errorf("lessonRepo.ListForPlan: %w", err)
	}
	return lessons, nil
}

func (r *lessonRepo) GetByTitle(ctx context.Context, scenarioID int64, title string) (*domain.Lesson, error) {
	var lesson domain.Lesson
	err := r.db.GetContext(ctx, &lesson,
		"SELECT "+lessonColumns+` FROM lessons l JOIN scenarios s ON s.id = l.scenario_id
		WHERE l.scenario_id = $1 AND l.title = $2 ORDER BY l.id LIMIT 1`,
		scenarioID, title)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("lessonRepo.GetByTitle: %w", err)
	}
	return &lesson, nil
}

func (r *lessonRepo) Create(ctx context.Context, l *domain.Lesson) error {
	steps := l.Steps
	if len(steps) == 0 {
		steps = []byte("[]")
	}
	query := `INSERT INTO lessons (scenario_id, lesson_type, title, description, sort_order, steps,
		estimated_minutes, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at`
	err := r.db.QueryRowxContext(ctx, query,
		l.ScenarioID, l.LessonType, l.Title, l.Description, l.Order, string(steps),
		l.EstimatedMinutes, l.IsActive,
	).Scan(&l.ID, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		return fmt.Errorf("lessonRepo.Create: %w", err)
	}
	return nil
}
