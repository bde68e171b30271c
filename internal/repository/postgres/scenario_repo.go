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

// difficultyRank orders scenarios from easiest to hardest.
const difficultyRank = `CASE s.difficulty
	WHEN 'beginner' THEN 1
	WHEN 'elementary' THEN 2
	WHEN 'intermediate' THEN 3
	WHEN 'upper_intermediate' THEN 4
	WHEN 'advanced' THEN 5
	ELSE 6 END`

type scenarioRepo struct {
	db *sqlx.DB
}

// NewScenarioRepo creates a new PostgreSQL-backed ScenarioRepository.
func NewScenarioRepo(db *sqlx.DB) port.ScenarioRepository {
	return &scenarioRepo{db: db}
}

func (r *scenarioRepo) ListActive(ctx context.Context, language string) ([]domain.Scenario, error) {
	query := `SELECT s.*,
		(SELECT COUNT(*) FROM lessons l WHERE l.scenario_id = s.id AND l.is_active) AS lesson_count
		FROM scenarios s WHERE s.is_active`
	var args []any
	if language != "" {
		args = append(args, language)
		query += " AND s.language = $1"
	}
	query += " ORDER BY " + difficultyRank + ", s.title"

	scenarios := []domain.Scenario{}
	if err := r.db.SelectContext(ctx, &scenarios, query, args...); err != nil {
		return nil, fmt.Errorf("scenarioRepo.ListActive: %w", err)
	}
	return scenarios, nil
}

func (r *scenarioRepo) GetByTitle(ctx context.Context, language domain.TargetLanguage, title string) (*domain.Scenario, error) {
	var s domain.Scenario
	err := r.db.GetContext(ctx, &s,
		`SELECT s.*, 0 AS lesson_count FROM scenarios s WHERE s.language = $1 AND s.title = $2
		ORDER BY s.id LIMIT 1`, language, title)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scenarioRepo.GetByTitle: %w", err)
	}
	return &s, nil
}

func (r *scenarioRepo) Create(ctx context.Context, s *domain.Scenario) error {
	query := `INSERT INTO scenarios (title, description, context_tags, language, difficulty, image_url, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at`
	err := r.db.QueryRowxContext(ctx, query,
		s.Title, s.Description, s.ContextTags, s.Language, s.Difficulty, s.ImageURL, s.IsActive,
	).Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return fmt.Errorf("scenarioRepo.Create: %w", err)
	}
	return nil
}
