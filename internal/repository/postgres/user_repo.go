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

// Email is nullable in the table; callers always see a string.
const userColumns = `id, COALESCE(email, '') AS email, username, first_name, last_name,
	password_hash, sso_provider, sso_id, onboarding_completed, last_login_at,
	created_at, updated_at`

type userRepo struct {
	db *sqlx.DB
}

// NewUserRepo creates a new PostgreSQL-backed UserRepository.
func NewUserRepo(db *sqlx.DB) port.UserRepository {
	return &userRepo{db: db}
}

// mapUserConstraint translates a unique violation on users into a domain error.
func mapUserConstraint(err error) error {
	constraint, ok := uniqueViolation(err)
	if !ok {
		return nil
	}
	switch constraint {
	case "users_email_key":
		return domain.ErrDuplicateEmail
	case "users_username_key":
		return domain.ErrDuplicateUsername
	case "users_sso_identity_key":
		return domain.ErrDuplicateIdentity
	default:
		return fmt.Errorf("unexpected unique violation on %s: %w", constraint, err)
	}
}

func (r *userRepo) Create(ctx context.Context, user *domain.User) error {
	query := `INSERT INTO users (email, username, first_name, last_name, password_hash,
		sso_provider, sso_id, onboarding_completed)
		VALUES (NULLIF($1, ''), $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at`

	err := r.db.QueryRowxContext(ctx, query,
		user.Email, user.Username, user.FirstName, user.LastName, user.PasswordHash,
		user.Provider, user.SubjectID, user.OnboardingCompleted,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if mapped := mapUserConstraint(err); mapped != nil {
			return mapped
		}
		return fmt.Errorf("userRepo.Create: %w", err)
	}
	return nil
}

func (r *userRepo) get(ctx context.Context, op, where string, args ...any) (*domain.User, error) {
	var user domain.User
	err := r.db.GetContext(ctx, &user, "SELECT "+userColumns+" FROM users WHERE "+where, args...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("userRepo.%s: %w", op, err)
	}
	return &user, nil
}

func (r *userRepo) GetByID(ctx context.Context, userID int64) (*domain.User, error) {
	return r.get(ctx, "GetByID", "id = $1", userID)
}

func (r *userRepo) GetByProviderID(ctx context.Context, provider domain.AuthProvider, subjectID string) (*domain.User, error) {
	return r.get(ctx, "GetByProviderID", "sso_provider = $1 AND sso_id = $2", provider, subjectID)
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.get(ctx, "GetByEmail", "email = $1", email)
}

func (r *userRepo) ExistsUsername(ctx context.Context, username string) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists,
		"SELECT EXISTS(SELECT 1 FROM users WHERE username = $1)", username)
	if err != nil {
		return false, fmt.Errorf("userRepo.ExistsUsername: %w", err)
	}
	return exists, nil
}

func (r *userRepo) LinkProvider(ctx context.Context, userID int64, provider domain.AuthProvider, subjectID string) (*domain.User, error) {
	var user domain.User
	query := `UPDATE users SET sso_provider = $1, sso_id = $2, updated_at = NOW()
		WHERE id = $3 RETURNING ` + userColumns
	err := r.db.GetContext(ctx, &user, query, provider, subjectID, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		if mapped := mapUserConstraint(err); mapped != nil {
			return nil, mapped
		}
		return nil, fmt.Errorf("userRepo.LinkProvider: %w", err)
	}
	return &user, nil
}

func (r *userRepo) UpdateNames(ctx context.Context, userID int64, firstName, lastName *string) (*domain.User, error) {
	var user domain.User
	query := `UPDATE users SET first_name = COALESCE($1, first_name),
		last_name = COALESCE($2, last_name), updated_at = NOW()
		WHERE id = $3 RETURNING ` + userColumns
	err := r.db.GetContext(ctx, &user, query, firstName, lastName, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("userRepo.UpdateNames: %w", err)
	}
	return &user, nil
}

func (r *userRepo) TouchLastLogin(ctx context.Context, userID int64) error {
	_, err := r.db.ExecContext(ctx, "UPDATE users SET last_login_at = NOW() WHERE id = $1", userID)
	if err != nil {
		return fmt.Errorf("userRepo.TouchLastLogin: %w", err)
	}
	return nil
}
