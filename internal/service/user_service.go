package service

import (
	"context"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"hearsay/internal/domain"
	"hearsay/internal/port"
)

const bcryptCost = 12

// CreateUserInput is the DTO for creating a password account.
type CreateUserInput struct {
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=8"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// UpdateUserInput is the DTO for updating the current user. Only supplied
// fields change.
type UpdateUserInput struct {
	FirstName *string `json:"first_name" binding:"omitempty,max=150"`
	LastName  *string `json:"last_name" binding:"omitempty,max=150"`
}

// UserService defines the current-user contract.
type UserService interface {
	Create(ctx context.Context, input CreateUserInput) (*domain.User, error)
	GetByID(ctx context.Context, userID int64) (*domain.User, error)
	Update(ctx context.Context, userID int64, input UpdateUserInput) (*domain.User, error)
}

type userService struct {
	repo        port.UserRepository
	profileRepo port.ProfileRepository
}

// NewUserService creates a new UserService implementation.
func NewUserService(repo port.UserRepository, profileRepo port.ProfileRepository) UserService {
	return &userService{repo: repo, profileRepo: profileRepo}
}

func (s *userService) Create(ctx context.Context, input CreateUserInput) (*domain.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}
	email := normalizeEmail(input.Email)
	suffix, err := randomString(usernameSuffixLen)
	if err != nil {
		return nil, err
	}
	provider := domain.AuthProviderEmail

	user := &domain.User{
		Email:        email,
		Username:     usernamePrefix(email) + "_" + suffix,
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		PasswordHash: string(hash),
		Provider:     &provider,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *userService) GetByID(ctx context.Context, userID int64) (*domain.User, error) {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := attachProfile(ctx, s.profileRepo, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *userService) Update(ctx context.Context, userID int64, input UpdateUserInput) (*domain.User, error) {
	user, err := s.repo.UpdateNames(ctx, userID, input.FirstName, input.LastName)
	if err != nil {
		return nil, err
	}
	if err := attachProfile(ctx, s.profileRepo, user); err != nil {
		return nil, err
	}
	return user, nil
}
