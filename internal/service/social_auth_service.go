package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"hearsay/internal/auth/dev"
	"hearsay/internal/domain"
	"hearsay/internal/logger"
	"hearsay/internal/metrics"
	"hearsay/internal/port"
)

const welcomeEmailTimeout = 30 * time.Second

// SocialLoginInput is the DTO for SSO sign-in requests. Names and email are
// optional hints from the client; Apple only shares names on the first
// authorization.
type SocialLoginInput struct {
	Provider  string `json:"provider" binding:"required"`
	IDToken   string `json:"id_token"`
	Email     string `json:"email" binding:"omitempty,email"`
	FirstName string `json:"first_name" binding:"max=150"`
	LastName  string `json:"last_name" binding:"max=150"`
	DevMode   bool   `json:"dev_mode"`
}

// SocialLoginOutput contains the results of a social login.
type SocialLoginOutput struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	User         *domain.User `json:"user"`
	IsNewUser    bool         `json:"is_new_user"`
}

// SocialAuthService defines the social authentication contract.
type SocialAuthService interface {
	SocialLogin(ctx context.Context, input SocialLoginInput) (*SocialLoginOutput, error)
}

type socialAuthService struct {
	verifiers   map[string]port.SocialTokenVerifier
	devVerifier port.SocialTokenVerifier
	resolver    IdentityResolver
	userRepo    port.UserRepository
	profileRepo port.ProfileRepository
	authSvc     AuthService
	emailSender port.EmailSender
}

// NewSocialAuthService creates a new SocialAuthService. devVerifier is nil
// outside development, which makes dev_mode requests fail.
func NewSocialAuthService(
	verifiers map[string]port.SocialTokenVerifier,
	devVerifier port.SocialTokenVerifier,
	resolver IdentityResolver,
	userRepo port.UserRepository,
	profileRepo port.ProfileRepository,
	authSvc AuthService,
	emailSender port.EmailSender,
) SocialAuthService {
	return &socialAuthService{
		verifiers:   verifiers,
		devVerifier: devVerifier,
		resolver:    resolver,
		userRepo:    userRepo,
		profileRepo: profileRepo,
		authSvc:     authSvc,
		emailSender: emailSender,
	}
}

func (s *socialAuthService) SocialLogin(ctx context.Context, input SocialLoginInput) (*SocialLoginOutput, error) {
	provider := domain.AuthProvider(strings.ToLower(strings.TrimSpace(input.Provider)))
	if !domain.SSOProviders[provider] {
		return nil, domain.ErrUnsupportedProvider
	}

	res, err := s.authenticate(ctx, provider, input)
	if err != nil {
		metrics.ObserveSSOLogin(string(provider), "failed")
		return nil, err
	}
	metrics.ObserveSSOLogin(string(provider), string(res.Outcome))

	user := res.User
	if err := s.userRepo.TouchLastLogin(ctx, user.ID); err != nil {
		return nil, fmt.Errorf("social login: %w", err)
	}
	if err := attachProfile(ctx, s.profileRepo, user); err != nil {
		return nil, err
	}

	tokens, err := s.authSvc.GenerateTokenPairForUser(user)
	if err != nil {
		return nil, fmt.Errorf("generating tokens: %w", err)
	}

	isNew := res.Outcome == domain.OutcomeProvisioned
	if isNew && user.Email != "" {
		s.sendWelcome(ctx, user)
	}

	return &SocialLoginOutput{
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
		User:         user,
		IsNewUser:    isNew,
	}, nil
}

// authenticate verifies the token once and resolves it to an account,
// retrying the resolution once if a concurrent sign-in created the account first.
func (s *socialAuthService) authenticate(ctx context.Context, provider domain.AuthProvider, input SocialLoginInput) (*Resolution, error) {
	verifier, err := s.verifierFor(provider, input)
	if err != nil {
		return nil, err
	}

	claims, err := verifier.VerifyIDToken(ctx, input.IDToken)
	if err != nil {
		return nil, err
	}

	identity := domain.ExternalIdentity{
		Provider:  provider,
		SubjectID: claims.Subject,
		Email:     claims.Email,
		FirstName: claims.FirstName,
		LastName:  claims.LastName,
	}
	if input.FirstName != "" {
		identity.FirstName = input.FirstName
	}
	if input.LastName != "" {
		identity.LastName = input.LastName
	}
	if identity.Email == "" {
		identity.Email = input.Email
	}
	if input.DevMode && identity.Email == "" {
		identity.Email = dev.DefaultEmail
	}

	res, err := s.resolver.Resolve(ctx, identity)
	if errors.Is(err, domain.ErrAccountCreationConflict) {
		logger.From(ctx).Info("account creation conflict, resolving again", logger.Provider(string(provider)))
		res, err = s.resolver.Resolve(ctx, identity)
	}
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (s *socialAuthService) verifierFor(provider domain.AuthProvider, input SocialLoginInput) (port.SocialTokenVerifier, error) {
	if input.IDToken == "" {
		return nil, fmt.Errorf("%w: id_token is required", domain.ErrValidation)
	}
	if input.DevMode {
		if s.devVerifier == nil {
			return nil, domain.ErrDevLoginNotAllowed
		}
		return s.devVerifier, nil
	}
	verifier, ok := s.verifiers[string(provider)]
	if !ok {
		return nil, domain.ErrUnsupportedProvider
	}
	return verifier, nil
}

// sendWelcome delivers the welcome email in the background; failures are only logged.
func (s *socialAuthService) sendWelcome(ctx context.Context, user *domain.User) {
	log := logger.From(ctx)
	bg := context.WithoutCancel(ctx)
	userID, email, name := user.ID, user.Email, user.FirstName
	if name == "" {
		name = user.Username
	}
	go func() {
		sendCtx, cancel := context.WithTimeout(bg, welcomeEmailTimeout)
		defer cancel()
		if err := s.emailSender.SendWelcomeEmail(sendCtx, email, name); err != nil {
			log.Warn("welcome email failed", logger.UserID(userID), zap.Error(err))
		}
	}()
}

// attachProfile loads the user's profile, leaving it nil when onboarding has
// not happened yet.
func attachProfile(ctx context.Context, profiles port.ProfileRepository, user *domain.User) error {
	profile, err := profiles.GetByUserID(ctx, user.ID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			user.Profile = nil
			return nil
		}
		return fmt.Errorf("loading profile: %w", err)
	}
	user.Profile = profile
	return nil
}
