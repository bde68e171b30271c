package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"strings"

	"hearsay/internal/domain"
	"hearsay/internal/logger"
	"hearsay/internal/port"
)

const (
	usernamePrefixMaxLen   = 20
	usernameSuffixLen      = 6
	usernameWideSuffixLen  = 10
	usernameWidenAfter     = 5
	usernameMaxAttempts    = 10
	usernameFallbackPrefix = "user"
	usernameAlphabet       = "abcdefghijklmnopqrstuvwxyz0123456789"
	unusablePasswordLen    = 40

	// Bytes at or above this value are discarded so every character is equally likely.
	alphabetByteLimit = 256 - 256%len(usernameAlphabet)
)

// Resolution is the account an external identity resolved to, and how.
type Resolution struct {
	User    *domain.User
	Outcome domain.ResolveOutcome
}

// IdentityResolver maps a verified external identity to exactly one account.
type IdentityResolver interface {
	Resolve(ctx context.Context, identity domain.ExternalIdentity) (*Resolution, error)
}

type identityResolver struct {
	userRepo port.UserRepository
}

// NewIdentityResolver creates a new IdentityResolver.
func NewIdentityResolver(userRepo port.UserRepository) IdentityResolver {
	return &identityResolver{userRepo: userRepo}
}

// Resolve applies, in order: exact (provider, subject) match, email link, and
// provisioning of a new account.
func (r *identityResolver) Resolve(ctx context.Context, identity domain.ExternalIdentity) (*Resolution, error) {
	email := normalizeEmail(identity.Email)

	// 1. Exact match: no writes.
	user, err := r.userRepo.GetByProviderID(ctx, identity.Provider, identity.SubjectID)
	if err == nil {
		return &Resolution{User: user, Outcome: domain.OutcomeMatched}, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("resolver: looking up provider identity: %w", err)
	}

	// 2. Email link: overwrite whatever provider the account had before.
	if email != "" {
		existing, err := r.userRepo.GetByEmail(ctx, email)
		switch {
		case err == nil:
			linked, linkErr := r.userRepo.LinkProvider(ctx, existing.ID, identity.Provider, identity.SubjectID)
			if linkErr != nil {
				if errors.Is(linkErr, domain.ErrDuplicateIdentity) {
					return nil, domain.ErrAccountCreationConflict
				}
				return nil, fmt.Errorf("resolver: linking provider: %w", linkErr)
			}
			logger.From(ctx).Info("linked sso identity to existing account",
				logger.UserID(linked.ID), logger.Provider(string(identity.Provider)))
			return &Resolution{User: linked, Outcome: domain.OutcomeLinked}, nil
		case !errors.Is(err, domain.ErrNotFound):
			return nil, fmt.Errorf("resolver: looking up email: %w", err)
		}
	}

	// 3. Provision.
	user, err = r.provision(ctx, identity, email)
	if err != nil {
		return nil, err
	}
	logger.From(ctx).Info("provisioned account from sso identity",
		logger.UserID(user.ID), logger.Provider(string(identity.Provider)))
	return &Resolution{User: user, Outcome: domain.OutcomeProvisioned}, nil
}

func (r *identityResolver) provision(ctx context.Context, identity domain.ExternalIdentity, email string) (*domain.User, error) {
	password, err := unusablePassword()
	if err != nil {
		return nil, err
	}
	provider := identity.Provider
	subject := identity.SubjectID
	prefix := usernamePrefix(email)

	for attempt := 0; attempt < usernameMaxAttempts; attempt++ {
		suffixLen := usernameSuffixLen
		if attempt >= usernameWidenAfter {
			suffixLen = usernameWideSuffixLen
		}
		suffix, err := randomString(suffixLen)
		if err != nil {
			return nil, err
		}
		candidate := prefix + "_" + suffix

		taken, err := r.userRepo.ExistsUsername(ctx, candidate)
		if err != nil {
			return nil, fmt.Errorf("resolver: checking username: %w", err)
		}
		if taken {
			continue
		}

		user := &domain.User{
			Email:        email,
			Username:     candidate,
			FirstName:    identity.FirstName,
			LastName:     identity.LastName,
			PasswordHash: password,
			Provider:     &provider,
			SubjectID:    &subject,
		}
		err = r.userRepo.Create(ctx, user)
		switch {
		case err == nil:
			return user, nil
		case errors.Is(err, domain.ErrDuplicateUsername):
			continue
		case errors.Is(err, domain.ErrDuplicateEmail), errors.Is(err, domain.ErrDuplicateIdentity):
			return nil, domain.ErrAccountCreationConflict
		default:
			return nil, fmt.Errorf("resolver: creating account: %w", err)
		}
	}
	return nil, domain.ErrUsernameExhausted
}

// usernamePrefix returns the email local part truncated to 20 characters,
// or "user" when there is none.
func usernamePrefix(email string) string {
	local, _, _ := strings.Cut(email, "@")
	if local == "" {
		return usernameFallbackPrefix
	}
	runes := []rune(local)
	if len(runes) > usernamePrefixMaxLen {
		runes = runes[:usernamePrefixMaxLen]
	}
	return string(runes)
}

func randomString(n int) (string, error) {
	return randomStringFrom(rand.Reader, n)
}

func randomStringFrom(src io.Reader, n int) (string, error) {
	out := make([]byte, 0, n)
	buf := make([]byte, n)
	for len(out) < n {
		if _, err := io.ReadFull(src, buf); err != nil {
			return "", fmt.Errorf("reading random bytes: %w", err)
		}
		for _, b := range buf {
			if int(b) >= alphabetByteLimit {
				continue
			}
			out = append(out, usernameAlphabet[int(b)%len(usernameAlphabet)])
			if len(out) == n {
				break
			}
		}
	}
	return string(out), nil
}

func unusablePassword() (string, error) {
	s, err := randomString(unusablePasswordLen)
	if err != nil {
		return "", err
	}
	return domain.UnusablePasswordPrefix + s, nil
}
