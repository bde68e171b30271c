// Package dev provides a token verifier for local development that accepts
// any token without contacting a provider. It must never be wired outside
// the development environment.
package dev

import (
	"context"

	"go.uber.org/zap"

	"hearsay/internal/logger"
	"hearsay/internal/port"
)

const (
	// DefaultEmail is used when neither the token nor the request carries one.
	DefaultEmail = "dev@example.com"

	defaultSubject = "dev_test_user"
	subjectPrefix  = "dev_"
	tokenPrefixLen = 20
)

// Verifier derives a stable identity from the raw token text.
type Verifier struct {
	provider string
}

// NewVerifier creates a dev verifier that reports itself as provider.
func NewVerifier(provider string) *Verifier {
	return &Verifier{provider: provider}
}

func (v *Verifier) VerifyIDToken(ctx context.Context, idToken string) (*port.SocialAuthClaims, error) {
	subject := defaultSubject
	if idToken != "" {
		prefix := idToken
		if len(prefix) > tokenPrefixLen {
			prefix = prefix[:tokenPrefixLen]
		}
		subject = subjectPrefix + prefix
	}

	logger.From(ctx).Warn("dev token verifier used",
		logger.Provider(v.provider), zap.String("subject", subject))

	return &port.SocialAuthClaims{
		Subject:   subject,
		FirstName: "Dev",
		LastName:  "User",
	}, nil
}

func (v *Verifier) Provider() string {
	return v.provider
}

// Compile-time check.
var _ port.SocialTokenVerifier = (*Verifier)(nil)
