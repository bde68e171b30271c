package port

import "context"

// SocialAuthClaims holds the verified claims from a social identity provider.
type SocialAuthClaims struct {
	Subject       string // Provider-specific user ID (the "sub" claim)
	Email         string
	EmailVerified bool
	FirstName     string
	LastName      string
}

// SocialTokenVerifier validates an ID token from a social identity provider.
// Implementations return domain.ErrSocialAuthTokenInvalid for a bad token and
// domain.ErrProviderUnreachable when the provider cannot be reached in time.
type SocialTokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*SocialAuthClaims, error)
	Provider() string
}
