package google

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"hearsay/internal/domain"
	"hearsay/internal/port"
)

// DefaultTokenInfoURL is Google's ID token introspection endpoint.
const DefaultTokenInfoURL = "https://oauth2.googleapis.com/tokeninfo"

type tokenInfoResponse struct {
	Iss           string `json:"iss"`
	Aud           string `json:"aud"`
	Sub           string `json:"sub"`
	Email         string `json:"email"`
	EmailVerified string `json:"email_verified"`
	GivenName     string `json:"given_name"`
	FamilyName    string `json:"family_name"`
}

// Verifier validates Google ID tokens via the tokeninfo endpoint.
type Verifier struct {
	clientID     string
	tokenInfoURL string
	httpClient   *http.Client
}

// NewVerifier creates a new Google ID token verifier. When clientID is empty
// the audience is not checked.
func NewVerifier(clientID string, timeout time.Duration) *Verifier {
	return NewVerifierWithURL(clientID, DefaultTokenInfoURL, timeout)
}

// NewVerifierWithURL creates a verifier against a custom tokeninfo endpoint.
func NewVerifierWithURL(clientID, tokenInfoURL string, timeout time.Duration) *Verifier {
	return &Verifier{
		clientID:     clientID,
		tokenInfoURL: tokenInfoURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

func (v *Verifier) VerifyIDToken(ctx context.Context, idToken string) (*port.SocialAuthClaims, error) {
	endpoint := v.tokenInfoURL + "?id_token=" + url.QueryEscape(idToken)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("creating tokeninfo request: %w", err)
	}

	resp, err := v.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: google tokeninfo: %v", domain.ErrProviderUnreachable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= http.StatusInternalServerError {
		return nil, fmt.Errorf("%w: google tokeninfo returned %d", domain.ErrProviderUnreachable, resp.StatusCode)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, domain.ErrSocialAuthTokenInvalid
	}

	var info tokenInfoResponse
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, domain.ErrSocialAuthTokenInvalid
	}

	// Validate audience matches our client ID
	if v.clientID != "" && info.Aud != v.clientID {
		return nil, domain.ErrSocialAuthTokenInvalid
	}

	// Validate issuer
	if info.Iss != "accounts.google.com" && info.Iss != "https://accounts.google.com" {
		return nil, domain.ErrSocialAuthTokenInvalid
	}

	if info.Sub == "" {
		return nil, domain.ErrSocialAuthTokenInvalid
	}

	return &port.SocialAuthClaims{
		Subject:       info.Sub,
		Email:         info.Email,
		EmailVerified: info.EmailVerified == "true",
		FirstName:     info.GivenName,
		LastName:      info.FamilyName,
	}, nil
}

func (v *Verifier) Provider() string {
	return string(domain.AuthProviderGoogle)
}

// Compile-time check.
var _ port.SocialTokenVerifier = (*Verifier)(nil)
