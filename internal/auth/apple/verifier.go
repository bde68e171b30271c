// Package apple verifies Sign in with Apple identity tokens against Apple's
// published signing keys.
package apple

import (
	"context"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/big"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/sync/singleflight"

	"hearsay/internal/cache"
	"hearsay/internal/domain"
	"hearsay/internal/port"
)

const (
	DefaultKeysURL  = "https://appleid.apple.com/auth/keys"
	Issuer          = "https://appleid.apple.com"
	DefaultAudience = "com.hearsay.app"

	keysCacheKey = "apple:jwks"
)

type jwk struct {
	Kty string `json:"kty"`
	Kid string `json:"kid"`
	Alg string `json:"alg"`
	Use string `json:"use"`
	N   string `json:"n"`
	E   string `json:"e"`
}

type jwks struct {
	Keys []jwk `json:"keys"`
}

// identityClaims are the claims carried by an Apple identity token. Apple
// sends email_verified either as a bool or as the string "true".
type identityClaims struct {
	Email         string `json:"email"`
	EmailVerified any    `json:"email_verified"`
	jwt.RegisteredClaims
}

// Verifier validates Apple identity tokens. Keys are cached in the shared
// cache and concurrent refreshes are coalesced.
type Verifier struct {
	audience   string
	keysURL    string
	keysTTL    time.Duration
	httpClient *http.Client
	cache      cache.Cache
	group      singleflight.Group
	now        func() time.Time
}

// Option customises a Verifier.
type Option func(*Verifier)

// WithKeysURL overrides the JWKS endpoint.
func WithKeysURL(u string) Option {
	return func(v *Verifier) { v.keysURL = u }
}

// WithClock overrides the time source used for expiry checks.
func WithClock(now func() time.Time) Option {
	return func(v *Verifier) { v.now = now }
}

// NewVerifier creates an Apple verifier. An empty clientID falls back to
// DefaultAudience.
func NewVerifier(clientID string, timeout, keysTTL time.Duration, c cache.Cache, opts ...Option) *Verifier {
	if clientID == "" {
		clientID = DefaultAudience
	}
	v := &Verifier{
		audience:   clientID,
		keysURL:    DefaultKeysURL,
		keysTTL:    keysTTL,
		httpClient: &http.Client{Timeout: timeout},
		cache:      c,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

func (v *Verifier) VerifyIDToken(ctx context.Context, idToken string) (*port.SocialAuthClaims, error) {
	var keyErr error
	claims := &identityClaims{}
	_, err := jwt.ParseWithClaims(idToken, claims, func(t *jwt.Token) (any, error) {
		kid, _ := t.Header["kid"].(string)
		if kid == "" {
			return nil, errors.New("missing kid")
		}
		key, err := v.key(ctx, kid)
		if err != nil {
			keyErr = err
			return nil, err
		}
		return key, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}),
		jwt.WithIssuer(Issuer),
		jwt.WithAudience(v.audience),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(v.now),
	)
	if keyErr != nil && errors.Is(keyErr, domain.ErrProviderUnreachable) {
		return nil, keyErr
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrSocialAuthTokenInvalid, err)
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: missing subject", domain.ErrSocialAuthTokenInvalid)
	}

	return &port.SocialAuthClaims{
		Subject:       claims.Subject,
		Email:         claims.Email,
		EmailVerified: isTrue(claims.EmailVerified),
	}, nil
}

func (v *Verifier) Provider() string {
	return string(domain.AuthProviderApple)
}

// key returns the signing key for kid, refreshing the key set at most once
// when kid is unknown.
func (v *Verifier) key(ctx context.Context, kid string) (*rsa.PublicKey, error) {
	if keys, ok := v.cachedKeys(ctx); ok {
		if k, ok := keys[kid]; ok {
			return k, nil
		}
	}

	res, err, _ := v.group.Do(keysCacheKey, func() (any, error) {
		// A flight that finished just before this one may have stored the key.
		if keys, ok := v.cachedKeys(ctx); ok {
			if _, ok := keys[kid]; ok {
				return keys, nil
			}
		}
		return v.refresh(ctx)
	})
	if err != nil {
		return nil, err
	}
	if k, ok := res.(map[string]*rsa.PublicKey)[kid]; ok {
		return k, nil
	}
	return nil, fmt.Errorf("unknown signing key %q", kid)
}

func (v *Verifier) cachedKeys(ctx context.Context) (map[string]*rsa.PublicKey, bool) {
	raw, err := v.cache.Get(ctx, keysCacheKey)
	if err != nil {
		return nil, false
	}
	keys, err := parseKeySet(raw)
	if err != nil {
		return nil, false
	}
	return keys, true
}

func (v *Verifier) refresh(ctx context.Context) (map[string]*rsa.PublicKey, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, v.keysURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("creating keys request: %w", err)
	}
	resp, err := v.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: fetching apple keys: %v", domain.ErrProviderUnreachable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: apple keys returned %d", domain.ErrProviderUnreachable, resp.StatusCode)
	}
	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("%w: reading apple keys: %v", domain.ErrProviderUnreachable, err)
	}
	keys, err := parseKeySet(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrProviderUnreachable, err)
	}
	_ = v.cache.Set(ctx, keysCacheKey, raw, v.keysTTL)
	return keys, nil
}

func parseKeySet(raw []byte) (map[string]*rsa.PublicKey, error) {
	var doc jwks
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decoding key set: %w", err)
	}
	keys := make(map[string]*rsa.PublicKey, len(doc.Keys))
	for _, k := range doc.Keys {
		if k.Kty != "RSA" {
			continue
		}
		pub, err := rsaPublicKey(k)
		if err != nil {
			continue
		}
		keys[k.Kid] = pub
	}
	return keys, nil
}

func rsaPublicKey(k jwk) (*rsa.PublicKey, error) {
	nb, err := base64.RawURLEncoding.DecodeString(k.N)
	if err != nil {
		return nil, err
	}
	eb, err := base64.RawURLEncoding.DecodeString(k.E)
	if err != nil || len(eb) == 0 {
		return nil, errors.New("invalid exponent")
	}
	e := 0
	for _, b := range eb {
		e = e<<8 | int(b)
	}
	return &rsa.PublicKey{N: new(big.Int).SetBytes(nb), E: e}, nil
}

func isTrue(v any) bool {
	switch t := v.(type) {
	case bool:
		return t
	case string:
		return t == "true"
	default:
		return false
	}
}

// Compile-time check.
var _ port.SocialTokenVerifier = (*Verifier)(nil)
