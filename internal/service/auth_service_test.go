package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"hearsay/internal/cache"
	"hearsay/internal/config"
	"hearsay/internal/domain"
	"hearsay/internal/service"
	"hearsay/mocks"
)

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:             "test-secret-key-for-unit-tests",
		AccessTokenExpiry:  15 * time.Minute,
		RefreshTokenExpiry: 168 * time.Hour,
		Issuer:             "hearsay-test",
	}
}

func hashPassword(password string) string {
	hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	return string(hash)
}

func newAuthService(userRepo *mocks.MockUserRepo) service.AuthService {
	return service.NewAuthService(userRepo, cache.NewDenylist(cache.NewMemory(time.Hour)), testJWTConfig())
}

func TestAuthService_Login_Success(t *testing.T) {
	userRepo := new(mocks.MockUserRepo)
	svc := newAuthService(userRepo)

	user := &domain.User{ID: 11, Email: "user@test.com", PasswordHash: hashPassword("password123")}
	userRepo.On("GetByEmail", mock.Anything, "user@test.com").Return(user, nil)
	userRepo.On("TouchLastLogin", mock.Anything, int64(11)).Return(nil)

	result, err := svc.Login(context.Background(), service.LoginInput{
		Email:    "  User@Test.com",
		Password: "password123",
	})

	require.NoError(t, err)
	assert.NotEmpty(t, result.AccessToken)
	assert.NotEmpty(t, result.RefreshToken)

	claims, err := svc.ValidateToken(result.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, int64(11), claims.UserID)
	assert.Equal(t, "user@test.com", claims.Email)
	userRepo.AssertExpectations(t)
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	userRepo := new(mocks.MockUserRepo)
	svc := newAuthService(userRepo)

	user := &domain.User{ID: 11, Email: "user@test.com", PasswordHash: hashPassword("password123")}
	userRepo.On("GetByEmail", mock.Anything, "user@test.com").Return(user, nil)

	_, err := svc.Login(context.Background(), service.LoginInput{Email: "user@test.com", Password: "nope"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestAuthService_Login_UnknownEmail(t *testing.T) {
	userRepo := new(mocks.MockUserRepo)
	svc := newAuthService(userRepo)

	userRepo.On("GetByEmail", mock.Anything, "ghost@test.com").Return(nil, domain.ErrNotFound)

	_, err := svc.Login(context.Background(), service.LoginInput{Email: "ghost@test.com", Password: "x"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestAuthService_Login_SSOAccountRejected(t *testing.T) {
	userRepo := new(mocks.MockUserRepo)
	svc := newAuthService(userRepo)

	user := &domain.User{ID: 12, Email: "sso@test.com", PasswordHash: "!unusable"}
	userRepo.On("GetByEmail", mock.Anything, "sso@test.com").Return(user, nil)

	_, err := svc.Login(context.Background(), service.LoginInput{Email: "sso@test.com", Password: "!unusable"})
	assert.ErrorIs(t, err, domain.ErrPasswordLoginNotAllowed)
}

func TestAuthService_Refresh_RotatesAndRevokes(t *testing.T) {
	userRepo := new(mocks.MockUserRepo)
	svc := newAuthService(userRepo)

	user := &domain.User{ID: 13, Email: "a@test.com"}
	userRepo.On("GetByID", mock.Anything, int64(13)).Return(user, nil)

	pair, err := svc.GenerateTokenPairForUser(user)
	require.NoError(t, err)

	rotated, err := svc.RefreshToken(context.Background(), pair.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, pair.RefreshToken, rotated.RefreshToken)

	// The old refresh token is now on the denylist.
	_, err = svc.RefreshToken(context.Background(), pair.RefreshToken)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = svc.RefreshToken(context.Background(), rotated.RefreshToken)
	assert.NoError(t, err)
}

func TestAuthService_Refresh_RejectsAccessToken(t *testing.T) {
	userRepo := new(mocks.MockUserRepo)
	svc := newAuthService(userRepo)

	pair, err := svc.GenerateTokenPairForUser(&domain.User{ID: 14})
	require.NoError(t, err)

	_, err = svc.RefreshToken(context.Background(), pair.AccessToken)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestAuthService_ValidateToken_RejectsRefreshToken(t *testing.T) {
	svc := newAuthService(new(mocks.MockUserRepo))

	pair, err := svc.GenerateTokenPairForUser(&domain.User{ID: 15})
	require.NoError(t, err)

	_, err = svc.ValidateToken(pair.RefreshToken)
	assert.Error(t, err)
}

func TestAuthService_ValidateToken_RejectsForeignSecret(t *testing.T) {
	svc := newAuthService(new(mocks.MockUserRepo))

	claims := &service.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			Audience:  jwt.ClaimStrings{"access"},
		},
		UserID: 1,
	}
	forged, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("other-secret"))
	require.NoError(t, err)

	_, err = svc.ValidateToken(forged)
	assert.Error(t, err)
}

func TestAuthService_Logout_RevokesRefreshToken(t *testing.T) {
	userRepo := new(mocks.MockUserRepo)
	svc := newAuthService(userRepo)

	pair, err := svc.GenerateTokenPairForUser(&domain.User{ID: 16})
	require.NoError(t, err)

	require.NoError(t, svc.Logout(context.Background(), pair.RefreshToken))

	_, err = svc.RefreshToken(context.Background(), pair.RefreshToken)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	userRepo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}

func TestAuthService_Logout_InvalidToken(t *testing.T) {
	denylist := new(mocks.MockTokenDenylist)
	svc := service.NewAuthService(new(mocks.MockUserRepo), denylist, testJWTConfig())

	err := svc.Logout(context.Background(), "garbage")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	denylist.AssertNotCalled(t, "Revoke", mock.Anything, mock.Anything, mock.Anything)
}

func TestAuthService_Refresh_DenylistFailureRejects(t *testing.T) {
	userRepo := new(mocks.MockUserRepo)
	denylist := new(mocks.MockTokenDenylist)
	svc := service.NewAuthService(userRepo, denylist, testJWTConfig())

	pair, err := svc.GenerateTokenPairForUser(&domain.User{ID: 17})
	require.NoError(t, err)

	denylist.On("IsRevoked", mock.Anything, mock.AnythingOfType("string")).
		Return(false, errors.New("redis: connection refused"))

	rotated, err := svc.RefreshToken(context.Background(), pair.RefreshToken)
	assert.Error(t, err)
	assert.Nil(t, rotated)
	userRepo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
	denylist.AssertNotCalled(t, "Revoke", mock.Anything, mock.Anything, mock.Anything)
}
