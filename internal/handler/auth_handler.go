package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"hearsay/internal/logger"
	"hearsay/internal/service"
)

// LogoutInput carries the refresh token to revoke. Both key spellings are
// accepted.
type LogoutInput struct {
	Refresh      string `json:"refresh"`
	RefreshToken string `json:"refresh_token"`
}

// AuthHandler handles authentication endpoints.
type AuthHandler struct {
	authService       service.AuthService
	socialAuthService service.SocialAuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService service.AuthService, socialAuthService service.SocialAuthService) *AuthHandler {
	return &AuthHandler{authService: authService, socialAuthService: socialAuthService}
}

// SSO handles POST /api/v1/auth/sso/
func (h *AuthHandler) SSO(c *gin.Context) {
	var input service.SocialLoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondBindingError(c, err)
		return
	}

	output, err := h.socialAuthService.SocialLogin(c.Request.Context(), input)
	if err != nil {
		HandleError(c, err)
		return
	}

	if output.IsNewUser {
		RespondCreated(c, output)
		return
	}
	RespondOK(c, output)
}

// Login handles POST /api/v1/token/
func (h *AuthHandler) Login(c *gin.Context) {
	var input service.LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondBindingError(c, err)
		return
	}

	tokenPair, err := h.authService.Login(c.Request.Context(), input)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, tokenPair)
}

// RefreshToken handles POST /api/v1/token/refresh/
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var input service.RefreshInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondBindingError(c, err)
		return
	}

	tokenPair, err := h.authService.RefreshToken(c.Request.Context(), input.RefreshToken)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, tokenPair)
}

// Logout handles POST /api/v1/auth/logout/. It always succeeds; a token that
// cannot be revoked is only logged.
func (h *AuthHandler) Logout(c *gin.Context) {
	var input LogoutInput
	_ = c.ShouldBindJSON(&input)

	token := input.RefreshToken
	if token == "" {
		token = input.Refresh
	}
	if token != "" {
		if err := h.authService.Logout(c.Request.Context(), token); err != nil {
			logger.From(c.Request.Context()).Info("logout token not revoked", zap.Error(err))
		}
	}

	c.JSON(http.StatusOK, gin.H{"detail": "Successfully logged out."})
}
