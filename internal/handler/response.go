package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"hearsay/internal/domain"
	"hearsay/internal/logger"
	"hearsay/internal/middleware"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Detail string `json:"detail"`
	Code   string `json:"code"`
}

// RespondOK sends a 200 response with data as the body.
func RespondOK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}

// RespondCreated sends a 201 response with data as the body.
func RespondCreated(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, data)
}

// RespondError sends an error response with the given status code.
func RespondError(c *gin.Context, status int, code, detail string) {
	c.JSON(status, ErrorResponse{Detail: detail, Code: code})
}

// RespondBindingError sends a 400 for a request that failed to bind or validate.
func RespondBindingError(c *gin.Context, err error) {
	RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", describeBindingError(err))
}

// MapDomainError translates domain errors to HTTP status codes and error codes.
func MapDomainError(err error) (status int, code, msg string) {
	switch {
	case errors.Is(err, domain.ErrUnsupportedProvider):
		return http.StatusBadRequest, "UNSUPPORTED_PROVIDER", `Invalid provider. Must be "apple" or "google".`
	case errors.Is(err, domain.ErrSocialAuthTokenInvalid):
		return http.StatusUnauthorized, "INVALID_SOCIAL_TOKEN", "social authentication token is invalid or expired"
	case errors.Is(err, domain.ErrProviderUnreachable):
		return http.StatusBadGateway, "PROVIDER_UNREACHABLE", "identity provider could not be reached; please try again"
	case errors.Is(err, domain.ErrDevLoginNotAllowed):
		return http.StatusBadRequest, "DEV_LOGIN_NOT_ALLOWED", "dev_mode sign-in is only available in development"
	case errors.Is(err, domain.ErrAccountCreationConflict):
		return http.StatusInternalServerError, "ACCOUNT_CONFLICT", "Authentication failed. Please try again."
	case errors.Is(err, domain.ErrUsernameExhausted):
		return http.StatusInternalServerError, "INTERNAL_ERROR", "Authentication failed. Please try again."
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, "INVALID_CREDENTIALS", "No active account found with the given credentials"
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized, "UNAUTHORIZED", "unauthorized"
	case errors.Is(err, domain.ErrPasswordLoginNotAllowed):
		return http.StatusBadRequest, "PASSWORD_LOGIN_NOT_ALLOWED", "this account uses social login; use your social provider to sign in"
	case errors.Is(err, domain.ErrOnboardingAlreadyCompleted):
		return http.StatusBadRequest, "ONBOARDING_ALREADY_COMPLETED", "Onboarding already completed."
	case errors.Is(err, domain.ErrInvalidQuizScore):
		return http.StatusBadRequest, "VALIDATION_ERROR", "Invalid quiz_score. Must be integer 0-5."
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest, "VALIDATION_ERROR", err.Error()
	case errors.Is(err, domain.ErrLessonNotFound):
		return http.StatusNotFound, "LESSON_NOT_FOUND", "Lesson not found"
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, "NOT_FOUND", "resource not found"
	case errors.Is(err, domain.ErrDuplicateEmail):
		return http.StatusConflict, "DUPLICATE_EMAIL", "email already exists"
	default:
		return http.StatusInternalServerError, "INTERNAL_ERROR", "an internal error occurred"
	}
}

// principal returns the authenticated caller. Returns false if it is missing
// (error response already written).
func principal(c *gin.Context) (middleware.Principal, bool) {
	p, err := middleware.GetPrincipal(c)
	if err != nil {
		RespondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication credentials were not provided.")
		return middleware.Principal{}, false
	}
	return p, true
}

// HandleError maps a domain error and sends the appropriate error response.
func HandleError(c *gin.Context, err error) {
	status, code, msg := MapDomainError(err)
	if status >= 500 {
		logger.From(c.Request.Context()).Error("internal error",
			logger.RequestID(c.GetString(middleware.ContextKeyRequestID)),
			zap.String("code", code),
			zap.Error(err),
		)
	}
	_ = c.Error(err)
	RespondError(c, status, code, msg)
}
