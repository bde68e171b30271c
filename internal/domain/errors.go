package domain

import "errors"

var (
	ErrNotFound           = errors.New("resource not found")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrValidation         = errors.New("validation failed")

	ErrUnsupportedProvider     = errors.New("unsupported sso provider")
	ErrSocialAuthTokenInvalid  = errors.New("social authentication token is invalid")
	ErrProviderUnreachable     = errors.New("identity provider unreachable")
	ErrAccountCreationConflict = errors.New("account creation conflicted with an existing account")
	ErrUsernameExhausted       = errors.New("could not generate a unique username")
	ErrPasswordLoginNotAllowed = errors.New("password login not allowed for this account")
	ErrDevLoginNotAllowed      = errors.New("dev verification not allowed in this environment")

	ErrDuplicateEmail    = errors.New("email already exists")
	ErrDuplicateUsername = errors.New("username already exists")
	ErrDuplicateIdentity = errors.New("provider identity already linked to another account")

	ErrInvalidQuizScore           = errors.New("quiz score must be between 0 and 5")
	ErrOnboardingAlreadyCompleted = errors.New("onboarding already completed")

	ErrLessonNotFound = errors.New("lesson not found")
)
