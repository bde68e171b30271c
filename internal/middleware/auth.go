package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"hearsay/internal/domain"
	"hearsay/internal/logger"
	"hearsay/internal/service"
)

const (
	ContextKeyPrincipal = "principal"
	ContextKeyRequestID = "request_id"
)

// Principal is the authenticated caller of one request.
type Principal struct {
	UserID int64
	Email  string
}

// AuthMiddleware returns Gin middleware that validates the bearer access token
// and stores the caller's Principal in the context.
func AuthMiddleware(authService service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"detail": "Authentication credentials were not provided.",
				"code":   "UNAUTHORIZED",
			})
			return
		}

		token := strings.TrimPrefix(authHeader, "Bearer ")
		claims, err := authService.ValidateToken(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"detail": "Given token not valid for any token type",
				"code":   "TOKEN_NOT_VALID",
			})
			return
		}

		c.Set(ContextKeyPrincipal, Principal{UserID: claims.UserID, Email: claims.Email})

		ctx := c.Request.Context()
		scoped := logger.From(ctx).With(logger.UserID(claims.UserID))
		c.Request = c.Request.WithContext(logger.ToContext(ctx, scoped))
		c.Next()
	}
}

// GetPrincipal extracts the authenticated caller from the Gin context.
func GetPrincipal(c *gin.Context) (Principal, error) {
	val, exists := c.Get(ContextKeyPrincipal)
	if !exists {
		return Principal{}, domain.ErrUnauthorized
	}
	p, ok := val.(Principal)
	if !ok {
		return Principal{}, domain.ErrUnauthorized
	}
	return p, nil
}
