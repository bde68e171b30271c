package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"hearsay/internal/logger"
)

// RequestID injects an X-Request-ID header into the request and response.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Set(ContextKeyRequestID, requestID)
		c.Header("X-Request-ID", requestID)
		c.Next()
	}
}

// Logger stores a request-scoped logger in the request context and logs each
// request with method, path, status and latency once it completes.
func Logger(base *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		requestID := c.GetString(ContextKeyRequestID)

		scoped := base.With(logger.RequestID(requestID))
		c.Request = c.Request.WithContext(logger.ToContext(c.Request.Context(), scoped))

		c.Next()

		status := c.Writer.Status()
		fields := []zap.Field{
			logger.Method(c.Request.Method),
			logger.Path(c.Request.URL.Path),
			logger.Status(status),
			logger.Latency(time.Since(start)),
			logger.ClientIP(c.ClientIP()),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
		}

		l := logger.From(c.Request.Context())
		switch {
		case status >= 500:
			l.Error("request", fields...)
		case status >= 400:
			l.Warn("request", fields...)
		default:
			l.Info("request", fields...)
		}
	}
}

// Recovery recovers from panics, logs them and returns a 500 error.
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		logger.From(c.Request.Context()).Error("panic recovered",
			logger.RequestID(c.GetString(ContextKeyRequestID)),
			zap.Any("panic", recovered),
			zap.Stack("stack"),
		)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"detail": "an internal error occurred",
			"code":   "INTERNAL_ERROR",
		})
	})
}
