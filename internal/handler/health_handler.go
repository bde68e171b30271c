package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"hearsay/internal/config"
)

// Pinger reports whether a dependency is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// HealthHandler handles the API root and health check endpoints.
type HealthHandler struct {
	db    Pinger
	debug bool
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(db Pinger, debug bool) *HealthHandler {
	return &HealthHandler{db: db, debug: debug}
}

// APIRoot handles GET /api/v1/
func (h *HealthHandler) APIRoot(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"name":    "HearSay API",
		"version": config.APIVersion,
		"endpoints": gin.H{
			"health":        "/api/v1/health/",
			"token":         "/api/v1/token/",
			"token_refresh": "/api/v1/token/refresh/",
			"auth":          "/api/v1/auth/sso/",
			"me":            "/api/v1/me/",
			"onboarding":    "/api/v1/onboarding/complete/",
			"scenarios":     "/api/v1/scenarios/",
			"lessons":       "/api/v1/lessons/",
			"plan":          "/api/v1/plan/today/",
		},
	})
}

// Health handles GET /api/v1/health/
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"version": config.APIVersion,
		"debug":   h.debug,
	})
}

// Liveness handles GET /healthz
func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Readiness handles GET /readyz
func (h *HealthHandler) Readiness(c *gin.Context) {
	if err := h.db.PingContext(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": "database not reachable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
