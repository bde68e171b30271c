package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"hearsay/internal/config"
	"hearsay/internal/handler"
	"hearsay/internal/middleware"
	"hearsay/internal/service"
)

// Setup configures the Gin engine with all routes and middleware.
func Setup(
	cfg *config.Config,
	log *zap.Logger,
	authSvc service.AuthService,
	authH *handler.AuthHandler,
	userH *handler.UserHandler,
	onboardingH *handler.OnboardingHandler,
	lessonH *handler.LessonHandler,
	healthH *handler.HealthHandler,
) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(log))
	r.Use(middleware.Recovery())
	r.Use(middleware.Metrics())
	r.Use(middleware.CORS(cfg.CORS.AllowedOrigins))

	// Health checks and metrics
	r.GET("/healthz", healthH.Liveness)
	r.GET("/readyz", healthH.Readiness)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Local media files; object storage serves them otherwise.
	if !cfg.S3.Enabled && cfg.Media.Root != "" {
		r.Static(cfg.Media.URLPrefix, cfg.Media.Root)
	}

	v1 := r.Group("/api/" + config.APIVersion)
	v1.GET("/", healthH.APIRoot)
	v1.GET("/health/", healthH.Health)

	// Public auth routes
	v1.POST("/auth/sso/", authH.SSO)
	v1.POST("/token/", authH.Login)
	v1.POST("/token/refresh/", authH.RefreshToken)

	// Protected routes - require valid JWT
	protected := v1.Group("")
	protected.Use(middleware.AuthMiddleware(authSvc))

	protected.POST("/auth/logout/", authH.Logout)
	protected.GET("/me/", userH.Me)
	protected.PATCH("/me/update/", userH.Update)
	protected.POST("/onboarding/complete/", onboardingH.Complete)

	protected.GET("/scenarios/", lessonH.ListScenarios)
	lessons := protected.Group("/lessons")
	lessons.GET("/", lessonH.ListLessons)
	lessons.GET("/:id/", lessonH.GetLesson)
	lessons.GET("/:id/attempts/", lessonH.ListAttempts)
	lessons.POST("/:id/attempts/", lessonH.RecordAttempt)
	protected.GET("/plan/today/", lessonH.TodayPlan)

	return r
}
