package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"hearsay/internal/auth/apple"
	"hearsay/internal/auth/dev"
	"hearsay/internal/auth/google"
	"hearsay/internal/cache"
	"hearsay/internal/config"
	"hearsay/internal/domain"
	"hearsay/internal/email/noop"
	"hearsay/internal/email/ses"
	"hearsay/internal/handler"
	"hearsay/internal/logger"
	"hearsay/internal/metrics"
	"hearsay/internal/port"
	"hearsay/internal/repository/postgres"
	"hearsay/internal/router"
	"hearsay/internal/service"
	s3storage "hearsay/internal/storage/s3"
)

const shutdownTimeout = 15 * time.Second

func main() {
	if err := run(); err != nil {
		logger.L().Fatal("server exited", zap.Error(err))
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log := logger.Init(logger.Config{Level: cfg.Log.Level, Format: cfg.Log.Format, Service: "hearsay"})
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := metrics.Register(prometheus.DefaultRegisterer); err != nil {
		return fmt.Errorf("failed to register metrics: %w", err)
	}

	db, err := postgres.NewDB(&cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	// Cache for provider keys and revoked refresh tokens
	kv, err := cache.New(cfg.Cache, cfg.Auth.JWKSCacheTTL)
	if err != nil {
		return fmt.Errorf("failed to initialize cache: %w", err)
	}
	if r, ok := kv.(*cache.Redis); ok {
		if err := r.Ping(ctx); err != nil {
			return fmt.Errorf("failed to reach redis: %w", err)
		}
	}

	// Initialize repositories
	userRepo := postgres.NewUserRepo(db)
	profileRepo := postgres.NewProfileRepo(db)
	scenarioRepo := postgres.NewScenarioRepo(db)
	lessonRepo := postgres.NewLessonRepo(db)
	attemptRepo := postgres.NewAttemptRepo(db)

	// Token verifiers
	verifiers := map[string]port.SocialTokenVerifier{
		string(domain.AuthProviderApple):  apple.NewVerifier(cfg.Auth.AppleClientID, cfg.Auth.HTTPTimeout, cfg.Auth.JWKSCacheTTL, kv),
		string(domain.AuthProviderGoogle): google.NewVerifier(cfg.Auth.GoogleClientID, cfg.Auth.HTTPTimeout),
	}
	var devVerifier port.SocialTokenVerifier
	if cfg.Server.IsDevelopment() {
		devVerifier = dev.NewVerifier("dev")
		log.Warn("dev_mode sign-in enabled")
	}

	// Initialize storage
	media := service.MediaConfig{
		Bucket:        cfg.S3.Bucket,
		URLPrefix:     cfg.Media.URLPrefix,
		PresignExpiry: cfg.S3.PresignExpiry,
	}
	if cfg.S3.Enabled {
		s3Client, err := s3storage.NewS3Client(ctx, &cfg.S3)
		if err != nil {
			return fmt.Errorf("failed to initialize S3 client: %w", err)
		}
		media.Storage = s3Client
	}

	// Initialize email sender
	var emailSender port.EmailSender
	switch cfg.Email.Provider {
	case "ses":
		emailSender, err = ses.NewSESSender(ctx, cfg.Email.Region, cfg.Email.FromAddress, cfg.Email.FromName)
		if err != nil {
			return fmt.Errorf("failed to initialize SES sender: %w", err)
		}
	default:
		emailSender = noop.NewNoopSender()
	}

	// Initialize services
	authSvc := service.NewAuthService(userRepo, cache.NewDenylist(kv), cfg.JWT)
	resolver := service.NewIdentityResolver(userRepo)
	socialSvc := service.NewSocialAuthService(verifiers, devVerifier, resolver, userRepo, profileRepo, authSvc, emailSender)
	userSvc := service.NewUserService(userRepo, profileRepo)
	onboardingSvc := service.NewOnboardingService(userRepo, profileRepo)
	lessonSvc := service.NewLessonService(scenarioRepo, lessonRepo, attemptRepo, profileRepo, media)

	// Initialize handlers
	if err := handler.RegisterValidators(); err != nil {
		return fmt.Errorf("failed to register validators: %w", err)
	}
	authH := handler.NewAuthHandler(authSvc, socialSvc)
	userH := handler.NewUserHandler(userSvc)
	onboardingH := handler.NewOnboardingHandler(onboardingSvc)
	lessonH := handler.NewLessonHandler(lessonSvc)
	healthH := handler.NewHealthHandler(db, cfg.Server.IsDevelopment())

	// Setup router
	r := router.Setup(cfg, log, authSvc, authH, userH, onboardingH, lessonH, healthH)

	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server starting", zap.String("addr", cfg.Server.Port), zap.String("environment", cfg.Server.Environment))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return nil
}
