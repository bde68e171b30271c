package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// APIVersion is reported by the root and health endpoints.
const APIVersion = "v1"

// Config holds all application configuration.
type Config struct {
	Server ServerConfig
	DB     DBConfig
	JWT    JWTConfig
	Auth   AuthConfig
	Cache  CacheConfig
	S3     S3Config
	Media  MediaConfig
	Email  EmailConfig
	Log    LogConfig
	CORS   CORSConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Environment  string        `mapstructure:"environment"`
}

// IsDevelopment reports whether development-only features may be enabled.
func (s *ServerConfig) IsDevelopment() bool {
	return s.Environment == "development"
}

// DBConfig holds PostgreSQL connection settings.
type DBConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
	MaxOpen  int    `mapstructure:"max_open"`
	MaxIdle  int    `mapstructure:"max_idle"`
}

// DSN returns the PostgreSQL connection string.
func (d *DBConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// JWTConfig holds JWT signing and expiry settings.
type JWTConfig struct {
	Secret             string        `mapstructure:"secret"`
	AccessTokenExpiry  time.Duration `mapstructure:"access_expiry"`
	RefreshTokenExpiry time.Duration `mapstructure:"refresh_expiry"`
	Issuer             string        `mapstructure:"issuer"`
}

// AuthConfig holds SSO provider settings.
type AuthConfig struct {
	AppleClientID  string        `mapstructure:"apple_client_id"`
	AppleTeamID    string        `mapstructure:"apple_team_id"`
	GoogleClientID string        `mapstructure:"google_client_id"`
	HTTPTimeout    time.Duration `mapstructure:"http_timeout"`
	JWKSCacheTTL   time.Duration `mapstructure:"jwks_cache_ttl"`
}

// CacheConfig selects the cache backend used for provider keys and revoked tokens.
type CacheConfig struct {
	Driver    string `mapstructure:"driver"` // memory | redis
	RedisAddr string `mapstructure:"redis_addr"`
	RedisDB   int    `mapstructure:"redis_db"`
}

// S3Config holds AWS S3 settings for lesson media.
type S3Config struct {
	Enabled       bool   `mapstructure:"enabled"`
	Region        string `mapstructure:"region"`
	Bucket        string `mapstructure:"bucket"`
	Endpoint      string `mapstructure:"endpoint"`
	AccessKey     string `mapstructure:"access_key"`
	SecretKey     string `mapstructure:"secret_key"`
	PresignExpiry int64  `mapstructure:"presign_expiry"`
}

// MediaConfig holds settings for locally served media files.
type MediaConfig struct {
	Root      string `mapstructure:"root"`
	URLPrefix string `mapstructure:"url_prefix"`
}

// EmailConfig holds email delivery settings.
type EmailConfig struct {
	Provider    string `mapstructure:"provider"`
	Region      string `mapstructure:"region"`
	FromAddress string `mapstructure:"from_address"`
	FromName    string `mapstructure:"from_name"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// Load reads configuration from environment variables with the HEARSAY_ prefix.
// A .env file in the working directory is loaded first when present; variables
// already set in the environment win.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("HEARSAY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":8000")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "15s")
	v.SetDefault("server.environment", "development")

	// DB defaults
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "hearsay")
	v.SetDefault("db.password", "hearsay_secret")
	v.SetDefault("db.name", "hearsay_db")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.max_open", 25)
	v.SetDefault("db.max_idle", 10)

	// JWT defaults
	v.SetDefault("jwt.secret", "change-me-in-production")
	v.SetDefault("jwt.access_expiry", "60m")
	v.SetDefault("jwt.refresh_expiry", "168h")
	v.SetDefault("jwt.issuer", "hearsay")

	// Auth defaults
	v.SetDefault("auth.apple_client_id", "")
	v.SetDefault("auth.apple_team_id", "")
	v.SetDefault("auth.google_client_id", "")
	v.SetDefault("auth.http_timeout", "5s")
	v.SetDefault("auth.jwks_cache_ttl", "1h")

	// Cache defaults
	v.SetDefault("cache.driver", "memory")
	v.SetDefault("cache.redis_addr", "localhost:6379")
	v.SetDefault("cache.redis_db", 0)

	// S3 defaults
	v.SetDefault("s3.enabled", false)
	v.SetDefault("s3.region", "us-east-1")
	v.SetDefault("s3.bucket", "hearsay-media")
	v.SetDefault("s3.endpoint", "")
	v.SetDefault("s3.presign_expiry", 3600)

	// Media defaults
	v.SetDefault("media.root", "media")
	v.SetDefault("media.url_prefix", "/media/")

	// Email defaults
	v.SetDefault("email.provider", "noop")
	v.SetDefault("email.region", "us-east-1")
	v.SetDefault("email.from_address", "hello@hearsay.app")
	v.SetDefault("email.from_name", "HearSay")

	// Log defaults
	v.SetDefault("log.level", "debug")
	v.SetDefault("log.format", "console")

	// CORS defaults (Expo web and Metro bundler)
	v.SetDefault("cors.allowed_origins", "http://localhost:19006,http://localhost:8081")

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"server.port":           "HEARSAY_SERVER_PORT",
		"server.read_timeout":   "HEARSAY_SERVER_READ_TIMEOUT",
		"server.write_timeout":  "HEARSAY_SERVER_WRITE_TIMEOUT",
		"server.environment":    "HEARSAY_SERVER_ENVIRONMENT",
		"db.host":               "HEARSAY_DB_HOST",
		"db.port":               "HEARSAY_DB_PORT",
		"db.user":               "HEARSAY_DB_USER",
		"db.password":           "HEARSAY_DB_PASSWORD",
		"db.name":               "HEARSAY_DB_NAME",
		"db.sslmode":            "HEARSAY_DB_SSLMODE",
		"db.max_open":           "HEARSAY_DB_MAX_OPEN",
		"db.max_idle":           "HEARSAY_DB_MAX_IDLE",
		"jwt.secret":            "HEARSAY_JWT_SECRET",
		"jwt.access_expiry":     "HEARSAY_JWT_ACCESS_EXPIRY",
		"jwt.refresh_expiry":    "HEARSAY_JWT_REFRESH_EXPIRY",
		"jwt.issuer":            "HEARSAY_JWT_ISSUER",
		"auth.apple_client_id":  "HEARSAY_AUTH_APPLE_CLIENT_ID",
		"auth.apple_team_id":    "HEARSAY_AUTH_APPLE_TEAM_ID",
		"auth.google_client_id": "HEARSAY_AUTH_GOOGLE_CLIENT_ID",
		"auth.http_timeout":     "HEARSAY_AUTH_HTTP_TIMEOUT",
		"auth.jwks_cache_ttl":   "HEARSAY_AUTH_JWKS_CACHE_TTL",
		"cache.driver":          "HEARSAY_CACHE_DRIVER",
		"cache.redis_addr":      "HEARSAY_CACHE_REDIS_ADDR",
		"cache.redis_db":        "HEARSAY_CACHE_REDIS_DB",
		"s3.enabled":            "HEARSAY_S3_ENABLED",
		"s3.region":             "HEARSAY_S3_REGION",
		"s3.bucket":             "HEARSAY_S3_BUCKET",
		"s3.endpoint":           "HEARSAY_S3_ENDPOINT",
		"s3.access_key":         "HEARSAY_S3_ACCESS_KEY",
		"s3.secret_key":         "HEARSAY_S3_SECRET_KEY",
		"s3.presign_expiry":     "HEARSAY_S3_PRESIGN_EXPIRY",
		"media.root":            "HEARSAY_MEDIA_ROOT",
		"media.url_prefix":      "HEARSAY_MEDIA_URL_PREFIX",
		"email.provider":        "HEARSAY_EMAIL_PROVIDER",
		"email.region":          "HEARSAY_EMAIL_REGION",
		"email.from_address":    "HEARSAY_EMAIL_FROM_ADDRESS",
		"email.from_name":       "HEARSAY_EMAIL_FROM_NAME",
		"log.level":             "HEARSAY_LOG_LEVEL",
		"log.format":            "HEARSAY_LOG_FORMAT",
		"cors.allowed_origins":  "HEARSAY_CORS_ALLOWED_ORIGINS",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}

	// Railway/Heroku/Render set a PORT env var. Use it if HEARSAY_SERVER_PORT is not explicitly set.
	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("HEARSAY_SERVER_PORT") == "" {
		serverPort = ":" + port
	}

	cfg.Server = ServerConfig{
		Port:         serverPort,
		ReadTimeout:  v.GetDuration("server.read_timeout"),
		WriteTimeout: v.GetDuration("server.write_timeout"),
		Environment:  v.GetString("server.environment"),
	}
	cfg.DB = DBConfig{
		Host:     v.GetString("db.host"),
		Port:     v.GetInt("db.port"),
		User:     v.GetString("db.user"),
		Password: v.GetString("db.password"),
		Name:     v.GetString("db.name"),
		SSLMode:  v.GetString("db.sslmode"),
		MaxOpen:  v.GetInt("db.max_open"),
		MaxIdle:  v.GetInt("db.max_idle"),
	}
	cfg.JWT = JWTConfig{
		Secret:             v.GetString("jwt.secret"),
		AccessTokenExpiry:  v.GetDuration("jwt.access_expiry"),
		RefreshTokenExpiry: v.GetDuration("jwt.refresh_expiry"),
		Issuer:             v.GetString("jwt.issuer"),
	}
	cfg.Auth = AuthConfig{
		AppleClientID:  v.GetString("auth.apple_client_id"),
		AppleTeamID:    v.GetString("auth.apple_team_id"),
		GoogleClientID: v.GetString("auth.google_client_id"),
		HTTPTimeout:    v.GetDuration("auth.http_timeout"),
		JWKSCacheTTL:   v.GetDuration("auth.jwks_cache_ttl"),
	}
	cfg.Cache = CacheConfig{
		Driver:    v.GetString("cache.driver"),
		RedisAddr: v.GetString("cache.redis_addr"),
		RedisDB:   v.GetInt("cache.redis_db"),
	}
	cfg.S3 = S3Config{
		Enabled:       v.GetBool("s3.enabled"),
		Region:        v.GetString("s3.region"),
		Bucket:        v.GetString("s3.bucket"),
		Endpoint:      v.GetString("s3.endpoint"),
		AccessKey:     v.GetString("s3.access_key"),
		SecretKey:     v.GetString("s3.secret_key"),
		PresignExpiry: v.GetInt64("s3.presign_expiry"),
	}
	cfg.Media = MediaConfig{
		Root:      v.GetString("media.root"),
		URLPrefix: v.GetString("media.url_prefix"),
	}
	cfg.Email = EmailConfig{
		Provider:    v.GetString("email.provider"),
		Region:      v.GetString("email.region"),
		FromAddress: v.GetString("email.from_address"),
		FromName:    v.GetString("email.from_name"),
	}
	cfg.Log = LogConfig{
		Level:  v.GetString("log.level"),
		Format: v.GetString("log.format"),
	}

	// Parse CORS allowed origins from comma-separated string
	var corsOrigins []string
	for _, o := range strings.Split(v.GetString("cors.allowed_origins"), ",") {
		o = strings.TrimSpace(o)
		if o != "" {
			corsOrigins = append(corsOrigins, o)
		}
	}
	cfg.CORS = CORSConfig{
		AllowedOrigins: corsOrigins,
	}

	if cfg.Auth.HTTPTimeout <= 0 {
		return nil, fmt.Errorf("auth.http_timeout must be positive, got %s", cfg.Auth.HTTPTimeout)
	}
	if cfg.Cache.Driver != "memory" && cfg.Cache.Driver != "redis" {
		return nil, fmt.Errorf("unknown cache driver %q", cfg.Cache.Driver)
	}

	return cfg, nil
}
