// Package logger provides the process-wide zap logger and helpers for
// carrying a request-scoped logger through a context.
package logger

import (
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config selects the encoder and minimum level.
type Config struct {
	// Level is one of debug, info, warn, error. Defaults to info.
	Level string
	// Format is "json" for production or "console" for local development.
	Format string
	// Service is attached to every entry when non-empty.
	Service string
}

var (
	mu       sync.Mutex
	instance *zap.Logger
)

// Init builds the global logger. Later calls replace it.
func Init(cfg Config) *zap.Logger {
	l := build(cfg)
	mu.Lock()
	instance = l
	mu.Unlock()
	return l
}

// L returns the global logger, building a console logger at info level if
// Init was never called.
func L() *zap.Logger {
	mu.Lock()
	defer mu.Unlock()
	if instance == nil {
		instance = build(Config{Level: "info", Format: "console"})
	}
	return instance
}

// Named returns the global logger scoped to a component.
func Named(name string) *zap.Logger {
	return L().Named(name)
}

// Sync flushes buffered entries.
func Sync() error {
	mu.Lock()
	defer mu.Unlock()
	if instance == nil {
		return nil
	}
	return instance.Sync()
}

func build(cfg Config) *zap.Logger {
	var zcfg zap.Config
	if strings.EqualFold(cfg.Format, "json") {
		zcfg = zap.NewProductionConfig()
		zcfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	} else {
		zcfg = zap.NewDevelopmentConfig()
		zcfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zcfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05.000")
		zcfg.DisableStacktrace = true
	}
	zcfg.Level = zap.NewAtomicLevelAt(ParseLevel(cfg.Level))
	zcfg.EncoderConfig.EncodeCaller = zapcore.ShortCallerEncoder

	l, err := zcfg.Build(zap.AddCaller())
	if err != nil {
		l = zap.NewNop()
	}
	if cfg.Service != "" {
		l = l.With(zap.String("service", cfg.Service))
	}
	return l
}

// ParseLevel maps a level name to a zapcore.Level, defaulting to info.
func ParseLevel(lvl string) zapcore.Level {
	switch strings.ToLower(strings.TrimSpace(lvl)) {
	case "debug":
		return zapcore.DebugLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}
