package logger

import (
	"time"

	"go.uber.org/zap"
)

// Common field constructors so keys stay consistent across packages.

func RequestID(v string) zap.Field {
	return zap.String("request_id", v)
}

func Method(v string) zap.Field {
	return zap.String("method", v)
}

func Path(v string) zap.Field {
	return zap.String("path", v)
}

func Status(v int) zap.Field {
	return zap.Int("status", v)
}

func Latency(v time.Duration) zap.Field {
	return zap.Duration("latency", v)
}

func ClientIP(v string) zap.Field {
	return zap.String("client_ip", v)
}

func UserID(v int64) zap.Field {
	return zap.Int64("user_id", v)
}

func Provider(v string) zap.Field {
	return zap.String("provider", v)
}

func Outcome(v string) zap.Field {
	return zap.String("outcome", v)
}

func LessonID(v int64) zap.Field {
	return zap.Int64("lesson_id", v)
}
