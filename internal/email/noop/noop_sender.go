package noop

import (
	"context"

	"go.uber.org/zap"

	"hearsay/internal/logger"
	"hearsay/internal/port"
)

type noopSender struct{}

// NewNoopSender creates an EmailSender that only logs what it would send.
func NewNoopSender() port.EmailSender {
	return &noopSender{}
}

func (s *noopSender) SendWelcomeEmail(ctx context.Context, toEmail, toName string) error {
	logger.From(ctx).Info("noop email: welcome",
		zap.String("to", toEmail),
		zap.String("name", toName),
	)
	return nil
}
