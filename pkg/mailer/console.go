package mailer

import (
	"context"

	"go.uber.org/zap"
)

// ConsoleMailer logs outgoing mail instead of sending it. Default in
// development so credential delivery can be observed without a provider.
type ConsoleMailer struct {
	logger *zap.Logger
}

// NewConsoleMailer constructs a console mailer.
func NewConsoleMailer(logger *zap.Logger) *ConsoleMailer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ConsoleMailer{logger: logger}
}

// Send writes the message to the log.
func (m *ConsoleMailer) Send(_ context.Context, msg Message) error {
	m.logger.Info("outgoing email",
		zap.String("to", msg.ToAddress),
		zap.String("subject", msg.Subject),
		zap.String("body", msg.Body),
	)
	return nil
}
