package mailer

import (
	"context"
	"log/slog"
)

// LogSender writes messages to a logger instead of delivering them.
// Meant for development and tests where real delivery is unwanted.
type LogSender struct {
	log *slog.Logger
}

// NewLogSender creates a sender logging through log; nil uses the default
// slog logger.
func NewLogSender(log *slog.Logger) *LogSender {
	if log == nil {
		log = slog.Default()
	}
	return &LogSender{log: log}
}

func (s *LogSender) Send(ctx context.Context, msg *Message) error {
	s.log.InfoContext(ctx, "mail (not delivered)",
		"to", msg.To,
		"subject", msg.Subject,
		"text", msg.Text,
	)
	return nil
}
