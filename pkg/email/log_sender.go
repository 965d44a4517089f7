package email

import (
	"context"
	"log/slog"

	"github.com/dmitrymomot/subscriptions/pkg/logger"
)

// LogSender writes messages to the logger instead of sending them.
type LogSender struct {
	log *slog.Logger
}

func NewLogSender(log *slog.Logger) *LogSender {
	if log == nil {
		log = logger.Discard()
	}
	return &LogSender{log: log.With(logger.Component("email"))}
}

func (s *LogSender) Send(ctx context.Context, msg Message) error {
	if err := msg.Validate(); err != nil {
		return err
	}
	s.log.InfoContext(ctx, "email not sent, log sender in use",
		logger.Email(msg.To),
		slog.String("subject", msg.Subject),
		slog.String("tag", msg.Tag),
	)
	return nil
}
