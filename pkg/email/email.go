package email

import (
	"context"
	"errors"
	"log/slog"

	"github.com/dmitrymomot/subscriptions/pkg/logger"
	"github.com/dmitrymomot/subscriptions/pkg/validator"
)

// Sender delivers a single message.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

type Message struct {
	To       string `validate:"required,email"`
	Subject  string `validate:"required"`
	HTMLBody string `validate:"required_without=TextBody"`
	TextBody string
	Tag      string
}

func (m Message) Validate() error {
	if err := validator.Struct(m); err != nil {
		return errors.Join(ErrInvalidMessage, err)
	}
	return nil
}

// New picks PostmarkSender when a server token is set and LogSender otherwise.
func New(cfg Config, log *slog.Logger) (Sender, error) {
	if cfg.PostmarkServerToken == "" {
		if log != nil {
			log.Warn("POSTMARK_SERVER_TOKEN not set, emails are logged only", logger.Component("email"))
		}
		return NewLogSender(log), nil
	}
	return NewPostmarkSender(cfg)
}
