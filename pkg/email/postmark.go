package email

import (
	"context"
	"errors"
	"fmt"

	"github.com/mrz1836/postmark"

	"github.com/dmitrymomot/subscriptions/pkg/validator"
)

type PostmarkSender struct {
	client *postmark.Client
	cfg    Config
}

type PostmarkOption func(*postmark.Client)

// WithBaseURL points the client at another API host.
func WithBaseURL(url string) PostmarkOption {
	return func(c *postmark.Client) { c.BaseURL = url }
}

func NewPostmarkSender(cfg Config, opts ...PostmarkOption) (*PostmarkSender, error) {
	if cfg.PostmarkServerToken == "" {
		return nil, fmt.Errorf("%w: postmark server token is required", ErrInvalidConfig)
	}
	if err := validator.Struct(cfg); err != nil {
		return nil, errors.Join(ErrInvalidConfig, err)
	}

	client := postmark.NewClient(cfg.PostmarkServerToken, cfg.PostmarkAccountToken)
	for _, opt := range opts {
		opt(client)
	}
	return &PostmarkSender{client: client, cfg: cfg}, nil
}

func (s *PostmarkSender) Send(ctx context.Context, msg Message) error {
	if err := msg.Validate(); err != nil {
		return err
	}

	resp, err := s.client.SendEmail(ctx, postmark.Email{
		From:       s.cfg.From,
		ReplyTo:    s.cfg.ReplyTo,
		To:         msg.To,
		Subject:    msg.Subject,
		Tag:        msg.Tag,
		HTMLBody:   msg.HTMLBody,
		TextBody:   msg.TextBody,
		TrackOpens: true,
	})
	if err != nil {
		return errors.Join(ErrSendFailed, err)
	}
	if resp.ErrorCode != 0 {
		return fmt.Errorf("%w: postmark error %d: %s", ErrSendFailed, resp.ErrorCode, resp.Message)
	}
	return nil
}
