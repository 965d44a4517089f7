package redis

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dmitrymomot/subscriptions/pkg/logger"
)

// Connect dials cfg.URL and pings until the server answers, retrying
// cfg.RetryAttempts times within cfg.ConnectTimeout.
func Connect(ctx context.Context, cfg Config, log *slog.Logger) (*redis.Client, error) {
	if cfg.URL == "" {
		return nil, ErrEmptyURL
	}
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, errors.Join(ErrInvalidURL, err)
	}
	if log == nil {
		log = logger.Discard()
	}

	ctx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
	defer cancel()

	attempts := max(cfg.RetryAttempts, 1)
	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		client := redis.NewClient(opts)
		if lastErr = client.Ping(ctx).Err(); lastErr == nil {
			return client, nil
		}
		_ = client.Close()
		log.WarnContext(ctx, "redis ping failed",
			slog.Int("attempt", attempt),
			logger.Error(lastErr),
		)

		if attempt == attempts {
			break
		}
		select {
		case <-ctx.Done():
			return nil, errors.Join(ErrNotReady, ctx.Err())
		case <-time.After(cfg.RetryInterval):
		}
	}
	return nil, errors.Join(ErrNotReady, lastErr)
}

// Healthcheck pings the server. It plugs into httpserver.Readiness.
func Healthcheck(client redis.UniversalClient) func(context.Context) error {
	return func(ctx context.Context) error {
		if err := client.Ping(ctx).Err(); err != nil {
			return errors.Join(ErrHealthcheckFailed, err)
		}
		return nil
	}
}
