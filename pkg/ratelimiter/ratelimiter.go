package ratelimiter

import (
	"context"
	"errors"
	"time"
)

// Store counts hits per key inside a window.
type Store interface {
	// Incr adds one hit to key and returns the count in the current window
	// together with the time the window closes. The first hit opens a window.
	Incr(ctx context.Context, key string, window time.Duration) (count int, resetAt time.Time, err error)
	// Reset forgets key.
	Reset(ctx context.Context, key string) error
}

// Result is the outcome of one Allow call.
type Result struct {
	Limit     int
	Remaining int
	ResetAt   time.Time
	Allowed   bool
}

// RetryAfter is zero for allowed requests.
func (r Result) RetryAfter() time.Duration {
	if r.Allowed {
		return 0
	}
	return max(time.Until(r.ResetAt), 0)
}

type Limiter struct {
	store  Store
	limit  int
	window time.Duration
	prefix string
}

func New(store Store, cfg Config) (*Limiter, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if store == nil {
		return nil, errors.Join(ErrInvalidConfig, errors.New("nil store"))
	}
	return &Limiter{
		store:  store,
		limit:  cfg.Requests,
		window: cfg.Window,
		prefix: cfg.Prefix,
	}, nil
}

// Allow records a hit for key.
func (l *Limiter) Allow(ctx context.Context, key string) (Result, error) {
	count, resetAt, err := l.store.Incr(ctx, l.prefix+key, l.window)
	if err != nil {
		return Result{}, errors.Join(ErrStoreUnavailable, err)
	}
	return Result{
		Limit:     l.limit,
		Remaining: max(l.limit-count, 0),
		ResetAt:   resetAt,
		Allowed:   count <= l.limit,
	}, nil
}

func (l *Limiter) Reset(ctx context.Context, key string) error {
	return l.store.Reset(ctx, l.prefix+key)
}
