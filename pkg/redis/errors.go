package redis

import "errors"

var (
	ErrEmptyURL          = errors.New("redis: empty connection url")
	ErrInvalidURL        = errors.New("redis: invalid connection url")
	ErrNotReady          = errors.New("redis: not ready")
	ErrHealthcheckFailed = errors.New("redis: healthcheck failed")
)
