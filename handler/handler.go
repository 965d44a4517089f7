package handler

import (
	"net/http"
)

type HandlerFunc[R any] func(ctx Context, req R) Response

type Response interface {
	Render(w http.ResponseWriter, r *http.Request) error
}

// Bind fills v from the request. See package binder.
type Bind func(r *http.Request, v any) error

type ErrorHandler func(ctx Context, err error)

type Option[R any] func(*config[R])

type config[R any] struct {
	binders      []Bind
	errorHandler ErrorHandler
}

func WithBinders[R any](binders ...Bind) Option[R] {
	return func(c *config[R]) {
		c.binders = append(c.binders, binders...)
	}
}

func WithErrorHandler[R any](h ErrorHandler) Option[R] {
	return func(c *config[R]) {
		if h != nil {
			c.errorHandler = h
		}
	}
}

func Wrap[R any](h HandlerFunc[R], opts ...Option[R]) http.HandlerFunc {
	cfg := &config[R]{errorHandler: TextErrorHandler}
	for _, opt := range opts {
		opt(cfg)
	}

	return func(w http.ResponseWriter, r *http.Request) {
		ctx := NewContext(w, r)

		var req R
		for _, bind := range cfg.binders {
			if err := bind(r, &req); err != nil {
				cfg.errorHandler(ctx, BadRequest(err))
				return
			}
		}

		resp := h(ctx, req)
		if resp == nil {
			cfg.errorHandler(ctx, ErrNilResponse)
			return
		}
		if err := resp.Render(w, r); err != nil {
			cfg.errorHandler(ctx, err)
		}
	}
}
