package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/dmitrymomot/subscriptions/pkg/logger"
)

// Classifier maps an error to a status code and client-facing message.
type Classifier func(err error) (status int, message string)

// DefaultClassifier honours HTTPError and treats everything else as 500.
func DefaultClassifier(err error) (int, string) {
	var httpErr HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.Code, httpErr.Message
	}
	return http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError)
}

// TextErrorHandler writes the classified message as plain text.
func TextErrorHandler(ctx Context, err error) {
	status, msg := DefaultClassifier(err)
	http.Error(ctx.ResponseWriter(), msg, status)
}

// JSONErrorHandler writes {"error": message} and logs the error: client
// errors at warn, server errors at error.
func JSONErrorHandler(log *slog.Logger, classify Classifier) ErrorHandler {
	if log == nil {
		log = logger.Discard()
	}
	if classify == nil {
		classify = DefaultClassifier
	}
	return func(ctx Context, err error) {
		status, msg := classify(err)
		level := slog.LevelError
		if status < http.StatusInternalServerError {
			level = slog.LevelWarn
		}
		r := ctx.Request()
		log.Log(ctx, level, "request failed",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Int("status", status),
			logger.Error(err),
		)
		_ = JSONWithStatus(status, map[string]string{"error": msg}).Render(ctx.ResponseWriter(), r)
	}
}
