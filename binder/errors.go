package binder

import "errors"

var (
	ErrUnsupportedMediaType = errors.New("unsupported media type")
	ErrInvalidJSON          = errors.New("invalid JSON")
	ErrBodyTooLarge         = errors.New("request body too large")
	ErrInvalidPath          = errors.New("invalid path parameter")
	ErrInvalidTarget        = errors.New("binder target must be a non-nil pointer to struct")
)
