package binder

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
)

// JSON decodes an application/json body into v. Unknown fields are ignored.
// A non-positive limit disables the size check.
func JSON(limit int64) func(r *http.Request, v any) error {
	return func(r *http.Request, v any) error {
		mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
		if err != nil || mediaType != "application/json" {
			return fmt.Errorf("%w: expected application/json", ErrUnsupportedMediaType)
		}

		body := io.Reader(r.Body)
		if limit > 0 {
			body = http.MaxBytesReader(nil, r.Body, limit)
		}

		if err := json.NewDecoder(body).Decode(v); err != nil {
			var tooLarge *http.MaxBytesError
			switch {
			case errors.As(err, &tooLarge):
				return fmt.Errorf("%w: limit is %d bytes", ErrBodyTooLarge, tooLarge.Limit)
			case errors.Is(err, io.EOF):
				return fmt.Errorf("%w: empty body", ErrInvalidJSON)
			default:
				return fmt.Errorf("%w: %v", ErrInvalidJSON, err)
			}
		}
		return nil
	}
}
