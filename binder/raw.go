package binder

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
)

// RawBody reads the unparsed body into the []byte field tagged `body:"raw"`.
// Signature verification needs the exact bytes the sender signed.
func RawBody(limit int64) func(r *http.Request, v any) error {
	return func(r *http.Request, v any) error {
		rv, err := target(v)
		if err != nil {
			return err
		}

		idx := -1
		for i := range rv.NumField() {
			f := rv.Type().Field(i)
			if f.Tag.Get("body") == "raw" && f.Type == reflect.TypeFor[[]byte]() {
				idx = i
				break
			}
		}
		if idx < 0 {
			return nil
		}

		body := io.Reader(r.Body)
		if limit > 0 {
			body = http.MaxBytesReader(nil, r.Body, limit)
		}
		data, err := io.ReadAll(body)
		if err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				return fmt.Errorf("%w: limit is %d bytes", ErrBodyTooLarge, tooLarge.Limit)
			}
			return err
		}
		rv.Field(idx).SetBytes(data)
		return nil
	}
}

func target(v any) (reflect.Value, error) {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return reflect.Value{}, ErrInvalidTarget
	}
	rv = rv.Elem()
	if rv.Kind() != reflect.Struct {
		return reflect.Value{}, ErrInvalidTarget
	}
	return rv, nil
}
