package binder

import (
	"fmt"
	"net/http"
	"net/url"
	"reflect"
)

// Path fills string fields tagged `path:"name"` using extractor, usually
// chi.URLParam. Values are percent-decoded, so an encoded email arrives as
// typed by the client.
func Path(extractor func(r *http.Request, name string) string) func(r *http.Request, v any) error {
	return func(r *http.Request, v any) error {
		if extractor == nil {
			return fmt.Errorf("%w: nil extractor", ErrInvalidPath)
		}
		rv, err := target(v)
		if err != nil {
			return err
		}

		rt := rv.Type()
		for i := range rv.NumField() {
			name := rt.Field(i).Tag.Get("path")
			if name == "" || name == "-" {
				continue
			}
			field := rv.Field(i)
			if field.Kind() != reflect.String || !field.CanSet() {
				return fmt.Errorf("%w: field %s must be a string", ErrInvalidPath, rt.Field(i).Name)
			}

			raw := extractor(r, name)
			value, err := url.PathUnescape(raw)
			if err != nil {
				return fmt.Errorf("%w: %s: %v", ErrInvalidPath, name, err)
			}
			field.SetString(value)
		}
		return nil
	}
}
