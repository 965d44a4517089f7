// Package binder fills handler request structs from an *http.Request.
//
// Each binder is a func(r *http.Request, v any) error and is meant to be
// passed to handler.WithBinders. Binders run in order and write only the
// fields they own, so one request struct can combine a JSON body with
// path parameters:
//
//	type statusRequest struct {
//		Email string `path:"email"`
//	}
package binder
