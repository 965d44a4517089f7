// Package handler turns typed functions into http.HandlerFunc.
//
// A HandlerFunc receives a Context and a request value filled by binders,
// and returns a Response. Binding failures, nil responses and render
// errors go to the configured ErrorHandler.
//
//	http.HandleFunc("/api/ping", handler.Wrap(func(ctx handler.Context, _ struct{}) handler.Response {
//		return handler.JSON(map[string]string{"message": "ping"})
//	}))
package handler
