package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
)

type jsonResponse struct {
	status int
	body   any
}

// Render encodes before writing so an encoding error leaves the response
// untouched for the ErrorHandler.
func (j jsonResponse) Render(w http.ResponseWriter, _ *http.Request) error {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(j.body); err != nil {
		return err
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(j.status)
	_, err := w.Write(buf.Bytes())
	return err
}

// JSON writes v with status 200.
func JSON(v any) Response { return jsonResponse{status: http.StatusOK, body: v} }

func JSONWithStatus(status int, v any) Response { return jsonResponse{status: status, body: v} }

type textResponse struct {
	status int
	body   string
}

func (t textResponse) Render(w http.ResponseWriter, _ *http.Request) error {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(t.status)
	_, err := w.Write([]byte(t.body))
	return err
}

func Text(status int, body string) Response { return textResponse{status: status, body: body} }

type errorResponse struct{ err error }

func (e errorResponse) Render(http.ResponseWriter, *http.Request) error { return e.err }

// Error hands err to the ErrorHandler without writing anything itself.
func Error(err error) Response { return errorResponse{err: err} }
