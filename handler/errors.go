package handler

import (
	"errors"
	"net/http"
)

var ErrNilResponse = errors.New("handler returned nil response")

// HTTPError attaches a status code and a client-facing message to err.
type HTTPError struct {
	Code    int
	Message string
	Err     error
}

func (e HTTPError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e HTTPError) Unwrap() error { return e.Err }

func NewHTTPError(code int, message string, err error) HTTPError {
	return HTTPError{Code: code, Message: message, Err: err}
}

// BadRequest is a 400 whose message is err's text.
func BadRequest(err error) HTTPError {
	return HTTPError{Code: http.StatusBadRequest, Message: err.Error(), Err: err}
}
