package httpserver

import "errors"

var (
	ErrStart          = errors.New("failed to start http server")
	ErrShutdown       = errors.New("failed to shutdown http server gracefully")
	ErrAlreadyRunning = errors.New("http server already running")
)
