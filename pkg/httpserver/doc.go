// Package httpserver runs an http.Handler with graceful shutdown.
//
// Run blocks until ctx is cancelled or the listener fails. On cancellation
// in-flight requests get ShutdownTimeout to finish. Signal handling is left
// to the caller, typically signal.NotifyContext in main.
//
// Liveness and Readiness build probe handlers for orchestrators.
package httpserver
