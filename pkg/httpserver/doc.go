// Package httpserver wraps http.Server with graceful shutdown on context
// cancellation or SIGINT/SIGTERM, functional options, and a probe handler for
// liveness and readiness checks.
package httpserver
