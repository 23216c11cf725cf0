// Package async runs work in background goroutines with explicit result and
// error paths.
//
// Async returns a Future the caller can await; Go is fire-and-forget with a
// mandatory error callback, used for work like email dispatch whose failure
// must be observed (logged, metered) without failing the request that
// triggered it.
package async
