// Package pg bootstraps the PostgreSQL layer: a pgx connection pool with
// startup retries, goose schema migrations routed through the application
// logger, and error classification helpers for unique-key and not-found
// handling in business code.
package pg
