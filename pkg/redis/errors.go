package redis

import "errors"

var (
	// ErrInvalidURL indicates the connection URL failed to parse.
	ErrInvalidURL = errors.New("redis: invalid connection url")

	// ErrNotReady indicates the server did not answer a ping within the
	// configured retry budget.
	ErrNotReady = errors.New("redis: server not ready")
)
