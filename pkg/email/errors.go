package email

import "errors"

var (
	// ErrInvalidConfig indicates missing or malformed sender configuration.
	ErrInvalidConfig = errors.New("email: invalid config")

	// ErrInvalidParams indicates an unusable send request (empty recipient,
	// subject, or body).
	ErrInvalidParams = errors.New("email: invalid send params")

	// ErrSendFailed indicates the provider rejected or failed the send.
	ErrSendFailed = errors.New("email: send failed")
)
