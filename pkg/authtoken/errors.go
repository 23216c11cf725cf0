package authtoken

import "errors"

var (
	// ErrMissingSecret indicates the codec was constructed without a signing secret.
	ErrMissingSecret = errors.New("authtoken: signing secret is required")

	// ErrInvalidToken indicates a malformed, tampered, or wrong-purpose token.
	ErrInvalidToken = errors.New("authtoken: invalid token")

	// ErrExpiredToken indicates a well-signed token past its expiry claim.
	ErrExpiredToken = errors.New("authtoken: token expired")
)
