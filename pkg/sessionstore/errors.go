package sessionstore

import "errors"

var (
	// ErrChallengeNotFound indicates the challenge token has no stored code
	// (never issued, already consumed, or expired).
	ErrChallengeNotFound = errors.New("sessionstore: login challenge not found")

	// ErrChallengeMismatch indicates the submitted code did not match the
	// stored one. The challenge remains valid for another attempt.
	ErrChallengeMismatch = errors.New("sessionstore: verification code mismatch")

	// ErrSessionNotFound indicates no record exists for the refresh token.
	ErrSessionNotFound = errors.New("sessionstore: session not found")

	// ErrSessionInactive indicates the session was already deactivated.
	ErrSessionInactive = errors.New("sessionstore: session inactive")

	// ErrSessionExpired indicates the session record outlived its expiry.
	ErrSessionExpired = errors.New("sessionstore: session expired")

	// ErrCorruptRecord indicates a session blob that cannot be decoded.
	ErrCorruptRecord = errors.New("sessionstore: corrupt session record")

	// ErrUnavailable wraps Redis transport failures. Absence is never
	// reported through this error.
	ErrUnavailable = errors.New("sessionstore: redis unavailable")
)
