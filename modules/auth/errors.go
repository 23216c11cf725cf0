package auth

import "errors"

var (
	// ErrInvalidChallenge covers every unusable login challenge: malformed or
	// expired token, or no stored code to check against. Collapsing these
	// keeps the API from distinguishing "never issued" from "already used".
	ErrInvalidChallenge = errors.New("auth: invalid or expired login challenge")

	// ErrCodeMismatch indicates the verification code was wrong. The
	// challenge survives for another attempt within its window.
	ErrCodeMismatch = errors.New("auth: verification code mismatch")

	// ErrIncompleteProfile indicates a first-time login without the profile
	// fields needed to create the account.
	ErrIncompleteProfile = errors.New("auth: profile required for new user")

	// ErrUserAlreadyExists indicates a uniqueness conflict on email or
	// username during account creation.
	ErrUserAlreadyExists = errors.New("auth: user already exists")

	// ErrUserNotFound indicates the referenced user no longer resolves.
	ErrUserNotFound = errors.New("auth: user not found")

	// ErrUnauthenticated indicates no credential was presented.
	ErrUnauthenticated = errors.New("auth: authentication required")

	// ErrInvalidToken indicates a malformed, tampered, or wrong-purpose
	// access token.
	ErrInvalidToken = errors.New("auth: invalid token")

	// ErrExpiredToken indicates a well-formed token past its expiry.
	ErrExpiredToken = errors.New("auth: token expired")

	// ErrSessionNotFound indicates the refresh token has no session record.
	ErrSessionNotFound = errors.New("auth: session not found")

	// ErrSessionExpired indicates the session was already rotated, revoked,
	// or outlived its window.
	ErrSessionExpired = errors.New("auth: session expired or revoked")

	// ErrStoreUnavailable indicates a backing-store failure. Retryable;
	// never means the looked-up record is absent.
	ErrStoreUnavailable = errors.New("auth: store unavailable")

	// ErrEmailDispatchFailed indicates the verification email could not be
	// handed to the provider. Surfaced through logs, not request failures.
	ErrEmailDispatchFailed = errors.New("auth: email dispatch failed")
)
