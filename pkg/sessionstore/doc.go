// Package sessionstore persists the two kinds of ephemeral auth state in
// Redis: login challenges (verification code keyed by challenge token) and
// refresh sessions (revocable records keyed by refresh token, indexed per
// user).
//
// Key layout:
//
//	login_token:<challengeToken>  -> verification code     (TTL = challenge window)
//	refresh_token:<refreshToken>  -> JSON session record   (TTL = refresh window)
//	user_sessions:<userID>        -> set of refresh tokens
//
// Every operation is individually atomic. The two operations with real race
// surface - consuming a challenge code and deactivating a session for
// rotation - run as Lua scripts so concurrent callers cannot both observe
// the same still-valid state: a code is matched-and-deleted in one step, and
// a session flips is_active under a compare-and-swap that preserves the
// remaining TTL.
//
// Deactivation is a soft delete: the record stays in Redis with
// is_active=false until its TTL lapses, which keeps a revoked token
// rejectable for its whole original lifetime.
//
// Redis transport failures are wrapped in ErrUnavailable and never reported
// as absence.
package sessionstore
