// Package authtoken signs and verifies the two JWT shapes the login flow
// relies on: login-challenge tokens (carrying the target email) and access
// tokens (carrying the authenticated user id and username).
//
// Both shapes are HMAC-SHA256 signed with a single process-wide secret
// loaded at startup. A "purpose" claim distinguishes them so a
// login-challenge token can never be presented where an access token is
// expected, even though they share the signing mechanism.
//
// # Usage
//
//	codec, err := authtoken.NewCodec([]byte(secret))
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	challenge, err := codec.NewLoginToken("user@example.com", 30*time.Minute)
//	claims, err := codec.ParseLoginToken(challenge)
//
// Parse methods return ErrExpiredToken for well-signed but stale tokens and
// ErrInvalidToken for everything else (bad signature, wrong algorithm,
// wrong purpose, malformed structure). Callers can branch on the two
// sentinels without string matching.
package authtoken
