// Package auth implements passwordless authentication with emailed
// verification codes. A login challenge binds an email address to a signed
// token and a one-time code; verifying the code yields a short-lived access
// token and a long-lived, revocable refresh session.
//
// The package is split into three collaborating services:
//
//   - Service drives the login flow (challenge issuance and verification).
//   - SessionManager owns the refresh-session lifecycle (create, rotate,
//     revoke, enumerate).
//   - Guard validates access tokens on protected endpoints.
//
// Router mounts all of them as a chi router for the HTTP edge.
package auth
