// Package email delivers transactional mail for the login flow.
//
// The Sender interface is the only thing the auth services depend on; the
// Postmark implementation is what production uses, and DevSender writes
// messages to disk for local development so the verification code can be
// read without a mail account.
package email
