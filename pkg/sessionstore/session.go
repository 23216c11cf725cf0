package sessionstore

import "time"

// Session is the refresh-session record stored in Redis. Timestamps are
// Unix seconds so the deactivation script can compare them without parsing.
type Session struct {
	Token     string `json:"-"`
	UserID    string `json:"user_id"`
	ClientID  string `json:"client_id"`
	UserAgent string `json:"user_agent"`
	IP        string `json:"ip"`
	IssuedAt  int64  `json:"iat"`
	ExpiresAt int64  `json:"exp"`
	IsActive  bool   `json:"is_active"`
}

// Expired reports whether the record's own expiry has passed. The Redis TTL
// normally removes the key first; this guards against clock drift between
// the stored claim and key expiry.
func (s *Session) Expired(now time.Time) bool {
	return now.Unix() >= s.ExpiresAt
}
