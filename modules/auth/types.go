package auth

import (
	"time"

	"github.com/google/uuid"
)

// User statuses as stored in the directory.
const (
	StatusActive  = "active"
	StatusBlocked = "blocked"
)

// DefaultClientID labels sessions from clients that do not identify
// themselves.
const DefaultClientID = "web-app"

const metaPlaceholder = "unknown"

// User is an account record from the user directory.
type User struct {
	ID             uuid.UUID
	Email          string
	Username       string
	Name           string
	Gender         string
	Status         string
	ProfilePicture string
	Bio            string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Profile carries the fields required to create an account on first login.
type Profile struct {
	Name     string
	Username string
	Gender   string
}

// Complete reports whether the profile can back an account creation. All
// three fields are required.
func (p Profile) Complete() bool {
	return p.Name != "" && p.Username != "" && p.Gender != ""
}

// ClientMeta describes the client a session belongs to. It is extracted at
// the HTTP edge; the services never see the raw request.
type ClientMeta struct {
	ClientID  string
	UserAgent string
	IP        string
}

// Normalized fills absent fields with placeholders so session records are
// always complete.
func (m ClientMeta) Normalized() ClientMeta {
	if m.ClientID == "" {
		m.ClientID = DefaultClientID
	}
	if m.UserAgent == "" {
		m.UserAgent = metaPlaceholder
	}
	if m.IP == "" {
		m.IP = metaPlaceholder
	}
	return m
}

// LoginChallenge is the result of requesting a login: the signed challenge
// token the client must echo back, plus whether the email is new to the
// system (the client uses it to decide whether to collect profile fields).
type LoginChallenge struct {
	Token     string
	IsNewUser bool
}

// Credentials is a freshly minted access/refresh pair.
type Credentials struct {
	UserID       uuid.UUID
	AccessToken  string
	RefreshToken string
	ExpiresIn    time.Duration
}

// SessionInfo is the client-visible view of an active refresh session.
type SessionInfo struct {
	Token     string
	ClientID  string
	UserAgent string
	IP        string
	IssuedAt  time.Time
	ExpiresAt time.Time
}
