package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/connectorhq/authkit/pkg/authtoken"
	"github.com/connectorhq/authkit/pkg/logger"
	"github.com/connectorhq/authkit/pkg/sessionstore"
)

const refreshTokenBytes = 32

// SessionManagerOption configures a SessionManager.
type SessionManagerOption func(*SessionManager)

// WithSessionLogger sets the manager logger. The default discards everything.
func WithSessionLogger(log *slog.Logger) SessionManagerOption {
	return func(m *SessionManager) {
		if log != nil {
			m.log = log
		}
	}
}

// SessionManager owns the refresh-session lifecycle.
type SessionManager struct {
	cfg   Config
	codec *authtoken.Codec
	store *sessionstore.Store
	users UserDirectory
	log   *slog.Logger
}

// NewSessionManager creates a manager over the given store and directory.
func NewSessionManager(
	cfg Config,
	codec *authtoken.Codec,
	store *sessionstore.Store,
	users UserDirectory,
	opts ...SessionManagerOption,
) *SessionManager {
	m := &SessionManager{
		cfg:   cfg,
		codec: codec,
		store: store,
		users: users,
		log:   logger.Discard(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Create opens a refresh session for the user and returns its token. The
// token is the only handle on the session; it is returned once and stored
// only as a key.
func (m *SessionManager) Create(ctx context.Context, userID uuid.UUID, meta ClientMeta) (string, error) {
	token, err := newRefreshToken()
	if err != nil {
		return "", err
	}

	meta = meta.Normalized()
	now := time.Now()
	sess := &sessionstore.Session{
		Token:     token,
		UserID:    userID.String(),
		ClientID:  meta.ClientID,
		UserAgent: meta.UserAgent,
		IP:        meta.IP,
		IssuedAt:  now.Unix(),
		ExpiresAt: now.Add(m.cfg.RefreshTokenTTL).Unix(),
		IsActive:  true,
	}
	if err := m.store.SaveSession(ctx, sess, m.cfg.RefreshTokenTTL); err != nil {
		return "", mapStoreErr(err)
	}

	return token, nil
}

// Rotate exchanges a refresh token for a fresh credential pair. The old
// session is deactivated under a conditional write, so of any number of
// concurrent rotations of the same token exactly one succeeds; the rest see
// ErrSessionExpired. A replayed (already rotated or revoked) token also maps
// to ErrSessionExpired, which callers should treat as a signal to
// re-authenticate.
func (m *SessionManager) Rotate(ctx context.Context, token string, meta ClientMeta) (*Credentials, error) {
	old, err := m.store.DeactivateSession(ctx, token)
	if err != nil {
		switch {
		case errors.Is(err, sessionstore.ErrSessionNotFound):
			return nil, ErrSessionNotFound
		case errors.Is(err, sessionstore.ErrSessionInactive),
			errors.Is(err, sessionstore.ErrSessionExpired),
			errors.Is(err, sessionstore.ErrCorruptRecord):
			return nil, ErrSessionExpired
		default:
			return nil, mapStoreErr(err)
		}
	}

	userID, err := uuid.Parse(old.UserID)
	if err != nil {
		return nil, ErrSessionExpired
	}
	user, err := m.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	// A client that does not resend its metadata keeps the old session's.
	if meta.ClientID == "" {
		meta.ClientID = old.ClientID
	}
	if meta.UserAgent == "" {
		meta.UserAgent = old.UserAgent
	}

	m.log.InfoContext(ctx, "session rotated",
		logger.Component("auth.sessions"), logger.UserID(old.UserID))

	return m.issue(ctx, user, meta)
}

// Revoke deactivates the session behind the token. Revoking a token that is
// unknown, expired, or already revoked is a no-op, so logout never fails for
// a client holding a stale cookie.
func (m *SessionManager) Revoke(ctx context.Context, token string) error {
	_, err := m.store.DeactivateSession(ctx, token)
	if err == nil ||
		errors.Is(err, sessionstore.ErrSessionNotFound) ||
		errors.Is(err, sessionstore.ErrSessionInactive) ||
		errors.Is(err, sessionstore.ErrSessionExpired) ||
		errors.Is(err, sessionstore.ErrCorruptRecord) {
		return nil
	}
	return mapStoreErr(err)
}

// RevokeAll deactivates every session of the user. Individual sessions that
// vanished between the index read and the write are skipped.
func (m *SessionManager) RevokeAll(ctx context.Context, userID uuid.UUID) error {
	tokens, err := m.store.SessionTokens(ctx, userID.String())
	if err != nil {
		return mapStoreErr(err)
	}

	for _, token := range tokens {
		if err := m.Revoke(ctx, token); err != nil {
			return err
		}
	}

	m.log.InfoContext(ctx, "all sessions revoked",
		logger.Component("auth.sessions"), logger.UserID(userID.String()))
	return nil
}

// ActiveSessions lists the user's live sessions. Index members whose records
// expired or were revoked are silently dropped; the index is a hint, the
// records are authoritative.
func (m *SessionManager) ActiveSessions(ctx context.Context, userID uuid.UUID) ([]SessionInfo, error) {
	tokens, err := m.store.SessionTokens(ctx, userID.String())
	if err != nil {
		return nil, mapStoreErr(err)
	}

	records, err := m.store.GetSessions(ctx, tokens)
	if err != nil {
		return nil, mapStoreErr(err)
	}

	now := time.Now()
	infos := make([]SessionInfo, 0, len(records))
	for _, rec := range records {
		if !rec.IsActive || rec.Expired(now) {
			continue
		}
		infos = append(infos, SessionInfo{
			Token:     rec.Token,
			ClientID:  rec.ClientID,
			UserAgent: rec.UserAgent,
			IP:        rec.IP,
			IssuedAt:  time.Unix(rec.IssuedAt, 0),
			ExpiresAt: time.Unix(rec.ExpiresAt, 0),
		})
	}

	return infos, nil
}

// issue mints the access token and opens the refresh session for a verified
// user. Shared by login verification and rotation.
func (m *SessionManager) issue(ctx context.Context, user *User, meta ClientMeta) (*Credentials, error) {
	access, err := m.codec.NewAccessToken(user.ID.String(), user.Username, m.cfg.AccessTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("mint access token: %w", err)
	}

	refresh, err := m.Create(ctx, user.ID, meta)
	if err != nil {
		return nil, err
	}

	return &Credentials{
		UserID:       user.ID,
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    m.cfg.AccessTokenTTL,
	}, nil
}

func newRefreshToken() (string, error) {
	buf := make([]byte, refreshTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate refresh token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
