package auth

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/connectorhq/authkit/pkg/authtoken"
	"github.com/connectorhq/authkit/pkg/email"
	"github.com/connectorhq/authkit/pkg/sessionstore"
)

// MockUserDirectory is a mock implementation of UserDirectory.
type MockUserDirectory struct {
	mock.Mock
}

func (m *MockUserDirectory) FindByEmail(ctx context.Context, address string) (*User, error) {
	args := m.Called(ctx, address)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*User), args.Error(1)
}

func (m *MockUserDirectory) FindByUsername(ctx context.Context, username string) (*User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*User), args.Error(1)
}

func (m *MockUserDirectory) FindByID(ctx context.Context, id uuid.UUID) (*User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*User), args.Error(1)
}

func (m *MockUserDirectory) Create(ctx context.Context, user *User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

// MockSender is a mock implementation of email.Sender.
type MockSender struct {
	mock.Mock
}

func (m *MockSender) SendEmail(ctx context.Context, params email.SendParams) error {
	args := m.Called(ctx, params)
	return args.Error(0)
}

// testEnv wires a real codec and a miniredis-backed store around mocked
// collaborators.
type testEnv struct {
	cfg      Config
	codec    *authtoken.Codec
	store    *sessionstore.Store
	mr       *miniredis.Miniredis
	users    *MockUserDirectory
	mailer   *MockSender
	sessions *SessionManager
	svc      *Service
}

func newTestEnv(t *testing.T, opts ...ServiceOption) *testEnv {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	codec, err := authtoken.NewCodec([]byte("test-secret-at-least-32-bytes-long"))
	require.NoError(t, err)

	cfg := Config{
		TokenSecret:     "test-secret-at-least-32-bytes-long",
		ChallengeTTL:    30 * time.Minute,
		AccessTokenTTL:  15 * time.Minute,
		RefreshTokenTTL: 720 * time.Hour,
		VerifyURL:       "https://app.example.com/verify",
	}

	store := sessionstore.New(client)
	users := &MockUserDirectory{}
	mailer := &MockSender{}
	sessions := NewSessionManager(cfg, codec, store, users)
	svc := NewService(cfg, codec, store, users, mailer, sessions, opts...)

	return &testEnv{
		cfg:      cfg,
		codec:    codec,
		store:    store,
		mr:       mr,
		users:    users,
		mailer:   mailer,
		sessions: sessions,
		svc:      svc,
	}
}

func testMeta() ClientMeta {
	return ClientMeta{ClientID: "test-client", UserAgent: "go-test", IP: "192.0.2.1"}
}

func testUser() *User {
	return &User{
		ID:       uuid.New(),
		Email:    "user@example.com",
		Username: "someone",
		Name:     "Someone",
		Status:   StatusActive,
	}
}
