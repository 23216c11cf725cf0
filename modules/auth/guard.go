package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/connectorhq/authkit/pkg/authtoken"
)

type ctxKey struct{}

// Guard validates access tokens on protected endpoints. It is read-only and
// never touches the session store; possession of an unexpired, well-signed
// access token is sufficient until it expires.
type Guard struct {
	codec *authtoken.Codec
	users UserDirectory
}

// NewGuard creates a guard over the given codec and directory.
func NewGuard(codec *authtoken.Codec, users UserDirectory) *Guard {
	return &Guard{codec: codec, users: users}
}

// Authenticate resolves the presented access token to a user. An empty
// credential maps to ErrUnauthenticated, a codec rejection to
// ErrInvalidToken or ErrExpiredToken, and an unresolvable subject to
// ErrUserNotFound.
func (g *Guard) Authenticate(ctx context.Context, token string) (*User, error) {
	if token == "" {
		return nil, ErrUnauthenticated
	}

	claims, err := g.codec.ParseAccessToken(token)
	if err != nil {
		if errors.Is(err, authtoken.ErrExpiredToken) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, ErrInvalidToken
	}

	user, err := g.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	return user, nil
}

// Middleware authenticates the Authorization bearer token and stores the
// resolved user in the request context. Requests that fail get 401 with a
// generic body; the specific cause stays server-side.
func (g *Guard) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, err := g.Authenticate(r.Context(), bearerToken(r))
			if err != nil {
				writeError(w, http.StatusUnauthorized, "authentication required")
				return
			}
			next.ServeHTTP(w, r.WithContext(withUser(r.Context(), user)))
		})
	}
}

// UserFromContext returns the authenticated user placed by Middleware.
func UserFromContext(ctx context.Context) (*User, bool) {
	user, ok := ctx.Value(ctxKey{}).(*User)
	return user, ok
}

func withUser(ctx context.Context, user *User) context.Context {
	return context.WithValue(ctx, ctxKey{}, user)
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
