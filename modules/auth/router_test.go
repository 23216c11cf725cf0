package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/connectorhq/authkit/pkg/logger"
)

func newTestRouter(t *testing.T, env *testEnv) http.Handler {
	t.Helper()
	guard := NewGuard(env.codec, env.users)
	return Router(env.svc, env.sessions, guard, logger.Discard())
}

func postJSON(t *testing.T, handler http.Handler, path string, body any, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	data, err := json.Marshal(body)
	require.NoError(t, err)

	r := httptest.NewRequest("POST", path, bytes.NewReader(data))
	r.Header.Set("Content-Type", "application/json")
	for _, c := range cookies {
		r.AddCookie(c)
	}

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)
	return w
}

func refreshCookie(t *testing.T, w *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range w.Result().Cookies() {
		if c.Name == refreshCookieName {
			return c
		}
	}
	t.Fatal("no refresh cookie set")
	return nil
}

func TestRouter_LoginFlow(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, WithCodeGenerator(fixedCode))
	user := testUser()
	env.users.On("FindByEmail", mock.Anything, user.Email).Return(user, nil)
	env.users.On("FindByID", mock.Anything, user.ID).Return(user, nil)
	env.mailer.On("SendEmail", mock.Anything, mock.Anything).Return(nil)

	router := newTestRouter(t, env)

	// Request the code.
	w := postJSON(t, router, "/login/email", loginRequest{Email: user.Email})
	require.Equal(t, http.StatusOK, w.Code)

	var login loginResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &login))
	assert.False(t, login.IsNewUser)
	require.NotEmpty(t, login.LoginToken)

	// Exchange it for credentials.
	w = postJSON(t, router, "/verify/email", verifyRequest{LoginToken: login.LoginToken, Code: testCode})
	require.Equal(t, http.StatusOK, w.Code)

	var creds credentialsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &creds))
	assert.Equal(t, user.ID.String(), creds.UserID)
	assert.Equal(t, "Bearer", creds.TokenType)

	cookie := refreshCookie(t, w)
	assert.True(t, cookie.HttpOnly)
	assert.NotEmpty(t, cookie.Value)

	// The access token opens the guarded surface.
	r := httptest.NewRequest("GET", "/me", nil)
	r.Header.Set("Authorization", "Bearer "+creds.AccessToken)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, r)
	require.Equal(t, http.StatusOK, rec.Code)

	var me userResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &me))
	assert.Equal(t, user.Email, me.Email)

	// Rotate the refresh session via the cookie.
	w = postJSON(t, router, "/refresh", nil, cookie)
	require.Equal(t, http.StatusOK, w.Code)
	rotated := refreshCookie(t, w)
	assert.NotEqual(t, cookie.Value, rotated.Value)

	// The old cookie is spent.
	w = postJSON(t, router, "/refresh", nil, cookie)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Logout clears the cookie and revokes the session.
	w = postJSON(t, router, "/logout", nil, rotated)
	require.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, -1, refreshCookie(t, w).MaxAge)

	w = postJSON(t, router, "/refresh", nil, rotated)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRouter_VerifyRejections(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	user := testUser()
	env.users.On("FindByEmail", mock.Anything, user.Email).Return(user, nil)

	router := newTestRouter(t, env)
	token := seedChallenge(t, env, user.Email)

	t.Run("wrong code", func(t *testing.T) {
		w := postJSON(t, router, "/verify/email", verifyRequest{LoginToken: token, Code: "xxxxx-xxxxx-xxxxx-xxxxx"})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.JSONEq(t, `{"error":"invalid or expired verification code"}`, w.Body.String())
	})

	t.Run("missing fields", func(t *testing.T) {
		w := postJSON(t, router, "/verify/email", verifyRequest{LoginToken: token})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("new user without profile", func(t *testing.T) {
		env.users.On("FindByEmail", mock.Anything, "new@example.com").Return(nil, ErrUserNotFound)
		fresh := seedChallenge(t, env, "new@example.com")

		w := postJSON(t, router, "/verify/email", verifyRequest{LoginToken: fresh, Code: testCode})
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})
}

func TestRouter_RefreshWithoutCookie(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	router := newTestRouter(t, env)

	w := postJSON(t, router, "/refresh", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRouter_UsernameProbe(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	env.users.On("FindByUsername", mock.Anything, "taken").Return(testUser(), nil)
	env.users.On("FindByUsername", mock.Anything, "free").Return(nil, ErrUserNotFound)

	router := newTestRouter(t, env)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/attempt/username?username=taken", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"username":"taken","available":false}`, w.Body.String())

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/attempt/username?username=free", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"username":"free","available":true}`, w.Body.String())

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/attempt/username", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRouter_SessionsEndpoints(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	user := testUser()
	env.users.On("FindByID", mock.Anything, user.ID).Return(user, nil)

	router := newTestRouter(t, env)

	_, err := env.sessions.Create(context.Background(), user.ID, ClientMeta{ClientID: "ios-app"})
	require.NoError(t, err)
	current, err := env.sessions.Create(context.Background(), user.ID, testMeta())
	require.NoError(t, err)

	access, err := env.codec.NewAccessToken(user.ID.String(), user.Username, env.cfg.AccessTokenTTL)
	require.NoError(t, err)

	list := func() []sessionResponse {
		r := httptest.NewRequest("GET", "/sessions", nil)
		r.Header.Set("Authorization", "Bearer "+access)
		r.AddCookie(&http.Cookie{Name: refreshCookieName, Value: current})
		w := httptest.NewRecorder()
		router.ServeHTTP(w, r)
		require.Equal(t, http.StatusOK, w.Code)

		var out []sessionResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
		return out
	}

	sessions := list()
	require.Len(t, sessions, 2)

	currentMarked := 0
	for _, s := range sessions {
		if s.Current {
			currentMarked++
		}
	}
	assert.Equal(t, 1, currentMarked)

	// Revoke everything.
	r := httptest.NewRequest("DELETE", "/sessions", nil)
	r.Header.Set("Authorization", "Bearer "+access)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, r)
	require.Equal(t, http.StatusNoContent, w.Code)

	assert.Empty(t, list())
}
