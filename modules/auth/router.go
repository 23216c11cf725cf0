package auth

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/connectorhq/authkit/pkg/clientip"
	"github.com/connectorhq/authkit/pkg/logger"
)

const refreshCookieName = "refresh_token"

// Router mounts the auth HTTP surface:
//
//	POST   /login/email       start a login, email the code
//	POST   /verify/email      exchange token+code for credentials
//	POST   /refresh           rotate the refresh session
//	POST   /logout            revoke the current session
//	GET    /attempt/username  probe username availability
//	GET    /me                current user (guarded)
//	GET    /sessions          list active sessions (guarded)
//	DELETE /sessions          revoke all sessions (guarded)
//
// The refresh token travels only in an HttpOnly cookie; the access token in
// the JSON body and the Authorization header.
func Router(svc *Service, sessions *SessionManager, guard *Guard, log *slog.Logger) chi.Router {
	h := &handlers{svc: svc, sessions: sessions, log: log}

	r := chi.NewRouter()
	r.Post("/login/email", h.requestLogin)
	r.Post("/verify/email", h.verifyLogin)
	r.Post("/refresh", h.refresh)
	r.Post("/logout", h.logout)
	r.Get("/attempt/username", h.usernameAvailable)

	r.Group(func(r chi.Router) {
		r.Use(guard.Middleware())
		r.Get("/me", h.me)
		r.Get("/sessions", h.listSessions)
		r.Delete("/sessions", h.revokeSessions)
	})

	return r
}

type handlers struct {
	svc      *Service
	sessions *SessionManager
	log      *slog.Logger
}

type loginRequest struct {
	Email string `json:"email"`
}

type loginResponse struct {
	LoginToken string `json:"login_token"`
	IsNewUser  bool   `json:"is_new_user"`
}

func (h *handlers) requestLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Email == "" {
		writeError(w, http.StatusBadRequest, "email is required")
		return
	}

	challenge, err := h.svc.RequestLogin(r.Context(), req.Email)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, loginResponse{
		LoginToken: challenge.Token,
		IsNewUser:  challenge.IsNewUser,
	})
}

type verifyRequest struct {
	LoginToken string `json:"login_token"`
	Code       string `json:"code"`
	Name       string `json:"name,omitempty"`
	Username   string `json:"username,omitempty"`
	Gender     string `json:"gender,omitempty"`
}

type credentialsResponse struct {
	UserID      string `json:"user_id"`
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

func (h *handlers) verifyLogin(w http.ResponseWriter, r *http.Request) {
	var req verifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.LoginToken == "" || req.Code == "" {
		writeError(w, http.StatusBadRequest, "login_token and code are required")
		return
	}

	profile := Profile{Name: req.Name, Username: req.Username, Gender: req.Gender}
	creds, err := h.svc.VerifyLogin(r.Context(), req.LoginToken, req.Code, profile, metaFromRequest(r))
	if err != nil {
		h.fail(w, r, err)
		return
	}

	h.writeCredentials(w, creds)
}

func (h *handlers) refresh(w http.ResponseWriter, r *http.Request) {
	token := refreshTokenFromRequest(r)
	if token == "" {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	creds, err := h.sessions.Rotate(r.Context(), token, metaFromRequest(r))
	if err != nil {
		clearRefreshCookie(w)
		h.fail(w, r, err)
		return
	}

	h.writeCredentials(w, creds)
}

// logout clears the client's credentials no matter what the store says; a
// stale or missing session must not trap the user in a logged-in client.
func (h *handlers) logout(w http.ResponseWriter, r *http.Request) {
	if token := refreshTokenFromRequest(r); token != "" {
		if err := h.sessions.Revoke(r.Context(), token); err != nil {
			h.log.ErrorContext(r.Context(), "logout revoke failed",
				logger.Component("auth.router"), logger.Error(err))
		}
	}

	clearRefreshCookie(w)
	w.WriteHeader(http.StatusNoContent)
}

type usernameResponse struct {
	Username  string `json:"username"`
	Available bool   `json:"available"`
}

func (h *handlers) usernameAvailable(w http.ResponseWriter, r *http.Request) {
	username := r.URL.Query().Get("username")
	if username == "" {
		writeError(w, http.StatusBadRequest, "username is required")
		return
	}

	_, err := h.svc.users.FindByUsername(r.Context(), username)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, usernameResponse{Username: username, Available: false})
	case errors.Is(err, ErrUserNotFound):
		writeJSON(w, http.StatusOK, usernameResponse{Username: username, Available: true})
	default:
		h.fail(w, r, err)
	}
}

type userResponse struct {
	ID             string `json:"id"`
	Email          string `json:"email"`
	Username       string `json:"username"`
	Name           string `json:"name"`
	Gender         string `json:"gender,omitempty"`
	ProfilePicture string `json:"profile_picture,omitempty"`
	Bio            string `json:"bio,omitempty"`
}

func (h *handlers) me(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	writeJSON(w, http.StatusOK, userResponse{
		ID:             user.ID.String(),
		Email:          user.Email,
		Username:       user.Username,
		Name:           user.Name,
		Gender:         user.Gender,
		ProfilePicture: user.ProfilePicture,
		Bio:            user.Bio,
	})
}

type sessionResponse struct {
	ClientID  string    `json:"client_id"`
	UserAgent string    `json:"user_agent"`
	IP        string    `json:"ip"`
	Current   bool      `json:"current"`
	IssuedAt  time.Time `json:"issued_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

func (h *handlers) listSessions(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	infos, err := h.sessions.ActiveSessions(r.Context(), user.ID)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	current := refreshTokenFromRequest(r)
	out := make([]sessionResponse, len(infos))
	for i, info := range infos {
		out[i] = sessionResponse{
			ClientID:  info.ClientID,
			UserAgent: info.UserAgent,
			IP:        info.IP,
			Current:   current != "" && info.Token == current,
			IssuedAt:  info.IssuedAt,
			ExpiresAt: info.ExpiresAt,
		}
	}

	writeJSON(w, http.StatusOK, out)
}

func (h *handlers) revokeSessions(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	if err := h.sessions.RevokeAll(r.Context(), user.ID); err != nil {
		h.fail(w, r, err)
		return
	}

	clearRefreshCookie(w)
	w.WriteHeader(http.StatusNoContent)
}

func (h *handlers) writeCredentials(w http.ResponseWriter, creds *Credentials) {
	http.SetCookie(w, &http.Cookie{
		Name:     refreshCookieName,
		Value:    creds.RefreshToken,
		Path:     "/",
		MaxAge:   int(h.sessions.cfg.RefreshTokenTTL.Seconds()),
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	})

	writeJSON(w, http.StatusOK, credentialsResponse{
		UserID:      creds.UserID.String(),
		AccessToken: creds.AccessToken,
		TokenType:   "Bearer",
		ExpiresIn:   int64(creds.ExpiresIn.Seconds()),
	})
}

// fail maps a domain error to a status code with a generic body. The precise
// cause is only logged; the API never distinguishes "wrong code" from
// "expired challenge" beyond what the client needs to react.
func (h *handlers) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	message := "something went wrong"

	switch {
	case errors.Is(err, ErrInvalidChallenge), errors.Is(err, ErrCodeMismatch):
		status, message = http.StatusUnauthorized, "invalid or expired verification code"
	case errors.Is(err, ErrIncompleteProfile):
		status, message = http.StatusUnprocessableEntity, "name and username are required"
	case errors.Is(err, ErrUserAlreadyExists):
		status, message = http.StatusConflict, "account already exists"
	case errors.Is(err, ErrUserNotFound),
		errors.Is(err, ErrSessionNotFound),
		errors.Is(err, ErrSessionExpired),
		errors.Is(err, ErrUnauthenticated),
		errors.Is(err, ErrInvalidToken),
		errors.Is(err, ErrExpiredToken):
		status, message = http.StatusUnauthorized, "authentication required"
	case errors.Is(err, ErrStoreUnavailable):
		status, message = http.StatusServiceUnavailable, "temporarily unavailable"
	}

	h.log.ErrorContext(r.Context(), "auth request rejected",
		logger.Component("auth.router"),
		slog.String("path", r.URL.Path),
		slog.Int("status", status),
		logger.Error(err))

	writeError(w, status, message)
}

func metaFromRequest(r *http.Request) ClientMeta {
	return ClientMeta{
		ClientID:  r.Header.Get("X-Client-ID"),
		UserAgent: r.UserAgent(),
		IP:        clientip.FromRequest(r),
	}.Normalized()
}

func refreshTokenFromRequest(r *http.Request) string {
	cookie, err := r.Cookie(refreshCookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}

func clearRefreshCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     refreshCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
