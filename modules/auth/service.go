package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/connectorhq/authkit/pkg/async"
	"github.com/connectorhq/authkit/pkg/authtoken"
	"github.com/connectorhq/authkit/pkg/email"
	"github.com/connectorhq/authkit/pkg/logger"
	"github.com/connectorhq/authkit/pkg/sessionstore"
	"github.com/connectorhq/authkit/pkg/verifycode"
)

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithLogger sets the service logger. The default discards everything.
func WithLogger(log *slog.Logger) ServiceOption {
	return func(s *Service) {
		if log != nil {
			s.log = log
		}
	}
}

// WithCodeGenerator overrides the verification-code source. Tests use it to
// make codes deterministic.
func WithCodeGenerator(gen func() string) ServiceOption {
	return func(s *Service) {
		if gen != nil {
			s.generateCode = gen
		}
	}
}

// Service drives the login flow: issuing challenges and exchanging verified
// codes for credentials.
type Service struct {
	cfg          Config
	codec        *authtoken.Codec
	store        *sessionstore.Store
	users        UserDirectory
	mailer       email.Sender
	sessions     *SessionManager
	generateCode func() string
	log          *slog.Logger
}

// NewService wires the login flow together.
func NewService(
	cfg Config,
	codec *authtoken.Codec,
	store *sessionstore.Store,
	users UserDirectory,
	mailer email.Sender,
	sessions *SessionManager,
	opts ...ServiceOption,
) *Service {
	s := &Service{
		cfg:          cfg,
		codec:        codec,
		store:        store,
		users:        users,
		mailer:       mailer,
		sessions:     sessions,
		generateCode: verifycode.Generate,
		log:          logger.Discard(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RequestLogin starts a login: it mints a challenge token bound to the email,
// stores a fresh verification code under it, and dispatches the code by
// email in the background. An unknown email is not an error; it flags the
// response as a first-time login so the client collects profile fields.
//
// Email dispatch failures never fail the request. The user retries from an
// unchanged position, while the failure is logged for the operators.
func (s *Service) RequestLogin(ctx context.Context, address string) (*LoginChallenge, error) {
	address = normalizeEmail(address)

	isNewUser := false
	if _, err := s.users.FindByEmail(ctx, address); err != nil {
		if !errors.Is(err, ErrUserNotFound) {
			return nil, err
		}
		isNewUser = true
	}

	token, err := s.codec.NewLoginToken(address, s.cfg.ChallengeTTL)
	if err != nil {
		return nil, fmt.Errorf("mint login token: %w", err)
	}

	code := s.generateCode()
	if err := s.store.SaveChallenge(ctx, token, code, s.cfg.ChallengeTTL); err != nil {
		return nil, mapStoreErr(err)
	}

	s.dispatchVerifyEmail(ctx, address, token, code)

	s.log.InfoContext(ctx, "login challenge issued",
		logger.Component("auth.service"), slog.Bool("new_user", isNewUser))

	return &LoginChallenge{Token: token, IsNewUser: isNewUser}, nil
}

// VerifyLogin exchanges a challenge token and its emailed code for
// credentials. Whether the login creates an account is decided here from the
// directory, not from anything the client claims.
//
// The profile is required only for first-time logins; for existing users it
// is ignored. The stored code is consumed exactly once, and only after the
// request has passed every check that does not touch the store, so a
// rejected first-time login without a profile does not burn the code.
func (s *Service) VerifyLogin(ctx context.Context, token, code string, profile Profile, meta ClientMeta) (*Credentials, error) {
	claims, err := s.codec.ParseLoginToken(token)
	if err != nil {
		return nil, ErrInvalidChallenge
	}

	user, err := s.users.FindByEmail(ctx, claims.Email)
	switch {
	case err == nil:
	case errors.Is(err, ErrUserNotFound):
		if !profile.Complete() {
			return nil, ErrIncompleteProfile
		}
		if _, err := s.users.FindByUsername(ctx, profile.Username); err == nil {
			return nil, ErrUserAlreadyExists
		} else if !errors.Is(err, ErrUserNotFound) {
			return nil, err
		}
	default:
		return nil, err
	}

	if err := s.store.ConsumeChallenge(ctx, token, code); err != nil {
		switch {
		case errors.Is(err, sessionstore.ErrChallengeMismatch):
			return nil, ErrCodeMismatch
		case errors.Is(err, sessionstore.ErrChallengeNotFound):
			return nil, ErrInvalidChallenge
		default:
			return nil, mapStoreErr(err)
		}
	}

	if user == nil {
		user = &User{
			ID:       uuid.New(),
			Email:    claims.Email,
			Username: profile.Username,
			Name:     profile.Name,
			Gender:   profile.Gender,
			Status:   StatusActive,
		}
		if err := s.users.Create(ctx, user); err != nil {
			return nil, err
		}
		s.log.InfoContext(ctx, "user created",
			logger.Component("auth.service"), logger.UserID(user.ID.String()))
	}

	return s.sessions.issue(ctx, user, meta)
}

func (s *Service) dispatchVerifyEmail(ctx context.Context, address, token, code string) {
	subject, body, err := renderVerifyEmail(s.cfg.VerifyURL, token, code, s.cfg.ChallengeTTL)
	if err != nil {
		s.log.ErrorContext(ctx, "verification email render failed",
			logger.Component("auth.service"), logger.Error(err))
		return
	}

	params := email.SendParams{
		To:       address,
		Subject:  subject,
		BodyHTML: body,
		Tag:      "login-verification",
	}
	async.Go(ctx, params, s.mailer.SendEmail, func(err error) {
		s.log.Error("verification email dispatch failed",
			logger.Component("auth.service"),
			logger.Error(errors.Join(ErrEmailDispatchFailed, err)))
	})
}

func normalizeEmail(address string) string {
	return strings.ToLower(strings.TrimSpace(address))
}

func mapStoreErr(err error) error {
	if errors.Is(err, sessionstore.ErrUnavailable) {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return err
}
