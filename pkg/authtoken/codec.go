package authtoken

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Token purposes. Stored as a claim and enforced on parse so the two token
// shapes cannot be swapped for one another.
const (
	PurposeLogin  = "login"
	PurposeAccess = "access"
)

// LoginClaims are carried by a login-challenge token. The email lives in
// the signed token itself, so the session store only has to hold the
// verification code.
type LoginClaims struct {
	Email   string `json:"email"`
	Purpose string `json:"purpose"`
	jwt.RegisteredClaims
}

// AccessClaims are carried by an access token. Subject is the user id.
type AccessClaims struct {
	Username string `json:"username"`
	Purpose  string `json:"purpose"`
	jwt.RegisteredClaims
}

// Option configures a Codec.
type Option func(*Codec)

// WithIssuer sets the iss claim on minted tokens and requires it on parse.
func WithIssuer(issuer string) Option {
	return func(c *Codec) { c.issuer = issuer }
}

// WithLeeway allows small clock skew between minting and verifying hosts.
func WithLeeway(leeway time.Duration) Option {
	return func(c *Codec) { c.leeway = leeway }
}

// Codec signs and verifies login-challenge and access tokens. It is
// stateless and safe for concurrent use; construct it once at startup and
// inject it wherever tokens are handled.
type Codec struct {
	secret []byte
	issuer string
	leeway time.Duration
}

// NewCodec creates a codec signing with HMAC-SHA256.
// The secret should be at least 32 bytes.
func NewCodec(secret []byte, opts ...Option) (*Codec, error) {
	if len(secret) == 0 {
		return nil, ErrMissingSecret
	}

	c := &Codec{secret: secret}
	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// NewLoginToken mints a login-challenge token binding the given email for
// the challenge window.
func (c *Codec) NewLoginToken(email string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := LoginClaims{
		Email:   email,
		Purpose: PurposeLogin,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    c.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
}

// ParseLoginToken verifies a login-challenge token and returns its claims.
func (c *Codec) ParseLoginToken(token string) (*LoginClaims, error) {
	claims := &LoginClaims{}
	if err := c.parse(token, claims); err != nil {
		return nil, err
	}
	if claims.Purpose != PurposeLogin || claims.Email == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// NewAccessToken mints an access token for the given user.
func (c *Codec) NewAccessToken(userID, username string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := AccessClaims{
		Username: username,
		Purpose:  PurposeAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Issuer:    c.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
}

// ParseAccessToken verifies an access token and returns its claims.
func (c *Codec) ParseAccessToken(token string) (*AccessClaims, error) {
	claims := &AccessClaims{}
	if err := c.parse(token, claims); err != nil {
		return nil, err
	}
	if claims.Purpose != PurposeAccess || claims.Subject == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func (c *Codec) parse(token string, claims jwt.Claims) error {
	options := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if c.leeway > 0 {
		options = append(options, jwt.WithLeeway(c.leeway))
	}
	if c.issuer != "" {
		options = append(options, jwt.WithIssuer(c.issuer))
	}

	parsed, err := jwt.NewParser(options...).ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return c.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return ErrExpiredToken
		}
		return ErrInvalidToken
	}
	if !parsed.Valid {
		return ErrInvalidToken
	}

	return nil
}
