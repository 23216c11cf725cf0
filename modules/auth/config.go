package auth

import "time"

// Config holds the token and session parameters.
type Config struct {
	TokenSecret     string        `env:"AUTH_TOKEN_SECRET,required"`
	TokenIssuer     string        `env:"AUTH_TOKEN_ISSUER" envDefault:"connector"`
	ChallengeTTL    time.Duration `env:"AUTH_CHALLENGE_TTL" envDefault:"30m"`
	AccessTokenTTL  time.Duration `env:"AUTH_ACCESS_TOKEN_TTL" envDefault:"15m"`
	RefreshTokenTTL time.Duration `env:"AUTH_REFRESH_TOKEN_TTL" envDefault:"720h"`

	// VerifyURL is the page the emailed deep link points at; the challenge
	// token and code are appended as query parameters.
	VerifyURL string `env:"AUTH_VERIFY_URL" envDefault:"https://app.connector.dev/verify"`
}
