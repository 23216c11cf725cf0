// Package config loads typed configuration structs from environment
// variables.
//
// A .env file in the working directory is loaded once, then struct fields
// are populated from `env` tags via caarlos0/env. Each component owns its
// Config struct; the entrypoint loads them all at startup and passes
// immutable values down - nothing reads ambient configuration after boot.
//
//	type Config struct {
//	    TokenSecret string        `env:"AUTH_TOKEN_SECRET,required"`
//	    AccessTTL   time.Duration `env:"AUTH_ACCESS_TOKEN_TTL" envDefault:"15m"`
//	}
//
//	var cfg Config
//	config.MustLoad(&cfg)
package config
