package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/connectorhq/authkit/pkg/config"
)

type testConfig struct {
	Secret string        `env:"TEST_CFG_SECRET,required"`
	TTL    time.Duration `env:"TEST_CFG_TTL" envDefault:"15m"`
	Debug  bool          `env:"TEST_CFG_DEBUG" envDefault:"false"`
}

func TestLoad(t *testing.T) {
	t.Run("populates fields and defaults", func(t *testing.T) {
		t.Setenv("TEST_CFG_SECRET", "s3cret")

		var cfg testConfig
		require.NoError(t, config.Load(&cfg))

		assert.Equal(t, "s3cret", cfg.Secret)
		assert.Equal(t, 15*time.Minute, cfg.TTL)
		assert.False(t, cfg.Debug)
	})

	t.Run("overrides defaults from environment", func(t *testing.T) {
		t.Setenv("TEST_CFG_SECRET", "s3cret")
		t.Setenv("TEST_CFG_TTL", "1h")

		var cfg testConfig
		require.NoError(t, config.Load(&cfg))
		assert.Equal(t, time.Hour, cfg.TTL)
	})

	t.Run("missing required variable", func(t *testing.T) {
		var cfg testConfig
		err := config.Load(&cfg)
		assert.ErrorIs(t, err, config.ErrParsingConfig)
	})

	t.Run("nil destination", func(t *testing.T) {
		err := config.Load[testConfig](nil)
		assert.ErrorIs(t, err, config.ErrNilPointer)
	})
}
