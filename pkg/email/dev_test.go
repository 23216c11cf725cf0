package email_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/connectorhq/authkit/pkg/email"
)

func TestDevSender(t *testing.T) {
	t.Parallel()

	t.Run("writes the message to disk", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		sender := email.NewDevSender(dir)

		err := sender.SendEmail(context.Background(), email.SendParams{
			To:       "user@example.com",
			Subject:  "abcde-fghij-klmno-pqrst - Log in to Connector",
			BodyHTML: "<p>abcde-fghij-klmno-pqrst</p>",
			Tag:      "login-code",
		})
		require.NoError(t, err)

		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		require.Len(t, entries, 1)

		body, err := os.ReadFile(filepath.Join(dir, entries[0].Name()))
		require.NoError(t, err)
		assert.Contains(t, string(body), "abcde-fghij-klmno-pqrst")
	})

	t.Run("rejects invalid recipients", func(t *testing.T) {
		t.Parallel()

		sender := email.NewDevSender(t.TempDir())
		err := sender.SendEmail(context.Background(), email.SendParams{
			To:       "not-an-address",
			Subject:  "s",
			BodyHTML: "<p>b</p>",
		})
		assert.ErrorIs(t, err, email.ErrInvalidParams)
	})
}

func TestNewPostmarkSender(t *testing.T) {
	t.Parallel()

	t.Run("requires tokens", func(t *testing.T) {
		t.Parallel()

		_, err := email.NewPostmarkSender(email.Config{SenderEmail: "noreply@example.com"})
		assert.ErrorIs(t, err, email.ErrInvalidConfig)
	})

	t.Run("requires a valid sender address", func(t *testing.T) {
		t.Parallel()

		_, err := email.NewPostmarkSender(email.Config{
			PostmarkServerToken:  "srv",
			PostmarkAccountToken: "acc",
			SenderEmail:          "invalid",
		})
		assert.ErrorIs(t, err, email.ErrInvalidConfig)
	})
}
