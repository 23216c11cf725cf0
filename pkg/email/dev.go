package email

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

// DevSender writes each message to an HTML file instead of sending it, so
// the verification code is readable during local development.
type DevSender struct {
	dir string
}

// NewDevSender creates a Sender that stores messages under dir, creating it
// on first send.
func NewDevSender(dir string) *DevSender {
	return &DevSender{dir: dir}
}

var unsafeFilename = regexp.MustCompile(`[^a-zA-Z0-9_.-]`)

// SendEmail writes the message body to <dir>/<timestamp>_<recipient>.html.
func (d *DevSender) SendEmail(ctx context.Context, params SendParams) error {
	if err := params.Validate(); err != nil {
		return err
	}

	if err := os.MkdirAll(d.dir, 0o755); err != nil {
		return fmt.Errorf("%w: %v", ErrSendFailed, err)
	}

	name := fmt.Sprintf("%s_%s.html",
		time.Now().Format("20060102_150405"),
		unsafeFilename.ReplaceAllString(strings.ToLower(params.To), "_"),
	)
	if err := os.WriteFile(filepath.Join(d.dir, name), []byte(params.BodyHTML), 0o644); err != nil {
		return fmt.Errorf("%w: %v", ErrSendFailed, err)
	}

	return nil
}
