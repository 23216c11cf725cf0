package email

import (
	"context"
	"fmt"
	"regexp"
)

// Sender dispatches a single transactional email. Implementations must be
// safe for concurrent use; the login flow calls SendEmail from background
// goroutines.
type Sender interface {
	SendEmail(ctx context.Context, params SendParams) error
}

// SendParams describes one outbound message.
type SendParams struct {
	To       string
	Subject  string
	BodyHTML string
	Tag      string
}

var addressRegex = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// Validate rejects requests that no provider could deliver.
func (p SendParams) Validate() error {
	if !addressRegex.MatchString(p.To) {
		return fmt.Errorf("%w: recipient %q", ErrInvalidParams, p.To)
	}
	if p.Subject == "" {
		return fmt.Errorf("%w: empty subject", ErrInvalidParams)
	}
	if p.BodyHTML == "" {
		return fmt.Errorf("%w: empty body", ErrInvalidParams)
	}
	return nil
}

// Config holds provider configuration. The Postmark tokens are optional so
// development environments can run with the DevSender instead.
type Config struct {
	PostmarkServerToken  string `env:"POSTMARK_SERVER_TOKEN"`
	PostmarkAccountToken string `env:"POSTMARK_ACCOUNT_TOKEN"`
	SenderName           string `env:"EMAIL_SENDER_NAME" envDefault:"Connector"`
	SenderEmail          string `env:"EMAIL_SENDER_ADDRESS,required"`
}
