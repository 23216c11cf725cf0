package auth

import (
	"fmt"
	"html/template"
	"net/url"
	"strings"
	"time"
)

// verifyEmailTmpl renders the verification message. Kept inline rather than
// on disk so the binary stays self-contained.
var verifyEmailTmpl = template.Must(template.New("verify-email").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: -apple-system, 'Segoe UI', Roboto, sans-serif; color: #1a1a1a; max-width: 480px; margin: 0 auto; padding: 24px;">
  <h2 style="margin-bottom: 8px;">Log in to Connector</h2>
  <p>Enter this code to finish signing in:</p>
  <p style="font-size: 24px; letter-spacing: 2px; font-weight: 600; font-family: monospace;">{{.Code}}</p>
  <p>Or open this link on the device you started from:</p>
  <p><a href="{{.Link}}">{{.Link}}</a></p>
  <p style="color: #6b7280; font-size: 13px;">The code expires in {{.Expiry}}. If you did not request it, you can safely ignore this email.</p>
</body>
</html>`))

type verifyEmailData struct {
	Code   string
	Link   string
	Expiry string
}

func renderVerifyEmail(verifyURL, token, code string, ttl time.Duration) (subject, body string, err error) {
	link := verifyURL
	if u, parseErr := url.Parse(verifyURL); parseErr == nil {
		q := u.Query()
		q.Set("token", token)
		q.Set("code", code)
		u.RawQuery = q.Encode()
		link = u.String()
	}

	var b strings.Builder
	err = verifyEmailTmpl.Execute(&b, verifyEmailData{
		Code:   code,
		Link:   link,
		Expiry: formatExpiry(ttl),
	})
	if err != nil {
		return "", "", fmt.Errorf("%w: %v", ErrEmailDispatchFailed, err)
	}

	return fmt.Sprintf("%s - Log in to Connector", code), b.String(), nil
}

func formatExpiry(ttl time.Duration) string {
	if ttl >= time.Hour {
		if h := int(ttl.Hours()); h > 1 {
			return fmt.Sprintf("%d hours", h)
		}
		return "1 hour"
	}
	return fmt.Sprintf("%d minutes", int(ttl.Minutes()))
}
