package clientip

import (
	"net"
	"net/http"
	"strings"
)

// FromRequest returns the client IP, checking proxy headers in priority
// order before falling back to the connection's remote address. Returns an
// empty string when nothing parses as an IP; callers treat that as
// "unavailable" and substitute their own placeholder.
func FromRequest(r *http.Request) string {
	if ip := parse(r.Header.Get("CF-Connecting-IP")); ip != "" {
		return ip
	}

	// X-Forwarded-For may chain several hops; the first valid entry is the
	// original client.
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		for _, part := range strings.Split(forwarded, ",") {
			if ip := parse(part); ip != "" {
				return ip
			}
		}
	}

	if ip := parse(r.Header.Get("X-Real-IP")); ip != "" {
		return ip
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return parse(r.RemoteAddr)
	}
	return parse(host)
}

func parse(s string) string {
	ip := net.ParseIP(strings.TrimSpace(s))
	if ip == nil {
		return ""
	}
	return ip.String()
}
