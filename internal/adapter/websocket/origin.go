package websocket

import (
	"log/slog"
	"net/http"
	"net/url"
	"strings"
)

// originPolicy decides which browser origins may open a websocket.
type originPolicy struct {
	allowed        map[string]struct{}
	allowLocalhost bool
}

// NewCheckOrigin builds the CheckOrigin function for the centrifuge websocket handler.
// Requests without an Origin header (same-origin and non-browser clients) pass. Browsers
// must come from appURL's origin or one of extra; allowLocalhost admits loopback hosts too.
func NewCheckOrigin(appURL string, allowLocalhost bool, extra ...string) func(r *http.Request) bool {
	p := originPolicy{allowed: make(map[string]struct{}), allowLocalhost: allowLocalhost}
	for _, raw := range append([]string{appURL}, extra...) {
		if origin := extractOrigin(raw); origin != "" {
			p.allowed[origin] = struct{}{}
		}
	}

	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if p.permits(origin) {
			return true
		}
		slog.Warn("WebSocket origin rejected", "origin", origin, "remote_addr", r.RemoteAddr)
		return false
	}
}

func (p originPolicy) permits(origin string) bool {
	if origin == "" {
		return true
	}
	if _, ok := p.allowed[strings.ToLower(origin)]; ok {
		return true
	}
	return p.allowLocalhost && isLoopbackOrigin(origin)
}

// extractOrigin reduces a URL to its lower-cased scheme://host[:port].
func extractOrigin(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return ""
	}
	return strings.ToLower(u.Scheme + "://" + u.Host)
}

func isLoopbackOrigin(origin string) bool {
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	switch strings.ToLower(u.Hostname()) {
	case "localhost", "127.0.0.1", "::1":
		return true
	default:
		return false
	}
}
