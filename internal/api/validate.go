package api

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"

	"github.com/landalytics/pageaudit/internal/audit"
)

const maxURLChars = 2048

// Non-HTTP schemes that must never reach the fetcher.
var blockedSchemes = map[string]struct{}{
	"file": {}, "ftp": {}, "javascript": {}, "data": {}, "vbscript": {},
}

// Hostnames that resolve to the local machine regardless of DNS.
var blockedHosts = map[string]struct{}{
	"localhost": {}, "127.0.0.1": {}, "0.0.0.0": {}, "::1": {},
}

// normalizeURL validates a user-supplied URL and returns its canonical
// form. A bare hostname gets an https scheme. Private, loopback, and
// link-local targets are rejected so the fetcher can never be pointed at
// internal infrastructure.
func normalizeURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", errors.New("url must not be empty")
	}
	if len(raw) > maxURLChars {
		return "", fmt.Errorf("url exceeds maximum length of %d characters", maxURLChars)
	}
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return "", errors.New("url is not parseable")
	}
	scheme := strings.ToLower(parsed.Scheme)
	if _, blocked := blockedSchemes[scheme]; blocked {
		return "", errors.New("url scheme is not allowed")
	}
	if scheme != "http" && scheme != "https" {
		return "", errors.New("url must use http or https")
	}

	host := strings.ToLower(parsed.Hostname())
	if host == "" {
		return "", errors.New("url has no host")
	}
	if _, blocked := blockedHosts[host]; blocked {
		return "", errors.New("private and local addresses are blocked")
	}
	if ip := net.ParseIP(host); ip != nil {
		if ip.IsPrivate() || ip.IsLoopback() || ip.IsLinkLocalUnicast() ||
			ip.IsLinkLocalMulticast() || ip.IsUnspecified() {
			return "", errors.New("private and local addresses are blocked")
		}
	}
	return raw, nil
}

// normalizeGoal lowercases and validates the goal against the closed
// catalog. An absent goal falls back to the default rather than failing.
func normalizeGoal(raw string) (audit.Goal, error) {
	raw = strings.ToLower(strings.TrimSpace(raw))
	if raw == "" {
		return audit.DefaultGoal, nil
	}
	goal := audit.Goal(raw)
	if !audit.ValidGoal(goal) {
		return "", fmt.Errorf("invalid goal %q", raw)
	}
	return goal, nil
}
