// Package validation holds the pure input checks applied before any outbound call:
// the server-URL SSRF guard, provider/role membership and payload size ceilings.
// Nothing here performs I/O.
package validation

import (
	"errors"
	"fmt"
	"net/netip"
	"net/url"
	"strings"
)

var (
	// ErrInvalidURL is returned when the URL cannot be parsed as an absolute URL.
	ErrInvalidURL = errors.New("URL is not valid")
	// ErrUnsupportedScheme is returned for any scheme other than http or https.
	ErrUnsupportedScheme = errors.New("URL must use http or https")
	// ErrDisallowedHost is returned in production mode for loopback and private hosts.
	ErrDisallowedHost = errors.New("URL host is not allowed in production")
)

// disallowedHostnames are rejected verbatim in production mode.
var disallowedHostnames = map[string]struct{}{
	"localhost": {},
	"127.0.0.1": {},
	"::1":       {},
	"0.0.0.0":   {},
}

// privatePrefixes are the IPv4 ranges rejected in production mode.
var privatePrefixes = []netip.Prefix{
	netip.MustParsePrefix("10.0.0.0/8"),
	netip.MustParsePrefix("172.16.0.0/12"),
	netip.MustParsePrefix("192.168.0.0/16"),
	netip.MustParsePrefix("169.254.0.0/16"),
}

// ValidateServerURL checks a user-supplied backend URL before the server fetches it.
//
// Outside production, loopback and private hosts are accepted because LLM and TTS
// backends normally run on the operator's machine. In production they are refused.
//
// The check is syntactic only. A public hostname that resolves to a private address
// is not caught, since no DNS lookup happens here.
func ValidateServerURL(raw string, production bool) error {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Scheme == "" {
		return ErrInvalidURL
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return ErrUnsupportedScheme
	}
	if u.Host == "" {
		return ErrInvalidURL
	}
	if !production {
		return nil
	}

	host := strings.ToLower(u.Hostname())
	if _, blocked := disallowedHostnames[host]; blocked {
		return ErrDisallowedHost
	}
	if isPrivateIPv4(host) {
		return fmt.Errorf("%w (private IP range)", ErrDisallowedHost)
	}
	return nil
}

func isPrivateIPv4(host string) bool {
	addr, err := netip.ParseAddr(host)
	if err != nil || !addr.Is4() {
		return false
	}
	for _, p := range privatePrefixes {
		if p.Contains(addr) {
			return true
		}
	}
	return false
}
