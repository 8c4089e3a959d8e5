package urlutil

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

var ErrInvalidSourceURL = errors.New("invalid source url")

// ParseSourceURL validates a sensor endpoint. The URL must be absolute, use
// http or https and name a host. The query string is kept untouched: it is
// part of the endpoint identity and of the response cache key.
func ParseSourceURL(raw string) (url.URL, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return url.URL{}, fmt.Errorf("%w: empty url", ErrInvalidSourceURL)
	}

	parsed, err := url.Parse(trimmed)
	if err != nil {
		return url.URL{}, fmt.Errorf("%w: %v", ErrInvalidSourceURL, err)
	}

	scheme := lowerASCII(parsed.Scheme)
	if scheme != "http" && scheme != "https" {
		return url.URL{}, fmt.Errorf("%w: unsupported scheme %q", ErrInvalidSourceURL, parsed.Scheme)
	}
	if parsed.Host == "" {
		return url.URL{}, fmt.Errorf("%w: missing host in %q", ErrInvalidSourceURL, raw)
	}

	return *parsed, nil
}

// Host returns the lowercased hostname of raw without its port, or an empty
// string when raw does not parse. Used for low-cardinality metric labels.
func Host(raw string) string {
	parsed, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	return lowerASCII(parsed.Hostname())
}

// lowerASCII converts ASCII characters to lowercase without allocating.
// This is faster than strings.ToLower for ASCII-only strings.
func lowerASCII(s string) string {
	var needsLower bool
	for i := 0; i < len(s); i++ {
		if s[i] >= 'A' && s[i] <= 'Z' {
			needsLower = true
			break
		}
	}
	if !needsLower {
		return s
	}
	b := make([]byte, len(s))
	copy(b, s)
	for i := 0; i < len(b); i++ {
		if b[i] >= 'A' && b[i] <= 'Z' {
			b[i] += 'a' - 'A'
		}
	}
	return string(b)
}
