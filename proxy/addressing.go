package proxy

import (
	"encoding/base64"
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// ErrInvalidTarget marks a request whose target could not be decoded.
// Handlers map it to a 400 rather than the 502 used for upstream failures.
var ErrInvalidTarget = errors.New("invalid proxy target")

// EncodePathTarget encodes a target URL into the URL-safe base64 path
// segment form, padding stripped. Raw URLs in query strings get mangled by
// some intermediaries, so this is the canonical production addressing mode.
func EncodePathTarget(target string) string {
	return base64.RawURLEncoding.EncodeToString([]byte(target))
}

// DecodePathTarget reverses EncodePathTarget. It tolerates segments that
// kept their '=' padding. Decode failures are reported, never papered
// over with an empty URL.
func DecodePathTarget(segment string) (string, error) {
	segment = strings.TrimSuffix(strings.TrimSpace(segment), "=")
	segment = strings.TrimSuffix(segment, "=")

	decoded, err := base64.RawURLEncoding.DecodeString(segment)
	if err != nil {
		return "", fmt.Errorf("%w: invalid base64 target: %v", ErrInvalidTarget, err)
	}
	return string(decoded), nil
}

// QueryAddress builds the query-parameter addressing form for a target.
// The parser uses it to enrich scenes with a proxied video URL.
func QueryAddress(target string) string {
	return "/api/proxy?url=" + url.QueryEscape(target)
}

// PathAddress builds the path-embedded addressing form for a target.
func PathAddress(target string) string {
	return "/api/proxy/" + EncodePathTarget(target)
}
