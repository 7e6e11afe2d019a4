package proxy

import (
	"strings"

	"github.com/dahemar/baptiste4/utils"
)

// DefaultAllowedHosts are the upstream hosts the proxy will relay to.
// Video assets live in GitHub release/raw storage; the wildcard entry
// covers the per-region S3 bucket endpoints (theatre-assets-eu.s3..., etc).
var DefaultAllowedHosts = []string{
	"github.com",
	"release-assets.githubusercontent.com",
	"objects.githubusercontent.com",
	"raw.githubusercontent.com",
	"theatre-assets-*",
}

// AllowedHostsFromEnv returns the PROXY_ALLOWED_HOSTS override as a
// pattern list, or the default list when unset.
func AllowedHostsFromEnv() []string {
	raw := utils.GetEnv("PROXY_ALLOWED_HOSTS", "")
	if raw == "" {
		return DefaultAllowedHosts
	}

	var patterns []string
	for _, p := range strings.Split(raw, ",") {
		p = strings.TrimSpace(p)
		if p != "" {
			patterns = append(patterns, p)
		}
	}
	return patterns
}

// Checker validates candidate upstream hostnames against a fixed pattern
// list. A pattern containing '*' matches any hostname starting with the
// text before the '*'; anything else must match exactly.
type Checker struct {
	patterns []string
}

func NewChecker(patterns []string) *Checker {
	return &Checker{patterns: patterns}
}

func (c *Checker) IsAllowedHost(hostname string) bool {
	for _, pattern := range c.patterns {
		if star := strings.Index(pattern, "*"); star >= 0 {
			if strings.HasPrefix(hostname, pattern[:star]) {
				return true
			}
			continue
		}
		if hostname == pattern {
			return true
		}
	}
	return false
}
