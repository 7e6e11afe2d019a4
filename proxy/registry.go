package proxy

import (
	"errors"
	"net/url"

	"github.com/google/uuid"
	"github.com/puzpuzpuz/xsync/v3"
)

var (
	ErrRegistryDisabled = errors.New("registry is only available in development mode")
	ErrUnknownID        = errors.New("unknown registry id")
	ErrHostNotAllowed   = errors.New("host not allowed")
)

// Registry maps short random identifiers to registered target URLs so
// local development pages never echo third-party URLs into markup. It
// lives for the process and never evicts; that is acceptable only because
// it refuses to operate outside development mode.
type Registry struct {
	entries *xsync.MapOf[string, string]
	checker *Checker
	enabled bool
}

func NewRegistry(checker *Checker, enabled bool) *Registry {
	return &Registry{
		entries: xsync.NewMapOf[string, string](),
		checker: checker,
		enabled: enabled,
	}
}

func (reg *Registry) Enabled() bool {
	return reg.enabled
}

// Register validates the target host and mints an identifier for it.
func (reg *Registry) Register(target string) (string, error) {
	if !reg.enabled {
		return "", ErrRegistryDisabled
	}

	parsed, err := url.Parse(target)
	if err != nil || parsed.Hostname() == "" {
		return "", ErrInvalidTarget
	}
	if !reg.checker.IsAllowedHost(parsed.Hostname()) {
		return "", ErrHostNotAllowed
	}

	id := uuid.NewString()
	reg.entries.Store(id, target)
	return id, nil
}

// Lookup resolves a previously registered identifier to its target URL.
func (reg *Registry) Lookup(id string) (string, error) {
	if !reg.enabled {
		return "", ErrRegistryDisabled
	}

	target, ok := reg.entries.Load(id)
	if !ok {
		return "", ErrUnknownID
	}
	return target, nil
}
