package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/dahemar/baptiste4/logger"
	"github.com/dahemar/baptiste4/proxy"
)

// httpError carries a status class and the user-facing message for it.
type httpError struct {
	status  int
	message string
}

// ProxyHTTPHandler serves the proxy routes under /api/proxy. A target can
// be addressed three equivalent ways: a raw ?url= query parameter, a
// base64url path segment, or a dev-mode registry ?id=. All of them feed
// the same forwarding logic.
type ProxyHTTPHandler struct {
	forwarder *proxy.Forwarder
	registry  *proxy.Registry
	logger    logger.Logger
}

func NewProxyHTTPHandler(forwarder *proxy.Forwarder, registry *proxy.Registry, logger logger.Logger) *ProxyHTTPHandler {
	return &ProxyHTTPHandler{
		forwarder: forwarder,
		registry:  registry,
		logger:    logger,
	}
}

func (h *ProxyHTTPHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodOptions {
		proxy.HandlePreflight(w)
		return
	}
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	target, herr := h.resolveTarget(r)
	if herr != nil {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		http.Error(w, herr.message, herr.status)
		return
	}

	h.logger.Debugf("Proxying %s %s for %s", r.Method, target, r.RemoteAddr)
	h.forwarder.Forward(w, r, target)
}

func (h *ProxyHTTPHandler) resolveTarget(r *http.Request) (string, *httpError) {
	query := r.URL.Query()

	if raw := query.Get("url"); raw != "" {
		return raw, nil
	}

	if id := query.Get("id"); id != "" {
		target, err := h.registry.Lookup(id)
		switch {
		case errors.Is(err, proxy.ErrRegistryDisabled):
			return "", &httpError{http.StatusForbidden, "Not allowed"}
		case errors.Is(err, proxy.ErrUnknownID):
			return "", &httpError{http.StatusNotFound, "Unknown id"}
		case err != nil:
			return "", &httpError{http.StatusBadRequest, "Invalid id"}
		}
		return target, nil
	}

	if segment := h.pathSegment(r.URL.Path); segment != "" {
		target, err := proxy.DecodePathTarget(segment)
		if err != nil {
			return "", &httpError{http.StatusBadRequest, "Invalid base64 target"}
		}
		return target, nil
	}

	return "", &httpError{http.StatusBadRequest, "Missing proxy target"}
}

// pathSegment extracts the base64url segment from the path-embedded
// addressing form. The /serve route resolves via ?id= instead.
func (h *ProxyHTTPHandler) pathSegment(urlPath string) string {
	segment := strings.Trim(strings.TrimPrefix(urlPath, "/api/proxy"), "/")
	if segment == "serve" {
		return ""
	}
	return segment
}
