package proxy

import (
	"io"
	"net/http"
	"net/url"

	"github.com/dahemar/baptiste4/logger"
	"github.com/dahemar/baptiste4/utils"
)

// passthroughHeaders is the closed set of upstream response headers the
// proxy copies back to the browser. Everything else is dropped.
var passthroughHeaders = []string{
	"Content-Type",
	"Content-Length",
	"Content-Range",
	"Accept-Ranges",
	"ETag",
	"Last-Modified",
	"Content-Disposition",
}

// Forwarder relays GET/HEAD requests for allowed upstream hosts,
// forwarding the inbound Range header so the browser's video element can
// seek. One request in, one upstream call, one response out; no retries
// and no caching of proxied bytes.
type Forwarder struct {
	checker *Checker
	client  *http.Client
	logger  logger.Logger
}

func NewForwarder(checker *Checker, client *http.Client, logger logger.Logger) *Forwarder {
	if client == nil {
		client = utils.HTTPClient
	}
	return &Forwarder{
		checker: checker,
		client:  client,
		logger:  logger,
	}
}

func (f *Forwarder) Checker() *Checker {
	return f.checker
}

// Forward proxies one request to target. The inbound method (GET or HEAD)
// and Range header are carried over verbatim; the upstream status code is
// passed through unchanged so a 206 stays a 206.
func (f *Forwarder) Forward(w http.ResponseWriter, r *http.Request, target string) {
	setCORSHeaders(w)

	parsed, err := url.Parse(target)
	if err != nil || parsed.Hostname() == "" {
		http.Error(w, "Invalid target URL", http.StatusBadRequest)
		return
	}

	if !f.checker.IsAllowedHost(parsed.Hostname()) {
		f.logger.Warnf("Blocked proxy request for disallowed host: %s", parsed.Hostname())
		http.Error(w, "Host not allowed", http.StatusForbidden)
		return
	}

	req, err := http.NewRequestWithContext(r.Context(), r.Method, target, nil)
	if err != nil {
		http.Error(w, "Invalid target URL", http.StatusBadRequest)
		return
	}

	if rangeHeader := r.Header.Get("Range"); rangeHeader != "" {
		req.Header.Set("Range", rangeHeader)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		// Transport-level failure, not a semantic one. The browser's
		// video element retries range requests on its own.
		f.logger.Errorf("Upstream request failed: %v", err)
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}
	defer resp.Body.Close()

	for _, header := range passthroughHeaders {
		if value := resp.Header.Get(header); value != "" {
			w.Header().Set(header, value)
		}
	}

	// Some upstreams honor Range without advertising it. Asserting bytes
	// keeps seeking alive for those.
	if w.Header().Get("Accept-Ranges") == "" {
		w.Header().Set("Accept-Ranges", "bytes")
	}

	w.WriteHeader(resp.StatusCode)

	if r.Method == http.MethodHead {
		return
	}

	if _, err := io.Copy(w, resp.Body); err != nil {
		f.logger.Debugf("Client stopped reading proxied body: %v", err)
	}
}

// HandlePreflight answers a CORS preflight for the proxy routes. The
// whole point of the proxy is CORS relief, so preflights must succeed.
func HandlePreflight(w http.ResponseWriter) {
	setCORSHeaders(w)
	w.Header().Set("Access-Control-Allow-Methods", "GET, HEAD, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Range, Content-Type")
	w.WriteHeader(http.StatusNoContent)
}

func setCORSHeaders(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Expose-Headers", "Content-Length, Content-Range, Accept-Ranges")
}
