package utils

import (
	"net"
	"net/http"
	"time"
)

// HTTPClient is the shared client for upstream video requests. It has no
// overall timeout: range responses stream for as long as the browser keeps
// reading. Stalls are bounded at the dial, TLS and response-header stages
// instead.
var HTTPClient = &http.Client{
	Transport: &http.Transport{
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: 20 * time.Second,
		IdleConnTimeout:       90 * time.Second,
		MaxIdleConns:          100,
	},
}
