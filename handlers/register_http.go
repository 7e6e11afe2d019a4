package handlers

import (
	"errors"
	"net/http"

	"github.com/goccy/go-json"

	"github.com/dahemar/baptiste4/logger"
	"github.com/dahemar/baptiste4/proxy"
)

// RegisterHTTPHandler is the dev-only registration endpoint: POST a
// target URL, get back a short identifier the page can embed instead of
// the third-party URL. Refuses to operate outside development mode.
type RegisterHTTPHandler struct {
	registry *proxy.Registry
	logger   logger.Logger
}

func NewRegisterHTTPHandler(registry *proxy.Registry, logger logger.Logger) *RegisterHTTPHandler {
	return &RegisterHTTPHandler{
		registry: registry,
		logger:   logger,
	}
}

type registerRequest struct {
	URL string `json:"url"`
}

type registerResponse struct {
	ID string `json:"id"`
}

func (h *RegisterHTTPHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")

	if r.Method == http.MethodOptions {
		proxy.HandlePreflight(w)
		return
	}
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	var body registerRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.URL == "" {
		http.Error(w, "Missing url", http.StatusBadRequest)
		return
	}

	id, err := h.registry.Register(body.URL)
	switch {
	case errors.Is(err, proxy.ErrRegistryDisabled):
		http.Error(w, "Not allowed", http.StatusForbidden)
		return
	case errors.Is(err, proxy.ErrHostNotAllowed):
		http.Error(w, "Host not allowed", http.StatusForbidden)
		return
	case errors.Is(err, proxy.ErrInvalidTarget):
		http.Error(w, "Invalid target URL", http.StatusBadRequest)
		return
	case err != nil:
		h.logger.Errorf("Registry insert failed: %v", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(registerResponse{ID: id}); err != nil {
		h.logger.Errorf("Error encoding register response: %v", err)
	}
}
