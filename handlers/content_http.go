package handlers

import (
	"context"
	"encoding/hex"
	"fmt"
	"net/http"

	"github.com/goccy/go-json"
	"golang.org/x/crypto/sha3"

	"github.com/dahemar/baptiste4/logger"
	"github.com/dahemar/baptiste4/store"
)

// WorksProvider is the content orchestration entry point. force clears
// the provider's in-memory cache before serving.
type WorksProvider interface {
	GetWorks(ctx context.Context, force bool) ([]store.Work, error)
}

// ContentHTTPHandler serves the works listing as a JSON array.
type ContentHTTPHandler struct {
	provider WorksProvider
	logger   logger.Logger
}

func NewContentHTTPHandler(provider WorksProvider, logger logger.Logger) *ContentHTTPHandler {
	return &ContentHTTPHandler{
		provider: provider,
		logger:   logger,
	}
}

func (h *ContentHTTPHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")

	if r.Method != http.MethodGet {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	force := r.URL.Query().Get("force") == "1"
	works, err := h.provider.GetWorks(r.Context(), force)
	if err != nil {
		h.logger.Errorf("Error serving content listing: %v", err)
		h.writeError(w, err)
		return
	}
	if works == nil {
		works = []store.Work{}
	}

	payload, err := json.Marshal(works)
	if err != nil {
		h.logger.Errorf("Error encoding content listing: %v", err)
		h.writeError(w, err)
		return
	}

	// The UI polls this endpoint; a weak ETag lets unmodified listings
	// come back as 304s.
	sum := sha3.Sum224(payload)
	etag := fmt.Sprintf(`W/"%s"`, hex.EncodeToString(sum[:8]))
	w.Header().Set("ETag", etag)
	if r.Header.Get("If-None-Match") == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if _, err := w.Write(payload); err != nil {
		h.logger.Debugf("Error writing content response: %v", err)
	}
}

func (h *ContentHTTPHandler) writeError(w http.ResponseWriter, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusInternalServerError)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}
