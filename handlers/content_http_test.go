package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/goccy/go-json"

	"github.com/dahemar/baptiste4/logger"
	"github.com/dahemar/baptiste4/store"
)

type mockWorksProvider struct {
	works     []store.Work
	err       error
	lastForce bool
}

func (m *mockWorksProvider) GetWorks(_ context.Context, force bool) ([]store.Work, error) {
	m.lastForce = force
	return m.works, m.err
}

func TestContentHTTPHandler(t *testing.T) {
	provider := &mockWorksProvider{
		works: []store.Work{
			{ID: "1", Title: "Alpha", Scenes: []store.Scene{}, Credits: []store.Credit{}},
		},
	}
	handler := NewContentHTTPHandler(provider, logger.Default)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/content", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if got := rec.Header().Get("Content-Type"); got != "application/json" {
		t.Errorf("Content-Type = %q", got)
	}
	if provider.lastForce {
		t.Error("force should default to false")
	}

	var works []store.Work
	if err := json.Unmarshal(rec.Body.Bytes(), &works); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if len(works) != 1 || works[0].Title != "Alpha" {
		t.Errorf("unexpected payload: %+v", works)
	}
}

func TestContentHTTPHandlerForce(t *testing.T) {
	provider := &mockWorksProvider{}
	handler := NewContentHTTPHandler(provider, logger.Default)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/content?force=1", nil))

	if !provider.lastForce {
		t.Error("force=1 should reach the provider")
	}
}

func TestContentHTTPHandlerEmptyList(t *testing.T) {
	handler := NewContentHTTPHandler(&mockWorksProvider{}, logger.Default)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/content", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if strings.TrimSpace(rec.Body.String()) != "[]" {
		t.Errorf("empty listing should encode as [], got %q", rec.Body.String())
	}
}

func TestContentHTTPHandlerError(t *testing.T) {
	provider := &mockWorksProvider{err: errors.New("sheet fetch failed")}
	handler := NewContentHTTPHandler(provider, logger.Default)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/content", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}

	var envelope map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decoding error envelope: %v", err)
	}
	if envelope["error"] == "" {
		t.Error("error envelope missing descriptive message")
	}
}

func TestContentHTTPHandlerETag(t *testing.T) {
	provider := &mockWorksProvider{
		works: []store.Work{{ID: "1", Title: "Alpha", Scenes: []store.Scene{}, Credits: []store.Credit{}}},
	}
	handler := NewContentHTTPHandler(provider, logger.Default)

	first := httptest.NewRecorder()
	handler.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/api/content", nil))

	etag := first.Header().Get("ETag")
	if etag == "" {
		t.Fatal("listing response missing ETag")
	}

	req := httptest.NewRequest(http.MethodGet, "/api/content", nil)
	req.Header.Set("If-None-Match", etag)
	second := httptest.NewRecorder()
	handler.ServeHTTP(second, req)

	if second.Code != http.StatusNotModified {
		t.Errorf("status = %d, want 304 for matching ETag", second.Code)
	}
	if second.Body.Len() != 0 {
		t.Error("304 response should carry no body")
	}
}

func TestContentHTTPHandlerMethodNotAllowed(t *testing.T) {
	handler := NewContentHTTPHandler(&mockWorksProvider{}, logger.Default)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/content", nil))

	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", rec.Code)
	}
}
