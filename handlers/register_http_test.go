package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/goccy/go-json"

	"github.com/dahemar/baptiste4/logger"
	"github.com/dahemar/baptiste4/proxy"
)

func newRegisterFixture(devMode bool) (*RegisterHTTPHandler, *proxy.Registry) {
	checker := proxy.NewChecker([]string{"github.com"})
	registry := proxy.NewRegistry(checker, devMode)
	return NewRegisterHTTPHandler(registry, logger.Default), registry
}

func TestRegisterHTTPHandler(t *testing.T) {
	handler, registry := newRegisterFixture(true)

	body := strings.NewReader(`{"url":"https://github.com/dahemar/baptiste2/raw/main/a.mp4"}`)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/proxy/register", body))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %q", rec.Code, rec.Body.String())
	}

	var resp struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp.ID == "" {
		t.Fatal("response carried no id")
	}

	target, err := registry.Lookup(resp.ID)
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if target != "https://github.com/dahemar/baptiste2/raw/main/a.mp4" {
		t.Errorf("registered target = %q", target)
	}
}

func TestRegisterHTTPHandlerOutsideDev(t *testing.T) {
	handler, _ := newRegisterFixture(false)

	body := strings.NewReader(`{"url":"https://github.com/a.mp4"}`)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/proxy/register", body))

	if rec.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403 outside development mode", rec.Code)
	}
}

func TestRegisterHTTPHandlerBadRequests(t *testing.T) {
	handler, _ := newRegisterFixture(true)

	tests := []struct {
		name string
		body string
		want int
	}{
		{"empty body", "", http.StatusBadRequest},
		{"missing url field", `{"other":"x"}`, http.StatusBadRequest},
		{"not json", "not json", http.StatusBadRequest},
		{"disallowed host", `{"url":"https://evil.example.com/a.mp4"}`, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/api/proxy/register", strings.NewReader(tt.body))
			handler.ServeHTTP(rec, req)

			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}

func TestRegisterHTTPHandlerMethodNotAllowed(t *testing.T) {
	handler, _ := newRegisterFixture(true)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/proxy/register", nil))

	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", rec.Code)
	}
}
