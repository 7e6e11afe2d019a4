package proxy

import (
	"errors"
	"testing"
)

func testChecker() *Checker {
	return NewChecker([]string{"github.com", "theatre-assets-*"})
}

func TestRegistryRegisterAndLookup(t *testing.T) {
	reg := NewRegistry(testChecker(), true)

	id, err := reg.Register("https://github.com/dahemar/baptiste2/releases/download/v1/a.mp4")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if id == "" {
		t.Fatal("Register returned an empty id")
	}

	target, err := reg.Lookup(id)
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if target != "https://github.com/dahemar/baptiste2/releases/download/v1/a.mp4" {
		t.Errorf("Lookup returned %q", target)
	}

	// Distinct registrations mint distinct ids.
	other, err := reg.Register("https://github.com/other.mp4")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if other == id {
		t.Error("two registrations shared an id")
	}
}

func TestRegistryRejectsDisallowedHost(t *testing.T) {
	reg := NewRegistry(testChecker(), true)

	_, err := reg.Register("https://evil.example.com/a.mp4")
	if !errors.Is(err, ErrHostNotAllowed) {
		t.Errorf("expected ErrHostNotAllowed, got %v", err)
	}
}

func TestRegistryRejectsUnparseableTarget(t *testing.T) {
	reg := NewRegistry(testChecker(), true)

	for _, target := range []string{"", "not a url", "/relative/path.mp4"} {
		if _, err := reg.Register(target); !errors.Is(err, ErrInvalidTarget) {
			t.Errorf("Register(%q): expected ErrInvalidTarget, got %v", target, err)
		}
	}
}

func TestRegistryUnknownID(t *testing.T) {
	reg := NewRegistry(testChecker(), true)

	if _, err := reg.Lookup("nope"); !errors.Is(err, ErrUnknownID) {
		t.Errorf("expected ErrUnknownID, got %v", err)
	}
}

func TestRegistryDisabledOutsideDev(t *testing.T) {
	reg := NewRegistry(testChecker(), false)

	if _, err := reg.Register("https://github.com/a.mp4"); !errors.Is(err, ErrRegistryDisabled) {
		t.Errorf("Register: expected ErrRegistryDisabled, got %v", err)
	}
	if _, err := reg.Lookup("any"); !errors.Is(err, ErrRegistryDisabled) {
		t.Errorf("Lookup: expected ErrRegistryDisabled, got %v", err)
	}
}
