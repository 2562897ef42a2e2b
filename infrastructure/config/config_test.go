package config

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestFromEnvironAppliesDefaults(t *testing.T) {
	t.Setenv("CWS_SESSION_SECRET", "test-secret")
	t.Setenv("CWS_BACKEND_URL", "")
	t.Setenv("CWS_BACKEND_TIMEOUT", "")

	cfg, err := FromEnviron()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.App.Addr != ":8080" {
		t.Fatalf("expected default addr, got %q", cfg.App.Addr)
	}
	if cfg.Backend.BaseURL != "http://localhost:5000/api" {
		t.Fatalf("expected default backend url, got %q", cfg.Backend.BaseURL)
	}
	if cfg.BackendTimeout != 15*time.Second {
		t.Fatalf("expected 15s backend timeout, got %s", cfg.BackendTimeout)
	}
	if cfg.SessionTTL != 12*time.Hour {
		t.Fatalf("expected 12h session ttl, got %s", cfg.SessionTTL)
	}
	if cfg.Location == nil {
		t.Fatalf("expected display location")
	}
	if cfg.Farmers.PhoneRegion != "RW" {
		t.Fatalf("expected RW phone region, got %q", cfg.Farmers.PhoneRegion)
	}
}

func TestFromEnvironOverrides(t *testing.T) {
	t.Setenv("CWS_SESSION_SECRET", "test-secret")
	t.Setenv("CWS_BACKEND_URL", "https://cws.example.org/api/")
	t.Setenv("CWS_BACKEND_TIMEOUT", "30")
	t.Setenv("CWS_SESSION_TTL", "2h")
	t.Setenv("CWS_PHONE_REGION", "ug")

	cfg, err := FromEnviron()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Backend.BaseURL != "https://cws.example.org/api" {
		t.Fatalf("expected trailing slash trimmed, got %q", cfg.Backend.BaseURL)
	}
	if cfg.BackendTimeout != 30*time.Second {
		t.Fatalf("expected 30s timeout, got %s", cfg.BackendTimeout)
	}
	if cfg.SessionTTL != 2*time.Hour {
		t.Fatalf("expected 2h ttl, got %s", cfg.SessionTTL)
	}
	if cfg.Farmers.PhoneRegion != "UG" {
		t.Fatalf("expected UG region, got %q", cfg.Farmers.PhoneRegion)
	}
}

func TestFromEnvironRequiresSecret(t *testing.T) {
	t.Setenv("CWS_SESSION_SECRET", "")
	if _, err := FromEnviron(); err == nil {
		t.Fatalf("expected missing secret error")
	}
}

func TestLogErrorWritesStructuredFields(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger("error", &buf)

	LogError(logger, "store", "FetchFarmers", "fetch failed", map[string]any{"collection": "farmers"}, errors.New("boom"))

	out := buf.String()
	for _, want := range []string{`"module":"store"`, `"funcName":"FetchFarmers"`, `"msg":"boom"`, `"collection":"farmers"`} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %s in log line, got %s", want, out)
		}
	}
}
