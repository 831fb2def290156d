package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestStartupHealth(t *testing.T) {
	s := NewStartup("Database connection", "Loading templates")

	rec := httptest.NewRecorder()
	s.Health(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 before startup, got %d", rec.Code)
	}

	s.CompleteStep("Database connection")
	if got := s.Progress(); got != 50 {
		t.Fatalf("expected progress 50, got %d", got)
	}

	s.MarkReady()
	rec = httptest.NewRecorder()
	s.Health(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 when ready, got %d", rec.Code)
	}

	var body struct {
		Ready    bool `json:"ready"`
		Progress int  `json:"progress"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !body.Ready || body.Progress != 100 {
		t.Fatalf("unexpected status %+v", body)
	}
}
