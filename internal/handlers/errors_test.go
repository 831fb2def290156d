package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"filternet/internal/api"
)

func TestRespondWithErrorWritesStatusAndBody(t *testing.T) {
	recorder := httptest.NewRecorder()

	respondWithError(recorder, http.StatusForbidden, ErrInvalidCSRFToken, "", nil)

	if recorder.Code != http.StatusForbidden {
		t.Fatalf("expected status 403, got %d", recorder.Code)
	}

	body := strings.TrimSpace(recorder.Body.String())
	if body != ErrInvalidCSRFToken {
		t.Fatalf("expected body %q, got %q", ErrInvalidCSRFToken, body)
	}
}

func TestRespondWithErrorLogsMessage(t *testing.T) {
	var buf bytes.Buffer
	logger := log.Default()
	originalOutput := logger.Writer()
	logger.SetOutput(&buf)
	defer logger.SetOutput(originalOutput)

	recorder := httptest.NewRecorder()
	err := errors.New("boom")

	respondWithError(recorder, 500, ErrInternalServerError, "Failed to load clients", err)

	logOutput := buf.String()
	if !strings.Contains(logOutput, "Failed to load clients") {
		t.Fatalf("expected log to include log message, got %q", logOutput)
	}
	if !strings.Contains(logOutput, "boom") {
		t.Fatalf("expected log to include error, got %q", logOutput)
	}
	if strings.Contains(recorder.Body.String(), "boom") {
		t.Fatalf("error detail leaked to the response: %q", recorder.Body.String())
	}
}

func TestStatusForError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, http.StatusOK},
		{"unauthorized", fmt.Errorf("failed to toggle: %w", api.ErrUnauthorized), http.StatusUnauthorized},
		{"not found", api.ErrNotFound, http.StatusNotFound},
		{"backend status", &api.APIError{Status: 503, StatusText: "Service Unavailable"}, http.StatusBadGateway},
		{"transport", &api.TransportError{Err: errors.New("refused")}, http.StatusBadGateway},
		{"other", errors.New("template"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := statusForError(tt.err); got != tt.want {
				t.Errorf("statusForError() = %d, want %d", got, tt.want)
			}
		})
	}
}
