package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"API_BASE_URL", "MOCK_MODE", "DEMO_MODE", "GOOGLE_CLIENT_ID", "FILTERNET_CONFIG", "MOCK_LATENCY"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.APIBaseURL != DefaultAPIBaseURL {
		t.Errorf("APIBaseURL = %q, want %q", cfg.APIBaseURL, DefaultAPIBaseURL)
	}
	if !cfg.MockMode || !cfg.DemoMode {
		t.Error("expected mock and demo mode to default to on")
	}
	if cfg.MockLatency != 300*time.Millisecond {
		t.Errorf("MockLatency = %v", cfg.MockLatency)
	}
	if cfg.GoogleConfigured() {
		t.Error("placeholder client id should not count as configured")
	}
	if cfg.RealBackend() {
		t.Error("default base URL should not count as a real backend")
	}
}

func TestRealBackend(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want bool
	}{
		{name: "placeholder url", cfg: Config{APIBaseURL: DefaultAPIBaseURL}, want: false},
		{name: "mock mode", cfg: Config{APIBaseURL: "https://api.example.com", MockMode: true}, want: false},
		{name: "deployed", cfg: Config{APIBaseURL: "https://api.example.com"}, want: true},
		{name: "empty", cfg: Config{}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.cfg.RealBackend(); got != tt.want {
				t.Errorf("RealBackend() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLoadFileOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "filternet.yaml")
	content := "api_base_url: https://api.example.com/v2/\nmock_mode: false\nmock_latency: 50ms\ngoogle_client_id: abc.apps.googleusercontent.com\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("FILTERNET_CONFIG", path)
	t.Setenv("MOCK_MODE", "true")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.APIBaseURL != "https://api.example.com/v2" {
		t.Errorf("APIBaseURL = %q", cfg.APIBaseURL)
	}
	if cfg.MockMode {
		t.Error("file should override MOCK_MODE")
	}
	if cfg.MockLatency != 50*time.Millisecond {
		t.Errorf("MockLatency = %v", cfg.MockLatency)
	}
	if !cfg.GoogleConfigured() {
		t.Error("expected Google to be configured")
	}
}

func TestLoadFileMissing(t *testing.T) {
	t.Setenv("FILTERNET_CONFIG", filepath.Join(t.TempDir(), "missing.yaml"))
	if _, err := Load(); err == nil {
		t.Fatal("expected error for missing config file")
	}
}

func TestLoadGeneratesCSRFSecret(t *testing.T) {
	t.Setenv("CSRF_SECRET", "")
	t.Setenv("FILTERNET_CONFIG", "")

	first, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	second, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !first.EphemeralCSRFSecret {
		t.Error("expected a generated CSRF secret to be flagged")
	}
	if len(first.CSRFSecret) < 32 {
		t.Errorf("CSRFSecret = %q, too short", first.CSRFSecret)
	}
	if first.CSRFSecret == second.CSRFSecret {
		t.Error("generated CSRF secrets should differ between loads")
	}

	t.Setenv("CSRF_SECRET", "from-env")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.CSRFSecret != "from-env" || cfg.EphemeralCSRFSecret {
		t.Errorf("CSRFSecret = %q, ephemeral = %v", cfg.CSRFSecret, cfg.EphemeralCSRFSecret)
	}
}
