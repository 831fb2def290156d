package security

import (
	"crypto/tls"
	"net/http/httptest"
	"testing"
	"time"
)

func TestCSRFToken(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	g := NewCSRFGenerator("secret", time.Hour)
	g.now = func() time.Time { return now }

	token, err := g.GenerateToken("browser-1")
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}

	tests := []struct {
		name      string
		browserID string
		token     string
		advance   time.Duration
		want      bool
	}{
		{name: "valid", browserID: "browser-1", token: token, want: true},
		{name: "other browser", browserID: "browser-2", token: token, want: false},
		{name: "tampered", browserID: "browser-1", token: token + "0", want: false},
		{name: "no separator", browserID: "browser-1", token: "abcdef", want: false},
		{name: "expired", browserID: "browser-1", token: token, advance: 2 * time.Hour, want: false},
		{name: "empty", browserID: "browser-1", token: "", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g.now = func() time.Time { return now.Add(tt.advance) }
			if got := g.ValidateToken(tt.browserID, tt.token); got != tt.want {
				t.Errorf("ValidateToken() = %v, want %v", got, tt.want)
			}
		})
	}

	if _, err := g.GenerateToken(""); err != ErrMissingBrowserID {
		t.Errorf("expected ErrMissingBrowserID, got %v", err)
	}
}

func TestRateLimiter(t *testing.T) {
	now := time.Unix(0, 0)
	rl := NewRateLimiter(2, time.Minute)
	rl.now = func() time.Time { return now }

	if !rl.Allow("1.2.3.4") || !rl.Allow("1.2.3.4") {
		t.Fatal("first two attempts should pass")
	}
	if rl.Allow("1.2.3.4") {
		t.Fatal("third attempt should be limited")
	}
	if !rl.Allow("5.6.7.8") {
		t.Fatal("other keys have their own budget")
	}

	now = now.Add(time.Minute)
	if !rl.Allow("1.2.3.4") {
		t.Fatal("budget should refill after the window")
	}

	now = now.Add(5 * time.Minute)
	rl.prune()
	if len(rl.visitors) != 0 {
		t.Errorf("expected idle visitors to be pruned, have %d", len(rl.visitors))
	}
}

func TestGetClientIP(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string]string
		remote  string
		want    string
	}{
		{name: "forwarded chain", headers: map[string]string{"X-Forwarded-For": "10.0.0.1, 10.0.0.2"}, want: "10.0.0.1"},
		{name: "real ip", headers: map[string]string{"X-Real-IP": "10.0.0.3"}, want: "10.0.0.3"},
		{name: "remote addr", remote: "192.168.1.5:5555", want: "192.168.1.5"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/", nil)
			for k, v := range tt.headers {
				r.Header.Set(k, v)
			}
			if tt.remote != "" {
				r.RemoteAddr = tt.remote
			}
			if got := GetClientIP(r); got != tt.want {
				t.Errorf("GetClientIP() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSealerRoundTrip(t *testing.T) {
	s, err := NewSealer("storage-secret")
	if err != nil {
		t.Fatal(err)
	}

	sealed, err := s.Seal("filternet_auth_token", "demo_token_1")
	if err != nil {
		t.Fatal(err)
	}
	if sealed == "demo_token_1" {
		t.Fatal("value was not sealed")
	}

	plain, err := s.Open("filternet_auth_token", sealed)
	if err != nil || plain != "demo_token_1" {
		t.Fatalf("Open() = %q, %v", plain, err)
	}

	if _, err := s.Open("filternet_user_data", sealed); err != ErrSealedValue {
		t.Errorf("value sealed under one key must not open under another, err = %v", err)
	}

	other, _ := NewSealer("other-secret")
	if _, err := other.Open("filternet_auth_token", sealed); err != ErrSealedValue {
		t.Errorf("expected ErrSealedValue with wrong secret, got %v", err)
	}
}

func TestNilSealerPassesThrough(t *testing.T) {
	s, err := NewSealer("")
	if err != nil || s != nil {
		t.Fatalf("NewSealer(\"\") = %v, %v", s, err)
	}
	out, _ := s.Seal("k", "plain")
	if out != "plain" {
		t.Errorf("Seal() = %q", out)
	}
}

func TestIsSecureRequest(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	if IsSecureRequest(r) {
		t.Error("plain request should not be secure")
	}
	r.Header.Set("X-Forwarded-Proto", "https")
	if !IsSecureRequest(r) {
		t.Error("forwarded https should be secure")
	}
	r2 := httptest.NewRequest("GET", "/", nil)
	r2.TLS = &tls.ConnectionState{}
	if !IsSecureRequest(r2) {
		t.Error("TLS request should be secure")
	}
}

func TestNewID(t *testing.T) {
	id := NewID()
	if !ValidID(id) {
		t.Errorf("ValidID(%q) = false", id)
	}
	if ValidID("not-an-id") {
		t.Error("ValidID accepted garbage")
	}
}
