package config

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultAPIBaseURL is the placeholder backend address shipped with the app.
// While it is configured the dashboard treats the backend as not deployed.
const DefaultAPIBaseURL = "https://api.filternet-vpn.com/v1"

// googleClientIDPlaceholder marks an unconfigured Google client id.
const googleClientIDPlaceholder = "YOUR_GOOGLE_CLIENT_ID"

// Config holds application configuration
type Config struct {
	AppName    string `yaml:"app_name"`
	AppVersion string `yaml:"app_version"`
	ServerPort string `yaml:"port"`

	// Backend
	APIBaseURL  string        `yaml:"api_base_url"`
	MockMode    bool          `yaml:"mock_mode"`
	MockLatency time.Duration `yaml:"mock_latency"`
	DemoMode    bool          `yaml:"demo_mode"`

	// Google sign-in
	GoogleClientID       string `yaml:"google_client_id"`
	GoogleClientSecret   string `yaml:"google_client_secret"`
	OAuthRedirectBaseURL string `yaml:"oauth_redirect_base_url"`

	// Session storage
	DatabaseType  string        `yaml:"db_type"`
	DatabasePath  string        `yaml:"db_path"`
	DatabaseURL   string        `yaml:"database_url"`
	StorageSecret string        `yaml:"storage_secret"`
	CSRFSecret    string        `yaml:"csrf_secret"`
	CookieMaxAge  time.Duration `yaml:"cookie_max_age"`

	// EphemeralCSRFSecret is set when no secret was configured and Load made
	// one up. Forms then stop validating when the process restarts.
	EphemeralCSRFSecret bool `yaml:"-"`

	// Alert digest e-mail
	AWSRegion    string `yaml:"aws_region"`
	SESFromEmail string `yaml:"ses_from_email"`
	SESFromName  string `yaml:"ses_from_name"`
	AppBaseURL   string `yaml:"app_base_url"`

	Debug bool `yaml:"debug"`
}

// Load reads configuration from environment variables with sensible defaults.
// When FILTERNET_CONFIG names a YAML file its values override the environment.
func Load() (*Config, error) {
	cfg := &Config{
		AppName:              getEnv("APP_NAME", "FilterNet VPN"),
		AppVersion:           getEnv("APP_VERSION", "1.0.0"),
		ServerPort:           getEnv("PORT", "8080"),
		APIBaseURL:           getEnv("API_BASE_URL", DefaultAPIBaseURL),
		MockMode:             getEnvBool("MOCK_MODE", true),
		MockLatency:          getEnvDuration("MOCK_LATENCY", 300*time.Millisecond),
		DemoMode:             getEnvBool("DEMO_MODE", true),
		GoogleClientID:       getEnv("GOOGLE_CLIENT_ID", googleClientIDPlaceholder),
		GoogleClientSecret:   getEnv("GOOGLE_CLIENT_SECRET", ""),
		OAuthRedirectBaseURL: getEnv("OAUTH_REDIRECT_BASE_URL", ""),
		DatabaseType:         getEnv("DB_TYPE", "sqlite"),
		DatabasePath:         getEnv("DB_PATH", "./filternet.db"),
		DatabaseURL:          getEnv("DATABASE_URL", ""),
		StorageSecret:        getEnv("STORAGE_SECRET", ""),
		CSRFSecret:           getEnv("CSRF_SECRET", ""),
		CookieMaxAge:         getEnvDuration("COOKIE_MAX_AGE", 30*24*time.Hour),
		AWSRegion:            getEnv("AWS_REGION", "us-east-1"),
		SESFromEmail:         getEnv("SES_FROM_EMAIL", ""),
		SESFromName:          getEnv("SES_FROM_NAME", "FilterNet VPN"),
		AppBaseURL:           getEnv("APP_BASE_URL", "http://localhost:8080"),
		Debug:                getEnvBool("DEBUG", false),
	}

	if path := os.Getenv("FILTERNET_CONFIG"); path != "" {
		if err := cfg.LoadFile(path); err != nil {
			return nil, err
		}
	}

	if cfg.CSRFSecret == "" {
		secret, err := randomSecret()
		if err != nil {
			return nil, fmt.Errorf("failed to generate CSRF secret: %w", err)
		}
		cfg.CSRFSecret = secret
		cfg.EphemeralCSRFSecret = true
	}

	return cfg, nil
}

func randomSecret() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// LoadFile overlays the values present in a YAML file onto cfg.
// Keys missing from the file keep their current value.
func (c *Config) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	c.APIBaseURL = strings.TrimRight(c.APIBaseURL, "/")
	return nil
}

// GoogleConfigured reports whether a real Google client id has been set.
func (c *Config) GoogleConfigured() bool {
	return c.GoogleClientID != "" && !strings.HasPrefix(c.GoogleClientID, googleClientIDPlaceholder)
}

// RealBackend reports whether credentials should be exchanged with a deployed
// backend rather than used directly as the bearer token.
func (c *Config) RealBackend() bool {
	return !c.MockMode && c.APIBaseURL != "" && c.APIBaseURL != DefaultAPIBaseURL
}

// getEnv reads an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}
	return b
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return d
}
