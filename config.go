package firetrack

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the full client configuration. The zero value is not usable;
// start from the defaults the Builder seeds and override fields, or load
// a file with LoadConfig.
type Config struct {
	API     APIConfig     `yaml:"api"`
	Session SessionConfig `yaml:"session"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// APIConfig carries the transport settings.
type APIConfig struct {
	// BaseURL is the backend root, e.g. "https://tracker.example.com".
	// Required.
	BaseURL string `yaml:"base_url"`
	// Timeout bounds every request end to end.
	Timeout time.Duration `yaml:"timeout"`
	// DeviceID is sent as X-Device-ID on every request. Generated once at
	// Build when empty.
	DeviceID string `yaml:"device_id"`
}

// SessionConfig tunes the session lifecycle.
type SessionConfig struct {
	// TrustTokenExpiry cross-checks the stored window against the token's
	// own exp claim on restore and uses the earlier of the two.
	TrustTokenExpiry bool `yaml:"trust_token_expiry"`
}

// MetricsConfig toggles counter collection.
type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

func defaultConfig() Config {
	return Config{
		API: APIConfig{
			Timeout: 15 * time.Second,
		},
		Session: SessionConfig{
			TrustTokenExpiry: true,
		},
		Metrics: MetricsConfig{
			Enabled: true,
		},
	}
}

// Validate reports the first problem with the configuration. The URL's
// shape is checked later by the transport; this pass catches what would
// otherwise fail mid-session.
func (c Config) Validate() error {
	if c.API.BaseURL == "" {
		return errors.New("config: api base URL required")
	}
	if c.API.Timeout < 0 {
		return errors.New("config: api timeout must not be negative")
	}
	return nil
}

func cloneConfig(c Config) Config {
	// All fields are values today; the copy exists so later slice or map
	// fields cannot alias the caller's struct.
	return c
}

// LoadConfig reads a YAML file over the defaults. Unset fields keep their
// default values.
func LoadConfig(path string) (Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	cfg := defaultConfig()
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg, nil
}
