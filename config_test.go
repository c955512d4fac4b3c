package firetrack

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadConfigOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "firetrack.yaml")
	raw := []byte(`
api:
  base_url: https://tracker.example.com
  timeout: 5s
metrics:
  enabled: false
`)
	if err := os.WriteFile(path, raw, 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.API.BaseURL != "https://tracker.example.com" {
		t.Fatalf("base URL = %q", cfg.API.BaseURL)
	}
	if cfg.API.Timeout != 5*time.Second {
		t.Fatalf("timeout = %v, want 5s", cfg.API.Timeout)
	}
	if cfg.Metrics.Enabled {
		t.Fatal("metrics should be disabled by the file")
	}
	// Unset fields keep their defaults.
	if !cfg.Session.TrustTokenExpiry {
		t.Fatal("trust_token_expiry default lost")
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLoadConfigRejectsBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.yaml")
	if err := os.WriteFile(path, []byte("api: [unclosed"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Fatal("expected parse error")
	}
}
