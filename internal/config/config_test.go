package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	yaml := `
server:
  host: 127.0.0.1
  port: 8080
bridge:
  url: http://bridge.internal:5001
  timeout: 10s
streams:
  prices_interval: 500ms
  fetch_timeout: 100ms
  default_symbols: [EURUSD, USDJPY]
`
	path := writeTempFile(t, yaml)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.Host != "127.0.0.1" {
		t.Errorf("Server.Host = %q, want %q", cfg.Server.Host, "127.0.0.1")
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Bridge.URL != "http://bridge.internal:5001" {
		t.Errorf("Bridge.URL = %q, want %q", cfg.Bridge.URL, "http://bridge.internal:5001")
	}
	if cfg.Streams.PricesInterval != 500*time.Millisecond {
		t.Errorf("Streams.PricesInterval = %v, want 500ms", cfg.Streams.PricesInterval)
	}
	if len(cfg.Streams.DefaultSymbols) != 2 {
		t.Errorf("Streams.DefaultSymbols = %v, want 2 symbols", cfg.Streams.DefaultSymbols)
	}
}

func TestLoadWithEnvSubstitution(t *testing.T) {
	t.Setenv("TEST_BRIDGE_URL", "http://localhost:6001")

	yaml := `
bridge:
  url: ${TEST_BRIDGE_URL}
`
	path := writeTempFile(t, yaml)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Bridge.URL != "http://localhost:6001" {
		t.Errorf("Bridge.URL = %q, want %q", cfg.Bridge.URL, "http://localhost:6001")
	}
}

func TestLoadWithDefaults(t *testing.T) {
	path := writeTempFile(t, "{}\n")

	cfg, err := LoadWithDefaults(path)
	if err != nil {
		t.Fatalf("LoadWithDefaults failed: %v", err)
	}

	if cfg.Server.Port != DefaultPort {
		t.Errorf("Server.Port = %d, want %d", cfg.Server.Port, DefaultPort)
	}
	if cfg.Bridge.URL != DefaultBridgeURL {
		t.Errorf("Bridge.URL = %q, want %q", cfg.Bridge.URL, DefaultBridgeURL)
	}
	if cfg.Streams.PricesInterval != DefaultPricesInterval {
		t.Errorf("Streams.PricesInterval = %v, want %v", cfg.Streams.PricesInterval, DefaultPricesInterval)
	}
	if cfg.Streams.FetchTimeout != DefaultFetchTimeout {
		t.Errorf("Streams.FetchTimeout = %v, want %v", cfg.Streams.FetchTimeout, DefaultFetchTimeout)
	}
	if len(cfg.Streams.DefaultSymbols) != len(DefaultSymbols) {
		t.Errorf("Streams.DefaultSymbols = %v, want %v", cfg.Streams.DefaultSymbols, DefaultSymbols)
	}
}

func TestLoadWithDefaults_ZeroRetriesPreserved(t *testing.T) {
	yaml := `
bridge:
  max_retries: 0
`
	path := writeTempFile(t, yaml)

	cfg, err := LoadWithDefaults(path)
	if err != nil {
		t.Fatalf("LoadWithDefaults failed: %v", err)
	}

	// An explicit zero turns retries off; only an absent field gets
	// the default.
	if cfg.Bridge.MaxRetries == nil || *cfg.Bridge.MaxRetries != 0 {
		t.Errorf("Bridge.MaxRetries = %v, want explicit 0", cfg.Bridge.MaxRetries)
	}
}

func TestValidate_FetchTimeoutBelowIntervals(t *testing.T) {
	cfg := Default()
	cfg.Streams.FetchTimeout = 1 * time.Second // equals prices interval

	err := cfg.Validate()
	if err == nil {
		t.Fatal("Validate accepted fetch_timeout equal to prices_interval")
	}
	if !strings.Contains(err.Error(), "fetch_timeout") {
		t.Errorf("error = %v, want mention of fetch_timeout", err)
	}
}

func TestValidate_Defaults(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config failed validation: %v", err)
	}
}

func TestValidate_BadPort(t *testing.T) {
	cfg := Default()
	cfg.Server.Port = 99999

	if err := cfg.Validate(); err == nil {
		t.Error("Validate accepted out-of-range port")
	}
}

func TestValidate_EmptySymbols(t *testing.T) {
	cfg := Default()
	cfg.Streams.DefaultSymbols = nil

	if err := cfg.Validate(); err == nil {
		t.Error("Validate accepted empty default_symbols")
	}
}

func writeTempFile(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write temp config: %v", err)
	}
	return path
}
