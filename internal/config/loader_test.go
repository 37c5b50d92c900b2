package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "leo.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.Generator.ListenAddress != DefaultGeneratorAddress {
		t.Errorf("generator address = %q", cfg.Generator.ListenAddress)
	}
	if cfg.Dashboard.PollInterval != 30*time.Second {
		t.Errorf("poll interval = %v", cfg.Dashboard.PollInterval)
	}
	if cfg.Dashboard.DateWindowDays != 7 {
		t.Errorf("date window = %d", cfg.Dashboard.DateWindowDays)
	}
	if cfg.Dashboard.RetryMax != 0 {
		t.Errorf("retry max = %d", cfg.Dashboard.RetryMax)
	}
	if cfg.Generator.CORSAllowedOrigin != "*" {
		t.Errorf("cors origin = %q", cfg.Generator.CORSAllowedOrigin)
	}
}

func TestLoadConfigFile(t *testing.T) {
	path := writeFile(t, `
log_level: debug
generator:
  listen_address: ":4001"
  seed: 99
dashboard:
  api_base_url: "http://alertgen:4001"
  poll_interval: 10s
  retry_max: 2
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("log level = %q", cfg.LogLevel)
	}
	if cfg.Generator.ListenAddress != ":4001" || cfg.Generator.Seed != 99 {
		t.Errorf("generator = %+v", cfg.Generator)
	}
	if cfg.Dashboard.PollInterval != 10*time.Second {
		t.Errorf("poll interval = %v", cfg.Dashboard.PollInterval)
	}
	if cfg.Dashboard.RetryMax != 2 {
		t.Errorf("retry max = %d", cfg.Dashboard.RetryMax)
	}
	if cfg.Dashboard.ListenAddress != DefaultDashboardAddress {
		t.Errorf("dashboard address = %q", cfg.Dashboard.ListenAddress)
	}
}

func TestLoadConfigEnvOverride(t *testing.T) {
	t.Setenv("LEO_API_BASE_URL", "https://alerts.example.com")
	t.Setenv("LEO_LOG_LEVEL", "warn")

	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Dashboard.APIBaseURL != "https://alerts.example.com" {
		t.Errorf("api base url = %q", cfg.Dashboard.APIBaseURL)
	}
	if cfg.LogLevel != "warn" {
		t.Errorf("log level = %q", cfg.LogLevel)
	}
}

func TestLoadConfigInvalid(t *testing.T) {
	tests := map[string]string{
		"log level":     "log_level: loud\n",
		"base url":      "dashboard:\n  api_base_url: \"localhost:3001\"\n",
		"poll interval": "dashboard:\n  poll_interval: 10ms\n",
		"retry max":     "dashboard:\n  retry_max: -1\n",
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := LoadConfig(writeFile(t, body))
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), "validation") {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestLoadConfigMalformedYAML(t *testing.T) {
	if _, err := LoadConfig(writeFile(t, "generator: [unclosed")); err == nil {
		t.Fatal("expected parse error")
	}
}
