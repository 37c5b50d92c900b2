package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Defaults
const (
	DefaultGeneratorAddress = ":3001"
	DefaultDashboardAddress = ":8088"
	DefaultAPIBaseURL       = "http://localhost:3001"
	DefaultPollInterval     = 30 * time.Second
	DefaultRequestTimeout   = 10 * time.Second
	DefaultDateWindowDays   = 7
	DefaultLogBufferSize    = 1000
)

var validLogLevels = []string{"debug", "info", "warn", "error"}

// LoadConfig loads configuration from a YAML file. A missing file yields the
// defaults. A .env file in the working directory and environment variables
// are applied on top.
func LoadConfig(path string) (*Config, error) {
	cfg := &Config{}

	if path != "" {
		if err := loadYAML(path, cfg); err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("loading %s: %w", path, err)
			}
		}
	}

	// .env is optional
	_ = godotenv.Load()
	applyEnv(cfg)

	setDefaults(cfg)

	if err := ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// loadYAML loads a YAML file into a struct
func loadYAML(path string, out interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, out)
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("LEO_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("LEO_GENERATOR_ADDR"); v != "" {
		cfg.Generator.ListenAddress = v
	}
	if v := os.Getenv("LEO_DASHBOARD_ADDR"); v != "" {
		cfg.Dashboard.ListenAddress = v
	}
	if v := os.Getenv("LEO_API_BASE_URL"); v != "" {
		cfg.Dashboard.APIBaseURL = v
	}
	if v := os.Getenv("SENTRY_DSN"); v != "" {
		cfg.Sentry.DSN = v
	}
	if v := os.Getenv("SENTRY_ENVIRONMENT"); v != "" {
		cfg.Sentry.Environment = v
	}
}

func setDefaults(cfg *Config) {
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.Generator.ListenAddress == "" {
		cfg.Generator.ListenAddress = DefaultGeneratorAddress
	}
	if cfg.Generator.CORSAllowedOrigin == "" {
		cfg.Generator.CORSAllowedOrigin = "*"
	}
	if cfg.Dashboard.ListenAddress == "" {
		cfg.Dashboard.ListenAddress = DefaultDashboardAddress
	}
	if cfg.Dashboard.APIBaseURL == "" {
		cfg.Dashboard.APIBaseURL = DefaultAPIBaseURL
	}
	if cfg.Dashboard.PollInterval == 0 {
		cfg.Dashboard.PollInterval = DefaultPollInterval
	}
	if cfg.Dashboard.RequestTimeout == 0 {
		cfg.Dashboard.RequestTimeout = DefaultRequestTimeout
	}
	if cfg.Dashboard.DateWindowDays == 0 {
		cfg.Dashboard.DateWindowDays = DefaultDateWindowDays
	}
	if cfg.Dashboard.LogBufferSize == 0 {
		cfg.Dashboard.LogBufferSize = DefaultLogBufferSize
	}
}

// ValidateConfig validates the configuration
func ValidateConfig(cfg *Config) error {
	var problems []string

	levelValid := false
	for _, level := range validLogLevels {
		if strings.ToLower(cfg.LogLevel) == level {
			levelValid = true
			break
		}
	}
	if !levelValid {
		problems = append(problems, fmt.Sprintf("log_level must be one of: %s", strings.Join(validLogLevels, ", ")))
	}

	u, err := url.Parse(cfg.Dashboard.APIBaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		problems = append(problems, fmt.Sprintf("dashboard.api_base_url %q must be an absolute http(s) URL", cfg.Dashboard.APIBaseURL))
	}

	if cfg.Dashboard.PollInterval < time.Second {
		problems = append(problems, "dashboard.poll_interval must be at least 1s")
	}
	if cfg.Dashboard.RequestTimeout < 0 {
		problems = append(problems, "dashboard.request_timeout must not be negative")
	}
	if cfg.Dashboard.RetryMax < 0 {
		problems = append(problems, "dashboard.retry_max must not be negative")
	}
	if cfg.Dashboard.DateWindowDays < 1 {
		problems = append(problems, "dashboard.date_window_days must be at least 1")
	}
	if cfg.Dashboard.LogBufferSize < 1 {
		problems = append(problems, "dashboard.log_buffer_size must be at least 1")
	}

	if len(problems) > 0 {
		return fmt.Errorf("validation errors:\n  - %s", strings.Join(problems, "\n  - "))
	}
	return nil
}
