package config

import "time"

// Config represents the complete LEO Orbiters configuration
type Config struct {
	LogLevel  string          `yaml:"log_level"`
	Generator GeneratorConfig `yaml:"generator"`
	Dashboard DashboardConfig `yaml:"dashboard"`
	Sentry    SentryConfig    `yaml:"sentry,omitempty"`
}

// GeneratorConfig configures the alert generator service
type GeneratorConfig struct {
	ListenAddress     string `yaml:"listen_address"`
	CORSAllowedOrigin string `yaml:"cors_allowed_origin,omitempty"`
	// Seed fixes the random source; 0 seeds from the clock
	Seed int64 `yaml:"seed,omitempty"`
}

// DashboardConfig configures the polling dashboard
type DashboardConfig struct {
	ListenAddress  string        `yaml:"listen_address"`
	APIBaseURL     string        `yaml:"api_base_url"`
	PollInterval   time.Duration `yaml:"poll_interval"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
	RetryMax       int           `yaml:"retry_max,omitempty"`
	DateWindowDays int           `yaml:"date_window_days"`
	LogBufferSize  int           `yaml:"log_buffer_size"`
}

// SentryConfig enables error reporting when DSN is set
type SentryConfig struct {
	DSN         string `yaml:"dsn"`
	Environment string `yaml:"environment,omitempty"`
	Release     string `yaml:"release,omitempty"`
}
