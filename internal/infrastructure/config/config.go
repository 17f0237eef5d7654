package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Prefix namespaces every environment variable.
const Prefix = "A11Y"

// Fail policies.
const (
	FailOpen   = "open"
	FailClosed = "closed"
)

// Config holds all application configuration.
type Config struct {
	Logging LogConfig
	Engine  EngineConfig
	Fetch   FetchConfig
	Batch   BatchConfig
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"LOG_LEVEL" default:"info"`
	Development bool   `envconfig:"LOG_DEV" default:"false"`
}

// EngineConfig holds scan and remediation settings.
type EngineConfig struct {
	SiteURL            string        `envconfig:"SITE_URL"`
	FailPolicy         string        `envconfig:"FAIL_POLICY" default:"open"`
	Profile            string        `envconfig:"PROFILE"`
	MaxHTMLBytes       int           `envconfig:"MAX_HTML_BYTES" default:"10485760"`
	Sanitize           bool          `envconfig:"SANITIZE" default:"false"`
	QuarantineAfter    uint32        `envconfig:"QUARANTINE_AFTER" default:"0"`
	QuarantineCooldown time.Duration `envconfig:"QUARANTINE_COOLDOWN" default:"5m"`
}

// FetchConfig holds page fetching settings.
type FetchConfig struct {
	Timeout   time.Duration `envconfig:"FETCH_TIMEOUT" default:"15s"`
	RPS       float64       `envconfig:"FETCH_RPS" default:"2"`
	Retries   int           `envconfig:"FETCH_RETRIES" default:"3"`
	UserAgent string        `envconfig:"FETCH_USER_AGENT" default:"a11y-scanner/1.0"`
}

// BatchConfig holds CLI batch settings.
type BatchConfig struct {
	Workers int `envconfig:"WORKERS" default:"4"`
}

// Load loads configuration from A11Y_-prefixed environment variables.
func Load() (*Config, error) {
	var cfg Config
	sections := []interface{}{&cfg.Logging, &cfg.Engine, &cfg.Fetch, &cfg.Batch}
	for _, section := range sections {
		if err := envconfig.Process(Prefix, section); err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadOrDefault loads configuration from environment or returns default.
func LoadOrDefault() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Logging: LogConfig{
			Level: "info",
		},
		Engine: EngineConfig{
			FailPolicy:         FailOpen,
			MaxHTMLBytes:       10 * 1024 * 1024,
			QuarantineCooldown: 5 * time.Minute,
		},
		Fetch: FetchConfig{
			Timeout:   15 * time.Second,
			RPS:       2,
			Retries:   3,
			UserAgent: "a11y-scanner/1.0",
		},
		Batch: BatchConfig{
			Workers: 4,
		},
	}
}

// Validate rejects values the engine cannot run with.
func (c *Config) Validate() error {
	var errs []error
	if c.Engine.FailPolicy != FailOpen && c.Engine.FailPolicy != FailClosed {
		errs = append(errs, fmt.Errorf("A11Y_FAIL_POLICY must be %q or %q, got %q", FailOpen, FailClosed, c.Engine.FailPolicy))
	}
	if c.Engine.MaxHTMLBytes <= 0 {
		errs = append(errs, errors.New("A11Y_MAX_HTML_BYTES must be positive"))
	}
	if c.Batch.Workers <= 0 {
		errs = append(errs, errors.New("A11Y_WORKERS must be positive"))
	}
	if c.Fetch.RPS < 0 || c.Fetch.Retries < 0 {
		errs = append(errs, errors.New("A11Y_FETCH_RPS and A11Y_FETCH_RETRIES must not be negative"))
	}
	return errors.Join(errs...)
}
