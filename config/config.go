// Package config defines service configuration and its loading rules.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/coursewise/coursewise/scoring"
)

// Sentinel error kinds for this package. These allow errors.Is/As from callers.
var (
	ErrInvalidConfig = errors.New("invalid config")
	ErrLoadConfig    = errors.New("load config failed")
)

// Config contains process configuration.
type Config struct {
	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects "json" or "console" output.
	LogFormat string `koanf:"log_format"`

	// DSN selects the catalog backend. postgres:// URLs use pgvector,
	// anything else is treated as a SQLite file path.
	DSN string `koanf:"dsn"`

	// EmbeddingDimension is the expected vector length for the catalog.
	EmbeddingDimension int `koanf:"embedding_dimension"`

	// Embedder selects and configures the embedding provider.
	Embedder EmbedderConfig `koanf:"embedder"`

	// Advisor configures the optional chat advisor. Disabled when the
	// model is empty.
	Advisor AdvisorConfig `koanf:"advisor"`

	// Weights are the composite scoring weights.
	Weights scoring.Weights `koanf:"weights"`

	// Threshold is the minimum similarity for a course to be considered.
	Threshold float64 `koanf:"threshold"`

	// DefaultLimit and MaxLimit bound the number of returned candidates.
	DefaultLimit int `koanf:"default_limit"`
	MaxLimit     int `koanf:"max_limit"`

	// DefaultBudgetHours caps learning path duration when a query does
	// not set its own budget. Zero disables the cap.
	DefaultBudgetHours float64 `koanf:"default_budget_hours"`

	// CacheTTL enables the query result cache when positive.
	CacheTTL time.Duration `koanf:"cache_ttl"`
}

// EmbedderConfig selects the embedding provider.
type EmbedderConfig struct {
	// Provider is one of "ollama", "openai", "watsonx".
	Provider  string        `koanf:"provider"`
	BaseURL   string        `koanf:"base_url"`
	APIKey    string        `koanf:"api_key"`
	Model     string        `koanf:"model"`
	ProjectID string        `koanf:"project_id"`
	Timeout   time.Duration `koanf:"timeout"`
}

// AdvisorConfig configures the chat backend for /api/advise.
type AdvisorConfig struct {
	BaseURL string `koanf:"base_url"`
	APIKey  string `koanf:"api_key"`
	Model   string `koanf:"model"`
}

// New returns a Config populated with defaults.
func New() *Config {
	return &Config{
		Addr:               ":8080",
		LogLevel:           "info",
		LogFormat:          "json",
		DSN:                "data/coursewise.db",
		EmbeddingDimension: 768,
		Embedder: EmbedderConfig{
			Provider: "ollama",
			BaseURL:  "http://localhost:11434",
			Model:    "nomic-embed-text",
			Timeout:  10 * time.Second,
		},
		Weights:            scoring.DefaultWeights(),
		Threshold:          0.3,
		DefaultLimit:       10,
		MaxLimit:           50,
		DefaultBudgetHours: 40,
		CacheTTL:           0,
	}
}

// Validate checks invariants the loader cannot express.
func (c *Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	}
	if c.EmbeddingDimension <= 0 {
		return fmt.Errorf("%w: embedding_dimension must be positive", ErrInvalidConfig)
	}
	if c.Threshold < -1 || c.Threshold > 1 {
		return fmt.Errorf("%w: threshold must be within [-1, 1]", ErrInvalidConfig)
	}
	if c.DefaultLimit <= 0 || c.MaxLimit <= 0 || c.DefaultLimit > c.MaxLimit {
		return fmt.Errorf("%w: limits must be positive and default_limit <= max_limit", ErrInvalidConfig)
	}
	if c.DefaultBudgetHours < 0 {
		return fmt.Errorf("%w: default_budget_hours must not be negative", ErrInvalidConfig)
	}
	if c.Embedder.Timeout <= 0 {
		return fmt.Errorf("%w: embedder timeout must be positive", ErrInvalidConfig)
	}
	if err := c.Weights.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}
