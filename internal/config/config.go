package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog/log"
)

// Environment represents different deployment environments
type Environment string

const (
	EnvDevelopment Environment = "development"
	EnvTesting     Environment = "testing"
	EnvProduction  Environment = "production"
)

// Config holds the configuration for the memoirly service.
// Environment variables are parsed from the MEMOIRLY_ prefix.
type Config struct {
	Environment Environment `envconfig:"ENVIRONMENT" default:"development"`

	// HTTP Configuration
	HTTPPort int `envconfig:"HTTP_PORT" default:"8080"`

	// Storage driver: postgres (default) or sqlite for local runs
	DBDriver    string `envconfig:"DB_DRIVER" default:"auto"`
	PostgresDSN string `envconfig:"POSTGRES_DSN" default:""`
	SQLitePath  string `envconfig:"SQLITE_PATH" default:""`

	// Asset host (upload collaborator)
	AssetHostURL    string `envconfig:"ASSET_HOST_URL" default:""`
	AssetUploadKey  string `envconfig:"ASSET_UPLOAD_KEY" default:""`
	AssetFolderName string `envconfig:"ASSET_FOLDER" default:"memoirly"`

	// Classifier side-car for tag suggestions (optional, best-effort)
	ClassifierURL string `envconfig:"CLASSIFIER_URL" default:""`

	// Cover rotation cadence in milliseconds
	CoverIntervalMs int `envconfig:"COVER_INTERVAL_MS" default:"5000"`

	// Batch upload limits
	MaxBatchFiles int `envconfig:"MAX_BATCH_FILES" default:"10"`

	// Development identity: token=owner pairs, e.g. "local-token=owner-dev"
	DevTokens string `envconfig:"DEV_TOKENS" default:""`
}

// ResolveDefaults derives DBDriver when set to "auto" or empty and validates it.
func (c *Config) ResolveDefaults() error {
	if c.DBDriver == "" || c.DBDriver == "auto" {
		if c.PostgresDSN != "" {
			c.DBDriver = "postgres"
		} else {
			c.DBDriver = "sqlite"
		}
	}
	switch c.DBDriver {
	case "postgres":
		if c.PostgresDSN == "" {
			return fmt.Errorf("DB_DRIVER=postgres requires MEMOIRLY_POSTGRES_DSN")
		}
	case "sqlite":
		if c.SQLitePath == "" {
			c.SQLitePath = "./data/memoirly.db"
		}
	default:
		return fmt.Errorf("unsupported DB_DRIVER: %s", c.DBDriver)
	}
	if c.CoverIntervalMs <= 0 {
		return fmt.Errorf("COVER_INTERVAL_MS must be positive, got %d", c.CoverIntervalMs)
	}
	if c.MaxBatchFiles <= 0 {
		return fmt.Errorf("MAX_BATCH_FILES must be positive, got %d", c.MaxBatchFiles)
	}
	return nil
}

// New creates a new Config by parsing environment variables.
// Variables are prefixed with MEMOIRLY_, e.g. MEMOIRLY_HTTP_PORT.
func New() (*Config, error) {
	var cfg Config

	if err := envconfig.Process("MEMOIRLY", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment variables: %w", err)
	}

	if err := cfg.ResolveDefaults(); err != nil {
		return nil, err
	}

	log.Info().
		Str("environment", string(cfg.Environment)).
		Str("db_driver", cfg.DBDriver).
		Int("port", cfg.HTTPPort).
		Bool("postgres_dsn_present", cfg.PostgresDSN != "").
		Str("asset_host", cfg.AssetHostURL).
		Bool("classifier_configured", cfg.ClassifierURL != "").
		Int("cover_interval_ms", cfg.CoverIntervalMs).
		Msg("Configuration loaded")

	return &cfg, nil
}

// NewForTesting creates a config specifically for testing.
func NewForTesting() *Config {
	return &Config{
		Environment:     EnvTesting,
		HTTPPort:        8080,
		DBDriver:        "sqlite",
		SQLitePath:      ":memory:",
		AssetHostURL:    "http://localhost:9000",
		CoverIntervalMs: 5000,
		MaxBatchFiles:   10,
	}
}

// IsTesting returns true if the environment is set to testing
func (c *Config) IsTesting() bool { return c.Environment == EnvTesting }

// IsProduction returns true if the environment is set to production
func (c *Config) IsProduction() bool { return c.Environment == EnvProduction }

// GetHTTPAddr returns the HTTP server address
func (c *Config) GetHTTPAddr() string { return fmt.Sprintf(":%d", c.HTTPPort) }
