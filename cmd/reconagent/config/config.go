// Package config loads the process configuration for the reconciliation
// agent from the environment.
//
// The configuration is an explicit value handed into component
// constructors; nothing reads ambient global state after startup.
package config

import (
	"strings"

	"golang-recon-agent/internal/ingest"
	"golang-recon-agent/pkg/errors"

	"github.com/spf13/viper"
)

// DefaultDatabase is the database name used when MONGODB_DB is not set
const DefaultDatabase = "ai_recon"

// DefaultReportsDir is where CSV reports land unless overridden
const DefaultReportsDir = "reports"

// Config holds everything the agent needs before any operation runs
type Config struct {
	// MongoURI is the document-store connection string (MONGODB_URI)
	MongoURI string `json:"mongo_uri"`

	// Database is the database name (MONGODB_DB)
	Database string `json:"database"`

	// TokenKey is the secret keying material for reference tokenization
	// (TOKEN_KEY). Never logged.
	TokenKey string `json:"-"`

	// BatchSize is the ingestion bulk-insert batch size (RECON_BATCH_SIZE)
	BatchSize int `json:"batch_size"`

	// ReportsDir is the CSV report output directory (RECON_REPORTS_DIR)
	ReportsDir string `json:"reports_dir"`
}

// Load reads the configuration from the environment and validates it.
// Missing connection string or token key is a fatal startup error.
func Load() (*Config, error) {
	v := viper.New()
	v.SetDefault("mongodb_db", DefaultDatabase)
	v.SetDefault("recon_batch_size", ingest.DefaultBatchSize)
	v.SetDefault("recon_reports_dir", DefaultReportsDir)
	v.AutomaticEnv()

	cfg := &Config{
		MongoURI:   v.GetString("mongodb_uri"),
		Database:   v.GetString("mongodb_db"),
		TokenKey:   v.GetString("token_key"),
		BatchSize:  v.GetInt("recon_batch_size"),
		ReportsDir: v.GetString("recon_reports_dir"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks that all required settings are present
func (c *Config) Validate() error {
	if strings.TrimSpace(c.MongoURI) == "" {
		return errors.ConfigurationError(errors.CodeMissingConfig, "MONGODB_URI", nil)
	}

	if strings.TrimSpace(c.Database) == "" {
		return errors.ConfigurationError(errors.CodeMissingConfig, "MONGODB_DB", nil)
	}

	if strings.TrimSpace(c.TokenKey) == "" {
		return errors.ConfigurationError(errors.CodeMissingTokenKey, "TOKEN_KEY", nil)
	}

	if c.BatchSize <= 0 {
		return errors.ConfigurationError(errors.CodeInvalidConfig, "RECON_BATCH_SIZE", nil)
	}

	if strings.TrimSpace(c.ReportsDir) == "" {
		return errors.ConfigurationError(errors.CodeInvalidConfig, "RECON_REPORTS_DIR", nil)
	}

	return nil
}
