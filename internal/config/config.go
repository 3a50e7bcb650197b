package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the service configuration, loaded from a YAML file with
// environment-variable overrides for the deployment-specific values.
type Config struct {
	// Port is the HTTP listen port for the API server.
	Port string `yaml:"port"`

	// ProjectID is the Google Cloud project hosting BigQuery and GCS.
	ProjectID string `yaml:"project_id"`

	// Dataset is the BigQuery dataset holding the budgetwise tables.
	Dataset string `yaml:"dataset"`

	// Bucket is the GCS bucket where uploaded statements are stored.
	Bucket string `yaml:"bucket"`

	// Model is the Gemini model used for extraction and advice.
	Model string `yaml:"model"`

	// StatementYear anchors date parsing for uploaded statements.
	StatementYear int `yaml:"statement_year"`

	// ChunkSize and ChunkOverlap control document windowing, in characters.
	ChunkSize    int `yaml:"chunk_size"`
	ChunkOverlap int `yaml:"chunk_overlap"`

	// OracleTimeoutSeconds bounds a single extraction call.
	OracleTimeoutSeconds int `yaml:"oracle_timeout_seconds"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Port:                 "8080",
		Dataset:              "budgetwise",
		Model:                "gemini-2.5-flash",
		StatementYear:        time.Now().Year(),
		ChunkSize:            1000,
		ChunkOverlap:         100,
		OracleTimeoutSeconds: 60,
	}
}

// Load reads the config file at path, falling back to defaults when path
// is empty, then applies environment overrides. Validation happens here
// so misconfiguration fails at startup rather than mid-request.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("config: reading %q: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("config: parsing %q: %w", path, err)
		}
	}

	applyEnvOverrides(&cfg)

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("PORT"); v != "" {
		cfg.Port = v
	}
	if v := os.Getenv("GCP_PROJECT"); v != "" {
		cfg.ProjectID = v
	}
	if v := os.Getenv("BQ_DATASET"); v != "" {
		cfg.Dataset = v
	}
	if v := os.Getenv("GCS_BUCKET"); v != "" {
		cfg.Bucket = v
	}
	if v := os.Getenv("GEMINI_MODEL"); v != "" {
		cfg.Model = v
	}
}

func (c Config) validate() error {
	if c.ChunkSize <= 0 {
		return fmt.Errorf("config: chunk_size must be positive, got %d", c.ChunkSize)
	}
	if c.ChunkOverlap < 0 || c.ChunkOverlap >= c.ChunkSize {
		return fmt.Errorf("config: chunk_overlap must be in [0, chunk_size), got %d", c.ChunkOverlap)
	}
	if c.StatementYear < 1900 || c.StatementYear > 2200 {
		return fmt.Errorf("config: statement_year %d out of range", c.StatementYear)
	}
	return nil
}

// OracleTimeout returns the extraction call timeout as a duration.
func (c Config) OracleTimeout() time.Duration {
	return time.Duration(c.OracleTimeoutSeconds) * time.Second
}
