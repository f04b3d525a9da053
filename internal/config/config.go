package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config represents the top-level openbooks.yaml configuration.
type Config struct {
	Business BusinessConfig `yaml:"business"`
	Storage  StorageConfig  `yaml:"storage"`
	Posting  PostingConfig  `yaml:"posting"`
	Export   ExportConfig   `yaml:"export"`
}

// BusinessConfig identifies the business entity.
type BusinessConfig struct {
	Name       string `yaml:"name"`
	EntityType string `yaml:"entity_type"`
}

// StorageConfig locates the ledger database.
type StorageConfig struct {
	Path string `yaml:"path"`
}

// PostingConfig controls posting behavior.
type PostingConfig struct {
	DuplicateCheck       bool  `yaml:"duplicate_check"`
	DefaultCashAccount   int64 `yaml:"default_cash_account"`
	DefaultOffsetAccount int64 `yaml:"default_offset_account"`
}

// ExportConfig controls where CSV reports are written.
type ExportConfig struct {
	Dir string `yaml:"dir"`
}

// Load reads an openbooks.yaml file from disk, then applies environment
// overrides (OPENBOOKS_DB replaces the storage path).
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	cfg.applyEnv()
	return &cfg, nil
}

func (c *Config) applyEnv() {
	if db := os.Getenv("OPENBOOKS_DB"); db != "" {
		c.Storage.Path = db
	}
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with sensible defaults for a new project.
func Default(businessName, entityType string) *Config {
	return &Config{
		Business: BusinessConfig{
			Name:       businessName,
			EntityType: entityType,
		},
		Storage: StorageConfig{
			Path: "ledger.db",
		},
		Posting: PostingConfig{
			DuplicateCheck:     true,
			DefaultCashAccount: 101,
		},
		Export: ExportConfig{
			Dir: "exports",
		},
	}
}
