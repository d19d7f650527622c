//-------------------------------------------------------------------------
//
// starload - retail star schema loader
//
// Copyright (c) 2025 - 2026, the starload authors
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package config handles configuration management for starload.
// Configuration is loaded from config files and CLI flags (no environment
// variables). CLI flags take precedence over config file values.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config holds all configuration for starload.
type Config struct {
	// Connection is the PostgreSQL connection string for the warehouse.
	Connection string `mapstructure:"connection"`

	// LogLevel controls logging verbosity (debug, info, warn, error).
	LogLevel string `mapstructure:"log_level"`

	// Source holds configuration for the raw extract location.
	Source SourceConfig `mapstructure:"source"`

	// Load holds configuration for the load subcommand.
	Load LoadConfig `mapstructure:"load"`

	// Seed holds configuration for the seed subcommand.
	Seed SeedConfig `mapstructure:"seed"`
}

// SourceConfig identifies the raw sales extract. When Path is set the
// extract is read from the local filesystem; otherwise it is fetched
// from S3 using Region, Bucket and Key.
type SourceConfig struct {
	// Region is the AWS region of the source bucket.
	Region string `mapstructure:"region"`

	// Bucket is the S3 bucket holding the extract.
	Bucket string `mapstructure:"bucket"`

	// Key is the object key of the extract.
	Key string `mapstructure:"key"`

	// Path is a local file path; overrides the S3 settings when set.
	Path string `mapstructure:"path"`
}

// LoadConfig holds configuration for the load subcommand.
type LoadConfig struct {
	// PreviewPath is where the canonical-record preview CSV is written.
	PreviewPath string `mapstructure:"preview_path"`

	// PreviewRows is how many canonical records the preview holds.
	PreviewRows int `mapstructure:"preview_rows"`

	// CheckCollisions enables the country_id collision diagnostic.
	CheckCollisions bool `mapstructure:"check_collisions"`
}

// SeedConfig holds configuration for synthetic extract generation.
type SeedConfig struct {
	// Rows is the number of raw rows to generate.
	Rows int `mapstructure:"rows"`

	// Path is where the generated CSV is written.
	Path string `mapstructure:"path"`

	// Seed fixes the random seed for reproducible output (0 = random).
	Seed uint64 `mapstructure:"seed"`
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		LogLevel: "info",
		Source: SourceConfig{
			Region: "us-east-1",
		},
		Load: LoadConfig{
			PreviewPath: "canonical_preview.csv",
			PreviewRows: 100,
		},
		Seed: SeedConfig{
			Rows: 5000,
			Path: "sales.csv",
		},
	}
}

// Load reads configuration from config files.
// Config file locations (in order of precedence):
// 1. Path specified by configFile parameter
// 2. ./starload.yaml
// 3. ~/.config/starload/config.yaml
func Load(configFile string) (*Config, error) {
	v := viper.New()

	v.SetConfigName("starload")
	v.SetConfigType("yaml")

	v.AddConfigPath(".")
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".config", "starload"))
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
	}

	// Read config file (ignore if not found)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg := DefaultConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}

	return cfg, nil
}

// ValidateLoad checks configuration required for the load command.
func (c *Config) ValidateLoad() error {
	if c.Connection == "" {
		return fmt.Errorf("connection string is required")
	}
	if c.Source.Path == "" {
		if c.Source.Bucket == "" {
			return fmt.Errorf("source bucket is required when no local source path is set")
		}
		if c.Source.Key == "" {
			return fmt.Errorf("source key is required when no local source path is set")
		}
		if c.Source.Region == "" {
			return fmt.Errorf("source region is required when no local source path is set")
		}
	}
	if c.Load.PreviewRows < 0 {
		return fmt.Errorf("preview_rows must be non-negative")
	}
	return nil
}

// ValidateSeed checks configuration required for the seed command.
func (c *Config) ValidateSeed() error {
	if c.Seed.Rows < 1 {
		return fmt.Errorf("seed rows must be at least 1")
	}
	if c.Seed.Path == "" {
		return fmt.Errorf("seed path is required")
	}
	return nil
}
