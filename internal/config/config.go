//-------------------------------------------------------------------------
//
// Akhdar BI Command Center
//
// Copyright (c) 2025 - 2026, Akhdar Perfumes
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package config handles configuration management for akhdar-bi.
// Configuration is loaded from config files and CLI flags (no environment variables).
// CLI flags take precedence over config file values.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for akhdar-bi.
type Config struct {
	// Connection is the PostgreSQL connection string.
	Connection string `mapstructure:"connection"`

	// LogLevel controls logging verbosity (debug, info, warn, error).
	LogLevel string `mapstructure:"log_level"`

	// Data holds configuration for extract file locations.
	Data DataConfig `mapstructure:"data"`

	// Build holds configuration for the warehouse build.
	Build BuildConfig `mapstructure:"build"`
}

// DataConfig holds extract file locations.
type DataConfig struct {
	// RawDir is the directory containing the storefront exports and
	// private reference files (material costs, recipes).
	RawDir string `mapstructure:"raw_dir"`

	// ReferenceDir is the directory containing the public SKU map.
	ReferenceDir string `mapstructure:"reference_dir"`

	// SampleDir is the directory containing generated sample extracts.
	SampleDir string `mapstructure:"sample_dir"`

	// UseSample switches load/run to the sample extracts.
	UseSample bool `mapstructure:"use_sample"`
}

// BuildConfig holds configuration for the warehouse build.
type BuildConfig struct {
	// Workers is the number of concurrent order-fact workers.
	Workers int `mapstructure:"workers"`

	// BatchSize is the number of rows per batch insert.
	BatchSize int `mapstructure:"batch_size"`

	// CalendarStart is the first date in the date dimension (YYYY-MM-DD).
	CalendarStart string `mapstructure:"calendar_start"`

	// CalendarEnd is the last date in the date dimension (YYYY-MM-DD).
	CalendarEnd string `mapstructure:"calendar_end"`
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		LogLevel: "info",
		Data: DataConfig{
			RawDir:       "data/raw",
			ReferenceDir: "data/reference",
			SampleDir:    "data/sample",
		},
		Build: BuildConfig{
			Workers:       4,
			BatchSize:     1000,
			CalendarStart: "2024-01-01",
			CalendarEnd:   "2026-12-31",
		},
	}
}

// Load reads configuration from config files.
// Config file locations (in order of precedence):
// 1. Path specified by configFile parameter
// 2. ./akhdar-bi.yaml
// 3. ~/.config/akhdar-bi/config.yaml
func Load(configFile string) (*Config, error) {
	v := viper.New()

	v.SetConfigName("akhdar-bi")
	v.SetConfigType("yaml")

	v.AddConfigPath(".")
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".config", "akhdar-bi"))
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

// Validate checks that required configuration is present.
func (c *Config) Validate() error {
	if c.Connection == "" {
		return fmt.Errorf("connection string is required")
	}
	return nil
}

// ValidateLoad checks configuration required for the load command.
func (c *Config) ValidateLoad() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.DataDir() == "" {
		return fmt.Errorf("data directory is required")
	}
	return nil
}

// ValidateBuild checks configuration required for the build command.
func (c *Config) ValidateBuild() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.Build.Workers < 1 {
		return fmt.Errorf("workers must be at least 1")
	}
	if c.Build.BatchSize < 1 {
		return fmt.Errorf("batch_size must be at least 1")
	}
	start, err := time.Parse("2006-01-02", c.Build.CalendarStart)
	if err != nil {
		return fmt.Errorf("invalid calendar_start: %w", err)
	}
	end, err := time.Parse("2006-01-02", c.Build.CalendarEnd)
	if err != nil {
		return fmt.Errorf("invalid calendar_end: %w", err)
	}
	if end.Before(start) {
		return fmt.Errorf("calendar_end must not precede calendar_start")
	}
	return nil
}

// DataDir returns the directory the order/product/customer extracts are
// read from, honoring the sample-data switch.
func (c *Config) DataDir() string {
	if c.Data.UseSample {
		return c.Data.SampleDir
	}
	return c.Data.RawDir
}
