// Package config defines the configuration structures for drugflat. No I/O or
// parsing logic lives here, only plain data types and validation.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/turtacn/drugflat/internal/infrastructure/monitoring/logging"
)

// InputConfig locates the source document.
type InputConfig struct {
	Path      string `mapstructure:"path"`
	Namespace string `mapstructure:"namespace"`
	// ProgressEvery logs extraction progress every N entities at debug level.
	ProgressEvery int `mapstructure:"progress_every"`
}

// OutputConfig controls where and how tables are written.
type OutputConfig struct {
	Dir           string `mapstructure:"dir"`
	ListSeparator string `mapstructure:"list_separator"`
	// WriteManifest also writes schema.yaml next to the tables.
	WriteManifest bool `mapstructure:"write_manifest"`
}

// PipelineConfig holds stage execution parameters.
type PipelineConfig struct {
	// Workers partitions the per-row derivations; 1 runs them sequentially.
	Workers int           `mapstructure:"workers"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// LogConfig holds structured-logging parameters.
type LogConfig struct {
	Level  string `mapstructure:"level"`  // "debug" | "info" | "warn" | "error"
	Format string `mapstructure:"format"` // "console" | "json"
	Output string `mapstructure:"output"`
}

// MetricsConfig controls the Prometheus textfile export.
type MetricsConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Namespace string `mapstructure:"namespace"`
	Textfile  string `mapstructure:"textfile"`
}

// MinIOConfig holds MinIO / S3-compatible object-storage parameters.
type MinIOConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	Bucket    string `mapstructure:"bucket"`
	Prefix    string `mapstructure:"prefix"`
	Region    string `mapstructure:"region"`
	UseSSL    bool   `mapstructure:"use_ssl"`
}

// StorageConfig groups publishing destinations.
type StorageConfig struct {
	MinIO MinIOConfig `mapstructure:"minio"`
}

// Config is the root configuration structure.
type Config struct {
	Input    InputConfig    `mapstructure:"input"`
	Output   OutputConfig   `mapstructure:"output"`
	Pipeline PipelineConfig `mapstructure:"pipeline"`
	Log      LogConfig      `mapstructure:"log"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
	Storage  StorageConfig  `mapstructure:"storage"`
}

// LoggingConfig converts the log section into logging.LogConfig.
func (c *Config) LoggingConfig() logging.LogConfig {
	lc := logging.LogConfig{Level: c.Log.Level, Format: c.Log.Format}
	if c.Log.Output != "" {
		lc.OutputPaths = []string{c.Log.Output}
	}
	return lc
}

// Validate performs semantic validation of the fully-populated Config.
// It returns the first error encountered.
func (c *Config) Validate() error {
	// Input
	if strings.TrimSpace(c.Input.Path) == "" {
		return fmt.Errorf("config: input.path is required")
	}
	if c.Input.Namespace == "" {
		return fmt.Errorf("config: input.namespace is required")
	}
	if c.Input.ProgressEvery < 0 {
		return fmt.Errorf("config: input.progress_every must be >= 0, got %d", c.Input.ProgressEvery)
	}

	// Output
	if strings.TrimSpace(c.Output.Dir) == "" {
		return fmt.Errorf("config: output.dir is required")
	}
	if c.Output.ListSeparator == "" {
		return fmt.Errorf("config: output.list_separator is required")
	}
	if c.Output.ListSeparator == "," {
		return fmt.Errorf("config: output.list_separator must differ from the enzyme token delimiter \",\"")
	}

	// Pipeline
	if c.Pipeline.Workers < 1 {
		return fmt.Errorf("config: pipeline.workers must be >= 1, got %d", c.Pipeline.Workers)
	}
	if c.Pipeline.Timeout < 0 {
		return fmt.Errorf("config: pipeline.timeout must be >= 0, got %s", c.Pipeline.Timeout)
	}

	// Log
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: log.level %q is invalid; expected debug|info|warn|error", c.Log.Level)
	}
	switch c.Log.Format {
	case "json", "console":
	default:
		return fmt.Errorf("config: log.format %q is invalid; expected json|console", c.Log.Format)
	}

	// Metrics
	if c.Metrics.Enabled && c.Metrics.Textfile == "" {
		return fmt.Errorf("config: metrics.textfile is required when metrics are enabled")
	}

	// Storage
	if m := c.Storage.MinIO; m.Enabled {
		if m.Endpoint == "" {
			return fmt.Errorf("config: storage.minio.endpoint is required when publishing is enabled")
		}
		if m.Bucket == "" {
			return fmt.Errorf("config: storage.minio.bucket is required when publishing is enabled")
		}
	}

	return nil
}
