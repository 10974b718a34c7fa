package config

import (
	"time"

	"github.com/spf13/viper"
)

const (
	DefaultNamespace     = "http://www.drugbank.ca"
	DefaultProgressEvery = 1000

	DefaultOutputDir     = "drug_data_cleaned"
	DefaultListSeparator = "|"

	DefaultWorkers = 1
	DefaultTimeout = 30 * time.Minute

	DefaultLogLevel  = "info"
	DefaultLogFormat = "console"

	DefaultMetricsNamespace = "drugflat"

	DefaultMinIOEndpoint = "localhost:9000"
	DefaultMinIOBucket   = "drugflat"
	DefaultMinIOPrefix   = "tables"
)

// ApplyDefaults fills every zero-value field in cfg with its default.
// Explicitly set values are left unchanged.
func ApplyDefaults(cfg *Config) {
	if cfg == nil {
		return
	}

	// ── Input ─────────────────────────────────────────────────────────────────
	if cfg.Input.Namespace == "" {
		cfg.Input.Namespace = DefaultNamespace
	}
	if cfg.Input.ProgressEvery == 0 {
		cfg.Input.ProgressEvery = DefaultProgressEvery
	}

	// ── Output ────────────────────────────────────────────────────────────────
	if cfg.Output.Dir == "" {
		cfg.Output.Dir = DefaultOutputDir
	}
	if cfg.Output.ListSeparator == "" {
		cfg.Output.ListSeparator = DefaultListSeparator
	}

	// ── Pipeline ──────────────────────────────────────────────────────────────
	if cfg.Pipeline.Workers == 0 {
		cfg.Pipeline.Workers = DefaultWorkers
	}
	if cfg.Pipeline.Timeout == 0 {
		cfg.Pipeline.Timeout = DefaultTimeout
	}

	// ── Log ───────────────────────────────────────────────────────────────────
	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = DefaultLogFormat
	}

	// ── Metrics ───────────────────────────────────────────────────────────────
	if cfg.Metrics.Namespace == "" {
		cfg.Metrics.Namespace = DefaultMetricsNamespace
	}

	// ── Storage ───────────────────────────────────────────────────────────────
	if cfg.Storage.MinIO.Endpoint == "" {
		cfg.Storage.MinIO.Endpoint = DefaultMinIOEndpoint
	}
	if cfg.Storage.MinIO.Bucket == "" {
		cfg.Storage.MinIO.Bucket = DefaultMinIOBucket
	}
	if cfg.Storage.MinIO.Prefix == "" {
		cfg.Storage.MinIO.Prefix = DefaultMinIOPrefix
	}
}

// setViperDefaults registers every key with viper so that AutomaticEnv can
// resolve DRUGFLAT_* variables during Unmarshal even without a config file.
func setViperDefaults(v *viper.Viper) {
	v.SetDefault("input.path", "")
	v.SetDefault("input.namespace", DefaultNamespace)
	v.SetDefault("input.progress_every", DefaultProgressEvery)

	v.SetDefault("output.dir", DefaultOutputDir)
	v.SetDefault("output.list_separator", DefaultListSeparator)
	v.SetDefault("output.write_manifest", true)

	v.SetDefault("pipeline.workers", DefaultWorkers)
	v.SetDefault("pipeline.timeout", DefaultTimeout)

	v.SetDefault("log.level", DefaultLogLevel)
	v.SetDefault("log.format", DefaultLogFormat)
	v.SetDefault("log.output", "")

	v.SetDefault("metrics.enabled", false)
	v.SetDefault("metrics.namespace", DefaultMetricsNamespace)
	v.SetDefault("metrics.textfile", "")

	v.SetDefault("storage.minio.enabled", false)
	v.SetDefault("storage.minio.endpoint", DefaultMinIOEndpoint)
	v.SetDefault("storage.minio.access_key", "")
	v.SetDefault("storage.minio.secret_key", "")
	v.SetDefault("storage.minio.bucket", DefaultMinIOBucket)
	v.SetDefault("storage.minio.prefix", DefaultMinIOPrefix)
	v.SetDefault("storage.minio.region", "")
	v.SetDefault("storage.minio.use_ssl", false)
}
