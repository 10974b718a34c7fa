package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// envPrefix is the environment variable prefix used by all settings.
const envPrefix = "DRUGFLAT"

// DefaultDotEnvFile is read, when present, before the environment is consulted.
const DefaultDotEnvFile = ".env"

// newViper builds a Viper instance with YAML file type, the DRUGFLAT_ env
// prefix, and a "." → "_" key replacer so that "storage.minio.bucket"
// resolves to DRUGFLAT_STORAGE_MINIO_BUCKET.
func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	setViperDefaults(v)
	return v
}

// LoadDotEnv loads KEY=VALUE pairs from path into the process environment.
// Variables already set in the environment win. A missing file is not an error.
func LoadDotEnv(path string) error {
	if path == "" {
		path = DefaultDotEnvFile
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("config: failed to load env file %q: %w", path, err)
	}
	return nil
}

// Read prepares a viper instance from configPath and the environment without
// unmarshalling, so that callers can bind command-line flags before Finalize.
func Read(configPath string) (*viper.Viper, error) {
	v := newViper()
	if configPath == "" {
		return v, nil
	}
	v.SetConfigFile(configPath)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("config: failed to read config file %q: %w", configPath, err)
	}
	return v, nil
}

// Finalize unmarshals viper state into a Config, applies defaults and
// validates the result.
func Finalize(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to unmarshal configuration: %w", err)
	}

	ApplyDefaults(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: validation failed: %w", err)
	}
	return cfg, nil
}
