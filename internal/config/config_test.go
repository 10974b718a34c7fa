package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/turtacn/drugflat/internal/config"
)

// validConfig returns a Config that passes Validate() with all required fields set.
func validConfig() *config.Config {
	cfg := &config.Config{}
	config.ApplyDefaults(cfg)
	cfg.Input.Path = "drugbank.xml"
	return cfg
}

func TestConfig_Validate_ValidConfig(t *testing.T) {
	t.Parallel()
	assert.NoError(t, validConfig().Validate())
}

func TestConfig_Validate_Failures(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		mutate  func(*config.Config)
		wantKey string
	}{
		{"missing input", func(c *config.Config) { c.Input.Path = " " }, "input.path"},
		{"missing namespace", func(c *config.Config) { c.Input.Namespace = "" }, "input.namespace"},
		{"negative progress", func(c *config.Config) { c.Input.ProgressEvery = -5 }, "input.progress_every"},
		{"missing output", func(c *config.Config) { c.Output.Dir = "" }, "output.dir"},
		{"comma separator", func(c *config.Config) { c.Output.ListSeparator = "," }, "output.list_separator"},
		{"zero workers", func(c *config.Config) { c.Pipeline.Workers = 0 }, "pipeline.workers"},
		{"negative timeout", func(c *config.Config) { c.Pipeline.Timeout = -1 }, "pipeline.timeout"},
		{"bad level", func(c *config.Config) { c.Log.Level = "trace" }, "log.level"},
		{"bad format", func(c *config.Config) { c.Log.Format = "text" }, "log.format"},
		{"metrics without file", func(c *config.Config) { c.Metrics.Enabled = true }, "metrics.textfile"},
		{"minio without endpoint", func(c *config.Config) {
			c.Storage.MinIO.Enabled = true
			c.Storage.MinIO.Endpoint = ""
		}, "storage.minio.endpoint"},
		{"minio without bucket", func(c *config.Config) {
			c.Storage.MinIO.Enabled = true
			c.Storage.MinIO.Bucket = ""
		}, "storage.minio.bucket"},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			cfg := validConfig()
			tc.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantKey)
		})
	}
}

func TestConfig_Validate_DisabledMinIOIgnoresBlankFields(t *testing.T) {
	t.Parallel()
	cfg := validConfig()
	cfg.Storage.MinIO.Endpoint = ""
	cfg.Storage.MinIO.Bucket = ""
	assert.NoError(t, cfg.Validate())
}

func TestConfig_LoggingConfig(t *testing.T) {
	t.Parallel()
	cfg := validConfig()
	cfg.Log.Output = "/var/log/drugflat.log"

	lc := cfg.LoggingConfig()
	assert.Equal(t, config.DefaultLogLevel, lc.Level)
	assert.Equal(t, config.DefaultLogFormat, lc.Format)
	assert.Equal(t, []string{"/var/log/drugflat.log"}, lc.OutputPaths)

	cfg.Log.Output = ""
	assert.Empty(t, cfg.LoggingConfig().OutputPaths)
}
