package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validConfigYAML = `
input:
  path: "/data/full database.xml"
output:
  dir: "/data/out"
  list_separator: ";"
pipeline:
  workers: 4
  timeout: 5m
log:
  level: "debug"
  format: "json"
metrics:
  enabled: true
  textfile: "/data/out/metrics.prom"
storage:
  minio:
    enabled: true
    endpoint: "minio:9000"
    access_key: "key"
    secret_key: "secret"
    bucket: "drug-tables"
`

// load reads configPath (or only the environment when empty) and finalizes it.
func load(configPath string) (*Config, error) {
	v, err := Read(configPath)
	if err != nil {
		return nil, err
	}
	return Finalize(v)
}

func createTempConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_FromFile_ValidConfig(t *testing.T) {
	cfg, err := load(createTempConfigFile(t, validConfigYAML))
	require.NoError(t, err)

	assert.Equal(t, "/data/full database.xml", cfg.Input.Path)
	assert.Equal(t, DefaultNamespace, cfg.Input.Namespace)
	assert.Equal(t, "/data/out", cfg.Output.Dir)
	assert.Equal(t, ";", cfg.Output.ListSeparator)
	assert.Equal(t, 4, cfg.Pipeline.Workers)
	assert.Equal(t, 5*time.Minute, cfg.Pipeline.Timeout)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.True(t, cfg.Metrics.Enabled)
	assert.True(t, cfg.Storage.MinIO.Enabled)
	assert.Equal(t, "drug-tables", cfg.Storage.MinIO.Bucket)
	assert.Equal(t, DefaultMinIOPrefix, cfg.Storage.MinIO.Prefix)
}

func TestLoad_FromFile_FileNotFound(t *testing.T) {
	_, err := load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoad_FromFile_InvalidYAML(t *testing.T) {
	_, err := load(createTempConfigFile(t, "input: ["))
	assert.Error(t, err)
}

func TestLoad_FromFile_ValidationFailure(t *testing.T) {
	path := createTempConfigFile(t, `
input:
  path: "x.xml"
pipeline:
  workers: -1
`)
	_, err := load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pipeline.workers")
}

func TestLoad_EnvOverride(t *testing.T) {
	path := createTempConfigFile(t, validConfigYAML)
	t.Setenv("DRUGFLAT_PIPELINE_WORKERS", "8")
	t.Setenv("DRUGFLAT_STORAGE_MINIO_BUCKET", "from-env")

	cfg, err := load(path)
	require.NoError(t, err)
	assert.Equal(t, 8, cfg.Pipeline.Workers)
	assert.Equal(t, "from-env", cfg.Storage.MinIO.Bucket)
}

func TestLoad_EnvOnly(t *testing.T) {
	t.Setenv("DRUGFLAT_INPUT_PATH", "/in/drugbank.xml")
	t.Setenv("DRUGFLAT_OUTPUT_DIR", "/out")

	cfg, err := load("")
	require.NoError(t, err)
	assert.Equal(t, "/in/drugbank.xml", cfg.Input.Path)
	assert.Equal(t, "/out", cfg.Output.Dir)
	assert.Equal(t, DefaultListSeparator, cfg.Output.ListSeparator)
	assert.True(t, cfg.Output.WriteManifest)
	assert.Equal(t, DefaultWorkers, cfg.Pipeline.Workers)
}

func TestLoad_EnvOnlyMissingInput(t *testing.T) {
	t.Setenv("DRUGFLAT_INPUT_PATH", "")
	_, err := load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "input.path")
}

func TestRead_ThenSetOverride(t *testing.T) {
	v, err := Read(createTempConfigFile(t, validConfigYAML))
	require.NoError(t, err)
	v.Set("output.dir", "/override")

	cfg, err := Finalize(v)
	require.NoError(t, err)
	assert.Equal(t, "/override", cfg.Output.Dir)
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("DRUGFLAT_INPUT_PATH=/dotenv/in.xml\n"), 0o644))

	t.Setenv("DRUGFLAT_INPUT_PATH", "")
	require.NoError(t, os.Unsetenv("DRUGFLAT_INPUT_PATH"))

	require.NoError(t, LoadDotEnv(envFile))
	cfg, err := load("")
	require.NoError(t, err)
	assert.Equal(t, "/dotenv/in.xml", cfg.Input.Path)
}

func TestLoadDotEnv_ExistingEnvWins(t *testing.T) {
	envFile := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("DRUGFLAT_OUTPUT_DIR=/dotenv\n"), 0o644))
	t.Setenv("DRUGFLAT_OUTPUT_DIR", "/shell")

	require.NoError(t, LoadDotEnv(envFile))
	assert.Equal(t, "/shell", os.Getenv("DRUGFLAT_OUTPUT_DIR"))
}

func TestLoadDotEnv_MissingFileIsNotAnError(t *testing.T) {
	assert.NoError(t, LoadDotEnv(filepath.Join(t.TempDir(), "absent.env")))
}
