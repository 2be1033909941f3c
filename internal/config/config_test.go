package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vvka-141/pgframe/pkg/pgframe"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFileName), []byte(content), 0644))
	return dir
}

func TestLoad_AllFields(t *testing.T) {
	dir := writeConfig(t, `connection:
  host: myhost
  port: 5433
  username: myuser
  database: mydb
  sslmode: require
  sslrootcert: /path/ca.crt
  aws_region: eu-west-1

ingest:
  strategy: page
  page_size: 250
  schema: staging
  max_failures: 5

timeout: 10m
`)

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "myhost", cfg.Connection.Host)
	assert.Equal(t, 5433, cfg.Connection.Port)
	assert.Equal(t, "myuser", cfg.Connection.Username)
	assert.Equal(t, "mydb", cfg.Connection.Database)
	assert.Equal(t, "require", cfg.Connection.SSLMode)
	assert.Equal(t, "/path/ca.crt", cfg.Connection.SSLRootCert)
	assert.Equal(t, "eu-west-1", cfg.Connection.AWSRegion)
	assert.Equal(t, IngestConfig{Strategy: "page", PageSize: 250, Schema: "staging", MaxFailures: 5}, cfg.Ingest)

	opts, err := cfg.IngestOptions()
	require.NoError(t, err)
	assert.Equal(t, pgframe.StrategyPage, opts.Strategy)
	assert.Equal(t, 250, opts.PageSize)

	timeout, err := cfg.TimeoutDuration()
	require.NoError(t, err)
	assert.Equal(t, 10*time.Minute, timeout)
}

func TestLoad_FileNotFound(t *testing.T) {
	cfg, err := Load(t.TempDir())
	assert.True(t, errors.Is(err, ErrConfigNotFound), "expected ErrConfigNotFound, got: %v", err)
	assert.Nil(t, cfg)
}

func TestLoad_InvalidYAML(t *testing.T) {
	cfg, err := Load(writeConfig(t, "{{invalid"))
	assert.ErrorIs(t, err, pgframe.ErrInvalidConfig)
	assert.Nil(t, cfg)
}

func TestLoad_UnknownKeyRejected(t *testing.T) {
	_, err := Load(writeConfig(t, "ingest:\n  page-size: 10\n"))
	assert.ErrorIs(t, err, pgframe.ErrInvalidConfig)
}

func TestLoad_EmptyFile(t *testing.T) {
	cfg, err := Load(writeConfig(t, ""))
	require.NoError(t, err)
	assert.Equal(t, ProjectConfig{}, *cfg)
}

func TestIngestOptions_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		ingest IngestConfig
	}{
		{"unknown strategy", IngestConfig{Strategy: "bulk"}},
		{"negative page size", IngestConfig{PageSize: -1}},
		{"negative max failures", IngestConfig{MaxFailures: -3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &ProjectConfig{Ingest: tt.ingest}
			_, err := cfg.IngestOptions()
			assert.ErrorIs(t, err, pgframe.ErrInvalidConfig)
		})
	}
}

func TestNilConfig(t *testing.T) {
	var cfg *ProjectConfig

	opts, err := cfg.IngestOptions()
	require.NoError(t, err)
	assert.Equal(t, pgframe.IngestOptions{}, opts)

	timeout, err := cfg.TimeoutDuration()
	require.NoError(t, err)
	assert.Zero(t, timeout)
}

func TestTimeoutDuration_Invalid(t *testing.T) {
	cfg := &ProjectConfig{Timeout: "soon"}
	_, err := cfg.TimeoutDuration()
	assert.ErrorIs(t, err, pgframe.ErrInvalidConfig)
}
