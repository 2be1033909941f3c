// Package config loads the optional pgframe.yaml project file.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/vvka-141/pgframe/pkg/pgframe"
	"gopkg.in/yaml.v3"
)

// ErrConfigNotFound is returned when the config file does not exist.
// Callers can check for this with errors.Is(err, config.ErrConfigNotFound).
var ErrConfigNotFound = errors.New("config file not found")

const ConfigFileName = "pgframe.yaml"

// ConnectionConfig holds the connection defaults. Passwords are never
// read from the file; use $PGPASSWORD or a .env file.
type ConnectionConfig struct {
	Host           string `yaml:"host"`
	Port           int    `yaml:"port"`
	Username       string `yaml:"username"`
	Database       string `yaml:"database"`
	SSLMode        string `yaml:"sslmode"`
	SSLCert        string `yaml:"sslcert,omitempty"`
	SSLKey         string `yaml:"sslkey,omitempty"`
	SSLRootCert    string `yaml:"sslrootcert,omitempty"`
	AzureTenantID  string `yaml:"azure_tenant_id,omitempty"`
	AzureClientID  string `yaml:"azure_client_id,omitempty"`
	AWSRegion      string `yaml:"aws_region,omitempty"`
	GoogleInstance string `yaml:"google_instance,omitempty"`
}

// IngestConfig holds defaults for the ingest command.
type IngestConfig struct {
	Strategy    string `yaml:"strategy"`
	PageSize    int    `yaml:"page_size"`
	Schema      string `yaml:"schema"`
	MaxFailures int    `yaml:"max_failures"`
}

type ProjectConfig struct {
	Connection ConnectionConfig `yaml:"connection"`
	Ingest     IngestConfig     `yaml:"ingest"`
	Timeout    string           `yaml:"timeout"`
}

// Load reads ConfigFileName from dir. Unknown keys are rejected so that
// typos such as "page-size" do not pass silently.
func Load(dir string) (*ProjectConfig, error) {
	path := filepath.Join(dir, ConfigFileName)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var cfg ProjectConfig
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%s: %w: %w", path, pgframe.ErrInvalidConfig, err)
	}
	return &cfg, nil
}

// IngestOptions converts the ingest block. Zero fields stay zero so that
// pgframe defaults and CLI flags can still apply.
func (c *ProjectConfig) IngestOptions() (pgframe.IngestOptions, error) {
	var opts pgframe.IngestOptions
	if c == nil {
		return opts, nil
	}
	if c.Ingest.Strategy != "" {
		st, err := pgframe.ParseStrategy(c.Ingest.Strategy)
		if err != nil {
			return opts, fmt.Errorf("%s ingest.strategy: %w", ConfigFileName, err)
		}
		opts.Strategy = st
	}
	opts.PageSize = c.Ingest.PageSize
	opts.Schema = c.Ingest.Schema
	opts.MaxFailures = c.Ingest.MaxFailures
	return opts, opts.Validate()
}

// TimeoutDuration parses the timeout key; an empty value yields zero.
func (c *ProjectConfig) TimeoutDuration() (time.Duration, error) {
	if c == nil || c.Timeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 0, fmt.Errorf("%s timeout %q: %w", ConfigFileName, c.Timeout, pgframe.ErrInvalidConfig)
	}
	return d, nil
}
