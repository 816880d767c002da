// Package config loads optional engine defaults from a YAML file. Every
// field has a compiled-in default; the file only overrides.
package config

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const (
	envConfigPath     = "NETPROBE_CONFIG"
	DefaultConfigPath = "/etc/netprobe/netprobe.yaml"
)

type Config struct {
	Defaults DefaultsConfig `yaml:"defaults"`
	Batch    BatchConfig    `yaml:"batch"`
}

// DefaultsConfig carries the per-probe defaults applied when an invocation
// leaves the corresponding field unset.
type DefaultsConfig struct {
	PingCount       int `yaml:"ping_count"`
	TraceMaxHops    int `yaml:"trace_max_hops"`
	TraceTimeoutSec int `yaml:"trace_timeout_sec"`
	MtrCycles       int `yaml:"mtr_cycles"`
	DNSTimeoutSec   int `yaml:"dns_timeout_sec"`
	TCPTimeoutSec   int `yaml:"tcp_timeout_sec"`
	TLSTimeoutSec   int `yaml:"tls_timeout_sec"`
	HTTPTimeoutSec  int `yaml:"http_timeout_sec"`
}

type BatchConfig struct {
	Workers    int     `yaml:"workers"`
	RatePerSec float64 `yaml:"rate_per_sec"`
}

// Default returns the compiled-in configuration.
func Default() Config {
	return Config{
		Defaults: DefaultsConfig{
			PingCount:       4,
			TraceMaxHops:    30,
			TraceTimeoutSec: 60,
			MtrCycles:       10,
			DNSTimeoutSec:   10,
			TCPTimeoutSec:   10,
			TLSTimeoutSec:   10,
			HTTPTimeoutSec:  15,
		},
		Batch: BatchConfig{
			Workers: 4,
		},
	}
}

// Load reads the file at path and overlays it on the compiled-in defaults.
func Load(ctx context.Context, path string) (Config, error) {
	cfg := Default()

	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return cfg, fmt.Errorf("open config %q: %w", path, err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return cfg, fmt.Errorf("read config %q: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %q: %w", path, err)
	}

	return normalize(cfg), nil
}

// LoadFromEnv loads the path named by NETPROBE_CONFIG, falling back to the
// default location. A missing file is not an error; the defaults apply.
func LoadFromEnv(ctx context.Context) (Config, error) {
	path := os.Getenv(envConfigPath)
	if path == "" {
		path = DefaultConfigPath
	}
	cfg, err := Load(ctx, path)
	if err != nil && errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

// normalize replaces non-positive overrides with the compiled-in values so a
// sparse file cannot zero out a default.
func normalize(cfg Config) Config {
	cfg.Defaults = cfg.Defaults.OrDefaults()
	if cfg.Batch.Workers <= 0 {
		cfg.Batch.Workers = Default().Batch.Workers
	}
	if cfg.Batch.RatePerSec < 0 {
		cfg.Batch.RatePerSec = 0
	}
	return cfg
}

// OrDefaults fills every non-positive field with its compiled-in value.
func (d DefaultsConfig) OrDefaults() DefaultsConfig {
	def := Default().Defaults
	if d.PingCount <= 0 {
		d.PingCount = def.PingCount
	}
	if d.TraceMaxHops <= 0 {
		d.TraceMaxHops = def.TraceMaxHops
	}
	if d.TraceTimeoutSec <= 0 {
		d.TraceTimeoutSec = def.TraceTimeoutSec
	}
	if d.MtrCycles <= 0 {
		d.MtrCycles = def.MtrCycles
	}
	if d.DNSTimeoutSec <= 0 {
		d.DNSTimeoutSec = def.DNSTimeoutSec
	}
	if d.TCPTimeoutSec <= 0 {
		d.TCPTimeoutSec = def.TCPTimeoutSec
	}
	if d.TLSTimeoutSec <= 0 {
		d.TLSTimeoutSec = def.TLSTimeoutSec
	}
	if d.HTTPTimeoutSec <= 0 {
		d.HTTPTimeoutSec = def.HTTPTimeoutSec
	}
	return d
}
