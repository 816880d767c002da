package batch

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Spec declares one probe invocation. Which fields apply depends on Kind;
// zero fields fall back to the engine defaults.
type Spec struct {
	Kind string `yaml:"kind"`

	Target       string `yaml:"target,omitempty"`
	Count        int    `yaml:"count,omitempty"`
	MaxHops      int    `yaml:"max_hops,omitempty"`
	ReportCycles int    `yaml:"report_cycles,omitempty"`
	RecordType   string `yaml:"record_type,omitempty"`

	Host       string `yaml:"host,omitempty"`
	Port       int    `yaml:"port,omitempty"`
	Retry      int    `yaml:"retry,omitempty"`
	ServerName string `yaml:"server_name,omitempty"`
	Insecure   bool   `yaml:"insecure,omitempty"`
	CACert     string `yaml:"ca_cert,omitempty"`
	ClientCert string `yaml:"client_cert,omitempty"`
	ClientKey  string `yaml:"client_key,omitempty"`

	URL            string            `yaml:"url,omitempty"`
	Method         string            `yaml:"method,omitempty"`
	Headers        map[string]string `yaml:"headers,omitempty"`
	Body           string            `yaml:"body,omitempty"`
	ExpectStatus   int               `yaml:"expect_status,omitempty"`
	ExpectContains string            `yaml:"expect_contains,omitempty"`

	TimeoutSec int `yaml:"timeout_sec,omitempty"`
}

// File is the on-disk batch declaration.
type File struct {
	Probes     []Spec  `yaml:"probes"`
	Workers    int     `yaml:"workers,omitempty"`
	RatePerSec float64 `yaml:"rate_per_sec,omitempty"`
}

// Load reads and validates a batch file.
func Load(path string) (File, error) {
	var file File

	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return file, fmt.Errorf("read batch file %q: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &file); err != nil {
		return file, fmt.Errorf("parse batch file %q: %w", path, err)
	}
	if len(file.Probes) == 0 {
		return file, fmt.Errorf("batch file %q declares no probes", path)
	}
	return file, nil
}

// validate checks the target-identification shape required by the kind.
func (s Spec) validate() error {
	switch strings.ToLower(s.Kind) {
	case "ping", "trace", "traceroute", "mtr", "nslookup":
		if s.Target == "" {
			return fmt.Errorf("target is required")
		}
	case "tcp", "tls":
		if s.Host == "" || s.Port == 0 {
			return fmt.Errorf("host and port are required")
		}
	case "http":
		if s.URL == "" {
			return fmt.Errorf("url is required")
		}
	}
	return nil
}
