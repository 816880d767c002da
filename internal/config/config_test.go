package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadOverlaysDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "netprobe.yaml")
	content := []byte("defaults:\n  ping_count: 8\n  http_timeout_sec: 5\nbatch:\n  workers: 2\n  rate_per_sec: 3\n")
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(context.Background(), path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Defaults.PingCount != 8 {
		t.Fatalf("expected ping_count 8 got %d", cfg.Defaults.PingCount)
	}
	if cfg.Defaults.HTTPTimeoutSec != 5 {
		t.Fatalf("expected http_timeout_sec 5 got %d", cfg.Defaults.HTTPTimeoutSec)
	}
	// Untouched fields keep compiled-in values.
	if cfg.Defaults.TraceMaxHops != 30 {
		t.Fatalf("expected trace_max_hops 30 got %d", cfg.Defaults.TraceMaxHops)
	}
	if cfg.Batch.Workers != 2 || cfg.Batch.RatePerSec != 3 {
		t.Fatalf("unexpected batch config %+v", cfg.Batch)
	}
}

func TestLoadRejectsBadYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "netprobe.yaml")
	if err := os.WriteFile(path, []byte("defaults: [not a map"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	if _, err := Load(context.Background(), path); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestLoadFromEnvMissingFileUsesDefaults(t *testing.T) {
	t.Setenv("NETPROBE_CONFIG", filepath.Join(t.TempDir(), "absent.yaml"))

	cfg, err := LoadFromEnv(context.Background())
	if err != nil {
		t.Fatalf("LoadFromEnv: %v", err)
	}
	if cfg != Default() {
		t.Fatalf("expected compiled-in defaults, got %+v", cfg)
	}
}

func TestNormalizeRestoresZeroedFields(t *testing.T) {
	cfg := normalize(Config{})
	if cfg.Defaults != Default().Defaults {
		t.Fatalf("zero config must normalize to defaults, got %+v", cfg.Defaults)
	}
}
