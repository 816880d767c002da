package main

import (
	"context"
	"strings"
	"testing"

	"github.com/netprobehq/agent/internal/config"
	"github.com/netprobehq/agent/internal/probe"
)

func newTestEngine() *probe.Engine {
	return probe.NewEngine(config.Default().Defaults, probe.Dependencies{})
}

func TestRunProbeUnknownSubcommand(t *testing.T) {
	res := runProbe(context.Background(), newTestEngine(), "smtp", nil)
	if res.Success {
		t.Fatalf("expected failure")
	}
	if res.Tool != "network.smtp" {
		t.Fatalf("unexpected tool %q", res.Tool)
	}
	if !strings.Contains(res.Error, "unknown subcommand: smtp") {
		t.Fatalf("unexpected error %q", res.Error)
	}
}

func TestRunProbeMissingRequiredFlags(t *testing.T) {
	tests := []struct {
		cmd     string
		args    []string
		wantErr string
	}{
		{"ping", nil, "target is required"},
		{"trace", nil, "target is required"},
		{"mtr", nil, "target is required"},
		{"nslookup", nil, "target is required"},
		{"tcp", []string{"--host", "example.com"}, "host and port are required"},
		{"tcp", []string{"--port", "443"}, "host and port are required"},
		{"tls", []string{"--port", "443"}, "host and port are required"},
		{"http", nil, "url is required"},
	}

	engine := newTestEngine()
	for _, tt := range tests {
		t.Run(tt.cmd, func(t *testing.T) {
			res := runProbe(context.Background(), engine, tt.cmd, tt.args)
			if res.Success {
				t.Fatalf("expected failure for %s %v", tt.cmd, tt.args)
			}
			if res.Error != tt.wantErr {
				t.Fatalf("error %q, want %q", res.Error, tt.wantErr)
			}
			if res.Tool != "network."+tt.cmd {
				t.Fatalf("unexpected tool %q", res.Tool)
			}
		})
	}
}

func TestRunProbeBadFlagBecomesResult(t *testing.T) {
	res := runProbe(context.Background(), newTestEngine(), "ping", []string{"--no-such-flag"})
	if res.Success || res.Error == "" {
		t.Fatalf("flag parse failures must produce a failed result, got %+v", res)
	}
}

func TestRunProbeInvalidHeadersJSON(t *testing.T) {
	res := runProbe(context.Background(), newTestEngine(), "http", []string{
		"--url", "https://example.com",
		"--headers", "{not json",
	})
	if res.Success {
		t.Fatalf("expected failure")
	}
	if res.Error != "invalid headers json" {
		t.Fatalf("unexpected error %q", res.Error)
	}
}

func TestParseHeadersMerge(t *testing.T) {
	headers, err := parseHeaders(
		`{"User-Agent":"netprobe","X-Env":"json"}`,
		[]string{"X-Env: flag", "Accept: text/plain", "malformed-header"},
	)
	if err != nil {
		t.Fatalf("parseHeaders: %v", err)
	}
	if headers["User-Agent"] != "netprobe" {
		t.Fatalf("missing JSON header: %v", headers)
	}
	if headers["X-Env"] != "flag" {
		t.Fatalf("repeated flag must win over JSON: %v", headers)
	}
	if headers["Accept"] != "text/plain" {
		t.Fatalf("missing flag header: %v", headers)
	}
	if len(headers) != 3 {
		t.Fatalf("malformed entries must be skipped: %v", headers)
	}
}

func TestMultiString(t *testing.T) {
	m := multiString{}
	if err := m.Set("a"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := m.Set("b"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if m.String() != "a,b" {
		t.Fatalf("unexpected String %q", m.String())
	}
}
