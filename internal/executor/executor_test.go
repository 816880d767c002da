package executor

import (
	"context"
	"errors"
	"os/exec"
	"runtime"
	"strings"
	"testing"
	"time"
)

func requireShell(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("test requires a POSIX shell")
	}
}

func TestRunCapturesOutputAndExitCode(t *testing.T) {
	requireShell(t)

	res, err := Run(context.Background(), 5, "sh", "-c", "echo out; echo err 1>&2")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if strings.TrimSpace(res.Stdout) != "out" {
		t.Fatalf("unexpected stdout %q", res.Stdout)
	}
	if strings.TrimSpace(res.Stderr) != "err" {
		t.Fatalf("unexpected stderr %q", res.Stderr)
	}
	if res.ExitCode != 0 {
		t.Fatalf("expected exit code 0 got %d", res.ExitCode)
	}
	if res.TimedOut {
		t.Fatalf("did not expect timeout")
	}
}

func TestRunNonZeroExitKeepsPartialOutput(t *testing.T) {
	requireShell(t)

	res, err := Run(context.Background(), 5, "sh", "-c", "echo partial; exit 3")
	if err == nil {
		t.Fatalf("expected error for non-zero exit")
	}
	if errors.Is(err, exec.ErrNotFound) || errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("non-zero exit must not look like not-found or timeout: %v", err)
	}
	if res == nil {
		t.Fatalf("expected result alongside error")
	}
	if strings.TrimSpace(res.Stdout) != "partial" {
		t.Fatalf("partial output lost: %q", res.Stdout)
	}
	if res.ExitCode != 3 {
		t.Fatalf("expected exit code 3 got %d", res.ExitCode)
	}
}

func TestRunTimeoutKillsProcess(t *testing.T) {
	requireShell(t)

	start := time.Now()
	res, err := Run(context.Background(), 1, "sh", "-c", "sleep 30")
	elapsed := time.Since(start)

	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded got %v", err)
	}
	if res == nil || !res.TimedOut {
		t.Fatalf("expected TimedOut result, got %+v", res)
	}
	if elapsed > 5*time.Second {
		t.Fatalf("process not killed at deadline, ran %s", elapsed)
	}
}

func TestRunTimeoutKillsDescendants(t *testing.T) {
	requireShell(t)

	// The background sleep inherits the output pipes; Wait must still
	// return at the deadline instead of blocking until the pipes close.
	start := time.Now()
	res, err := Run(context.Background(), 1, "sh", "-c", "sleep 30 & wait")
	elapsed := time.Since(start)

	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded got %v", err)
	}
	if res == nil || !res.TimedOut {
		t.Fatalf("expected TimedOut result, got %+v", res)
	}
	if elapsed > 5*time.Second {
		t.Fatalf("descendant kept the run alive for %s", elapsed)
	}
}

func TestRunMissingBinary(t *testing.T) {
	_, err := Run(context.Background(), 5, "definitely-not-a-real-binary-4f1c")
	if !errors.Is(err, exec.ErrNotFound) {
		t.Fatalf("expected exec.ErrNotFound got %v", err)
	}
}

func TestRunDefaultsTimeout(t *testing.T) {
	requireShell(t)

	res, err := Run(context.Background(), 0, "sh", "-c", "true")
	if err != nil {
		t.Fatalf("Run with default timeout: %v", err)
	}
	if res.TimedOut {
		t.Fatalf("unexpected timeout")
	}
}

func TestTrimOutput(t *testing.T) {
	if got := TrimOutput("  hello \n", 0); got != "hello" {
		t.Fatalf("unexpected trim result %q", got)
	}

	long := strings.Repeat("x", 100)
	got := TrimOutput(long, 10)
	if got != long[:10]+TruncationMarker {
		t.Fatalf("unexpected truncation %q", got)
	}
	if len(got) != 10+len(TruncationMarker) {
		t.Fatalf("truncated length %d", len(got))
	}
	if !strings.HasSuffix(got, TruncationMarker) {
		t.Fatalf("missing truncation marker in %q", got)
	}

	if got := TrimOutput("short", 10); got != "short" {
		t.Fatalf("under-limit string must pass through, got %q", got)
	}
}
