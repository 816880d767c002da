// Package executor runs external diagnostic programs under a hard deadline
// and captures their output for field extraction by the text-based probes.
package executor

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"strings"
	"time"
)

// DefaultTimeoutSec applies when the caller passes a non-positive timeout.
const DefaultTimeoutSec = 60

// TruncationMarker is appended when TrimOutput cuts a string.
const TruncationMarker = "...(truncated)"

// waitDelay bounds how long Wait may block on inherited pipes after the
// deadline kill.
const waitDelay = 2 * time.Second

// CmdResult captures one bounded external-process run. It is returned even
// when the run failed, so callers can preserve partial output.
type CmdResult struct {
	Stdout   string
	Stderr   string
	ExitCode int
	Duration time.Duration
	TimedOut bool
}

// RunFunc is the signature probes use to invoke a command, injectable for
// tests.
type RunFunc func(ctx context.Context, timeoutSec int, name string, args ...string) (*CmdResult, error)

// Run executes name with args, killing the process and its descendants when
// the timeout elapses. The returned error distinguishes three failure kinds
// via errors.Is: context.DeadlineExceeded (timeout), exec.ErrNotFound
// (binary missing), and otherwise the exit error from the process. A non-nil
// CmdResult accompanies every outcome.
func Run(ctx context.Context, timeoutSec int, name string, args ...string) (*CmdResult, error) {
	if timeoutSec <= 0 {
		timeoutSec = DefaultTimeoutSec
	}
	ctx, cancel := context.WithTimeout(ctx, time.Duration(timeoutSec)*time.Second)
	defer cancel()

	cmd := exec.CommandContext(ctx, name, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	// Descendants inherit the output pipes and would keep Wait blocked past
	// the deadline unless the whole group is killed.
	setProcessGroup(cmd)
	cmd.WaitDelay = waitDelay

	start := time.Now()
	err := cmd.Run()
	result := &CmdResult{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		Duration: time.Since(start),
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		result.ExitCode = exitErr.ExitCode()
	}

	if ctx.Err() == context.DeadlineExceeded {
		result.TimedOut = true
		return result, context.DeadlineExceeded
	}
	if err != nil {
		return result, err
	}
	return result, nil
}

// TrimOutput trims surrounding whitespace and enforces the caller's length
// cap, appending the truncation marker when it cuts.
func TrimOutput(s string, limit int) string {
	s = strings.TrimSpace(s)
	if limit > 0 && len(s) > limit {
		return s[:limit] + TruncationMarker
	}
	return s
}
