package probe

import (
	"context"
	"errors"
	"fmt"
	"os/exec"

	"github.com/netprobehq/agent/internal/executor"
	"github.com/netprobehq/agent/pkg/types"
)

// Traceroute runs the platform traceroute tool. No hop parsing happens at
// this layer; callers get the raw report.
func (e *Engine) Traceroute(ctx context.Context, opts TraceOptions) types.Result {
	tool := opts.Tool
	if tool == "" {
		tool = "network.traceroute"
	}
	maxHops := opts.MaxHops
	if maxHops <= 0 {
		maxHops = e.defaults.TraceMaxHops
	}
	timeoutSec := opts.TimeoutSec
	if timeoutSec <= 0 {
		timeoutSec = e.defaults.TraceTimeoutSec
	}

	cmdResult, err := e.run(ctx, timeoutSec, tracerouteCmd.binary, tracerouteCmd.args(maxHops, opts.Target)...)

	result := types.Result{
		Tool:    tool,
		Target:  opts.Target,
		MaxHops: maxHops,
	}

	if cmdResult != nil {
		result.RawOutput = executor.TrimOutput(cmdResult.Stdout, rawOutputLimit)
	}

	if err == nil {
		result.Success = true
		return result
	}
	if errors.Is(err, exec.ErrNotFound) {
		result.Error = fmt.Sprintf("%s command not found", tracerouteCmd.binary)
		return result
	}
	result.Error = err.Error()
	return result
}
