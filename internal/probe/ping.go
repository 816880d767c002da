package probe

import (
	"context"
	"errors"
	"os/exec"
	"strings"

	"github.com/netprobehq/agent/internal/executor"
	"github.com/netprobehq/agent/pkg/types"
)

// Ping runs the system ping utility against the target and extracts the
// packet-loss and round-trip summary lines from its output.
func (e *Engine) Ping(ctx context.Context, opts PingOptions) types.Result {
	tool := opts.Tool
	if tool == "" {
		tool = "network.ping"
	}
	count := opts.Count
	if count <= 0 {
		count = e.defaults.PingCount
	}

	cmdResult, err := e.run(ctx, opts.TimeoutSec, pingCmd.binary, pingCmd.args(count, opts.TimeoutSec, opts.Target)...)

	result := types.Result{
		Tool:    tool,
		Target:  opts.Target,
		Count:   count,
		Summary: map[string]any{},
	}

	if cmdResult != nil {
		result.RawOutput = executor.TrimOutput(cmdResult.Stdout, rawOutputLimit)
		loss, rtt := pingSummaryLines(cmdResult.Stdout)
		if loss != "" {
			result.Summary["packet_loss_line"] = loss
		}
		if rtt != "" {
			result.Summary["rtt_line"] = rtt
		}
	}

	if err == nil {
		result.Success = true
		return result
	}
	if errors.Is(err, exec.ErrNotFound) {
		result.Error = "ping command not found"
		return result
	}
	result.Error = err.Error()
	return result
}

// pingSummaryLines scans ping output for the packet-loss and RTT statistic
// lines. Matching is case-insensitive and tolerates the zh-CN phrases some
// Windows installs emit. The last matching line wins.
func pingSummaryLines(output string) (lossLine, rttLine string) {
	for _, line := range strings.Split(output, "\n") {
		l := strings.TrimSpace(line)
		if l == "" {
			continue
		}
		lower := strings.ToLower(l)
		if strings.Contains(lower, "packet loss") || strings.Contains(l, "丢失") {
			lossLine = l
		}
		if strings.Contains(lower, "rtt") || strings.Contains(lower, "round-trip") || strings.Contains(l, "往返行程") {
			rttLine = l
		}
	}
	return lossLine, rttLine
}
