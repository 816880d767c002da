package probe

import (
	"context"
	"errors"
	"os/exec"
	"regexp"
	"strconv"
	"strings"

	"github.com/netprobehq/agent/internal/executor"
	"github.com/netprobehq/agent/pkg/types"
)

// Hop is one row of an mtr report.
type Hop struct {
	Hop         string `json:"hop"`
	Host        string `json:"host"`
	LossPercent string `json:"loss_percent"`
}

// Report rows read "  1.|-- 192.0.2.1   0.0%  ..."; the |-- prefix is
// optional because some builds emit a bare hop index.
var mtrHopPattern = regexp.MustCompile(`^\s*(\d+)\.(?:\|--)?\s+(\S+)\s+(\S+)%\s+`)

// Mtr runs mtr in report mode with numeric output and parses the per-hop
// loss table from its report.
func (e *Engine) Mtr(ctx context.Context, opts MtrOptions) types.Result {
	tool := opts.Tool
	if tool == "" {
		tool = "network.mtr"
	}
	count := opts.Count
	if count <= 0 {
		count = e.defaults.MtrCycles
	}
	cycles := opts.ReportCycles
	if cycles <= 0 {
		cycles = count
	}

	args := []string{"-r", "-c", strconv.Itoa(cycles), "-n", opts.Target}
	cmdResult, err := e.run(ctx, opts.TimeoutSec, "mtr", args...)

	result := types.Result{
		Tool:         tool,
		Target:       opts.Target,
		Count:        count,
		ReportCycles: cycles,
		Summary:      map[string]any{},
	}

	if cmdResult != nil {
		result.RawOutput = executor.TrimOutput(cmdResult.Stdout, rawOutputLimit)
		result.Summary["duration_ms"] = cmdResult.Duration.Milliseconds()
		hops := extractHops(cmdResult.Stdout)
		result.Summary["hops"] = hops
		result.Summary["total_hops"] = len(hops)
	}

	if err == nil {
		result.Success = true
		return result
	}
	if errors.Is(err, exec.ErrNotFound) {
		result.Error = "mtr command not found (install mtr or grant permissions)"
		return result
	}
	result.Error = err.Error()
	return result
}

// extractHops turns the mtr report body into hop entries, in output order.
// Lines that do not match the hop pattern (headers, annotations) are skipped.
func extractHops(output string) []Hop {
	var hops []Hop
	for _, line := range strings.Split(output, "\n") {
		m := mtrHopPattern.FindStringSubmatch(line)
		if len(m) >= 4 {
			hops = append(hops, Hop{Hop: m[1], Host: m[2], LossPercent: m[3]})
		}
	}
	return hops
}
