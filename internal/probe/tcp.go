package probe

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/netprobehq/agent/pkg/types"
)

// TCP attempts a timed connection to host:port, retrying up to opts.Retry
// additional times and keeping only the last error.
func (e *Engine) TCP(ctx context.Context, opts TCPOptions) types.Result {
	tool := opts.Tool
	if tool == "" {
		tool = "network.tcp"
	}
	timeoutSec := opts.TimeoutSec
	if timeoutSec <= 0 {
		timeoutSec = e.defaults.TCPTimeoutSec
	}
	timeout := time.Duration(timeoutSec) * time.Second
	addr := net.JoinHostPort(opts.Host, strconv.Itoa(opts.Port))

	var lastErr error
	for attempt := 0; attempt <= opts.Retry; attempt++ {
		start := time.Now()
		conn, err := e.dial(ctx, "tcp", addr, timeout)
		if err == nil {
			latency := float64(time.Since(start).Milliseconds())
			_ = conn.Close()
			return types.Result{
				Success:   true,
				Tool:      tool,
				Host:      opts.Host,
				Port:      opts.Port,
				LatencyMs: latency,
			}
		}
		lastErr = err
	}

	return types.Result{
		Tool:  tool,
		Host:  opts.Host,
		Port:  opts.Port,
		Error: fmt.Sprintf("tcp dial failed: %v", lastErr),
	}
}
