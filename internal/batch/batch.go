// Package batch runs a declared list of probe specs concurrently and wraps
// the results in a run envelope. One batch invocation is still a single
// synchronous call; nothing is scheduled or retained across calls.
package batch

import (
	"context"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/netprobehq/agent/internal/probe"
	"github.com/netprobehq/agent/pkg/types"
)

const defaultWorkers = 4

// Runner executes batches against a probe engine.
type Runner struct {
	engine  *probe.Engine
	workers int
	limiter *rate.Limiter
	logger  *log.Logger
}

type Option func(*Runner)

// WithWorkers bounds how many probes run concurrently.
func WithWorkers(n int) Option {
	return func(r *Runner) {
		if n > 0 {
			r.workers = n
		}
	}
}

// WithRate paces probe starts at perSec launches per second. Zero disables
// pacing.
func WithRate(perSec float64) Option {
	return func(r *Runner) {
		if perSec > 0 {
			r.limiter = rate.NewLimiter(rate.Limit(perSec), 1)
		}
	}
}

func WithLogger(logger *log.Logger) Option {
	return func(r *Runner) {
		if logger != nil {
			r.logger = logger
		}
	}
}

func NewRunner(engine *probe.Engine, opts ...Option) *Runner {
	r := &Runner{
		engine:  engine,
		workers: defaultWorkers,
		logger:  log.New(io.Discard, "", 0),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run executes every spec and returns the envelope with results at their
// input index. Probe-level failures live inside each Result; the returned
// error is reserved for cancellation of the run itself.
func (r *Runner) Run(ctx context.Context, specs []Spec) (types.RunEnvelope, error) {
	start := time.Now()
	env := types.RunEnvelope{
		RunID:     uuid.NewString(),
		StartedAt: start.UTC(),
		Results:   make([]types.Result, len(specs)),
	}
	r.logger.Printf("batch %s starting (%d probes, %d workers)", env.RunID, len(specs), r.workers)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)
	for i, spec := range specs {
		i, spec := i, spec
		g.Go(func() error {
			if r.limiter != nil {
				if err := r.limiter.Wait(gctx); err != nil {
					return err
				}
			}
			env.Results[i] = r.dispatch(gctx, spec)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return env, err
	}

	env.DurationMs = time.Since(start).Milliseconds()
	r.logger.Printf("batch %s finished in %dms", env.RunID, env.DurationMs)
	return env, nil
}

// dispatch maps one spec to one probe invocation. Invalid specs become
// failed Results rather than errors, matching the CLI dispatch contract.
func (r *Runner) dispatch(ctx context.Context, spec Spec) types.Result {
	kind := strings.ToLower(spec.Kind)
	if err := spec.validate(); err != nil {
		return types.Result{
			Tool:  "network." + kind,
			Error: err.Error(),
		}
	}

	switch kind {
	case "ping":
		return r.engine.Ping(ctx, probe.PingOptions{
			Target:     spec.Target,
			Count:      spec.Count,
			TimeoutSec: spec.TimeoutSec,
		})
	case "trace", "traceroute":
		return r.engine.Traceroute(ctx, probe.TraceOptions{
			Target:     spec.Target,
			MaxHops:    spec.MaxHops,
			TimeoutSec: spec.TimeoutSec,
		})
	case "mtr":
		return r.engine.Mtr(ctx, probe.MtrOptions{
			Target:       spec.Target,
			Count:        spec.Count,
			ReportCycles: spec.ReportCycles,
			TimeoutSec:   spec.TimeoutSec,
		})
	case "nslookup":
		return r.engine.Nslookup(ctx, probe.NslookupOptions{
			Target:     spec.Target,
			RecordType: spec.RecordType,
			TimeoutSec: spec.TimeoutSec,
		})
	case "tcp":
		return r.engine.TCP(ctx, probe.TCPOptions{
			Host:       spec.Host,
			Port:       spec.Port,
			TimeoutSec: spec.TimeoutSec,
			Retry:      spec.Retry,
		})
	case "tls":
		return r.engine.TLS(ctx, probe.TLSOptions{
			Host:       spec.Host,
			Port:       spec.Port,
			ServerName: spec.ServerName,
			TimeoutSec: spec.TimeoutSec,
			Insecure:   spec.Insecure,
			CACert:     spec.CACert,
			ClientCert: spec.ClientCert,
			ClientKey:  spec.ClientKey,
		})
	case "http":
		return r.engine.HTTP(ctx, probe.HTTPOptions{
			URL:            spec.URL,
			Method:         spec.Method,
			Headers:        spec.Headers,
			Body:           spec.Body,
			TimeoutSec:     spec.TimeoutSec,
			ExpectStatus:   spec.ExpectStatus,
			ExpectContains: spec.ExpectContains,
		})
	default:
		return types.Result{
			Tool:  "network." + kind,
			Error: fmt.Sprintf("unknown probe kind: %s", spec.Kind),
		}
	}
}
