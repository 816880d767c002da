// Package probe implements the diagnostic probes. Each probe is a method on
// an Engine, takes a context and an options struct, and returns a fully
// populated types.Result; no error crosses the probe boundary.
package probe

import (
	"context"
	"io"
	"log"
	"net"
	"net/http"
	"time"

	"github.com/netprobehq/agent/internal/config"
	"github.com/netprobehq/agent/internal/executor"
)

// rawOutputLimit caps the raw command output attached to a Result.
const rawOutputLimit = 8000

// Resolver is the subset of net.Resolver the DNS fallback path uses,
// injectable for tests.
type Resolver interface {
	LookupHost(ctx context.Context, host string) ([]string, error)
	LookupIP(ctx context.Context, network, host string) ([]net.IP, error)
	LookupMX(ctx context.Context, name string) ([]*net.MX, error)
	LookupNS(ctx context.Context, name string) ([]*net.NS, error)
	LookupTXT(ctx context.Context, name string) ([]string, error)
	LookupCNAME(ctx context.Context, host string) (string, error)
}

// DialFunc establishes a network connection within the given timeout.
type DialFunc func(ctx context.Context, network, addr string, timeout time.Duration) (net.Conn, error)

// Dependencies provides optional overrides for the Engine's collaborators.
type Dependencies struct {
	RunCommand executor.RunFunc
	Resolver   Resolver
	Dial       DialFunc
	HTTPClient *http.Client
	Logger     *log.Logger
}

// Engine executes probes. Invocations share no mutable state, so a single
// Engine is safe for concurrent use.
type Engine struct {
	defaults   config.DefaultsConfig
	run        executor.RunFunc
	resolver   Resolver
	dial       DialFunc
	httpClient *http.Client
	logger     *log.Logger
}

// NewEngine builds an Engine with the given defaults, filling unset
// collaborators with real implementations.
func NewEngine(defaults config.DefaultsConfig, deps Dependencies) *Engine {
	e := &Engine{
		defaults:   defaults.OrDefaults(),
		run:        deps.RunCommand,
		resolver:   deps.Resolver,
		dial:       deps.Dial,
		httpClient: deps.HTTPClient,
		logger:     deps.Logger,
	}
	if e.run == nil {
		e.run = executor.Run
	}
	if e.resolver == nil {
		e.resolver = &net.Resolver{PreferGo: true}
	}
	if e.dial == nil {
		e.dial = dialTimeout
	}
	if e.logger == nil {
		e.logger = log.New(io.Discard, "", 0)
	}
	return e
}

func dialTimeout(ctx context.Context, network, addr string, timeout time.Duration) (net.Conn, error) {
	d := net.Dialer{Timeout: timeout}
	return d.DialContext(ctx, network, addr)
}
