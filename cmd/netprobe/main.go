package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/netprobehq/agent/internal/batch"
	"github.com/netprobehq/agent/internal/config"
	"github.com/netprobehq/agent/internal/logging"
	"github.com/netprobehq/agent/internal/probe"
	"github.com/netprobehq/agent/pkg/types"
)

func main() {
	ctx := context.Background()

	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, usage())
		os.Exit(1)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	switch cmd {
	case "-h", "--help", "help":
		fmt.Println(usage())
		return
	}

	cfg, err := config.LoadFromEnv(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.New()
	engine := probe.NewEngine(cfg.Defaults, probe.Dependencies{Logger: logger})

	if cmd == "batch" {
		env, err := runBatch(ctx, engine, cfg, logger, args)
		if err != nil {
			fmt.Fprintf(os.Stderr, "batch failed: %v\n", err)
			os.Exit(1)
		}
		printJSON(env)
		return
	}

	printJSON(runProbe(ctx, engine, cmd, args))
}

// runProbe parses the subcommand's flags and invokes exactly one probe.
// Dispatch-level failures (unknown subcommand, missing required flag) become
// a failed Result without any probe executing.
func runProbe(ctx context.Context, engine *probe.Engine, cmd string, args []string) types.Result {
	switch cmd {
	case "ping":
		fs := newFlagSet("ping")
		target := fs.String("target", "", "target host or ip")
		count := fs.Int("count", 4, "ping count")
		timeout := fs.Int("timeout", 10, "timeout seconds")
		if err := fs.Parse(args); err != nil {
			return dispatchError(cmd, err)
		}
		if *target == "" {
			return dispatchError(cmd, fmt.Errorf("target is required"))
		}
		return engine.Ping(ctx, probe.PingOptions{
			Target:     *target,
			Count:      *count,
			TimeoutSec: *timeout,
		})

	case "trace", "traceroute":
		fs := newFlagSet("trace")
		target := fs.String("target", "", "target host or ip")
		maxHops := fs.Int("max-hops", 30, "max hops")
		timeout := fs.Int("timeout", 60, "timeout seconds")
		if err := fs.Parse(args); err != nil {
			return dispatchError(cmd, err)
		}
		if *target == "" {
			return dispatchError(cmd, fmt.Errorf("target is required"))
		}
		return engine.Traceroute(ctx, probe.TraceOptions{
			Target:     *target,
			MaxHops:    *maxHops,
			TimeoutSec: *timeout,
		})

	case "mtr":
		fs := newFlagSet("mtr")
		target := fs.String("target", "", "target host or ip")
		count := fs.Int("count", 10, "probe count")
		reportCycles := fs.Int("report-cycles", 0, "report cycles (defaults to count)")
		timeout := fs.Int("timeout", 60, "timeout seconds")
		if err := fs.Parse(args); err != nil {
			return dispatchError(cmd, err)
		}
		if *target == "" {
			return dispatchError(cmd, fmt.Errorf("target is required"))
		}
		return engine.Mtr(ctx, probe.MtrOptions{
			Target:       *target,
			Count:        *count,
			ReportCycles: *reportCycles,
			TimeoutSec:   *timeout,
		})

	case "nslookup":
		fs := newFlagSet("nslookup")
		target := fs.String("target", "", "domain to query")
		recordType := fs.String("record-type", "A", "DNS record type")
		timeout := fs.Int("timeout", 10, "timeout seconds")
		if err := fs.Parse(args); err != nil {
			return dispatchError(cmd, err)
		}
		if *target == "" {
			return dispatchError(cmd, fmt.Errorf("target is required"))
		}
		return engine.Nslookup(ctx, probe.NslookupOptions{
			Target:     *target,
			RecordType: *recordType,
			TimeoutSec: *timeout,
		})

	case "tcp":
		fs := newFlagSet("tcp")
		host := fs.String("host", "", "target host")
		port := fs.Int("port", 0, "target port")
		timeout := fs.Int("timeout", 10, "timeout seconds")
		retry := fs.Int("retry", 0, "retry times")
		if err := fs.Parse(args); err != nil {
			return dispatchError(cmd, err)
		}
		if *host == "" || *port == 0 {
			return dispatchError(cmd, fmt.Errorf("host and port are required"))
		}
		return engine.TCP(ctx, probe.TCPOptions{
			Host:       *host,
			Port:       *port,
			TimeoutSec: *timeout,
			Retry:      *retry,
		})

	case "tls":
		fs := newFlagSet("tls")
		host := fs.String("host", "", "target host")
		port := fs.Int("port", 443, "target port")
		serverName := fs.String("server-name", "", "server name for SNI")
		timeout := fs.Int("timeout", 10, "timeout seconds")
		insecure := fs.Bool("insecure", false, "skip certificate verification")
		caCert := fs.String("ca-cert", "", "CA certificate path")
		clientCert := fs.String("client-cert", "", "client certificate path")
		clientKey := fs.String("client-key", "", "client key path")
		if err := fs.Parse(args); err != nil {
			return dispatchError(cmd, err)
		}
		if *host == "" || *port == 0 {
			return dispatchError(cmd, fmt.Errorf("host and port are required"))
		}
		return engine.TLS(ctx, probe.TLSOptions{
			Host:       *host,
			Port:       *port,
			ServerName: *serverName,
			TimeoutSec: *timeout,
			Insecure:   *insecure,
			CACert:     *caCert,
			ClientCert: *clientCert,
			ClientKey:  *clientKey,
		})

	case "http":
		fs := newFlagSet("http")
		url := fs.String("url", "", "target url")
		method := fs.String("method", "GET", "http method")
		timeout := fs.Int("timeout", 15, "timeout seconds")
		expectStatus := fs.Int("expect-status", 0, "expected status code")
		expectContains := fs.String("expect-contains", "", "expected substring in body")
		body := fs.String("body", "", "request body")
		headersJSON := fs.String("headers", "", `headers as JSON object, e.g. {"User-Agent":"netprobe"}`)
		headerKVs := multiString{}
		fs.Var(&headerKVs, "header", "single header in 'Key: Value' format (can repeat)")
		if err := fs.Parse(args); err != nil {
			return dispatchError(cmd, err)
		}
		if *url == "" {
			return dispatchError(cmd, fmt.Errorf("url is required"))
		}
		headers, err := parseHeaders(*headersJSON, headerKVs)
		if err != nil {
			return dispatchError(cmd, err)
		}
		return engine.HTTP(ctx, probe.HTTPOptions{
			URL:            *url,
			Method:         *method,
			Headers:        headers,
			Body:           *body,
			TimeoutSec:     *timeout,
			ExpectStatus:   *expectStatus,
			ExpectContains: *expectContains,
		})

	default:
		return dispatchError(cmd, fmt.Errorf("unknown subcommand: %s", cmd))
	}
}

func runBatch(ctx context.Context, engine *probe.Engine, cfg config.Config, logger *log.Logger, args []string) (types.RunEnvelope, error) {
	fs := newFlagSet("batch")
	filePath := fs.String("file", "", "path to batch YAML file")
	workers := fs.Int("workers", 0, "max concurrent probes (defaults from file or config)")
	if err := fs.Parse(args); err != nil {
		return types.RunEnvelope{}, err
	}
	if *filePath == "" {
		return types.RunEnvelope{}, fmt.Errorf("file is required")
	}

	file, err := batch.Load(*filePath)
	if err != nil {
		return types.RunEnvelope{}, err
	}

	workerCount := *workers
	if workerCount <= 0 {
		workerCount = file.Workers
	}
	if workerCount <= 0 {
		workerCount = cfg.Batch.Workers
	}
	ratePerSec := file.RatePerSec
	if ratePerSec <= 0 {
		ratePerSec = cfg.Batch.RatePerSec
	}

	runner := batch.NewRunner(engine,
		batch.WithWorkers(workerCount),
		batch.WithRate(ratePerSec),
		batch.WithLogger(logger),
	)
	return runner.Run(ctx, file.Probes)
}

func newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

// dispatchError builds the failed Result the façade emits when no probe ran.
func dispatchError(cmd string, err error) types.Result {
	return types.Result{
		Tool:  "network." + cmd,
		Error: err.Error(),
	}
}

// parseHeaders merges the JSON headers object with repeated Key: Value
// flags; the repeated flags win on conflict.
func parseHeaders(headersJSON string, headerKVs []string) (map[string]string, error) {
	headers := map[string]string{}
	if headersJSON != "" {
		if err := json.Unmarshal([]byte(headersJSON), &headers); err != nil {
			return nil, fmt.Errorf("invalid headers json")
		}
	}
	for _, h := range headerKVs {
		parts := strings.SplitN(h, ":", 2)
		if len(parts) == 2 {
			headers[strings.TrimSpace(parts[0])] = strings.TrimSpace(parts[1])
		}
	}
	return headers, nil
}

type multiString []string

func (m *multiString) String() string {
	return strings.Join(*m, ",")
}

func (m *multiString) Set(val string) error {
	*m = append(*m, val)
	return nil
}

func printJSON(v any) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "marshal result failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(string(data))
}

func usage() string {
	return `netprobe <subcommand> [options]

subcommands:
  ping         --target <host> [--count 4] [--timeout 10]
  trace        --target <host> [--max-hops 30] [--timeout 60]
  mtr          --target <host> [--count 10] [--report-cycles <count>] [--timeout 60]
  nslookup     --target <domain> [--record-type A] [--timeout 10]
  tcp          --host <host> --port <port> [--timeout 10] [--retry 0]
  tls          --host <host> [--port 443] [--server-name <sni>] [--timeout 10] [--insecure] [--ca-cert path] [--client-cert path --client-key path]
  http         --url <url> [--method GET] [--timeout 15] [--expect-status <code>] [--expect-contains <str>] [--body <data>] [--headers <json>] [--header "K: V"]
  batch        --file <batch.yaml> [--workers <n>]

configuration defaults are read from $NETPROBE_CONFIG (or /etc/netprobe/netprobe.yaml) when present.`
}
