package probe

import (
	"context"
	"encoding/json"
	"errors"
	"os/exec"
	"strings"
	"time"

	"github.com/netprobehq/agent/internal/executor"
	"github.com/netprobehq/agent/pkg/types"
)

// Nslookup runs the system nslookup utility. When the utility itself is
// missing (and only then) the probe falls back to a native resolver lookup
// keyed by record type; every other failure propagates directly.
func (e *Engine) Nslookup(ctx context.Context, opts NslookupOptions) types.Result {
	tool := opts.Tool
	if tool == "" {
		tool = "network.nslookup"
	}
	recordType := strings.ToUpper(opts.RecordType)
	if recordType == "" {
		recordType = "A"
	}

	var args []string
	if recordType != "A" {
		args = append(args, "-type="+recordType)
	}
	args = append(args, opts.Target)

	cmdResult, err := e.run(ctx, opts.TimeoutSec, "nslookup", args...)

	result := types.Result{
		Tool:       tool,
		Target:     opts.Target,
		RecordType: recordType,
		Summary:    map[string]any{},
	}

	if cmdResult != nil {
		result.RawOutput = executor.TrimOutput(cmdResult.Stdout, rawOutputLimit)
	}

	if err == nil {
		result.Success = true
		return result
	}

	if errors.Is(err, exec.ErrNotFound) {
		e.logger.Printf("nslookup not found, using native resolver (target=%s type=%s)", opts.Target, recordType)
		payload, lookupErr := e.fallbackLookup(ctx, recordType, opts.Target, opts.TimeoutSec)
		if lookupErr != nil {
			result.Error = lookupErr.Error()
			return result
		}
		// No raw tool text exists on this path; render the structured
		// answer as the raw-output payload instead.
		buf, _ := json.MarshalIndent(payload, "", "  ")
		result.RawOutput = string(buf)
		result.Success = true
		return result
	}

	result.Error = err.Error()
	return result
}

// fallbackLookup resolves target natively, keyed by record type. It uses its
// own deadline, independent of the command executor's.
func (e *Engine) fallbackLookup(ctx context.Context, recordType, target string, timeoutSec int) (map[string]any, error) {
	if timeoutSec <= 0 {
		timeoutSec = e.defaults.DNSTimeoutSec
	}
	ctx, cancel := context.WithTimeout(ctx, time.Duration(timeoutSec)*time.Second)
	defer cancel()

	switch recordType {
	case "AAAA":
		ips, err := e.resolver.LookupIP(ctx, "ip6", target)
		if err != nil {
			return nil, err
		}
		list := make([]string, 0, len(ips))
		for _, ip := range ips {
			list = append(list, ip.String())
		}
		return map[string]any{"AAAA": list}, nil
	case "MX":
		records, err := e.resolver.LookupMX(ctx, target)
		if err != nil {
			return nil, err
		}
		list := make([]map[string]any, 0, len(records))
		for _, r := range records {
			list = append(list, map[string]any{"host": r.Host, "pref": r.Pref})
		}
		return map[string]any{"MX": list}, nil
	case "NS":
		records, err := e.resolver.LookupNS(ctx, target)
		if err != nil {
			return nil, err
		}
		list := make([]string, 0, len(records))
		for _, r := range records {
			list = append(list, r.Host)
		}
		return map[string]any{"NS": list}, nil
	case "TXT":
		txts, err := e.resolver.LookupTXT(ctx, target)
		if err != nil {
			return nil, err
		}
		return map[string]any{"TXT": txts}, nil
	case "CNAME":
		cname, err := e.resolver.LookupCNAME(ctx, target)
		if err != nil {
			return nil, err
		}
		return map[string]any{"CNAME": cname}, nil
	default:
		// "A" and any unrecognized type resolve as a forward host lookup.
		ips, err := e.resolver.LookupHost(ctx, target)
		if err != nil {
			return nil, err
		}
		return map[string]any{"A": ips}, nil
	}
}
