package probe

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/netprobehq/agent/pkg/types"
)

// bodySnippetLimit caps how much of a response body the probe reads.
const bodySnippetLimit = 4096

// HTTP issues one request and evaluates the caller's expectations against
// the response. Status code and response details are reported regardless of
// expectation outcome.
func (e *Engine) HTTP(ctx context.Context, opts HTTPOptions) types.Result {
	tool := opts.Tool
	if tool == "" {
		tool = "network.http"
	}
	timeoutSec := opts.TimeoutSec
	if timeoutSec <= 0 {
		timeoutSec = e.defaults.HTTPTimeoutSec
	}
	method := strings.ToUpper(opts.Method)
	if method == "" {
		method = http.MethodGet
	}

	var bodyReader io.Reader
	if opts.Body != "" {
		bodyReader = bytes.NewBufferString(opts.Body)
	}

	req, err := http.NewRequestWithContext(ctx, method, opts.URL, bodyReader)
	if err != nil {
		return types.Result{
			Tool:  tool,
			URL:   opts.URL,
			Error: fmt.Sprintf("build request failed: %v", err),
		}
	}
	for k, v := range opts.Headers {
		req.Header.Set(k, v)
	}

	client := http.Client{Timeout: time.Duration(timeoutSec) * time.Second}
	if e.httpClient != nil {
		client = *e.httpClient
		client.Timeout = time.Duration(timeoutSec) * time.Second
	}

	start := time.Now()
	resp, err := client.Do(req)
	latency := time.Since(start)
	if err != nil {
		return types.Result{
			Tool:  tool,
			URL:   opts.URL,
			Error: fmt.Sprintf("request failed: %v", err),
		}
	}
	defer resp.Body.Close()

	bodyBytes, _ := io.ReadAll(io.LimitReader(resp.Body, bodySnippetLimit))
	bodySnippet := string(bodyBytes)

	details := map[string]any{
		"response_headers": resp.Header,
		"body_snippet":     bodySnippet,
		"content_length":   resp.ContentLength,
	}

	var expectErr string
	if opts.ExpectStatus != 0 && resp.StatusCode != opts.ExpectStatus {
		expectErr = fmt.Sprintf("expect status %d, got %d", opts.ExpectStatus, resp.StatusCode)
	}
	if opts.ExpectContains != "" && !strings.Contains(bodySnippet, opts.ExpectContains) {
		if expectErr != "" {
			expectErr += "; "
		}
		expectErr += "response not contains expected substring"
	}

	return types.Result{
		Success:    expectErr == "",
		Tool:       tool,
		URL:        opts.URL,
		StatusCode: resp.StatusCode,
		LatencyMs:  float64(latency.Milliseconds()),
		Details:    details,
		Error:      expectErr,
	}
}
