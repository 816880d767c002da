package types

// Result is the uniform output record produced by every probe. Downstream
// consumers depend only on this shape, regardless of which probe ran.
//
// Exactly one target-identification shape is populated per probe kind:
// Target for ping/traceroute/mtr/nslookup, Host+Port for tcp/tls, URL for
// http. Error is non-empty if and only if Success is false.
type Result struct {
	Success      bool           `json:"success"`
	Tool         string         `json:"tool,omitempty"`
	Error        string         `json:"error,omitempty"`
	Target       string         `json:"target,omitempty"`
	Host         string         `json:"host,omitempty"`
	Port         int            `json:"port,omitempty"`
	URL          string         `json:"url,omitempty"`
	RecordType   string         `json:"record_type,omitempty"`
	Count        int            `json:"count,omitempty"`
	MaxHops      int            `json:"max_hops,omitempty"`
	ReportCycles int            `json:"report_cycles,omitempty"`
	LatencyMs    float64        `json:"latency_ms,omitempty"`
	StatusCode   int            `json:"status_code,omitempty"`
	Protocol     string         `json:"protocol,omitempty"`
	Cipher       string         `json:"cipher,omitempty"`
	RawOutput    string         `json:"raw_output,omitempty"`
	Summary      map[string]any `json:"summary,omitempty"`
	Details      map[string]any `json:"details,omitempty"`
}
