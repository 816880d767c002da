package probe

// Option structs carry per-invocation parameters. A zero field means "use
// the engine default". Tool overrides the logical tool name in the Result.

type PingOptions struct {
	Target     string
	Count      int
	TimeoutSec int
	Tool       string
}

type TraceOptions struct {
	Target     string
	MaxHops    int
	TimeoutSec int
	Tool       string
}

type MtrOptions struct {
	Target       string
	Count        int
	ReportCycles int
	TimeoutSec   int
	Tool         string
}

type NslookupOptions struct {
	Target     string
	RecordType string
	TimeoutSec int
	Tool       string
}

type TCPOptions struct {
	Host       string
	Port       int
	TimeoutSec int
	Retry      int
	Tool       string
}

type TLSOptions struct {
	Host       string
	Port       int
	ServerName string
	TimeoutSec int
	Insecure   bool
	CACert     string
	ClientCert string
	ClientKey  string
	Tool       string
}

type HTTPOptions struct {
	URL            string
	Method         string
	Headers        map[string]string
	Body           string
	TimeoutSec     int
	ExpectStatus   int
	ExpectContains string
	Tool           string
}
