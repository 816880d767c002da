package types

import "time"

// RunEnvelope wraps the results of one batch invocation. Results appear in
// the same order as the probe specs that produced them.
type RunEnvelope struct {
	RunID      string    `json:"run_id"`
	StartedAt  time.Time `json:"started_at"`
	DurationMs int64     `json:"duration_ms"`
	Results    []Result  `json:"results"`
}
