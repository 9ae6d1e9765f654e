package runner

// ResultStatus represents the outcome of generating one record.
type ResultStatus string

const (
	StatusPass ResultStatus = "pass"
	StatusFail ResultStatus = "fail"
	StatusSkip ResultStatus = "skip"
)

// Run statuses stored in LastRun.Status.
const (
	RunPass        = "pass"
	RunFail        = "fail"
	RunInterrupted = "interrupted"
)

// RecordResult is the result of a single generation request.
// Matches .specgen/run/results/<key>.json schema.
type RecordResult struct {
	// Key identifies the record within its document; see RecordKeys.
	Key        string       `json:"key"`
	Record     string       `json:"record"`
	Status     ResultStatus `json:"status"`
	Provider   string       `json:"provider,omitempty"`
	Code       string       `json:"code,omitempty"`
	Error      string       `json:"error,omitempty"`
	DurationMS int64        `json:"duration_ms"`
}

// StateKey returns the key results are stored under.
// Results written without a key fall back to the record name.
func (r RecordResult) StateKey() string {
	if r.Key != "" {
		return r.Key
	}
	return r.Record
}

// LastRun summarizes the latest execution.
// Matches .specgen/run/last-run.json schema. Records, Failed and Skipped
// hold record keys, not bare names.
type LastRun struct {
	RunID   string   `json:"run_id"`
	Status  string   `json:"status"`            // RunPass, RunFail or RunInterrupted
	Source  string   `json:"source"`            // document the records came from
	Records []string `json:"records"`           // Ordered list of records attempted
	Failed  []string `json:"failed"`            // Records whose generation failed
	Skipped []string `json:"skipped,omitempty"` // Records never attempted because the run was cancelled
}
