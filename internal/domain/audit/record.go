// Package audit keeps the run history: one JSON record per run, appended
// to a size-rotated JSONL file and queryable by role and status.
package audit

import (
	"time"

	"github.com/felixgeelhaar/baseline/internal/domain/execution"
)

// CheckRecord is one preflight check in a run record.
type CheckRecord struct {
	Check  string `json:"check"`
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// StepRecord is one step result in a run record.
type StepRecord struct {
	Name       string `json:"name"`
	Path       string `json:"path"`
	Required   bool   `json:"required"`
	Status     string `json:"status"`
	ExitCode   *int   `json:"exit_code,omitempty"`
	DurationMS int64  `json:"duration_ms"`
	Attempts   int    `json:"attempts,omitempty"`
	Error      string `json:"error,omitempty"`
}

// RunRecord is the persisted form of a run report.
type RunRecord struct {
	RunID      string        `json:"run_id"`
	Role       string        `json:"role"`
	Host       string        `json:"host,omitempty"`
	Status     string        `json:"status"`
	Success    bool          `json:"success"`
	StartedAt  time.Time     `json:"started_at"`
	FinishedAt time.Time     `json:"finished_at"`
	Error      string        `json:"error,omitempty"`
	Preflight  []CheckRecord `json:"preflight,omitempty"`
	Steps      []StepRecord  `json:"steps"`
}

// NewRunRecord converts a finished report.
func NewRunRecord(report *execution.Report, host string) RunRecord {
	rec := RunRecord{
		RunID:      report.RunID(),
		Role:       report.Role(),
		Host:       host,
		Status:     string(report.Status()),
		Success:    report.OverallSuccess(),
		StartedAt:  report.Started(),
		FinishedAt: report.Finished(),
		Steps:      make([]StepRecord, 0, len(report.Results())),
	}
	if err := report.Err(); err != nil {
		rec.Error = err.Error()
	}

	for _, c := range report.Preflight().Checks {
		cr := CheckRecord{Check: string(c.Check), Status: string(c.Status)}
		if c.Err != nil {
			cr.Error = c.Err.Error()
		}
		rec.Preflight = append(rec.Preflight, cr)
	}

	for _, r := range report.Results() {
		sr := StepRecord{
			Name:       r.Name(),
			Path:       r.Path(),
			Required:   r.Required(),
			Status:     string(r.Status()),
			DurationMS: r.Duration().Milliseconds(),
			Attempts:   r.Attempts(),
		}
		if code, ok := r.ExitCode(); ok {
			sr.ExitCode = &code
		}
		if err := r.Error(); err != nil {
			sr.Error = err.Error()
		}
		rec.Steps = append(rec.Steps, sr)
	}

	return rec
}

// Duration returns the wall time of the run.
func (r RunRecord) Duration() time.Duration {
	if r.StartedAt.IsZero() || r.FinishedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

// FailedStep returns the first failed or missing step, if any.
func (r RunRecord) FailedStep() (StepRecord, bool) {
	for _, s := range r.Steps {
		if s.Status == string(execution.StepFailed) || s.Status == string(execution.StepMissing) {
			return s, true
		}
	}
	return StepRecord{}, false
}
