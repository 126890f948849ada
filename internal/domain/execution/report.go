package execution

import (
	"time"

	"github.com/google/uuid"

	"github.com/felixgeelhaar/baseline/internal/domain/preflight"
)

// Report aggregates a run: preflight outcome, step results in execution
// order and the lifecycle state.
type Report struct {
	runID     string
	role      string
	lifecycle *Lifecycle
	preflight preflight.Outcome
	results   []StepResult
	err       error
	dryRun    bool
}

// NewReport creates a pending report with a fresh run id.
func NewReport(role string, now func() time.Time) (*Report, error) {
	lifecycle, err := NewLifecycle(now)
	if err != nil {
		return nil, err
	}
	return &Report{
		runID:     uuid.NewString(),
		role:      role,
		lifecycle: lifecycle,
	}, nil
}

// RunID returns the unique id of the run.
func (r *Report) RunID() string {
	return r.runID
}

// Role returns the role the run executed.
func (r *Report) Role() string {
	return r.role
}

// Status returns the lifecycle state.
func (r *Report) Status() Status {
	return r.lifecycle.Status()
}

// Started returns when the run began.
func (r *Report) Started() time.Time {
	return r.lifecycle.Started()
}

// Finished returns when the run ended.
func (r *Report) Finished() time.Time {
	return r.lifecycle.Finished()
}

// Preflight returns the preflight outcome.
func (r *Report) Preflight() preflight.Outcome {
	return r.preflight
}

// Results returns a copy of the step results.
func (r *Report) Results() []StepResult {
	out := make([]StepResult, len(r.results))
	copy(out, r.results)
	return out
}

// Err returns the error that ended the run, if any.
func (r *Report) Err() error {
	return r.err
}

// DryRun reports whether steps were only planned.
func (r *Report) DryRun() bool {
	return r.dryRun
}

// OverallSuccess is true when preflight passed, no required step failed or
// was missing, and the run was not cancelled.
func (r *Report) OverallSuccess() bool {
	return r.Status() == StatusSucceeded
}

// Counts returns the number of succeeded, failed and skipped steps.
func (r *Report) Counts() (succeeded, failed, skipped int) {
	for _, res := range r.results {
		switch res.Status() {
		case StepSucceeded:
			succeeded++
		case StepSkipped:
			skipped++
		case StepFailed, StepMissing:
			failed++
		}
	}
	return succeeded, failed, skipped
}

// BeginPreflight moves a pending run into the preflight state.
func (r *Report) BeginPreflight() error {
	return r.lifecycle.Send(EventPreflight)
}

// CompletePreflight records outcome and moves the run to running or failed.
func (r *Report) CompletePreflight(outcome preflight.Outcome) error {
	r.preflight = outcome
	if !outcome.Passed() {
		r.err = outcome.Err
		return r.lifecycle.Send(EventPreflightFailed)
	}
	return r.lifecycle.Send(EventPreflightPassed)
}

// Fail ends a non-terminal run with err.
func (r *Report) Fail(err error) error {
	r.err = err
	return r.lifecycle.Send(EventFail)
}

// MarkDryRun flags the report as a plan-only run.
func (r *Report) MarkDryRun() {
	r.dryRun = true
}

// start moves a pending run straight to running; a run already running
// after preflight is left as is.
func (r *Report) start() error {
	if r.Status() == StatusRunning {
		return nil
	}
	return r.lifecycle.Send(EventStart)
}

func (r *Report) add(result StepResult) {
	r.results = append(r.results, result)
}

func (r *Report) succeed() error {
	return r.lifecycle.Send(EventSucceed)
}

func (r *Report) cancel() error {
	r.err = ErrCancelled
	return r.lifecycle.Send(EventCancel)
}
