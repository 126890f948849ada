package execution

import (
	"errors"
	"time"
)

// StepStatus is the outcome of a single step.
type StepStatus string

const (
	// StepSucceeded means the step exited 0.
	StepSucceeded StepStatus = "succeeded"
	// StepFailed means the step exited non-zero, timed out or could not start.
	StepFailed StepStatus = "failed"
	// StepSkipped means an optional step was not found.
	StepSkipped StepStatus = "skipped"
	// StepMissing means a required step was not found.
	StepMissing StepStatus = "missing"
)

// String returns the string representation of the status.
func (s StepStatus) String() string {
	return string(s)
}

// StepResult captures the outcome of executing a single step.
type StepResult struct {
	name     string
	path     string
	required bool
	exitCode int
	hasExit  bool
	started  time.Time
	finished time.Time
	skipped  bool
	err      error
	attempts int
}

// NewStepResult creates a StepResult for step.
func NewStepResult(step Step) StepResult {
	return StepResult{
		name:     step.Name,
		path:     step.Path,
		required: step.Required,
	}
}

// Name returns the step name.
func (r StepResult) Name() string {
	return r.name
}

// Path returns the resolved executable path, or the configured one if it
// was never resolved.
func (r StepResult) Path() string {
	return r.path
}

// Required reports whether the step was required.
func (r StepResult) Required() bool {
	return r.required
}

// ExitCode returns the process exit code. ok is false when the step never
// produced one.
func (r StepResult) ExitCode() (code int, ok bool) {
	return r.exitCode, r.hasExit
}

// Started returns when the step started.
func (r StepResult) Started() time.Time {
	return r.started
}

// Finished returns when the step finished.
func (r StepResult) Finished() time.Time {
	return r.finished
}

// Duration returns how long the step took.
func (r StepResult) Duration() time.Duration {
	if r.started.IsZero() || r.finished.IsZero() {
		return 0
	}
	return r.finished.Sub(r.started)
}

// Skipped returns true if the step was skipped.
func (r StepResult) Skipped() bool {
	return r.skipped
}

// Error returns the step failure, if any.
func (r StepResult) Error() error {
	return r.err
}

// Attempts returns how many times the executable was invoked.
func (r StepResult) Attempts() int {
	return r.attempts
}

// Status derives the step status.
func (r StepResult) Status() StepStatus {
	var missing *StepMissingError
	switch {
	case r.skipped:
		return StepSkipped
	case errors.As(r.err, &missing):
		return StepMissing
	case r.err != nil:
		return StepFailed
	case r.hasExit && r.exitCode != 0:
		return StepFailed
	default:
		return StepSucceeded
	}
}

// Success returns true if the step ran and exited 0.
func (r StepResult) Success() bool {
	return r.Status() == StepSucceeded
}

// WithPath returns a new StepResult with the resolved path set.
func (r StepResult) WithPath(path string) StepResult {
	r.path = path
	return r
}

// WithExitCode returns a new StepResult with the exit code set.
func (r StepResult) WithExitCode(code int) StepResult {
	r.exitCode = code
	r.hasExit = true
	return r
}

// WithTiming returns a new StepResult with start and finish times set.
func (r StepResult) WithTiming(started, finished time.Time) StepResult {
	r.started = started
	r.finished = finished
	return r
}

// WithSkipped returns a new StepResult marked as skipped.
func (r StepResult) WithSkipped() StepResult {
	r.skipped = true
	return r
}

// WithError returns a new StepResult with err set.
func (r StepResult) WithError(err error) StepResult {
	r.err = err
	return r
}

// WithAttempts returns a new StepResult with the attempt count set.
func (r StepResult) WithAttempts(n int) StepResult {
	r.attempts = n
	return r
}
