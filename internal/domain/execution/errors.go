package execution

import (
	"errors"
	"fmt"
	"time"
)

// ErrCancelled is returned when a run is cancelled between steps.
var ErrCancelled = errors.New("run cancelled")

// StepMissingError reports a required step whose executable does not exist.
type StepMissingError struct {
	Step string
	Path string
}

func (e *StepMissingError) Error() string {
	return fmt.Sprintf("required step %q not found at %s", e.Step, e.Path)
}

// StepExecutionError reports a step that exited non-zero or could not run.
// ExitCode is -1 when the process did not produce one.
type StepExecutionError struct {
	Step     string
	ExitCode int
	Err      error
}

func (e *StepExecutionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("step %q failed: %v", e.Step, e.Err)
	}
	return fmt.Sprintf("step %q failed with exit code %d", e.Step, e.ExitCode)
}

func (e *StepExecutionError) Unwrap() error {
	return e.Err
}

// WaitTimeoutError reports a wait step whose condition never held.
type WaitTimeoutError struct {
	Step         string
	Attempts     int
	Timeout      time.Duration
	LastExitCode int
}

func (e *WaitTimeoutError) Error() string {
	return fmt.Sprintf("step %q did not succeed within %s (%d attempts, last exit code %d)",
		e.Step, e.Timeout, e.Attempts, e.LastExitCode)
}

// UnknownStepError reports a step name that is not part of the role.
type UnknownStepError struct {
	Name string
}

func (e *UnknownStepError) Error() string {
	return fmt.Sprintf("unknown step %q", e.Name)
}
