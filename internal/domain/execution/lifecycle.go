package execution

import (
	"fmt"
	"sync"
	"time"

	"github.com/felixgeelhaar/statekit"
)

// Status is the state of a run.
type Status string

const (
	// StatusPending means the run has not started.
	StatusPending Status = "pending"
	// StatusPreflight means preflight checks are running.
	StatusPreflight Status = "preflight"
	// StatusRunning means steps are executing.
	StatusRunning Status = "running"
	// StatusSucceeded means every step completed.
	StatusSucceeded Status = "succeeded"
	// StatusFailed means preflight, log setup or a step failed.
	StatusFailed Status = "failed"
	// StatusCancelled means the run was cancelled between steps.
	StatusCancelled Status = "cancelled"
)

// IsTerminal returns true if no further transitions are possible.
func (s Status) IsTerminal() bool {
	switch s {
	case StatusSucceeded, StatusFailed, StatusCancelled:
		return true
	case StatusPending, StatusPreflight, StatusRunning:
		return false
	}
	return false
}

// Event types for the run lifecycle machine.
const (
	EventPreflight       = "PREFLIGHT"
	EventPreflightPassed = "PREFLIGHT_PASSED"
	EventPreflightFailed = "PREFLIGHT_FAILED"
	EventStart           = "START"
	EventSucceed         = "SUCCEED"
	EventFail            = "FAIL"
	EventCancel          = "CANCEL"
)

// lifecycleContext is the statekit context type. Timestamps are recorded
// through the Lifecycle pointer captured by the actions.
type lifecycleContext struct{}

// Lifecycle tracks the state of one run.
type Lifecycle struct {
	mu       sync.Mutex
	interp   *statekit.Interpreter[lifecycleContext]
	now      func() time.Time
	started  time.Time
	finished time.Time
}

// NewLifecycle creates a lifecycle in the pending state.
func NewLifecycle(now func() time.Time) (*Lifecycle, error) {
	if now == nil {
		now = time.Now
	}
	l := &Lifecycle{now: now}

	machine, err := statekit.NewMachine[lifecycleContext]("baseline-run").
		WithInitial(statekit.StateID(StatusPending)).
		WithContext(lifecycleContext{}).
		WithAction("recordStart", func(_ *lifecycleContext, _ statekit.Event) {
			l.started = l.now()
		}).
		WithAction("recordFinish", func(_ *lifecycleContext, _ statekit.Event) {
			l.finished = l.now()
		}).
		State(statekit.StateID(StatusPending)).
		On(EventPreflight).Target(statekit.StateID(StatusPreflight)).
		On(EventStart).Target(statekit.StateID(StatusRunning)).
		On(EventFail).Target(statekit.StateID(StatusFailed)).
		On(EventCancel).Target(statekit.StateID(StatusCancelled)).Done().
		State(statekit.StateID(StatusPreflight)).
		OnEntry("recordStart").
		On(EventPreflightPassed).Target(statekit.StateID(StatusRunning)).
		On(EventPreflightFailed).Target(statekit.StateID(StatusFailed)).
		On(EventCancel).Target(statekit.StateID(StatusCancelled)).Done().
		State(statekit.StateID(StatusRunning)).
		OnEntry("recordStart").
		On(EventSucceed).Target(statekit.StateID(StatusSucceeded)).
		On(EventFail).Target(statekit.StateID(StatusFailed)).
		On(EventCancel).Target(statekit.StateID(StatusCancelled)).Done().
		State(statekit.StateID(StatusSucceeded)).
		OnEntry("recordFinish").Done().
		State(statekit.StateID(StatusFailed)).
		OnEntry("recordFinish").Done().
		State(statekit.StateID(StatusCancelled)).
		OnEntry("recordFinish").Done().
		Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build run lifecycle: %w", err)
	}

	l.interp = statekit.NewInterpreter(machine)
	l.interp.Start()
	return l, nil
}

// Status returns the current state.
func (l *Lifecycle) Status() Status {
	l.mu.Lock()
	defer l.mu.Unlock()
	return Status(l.interp.State().Value)
}

// Started returns when the run left the pending state.
func (l *Lifecycle) Started() time.Time {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.started
}

// Finished returns when the run reached a terminal state.
func (l *Lifecycle) Finished() time.Time {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.finished
}

// Send fires event and returns an error if the current state does not
// accept it.
func (l *Lifecycle) Send(event string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	before := Status(l.interp.State().Value)
	startedBefore := l.started
	l.interp.Send(statekit.Event{Type: statekit.EventType(event)})
	after := Status(l.interp.State().Value)

	if before == after {
		return fmt.Errorf("invalid run transition %s from %s", event, before)
	}
	// The run start time is the first non-pending state only.
	if !startedBefore.IsZero() {
		l.started = startedBefore
	}
	return nil
}
