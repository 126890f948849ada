package mocks

import (
	"context"
	"sync"

	"github.com/felixgeelhaar/baseline/internal/ports"
)

// StreamingRunner is a thread-safe test double for ports.StreamingRunner.
//
// Exit codes registered for a command are consumed one per invocation; the
// last one repeats. Unregistered commands exit 0.
type StreamingRunner struct {
	mu     sync.Mutex
	exits  map[string][]int
	errors map[string]error
	hooks  map[string]func(ctx context.Context)
	calls  []ports.CommandCall
}

// NewStreamingRunner creates a new StreamingRunner mock.
func NewStreamingRunner() *StreamingRunner {
	return &StreamingRunner{
		exits:  make(map[string][]int),
		errors: make(map[string]error),
		hooks:  make(map[string]func(ctx context.Context)),
	}
}

// AddExitCodes registers the exit codes successive invocations of command return.
func (m *StreamingRunner) AddExitCodes(command string, codes ...int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.exits[command] = append(m.exits[command], codes...)
}

// AddError registers a start failure for command.
func (m *StreamingRunner) AddError(command string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errors[command] = err
}

// OnStream registers a hook invoked while command "runs".
func (m *StreamingRunner) OnStream(command string, fn func(ctx context.Context)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hooks[command] = fn
}

// Stream records the invocation and returns the registered outcome.
func (m *StreamingRunner) Stream(ctx context.Context, command string, args ...string) (int, error) {
	m.mu.Lock()
	m.calls = append(m.calls, ports.CommandCall{Command: command, Args: args})
	hook := m.hooks[command]
	m.mu.Unlock()

	if hook != nil {
		hook(ctx)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if err, ok := m.errors[command]; ok {
		return -1, err
	}

	codes := m.exits[command]
	switch len(codes) {
	case 0:
		return 0, nil
	case 1:
		return codes[0], nil
	default:
		m.exits[command] = codes[1:]
		return codes[0], nil
	}
}

// Calls returns all recorded invocations.
func (m *StreamingRunner) Calls() []ports.CommandCall {
	m.mu.Lock()
	defer m.mu.Unlock()

	calls := make([]ports.CommandCall, len(m.calls))
	copy(calls, m.calls)
	return calls
}

// Commands returns the command of every recorded invocation, in order.
func (m *StreamingRunner) Commands() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	commands := make([]string, 0, len(m.calls))
	for _, c := range m.calls {
		commands = append(commands, c.Command)
	}
	return commands
}

// Ensure StreamingRunner implements ports.StreamingRunner.
var _ ports.StreamingRunner = (*StreamingRunner)(nil)
