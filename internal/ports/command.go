// Package ports defines interfaces for external dependencies.
package ports

import (
	"context"
)

// CommandResult represents the result of executing a command whose output
// is captured.
type CommandResult struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

// Success returns true if the command exited with code 0.
func (r CommandResult) Success() bool {
	return r.ExitCode == 0
}

// CommandCall records a command invocation.
type CommandCall struct {
	Command string
	Args    []string
}

// CommandRunner executes commands and captures their output.
// Used for host queries such as `sudo -n true`.
type CommandRunner interface {
	Run(ctx context.Context, command string, args ...string) (CommandResult, error)
}

// StreamingRunner executes commands with the caller's stdin, stdout and
// stderr attached, so their output interleaves live with the run log.
//
// Stream returns the process exit code. A non-nil error means the process
// could not be started or waited for; a non-zero exit is not an error.
type StreamingRunner interface {
	Stream(ctx context.Context, command string, args ...string) (int, error)
}
