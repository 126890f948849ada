// Package command provides command execution adapters.
package command

import (
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/felixgeelhaar/baseline/internal/ports"
)

// RealRunner executes actual commands and captures their output.
type RealRunner struct{}

// NewRealRunner creates a new RealRunner.
func NewRealRunner() *RealRunner {
	return &RealRunner{}
}

// Run executes a command and returns the result.
func (r *RealRunner) Run(ctx context.Context, command string, args ...string) (ports.CommandResult, error) {
	cmd := exec.CommandContext(ctx, command, args...)

	var stdout, stderr strings.Builder
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()

	result := ports.CommandResult{
		ExitCode: 0,
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
	}

	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && ctx.Err() == nil {
			result.ExitCode = exitErr.ExitCode()
			return result, nil
		}
		result.ExitCode = -1
		if ctx.Err() != nil {
			return result, ctx.Err()
		}
		return result, err
	}

	return result, nil
}

// StreamRunner executes commands with inherited standard streams.
type StreamRunner struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

// StreamOption configures a StreamRunner.
type StreamOption func(*StreamRunner)

// WithStdin sets the child's standard input (default: os.Stdin).
func WithStdin(r io.Reader) StreamOption {
	return func(s *StreamRunner) {
		s.stdin = r
	}
}

// WithStdout sets the child's standard output (default: os.Stdout).
func WithStdout(w io.Writer) StreamOption {
	return func(s *StreamRunner) {
		s.stdout = w
	}
}

// WithStderr sets the child's standard error (default: os.Stderr).
func WithStderr(w io.Writer) StreamOption {
	return func(s *StreamRunner) {
		s.stderr = w
	}
}

// NewStreamRunner creates a StreamRunner attached to the process's own
// standard streams unless overridden.
func NewStreamRunner(opts ...StreamOption) *StreamRunner {
	s := &StreamRunner{
		stdin:  os.Stdin,
		stdout: os.Stdout,
		stderr: os.Stderr,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Stream runs the command to completion and returns its exit code.
// The child inherits the current environment. When ctx ends before the
// child exits, the child is killed and ctx.Err() is returned with exit
// code -1.
func (s *StreamRunner) Stream(ctx context.Context, command string, args ...string) (int, error) {
	cmd := exec.CommandContext(ctx, command, args...)
	cmd.Stdin = s.stdin
	cmd.Stdout = s.stdout
	cmd.Stderr = s.stderr

	err := cmd.Run()
	if err == nil {
		return 0, nil
	}

	if ctx.Err() != nil {
		return -1, ctx.Err()
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode(), nil
	}
	return -1, err
}

// Ensure the runners implement their ports.
var (
	_ ports.CommandRunner   = (*RealRunner)(nil)
	_ ports.StreamingRunner = (*StreamRunner)(nil)
)
