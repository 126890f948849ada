package execution

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/felixgeelhaar/baseline/internal/ports"
	"github.com/felixgeelhaar/baseline/internal/retry"
)

// Runner executes steps strictly in order and stops at the first failure.
type Runner struct {
	streamer ports.StreamingRunner
	commands ports.CommandRunner
	fs       ports.FileSystem
	logger   ports.Logger
	escalate bool
	isRoot   func() bool
	now      func() time.Time
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithEscalation runs steps through `sudo -n` when the process is not root.
func WithEscalation(escalate bool) RunnerOption {
	return func(r *Runner) {
		r.escalate = escalate
	}
}

// WithCommandRunner sets the runner used for `sudo -n chmod` when the step
// file cannot be made executable directly during an escalated run.
func WithCommandRunner(c ports.CommandRunner) RunnerOption {
	return func(r *Runner) {
		r.commands = c
	}
}

// WithRootCheck replaces the effective-uid check used for escalation.
func WithRootCheck(fn func() bool) RunnerOption {
	return func(r *Runner) {
		r.isRoot = fn
	}
}

// WithClock sets the clock used for step timestamps.
func WithClock(now func() time.Time) RunnerOption {
	return func(r *Runner) {
		r.now = now
	}
}

// NewRunner creates a Runner.
func NewRunner(streamer ports.StreamingRunner, fs ports.FileSystem, logger ports.Logger, opts ...RunnerOption) *Runner {
	r := &Runner{
		streamer: streamer,
		fs:       fs,
		logger:   logger,
		isRoot:   func() bool { return os.Geteuid() == 0 },
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run executes steps relative to baseDir and returns the report.
func (r *Runner) Run(ctx context.Context, steps []Step, baseDir string) (*Report, error) {
	report, err := NewReport("", r.now)
	if err != nil {
		return nil, err
	}
	_ = r.RunInto(ctx, report, steps, baseDir)
	return report, nil
}

// RunInto executes steps and records them into report, which must be
// pending or running. It returns the error that ended the run: a
// *StepMissingError, *StepExecutionError, *WaitTimeoutError or ErrCancelled.
//
// Cancellation of ctx is honoured between steps only. A step that has
// started runs to completion or to its own timeout.
func (r *Runner) RunInto(ctx context.Context, report *Report, steps []Step, baseDir string) error {
	if err := report.start(); err != nil {
		return err
	}

	r.logger.Info(ctx, fmt.Sprintf("Starting %d step(s) from %s", len(steps), baseDir))

	for i, step := range steps {
		if ctx.Err() != nil {
			r.logger.Warn(ctx, fmt.Sprintf("Run cancelled, %d step(s) not started", len(steps)-i))
			_ = report.cancel()
			return ErrCancelled
		}

		result, err := r.runStep(ctx, step, baseDir)
		report.add(result)

		if err != nil {
			if errors.Is(err, ErrCancelled) {
				_ = report.cancel()
				return ErrCancelled
			}
			_ = report.Fail(err)
			return err
		}
	}

	r.logger.Info(ctx, "All steps completed successfully")
	return report.succeed()
}

func (r *Runner) runStep(ctx context.Context, step Step, baseDir string) (StepResult, error) {
	result := NewStepResult(step)

	path, err := ResolvePath(baseDir, step.Path)
	if err != nil {
		err = &StepExecutionError{Step: step.Name, ExitCode: -1, Err: err}
		return result.WithError(err), err
	}
	result = result.WithPath(path)

	if !r.fs.Exists(path) {
		if !step.Required {
			r.logger.Warn(ctx, fmt.Sprintf("Optional step %s not found at %s, skipping", step.Name, path))
			return result.WithSkipped(), nil
		}
		err := &StepMissingError{Step: step.Name, Path: path}
		r.logger.Error(ctx, fmt.Sprintf("Required step %s not found at %s", step.Name, path))
		return result.WithError(err), err
	}

	if err := r.ensureExecutable(ctx, path); err != nil {
		err = &StepExecutionError{Step: step.Name, ExitCode: -1, Err: err}
		r.logger.Error(ctx, err.Error())
		return result.WithError(err), err
	}

	r.logger.Info(ctx, fmt.Sprintf("Running step: %s", step.Name))
	started := r.now()

	if step.Wait != nil {
		result, err = r.waitFor(ctx, step, path, result)
	} else {
		result, err = r.invokeOnce(ctx, step, path, result)
	}
	result = result.WithTiming(started, r.now())

	switch {
	case errors.Is(err, ErrCancelled):
		r.logger.Warn(ctx, fmt.Sprintf("Step %s interrupted: run cancelled", step.Name))
	case err != nil:
		r.logger.Error(ctx, err.Error())
	default:
		r.logger.Info(ctx, fmt.Sprintf("Step %s completed successfully", step.Name),
			ports.F("duration", result.Duration().Round(time.Millisecond)))
	}
	return result, err
}

// ensureExecutable sets every execute bit on path unless all are set. The
// setuid, setgid and sticky bits are kept. On an escalated run a permission
// error falls back to `sudo -n chmod a+x`.
func (r *Runner) ensureExecutable(ctx context.Context, path string) error {
	info, err := r.fs.Stat(path)
	if err != nil {
		return err
	}
	if info.Executable() {
		return nil
	}
	r.logger.Debug(ctx, "Setting executable bit", ports.F("path", path))

	mode := info.Mode&(os.ModePerm|os.ModeSetuid|os.ModeSetgid|os.ModeSticky) | 0o111
	err = r.fs.Chmod(path, mode)
	if err == nil || !errors.Is(err, os.ErrPermission) || !r.escalating() || r.commands == nil {
		return err
	}

	r.logger.Debug(ctx, "Setting executable bit with sudo", ports.F("path", path))
	result, runErr := r.commands.Run(ctx, "sudo", "-n", "chmod", "a+x", path)
	switch {
	case runErr != nil:
		return fmt.Errorf("%w; sudo chmod: %v", err, runErr)
	case !result.Success():
		return fmt.Errorf("%w; sudo chmod exited %d: %s", err, result.ExitCode, strings.TrimSpace(result.Stderr))
	}
	return nil
}

func (r *Runner) invokeOnce(ctx context.Context, step Step, path string, result StepResult) (StepResult, error) {
	execCtx := context.WithoutCancel(ctx)
	if step.Timeout > 0 {
		var cancel context.CancelFunc
		execCtx, cancel = context.WithTimeout(execCtx, step.Timeout)
		defer cancel()
	}

	command, args := r.command(path, step.Args)
	code, err := r.streamer.Stream(execCtx, command, args...)
	result = result.WithAttempts(1)

	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			err = fmt.Errorf("timed out after %s: %w", step.Timeout, err)
		}
		err = &StepExecutionError{Step: step.Name, ExitCode: -1, Err: err}
		return result.WithError(err), err
	}

	result = result.WithExitCode(code)
	if code != 0 {
		err := &StepExecutionError{Step: step.Name, ExitCode: code}
		return result.WithError(err), err
	}
	return result, nil
}

func (r *Runner) waitFor(ctx context.Context, step Step, path string, result StepResult) (StepResult, error) {
	command, args := r.command(path, step.Args)
	lastCode := -1

	attempts, err := retry.Poll(ctx, step.Wait.Interval, step.Wait.Timeout, func(pollCtx context.Context) error {
		attemptCtx := pollCtx
		if step.Timeout > 0 {
			var cancel context.CancelFunc
			attemptCtx, cancel = context.WithTimeout(pollCtx, step.Timeout)
			defer cancel()
		}

		code, err := r.streamer.Stream(attemptCtx, command, args...)
		if err != nil {
			if attemptCtx.Err() != nil {
				return err
			}
			return retry.Fatal(err)
		}
		lastCode = code
		if code != 0 {
			r.logger.Info(ctx, fmt.Sprintf("Waiting for %s: exit code %d, retrying in %s", step.Name, code, step.Wait.Interval))
			return fmt.Errorf("exit code %d", code)
		}
		return nil
	})
	result = result.WithAttempts(attempts)
	if lastCode >= 0 {
		result = result.WithExitCode(lastCode)
	}

	var timeoutErr *retry.TimeoutError
	switch {
	case err == nil:
		return result, nil
	case errors.As(err, &timeoutErr):
		err = &WaitTimeoutError{Step: step.Name, Attempts: attempts, Timeout: step.Wait.Timeout, LastExitCode: lastCode}
	case ctx.Err() != nil && !retry.IsFatal(err):
		err = fmt.Errorf("%w while waiting for %s", ErrCancelled, step.Name)
	default:
		err = &StepExecutionError{Step: step.Name, ExitCode: -1, Err: err}
	}
	return result.WithError(err), err
}

// escalating reports whether steps run through `sudo -n`.
func (r *Runner) escalating() bool {
	return r.escalate && !r.isRoot()
}

// command builds the invocation for path, prefixed with `sudo -n` when
// escalation is enabled and the process is not root.
func (r *Runner) command(path string, args []string) (string, []string) {
	if r.escalating() {
		return "sudo", append([]string{"-n", path}, args...)
	}
	return path, append([]string(nil), args...)
}
