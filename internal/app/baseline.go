// Package app wires the preflight checks, run log, step runner, history and
// metrics into the baseline run.
package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/felixgeelhaar/baseline/internal/adapters/command"
	"github.com/felixgeelhaar/baseline/internal/adapters/filesystem"
	"github.com/felixgeelhaar/baseline/internal/adapters/logging"
	"github.com/felixgeelhaar/baseline/internal/adapters/metrics"
	"github.com/felixgeelhaar/baseline/internal/domain/audit"
	"github.com/felixgeelhaar/baseline/internal/domain/config"
	"github.com/felixgeelhaar/baseline/internal/domain/execution"
	"github.com/felixgeelhaar/baseline/internal/domain/preflight"
	"github.com/felixgeelhaar/baseline/internal/ports"
)

// Baseline is the main application orchestrator.
type Baseline struct {
	out      io.Writer
	logger   ports.Logger
	commands ports.CommandRunner
	streamer ports.StreamingRunner
	fs       ports.FileSystem
	checker  []preflight.Option
	history  func(dir string) (audit.Store, error)
	now      func() time.Time
	isRoot   func() bool
	hostname func() (string, error)
}

// Option configures a Baseline.
type Option func(*Baseline)

// WithLogger sets the logger used outside the run log: preflight results,
// history reads and failures to record a run that never opened its log.
func WithLogger(l ports.Logger) Option {
	return func(b *Baseline) {
		b.logger = l
	}
}

// WithCommandRunner sets the runner used for host queries and reboots.
func WithCommandRunner(r ports.CommandRunner) Option {
	return func(b *Baseline) {
		b.commands = r
	}
}

// WithStreamingRunner sets the runner used to invoke steps.
func WithStreamingRunner(r ports.StreamingRunner) Option {
	return func(b *Baseline) {
		b.streamer = r
	}
}

// WithFileSystem sets the file system steps are resolved against.
func WithFileSystem(fs ports.FileSystem) Option {
	return func(b *Baseline) {
		b.fs = fs
	}
}

// WithCheckerOptions passes options to the preflight checker.
func WithCheckerOptions(opts ...preflight.Option) Option {
	return func(b *Baseline) {
		b.checker = append(b.checker, opts...)
	}
}

// WithHistoryStore replaces the run history store.
func WithHistoryStore(store audit.Store) Option {
	return func(b *Baseline) {
		b.history = func(string) (audit.Store, error) { return store, nil }
	}
}

// WithClock sets the clock used for timestamps and log file names.
func WithClock(now func() time.Time) Option {
	return func(b *Baseline) {
		b.now = now
	}
}

// WithRootCheck replaces the effective-uid check used for escalation.
func WithRootCheck(fn func() bool) Option {
	return func(b *Baseline) {
		b.isRoot = fn
	}
}

// New creates a Baseline writing console output to out.
func New(out io.Writer, opts ...Option) *Baseline {
	b := &Baseline{
		out:      out,
		logger:   logging.NewNopLogger(),
		commands: command.NewRealRunner(),
		streamer: command.NewStreamRunner(),
		fs:       filesystem.NewRealFileSystem(),
		history:  openHistory,
		now:      time.Now,
		isRoot:   func() bool { return os.Geteuid() == 0 },
		hostname: os.Hostname,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// RunRequest describes one run of a role.
type RunRequest struct {
	Role     string
	Steps    []execution.Step
	Settings config.Settings

	// Verbose writes debug lines to the run log.
	Verbose bool
}

// Requirements maps settings onto the preflight checks.
func Requirements(s config.Settings) preflight.Requirements {
	return preflight.Requirements{
		RequirePrivilege: s.RequirePrivilege,
		ExpectedOS:       s.ExpectedOS,
		MinOSVersion:     s.MinOSVersion,
		DiskPath:         s.DiskPath,
		MinFreeMB:        s.MinFreeMB,
	}
}

// Check runs the preflight checks only.
func (b *Baseline) Check(ctx context.Context, s config.Settings) preflight.Outcome {
	checker := preflight.NewChecker(b.commands, b.checker...)
	outcome := checker.Run(ctx, Requirements(s))
	for _, c := range outcome.Checks {
		fields := []ports.Field{ports.F("check", c.Check), ports.F("status", c.Status)}
		if c.Detail != "" {
			fields = append(fields, ports.F("detail", c.Detail))
		}
		if c.Err != nil {
			b.logger.Warn(ctx, "Preflight check failed", append(fields, ports.F("error", c.Err))...)
			continue
		}
		b.logger.Debug(ctx, "Preflight check", fields...)
	}
	return outcome
}

// Run executes a role: preflight, run log, steps, then history, metrics
// and the reboot policy. The report is returned even when the run fails;
// the error is the one that ended it.
//
// Preflight runs before the run log exists, so its failures are reported on
// the console only.
func (b *Baseline) Run(ctx context.Context, req RunRequest) (*execution.Report, error) {
	report, err := execution.NewReport(req.Role, b.now)
	if err != nil {
		return nil, err
	}

	if err := b.preflight(ctx, report, req.Settings); err != nil {
		b.record(ctx, nil, report, req.Settings)
		return report, err
	}

	logger, err := logging.NewRunLogger(logging.RunLogConfig{
		Dir:     req.Settings.LogDir,
		Prefix:  req.Settings.LogPrefix,
		Console: b.out,
		Verbose: req.Verbose,
		Now:     b.now,
	})
	if err != nil {
		_ = report.Fail(err)
		b.record(ctx, nil, report, req.Settings)
		return report, err
	}
	defer func() { _ = logger.Close() }()

	logger.Info(ctx, fmt.Sprintf("Starting role %s", req.Role),
		ports.F("run_id", report.RunID()), ports.F("log", logger.Path()))

	runner := execution.NewRunner(b.streamer, b.fs, logger,
		execution.WithEscalation(req.Settings.Escalate),
		execution.WithCommandRunner(b.commands),
		execution.WithRootCheck(b.isRoot),
		execution.WithClock(b.now),
	)
	runErr := runner.RunInto(ctx, report, req.Steps, req.Settings.BaseDir)

	succeeded, failed, skipped := report.Counts()
	summary := fmt.Sprintf("Run %s: %d succeeded, %d failed, %d skipped", report.Status(), succeeded, failed, skipped)
	if report.OverallSuccess() {
		logger.Info(ctx, summary)
	} else {
		logger.Error(ctx, summary)
	}

	b.record(ctx, logger, report, req.Settings)

	if report.OverallSuccess() {
		b.applyRebootPolicy(ctx, logger, req.Settings)
	}
	return report, runErr
}

// DryRun runs the preflight checks and resolves the plan without executing
// anything. The returned report is marked as a dry run.
func (b *Baseline) DryRun(ctx context.Context, req RunRequest) (*execution.Report, *execution.Plan, error) {
	report, err := execution.NewReport(req.Role, b.now)
	if err != nil {
		return nil, nil, err
	}
	report.MarkDryRun()

	if err := b.preflight(ctx, report, req.Settings); err != nil {
		return report, nil, err
	}
	return report, execution.NewPlan(b.fs, req.Steps, req.Settings.BaseDir), nil
}

func (b *Baseline) preflight(ctx context.Context, report *execution.Report, s config.Settings) error {
	if err := report.BeginPreflight(); err != nil {
		return err
	}
	outcome := b.Check(ctx, s)
	if err := report.CompletePreflight(outcome); err != nil {
		return err
	}
	return outcome.Err
}

// record appends the report to history and writes the metrics textfile.
// Failures are logged and never change the run outcome.
func (b *Baseline) record(ctx context.Context, logger ports.Logger, report *execution.Report, s config.Settings) {
	if logger == nil {
		logger = b.logger
	}

	if dir := s.HistoryPath(); dir != "" {
		if err := b.appendHistory(ctx, dir, report); err != nil {
			logger.Warn(ctx, "Could not record run history", ports.F("error", err))
		}
	}

	if s.MetricsTextfile != "" {
		m := metrics.New()
		m.Observe(report)
		if err := m.WriteTextfile(s.MetricsTextfile); err != nil {
			logger.Warn(ctx, "Could not write metrics", ports.F("error", err))
		}
	}
}

func (b *Baseline) appendHistory(ctx context.Context, dir string, report *execution.Report) error {
	store, err := b.history(dir)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	host, _ := b.hostname()
	return store.Append(ctx, audit.NewRunRecord(report, host))
}

// History queries the run history kept under the settings' history dir.
func (b *Baseline) History(ctx context.Context, s config.Settings, filter audit.QueryFilter) ([]audit.RunRecord, error) {
	dir := s.HistoryPath()
	if dir == "" {
		return nil, fmt.Errorf("no history directory configured")
	}
	b.logger.Debug(ctx, "Reading run history", ports.F("dir", dir))
	store, err := b.history(dir)
	if err != nil {
		return nil, err
	}
	defer func() { _ = store.Close() }()
	return store.Query(ctx, filter)
}

func openHistory(dir string) (audit.Store, error) {
	return audit.NewFileStore(audit.FileStoreConfig{Dir: dir})
}
