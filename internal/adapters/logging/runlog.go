package logging

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/felixgeelhaar/baseline/internal/ports"
)

// DefaultLogPrefix is the file name prefix of run logs.
const DefaultLogPrefix = "server-baseline"

// LogInitError reports that the run log could not be opened. Runs must not
// proceed without it.
type LogInitError struct {
	Path string
	Err  error
}

func (e *LogInitError) Error() string {
	return fmt.Sprintf("cannot initialise run log %s: %v", e.Path, e.Err)
}

func (e *LogInitError) Unwrap() error {
	return e.Err
}

// RunLogConfig configures a RunLogger.
type RunLogConfig struct {
	// Dir is created if missing.
	Dir string

	// Prefix of the file name (default: server-baseline).
	Prefix string

	// Console receives a copy of every line (default: os.Stdout).
	Console io.Writer

	// Verbose lowers the minimum level from Info to Debug.
	Verbose bool

	// Now is the clock (default: time.Now).
	Now func() time.Time
}

// LogFileName returns the run log file name for the calendar date of t.
func LogFileName(prefix string, t time.Time) string {
	if prefix == "" {
		prefix = DefaultLogPrefix
	}
	return fmt.Sprintf("%s-%s.log", prefix, t.Format("20060102"))
}

// runSink is the single owner of the open log file. Loggers derived with
// With share it so that lines keep their write order.
type runSink struct {
	mu         sync.Mutex
	file       *os.File
	path       string
	console    io.Writer
	now        func() time.Time
	fileFailed bool
	closed     bool
}

// RunLogger writes every line to the dated run log file and to the
// console. Lines are appended and synced one at a time; a failing file
// write degrades the logger to console-only instead of failing the caller.
type RunLogger struct {
	sink   *runSink
	level  ports.Level
	fields []ports.Field
}

// NewRunLogger creates the log directory if needed and opens today's log
// file for appending. Calling it again on the same day appends to the same
// file.
func NewRunLogger(cfg RunLogConfig) (*RunLogger, error) {
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	console := cfg.Console
	if console == nil {
		console = os.Stdout
	}

	path := filepath.Join(cfg.Dir, LogFileName(cfg.Prefix, now()))

	if cfg.Dir == "" {
		return nil, &LogInitError{Path: path, Err: fmt.Errorf("log directory is empty")}
	}
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, &LogInitError{Path: path, Err: err}
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o640)
	if err != nil {
		return nil, &LogInitError{Path: path, Err: err}
	}

	level := ports.LevelInfo
	if cfg.Verbose {
		level = ports.LevelDebug
	}

	return &RunLogger{
		sink: &runSink{
			file:    file,
			path:    path,
			console: console,
			now:     now,
		},
		level: level,
	}, nil
}

// Path returns the log file path.
func (l *RunLogger) Path() string {
	return l.sink.path
}

// Close syncs and closes the log file. Further writes go to the console only.
func (l *RunLogger) Close() error {
	s := l.sink
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	_ = s.file.Sync()
	return s.file.Close()
}

// Debug logs a debug message.
func (l *RunLogger) Debug(ctx context.Context, msg string, fields ...ports.Field) {
	l.log(ctx, ports.LevelDebug, msg, fields)
}

// Info logs an informational message.
func (l *RunLogger) Info(ctx context.Context, msg string, fields ...ports.Field) {
	l.log(ctx, ports.LevelInfo, msg, fields)
}

// Warn logs a warning message.
func (l *RunLogger) Warn(ctx context.Context, msg string, fields ...ports.Field) {
	l.log(ctx, ports.LevelWarn, msg, fields)
}

// Error logs an error message.
func (l *RunLogger) Error(ctx context.Context, msg string, fields ...ports.Field) {
	l.log(ctx, ports.LevelError, msg, fields)
}

// With returns a logger writing to the same file with additional fields.
func (l *RunLogger) With(fields ...ports.Field) ports.Logger {
	return &RunLogger{
		sink:   l.sink,
		level:  l.level,
		fields: joinFields(l.fields, fields),
	}
}

// Level returns the minimum log level.
func (l *RunLogger) Level() ports.Level {
	return l.level
}

// SetLevel sets the minimum log level.
func (l *RunLogger) SetLevel(level ports.Level) {
	l.level = level
}

func (l *RunLogger) log(_ context.Context, level ports.Level, msg string, fields []ports.Field) {
	if level < l.level {
		return
	}

	s := l.sink
	s.mu.Lock()
	defer s.mu.Unlock()

	line := formatLine(s.now(), level, msg, joinFields(l.fields, fields)) + "\n"

	if !s.fileFailed && !s.closed {
		if _, err := s.file.WriteString(line); err != nil {
			s.fileFailed = true
			notice := formatLine(s.now(), ports.LevelWarn, "run log write failed, continuing on console only",
				[]ports.Field{ports.F("path", s.path), ports.F("error", err)})
			_, _ = io.WriteString(s.console, notice+"\n")
		} else {
			_ = s.file.Sync()
		}
	}

	_, _ = io.WriteString(s.console, line)
}

// Ensure RunLogger implements Logger.
var _ ports.Logger = (*RunLogger)(nil)
