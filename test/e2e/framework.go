// Package e2e provides end-to-end testing utilities for the baseline CLI.
package e2e

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// Harness builds the baseline binary and runs it against a scratch host
// layout: a scripts directory, a log directory and a config file.
type Harness struct {
	T            *testing.T
	BinaryPath   string
	TempDir      string
	ScriptsDir   string
	LogDir       string
	ConfigPath   string
	Timeout      time.Duration
	LastOutput   string
	LastError    string
	LastExitCode int
}

// NewHarness creates a harness with empty scripts and log directories.
func NewHarness(t *testing.T) *Harness {
	t.Helper()

	tempDir := t.TempDir()
	h := &Harness{
		T:          t,
		BinaryPath: getBinary(t),
		TempDir:    tempDir,
		ScriptsDir: filepath.Join(tempDir, "scripts"),
		LogDir:     filepath.Join(tempDir, "logs"),
		ConfigPath: filepath.Join(tempDir, "baseline.yaml"),
		Timeout:    30 * time.Second,
	}
	if err := os.MkdirAll(h.ScriptsDir, 0o755); err != nil {
		t.Fatalf("failed to create scripts directory: %v", err)
	}
	return h
}

// getBinary returns the baseline binary, building it unless
// BASELINE_BINARY points at one.
func getBinary(t *testing.T) string {
	t.Helper()

	if path := os.Getenv("BASELINE_BINARY"); path != "" {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	binaryPath := filepath.Join(t.TempDir(), "baseline-test")
	cmd := exec.Command("go", "build", "-o", binaryPath, "./cmd/baseline")
	cmd.Dir = findProjectRoot(t)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		t.Fatalf("failed to build baseline binary: %v\n%s", err, stderr.String())
	}
	return binaryPath
}

func findProjectRoot(t *testing.T) string {
	t.Helper()

	dir, err := os.Getwd()
	if err != nil {
		t.Fatalf("failed to get working directory: %v", err)
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			t.Fatalf("could not find project root (no go.mod found)")
		}
		dir = parent
	}
}

// WriteConfig writes a config whose settings point at the harness
// directories and disable host-specific checks, followed by roles.
func (h *Harness) WriteConfig(roles string) {
	h.T.Helper()

	content := fmt.Sprintf(`settings:
  base_dir: %s
  log_dir: %s
  min_free_mb: 0
  require_privilege: false
roles:
%s`, h.ScriptsDir, h.LogDir, roles)
	if err := os.WriteFile(h.ConfigPath, []byte(content), 0o644); err != nil {
		h.T.Fatalf("failed to write config: %v", err)
	}
}

// Script writes a shell script under the scripts directory. Scripts are
// written without execute bits so the chmod path is exercised.
func (h *Harness) Script(rel, body string) string {
	h.T.Helper()

	path := filepath.Join(h.ScriptsDir, rel)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		h.T.Fatalf("failed to create directory for %s: %v", rel, err)
	}
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body), 0o644); err != nil {
		h.T.Fatalf("failed to write script %s: %v", rel, err)
	}
	return path
}

// Run executes baseline with the harness config and returns the exit code.
func (h *Harness) Run(args ...string) int {
	h.T.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), h.Timeout)
	defer cancel()

	args = append([]string{"--config", h.ConfigPath}, args...)
	cmd := exec.CommandContext(ctx, h.BinaryPath, args...)
	cmd.Dir = h.TempDir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	h.LastOutput = stdout.String()
	h.LastError = stderr.String()

	if ctx.Err() != nil {
		h.T.Fatalf("command timed out after %v: %v", h.Timeout, args)
	}

	var exitErr *exec.ExitError
	switch {
	case err == nil:
		h.LastExitCode = 0
	case errors.As(err, &exitErr):
		h.LastExitCode = exitErr.ExitCode()
	default:
		h.LastExitCode = -1
	}
	return h.LastExitCode
}

// RunSuccess executes a command and expects it to succeed.
func (h *Harness) RunSuccess(args ...string) string {
	h.T.Helper()

	if code := h.Run(args...); code != 0 {
		h.T.Fatalf("command failed with exit code %d: %v\nOutput: %s\nStderr: %s",
			code, args, h.LastOutput, h.LastError)
	}
	return h.LastOutput
}

// RunFail executes a command and expects a non-zero exit.
func (h *Harness) RunFail(args ...string) string {
	h.T.Helper()

	if code := h.Run(args...); code == 0 {
		h.T.Fatalf("command succeeded but expected failure: %v\nOutput: %s", args, h.LastOutput)
	}
	return h.LastOutput + h.LastError
}

// LogContent returns the concatenated content of every run log.
func (h *Harness) LogContent() string {
	h.T.Helper()

	matches, err := filepath.Glob(filepath.Join(h.LogDir, "*.log"))
	if err != nil {
		h.T.Fatalf("failed to list logs: %v", err)
	}
	var b strings.Builder
	for _, m := range matches {
		data, err := os.ReadFile(m)
		if err != nil {
			h.T.Fatalf("failed to read log %s: %v", m, err)
		}
		b.Write(data)
	}
	return b.String()
}

// AssertOutputContains asserts the last output contains s.
func (h *Harness) AssertOutputContains(s string) {
	h.T.Helper()

	if !strings.Contains(h.LastOutput, s) && !strings.Contains(h.LastError, s) {
		h.T.Errorf("expected output to contain %q, got:\n%s", s, h.LastOutput+h.LastError)
	}
}
