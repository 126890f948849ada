package main

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/baseline/internal/domain/config"
	"github.com/felixgeelhaar/baseline/internal/domain/execution"
	"github.com/felixgeelhaar/baseline/internal/domain/preflight"
)

func TestRunCmd_Success(t *testing.T) {
	h := newHarness(t)
	h.script("packages/install-docker.sh")
	cfg := sampleConfig(t)

	out, err := executeCommand(t, "run", "server-baseline", "--config", cfg)

	require.NoError(t, err)
	assert.Contains(t, out, "Running step: install-docker")
	assert.Contains(t, out, "WARNING: Optional step branding not found")
	assert.Contains(t, out, "Summary: 1 succeeded, 0 failed, 1 skipped")
	assert.Equal(t, []string{filepath.Join(scriptsDir, "packages/install-docker.sh")}, h.streamer.Commands())

	records := h.history.Records()
	require.Len(t, records, 1)
	assert.Equal(t, "server-baseline", records[0].Role)
	assert.True(t, records[0].Success)
}

func TestRunCmd_MissingRequiredStep(t *testing.T) {
	newHarness(t)
	cfg := sampleConfig(t)

	out, err := executeCommand(t, "run", "server-baseline", "--config", cfg)

	var missing *execution.StepMissingError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "install-docker", missing.Step)
	assert.Contains(t, out, "ERROR: Required step install-docker not found")
}

func TestRunCmd_StepFailure(t *testing.T) {
	h := newHarness(t)
	h.script("packages/install-docker.sh")
	h.streamer.AddExitCodes(filepath.Join(scriptsDir, "packages/install-docker.sh"), 100)
	cfg := sampleConfig(t)

	_, err := executeCommand(t, "run", "server-baseline", "--config", cfg)

	var stepErr *execution.StepExecutionError
	require.ErrorAs(t, err, &stepErr)
	assert.Equal(t, 100, stepErr.ExitCode)
	assert.False(t, h.history.Records()[0].Success)
}

func TestRunCmd_OnlyRunsWaitStep(t *testing.T) {
	h := newHarness(t)
	h.script("checks/node-synced.sh")
	synced := filepath.Join(scriptsDir, "checks/node-synced.sh")
	h.streamer.AddExitCodes(synced, 1, 1, 0)
	cfg := sampleConfig(t)

	out, err := executeCommand(t, "run", "cosmos-node", "--only", "wait-for-sync", "--config", cfg)

	require.NoError(t, err)
	assert.Equal(t, []string{synced, synced, synced}, h.streamer.Commands())
	assert.Contains(t, out, "Waiting for wait-for-sync: exit code 1")
	assert.Contains(t, out, "after 3 attempts")
}

func TestRunCmd_FromResumes(t *testing.T) {
	h := newHarness(t)
	h.script("checks/node-synced.sh")
	h.script("configuration/branding.sh")
	cfg := sampleConfig(t)

	_, err := executeCommand(t, "run", "cosmos-node", "--from", "branding", "--config", cfg)

	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(scriptsDir, "configuration/branding.sh"),
		filepath.Join(scriptsDir, "checks/node-synced.sh"),
	}, h.streamer.Commands())
}

func TestRunCmd_FlagErrors(t *testing.T) {
	newHarness(t)
	cfg := sampleConfig(t)

	_, err := executeCommand(t, "run", "cosmos-node", "--from", "a", "--only", "b", "--config", cfg)
	require.Error(t, err)

	_, err = executeCommand(t, "run", "cosmos-node", "--only", "nope", "--config", cfg)
	var unknown *execution.UnknownStepError
	require.ErrorAs(t, err, &unknown)

	_, err = executeCommand(t, "run", "web", "--config", cfg)
	assert.True(t, config.IsUserError(err, config.ErrCodeRoleNotFound))

	_, err = executeCommand(t, "run", "--config", cfg)
	require.Error(t, err)
}

func TestRunCmd_PreflightFailure(t *testing.T) {
	h := newHarness(t)
	h.script("packages/install-docker.sh")
	cfg := sampleConfig(t)

	out, err := executeCommand(t, "run", "server-baseline", "--min-free-mb", "999999", "--config", cfg)

	require.ErrorIs(t, err, preflight.ErrPreflight)
	assert.Empty(t, h.streamer.Commands())
	assert.Contains(t, out, "Preflight")
	assert.Contains(t, out, "insufficient disk space")
}

func TestRunCmd_ExpectedOSOverride(t *testing.T) {
	h := newHarness(t)
	h.script("packages/install-docker.sh")
	cfg := sampleConfig(t)

	_, err := executeCommand(t, "run", "server-baseline", "--expected-os", "rocky", "--config", cfg)

	var osErr *preflight.UnsupportedOSError
	require.ErrorAs(t, err, &osErr)
	assert.Equal(t, "rocky", osErr.Expected)
	assert.Empty(t, h.streamer.Commands())
}

func TestRunCmd_DryRun(t *testing.T) {
	h := newHarness(t)
	h.script("packages/install-docker.sh")
	cfg := sampleConfig(t)

	out, err := executeCommand(t, "run", "server-baseline", "--dry-run", "--config", cfg)

	require.NoError(t, err)
	assert.Empty(t, h.streamer.Commands())
	assert.Contains(t, out, "Plan server-baseline")
	assert.Contains(t, out, "Steps: 2 total, 1 present, 1 missing, 0 blocking")
	assert.Empty(t, h.history.Records())
}

func TestRunCmd_DryRunBlocking(t *testing.T) {
	h := newHarness(t)
	cfg := sampleConfig(t)

	_, err := executeCommand(t, "run", "server-baseline", "--dry-run", "--config", cfg)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 blocking step(s)")
	assert.Empty(t, h.streamer.Commands())
}

func TestRunCmd_MissingConfig(t *testing.T) {
	newHarness(t)

	_, err := executeCommand(t, "run", "server-baseline", "--config", filepath.Join(t.TempDir(), "baseline.yaml"))

	assert.True(t, config.IsUserError(err, config.ErrCodeConfigNotFound))
}

func TestRunCmd_Verbose(t *testing.T) {
	tests := []struct {
		name      string
		args      []string
		wantDebug bool
	}{
		{"default level is info", nil, false},
		{"verbose adds debug lines", []string{"--verbose"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			h.fs.AddFile(filepath.Join(scriptsDir, "packages/install-docker.sh"), 0o644)
			cfg := sampleConfig(t)

			out, err := executeCommand(t, append([]string{"run", "server-baseline", "--config", cfg}, tt.args...)...)

			require.NoError(t, err)
			assert.Equal(t, tt.wantDebug, strings.Contains(out, "DEBUG: Setting executable bit"))
		})
	}
}
