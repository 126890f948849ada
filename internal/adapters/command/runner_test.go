package command

import (
	"bytes"
	"context"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func skipOnWindows(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("requires a POSIX shell")
	}
}

func TestNewRealRunner(t *testing.T) {
	t.Parallel()
	assert.NotNil(t, NewRealRunner())
}

func TestRealRunner_Run_Success(t *testing.T) {
	skipOnWindows(t)
	t.Parallel()

	result, err := NewRealRunner().Run(context.Background(), "echo", "hello")
	require.NoError(t, err)
	assert.True(t, result.Success())
	assert.Equal(t, "hello\n", result.Stdout)
}

func TestRealRunner_Run_Failure(t *testing.T) {
	skipOnWindows(t)
	t.Parallel()

	result, err := NewRealRunner().Run(context.Background(), "sh", "-c", "echo error >&2; exit 3")
	require.NoError(t, err, "a non-zero exit is a result, not an error")
	assert.False(t, result.Success())
	assert.Equal(t, 3, result.ExitCode)
	assert.Equal(t, "error\n", result.Stderr)
}

func TestRealRunner_Run_NotFound(t *testing.T) {
	t.Parallel()

	_, err := NewRealRunner().Run(context.Background(), "nonexistent-command-12345")
	assert.Error(t, err)
}

func TestRealRunner_Run_ContextCancellation(t *testing.T) {
	skipOnWindows(t)
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewRealRunner().Run(ctx, "sleep", "10")
	assert.Error(t, err)
}

func TestStreamRunner_WritesToAttachedStreams(t *testing.T) {
	skipOnWindows(t)
	t.Parallel()

	var stdout, stderr bytes.Buffer
	runner := NewStreamRunner(
		WithStdin(strings.NewReader("from-stdin\n")),
		WithStdout(&stdout),
		WithStderr(&stderr),
	)

	code, err := runner.Stream(context.Background(), "sh", "-c", "read line; echo \"$line\"; echo oops >&2")
	require.NoError(t, err)
	assert.Equal(t, 0, code)
	assert.Equal(t, "from-stdin\n", stdout.String())
	assert.Equal(t, "oops\n", stderr.String())
}

func TestStreamRunner_ReturnsExitCode(t *testing.T) {
	skipOnWindows(t)
	t.Parallel()

	runner := NewStreamRunner(WithStdout(&bytes.Buffer{}), WithStderr(&bytes.Buffer{}))

	code, err := runner.Stream(context.Background(), "sh", "-c", "exit 7")
	require.NoError(t, err)
	assert.Equal(t, 7, code)
}

func TestStreamRunner_NotFound(t *testing.T) {
	t.Parallel()

	code, err := NewStreamRunner().Stream(context.Background(), "nonexistent-command-12345")
	assert.Error(t, err)
	assert.Equal(t, -1, code)
}

func TestStreamRunner_Deadline(t *testing.T) {
	skipOnWindows(t)
	t.Parallel()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	code, err := NewStreamRunner().Stream(ctx, "sleep", "10")
	require.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, -1, code)
}
