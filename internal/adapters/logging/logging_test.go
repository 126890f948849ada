package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/baseline/internal/ports"
)

func fixedClock() time.Time {
	return time.Date(2024, 3, 9, 14, 5, 7, 0, time.Local)
}

func TestNopLogger_ImplementsInterface(_ *testing.T) {
	var _ ports.Logger = NewNopLogger()
}

func TestNopLogger_Methods(t *testing.T) {
	logger := NewNopLogger()
	ctx := context.Background()

	logger.Debug(ctx, "debug message")
	logger.Info(ctx, "info message")
	logger.Warn(ctx, "warn message")
	logger.Error(ctx, "error message")

	assert.Same(t, logger, logger.With(ports.F("key", "value")))

	assert.Equal(t, ports.LevelInfo, logger.Level())
	logger.SetLevel(ports.LevelDebug)
	assert.Equal(t, ports.LevelDebug, logger.Level())
}

func TestConsoleLogger_TextOutput(t *testing.T) {
	var buf bytes.Buffer
	logger := NewConsoleLogger(WithOutput(&buf))
	logger.now = fixedClock

	logger.Info(context.Background(), "starting run", ports.F("role", "server-baseline"))

	assert.Equal(t, "2024-03-09 14:05:07 - starting run role=server-baseline\n", buf.String())
}

func TestConsoleLogger_TextOutput_WithoutTimestamp(t *testing.T) {
	var buf bytes.Buffer
	logger := NewConsoleLogger(WithOutput(&buf), WithTimestamp(false))

	logger.Warn(context.Background(), "disk is nearly full")

	assert.Equal(t, "WARNING: disk is nearly full\n", buf.String())
}

func TestConsoleLogger_JSONOutput(t *testing.T) {
	var buf bytes.Buffer
	logger := NewConsoleLogger(
		WithOutput(&buf),
		WithLevel(ports.LevelDebug),
		WithJSONFormat(true),
		WithTimestamp(false),
	)

	logger.Info(context.Background(), "test message", ports.F("key", "value"))

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "INFO", entry["level"])
	assert.Equal(t, "test message", entry["msg"])
	assert.Equal(t, "value", entry["key"])
	assert.NotContains(t, entry, "time")
}

func TestConsoleLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewConsoleLogger(
		WithOutput(&buf),
		WithLevel(ports.LevelWarn),
		WithTimestamp(false),
	)
	ctx := context.Background()

	logger.Debug(ctx, "debug message")
	logger.Info(ctx, "info message")
	assert.Zero(t, buf.Len(), "debug and info should be filtered")

	logger.Warn(ctx, "warn message")
	logger.Error(ctx, "error message")
	assert.Contains(t, buf.String(), "WARNING: warn message")
	assert.Contains(t, buf.String(), "ERROR: error message")
}

func TestConsoleLogger_With(t *testing.T) {
	var buf bytes.Buffer
	logger := NewConsoleLogger(WithOutput(&buf), WithTimestamp(false))

	derived := logger.With(ports.F("component", "preflight"))
	derived.Info(context.Background(), "message", ports.F("extra", "field"))
	logger.Info(context.Background(), "original")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "message component=preflight extra=field", lines[0])
	assert.Equal(t, "original", lines[1])
}

func TestConsoleLogger_SetLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewConsoleLogger(WithOutput(&buf), WithLevel(ports.LevelError))

	logger.Info(context.Background(), "info message")
	assert.Zero(t, buf.Len())

	logger.SetLevel(ports.LevelDebug)
	assert.Equal(t, ports.LevelDebug, logger.Level())

	logger.Info(context.Background(), "info message")
	assert.Contains(t, buf.String(), "info message")
}

func TestConsoleLogger_JSONOutput_ErrorField(t *testing.T) {
	var buf bytes.Buffer
	logger := NewConsoleLogger(WithOutput(&buf), WithJSONFormat(true), WithTimestamp(false))

	logger.Warn(context.Background(), "preflight check failed", ports.F("error", errors.New("only 100 MB free")))

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "only 100 MB free", entry["error"])
}

func TestFormatLine_EscapesLineBreaks(t *testing.T) {
	tests := []struct {
		name   string
		msg    string
		fields []ports.Field
		want   string
	}{
		{
			name: "message",
			msg:  "step failed\nERROR: forged entry",
			want: `2024-03-09 14:05:07 - ERROR: step failed\nERROR: forged entry`,
		},
		{
			name:   "field value",
			msg:    "step failed",
			fields: []ports.Field{ports.F("stderr", "line one\r\nline two\rthree")},
			want:   `2024-03-09 14:05:07 - ERROR: step failed stderr=line one\nline two\rthree`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := formatLine(fixedClock(), ports.LevelError, tt.msg, tt.fields)
			assert.Equal(t, tt.want, got)
			assert.NotContains(t, got, "\n")
			assert.NotContains(t, got, "\r")
		})
	}
}

func TestConsoleLogger_OneLinePerEntry(t *testing.T) {
	var buf bytes.Buffer
	logger := NewConsoleLogger(WithOutput(&buf), WithTimestamp(false))

	logger.Info(context.Background(), "first\nsecond")

	assert.Equal(t, "first\\nsecond\n", buf.String())
}
