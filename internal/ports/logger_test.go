package ports

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLevel_String(t *testing.T) {
	t.Parallel()

	levels := map[Level]string{
		LevelDebug: "DEBUG",
		LevelInfo:  "INFO",
		LevelWarn:  "WARN",
		LevelError: "ERROR",
		Level(99):  "UNKNOWN",
	}
	for level, want := range levels {
		assert.Equal(t, want, level.String())
	}
}

func TestF(t *testing.T) {
	t.Parallel()

	assert.Equal(t, Field{Key: "step", Value: "install-docker"}, F("step", "install-docker"))
	assert.Equal(t, Field{Key: "exit_code", Value: 3}, F("exit_code", 3))
	assert.Equal(t, Field{Key: "error", Value: nil}, F("error", nil))
}

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input   string
		want    Level
		wantErr bool
	}{
		{"debug", LevelDebug, false},
		{"INFO", LevelInfo, false},
		{"", LevelInfo, false},
		{"warning", LevelWarn, false},
		{" error ", LevelError, false},
		{"verbose", LevelInfo, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()
			got, err := ParseLevel(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormatFields(t *testing.T) {
	t.Parallel()

	assert.Empty(t, FormatFields(nil))
	assert.Equal(t, "step=install-docker exit_code=1",
		FormatFields([]Field{F("step", "install-docker"), F("exit_code", 1)}))
}
