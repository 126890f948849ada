package main

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/baseline/internal/domain/audit"
)

func seedHistory(t *testing.T, h *harness) {
	t.Helper()
	ctx := context.Background()
	recent := time.Now().Add(-time.Hour)
	old := time.Now().Add(-30 * 24 * time.Hour)

	require.NoError(t, h.history.Append(ctx, audit.RunRecord{
		RunID: "r1", Role: "server-baseline", Status: "succeeded", Success: true,
		StartedAt: old, FinishedAt: old.Add(time.Minute),
	}))
	require.NoError(t, h.history.Append(ctx, audit.RunRecord{
		RunID: "r2", Role: "cosmos-node", Status: "failed",
		StartedAt: recent, FinishedAt: recent.Add(time.Minute),
		Steps: []audit.StepRecord{{Name: "wait-for-sync", Status: "failed"}},
	}))
}

func TestHistoryCmd_Text(t *testing.T) {
	h := newHarness(t)
	seedHistory(t, h)
	cfg := sampleConfig(t)

	out, err := executeCommand(t, "history", "--config", cfg)

	require.NoError(t, err)
	assert.Contains(t, out, "cosmos-node")
	assert.Contains(t, out, "failed at wait-for-sync")
	assert.Contains(t, out, "server-baseline")
}

func TestHistoryCmd_JSONWithFilters(t *testing.T) {
	h := newHarness(t)
	seedHistory(t, h)
	cfg := sampleConfig(t)

	out, err := executeCommand(t, "history", "--json", "--since", "7d", "--config", cfg)
	require.NoError(t, err)

	var records []audit.RunRecord
	require.NoError(t, json.Unmarshal([]byte(out), &records))
	require.Len(t, records, 1)
	assert.Equal(t, "r2", records[0].RunID)

	out, err = executeCommand(t, "history", "--json", "--role", "nobody", "--config", cfg)
	require.NoError(t, err)
	assert.JSONEq(t, "[]", out)
}

func TestHistoryCmd_InvalidSince(t *testing.T) {
	newHarness(t)
	cfg := sampleConfig(t)

	_, err := executeCommand(t, "history", "--since", "soon", "--config", cfg)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid --since value")
}

func TestParseDuration(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input   string
		want    time.Duration
		wantErr bool
	}{
		{"1h", time.Hour, false},
		{"7d", 7 * 24 * time.Hour, false},
		{"2w", 14 * 24 * time.Hour, false},
		{"1m", 30 * 24 * time.Hour, false},
		{" 3D ", 3 * 24 * time.Hour, false},
		{"x", 0, true},
		{"5y", 0, true},
		{"hd", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()
			got, err := parseDuration(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
