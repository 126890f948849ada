package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validManifest() *Manifest {
	return &Manifest{
		Settings: DefaultSettings(),
		Roles: map[string]Role{
			"server-baseline": {Steps: []StepConfig{{Name: "a", Path: "a.sh"}}},
		},
	}
}

func TestValidate_Valid(t *testing.T) {
	t.Parallel()
	assert.NoError(t, validManifest().Validate())
}

func TestValidate_Problems(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*Manifest)
		field  string
	}{
		{
			name:   "empty base dir",
			mutate: func(m *Manifest) { m.Settings.BaseDir = "" },
			field:  "settings.base_dir",
		},
		{
			name:   "empty log dir",
			mutate: func(m *Manifest) { m.Settings.LogDir = "" },
			field:  "settings.log_dir",
		},
		{
			name:   "bad reboot policy",
			mutate: func(m *Manifest) { m.Settings.Reboot = "sometimes" },
			field:  "settings.reboot",
		},
		{
			name:   "version without os",
			mutate: func(m *Manifest) { m.Settings.MinOSVersion = "22.04" },
			field:  "settings.min_os_version",
		},
		{
			name: "empty role",
			mutate: func(m *Manifest) {
				m.Roles["empty"] = Role{}
			},
			field: "roles.empty.steps",
		},
		{
			name: "duplicate inherited step",
			mutate: func(m *Manifest) {
				m.Roles["node"] = Role{Extends: "server-baseline", Steps: []StepConfig{{Name: "a", Path: "other.sh"}}}
			},
			field: "roles.node.steps[1].name",
		},
		{
			name: "missing name",
			mutate: func(m *Manifest) {
				m.Roles["server-baseline"] = Role{Steps: []StepConfig{{Path: "a.sh"}}}
			},
			field: "roles.server-baseline.steps[0].name",
		},
		{
			name: "missing path",
			mutate: func(m *Manifest) {
				m.Roles["server-baseline"] = Role{Steps: []StepConfig{{Name: "a"}}}
			},
			field: "roles.server-baseline.steps[0].path",
		},
		{
			name: "negative timeout",
			mutate: func(m *Manifest) {
				m.Roles["server-baseline"] = Role{Steps: []StepConfig{{Name: "a", Path: "a.sh", Timeout: Duration(-time.Second)}}}
			},
			field: "roles.server-baseline.steps[0].timeout",
		},
		{
			name: "unbounded wait",
			mutate: func(m *Manifest) {
				m.Roles["server-baseline"] = Role{Steps: []StepConfig{{
					Name: "a", Path: "a.sh",
					Wait: &WaitConfig{Interval: Duration(time.Second)},
				}}}
			},
			field: "roles.server-baseline.steps[0].wait.timeout",
		},
		{
			name: "zero interval",
			mutate: func(m *Manifest) {
				m.Roles["server-baseline"] = Role{Steps: []StepConfig{{
					Name: "a", Path: "a.sh",
					Wait: &WaitConfig{Timeout: Duration(time.Hour)},
				}}}
			},
			field: "roles.server-baseline.steps[0].wait.interval",
		},
		{
			name: "interval above timeout",
			mutate: func(m *Manifest) {
				m.Roles["server-baseline"] = Role{Steps: []StepConfig{{
					Name: "a", Path: "a.sh",
					Wait: &WaitConfig{Interval: Duration(time.Hour), Timeout: Duration(time.Minute)},
				}}}
			},
			field: "roles.server-baseline.steps[0].wait.interval",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			m := validManifest()
			tt.mutate(m)

			err := m.Validate()
			require.Error(t, err)

			list, ok := err.(*ErrorList)
			require.True(t, ok)
			var fields []string
			for _, e := range list.Errors() {
				fields = append(fields, e.Context)
			}
			assert.Contains(t, fields, tt.field)
		})
	}
}

func TestValidate_AccumulatesErrors(t *testing.T) {
	t.Parallel()

	m := validManifest()
	m.Settings.BaseDir = ""
	m.Settings.Reboot = "maybe"
	m.Roles["loop"] = Role{Extends: "loop"}

	err := m.Validate()
	list, ok := err.(*ErrorList)
	require.True(t, ok)
	assert.Equal(t, 3, list.Len())
	assert.Contains(t, list.Error(), "3 errors occurred")
}
