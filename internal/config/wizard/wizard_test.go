package wizard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/baseline/internal/domain/config"
)

func TestDefaults(t *testing.T) {
	t.Parallel()

	d := Defaults("ubuntu")

	assert.Equal(t, config.DefaultBaseDir, d.BaseDir)
	assert.Equal(t, config.DefaultLogDir, d.LogDir)
	assert.Equal(t, "ubuntu", d.ExpectedOS)
	assert.Equal(t, "1024", d.MinFreeMB)
	assert.True(t, d.RequirePrivilege)
	assert.Equal(t, "never", d.Reboot)
	assert.Equal(t, "server-baseline", d.Role)
}

func TestBuildManifest(t *testing.T) {
	t.Parallel()

	result := Defaults("ubuntu")
	result.MinFreeMB = "5120"
	result.Reboot = "notify"
	result.Description = " Base packages "
	result.Steps = []StepAnswer{
		{Name: "install-docker", Path: "packages/install-docker.sh", Required: true},
		{Name: "branding", Path: "configuration/branding.sh", Required: false},
	}

	m, err := BuildManifest(result)
	require.NoError(t, err)

	assert.Equal(t, uint64(5120), m.Settings.MinFreeMB)
	assert.Equal(t, config.RebootNotify, m.Settings.Reboot)
	assert.Equal(t, "ubuntu", m.Settings.ExpectedOS)

	role, ok := m.Roles["server-baseline"]
	require.True(t, ok)
	assert.Equal(t, "Base packages", role.Description)
	require.Len(t, role.Steps, 2)
	assert.Nil(t, role.Steps[0].Required)
	assert.True(t, role.Steps[0].IsRequired())
	require.NotNil(t, role.Steps[1].Required)
	assert.False(t, role.Steps[1].IsRequired())
}

func TestBuildManifest_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(r *Result)
		want   error
	}{
		{
			name:   "no steps",
			mutate: func(r *Result) { r.Steps = nil },
			want:   errNoSteps,
		},
		{
			name:   "invalid role",
			mutate: func(r *Result) { r.Role = "Web Servers" },
			want:   errRoleInvalid,
		},
		{
			name:   "invalid min free",
			mutate: func(r *Result) { r.MinFreeMB = "lots" },
			want:   errMinFreeInvalid,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			r := Defaults("")
			r.Steps = []StepAnswer{{Name: "a", Path: "a.sh", Required: true}}
			tt.mutate(r)

			_, err := BuildManifest(r)
			require.ErrorIs(t, err, tt.want)
		})
	}
}

func TestBuildManifest_ValidationError(t *testing.T) {
	t.Parallel()

	r := Defaults("")
	r.BaseDir = " "
	r.Steps = []StepAnswer{{Name: "a", Path: "a.sh", Required: true}}

	_, err := BuildManifest(r)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "base_dir")
}

func TestValidators(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want error
	}{
		{"role ok", validateRoleName("cosmos-node"), nil},
		{"role empty", validateRoleName(" "), errRoleRequired},
		{"role upper", validateRoleName("Web"), errRoleInvalid},
		{"dir ok", validateDir("/opt/scripts"), nil},
		{"dir empty", validateDir(""), errDirRequired},
		{"dir relative", validateDir("scripts"), errDirNotAbsolute},
		{"min free ok", validateMinFree("1024"), nil},
		{"min free negative", validateMinFree("-1"), errMinFreeInvalid},
		{"step name ok", validateStepName(nil, "a"), nil},
		{"step name empty", validateStepName(nil, ""), errStepNameRequired},
		{"step name taken", validateStepName([]StepAnswer{{Name: "a"}}, "a"), errStepNameTaken},
		{"step path ok", validateStepPath("a.sh"), nil},
		{"step path empty", validateStepPath(" "), errStepPathRequired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if tt.want == nil {
				assert.NoError(t, tt.err)
				return
			}
			assert.ErrorIs(t, tt.err, tt.want)
		})
	}
}
