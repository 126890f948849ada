package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoader_Load(t *testing.T) {
	t.Parallel()

	for _, tc := range []struct{ name, content string }{
		{"baseline.yaml", sampleYAML},
		{"baseline.toml", sampleTOML},
	} {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			m, err := NewLoader().Load(writeFile(t, tc.name, tc.content))
			require.NoError(t, err)
			assert.Len(t, m.Roles, 2)
		})
	}
}

func TestLoader_NotFound(t *testing.T) {
	t.Parallel()

	_, err := NewLoader().Load(filepath.Join(t.TempDir(), "baseline.yaml"))
	assert.True(t, IsUserError(err, ErrCodeConfigNotFound))
}

func TestLoader_YAMLSyntaxError(t *testing.T) {
	t.Parallel()

	path := writeFile(t, "baseline.yaml", "roles:\n  web:\n    steps:\n      install: x.sh\n")
	_, err := NewLoader().Load(path)

	ue := GetUserError(err)
	require.NotNil(t, ue)
	assert.Equal(t, ErrCodeConfigParse, ue.Code)
	assert.Contains(t, ue.Context, path)
}

func TestLoader_TOMLSyntaxError(t *testing.T) {
	t.Parallel()

	path := writeFile(t, "baseline.toml", "[settings\nbase_dir = 1\n")
	_, err := NewLoader().Load(path)

	assert.True(t, IsUserError(err, ErrCodeConfigParse))
}

func TestLoader_ValidationError(t *testing.T) {
	t.Parallel()

	path := writeFile(t, "baseline.yaml", "settings:\n  reboot: sometimes\nroles:\n  r:\n    steps:\n      - {name: a, path: a.sh}\n")
	_, err := NewLoader().Load(path)

	var list *ErrorList
	require.ErrorAs(t, err, &list)
	assert.Equal(t, 1, list.Len())
}

func TestLoader_UnsupportedFormat(t *testing.T) {
	t.Parallel()

	_, err := NewLoader().Load("baseline.json")
	assert.True(t, IsUserError(err, ErrCodeConfigFormat))
}
