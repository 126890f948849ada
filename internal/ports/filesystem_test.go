package ports

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileInfo_Executable(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		mode os.FileMode
		want bool
	}{
		{"all execute bits", 0o755, true},
		{"owner only", 0o744, false},
		{"none", 0o644, false},
		{"execute only", 0o111, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, FileInfo{Mode: tt.mode}.Executable())
		})
	}
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(home, "scripts"), ExpandPath("~/scripts"))
	assert.Equal(t, "/opt/scripts", ExpandPath("/opt/scripts"))
	assert.Equal(t, "relative/dir", ExpandPath("relative/dir"))
}
