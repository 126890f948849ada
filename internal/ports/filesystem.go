package ports

import (
	"os"
	"path/filepath"
	"strings"
	"time"
)

// FileInfo contains file metadata.
type FileInfo struct {
	Size    int64
	Mode    os.FileMode
	ModTime time.Time
	IsDir   bool
}

// Executable reports whether every execute bit is set.
func (i FileInfo) Executable() bool {
	return i.Mode.Perm()&0o111 == 0o111
}

// FileSystem provides the file system operations the step runner needs.
type FileSystem interface {
	Exists(path string) bool
	Stat(path string) (FileInfo, error)
	Chmod(path string, mode os.FileMode) error
	MkdirAll(path string, perm os.FileMode) error
}

// ExpandPath expands ~ to the user's home directory.
func ExpandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}
