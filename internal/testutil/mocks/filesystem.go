package mocks

import (
	"os"
	"sync"
	"time"

	"github.com/felixgeelhaar/baseline/internal/ports"
)

// FileSystem is a thread-safe test double for ports.FileSystem.
type FileSystem struct {
	mu     sync.RWMutex
	files  map[string]os.FileMode
	dirs   map[string]bool
	chmods []string
	denied map[string]error
}

// NewFileSystem creates a new FileSystem mock.
func NewFileSystem() *FileSystem {
	return &FileSystem{
		files:  make(map[string]os.FileMode),
		dirs:   make(map[string]bool),
		denied: make(map[string]error),
	}
}

// FailChmod makes Chmod on path return err without changing the mode.
func (fs *FileSystem) FailChmod(path string, err error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	fs.denied[path] = err
}

// AddFile adds a file with the given permission bits.
func (fs *FileSystem) AddFile(path string, mode os.FileMode) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	fs.files[path] = mode
}

// AddDir adds a directory to the mock filesystem.
func (fs *FileSystem) AddDir(path string) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	fs.dirs[path] = true
}

// Exists checks if a file or directory exists.
func (fs *FileSystem) Exists(path string) bool {
	fs.mu.RLock()
	defer fs.mu.RUnlock()
	_, isFile := fs.files[path]
	return isFile || fs.dirs[path]
}

// Stat returns file info.
func (fs *FileSystem) Stat(path string) (ports.FileInfo, error) {
	fs.mu.RLock()
	defer fs.mu.RUnlock()

	if mode, ok := fs.files[path]; ok {
		return ports.FileInfo{Mode: mode, ModTime: time.Time{}}, nil
	}
	if fs.dirs[path] {
		return ports.FileInfo{Mode: os.ModeDir | 0o755, IsDir: true}, nil
	}
	return ports.FileInfo{}, &os.PathError{Op: "stat", Path: path, Err: os.ErrNotExist}
}

// Chmod changes the permission bits of a file and records the call.
func (fs *FileSystem) Chmod(path string, mode os.FileMode) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	if _, ok := fs.files[path]; !ok {
		return &os.PathError{Op: "chmod", Path: path, Err: os.ErrNotExist}
	}
	if err, ok := fs.denied[path]; ok {
		return &os.PathError{Op: "chmod", Path: path, Err: err}
	}
	fs.files[path] = mode
	fs.chmods = append(fs.chmods, path)
	return nil
}

// MkdirAll records a directory.
func (fs *FileSystem) MkdirAll(path string, _ os.FileMode) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	fs.dirs[path] = true
	return nil
}

// Mode returns the current permission bits of path.
func (fs *FileSystem) Mode(path string) os.FileMode {
	fs.mu.RLock()
	defer fs.mu.RUnlock()
	return fs.files[path]
}

// Chmods returns the paths Chmod was called with, in order.
func (fs *FileSystem) Chmods() []string {
	fs.mu.RLock()
	defer fs.mu.RUnlock()
	out := make([]string, len(fs.chmods))
	copy(out, fs.chmods)
	return out
}

// Ensure FileSystem implements ports.FileSystem.
var _ ports.FileSystem = (*FileSystem)(nil)
