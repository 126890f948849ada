//go:build !windows

package filesystem

import (
	"fmt"
	"os"
)

func chmod(path string, mode os.FileMode) error {
	if err := os.Chmod(path, mode); err != nil {
		return fmt.Errorf("failed to chmod %q: %w", path, err)
	}
	return nil
}
