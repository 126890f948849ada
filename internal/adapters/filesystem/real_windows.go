//go:build windows

package filesystem

import "os"

// chmod is a no-op on Windows: there is no execute permission bit, and
// os.Chmod would only toggle the read-only attribute.
func chmod(_ string, _ os.FileMode) error {
	return nil
}
