//go:build !windows

package preflight

import (
	"os"

	"golang.org/x/sys/unix"
)

func isElevated() (bool, error) {
	return os.Geteuid() == 0, nil
}

func availableBytes(path string) (uint64, error) {
	var st unix.Statfs_t
	if err := unix.Statfs(path, &st); err != nil {
		return 0, err
	}
	return uint64(st.Bavail) * uint64(st.Bsize), nil //nolint:gosec,unconvert // field widths differ per platform
}
