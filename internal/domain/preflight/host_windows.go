//go:build windows

package preflight

import (
	"golang.org/x/sys/windows"
)

func isElevated() (bool, error) {
	return windows.GetCurrentProcessToken().IsElevated(), nil
}

func availableBytes(path string) (uint64, error) {
	p, err := windows.UTF16PtrFromString(path)
	if err != nil {
		return 0, err
	}
	var freeToCaller, total, totalFree uint64
	if err := windows.GetDiskFreeSpaceEx(p, &freeToCaller, &total, &totalFree); err != nil {
		return 0, err
	}
	return freeToCaller, nil
}
