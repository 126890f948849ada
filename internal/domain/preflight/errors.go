package preflight

import (
	"errors"
	"fmt"
)

// ErrPreflight matches every preflight check failure via errors.Is.
var ErrPreflight = errors.New("preflight check failed")

// PrivilegeError reports that the invoking user cannot escalate privileges
// without an interactive prompt.
type PrivilegeError struct {
	Reason string
	Err    error
}

func (e *PrivilegeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("passwordless privilege escalation unavailable: %s: %v", e.Reason, e.Err)
	}
	return "passwordless privilege escalation unavailable: " + e.Reason
}

func (e *PrivilegeError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrPreflight.
func (e *PrivilegeError) Is(target error) bool {
	return target == ErrPreflight
}

// UnsupportedOSError reports that the host does not match the expected
// distribution or is older than the minimum version.
type UnsupportedOSError struct {
	Expected string
	Actual   string
}

func (e *UnsupportedOSError) Error() string {
	return fmt.Sprintf("unsupported operating system: expected %q, found %q", e.Expected, e.Actual)
}

// Is reports whether target is ErrPreflight.
func (e *UnsupportedOSError) Is(target error) bool {
	return target == ErrPreflight
}

// InsufficientSpaceError reports the free space found at Path.
type InsufficientSpaceError struct {
	Path        string
	AvailableMB uint64
	RequiredMB  uint64
}

func (e *InsufficientSpaceError) Error() string {
	return fmt.Sprintf("insufficient disk space at %s: %d MB available, %d MB required",
		e.Path, e.AvailableMB, e.RequiredMB)
}

// Is reports whether target is ErrPreflight.
func (e *InsufficientSpaceError) Is(target error) bool {
	return target == ErrPreflight
}

// DiskReadError reports that the free space at Path could not be read.
type DiskReadError struct {
	Path string
	Err  error
}

func (e *DiskReadError) Error() string {
	return fmt.Sprintf("failed to read free space at %s: %v", e.Path, e.Err)
}

func (e *DiskReadError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrPreflight.
func (e *DiskReadError) Is(target error) bool {
	return target == ErrPreflight
}
