// Package preflight implements the read-only host checks that gate a run:
// passwordless privilege escalation, operating system identity and free
// disk space.
package preflight

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/mod/semver"
	"golang.org/x/text/cases"

	"github.com/felixgeelhaar/baseline/internal/domain/platform"
	"github.com/felixgeelhaar/baseline/internal/ports"
)

const bytesPerMB = 1024 * 1024

// Checker runs preflight checks against the current host.
type Checker struct {
	runner    ports.CommandRunner
	platform  *platform.Platform
	elevated  func() (bool, error)
	freeBytes func(path string) (uint64, error)
}

// Option configures a Checker.
type Option func(*Checker)

// WithPlatform sets the platform the identity checks inspect.
func WithPlatform(p *platform.Platform) Option {
	return func(c *Checker) {
		c.platform = p
	}
}

// WithElevationProbe replaces the check for an already elevated process.
func WithElevationProbe(fn func() (bool, error)) Option {
	return func(c *Checker) {
		c.elevated = fn
	}
}

// WithDiskProbe replaces the free-space query.
func WithDiskProbe(fn func(path string) (uint64, error)) Option {
	return func(c *Checker) {
		c.freeBytes = fn
	}
}

// NewChecker creates a Checker. runner is used for the `sudo -n true` query.
func NewChecker(runner ports.CommandRunner, opts ...Option) *Checker {
	c := &Checker{
		runner:    runner,
		elevated:  isElevated,
		freeBytes: availableBytes,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.platform == nil {
		c.platform = platform.Detect()
	}
	return c
}

// CheckPrivilegeEscalation succeeds when the process is already elevated
// or when `sudo -n true` exits 0. It never prompts for a password.
func (c *Checker) CheckPrivilegeEscalation(ctx context.Context) error {
	elevated, err := c.elevated()
	if err != nil {
		return &PrivilegeError{Reason: "cannot determine process elevation", Err: err}
	}
	if elevated {
		return nil
	}
	if c.platform.OS() == platform.OSWindows {
		return &PrivilegeError{Reason: "process is not elevated"}
	}

	result, err := c.runner.Run(ctx, "sudo", "-n", "true")
	if err != nil {
		return &PrivilegeError{Reason: "sudo could not be run", Err: err}
	}
	if !result.Success() {
		reason := fmt.Sprintf("sudo -n true exited %d", result.ExitCode)
		if msg := strings.TrimSpace(result.Stderr); msg != "" {
			reason += ": " + msg
		}
		return &PrivilegeError{Reason: reason}
	}
	return nil
}

// CheckOSIdentity succeeds when expected is a case-insensitive substring of
// the host identity.
func (c *Checker) CheckOSIdentity(expected string) error {
	actual := c.platform.Identity()
	fold := cases.Fold()
	if !strings.Contains(fold.String(actual), fold.String(expected)) {
		return &UnsupportedOSError{Expected: expected, Actual: actual}
	}
	return nil
}

// CheckOSVersion succeeds when the host VERSION_ID is at least minimum.
// Versions are compared numerically per dotted component, so "9.10" is
// newer than "9.9".
func (c *Checker) CheckOSVersion(minimum string) error {
	distro := c.platform.Distro()
	actual := distro.VersionID
	unsupported := &UnsupportedOSError{
		Expected: fmt.Sprintf("%s >= %s", distroLabel(distro, c.platform), minimum),
		Actual:   strings.TrimSpace(distroLabel(distro, c.platform) + " " + actual),
	}

	want, ok := canonicalVersion(minimum)
	if !ok {
		return fmt.Errorf("invalid minimum OS version %q", minimum)
	}
	have, ok := canonicalVersion(actual)
	if !ok {
		return unsupported
	}
	if semver.Compare(have, want) < 0 {
		return unsupported
	}
	return nil
}

// CheckFreeDiskSpace succeeds when at least minMB megabytes are available
// to unprivileged users on the filesystem holding path.
func (c *Checker) CheckFreeDiskSpace(path string, minMB uint64) error {
	available, err := c.freeBytes(path)
	if err != nil {
		return &DiskReadError{Path: path, Err: err}
	}

	availableMB := available / bytesPerMB
	if availableMB < minMB {
		return &InsufficientSpaceError{Path: path, AvailableMB: availableMB, RequiredMB: minMB}
	}
	return nil
}

func distroLabel(d platform.Distro, p *platform.Platform) string {
	if d.ID != "" {
		return d.ID
	}
	return string(p.OS())
}

// canonicalVersion turns an os-release VERSION_ID such as "22.04" into the
// semver form "v22.4".
func canonicalVersion(v string) (string, bool) {
	v = strings.TrimSpace(v)
	if v == "" {
		return "", false
	}

	parts := strings.Split(v, ".")
	if len(parts) > 3 {
		return "", false
	}
	for i, p := range parts {
		trimmed := strings.TrimLeft(p, "0")
		if trimmed == "" {
			trimmed = "0"
		}
		parts[i] = trimmed
	}

	canonical := "v" + strings.Join(parts, ".")
	if !semver.IsValid(canonical) {
		return "", false
	}
	return canonical, true
}
