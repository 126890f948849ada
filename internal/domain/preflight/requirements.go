package preflight

import (
	"context"
	"fmt"
)

// Check names a preflight check.
type Check string

const (
	// CheckPrivilege is the passwordless escalation check.
	CheckPrivilege Check = "privilege"
	// CheckOS is the OS identity check.
	CheckOS Check = "os"
	// CheckOSVersion is the minimum OS version check.
	CheckOSVersion Check = "os-version"
	// CheckDisk is the free disk space check.
	CheckDisk Check = "disk"
)

// Status is the outcome of a single check.
type Status string

const (
	// StatusPassed means the check succeeded.
	StatusPassed Status = "passed"
	// StatusFailed means the check failed.
	StatusFailed Status = "failed"
	// StatusSkipped means the check was not configured or an earlier check failed.
	StatusSkipped Status = "skipped"
)

// Requirements selects the checks Run performs. Zero values disable a check.
type Requirements struct {
	RequirePrivilege bool
	ExpectedOS       string
	MinOSVersion     string
	DiskPath         string
	MinFreeMB        uint64
}

// CheckResult records one check.
type CheckResult struct {
	Check  Check
	Status Status
	Detail string
	Err    error
}

// Outcome is the aggregate result of Run.
type Outcome struct {
	Checks []CheckResult
	Err    error
}

// Passed returns true if no check failed.
func (o Outcome) Passed() bool {
	return o.Err == nil
}

// Run performs the configured checks in order (privilege, OS identity, OS
// version, disk space) and stops at the first failure. Checks after a
// failure are recorded as skipped.
func (c *Checker) Run(ctx context.Context, req Requirements) Outcome {
	diskPath := req.DiskPath
	if diskPath == "" {
		diskPath = "/"
	}

	checks := []struct {
		check   Check
		enabled bool
		detail  string
		run     func() error
	}{
		{
			check:   CheckPrivilege,
			enabled: req.RequirePrivilege,
			detail:  "passwordless privilege escalation",
			run:     func() error { return c.CheckPrivilegeEscalation(ctx) },
		},
		{
			check:   CheckOS,
			enabled: req.ExpectedOS != "",
			detail:  fmt.Sprintf("OS identity contains %q", req.ExpectedOS),
			run:     func() error { return c.CheckOSIdentity(req.ExpectedOS) },
		},
		{
			check:   CheckOSVersion,
			enabled: req.MinOSVersion != "",
			detail:  fmt.Sprintf("OS version >= %s", req.MinOSVersion),
			run:     func() error { return c.CheckOSVersion(req.MinOSVersion) },
		},
		{
			check:   CheckDisk,
			enabled: req.MinFreeMB > 0,
			detail:  fmt.Sprintf("%d MB free at %s", req.MinFreeMB, diskPath),
			run:     func() error { return c.CheckFreeDiskSpace(diskPath, req.MinFreeMB) },
		},
	}

	var outcome Outcome
	for _, chk := range checks {
		result := CheckResult{Check: chk.check, Detail: chk.detail}
		switch {
		case !chk.enabled, outcome.Err != nil:
			result.Status = StatusSkipped
		default:
			if err := chk.run(); err != nil {
				result.Status = StatusFailed
				result.Err = err
				outcome.Err = err
			} else {
				result.Status = StatusPassed
			}
		}
		outcome.Checks = append(outcome.Checks, result)
	}

	return outcome
}
