// Package execution runs provisioning steps: ordered, fail-fast invocation
// of external executables with a run lifecycle and report.
package execution

import (
	"fmt"
	"path/filepath"
	"time"
)

// WaitSpec turns a step into a bounded poll: the executable is invoked
// until it exits 0, Interval apart, for at most Timeout.
type WaitSpec struct {
	Interval time.Duration
	Timeout  time.Duration
}

// Step is one named executable in a role. Steps are values; copying one
// never shares state with the original except the Args backing array,
// which callers must not mutate.
type Step struct {
	Name     string
	Path     string
	Args     []string
	Required bool
	Timeout  time.Duration
	Wait     *WaitSpec
}

// String returns the step name.
func (s Step) String() string {
	return s.Name
}

// ResolvePath returns the absolute path of a step executable. Absolute
// step paths are returned cleaned; relative ones are joined to baseDir.
func ResolvePath(baseDir, path string) (string, error) {
	if filepath.IsAbs(path) {
		return filepath.Clean(path), nil
	}
	abs, err := filepath.Abs(filepath.Join(baseDir, path))
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s: %w", path, err)
	}
	return abs, nil
}

// Select narrows steps for a partial run. from starts the run at the named
// step; only runs just the named step. At most one may be set.
func Select(steps []Step, from, only string) ([]Step, error) {
	if from != "" && only != "" {
		return nil, fmt.Errorf("--from and --only are mutually exclusive")
	}
	name := from
	if only != "" {
		name = only
	}
	if name == "" {
		return steps, nil
	}

	for i, s := range steps {
		if s.Name != name {
			continue
		}
		if only != "" {
			return steps[i : i+1], nil
		}
		return steps[i:], nil
	}
	return nil, &UnknownStepError{Name: name}
}
