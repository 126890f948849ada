package execution

import (
	"github.com/felixgeelhaar/baseline/internal/ports"
)

// PlanEntry describes how a step would run without running it.
type PlanEntry struct {
	step       Step
	path       string
	present    bool
	executable bool
	err        error
}

// Step returns the planned step.
func (e PlanEntry) Step() Step {
	return e.step
}

// Path returns the resolved executable path.
func (e PlanEntry) Path() string {
	return e.path
}

// Present reports whether the executable exists.
func (e PlanEntry) Present() bool {
	return e.present
}

// Executable reports whether every execute bit is already set.
func (e PlanEntry) Executable() bool {
	return e.executable
}

// Error returns a resolution error, if any.
func (e PlanEntry) Error() error {
	return e.err
}

// Blocking returns true if the entry would stop a run: a required step
// whose executable is missing or unresolvable.
func (e PlanEntry) Blocking() bool {
	return e.step.Required && (!e.present || e.err != nil)
}

// PlanSummary provides aggregate statistics about a plan.
type PlanSummary struct {
	Total    int
	Present  int
	Missing  int
	Blocking int
}

// Plan is the resolved, ordered list of steps a run would execute.
type Plan struct {
	baseDir string
	entries []PlanEntry
}

// NewPlan resolves steps against baseDir and inspects each executable.
func NewPlan(fs ports.FileSystem, steps []Step, baseDir string) *Plan {
	p := &Plan{baseDir: baseDir, entries: make([]PlanEntry, 0, len(steps))}
	for _, step := range steps {
		entry := PlanEntry{step: step}
		path, err := ResolvePath(baseDir, step.Path)
		if err != nil {
			entry.err = err
			p.entries = append(p.entries, entry)
			continue
		}
		entry.path = path
		if fs.Exists(path) {
			entry.present = true
			if info, err := fs.Stat(path); err == nil {
				entry.executable = info.Executable()
			}
		}
		p.entries = append(p.entries, entry)
	}
	return p
}

// BaseDir returns the directory steps were resolved against.
func (p *Plan) BaseDir() string {
	return p.baseDir
}

// Entries returns a copy of the plan entries.
func (p *Plan) Entries() []PlanEntry {
	out := make([]PlanEntry, len(p.entries))
	copy(out, p.entries)
	return out
}

// Len returns the number of entries.
func (p *Plan) Len() int {
	return len(p.entries)
}

// Summary returns aggregate statistics.
func (p *Plan) Summary() PlanSummary {
	s := PlanSummary{Total: len(p.entries)}
	for _, e := range p.entries {
		if e.present {
			s.Present++
		} else {
			s.Missing++
		}
		if e.Blocking() {
			s.Blocking++
		}
	}
	return s
}

// Runnable returns true if no entry would stop a run.
func (p *Plan) Runnable() bool {
	return p.Summary().Blocking == 0
}
