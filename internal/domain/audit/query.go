package audit

import (
	"strings"
	"time"
)

// QueryFilter defines criteria for filtering run records.
type QueryFilter struct {
	// Role filters by exact role name
	Role string

	// Status filters by run status (succeeded, failed, cancelled)
	Status string

	// Since filters runs started after this time
	Since time.Time

	// FailuresOnly includes only unsuccessful runs
	FailuresOnly bool

	// Limit maximum number of results (0 = no limit)
	Limit int
}

// Matches returns true if the record matches the filter.
func (f QueryFilter) Matches(rec RunRecord) bool {
	if f.Role != "" && rec.Role != f.Role {
		return false
	}
	if f.Status != "" && !strings.EqualFold(rec.Status, f.Status) {
		return false
	}
	if !f.Since.IsZero() && rec.StartedAt.Before(f.Since) {
		return false
	}
	if f.FailuresOnly && rec.Success {
		return false
	}
	return true
}
