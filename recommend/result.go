package recommend

import (
	"github.com/coursewise/coursewise/analytics"
	"github.com/coursewise/coursewise/learningpath"
	"github.com/coursewise/coursewise/scoring"
)

// Result is the full outcome of one recommendation query. NoMatches is a
// valid result, not an error: Candidates is empty and Diagnostics explains
// what eliminated the catalog.
type Result struct {
	Candidates  []scoring.Candidate       `json:"candidates"`
	Path        *learningpath.Path        `json:"path,omitempty"`
	Gaps        *learningpath.GapAnalysis `json:"gaps,omitempty"`
	Analytics   *analytics.Summary        `json:"analytics,omitempty"`
	Diagnostics Diagnostics               `json:"diagnostics"`
}

// Diagnostics carries the query trace callers need to explain a result.
type Diagnostics struct {
	RequestID      string          `json:"request_id"`
	AppliedFilters []string        `json:"applied_filters,omitempty"`
	Skipped        []SkippedCourse `json:"skipped_courses,omitempty"`
	Threshold      float64         `json:"threshold"`
	NoMatches      bool            `json:"no_matches,omitempty"`
	Degraded       bool            `json:"degraded,omitempty"`
	CacheHit       bool            `json:"cache_hit,omitempty"`
	ElapsedMS      int64           `json:"elapsed_ms"`
}

// SkippedCourse names a catalog entry excluded from ranking and why.
type SkippedCourse struct {
	CourseID string `json:"course_id"`
	Reason   string `json:"reason"`
}
