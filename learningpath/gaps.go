package learningpath

import (
	"fmt"
	"strings"
)

// GapSeverity grades how much preparation a learner is missing.
type GapSeverity string

const (
	SeverityLow    GapSeverity = "low"
	SeverityMedium GapSeverity = "medium"
	SeverityHigh   GapSeverity = "high"
)

// GapAnalysis reports prerequisite and readiness concerns for a path.
type GapAnalysis struct {
	Severity           GapSeverity `json:"severity"`
	IdentifiedGaps     []string    `json:"identified_gaps,omitempty"`
	PrerequisiteIssues []string    `json:"prerequisite_issues,omitempty"`
}

// AnalyzeGaps compares a composed path against the learner's stated
// background and completed course IDs. A prerequisite satisfied by an
// earlier step of the same path is not a gap.
func AnalyzeGaps(path Path, background string, completed []string) GapAnalysis {
	covered := make(map[string]bool, len(completed)+len(path.Steps))
	for _, id := range completed {
		covered[strings.ToLower(id)] = true
	}

	bg := strings.ToLower(background)
	seen := make(map[string]bool)
	var gaps []string
	var issues []string

	for _, step := range path.Steps {
		if step.Course.Level.Rank() >= 3 && strings.Contains(bg, "beginner") {
			issues = append(issues, fmt.Sprintf("course %q may be too advanced for your background", step.Course.Title))
		}

		for _, prereq := range step.Course.Prerequisites {
			key := strings.ToLower(prereq)
			if covered[key] || strings.Contains(bg, key) {
				continue
			}
			if !seen[key] {
				seen[key] = true
				gaps = append(gaps, prereq)
			}
			issues = append(issues, fmt.Sprintf("missing prerequisite %q for %q", prereq, step.Course.Title))
		}

		// Later steps may rely on this one.
		covered[strings.ToLower(step.Course.ID)] = true
	}

	return GapAnalysis{
		Severity:           severityFor(len(gaps)),
		IdentifiedGaps:     gaps,
		PrerequisiteIssues: issues,
	}
}

func severityFor(gapCount int) GapSeverity {
	switch {
	case gapCount == 0:
		return SeverityLow
	case gapCount <= 2:
		return SeverityMedium
	default:
		return SeverityHigh
	}
}
