// Package learningpath sequences scored courses into a prerequisite-
// respecting progression from beginner to advanced.
package learningpath

import (
	"fmt"
	"sort"
	"strings"

	"github.com/coursewise/coursewise/catalog"
	"github.com/coursewise/coursewise/scoring"
)

// Assumed weekly study pace, used to estimate completion time.
const hoursPerMonth = 20

// Step is one course in a composed path.
type Step struct {
	Course          catalog.Course `json:"course"`
	Score           float64        `json:"score"`
	Similarity      float64        `json:"similarity"`
	Index           int            `json:"index"`
	CumulativeHours float64        `json:"cumulative_hours"`
	// Optional marks steps past the total-duration budget. They are still
	// returned, just flagged as extended material.
	Optional bool `json:"optional"`
}

// Path is a request-scoped ordered course sequence.
type Path struct {
	Name             string               `json:"name"`
	Description      string               `json:"description"`
	Steps            []Step               `json:"steps"`
	TotalHours       float64              `json:"total_hours"`
	EstimatedMonths  int                  `json:"estimated_months"`
	SkillProgression []catalog.SkillLevel `json:"skill_progression"`
	// Degraded marks a path whose prerequisite ordering could not be
	// honored because of a cycle in the candidate set; ordering fell back
	// to skill level and score alone.
	Degraded bool `json:"degraded"`
}

// Compose orders the final candidate list into a learning path. Prerequisite
// edges pointing outside the candidate set are ignored; the path is
// self-contained. budgetHours <= 0 means no budget.
func Compose(candidates []scoring.Candidate, budgetHours float64) Path {
	if len(candidates) == 0 {
		return Path{}
	}

	base := make([]scoring.Candidate, len(candidates))
	copy(base, candidates)
	sort.SliceStable(base, func(i, j int) bool {
		return baseLess(base[i], base[j])
	})

	ordered, degraded := orderByPrerequisites(base)

	var total float64
	steps := make([]Step, len(ordered))
	for i, c := range ordered {
		total += c.Course.DurationHours
		steps[i] = Step{
			Course:          c.Course,
			Score:           c.Score,
			Similarity:      c.Similarity,
			Index:           i,
			CumulativeHours: total,
			Optional:        budgetHours > 0 && total > budgetHours,
		}
	}

	months := int(total / hoursPerMonth)
	if months < 1 {
		months = 1
	}

	progression := skillProgression(steps)
	return Path{
		Name:             pathName(ordered),
		Description:      pathDescription(progression),
		Steps:            steps,
		TotalHours:       total,
		EstimatedMonths:  months,
		SkillProgression: progression,
		Degraded:         degraded,
	}
}

// baseLess is the fallback ordering: skill level rank, composite score
// descending, prerequisite count ascending, course ID for determinism.
func baseLess(a, b scoring.Candidate) bool {
	if ra, rb := a.Course.Level.Rank(), b.Course.Level.Rank(); ra != rb {
		return ra < rb
	}
	if a.Score != b.Score {
		return a.Score > b.Score
	}
	if la, lb := len(a.Course.Prerequisites), len(b.Course.Prerequisites); la != lb {
		return la < lb
	}
	return a.Course.ID < b.Course.ID
}

// orderByPrerequisites performs a stable topological pass over prerequisite
// edges restricted to the candidate set, preferring base order among ready
// courses. Edges whose prerequisite sits at a higher skill rank than the
// dependent are ignored: skill progression always dominates, so an advanced
// course can never be pulled ahead of a beginner one by its edge. On a
// cycle it falls back to base order and reports degraded.
func orderByPrerequisites(base []scoring.Candidate) ([]scoring.Candidate, bool) {
	inSet := make(map[string]int, len(base))
	for i, c := range base {
		inSet[c.Course.ID] = i
	}

	indegree := make([]int, len(base))
	dependents := make(map[string][]int, len(base))
	for i, c := range base {
		for _, prereq := range c.Course.Prerequisites {
			j, ok := inSet[prereq]
			if !ok || j == i {
				continue
			}
			if base[j].Course.Level.Rank() > c.Course.Level.Rank() {
				continue
			}
			indegree[i]++
			dependents[prereq] = append(dependents[prereq], i)
		}
	}

	ordered := make([]scoring.Candidate, 0, len(base))
	placed := make([]bool, len(base))

	for len(ordered) < len(base) {
		next := -1
		for i := range base {
			if !placed[i] && indegree[i] == 0 {
				next = i
				break
			}
		}
		if next == -1 {
			// Cycle among the remaining prerequisite edges.
			return base, true
		}

		placed[next] = true
		ordered = append(ordered, base[next])
		for _, dep := range dependents[base[next].Course.ID] {
			indegree[dep]--
		}
	}

	return ordered, false
}

func skillProgression(steps []Step) []catalog.SkillLevel {
	seen := make(map[catalog.SkillLevel]bool)
	var levels []catalog.SkillLevel
	for _, s := range steps {
		if !seen[s.Course.Level] {
			seen[s.Course.Level] = true
			levels = append(levels, s.Course.Level)
		}
	}
	sort.Slice(levels, func(i, j int) bool {
		return levels[i].Rank() < levels[j].Rank()
	})
	return levels
}

// pathName derives a name from categories shared by more than one course.
func pathName(candidates []scoring.Candidate) string {
	counts := make(map[string]int)
	var order []string
	for _, c := range candidates {
		for _, cat := range c.Course.Categories {
			if counts[cat] == 0 {
				order = append(order, cat)
			}
			counts[cat]++
		}
	}

	var shared []string
	for _, cat := range order {
		if counts[cat] > 1 {
			shared = append(shared, cat)
		}
	}
	if len(shared) == 0 {
		return "Professional Development Path"
	}
	if len(shared) > 2 {
		shared = shared[:2]
	}
	return fmt.Sprintf("%s Learning Path", strings.Join(shared, " & "))
}

func pathDescription(progression []catalog.SkillLevel) string {
	if len(progression) == 0 {
		return ""
	}
	first := progression[0]
	last := progression[len(progression)-1]
	if first == last {
		return fmt.Sprintf("Structured learning path at %s level", first)
	}
	return fmt.Sprintf("Structured learning path progressing from %s to %s level", first, last)
}
