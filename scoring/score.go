package scoring

import (
	"fmt"
	"math"
	"sort"

	"github.com/coursewise/coursewise/catalog"
	"github.com/coursewise/coursewise/vector"
)

// Weights blend similarity and secondary signals into the composite score.
// They are product tuning values and should come from configuration.
type Weights struct {
	Similarity  float64 `json:"similarity" koanf:"similarity"`
	Popularity  float64 `json:"popularity" koanf:"popularity"`
	FilterBonus float64 `json:"filter_bonus" koanf:"filter_bonus"`
}

// DefaultWeights returns the default scoring weights.
func DefaultWeights() Weights {
	return Weights{Similarity: 0.7, Popularity: 0.2, FilterBonus: 0.1}
}

// Validate rejects weights that are negative or do not sum to 1.
func (w Weights) Validate() error {
	if w.Similarity < 0 || w.Popularity < 0 || w.FilterBonus < 0 {
		return fmt.Errorf("weights must be non-negative: %+v", w)
	}
	sum := w.Similarity + w.Popularity + w.FilterBonus
	if math.Abs(sum-1) > 1e-6 {
		return fmt.Errorf("weights must sum to 1, got %.6f", sum)
	}
	return nil
}

// MatchFlags records which requested filters a candidate satisfied.
type MatchFlags struct {
	Level    bool `json:"level,omitempty"`
	Modality bool `json:"modality,omitempty"`
	Provider bool `json:"provider,omitempty"`
	Duration bool `json:"duration,omitempty"`
	Price    bool `json:"price,omitempty"`
	Category bool `json:"category,omitempty"`
}

// Candidate is a request-scoped scored course. It exists only for the
// duration of one query and is never persisted.
type Candidate struct {
	Course     catalog.Course `json:"course"`
	Similarity float64        `json:"similarity"`
	Score      float64        `json:"score"`
	Matched    MatchFlags     `json:"matched_filters"`
}

// Score applies hard filters to the ranked list, blends the composite
// score, re-sorts, and truncates to limit (limit <= 0 means no truncation).
//
// Popularity is min/max-normalized across the surviving candidate set,
// recomputed per query since the set varies. An empty return with a
// non-empty input means the filters eliminated every candidate; that is a
// valid NoMatches outcome for the caller, not an error.
func Score(ranked []vector.Ranked, f Filters, w Weights, limit int) []Candidate {
	survivors := make([]vector.Ranked, 0, len(ranked))
	for _, r := range ranked {
		if f.Matches(r.Entry.Course) {
			survivors = append(survivors, r)
		}
	}
	if len(survivors) == 0 {
		return nil
	}

	minPop, maxPop := popularityBounds(survivors)

	candidates := make([]Candidate, 0, len(survivors))
	for _, r := range survivors {
		c := r.Entry.Course
		sim := math.Max(0, r.Similarity)
		pop := normalizePopularity(c.PopularityScore, minPop, maxPop)
		bonus := filterBonus(c, f)

		candidates = append(candidates, Candidate{
			Course:     c,
			Similarity: r.Similarity,
			Score:      w.Similarity*sim + w.Popularity*pop + w.FilterBonus*bonus,
			Matched:    matchFlags(c, f),
		})
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].Score != candidates[j].Score {
			return candidates[i].Score > candidates[j].Score
		}
		return candidates[i].Course.ID < candidates[j].Course.ID
	})

	if limit > 0 && len(candidates) > limit {
		candidates = candidates[:limit]
	}
	return candidates
}

func popularityBounds(ranked []vector.Ranked) (minPop, maxPop float64) {
	minPop = math.Inf(1)
	maxPop = math.Inf(-1)
	for _, r := range ranked {
		p := r.Entry.Course.PopularityScore
		if p < minPop {
			minPop = p
		}
		if p > maxPop {
			maxPop = p
		}
	}
	return minPop, maxPop
}

func normalizePopularity(p, minPop, maxPop float64) float64 {
	if maxPop <= minPop {
		return 0
	}
	return (p - minPop) / (maxPop - minPop)
}

// filterBonus rewards category overlap beyond the one match hard filtering
// requires, plus the quality signals the catalog carries.
func filterBonus(c catalog.Course, f Filters) float64 {
	var overlap float64
	if n := len(f.Categories); n > 1 {
		extra := countOverlap(f.Categories, c.Categories) - 1
		if extra > 0 {
			overlap = float64(extra) / float64(n-1)
		}
	}

	var quality float64
	if c.Rating >= 4.0 {
		quality += 0.4
	}
	if c.EnrollmentCount > 1000 {
		quality += 0.3
	}
	if c.CertificationOffered {
		quality += 0.3
	}

	return 0.5*overlap + 0.5*quality
}

func matchFlags(c catalog.Course, f Filters) MatchFlags {
	return MatchFlags{
		Level:    len(f.SkillLevels) > 0,
		Modality: len(f.Modalities) > 0,
		Provider: len(f.Providers) > 0,
		Duration: f.MinDuration != nil || f.MaxDuration != nil,
		Price:    f.MinPrice != nil || f.MaxPrice != nil,
		Category: len(f.Categories) > 0,
	}
}
