// Package analytics summarizes a set of scored courses for the
// presentation layer.
package analytics

import (
	"sort"

	"github.com/coursewise/coursewise/catalog"
	"github.com/coursewise/coursewise/scoring"
)

const topCategoryLimit = 10

// DurationStats are min/max/mean duration hours over a course set.
type DurationStats struct {
	Min  float64 `json:"min"`
	Max  float64 `json:"max"`
	Mean float64 `json:"mean"`
}

// CategoryCount is a category tag with its occurrence count.
type CategoryCount struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

// Summary is a statistical overview of a candidate set.
type Summary struct {
	TotalCourses           int                        `json:"total_courses"`
	AverageSimilarity      float64                    `json:"average_similarity"`
	SkillLevelDistribution map[catalog.SkillLevel]int `json:"skill_level_distribution,omitempty"`
	ModalityDistribution   map[catalog.Modality]int   `json:"modality_distribution,omitempty"`
	Duration               *DurationStats             `json:"duration,omitempty"`
	TopCategories          []CategoryCount            `json:"top_categories,omitempty"`
}

// Summarize computes a Summary over scored candidates. An empty input
// yields a zero Summary.
func Summarize(candidates []scoring.Candidate) Summary {
	if len(candidates) == 0 {
		return Summary{}
	}

	s := Summary{
		TotalCourses:           len(candidates),
		SkillLevelDistribution: make(map[catalog.SkillLevel]int),
		ModalityDistribution:   make(map[catalog.Modality]int),
	}

	var simSum float64
	categoryCounts := make(map[string]int)
	var categoryOrder []string
	var durations []float64

	for _, c := range candidates {
		simSum += c.Similarity
		s.SkillLevelDistribution[c.Course.Level]++
		if c.Course.Modality != "" {
			s.ModalityDistribution[c.Course.Modality]++
		}
		if c.Course.DurationHours > 0 {
			durations = append(durations, c.Course.DurationHours)
		}
		for _, cat := range c.Course.Categories {
			if categoryCounts[cat] == 0 {
				categoryOrder = append(categoryOrder, cat)
			}
			categoryCounts[cat]++
		}
	}

	s.AverageSimilarity = simSum / float64(len(candidates))
	s.Duration = durationStats(durations)
	s.TopCategories = topCategories(categoryCounts, categoryOrder)
	return s
}

// Catalog computes a Summary over raw catalog entries, for the
// catalog-wide analytics endpoint. Similarity is not applicable and
// reported as zero.
func Catalog(entries []catalog.Entry) Summary {
	candidates := make([]scoring.Candidate, len(entries))
	for i, e := range entries {
		candidates[i] = scoring.Candidate{Course: e.Course}
	}
	s := Summarize(candidates)
	s.AverageSimilarity = 0
	return s
}

func durationStats(durations []float64) *DurationStats {
	if len(durations) == 0 {
		return nil
	}
	stats := DurationStats{Min: durations[0], Max: durations[0]}
	var sum float64
	for _, d := range durations {
		if d < stats.Min {
			stats.Min = d
		}
		if d > stats.Max {
			stats.Max = d
		}
		sum += d
	}
	stats.Mean = sum / float64(len(durations))
	return &stats
}

func topCategories(counts map[string]int, order []string) []CategoryCount {
	out := make([]CategoryCount, 0, len(order))
	for _, cat := range order {
		out = append(out, CategoryCount{Category: cat, Count: counts[cat]})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Category < out[j].Category
	})
	if len(out) > topCategoryLimit {
		out = out[:topCategoryLimit]
	}
	return out
}
