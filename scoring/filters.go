// Package scoring narrows ranked candidates with hard filters and blends
// similarity with secondary signals into a composite score.
package scoring

import (
	"errors"
	"fmt"
	"strings"

	"github.com/coursewise/coursewise/catalog"
)

// ErrInvalidRange is returned when a filter range has min greater than max.
var ErrInvalidRange = errors.New("invalid filter range")

// Filters are the structured hard constraints of a query. A candidate
// failing any set filter is removed entirely, never down-scored.
type Filters struct {
	SkillLevels       []catalog.SkillLevel `json:"skill_levels,omitempty"`
	Modalities        []catalog.Modality   `json:"modalities,omitempty"`
	Providers         []string             `json:"providers,omitempty"`
	Categories        []string             `json:"categories,omitempty"`
	ExcludeCategories []string             `json:"exclude_categories,omitempty"`
	Regions           []string             `json:"regions,omitempty"`
	MinDuration       *float64             `json:"min_duration,omitempty"`
	MaxDuration       *float64             `json:"max_duration,omitempty"`
	MinPrice          *float64             `json:"min_price,omitempty"`
	MaxPrice          *float64             `json:"max_price,omitempty"`
}

// Empty reports whether no filter is set.
func (f Filters) Empty() bool {
	return len(f.SkillLevels) == 0 && len(f.Modalities) == 0 &&
		len(f.Providers) == 0 && len(f.Categories) == 0 &&
		len(f.ExcludeCategories) == 0 && len(f.Regions) == 0 &&
		f.MinDuration == nil && f.MaxDuration == nil &&
		f.MinPrice == nil && f.MaxPrice == nil
}

// Validate rejects malformed ranges before any external call is made.
func (f Filters) Validate() error {
	if f.MinDuration != nil && f.MaxDuration != nil && *f.MinDuration > *f.MaxDuration {
		return fmt.Errorf("%w: duration min %.1f > max %.1f", ErrInvalidRange, *f.MinDuration, *f.MaxDuration)
	}
	if f.MinPrice != nil && f.MaxPrice != nil && *f.MinPrice > *f.MaxPrice {
		return fmt.Errorf("%w: price min %.2f > max %.2f", ErrInvalidRange, *f.MinPrice, *f.MaxPrice)
	}
	return nil
}

// Matches reports whether a course passes every set filter.
func (f Filters) Matches(c catalog.Course) bool {
	if len(f.SkillLevels) > 0 && !containsLevel(f.SkillLevels, c.Level) {
		return false
	}
	if len(f.Modalities) > 0 && !containsModality(f.Modalities, c.Modality) {
		return false
	}
	if len(f.Providers) > 0 && !containsFold(f.Providers, c.Provider) {
		return false
	}
	if f.MinDuration != nil && c.DurationHours < *f.MinDuration {
		return false
	}
	if f.MaxDuration != nil && c.DurationHours > *f.MaxDuration {
		return false
	}
	if f.MinPrice != nil && coursePrice(c) < *f.MinPrice {
		return false
	}
	if f.MaxPrice != nil && coursePrice(c) > *f.MaxPrice {
		return false
	}
	if len(f.Categories) > 0 && countOverlap(f.Categories, c.Categories) == 0 {
		return false
	}
	for _, ex := range f.ExcludeCategories {
		if c.HasCategory(ex) {
			return false
		}
	}
	if len(f.Regions) > 0 && len(c.Regions) > 0 && countOverlap(f.Regions, c.Regions) == 0 {
		return false
	}
	return true
}

// Applied returns human-readable descriptions of every set filter, used in
// diagnostics so an empty result can be explained to the user.
func (f Filters) Applied() []string {
	var applied []string
	if len(f.SkillLevels) > 0 {
		applied = append(applied, "skill_levels="+joinLevels(f.SkillLevels))
	}
	if len(f.Modalities) > 0 {
		applied = append(applied, "modalities="+joinModalities(f.Modalities))
	}
	if len(f.Providers) > 0 {
		applied = append(applied, "providers="+strings.Join(f.Providers, ","))
	}
	if len(f.Categories) > 0 {
		applied = append(applied, "categories="+strings.Join(f.Categories, ","))
	}
	if len(f.ExcludeCategories) > 0 {
		applied = append(applied, "exclude_categories="+strings.Join(f.ExcludeCategories, ","))
	}
	if len(f.Regions) > 0 {
		applied = append(applied, "regions="+strings.Join(f.Regions, ","))
	}
	if f.MinDuration != nil {
		applied = append(applied, fmt.Sprintf("min_duration=%.1f", *f.MinDuration))
	}
	if f.MaxDuration != nil {
		applied = append(applied, fmt.Sprintf("max_duration=%.1f", *f.MaxDuration))
	}
	if f.MinPrice != nil {
		applied = append(applied, fmt.Sprintf("min_price=%.2f", *f.MinPrice))
	}
	if f.MaxPrice != nil {
		applied = append(applied, fmt.Sprintf("max_price=%.2f", *f.MaxPrice))
	}
	return applied
}

func coursePrice(c catalog.Course) float64 {
	if c.Price == nil {
		return 0
	}
	return *c.Price
}

func containsLevel(levels []catalog.SkillLevel, l catalog.SkillLevel) bool {
	for _, x := range levels {
		if x == l {
			return true
		}
	}
	return false
}

func containsModality(modalities []catalog.Modality, m catalog.Modality) bool {
	for _, x := range modalities {
		if x == m {
			return true
		}
	}
	return false
}

func containsFold(haystack []string, needle string) bool {
	for _, x := range haystack {
		if strings.EqualFold(x, needle) {
			return true
		}
	}
	return false
}

func countOverlap(requested, have []string) int {
	n := 0
	for _, r := range requested {
		for _, h := range have {
			if strings.EqualFold(r, h) {
				n++
				break
			}
		}
	}
	return n
}

func joinLevels(levels []catalog.SkillLevel) string {
	parts := make([]string, len(levels))
	for i, l := range levels {
		parts[i] = string(l)
	}
	return strings.Join(parts, ",")
}

func joinModalities(modalities []catalog.Modality) string {
	parts := make([]string, len(modalities))
	for i, m := range modalities {
		parts[i] = string(m)
	}
	return strings.Join(parts, ",")
}
