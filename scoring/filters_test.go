package scoring

import (
	"errors"
	"strings"
	"testing"

	"github.com/coursewise/coursewise/catalog"
)

func fptr(v float64) *float64 { return &v }

func TestFiltersValidate(t *testing.T) {
	cases := []struct {
		name    string
		filters Filters
		wantErr bool
	}{
		{"empty", Filters{}, false},
		{"valid ranges", Filters{MinDuration: fptr(5), MaxDuration: fptr(40)}, false},
		{"duration min > max", Filters{MinDuration: fptr(40), MaxDuration: fptr(5)}, true},
		{"price min > max", Filters{MinPrice: fptr(100), MaxPrice: fptr(10)}, true},
		{"equal bounds", Filters{MinPrice: fptr(10), MaxPrice: fptr(10)}, false},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			err := c.filters.Validate()
			if c.wantErr && !errors.Is(err, ErrInvalidRange) {
				t.Errorf("err = %v, want ErrInvalidRange", err)
			}
			if !c.wantErr && err != nil {
				t.Errorf("unexpected err: %v", err)
			}
		})
	}
}

func TestFiltersMatches(t *testing.T) {
	price := 50.0
	course := catalog.Course{
		ID:            "web-301",
		Level:         catalog.LevelAdvanced,
		DurationHours: 30,
		Price:         &price,
		Modality:      catalog.ModalityOnline,
		Provider:      "TechEd",
		Categories:    []string{"web", "javascript"},
		Regions:       []string{"US"},
	}

	cases := []struct {
		name    string
		filters Filters
		want    bool
	}{
		{"empty matches all", Filters{}, true},
		{"level in set", Filters{SkillLevels: []catalog.SkillLevel{catalog.LevelAdvanced}}, true},
		{"level not in set", Filters{SkillLevels: []catalog.SkillLevel{catalog.LevelBeginner}}, false},
		{"duration inside", Filters{MinDuration: fptr(10), MaxDuration: fptr(40)}, true},
		{"duration above max", Filters{MaxDuration: fptr(20)}, false},
		{"price inside", Filters{MaxPrice: fptr(60)}, true},
		{"price above max", Filters{MaxPrice: fptr(10)}, false},
		{"category overlap", Filters{Categories: []string{"web", "rust"}}, true},
		{"no category overlap", Filters{Categories: []string{"rust"}}, false},
		{"excluded category", Filters{ExcludeCategories: []string{"javascript"}}, false},
		{"modality match", Filters{Modalities: []catalog.Modality{catalog.ModalityOnline}}, true},
		{"modality mismatch", Filters{Modalities: []catalog.Modality{catalog.ModalityInPerson}}, false},
		{"provider case-insensitive", Filters{Providers: []string{"teched"}}, true},
		{"region match", Filters{Regions: []string{"US", "EU"}}, true},
		{"region mismatch", Filters{Regions: []string{"APAC"}}, false},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := c.filters.Matches(course); got != c.want {
				t.Errorf("Matches = %v, want %v", got, c.want)
			}
		})
	}
}

func TestFiltersMatchesFreeCourse(t *testing.T) {
	free := catalog.Course{ID: "free", Level: catalog.LevelBeginner}
	if !(Filters{MaxPrice: fptr(10)}).Matches(free) {
		t.Error("free course should pass a max-price filter")
	}
	if (Filters{MinPrice: fptr(10)}).Matches(free) {
		t.Error("free course should fail a min-price filter")
	}
}

func TestFiltersApplied(t *testing.T) {
	f := Filters{
		SkillLevels: []catalog.SkillLevel{catalog.LevelBeginner, catalog.LevelIntermediate},
		MaxPrice:    fptr(10),
	}
	applied := f.Applied()
	if len(applied) != 2 {
		t.Fatalf("applied = %v, want 2 entries", applied)
	}
	if applied[0] != "skill_levels=beginner,intermediate" {
		t.Errorf("applied[0] = %q", applied[0])
	}
	if !strings.HasPrefix(applied[1], "max_price=10") {
		t.Errorf("applied[1] = %q", applied[1])
	}

	if got := (Filters{}).Applied(); len(got) != 0 {
		t.Errorf("empty filters applied = %v", got)
	}
}
