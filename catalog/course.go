// Package catalog provides course catalog storage with embedding vectors.
package catalog

// SkillLevel is the difficulty level of a course.
type SkillLevel string

const (
	LevelBeginner     SkillLevel = "beginner"
	LevelIntermediate SkillLevel = "intermediate"
	LevelAdvanced     SkillLevel = "advanced"
	LevelExpert       SkillLevel = "expert"
)

// Rank returns the ordinal position of the level for progression ordering.
// Unknown levels rank as intermediate.
func (l SkillLevel) Rank() int {
	switch l {
	case LevelBeginner:
		return 1
	case LevelIntermediate:
		return 2
	case LevelAdvanced:
		return 3
	case LevelExpert:
		return 4
	default:
		return 2
	}
}

// Valid reports whether l is one of the known skill levels.
func (l SkillLevel) Valid() bool {
	switch l {
	case LevelBeginner, LevelIntermediate, LevelAdvanced, LevelExpert:
		return true
	}
	return false
}

// Modality is the delivery format of a course.
type Modality string

const (
	ModalityOnline   Modality = "online"
	ModalityHybrid   Modality = "hybrid"
	ModalityInPerson Modality = "in-person"
)

// Course is an immutable catalog record. Created by ingestion, read-only
// to the query path.
type Course struct {
	ID                   string     `json:"id"`
	Title                string     `json:"title"`
	Description          string     `json:"description,omitempty"`
	Provider             string     `json:"provider,omitempty"`
	Level                SkillLevel `json:"level"`
	DurationHours        float64    `json:"duration_hours"`
	Price                *float64   `json:"price,omitempty"` // nil means free
	Modality             Modality   `json:"modality,omitempty"`
	Categories           []string   `json:"categories,omitempty"`
	Prerequisites        []string   `json:"prerequisites,omitempty"` // course IDs
	Regions              []string   `json:"regions,omitempty"`
	Rating               float64    `json:"rating,omitempty"`
	EnrollmentCount      int        `json:"enrollment_count,omitempty"`
	CertificationOffered bool       `json:"certification_offered,omitempty"`
	PopularityScore      float64    `json:"popularity_score,omitempty"`
}

// Free reports whether the course has no price.
func (c Course) Free() bool {
	return c.Price == nil || *c.Price == 0
}

// HasCategory reports whether the course carries the given category tag.
func (c Course) HasCategory(cat string) bool {
	for _, t := range c.Categories {
		if t == cat {
			return true
		}
	}
	return false
}

// Entry pairs a course with its stored embedding.
type Entry struct {
	Course    Course    `json:"course"`
	Embedding []float64 `json:"embedding,omitempty"`
}
