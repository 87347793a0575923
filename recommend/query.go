// Package recommend orchestrates the recommendation pipeline: embed the
// query, rank the catalog by similarity, filter and score candidates, and
// compose a learning path.
package recommend

import (
	"fmt"
	"strings"

	"github.com/coursewise/coursewise/scoring"
)

// Query is one recommendation request.
type Query struct {
	// Text is the free-form learning goal to embed.
	Text string `json:"text"`

	// Filters are hard constraints on returned courses.
	Filters scoring.Filters `json:"filters"`

	// Limit caps the number of returned candidates. Must be positive;
	// callers resolve defaults before building a Query.
	Limit int `json:"limit"`

	// Threshold overrides the engine similarity cutoff for this query.
	// Nil keeps the configured cutoff. Must fall within [-1, 1].
	Threshold *float64 `json:"threshold,omitempty"`

	// BudgetHours caps the learning path duration. Zero means no cap
	// beyond the engine default.
	BudgetHours float64 `json:"budget_hours,omitempty"`

	// Background describes the learner ("beginner in data science").
	// Used for gap analysis only.
	Background string `json:"background,omitempty"`

	// Completed lists course IDs the learner has already finished.
	Completed []string `json:"completed,omitempty"`
}

// Validate rejects malformed queries before any external call is made.
func (q Query) Validate() error {
	if strings.TrimSpace(q.Text) == "" {
		return fmt.Errorf("%w: text must not be empty", ErrInvalidQuery)
	}
	if q.Limit <= 0 {
		return fmt.Errorf("%w: limit must be positive", ErrInvalidQuery)
	}
	if q.BudgetHours < 0 {
		return fmt.Errorf("%w: budget_hours must not be negative", ErrInvalidQuery)
	}
	if q.Threshold != nil && (*q.Threshold < -1 || *q.Threshold > 1) {
		return fmt.Errorf("%w: threshold must be within [-1, 1]", ErrInvalidQuery)
	}
	if err := q.Filters.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidQuery, err)
	}
	return nil
}
