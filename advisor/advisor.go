// Package advisor answers free-form questions about a recommendation
// result by prompting a chat model with the ranked courses as grounding.
package advisor

import (
	"context"
	"fmt"
	"strings"

	"github.com/coursewise/coursewise/learningpath"
	"github.com/coursewise/coursewise/scoring"
)

// Advisor produces a natural-language answer grounded in a set of
// recommended courses.
type Advisor interface {
	Advise(ctx context.Context, question string, candidates []scoring.Candidate, path *learningpath.Path) (string, error)
}

const systemPrompt = `You are a course advisor. Answer the user's question using only the courses listed in the context. Recommend specific courses by title, explain why they fit, and suggest an order of study when relevant. If the context contains no suitable course, say so rather than inventing one.`

// buildPrompt renders the candidates and optional path into the user
// message sent alongside the question.
func buildPrompt(question string, candidates []scoring.Candidate, path *learningpath.Path) string {
	var b strings.Builder

	b.WriteString("Recommended courses:\n")
	for i, c := range candidates {
		price := "free"
		if !c.Course.Free() {
			price = fmt.Sprintf("$%.2f", *c.Course.Price)
		}
		fmt.Fprintf(&b, "%d. %s (%s, %s, %.1fh, %s, similarity %.2f)\n",
			i+1, c.Course.Title, c.Course.Provider, c.Course.Level, c.Course.DurationHours, price, c.Similarity)
		if c.Course.Description != "" {
			fmt.Fprintf(&b, "   %s\n", c.Course.Description)
		}
	}

	if path != nil && len(path.Steps) > 0 {
		fmt.Fprintf(&b, "\nSuggested learning path (%s, ~%d months):\n", path.Name, path.EstimatedMonths)
		for _, s := range path.Steps {
			marker := ""
			if s.Optional {
				marker = " (optional)"
			}
			fmt.Fprintf(&b, "%d. %s%s\n", s.Index+1, s.Course.Title, marker)
		}
	}

	fmt.Fprintf(&b, "\nQuestion: %s", question)
	return b.String()
}
