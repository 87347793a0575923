package server

import (
	"github.com/coursewise/coursewise/catalog"
	"github.com/coursewise/coursewise/scoring"
)

// RecommendRequest is the body of POST /api/recommend.
type RecommendRequest struct {
	Text        string          `json:"text" validate:"required"`
	Filters     scoring.Filters `json:"filters"`
	Limit       int             `json:"limit" validate:"gte=0"`
	Threshold   *float64        `json:"threshold" validate:"omitempty,gte=-1,lte=1"`
	BudgetHours float64         `json:"budget_hours" validate:"gte=0"`
	Background  string          `json:"background"`
	Completed   []string        `json:"completed"`
}

// UpsertCourseRequest is the body of PUT /api/courses/{id}. When Embedding
// is omitted the server embeds the course text itself.
type UpsertCourseRequest struct {
	Course    catalog.Course `json:"course" validate:"required"`
	Embedding []float64      `json:"embedding,omitempty"`
}

// AdviseRequest is the body of POST /api/advise.
type AdviseRequest struct {
	Question    string          `json:"question" validate:"required"`
	Text        string          `json:"text" validate:"required"`
	Filters     scoring.Filters `json:"filters"`
	Limit       int             `json:"limit" validate:"gte=0"`
	Threshold   *float64        `json:"threshold" validate:"omitempty,gte=-1,lte=1"`
	BudgetHours float64         `json:"budget_hours" validate:"gte=0"`
}

// AdviseResponse is the answer plus the result it was grounded in.
type AdviseResponse struct {
	Answer     string              `json:"answer"`
	Candidates []scoring.Candidate `json:"candidates"`
}

// SimilarCourseInfo is one neighbour of a reference course.
type SimilarCourseInfo struct {
	Course     catalog.Course `json:"course"`
	Similarity float64        `json:"similarity"`
}

// ErrorResponse is the uniform error body.
type ErrorResponse struct {
	Error string `json:"error"`
}
