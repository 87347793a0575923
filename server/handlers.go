package server

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	json "github.com/goccy/go-json"

	"github.com/coursewise/coursewise/catalog"
	"github.com/coursewise/coursewise/recommend"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Write([]byte("OK"))
}

func (s *Server) handleRecommend(w http.ResponseWriter, r *http.Request) {
	var req RecommendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	if err := s.validate.Struct(req); err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	result, err := s.engine.Recommend(r.Context(), recommend.Query{
		Text:        req.Text,
		Filters:     req.Filters,
		Limit:       s.resolveLimit(req.Limit),
		Threshold:   req.Threshold,
		BudgetHours: req.BudgetHours,
		Background:  req.Background,
		Completed:   req.Completed,
	})
	if err != nil {
		s.writeQueryError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleAdvise(w http.ResponseWriter, r *http.Request) {
	if s.advisor == nil {
		s.writeError(w, http.StatusServiceUnavailable, errors.New("advisor not configured"))
		return
	}

	var req AdviseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	if err := s.validate.Struct(req); err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	result, err := s.engine.Recommend(r.Context(), recommend.Query{
		Text:        req.Text,
		Filters:     req.Filters,
		Limit:       s.resolveLimit(req.Limit),
		Threshold:   req.Threshold,
		BudgetHours: req.BudgetHours,
	})
	if err != nil {
		s.writeQueryError(w, err)
		return
	}

	answer, err := s.advisor.Advise(r.Context(), req.Question, result.Candidates, result.Path)
	if err != nil {
		s.log.Error().Err(err).Msg("advisor failed")
		s.writeError(w, http.StatusBadGateway, err)
		return
	}

	s.writeJSON(w, http.StatusOK, AdviseResponse{
		Answer:     answer,
		Candidates: result.Candidates,
	})
}

func (s *Server) handleAnalytics(w http.ResponseWriter, r *http.Request) {
	summary, err := s.engine.CatalogAnalytics(r.Context())
	if err != nil {
		s.writeQueryError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, summary)
}

func (s *Server) handleCourseGet(w http.ResponseWriter, r *http.Request) {
	entry, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, entry.Course)
}

func (s *Server) handleCourseUpsert(w http.ResponseWriter, r *http.Request) {
	var req UpsertCourseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	id := chi.URLParam(r, "id")
	if req.Course.ID == "" {
		req.Course.ID = id
	}
	if req.Course.ID != id {
		s.writeError(w, http.StatusBadRequest, errors.New("course ID does not match URL"))
		return
	}
	if req.Course.Title == "" {
		s.writeError(w, http.StatusBadRequest, errors.New("course title must not be empty"))
		return
	}

	embedding := req.Embedding
	if len(embedding) == 0 {
		if s.embedder == nil {
			s.writeError(w, http.StatusBadRequest, errors.New("embedding required"))
			return
		}
		var err error
		embedding, err = s.embedder.Embed(r.Context(), courseText(req.Course))
		if err != nil {
			s.log.Error().Err(err).Str("course_id", id).Msg("course embedding failed")
			s.writeError(w, http.StatusBadGateway, err)
			return
		}
	}

	if err := s.store.Upsert(r.Context(), req.Course, embedding); err != nil {
		s.writeStoreError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, req.Course)
}

func (s *Server) handleCourseSimilar(w http.ResponseWriter, r *http.Request) {
	limit := 5
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			s.writeError(w, http.StatusBadRequest, errors.New("limit must be a positive integer"))
			return
		}
		limit = n
	}
	if limit > s.maxLimit {
		limit = s.maxLimit
	}

	ranked, err := s.engine.Similar(r.Context(), chi.URLParam(r, "id"), limit)
	if err != nil {
		s.writeQueryError(w, err)
		return
	}

	out := make([]SimilarCourseInfo, len(ranked))
	for i, rk := range ranked {
		out[i] = SimilarCourseInfo{Course: rk.Entry.Course, Similarity: rk.Similarity}
	}
	s.writeJSON(w, http.StatusOK, out)
}

// resolveLimit fills in the default and clamps to the maximum.
func (s *Server) resolveLimit(limit int) int {
	if limit <= 0 {
		return s.defaultLimit
	}
	if limit > s.maxLimit {
		return s.maxLimit
	}
	return limit
}

// courseText is the string embedded for a course when no vector is supplied.
func courseText(c catalog.Course) string {
	parts := []string{c.Title}
	if c.Description != "" {
		parts = append(parts, c.Description)
	}
	if len(c.Categories) > 0 {
		parts = append(parts, strings.Join(c.Categories, ", "))
	}
	return strings.Join(parts, ". ")
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Error().Err(err).Msg("response encoding failed")
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	s.writeJSON(w, status, ErrorResponse{Error: err.Error()})
}

// writeQueryError maps engine errors to HTTP statuses.
func (s *Server) writeQueryError(w http.ResponseWriter, err error) {
	var verr validator.ValidationErrors
	switch {
	case errors.Is(err, recommend.ErrInvalidQuery), errors.As(err, &verr):
		s.writeError(w, http.StatusBadRequest, err)
	case errors.Is(err, catalog.ErrNotFound):
		s.writeError(w, http.StatusNotFound, err)
	case errors.Is(err, recommend.ErrEmbedding):
		s.writeError(w, http.StatusBadGateway, err)
	case errors.Is(err, recommend.ErrCatalog), errors.Is(err, catalog.ErrUnavailable):
		s.writeError(w, http.StatusServiceUnavailable, err)
	default:
		s.writeError(w, http.StatusInternalServerError, err)
	}
}

// writeStoreError maps catalog errors to HTTP statuses.
func (s *Server) writeStoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, catalog.ErrNotFound):
		s.writeError(w, http.StatusNotFound, err)
	case errors.Is(err, catalog.ErrDimensionMismatch):
		s.writeError(w, http.StatusBadRequest, err)
	case errors.Is(err, catalog.ErrUnavailable):
		s.writeError(w, http.StatusServiceUnavailable, err)
	default:
		s.writeError(w, http.StatusInternalServerError, err)
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
