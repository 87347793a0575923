package recommend

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/coursewise/coursewise/analytics"
	"github.com/coursewise/coursewise/catalog"
	"github.com/coursewise/coursewise/embed"
	"github.com/coursewise/coursewise/learningpath"
	"github.com/coursewise/coursewise/monitor"
	"github.com/coursewise/coursewise/scoring"
	"github.com/coursewise/coursewise/vector"
)

// Options tune the engine. Zero Weights, EmbedTimeout, and Metrics fall
// back to defaults; Threshold is used as given, so a zero threshold keeps
// every non-negative similarity.
type Options struct {
	// Weights are the composite scoring weights.
	Weights scoring.Weights

	// Threshold is the minimum similarity for a course to be considered.
	// Queries may override it per request.
	Threshold float64

	// EmbedTimeout bounds the embedding call per query.
	EmbedTimeout time.Duration

	// DefaultBudgetHours caps path duration when the query sets none.
	// Zero disables the cap.
	DefaultBudgetHours float64

	// CacheTTL enables the result cache when positive.
	CacheTTL time.Duration

	// Metrics receives operational counters. Defaults to a no-op.
	Metrics monitor.Collector

	// Logger receives structured query logs. Defaults to a disabled logger.
	Logger zerolog.Logger
}

// Engine runs the recommendation pipeline against one catalog store and
// one embedder. Safe for concurrent use.
type Engine struct {
	store    catalog.Store
	embedder embed.Embedder
	metrics  monitor.Collector
	log      zerolog.Logger

	weights       scoring.Weights
	threshold     float64
	embedTimeout  time.Duration
	defaultBudget float64
	cache         *resultCache
}

// New creates an Engine.
func New(store catalog.Store, embedder embed.Embedder, opts Options) (*Engine, error) {
	if store == nil {
		return nil, errors.New("store must not be nil")
	}
	if embedder == nil {
		return nil, errors.New("embedder must not be nil")
	}

	weights := opts.Weights
	if weights == (scoring.Weights{}) {
		weights = scoring.DefaultWeights()
	}
	if err := weights.Validate(); err != nil {
		return nil, err
	}
	if opts.Threshold < -1 || opts.Threshold > 1 {
		return nil, fmt.Errorf("threshold must be within [-1, 1], got %v", opts.Threshold)
	}

	timeout := opts.EmbedTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	metrics := opts.Metrics
	if metrics == nil {
		metrics = monitor.NewNoOpCollector()
	}

	e := &Engine{
		store:         store,
		embedder:      embedder,
		metrics:       metrics,
		log:           opts.Logger,
		weights:       weights,
		threshold:     opts.Threshold,
		embedTimeout:  timeout,
		defaultBudget: opts.DefaultBudgetHours,
	}
	if opts.CacheTTL > 0 {
		e.cache = newResultCache(opts.CacheTTL)
	}
	return e, nil
}

// Recommend runs the full pipeline for one query. An empty candidate list
// with Diagnostics.NoMatches set is a successful outcome.
func (e *Engine) Recommend(ctx context.Context, q Query) (*Result, error) {
	requestID := uuid.NewString()
	log := e.log.With().Str("request_id", requestID).Logger()
	start := time.Now()

	e.metrics.QueryStarted()

	if err := q.Validate(); err != nil {
		e.metrics.QueryFinished("error", time.Since(start))
		log.Warn().Err(err).Msg("query rejected")
		return nil, newQueryError("recommend", "validate", err)
	}

	var cacheKey string
	if e.cache != nil {
		cacheKey = e.cache.key(q)
		if cached, ok := e.cache.get(cacheKey); ok {
			e.metrics.CacheHit()
			e.metrics.QueryFinished("ok", time.Since(start))
			cached.Diagnostics.RequestID = requestID
			cached.Diagnostics.CacheHit = true
			cached.Diagnostics.ElapsedMS = time.Since(start).Milliseconds()
			return &cached, nil
		}
		e.metrics.CacheMiss()
	}

	queryVec, err := e.embedQuery(ctx, q.Text)
	if err != nil {
		e.metrics.QueryFinished("error", time.Since(start))
		log.Error().Err(err).Msg("embedding failed")
		return nil, newQueryError("recommend", monitor.StageEmbed, fmt.Errorf("%w: %v", ErrEmbedding, err))
	}

	entries, err := e.fetchCatalog(ctx)
	if err != nil {
		e.metrics.QueryFinished("error", time.Since(start))
		log.Error().Err(err).Msg("catalog fetch failed")
		return nil, newQueryError("recommend", monitor.StageFetch, fmt.Errorf("%w: %v", ErrCatalog, err))
	}
	e.metrics.CatalogSize(len(entries))

	threshold := e.threshold
	if q.Threshold != nil {
		threshold = *q.Threshold
	}

	rankStart := time.Now()
	ranked, skipped := vector.Rank(queryVec, entries, threshold)
	e.metrics.StageObserved(monitor.StageRank, time.Since(rankStart))
	e.recordSkipped(skipped)

	scoreStart := time.Now()
	candidates := scoring.Score(ranked, q.Filters, e.weights, q.Limit)
	e.metrics.StageObserved(monitor.StageScore, time.Since(scoreStart))

	result := Result{
		Candidates: candidates,
		Diagnostics: Diagnostics{
			RequestID:      requestID,
			AppliedFilters: q.Filters.Applied(),
			Skipped:        skippedCourses(skipped),
			Threshold:      threshold,
		},
	}

	if len(candidates) == 0 {
		result.Diagnostics.NoMatches = true
		result.Diagnostics.ElapsedMS = time.Since(start).Milliseconds()
		e.metrics.QueryFinished("no_matches", time.Since(start))
		log.Info().
			Int("catalog_size", len(entries)).
			Int("above_threshold", len(ranked)).
			Strs("applied_filters", result.Diagnostics.AppliedFilters).
			Msg("no matches")
		return &result, nil
	}

	composeStart := time.Now()
	budget := q.BudgetHours
	if budget == 0 {
		budget = e.defaultBudget
	}
	path := learningpath.Compose(candidates, budget)
	e.metrics.StageObserved(monitor.StageCompose, time.Since(composeStart))

	gaps := learningpath.AnalyzeGaps(path, q.Background, q.Completed)
	summary := analytics.Summarize(candidates)

	result.Path = &path
	result.Gaps = &gaps
	result.Analytics = &summary
	result.Diagnostics.Degraded = path.Degraded
	result.Diagnostics.ElapsedMS = time.Since(start).Milliseconds()

	if e.cache != nil {
		e.cache.put(cacheKey, result)
	}

	e.metrics.QueryFinished("ok", time.Since(start))
	log.Info().
		Int("candidates", len(candidates)).
		Int("path_steps", len(path.Steps)).
		Bool("degraded", path.Degraded).
		Int64("elapsed_ms", result.Diagnostics.ElapsedMS).
		Msg("query served")

	return &result, nil
}

// Similar returns the courses closest to an existing catalog entry,
// excluding the entry itself. No similarity threshold applies.
func (e *Engine) Similar(ctx context.Context, courseID string, limit int) ([]vector.Ranked, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("%w: limit must be positive", ErrInvalidQuery)
	}

	ref, err := e.store.Get(ctx, courseID)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			return nil, err
		}
		return nil, newQueryError("similar", monitor.StageFetch, fmt.Errorf("%w: %v", ErrCatalog, err))
	}

	entries, err := e.fetchCatalog(ctx)
	if err != nil {
		return nil, newQueryError("similar", monitor.StageFetch, fmt.Errorf("%w: %v", ErrCatalog, err))
	}

	others := make([]catalog.Entry, 0, len(entries))
	for _, entry := range entries {
		if entry.Course.ID != courseID {
			others = append(others, entry)
		}
	}

	ranked, _ := vector.Rank(ref.Embedding, others, -1)
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked, nil
}

// CatalogAnalytics summarizes the whole catalog.
func (e *Engine) CatalogAnalytics(ctx context.Context) (*analytics.Summary, error) {
	entries, err := e.fetchCatalog(ctx)
	if err != nil {
		return nil, newQueryError("analytics", monitor.StageFetch, fmt.Errorf("%w: %v", ErrCatalog, err))
	}
	summary := analytics.Catalog(entries)
	return &summary, nil
}

func (e *Engine) embedQuery(ctx context.Context, text string) ([]float64, error) {
	ectx, cancel := context.WithTimeout(ctx, e.embedTimeout)
	defer cancel()

	start := time.Now()
	vec, err := e.embedder.Embed(ectx, text)
	e.metrics.StageObserved(monitor.StageEmbed, time.Since(start))
	return vec, err
}

func (e *Engine) fetchCatalog(ctx context.Context) ([]catalog.Entry, error) {
	start := time.Now()
	entries, err := e.store.GetAll(ctx)
	e.metrics.StageObserved(monitor.StageFetch, time.Since(start))
	return entries, err
}

func (e *Engine) recordSkipped(skipped []vector.Skipped) {
	var degenerate, mismatched int
	for _, s := range skipped {
		switch {
		case errors.Is(s.Reason, vector.ErrDegenerateVector):
			degenerate++
		case errors.Is(s.Reason, catalog.ErrDimensionMismatch):
			mismatched++
		}
	}
	e.metrics.CoursesSkipped("degenerate", degenerate)
	e.metrics.CoursesSkipped("dimension_mismatch", mismatched)
}

func skippedCourses(skipped []vector.Skipped) []SkippedCourse {
	if len(skipped) == 0 {
		return nil
	}
	out := make([]SkippedCourse, len(skipped))
	for i, s := range skipped {
		reason := "excluded"
		switch {
		case errors.Is(s.Reason, vector.ErrDegenerateVector):
			reason = "degenerate embedding"
		case errors.Is(s.Reason, catalog.ErrDimensionMismatch):
			reason = "dimension mismatch"
		}
		out[i] = SkippedCourse{CourseID: s.CourseID, Reason: reason}
	}
	return out
}
