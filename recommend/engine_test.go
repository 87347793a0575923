package recommend

import (
	"context"
	"errors"
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/coursewise/coursewise/catalog"
	"github.com/coursewise/coursewise/scoring"
)

// fakeEmbedder returns a fixed vector and counts calls.
type fakeEmbedder struct {
	vec   []float64
	err   error
	calls int
}

func (f *fakeEmbedder) Embed(ctx context.Context, text string) ([]float64, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.vec, nil
}

func (f *fakeEmbedder) Dimension() int { return len(f.vec) }

// failingStore fails every read.
type failingStore struct{}

func (failingStore) GetAll(ctx context.Context) ([]catalog.Entry, error) {
	return nil, fmt.Errorf("%w: connection refused", catalog.ErrUnavailable)
}
func (failingStore) Get(ctx context.Context, id string) (catalog.Entry, error) {
	return catalog.Entry{}, fmt.Errorf("%w: connection refused", catalog.ErrUnavailable)
}
func (failingStore) Upsert(ctx context.Context, c catalog.Course, emb []float64) error { return nil }
func (failingStore) Count(ctx context.Context) (int, error)                            { return 0, nil }
func (failingStore) Close() error                                                      { return nil }

// unitVec returns a 2-d unit vector whose cosine similarity with (1, 0)
// is exactly sim.
func unitVec(sim float64) []float64 {
	return []float64{sim, math.Sqrt(1 - sim*sim)}
}

func seedStore(t *testing.T) *catalog.MemoryStore {
	t.Helper()
	store := catalog.NewMemoryStore()
	ctx := context.Background()

	courses := []struct {
		course catalog.Course
		sim    float64
	}{
		{catalog.Course{ID: "course-a", Title: "Intro to Data", Level: catalog.LevelBeginner, DurationHours: 10, Categories: []string{"data"}}, 0.9},
		{catalog.Course{ID: "course-b", Title: "Applied Data", Level: catalog.LevelIntermediate, DurationHours: 20, Categories: []string{"data"}, Prerequisites: []string{"course-a"}}, 0.85},
		{catalog.Course{ID: "course-c", Title: "Advanced Data", Level: catalog.LevelAdvanced, DurationHours: 30, Categories: []string{"data"}}, 0.95},
	}
	for _, c := range courses {
		if err := store.Upsert(ctx, c.course, unitVec(c.sim)); err != nil {
			t.Fatalf("seed %s: %v", c.course.ID, err)
		}
	}
	return store
}

func newTestEngine(t *testing.T, store catalog.Store, emb *fakeEmbedder, opts Options) *Engine {
	t.Helper()
	e, err := New(store, emb, opts)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return e
}

func TestRecommendEndToEnd(t *testing.T) {
	store := seedStore(t)
	emb := &fakeEmbedder{vec: []float64{1, 0}}
	e := newTestEngine(t, store, emb, Options{Threshold: 0.3})

	res, err := e.Recommend(context.Background(), Query{Text: "learn data engineering", Limit: 2})
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}

	if len(res.Candidates) != 2 {
		t.Fatalf("got %d candidates, want 2", len(res.Candidates))
	}
	if res.Candidates[0].Course.ID != "course-c" || res.Candidates[1].Course.ID != "course-a" {
		t.Errorf("candidate order = [%s, %s], want [course-c, course-a]",
			res.Candidates[0].Course.ID, res.Candidates[1].Course.ID)
	}

	if res.Path == nil || len(res.Path.Steps) != 2 {
		t.Fatalf("expected a 2-step path, got %+v", res.Path)
	}
	// The path reorders by skill level even though course-c scored higher.
	if res.Path.Steps[0].Course.ID != "course-a" || res.Path.Steps[1].Course.ID != "course-c" {
		t.Errorf("path order = [%s, %s], want [course-a, course-c]",
			res.Path.Steps[0].Course.ID, res.Path.Steps[1].Course.ID)
	}

	if res.Diagnostics.NoMatches {
		t.Error("NoMatches set on a successful query")
	}
	if res.Diagnostics.RequestID == "" {
		t.Error("missing request ID")
	}
	if res.Diagnostics.Threshold != 0.3 {
		t.Errorf("threshold = %v, want 0.3", res.Diagnostics.Threshold)
	}
	if res.Analytics == nil || res.Analytics.TotalCourses != 2 {
		t.Errorf("unexpected analytics %+v", res.Analytics)
	}
}

func TestRecommendInvalidQuery(t *testing.T) {
	store := seedStore(t)
	emb := &fakeEmbedder{vec: []float64{1, 0}}
	e := newTestEngine(t, store, emb, Options{})

	cases := []Query{
		{Text: "", Limit: 5},
		{Text: "   ", Limit: 5},
		{Text: "go", Limit: 0},
		{Text: "go", Limit: -1},
		{Text: "go", Limit: 5, BudgetHours: -2},
		{Text: "go", Limit: 5, Threshold: fptr(1.5)},
		{Text: "go", Limit: 5, Threshold: fptr(-1.5)},
		{Text: "go", Limit: 5, Filters: scoring.Filters{MinDuration: fptr(10), MaxDuration: fptr(5)}},
	}
	for _, q := range cases {
		if _, err := e.Recommend(context.Background(), q); !errors.Is(err, ErrInvalidQuery) {
			t.Errorf("query %+v: err = %v, want ErrInvalidQuery", q, err)
		}
	}
	if emb.calls != 0 {
		t.Errorf("embedder called %d times for invalid queries", emb.calls)
	}
}

func TestRecommendEmbedFailure(t *testing.T) {
	store := seedStore(t)
	emb := &fakeEmbedder{err: errors.New("connection reset")}
	e := newTestEngine(t, store, emb, Options{})

	_, err := e.Recommend(context.Background(), Query{Text: "go", Limit: 5})
	if !errors.Is(err, ErrEmbedding) {
		t.Errorf("err = %v, want ErrEmbedding", err)
	}
	var qerr *QueryError
	if !errors.As(err, &qerr) || qerr.Stage != "embed" {
		t.Errorf("error %v not tagged with embed stage", err)
	}
}

func TestRecommendCatalogFailure(t *testing.T) {
	emb := &fakeEmbedder{vec: []float64{1, 0}}
	e := newTestEngine(t, failingStore{}, emb, Options{})

	_, err := e.Recommend(context.Background(), Query{Text: "go", Limit: 5})
	if !errors.Is(err, ErrCatalog) {
		t.Errorf("err = %v, want ErrCatalog", err)
	}
}

func TestRecommendThresholdOverride(t *testing.T) {
	store := seedStore(t)
	emb := &fakeEmbedder{vec: []float64{1, 0}}
	e := newTestEngine(t, store, emb, Options{Threshold: 0.3})

	// 0.92 admits only course-c (similarity 0.95).
	res, err := e.Recommend(context.Background(), Query{Text: "go", Limit: 5, Threshold: fptr(0.92)})
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	if len(res.Candidates) != 1 || res.Candidates[0].Course.ID != "course-c" {
		t.Fatalf("candidates = %+v, want only course-c", res.Candidates)
	}
	if res.Diagnostics.Threshold != 0.92 {
		t.Errorf("diagnostics threshold = %v, want 0.92", res.Diagnostics.Threshold)
	}

	// Without an override the configured cutoff applies.
	res, err = e.Recommend(context.Background(), Query{Text: "go", Limit: 5})
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	if len(res.Candidates) != 3 {
		t.Errorf("got %d candidates, want 3", len(res.Candidates))
	}
	if res.Diagnostics.Threshold != 0.3 {
		t.Errorf("diagnostics threshold = %v, want 0.3", res.Diagnostics.Threshold)
	}
}

func TestRecommendThresholdOverrideCacheKey(t *testing.T) {
	store := seedStore(t)
	emb := &fakeEmbedder{vec: []float64{1, 0}}
	e := newTestEngine(t, store, emb, Options{Threshold: 0.3, CacheTTL: time.Minute})

	base := Query{Text: "go", Limit: 5}
	first, err := e.Recommend(context.Background(), base)
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}

	narrowed := base
	narrowed.Threshold = fptr(0.92)
	second, err := e.Recommend(context.Background(), narrowed)
	if err != nil {
		t.Fatalf("Recommend with override: %v", err)
	}
	if second.Diagnostics.CacheHit {
		t.Error("override served from the cache of the unfiltered query")
	}
	if len(second.Candidates) >= len(first.Candidates) {
		t.Errorf("override returned %d candidates, want fewer than %d",
			len(second.Candidates), len(first.Candidates))
	}
}

func TestRecommendNoMatches(t *testing.T) {
	store := seedStore(t)
	emb := &fakeEmbedder{vec: []float64{1, 0}}
	e := newTestEngine(t, store, emb, Options{Threshold: 0.99})

	res, err := e.Recommend(context.Background(), Query{Text: "go", Limit: 5})
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	if !res.Diagnostics.NoMatches {
		t.Error("NoMatches not set")
	}
	if len(res.Candidates) != 0 || res.Path != nil {
		t.Errorf("no-match result carries candidates or path: %+v", res)
	}
}

func TestRecommendNoMatchesFromFilters(t *testing.T) {
	store := seedStore(t)
	emb := &fakeEmbedder{vec: []float64{1, 0}}
	e := newTestEngine(t, store, emb, Options{Threshold: 0.3})

	res, err := e.Recommend(context.Background(), Query{
		Text:    "go",
		Limit:   5,
		Filters: scoring.Filters{Providers: []string{"NoSuchProvider"}},
	})
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	if !res.Diagnostics.NoMatches {
		t.Error("NoMatches not set")
	}
	if len(res.Diagnostics.AppliedFilters) == 0 {
		t.Error("applied filters missing from diagnostics")
	}
}

func TestRecommendSkippedDiagnostics(t *testing.T) {
	store := seedStore(t)
	ctx := context.Background()
	if err := store.Upsert(ctx, catalog.Course{ID: "course-zero", Title: "Broken"}, []float64{0, 0}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	emb := &fakeEmbedder{vec: []float64{1, 0}}
	e := newTestEngine(t, store, emb, Options{Threshold: 0.3})

	res, err := e.Recommend(ctx, Query{Text: "go", Limit: 5})
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	if len(res.Diagnostics.Skipped) != 1 {
		t.Fatalf("skipped = %+v, want one entry", res.Diagnostics.Skipped)
	}
	s := res.Diagnostics.Skipped[0]
	if s.CourseID != "course-zero" || s.Reason != "degenerate embedding" {
		t.Errorf("unexpected skip record %+v", s)
	}
}

func TestRecommendCache(t *testing.T) {
	store := seedStore(t)
	emb := &fakeEmbedder{vec: []float64{1, 0}}
	e := newTestEngine(t, store, emb, Options{Threshold: 0.3, CacheTTL: time.Minute})

	q := Query{Text: "go", Limit: 2}
	first, err := e.Recommend(context.Background(), q)
	if err != nil {
		t.Fatalf("first Recommend: %v", err)
	}
	second, err := e.Recommend(context.Background(), q)
	if err != nil {
		t.Fatalf("second Recommend: %v", err)
	}

	if emb.calls != 1 {
		t.Errorf("embedder called %d times, want 1", emb.calls)
	}
	if !second.Diagnostics.CacheHit {
		t.Error("second result not marked as cache hit")
	}
	if second.Diagnostics.RequestID == first.Diagnostics.RequestID {
		t.Error("cached result reused the original request ID")
	}
	if len(second.Candidates) != len(first.Candidates) {
		t.Errorf("cached candidates differ: %d vs %d", len(second.Candidates), len(first.Candidates))
	}

	// A different query misses the cache.
	if _, err := e.Recommend(context.Background(), Query{Text: "rust", Limit: 2}); err != nil {
		t.Fatalf("third Recommend: %v", err)
	}
	if emb.calls != 2 {
		t.Errorf("embedder called %d times, want 2", emb.calls)
	}
}

func TestSimilar(t *testing.T) {
	store := seedStore(t)
	emb := &fakeEmbedder{vec: []float64{1, 0}}
	e := newTestEngine(t, store, emb, Options{})

	got, err := e.Similar(context.Background(), "course-a", 10)
	if err != nil {
		t.Fatalf("Similar: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d results, want 2", len(got))
	}
	for _, r := range got {
		if r.Entry.Course.ID == "course-a" {
			t.Error("reference course included in its own neighbours")
		}
	}
	if got[0].Similarity < got[1].Similarity {
		t.Error("results not sorted by similarity")
	}

	limited, err := e.Similar(context.Background(), "course-a", 1)
	if err != nil {
		t.Fatalf("Similar limited: %v", err)
	}
	if len(limited) != 1 {
		t.Errorf("limit not applied, got %d", len(limited))
	}
}

func TestSimilarNotFound(t *testing.T) {
	store := seedStore(t)
	e := newTestEngine(t, store, &fakeEmbedder{vec: []float64{1, 0}}, Options{})

	if _, err := e.Similar(context.Background(), "missing", 5); !errors.Is(err, catalog.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestCatalogAnalytics(t *testing.T) {
	store := seedStore(t)
	e := newTestEngine(t, store, &fakeEmbedder{vec: []float64{1, 0}}, Options{})

	summary, err := e.CatalogAnalytics(context.Background())
	if err != nil {
		t.Fatalf("CatalogAnalytics: %v", err)
	}
	if summary.TotalCourses != 3 {
		t.Errorf("total courses = %d, want 3", summary.TotalCourses)
	}
}

func TestNewValidation(t *testing.T) {
	store := catalog.NewMemoryStore()
	emb := &fakeEmbedder{vec: []float64{1}}

	if _, err := New(nil, emb, Options{}); err == nil {
		t.Error("nil store accepted")
	}
	if _, err := New(store, nil, Options{}); err == nil {
		t.Error("nil embedder accepted")
	}
	if _, err := New(store, emb, Options{Threshold: 2}); err == nil {
		t.Error("out-of-range threshold accepted")
	}
	if _, err := New(store, emb, Options{Weights: scoring.Weights{Similarity: 1, Popularity: 1, FilterBonus: 1}}); err == nil {
		t.Error("invalid weights accepted")
	}
}

func fptr(v float64) *float64 { return &v }
