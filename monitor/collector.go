// Package monitor collects operational metrics for the recommendation
// service.
package monitor

import "time"

// Stage names used for latency observations.
const (
	StageEmbed   = "embed"
	StageFetch   = "fetch"
	StageRank    = "rank"
	StageScore   = "score"
	StageCompose = "compose"
)

// Collector records query-level metrics. Implementations must be safe for
// concurrent use.
type Collector interface {
	// QueryStarted counts an incoming recommendation query.
	QueryStarted()

	// QueryFinished counts a completed query with its outcome label
	// ("ok", "no_matches", or "error") and total latency.
	QueryFinished(outcome string, elapsed time.Duration)

	// StageObserved records the latency of one pipeline stage.
	StageObserved(stage string, elapsed time.Duration)

	// CoursesSkipped counts catalog entries excluded from ranking for a
	// given reason ("degenerate" or "dimension_mismatch").
	CoursesSkipped(reason string, n int)

	// CatalogSize reports the current number of stored courses.
	CatalogSize(n int)

	// CacheHit and CacheMiss count result cache lookups.
	CacheHit()
	CacheMiss()
}

// NoOpCollector discards all metrics.
type NoOpCollector struct{}

func NewNoOpCollector() *NoOpCollector {
	return &NoOpCollector{}
}

func (NoOpCollector) QueryStarted()                       {}
func (NoOpCollector) QueryFinished(string, time.Duration) {}
func (NoOpCollector) StageObserved(string, time.Duration) {}
func (NoOpCollector) CoursesSkipped(string, int)          {}
func (NoOpCollector) CatalogSize(int)                     {}
func (NoOpCollector) CacheHit()                           {}
func (NoOpCollector) CacheMiss()                          {}
