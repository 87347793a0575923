package monitor

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// PrometheusCollector exposes query metrics through a prometheus registry.
type PrometheusCollector struct {
	queriesStarted  prometheus.Counter
	queriesFinished *prometheus.CounterVec
	queryDuration   *prometheus.HistogramVec
	stageDuration   *prometheus.HistogramVec
	coursesSkipped  *prometheus.CounterVec
	catalogSize     prometheus.Gauge
	cacheHits       prometheus.Counter
	cacheMisses     prometheus.Counter
}

// NewPrometheusCollector registers the service metrics on the given
// registerer. Pass prometheus.DefaultRegisterer for the default registry.
func NewPrometheusCollector(reg prometheus.Registerer) *PrometheusCollector {
	factory := promauto.With(reg)
	return &PrometheusCollector{
		queriesStarted: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "coursewise",
			Name:      "queries_started_total",
			Help:      "Recommendation queries received.",
		}),
		queriesFinished: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "coursewise",
			Name:      "queries_finished_total",
			Help:      "Recommendation queries completed, by outcome.",
		}, []string{"outcome"}),
		queryDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "coursewise",
			Name:      "query_duration_seconds",
			Help:      "End-to-end recommendation query latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"outcome"}),
		stageDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "coursewise",
			Name:      "stage_duration_seconds",
			Help:      "Per-stage pipeline latency.",
			Buckets:   []float64{.001, .005, .01, .05, .1, .5, 1, 5, 10},
		}, []string{"stage"}),
		coursesSkipped: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "coursewise",
			Name:      "courses_skipped_total",
			Help:      "Catalog entries excluded from ranking, by reason.",
		}, []string{"reason"}),
		catalogSize: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "coursewise",
			Name:      "catalog_size",
			Help:      "Number of courses currently in the catalog.",
		}),
		cacheHits: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "coursewise",
			Name:      "cache_hits_total",
			Help:      "Result cache hits.",
		}),
		cacheMisses: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "coursewise",
			Name:      "cache_misses_total",
			Help:      "Result cache misses.",
		}),
	}
}

func (c *PrometheusCollector) QueryStarted() {
	c.queriesStarted.Inc()
}

func (c *PrometheusCollector) QueryFinished(outcome string, elapsed time.Duration) {
	c.queriesFinished.WithLabelValues(outcome).Inc()
	c.queryDuration.WithLabelValues(outcome).Observe(elapsed.Seconds())
}

func (c *PrometheusCollector) StageObserved(stage string, elapsed time.Duration) {
	c.stageDuration.WithLabelValues(stage).Observe(elapsed.Seconds())
}

func (c *PrometheusCollector) CoursesSkipped(reason string, n int) {
	if n > 0 {
		c.coursesSkipped.WithLabelValues(reason).Add(float64(n))
	}
}

func (c *PrometheusCollector) CatalogSize(n int) {
	c.catalogSize.Set(float64(n))
}

func (c *PrometheusCollector) CacheHit() {
	c.cacheHits.Inc()
}

func (c *PrometheusCollector) CacheMiss() {
	c.cacheMisses.Inc()
}
