// Package metrics exposes cache statistics and analysis outcomes as Prometheus metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"go.trai.ch/specscope/internal/core/domain"
	"go.trai.ch/specscope/internal/engine/cache"
	"go.trai.ch/zerr"
)

const namespace = "specscope"

var (
	hitsDesc = prometheus.NewDesc(
		prometheus.BuildFQName(namespace, "cache", "hits_total"),
		"Lookups that found a live entry.", []string{"cache"}, nil)
	missesDesc = prometheus.NewDesc(
		prometheus.BuildFQName(namespace, "cache", "misses_total"),
		"Lookups that found no live entry.", []string{"cache"}, nil)
	evictionsDesc = prometheus.NewDesc(
		prometheus.BuildFQName(namespace, "cache", "evictions_total"),
		"Entries removed to make room.", []string{"cache"}, nil)
	expirationsDesc = prometheus.NewDesc(
		prometheus.BuildFQName(namespace, "cache", "expirations_total"),
		"Entries removed after their TTL elapsed.", []string{"cache"}, nil)
	sizeDesc = prometheus.NewDesc(
		prometheus.BuildFQName(namespace, "cache", "entries"),
		"Entries currently held.", []string{"cache"}, nil)
	capacityDesc = prometheus.NewDesc(
		prometheus.BuildFQName(namespace, "cache", "capacity"),
		"Maximum number of entries.", []string{"cache"}, nil)
)

// CacheCollector reports the statistics of every registered cache at scrape time.
type CacheCollector struct {
	sources func() []cache.Stats
}

// NewCacheCollector creates a collector that calls sources on every collection.
func NewCacheCollector(sources func() []cache.Stats) *CacheCollector {
	return &CacheCollector{sources: sources}
}

// Describe implements prometheus.Collector.
func (c *CacheCollector) Describe(ch chan<- *prometheus.Desc) {
	for _, d := range []*prometheus.Desc{hitsDesc, missesDesc, evictionsDesc, expirationsDesc, sizeDesc, capacityDesc} {
		ch <- d
	}
}

// Collect implements prometheus.Collector.
func (c *CacheCollector) Collect(ch chan<- prometheus.Metric) {
	for _, s := range c.sources() {
		ch <- prometheus.MustNewConstMetric(hitsDesc, prometheus.CounterValue, float64(s.Hits), s.Name)
		ch <- prometheus.MustNewConstMetric(missesDesc, prometheus.CounterValue, float64(s.Misses), s.Name)
		ch <- prometheus.MustNewConstMetric(evictionsDesc, prometheus.CounterValue, float64(s.Evictions), s.Name)
		ch <- prometheus.MustNewConstMetric(expirationsDesc, prometheus.CounterValue, float64(s.Expirations), s.Name)
		ch <- prometheus.MustNewConstMetric(sizeDesc, prometheus.GaugeValue, float64(s.Size), s.Name)
		ch <- prometheus.MustNewConstMetric(capacityDesc, prometheus.GaugeValue, float64(s.Capacity), s.Name)
	}
}

// Recorder counts analysis outcomes on its own registry.
type Recorder struct {
	registry *prometheus.Registry
	analyses *prometheus.CounterVec
	duration prometheus.Histogram
	score    prometheus.Gauge
}

// NewRecorder creates a registry holding the cache collector and the analysis metrics.
func NewRecorder(sources func() []cache.Stats) *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		analyses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "analyses_total",
			Help:      "Completed analyses by cache level and outcome.",
		}, []string{"level", "outcome"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "analysis_duration_seconds",
			Help:      "Wall time of an analysis request.",
			Buckets:   prometheus.ExponentialBuckets(0.01, 4, 8),
		}),
		score: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_score",
			Help:      "Security score of the most recent analysis.",
		}),
	}
	r.registry.MustRegister(NewCacheCollector(sources), r.analyses, r.duration, r.score)
	return r
}

// Observe records one analysis.
func (r *Recorder) Observe(level string, result domain.AnalysisResult, seconds float64) {
	outcome := "complete"
	if result.Degraded {
		outcome = "degraded"
	}
	r.analyses.WithLabelValues(level, outcome).Inc()
	r.duration.Observe(seconds)
	r.score.Set(float64(result.Stats.Score))
}

// Gatherer exposes the registry.
func (r *Recorder) Gatherer() prometheus.Gatherer {
	return r.registry
}

// WriteTextfile writes every metric in the text exposition format, for node
// exporter's textfile collector.
func (r *Recorder) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrMetricsWriteFailed.Error()), "path", path)
	}
	return nil
}
