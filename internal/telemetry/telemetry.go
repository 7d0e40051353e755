// Package telemetry records operational metrics with Prometheus.
//
// Each Recorder owns its registry so tests and multiple servers in one
// process do not collide on the default registerer.
package telemetry

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/custodia-labs/sentorder/internal/core/ports/driven"
)

// Ensure Recorder implements the interface.
var _ driven.MetricsRecorder = (*Recorder)(nil)

const namespace = "sentorder"

// Recorder implements driven.MetricsRecorder.
type Recorder struct {
	registry *prometheus.Registry

	cacheLookups    *prometheus.CounterVec
	evaluations     prometheus.Counter
	reorders        *prometheus.CounterVec
	reorderDuration *prometheus.HistogramVec
	sentences       prometheus.Histogram
}

// NewRecorder creates a recorder with a private registry. Go runtime and
// process collectors are registered alongside the application metrics.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		cacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "embedding_cache_lookups_total",
			Help:      "Embedding lookups by result (hit or miss).",
		}, []string{"result"}),
		evaluations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "score_evaluations_total",
			Help:      "Weighted score evaluations performed during search.",
		}),
		reorders: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reorders_total",
			Help:      "Completed reorders by strategy.",
		}, []string{"strategy"}),
		reorderDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "reorder_duration_seconds",
			Help:      "Reorder wall time by strategy.",
			Buckets:   prometheus.ExponentialBuckets(0.01, 4, 8),
		}, []string{"strategy"}),
		sentences: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "reorder_sentences",
			Help:      "Sentences per reordered text.",
			Buckets:   prometheus.LinearBuckets(2, 2, 10),
		}),
	}

	r.registry.MustRegister(
		r.cacheLookups,
		r.evaluations,
		r.reorders,
		r.reorderDuration,
		r.sentences,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return r
}

// EmbeddingCacheHit records an embedding served from cache.
func (r *Recorder) EmbeddingCacheHit() {
	r.cacheLookups.WithLabelValues("hit").Inc()
}

// EmbeddingCacheMiss records an embedding fetched from the provider.
func (r *Recorder) EmbeddingCacheMiss() {
	r.cacheLookups.WithLabelValues("miss").Inc()
}

// ScoreEvaluated records one fitness evaluation.
func (r *Recorder) ScoreEvaluated() {
	r.evaluations.Inc()
}

// ReorderCompleted records a finished reorder.
func (r *Recorder) ReorderCompleted(strategy string, sentences int, duration time.Duration) {
	r.reorders.WithLabelValues(strategy).Inc()
	r.reorderDuration.WithLabelValues(strategy).Observe(duration.Seconds())
	r.sentences.Observe(float64(sentences))
}

// Registry exposes the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// Handler serves the metrics in the Prometheus text format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// Nop is a MetricsRecorder that discards everything.
type Nop struct{}

// Ensure Nop implements the interface.
var _ driven.MetricsRecorder = Nop{}

func (Nop) EmbeddingCacheHit()                          {}
func (Nop) EmbeddingCacheMiss()                         {}
func (Nop) ScoreEvaluated()                             {}
func (Nop) ReorderCompleted(string, int, time.Duration) {}
