package driven

import "time"

// MetricsRecorder receives operational counters from the core.
type MetricsRecorder interface {
	// EmbeddingCacheHit records an embedding served from cache.
	EmbeddingCacheHit()

	// EmbeddingCacheMiss records an embedding fetched from the provider.
	EmbeddingCacheMiss()

	// ScoreEvaluated records one fitness evaluation.
	ScoreEvaluated()

	// ReorderCompleted records a finished reorder.
	ReorderCompleted(strategy string, sentences int, duration time.Duration)
}
