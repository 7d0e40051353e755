package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedType indicates an unknown provider, strategy or parser type.
	ErrUnsupportedType = errors.New("unsupported type")

	// ErrEmbeddingUnavailable indicates the embedding service is not configured.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrParserUnavailable indicates no annotation pipeline is configured.
	ErrParserUnavailable = errors.New("parser unavailable")

	// Scoring Errors.

	// ErrInsufficientInput indicates a metric needs more sentences or values
	// than it was given.
	ErrInsufficientInput = errors.New("insufficient input")

	// ErrDegenerateVector indicates a zero-norm vector where a direction is required.
	ErrDegenerateVector = errors.New("degenerate vector")

	// ErrInvalidConfiguration indicates weights, structure type or search
	// parameters that cannot produce a score.
	ErrInvalidConfiguration = errors.New("invalid configuration")

	// ErrMissingAnnotation indicates a sentence lacks the lemma, tag,
	// dependency or constituency data a metric requires.
	ErrMissingAnnotation = errors.New("missing annotation")
)

// MetricError reports which metric failed and, where known, on which sentence.
// Sentence is -1 when the failure is not tied to one sentence.
type MetricError struct {
	Metric   string
	Sentence int
	Err      error
}

// NewMetricError wraps err with the metric name and sentence position.
func NewMetricError(metric string, sentence int, err error) *MetricError {
	return &MetricError{Metric: metric, Sentence: sentence, Err: err}
}

func (e *MetricError) Error() string {
	if e.Sentence >= 0 {
		return fmt.Sprintf("%s (sentence %d): %v", e.Metric, e.Sentence, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Metric, e.Err)
}

// Unwrap returns the underlying error so errors.Is matches the sentinels above.
func (e *MetricError) Unwrap() error {
	return e.Err
}
