package domain

import "time"

// ReorderOptions overrides settings for a single reorder call.
// Zero values keep the configured setting.
type ReorderOptions struct {
	Strategy Strategy
	PinFirst *bool
	PinLast  *bool
	Seed     uint64
}

// ReorderResult is the outcome of reordering one text.
type ReorderResult struct {
	// RunID identifies the run in history. Empty when history is disabled.
	RunID string

	// Strategy is the strategy that actually ran.
	Strategy Strategy

	Original  []Sentence
	Reordered []Sentence

	// OriginalScore and ReorderedScore are weighted scores. Both are zero
	// when the text was too short to score.
	OriginalScore  float64
	ReorderedScore float64

	// Evaluations is the number of orderings scored.
	Evaluations int

	Duration time.Duration
}

// Text returns the reordered text.
func (r *ReorderResult) Text() string {
	return JoinSentences(r.Reordered)
}

// Improvement returns ReorderedScore minus OriginalScore.
func (r *ReorderResult) Improvement() float64 {
	return r.ReorderedScore - r.OriginalScore
}

// Order returns the original indices in reordered order.
func (r *ReorderResult) Order() []int {
	order := make([]int, len(r.Reordered))
	for i, s := range r.Reordered {
		order[i] = s.Index
	}
	return order
}

// RunRecord is a persisted summary of a reorder.
type RunRecord struct {
	ID             string
	Strategy       Strategy
	SentenceCount  int
	Order          []int
	OriginalText   string
	ReorderedText  string
	OriginalScore  float64
	ReorderedScore float64
	Evaluations    int
	Duration       time.Duration
	CreatedAt      time.Time
}

// NewRunRecord summarises a result.
func NewRunRecord(id string, r *ReorderResult, at time.Time) RunRecord {
	return RunRecord{
		ID:             id,
		Strategy:       r.Strategy,
		SentenceCount:  len(r.Original),
		Order:          r.Order(),
		OriginalText:   JoinSentences(r.Original),
		ReorderedText:  r.Text(),
		OriginalScore:  r.OriginalScore,
		ReorderedScore: r.ReorderedScore,
		Evaluations:    r.Evaluations,
		Duration:       r.Duration,
		CreatedAt:      at,
	}
}

// ScoreOptions overrides settings for a single score call.
type ScoreOptions struct {
	// Weights replaces the configured weights when non-nil.
	Weights *WeightVector
}
