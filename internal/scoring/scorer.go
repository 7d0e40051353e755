// Package scoring combines the cohesion metrics into a single weighted
// score for a sentence ordering.
package scoring

import (
	"context"
	"sync/atomic"

	"github.com/custodia-labs/sentorder/internal/core/domain"
	"github.com/custodia-labs/sentorder/internal/core/ports/driven"
	"github.com/custodia-labs/sentorder/internal/metrics"
)

// TextScorer scores sentence orderings.
//
// The six weighted scores are, in order: adjacent LSA mean, adjacent LSA
// std, LSA givenness mean, LSA givenness std, syntactic similarity and
// content word overlap. The final score is their weighted average.
type TextScorer struct {
	lsa       *metrics.LSA
	givenness *metrics.Givenness
	syntax    *metrics.SyntaxSimilarity

	weights       domain.WeightVector
	structureType domain.StructureType
	frequencies   driven.FrequencyTable
	recorder      driven.MetricsRecorder

	evaluations atomic.Int64
}

// Option configures a TextScorer.
type Option func(*TextScorer)

// WithWeights replaces the default equal weights.
func WithWeights(w domain.WeightVector) Option {
	return func(s *TextScorer) {
		s.weights = w
	}
}

// WithStructureType selects the syntax tree compared by the syntactic metric.
func WithStructureType(t domain.StructureType) Option {
	return func(s *TextScorer) {
		s.structureType = t
	}
}

// WithFrequencyTable enables the word frequency measures in reports.
func WithFrequencyTable(table driven.FrequencyTable) Option {
	return func(s *TextScorer) {
		s.frequencies = table
	}
}

// WithRecorder counts evaluations.
func WithRecorder(r driven.MetricsRecorder) Option {
	return func(s *TextScorer) {
		s.recorder = r
	}
}

// New creates a scorer whose LSA metrics embed sentences through vectors.
// Invalid weights or structure types are rejected here rather than at
// scoring time.
func New(vectors metrics.Vectorizer, opts ...Option) (*TextScorer, error) {
	s := &TextScorer{
		lsa:           metrics.NewLSA(vectors),
		givenness:     metrics.NewGivenness(vectors),
		weights:       domain.DefaultWeights(),
		structureType: domain.StructureDependency,
	}
	for _, opt := range opts {
		opt(s)
	}

	if err := s.weights.Validate(); err != nil {
		return nil, err
	}
	syntax, err := metrics.NewSyntaxSimilarity(s.structureType)
	if err != nil {
		return nil, err
	}
	s.syntax = syntax
	return s, nil
}

// Weights returns the weights in use.
func (s *TextScorer) Weights() domain.WeightVector {
	return s.weights
}

// StructureType returns the syntax tree kind in use.
func (s *TextScorer) StructureType() domain.StructureType {
	return s.structureType
}

// ComputeScores evaluates the six weighted metrics. Any metric failure
// aborts scoring; no partial breakdown is returned.
func (s *TextScorer) ComputeScores(ctx context.Context, sentences []domain.Sentence) (domain.ScoreBreakdown, error) {
	var b domain.ScoreBreakdown
	var err error

	if b.LSAAdjacentMean, b.LSAAdjacentStd, err = s.lsa.Adjacent(ctx, sentences); err != nil {
		return domain.ScoreBreakdown{}, err
	}
	if b.GivennessMean, b.GivennessStd, err = s.givenness.Compute(ctx, sentences); err != nil {
		return domain.ScoreBreakdown{}, err
	}
	if b.SyntacticSimilarity, err = s.syntax.Adjacent(sentences); err != nil {
		return domain.ScoreBreakdown{}, err
	}
	if b.ContentWordOverlap, err = metrics.AdjacentContentWordOverlap(sentences); err != nil {
		return domain.ScoreBreakdown{}, err
	}
	return b, nil
}

// ComputeFinalScore returns the weighted average of ComputeScores.
// Its signature matches search.Fitness.
func (s *TextScorer) ComputeFinalScore(ctx context.Context, sentences []domain.Sentence) (float64, error) {
	s.evaluations.Add(1)
	if s.recorder != nil {
		s.recorder.ScoreEvaluated()
	}
	b, err := s.ComputeScores(ctx, sentences)
	if err != nil {
		return 0, err
	}
	return b.Weighted(s.weights)
}

// Evaluations returns how many times ComputeFinalScore has been called.
func (s *TextScorer) Evaluations() int {
	return int(s.evaluations.Load())
}

// ComputeReport scores sentences and adds the auxiliary measures: LSA
// all-pairs, lexical givenness, word frequency and the L2 reading index.
func (s *TextScorer) ComputeReport(ctx context.Context, sentences []domain.Sentence) (*domain.ScoreReport, error) {
	b, err := s.ComputeScores(ctx, sentences)
	if err != nil {
		return nil, err
	}
	final, err := b.Weighted(s.weights)
	if err != nil {
		return nil, err
	}
	r := &domain.ScoreReport{Breakdown: b, Final: final}

	if r.LSAAllPairsMean, r.LSAAllPairsStd, r.HasAllPairs, err = s.lsa.AllPairs(ctx, sentences); err != nil {
		return nil, err
	}
	if r.Lexical, err = metrics.LexicalGivenness(sentences); err != nil {
		return nil, err
	}
	if s.frequencies != nil {
		f, err := metrics.ComputeWordFrequency(s.frequencies, sentences)
		if err != nil {
			return nil, err
		}
		r.WordFrequency = f.MeanLog
		r.MinContentFrequency = f.MeanMinContentLog
		r.HasFrequency = true
	}
	r.ReadingIndex = metrics.L2ReadingIndex(b.ContentWordOverlap, b.SyntacticSimilarity, r.MinContentFrequency, r.HasFrequency)
	return r, nil
}
