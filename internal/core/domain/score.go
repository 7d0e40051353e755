package domain

import (
	"fmt"
	"math"
)

// Metric names used in MetricError and score reports.
const (
	MetricLSAAdjacent      = "lsa_adjacent"
	MetricLSAAllPairs      = "lsa_all_pairs"
	MetricGivenness        = "lsa_givenness"
	MetricSyntax           = "syntactic_similarity"
	MetricContentOverlap   = "content_word_overlap"
	MetricLexicalGivenness = "lexical_givenness"
	MetricWordFrequency    = "word_frequency"
	MetricWeighted         = "weighted_score"
)

// ScoreCount is the number of metric scores combined into a final score.
const ScoreCount = 6

// ScoreNames labels the entries of ScoreBreakdown.Values in order.
var ScoreNames = [ScoreCount]string{
	"LSASS1",
	"LSASS1d",
	"LSAGN",
	"LSAGNd",
	"SYNSTRUTa",
	"CRFCWO1",
}

// WeightVector holds one non-negative weight per score, in ScoreNames order.
type WeightVector [ScoreCount]float64

// DefaultWeights returns equal weights for every score.
func DefaultWeights() WeightVector {
	return WeightVector{1, 1, 1, 1, 1, 1}
}

// Sum returns the total weight.
func (w WeightVector) Sum() float64 {
	var total float64
	for _, v := range w {
		total += v
	}
	return total
}

// Validate rejects negative or non-finite weights and the all-zero vector.
func (w WeightVector) Validate() error {
	for i, v := range w {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("weight %s is not finite: %w", ScoreNames[i], ErrInvalidConfiguration)
		}
		if v < 0 {
			return fmt.Errorf("weight %s is negative: %w", ScoreNames[i], ErrInvalidConfiguration)
		}
	}
	sum := w.Sum()
	if sum == 0 {
		return fmt.Errorf("all weights are zero: %w", ErrInvalidConfiguration)
	}
	if math.IsInf(sum, 0) {
		return fmt.Errorf("weights overflow: %w", ErrInvalidConfiguration)
	}
	return nil
}

// WeightsFromSlice converts a slice of exactly ScoreCount values.
func WeightsFromSlice(values []float64) (WeightVector, error) {
	var w WeightVector
	if len(values) != ScoreCount {
		return w, fmt.Errorf("expected %d weights, got %d: %w", ScoreCount, len(values), ErrInvalidConfiguration)
	}
	copy(w[:], values)
	return w, nil
}

// ScoreBreakdown holds the six metric scores of one ordering.
type ScoreBreakdown struct {
	// LSAAdjacentMean is the normalised mean cosine of adjacent sentences.
	LSAAdjacentMean float64

	// LSAAdjacentStd is the normalised population std of adjacent cosines.
	LSAAdjacentStd float64

	// GivennessMean is the mean LSA givenness of sentences 1..n-1.
	GivennessMean float64

	// GivennessStd is the population std of LSA givenness.
	GivennessStd float64

	// SyntacticSimilarity is the mean common-subtree similarity of adjacent sentences.
	SyntacticSimilarity float64

	// ContentWordOverlap is the mean content-word overlap of adjacent sentences.
	ContentWordOverlap float64
}

// Values returns the scores in ScoreNames order.
func (b ScoreBreakdown) Values() [ScoreCount]float64 {
	return [ScoreCount]float64{
		b.LSAAdjacentMean,
		b.LSAAdjacentStd,
		b.GivennessMean,
		b.GivennessStd,
		b.SyntacticSimilarity,
		b.ContentWordOverlap,
	}
}

// Weighted returns the weighted average of the scores.
func (b ScoreBreakdown) Weighted(w WeightVector) (float64, error) {
	if err := w.Validate(); err != nil {
		return 0, NewMetricError(MetricWeighted, -1, err)
	}
	var total float64
	for i, v := range b.Values() {
		total += v * w[i]
	}
	return total / w.Sum(), nil
}

// LexicalGivenness holds lemma-repetition and pronoun ratios.
type LexicalGivenness struct {
	// Text is the ratio over the whole text.
	Text float64

	// Mean is the mean of per-sentence ratios.
	Mean float64

	// StdDev is the population std of per-sentence ratios.
	StdDev float64

	// Skipped counts words lacking a lemma or tag.
	Skipped int
}

// ScoreReport extends ScoreBreakdown with auxiliary measures that are
// reported but not weighted.
type ScoreReport struct {
	Breakdown ScoreBreakdown

	// Final is the weighted score.
	Final float64

	// LSAAllPairsMean and LSAAllPairsStd are set when HasAllPairs is true.
	LSAAllPairsMean float64
	LSAAllPairsStd  float64
	HasAllPairs     bool

	// Lexical holds lexical givenness ratios.
	Lexical LexicalGivenness

	// WordFrequency and MinContentFrequency are mean log frequencies.
	// Both are zero without a frequency table.
	WordFrequency       float64
	MinContentFrequency float64
	HasFrequency        bool

	// ReadingIndex is the normalised L2 reading index.
	ReadingIndex float64
}
