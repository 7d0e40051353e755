package search

import (
	"context"
	"fmt"
	"math"

	"github.com/custodia-labs/sentorder/internal/core/domain"
	"github.com/custodia-labs/sentorder/internal/logger"
)

// DefaultMaxExhaustive is the largest input Exhaustive accepts by default.
const DefaultMaxExhaustive = domain.MaxExhaustiveThreshold

// Exhaustive scores every permutation and returns the first one with the
// highest score.
type Exhaustive struct {
	// MaxSentences guards against factorial blow-up.
	MaxSentences int
}

// NewExhaustive creates an exhaustive search with the default size guard.
func NewExhaustive() *Exhaustive {
	return &Exhaustive{MaxSentences: DefaultMaxExhaustive}
}

// Name implements Strategy.
func (s *Exhaustive) Name() string {
	return string(domain.StrategyExhaustive)
}

// Search implements Strategy. It evaluates exactly n! orderings.
func (s *Exhaustive) Search(ctx context.Context, sentences []domain.Sentence, fitness Fitness) (*Result, error) {
	n := len(sentences)
	if n < 2 {
		return unchanged(sentences), nil
	}
	if s.MaxSentences > 0 && n > s.MaxSentences {
		return nil, fmt.Errorf("exhaustive search over %d sentences exceeds limit %d: %w",
			n, s.MaxSentences, domain.ErrInvalidConfiguration)
	}

	eval := newEvaluator(sentences, fitness)
	perm := identity(n)
	best := append([]int(nil), perm...)
	bestScore := math.Inf(-1)

	for {
		v, err := eval.score(ctx, perm)
		if err != nil {
			return nil, err
		}
		if v > bestScore {
			bestScore = v
			copy(best, perm)
		}
		if !nextPermutation(perm) {
			break
		}
	}

	logger.Debug("exhaustive: %d orderings, best %.4f", eval.evaluations(), bestScore)
	return eval.result(best, bestScore), nil
}

// nextPermutation advances perm to the next lexicographic permutation.
// It returns false after the last one.
func nextPermutation(perm []int) bool {
	i := len(perm) - 2
	for i >= 0 && perm[i] >= perm[i+1] {
		i--
	}
	if i < 0 {
		return false
	}
	j := len(perm) - 1
	for perm[j] <= perm[i] {
		j--
	}
	perm[i], perm[j] = perm[j], perm[i]
	for l, r := i+1, len(perm)-1; l < r; l, r = l+1, r-1 {
		perm[l], perm[r] = perm[r], perm[l]
	}
	return true
}
