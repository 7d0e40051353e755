package search

import (
	"context"
	"fmt"
	"math"

	"github.com/custodia-labs/sentorder/internal/core/domain"
	"github.com/custodia-labs/sentorder/internal/logger"
)

// Annealing schedule defaults.
const (
	DefaultInitialTemp   = 100.0
	DefaultCoolingFactor = 0.95
	DefaultMinTemp       = 0.01
)

// Annealing runs simulated annealing. A move swaps two positions drawn
// independently, so a move may leave the ordering unchanged. The
// temperature is multiplied by CoolingFactor after every TempLength moves
// until it drops below MinTemp; the best ordering seen is returned.
type Annealing struct {
	InitialTemp   float64
	CoolingFactor float64
	MinTemp       float64

	// TempLength is the number of moves per temperature. 0 means n squared.
	TempLength int

	// Seed makes runs reproducible. 0 seeds randomly.
	Seed uint64
}

// NewAnnealing creates an annealing search with the default schedule.
func NewAnnealing() *Annealing {
	return &Annealing{
		InitialTemp:   DefaultInitialTemp,
		CoolingFactor: DefaultCoolingFactor,
		MinTemp:       DefaultMinTemp,
	}
}

// Name implements Strategy.
func (s *Annealing) Name() string {
	return string(domain.StrategyAnnealing)
}

func (s *Annealing) validate() error {
	if s.MinTemp <= 0 || s.InitialTemp <= s.MinTemp {
		return fmt.Errorf("annealing temperatures %.4g..%.4g: %w", s.InitialTemp, s.MinTemp, domain.ErrInvalidConfiguration)
	}
	if s.CoolingFactor <= 0 || s.CoolingFactor >= 1 {
		return fmt.Errorf("annealing cooling factor %.4g: %w", s.CoolingFactor, domain.ErrInvalidConfiguration)
	}
	if s.TempLength < 0 {
		return fmt.Errorf("annealing temp length %d: %w", s.TempLength, domain.ErrInvalidConfiguration)
	}
	return nil
}

// Search implements Strategy.
func (s *Annealing) Search(ctx context.Context, sentences []domain.Sentence, fitness Fitness) (*Result, error) {
	if err := s.validate(); err != nil {
		return nil, err
	}
	n := len(sentences)
	if n < 2 {
		return unchanged(sentences), nil
	}

	rng := newRand(s.Seed)
	eval := newEvaluator(sentences, fitness)
	tempLength := s.TempLength
	if tempLength == 0 {
		tempLength = n * n
	}

	current := identity(n)
	currentScore, err := eval.score(ctx, current)
	if err != nil {
		return nil, err
	}
	best := append([]int(nil), current...)
	bestScore := currentScore
	candidate := make([]int, n)
	moves := 0

	for temp := s.InitialTemp; temp >= s.MinTemp; temp *= s.CoolingFactor {
		for k := 0; k < tempLength; k++ {
			copy(candidate, current)
			i, j := rng.IntN(n), rng.IntN(n)
			candidate[i], candidate[j] = candidate[j], candidate[i]

			v, err := eval.score(ctx, candidate)
			if err != nil {
				return nil, err
			}
			moves++

			// Cost is the negated score, so a positive delta is an improvement.
			delta := v - currentScore
			if delta >= 0 || rng.Float64() < math.Exp(delta/temp) {
				current, candidate = candidate, current
				currentScore = v
				if currentScore > bestScore {
					bestScore = currentScore
					copy(best, current)
				}
			}
		}
	}

	logger.Debug("annealing: %d moves, %d distinct orderings, best %.4f", moves, eval.evaluations(), bestScore)
	return eval.result(best, bestScore), nil
}
