package search

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sort"

	"github.com/custodia-labs/sentorder/internal/core/domain"
	"github.com/custodia-labs/sentorder/internal/logger"
)

// Genetic algorithm defaults.
const (
	DefaultGenerations    = 200
	DefaultPopulationSize = 20
	DefaultCrossoverRate  = 0.8
	DefaultMutationRate   = 0.2
	DefaultEliteSize      = 10
)

// Genetic evolves a population of orderings with roulette selection,
// order-preserving crossover and swap mutation. The best EliteSize
// orderings of every generation are kept in a shared pool, and the best
// member of that pool is returned.
type Genetic struct {
	Generations    int
	PopulationSize int
	CrossoverRate  float64
	MutationRate   float64
	EliteSize      int

	// Seed makes runs reproducible. 0 seeds randomly.
	Seed uint64
}

// NewGenetic creates a genetic search with default parameters.
func NewGenetic() *Genetic {
	return &Genetic{
		Generations:    DefaultGenerations,
		PopulationSize: DefaultPopulationSize,
		CrossoverRate:  DefaultCrossoverRate,
		MutationRate:   DefaultMutationRate,
		EliteSize:      DefaultEliteSize,
	}
}

// Name implements Strategy.
func (s *Genetic) Name() string {
	return string(domain.StrategyGenetic)
}

func (s *Genetic) validate() error {
	switch {
	case s.Generations < 1:
		return fmt.Errorf("generations %d: %w", s.Generations, domain.ErrInvalidConfiguration)
	case s.PopulationSize < 2:
		return fmt.Errorf("population size %d: %w", s.PopulationSize, domain.ErrInvalidConfiguration)
	case s.EliteSize < 1:
		return fmt.Errorf("elite size %d: %w", s.EliteSize, domain.ErrInvalidConfiguration)
	case s.CrossoverRate < 0 || s.CrossoverRate > 1:
		return fmt.Errorf("crossover rate %.4g: %w", s.CrossoverRate, domain.ErrInvalidConfiguration)
	case s.MutationRate < 0 || s.MutationRate > 1:
		return fmt.Errorf("mutation rate %.4g: %w", s.MutationRate, domain.ErrInvalidConfiguration)
	}
	return nil
}

type scored struct {
	perm  []int
	score float64
}

// Search implements Strategy.
func (s *Genetic) Search(ctx context.Context, sentences []domain.Sentence, fitness Fitness) (*Result, error) {
	if err := s.validate(); err != nil {
		return nil, err
	}
	n := len(sentences)
	if n < 2 {
		return unchanged(sentences), nil
	}

	rng := newRand(s.Seed)
	eval := newEvaluator(sentences, fitness)

	// The input order seeds the population alongside random shuffles.
	population := make([][]int, s.PopulationSize)
	population[0] = identity(n)
	for i := 1; i < len(population); i++ {
		p := identity(n)
		rng.Shuffle(n, func(a, b int) { p[a], p[b] = p[b], p[a] })
		population[i] = p
	}

	elite := make(map[string]scored)
	for gen := 0; gen < s.Generations; gen++ {
		ranked, err := s.rank(ctx, eval, population)
		if err != nil {
			return nil, err
		}
		for _, r := range ranked[:min(s.EliteSize, len(ranked))] {
			elite[permKey(r.perm)] = r
		}

		parents := selectParents(rng, ranked, s.PopulationSize)
		offspring := make([][]int, 0, s.PopulationSize)
		for i := 0; i+1 < len(parents); i += 2 {
			c1 := append([]int(nil), parents[i]...)
			c2 := append([]int(nil), parents[i+1]...)
			if rng.Float64() < s.CrossoverRate {
				c1 = orderCrossover(rng, parents[i], parents[i+1], c1)
				c2 = orderCrossover(rng, parents[i+1], parents[i], c2)
			}
			offspring = append(offspring, c1, c2)
		}
		if len(parents)%2 == 1 {
			offspring = append(offspring, append([]int(nil), parents[len(parents)-1]...))
		}
		for _, child := range offspring {
			mutate(rng, child, s.MutationRate)
		}
		population = offspring
	}

	var best scored
	found := false
	for _, r := range elite {
		if !found || r.score > best.score || (r.score == best.score && permKey(r.perm) < permKey(best.perm)) {
			best, found = r, true
		}
	}

	logger.Debug("genetic: %d generations, elite pool %d, best %.4f", s.Generations, len(elite), best.score)
	return eval.result(best.perm, best.score), nil
}

// rank scores every individual and sorts them best first.
func (s *Genetic) rank(ctx context.Context, eval *evaluator, population [][]int) ([]scored, error) {
	ranked := make([]scored, len(population))
	for i, p := range population {
		v, err := eval.score(ctx, p)
		if err != nil {
			return nil, err
		}
		ranked[i] = scored{perm: p, score: v}
	}
	sort.SliceStable(ranked, func(a, b int) bool { return ranked[a].score > ranked[b].score })
	return ranked, nil
}

// selectParents draws k individuals with replacement, each with
// probability proportional to its score. Negative scores weigh nothing;
// if every weight is zero the draw is uniform.
func selectParents(rng *rand.Rand, ranked []scored, k int) [][]int {
	var total float64
	for _, r := range ranked {
		total += max(r.score, 0)
	}
	parents := make([][]int, k)
	for i := range parents {
		if total <= 0 {
			parents[i] = ranked[rng.IntN(len(ranked))].perm
			continue
		}
		target := rng.Float64() * total
		chosen := len(ranked) - 1
		var acc float64
		for j, r := range ranked {
			acc += max(r.score, 0)
			if target < acc {
				chosen = j
				break
			}
		}
		parents[i] = ranked[chosen].perm
	}
	return parents
}

// orderCrossover copies keep[start:end] into child at the same positions
// and fills the remaining positions with the other parent's genes in
// order, starting at end and wrapping around.
func orderCrossover(rng *rand.Rand, keep, other, child []int) []int {
	size := len(keep)
	start, end := rng.IntN(size), rng.IntN(size-1)
	if end >= start {
		end++
	} else {
		start, end = end, start
	}

	placed := make([]bool, size)
	filled := make([]bool, size)
	for i := start; i < end; i++ {
		child[i] = keep[i]
		placed[keep[i]] = true
		filled[i] = true
	}

	idx := end % size
	for _, gene := range other {
		if placed[gene] {
			continue
		}
		for filled[idx] {
			idx = (idx + 1) % size
		}
		child[idx] = gene
		placed[gene] = true
		filled[idx] = true
	}
	return child
}

// mutate swaps each position with a random one with the given probability.
func mutate(rng *rand.Rand, perm []int, rate float64) {
	for i := range perm {
		if rng.Float64() < rate {
			j := rng.IntN(len(perm))
			perm[i], perm[j] = perm[j], perm[i]
		}
	}
}
