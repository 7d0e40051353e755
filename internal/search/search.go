// Package search finds high-scoring orderings of sentences.
//
// Three strategies are available and interchangeable: Exhaustive scores
// every permutation, Annealing runs simulated annealing over swap moves and
// Genetic evolves a population of orderings. All of them permute positions
// of the input and map back to sentences, so the result always contains
// exactly the input sentences.
package search

import (
	"context"
	"strconv"
	"strings"

	"github.com/custodia-labs/sentorder/internal/core/domain"
)

// Fitness scores an ordering. Higher is better.
type Fitness func(ctx context.Context, sentences []domain.Sentence) (float64, error)

// Result is the outcome of a search.
type Result struct {
	// Sentences is the best ordering found.
	Sentences []domain.Sentence

	// Score is the fitness of Sentences.
	Score float64

	// Evaluations counts distinct orderings scored.
	Evaluations int
}

// Strategy searches for a high-scoring ordering.
type Strategy interface {
	// Name identifies the strategy.
	Name() string

	// Search returns the best ordering found. Inputs with fewer than two
	// sentences are returned unchanged without scoring.
	Search(ctx context.Context, sentences []domain.Sentence, fitness Fitness) (*Result, error)
}

// evaluator scores permutations of a fixed sentence list, memoising by
// permutation so repeated states cost nothing.
type evaluator struct {
	sentences []domain.Sentence
	fitness   Fitness
	memo      map[string]float64
}

func newEvaluator(sentences []domain.Sentence, fitness Fitness) *evaluator {
	return &evaluator{
		sentences: sentences,
		fitness:   fitness,
		memo:      make(map[string]float64),
	}
}

func (e *evaluator) score(ctx context.Context, perm []int) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	key := permKey(perm)
	if v, ok := e.memo[key]; ok {
		return v, nil
	}
	v, err := e.fitness(ctx, apply(e.sentences, perm))
	if err != nil {
		return 0, err
	}
	e.memo[key] = v
	return v, nil
}

func (e *evaluator) evaluations() int {
	return len(e.memo)
}

func (e *evaluator) result(perm []int, score float64) *Result {
	return &Result{
		Sentences:   apply(e.sentences, perm),
		Score:       score,
		Evaluations: e.evaluations(),
	}
}

func unchanged(sentences []domain.Sentence) *Result {
	return &Result{Sentences: append([]domain.Sentence(nil), sentences...)}
}

func identity(n int) []int {
	perm := make([]int, n)
	for i := range perm {
		perm[i] = i
	}
	return perm
}

func apply(sentences []domain.Sentence, perm []int) []domain.Sentence {
	out := make([]domain.Sentence, len(perm))
	for i, p := range perm {
		out[i] = sentences[p]
	}
	return out
}

func permKey(perm []int) string {
	var b strings.Builder
	for i, p := range perm {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.Itoa(p))
	}
	return b.String()
}
