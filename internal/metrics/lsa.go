package metrics

import (
	"context"
	"errors"

	"github.com/custodia-labs/sentorder/internal/core/domain"
	"github.com/custodia-labs/sentorder/internal/vecmath"
)

// LSA measures semantic similarity between sentence embeddings.
type LSA struct {
	vectors Vectorizer
}

// NewLSA creates the metric over a vectorizer, typically an embedcache.Cache.
func NewLSA(vectors Vectorizer) *LSA {
	return &LSA{vectors: vectors}
}

func (m *LSA) embed(ctx context.Context, metric string, sentences []domain.Sentence) ([][]float64, error) {
	out := make([][]float64, len(sentences))
	for i, s := range sentences {
		v, err := m.vectors.Vectorize(ctx, s.Text)
		if err != nil {
			return nil, domain.NewMetricError(metric, s.Index, err)
		}
		out[i] = v
	}
	return out, nil
}

func cosine(metric string, a, b domain.Sentence, u, v []float64) (float64, error) {
	c, err := vecmath.Cosine(u, v)
	if err != nil {
		idx := a.Index
		if errors.Is(err, domain.ErrDegenerateVector) && vecmath.Norm(u) != 0 {
			idx = b.Index
		}
		return 0, domain.NewMetricError(metric, idx, err)
	}
	return c, nil
}

// Adjacent returns the normalised mean and standard deviation of the
// cosine similarity of each adjacent sentence pair.
func (m *LSA) Adjacent(ctx context.Context, sentences []domain.Sentence) (mean, std float64, err error) {
	if len(sentences) < 2 {
		return 0, 0, domain.NewMetricError(domain.MetricLSAAdjacent, -1, domain.ErrInsufficientInput)
	}
	vectors, err := m.embed(ctx, domain.MetricLSAAdjacent, sentences)
	if err != nil {
		return 0, 0, err
	}

	sims := make([]float64, 0, len(sentences)-1)
	for i := 0; i < len(sentences)-1; i++ {
		c, err := cosine(domain.MetricLSAAdjacent, sentences[i], sentences[i+1], vectors[i], vectors[i+1])
		if err != nil {
			return 0, 0, err
		}
		sims = append(sims, c)
	}
	return normalizedStats(domain.MetricLSAAdjacent, sims)
}

// AllPairs returns the normalised mean and standard deviation of the
// cosine similarity of every ordered pair of distinct sentences.
// ok is false when there are fewer than two sentences.
func (m *LSA) AllPairs(ctx context.Context, sentences []domain.Sentence) (mean, std float64, ok bool, err error) {
	if len(sentences) <= 1 {
		return 0, 0, false, nil
	}
	vectors, err := m.embed(ctx, domain.MetricLSAAllPairs, sentences)
	if err != nil {
		return 0, 0, false, err
	}

	sims := make([]float64, 0, len(sentences)*(len(sentences)-1))
	for i := range sentences {
		for j := range sentences {
			if i == j {
				continue
			}
			c, err := cosine(domain.MetricLSAAllPairs, sentences[i], sentences[j], vectors[i], vectors[j])
			if err != nil {
				return 0, 0, false, err
			}
			sims = append(sims, c)
		}
	}
	mean, std, err = normalizedStats(domain.MetricLSAAllPairs, sims)
	return mean, std, err == nil, err
}

func normalizedStats(metric string, values []float64) (float64, float64, error) {
	mean, err := vecmath.NormalizedMean(values)
	if err != nil {
		return 0, 0, domain.NewMetricError(metric, -1, err)
	}
	std, err := vecmath.NormalizedStd(values)
	if err != nil {
		return 0, 0, domain.NewMetricError(metric, -1, err)
	}
	return mean, std, nil
}
