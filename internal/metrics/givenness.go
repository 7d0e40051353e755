package metrics

import (
	"context"

	"github.com/custodia-labs/sentorder/internal/core/domain"
	"github.com/custodia-labs/sentorder/internal/vecmath"
)

// Givenness measures how much of each sentence's embedding is already
// spanned by the sentences before it.
type Givenness struct {
	vectors Vectorizer
}

// NewGivenness creates the metric over a vectorizer.
func NewGivenness(vectors Vectorizer) *Givenness {
	return &Givenness{vectors: vectors}
}

// PerSentence returns ‖given‖ / (‖given‖ + ‖new‖) for sentences 1..n-1,
// where given is the projection onto the span of all earlier sentences
// and new is the remainder.
func (m *Givenness) PerSentence(ctx context.Context, sentences []domain.Sentence) ([]float64, error) {
	if len(sentences) < 2 {
		return nil, domain.NewMetricError(domain.MetricGivenness, -1, domain.ErrInsufficientInput)
	}

	vectors := make([][]float64, len(sentences))
	for i, s := range sentences {
		v, err := m.vectors.Vectorize(ctx, s.Text)
		if err != nil {
			return nil, domain.NewMetricError(domain.MetricGivenness, s.Index, err)
		}
		if vecmath.Norm(v) == 0 {
			return nil, domain.NewMetricError(domain.MetricGivenness, s.Index, domain.ErrDegenerateVector)
		}
		vectors[i] = v
	}

	scores := make([]float64, 0, len(sentences)-1)
	for i := 1; i < len(sentences); i++ {
		given, err := vecmath.ProjectOntoSubspace(vectors[i], vectors[:i])
		if err != nil {
			return nil, domain.NewMetricError(domain.MetricGivenness, sentences[i].Index, err)
		}
		fresh, err := vecmath.Sub(vectors[i], given)
		if err != nil {
			return nil, domain.NewMetricError(domain.MetricGivenness, sentences[i].Index, err)
		}
		g, n := vecmath.Norm(given), vecmath.Norm(fresh)
		scores = append(scores, g/(g+n))
	}
	return scores, nil
}

// Compute returns the mean and population standard deviation of the
// per-sentence givenness. Neither is normalised.
func (m *Givenness) Compute(ctx context.Context, sentences []domain.Sentence) (mean, std float64, err error) {
	scores, err := m.PerSentence(ctx, sentences)
	if err != nil {
		return 0, 0, err
	}
	if mean, err = vecmath.Mean(scores); err != nil {
		return 0, 0, domain.NewMetricError(domain.MetricGivenness, -1, err)
	}
	if std, err = vecmath.StdDev(scores); err != nil {
		return 0, 0, domain.NewMetricError(domain.MetricGivenness, -1, err)
	}
	return mean, std, nil
}
