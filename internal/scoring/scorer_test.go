package scoring

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/sentorder/internal/core/domain"
)

type mapVectorizer map[string][]float64

func (m mapVectorizer) Vectorize(_ context.Context, text string) ([]float64, error) {
	return m[text], nil
}

type mapTable map[string]int

func (m mapTable) Frequency(lemma, upos string) int { return m[lemma+"/"+upos] }
func (m mapTable) Len() int                         { return len(m) }

func word(lemma, upos string, head int, rel string) domain.Word {
	return domain.Word{Text: lemma, Lemma: lemma, UPOS: upos, Head: head, DepRel: rel}
}

// fixture builds three sentences with orthogonal-ish embeddings and
// simple dependency trees.
func fixture() ([]domain.Sentence, mapVectorizer) {
	sentences := []domain.Sentence{
		{Index: 0, Text: "Hunden skäller.", Words: []domain.Word{
			word("hund", "NOUN", 2, "nsubj"), word("skälla", "VERB", 0, "root"), word(".", "PUNCT", 2, "punct"),
		}},
		{Index: 1, Text: "Den skäller högt.", Words: []domain.Word{
			word("den", "PRON", 2, "nsubj"), word("skälla", "VERB", 0, "root"), word("högt", "ADV", 2, "advmod"), word(".", "PUNCT", 2, "punct"),
		}},
		{Index: 2, Text: "Solen lyser.", Words: []domain.Word{
			word("sol", "NOUN", 2, "nsubj"), word("lysa", "VERB", 0, "root"), word(".", "PUNCT", 2, "punct"),
		}},
	}
	vectors := mapVectorizer{
		"Hunden skäller.":   {1, 0.2, 0},
		"Den skäller högt.": {0.9, 0.3, 0.1},
		"Solen lyser.":      {0, 0.1, 1},
	}
	return sentences, vectors
}

func TestNew_Validation(t *testing.T) {
	_, vectors := fixture()

	_, err := New(vectors, WithWeights(domain.WeightVector{}))
	assert.ErrorIs(t, err, domain.ErrInvalidConfiguration)

	_, err = New(vectors, WithStructureType("semantic"))
	assert.ErrorIs(t, err, domain.ErrInvalidConfiguration)

	s, err := New(vectors)
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultWeights(), s.Weights())
	assert.Equal(t, domain.StructureDependency, s.StructureType())
}

func TestComputeFinalScore_WeightedAverage(t *testing.T) {
	sentences, vectors := fixture()
	ctx := context.Background()

	s, err := New(vectors)
	require.NoError(t, err)

	b, err := s.ComputeScores(ctx, sentences)
	require.NoError(t, err)
	for _, v := range b.Values() {
		assert.GreaterOrEqual(t, v, 0.0)
		assert.LessOrEqual(t, v, 1.0)
	}

	final, err := s.ComputeFinalScore(ctx, sentences)
	require.NoError(t, err)

	var sum float64
	for _, v := range b.Values() {
		sum += v
	}
	assert.InDelta(t, sum/6, final, 1e-12)
	assert.Equal(t, 1, s.Evaluations())
}

func TestComputeFinalScore_SingleWeight(t *testing.T) {
	sentences, vectors := fixture()
	ctx := context.Background()

	s, err := New(vectors, WithWeights(domain.WeightVector{0, 0, 0, 0, 0, 3}))
	require.NoError(t, err)

	b, err := s.ComputeScores(ctx, sentences)
	require.NoError(t, err)
	final, err := s.ComputeFinalScore(ctx, sentences)
	require.NoError(t, err)
	assert.InDelta(t, b.ContentWordOverlap, final, 1e-12)
}

func TestComputeScores_Errors(t *testing.T) {
	sentences, vectors := fixture()
	ctx := context.Background()

	s, err := New(vectors)
	require.NoError(t, err)

	_, err = s.ComputeScores(ctx, sentences[:1])
	assert.ErrorIs(t, err, domain.ErrInsufficientInput)

	vectors["Solen lyser."] = []float64{0, 0, 0}
	_, err = s.ComputeFinalScore(ctx, sentences)
	assert.ErrorIs(t, err, domain.ErrDegenerateVector)

	var me *domain.MetricError
	require.ErrorAs(t, err, &me)
	assert.Equal(t, 2, me.Sentence)
}

func TestComputeScores_ConstituencyRequiresTrees(t *testing.T) {
	sentences, vectors := fixture()

	s, err := New(vectors, WithStructureType(domain.StructureConstituency))
	require.NoError(t, err)

	_, err = s.ComputeScores(context.Background(), sentences)
	assert.ErrorIs(t, err, domain.ErrMissingAnnotation)
}

func TestComputeFinalScore_MissingLemma(t *testing.T) {
	sentences, vectors := fixture()
	sentences[2].Words[0].Lemma = ""

	s, err := New(vectors, WithWeights(domain.WeightVector{1, 0, 0, 0, 0, 0}))
	require.NoError(t, err)

	_, err = s.ComputeFinalScore(context.Background(), sentences)
	assert.ErrorIs(t, err, domain.ErrMissingAnnotation)

	var me *domain.MetricError
	require.ErrorAs(t, err, &me)
	assert.Equal(t, domain.MetricContentOverlap, me.Metric)
	assert.Equal(t, 2, me.Sentence)
}

func TestComputeReport(t *testing.T) {
	sentences, vectors := fixture()
	table := mapTable{"hund/NOUN": 50, "skälla/VERB": 20, "sol/NOUN": 80, "lysa/VERB": 40}

	s, err := New(vectors, WithFrequencyTable(table))
	require.NoError(t, err)

	r, err := s.ComputeReport(context.Background(), sentences)
	require.NoError(t, err)

	assert.True(t, r.HasAllPairs)
	assert.True(t, r.HasFrequency)
	assert.Greater(t, r.WordFrequency, 0.0)
	assert.Greater(t, r.MinContentFrequency, 0.0)
	assert.Greater(t, r.Lexical.Text, 0.0)
	assert.Greater(t, r.ReadingIndex, 0.0)

	final, err := r.Breakdown.Weighted(s.Weights())
	require.NoError(t, err)
	assert.InDelta(t, final, r.Final, 1e-12)
	assert.Equal(t, 0, s.Evaluations(), "reports are not fitness evaluations")
}
