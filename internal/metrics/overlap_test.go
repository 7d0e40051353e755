package metrics

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/sentorder/internal/core/domain"
)

func toyDocument() []domain.Sentence {
	return []domain.Sentence{
		sent(0, "A B.", w("a", "NOUN"), w("b", "NOUN"), w(".", "PUNCT")),
		sent(1, "B C.", w("b", "NOUN"), w("c", "NOUN"), w(".", "PUNCT")),
		sent(2, "A C.", w("a", "NOUN"), w("c", "NOUN"), w(".", "PUNCT")),
	}
}

func overlap(t *testing.T, s1, s2 domain.Sentence) float64 {
	t.Helper()
	v, err := ContentWordOverlap(s1, s2)
	require.NoError(t, err)
	return v
}

func TestContentWordOverlap_Golden(t *testing.T) {
	doc := toyDocument()

	// One shared content word per pair: (1 + 1) / (3 + 3).
	pair1 := overlap(t, doc[0], doc[1])
	pair2 := overlap(t, doc[1], doc[2])
	assert.InDelta(t, 1.0/3, pair1, 1e-12)
	assert.InDelta(t, 1.0/3, pair2, 1e-12)

	mean, err := AdjacentContentWordOverlap(doc)
	require.NoError(t, err)
	assert.InDelta(t, (pair1+pair2)/2, mean, 1e-12)
	assert.InDelta(t, 1.0/3, mean, 1e-12)
}

func TestContentWordOverlap_Properties(t *testing.T) {
	s := sent(0, "Hunden skäller på katten.",
		w("hund", "NOUN"), w("skälla", "VERB"), w("på", "ADP"), w("katt", "NOUN"), w(".", "PUNCT"))
	disjoint := sent(1, "Solen lyser.", w("sol", "NOUN"), w("lysa", "VERB"), w(".", "PUNCT"))

	self := overlap(t, s, s)
	other := overlap(t, s, disjoint)

	assert.Greater(t, self, 0.0)
	assert.Equal(t, 0.0, other)
	assert.GreaterOrEqual(t, self, other)
}

func TestContentWordOverlap_CountsOccurrences(t *testing.T) {
	s1 := sent(0, "Hund.", w("hund", "NOUN"))
	s2 := sent(1, "Hund hund hund.", w("hund", "NOUN"), w("hund", "NOUN"), w("hund", "NOUN"))

	// occ = 3 contributes 1 + 3 over 1 + 3 words.
	assert.InDelta(t, 1.0, overlap(t, s1, s2), 1e-12)
}

func TestContentWordOverlap_RequiresSameTag(t *testing.T) {
	s1 := sent(0, "Springa.", w("springa", "VERB"))
	s2 := sent(1, "Springa.", w("springa", "NOUN"))
	assert.Equal(t, 0.0, overlap(t, s1, s2))
}

func TestContentWordOverlap_FunctionWordsIgnored(t *testing.T) {
	s1 := sent(0, "och", w("och", "CCONJ"))
	s2 := sent(1, "och", w("och", "CCONJ"))
	assert.Equal(t, 0.0, overlap(t, s1, s2))
}

func TestContentWordOverlap_FunctionWordWithoutLemma(t *testing.T) {
	s1 := sent(0, "Hund och.", w("hund", "NOUN"), w("", "CCONJ"))
	s2 := sent(1, "Hund.", w("hund", "NOUN"))

	// (1 + 1) / (2 + 1)
	assert.InDelta(t, 2.0/3, overlap(t, s1, s2), 1e-12)
}

func TestContentWordOverlap_EmptySentences(t *testing.T) {
	assert.Equal(t, 0.0, overlap(t, domain.Sentence{}, domain.Sentence{}))
}

func TestContentWordOverlap_MissingAnnotation(t *testing.T) {
	tagged := sent(0, "Hunden.", w("hund", "NOUN"))

	tests := []struct {
		name     string
		s1, s2   domain.Sentence
		sentence int
	}{
		{
			name:     "content words without lemma",
			s1:       sent(3, "Hunden.", domain.Word{Text: "Hunden", UPOS: "NOUN"}),
			s2:       sent(4, "Katten.", domain.Word{Text: "Katten", UPOS: "NOUN"}),
			sentence: 3,
		},
		{
			name:     "word without tag in first sentence",
			s1:       sent(5, "Hunden.", domain.Word{Text: "Hunden", Lemma: "hund"}),
			s2:       tagged,
			sentence: 5,
		},
		{
			name:     "word without tag in second sentence",
			s1:       tagged,
			s2:       sent(6, "och", domain.Word{Text: "och", Lemma: "och"}),
			sentence: 6,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ContentWordOverlap(tt.s1, tt.s2)

			require.ErrorIs(t, err, domain.ErrMissingAnnotation)
			var me *domain.MetricError
			require.True(t, errors.As(err, &me))
			assert.Equal(t, domain.MetricContentOverlap, me.Metric)
			assert.Equal(t, tt.sentence, me.Sentence)
		})
	}
}

func TestAdjacentContentWordOverlap_MissingAnnotation(t *testing.T) {
	doc := toyDocument()
	doc[2].Words[0].Lemma = ""

	_, err := AdjacentContentWordOverlap(doc)

	assert.ErrorIs(t, err, domain.ErrMissingAnnotation)
}

func TestAdjacentContentWordOverlap_Short(t *testing.T) {
	for _, doc := range [][]domain.Sentence{nil, toyDocument()[:1]} {
		v, err := AdjacentContentWordOverlap(doc)
		require.NoError(t, err)
		assert.Equal(t, 0.0, v)
	}
}
