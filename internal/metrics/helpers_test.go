package metrics

import (
	"context"
	"fmt"

	"github.com/custodia-labs/sentorder/internal/core/domain"
)

func w(lemma, upos string) domain.Word {
	return domain.Word{Text: lemma, Lemma: lemma, UPOS: upos}
}

func dep(lemma string, head int, rel string) domain.Word {
	return domain.Word{Text: lemma, Lemma: lemma, UPOS: "X", Head: head, DepRel: rel}
}

func sent(idx int, text string, words ...domain.Word) domain.Sentence {
	for i := range words {
		words[i].ID = i + 1
	}
	return domain.Sentence{Index: idx, Text: text, Words: words}
}

type mapVectorizer map[string][]float64

func (m mapVectorizer) Vectorize(_ context.Context, text string) ([]float64, error) {
	v, ok := m[text]
	if !ok {
		return nil, fmt.Errorf("no vector for %q", text)
	}
	return v, nil
}
