package metrics

import "github.com/custodia-labs/sentorder/internal/core/domain"

// contentClasses are the open word classes by universal tag.
var contentClasses = map[string]bool{
	"ADJ":   true,
	"ADV":   true,
	"INTJ":  true,
	"NOUN":  true,
	"PROPN": true,
	"VERB":  true,
}

// IsContentWord reports whether w belongs to an open word class.
func IsContentWord(w domain.Word) bool {
	return contentClasses[w.UPOS]
}

// checkOverlapAnnotations requires a tag on every word and a lemma on
// every content word.
func checkOverlapAnnotations(s domain.Sentence) error {
	for _, w := range s.Words {
		if w.UPOS == "" || (IsContentWord(w) && w.Lemma == "") {
			return domain.NewMetricError(domain.MetricContentOverlap, s.Index, domain.ErrMissingAnnotation)
		}
	}
	return nil
}

// ContentWordOverlap measures how many content words of s1 recur in s2
// with the same lemma and tag. Each content word of s1 found occ > 0 times
// in s2 contributes 1 + occ; the sum is divided by the word count of both
// sentences. Two empty sentences score 0.
func ContentWordOverlap(s1, s2 domain.Sentence) (float64, error) {
	if err := checkOverlapAnnotations(s1); err != nil {
		return 0, err
	}
	if err := checkOverlapAnnotations(s2); err != nil {
		return 0, err
	}

	total := len(s1.Words) + len(s2.Words)
	if total == 0 {
		return 0, nil
	}

	type key struct{ lemma, upos string }
	counts := make(map[key]int, len(s2.Words))
	for _, w := range s2.Words {
		counts[key{w.Lemma, w.UPOS}]++
	}

	var overlap float64
	for _, w := range s1.Words {
		if !IsContentWord(w) {
			continue
		}
		if occ := counts[key{w.Lemma, w.UPOS}]; occ > 0 {
			overlap += float64(1 + occ)
		}
	}
	return overlap / float64(total), nil
}

// AdjacentContentWordOverlap averages ContentWordOverlap over adjacent
// pairs. Fewer than two sentences score 0.
func AdjacentContentWordOverlap(sentences []domain.Sentence) (float64, error) {
	if len(sentences) < 2 {
		return 0, nil
	}
	var sum float64
	for i := 0; i < len(sentences)-1; i++ {
		v, err := ContentWordOverlap(sentences[i], sentences[i+1])
		if err != nil {
			return 0, err
		}
		sum += v
	}
	return sum / float64(len(sentences)-1), nil
}
