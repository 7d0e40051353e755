package metrics

import (
	"strings"

	"github.com/custodia-labs/sentorder/internal/core/domain"
	"github.com/custodia-labs/sentorder/internal/vecmath"
)

var (
	givenContentTags = map[string]bool{
		"NN": true, "VB": true, "PN": true,
		"NOUN": true, "VERB": true, "PRON": true,
	}

	punctuationTags = map[string]bool{
		"MAD": true, "MID": true, "PAD": true, "PUNCT": true,
	}

	swedishPronouns = map[string]bool{
		"han": true, "hon": true, "hans": true, "hennes": true,
		"de": true, "dem": true, "deras": true,
		"mig": true, "dig": true, "vi": true, "ni": true,
		"dess": true, "du": true, "jag": true, "den": true, "det": true,
	}
)

// hasTag matches the universal tag or the main SUC tag ("NN" of "NN|UTR|SIN").
func hasTag(w domain.Word, tags map[string]bool) bool {
	xpos, _, _ := strings.Cut(w.XPOS, "|")
	return tags[w.UPOS] || tags[xpos]
}

type lexicalCounts struct {
	given, total int
}

// LexicalGivenness computes the share of words that are given: content
// lemmas already seen earlier in the text and personal pronouns. Lemmas
// are compared case-insensitively. Words without a lemma or tag are
// skipped. Punctuation is excluded from the word total.
func LexicalGivenness(sentences []domain.Sentence) (domain.LexicalGivenness, error) {
	var result domain.LexicalGivenness
	if len(sentences) == 0 {
		return result, domain.NewMetricError(domain.MetricLexicalGivenness, -1, domain.ErrInsufficientInput)
	}

	seen := make(map[string]bool)
	var text lexicalCounts
	ratios := make([]float64, 0, len(sentences))

	for _, s := range sentences {
		var c lexicalCounts
		for _, w := range s.Words {
			if w.Lemma == "" || w.UPOS == "" {
				result.Skipped++
				continue
			}
			lemma := strings.ToLower(w.Lemma)
			if seen[lemma] && hasTag(w, givenContentTags) {
				c.given++
			}
			if swedishPronouns[lemma] && w.UPOS == "PRON" {
				c.given++
			}
			if !hasTag(w, punctuationTags) {
				c.total++
			}
			seen[lemma] = true
		}
		if c.total == 0 {
			return result, domain.NewMetricError(domain.MetricLexicalGivenness, s.Index, domain.ErrInvalidConfiguration)
		}
		ratios = append(ratios, float64(c.given)/float64(c.total))
		text.given += c.given
		text.total += c.total
	}

	mean, err := vecmath.Mean(ratios)
	if err != nil {
		return result, domain.NewMetricError(domain.MetricLexicalGivenness, -1, err)
	}
	std, err := vecmath.StdDev(ratios)
	if err != nil {
		return result, domain.NewMetricError(domain.MetricLexicalGivenness, -1, err)
	}

	result.Text = float64(text.given) / float64(text.total)
	result.Mean = mean
	result.StdDev = std
	return result, nil
}
