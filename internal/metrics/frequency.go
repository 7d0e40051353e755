package metrics

import (
	"math"

	"github.com/custodia-labs/sentorder/internal/core/domain"
	"github.com/custodia-labs/sentorder/internal/core/ports/driven"
)

// WordFrequency holds the two frequency measures.
type WordFrequency struct {
	// MeanLog is the mean natural log frequency of all words found in the table.
	MeanLog float64

	// MeanMinContentLog is the mean over sentences of the log frequency of
	// the rarest known content word.
	MeanMinContentLog float64
}

// ComputeWordFrequency evaluates both measures. Words missing from the
// table are ignored; sentences without a known content word are left out
// of the minimum-content average.
func ComputeWordFrequency(table driven.FrequencyTable, sentences []domain.Sentence) (WordFrequency, error) {
	var out WordFrequency
	if len(sentences) == 0 {
		return out, domain.NewMetricError(domain.MetricWordFrequency, -1, domain.ErrInsufficientInput)
	}

	var logSum, minSum float64
	var words, scored int
	for _, s := range sentences {
		minFreq := 0
		for _, w := range s.Words {
			f := table.Frequency(w.Lemma, w.UPOS)
			if f < 1 {
				continue
			}
			logSum += math.Log(float64(f))
			words++
			if IsContentWord(w) && (minFreq == 0 || f < minFreq) {
				minFreq = f
			}
		}
		if minFreq > 0 {
			minSum += math.Log(float64(minFreq))
			scored++
		}
	}
	if words > 0 {
		out.MeanLog = logSum / float64(words)
	}
	if scored > 0 {
		out.MeanMinContentLog = minSum / float64(scored)
	}
	return out, nil
}
