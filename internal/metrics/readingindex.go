package metrics

// Coefficients of the Coh-Metrix L2 reading index.
const (
	l2Intercept  = -45.032
	l2Overlap    = 52.230
	l2Syntax     = 61.305
	l2Frequency  = 22.205
	l2UpperBound = 112.913
)

// L2ReadingIndex combines content word overlap, syntactic similarity and,
// when hasFrequency is set, the minimum content word frequency into the
// L2 reading index, rescaled so the intercept maps to 0 and the usual
// maximum to 1.
func L2ReadingIndex(overlap, syntax, frequency float64, hasFrequency bool) float64 {
	v := l2Intercept + l2Overlap*overlap + l2Syntax*syntax
	if hasFrequency {
		v += l2Frequency * frequency
	}
	return (v - l2Intercept) / (-l2Intercept + l2UpperBound)
}
