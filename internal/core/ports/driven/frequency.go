package driven

// FrequencyTable looks up corpus frequencies by lemma and universal tag.
type FrequencyTable interface {
	// Frequency returns the count for lemma with the given UPOS, or 0 if unknown.
	Frequency(lemma, upos string) int

	// Len returns the number of distinct entries.
	Len() int
}
