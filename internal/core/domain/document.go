package domain

import "strings"

// Word is a single token with its linguistic annotation.
// Words are produced by a Parser and never modified afterwards.
type Word struct {
	// ID is the 1-based position of the word within its sentence.
	ID int

	// Text is the surface form.
	Text string

	// Lemma is the dictionary form.
	Lemma string

	// UPOS is the universal part-of-speech tag (NOUN, VERB, ...).
	UPOS string

	// XPOS is the language-specific tag (SUC tags for Swedish: NN, VB, MAD, ...).
	XPOS string

	// Head is the 1-based index of the syntactic head. 0 marks the root.
	Head int

	// DepRel is the dependency relation to the head.
	DepRel string
}

// Tag returns XPOS when present and UPOS otherwise.
func (w Word) Tag() string {
	if w.XPOS != "" && w.XPOS != "_" {
		return w.XPOS
	}
	return w.UPOS
}

// Sentence is an annotated sentence of the input text.
type Sentence struct {
	// Index is the position of the sentence in the source text.
	// It identifies the sentence when checking that a reorder is a permutation.
	Index int

	// Text is the sentence text used for embeddings and output.
	Text string

	// Words holds the annotated tokens in order.
	Words []Word

	// Constituency is the phrase-structure tree, or nil when the parser
	// does not produce one.
	Constituency *ConstituencyTree
}

// Document is a parsed text: an ordered list of sentences.
type Document struct {
	Sentences []Sentence
}

// Texts returns the text of every sentence in order.
func (d *Document) Texts() []string {
	return SentenceTexts(d.Sentences)
}

// Join returns the sentences joined with single spaces.
func (d *Document) Join() string {
	return JoinSentences(d.Sentences)
}

// SentenceTexts returns the text of each sentence.
func SentenceTexts(sentences []Sentence) []string {
	texts := make([]string, len(sentences))
	for i, s := range sentences {
		texts[i] = s.Text
	}
	return texts
}

// JoinSentences concatenates sentence texts with a single space.
func JoinSentences(sentences []Sentence) string {
	return strings.Join(SentenceTexts(sentences), " ")
}

// ValidatePermutation reports whether reordered contains exactly the
// sentences of original, each once, identified by Index.
func ValidatePermutation(original, reordered []Sentence) error {
	if len(original) != len(reordered) {
		return ErrInvalidInput
	}
	counts := make(map[int]int, len(original))
	for _, s := range original {
		counts[s.Index]++
	}
	for _, s := range reordered {
		counts[s.Index]--
		if counts[s.Index] < 0 {
			return ErrInvalidInput
		}
	}
	return nil
}
