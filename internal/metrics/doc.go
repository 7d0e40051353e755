// Package metrics implements the cohesion measures used to score a
// sentence ordering.
//
// Weighted measures (combined by the scoring package):
//
//   - LSA adjacent similarity: cosine of adjacent sentence embeddings
//   - LSA givenness: share of each sentence already spanned by earlier ones
//   - Syntactic similarity: common subtree of adjacent parse trees
//   - Content word overlap: shared content lemmas of adjacent sentences
//
// Reported measures:
//
//   - LSA all-pairs similarity
//   - Lexical givenness: repeated lemmas and pronouns
//   - Word frequency: mean log corpus frequency
//   - L2 reading index
//
// Every metric reads sentences and never modifies them.
package metrics

import "context"

// Vectorizer returns the embedding of a sentence text.
type Vectorizer interface {
	Vectorize(ctx context.Context, text string) ([]float64, error)
}
