// Package hashing provides an offline embedding service based on feature
// hashing of word and character trigram features. It needs no network and is
// deterministic, which makes it the default provider and the one used in tests.
package hashing

import (
	"context"
	"fmt"
	"hash/fnv"
	"strconv"
	"strings"
	"unicode"

	"gonum.org/v1/gonum/floats"

	"github.com/custodia-labs/sentorder/internal/core/domain"
	"github.com/custodia-labs/sentorder/internal/core/ports/driven"
)

// Ensure EmbeddingService implements the interface.
var _ driven.EmbeddingService = (*EmbeddingService)(nil)

// Default configuration values.
const (
	ModelPrefix       = "hashing-"
	DefaultDimensions = 512
)

// EmbeddingService hashes word unigrams and character trigrams into a fixed
// size vector using the signed hashing trick.
type EmbeddingService struct {
	dimensions int
}

// NewEmbeddingService creates a hashing embedder with the given dimensions.
func NewEmbeddingService(dimensions int) *EmbeddingService {
	if dimensions <= 0 {
		dimensions = DefaultDimensions
	}
	return &EmbeddingService{dimensions: dimensions}
}

// NewFromModel parses a model name of the form "hashing-<dims>".
func NewFromModel(model string) (*EmbeddingService, error) {
	if model == "" {
		return NewEmbeddingService(DefaultDimensions), nil
	}
	dims, err := strconv.Atoi(strings.TrimPrefix(model, ModelPrefix))
	if err != nil || !strings.HasPrefix(model, ModelPrefix) || dims <= 0 {
		return nil, fmt.Errorf("hashing: invalid model %q, expected %s<dims>: %w",
			model, ModelPrefix, domain.ErrInvalidConfiguration)
	}
	return NewEmbeddingService(dims), nil
}

// Embed returns the L2-normalised feature vector of text.
func (s *EmbeddingService) Embed(ctx context.Context, text string) ([]float64, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	vec := make([]float64, s.dimensions)
	words := tokenize(text)
	if len(words) == 0 {
		return nil, fmt.Errorf("hashing: no tokens in %q: %w", text, domain.ErrDegenerateVector)
	}

	for _, w := range words {
		s.add(vec, "w:"+w, 1)
		padded := []rune("<" + w + ">")
		for i := 0; i+3 <= len(padded); i++ {
			s.add(vec, "c:"+string(padded[i:i+3]), 0.5)
		}
	}

	norm := floats.Norm(vec, 2)
	if norm == 0 {
		return nil, fmt.Errorf("hashing: features cancelled out for %q: %w", text, domain.ErrDegenerateVector)
	}
	floats.Scale(1/norm, vec)
	return vec, nil
}

// EmbedBatch embeds each text in turn.
func (s *EmbeddingService) EmbedBatch(ctx context.Context, texts []string) ([][]float64, error) {
	out := make([][]float64, len(texts))
	for i, text := range texts {
		vec, err := s.Embed(ctx, text)
		if err != nil {
			return nil, fmt.Errorf("embed text %d: %w", i, err)
		}
		out[i] = vec
	}
	return out, nil
}

// Dimensions returns the embedding vector size.
func (s *EmbeddingService) Dimensions() int {
	return s.dimensions
}

// ModelName returns "hashing-<dims>".
func (s *EmbeddingService) ModelName() string {
	return ModelPrefix + strconv.Itoa(s.dimensions)
}

// Ping always succeeds.
func (s *EmbeddingService) Ping(_ context.Context) error {
	return nil
}

// Close releases resources.
func (s *EmbeddingService) Close() error {
	return nil
}

func (s *EmbeddingService) add(vec []float64, feature string, weight float64) {
	h := fnv.New64a()
	_, _ = h.Write([]byte(feature))
	sum := h.Sum64()
	idx := int(sum % uint64(s.dimensions))
	if sum>>63 == 1 {
		weight = -weight
	}
	vec[idx] += weight
}

func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}
