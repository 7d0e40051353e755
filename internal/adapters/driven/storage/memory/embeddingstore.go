package memory

import (
	"context"
	"sync"

	"github.com/custodia-labs/sentorder/internal/core/ports/driven"
)

// Ensure EmbeddingStore implements the interface.
var _ driven.EmbeddingStore = (*EmbeddingStore)(nil)

type embeddingKey struct {
	model string
	text  string
}

// EmbeddingStore is an in-memory implementation of driven.EmbeddingStore.
type EmbeddingStore struct {
	mu      sync.RWMutex
	vectors map[embeddingKey][]float64
}

// NewEmbeddingStore creates a new in-memory embedding store.
func NewEmbeddingStore() *EmbeddingStore {
	return &EmbeddingStore{
		vectors: make(map[embeddingKey][]float64),
	}
}

// GetEmbedding returns a copy of the stored vector.
func (s *EmbeddingStore) GetEmbedding(_ context.Context, model, text string) ([]float64, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	vec, ok := s.vectors[embeddingKey{model, text}]
	if !ok {
		return nil, false, nil
	}
	return append([]float64(nil), vec...), true, nil
}

// PutEmbedding stores a copy of vector.
func (s *EmbeddingStore) PutEmbedding(_ context.Context, model, text string, vector []float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.vectors[embeddingKey{model, text}] = append([]float64(nil), vector...)
	return nil
}

// CountEmbeddings returns the number of stored vectors.
func (s *EmbeddingStore) CountEmbeddings(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.vectors), nil
}

// ClearEmbeddings removes every stored vector.
func (s *EmbeddingStore) ClearEmbeddings(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.vectors = make(map[embeddingKey][]float64)
	return nil
}
