// Package driven provides interfaces for infrastructure adapters (secondary/outbound ports).
package driven

import "context"

// EmbeddingService generates vector embeddings from sentence text.
//
// Implementations may include:
//   - Ollama (nomic-embed-text, all-minilm)
//   - OpenAI (text-embedding-3-small, text-embedding-3-large)
//   - Offline feature hashing
type EmbeddingService interface {
	// Embed generates a vector embedding for the given text.
	Embed(ctx context.Context, text string) ([]float64, error)

	// EmbedBatch generates embeddings for multiple texts.
	EmbedBatch(ctx context.Context, texts []string) ([][]float64, error)

	// Dimensions returns the embedding vector size.
	Dimensions() int

	// ModelName returns the name of the embedding model being used.
	ModelName() string

	// Ping validates the service is reachable by making a lightweight test request.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}

// EmbeddingStore persists embeddings across processes, keyed by model and text.
type EmbeddingStore interface {
	// GetEmbedding returns the stored vector and whether it was found.
	GetEmbedding(ctx context.Context, model, text string) ([]float64, bool, error)

	// PutEmbedding stores or replaces a vector.
	PutEmbedding(ctx context.Context, model, text string, vector []float64) error

	// CountEmbeddings returns the number of stored vectors.
	CountEmbeddings(ctx context.Context) (int, error)

	// ClearEmbeddings removes every stored vector.
	ClearEmbeddings(ctx context.Context) error
}
