// Package embedcache memoises sentence embeddings so each distinct sentence
// text is embedded at most once per cache lifetime, however many orderings
// a search evaluates.
package embedcache

import (
	"context"
	"fmt"
	"sync"

	"github.com/custodia-labs/sentorder/internal/core/domain"
	"github.com/custodia-labs/sentorder/internal/core/ports/driven"
	"github.com/custodia-labs/sentorder/internal/logger"
)

// Cache maps sentence text to its embedding.
type Cache struct {
	mu       sync.Mutex
	provider driven.EmbeddingService
	store    driven.EmbeddingStore
	recorder driven.MetricsRecorder
	entries  map[string][]float64
}

// Option configures a Cache.
type Option func(*Cache)

// WithStore adds a persistent second-level store consulted before the provider.
func WithStore(store driven.EmbeddingStore) Option {
	return func(c *Cache) {
		c.store = store
	}
}

// WithRecorder reports hits and misses.
func WithRecorder(recorder driven.MetricsRecorder) Option {
	return func(c *Cache) {
		c.recorder = recorder
	}
}

// New creates an empty cache in front of provider.
func New(provider driven.EmbeddingService, opts ...Option) *Cache {
	c := &Cache{
		provider: provider,
		entries:  make(map[string][]float64),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Vectorize returns the embedding for text, calling the provider only on
// the first request for that exact text.
func (c *Cache) Vectorize(ctx context.Context, text string) ([]float64, error) {
	if c.provider == nil {
		return nil, domain.ErrEmbeddingUnavailable
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if v, ok := c.entries[text]; ok {
		if c.recorder != nil {
			c.recorder.EmbeddingCacheHit()
		}
		return v, nil
	}

	model := c.provider.ModelName()
	if c.store != nil {
		v, found, err := c.store.GetEmbedding(ctx, model, text)
		if err != nil {
			logger.Warn("embedding store lookup failed: %v", err)
		} else if found {
			c.entries[text] = v
			if c.recorder != nil {
				c.recorder.EmbeddingCacheHit()
			}
			return v, nil
		}
	}

	if c.recorder != nil {
		c.recorder.EmbeddingCacheMiss()
	}
	v, err := c.provider.Embed(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("embed sentence: %w", err)
	}
	if len(v) == 0 {
		return nil, fmt.Errorf("empty embedding for %q: %w", text, domain.ErrDegenerateVector)
	}
	c.entries[text] = v

	if c.store != nil {
		if err := c.store.PutEmbedding(ctx, model, text, v); err != nil {
			logger.Warn("embedding store write failed: %v", err)
		}
	}
	return v, nil
}

// VectorizeAll embeds each text in order.
func (c *Cache) VectorizeAll(ctx context.Context, texts []string) ([][]float64, error) {
	out := make([][]float64, len(texts))
	for i, text := range texts {
		v, err := c.Vectorize(ctx, text)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// Clear empties the in-memory cache. The persistent store is untouched.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string][]float64)
}

// Len returns the number of cached embeddings.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
