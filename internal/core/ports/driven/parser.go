package driven

import (
	"context"

	"github.com/custodia-labs/sentorder/internal/core/domain"
)

// Parser turns raw text into annotated sentences: segmentation, lemmas,
// part-of-speech tags, dependency relations and, where available,
// constituency trees.
type Parser interface {
	// Parse annotates text. Sentence indices follow source order from 0.
	Parse(ctx context.Context, text string) (*domain.Document, error)

	// Name identifies the parser for logs.
	Name() string
}
