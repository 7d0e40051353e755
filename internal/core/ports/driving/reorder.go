package driving

import (
	"context"

	"github.com/custodia-labs/sentorder/internal/core/domain"
)

// ReorderService reorders and scores texts.
type ReorderService interface {
	// Reorder parses text and returns the best ordering found.
	Reorder(ctx context.Context, text string, opts domain.ReorderOptions) (*domain.ReorderResult, error)

	// ReorderDocument reorders an already parsed document.
	ReorderDocument(ctx context.Context, doc *domain.Document, opts domain.ReorderOptions) (*domain.ReorderResult, error)

	// Score parses text and scores it in its current order.
	Score(ctx context.Context, text string, opts domain.ScoreOptions) (*domain.ScoreReport, error)

	// ScoreDocument scores an already parsed document.
	ScoreDocument(ctx context.Context, doc *domain.Document, opts domain.ScoreOptions) (*domain.ScoreReport, error)
}

// HistoryService exposes past reorder runs.
type HistoryService interface {
	// List returns the most recent runs first.
	List(ctx context.Context, limit int) ([]domain.RunRecord, error)

	// Get returns a single run.
	Get(ctx context.Context, id string) (*domain.RunRecord, error)
}
