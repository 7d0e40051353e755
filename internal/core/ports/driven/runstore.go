package driven

import (
	"context"

	"github.com/custodia-labs/sentorder/internal/core/domain"
)

// RunStore persists reorder history.
type RunStore interface {
	// SaveRun stores a run record.
	SaveRun(ctx context.Context, run domain.RunRecord) error

	// GetRun retrieves a run by ID. Returns domain.ErrNotFound if missing.
	GetRun(ctx context.Context, id string) (*domain.RunRecord, error)

	// ListRuns returns the most recent runs first. limit <= 0 returns all.
	ListRuns(ctx context.Context, limit int) ([]domain.RunRecord, error)
}
