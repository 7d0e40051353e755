package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/custodia-labs/sentorder/internal/core/domain"
	"github.com/custodia-labs/sentorder/internal/core/ports/driven"
	"github.com/custodia-labs/sentorder/internal/core/ports/driving"
)

// Ensure HistoryService implements the interface.
var _ driving.HistoryService = (*HistoryService)(nil)

// DefaultHistoryLimit is the number of runs List returns when no limit is given.
const DefaultHistoryLimit = 20

// HistoryService reads past reorder runs.
type HistoryService struct {
	runs driven.RunStore
}

// NewHistoryService creates a history service over runs.
func NewHistoryService(runs driven.RunStore) *HistoryService {
	return &HistoryService{runs: runs}
}

// List returns the most recent runs first.
func (s *HistoryService) List(ctx context.Context, limit int) ([]domain.RunRecord, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	runs, err := s.runs.ListRuns(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	return runs, nil
}

// Get returns a single run. An unambiguous ID prefix of at least four
// characters is accepted, as printed by List.
func (s *HistoryService) Get(ctx context.Context, id string) (*domain.RunRecord, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, fmt.Errorf("run id is required: %w", domain.ErrInvalidInput)
	}

	run, err := s.runs.GetRun(ctx, id)
	if err == nil {
		return run, nil
	}
	if len(id) < 4 || !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("get run: %w", err)
	}

	all, listErr := s.runs.ListRuns(ctx, 0)
	if listErr != nil {
		return nil, fmt.Errorf("list runs: %w", listErr)
	}
	var match *domain.RunRecord
	for i := range all {
		if !strings.HasPrefix(all[i].ID, id) {
			continue
		}
		if match != nil {
			return nil, fmt.Errorf("run id prefix %q is ambiguous: %w", id, domain.ErrInvalidInput)
		}
		match = &all[i]
	}
	if match == nil {
		return nil, fmt.Errorf("get run: %w", err)
	}
	return match, nil
}
