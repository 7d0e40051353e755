package mcp

import (
	"context"

	"github.com/custodia-labs/sentorder/internal/core/domain"
)

// mockReorderService is a mock implementation of driving.ReorderService.
type mockReorderService struct {
	result    *domain.ReorderResult
	report    *domain.ScoreReport
	err       error
	lastText  string
	lastOpts  domain.ReorderOptions
	lastScore domain.ScoreOptions
}

func (m *mockReorderService) Reorder(
	_ context.Context,
	text string,
	opts domain.ReorderOptions,
) (*domain.ReorderResult, error) {
	m.lastText = text
	m.lastOpts = opts
	return m.result, m.err
}

func (m *mockReorderService) ReorderDocument(
	_ context.Context,
	_ *domain.Document,
	opts domain.ReorderOptions,
) (*domain.ReorderResult, error) {
	m.lastOpts = opts
	return m.result, m.err
}

func (m *mockReorderService) Score(
	_ context.Context,
	text string,
	opts domain.ScoreOptions,
) (*domain.ScoreReport, error) {
	m.lastText = text
	m.lastScore = opts
	return m.report, m.err
}

func (m *mockReorderService) ScoreDocument(
	_ context.Context,
	_ *domain.Document,
	opts domain.ScoreOptions,
) (*domain.ScoreReport, error) {
	m.lastScore = opts
	return m.report, m.err
}

// mockHistoryService is a mock implementation of driving.HistoryService.
type mockHistoryService struct {
	runs []domain.RunRecord
	run  *domain.RunRecord
	err  error
}

func (m *mockHistoryService) List(_ context.Context, limit int) ([]domain.RunRecord, error) {
	if m.err != nil {
		return nil, m.err
	}
	if limit > 0 && limit < len(m.runs) {
		return m.runs[:limit], nil
	}
	return m.runs, nil
}

func (m *mockHistoryService) Get(_ context.Context, _ string) (*domain.RunRecord, error) {
	return m.run, m.err
}
