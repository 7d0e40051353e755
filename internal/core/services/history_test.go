package services

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/sentorder/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/sentorder/internal/core/domain"
)

// errorRunStore implements driven.RunStore and fails every call.
type errorRunStore struct{}

func (errorRunStore) SaveRun(context.Context, domain.RunRecord) error { return errors.New("boom") }
func (errorRunStore) GetRun(context.Context, string) (*domain.RunRecord, error) {
	return nil, errors.New("boom")
}
func (errorRunStore) ListRuns(context.Context, int) ([]domain.RunRecord, error) {
	return nil, errors.New("boom")
}

func seedRuns(t *testing.T, ids ...string) *memory.RunStore {
	t.Helper()
	store := memory.NewRunStore()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, id := range ids {
		require.NoError(t, store.SaveRun(context.Background(), domain.RunRecord{
			ID:        id,
			Strategy:  domain.StrategyExhaustive,
			Order:     []int{1, 0},
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}))
	}
	return store
}

func TestHistoryService_List(t *testing.T) {
	service := NewHistoryService(seedRuns(t, "a1", "b2", "c3"))

	runs, err := service.List(context.Background(), 2)

	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "c3", runs[0].ID)
	assert.Equal(t, "b2", runs[1].ID)
}

func TestHistoryService_List_DefaultLimit(t *testing.T) {
	ids := make([]string, DefaultHistoryLimit+5)
	for i := range ids {
		ids[i] = fmt.Sprintf("run-%02d", i)
	}
	service := NewHistoryService(seedRuns(t, ids...))

	runs, err := service.List(context.Background(), 0)

	require.NoError(t, err)
	assert.Len(t, runs, DefaultHistoryLimit)
}

func TestHistoryService_List_Error(t *testing.T) {
	_, err := NewHistoryService(errorRunStore{}).List(context.Background(), 5)
	assert.Error(t, err)
}

func TestHistoryService_Get(t *testing.T) {
	service := NewHistoryService(seedRuns(t,
		"4f1c2a9e-0000-0000-0000-000000000001",
		"4f1c7777-0000-0000-0000-000000000002",
		"9abc0000-0000-0000-0000-000000000003",
	))
	ctx := context.Background()

	tests := []struct {
		name    string
		id      string
		want    string
		wantErr error
	}{
		{"exact", "9abc0000-0000-0000-0000-000000000003", "9abc0000-0000-0000-0000-000000000003", nil},
		{"unique prefix", "4f1c2", "4f1c2a9e-0000-0000-0000-000000000001", nil},
		{"ambiguous prefix", "4f1c", "", domain.ErrInvalidInput},
		{"short prefix", "9ab", "", domain.ErrNotFound},
		{"unknown", "ffff", "", domain.ErrNotFound},
		{"empty", "  ", "", domain.ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			run, err := service.Get(ctx, tt.id)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, run.ID)
		})
	}
}

func TestHistoryService_Get_StoreError(t *testing.T) {
	_, err := NewHistoryService(errorRunStore{}).Get(context.Background(), "abcd")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrNotFound)
}
