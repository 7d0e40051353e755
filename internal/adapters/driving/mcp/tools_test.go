package mcp

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/sentorder/internal/core/domain"
)

func TestServer_handleReorder(t *testing.T) {
	ctx := context.Background()

	t.Run("returns reordered text", func(t *testing.T) {
		mockReorder := &mockReorderService{
			result: &domain.ReorderResult{
				RunID:    "run-1",
				Strategy: domain.StrategyExhaustive,
				Original: []domain.Sentence{
					{Index: 0, Text: "B kom sen."}, {Index: 1, Text: "A kom först."},
				},
				Reordered: []domain.Sentence{
					{Index: 1, Text: "A kom först."}, {Index: 0, Text: "B kom sen."},
				},
				OriginalScore:  0.4,
				ReorderedScore: 0.6,
				Evaluations:    2,
			},
		}

		server, err := NewServer(&Ports{Reorder: mockReorder})
		require.NoError(t, err)

		pin := true
		input := ReorderInput{Text: "B kom sen. A kom först.", Strategy: "exhaustive", PinLast: &pin, Seed: 7}
		_, output, err := server.handleReorder(ctx, nil, input)

		require.NoError(t, err)
		assert.Equal(t, "A kom först. B kom sen.", output.Text)
		assert.Equal(t, []int{1, 0}, output.Order)
		assert.Equal(t, "exhaustive", output.Strategy)
		assert.InDelta(t, 0.2, output.Improvement, 1e-12)
		assert.Equal(t, 2, output.Evaluations)
		assert.Equal(t, "run-1", output.RunID)

		assert.Equal(t, "B kom sen. A kom först.", mockReorder.lastText)
		assert.Equal(t, domain.StrategyExhaustive, mockReorder.lastOpts.Strategy)
		assert.Nil(t, mockReorder.lastOpts.PinFirst)
		require.NotNil(t, mockReorder.lastOpts.PinLast)
		assert.True(t, *mockReorder.lastOpts.PinLast)
		assert.Equal(t, uint64(7), mockReorder.lastOpts.Seed)
	})

	t.Run("returns error on reorder failure", func(t *testing.T) {
		server, err := NewServer(&Ports{Reorder: &mockReorderService{err: errors.New("parse failed")}})
		require.NoError(t, err)

		_, _, err = server.handleReorder(ctx, nil, ReorderInput{Text: "x"})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "parse failed")
	})
}

func TestServer_handleScore(t *testing.T) {
	ctx := context.Background()
	report := &domain.ScoreReport{
		Breakdown: domain.ScoreBreakdown{
			LSAAdjacentMean:     0.8,
			ContentWordOverlap:  0.25,
			SyntacticSimilarity: 0.5,
		},
		Final:           0.3,
		HasAllPairs:     true,
		LSAAllPairsMean: 0.7,
		Lexical:         domain.LexicalGivenness{Text: 0.1, Skipped: 2},
		ReadingIndex:    0.45,
	}

	t.Run("returns scores by name", func(t *testing.T) {
		mockReorder := &mockReorderService{report: report}
		server, err := NewServer(&Ports{Reorder: mockReorder})
		require.NoError(t, err)

		_, output, err := server.handleScore(ctx, nil, ScoreInput{Text: "text"})

		require.NoError(t, err)
		assert.Equal(t, 0.3, output.Final)
		assert.Len(t, output.Scores, domain.ScoreCount)
		assert.Equal(t, 0.8, output.Scores["LSASS1"])
		assert.Equal(t, 0.25, output.Scores["CRFCWO1"])
		require.NotNil(t, output.AllPairs)
		assert.Equal(t, 0.7, output.AllPairs.Mean)
		assert.Nil(t, output.Frequency)
		assert.Equal(t, 2, output.Lexical.Skipped)
		assert.Equal(t, 0.45, output.ReadingIndex)
		assert.Nil(t, mockReorder.lastScore.Weights)
	})

	t.Run("passes weights", func(t *testing.T) {
		mockReorder := &mockReorderService{report: report}
		server, err := NewServer(&Ports{Reorder: mockReorder})
		require.NoError(t, err)

		input := ScoreInput{Text: "text", Weights: []float64{1, 0, 0, 0, 0, 2}}
		_, _, err = server.handleScore(ctx, nil, input)

		require.NoError(t, err)
		require.NotNil(t, mockReorder.lastScore.Weights)
		assert.Equal(t, domain.WeightVector{1, 0, 0, 0, 0, 2}, *mockReorder.lastScore.Weights)
	})

	t.Run("rejects wrong number of weights", func(t *testing.T) {
		server, err := NewServer(&Ports{Reorder: &mockReorderService{report: report}})
		require.NoError(t, err)

		_, _, err = server.handleScore(ctx, nil, ScoreInput{Text: "text", Weights: []float64{1, 2}})

		assert.ErrorIs(t, err, domain.ErrInvalidConfiguration)
	})

	t.Run("reports frequency when available", func(t *testing.T) {
		withFreq := *report
		withFreq.HasFrequency = true
		withFreq.WordFrequency = 6.5
		server, err := NewServer(&Ports{Reorder: &mockReorderService{report: &withFreq}})
		require.NoError(t, err)

		_, output, err := server.handleScore(ctx, nil, ScoreInput{Text: "text"})

		require.NoError(t, err)
		require.NotNil(t, output.Frequency)
		assert.Equal(t, 6.5, output.Frequency.MeanLog)
	})
}
