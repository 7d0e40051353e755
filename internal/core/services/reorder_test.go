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
	"github.com/custodia-labs/sentorder/internal/search"
)

// --- Mock implementations ---

// mockParser implements driven.Parser for testing.
type mockParser struct {
	doc   *domain.Document
	err   error
	calls int
}

func (m *mockParser) Parse(_ context.Context, _ string) (*domain.Document, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return m.doc, nil
}

func (m *mockParser) Name() string {
	return "mock"
}

// mockEmbedder implements driven.EmbeddingService with fixed vectors.
type mockEmbedder struct {
	vectors map[string][]float64
	err     error
	calls   map[string]int
}

func newMockEmbedder() *mockEmbedder {
	return &mockEmbedder{
		vectors: map[string][]float64{
			"Hunden skäller.":         {1, 0.2, 0},
			"Den skäller högt.":       {0.9, 0.3, 0.1},
			"Solen lyser.":            {0, 0.1, 1},
			"Den lyser starkt.":       {0.1, 0.2, 0.9},
			"Katten sover.":           {0.5, 0.8, 0.1},
			"Den sover länge.":        {0.4, 0.9, 0.2},
			"Hunden skäller på katt.": {0.8, 0.5, 0.1},
		},
		calls: make(map[string]int),
	}
}

func (m *mockEmbedder) Embed(_ context.Context, text string) ([]float64, error) {
	m.calls[text]++
	if m.err != nil {
		return nil, m.err
	}
	v, ok := m.vectors[text]
	if !ok {
		return nil, fmt.Errorf("no vector for %q", text)
	}
	return v, nil
}

func (m *mockEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float64, error) {
	out := make([][]float64, len(texts))
	for i, text := range texts {
		v, err := m.Embed(ctx, text)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func (m *mockEmbedder) Dimensions() int            { return 3 }
func (m *mockEmbedder) ModelName() string          { return "mock" }
func (m *mockEmbedder) Ping(context.Context) error { return nil }
func (m *mockEmbedder) Close() error               { return nil }

func (m *mockEmbedder) totalCalls() int {
	total := 0
	for _, n := range m.calls {
		total += n
	}
	return total
}

// mockRecorder implements driven.MetricsRecorder for testing.
type mockRecorder struct {
	hits, misses, evaluations int
	completed                 []string
}

func (m *mockRecorder) EmbeddingCacheHit()  { m.hits++ }
func (m *mockRecorder) EmbeddingCacheMiss() { m.misses++ }
func (m *mockRecorder) ScoreEvaluated()     { m.evaluations++ }

func (m *mockRecorder) ReorderCompleted(strategy string, _ int, _ time.Duration) {
	m.completed = append(m.completed, strategy)
}

// failingRunStore implements driven.RunStore and fails every write.
type failingRunStore struct {
	*memory.RunStore
}

func (failingRunStore) SaveRun(context.Context, domain.RunRecord) error {
	return errors.New("disk full")
}

type mapTable map[string]int

func (m mapTable) Frequency(lemma, upos string) int { return m[lemma+"/"+upos] }
func (m mapTable) Len() int                         { return len(m) }

// --- Fixtures ---

func word(lemma, upos string, head int, rel string) domain.Word {
	return domain.Word{Text: lemma, Lemma: lemma, UPOS: upos, Head: head, DepRel: rel}
}

func sentence(idx int, text string, words ...domain.Word) domain.Sentence {
	for i := range words {
		words[i].ID = i + 1
	}
	return domain.Sentence{Index: idx, Text: text, Words: words}
}

func testDocument(n int) *domain.Document {
	all := []domain.Sentence{
		sentence(0, "Hunden skäller.",
			word("hund", "NOUN", 2, "nsubj"), word("skälla", "VERB", 0, "root"), word(".", "PUNCT", 2, "punct")),
		sentence(1, "Solen lyser.",
			word("sol", "NOUN", 2, "nsubj"), word("lysa", "VERB", 0, "root"), word(".", "PUNCT", 2, "punct")),
		sentence(2, "Den skäller högt.",
			word("den", "PRON", 2, "nsubj"), word("skälla", "VERB", 0, "root"),
			word("högt", "ADV", 2, "advmod"), word(".", "PUNCT", 2, "punct")),
		sentence(3, "Katten sover.",
			word("katt", "NOUN", 2, "nsubj"), word("sova", "VERB", 0, "root"), word(".", "PUNCT", 2, "punct")),
		sentence(4, "Den lyser starkt.",
			word("den", "PRON", 2, "nsubj"), word("lysa", "VERB", 0, "root"),
			word("starkt", "ADV", 2, "advmod"), word(".", "PUNCT", 2, "punct")),
		sentence(5, "Den sover länge.",
			word("den", "PRON", 2, "nsubj"), word("sova", "VERB", 0, "root"),
			word("länge", "ADV", 2, "advmod"), word(".", "PUNCT", 2, "punct")),
	}
	return &domain.Document{Sentences: all[:n]}
}

func newTestReorderService(
	t *testing.T, embedder *mockEmbedder, settings map[string]string, opts ...ReorderOption,
) *ReorderService {
	t.Helper()
	settingsService := NewSettingsService(memory.NewConfigStore(), nil)
	for k, v := range settings {
		require.NoError(t, settingsService.Set(k, v))
	}
	return NewReorderService(&mockParser{doc: testDocument(5)}, embedder, settingsService, opts...)
}

func indices(sentences []domain.Sentence) []int {
	out := make([]int, len(sentences))
	for i, s := range sentences {
		out[i] = s.Index
	}
	return out
}

// --- Reorder ---

func TestReorderService_Reorder_AutoUsesExhaustiveBelowThreshold(t *testing.T) {
	embedder := newMockEmbedder()
	service := newTestReorderService(t, embedder, nil)

	result, err := service.Reorder(context.Background(), "text", domain.ReorderOptions{})

	require.NoError(t, err)
	assert.Equal(t, domain.StrategyExhaustive, result.Strategy)
	assert.Equal(t, 120, result.Evaluations)
	assert.ElementsMatch(t, []int{0, 1, 2, 3, 4}, indices(result.Reordered))
	assert.Equal(t, []int{0, 1, 2, 3, 4}, indices(result.Original))
	assert.GreaterOrEqual(t, result.ReorderedScore, result.OriginalScore)
	assert.Empty(t, result.RunID)
}

func TestReorderService_Reorder_AutoUsesAnnealingAtThreshold(t *testing.T) {
	service := newTestReorderService(t, newMockEmbedder(), map[string]string{
		"reorder.exhaustive_threshold": "5",
		"reorder.seed":                 "11",
	})

	result, err := service.Reorder(context.Background(), "text", domain.ReorderOptions{})

	require.NoError(t, err)
	assert.Equal(t, domain.StrategyAnnealing, result.Strategy)
	assert.ElementsMatch(t, []int{0, 1, 2, 3, 4}, indices(result.Reordered))
}

func TestReorderService_Reorder_ExhaustiveFindsMaximum(t *testing.T) {
	embedder := newMockEmbedder()
	service := newTestReorderService(t, embedder, nil)
	doc := testDocument(4)

	result, err := service.ReorderDocument(context.Background(), doc, domain.ReorderOptions{})
	require.NoError(t, err)

	// Every rotation of the input scores no higher than the result.
	for shift := range doc.Sentences {
		rotated := append(append([]domain.Sentence(nil), doc.Sentences[shift:]...), doc.Sentences[:shift]...)
		report, err := service.ScoreDocument(context.Background(), &domain.Document{Sentences: rotated},
			domain.ScoreOptions{})
		require.NoError(t, err)
		assert.LessOrEqual(t, report.Final, result.ReorderedScore+1e-9)
	}
}

func TestReorderService_Reorder_AllStrategiesPreserveSentences(t *testing.T) {
	for _, strategy := range domain.AllStrategies() {
		t.Run(strategy.String(), func(t *testing.T) {
			service := newTestReorderService(t, newMockEmbedder(), map[string]string{
				"reorder.seed":            "3",
				"genetic.generations":     "10",
				"genetic.population_size": "8",
				"genetic.elite_size":      "2",
			})

			result, err := service.ReorderDocument(context.Background(), testDocument(6),
				domain.ReorderOptions{Strategy: strategy})

			require.NoError(t, err)
			assert.NoError(t, domain.ValidatePermutation(result.Original, result.Reordered))
			assert.Greater(t, result.Evaluations, 0)
		})
	}
}

func TestReorderService_Reorder_SeedIsReproducible(t *testing.T) {
	opts := domain.ReorderOptions{Strategy: domain.StrategyAnnealing, Seed: 42}

	first, err := newTestReorderService(t, newMockEmbedder(), nil).
		ReorderDocument(context.Background(), testDocument(6), opts)
	require.NoError(t, err)
	second, err := newTestReorderService(t, newMockEmbedder(), nil).
		ReorderDocument(context.Background(), testDocument(6), opts)
	require.NoError(t, err)

	assert.Equal(t, indices(first.Reordered), indices(second.Reordered))
	assert.Equal(t, first.ReorderedScore, second.ReorderedScore)
}

func TestReorderService_Reorder_PinsFirstAndLast(t *testing.T) {
	service := newTestReorderService(t, newMockEmbedder(), nil)
	pin := true

	result, err := service.ReorderDocument(context.Background(), testDocument(5),
		domain.ReorderOptions{PinFirst: &pin, PinLast: &pin})

	require.NoError(t, err)
	order := indices(result.Reordered)
	assert.Equal(t, 0, order[0])
	assert.Equal(t, 4, order[4])
	assert.ElementsMatch(t, []int{1, 2, 3}, order[1:4])
	assert.Equal(t, 6, result.Evaluations)
}

func TestReorderService_Reorder_PinsFromSettings(t *testing.T) {
	service := newTestReorderService(t, newMockEmbedder(), map[string]string{"reorder.pin_last": "true"})

	result, err := service.ReorderDocument(context.Background(), testDocument(4), domain.ReorderOptions{})

	require.NoError(t, err)
	assert.Equal(t, 3, result.Reordered[3].Index)
	assert.Equal(t, 6, result.Evaluations)
}

func TestReorderService_Reorder_TrivialInputIsUnchanged(t *testing.T) {
	pin := true
	tests := []struct {
		name string
		n    int
		opts domain.ReorderOptions
	}{
		{"single sentence", 1, domain.ReorderOptions{}},
		{"two pinned", 2, domain.ReorderOptions{PinFirst: &pin}},
		{"three pinned both ends", 3, domain.ReorderOptions{PinFirst: &pin, PinLast: &pin}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			embedder := newMockEmbedder()
			runs := memory.NewRunStore()
			service := newTestReorderService(t, embedder, nil, WithRunStore(runs))

			result, err := service.ReorderDocument(context.Background(), testDocument(tt.n), tt.opts)

			require.NoError(t, err)
			assert.Equal(t, indices(result.Original), indices(result.Reordered))
			assert.Zero(t, result.OriginalScore)
			assert.Zero(t, result.Evaluations)
			assert.Zero(t, embedder.totalCalls())
			listed, err := runs.ListRuns(context.Background(), 0)
			require.NoError(t, err)
			assert.Empty(t, listed)
		})
	}
}

func TestReorderService_Reorder_Errors(t *testing.T) {
	ctx := context.Background()

	t.Run("invalid strategy", func(t *testing.T) {
		service := newTestReorderService(t, newMockEmbedder(), nil)
		_, err := service.Reorder(ctx, "text", domain.ReorderOptions{Strategy: "bogo"})
		assert.ErrorIs(t, err, domain.ErrInvalidConfiguration)
	})

	t.Run("empty document", func(t *testing.T) {
		service := newTestReorderService(t, newMockEmbedder(), nil)
		_, err := service.ReorderDocument(ctx, &domain.Document{}, domain.ReorderOptions{})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("no parser", func(t *testing.T) {
		service := NewReorderService(nil, newMockEmbedder(), NewSettingsService(memory.NewConfigStore(), nil))
		_, err := service.Reorder(ctx, "text", domain.ReorderOptions{})
		assert.ErrorIs(t, err, domain.ErrParserUnavailable)
	})

	t.Run("parser failure", func(t *testing.T) {
		parser := &mockParser{err: domain.ErrInvalidInput}
		service := NewReorderService(parser, newMockEmbedder(), NewSettingsService(memory.NewConfigStore(), nil))
		_, err := service.Reorder(ctx, "text", domain.ReorderOptions{})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
		assert.Equal(t, 1, parser.calls)
	})

	t.Run("embedding failure", func(t *testing.T) {
		embedder := newMockEmbedder()
		embedder.err = domain.ErrEmbeddingUnavailable
		service := newTestReorderService(t, embedder, nil)
		_, err := service.Reorder(ctx, "text", domain.ReorderOptions{})
		assert.ErrorIs(t, err, domain.ErrEmbeddingUnavailable)
	})

	t.Run("missing annotation", func(t *testing.T) {
		doc := testDocument(3)
		doc.Sentences[1].Words[0].DepRel = ""
		service := newTestReorderService(t, newMockEmbedder(), nil)
		_, err := service.ReorderDocument(ctx, doc, domain.ReorderOptions{})
		assert.ErrorIs(t, err, domain.ErrMissingAnnotation)
	})

	t.Run("exhaustive over limit", func(t *testing.T) {
		registry := search.NewRegistry()
		registry.Register("exhaustive", func(map[string]any) (search.Strategy, error) {
			return &search.Exhaustive{MaxSentences: 3}, nil
		})
		service := newTestReorderService(t, newMockEmbedder(), nil, WithStrategies(registry))
		_, err := service.ReorderDocument(ctx, testDocument(4), domain.ReorderOptions{Strategy: domain.StrategyExhaustive})
		assert.ErrorIs(t, err, domain.ErrInvalidConfiguration)
	})
}

func TestReorderService_Reorder_UnregisteredStrategy(t *testing.T) {
	service := newTestReorderService(t, newMockEmbedder(), nil, WithStrategies(search.NewRegistry()))

	_, err := service.ReorderDocument(context.Background(), testDocument(3), domain.ReorderOptions{})

	assert.ErrorIs(t, err, domain.ErrUnsupportedType)
}

func TestReorderService_Reorder_SavesRun(t *testing.T) {
	runs := memory.NewRunStore()
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	service := newTestReorderService(t, newMockEmbedder(), nil,
		WithRunStore(runs),
		WithClock(func() time.Time { return at }),
		WithIDGenerator(func() string { return "run-1" }),
	)

	result, err := service.Reorder(context.Background(), "text", domain.ReorderOptions{})
	require.NoError(t, err)
	assert.Equal(t, "run-1", result.RunID)

	saved, err := runs.GetRun(context.Background(), "run-1")
	require.NoError(t, err)
	assert.Equal(t, domain.StrategyExhaustive, saved.Strategy)
	assert.Equal(t, 5, saved.SentenceCount)
	assert.Equal(t, result.Order(), saved.Order)
	assert.Equal(t, result.Text(), saved.ReorderedText)
	assert.Equal(t, result.OriginalScore, saved.OriginalScore)
	assert.Equal(t, at, saved.CreatedAt)
}

func TestReorderService_Reorder_RunStoreFailureIsNotFatal(t *testing.T) {
	service := newTestReorderService(t, newMockEmbedder(), nil,
		WithRunStore(failingRunStore{memory.NewRunStore()}))

	result, err := service.Reorder(context.Background(), "text", domain.ReorderOptions{})

	require.NoError(t, err)
	assert.Empty(t, result.RunID)
}

func TestReorderService_Reorder_RecordsMetrics(t *testing.T) {
	recorder := &mockRecorder{}
	service := newTestReorderService(t, newMockEmbedder(), nil, WithRecorder(recorder))

	result, err := service.ReorderDocument(context.Background(), testDocument(3), domain.ReorderOptions{})

	require.NoError(t, err)
	assert.Equal(t, []string{"exhaustive"}, recorder.completed)
	assert.Equal(t, 3, recorder.misses)
	assert.Positive(t, recorder.hits)
	// One evaluation for the original order plus one per permutation.
	assert.Equal(t, result.Evaluations+1, recorder.evaluations)
}

// --- Cache policies ---

func TestReorderService_CachePolicyRequest(t *testing.T) {
	embedder := newMockEmbedder()
	service := newTestReorderService(t, embedder, nil)

	for range 2 {
		_, err := service.ReorderDocument(context.Background(), testDocument(4), domain.ReorderOptions{})
		require.NoError(t, err)
	}

	// Each distinct sentence is embedded once per call.
	for _, text := range testDocument(4).Texts() {
		assert.Equal(t, 2, embedder.calls[text], text)
	}
}

func TestReorderService_CachePolicyProcess(t *testing.T) {
	embedder := newMockEmbedder()
	service := newTestReorderService(t, embedder, map[string]string{"cache.policy": "process"})

	for range 2 {
		_, err := service.ReorderDocument(context.Background(), testDocument(4), domain.ReorderOptions{})
		require.NoError(t, err)
	}

	for _, text := range testDocument(4).Texts() {
		assert.Equal(t, 1, embedder.calls[text], text)
	}
}

func TestReorderService_CachePolicyPersistent(t *testing.T) {
	store := memory.NewEmbeddingStore()
	ctx := context.Background()

	first := newTestReorderService(t, newMockEmbedder(), map[string]string{"cache.policy": "persistent"},
		WithEmbeddingStore(store))
	_, err := first.ReorderDocument(ctx, testDocument(4), domain.ReorderOptions{})
	require.NoError(t, err)

	count, err := store.CountEmbeddings(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, count)

	// A new service reads vectors back from the store.
	embedder := newMockEmbedder()
	second := newTestReorderService(t, embedder, map[string]string{"cache.policy": "persistent"},
		WithEmbeddingStore(store))
	_, err = second.ReorderDocument(ctx, testDocument(4), domain.ReorderOptions{})
	require.NoError(t, err)
	assert.Zero(t, embedder.totalCalls())
}

func TestReorderService_CachePolicyPersistentWithoutStore(t *testing.T) {
	embedder := newMockEmbedder()
	service := newTestReorderService(t, embedder, map[string]string{"cache.policy": "persistent"})

	_, err := service.ReorderDocument(context.Background(), testDocument(3), domain.ReorderOptions{})

	require.NoError(t, err)
	assert.Equal(t, 3, embedder.totalCalls())
}

// --- Score ---

func TestReorderService_Score(t *testing.T) {
	service := newTestReorderService(t, newMockEmbedder(), nil)

	report, err := service.Score(context.Background(), "text", domain.ScoreOptions{})

	require.NoError(t, err)
	assert.InDelta(t, 0.5, report.Final, 0.5)
	assert.True(t, report.HasAllPairs)
	assert.False(t, report.HasFrequency)
}

func TestReorderService_Score_MatchesReorderOriginalScore(t *testing.T) {
	service := newTestReorderService(t, newMockEmbedder(), nil)

	report, err := service.ScoreDocument(context.Background(), testDocument(4), domain.ScoreOptions{})
	require.NoError(t, err)
	result, err := service.ReorderDocument(context.Background(), testDocument(4), domain.ReorderOptions{})
	require.NoError(t, err)

	assert.InDelta(t, result.OriginalScore, report.Final, 1e-12)
}

func TestReorderService_Score_WeightsOverride(t *testing.T) {
	service := newTestReorderService(t, newMockEmbedder(), nil)
	ctx := context.Background()

	onlyOverlap := domain.WeightVector{0, 0, 0, 0, 0, 1}
	report, err := service.ScoreDocument(ctx, testDocument(3), domain.ScoreOptions{Weights: &onlyOverlap})
	require.NoError(t, err)
	assert.Equal(t, report.Breakdown.ContentWordOverlap, report.Final)

	zero := domain.WeightVector{}
	_, err = service.ScoreDocument(ctx, testDocument(3), domain.ScoreOptions{Weights: &zero})
	assert.ErrorIs(t, err, domain.ErrInvalidConfiguration)
}

func TestReorderService_Score_WithFrequencyTable(t *testing.T) {
	table := mapTable{"hund/NOUN": 100, "skälla/VERB": 20, "sol/NOUN": 50, "lysa/VERB": 10}
	service := newTestReorderService(t, newMockEmbedder(), nil, WithFrequencyTable(table))

	report, err := service.ScoreDocument(context.Background(), testDocument(3), domain.ScoreOptions{})

	require.NoError(t, err)
	assert.True(t, report.HasFrequency)
	assert.Positive(t, report.WordFrequency)
}

func TestReorderService_Score_EmptyDocument(t *testing.T) {
	service := newTestReorderService(t, newMockEmbedder(), nil)

	_, err := service.ScoreDocument(context.Background(), nil, domain.ScoreOptions{})

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// --- Helpers ---

func TestSplitPinned(t *testing.T) {
	doc := testDocument(4)

	lead, movable, tail := splitPinned(doc.Sentences, true, true)
	assert.Equal(t, []int{0}, indices(lead))
	assert.Equal(t, []int{1, 2}, indices(movable))
	assert.Equal(t, []int{3}, indices(tail))

	lead, movable, tail = splitPinned(doc.Sentences[:1], true, true)
	assert.Len(t, lead, 1)
	assert.Empty(t, movable)
	assert.Empty(t, tail)

	lead, movable, tail = splitPinned(doc.Sentences, false, false)
	assert.Empty(t, lead)
	assert.Len(t, movable, 4)
	assert.Empty(t, tail)
}

func TestApplyReorderOptions(t *testing.T) {
	base := domain.DefaultSettings().Reorder
	base.Seed = 5
	off := false

	cfg, err := applyReorderOptions(base, domain.ReorderOptions{})
	require.NoError(t, err)
	assert.Equal(t, base, cfg)

	base.PinFirst = true
	cfg, err = applyReorderOptions(base, domain.ReorderOptions{
		Strategy: domain.StrategyGenetic,
		PinFirst: &off,
		Seed:     9,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.StrategyGenetic, cfg.Strategy)
	assert.False(t, cfg.PinFirst)
	assert.Equal(t, uint64(9), cfg.Seed)
}
