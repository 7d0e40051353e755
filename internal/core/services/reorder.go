package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/sentorder/internal/core/domain"
	"github.com/custodia-labs/sentorder/internal/core/ports/driven"
	"github.com/custodia-labs/sentorder/internal/core/ports/driving"
	"github.com/custodia-labs/sentorder/internal/embedcache"
	"github.com/custodia-labs/sentorder/internal/logger"
	"github.com/custodia-labs/sentorder/internal/scoring"
	"github.com/custodia-labs/sentorder/internal/search"
	"github.com/custodia-labs/sentorder/internal/telemetry"
)

// Ensure ReorderService implements the interface.
var _ driving.ReorderService = (*ReorderService)(nil)

// ReorderService parses, scores and reorders texts.
type ReorderService struct {
	parser      driven.Parser
	embedder    driven.EmbeddingService
	settings    driving.SettingsService
	embeddings  driven.EmbeddingStore
	runs        driven.RunStore
	frequencies driven.FrequencyTable
	recorder    driven.MetricsRecorder
	registry    *search.Registry
	now         func() time.Time
	newID       func() string

	mu     sync.Mutex
	shared *embedcache.Cache
}

// ReorderOption configures a ReorderService.
type ReorderOption func(*ReorderService)

// WithEmbeddingStore backs the persistent cache policy.
func WithEmbeddingStore(store driven.EmbeddingStore) ReorderOption {
	return func(s *ReorderService) {
		s.embeddings = store
	}
}

// WithRunStore records every reorder in history.
func WithRunStore(store driven.RunStore) ReorderOption {
	return func(s *ReorderService) {
		s.runs = store
	}
}

// WithFrequencyTable enables the word frequency measures in score reports.
func WithFrequencyTable(table driven.FrequencyTable) ReorderOption {
	return func(s *ReorderService) {
		s.frequencies = table
	}
}

// WithRecorder sends cache, evaluation and reorder metrics to r.
func WithRecorder(r driven.MetricsRecorder) ReorderOption {
	return func(s *ReorderService) {
		s.recorder = r
	}
}

// WithStrategies replaces the default strategy registry.
func WithStrategies(r *search.Registry) ReorderOption {
	return func(s *ReorderService) {
		s.registry = r
	}
}

// WithClock replaces time.Now for durations and run timestamps.
func WithClock(now func() time.Time) ReorderOption {
	return func(s *ReorderService) {
		s.now = now
	}
}

// WithIDGenerator replaces the random run ID generator.
func WithIDGenerator(newID func() string) ReorderOption {
	return func(s *ReorderService) {
		s.newID = newID
	}
}

// NewReorderService creates a reorder service. The parser is only needed
// by Reorder and Score; the *Document variants work without one.
func NewReorderService(
	parser driven.Parser,
	embedder driven.EmbeddingService,
	settings driving.SettingsService,
	opts ...ReorderOption,
) *ReorderService {
	s := &ReorderService{
		parser:   parser,
		embedder: embedder,
		settings: settings,
		recorder: telemetry.Nop{},
		registry: search.NewDefaultRegistry(),
		now:      time.Now,
		newID:    uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Reorder parses text and returns the best ordering found.
func (s *ReorderService) Reorder(
	ctx context.Context, text string, opts domain.ReorderOptions,
) (*domain.ReorderResult, error) {
	doc, err := s.parse(ctx, text)
	if err != nil {
		return nil, err
	}
	return s.ReorderDocument(ctx, doc, opts)
}

// ReorderDocument reorders an already parsed document. Pinned sentences
// stay in place and are always part of the scored text.
func (s *ReorderService) ReorderDocument(
	ctx context.Context, doc *domain.Document, opts domain.ReorderOptions,
) (*domain.ReorderResult, error) {
	logger.Section("Reorder")
	defer logger.Timed("reorder")()

	if doc == nil || len(doc.Sentences) == 0 {
		return nil, fmt.Errorf("empty document: %w", domain.ErrInvalidInput)
	}

	settings, err := s.settings.Get()
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}
	cfg, err := applyReorderOptions(settings.Reorder, opts)
	if err != nil {
		return nil, err
	}

	start := s.now()
	sentences := doc.Sentences
	lead, movable, tail := splitPinned(sentences, cfg.PinFirst, cfg.PinLast)
	logger.Debug("sentences: %d, movable: %d, pinned: %d/%d", len(sentences), len(movable), len(lead), len(tail))

	if len(movable) < 2 {
		logger.Info("fewer than two movable sentences, returning text unchanged")
		return &domain.ReorderResult{
			Strategy:  cfg.Strategy,
			Original:  cloneSentences(sentences),
			Reordered: cloneSentences(sentences),
			Duration:  s.now().Sub(start),
		}, nil
	}

	strategyName, strategyCfg := s.chooseStrategy(cfg, *settings, len(movable))
	strategy, err := s.registry.Build(string(strategyName), strategyCfg)
	if err != nil {
		return nil, fmt.Errorf("build %s strategy: %w", strategyName, err)
	}
	logger.Info("Strategy: %s", strategy.Name())

	scorer, err := scoring.New(s.cache(settings.Embedding.Cache),
		scoring.WithWeights(settings.Scoring.Weights),
		scoring.WithStructureType(settings.Scoring.StructureType),
		scoring.WithRecorder(s.recorder),
	)
	if err != nil {
		return nil, fmt.Errorf("create scorer: %w", err)
	}

	originalScore, err := scorer.ComputeFinalScore(ctx, sentences)
	if err != nil {
		return nil, fmt.Errorf("score original order: %w", err)
	}
	logger.Debug("original score: %.4f", originalScore)

	fitness := func(ctx context.Context, candidate []domain.Sentence) (float64, error) {
		return scorer.ComputeFinalScore(ctx, assemble(lead, candidate, tail))
	}
	res, err := strategy.Search(ctx, movable, fitness)
	if err != nil {
		return nil, fmt.Errorf("%s search: %w", strategy.Name(), err)
	}

	reordered := assemble(lead, res.Sentences, tail)
	if err := domain.ValidatePermutation(sentences, reordered); err != nil {
		return nil, fmt.Errorf("%s search returned a non-permutation: %w", strategy.Name(), err)
	}

	result := &domain.ReorderResult{
		Strategy:       strategyName,
		Original:       cloneSentences(sentences),
		Reordered:      reordered,
		OriginalScore:  originalScore,
		ReorderedScore: res.Score,
		Evaluations:    res.Evaluations,
		Duration:       s.now().Sub(start),
	}
	logger.Info("Score: %.4f -> %.4f after %d evaluations", result.OriginalScore, result.ReorderedScore, result.Evaluations)
	s.recorder.ReorderCompleted(strategyName.String(), len(sentences), result.Duration)

	s.saveRun(ctx, result)
	return result, nil
}

// Score parses text and scores it in its current order.
func (s *ReorderService) Score(
	ctx context.Context, text string, opts domain.ScoreOptions,
) (*domain.ScoreReport, error) {
	doc, err := s.parse(ctx, text)
	if err != nil {
		return nil, err
	}
	return s.ScoreDocument(ctx, doc, opts)
}

// ScoreDocument scores an already parsed document.
func (s *ReorderService) ScoreDocument(
	ctx context.Context, doc *domain.Document, opts domain.ScoreOptions,
) (*domain.ScoreReport, error) {
	logger.Section("Score")
	defer logger.Timed("score")()

	if doc == nil || len(doc.Sentences) == 0 {
		return nil, fmt.Errorf("empty document: %w", domain.ErrInvalidInput)
	}

	settings, err := s.settings.Get()
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}
	weights := settings.Scoring.Weights
	if opts.Weights != nil {
		weights = *opts.Weights
		logger.Debug("weights overridden: %v", weights)
	}

	scorerOpts := []scoring.Option{
		scoring.WithWeights(weights),
		scoring.WithStructureType(settings.Scoring.StructureType),
	}
	if s.frequencies != nil {
		scorerOpts = append(scorerOpts, scoring.WithFrequencyTable(s.frequencies))
	}
	scorer, err := scoring.New(s.cache(settings.Embedding.Cache), scorerOpts...)
	if err != nil {
		return nil, fmt.Errorf("create scorer: %w", err)
	}

	report, err := scorer.ComputeReport(ctx, doc.Sentences)
	if err != nil {
		return nil, err
	}
	logger.Info("Score: %.4f", report.Final)
	return report, nil
}

func (s *ReorderService) parse(ctx context.Context, text string) (*domain.Document, error) {
	if s.parser == nil {
		return nil, domain.ErrParserUnavailable
	}
	logger.Debug("parsing with %s", s.parser.Name())
	doc, err := s.parser.Parse(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("parse text: %w", err)
	}
	return doc, nil
}

// cache returns the embedding cache for policy. The request policy gets a
// fresh cache per call; the others share one for the life of the service.
func (s *ReorderService) cache(policy domain.CachePolicy) *embedcache.Cache {
	if policy == domain.CachePolicyRequest {
		return embedcache.New(s.embedder, embedcache.WithRecorder(s.recorder))
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.shared != nil {
		return s.shared
	}

	opts := []embedcache.Option{embedcache.WithRecorder(s.recorder)}
	if policy == domain.CachePolicyPersistent {
		if s.embeddings != nil {
			opts = append(opts, embedcache.WithStore(s.embeddings))
		} else {
			logger.Warn("persistent cache policy without an embedding store, keeping embeddings in memory only")
		}
	}
	s.shared = embedcache.New(s.embedder, opts...)
	return s.shared
}

// chooseStrategy resolves auto and builds the registry config.
func (s *ReorderService) chooseStrategy(
	cfg domain.ReorderSettings, settings domain.Settings, movable int,
) (domain.Strategy, map[string]any) {
	strategy := cfg.Strategy
	if strategy == domain.StrategyAuto {
		strategy = domain.StrategyAnnealing
		if movable < cfg.ExhaustiveThreshold {
			strategy = domain.StrategyExhaustive
		}
		logger.Debug("auto: %d movable sentences, threshold %d, using %s", movable, cfg.ExhaustiveThreshold, strategy)
	}

	return strategy, search.ConfigFromSettings(strategy, settings, cfg.Seed)
}

func (s *ReorderService) saveRun(ctx context.Context, result *domain.ReorderResult) {
	if s.runs == nil {
		return
	}
	id := s.newID()
	if err := s.runs.SaveRun(ctx, domain.NewRunRecord(id, result, s.now())); err != nil {
		logger.Warn("failed to save run history: %v", err)
		return
	}
	result.RunID = id
	logger.Debug("saved run %s", id)
}

// applyReorderOptions overlays per-call options on the configured settings.
func applyReorderOptions(cfg domain.ReorderSettings, opts domain.ReorderOptions) (domain.ReorderSettings, error) {
	if opts.Strategy != "" {
		if !opts.Strategy.IsValid() {
			return cfg, fmt.Errorf("unknown strategy %q: %w", opts.Strategy, domain.ErrInvalidConfiguration)
		}
		cfg.Strategy = opts.Strategy
	}
	if opts.PinFirst != nil {
		cfg.PinFirst = *opts.PinFirst
	}
	if opts.PinLast != nil {
		cfg.PinLast = *opts.PinLast
	}
	if opts.Seed != 0 {
		cfg.Seed = opts.Seed
	}
	return cfg, nil
}

// splitPinned separates pinned lead and tail sentences from the movable middle.
func splitPinned(sentences []domain.Sentence, pinFirst, pinLast bool) (lead, movable, tail []domain.Sentence) {
	start, end := 0, len(sentences)
	if pinFirst && end > start {
		start++
	}
	if pinLast && end > start {
		end--
	}
	return sentences[:start], sentences[start:end], sentences[end:]
}

func assemble(lead, middle, tail []domain.Sentence) []domain.Sentence {
	out := make([]domain.Sentence, 0, len(lead)+len(middle)+len(tail))
	out = append(out, lead...)
	out = append(out, middle...)
	return append(out, tail...)
}

func cloneSentences(sentences []domain.Sentence) []domain.Sentence {
	return append([]domain.Sentence(nil), sentences...)
}
