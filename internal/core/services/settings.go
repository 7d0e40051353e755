package services

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/custodia-labs/sentorder/internal/core/domain"
	"github.com/custodia-labs/sentorder/internal/core/ports/driven"
	"github.com/custodia-labs/sentorder/internal/core/ports/driving"
	"github.com/custodia-labs/sentorder/internal/logger"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	keyWeights             = "scoring.weights"
	keyStructureType       = "scoring.structure_type"
	keyStrategy            = "reorder.strategy"
	keyExhaustiveThreshold = "reorder.exhaustive_threshold"
	keyPinFirst            = "reorder.pin_first"
	keyPinLast             = "reorder.pin_last"
	keySeed                = "reorder.seed"
	keyInitialTemp         = "annealing.initial_temp"
	keyCoolingFactor       = "annealing.cooling_factor"
	keyMinTemp             = "annealing.min_temp"
	keyTempLength          = "annealing.temp_length"
	keyGenerations         = "genetic.generations"
	keyPopulationSize      = "genetic.population_size"
	keyCrossoverRate       = "genetic.crossover_rate"
	keyMutationRate        = "genetic.mutation_rate"
	keyEliteSize           = "genetic.elite_size"
	keyEmbedProvider       = "embedding.provider"
	keyEmbedModel          = "embedding.model"
	keyEmbedBaseURL        = "embedding.base_url"
	keyEmbedAPIKey         = "embedding.api_key"
	keyEmbedRPS            = "embedding.requests_per_second"
	keyCachePolicy         = "cache.policy"
	keyParserURL           = "parser.url"
	keyParserModel         = "parser.model"
	keyFrequencyPath       = "frequency.path"
)

// valueKind describes how Set parses a textual value.
type valueKind int

const (
	kindString valueKind = iota
	kindInt
	kindFloat
	kindBool
	kindSeed
	kindThreshold
	kindWeights
	kindStrategy
	kindStructure
	kindProvider
	kindCachePolicy
)

var settingKinds = map[string]valueKind{
	keyWeights:             kindWeights,
	keyStructureType:       kindStructure,
	keyStrategy:            kindStrategy,
	keyExhaustiveThreshold: kindThreshold,
	keyPinFirst:            kindBool,
	keyPinLast:             kindBool,
	keySeed:                kindSeed,
	keyInitialTemp:         kindFloat,
	keyCoolingFactor:       kindFloat,
	keyMinTemp:             kindFloat,
	keyTempLength:          kindInt,
	keyGenerations:         kindInt,
	keyPopulationSize:      kindInt,
	keyCrossoverRate:       kindFloat,
	keyMutationRate:        kindFloat,
	keyEliteSize:           kindInt,
	keyEmbedProvider:       kindProvider,
	keyEmbedModel:          kindString,
	keyEmbedBaseURL:        kindString,
	keyEmbedAPIKey:         kindString,
	keyEmbedRPS:            kindFloat,
	keyCachePolicy:         kindCachePolicy,
	keyParserURL:           kindString,
	keyParserModel:         kindString,
	keyFrequencyPath:       kindString,
}

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
	aiValidator driven.AIConfigValidator
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore, aiValidator driven.AIConfigValidator) *SettingsService {
	return &SettingsService{
		configStore: configStore,
		aiValidator: aiValidator,
	}
}

// Get retrieves current application settings. Missing or invalid stored
// values fall back to defaults.
func (s *SettingsService) Get() (*domain.Settings, error) {
	defaults := domain.DefaultSettings()

	settings := &domain.Settings{
		Scoring: domain.ScoringSettings{
			Weights:       s.getWeights(defaults.Scoring.Weights),
			StructureType: s.getStructureType(defaults.Scoring.StructureType),
		},
		Reorder: domain.ReorderSettings{
			Strategy:            s.getStrategy(defaults.Reorder.Strategy),
			ExhaustiveThreshold: s.getThreshold(defaults.Reorder.ExhaustiveThreshold),
			PinFirst:            s.getBool(keyPinFirst, defaults.Reorder.PinFirst),
			PinLast:             s.getBool(keyPinLast, defaults.Reorder.PinLast),
			Seed:                uint64(max(s.configStore.GetInt(keySeed), 0)),
		},
		Annealing: domain.AnnealingSettings{
			InitialTemp:   s.getFloat(keyInitialTemp, defaults.Annealing.InitialTemp),
			CoolingFactor: s.getFloat(keyCoolingFactor, defaults.Annealing.CoolingFactor),
			MinTemp:       s.getFloat(keyMinTemp, defaults.Annealing.MinTemp),
			TempLength:    s.getInt(keyTempLength, defaults.Annealing.TempLength),
		},
		Genetic: domain.GeneticSettings{
			Generations:    s.getInt(keyGenerations, defaults.Genetic.Generations),
			PopulationSize: s.getInt(keyPopulationSize, defaults.Genetic.PopulationSize),
			CrossoverRate:  s.getFloat(keyCrossoverRate, defaults.Genetic.CrossoverRate),
			MutationRate:   s.getFloat(keyMutationRate, defaults.Genetic.MutationRate),
			EliteSize:      s.getInt(keyEliteSize, defaults.Genetic.EliteSize),
		},
		Embedding: domain.EmbeddingSettings{
			Provider:          s.getProvider(defaults.Embedding.Provider),
			BaseURL:           s.configStore.GetString(keyEmbedBaseURL), // No default - empty is valid for cloud providers
			APIKey:            s.configStore.GetString(keyEmbedAPIKey),
			RequestsPerSecond: s.getFloat(keyEmbedRPS, defaults.Embedding.RequestsPerSecond),
			Cache:             s.getCachePolicy(defaults.Embedding.Cache),
		},
		Parser: domain.ParserSettings{
			URL:   s.configStore.GetString(keyParserURL),
			Model: s.configStore.GetString(keyParserModel),
		},
		Frequency: domain.FrequencySettings{
			Path: s.configStore.GetString(keyFrequencyPath),
		},
	}
	settings.Embedding.Model = s.getString(keyEmbedModel, domain.DefaultEmbeddingModels()[settings.Embedding.Provider])

	return settings, nil
}

// Save persists application settings.
func (s *SettingsService) Save(settings *domain.Settings) error {
	values := []struct {
		key   string
		value any
	}{
		{keyWeights, append([]float64(nil), settings.Scoring.Weights[:]...)},
		{keyStructureType, settings.Scoring.StructureType.String()},
		{keyStrategy, settings.Reorder.Strategy.String()},
		{keyExhaustiveThreshold, settings.Reorder.ExhaustiveThreshold},
		{keyPinFirst, settings.Reorder.PinFirst},
		{keyPinLast, settings.Reorder.PinLast},
		{keySeed, int64(min(settings.Reorder.Seed, math.MaxInt64))},
		{keyInitialTemp, settings.Annealing.InitialTemp},
		{keyCoolingFactor, settings.Annealing.CoolingFactor},
		{keyMinTemp, settings.Annealing.MinTemp},
		{keyTempLength, settings.Annealing.TempLength},
		{keyGenerations, settings.Genetic.Generations},
		{keyPopulationSize, settings.Genetic.PopulationSize},
		{keyCrossoverRate, settings.Genetic.CrossoverRate},
		{keyMutationRate, settings.Genetic.MutationRate},
		{keyEliteSize, settings.Genetic.EliteSize},
		{keyEmbedProvider, settings.Embedding.Provider.String()},
		{keyEmbedModel, settings.Embedding.Model},
		{keyEmbedBaseURL, settings.Embedding.BaseURL},
		{keyEmbedRPS, settings.Embedding.RequestsPerSecond},
		{keyCachePolicy, settings.Embedding.Cache.String()},
		{keyParserURL, settings.Parser.URL},
		{keyParserModel, settings.Parser.Model},
		{keyFrequencyPath, settings.Frequency.Path},
	}
	if settings.Embedding.APIKey != "" {
		values = append(values, struct {
			key   string
			value any
		}{keyEmbedAPIKey, settings.Embedding.APIKey})
	}

	for _, v := range values {
		if err := s.configStore.Set(v.key, v.value); err != nil {
			return fmt.Errorf("save %s: %w", v.key, err)
		}
	}
	return nil
}

// Set parses value according to key and stores it.
func (s *SettingsService) Set(key, value string) error {
	kind, ok := settingKinds[key]
	if !ok {
		return fmt.Errorf("unknown setting %q: %w", key, domain.ErrInvalidConfiguration)
	}

	parsed, err := parseValue(kind, strings.TrimSpace(value))
	if err != nil {
		return fmt.Errorf("invalid value for %s: %w", key, err)
	}

	if err := s.configStore.Set(key, parsed); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	logger.Debug("setting %s updated", key)
	return nil
}

// Keys returns every settable key, sorted.
func (s *SettingsService) Keys() []string {
	keys := make([]string, 0, len(settingKinds))
	for k := range settingKinds {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// SetEmbeddingProvider configures the embedding provider.
func (s *SettingsService) SetEmbeddingProvider(provider domain.AIProvider, model, apiKey string) error {
	if !provider.IsValid() {
		return fmt.Errorf("invalid embedding provider: %s", provider)
	}

	if provider.RequiresAPIKey() && apiKey == "" {
		return fmt.Errorf("API key required for %s", provider)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}

	settings.Embedding.Provider = provider

	if model != "" {
		settings.Embedding.Model = model
	} else {
		settings.Embedding.Model = domain.DefaultEmbeddingModels()[provider]
	}

	switch provider {
	case domain.AIProviderOllama:
		if settings.Embedding.BaseURL == "" {
			settings.Embedding.BaseURL = "http://localhost:11434"
		}
	default:
		settings.Embedding.BaseURL = ""
	}

	settings.Embedding.APIKey = apiKey

	return s.Save(settings)
}

// Validate checks that current settings can produce a score.
func (s *SettingsService) Validate() error {
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return ValidateSettings(settings)
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.Settings {
	return domain.DefaultSettings()
}

// ValidateEmbeddingConfig validates the current embedding configuration by pinging the provider.
func (s *SettingsService) ValidateEmbeddingConfig() error {
	if s.aiValidator == nil {
		return nil
	}
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return s.aiValidator.ValidateEmbedding(&settings.Embedding)
}

// ValidateSettings checks settings for values no component can run with.
func ValidateSettings(settings *domain.Settings) error {
	if err := settings.Scoring.Weights.Validate(); err != nil {
		return err
	}
	checks := []struct {
		ok  bool
		msg string
	}{
		{settings.Scoring.StructureType.IsValid(), "unknown structure type " + settings.Scoring.StructureType.String()},
		{settings.Reorder.Strategy.IsValid(), "unknown strategy " + settings.Reorder.Strategy.String()},
		{validThreshold(settings.Reorder.ExhaustiveThreshold), fmt.Sprintf("exhaustive threshold must be between 1 and %d", domain.MaxExhaustiveThreshold)},
		{settings.Annealing.InitialTemp > settings.Annealing.MinTemp, "annealing initial_temp must exceed min_temp"},
		{settings.Annealing.MinTemp > 0, "annealing min_temp must be positive"},
		{settings.Annealing.CoolingFactor > 0 && settings.Annealing.CoolingFactor < 1, "annealing cooling_factor must be in (0, 1)"},
		{settings.Annealing.TempLength >= 0, "annealing temp_length must not be negative"},
		{settings.Genetic.Generations >= 1, "genetic generations must be at least 1"},
		{settings.Genetic.PopulationSize >= 2, "genetic population_size must be at least 2"},
		{settings.Genetic.EliteSize >= 1, "genetic elite_size must be at least 1"},
		{inUnit(settings.Genetic.CrossoverRate), "genetic crossover_rate must be in [0, 1]"},
		{inUnit(settings.Genetic.MutationRate), "genetic mutation_rate must be in [0, 1]"},
		{settings.Embedding.Cache.IsValid(), "unknown cache policy " + settings.Embedding.Cache.String()},
		{settings.Embedding.RequestsPerSecond >= 0, "embedding requests_per_second must not be negative"},
		{settings.Embedding.IsConfigured(), "embedding provider " + settings.Embedding.Provider.String() + " is not configured"},
	}
	for _, c := range checks {
		if !c.ok {
			return fmt.Errorf("%s: %w", c.msg, domain.ErrInvalidConfiguration)
		}
	}
	return nil
}

func inUnit(v float64) bool {
	return v >= 0 && v <= 1
}

func parseValue(kind valueKind, value string) (any, error) {
	switch kind {
	case kindInt:
		return strconv.Atoi(value)
	case kindFloat:
		return strconv.ParseFloat(value, 64)
	case kindBool:
		return strconv.ParseBool(value)
	case kindSeed:
		seed, err := strconv.ParseUint(value, 10, 63)
		if err != nil {
			return nil, err
		}
		return int64(seed), nil
	case kindThreshold:
		v, err := strconv.Atoi(value)
		if err != nil {
			return nil, err
		}
		if validThreshold(v) {
			return v, nil
		}
	case kindWeights:
		w, err := ParseWeights(value)
		if err != nil {
			return nil, err
		}
		return w[:], nil
	case kindStrategy:
		if v := domain.Strategy(value); v.IsValid() {
			return value, nil
		}
	case kindStructure:
		if v := domain.StructureType(value); v.IsValid() {
			return value, nil
		}
	case kindProvider:
		if v := domain.AIProvider(value); v.IsValid() {
			return value, nil
		}
	case kindCachePolicy:
		if v := domain.CachePolicy(value); v.IsValid() {
			return value, nil
		}
	default:
		return value, nil
	}
	return nil, fmt.Errorf("unrecognised value %q: %w", value, domain.ErrInvalidConfiguration)
}

// ParseWeights reads a comma-separated list of six weights.
func ParseWeights(value string) (domain.WeightVector, error) {
	parts := strings.Split(value, ",")
	values := make([]float64, 0, len(parts))
	for _, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return domain.WeightVector{}, fmt.Errorf("weight %q: %w", p, domain.ErrInvalidConfiguration)
		}
		values = append(values, v)
	}
	w, err := domain.WeightsFromSlice(values)
	if err != nil {
		return w, err
	}
	return w, w.Validate()
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	val := s.configStore.GetInt(key)
	if val == 0 {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getFloat(key string, defaultVal float64) float64 {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetFloat(key)
}

func (s *SettingsService) getBool(key string, defaultVal bool) bool {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetBool(key)
}

func (s *SettingsService) getThreshold(defaultVal int) int {
	v := s.getInt(keyExhaustiveThreshold, defaultVal)
	if !validThreshold(v) {
		logger.Warn("ignoring %s: %d is outside 1..%d", keyExhaustiveThreshold, v, domain.MaxExhaustiveThreshold)
		return defaultVal
	}
	return v
}

func validThreshold(v int) bool {
	return v >= 1 && v <= domain.MaxExhaustiveThreshold
}

func (s *SettingsService) getWeights(defaultVal domain.WeightVector) domain.WeightVector {
	values := s.configStore.GetFloatSlice(keyWeights)
	if values == nil {
		return defaultVal
	}
	w, err := domain.WeightsFromSlice(values)
	if err == nil {
		err = w.Validate()
	}
	if err != nil {
		logger.Warn("ignoring %s: %v", keyWeights, err)
		return defaultVal
	}
	return w
}

func (s *SettingsService) getStrategy(defaultVal domain.Strategy) domain.Strategy {
	v := domain.Strategy(s.configStore.GetString(keyStrategy))
	if !v.IsValid() {
		return defaultVal
	}
	return v
}

func (s *SettingsService) getStructureType(defaultVal domain.StructureType) domain.StructureType {
	v := domain.StructureType(s.configStore.GetString(keyStructureType))
	if !v.IsValid() {
		return defaultVal
	}
	return v
}

func (s *SettingsService) getProvider(defaultVal domain.AIProvider) domain.AIProvider {
	v := domain.AIProvider(s.configStore.GetString(keyEmbedProvider))
	if !v.IsValid() {
		return defaultVal
	}
	return v
}

func (s *SettingsService) getCachePolicy(defaultVal domain.CachePolicy) domain.CachePolicy {
	v := domain.CachePolicy(s.configStore.GetString(keyCachePolicy))
	if !v.IsValid() {
		return defaultVal
	}
	return v
}
