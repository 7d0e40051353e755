package search

import (
	"fmt"
	"sort"

	"github.com/custodia-labs/sentorder/internal/core/domain"
)

// BuilderFunc creates a Strategy from generic config.
// Config is a map of strategy-specific settings parsed from user config.
type BuilderFunc func(cfg map[string]any) (Strategy, error)

// Registry maps strategy names to their builders.
// It allows dynamic construction of strategies from configuration.
type Registry struct {
	builders map[string]BuilderFunc
}

// NewRegistry creates a new strategy registry.
func NewRegistry() *Registry {
	return &Registry{
		builders: make(map[string]BuilderFunc),
	}
}

// Register adds a strategy builder to the registry.
// Name should be unique and match the strategy's Name() return value.
func (r *Registry) Register(name string, builder BuilderFunc) {
	r.builders[name] = builder
}

// Build creates a strategy by name with the given config.
// Returns error if the strategy name is not registered.
func (r *Registry) Build(name string, cfg map[string]any) (Strategy, error) {
	builder, ok := r.builders[name]
	if !ok {
		return nil, fmt.Errorf("unknown strategy %q: %w", name, domain.ErrUnsupportedType)
	}
	return builder(cfg)
}

// Has returns true if a strategy with the given name is registered.
func (r *Registry) Has(name string) bool {
	_, ok := r.builders[name]
	return ok
}

// Names returns all registered strategy names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.builders))
	for name := range r.builders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// NewDefaultRegistry returns a registry with every built-in strategy.
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	RegisterDefaults(r)
	return r
}

// RegisterDefaults registers all built-in strategies with the registry.
func RegisterDefaults(r *Registry) {
	r.Register(string(domain.StrategyExhaustive), buildExhaustive)
	r.Register(string(domain.StrategyAnnealing), buildAnnealing)
	r.Register(string(domain.StrategyGenetic), buildGenetic)
}

// buildExhaustive supports:
//   - max_sentences (int): size guard (default: 10)
func buildExhaustive(cfg map[string]any) (Strategy, error) {
	s := NewExhaustive()
	if v, ok := getInt(cfg, "max_sentences"); ok {
		s.MaxSentences = v
	}
	return s, nil
}

// buildAnnealing supports:
//   - initial_temp, cooling_factor, min_temp (float)
//   - temp_length (int): moves per temperature, 0 for n squared
//   - seed (int)
func buildAnnealing(cfg map[string]any) (Strategy, error) {
	s := NewAnnealing()
	if v, ok := getFloat(cfg, "initial_temp"); ok && v > 0 {
		s.InitialTemp = v
	}
	if v, ok := getFloat(cfg, "cooling_factor"); ok && v > 0 {
		s.CoolingFactor = v
	}
	if v, ok := getFloat(cfg, "min_temp"); ok && v > 0 {
		s.MinTemp = v
	}
	if v, ok := getInt(cfg, "temp_length"); ok {
		s.TempLength = v
	}
	if v, ok := getInt(cfg, "seed"); ok {
		s.Seed = uint64(v)
	}
	return s, s.validate()
}

// buildGenetic supports:
//   - generations, population_size, elite_size (int)
//   - crossover_rate, mutation_rate (float)
//   - seed (int)
func buildGenetic(cfg map[string]any) (Strategy, error) {
	s := NewGenetic()
	if v, ok := getInt(cfg, "generations"); ok && v > 0 {
		s.Generations = v
	}
	if v, ok := getInt(cfg, "population_size"); ok && v > 0 {
		s.PopulationSize = v
	}
	if v, ok := getInt(cfg, "elite_size"); ok && v > 0 {
		s.EliteSize = v
	}
	if v, ok := getFloat(cfg, "crossover_rate"); ok {
		s.CrossoverRate = v
	}
	if v, ok := getFloat(cfg, "mutation_rate"); ok {
		s.MutationRate = v
	}
	if v, ok := getInt(cfg, "seed"); ok {
		s.Seed = uint64(v)
	}
	return s, s.validate()
}

// ConfigFromSettings builds the builder config for strategy from settings.
func ConfigFromSettings(strategy domain.Strategy, settings domain.Settings, seed uint64) map[string]any {
	cfg := map[string]any{"seed": seed}
	switch strategy {
	case domain.StrategyAnnealing:
		cfg["initial_temp"] = settings.Annealing.InitialTemp
		cfg["cooling_factor"] = settings.Annealing.CoolingFactor
		cfg["min_temp"] = settings.Annealing.MinTemp
		cfg["temp_length"] = settings.Annealing.TempLength
	case domain.StrategyGenetic:
		cfg["generations"] = settings.Genetic.Generations
		cfg["population_size"] = settings.Genetic.PopulationSize
		cfg["elite_size"] = settings.Genetic.EliteSize
		cfg["crossover_rate"] = settings.Genetic.CrossoverRate
		cfg["mutation_rate"] = settings.Genetic.MutationRate
	}
	return cfg
}

// getInt safely extracts an int from generic config map.
// Handles int, int64, uint64 and float64 types that may come from TOML/JSON parsing.
func getInt(cfg map[string]any, key string) (int, bool) {
	val, ok := cfg[key]
	if !ok {
		return 0, false
	}
	switch v := val.(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case uint64:
		return int(v), true
	case float64:
		return int(v), true
	default:
		return 0, false
	}
}

// getFloat safely extracts a float64 from generic config map.
func getFloat(cfg map[string]any, key string) (float64, bool) {
	val, ok := cfg[key]
	if !ok {
		return 0, false
	}
	switch v := val.(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	default:
		return 0, false
	}
}
