package domain

const unknownDescription = "Unknown"

// Strategy selects the reordering search algorithm.
type Strategy string

// Available strategies.
const (
	// StrategyAuto uses exhaustive search for short texts and annealing otherwise.
	StrategyAuto Strategy = "auto"

	// StrategyExhaustive scores every permutation.
	StrategyExhaustive Strategy = "exhaustive"

	// StrategyAnnealing runs simulated annealing over swap moves.
	StrategyAnnealing Strategy = "annealing"

	// StrategyGenetic runs a genetic algorithm with order crossover.
	StrategyGenetic Strategy = "genetic"
)

// IsValid returns true if the strategy is recognised.
func (s Strategy) IsValid() bool {
	switch s {
	case StrategyAuto, StrategyExhaustive, StrategyAnnealing, StrategyGenetic:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (s Strategy) String() string {
	return string(s)
}

// Description returns a human-readable description of the strategy.
func (s Strategy) Description() string {
	switch s {
	case StrategyAuto:
		return "Auto (exhaustive for short texts, annealing otherwise)"
	case StrategyExhaustive:
		return "Exhaustive (every permutation)"
	case StrategyAnnealing:
		return "Simulated annealing"
	case StrategyGenetic:
		return "Genetic algorithm"
	default:
		return unknownDescription
	}
}

// AllStrategies returns all available strategies.
func AllStrategies() []Strategy {
	return []Strategy{StrategyAuto, StrategyExhaustive, StrategyAnnealing, StrategyGenetic}
}

// StructureType selects which syntactic tree the similarity metric compares.
type StructureType string

// Available structure types.
const (
	StructureConstituency StructureType = "constituency"
	StructureDependency   StructureType = "dependency"
)

// IsValid returns true if the structure type is recognised.
func (t StructureType) IsValid() bool {
	return t == StructureConstituency || t == StructureDependency
}

// String returns the string representation.
func (t StructureType) String() string {
	return string(t)
}

// CachePolicy controls how long sentence embeddings are kept.
type CachePolicy string

// Available cache policies.
const (
	// CachePolicyRequest clears the cache at the start of every reorder.
	CachePolicyRequest CachePolicy = "request"

	// CachePolicyProcess keeps embeddings for the life of the process.
	CachePolicyProcess CachePolicy = "process"

	// CachePolicyPersistent also stores embeddings in the local database.
	CachePolicyPersistent CachePolicy = "persistent"
)

// IsValid returns true if the cache policy is recognised.
func (p CachePolicy) IsValid() bool {
	switch p {
	case CachePolicyRequest, CachePolicyProcess, CachePolicyPersistent:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (p CachePolicy) String() string {
	return string(p)
}

// AIProvider identifies an embedding service provider.
type AIProvider string

// Available AI providers.
const (
	// AIProviderOllama is local Ollama instance.
	AIProviderOllama AIProvider = "ollama"

	// AIProviderOpenAI is OpenAI cloud API.
	AIProviderOpenAI AIProvider = "openai"

	// AIProviderHashing is the offline feature-hashing embedder.
	AIProviderHashing AIProvider = "hashing"
)

// IsValid returns true if the AI provider is recognised.
func (p AIProvider) IsValid() bool {
	switch p {
	case AIProviderOllama, AIProviderOpenAI, AIProviderHashing:
		return true
	default:
		return false
	}
}

// RequiresAPIKey returns true if this provider needs an API key.
func (p AIProvider) RequiresAPIKey() bool {
	return p == AIProviderOpenAI
}

// String returns the string representation.
func (p AIProvider) String() string {
	return string(p)
}

// Description returns a human-readable description of the provider.
func (p AIProvider) Description() string {
	switch p {
	case AIProviderOllama:
		return "Ollama (local)"
	case AIProviderOpenAI:
		return "OpenAI (cloud)"
	case AIProviderHashing:
		return "Hashing (offline)"
	default:
		return unknownDescription
	}
}

// AllEmbeddingProviders returns the supported providers, offline first.
func AllEmbeddingProviders() []AIProvider {
	return []AIProvider{AIProviderHashing, AIProviderOllama, AIProviderOpenAI}
}

// DefaultEmbeddingModels returns default models for each embedding provider.
func DefaultEmbeddingModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderOllama:  "nomic-embed-text",
		AIProviderOpenAI:  "text-embedding-3-small",
		AIProviderHashing: "hashing-512",
	}
}

// ScoringSettings holds weights and the syntactic structure type.
type ScoringSettings struct {
	Weights       WeightVector
	StructureType StructureType
}

// ReorderSettings holds search selection and pinning.
type ReorderSettings struct {
	// Strategy is the search algorithm.
	Strategy Strategy

	// ExhaustiveThreshold is the sentence count from which auto switches
	// from exhaustive search to annealing. At most MaxExhaustiveThreshold.
	ExhaustiveThreshold int

	// PinFirst keeps the first sentence in place.
	PinFirst bool

	// PinLast keeps the last sentence in place.
	PinLast bool

	// Seed seeds the stochastic strategies. 0 picks a random seed.
	Seed uint64
}

// AnnealingSettings holds the simulated annealing schedule.
type AnnealingSettings struct {
	InitialTemp   float64
	CoolingFactor float64
	MinTemp       float64

	// TempLength is the number of moves per temperature. 0 means n squared.
	TempLength int
}

// GeneticSettings holds genetic algorithm parameters.
type GeneticSettings struct {
	Generations    int
	PopulationSize int
	CrossoverRate  float64
	MutationRate   float64
	EliteSize      int
}

// EmbeddingSettings holds embedding provider configuration.
type EmbeddingSettings struct {
	// Provider is the embedding service provider.
	Provider AIProvider

	// Model is the embedding model name.
	Model string

	// BaseURL is the API endpoint.
	BaseURL string

	// APIKey is the API key (for OpenAI).
	APIKey string

	// RequestsPerSecond limits calls to remote providers. 0 disables limiting.
	RequestsPerSecond float64

	// Cache is the embedding cache policy.
	Cache CachePolicy
}

// IsConfigured returns true if the embedding provider is set up.
func (e EmbeddingSettings) IsConfigured() bool {
	if !e.Provider.IsValid() {
		return false
	}
	if e.Provider.RequiresAPIKey() && e.APIKey == "" {
		return false
	}
	return true
}

// ParserSettings configures the annotation pipeline.
type ParserSettings struct {
	// URL is the UDPipe-compatible REST endpoint. Empty means input must be CoNLL-U.
	URL string

	// Model is the parser model name sent to the endpoint.
	Model string
}

// FrequencySettings configures the word frequency table.
type FrequencySettings struct {
	// Path is a NyLLex-style CSV file. Empty disables frequency metrics.
	Path string
}

// Settings holds all application settings.
type Settings struct {
	Scoring   ScoringSettings
	Reorder   ReorderSettings
	Annealing AnnealingSettings
	Genetic   GeneticSettings
	Embedding EmbeddingSettings
	Parser    ParserSettings
	Frequency FrequencySettings
}

// MaxExhaustiveThreshold bounds ReorderSettings.ExhaustiveThreshold.
// Exhaustive search over n sentences scores n! orderings.
const MaxExhaustiveThreshold = 10

// DefaultSettings returns settings with sensible defaults.
func DefaultSettings() Settings {
	return Settings{
		Scoring: ScoringSettings{
			Weights:       DefaultWeights(),
			StructureType: StructureDependency,
		},
		Reorder: ReorderSettings{
			Strategy:            StrategyAuto,
			ExhaustiveThreshold: 8,
		},
		Annealing: AnnealingSettings{
			InitialTemp:   100,
			CoolingFactor: 0.95,
			MinTemp:       0.01,
		},
		Genetic: GeneticSettings{
			Generations:    200,
			PopulationSize: 20,
			CrossoverRate:  0.8,
			MutationRate:   0.2,
			EliteSize:      10,
		},
		Embedding: EmbeddingSettings{
			Provider: AIProviderHashing,
			Model:    DefaultEmbeddingModels()[AIProviderHashing],
			Cache:    CachePolicyRequest,
		},
	}
}
