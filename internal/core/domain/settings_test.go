package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStrategy_IsValid(t *testing.T) {
	for _, s := range AllStrategies() {
		assert.True(t, s.IsValid(), s.String())
		assert.NotEqual(t, unknownDescription, s.Description())
	}
	assert.False(t, Strategy("").IsValid())
	assert.False(t, Strategy("greedy").IsValid())
	assert.Equal(t, unknownDescription, Strategy("greedy").Description())
}

func TestStructureType_IsValid(t *testing.T) {
	assert.True(t, StructureConstituency.IsValid())
	assert.True(t, StructureDependency.IsValid())
	assert.False(t, StructureType("semantic").IsValid())
}

func TestCachePolicy_IsValid(t *testing.T) {
	assert.True(t, CachePolicyRequest.IsValid())
	assert.True(t, CachePolicyProcess.IsValid())
	assert.True(t, CachePolicyPersistent.IsValid())
	assert.False(t, CachePolicy("forever").IsValid())
}

func TestEmbeddingSettings_IsConfigured(t *testing.T) {
	tests := []struct {
		name     string
		settings EmbeddingSettings
		expected bool
	}{
		{"hashing needs nothing", EmbeddingSettings{Provider: AIProviderHashing}, true},
		{"ollama without key", EmbeddingSettings{Provider: AIProviderOllama}, true},
		{"openai without key", EmbeddingSettings{Provider: AIProviderOpenAI}, false},
		{"openai with key", EmbeddingSettings{Provider: AIProviderOpenAI, APIKey: "sk"}, true},
		{"unknown provider", EmbeddingSettings{Provider: "cohere"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.settings.IsConfigured())
		})
	}
}

func TestDefaultSettings(t *testing.T) {
	s := DefaultSettings()

	assert.Equal(t, DefaultWeights(), s.Scoring.Weights)
	assert.Equal(t, StructureDependency, s.Scoring.StructureType)
	assert.Equal(t, StrategyAuto, s.Reorder.Strategy)
	assert.Equal(t, 8, s.Reorder.ExhaustiveThreshold)
	assert.Equal(t, 100.0, s.Annealing.InitialTemp)
	assert.Equal(t, 0.95, s.Annealing.CoolingFactor)
	assert.Equal(t, 0.01, s.Annealing.MinTemp)
	assert.Equal(t, 0, s.Annealing.TempLength)
	assert.Equal(t, 200, s.Genetic.Generations)
	assert.Equal(t, 20, s.Genetic.PopulationSize)
	assert.Equal(t, 10, s.Genetic.EliteSize)
	assert.Equal(t, CachePolicyRequest, s.Embedding.Cache)
	assert.True(t, s.Embedding.IsConfigured())
}

func TestAllEmbeddingProviders(t *testing.T) {
	providers := AllEmbeddingProviders()

	assert.Equal(t, AIProviderHashing, providers[0])
	models := DefaultEmbeddingModels()
	for _, p := range providers {
		assert.True(t, p.IsValid())
		assert.NotEmpty(t, models[p], p)
	}
}
