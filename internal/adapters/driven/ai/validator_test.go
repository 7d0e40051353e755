package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/sentorder/internal/core/domain"
)

func TestNewConfigValidator(t *testing.T) {
	validator := NewConfigValidator()

	require.NotNil(t, validator)
}

func TestConfigValidator_ValidateEmbedding_NilConfig(t *testing.T) {
	assert.NoError(t, NewConfigValidator().ValidateEmbedding(nil))
}

func TestConfigValidator_ValidateEmbedding_Hashing(t *testing.T) {
	err := NewConfigValidator().ValidateEmbedding(&domain.EmbeddingSettings{
		Provider: domain.AIProviderHashing,
		Model:    "hashing-16",
	})
	assert.NoError(t, err)
}

func TestConfigValidator_ValidateEmbedding_Unreachable(t *testing.T) {
	err := NewConfigValidator().ValidateEmbedding(&domain.EmbeddingSettings{
		Provider: domain.AIProviderOllama,
		BaseURL:  "http://127.0.0.1:1",
	})
	assert.Error(t, err)
}
