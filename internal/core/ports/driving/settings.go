package driving

import "github.com/custodia-labs/sentorder/internal/core/domain"

// SettingsService manages application settings.
type SettingsService interface {
	// Get retrieves current application settings.
	Get() (*domain.Settings, error)

	// Save persists application settings.
	Save(settings *domain.Settings) error

	// Set parses and stores a single setting given as text.
	Set(key, value string) error

	// Keys returns every settable key.
	Keys() []string

	// SetEmbeddingProvider configures the embedding provider.
	// An empty model selects the provider's default model.
	SetEmbeddingProvider(provider domain.AIProvider, model, apiKey string) error

	// Validate checks that current settings can produce a score.
	Validate() error

	// ValidateEmbeddingConfig pings the configured embedding provider.
	ValidateEmbeddingConfig() error

	// GetDefaults returns default settings.
	GetDefaults() domain.Settings
}
