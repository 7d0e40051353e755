package file

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfigStore_Success(t *testing.T) {
	tmpDir := t.TempDir()

	store, err := NewConfigStore(tmpDir)

	require.NoError(t, err)
	require.NotNil(t, store)
	assert.Equal(t, filepath.Join(tmpDir, "config.toml"), store.Path())
}

func TestConfigStore_SetAndGet(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Set("reorder.strategy", "genetic"))

	val, ok := store.Get("reorder.strategy")
	assert.True(t, ok)
	assert.Equal(t, "genetic", val)
	assert.Equal(t, "genetic", store.GetString("reorder.strategy"))

	_, ok = store.Get("missing")
	assert.False(t, ok)
	assert.Equal(t, "", store.GetString("missing"))
}

func TestConfigStore_PersistsAsTables(t *testing.T) {
	tmpDir := t.TempDir()
	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	require.NoError(t, store.Set("scoring.weights", []float64{1, 1, 2, 0, 1, 1}))
	require.NoError(t, store.Set("annealing.min_temp", 0.05))
	require.NoError(t, store.Set("reorder.exhaustive_threshold", 7))
	require.NoError(t, store.Set("reorder.pin_first", true))

	raw, err := os.ReadFile(store.Path())
	require.NoError(t, err)
	assert.Contains(t, string(raw), "[scoring]")
	assert.Contains(t, string(raw), "[reorder]")

	reloaded, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	assert.Equal(t, []float64{1, 1, 2, 0, 1, 1}, reloaded.GetFloatSlice("scoring.weights"))
	assert.Equal(t, 0.05, reloaded.GetFloat("annealing.min_temp"))
	assert.Equal(t, 7, reloaded.GetInt("reorder.exhaustive_threshold"))
	assert.Equal(t, 7.0, reloaded.GetFloat("reorder.exhaustive_threshold"))
	assert.True(t, reloaded.GetBool("reorder.pin_first"))
	assert.Equal(t, []string{
		"annealing.min_temp",
		"reorder.exhaustive_threshold",
		"reorder.pin_first",
		"scoring.weights",
	}, reloaded.Keys())
}

func TestConfigStore_LoadHandWritten(t *testing.T) {
	tmpDir := t.TempDir()
	content := `
[embedding]
provider = "ollama"
model = "nomic-embed-text"

[genetic]
generations = 50
crossover_rate = 0.7
`
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "config.toml"), []byte(content), 0600))

	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	assert.Equal(t, "ollama", store.GetString("embedding.provider"))
	assert.Equal(t, 50, store.GetInt("genetic.generations"))
	assert.Equal(t, 0.7, store.GetFloat("genetic.crossover_rate"))
	assert.Equal(t, 0, store.GetInt("genetic.crossover_rate"+"x"))
}

func TestConfigStore_InvalidTOML(t *testing.T) {
	tmpDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "config.toml"), []byte("not = [valid"), 0600))

	_, err := NewConfigStore(tmpDir)
	assert.Error(t, err)
}

func TestConfigStore_FilePermissions(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, store.Set("embedding.api_key", "sk-test"))

	info, err := os.Stat(store.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestNestMap(t *testing.T) {
	nested := nestMap(map[string]any{
		"a.b":   1,
		"a.c.d": 2,
		"e":     3,
	})

	assert.Equal(t, map[string]any{
		"a": map[string]any{
			"b": 1,
			"c": map[string]any{"d": 2},
		},
		"e": 3,
	}, nested)

	assert.Equal(t, map[string]any{"a.b": 1, "a.c.d": 2, "e": 3}, flattenMap(nested, ""))
}

func TestNestMap_Conflict(t *testing.T) {
	nested := nestMap(map[string]any{
		"a":   1,
		"a.b": 2,
	})
	assert.Equal(t, 1, nested["a"])
	assert.Equal(t, 2, nested["a.b"])
}
