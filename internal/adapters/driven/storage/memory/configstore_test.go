package memory

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfigStore(t *testing.T) {
	store := NewConfigStore()
	require.NotNil(t, store)
	assert.NotNil(t, store.values)
	assert.Equal(t, ":memory:", store.Path())
}

func TestConfigStore_Set_Update(t *testing.T) {
	store := NewConfigStore()

	require.NoError(t, store.Set("reorder.strategy", "exhaustive"))
	require.NoError(t, store.Set("reorder.strategy", "genetic"))

	val, ok := store.Get("reorder.strategy")
	assert.True(t, ok)
	assert.Equal(t, "genetic", val)
}

func TestConfigStore_Get_NotFound(t *testing.T) {
	store := NewConfigStore()

	val, ok := store.Get("missing")
	assert.False(t, ok)
	assert.Nil(t, val)
}

func TestConfigStore_TypedGetters(t *testing.T) {
	store := NewConfigStore()
	require.NoError(t, store.Set("s", "text"))
	require.NoError(t, store.Set("i", int64(12)))
	require.NoError(t, store.Set("f", 0.95))
	require.NoError(t, store.Set("b", true))
	require.NoError(t, store.Set("ss", []any{"a", "b"}))
	require.NoError(t, store.Set("fs", []any{1.0, int64(2)}))

	assert.Equal(t, "text", store.GetString("s"))
	assert.Equal(t, 12, store.GetInt("i"))
	assert.Equal(t, 12.0, store.GetFloat("i"))
	assert.Equal(t, 0.95, store.GetFloat("f"))
	assert.Equal(t, 0, store.GetInt("s"))
	assert.True(t, store.GetBool("b"))
	assert.False(t, store.GetBool("s"))
	assert.Equal(t, []string{"a", "b"}, store.GetStringSlice("ss"))
	assert.Equal(t, []float64{1, 2}, store.GetFloatSlice("fs"))
	assert.Nil(t, store.GetFloatSlice("ss"))
	assert.Equal(t, "", store.GetString("i"))
}

func TestConfigStore_SaveLoad_NoOp(t *testing.T) {
	store := NewConfigStore()
	require.NoError(t, store.Set("k", "v"))

	assert.NoError(t, store.Save())
	assert.NoError(t, store.Load())
	assert.Equal(t, "v", store.GetString("k"))
}

func TestConfigStore_Concurrency_SetAndGet(t *testing.T) {
	store := NewConfigStore()
	var wg sync.WaitGroup

	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			key := fmt.Sprintf("key%d", n)
			_ = store.Set(key, n)
			_ = store.GetInt(key)
		}(i)
	}
	wg.Wait()

	for i := 0; i < 50; i++ {
		assert.Equal(t, i, store.GetInt(fmt.Sprintf("key%d", i)))
	}
}
