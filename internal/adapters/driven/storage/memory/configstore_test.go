package memory

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigStore_SetAndGet(t *testing.T) {
	store := NewConfigStore()

	require.NoError(t, store.Set("llm.model", "llama3.2"))
	require.NoError(t, store.Set("retrieval.k", 4))
	require.NoError(t, store.Set("memory.summarise_evicted", true))
	require.NoError(t, store.Set("ingest.embed_rate_per_second", 2.5))

	assert.Equal(t, "llama3.2", store.GetString("llm.model"))
	assert.Equal(t, 4, store.GetInt("retrieval.k"))
	assert.True(t, store.GetBool("memory.summarise_evicted"))
	assert.InDelta(t, 2.5, store.GetFloat("ingest.embed_rate_per_second"), 1e-9)
}

func TestConfigStore_TypeCoercion(t *testing.T) {
	tests := []struct {
		name      string
		value     any
		wantInt   int
		wantFloat float64
	}{
		{"int", 7, 7, 7},
		{"int64", int64(8), 8, 8},
		{"float64", 9.0, 9, 9},
		{"string", "10", 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := NewConfigStore()
			require.NoError(t, store.Set("n", tt.value))

			assert.Equal(t, tt.wantInt, store.GetInt("n"))
			assert.InDelta(t, tt.wantFloat, store.GetFloat("n"), 1e-9)
		})
	}
}

func TestConfigStore_MissingKeys(t *testing.T) {
	store := NewConfigStore()

	_, ok := store.Get("missing")
	assert.False(t, ok)
	assert.Empty(t, store.GetString("missing"))
	assert.Zero(t, store.GetInt("missing"))
	assert.Zero(t, store.GetFloat("missing"))
	assert.False(t, store.GetBool("missing"))
}

func TestConfigStore_WrongTypes(t *testing.T) {
	store := NewConfigStore()
	require.NoError(t, store.Set("k", 42))

	assert.Empty(t, store.GetString("k"))
	assert.False(t, store.GetBool("k"))
}

func TestConfigStore_Persistence(t *testing.T) {
	store := NewConfigStore()

	assert.NoError(t, store.Save())
	assert.NoError(t, store.Load())
	assert.Equal(t, ":memory:", store.Path())
}

func TestConfigStore_ConcurrentAccess(t *testing.T) {
	store := NewConfigStore()
	var wg sync.WaitGroup

	for i := range 20 {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := fmt.Sprintf("key%d", i)
			_ = store.Set(key, i)
			_ = store.GetInt(key)
		}(i)
	}
	wg.Wait()

	for i := range 20 {
		assert.Equal(t, i, store.GetInt(fmt.Sprintf("key%d", i)))
	}
}
