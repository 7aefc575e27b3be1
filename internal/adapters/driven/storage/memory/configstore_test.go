package memory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigStore_SetGet(t *testing.T) {
	store := NewConfigStore()

	require.NoError(t, store.Set("display.repr_attribute", "As"))
	require.NoError(t, store.Set("legend.dir", "/tmp/legends"))

	assert.Equal(t, "As", store.GetString("display.repr_attribute"))
	assert.Equal(t, "/tmp/legends", store.GetString("legend.dir"))
	assert.Empty(t, store.GetString("missing"))
	assert.Equal(t, ":memory:", store.Path())
}

func TestConfigStore_GetFloat(t *testing.T) {
	store := NewConfigStore()
	require.NoError(t, store.Set("ingest.average_z", 42.5))
	require.NoError(t, store.Set("ingest.default_diameter", int64(1)))
	require.NoError(t, store.Set("storage.backend", "sqlite"))

	v, ok := store.GetFloat("ingest.average_z")
	assert.True(t, ok)
	assert.InDelta(t, 42.5, v, 1e-9)

	v, ok = store.GetFloat("ingest.default_diameter")
	assert.True(t, ok)
	assert.InDelta(t, 1.0, v, 1e-9)

	_, ok = store.GetFloat("storage.backend")
	assert.False(t, ok)
	_, ok = store.GetFloat("missing")
	assert.False(t, ok)
}

func TestConfigStore_Delete(t *testing.T) {
	store := NewConfigStore()
	require.NoError(t, store.Set("ingest.average_z", 10.0))

	require.NoError(t, store.Delete("ingest.average_z"))
	_, ok := store.Get("ingest.average_z")
	assert.False(t, ok)

	require.NoError(t, store.Delete("never.set"))
}

func TestConfigStore_SaveLoadAreNoops(t *testing.T) {
	store := NewConfigStore()
	require.NoError(t, store.Set("legend.alpha", 0.4))

	require.NoError(t, store.Save())
	require.NoError(t, store.Load())

	v, ok := store.GetFloat("legend.alpha")
	assert.True(t, ok)
	assert.InDelta(t, 0.4, v, 1e-9)
}
