package localstore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_SetGet(t *testing.T) {
	store, err := New(t.TempDir())
	require.NoError(t, err)

	type payload struct {
		Name  string `json:"name"`
		Count int    `json:"count"`
	}

	require.NoError(t, store.Set("key", payload{Name: "vase", Count: 3}))

	var got payload
	assert.True(t, store.Get("key", &got))
	assert.Equal(t, "vase", got.Name)
	assert.Equal(t, 3, got.Count)
}

func TestStore_GetMissing(t *testing.T) {
	store, err := New(t.TempDir())
	require.NoError(t, err)

	var got map[string]string
	assert.False(t, store.Get("absent", &got))
}

func TestStore_Delete(t *testing.T) {
	store, err := New(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Set("key", []int{1, 2}))
	store.Delete("key")

	var got []int
	assert.False(t, store.Get("key", &got))

	// Deleting again is fine
	store.Delete("key")
}

func TestStore_CorruptValueSelfHeals(t *testing.T) {
	dir := t.TempDir()
	store, err := New(dir)
	require.NoError(t, err)

	require.NoError(t, store.Set("key", []int{1, 2, 3}))

	// Corrupt the file behind the store's back
	path := filepath.Join(dir, "key.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	var got []int
	assert.False(t, store.Get("key", &got))

	// The broken file is gone, and a fresh write works again
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))

	require.NoError(t, store.Set("key", []int{4}))
	assert.True(t, store.Get("key", &got))
	assert.Equal(t, []int{4}, got)
}

func TestStore_PersistsAcrossInstances(t *testing.T) {
	dir := t.TempDir()

	first, err := New(dir)
	require.NoError(t, err)
	require.NoError(t, first.Set("key", "value"))

	second, err := New(dir)
	require.NoError(t, err)

	var got string
	assert.True(t, second.Get("key", &got))
	assert.Equal(t, "value", got)
}

func TestStore_Memory(t *testing.T) {
	store := NewMemory()

	require.NoError(t, store.Set("key", 7))

	var got int
	assert.True(t, store.Get("key", &got))
	assert.Equal(t, 7, got)

	store.Delete("key")
	assert.False(t, store.Get("key", &got))
}

func TestStore_SanitizesKeys(t *testing.T) {
	dir := t.TempDir()
	store, err := New(dir)
	require.NoError(t, err)

	require.NoError(t, store.Set("../escape/attempt", "value"))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	var got string
	assert.True(t, store.Get("../escape/attempt", &got))
	assert.Equal(t, "value", got)
}
