package cache

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddingKey(t *testing.T) {
	k1 := EmbeddingKey("text-embedding-3-large", 3072, "React uploads")
	k2 := EmbeddingKey("text-embedding-3-large", 3072, "React uploads")
	assert.Equal(t, k1, k2)
	assert.Contains(t, k1, "novelty:v1:emb:")

	assert.NotEqual(t, k1, EmbeddingKey("text-embedding-3-small", 3072, "React uploads"))
	assert.NotEqual(t, k1, EmbeddingKey("text-embedding-3-large", 1536, "React uploads"))
	assert.NotEqual(t, k1, EmbeddingKey("text-embedding-3-large", 3072, "React upload"))
}

func TestMemoryCache(t *testing.T) {
	c := NewMemoryCache[[]float32](time.Minute, time.Minute)

	_, ok := c.Get("missing")
	assert.False(t, ok)

	require.NoError(t, c.Set("k", []float32{1, 2}, 0))
	v, ok := c.Get("k")
	require.True(t, ok)
	assert.Equal(t, []float32{1, 2}, v)
	assert.Equal(t, 1, c.Len())

	require.NoError(t, c.Delete("k"))
	_, ok = c.Get("k")
	assert.False(t, ok)

	require.NoError(t, c.Set("a", []float32{1}, 0))
	require.NoError(t, c.Clear())
	assert.Equal(t, 0, c.Len())
}

func TestMemoryCache_Expiry(t *testing.T) {
	c := NewMemoryCache[[]float32](time.Minute, time.Minute)
	require.NoError(t, c.Set("k", []float32{1}, 10*time.Millisecond))

	time.Sleep(30 * time.Millisecond)

	_, ok := c.Get("k")
	assert.False(t, ok)
}

func TestDiskCache(t *testing.T) {
	dir := t.TempDir()
	c := NewDiskCache[[]float32](dir, time.Hour)
	key := EmbeddingKey("m", 3, "text")

	_, ok := c.Get(key)
	assert.False(t, ok)

	require.NoError(t, c.Set(key, []float32{0.25, -0.5, 1}, 0))

	// A second instance over the same directory sees the entry
	v, ok := NewDiskCache[[]float32](dir, time.Hour).Get(key)
	require.True(t, ok)
	assert.Equal(t, []float32{0.25, -0.5, 1}, v)

	require.NoError(t, c.Delete(key))
	require.NoError(t, c.Delete(key), "deleting a missing key is not an error")
	_, ok = c.Get(key)
	assert.False(t, ok)
}

func TestDiskCache_ExpiredAndCorrupt(t *testing.T) {
	dir := t.TempDir()
	c := NewDiskCache[[]float32](dir, time.Hour)

	require.NoError(t, c.Set("old", []float32{1}, -time.Second))
	_, ok := c.Get("old")
	assert.False(t, ok)
	assert.NoFileExists(t, filepath.Join(dir, "old.json"))

	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.json"), []byte("{"), 0644))
	_, ok = c.Get("bad")
	assert.False(t, ok)

	require.NoError(t, c.Clear())
	assert.NoDirExists(t, dir)
}

func TestLayeredCache_PromotesDiskHits(t *testing.T) {
	dir := t.TempDir()

	writer := NewLayeredCache[[]float32](time.Minute, dir, time.Hour)
	require.NoError(t, writer.Set("k", []float32{3}, 0))

	// Fresh memory layer, same disk
	reader := NewLayeredCache[[]float32](time.Minute, dir, time.Hour)

	v, ok := reader.Get("k")
	require.True(t, ok)
	assert.Equal(t, []float32{3}, v)

	_, ok = reader.Get("k")
	require.True(t, ok)

	_, ok = reader.Get("missing")
	assert.False(t, ok)

	assert.Equal(t, Stats{MemoryHits: 1, DiskHits: 1, Misses: 1}, reader.Stats())
}

func TestLayeredCache_MemoryOnly(t *testing.T) {
	c := NewLayeredCache[[]float32](time.Minute, "", 0)

	require.NoError(t, c.Set("k", []float32{1}, 0))
	_, ok := c.Get("k")
	assert.True(t, ok)

	require.NoError(t, c.Delete("k"))
	_, ok = c.Get("k")
	assert.False(t, ok)
	require.NoError(t, c.Clear())
}

func TestLayeredCache_SatisfiesVectors(t *testing.T) {
	var _ Vectors = NewLayeredCache[[]float32](time.Minute, "", 0)
	var _ Vectors = NewMemoryCache[[]float32](time.Minute, time.Minute)
	var _ Vectors = NewDiskCache[[]float32](t.TempDir(), time.Hour)
}
