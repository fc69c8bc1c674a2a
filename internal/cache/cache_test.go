package cache

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestCache(t *testing.T) *Cache {
	t.Helper()

	c, err := Open(filepath.Join(t.TempDir(), "cache.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestCachePutGet(t *testing.T) {
	c := openTestCache(t)

	require.NoError(t, c.Put("items:7", `[{"name":"Tomato"}]`))

	value, ok, err := c.Get("items:7")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `[{"name":"Tomato"}]`, value)
}

func TestCacheGetMissing(t *testing.T) {
	c := openTestCache(t)

	value, ok, err := c.Get("items:99")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, value)
}

func TestCachePutReplaces(t *testing.T) {
	c := openTestCache(t)

	require.NoError(t, c.Put("checks:7", `{"milk|liter":true}`))
	require.NoError(t, c.Put("checks:7", `{"milk|liter":false}`))

	value, ok, err := c.Get("checks:7")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `{"milk|liter":false}`, value)
}

func TestCacheDelete(t *testing.T) {
	c := openTestCache(t)

	require.NoError(t, c.Put("items:7", "x"))
	require.NoError(t, c.Delete("items:7"))

	_, ok, err := c.Get("items:7")
	require.NoError(t, err)
	assert.False(t, ok)

	// deleting again is fine
	require.NoError(t, c.Delete("items:7"))
}

func TestCacheSurvivesReopen(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cache.db")

	c, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, c.Put("items:1", "persisted"))
	require.NoError(t, c.Close())

	c, err = Open(path)
	require.NoError(t, err)
	defer c.Close()

	value, ok, err := c.Get("items:1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "persisted", value)
}
