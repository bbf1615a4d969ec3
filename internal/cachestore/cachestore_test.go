package cachestore

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/standardbeagle/sigfind/internal/types"
)

func TestPutThenGetRoundTrips(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "Service.js"), []byte("x"), 0o644))

	s := New(root, CacheConfig{Enabled: true, File: ".cache.json"})
	rec := types.ResolutionRecord{RelPath: "Service.js", Access: types.Access{Kind: types.AccessDirect}, Score: 42, Timestamp: time.Now()}
	require.NoError(t, s.Put("key1", rec))

	got, ok := s.Get("key1")
	require.True(t, ok)
	assert.Equal(t, "Service.js", got.RelPath)
	assert.Equal(t, 42.0, got.Score)
}

func TestGetDiscardsEntryForDeletedFile(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "Gone.js")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))

	s := New(root, CacheConfig{Enabled: true, File: ".cache.json"})
	rec := types.ResolutionRecord{RelPath: "Gone.js", Timestamp: time.Now()}
	require.NoError(t, s.Put("key1", rec))

	// Fresh store forces a reload from disk rather than the live LRU.
	reloaded := New(root, CacheConfig{Enabled: true, File: ".cache.json"})
	require.NoError(t, os.Remove(path))
	_, ok := reloaded.Get("key1")
	assert.False(t, ok)
}

func TestTTLExpiry(t *testing.T) {
	root := t.TempDir()
	s := New(root, CacheConfig{Enabled: true, File: ".cache.json", TTLSeconds: 1})
	rec := types.ResolutionRecord{RelPath: "X.js", Timestamp: time.Now().Add(-2 * time.Second)}
	require.NoError(t, os.WriteFile(filepath.Join(root, "X.js"), []byte("x"), 0o644))
	require.NoError(t, s.Put("key1", rec))

	_, ok := s.Get("key1")
	assert.False(t, ok)
}

func TestClearRemovesFileAndEntries(t *testing.T) {
	root := t.TempDir()
	s := New(root, CacheConfig{Enabled: true, File: ".cache.json"})
	require.NoError(t, os.WriteFile(filepath.Join(root, "X.js"), []byte("x"), 0o644))
	require.NoError(t, s.Put("key1", types.ResolutionRecord{RelPath: "X.js", Timestamp: time.Now()}))

	require.NoError(t, s.Clear())
	_, ok := s.Get("key1")
	assert.False(t, ok)
	_, err := os.Stat(filepath.Join(root, ".cache.json"))
	assert.True(t, os.IsNotExist(err))
}

func TestDisabledCacheNeverStores(t *testing.T) {
	root := t.TempDir()
	s := New(root, CacheConfig{Enabled: false, File: ".cache.json"})
	require.NoError(t, s.Put("key1", types.ResolutionRecord{RelPath: "X.js", Timestamp: time.Now()}))
	_, ok := s.Get("key1")
	assert.False(t, ok)
}
