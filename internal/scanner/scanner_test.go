package scanner

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/standardbeagle/sigfind/internal/config"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		full := filepath.Join(root, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
		require.NoError(t, os.WriteFile(full, []byte(content), 0o644))
	}
}

func TestWalkFiltersByExtensionAndSkipDirs(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"src/Service.js":             "module.exports = class Service {}",
		"src/Service.test.js":        "// test file",
		"src/Service.backup.js":      "// backup",
		"node_modules/dep/index.js":  "module.exports = {}",
		".git/objects/abc":           "binary",
		"src/notes.md":               "# notes",
		"src/nested/deep/Handler.ts": "export class Handler {}",
	})

	cfg := config.Default()
	s := New(cfg)

	var mu sync.Mutex
	var found []string
	err := s.Walk(context.Background(), root, func(path string, info os.FileInfo) error {
		mu.Lock()
		found = append(found, path)
		mu.Unlock()
		return nil
	})
	require.NoError(t, err)

	sort.Strings(found)
	require.Len(t, found, 2)
	for _, f := range found {
		rel, _ := filepath.Rel(root, f)
		assert.NotContains(t, rel, "node_modules")
		assert.NotContains(t, rel, ".git")
	}
}

func TestWalkRespectsMaxDepth(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"a/b/c/d/e/f/g/h/i/j/k/Deep.ts": "export class Deep {}",
	})
	cfg := config.Default()
	cfg.MaxDepth = 2
	s := New(cfg)

	var mu sync.Mutex
	count := 0
	err := s.Walk(context.Background(), root, func(path string, info os.FileInfo) error {
		mu.Lock()
		count++
		mu.Unlock()
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestWalkRespectsSkipPatterns(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"dist/bundle.min.js":    "minified",
		"src/Service.js":        "module.exports = {}",
		"types/schema.generated.ts": "export const x = 1",
	})
	cfg := config.Default()
	cfg.SkipDirectories = map[string]struct{}{} // isolate pattern matching from dir skip rules
	s := New(cfg)

	var mu sync.Mutex
	var found []string
	err := s.Walk(context.Background(), root, func(path string, info os.FileInfo) error {
		mu.Lock()
		found = append(found, path)
		mu.Unlock()
		return nil
	})
	require.NoError(t, err)
	sort.Strings(found)
	require.Len(t, found, 1)
	assert.Contains(t, found[0], "Service.js")
}

func TestWalkBoundsConcurrency(t *testing.T) {
	root := t.TempDir()
	files := map[string]string{}
	for i := 0; i < 40; i++ {
		files[filepath.Join("src", fmt.Sprintf("F%d.js", i))] = "module.exports = {}"
	}
	writeTree(t, root, files)

	cfg := config.Default()
	cfg.Concurrency = 3
	s := New(cfg)

	var mu sync.Mutex
	inFlight, maxInFlight := 0, 0
	err := s.Walk(context.Background(), root, func(path string, info os.FileInfo) error {
		mu.Lock()
		inFlight++
		if inFlight > maxInFlight {
			maxInFlight = inFlight
		}
		mu.Unlock()

		mu.Lock()
		inFlight--
		mu.Unlock()
		return nil
	})
	require.NoError(t, err)
	assert.LessOrEqual(t, maxInFlight, cfg.Concurrency)
}
