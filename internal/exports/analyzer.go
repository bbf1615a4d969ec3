package exports

import (
	"path/filepath"
	"strings"

	"github.com/standardbeagle/sigfind/internal/types"
)

const defaultCacheCapacity = 100

// Analyzer dispatches to the backend registered for a file's extension
// and memoizes results (including unparseable memoized as nil) behind a
// bounded LRU, per spec.md §4.3.
type Analyzer struct {
	byExt map[string]Backend
	cache *entryLRU
}

// New builds an Analyzer wired with the JS (go-fast) and TS (tree-sitter)
// backends.
func New() *Analyzer {
	a := &Analyzer{
		byExt: make(map[string]Backend),
		cache: newEntryLRU(defaultCacheCapacity),
	}
	a.register(newGofastBackend())
	a.register(newTreesitterBackend())
	return a
}

func (a *Analyzer) register(b Backend) {
	for _, ext := range b.Extensions() {
		a.byExt[ext] = b
	}
}

// Analyze returns export metadata for content/fileName, or nil if the
// extension has no backend or the content failed to parse. A nil result
// is itself memoized, so repeated lookups of unparseable content are
// cheap (spec.md §4.3 "Failure modes").
func (a *Analyzer) Analyze(content, fileName string) *types.ExportsMetadata {
	key := contentKey(fileName, content)
	if cached, ok := a.cache.get(key); ok {
		return cached
	}

	backend, ok := a.byExt[strings.ToLower(filepath.Ext(fileName))]
	if !ok {
		a.cache.put(key, nil)
		return nil
	}

	metadata, err := backend.Analyze(content, fileName)
	if err != nil {
		a.cache.put(key, nil)
		return nil
	}
	a.cache.put(key, metadata)
	return metadata
}

// BackendName reports which backend would handle fileName, for
// diagnostics (Candidate.AnalyzerName); empty if none is registered.
func (a *Analyzer) BackendName(fileName string) string {
	backend, ok := a.byExt[strings.ToLower(filepath.Ext(fileName))]
	if !ok {
		return ""
	}
	return backend.Name()
}
