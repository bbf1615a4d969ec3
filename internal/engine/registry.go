package engine

import (
	"path/filepath"
	"sync"

	"github.com/standardbeagle/sigfind/internal/config"
)

// Registry memoizes Engines by cleaned absolute root path (SPEC_FULL.md §3
// supplement), replacing the teacher's package-level map with an explicit
// type the caller constructs once (e.g. cmd/discover's main).
type Registry struct {
	mu       sync.Mutex
	engines  map[string]*Engine
	cfg      *config.Config
}

// NewRegistry builds a Registry that constructs every engine with cfg.
func NewRegistry(cfg *config.Config) *Registry {
	return &Registry{engines: make(map[string]*Engine), cfg: cfg}
}

// For returns the memoized Engine for root, constructing one on first use.
func (r *Registry) For(root string) (*Engine, error) {
	clean, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	clean = filepath.Clean(clean)

	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := r.engines[clean]; ok {
		return e, nil
	}
	e := newEngine(clean, r.cfg)
	r.engines[clean] = e
	return e, nil
}

// Clear tears down one engine's caches without affecting any other
// memoized engine.
func (r *Registry) Clear(root string) error {
	clean, err := filepath.Abs(root)
	if err != nil {
		return err
	}
	clean = filepath.Clean(clean)

	r.mu.Lock()
	e, ok := r.engines[clean]
	r.mu.Unlock()
	if !ok {
		return nil
	}
	return e.ClearCache()
}
