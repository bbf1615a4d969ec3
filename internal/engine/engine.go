// Package engine wires the discovery pipeline's components (scanner,
// evaluator, resolver, cache) into the public discover/explain/clear-cache
// surface (spec.md §6.3).
package engine

import (
	"context"
	"log"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/standardbeagle/sigfind/internal/cachestore"
	"github.com/standardbeagle/sigfind/internal/config"
	discerrors "github.com/standardbeagle/sigfind/internal/errors"
	"github.com/standardbeagle/sigfind/internal/evaluator"
	"github.com/standardbeagle/sigfind/internal/exports"
	"github.com/standardbeagle/sigfind/internal/resolver"
	"github.com/standardbeagle/sigfind/internal/scanner"
	"github.com/standardbeagle/sigfind/internal/signature"
	"github.com/standardbeagle/sigfind/internal/types"
)

// Engine runs discovery rooted at one directory. Engines are memoized by
// Registry, never constructed directly by callers (SPEC_FULL.md §3
// supplement).
type Engine struct {
	root      string
	cfg       *config.Config
	scan      *scanner.Scanner
	analyzer  *exports.Analyzer
	eval      *evaluator.Evaluator
	resolve   *resolver.Resolver
	cache     *cachestore.Store
}

func newEngine(root string, cfg *config.Config) *Engine {
	analyzer := exports.New()
	return &Engine{
		root:     root,
		cfg:      cfg,
		scan:     scanner.New(cfg),
		analyzer: analyzer,
		eval:     evaluator.New(cfg, analyzer),
		resolve:  resolver.New(cfg),
		cache: cachestore.New(root, cachestore.CacheConfig{
			Enabled:     cfg.Cache.Enabled,
			File:        cfg.Cache.File,
			TTLSeconds:  cfg.Cache.TTLSeconds,
			LogWarnings: cfg.Cache.LogWarnings,
		}),
	}
}

// Target is what a successful Discover returns: the resolved candidate
// plus the specific export selected from its metadata.
type Target struct {
	Candidate *types.Candidate
	Export    types.Export
}

// Discover implements §6.3's discover(signature): consult the cache,
// then fall back to a full scan/score/resolve pass, caching the result on
// success.
func (e *Engine) Discover(ctx context.Context, sig *types.Signature) (*Target, error) {
	ns, err := signature.Normalize(sig)
	if err != nil {
		return nil, err
	}
	key := signature.CacheKey(ns)

	if target, ok := e.tryCacheFastPath(ns, key); ok {
		return target, nil
	}

	candidates, err := e.evaluateAll(ctx, ns)
	if err != nil {
		return nil, err
	}

	result, err := e.resolve.Resolve(ctx, ns, candidates, "")
	if err != nil {
		return nil, err
	}

	rec := types.ResolutionRecord{
		RelPath:   result.Candidate.RelPath,
		Access:    result.Export.Access,
		Score:     result.Candidate.Score,
		Timestamp: time.Now(),
	}
	if result.Candidate.HasModTime {
		rec.ModTimeNs = result.Candidate.ModTime.UnixNano()
	}
	if err := e.cache.Put(key, rec); err != nil && e.cfg.Cache.LogWarnings {
		// Non-fatal per §7: cache errors are logged, never returned from Discover.
		log.Printf("sigfind: %v", err)
	}

	return &Target{Candidate: result.Candidate, Export: result.Export}, nil
}

func (e *Engine) tryCacheFastPath(ns *types.NormalizedSignature, key string) (*Target, bool) {
	rec, ok := e.cache.Get(key)
	if !ok {
		return nil, false
	}
	absPath := filepath.Join(e.root, rec.RelPath)
	content, err := os.ReadFile(absPath)
	if err != nil {
		return nil, false
	}
	info, statErr := os.Stat(absPath)

	ext := filepath.Ext(absPath)
	candidate := &types.Candidate{
		AbsPath:      absPath,
		RelPath:      rec.RelPath,
		BaseName:     filepathBase(absPath, ext),
		Ext:          ext,
		Content:      string(content),
		Score:        rec.Score,
		Metadata:     e.analyzer.Analyze(string(content), absPath),
		AnalyzerName: e.analyzer.BackendName(absPath),
	}
	if statErr == nil {
		candidate.ModTime = info.ModTime()
		candidate.HasModTime = true
	}

	exp, ok := e.resolve.Revalidate(ns, candidate)
	if !ok {
		return nil, false
	}
	return &Target{Candidate: candidate, Export: *exp}, true
}

func filepathBase(absPath, ext string) string {
	base := filepath.Base(absPath)
	if ext != "" {
		return base[:len(base)-len(ext)]
	}
	return base
}

// evaluateAll scans the root and scores every surviving file against sig,
// collecting candidates concurrently under the scanner's own bound.
func (e *Engine) evaluateAll(ctx context.Context, ns *types.NormalizedSignature) ([]*types.Candidate, error) {
	var mu sync.Mutex
	var candidates []*types.Candidate

	err := e.scan.Walk(ctx, e.root, func(path string, info os.FileInfo) error {
		candidate, err := e.eval.Evaluate(ns, e.root, path, info)
		if err != nil {
			return nil // evaluator never surfaces per-file errors as fatal
		}
		if candidate == nil {
			return nil
		}
		mu.Lock()
		candidates = append(candidates, candidate)
		mu.Unlock()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return candidates, nil
}

// ClearCache implements §6.3's clear_cache(): wipe both cache tiers.
func (e *Engine) ClearCache() error {
	return e.cache.Clear()
}

// Diagnostic is one ranked candidate in an Explanation, including whether
// it would actually satisfy the signature structurally.
type Diagnostic struct {
	Candidate *types.Candidate
	Export    *types.Export
	Satisfies bool
}

// Explanation is explain()'s return value (§6.3): the full ranked
// candidate list, each with its score breakdown, plus whether resolution
// would succeed.
type Explanation struct {
	Candidates []Diagnostic
	Resolved   bool
}

// Explain implements §6.3's explain(signature): unlike Discover, it never
// short-circuits on the first success — every scored candidate is
// returned, ranked, so a caller can see why a particular file lost to
// another.
func (e *Engine) Explain(ctx context.Context, sig *types.Signature) (*Explanation, error) {
	ns, err := signature.Normalize(sig)
	if err != nil {
		return nil, err
	}
	candidates, err := e.evaluateAll(ctx, ns)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].Score != candidates[j].Score {
			return candidates[i].Score > candidates[j].Score
		}
		return candidates[i].RelPath < candidates[j].RelPath
	})

	diagnostics := make([]Diagnostic, 0, len(candidates))
	resolved := false
	for _, c := range candidates {
		exp, ok := e.resolve.Revalidate(ns, c)
		if ok && !resolved {
			resolved = true
		}
		diagnostics = append(diagnostics, Diagnostic{Candidate: c, Export: exp, Satisfies: ok})
	}

	if len(diagnostics) == 0 {
		return &Explanation{}, discerrors.NoMatch("no candidates survived evaluation for signature")
	}
	return &Explanation{Candidates: diagnostics, Resolved: resolved}, nil
}
