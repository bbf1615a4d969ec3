// Package scanner implements the bounded-depth, bounded-concurrency
// file-system walk described in spec.md §4.2. It produces a stream of
// candidate file paths filtered by extension and skip rules; the caller
// (internal/evaluator) turns each path into a scored Candidate.
package scanner

import (
	"context"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"golang.org/x/sync/errgroup"

	"github.com/standardbeagle/sigfind/internal/config"
)

// VisitFunc is invoked once per regular file that survives the scanner's
// directory/name/extension filters. It must be safe for concurrent calls:
// up to cfg.Concurrency may be in flight at once.
type VisitFunc func(path string, info os.FileInfo) error

// Scanner walks a root directory per spec.md §4.2.
type Scanner struct {
	cfg *config.Config
	// onVisitDir, when set, is called for every directory the walk
	// enters, including ones past MaxDepth; directories skipped by name are
	// never entered. It is a test hook for recording traversal; nothing in
	// this module sets it.
	onVisitDir func(path string)
}

// New builds a Scanner bound to cfg.
func New(cfg *config.Config) *Scanner {
	return &Scanner{cfg: cfg}
}

var copyPattern = regexp.MustCompile(`(?i)( copy| copy \d+| \d+)$`)

// rejectInfixes and rejectSuffixes implement §4.2's reject-pattern list.
var rejectInfixes = []string{".test.", ".spec."}
var rejectSuffixes = []string{".d.ts", ".backup"}

// Walk descends root depth-first (each subdirectory is walked as soon as it
// is listed, before the rest of its parent's entries), invoking visit for every regular file
// whose extension is configured and whose path survives the skip rules.
// It returns the first visit error groupwide (errgroup semantics); an
// unreadable directory is skipped silently and never produces an error.
func (s *Scanner) Walk(ctx context.Context, root string, visit VisitFunc) error {
	g, ctx := errgroup.WithContext(ctx)
	limit := s.cfg.Concurrency
	if limit < 1 {
		limit = 1
	}
	g.SetLimit(limit)

	s.walkDir(ctx, g, root, root, 0, visit)
	return g.Wait()
}

func (s *Scanner) walkDir(ctx context.Context, g *errgroup.Group, root, dir string, depth int, visit VisitFunc) {
	if s.onVisitDir != nil {
		s.onVisitDir(dir)
	}
	if depth > s.cfg.MaxDepth {
		return
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		// Unreadable directories are skipped silently (§4.2 "Failures").
		return
	}

	for _, entry := range entries {
		name := entry.Name()
		path := filepath.Join(dir, name)

		if entry.IsDir() {
			if s.shouldSkipDir(name) {
				continue
			}
			s.walkDir(ctx, g, root, path, depth+1, visit)
			continue
		}

		if !s.acceptFile(root, path, name) {
			continue
		}

		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			info, err := entry.Info()
			if err != nil {
				// Unreadable files yield no candidate, never abort (§4.2).
				return nil
			}
			return visit(path, info)
		})
	}
}

func (s *Scanner) shouldSkipDir(name string) bool {
	if strings.HasPrefix(name, ".") {
		return true
	}
	_, skip := s.cfg.SkipDirectories[name]
	return skip
}

func (s *Scanner) acceptFile(root, path, name string) bool {
	ext := filepath.Ext(name)
	if !s.hasExtension(ext) {
		return false
	}
	lower := strings.ToLower(name)
	for _, infix := range rejectInfixes {
		if strings.Contains(lower, infix) {
			return false
		}
	}
	for _, suffix := range rejectSuffixes {
		if strings.HasSuffix(lower, suffix) {
			return false
		}
	}
	stem := strings.TrimSuffix(name, ext)
	// Backup copies keep a real extension after the marker (Foo.backup.js).
	if strings.HasSuffix(strings.ToLower(stem), ".backup") {
		return false
	}
	if copyPattern.MatchString(stem) {
		return false
	}
	if s.matchesSkipPattern(root, path) {
		return false
	}
	return true
}

// matchesSkipPattern applies cfg.SkipPatterns, doublestar globs evaluated
// against the path relative to root, catching patterns plain
// directory-name/suffix rules can't express (e.g. "**/*.min.js").
func (s *Scanner) matchesSkipPattern(root, path string) bool {
	if len(s.cfg.SkipPatterns) == 0 {
		return false
	}
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	rel = filepath.ToSlash(rel)
	for _, pattern := range s.cfg.SkipPatterns {
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return true
		}
	}
	return false
}

func (s *Scanner) hasExtension(ext string) bool {
	for _, e := range s.cfg.Extensions {
		if strings.EqualFold(e, ext) {
			return true
		}
	}
	return false
}
