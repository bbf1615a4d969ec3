// Package exports implements the exports analyzer (spec.md §4.3): given
// file content and a file name, derive the set of values the file
// publishes to its importers, memoized by content hash.
package exports

import "github.com/standardbeagle/sigfind/internal/types"

// Backend analyzes one file extension family. JavaScript and TypeScript
// get distinct backends (internal/exports/gofast_backend.go,
// internal/exports/treesitter_backend.go) because they use distinct
// parsers; the capability-record registry composing them lives in
// Analyzer (analyzer.go), per SPEC_FULL.md §5's "dual-backend exports
// analyzer" supplement.
type Backend interface {
	// Name identifies the backend for diagnostics (Candidate.AnalyzerName).
	Name() string
	// Extensions lists the file extensions (with leading dot) this
	// backend handles.
	Extensions() []string
	// Analyze parses content and returns its exports, or an error if the
	// content is not syntactically valid for this backend. Analyze must
	// never panic on malformed input.
	Analyze(content, fileName string) (*types.ExportsMetadata, error)
}
