// Package evaluator implements the candidate evaluator (spec.md §4.5):
// it turns one scanner-discovered file into a scored Candidate, applying
// a cheap name pre-filter before paying for content reads and export
// analysis.
package evaluator

import (
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"github.com/standardbeagle/sigfind/internal/config"
	"github.com/standardbeagle/sigfind/internal/exports"
	"github.com/standardbeagle/sigfind/internal/scoring"
	"github.com/standardbeagle/sigfind/internal/types"
)

// Evaluator turns (path, os.FileInfo) pairs into scored candidates.
type Evaluator struct {
	cfg      *config.Config
	analyzer *exports.Analyzer
}

// New builds an Evaluator bound to cfg and analyzer.
func New(cfg *config.Config, analyzer *exports.Analyzer) *Evaluator {
	return &Evaluator{cfg: cfg, analyzer: analyzer}
}

// Evaluate scores the file at absPath relative to root against sig. It
// returns (nil, nil) — not an error — for files that fail the name
// pre-filter or whose score doesn't clear MinCandidateScore, since
// neither is a failure of the evaluation itself (spec.md §4.5).
func (e *Evaluator) Evaluate(sig *types.NormalizedSignature, root, absPath string, info os.FileInfo) (*types.Candidate, error) {
	ext := filepath.Ext(absPath)
	baseName := strings.TrimSuffix(filepath.Base(absPath), ext)

	if !PassesNameFilter(sig, baseName) {
		return nil, nil
	}

	content, err := os.ReadFile(absPath)
	if err != nil {
		// Unreadable files are skipped, not failures (§4.2/§4.5).
		return nil, nil
	}

	relPath, err := filepath.Rel(root, absPath)
	if err != nil {
		relPath = absPath
	}

	metadata := e.analyzer.Analyze(string(content), absPath)

	modTime := time.Time{}
	hasModTime := false
	if info != nil {
		modTime = info.ModTime()
		hasModTime = true
	}

	total, breakdown, details := scoring.Score(&e.cfg.Scoring, sig, scoring.Input{
		RelPath:  relPath,
		BaseName: baseName,
		Ext:      ext,
		Content:  string(content),
		Metadata: metadata,
		ModTime:  modTime,
		HasMTime: hasModTime,
	})

	if !scoring.MeetsThreshold(&e.cfg.Scoring, total) {
		return nil, nil
	}

	return &types.Candidate{
		AbsPath:      absPath,
		RelPath:      relPath,
		BaseName:     baseName,
		Ext:          ext,
		Content:      string(content),
		ModTime:      modTime,
		HasModTime:   hasModTime,
		Metadata:     metadata,
		AnalyzerName: e.analyzer.BackendName(absPath),
		Score:        total,
		Breakdown:    breakdown,
		Details:      details,
	}, nil
}

// PassesNameFilter implements the quick name pre-filter (spec.md §4.5): a
// regex signature always passes through to full evaluation (the cheap
// filter can't evaluate a regex against a tokenized name cheaply without
// risking false negatives), and a literal name must share at least one
// case-folded token with the candidate's tokenized base name.
//
// Grounded on the teacher's camelCase/separator tokenizer
// (internal/semantic/name_splitter.go): split on any non-alphanumeric
// character and on lower→upper and acronym→word case transitions (digits
// do not start a new token), then compare token sets.
func PassesNameFilter(sig *types.NormalizedSignature, baseName string) bool {
	if sig.HasNameRegex() || sig.Name == "" {
		return true
	}
	sigTokens := tokenize(sig.Name)
	if len(sigTokens) == 0 {
		return true
	}
	nameTokens := tokenize(baseName)
	for _, want := range sigTokens {
		for _, have := range nameTokens {
			if want == have {
				return true
			}
		}
	}
	return false
}

// tokenize splits s on non-alphanumeric separators and camelCase
// boundaries, lower-casing every token.
func tokenize(s string) []string {
	var tokens []string
	var current strings.Builder

	flush := func() {
		if current.Len() > 0 {
			tokens = append(tokens, strings.ToLower(current.String()))
			current.Reset()
		}
	}

	runes := []rune(s)
	for i, r := range runes {
		switch {
		case !unicode.IsLetter(r) && !unicode.IsDigit(r):
			flush()
		case i > 0 && unicode.IsUpper(r) && unicode.IsLower(runes[i-1]):
			flush()
			current.WriteRune(r)
		case i > 0 && unicode.IsUpper(r) && unicode.IsUpper(runes[i-1]) && i+1 < len(runes) && unicode.IsLower(runes[i+1]):
			flush()
			current.WriteRune(r)
		default:
			current.WriteRune(r)
		}
	}
	flush()
	return tokens
}
