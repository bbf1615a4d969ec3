// Package config defines the merged configuration schema the discovery
// core consumes (spec.md §6.1). Loading from multiple sources (global +
// project + CLI flags) is the caller's concern and out of scope here;
// this package only defines the schema, its defaults, validation, and a
// single-document KDL parser.
package config

import "fmt"

// Config is the merged, read-only configuration object the engine is
// constructed with.
type Config struct {
	Extensions      []string
	MaxDepth        int
	SkipDirectories map[string]struct{}
	// SkipPatterns are doublestar glob patterns (relative to the scan
	// root) matched against each candidate path in addition to the plain
	// directory-name skip set, e.g. "**/*.min.js".
	SkipPatterns []string
	Concurrency  int
	Scoring      Scoring
	Cache        Cache
	Security     Security
}

// Scoring holds every weight the scoring engine (internal/scoring) reads.
type Scoring struct {
	MinCandidateScore float64
	Paths             PathWeights
	FileName          FileNameWeights
	Extensions        map[string]float64
	TypeHints         map[string]float64
	Methods           MentionWeights
	Exports           ExportWeights
	Names             MentionWeights
	Target            TargetWeights
	Recency           RecencyWeights
	Custom            []CustomScorerConfig
}

// PathWeights is a substring -> weight map, split into positive and
// negative contributions per §4.4 category 1. Patterns are plain
// substrings only; callable path patterns are not supported.
type PathWeights struct {
	Positive map[string]float64
	Negative map[string]float64
}

// FileNameWeights implements §4.4 category 3.
type FileNameWeights struct {
	ExactMatch      float64
	CaseInsensitive float64
	PartialMatch    float64
	RegexMatch      float64
}

// MentionWeights backs both the "methods" and "names" scoring categories
// (§4.4 categories 5 and 7), which share the same per-mention/cap shape.
type MentionWeights struct {
	PerMention  float64
	MaxMentions int
}

// ExportWeights backs §4.4 category 6.
type ExportWeights struct {
	ModuleExports float64
	NamedExport   float64
	DefaultExport float64
}

// TargetWeights is read by the scoring engine: ExactName is added as a
// "target" contribution when a candidate's base name equals the
// signature's literal name. Structural validation in the resolver does not
// read it.
type TargetWeights struct {
	ExactName float64
}

// RecencyWeights backs §4.4 category 9's exponential mtime decay.
type RecencyWeights struct {
	MaxBonus       float64
	HalfLifeHours  float64
}

// CustomScorerConfig names a custom scorer for config-file provenance;
// the callable itself is supplied by the caller in code, not parsed from
// a config file.
type CustomScorerConfig struct {
	Name string
}

// Cache holds the two-tier cache policy (§4.7).
type Cache struct {
	Enabled     bool
	File        string
	TTLSeconds  int64
	LogWarnings bool
}

// Security holds the safe-mode policy consumed by the resolver (§4.6 step i).
type Security struct {
	AllowUnsafeRequires bool
	BlockedTokens       []string
}

// Default returns the schema's documented defaults.
func Default() *Config {
	return &Config{
		Extensions: []string{".js", ".jsx", ".ts", ".tsx", ".mjs", ".cjs"},
		MaxDepth:   10,
		SkipDirectories: map[string]struct{}{
			"node_modules": {}, ".git": {}, "dist": {}, "build": {}, "coverage": {},
			".next": {}, ".cache": {}, "vendor": {},
		},
		SkipPatterns: []string{"**/*.min.js", "**/*.generated.ts"},
		Concurrency:  8,
		Scoring: Scoring{
			MinCandidateScore: 0,
			Paths: PathWeights{
				Positive: map[string]float64{"/src/": 15, "/lib/": 10, "/services/": 10},
				Negative: map[string]float64{"/test/": -30, "/tests/": -30, "/__tests__/": -30, "/spec/": -25},
			},
			FileName: FileNameWeights{ExactMatch: 30, CaseInsensitive: 20, PartialMatch: 10, RegexMatch: 25},
			Extensions: map[string]float64{".ts": 8, ".tsx": 8, ".js": 0, ".jsx": 0, ".mjs": 0, ".cjs": 0},
			TypeHints:  map[string]float64{"class": 15, "function": 15, "module": 10},
			Methods:    MentionWeights{PerMention: 8, MaxMentions: 5},
			Exports:    ExportWeights{ModuleExports: 12, NamedExport: 12, DefaultExport: 12},
			Names:      MentionWeights{PerMention: 3, MaxMentions: 10},
			Target:     TargetWeights{ExactName: 20},
			Recency:    RecencyWeights{MaxBonus: 5, HalfLifeHours: 24 * 14},
		},
		Cache: Cache{
			Enabled:     true,
			File:        ".adaptive-tests-cache.json",
			TTLSeconds:  0,
			LogWarnings: false,
		},
		Security: Security{
			AllowUnsafeRequires: false,
			BlockedTokens:       []string{"process.exit(", "eval(", "child_process"},
		},
	}
}

// Validate bounds scoring weights to sane ranges, mirroring the teacher's
// SearchRanking.Validate guard against configuration that would silently
// break ranking.
func (c *Config) Validate() error {
	if c.MaxDepth < 1 {
		return fmt.Errorf("config: maxDepth must be >= 1, got %d", c.MaxDepth)
	}
	if c.Concurrency < 1 {
		return fmt.Errorf("config: concurrency must be >= 1, got %d", c.Concurrency)
	}
	if len(c.Extensions) == 0 {
		return fmt.Errorf("config: extensions must not be empty")
	}
	if c.Scoring.Methods.MaxMentions < 0 || c.Scoring.Names.MaxMentions < 0 {
		return fmt.Errorf("config: maxMentions must be >= 0")
	}
	if c.Cache.TTLSeconds < 0 {
		return fmt.Errorf("config: cache.ttl must be >= 0 (0 means no TTL)")
	}
	for name, w := range c.Scoring.Extensions {
		if w > 1000 || w < -1000 {
			return fmt.Errorf("config: scoring.extensions[%s] must be between -1000 and 1000, got %v", name, w)
		}
	}
	return nil
}
