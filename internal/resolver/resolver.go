// Package resolver implements the candidate resolver (spec.md §4.6):
// given an unordered set of scored candidates, find the one whose
// exported shape structurally satisfies the signature, or report
// NoMatch with alias-hint diagnostics.
package resolver

import (
	"context"
	"sort"
	"strings"

	"github.com/hbollon/go-edlib"
	"github.com/surgebase/porter2"
	"golang.org/x/sync/errgroup"

	"github.com/standardbeagle/sigfind/internal/config"
	discerrors "github.com/standardbeagle/sigfind/internal/errors"
	"github.com/standardbeagle/sigfind/internal/types"
)

// maxConcurrentResolutions is §4.6's "up to N (default 5)".
const maxConcurrentResolutions = 5

// Result is a successfully resolved target.
type Result struct {
	Candidate *types.Candidate
	Export    types.Export
}

// Resolver implements §4.6 over a fixed security policy.
type Resolver struct {
	security config.Security
}

// New builds a Resolver bound to cfg's security policy.
func New(cfg *config.Config) *Resolver {
	return &Resolver{security: cfg.Security}
}

// Resolve sorts candidates, walks score buckets highest-first, and
// attempts up to maxConcurrentResolutions resolutions per bucket in
// parallel; the first structural success within a bucket wins and no
// lower bucket is ever consulted (§5 "Ordering guarantees"). preferredExt
// implements the extension-affinity adjustment; pass "" when the caller's
// ecosystem can't be detected.
func (r *Resolver) Resolve(ctx context.Context, sig *types.NormalizedSignature, candidates []*types.Candidate, preferredExt string) (*Result, error) {
	if len(candidates) == 0 {
		return nil, r.noMatch(sig, nil)
	}

	ordered := orderCandidates(candidates, preferredExt)
	baseClasses := buildBaseClassChain(ordered)
	buckets := bucketByScore(ordered)

	for _, bucket := range buckets {
		if result := r.resolveBucket(ctx, sig, bucket, baseClasses); result != nil {
			return result, nil
		}
	}
	return nil, r.noMatch(sig, ordered)
}

func (r *Resolver) resolveBucket(ctx context.Context, sig *types.NormalizedSignature, bucket []*types.Candidate, baseClasses map[string]string) *Result {
	type attempt struct {
		index  int
		result *Result
	}
	results := make([]*Result, len(bucket))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentResolutions)

	for i, candidate := range bucket {
		i, candidate := i, candidate
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return nil
			default:
			}
			if res := r.resolveOne(sig, candidate, baseClasses); res != nil {
				results[i] = res
			}
			return nil
		})
	}
	_ = g.Wait()

	var attempts []attempt
	for i, res := range results {
		if res != nil {
			attempts = append(attempts, attempt{index: i, result: res})
		}
	}
	if len(attempts) == 0 {
		return nil
	}
	sort.Slice(attempts, func(a, b int) bool { return attempts[a].index < attempts[b].index })
	return attempts[0].result
}

// resolveOne implements the five-step per-candidate resolution
// (§4.6 "Resolution per candidate"), expressed structurally: step (iii)
// "load the file" and (iv) "apply the access descriptor" collapse into
// reading the candidate's already-parsed ExportInfo, since there is no
// runtime value to load (SPEC_FULL.md's structural-resolution
// supplement).
func (r *Resolver) resolveOne(sig *types.NormalizedSignature, candidate *types.Candidate, baseClasses map[string]string) *Result {
	if !r.passesSafetyGate(candidate.Content) {
		return nil
	}
	exp, ok := selectExport(sig, candidate)
	if !ok {
		return nil
	}
	if !validateStructural(sig, exp, baseClasses) {
		return nil
	}
	return &Result{Candidate: candidate, Export: *exp}
}

// Revalidate re-checks a single previously-resolved candidate (the
// engine's cache fast path, §4.7 "revalidate the target (cheap
// structural check)") without re-running the full scan/score pipeline.
func (r *Resolver) Revalidate(sig *types.NormalizedSignature, candidate *types.Candidate) (*types.Export, bool) {
	if !r.passesSafetyGate(candidate.Content) {
		return nil, false
	}
	exp, ok := selectExport(sig, candidate)
	if !ok {
		return nil, false
	}
	chain := buildBaseClassChain([]*types.Candidate{candidate})
	if !validateStructural(sig, exp, chain) {
		return nil, false
	}
	return exp, true
}

func (r *Resolver) passesSafetyGate(content string) bool {
	if r.security.AllowUnsafeRequires {
		return true
	}
	for _, token := range r.security.BlockedTokens {
		if token != "" && strings.Contains(content, token) {
			return false
		}
	}
	return true
}

// noMatch builds a NoMatch diagnostic with alias hints derived from the
// closest-named candidate exports, using edit-distance similarity and
// Porter2 stemming so "UserServices" still hints at "UserService"
// (§7: "aliases (if resolvable)").
func (r *Resolver) noMatch(sig *types.NormalizedSignature, ordered []*types.Candidate) error {
	if sig.Name == "" {
		return discerrors.NoMatch("no candidate satisfied the signature")
	}
	hints := aliasHints(sig.Name, ordered)
	if len(hints) == 0 {
		return discerrors.NoMatch("no candidate satisfied signature for " + sig.Name)
	}
	return discerrors.NoMatch("no candidate satisfied signature for " + sig.Name +
		"; closest names: " + strings.Join(hints, ", "))
}

const (
	aliasHintLimit         = 3
	aliasHintMinSimilarity = 0.6
)

func aliasHints(wantName string, candidates []*types.Candidate) []string {
	wantStem := porter2.Stem(strings.ToLower(wantName))

	type scored struct {
		name  string
		score float64
	}
	seen := map[string]struct{}{}
	var hints []scored

	consider := func(name string) {
		if name == "" {
			return
		}
		if _, ok := seen[name]; ok {
			return
		}
		seen[name] = struct{}{}
		haveStem := porter2.Stem(strings.ToLower(name))
		similarity, err := edlib.StringsSimilarity(wantStem, haveStem, edlib.Levenshtein)
		if err != nil {
			return
		}
		if float64(similarity) >= aliasHintMinSimilarity {
			hints = append(hints, scored{name: name, score: float64(similarity)})
		}
	}

	for _, c := range candidates {
		consider(c.BaseName)
		if c.Metadata == nil {
			continue
		}
		for _, exp := range c.Metadata.Exports {
			consider(exp.Name)
		}
	}

	sort.Slice(hints, func(i, j int) bool { return hints[i].score > hints[j].score })
	if len(hints) > aliasHintLimit {
		hints = hints[:aliasHintLimit]
	}
	out := make([]string, len(hints))
	for i, h := range hints {
		out[i] = h.name
	}
	return out
}
