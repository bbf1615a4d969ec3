package resolver

import (
	"sort"

	"github.com/standardbeagle/sigfind/internal/types"
)

// orderCandidates implements §4.6's ordering: (score desc, path asc), with
// candidates whose extension matches preferredExt moved ahead of the rest
// before the score comparison (the "extension affinity" adjustment).
func orderCandidates(candidates []*types.Candidate, preferredExt string) []*types.Candidate {
	ordered := make([]*types.Candidate, len(candidates))
	copy(ordered, candidates)

	sort.SliceStable(ordered, func(i, j int) bool {
		a, b := ordered[i], ordered[j]
		if preferredExt != "" {
			ai, bi := a.Ext == preferredExt, b.Ext == preferredExt
			if ai != bi {
				return ai
			}
		}
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		return a.RelPath < b.RelPath
	})
	return ordered
}

// bucketByScore groups an already-ordered candidate slice into
// consecutive runs sharing the same score, preserving order. Each bucket
// is attempted in full before the resolver moves to the next.
func bucketByScore(ordered []*types.Candidate) [][]*types.Candidate {
	var buckets [][]*types.Candidate
	var current []*types.Candidate
	for _, c := range ordered {
		if len(current) > 0 && current[0].Score != c.Score {
			buckets = append(buckets, current)
			current = nil
		}
		current = append(current, c)
	}
	if len(current) > 0 {
		buckets = append(buckets, current)
	}
	return buckets
}

// buildBaseClassChain scans every candidate's exports for class entries
// and records class name -> recorded base class, the explicit
// inheritance graph the structural `extends`/`instanceof` checks walk
// (§4.6 supplement) in place of a runtime prototype chain.
func buildBaseClassChain(candidates []*types.Candidate) map[string]string {
	chain := map[string]string{}
	for _, c := range candidates {
		if c.Metadata == nil {
			continue
		}
		for _, exp := range c.Metadata.Exports {
			if exp.Info.Kind == types.ExportClass && exp.Info.BaseClass != "" {
				chain[exp.Info.Name] = exp.Info.BaseClass
			}
		}
	}
	return chain
}
