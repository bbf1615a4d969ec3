// Package signature normalizes caller-supplied Signatures into a stable
// form suitable for cache keying (spec.md §4.1).
package signature

import (
	"sort"

	discerrors "github.com/standardbeagle/sigfind/internal/errors"
	"github.com/standardbeagle/sigfind/internal/types"
)

// Normalize canonicalizes sig: method and property lists are deduplicated
// and sorted, and the original is preserved verbatim for error reporting.
// Returns an InvalidSignature error if sig is nil.
func Normalize(sig *types.Signature) (*types.NormalizedSignature, error) {
	if sig == nil {
		return nil, discerrors.InvalidSignature("signature must not be nil")
	}

	original := *sig
	ns := &types.NormalizedSignature{
		Signature: *sig,
		Original:  &original,
	}
	ns.Methods = dedupSorted(sig.Methods)
	ns.Properties = dedupSorted(sig.Properties)
	return ns, nil
}

func dedupSorted(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, v := range in {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
