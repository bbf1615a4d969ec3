// Package types holds the data model shared across the discovery pipeline:
// signatures, candidates, exports metadata, and resolution records.
package types

import "regexp"

// TargetType is the kind tag a Signature may pin a target to.
type TargetType string

const (
	TargetClass    TargetType = "class"
	TargetFunction TargetType = "function"
	TargetObject   TargetType = "object"
	TargetModule   TargetType = "module"
)

// CustomScorer is invoked with a candidate's file and content during scoring.
// Implementations must not panic; the scoring engine recovers regardless.
type CustomScorer func(candidate *Candidate, sig *Signature, content string) float64

// Signature is a partial structural description of a target, used as a
// discovery query. Name may be a literal string or a compiled regex; at
// most one of the two is set.
type Signature struct {
	Name       string
	NameRegex  *regexp.Regexp
	Type       TargetType
	Exports    string
	Methods    []string
	Properties []string
	Extends    string
	Instanceof string
	Custom     []CustomScorer
}

// HasNameRegex reports whether the signature's name is a regex rather than
// a literal string.
func (s *Signature) HasNameRegex() bool {
	return s.NameRegex != nil
}

// NormalizedSignature is a Signature with deduplicated, sorted method and
// property lists, plus the original signature preserved for diagnostics.
// It is immutable once built by signature.Normalize.
type NormalizedSignature struct {
	Signature
	Original *Signature
}
