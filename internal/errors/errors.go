// Package errors defines the typed error kinds that cross (or deliberately
// never cross) the discovery pipeline's public API, per the propagation
// policy in spec.md §7.
package errors

import (
	"fmt"
	"time"
)

// Kind identifies which of the spec's error categories an error belongs to.
type Kind string

const (
	KindInvalidSignature Kind = "invalid_signature"
	KindNoMatch          Kind = "no_match"
	KindFileUnreadable   Kind = "file_unreadable"
	KindParseFailed      Kind = "parse_failed"
	KindCacheIO          Kind = "cache_io"
	KindTimeout          Kind = "timeout"
	KindUnsafeCandidate  Kind = "unsafe_candidate"
)

// Error is the engine's typed error, carrying enough context for the
// diagnostics the spec requires without ever leaking raw Go errors through
// the public API.
type Error struct {
	Kind       Kind
	Operation  string
	Underlying error
	Timestamp  time.Time
	Detail     string
}

func newError(kind Kind, op string, err error) *Error {
	return &Error{Kind: kind, Operation: op, Underlying: err, Timestamp: time.Now()}
}

// InvalidSignature reports that a caller-supplied signature could not be
// normalized; fatal to the discover() call per §7.
func InvalidSignature(detail string) *Error {
	e := newError(KindInvalidSignature, "normalize", nil)
	e.Detail = detail
	return e
}

// NoMatch reports that discovery exhausted every candidate without a
// resolution. Detail carries the multi-line guidance text (§7:
// "signature echo, top candidates with breakdown, alias hints, suggested
// signature, and troubleshooting bullets").
func NoMatch(detail string) *Error {
	e := newError(KindNoMatch, "discover", nil)
	e.Detail = detail
	return e
}

// CacheIO wraps a non-fatal cache read/write failure. Never propagated to
// the public API; only optionally logged when Configuration.Cache.LogWarnings
// is set.
func CacheIO(op string, err error) *Error {
	return newError(KindCacheIO, op, err)
}

// Timeout wraps a per-operation timeout. Always converted to "unreadable"
// at the call site; never propagated.
func Timeout(op string, err error) *Error {
	return newError(KindTimeout, op, err)
}

func (e *Error) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s: %s", e.Kind, e.Detail)
	}
	if e.Underlying != nil {
		return fmt.Sprintf("%s: %s failed: %v", e.Kind, e.Operation, e.Underlying)
	}
	return fmt.Sprintf("%s: %s failed", e.Kind, e.Operation)
}

// Unwrap supports errors.Is/errors.As against the underlying cause.
func (e *Error) Unwrap() error {
	return e.Underlying
}

// Is lets callers compare by Kind via errors.Is(err, errors.NoMatch("")).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}
