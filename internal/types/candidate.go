package types

import "time"

// AccessKind describes how a target is retrieved from a file's exports.
type AccessKind string

const (
	AccessDirect  AccessKind = "direct"  // whole-module export (module.exports = X)
	AccessDefault AccessKind = "default" // default export slot
	AccessNamed   AccessKind = "named"   // named(name) export
)

// Access is an access descriptor: how to pull a value out of a file's
// exports once it has been chosen as the resolution target.
type Access struct {
	Kind AccessKind
	Name string // set when Kind == AccessNamed
}

// ExportKind is the structural kind of an export's underlying declaration.
type ExportKind string

const (
	ExportClass    ExportKind = "class"
	ExportFunction ExportKind = "function"
	ExportObject   ExportKind = "object"
	ExportUnknown  ExportKind = "unknown"
)

// ExportInfo is the structural summary of one exported declaration,
// derived by the exports analyzer from static source.
type ExportInfo struct {
	Kind       ExportKind
	Name       string
	Methods    map[string]struct{}
	Properties map[string]struct{}
	BaseClass  string
}

// Export pairs an access descriptor with the structural info of what it
// resolves to.
type Export struct {
	Name   string // identifier the export site references (X in `module.exports = X`, `export default X`)
	Access Access
	Info   ExportInfo
}

// ExportsMetadata is the full set of exports a file publishes, as derived
// by the exports analyzer. A nil *ExportsMetadata means the file was
// unparseable or its extension has no analyzer backend; it is memoized as
// such to avoid reparse churn.
type ExportsMetadata struct {
	Exports []Export
}

// Candidate is a scanned file that passed the scanner's filename/extension
// filters and received a score for a given signature.
type Candidate struct {
	AbsPath      string
	RelPath      string
	BaseName     string
	Ext          string
	Content      string
	ModTime      time.Time
	HasModTime   bool
	Metadata     *ExportsMetadata
	AnalyzerName string // which exports backend produced Metadata, "" if none
	Score        float64
	Breakdown    map[string]float64
	Details      []ScoreDetail
}

// ScoreDetail is one rule's contribution to a candidate's total score.
type ScoreDetail struct {
	Type   string // category name, e.g. "path", "methods"
	Source string // the specific rule/pattern/method that matched
	Score  float64
}

// ResolutionRecord is what gets persisted to the two-tier cache: enough
// to re-locate and re-validate a resolved target without ever storing a
// live value.
type ResolutionRecord struct {
	RelPath   string
	Access    Access
	Score     float64
	Timestamp time.Time
	ModTimeNs int64 // 0 means "unknown"
}
