// Package scoring implements the scoring engine (spec.md §4.4): given a
// normalized signature and a candidate's static facts (path, name,
// extension, content, exports metadata, modification time), produce a
// total score plus a per-category breakdown and a list of score details
// suitable for explain() diagnostics.
package scoring

import (
	"math"
	"regexp"
	"strings"
	"time"

	"github.com/standardbeagle/sigfind/internal/config"
	"github.com/standardbeagle/sigfind/internal/types"
)

// Input bundles the static facts the scoring engine needs about one
// candidate file. It never touches the filesystem itself.
type Input struct {
	RelPath  string
	BaseName string // file name without extension
	Ext      string
	Content  string
	Metadata *types.ExportsMetadata
	ModTime  time.Time
	HasMTime bool
}

// Score evaluates in against sig using the weights in cfg, returning the
// total, a category-keyed breakdown, and ordered details for diagnostics.
func Score(cfg *config.Scoring, sig *types.NormalizedSignature, in Input) (float64, map[string]float64, []types.ScoreDetail) {
	breakdown := make(map[string]float64, 9)
	var details []types.ScoreDetail

	add := func(category, source string, value float64) {
		if value == 0 {
			return
		}
		breakdown[category] += value
		details = append(details, types.ScoreDetail{Type: category, Source: source, Score: value})
	}

	scorePath(cfg, in.RelPath, add)
	scoreFileName(cfg, sig, in.BaseName, add)
	scoreExtension(cfg, in.Ext, add)
	scoreTypeHints(cfg, sig, in.Metadata, add)
	scoreMethods(cfg, sig, in.Content, add)
	scoreExports(cfg, sig, in.Content, add)
	scoreNames(cfg, sig, in.Content, add)
	scoreCustom(cfg, sig, in, add)
	scoreRecency(cfg, in.ModTime, in.HasMTime, add)
	scoreTargetExactName(cfg, sig, in.BaseName, add)

	total := 0.0
	for _, v := range breakdown {
		total += v
	}
	return total, breakdown, details
}

func scorePath(cfg *config.Scoring, relPath string, add func(string, string, float64)) {
	lower := strings.ToLower(filepathToSlash(relPath))
	for substr, weight := range cfg.Paths.Positive {
		if strings.Contains(lower, strings.ToLower(substr)) {
			add("path", substr, weight)
		}
	}
	for substr, weight := range cfg.Paths.Negative {
		if strings.Contains(lower, strings.ToLower(substr)) {
			add("path", substr, -math.Abs(weight))
		}
	}
}

func filepathToSlash(p string) string {
	return strings.ReplaceAll(p, "\\", "/")
}

func scoreFileName(cfg *config.Scoring, sig *types.NormalizedSignature, baseName string, add func(string, string, float64)) {
	if sig.HasNameRegex() {
		if sig.NameRegex.MatchString(baseName) {
			add("fileName", "regex", cfg.FileName.RegexMatch)
		}
		return
	}
	if sig.Name == "" {
		return
	}
	switch {
	case baseName == sig.Name:
		add("fileName", "exact", cfg.FileName.ExactMatch)
	case strings.EqualFold(baseName, sig.Name):
		add("fileName", "case-insensitive", cfg.FileName.CaseInsensitive)
	case strings.Contains(strings.ToLower(baseName), strings.ToLower(sig.Name)):
		add("fileName", "partial", cfg.FileName.PartialMatch)
	}
}

func scoreExtension(cfg *config.Scoring, ext string, add func(string, string, float64)) {
	if weight, ok := cfg.Extensions[strings.ToLower(ext)]; ok {
		add("extension", ext, weight)
	}
}

func scoreTypeHints(cfg *config.Scoring, sig *types.NormalizedSignature, metadata *types.ExportsMetadata, add func(string, string, float64)) {
	if metadata == nil || sig.Type == "" {
		return
	}
	weight, ok := cfg.TypeHints[string(sig.Type)]
	if !ok {
		return
	}
	wantKind := targetKindToExportKind(sig.Type)
	for _, exp := range metadata.Exports {
		if exp.Info.Kind == wantKind {
			add("typeHints", string(sig.Type), weight)
			return
		}
	}
}

func targetKindToExportKind(t types.TargetType) types.ExportKind {
	switch t {
	case types.TargetClass:
		return types.ExportClass
	case types.TargetFunction:
		return types.ExportFunction
	case types.TargetObject:
		return types.ExportObject
	default:
		return types.ExportUnknown
	}
}

// wordBoundaryPattern compiles a regex matching name at a word boundary, so
// a short name like "User" doesn't fire inside "UserServiceFactory" or
// "SuperUser" (spec.md §4.4 #5/#7: "word-boundary-bounded occurrence").
func wordBoundaryPattern(name string) *regexp.Regexp {
	return regexp.MustCompile(`\b` + regexp.QuoteMeta(name) + `\b`)
}

// scoreMethods is a content-text signal (spec.md §4.4 #5): it searches the
// candidate's raw source for a word-boundary occurrence of each wanted
// method name, independent of whatever the exports analyzer could parse.
// This is what keeps methods scoring alive for the null-metadata/parse-failed
// fallback the spec's §4.3 failure modes describe; structural method
// membership (static-ness, which class a method belongs to) is the
// resolver's concern, not the scorer's.
func scoreMethods(cfg *config.Scoring, sig *types.NormalizedSignature, content string, add func(string, string, float64)) {
	if len(sig.Methods) == 0 || content == "" {
		return
	}
	mentions := 0
	for _, m := range sig.Methods {
		if m == "" {
			continue
		}
		if !wordBoundaryPattern(m).MatchString(content) {
			continue
		}
		mentions++
		if cfg.Methods.MaxMentions > 0 && mentions > cfg.Methods.MaxMentions {
			break
		}
		add("methods", m, cfg.Methods.PerMention)
	}
}

// Export-assignment idioms scanned by scoreExports (spec.md §4.4 #6): the
// same shallow textual patterns the exports analyzer's commonjs.go uses to
// find assignment *sites*, but here read straight off content rather than
// resolved against a parsed symbol table — this is a scoring signal, not a
// structural selection, so it has to survive when the file didn't parse.
var (
	exportsDirectIdiom  = regexp.MustCompile(`(?m)^\s*module\.exports\s*=\s*([A-Za-z_$][\w$]*)\s*;?\s*$`)
	exportsModuleNamed  = regexp.MustCompile(`(?m)^\s*module\.exports\.([A-Za-z_$][\w$]*)\s*=`)
	exportsBareNamed    = regexp.MustCompile(`(?m)^\s*exports\.([A-Za-z_$][\w$]*)\s*=`)
	exportsDefaultIdiom = regexp.MustCompile(`(?m)^\s*export\s+default\s+([A-Za-z_$][\w$]*)\s*;?\s*$`)
	exportsDeclIdiom    = regexp.MustCompile(`(?m)^\s*export\s+(?:async\s+)?(?:class|function\*?|const|let|var)\s+([A-Za-z_$][\w$]*)`)
)

func scoreExports(cfg *config.Scoring, sig *types.NormalizedSignature, content string, add func(string, string, float64)) {
	if content == "" {
		return
	}
	nameMatches := func(name string) bool {
		if sig.HasNameRegex() {
			return sig.NameRegex.MatchString(name)
		}
		if sig.Name == "" {
			return true
		}
		return name == sig.Name
	}

	for _, m := range exportsDirectIdiom.FindAllStringSubmatch(content, -1) {
		if nameMatches(m[1]) {
			add("exports", "module.exports", cfg.Exports.ModuleExports)
		}
	}
	for _, m := range exportsModuleNamed.FindAllStringSubmatch(content, -1) {
		if nameMatches(m[1]) {
			add("exports", "named:"+m[1], cfg.Exports.NamedExport)
		}
	}
	for _, m := range exportsBareNamed.FindAllStringSubmatch(content, -1) {
		if nameMatches(m[1]) {
			add("exports", "named:"+m[1], cfg.Exports.NamedExport)
		}
	}
	for _, m := range exportsDefaultIdiom.FindAllStringSubmatch(content, -1) {
		if nameMatches(m[1]) {
			add("exports", "default", cfg.Exports.DefaultExport)
		}
	}
	for _, m := range exportsDeclIdiom.FindAllStringSubmatch(content, -1) {
		if nameMatches(m[1]) {
			add("exports", "named:"+m[1], cfg.Exports.NamedExport)
		}
	}
}

func scoreNames(cfg *config.Scoring, sig *types.NormalizedSignature, content string, add func(string, string, float64)) {
	if sig.Name == "" || content == "" {
		return
	}
	count := len(wordBoundaryPattern(sig.Name).FindAllStringIndex(content, -1))
	if count == 0 {
		return
	}
	if cfg.Names.MaxMentions > 0 && count > cfg.Names.MaxMentions {
		count = cfg.Names.MaxMentions
	}
	add("names", sig.Name, float64(count)*cfg.Names.PerMention)
}

func scoreCustom(cfg *config.Scoring, sig *types.NormalizedSignature, in Input, add func(string, string, float64)) {
	if len(sig.Custom) == 0 {
		return
	}
	candidate := &types.Candidate{
		RelPath:  in.RelPath,
		BaseName: in.BaseName,
		Ext:      in.Ext,
		Content:  in.Content,
		Metadata: in.Metadata,
	}
	for i, scorer := range sig.Custom {
		if scorer == nil {
			continue
		}
		name := ""
		if i < len(cfg.Custom) {
			name = cfg.Custom[i].Name
		}
		value := func() (v float64) {
			defer func() {
				if recover() != nil {
					v = 0
				}
			}()
			return scorer(candidate, &sig.Signature, in.Content)
		}()
		add("custom", name, value)
	}
}

func scoreRecency(cfg *config.Scoring, modTime time.Time, hasMTime bool, add func(string, string, float64)) {
	if !hasMTime || cfg.Recency.MaxBonus == 0 || cfg.Recency.HalfLifeHours <= 0 {
		return
	}
	ageHours := time.Since(modTime).Hours()
	if ageHours < 0 {
		ageHours = 0
	}
	decay := math.Pow(0.5, ageHours/cfg.Recency.HalfLifeHours)
	add("recency", "mtime", cfg.Recency.MaxBonus*decay)
}

func scoreTargetExactName(cfg *config.Scoring, sig *types.NormalizedSignature, baseName string, add func(string, string, float64)) {
	if sig.HasNameRegex() || sig.Name == "" {
		return
	}
	if baseName == sig.Name {
		add("target", "exactName", cfg.Target.ExactName)
	}
}

// MeetsThreshold reports whether total clears the configured minimum
// candidate score (spec.md §4.5's emission threshold).
func MeetsThreshold(cfg *config.Scoring, total float64) bool {
	return total >= cfg.MinCandidateScore
}
