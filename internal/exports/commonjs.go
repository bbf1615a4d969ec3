package exports

import (
	"regexp"
	"strings"

	"github.com/standardbeagle/sigfind/internal/types"
)

// CommonJS export assignments (`module.exports = X`, `exports.X = Y`,
// `module.exports.X = Y`) are a shallow textual idiom rather than a single
// AST node shape — the teacher's own regex-backed analysis subsystem
// (internal/search's hybrid regex/AST analyzer) takes the same approach
// for constructs its AST layer doesn't model directly. Declarations
// (function/class/var) are still resolved from the real parse tree in
// gofast_backend.go; only the assignment *site* is found textually, then
// resolved against the declaration symbol table collected from the AST.
var (
	moduleExportsWhole = regexp.MustCompile(`(?m)^\s*module\.exports\s*=\s*([A-Za-z_$][\w$]*)\s*;?\s*$`)
	moduleExportsNamed = regexp.MustCompile(`(?m)^\s*module\.exports\.([A-Za-z_$][\w$]*)\s*=\s*([A-Za-z_$][\w$]*)\s*;?\s*$`)
	exportsNamed       = regexp.MustCompile(`(?m)^\s*exports\.([A-Za-z_$][\w$]*)\s*=\s*([A-Za-z_$][\w$]*)\s*;?\s*$`)
	moduleExportsObj   = regexp.MustCompile(`(?m)^\s*module\.exports\s*=\s*\{`)
	esDefaultExport    = regexp.MustCompile(`(?m)^\s*export\s+default\s+([A-Za-z_$][\w$]*)\s*;?\s*$`)
	esNamedExportDecl  = regexp.MustCompile(`(?m)^\s*export\s+(?:async\s+)?(?:class|function\*?|const|let|var)\s+([A-Za-z_$][\w$]*)`)
)

// scanCommonJSAndESExports finds export-assignment sites in content and
// resolves each referenced identifier against symbols, the table of
// top-level declarations collected from the parsed AST. Identifiers with
// no matching declaration still produce an Export whose ExportInfo has
// kind unknown and only the name set, since the referenced value may come
// from another file.
func scanCommonJSAndESExports(content string, symbols map[string]types.ExportInfo) []types.Export {
	var out []types.Export
	seen := map[string]struct{}{}

	add := func(e types.Export) {
		key := string(e.Access.Kind) + "|" + e.Access.Name
		if _, ok := seen[key]; ok {
			return
		}
		seen[key] = struct{}{}
		out = append(out, e)
	}

	for _, m := range moduleExportsWhole.FindAllStringSubmatch(content, -1) {
		add(types.Export{
			Name:   m[1],
			Access: types.Access{Kind: types.AccessDirect},
			Info:   resolveSymbol(symbols, m[1]),
		})
	}
	for _, m := range moduleExportsNamed.FindAllStringSubmatch(content, -1) {
		add(types.Export{
			Name:   m[2],
			Access: types.Access{Kind: types.AccessNamed, Name: m[1]},
			Info:   resolveSymbol(symbols, m[2]),
		})
	}
	for _, m := range exportsNamed.FindAllStringSubmatch(content, -1) {
		add(types.Export{
			Name:   m[2],
			Access: types.Access{Kind: types.AccessNamed, Name: m[1]},
			Info:   resolveSymbol(symbols, m[2]),
		})
	}
	if moduleExportsObj.MatchString(content) {
		// `module.exports = { a, b, Foo }` — only bare identifier
		// shorthand properties are resolved against known symbols; this
		// mirrors the scanner's "best-effort, never fail the whole file"
		// stance (spec.md §4.3 failure modes).
		for name := range extractObjectShorthand(content) {
			add(types.Export{
				Name:   name,
				Access: types.Access{Kind: types.AccessNamed, Name: name},
				Info:   resolveSymbol(symbols, name),
			})
		}
	}
	if m := esDefaultExport.FindStringSubmatch(content); m != nil {
		add(types.Export{
			Name:   m[1],
			Access: types.Access{Kind: types.AccessDefault},
			Info:   resolveSymbol(symbols, m[1]),
		})
	}
	for _, m := range esNamedExportDecl.FindAllStringSubmatch(content, -1) {
		add(types.Export{
			Name:   m[1],
			Access: types.Access{Kind: types.AccessNamed, Name: m[1]},
			Info:   resolveSymbol(symbols, m[1]),
		})
	}

	return out
}

func resolveSymbol(symbols map[string]types.ExportInfo, name string) types.ExportInfo {
	if info, ok := symbols[name]; ok {
		return info
	}
	return types.ExportInfo{Kind: types.ExportUnknown, Name: name}
}

var objShorthandBody = regexp.MustCompile(`module\.exports\s*=\s*\{([^}]*)\}`)

func extractObjectShorthand(content string) map[string]types.ExportInfo {
	result := map[string]types.ExportInfo{}
	m := objShorthandBody.FindStringSubmatch(content)
	if m == nil {
		return result
	}
	for _, part := range strings.Split(m[1], ",") {
		part = strings.TrimSpace(part)
		if part == "" || strings.Contains(part, ":") {
			continue // keyed property, not shorthand; skip rather than guess
		}
		if isIdentifier(part) {
			result[part] = types.ExportInfo{Kind: types.ExportUnknown, Name: part}
		}
	}
	return result
}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_' || r == '$':
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9' && i > 0:
		default:
			return false
		}
	}
	return true
}
