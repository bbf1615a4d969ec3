package exports

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/t14raptor/go-fast/ast"
	"github.com/t14raptor/go-fast/parser"

	"github.com/standardbeagle/sigfind/internal/types"
)

// gofastBackend is the primary backend for .js/.jsx/.mjs/.cjs: a pure-Go,
// cgo-free parser well suited to CommonJS and plain ES syntax. It does not
// understand TypeScript syntax (type annotations, interfaces, generics);
// those extensions route to treesitterBackend instead.
//
// Grounded on the teacher's javascript_gofast_analyzer.go, which walks
// ast.Program.Body switching on concrete declaration types to build a
// symbol table of top-level names.
type gofastBackend struct{}

func newGofastBackend() *gofastBackend { return &gofastBackend{} }

func (b *gofastBackend) Name() string { return "gofast" }

func (b *gofastBackend) Extensions() []string {
	return []string{".js", ".jsx", ".mjs", ".cjs"}
}

func (b *gofastBackend) Analyze(content, fileName string) (*types.ExportsMetadata, error) {
	program, err := parser.ParseFile(fileName, content)
	if err != nil {
		return nil, fmt.Errorf("gofast: parse %s: %w", fileName, err)
	}

	symbols := map[string]types.ExportInfo{}
	for _, stmt := range program.Body {
		collectTopLevelSymbol(stmt, symbols)
	}
	for name, info := range symbols {
		if info.Kind == types.ExportClass {
			collectConstructorProperties(content, name, info.Properties)
		}
	}

	exportsList := scanCommonJSAndESExports(content, symbols)
	return &types.ExportsMetadata{Exports: exportsList}, nil
}

// collectTopLevelSymbol records one top-level declaration's shape into
// symbols, keyed by its bound name. Unrecognized statement kinds are
// skipped; the quality of the resulting metadata degrades gracefully
// rather than failing the whole analysis (spec.md §4.3).
func collectTopLevelSymbol(stmt ast.Stmt, symbols map[string]types.ExportInfo) {
	switch s := stmt.(type) {
	case *ast.FunctionDeclaration:
		name := extractBindingName(s.Name)
		if name == "" {
			return
		}
		symbols[name] = types.ExportInfo{Kind: types.ExportFunction, Name: name}

	case *ast.ClassDeclaration:
		name := extractBindingName(s.Name)
		if name == "" {
			return
		}
		info := types.ExportInfo{
			Kind:       types.ExportClass,
			Name:       name,
			Methods:    map[string]struct{}{},
			Properties: map[string]struct{}{},
		}
		if s.SuperClass != nil {
			info.BaseClass = extractExpressionName(s.SuperClass)
		}
		for _, el := range s.Body {
			collectClassElement(el, &info)
		}
		symbols[name] = info

	case *ast.VariableDeclaration:
		for _, decl := range s.List {
			name := extractBindingName(decl.Target)
			if name == "" {
				continue
			}
			symbols[name] = classifyInitializer(name, decl.Initializer)
		}

	case *ast.BlockStatement:
		for _, inner := range s.List {
			collectTopLevelSymbol(inner, symbols)
		}
	}
}

// classifyInitializer infers the declared shape of `const name = <expr>`.
// Function/arrow initializers become ExportFunction; everything else
// (object literals, primitives, call results) becomes ExportObject, since
// the JS value is only knowable at runtime — spec.md §6.2's "never cache
// the live value, only its static shape" applies equally here.
func classifyInitializer(name string, init ast.Expr) types.ExportInfo {
	switch init.(type) {
	case *ast.FunctionLiteral, *ast.ArrowFunctionLiteral:
		return types.ExportInfo{Kind: types.ExportFunction, Name: name}
	case *ast.ClassLiteral:
		return types.ExportInfo{Kind: types.ExportClass, Name: name,
			Methods: map[string]struct{}{}, Properties: map[string]struct{}{}}
	default:
		return types.ExportInfo{Kind: types.ExportObject, Name: name}
	}
}

// collectClassElement records one class member's name into info. Static
// members are excluded: spec.md §4.3 defines a class-like declaration's
// methods/properties as instance members only. Grounded on the teacher's
// javascript_gofast_analyzer.go, which reads e.Static off these same node
// types when building its own method/field symbols.
func collectClassElement(el ast.ClassElement, info *types.ExportInfo) {
	switch e := el.(type) {
	case *ast.MethodDefinition:
		if e.Static {
			return
		}
		name := extractExpressionName(e.Key)
		if name != "" {
			info.Methods[name] = struct{}{}
		}
	case *ast.FieldDefinition:
		if e.Static {
			return
		}
		name := extractExpressionName(e.Key)
		if name != "" {
			info.Properties[name] = struct{}{}
		}
	}
}

var thisAssignPattern = regexp.MustCompile(`\bthis\.([A-Za-z_$][\w$]*)\s*=[^=]`)

// collectConstructorProperties adds every `this.x = ...` assignment found
// in className's constructor body to properties (spec.md §4.3: properties
// include "identifiers assigned on the self-reference within the
// constructor body"). go-fast's typed AST shape for assignment/member
// expressions inside a function body isn't exercised anywhere in the
// teacher, so this locates the constructor's source span textually, the
// same approach commonjs.go takes for export-assignment sites the AST
// layer doesn't model directly.
func collectConstructorProperties(content, className string, properties map[string]struct{}) {
	classBody, ok := locateClassBody(content, className)
	if !ok {
		return
	}
	ctorBody, ok := bracedSpanAfter(classBody, constructorHeaderPattern)
	if !ok {
		return
	}
	for _, m := range thisAssignPattern.FindAllStringSubmatch(ctorBody, -1) {
		properties[m[1]] = struct{}{}
	}
}

var (
	constructorHeaderPattern = regexp.MustCompile(`\bconstructor\s*\([^)]*\)\s*`)
)

func classHeaderPattern(name string) *regexp.Regexp {
	return regexp.MustCompile(`\bclass\s+` + regexp.QuoteMeta(name) + `\b`)
}

func classExprAssignPattern(name string) *regexp.Regexp {
	return regexp.MustCompile(regexp.QuoteMeta(name) + `\s*=\s*class\b`)
}

// locateClassBody returns the brace-delimited body text of className's
// class declaration, or its class-expression form when the class is bound
// via an assignment (`const Foo = class { ... }`) rather than declared by
// name.
func locateClassBody(content, className string) (string, bool) {
	if body, ok := bracedSpanAfter(content, classHeaderPattern(className)); ok {
		return body, true
	}
	return bracedSpanAfter(content, classExprAssignPattern(className))
}

// bracedSpanAfter finds re's first match in text, then returns the
// contents of the first brace-delimited block that begins after the
// match, tracking nesting depth so inner braces don't end the scan early.
func bracedSpanAfter(text string, re *regexp.Regexp) (string, bool) {
	loc := re.FindStringIndex(text)
	if loc == nil {
		return "", false
	}
	rest := text[loc[1]:]
	braceOffset := strings.IndexByte(rest, '{')
	if braceOffset == -1 {
		return "", false
	}
	start := loc[1] + braceOffset

	depth := 0
	for i := start; i < len(text); i++ {
		switch text[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return text[start+1 : i], true
			}
		}
	}
	return "", false
}

// extractBindingName unwraps the simple identifier case of a binding
// target; destructuring patterns are not needed for top-level export
// resolution and are skipped.
func extractBindingName(target ast.Target) string {
	switch t := target.(type) {
	case *ast.Identifier:
		return t.Name
	default:
		return ""
	}
}

// extractExpressionName resolves the handful of expression shapes that
// can appear as a class name, super-class reference, or member key.
func extractExpressionName(expr ast.Expr) string {
	switch e := expr.(type) {
	case *ast.Identifier:
		return e.Name
	case *ast.PrivateIdentifier:
		return e.Identifier.Name
	case *ast.StringLiteral:
		return e.Value
	default:
		return ""
	}
}
