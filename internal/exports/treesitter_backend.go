package exports

import (
	"fmt"

	sitter "github.com/tree-sitter/go-tree-sitter"
	tstypescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"

	"github.com/standardbeagle/sigfind/internal/types"
)

// treesitterBackend handles .ts/.tsx: go-fast doesn't parse TypeScript
// syntax (type annotations, interfaces, generics), so those extensions
// need a grammar-aware parser instead. Grounded on the teacher's
// tree-sitter setup (parser_language_setup.go), which loads a grammar per
// extension and walks the concrete syntax tree by node kind rather than
// building a typed AST.
type treesitterBackend struct{}

func newTreesitterBackend() *treesitterBackend { return &treesitterBackend{} }

func (b *treesitterBackend) Name() string { return "tree-sitter-typescript" }

func (b *treesitterBackend) Extensions() []string { return []string{".ts", ".tsx"} }

func (b *treesitterBackend) Analyze(content, fileName string) (*types.ExportsMetadata, error) {
	lang := languageForExtension(fileName)

	parser := sitter.NewParser()
	defer parser.Close()
	if err := parser.SetLanguage(lang); err != nil {
		return nil, fmt.Errorf("tree-sitter: set language failed: %w", err)
	}

	source := []byte(content)
	tree := parser.Parse(source, nil)
	if tree == nil {
		return nil, fmt.Errorf("tree-sitter: parse returned no tree for %s", fileName)
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.HasError() {
		return nil, fmt.Errorf("tree-sitter: syntax error in %s", fileName)
	}

	symbols := map[string]types.ExportInfo{}
	collectTSSymbols(root, source, symbols)

	exportsList := scanCommonJSAndESExports(content, symbols)
	return &types.ExportsMetadata{Exports: exportsList}, nil
}

func languageForExtension(fileName string) *sitter.Language {
	if hasSuffixFold(fileName, ".tsx") {
		return sitter.NewLanguage(tstypescript.LanguageTSX())
	}
	return sitter.NewLanguage(tstypescript.LanguageTypescript())
}

func hasSuffixFold(s, suffix string) bool {
	if len(s) < len(suffix) {
		return false
	}
	tail := s[len(s)-len(suffix):]
	for i := range tail {
		c1, c2 := tail[i], suffix[i]
		if c1 >= 'A' && c1 <= 'Z' {
			c1 += 'a' - 'A'
		}
		if c1 != c2 {
			return false
		}
	}
	return true
}

// collectTSSymbols walks the concrete syntax tree looking for top-level
// class_declaration, function_declaration, and lexical_declaration nodes,
// the same three shapes the gofast backend collects for .js files.
func collectTSSymbols(node *sitter.Node, source []byte, symbols map[string]types.ExportInfo) {
	count := int(node.ChildCount())
	for i := 0; i < count; i++ {
		child := node.Child(uint(i))
		if child == nil {
			continue
		}
		switch child.Kind() {
		case "class_declaration":
			recordTSClass(child, source, symbols)
		case "function_declaration":
			recordTSFunction(child, source, symbols)
		case "lexical_declaration", "variable_declaration":
			recordTSVariable(child, source, symbols)
		case "export_statement":
			collectTSSymbols(child, source, symbols)
		}
	}
}

// recordTSClass records a class declaration's methods/properties, skipping
// static members (spec.md §4.3: these are instance-only) and collecting
// `this.x = ...` assignments from the constructor body as properties
// (spec.md §4.3's "identifiers assigned on the self-reference within the
// constructor body"). Both checks read off the concrete syntax tree's
// stable node kinds, the same convention this file already uses for
// "method_definition"/"public_field_definition".
func recordTSClass(node *sitter.Node, source []byte, symbols map[string]types.ExportInfo) {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return
	}
	name := nameNode.Utf8Text(source)
	info := types.ExportInfo{Kind: types.ExportClass, Name: name,
		Methods: map[string]struct{}{}, Properties: map[string]struct{}{}}

	if heritage := node.ChildByFieldName("superclass"); heritage != nil {
		info.BaseClass = heritage.Utf8Text(source)
	}

	if body := node.ChildByFieldName("body"); body != nil {
		count := int(body.ChildCount())
		for i := 0; i < count; i++ {
			member := body.Child(uint(i))
			if member == nil || hasStaticModifier(member) {
				continue
			}
			memberName := member.ChildByFieldName("name")
			if memberName == nil {
				continue
			}
			switch member.Kind() {
			case "method_definition":
				info.Methods[memberName.Utf8Text(source)] = struct{}{}
				if memberName.Utf8Text(source) == "constructor" {
					collectTSConstructorProperties(member, source, info.Properties)
				}
			case "public_field_definition", "property_declaration":
				info.Properties[memberName.Utf8Text(source)] = struct{}{}
			}
		}
	}
	symbols[name] = info
}

// hasStaticModifier reports whether member carries a leading `static`
// token child, the concrete syntax tree's representation of the modifier.
func hasStaticModifier(member *sitter.Node) bool {
	count := int(member.ChildCount())
	for i := 0; i < count; i++ {
		child := member.Child(uint(i))
		if child != nil && child.Kind() == "static" {
			return true
		}
	}
	return false
}

// collectTSConstructorProperties walks a constructor method_definition's
// body for `this.x = ...` assignment expressions, adding each target name
// to properties. It doesn't descend into nested functions or classes,
// since `this` there no longer refers to the enclosing instance.
func collectTSConstructorProperties(ctor *sitter.Node, source []byte, properties map[string]struct{}) {
	body := ctor.ChildByFieldName("body")
	if body == nil {
		return
	}
	walkForThisAssignments(body, source, properties)
}

func walkForThisAssignments(node *sitter.Node, source []byte, properties map[string]struct{}) {
	count := int(node.ChildCount())
	for i := 0; i < count; i++ {
		child := node.Child(uint(i))
		if child == nil {
			continue
		}
		if child.Kind() == "assignment_expression" {
			left := child.ChildByFieldName("left")
			if left != nil && left.Kind() == "member_expression" {
				obj := left.ChildByFieldName("object")
				prop := left.ChildByFieldName("property")
				if obj != nil && prop != nil && obj.Kind() == "this" {
					properties[prop.Utf8Text(source)] = struct{}{}
				}
			}
		}
		switch child.Kind() {
		case "function_expression", "arrow_function", "function_declaration",
			"method_definition", "class", "class_declaration":
			continue
		}
		walkForThisAssignments(child, source, properties)
	}
}

func recordTSFunction(node *sitter.Node, source []byte, symbols map[string]types.ExportInfo) {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return
	}
	name := nameNode.Utf8Text(source)
	symbols[name] = types.ExportInfo{Kind: types.ExportFunction, Name: name}
}

func recordTSVariable(node *sitter.Node, source []byte, symbols map[string]types.ExportInfo) {
	count := int(node.ChildCount())
	for i := 0; i < count; i++ {
		declarator := node.Child(uint(i))
		if declarator == nil || declarator.Kind() != "variable_declarator" {
			continue
		}
		nameNode := declarator.ChildByFieldName("name")
		if nameNode == nil {
			continue
		}
		name := nameNode.Utf8Text(source)
		kind := types.ExportObject
		if value := declarator.ChildByFieldName("value"); value != nil {
			switch value.Kind() {
			case "arrow_function", "function_expression":
				kind = types.ExportFunction
			case "class":
				kind = types.ExportClass
			}
		}
		symbols[name] = types.ExportInfo{Kind: kind, Name: name}
	}
}
