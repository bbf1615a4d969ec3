package exports

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/standardbeagle/sigfind/internal/types"
)

func TestAnalyzeCommonJSWholeModuleExport(t *testing.T) {
	src := `
class UserService {
  login() {}
  logout() {}
}
module.exports = UserService;
`
	a := New()
	md := a.Analyze(src, "UserService.js")
	require.NotNil(t, md)
	require.Len(t, md.Exports, 1)
	exp := md.Exports[0]
	assert.Equal(t, types.AccessDirect, exp.Access.Kind)
	assert.Equal(t, "UserService", exp.Name)
	assert.Equal(t, types.ExportClass, exp.Info.Kind)
	_, hasLogin := exp.Info.Methods["login"]
	assert.True(t, hasLogin)
}

func TestAnalyzeCommonJSNamedExport(t *testing.T) {
	src := `
function createUser() {}
exports.createUser = createUser;
`
	a := New()
	md := a.Analyze(src, "users.js")
	require.NotNil(t, md)
	require.Len(t, md.Exports, 1)
	assert.Equal(t, types.AccessNamed, md.Exports[0].Access.Kind)
	assert.Equal(t, "createUser", md.Exports[0].Access.Name)
	assert.Equal(t, types.ExportFunction, md.Exports[0].Info.Kind)
}

func TestAnalyzeESDefaultExport(t *testing.T) {
	src := `
class WidgetFactory {}
export default WidgetFactory;
`
	a := New()
	md := a.Analyze(src, "widget.js")
	require.NotNil(t, md)
	require.Len(t, md.Exports, 1)
	assert.Equal(t, types.AccessDefault, md.Exports[0].Access.Kind)
}

func TestAnalyzeUnknownExtensionReturnsNil(t *testing.T) {
	a := New()
	assert.Nil(t, a.Analyze("whatever", "notes.md"))
}

func TestAnalyzeMemoizesByContentHash(t *testing.T) {
	a := New()
	src := `module.exports = Foo; class Foo {}`
	first := a.Analyze(src, "Foo.js")
	second := a.Analyze(src, "Foo.js")
	require.NotNil(t, first)
	require.NotNil(t, second)
	assert.Equal(t, first, second)
}

func TestAnalyzeGofastCollectsConstructorPropertiesAndSkipsStatic(t *testing.T) {
	src := `
class Foo {
  static instances = 0;
  constructor() {
    this.name = "x";
    this.count = 1;
  }
  static create() {}
  bar() {}
}
module.exports = Foo;
`
	a := New()
	md := a.Analyze(src, "Foo.js")
	require.NotNil(t, md)
	require.Len(t, md.Exports, 1)
	info := md.Exports[0].Info

	_, hasName := info.Properties["name"]
	_, hasCount := info.Properties["count"]
	assert.True(t, hasName)
	assert.True(t, hasCount)
	_, hasStaticField := info.Properties["instances"]
	assert.False(t, hasStaticField)

	_, hasBar := info.Methods["bar"]
	assert.True(t, hasBar)
	_, hasStaticMethod := info.Methods["create"]
	assert.False(t, hasStaticMethod)
}

func TestAnalyzeTreeSitterCollectsConstructorPropertiesAndSkipsStatic(t *testing.T) {
	src := `
export class Foo {
  static instances = 0;
  constructor() {
    this.name = "x";
    this.count = 1;
  }
  static create() {}
  bar() {}
}
`
	a := New()
	md := a.Analyze(src, "Foo.ts")
	require.NotNil(t, md)
	require.Len(t, md.Exports, 1)
	info := md.Exports[0].Info

	_, hasName := info.Properties["name"]
	_, hasCount := info.Properties["count"]
	assert.True(t, hasName)
	assert.True(t, hasCount)
	_, hasStaticField := info.Properties["instances"]
	assert.False(t, hasStaticField)

	_, hasBar := info.Methods["bar"]
	assert.True(t, hasBar)
	_, hasStaticMethod := info.Methods["create"]
	assert.False(t, hasStaticMethod)
}

func TestBackendNameReflectsExtension(t *testing.T) {
	a := New()
	assert.Equal(t, "gofast", a.BackendName("Service.js"))
	assert.Equal(t, "tree-sitter-typescript", a.BackendName("Service.ts"))
	assert.Equal(t, "", a.BackendName("Service.py"))
}
