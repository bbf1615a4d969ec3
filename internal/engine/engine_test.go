package engine

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/standardbeagle/sigfind/internal/config"
	"github.com/standardbeagle/sigfind/internal/types"
)

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	full := filepath.Join(root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
	require.NoError(t, os.WriteFile(full, []byte(content), 0o644))
}

func newTestRegistry(root string) *Registry {
	cfg := config.Default()
	cfg.Cache.File = ".sigfind-cache.json"
	return NewRegistry(cfg)
}

func TestDiscoverFindsMatchingClass(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "src/services/UserService.js", `
class UserService {
  login() {}
  logout() {}
}
module.exports = UserService;
`)
	writeFile(t, root, "src/services/PaymentGateway.js", `
class PaymentGateway {
  charge() {}
}
module.exports = PaymentGateway;
`)

	reg := newTestRegistry(root)
	e, err := reg.For(root)
	require.NoError(t, err)

	target, err := e.Discover(context.Background(), &types.Signature{
		Name: "UserService", Type: types.TargetClass, Methods: []string{"login"},
	})
	require.NoError(t, err)
	require.NotNil(t, target)
	assert.Equal(t, "UserService", target.Candidate.BaseName)
}

func TestDiscoverCachesAcrossCalls(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "src/UserService.js", `
class UserService { login() {} }
module.exports = UserService;
`)
	reg := newTestRegistry(root)
	e, err := reg.For(root)
	require.NoError(t, err)

	sig := &types.Signature{Name: "UserService", Methods: []string{"login"}}
	first, err := e.Discover(context.Background(), sig)
	require.NoError(t, err)
	second, err := e.Discover(context.Background(), sig)
	require.NoError(t, err)
	assert.Equal(t, first.Candidate.RelPath, second.Candidate.RelPath)
}

func TestDiscoverReturnsNoMatchWhenNothingSatisfies(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "src/Unrelated.js", "module.exports = {};")

	reg := newTestRegistry(root)
	e, err := reg.For(root)
	require.NoError(t, err)

	_, err = e.Discover(context.Background(), &types.Signature{Name: "DoesNotExist"})
	assert.Error(t, err)
}

func TestExplainRanksAllCandidates(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "src/UserService.js", `
class UserService { login() {} }
module.exports = UserService;
`)
	writeFile(t, root, "src/__tests__/UserService.js", `
class UserService { login() {} }
module.exports = UserService;
`)

	reg := newTestRegistry(root)
	e, err := reg.For(root)
	require.NoError(t, err)

	explanation, err := e.Explain(context.Background(), &types.Signature{Name: "UserService", Methods: []string{"login"}})
	require.NoError(t, err)
	require.Len(t, explanation.Candidates, 2)
	assert.GreaterOrEqual(t, explanation.Candidates[0].Candidate.Score, explanation.Candidates[1].Candidate.Score)
	assert.True(t, explanation.Resolved)
}

func TestClearCacheRemovesPersistedFile(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "src/UserService.js", `
class UserService { login() {} }
module.exports = UserService;
`)
	reg := newTestRegistry(root)
	e, err := reg.For(root)
	require.NoError(t, err)

	_, err = e.Discover(context.Background(), &types.Signature{Name: "UserService"})
	require.NoError(t, err)

	require.NoError(t, e.ClearCache())
	_, statErr := os.Stat(filepath.Join(root, ".sigfind-cache.json"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestRegistryMemoizesByRoot(t *testing.T) {
	root := t.TempDir()
	reg := newTestRegistry(root)
	e1, err := reg.For(root)
	require.NoError(t, err)
	e2, err := reg.For(root)
	require.NoError(t, err)
	assert.Same(t, e1, e2)
}
