package evaluator

import (
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/standardbeagle/sigfind/internal/config"
	"github.com/standardbeagle/sigfind/internal/exports"
	"github.com/standardbeagle/sigfind/internal/signature"
	"github.com/standardbeagle/sigfind/internal/types"
)

func TestPassesNameFilterSharesToken(t *testing.T) {
	ns, err := signature.Normalize(&types.Signature{Name: "UserService"})
	require.NoError(t, err)
	assert.True(t, PassesNameFilter(ns, "UserServiceImpl"))
	assert.True(t, PassesNameFilter(ns, "user_service"))
	assert.False(t, PassesNameFilter(ns, "PaymentGateway"))
}

func TestPassesNameFilterRegexAlwaysPasses(t *testing.T) {
	ns, err := signature.Normalize(&types.Signature{NameRegex: regexp.MustCompile(`^Anything$`)})
	require.NoError(t, err)
	assert.True(t, PassesNameFilter(ns, "TotallyUnrelated"))
}

func TestEvaluateScoresMatchingFile(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "src", "UserService.js")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	content := `
class UserService {
  login() {}
}
module.exports = UserService;
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	info, err := os.Stat(path)
	require.NoError(t, err)

	cfg := config.Default()
	ev := New(cfg, exports.New())

	ns, err := signature.Normalize(&types.Signature{Name: "UserService", Type: types.TargetClass, Methods: []string{"login"}})
	require.NoError(t, err)

	candidate, err := ev.Evaluate(ns, root, path, info)
	require.NoError(t, err)
	require.NotNil(t, candidate)
	assert.Equal(t, "UserService", candidate.BaseName)
	assert.Greater(t, candidate.Score, 0.0)
}

func TestEvaluateRejectsBelowThreshold(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "UserThing.js") // shares "user", so it passes the name pre-filter
	require.NoError(t, os.WriteFile(path, []byte("module.exports = {};"), 0o644))
	info, err := os.Stat(path)
	require.NoError(t, err)

	cfg := config.Default()
	cfg.Scoring.MinCandidateScore = 1000
	ev := New(cfg, exports.New())

	ns, err := signature.Normalize(&types.Signature{Name: "UserService"})
	require.NoError(t, err)

	candidate, err := ev.Evaluate(ns, root, path, info)
	require.NoError(t, err)
	assert.Nil(t, candidate)
}
