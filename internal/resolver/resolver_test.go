package resolver

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/standardbeagle/sigfind/internal/config"
	discerrors "github.com/standardbeagle/sigfind/internal/errors"
	"github.com/standardbeagle/sigfind/internal/types"
)

func classCandidate(path string, score float64, name, baseClass string, methods ...string) *types.Candidate {
	methodSet := map[string]struct{}{}
	for _, m := range methods {
		methodSet[m] = struct{}{}
	}
	return &types.Candidate{
		RelPath:  path,
		BaseName: name,
		Ext:      ".js",
		Content:  "class " + name + " {}",
		Score:    score,
		Metadata: &types.ExportsMetadata{Exports: []types.Export{{
			Name:   name,
			Access: types.Access{Kind: types.AccessDirect},
			Info: types.ExportInfo{
				Kind: types.ExportClass, Name: name, BaseClass: baseClass, Methods: methodSet,
				Properties: map[string]struct{}{},
			},
		}}},
	}
}

func TestResolvePicksHighestScoringCandidate(t *testing.T) {
	cfg := config.Default()
	r := New(cfg)

	low := classCandidate("a/Low.js", 10, "Low", "", "run")
	high := classCandidate("b/High.js", 50, "UserService", "", "login")

	sig := &types.NormalizedSignature{Signature: types.Signature{Name: "UserService", Type: types.TargetClass, Methods: []string{"login"}}}

	result, err := r.Resolve(context.Background(), sig, []*types.Candidate{low, high}, "")
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, "UserService", result.Candidate.BaseName)
}

func TestResolveRejectsMissingMethod(t *testing.T) {
	cfg := config.Default()
	r := New(cfg)
	candidate := classCandidate("a/UserService.js", 50, "UserService", "", "login")
	sig := &types.NormalizedSignature{Signature: types.Signature{Name: "UserService", Methods: []string{"logout"}}}

	_, err := r.Resolve(context.Background(), sig, []*types.Candidate{candidate}, "")
	require.Error(t, err)
	var derr *discerrors.Error
	require.True(t, errors.As(err, &derr))
	assert.Equal(t, discerrors.KindNoMatch, derr.Kind)
}

func TestResolveWalksExtendsChain(t *testing.T) {
	cfg := config.Default()
	r := New(cfg)
	base := classCandidate("a/BaseService.js", 5, "BaseService", "")
	mid := classCandidate("a/MidService.js", 5, "MidService", "BaseService")
	leaf := classCandidate("a/LeafService.js", 40, "LeafService", "MidService")

	sig := &types.NormalizedSignature{Signature: types.Signature{Name: "LeafService", Extends: "BaseService"}}

	result, err := r.Resolve(context.Background(), sig, []*types.Candidate{base, mid, leaf}, "")
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, "LeafService", result.Candidate.BaseName)
}

func TestResolveSafetyGateRejectsBlockedToken(t *testing.T) {
	cfg := config.Default()
	r := New(cfg)
	candidate := classCandidate("a/Danger.js", 40, "Danger", "")
	candidate.Content = "eval(userInput); class Danger {}"
	sig := &types.NormalizedSignature{Signature: types.Signature{Name: "Danger"}}

	_, err := r.Resolve(context.Background(), sig, []*types.Candidate{candidate}, "")
	require.Error(t, err)
}

func TestResolveExtensionAffinityOrdersFirst(t *testing.T) {
	cfg := config.Default()
	r := New(cfg)
	jsCandidate := classCandidate("a/Service.js", 30, "Service", "")
	tsCandidate := classCandidate("a/Service.ts", 30, "Service", "")
	tsCandidate.Ext = ".ts"

	ordered := orderCandidates([]*types.Candidate{jsCandidate, tsCandidate}, ".ts")
	assert.Equal(t, ".ts", ordered[0].Ext)
}

func TestNoMatchOnEmptyCandidates(t *testing.T) {
	cfg := config.Default()
	r := New(cfg)
	sig := &types.NormalizedSignature{Signature: types.Signature{Name: "Nope"}}
	_, err := r.Resolve(context.Background(), sig, nil, "")
	require.Error(t, err)
}
