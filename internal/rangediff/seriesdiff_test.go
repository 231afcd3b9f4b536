package rangediff_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/git-series/git-series/internal/git"
	"github.com/git-series/git-series/internal/git/gittest"
	"github.com/git-series/git-series/internal/logtest"
	"github.com/git-series/git-series/internal/rangediff"
	"github.com/git-series/git-series/internal/seriestree"
	"github.com/git-series/git-series/internal/text"
)

func buildSeriesDiffRepo(t *testing.T) (repo *git.Repository, base, tip git.Hash) {
	t.Helper()
	fixture, err := gittest.LoadFixtureScript([]byte(text.Dedent(`
		as 'Test <test@example.com>'
		at '2024-09-14T15:55:40Z'

		git init
		git commit --allow-empty -m 'Initial commit'
		git branch base

		git commit --allow-empty -m 'Add widget'
	`)))
	require.NoError(t, err)
	t.Cleanup(fixture.Cleanup)

	ctx := t.Context()
	repo, err = git.Open(ctx, fixture.Dir(), git.OpenOptions{Log: logtest.New(t)})
	require.NoError(t, err)

	base, err = repo.PeelToCommit(ctx, "base")
	require.NoError(t, err)
	tip, err = repo.PeelToCommit(ctx, "HEAD")
	require.NoError(t, err)

	return repo, base, tip
}

func TestSeriesDiff_firstRevision(t *testing.T) {
	repo, base, tip := buildSeriesDiffRepo(t)
	ctx := t.Context()

	rev := &seriestree.Revision{Base: base, Series: tip}
	newTree, err := rev.Build(ctx, repo)
	require.NoError(t, err)

	out, err := rangediff.SeriesDiff(ctx, repo, git.EmptyTreeHash, newTree)
	require.NoError(t, err)
	// oldRev has neither base nor series, so only the raw tree diff
	// (the new gitlinks appearing) is rendered, no range-diff section.
	assert.NotEmpty(t, out)
}

func TestSeriesDiff_unchangedSeriesHasNoRangeDiffRows(t *testing.T) {
	repo, base, tip := buildSeriesDiffRepo(t)
	ctx := t.Context()

	rev := &seriestree.Revision{Base: base, Series: tip}
	tree, err := rev.Build(ctx, repo)
	require.NoError(t, err)

	out, err := rangediff.SeriesDiff(ctx, repo, tree, tree)
	require.NoError(t, err)
	assert.Empty(t, strings.TrimSpace(out))
}

func TestSeriesDiff_coverOnlyChangeSkipsRangeDiff(t *testing.T) {
	repo, base, tip := buildSeriesDiffRepo(t)
	ctx := t.Context()

	oldRev := &seriestree.Revision{Base: base}
	oldTree, err := oldRev.Build(ctx, repo)
	require.NoError(t, err)

	newRev := &seriestree.Revision{Base: base, Cover: []byte("Subject: x\n\nBody.\n")}
	newTree, err := newRev.Build(ctx, repo)
	require.NoError(t, err)

	out, err := rangediff.SeriesDiff(ctx, repo, oldTree, newTree)
	require.NoError(t, err)
	assert.NotEmpty(t, out)
	assert.False(t, strings.Contains(out, "-:"), "no range-diff rows expected without a series entry on both sides")
}
