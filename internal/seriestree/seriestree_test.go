package seriestree_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/git-series/git-series/internal/git"
	"github.com/git-series/git-series/internal/git/gittest"
	"github.com/git-series/git-series/internal/logtest"
	"github.com/git-series/git-series/internal/seriestree"
	"github.com/git-series/git-series/internal/text"
)

func TestReadEmpty(t *testing.T) {
	var repo *git.Repository // Read returns before using repo for the zero tree
	rev, err := seriestree.Read(t.Context(), repo, git.ZeroHash)
	require.NoError(t, err)
	assert.False(t, rev.HasSeries())
	assert.False(t, rev.HasBase())
	assert.False(t, rev.HasCover())
}

func TestBuildAndRead(t *testing.T) {
	fixture, err := gittest.LoadFixtureScript([]byte(text.Dedent(`
		as 'Test <test@example.com>'
		at '2024-09-14T15:55:40Z'

		git init
		git commit --allow-empty -m 'Initial commit'
		git commit --allow-empty -m 'Second commit'
	`)))
	require.NoError(t, err)
	t.Cleanup(fixture.Cleanup)

	ctx := t.Context()
	repo, err := git.Open(ctx, fixture.Dir(), git.OpenOptions{
		Log: logtest.New(t),
	})
	require.NoError(t, err)

	tip, err := repo.PeelToCommit(ctx, "HEAD")
	require.NoError(t, err)
	base, err := repo.PeelToCommit(ctx, "HEAD^")
	require.NoError(t, err)

	rev := &seriestree.Revision{
		Series: tip,
		Base:   base,
		Cover:  []byte("Subject: my series\n\nBody.\n"),
	}

	treeHash, err := rev.Build(ctx, repo)
	require.NoError(t, err)

	got, err := seriestree.Read(ctx, repo, treeHash)
	require.NoError(t, err)
	assert.Equal(t, tip, got.Series)
	assert.Equal(t, base, got.Base)
	assert.Equal(t, []byte("Subject: my series\n\nBody.\n"), got.Cover)
	assert.Equal(t, []git.Hash{tip, base}, got.Gitlinks())
}

func TestBuild_seriesOnly(t *testing.T) {
	fixture, err := gittest.LoadFixtureScript([]byte(text.Dedent(`
		as 'Test <test@example.com>'
		at '2024-09-14T15:55:40Z'

		git init
		git commit --allow-empty -m 'Initial commit'
	`)))
	require.NoError(t, err)
	t.Cleanup(fixture.Cleanup)

	ctx := t.Context()
	repo, err := git.Open(ctx, fixture.Dir(), git.OpenOptions{
		Log: logtest.New(t),
	})
	require.NoError(t, err)

	tip, err := repo.PeelToCommit(ctx, "HEAD")
	require.NoError(t, err)

	rev := &seriestree.Revision{Series: tip}
	treeHash, err := rev.Build(ctx, repo)
	require.NoError(t, err)

	got, err := seriestree.Read(ctx, repo, treeHash)
	require.NoError(t, err)
	assert.True(t, got.HasSeries())
	assert.False(t, got.HasBase())
	assert.False(t, got.HasCover())
	assert.Equal(t, []git.Hash{tip}, got.Gitlinks())
}
