package seriesstate_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/git-series/git-series/internal/git"
	"github.com/git-series/git-series/internal/refspace"
	"github.com/git-series/git-series/internal/seriesstate"
)

func TestHistory_singleRevision(t *testing.T) {
	ctx := t.Context()
	repo := newTestRepo(t)

	s, err := seriesstate.Start(ctx, repo, "my-feature", testIdentity())
	require.NoError(t, err)
	head, err := repo.PeelToCommit(ctx, "HEAD")
	require.NoError(t, err)
	require.NoError(t, s.SetBase(ctx, repo, head))
	s.Add(seriesstate.AllEntries)
	require.NoError(t, s.Write(ctx, testIdentity()))

	hash, err := s.Commit(ctx, repo, seriesstate.CommitOptions{
		Message:  "Start my-feature",
		Identity: testIdentity(),
	})
	require.NoError(t, err)

	revs, err := seriesstate.History(ctx, repo, refspace.Refs("my-feature").Committed)
	require.NoError(t, err)
	require.Len(t, revs, 1)
	assert.Equal(t, hash, revs[0].Hash)
	assert.Equal(t, git.ZeroHash, revs[0].PrevTip)
	assert.False(t, revs[0].Merge)
}

func TestHistory_multipleRevisionsNewestFirst(t *testing.T) {
	ctx := t.Context()
	repo := newTestRepo(t)

	s, err := seriesstate.Start(ctx, repo, "my-feature", testIdentity())
	require.NoError(t, err)
	head, err := repo.PeelToCommit(ctx, "HEAD")
	require.NoError(t, err)
	require.NoError(t, s.SetBase(ctx, repo, head))
	s.Add(seriesstate.AllEntries)
	require.NoError(t, s.Write(ctx, testIdentity()))

	first, err := s.Commit(ctx, repo, seriesstate.CommitOptions{
		Message:  "Start my-feature",
		Identity: testIdentity(),
	})
	require.NoError(t, err)

	require.NoError(t, s.SetCover("Subject: reroll\n\nBody.\n"))
	s.Add(seriesstate.AllEntries)
	require.NoError(t, s.Write(ctx, testIdentity()))

	second, err := s.Commit(ctx, repo, seriesstate.CommitOptions{
		Message:  "Reroll my-feature",
		Identity: testIdentity(),
	})
	require.NoError(t, err)

	revs, err := seriesstate.History(ctx, repo, refspace.Refs("my-feature").Committed)
	require.NoError(t, err)
	require.Len(t, revs, 2)

	assert.Equal(t, second, revs[0].Hash)
	assert.Equal(t, first, revs[0].PrevTip)
	assert.False(t, revs[0].Merge)

	assert.Equal(t, first, revs[1].Hash)
	assert.Equal(t, git.ZeroHash, revs[1].PrevTip)
	assert.False(t, revs[1].Merge)
}
