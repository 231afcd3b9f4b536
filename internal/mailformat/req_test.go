package mailformat_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/git-series/git-series/internal/git"
	"github.com/git-series/git-series/internal/git/gittest"
	"github.com/git-series/git-series/internal/logtest"
	"github.com/git-series/git-series/internal/mailformat"
	"github.com/git-series/git-series/internal/text"
)

func setupReqFixture(t *testing.T, extra string) (repo *git.Repository, base, tip git.Hash) {
	t.Helper()
	fixture, err := gittest.LoadFixtureScript([]byte(text.Dedent(`
		as 'Test <test@example.com>'
		at '2024-09-14T15:55:40Z'

		git init
		git add -A
		git commit -m 'Initial commit'
		git branch base

		git commit --allow-empty -m 'Add feature A'
		git commit --allow-empty -m 'Add feature B'

	`) + extra))
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

func TestResolveRemoteRef_annotatedTag(t *testing.T) {
	repo, base, tip := setupReqFixture(t, text.Dedent(`
		git tag -a -m 'Series v1' release

		-- file1.txt --
		hello
	`))
	ctx := t.Context()

	resolved, err := mailformat.ResolveRemoteRef(ctx, repo, ".", "release", tip)
	require.NoError(t, err)
	assert.Equal(t, mailformat.AnnotatedTag, resolved.Kind)
	assert.NotEmpty(t, resolved.TagObject)

	msg, err := mailformat.TagMessage(ctx, repo, resolved.TagObject)
	require.NoError(t, err)
	assert.Equal(t, "Series v1\n", msg)

	out, err := mailformat.Req(ctx, repo, base, tip, resolved, mailformat.ReqOptions{})
	require.NoError(t, err)
	assert.Contains(t, out, "Series v1")
	assert.Contains(t, out, "2 commits (release):")
	assert.Contains(t, out, "Add feature A")
	assert.Contains(t, out, "Add feature B")
}

func TestResolveRemoteRef_lightweightTag(t *testing.T) {
	repo, base, tip := setupReqFixture(t, text.Dedent(`
		git tag release

		-- file1.txt --
		hello
	`))
	ctx := t.Context()

	resolved, err := mailformat.ResolveRemoteRef(ctx, repo, ".", "release", tip)
	require.NoError(t, err)
	assert.Equal(t, mailformat.LightweightTag, resolved.Kind)

	out, err := mailformat.Req(ctx, repo, base, tip, resolved, mailformat.ReqOptions{})
	require.NoError(t, err)
	assert.False(t, strings.Contains(out, strings.Repeat("-", 72)))
}

func TestResolveRemoteRef_branch(t *testing.T) {
	repo, _, tip := setupReqFixture(t, text.Dedent(`
		git branch release

		-- file1.txt --
		hello
	`))
	ctx := t.Context()

	resolved, err := mailformat.ResolveRemoteRef(ctx, repo, ".", "release", tip)
	require.NoError(t, err)
	assert.Equal(t, mailformat.Branch, resolved.Kind)
}

func TestResolveRemoteRef_notFound(t *testing.T) {
	repo, _, tip := setupReqFixture(t, "\n-- file1.txt --\nhello\n")
	ctx := t.Context()

	_, err := mailformat.ResolveRemoteRef(ctx, repo, ".", "nonexistent", tip)
	var notFound *mailformat.ErrRemoteRefNotFound
	assert.ErrorAs(t, err, &notFound)
}

func TestResolveRemoteRef_mismatch(t *testing.T) {
	repo, base, _ := setupReqFixture(t, text.Dedent(`
		git tag release

		-- file1.txt --
		hello
	`))
	ctx := t.Context()

	_, err := mailformat.ResolveRemoteRef(ctx, repo, ".", "release", base)
	var mismatch *mailformat.ErrRemoteRefMismatch
	assert.ErrorAs(t, err, &mismatch)
}
