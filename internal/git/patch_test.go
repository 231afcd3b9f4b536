package git_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/git-series/git-series/internal/git"
	"github.com/git-series/git-series/internal/git/gittest"
	"github.com/git-series/git-series/internal/logtest"
	"github.com/git-series/git-series/internal/text"
)

func TestPatchAndDiffstat(t *testing.T) {
	fixture, err := gittest.LoadFixtureScript([]byte(text.Dedent(`
		as 'Test <test@example.com>'
		at '2024-09-14T15:55:40Z'

		git init
		git add -A
		git commit -m 'Initial commit'

		-- foo.txt --
		hello
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

	patch, err := repo.Patch(ctx, "", tip, git.PatchOptions{})
	require.NoError(t, err)
	assert.True(t, strings.Contains(patch, "foo.txt"))
	assert.True(t, strings.Contains(patch, "+hello"))

	stat, err := repo.Diffstat(ctx, "", tip)
	require.NoError(t, err)
	assert.True(t, strings.Contains(stat, "foo.txt"))
}
