package gsconfig_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/git-series/git-series/internal/git"
	"github.com/git-series/git-series/internal/git/gittest"
	"github.com/git-series/git-series/internal/gsconfig"
	"github.com/git-series/git-series/internal/logtest"
	"github.com/git-series/git-series/internal/text"
)

// newTestRepo isolates the test from the host's own git identity and
// global config: cfg.Get shells out using the real process
// environment, not testscript's sandboxed fixture env, so without
// this a developer's own ~/.gitconfig could leak into these tests.
func newTestRepo(t *testing.T, script string) (dir string, cfg *git.Config) {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, ".config"))
	t.Setenv("GIT_CONFIG_NOSYSTEM", "1")
	t.Setenv("GIT_CONFIG_GLOBAL", filepath.Join(home, ".gitconfig"))

	fixture, err := gittest.LoadFixtureScript([]byte(text.Dedent(`
		git init
	` + script)))
	require.NoError(t, err)
	t.Cleanup(fixture.Cleanup)

	return fixture.Dir(), git.NewConfig(git.ConfigOptions{Dir: fixture.Dir(), Log: logtest.New(t)})
}

func TestLoad_defaults(t *testing.T) {
	dir, cfg := newTestRepo(t, "")

	c, err := gsconfig.Load(t.Context(), cfg, dir)
	require.NoError(t, err)
	assert.Equal(t, "PATCH", c.SubjectPrefix())
	assert.False(t, c.RFC())
	assert.Zero(t, c.FromVersion())
}

func TestLoad_yamlOverlay(t *testing.T) {
	dir, cfg := newTestRepo(t, "")
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".git-series.yml"), []byte(text.Dedent(`
		subjectPrefix: RFC
		rfc: true
		fromVersion: 3
	`)), 0o644))

	c, err := gsconfig.Load(t.Context(), cfg, dir)
	require.NoError(t, err)
	assert.Equal(t, "RFC", c.SubjectPrefix())
	assert.True(t, c.RFC())
	assert.Equal(t, 3, c.FromVersion())
}

func TestIdentity_fromGitConfig(t *testing.T) {
	dir, cfg := newTestRepo(t, "git config user.name Alice\ngit config user.email alice@example.com\n")

	c, err := gsconfig.Load(t.Context(), cfg, dir)
	require.NoError(t, err)

	author, committer, err := c.Identity(t.Context())
	require.NoError(t, err)
	assert.Equal(t, "Alice", author.Name)
	assert.Equal(t, "alice@example.com", author.Email)
	assert.Equal(t, author, committer)
}

func TestIdentity_envOverridesConfig(t *testing.T) {
	dir, cfg := newTestRepo(t, "git config user.name Alice\ngit config user.email alice@example.com\n")
	t.Setenv("GIT_AUTHOR_NAME", "Bob")
	t.Setenv("GIT_AUTHOR_EMAIL", "bob@example.com")

	c, err := gsconfig.Load(t.Context(), cfg, dir)
	require.NoError(t, err)

	author, committer, err := c.Identity(t.Context())
	require.NoError(t, err)
	assert.Equal(t, "Bob", author.Name)
	assert.Equal(t, "Alice", committer.Name)
}

func TestIdentity_missing(t *testing.T) {
	dir, cfg := newTestRepo(t, "")

	c, err := gsconfig.Load(t.Context(), cfg, dir)
	require.NoError(t, err)

	_, _, err = c.Identity(t.Context())
	assert.ErrorIs(t, err, gsconfig.ErrNoIdentity)
}
