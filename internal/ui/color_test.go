package ui_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/git-series/git-series/internal/git"
	"github.com/git-series/git-series/internal/git/gittest"
	"github.com/git-series/git-series/internal/logtest"
	"github.com/git-series/git-series/internal/text"
	"github.com/git-series/git-series/internal/ui"
)

// newTestConfig isolates the test from the host's own git global
// config, the same way internal/gsconfig's tests do: cfg.Get shells
// out using the real process environment, not testscript's sandboxed
// fixture env.
func newTestConfig(t *testing.T, script string) *git.Config {
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

	return git.NewConfig(git.ConfigOptions{Dir: fixture.Dir(), Log: logtest.New(t)})
}

func TestResolveColor_flagWins(t *testing.T) {
	cfg := newTestConfig(t, "")
	assert.True(t, ui.ResolveColor(t.Context(), cfg, "format", ui.ColorAlways, 0))
	assert.False(t, ui.ResolveColor(t.Context(), cfg, "format", ui.ColorNever, 0))
}

func TestResolveColor_noColorEnv(t *testing.T) {
	cfg := newTestConfig(t, "git config color.ui always\n")
	t.Setenv("NO_COLOR", "1")
	assert.False(t, ui.ResolveColor(t.Context(), cfg, "format", ui.ColorAuto, 0))
}

func TestResolveColor_gitConfigUI(t *testing.T) {
	cfg := newTestConfig(t, "git config color.ui always\n")
	assert.True(t, ui.ResolveColor(t.Context(), cfg, "format", ui.ColorAuto, 0))
}

func TestResolveColor_gitConfigPerCommand(t *testing.T) {
	cfg := newTestConfig(t, "git config color.ui always\ngit config color.format never\n")
	assert.False(t, ui.ResolveColor(t.Context(), cfg, "format", ui.ColorAuto, 0))
}

func TestResolveColor_defaultAuto(t *testing.T) {
	cfg := newTestConfig(t, "")
	// fd 0 (stdin) is not a terminal under the test harness.
	assert.False(t, ui.ResolveColor(t.Context(), cfg, "format", ui.ColorAuto, 0))
}
