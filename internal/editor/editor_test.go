package editor_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/git-series/git-series/internal/editor"
	"github.com/git-series/git-series/internal/git"
	"github.com/git-series/git-series/internal/git/gittest"
	"github.com/git-series/git-series/internal/logtest"
	"github.com/git-series/git-series/internal/mockedit"
	"github.com/git-series/git-series/internal/text"
)

// newTestRepo isolates the test from the host's own git global
// config: "git var GIT_EDITOR" consults core.editor before the
// EDITOR env var this package's tests set, so a developer's own
// ~/.gitconfig could otherwise shadow the mock editor.
func newTestRepo(t *testing.T) *git.Repository {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, ".config"))
	t.Setenv("GIT_CONFIG_NOSYSTEM", "1")
	t.Setenv("GIT_CONFIG_GLOBAL", filepath.Join(home, ".gitconfig"))

	fixture, err := gittest.LoadFixtureScript([]byte(text.Dedent(`
		git init
	`)))
	require.NoError(t, err)
	t.Cleanup(fixture.Cleanup)

	repo, err := git.Open(t.Context(), fixture.Dir(), git.OpenOptions{Log: logtest.New(t)})
	require.NoError(t, err)
	return repo
}

func TestEdit(t *testing.T) {
	repo := newTestRepo(t)
	mockedit.Expect(t).Give("Add the frobnicator\n\nDetails here.\n")

	msg, err := editor.Edit(t.Context(), repo, "")
	require.NoError(t, err)
	assert.Equal(t, "Add the frobnicator\n\nDetails here.", msg)
}

func TestEdit_stripsCommentsAndScissors(t *testing.T) {
	repo := newTestRepo(t)
	mockedit.Expect(t).Give(text.Dedent(`
		Add the frobnicator

		# Please enter the commit message.
		# Lines starting with '#' will be ignored.

		# ------------------------ >8 ------------------------
		# diff --git a/foo b/foo
		# +added line
	`))

	msg, err := editor.Edit(t.Context(), repo, "")
	require.NoError(t, err)
	assert.Equal(t, "Add the frobnicator", msg)
}

func TestEdit_unchangedTemplateIsEmpty(t *testing.T) {
	repo := newTestRepo(t)
	mockedit.Expect(t) // no Give: mockedit leaves the file untouched

	msg, err := editor.Edit(t.Context(), repo, "# nothing to see here\n")
	require.NoError(t, err)
	assert.Empty(t, msg)
}

func TestPrettify(t *testing.T) {
	tests := []struct {
		name string
		give string
		want string
	}{
		{"plain", "hello\n", "hello"},
		{"comments", "hello\n# comment\nworld\n", "hello\nworld"},
		{
			"scissors",
			"hello\n" + "# ------------------------ >8 ------------------------\n" + "# diff\n",
			"hello",
		},
		{"blank trim", "\n\nhello\n\n\n", "hello"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, editor.Prettify(tt.give))
		})
	}
}
