package git

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/git-series/git-series/internal/logtest"
)

// NewTestRepository builds a Repository rooted at dir, backed by the given
// execer, for use in unit tests that don't need a real Git checkout.
func NewTestRepository(t testing.TB, dir string, execer execer) *Repository {
	if dir == "" {
		dir = t.TempDir()
	}
	gitDir := filepath.Join(dir, ".git")
	if err := os.Mkdir(gitDir, 0o755); err != nil {
		if !errors.Is(err, os.ErrExist) {
			t.Fatalf("failed to create .git directory: %v", err)
		}
	}

	return newRepository(dir, gitDir, logtest.New(t), execer)
}
