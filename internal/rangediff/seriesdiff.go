package rangediff

import (
	"context"
	"fmt"
	"strings"

	"github.com/git-series/git-series/internal/git"
	"github.com/git-series/git-series/internal/seriestree"
)

// SeriesDiff renders the difference between two revisions of a patch
// series, identified by their tree hashes: a raw tree diff (so
// cover-letter and base changes appear as ordinary text), followed by
// a range-diff of the series commits themselves when both revisions
// carry a "series" and a "base" entry. oldTree may be [git.EmptyTreeHash]
// to diff against nothing (the series' first revision).
//
// Used by "diff", "commit -v", and "log -p".
func SeriesDiff(ctx context.Context, repo *git.Repository, oldTree, newTree git.Hash) (string, error) {
	raw, err := repo.Patch(ctx, oldTree, newTree, git.PatchOptions{})
	if err != nil {
		return "", fmt.Errorf("diff trees: %w", err)
	}

	var oldRev *seriestree.Revision
	if oldTree != "" && oldTree != git.EmptyTreeHash {
		oldRev, err = seriestree.Read(ctx, repo, oldTree)
		if err != nil {
			return "", fmt.Errorf("read old revision: %w", err)
		}
	} else {
		oldRev = &seriestree.Revision{}
	}
	newRev, err := seriestree.Read(ctx, repo, newTree)
	if err != nil {
		return "", fmt.Errorf("read new revision: %w", err)
	}

	var buf strings.Builder
	buf.WriteString(raw)

	if !oldRev.HasBase() || !oldRev.HasSeries() || !newRev.HasBase() || !newRev.HasSeries() {
		return buf.String(), nil
	}

	result, err := Compare(ctx, repo, oldRev.Base, oldRev.Series, newRev.Base, newRev.Series)
	if err != nil {
		return "", fmt.Errorf("range-diff: %w", err)
	}
	if len(result.Rows) > 0 {
		buf.WriteString(result.Render())
	}
	return buf.String(), nil
}
