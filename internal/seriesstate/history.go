package seriesstate

import (
	"context"
	"fmt"

	"github.com/git-series/git-series/internal/git"
	"github.com/git-series/git-series/internal/seriestree"
)

// Revision is one entry in a series' committed-ref history: the
// bookkeeping commit itself, and the previous revision's commit (if
// any), with the revision's own gitlink parents (its "series"/"base"
// entries) already excluded.
type Revision struct {
	Hash    git.Hash
	PrevTip git.Hash // git.ZeroHash for the first committed revision

	// Merge reports whether the commit has more than one bookkeeping
	// parent. Diffing such a commit against "the" previous revision
	// isn't well-defined; callers should skip the patch and say so,
	// mirroring the original tool's "(Diffs of series merge commits
	// not yet supported)" note.
	Merge bool
}

// History reports the revision history of a committed series ref,
// newest first, for the "log" operation: each entry is one series
// commit, with the gitlink-only parents introduced by a revision's
// own "series"/"base" entries (spec.md §4.3, "The exclusion of base
// is intentional") pruned from the walk, so only genuine bookkeeping
// history remains.
func History(ctx context.Context, repo *git.Repository, committedRef string) ([]Revision, error) {
	tip, err := repo.PeelToCommit(ctx, committedRef)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", committedRef, err)
	}

	prevOf, merge, hidden, err := gitlinkAncestors(ctx, repo, tip)
	if err != nil {
		return nil, err
	}

	hiddenList := make([]git.Hash, 0, len(hidden))
	for h := range hidden {
		hiddenList = append(hiddenList, h)
	}

	hashes, err := repo.ListCommits(ctx, git.ListCommitsRequest{
		Start: tip.String(),
		Hide:  hiddenList,
	})
	if err != nil {
		return nil, fmt.Errorf("walk history: %w", err)
	}

	revs := make([]Revision, len(hashes))
	for i, h := range hashes {
		revs[i] = Revision{Hash: h, PrevTip: prevOf[h], Merge: merge[h]}
	}
	return revs, nil
}

// gitlinkAncestors walks every commit reachable from tip and, for
// each, classifies its parents into gitlink entries (hidden: these
// are series/base tips, not bookkeeping history) and the single
// bookkeeping parent (if any), continuing the walk only through the
// latter.
func gitlinkAncestors(
	ctx context.Context, repo *git.Repository, tip git.Hash,
) (prevOf map[git.Hash]git.Hash, merge map[git.Hash]bool, hidden map[git.Hash]struct{}, err error) {
	prevOf = make(map[git.Hash]git.Hash)
	merge = make(map[git.Hash]bool)
	hidden = make(map[git.Hash]struct{})
	seen := make(map[git.Hash]struct{})

	stack := []git.Hash{tip}
	for len(stack) > 0 {
		oid := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if _, ok := seen[oid]; ok {
			continue
		}
		seen[oid] = struct{}{}

		info, err := repo.CommitInfoOf(ctx, oid.String())
		if err != nil {
			return nil, nil, nil, fmt.Errorf("read commit %s: %w", oid.Short(), err)
		}
		tree, err := repo.PeelToTree(ctx, oid.String())
		if err != nil {
			return nil, nil, nil, fmt.Errorf("peel %s to tree: %w", oid.Short(), err)
		}
		rev, err := seriestree.Read(ctx, repo, tree)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("read tree for %s: %w", oid.Short(), err)
		}

		links := make(map[git.Hash]struct{})
		for _, h := range rev.Gitlinks() {
			links[h] = struct{}{}
		}

		prev := git.ZeroHash
		var history int
		for _, p := range info.Parents {
			if _, ok := links[p]; ok {
				hidden[p] = struct{}{}
				continue
			}
			prev = p
			history++
			stack = append(stack, p)
		}
		prevOf[oid] = prev
		merge[oid] = history > 1
	}

	return prevOf, merge, hidden, nil
}
