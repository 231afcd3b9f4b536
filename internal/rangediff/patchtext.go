package rangediff

import (
	"bufio"
	"context"
	"fmt"
	"strings"

	"github.com/git-series/git-series/internal/git"
)

// PatchText is the normalized representation of one commit, built for
// cost-matrix comparison and diff-of-diffs rendering.
type PatchText struct {
	Hash    git.Hash
	Subject string

	// Full is the deterministic "From:/message/diff" buffer described
	// in spec.md §4.4, used nowhere except as the documented shape;
	// Simplified is what the cost matrix and diff-of-diffs actually
	// compare, since it's Full with file headers and hunk context
	// elided to reduce line-number-drift noise.
	Full        string
	Simplified  string
	LineCount   int
	IsMerge     bool
}

// ErrMergeCommit is returned when a range contains a merge commit,
// which range-diff does not support.
type ErrMergeCommit struct {
	Hash git.Hash
}

func (e *ErrMergeCommit) Error() string {
	return fmt.Sprintf("commit %s is a merge commit: range-diff does not support merges", e.Hash.Short())
}

// BuildPatchText reads a commit's metadata and diff against its first
// parent (or the empty tree, for a root commit) and renders the
// normalized patch text used by range-diff.
func BuildPatchText(ctx context.Context, repo *git.Repository, hash git.Hash) (PatchText, error) {
	info, err := repo.CommitInfoOf(ctx, hash.String())
	if err != nil {
		return PatchText{}, fmt.Errorf("read commit info: %w", err)
	}
	if info.IsMerge() {
		return PatchText{}, &ErrMergeCommit{Hash: hash}
	}

	var parent git.Hash
	if len(info.Parents) == 1 {
		parent = info.Parents[0]
	}

	patch, err := repo.Patch(ctx, parent, hash, git.PatchOptions{Context: 0})
	if err != nil {
		return PatchText{}, fmt.Errorf("diff %s: %w", hash.Short(), err)
	}

	simplified := simplifyPatch(patch)

	var buf strings.Builder
	fmt.Fprintf(&buf, "From: %s <%s>\n\n", info.AuthorName, info.AuthorEmail)
	buf.WriteString(info.Message.String())
	buf.WriteString("\n\n")
	buf.WriteString(simplified)

	return PatchText{
		Hash:       hash,
		Subject:    info.Message.Subject,
		Full:       buf.String(),
		Simplified: simplified,
		LineCount:  strings.Count(simplified, "\n"),
		IsMerge:    false,
	}, nil
}

// simplifyPatch strips file headers ("diff --git", "index ...") and
// hunk position headers ("@@ -a,b +c,d @@") from a unified diff,
// keeping only the added/removed content lines (plus the "--- "/
// "+++ " file path lines, needed to tell which file a hunk belongs
// to). This is what spec.md §4.4 calls the "simplified textual diff":
// it elides exactly the information that drifts with unrelated
// line-number shifts between two otherwise-identical patches.
func simplifyPatch(patch string) string {
	var out strings.Builder
	sc := bufio.NewScanner(strings.NewReader(patch))
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	for sc.Scan() {
		line := sc.Text()
		switch {
		case strings.HasPrefix(line, "diff --git "):
			continue
		case strings.HasPrefix(line, "index "):
			continue
		case strings.HasPrefix(line, "@@"):
			continue
		case strings.HasPrefix(line, "+++ "), strings.HasPrefix(line, "--- "):
			out.WriteString(line)
			out.WriteByte('\n')
		case strings.HasPrefix(line, "+"), strings.HasPrefix(line, "-"):
			out.WriteString(line)
			out.WriteByte('\n')
		default:
			// Drop unchanged context lines: only the delta matters.
			continue
		}
	}
	return out.String()
}
