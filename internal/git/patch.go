package git

import (
	"context"
	"fmt"
)

// PatchOptions configures [Repository.Patch].
type PatchOptions struct {
	// Context is the number of context lines around each hunk.
	// Defaults to Git's own default (3) when zero.
	Context int

	// NoPrefix omits the conventional a/ b/ path prefixes.
	NoPrefix bool
}

// Patch returns the textual diff between two commits, in the same
// format 'git diff' produces for a commit range.
//
// If from is the empty string, the diff is against the empty tree,
// i.e. the patch that introduces to entirely.
func (r *Repository) Patch(ctx context.Context, from, to Hash, opts PatchOptions) (string, error) {
	args := []string{"diff", "--no-color"}
	if opts.Context > 0 {
		args = append(args, fmt.Sprintf("--unified=%d", opts.Context))
	}
	if opts.NoPrefix {
		args = append(args, "--no-prefix")
	}
	if from != "" {
		args = append(args, from.String())
	} else {
		args = append(args, EmptyTreeHash.String())
	}
	args = append(args, to.String())

	out, err := r.gitCmd(ctx, args...).OutputString(r.exec)
	if err != nil {
		return "", fmt.Errorf("git diff: %w", err)
	}
	if out != "" {
		out += "\n"
	}
	return out, nil
}

// Diffstat returns the `git diff --stat` summary between two commits.
func (r *Repository) Diffstat(ctx context.Context, from, to Hash) (string, error) {
	args := []string{"diff", "--no-color", "--stat"}
	if from != "" {
		args = append(args, from.String())
	} else {
		args = append(args, EmptyTreeHash.String())
	}
	args = append(args, to.String())

	out, err := r.gitCmd(ctx, args...).OutputString(r.exec)
	if err != nil {
		return "", fmt.Errorf("git diff --stat: %w", err)
	}
	return out, nil
}

// EmptyTreeHash is the well-known hash of the empty tree object,
// present in every Git repository without needing to be written.
const EmptyTreeHash Hash = "4b825dc642cb6eb9a060e54bf8d69288fbee4904"
