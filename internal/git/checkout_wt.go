package git

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// CheckoutTreeRequest specifies the parameters for replacing the contents
// of the working tree and index with those of a tree-ish.
type CheckoutTreeRequest struct {
	// TreeIsh is the tree-ish whose contents will be checked out.
	TreeIsh string // required
}

// ErrCheckoutConflict is returned by CheckoutTree when the working tree
// has local modifications that would be overwritten by the checkout.
// Paths holds the list of conflicting files, relative to the repository root.
type ErrCheckoutConflict struct {
	Paths []string
}

func (e *ErrCheckoutConflict) Error() string {
	var b strings.Builder
	b.WriteString("Your changes to the following files would be overwritten by checkout:\n")
	for _, p := range e.Paths {
		fmt.Fprintf(&b, "\t%s\n", p)
	}
	b.WriteString("Please, commit your changes or stash them before you switch series.")
	return b.String()
}

// CheckoutTree replaces the contents of the working tree and index with
// the contents of the given tree-ish, without moving HEAD.
//
// This wraps 'git checkout <tree-ish> -- .', the plumbing-adjacent
// equivalent of a safe recursive tree checkout: Git refuses to discard
// local modifications and reports the offending paths instead.
func (r *Repository) CheckoutTree(ctx context.Context, req *CheckoutTreeRequest) error {
	cmd := r.gitCmd(ctx, "checkout", req.TreeIsh, "--", ".")

	var stderr strings.Builder
	cmd.Stderr(&stderr)

	if err := cmd.Run(r.exec); err != nil {
		if paths, ok := parseCheckoutConflict(stderr.String()); ok {
			return &ErrCheckoutConflict{Paths: paths}
		}
		return fmt.Errorf("git checkout: %w: %s", err, strings.TrimSpace(stderr.String()))
	}
	return nil
}

// parseCheckoutConflict extracts the list of conflicting paths from Git's
// own "error: Your local changes ... would be overwritten by checkout"
// message, which lists one indented path per line between the error line
// and the closing "Please commit" line.
func parseCheckoutConflict(stderr string) (paths []string, ok bool) {
	if !strings.Contains(stderr, "would be overwritten by checkout") {
		return nil, false
	}

	scanner := bufio.NewScanner(strings.NewReader(stderr))
	var inList bool
	for scanner.Scan() {
		line := scanner.Text()
		switch {
		case strings.Contains(line, "would be overwritten by checkout"):
			inList = true
		case strings.HasPrefix(line, "Please"):
			inList = false
		case inList:
			paths = append(paths, strings.TrimSpace(line))
		}
	}
	return paths, true
}

// CheckoutFilesRequest specifies the parameters for checking out a subset
// of files from a tree-ish into the working tree and index.
type CheckoutFilesRequest struct {
	// Pathspecs are the paths, or path patterns, to checkout.
	Pathspecs []string // required

	// TreeIsh is the tree-ish to checkout files from.
	// If empty, files will be checked out from the index.
	TreeIsh string
}

// CheckoutFiles checks out files from the specified tree-ish to the working directory.
// This wraps 'git checkout [<tree-ish>] -- [<pathspec>...]'.
func (r *Repository) CheckoutFiles(ctx context.Context, req *CheckoutFilesRequest) error {
	args := []string{"checkout"}
	if req.TreeIsh != "" {
		args = append(args, req.TreeIsh)
	}
	args = append(args, "--")
	args = append(args, req.Pathspecs...)
	if err := r.gitCmd(ctx, args...).Run(r.exec); err != nil {
		return fmt.Errorf("git checkout: %w", err)
	}
	return nil
}
