package git

import (
	"bufio"
	"context"
	"fmt"
)

// ListCommitsRequest specifies the parameters for ListCommits.
type ListCommitsRequest struct {
	// Start is the commit-ish to walk from.
	Start string // required

	// Stop, if set, excludes Start's ancestors reachable from Stop.
	// That is, the result is all commits reachable from Start
	// but not from Stop.
	Stop string

	// Hide excludes Start's ancestors reachable from any of these
	// commits too, in addition to Stop. Used by the "log" operation
	// to prune gitlink-only parents (a revision's own "series"/"base"
	// entries) from the committed-ref's bookkeeping history, one hide
	// target per commit along the way.
	Hide []Hash

	// Reverse lists commits oldest-first instead of the Git default
	// of newest-first.
	Reverse bool
}

// ListCommits lists the commits reachable from req.Start, in topological
// order, excluding those also reachable from req.Stop or req.Hide.
//
// This wraps 'git rev-list --topo-order [--reverse] <start> [--not <stop> <hide>...]'.
func (r *Repository) ListCommits(ctx context.Context, req ListCommitsRequest) ([]Hash, error) {
	args := []string{"rev-list", "--topo-order"}
	if req.Reverse {
		args = append(args, "--reverse")
	}
	args = append(args, req.Start)
	if req.Stop != "" || len(req.Hide) > 0 {
		args = append(args, "--not")
		if req.Stop != "" {
			args = append(args, req.Stop)
		}
		for _, h := range req.Hide {
			args = append(args, h.String())
		}
	}

	cmd := r.gitCmd(ctx, args...)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("pipe stdout: %w", err)
	}

	if err := cmd.Start(r.exec); err != nil {
		return nil, fmt.Errorf("start rev-list: %w", err)
	}

	var hashes []Hash
	scanner := bufio.NewScanner(stdout)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		hashes = append(hashes, Hash(line))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan: %w", err)
	}

	if err := cmd.Wait(r.exec); err != nil {
		return nil, fmt.Errorf("rev-list: %w", err)
	}

	return hashes, nil
}

// CommitsBetween reports the commits reachable from series but not from
// base, in topological order from oldest to newest.
//
// This is the Go equivalent of a libgit2 revwalk configured with
// TOPOLOGICAL|REVERSE sorting, pushing series and hiding base: it is how
// range-diff and mail formatting enumerate the patches in a series.
func (r *Repository) CommitsBetween(ctx context.Context, base, series Hash) ([]Hash, error) {
	return r.ListCommits(ctx, ListCommitsRequest{
		Start:   series.String(),
		Stop:    base.String(),
		Reverse: true,
	})
}
