package git

import (
	"bufio"
	"context"
	"fmt"
	"iter"
	"strings"
)

// SetRefRequest is a request to set a ref to a new hash.
type SetRefRequest struct {
	// Ref is the name of the ref to set.
	// If the ref is a branch or tag, it should be fully qualified
	// (e.g., "refs/heads/main" or "refs/tags/v1.0").
	Ref string

	// Hash is the hash to set the ref to.
	Hash Hash

	// OldHash, if set, specifies the current value of the ref.
	// The ref will only be updated if it currently points to OldHash.
	// Set this to ZeroHash to ensure that a ref being created
	// does not already exist.
	OldHash Hash

	// Reason, if set, is recorded as the reflog message for this update
	// instead of Git's default message.
	Reason string

	// CreateReflog forces a reflog to be created for the ref if one
	// does not already exist. Refs outside refs/heads/, refs/remotes/,
	// and a few other well-known namespaces don't get a reflog by
	// default, even with core.logAllRefUpdates set.
	CreateReflog bool
}

// SetRef changes the value of a ref to a new hash.
//
// It optionally allows verifying the current value of the ref
// before updating it, and recording a custom reflog message.
func (r *Repository) SetRef(ctx context.Context, req SetRefRequest) error {
	// git update-ref [--create-reflog] [-m <reason>] <rev> <newvalue> [<oldvalue>]
	args := []string{"update-ref"}
	if req.CreateReflog {
		args = append(args, "--create-reflog")
	}
	if req.Reason != "" {
		args = append(args, "-m", req.Reason)
	}
	args = append(args, req.Ref, string(req.Hash))
	if req.OldHash != "" {
		args = append(args, string(req.OldHash))
	}

	if err := r.gitCmd(ctx, args...).Run(r.exec); err != nil {
		return fmt.Errorf("git update-ref: %w", err)
	}
	return nil
}

// DeleteRefRequest is a request to delete a ref.
type DeleteRefRequest struct {
	// Ref is the name of the ref to delete.
	Ref string // required

	// OldHash, if set, specifies the current value of the ref.
	// The ref will only be deleted if it currently points to OldHash.
	OldHash Hash
}

// DeleteRef removes a ref from the repository.
func (r *Repository) DeleteRef(ctx context.Context, req DeleteRefRequest) error {
	args := []string{"update-ref", "-d", req.Ref}
	if req.OldHash != "" {
		args = append(args, string(req.OldHash))
	}
	if err := r.gitCmd(ctx, args...).Run(r.exec); err != nil {
		return fmt.Errorf("git update-ref -d: %w", err)
	}
	return nil
}

// SymbolicRef reports the ref that the given symbolic ref points to.
// For example, SymbolicRef(ctx, "HEAD") reports "refs/heads/main"
// when HEAD is attached to the main branch.
//
// It returns [ErrNotExist] if the symbolic ref is not set.
func (r *Repository) SymbolicRef(ctx context.Context, name string) (string, error) {
	out, err := r.gitCmd(ctx, "symbolic-ref", "--quiet", name).OutputString(r.exec)
	if err != nil {
		return "", ErrNotExist
	}
	return out, nil
}

// SetSymbolicRefRequest is a request to point a symbolic ref at another ref.
type SetSymbolicRefRequest struct {
	// Name of the symbolic ref, e.g. "HEAD" or "refs/SHEAD".
	Name string // required

	// Target is the ref that Name should point to,
	// e.g. "refs/heads/main".
	Target string // required

	// Reason, if set, is recorded as the reflog message for this update.
	Reason string
}

// SetSymbolicRef points a symbolic ref at another ref.
// This wraps 'git symbolic-ref [-m <reason>] <name> <target>'.
func (r *Repository) SetSymbolicRef(ctx context.Context, req SetSymbolicRefRequest) error {
	args := []string{"symbolic-ref"}
	if req.Reason != "" {
		args = append(args, "-m", req.Reason)
	}
	args = append(args, req.Name, req.Target)
	if err := r.gitCmd(ctx, args...).Run(r.exec); err != nil {
		return fmt.Errorf("git symbolic-ref: %w", err)
	}
	return nil
}

// DeleteSymbolicRef removes a symbolic ref from the repository.
func (r *Repository) DeleteSymbolicRef(ctx context.Context, name string) error {
	if err := r.gitCmd(ctx, "symbolic-ref", "--delete", name).Run(r.exec); err != nil {
		return fmt.Errorf("git symbolic-ref --delete: %w", err)
	}
	return nil
}

// LocalBranch is a single local branch in a repository.
type LocalBranch struct {
	// Name is the short name of the branch, e.g. "main".
	Name string

	// Hash is the commit the branch currently points to.
	Hash Hash
}

// LocalBranches lists local branches in the repository,
// in the order reported by Git.
//
// This lists refs under refs/heads/ with ListRefs and strips that prefix.
func (r *Repository) LocalBranches(ctx context.Context) iter.Seq2[LocalBranch, error] {
	return func(yield func(LocalBranch, error) bool) {
		for ref, err := range r.ListRefs(ctx, "refs/heads/") {
			if err != nil {
				yield(LocalBranch{}, err)
				return
			}
			name := strings.TrimPrefix(ref.Name, "refs/heads/")
			if !yield(LocalBranch{Name: name, Hash: ref.Hash}, nil) {
				return
			}
		}
	}
}

// Ref is a single entry reported by [Repository.ListRefs]:
// a fully-qualified ref name and the hash it resolves to.
type Ref struct {
	// Name is the fully-qualified ref name,
	// e.g. "refs/heads/main" or "refs/git-series-internals/staged/foo".
	Name string

	// Hash is the object the ref currently points to.
	Hash Hash
}

// ListRefs lists every ref under the given prefix,
// in the order reported by Git.
//
// This wraps 'git for-each-ref --format=%(objectname)\t%(refname) <prefix>'.
func (r *Repository) ListRefs(ctx context.Context, prefix string) iter.Seq2[Ref, error] {
	return r.listRefs(ctx, prefix, "")
}

// ListRefsSorted lists every ref under the given prefix, ordered by
// the given for-each-ref sort key (e.g. "creatordate").
func (r *Repository) ListRefsSorted(ctx context.Context, prefix, sortKey string) iter.Seq2[Ref, error] {
	return r.listRefs(ctx, prefix, sortKey)
}

func (r *Repository) listRefs(ctx context.Context, prefix, sortKey string) iter.Seq2[Ref, error] {
	return func(yield func(Ref, error) bool) {
		args := []string{"for-each-ref", "--format=%(objectname)\t%(refname)"}
		if sortKey != "" {
			args = append(args, "--sort="+sortKey)
		}
		args = append(args, prefix)
		cmd := r.gitCmd(ctx, args...)
		stdout, err := cmd.StdoutPipe()
		if err != nil {
			yield(Ref{}, fmt.Errorf("pipe stdout: %w", err))
			return
		}

		if err := cmd.Start(r.exec); err != nil {
			yield(Ref{}, fmt.Errorf("start: %w", err))
			return
		}

		scanner := bufio.NewScanner(stdout)
		for scanner.Scan() {
			line := scanner.Text()
			if line == "" {
				continue
			}

			hash, name, ok := strings.Cut(line, "\t")
			if !ok {
				r.log.Warn("Bad for-each-ref output", "line", line)
				continue
			}

			if !yield(Ref{Name: name, Hash: Hash(hash)}, nil) {
				_ = cmd.Kill(r.exec)
				return
			}
		}

		if err := scanner.Err(); err != nil {
			yield(Ref{}, fmt.Errorf("scan: %w", err))
			return
		}

		if err := cmd.Wait(r.exec); err != nil {
			yield(Ref{}, fmt.Errorf("git for-each-ref: %w", err))
			return
		}
	}
}

// DefaultBranch reports the default branch of a remote.
// The remote must be known to the repository.
func (r *Repository) DefaultBranch(ctx context.Context, remote string) (string, error) {
	ref, err := r.gitCmd(
		ctx, "symbolic-ref", "--short", "refs/remotes/"+remote+"/HEAD").
		OutputString(r.exec)
	if err != nil {
		return "", fmt.Errorf("symbolic-ref: %w", err)
	}

	ref = strings.TrimPrefix(ref, remote+"/")
	return ref, nil
}
