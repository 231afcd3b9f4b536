// Package seriesstate implements the Internals state machine: it
// reads, mutates, and writes a series' staged/working trees,
// reconciles them with the external HEAD, and commits to the
// series' committed ref.
package seriesstate

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/git-series/git-series/internal/git"
	"github.com/git-series/git-series/internal/refspace"
	"github.com/git-series/git-series/internal/seriestree"
)

// Phase is one of the three lifecycle states a series can be in.
type Phase int

const (
	// Uninitialized: none of committed/staged/working exist.
	Uninitialized Phase = iota

	// Started: SHEAD is symbolic to committed(N), but committed(N)
	// does not exist yet. staged/working may exist.
	Started

	// Committed: committed(N) exists.
	Committed
)

func (p Phase) String() string {
	switch p {
	case Uninitialized:
		return "uninitialized"
	case Started:
		return "started"
	case Committed:
		return "committed"
	default:
		return "unknown"
	}
}

// revisionRef bundles a revision with the ref it was loaded from,
// and whatever was observed at load time, for optimistic-concurrency
// writes.
type revisionRef struct {
	ref string

	// oid is the commit the ref pointed to when we read it,
	// or "" if the ref did not exist.
	oid git.Hash

	// tree is the tree of that commit, or "" if oid is "".
	// Used to detect a no-op write.
	tree git.Hash

	rev *seriestree.Revision
}

// Series is a handle to one series' on-disk state: its three refs,
// loaded into memory, ready to be mutated and written back.
type Series struct {
	repo *git.Repository
	log  *log.Logger
	name refspace.Name
	refs refspace.RefTriple

	committed revisionRef
	staged    revisionRef
	working   revisionRef
}

// Name reports the series' name.
func (s *Series) Name() refspace.Name { return s.name }

// Phase reports which of the three lifecycle states the series is in.
//
// Distinguishing Started from Uninitialized additionally requires
// knowing whether SHEAD currently targets this series; that's a
// repository-wide fact, not one this ref triple carries on its own,
// so callers that care about the U/S distinction should compare
// against [refspace.Current] themselves. Phase reports Started
// whenever there is no committed revision but a staged or working
// ref already exists, since that can only happen after a prior Start.
func (s *Series) Phase() Phase {
	if s.committed.oid != "" {
		return Committed
	}
	if s.staged.oid != "" || s.working.oid != "" {
		return Started
	}
	return Uninitialized
}

// Committed is the series' last committed revision, or an empty
// Revision if none has been committed yet.
func (s *Series) Committed() *seriestree.Revision { return s.committed.rev }

// Staged is the series' staged working copy.
func (s *Series) Staged() *seriestree.Revision { return s.staged.rev }

// Working is the series' untracked working copy.
func (s *Series) Working() *seriestree.Revision { return s.working.rev }

// CommittedHash is the commit hash of the series' committed ref,
// or git.ZeroHash if the series has never been committed.
func (s *Series) CommittedHash() git.Hash { return orZero(s.committed.oid) }

// Load reads the current state of the named series from the
// repository, following the read() contract in spec.md §4.3:
// staged/working are each seeded from their own ref, falling back to
// committed(N), falling back to empty; then working's "series" entry
// is synchronized to the repository's current HEAD.
func Load(ctx context.Context, repo *git.Repository, logger *log.Logger, name refspace.Name) (*Series, error) {
	if logger == nil {
		logger = log.New(io.Discard)
	}

	refs := refspace.Refs(name)
	s := &Series{repo: repo, log: logger, name: name, refs: refs}

	committed, err := loadRevisionRef(ctx, repo, refs.Committed)
	if err != nil {
		return nil, fmt.Errorf("load committed(%s): %w", name, err)
	}
	if committed.rev == nil {
		committed.rev = &seriestree.Revision{}
	}
	s.committed = committed

	staged, err := loadRevisionRef(ctx, repo, refs.Staged)
	if err != nil {
		return nil, fmt.Errorf("load staged(%s): %w", name, err)
	}
	if staged.rev == nil {
		staged.rev = fallbackRevision(committed.rev)
	}
	s.staged = staged

	working, err := loadRevisionRef(ctx, repo, refs.Working)
	if err != nil {
		return nil, fmt.Errorf("load working(%s): %w", name, err)
	}
	if working.rev == nil {
		working.rev = fallbackRevision(committed.rev)
	}
	s.working = working

	head, err := repo.PeelToCommit(ctx, "HEAD")
	if err != nil {
		if !errors.Is(err, git.ErrNotExist) {
			return nil, fmt.Errorf("resolve HEAD: %w", err)
		}
		head = git.ZeroHash
	}
	s.working.rev.Series = head

	return s, nil
}

// LoadCurrent resolves the current series from SHEAD and loads it.
func LoadCurrent(ctx context.Context, repo *git.Repository, logger *log.Logger) (*Series, error) {
	name, err := refspace.Current(ctx, repo)
	if err != nil {
		return nil, err
	}
	return Load(ctx, repo, logger, name)
}

func loadRevisionRef(ctx context.Context, repo *git.Repository, ref string) (revisionRef, error) {
	oid, err := repo.PeelToCommit(ctx, ref)
	if err != nil {
		if errors.Is(err, git.ErrNotExist) {
			return revisionRef{ref: ref}, nil
		}
		return revisionRef{}, err
	}

	tree, err := repo.PeelToTree(ctx, ref)
	if err != nil {
		return revisionRef{}, fmt.Errorf("peel %s to tree: %w", ref, err)
	}

	rev, err := seriestree.Read(ctx, repo, tree)
	if err != nil {
		return revisionRef{}, fmt.Errorf("read tree for %s: %w", ref, err)
	}

	return revisionRef{ref: ref, oid: oid, tree: tree, rev: rev}, nil
}

// fallbackRevision returns a copy of committed, or a fresh empty
// revision if committed is nil.
func fallbackRevision(committed *seriestree.Revision) *seriestree.Revision {
	if committed == nil {
		return &seriestree.Revision{}
	}
	return committed.Clone()
}

// Identity is the author/committer pair used to sign the internal
// bookkeeping commits that back staged/working.
type Identity struct {
	Author, Committer *git.Signature
}

// internalCommitMessage is used for staged/working auto-commits.
// These commits are a transport mechanism (spec.md §9,
// "Reachability by parent abuse"), not user-facing history, so their
// message is fixed rather than user-supplied.
func internalCommitMessage(kind string) string {
	return "git-series internal: " + kind + " snapshot"
}

// Write persists the staged and working revisions back to their refs,
// following the write() contract in spec.md §4.3: a no-op if the
// materialized tree is unchanged, otherwise a new commit whose
// parents are exactly the revision's gitlinks, written with a
// compare-and-set update against the oid observed at Load time.
//
// A CAS failure is not retried; it is returned wrapped with %w under
// a "write <kind>(<name>)" prefix, so errors.Is/As still see it.
func (s *Series) Write(ctx context.Context, id Identity) error {
	for _, kind := range []struct {
		name string
		ref  *revisionRef
	}{
		{"staged", &s.staged},
		{"working", &s.working},
	} {
		if err := s.writeOne(ctx, kind.name, kind.ref, id); err != nil {
			return fmt.Errorf("write %s(%s): %w", kind.name, s.name, err)
		}
	}
	return nil
}

func (s *Series) writeOne(ctx context.Context, kind string, rr *revisionRef, id Identity) error {
	newTree, err := rr.rev.Build(ctx, s.repo)
	if err != nil {
		return fmt.Errorf("materialize tree: %w", err)
	}

	if rr.oid != "" && newTree == rr.tree {
		return nil // no-op: tree unchanged since read
	}

	newCommit, err := s.repo.CommitTree(ctx, git.CommitTreeRequest{
		Tree:      newTree,
		Message:   internalCommitMessage(kind),
		Parents:   rr.rev.Gitlinks(),
		Author:    id.Author,
		Committer: id.Committer,
	})
	if err != nil {
		return fmt.Errorf("commit-tree: %w", err)
	}

	if err := s.repo.SetRef(ctx, git.SetRefRequest{
		Ref:          rr.ref,
		Hash:         newCommit,
		OldHash:      orZero(rr.oid),
		CreateReflog: true,
		Reason:       "git-series: update " + kind,
	}); err != nil {
		return err
	}

	rr.oid = newCommit
	rr.tree = newTree
	return nil
}

func orZero(h git.Hash) git.Hash {
	if h == "" {
		return git.ZeroHash
	}
	return h
}
