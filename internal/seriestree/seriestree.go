// Package seriestree implements the canonical tree representation of
// one revision of a patch series: up to three named entries, "series"
// (gitlink to the series tip), "base" (gitlink to the series base),
// and "cover" (blob, the cover letter text).
package seriestree

import (
	"bytes"
	"context"
	"fmt"

	"github.com/git-series/git-series/internal/git"
)

// Entry names recognized inside a series revision tree.
// No other entries are recognized; unrecognized entries are preserved
// on read (so round-tripping through Build never silently drops
// foreign tree entries) but are not interpreted.
const (
	SeriesEntry = "series"
	BaseEntry   = "base"
	CoverEntry  = "cover"
)

// Revision is one revision of a patch series, decoded from or destined
// to become a Git tree object.
type Revision struct {
	// Series is the tip commit of the patch series.
	// The zero value means the entry is absent.
	Series git.Hash

	// Base is the commit the series is based on.
	// The zero value means the entry is absent.
	Base git.Hash

	// Cover is the cover-letter text, or nil if absent.
	Cover []byte

	// extra holds any tree entries besides series/base/cover,
	// preserved verbatim so Build round-trips a tree it didn't
	// fully understand.
	extra []git.TreeEntry
}

// HasSeries reports whether the revision has a "series" entry.
func (rev *Revision) HasSeries() bool { return rev.Series != "" }

// HasBase reports whether the revision has a "base" entry.
func (rev *Revision) HasBase() bool { return rev.Base != "" }

// HasCover reports whether the revision has a "cover" entry.
func (rev *Revision) HasCover() bool { return rev.Cover != nil }

// Clone returns a deep copy of the revision, safe to mutate
// independently of rev.
func (rev *Revision) Clone() *Revision {
	clone := &Revision{Series: rev.Series, Base: rev.Base}
	if rev.Cover != nil {
		clone.Cover = append([]byte(nil), rev.Cover...)
	}
	if rev.extra != nil {
		clone.extra = append([]git.TreeEntry(nil), rev.extra...)
	}
	return clone
}

// Read decodes the series revision stored in the given tree.
//
// Each of the three well-known entries is individually optional;
// absence of a tree (git.ZeroHash) yields an empty Revision.
func Read(ctx context.Context, repo *git.Repository, tree git.Hash) (*Revision, error) {
	rev := &Revision{}
	if tree == "" || tree == git.ZeroHash {
		return rev, nil
	}

	entries, err := repo.ListTree(ctx, tree, git.ListTreeOptions{})
	if err != nil {
		return nil, fmt.Errorf("list tree %s: %w", tree.Short(), err)
	}

	for ent, err := range entries {
		if err != nil {
			return nil, fmt.Errorf("list tree %s: %w", tree.Short(), err)
		}

		switch ent.Name {
		case SeriesEntry:
			if ent.Type != git.CommitType {
				return nil, fmt.Errorf("%s: expected a gitlink, got %s", SeriesEntry, ent.Type)
			}
			rev.Series = ent.Hash

		case BaseEntry:
			if ent.Type != git.CommitType {
				return nil, fmt.Errorf("%s: expected a gitlink, got %s", BaseEntry, ent.Type)
			}
			rev.Base = ent.Hash

		case CoverEntry:
			if ent.Type != git.BlobType {
				return nil, fmt.Errorf("%s: expected a blob, got %s", CoverEntry, ent.Type)
			}

			var buf bytes.Buffer
			if err := repo.ReadObject(ctx, git.BlobType, ent.Hash, &buf); err != nil {
				return nil, fmt.Errorf("read cover blob: %w", err)
			}
			rev.Cover = buf.Bytes()

		default:
			rev.extra = append(rev.extra, ent)
		}
	}

	return rev, nil
}

// Build writes the revision as a new tree object and returns its hash.
//
// If the revision has a cover letter, the blob is written to the
// object database first (git hash-object -w).
func (rev *Revision) Build(ctx context.Context, repo *git.Repository) (git.Hash, error) {
	var coverHash git.Hash
	if rev.HasCover() {
		hash, err := repo.WriteObject(ctx, git.BlobType, bytes.NewReader(rev.Cover))
		if err != nil {
			return git.ZeroHash, fmt.Errorf("write cover blob: %w", err)
		}
		coverHash = hash
	}

	entries := make([]git.TreeEntry, 0, 3+len(rev.extra))
	if rev.HasSeries() {
		entries = append(entries, git.TreeEntry{
			Mode: git.GitlinkMode, Type: git.CommitType, Hash: rev.Series, Name: SeriesEntry,
		})
	}
	if rev.HasBase() {
		entries = append(entries, git.TreeEntry{
			Mode: git.GitlinkMode, Type: git.CommitType, Hash: rev.Base, Name: BaseEntry,
		})
	}
	if rev.HasCover() {
		entries = append(entries, git.TreeEntry{
			Mode: git.RegularMode, Type: git.BlobType, Hash: coverHash, Name: CoverEntry,
		})
	}
	entries = append(entries, rev.extra...)

	sortEntriesByName(entries)

	tree, err := repo.MakeTree(ctx, func(yield func(git.TreeEntry) bool) {
		for _, ent := range entries {
			if !yield(ent) {
				return
			}
		}
	})
	if err != nil {
		return git.ZeroHash, fmt.Errorf("make tree: %w", err)
	}
	return tree, nil
}

// Gitlinks reports the set of gitlink (series/base) hashes present in
// the revision, deduplicated, in a stable order (series before base).
// Used by the Internals state machine to compute a commit's parent
// list (spec.md §4.3): these are the commits reachability has to be
// preserved for.
func (rev *Revision) Gitlinks() []git.Hash {
	var hashes []git.Hash
	if rev.HasSeries() {
		hashes = append(hashes, rev.Series)
	}
	if rev.HasBase() && rev.Base != rev.Series {
		hashes = append(hashes, rev.Base)
	}
	return hashes
}

func sortEntriesByName(entries []git.TreeEntry) {
	for i := 1; i < len(entries); i++ {
		for j := i; j > 0 && entries[j-1].Name > entries[j].Name; j-- {
			entries[j-1], entries[j] = entries[j], entries[j-1]
		}
	}
}
