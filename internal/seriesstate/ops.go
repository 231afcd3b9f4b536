package seriesstate

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/git-series/git-series/internal/git"
	"github.com/git-series/git-series/internal/refspace"
	"github.com/git-series/git-series/internal/seriestree"
)

// EntryName is one of the three well-known entries a series revision
// may carry.
type EntryName string

// The three entries recognized by add/unadd.
const (
	SeriesEntryName EntryName = seriestree.SeriesEntry
	BaseEntryName   EntryName = seriestree.BaseEntry
	CoverEntryName  EntryName = seriestree.CoverEntry
)

// AllEntries is the default set of names add/unadd operate on when
// the caller specifies none, matching git-series' original CLI
// default (see SPEC_FULL.md §7).
var AllEntries = []EntryName{SeriesEntryName, BaseEntryName, CoverEntryName}

// ErrUnknownEntry is returned by Add/Unadd for a name that isn't one
// of "series", "base", "cover".
type ErrUnknownEntry struct{ Name string }

func (e *ErrUnknownEntry) Error() string {
	return fmt.Sprintf("unknown entry %q: expected one of series, base, cover", e.Name)
}

func parseEntryName(s string) (EntryName, error) {
	switch EntryName(s) {
	case SeriesEntryName, BaseEntryName, CoverEntryName:
		return EntryName(s), nil
	default:
		return "", &ErrUnknownEntry{Name: s}
	}
}

// ParseEntryNames validates and converts a list of CLI-supplied
// entry names, defaulting to [AllEntries] when names is empty.
func ParseEntryNames(names []string) ([]EntryName, error) {
	if len(names) == 0 {
		return AllEntries, nil
	}
	out := make([]EntryName, 0, len(names))
	for _, n := range names {
		e, err := parseEntryName(n)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

func copyEntry(dst, src *seriestree.Revision, name EntryName) {
	switch name {
	case SeriesEntryName:
		dst.Series = src.Series
	case BaseEntryName:
		dst.Base = src.Base
	case CoverEntryName:
		dst.Cover = src.Cover
	}
}

func clearEntry(dst *seriestree.Revision, name EntryName) {
	switch name {
	case SeriesEntryName:
		dst.Series = ""
	case BaseEntryName:
		dst.Base = ""
	case CoverEntryName:
		dst.Cover = nil
	}
}

// Add copies each named entry from working into staged.
// An entry absent from working is deleted from staged.
func (s *Series) Add(names []EntryName) {
	for _, name := range names {
		copyEntry(s.staged.rev, s.working.rev, name)
	}
}

// Unadd resets each named staged entry: to committed's value if the
// series has been committed ([Committed] phase), or deletes it
// entirely otherwise ([Started] phase), per spec.md §4.3.
func (s *Series) Unadd(names []EntryName) {
	committed := s.committed.rev
	for _, name := range names {
		if s.Phase() == Committed {
			copyEntry(s.staged.rev, committed, name)
		} else {
			clearEntry(s.staged.rev, name)
		}
	}
}

// ErrBaseNotAncestor is returned by SetBase when the candidate base
// is not an ancestor of the series tip.
var ErrBaseNotAncestor = errors.New("base is not an ancestor of series")

// SetBase validates and sets working's base entry.
func (s *Series) SetBase(ctx context.Context, repo *git.Repository, oid git.Hash) error {
	tip := s.working.rev.Series
	if oid != tip && !repo.IsAncestor(ctx, oid, tip) {
		return ErrBaseNotAncestor
	}
	s.working.rev.Base = oid
	return nil
}

// ClearBase removes working's base entry.
func (s *Series) ClearBase() {
	s.working.rev.Base = ""
}

// ErrEmptyCover is returned by SetCover when the given text is empty
// after trimming.
var ErrEmptyCover = errors.New("empty cover letter")

// SetCover sets working's cover letter, rejecting an empty one
// without changing the existing value.
func (s *Series) SetCover(text string) error {
	if strings.TrimSpace(text) == "" {
		return ErrEmptyCover
	}
	s.working.rev.Cover = []byte(text)
	return nil
}

// ClearCover removes working's cover letter.
func (s *Series) ClearCover() {
	s.working.rev.Cover = nil
}

// CommitOptions configures a Commit call.
type CommitOptions struct {
	// Message is the commit message. Empty aborts the commit.
	Message string

	// All sources the tree to commit from working instead of staged.
	All bool

	Identity Identity
}

// ErrEmptyMessage is returned by Commit when Message is empty.
var ErrEmptyMessage = errors.New("empty commit message")

// ErrMissingSeries is returned by Commit when the tree to commit has
// no "series" entry.
var ErrMissingSeries = errors.New("series revision has no series entry")

// Commit advances committed(N) with a new revision, per the contract
// in spec.md §4.3: the tree comes from staged (default) or working
// (All); it must contain "series", and if it contains "base", base
// must be series or an ancestor of it. The new commit's parents are
// the previous committed tip (if any) plus every gitlink in the new
// tree except "base" — base is already reachable via the tip's own
// history, so it's excluded to avoid polluting the parent set
// (spec.md §4.3, "The exclusion of base is intentional").
func (s *Series) Commit(ctx context.Context, repo *git.Repository, opts CommitOptions) (git.Hash, error) {
	if strings.TrimSpace(opts.Message) == "" {
		return git.ZeroHash, ErrEmptyMessage
	}

	src := s.staged.rev
	if opts.All {
		src = s.working.rev
	}
	if !src.HasSeries() {
		return git.ZeroHash, ErrMissingSeries
	}
	if src.HasBase() && src.Base != src.Series && !repo.IsAncestor(ctx, src.Base, src.Series) {
		return git.ZeroHash, ErrBaseNotAncestor
	}

	tree, err := src.Build(ctx, repo)
	if err != nil {
		return git.ZeroHash, fmt.Errorf("materialize tree: %w", err)
	}

	parents := commitParents(s.committed.oid, src)

	newCommit, err := repo.CommitTree(ctx, git.CommitTreeRequest{
		Tree:      tree,
		Message:   opts.Message,
		Parents:   parents,
		Author:    opts.Identity.Author,
		Committer: opts.Identity.Committer,
	})
	if err != nil {
		return git.ZeroHash, fmt.Errorf("commit-tree: %w", err)
	}

	if err := repo.SetRef(ctx, git.SetRefRequest{
		Ref:     s.refs.Committed,
		Hash:    newCommit,
		OldHash: orZero(s.committed.oid),
		Reason:  fmt.Sprintf("git series commit: %s", s.name),
	}); err != nil {
		return git.ZeroHash, err
	}

	s.committed = revisionRef{ref: s.refs.Committed, oid: newCommit, tree: tree, rev: src.Clone()}
	return newCommit, nil
}

// commitParents computes the parent list for a new committed
// revision: the previous tip (if any) plus every gitlink in rev
// except "base", deduplicated and sorted.
func commitParents(prevTip git.Hash, rev *seriestree.Revision) []git.Hash {
	seen := make(map[git.Hash]struct{})
	var parents []git.Hash

	add := func(h git.Hash) {
		if h == "" {
			return
		}
		if _, ok := seen[h]; ok {
			return
		}
		seen[h] = struct{}{}
		parents = append(parents, h)
	}

	add(prevTip)
	add(rev.Series)
	// base is intentionally excluded: see the doc comment on Commit.

	slices.SortFunc(parents, func(a, b git.Hash) int {
		return strings.Compare(string(a), string(b))
	})
	return parents
}

// ErrCurrentSeries is returned by Delete when asked to delete the
// currently checked-out series.
var ErrCurrentSeries = errors.New("cannot delete the current series")

// Delete removes all three of a series' refs. It returns
// [ErrCurrentSeries] without deleting anything if s is the currently
// checked-out series (spec.md §4.3, "forbidden if N is the current
// series").
func Delete(ctx context.Context, repo *git.Repository, s *Series) error {
	if current, err := refspace.Current(ctx, repo); err == nil && current == s.name {
		return ErrCurrentSeries
	}

	for _, rr := range []revisionRef{s.committed, s.staged, s.working} {
		if rr.oid == "" {
			continue
		}
		if err := repo.DeleteRef(ctx, git.DeleteRefRequest{
			Ref:     rr.ref,
			OldHash: rr.oid,
		}); err != nil {
			return fmt.Errorf("delete %s: %w", rr.ref, err)
		}
	}
	return nil
}

// Detach removes SHEAD, leaving no current series.
func Detach(ctx context.Context, repo *git.Repository) error {
	if err := repo.DeleteSymbolicRef(ctx, refspace.SHEADRef); err != nil {
		return fmt.Errorf("detach: %w", err)
	}
	return nil
}

// Start creates a new series: SHEAD becomes symbolic to
// committed(name), and working(name) is seeded from the current
// HEAD. committed(name) is not created; that happens on the first
// Commit.
func Start(ctx context.Context, repo *git.Repository, name refspace.Name, id Identity) (*Series, error) {
	if err := name.Validate(); err != nil {
		return nil, err
	}

	refs := refspace.Refs(name)
	if _, err := repo.PeelToCommit(ctx, refs.Committed); err == nil {
		return nil, fmt.Errorf("series %q already exists", name)
	}

	if err := repo.SetSymbolicRef(ctx, git.SetSymbolicRefRequest{
		Name:   refspace.SHEADRef,
		Target: refs.Committed,
		Reason: fmt.Sprintf("git series start: %s", name),
	}); err != nil {
		return nil, fmt.Errorf("set SHEAD: %w", err)
	}

	s, err := Load(ctx, repo, nil, name)
	if err != nil {
		return nil, err
	}
	if err := s.Write(ctx, id); err != nil {
		return nil, err
	}
	return s, nil
}

// Checkout switches SHEAD to the named series and checks out the
// working tree to working(name)'s series tip.
func Checkout(ctx context.Context, repo *git.Repository, name refspace.Name) error {
	refs := refspace.Refs(name)

	working, err := loadRevisionRef(ctx, repo, refs.Working)
	if err != nil {
		return fmt.Errorf("load working(%s): %w", name, err)
	}
	if working.rev == nil || !working.rev.HasSeries() {
		return fmt.Errorf("series %q has no working tip to check out", name)
	}

	if err := repo.SetSymbolicRef(ctx, git.SetSymbolicRefRequest{
		Name:   refspace.SHEADRef,
		Target: refs.Committed,
		Reason: fmt.Sprintf("git series checkout: %s", name),
	}); err != nil {
		return fmt.Errorf("set SHEAD: %w", err)
	}

	if err := repo.CheckoutTree(ctx, &git.CheckoutTreeRequest{
		TreeIsh: working.rev.Series.String(),
	}); err != nil {
		return fmt.Errorf("checkout %s: %w", working.rev.Series.Short(), err)
	}

	return nil
}

// Copy copies the three refs from src to dst. dst must not already
// exist.
func Copy(ctx context.Context, repo *git.Repository, src, dst refspace.Name) error {
	return copyRefs(ctx, repo, src, dst, false)
}

// Move copies the three refs from src to dst, then deletes src's
// refs. If src was the current series, SHEAD is retargeted to dst.
func Move(ctx context.Context, repo *git.Repository, src, dst refspace.Name) error {
	return copyRefs(ctx, repo, src, dst, true)
}

func copyRefs(ctx context.Context, repo *git.Repository, src, dst refspace.Name, move bool) error {
	if err := dst.Validate(); err != nil {
		return err
	}

	srcRefs, dstRefs := refspace.Refs(src), refspace.Refs(dst)
	srcPairs := []struct{ src, dst string }{
		{srcRefs.Committed, dstRefs.Committed},
		{srcRefs.Staged, dstRefs.Staged},
		{srcRefs.Working, dstRefs.Working},
	}

	for _, p := range srcPairs {
		if _, err := repo.PeelToCommit(ctx, p.dst); err == nil {
			return fmt.Errorf("series %q already exists", dst)
		}
	}

	var copiedAny bool
	for _, p := range srcPairs {
		oid, err := repo.PeelToCommit(ctx, p.src)
		if err != nil {
			if errors.Is(err, git.ErrNotExist) {
				continue
			}
			return fmt.Errorf("resolve %s: %w", p.src, err)
		}

		if err := repo.SetRef(ctx, git.SetRefRequest{
			Ref:          p.dst,
			Hash:         oid,
			OldHash:      git.ZeroHash,
			CreateReflog: p.dst != dstRefs.Committed,
			Reason:       fmt.Sprintf("git series %s: %s -> %s", moveVerb(move), src, dst),
		}); err != nil {
			return fmt.Errorf("set %s: %w", p.dst, err)
		}
		copiedAny = true
	}
	if !copiedAny {
		return fmt.Errorf("series %q does not exist", src)
	}

	if !move {
		return nil
	}

	current, err := refspace.Current(ctx, repo)
	isCurrent := err == nil && current == src

	for _, p := range srcPairs {
		oid, err := repo.PeelToCommit(ctx, p.src)
		if err != nil {
			continue
		}
		if err := repo.DeleteRef(ctx, git.DeleteRefRequest{Ref: p.src, OldHash: oid}); err != nil {
			return fmt.Errorf("delete %s: %w", p.src, err)
		}
	}

	if isCurrent {
		if err := repo.SetSymbolicRef(ctx, git.SetSymbolicRefRequest{
			Name:   refspace.SHEADRef,
			Target: dstRefs.Committed,
			Reason: fmt.Sprintf("git series %s: %s -> %s", moveVerb(move), src, dst),
		}); err != nil {
			return fmt.Errorf("retarget SHEAD: %w", err)
		}
	}

	return nil
}

func moveVerb(move bool) string {
	if move {
		return "mv"
	}
	return "cp"
}
