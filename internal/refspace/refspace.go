// Package refspace computes the ref names that make up a git-series
// series, and resolves the current series from SHEAD.
package refspace

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/git-series/git-series/internal/git"
	"github.com/git-series/git-series/internal/sliceutil"
)

// CommittedPrefix is the ref namespace holding committed series revisions.
const CommittedPrefix = "refs/heads/git-series/"

// StagedPrefix is the ref namespace holding staged working copies.
const StagedPrefix = "refs/git-series-internals/staged/"

// WorkingPrefix is the ref namespace holding untracked working copies.
const WorkingPrefix = "refs/git-series-internals/working/"

// SHEADRef is the symbolic ref pointing at the current series'
// committed ref.
const SHEADRef = "refs/SHEAD"

// Name is a series name: the suffix shared by a series' three refs.
type Name string

// Validate reports whether n is usable as a series name.
//
// It applies the same restrictions Git applies to one path component
// of a ref (see git-check-ref-format(1)): non-empty, no ".." path
// traversal, no control characters or space, no trailing ".lock",
// and no leading/trailing/doubled slashes or dots.
func (n Name) Validate() error {
	s := string(n)
	switch {
	case s == "":
		return errors.New("series name must not be empty")
	case strings.Contains(s, ".."):
		return fmt.Errorf("series name %q must not contain '..'", s)
	case strings.HasSuffix(s, ".lock"):
		return fmt.Errorf("series name %q must not end in '.lock'", s)
	case strings.HasPrefix(s, "/") || strings.HasSuffix(s, "/"):
		return fmt.Errorf("series name %q must not start or end with '/'", s)
	case strings.HasPrefix(s, ".") || strings.HasSuffix(s, "."):
		return fmt.Errorf("series name %q must not start or end with '.'", s)
	case strings.ContainsAny(s, " \t\n~^:?*[\\"):
		return fmt.Errorf("series name %q contains an invalid character", s)
	}
	for _, r := range s {
		if r < 0x20 || r == 0x7f {
			return fmt.Errorf("series name %q contains a control character", s)
		}
	}
	return nil
}

// RefTriple holds the three ref names that make up a series.
type RefTriple struct {
	// Committed is the ref recording the series' committed revisions:
	// refs/heads/git-series/<name>.
	Committed string

	// Staged is the ref recording the staged working copy:
	// refs/git-series-internals/staged/<name>.
	Staged string

	// Working is the ref recording the untracked working copy:
	// refs/git-series-internals/working/<name>.
	Working string
}

// Refs computes the ref triple for the given series name.
func Refs(name Name) RefTriple {
	return RefTriple{
		Committed: CommittedPrefix + string(name),
		Staged:    StagedPrefix + string(name),
		Working:   WorkingPrefix + string(name),
	}
}

// ErrNoCurrentSeries is returned by Current when SHEAD is not set.
var ErrNoCurrentSeries = errors.New("no current series")

// ErrCorrupt is returned by Current when SHEAD is set but does not
// point into the committed-ref namespace.
type ErrCorrupt struct {
	Target string
}

func (e *ErrCorrupt) Error() string {
	return fmt.Sprintf("SHEAD points to %q, which is not a git-series ref", e.Target)
}

// Current resolves the name of the series currently checked out via
// SHEAD.
//
// It returns [ErrNoCurrentSeries] if SHEAD is unset, or an
// [*ErrCorrupt] if SHEAD is set but does not refer to a ref under
// [CommittedPrefix].
func Current(ctx context.Context, repo *git.Repository) (Name, error) {
	target, err := repo.SymbolicRef(ctx, SHEADRef)
	if err != nil {
		if errors.Is(err, git.ErrNotExist) {
			return "", ErrNoCurrentSeries
		}
		return "", fmt.Errorf("resolve SHEAD: %w", err)
	}

	name, ok := strings.CutPrefix(target, CommittedPrefix)
	if !ok {
		return "", &ErrCorrupt{Target: target}
	}
	return Name(name), nil
}

// List enumerates all series known to the repository, deduplicated
// and sorted by name, by listing refs under each of the three
// prefixes and stripping the prefix.
func List(ctx context.Context, repo *git.Repository) ([]Name, error) {
	seen := make(map[Name]struct{})
	for _, prefix := range []string{CommittedPrefix, StagedPrefix, WorkingPrefix} {
		refs, err := sliceutil.CollectErr(repo.ListRefs(ctx, prefix))
		if err != nil {
			return nil, fmt.Errorf("list refs under %s: %w", prefix, err)
		}
		for _, ref := range refs {
			seen[Name(strings.TrimPrefix(ref.Name, prefix))] = struct{}{}
		}
	}

	names := make([]Name, 0, len(seen))
	for n := range seen {
		names = append(names, n)
	}
	sortNames(names)
	return names, nil
}

// ListByCreation enumerates all series known to the repository,
// ordered by the creation date of their committed ref (oldest first),
// falling back to name order for series that have never been
// committed (and so have no committed ref to date). This matches the
// original Rust implementation's listing order for the bare "series"
// command.
func ListByCreation(ctx context.Context, repo *git.Repository) ([]Name, error) {
	var ordered []Name
	seen := make(map[Name]struct{})
	for ref, err := range repo.ListRefsSorted(ctx, CommittedPrefix, "creatordate") {
		if err != nil {
			return nil, fmt.Errorf("list refs under %s: %w", CommittedPrefix, err)
		}
		name := Name(strings.TrimPrefix(ref.Name, CommittedPrefix))
		seen[name] = struct{}{}
		ordered = append(ordered, name)
	}

	all, err := List(ctx, repo)
	if err != nil {
		return nil, err
	}
	for _, name := range all {
		if _, ok := seen[name]; !ok {
			ordered = append(ordered, name)
		}
	}
	return ordered, nil
}

func sortNames(names []Name) {
	for i := 1; i < len(names); i++ {
		for j := i; j > 0 && names[j-1] > names[j]; j-- {
			names[j-1], names[j] = names[j], names[j-1]
		}
	}
}
