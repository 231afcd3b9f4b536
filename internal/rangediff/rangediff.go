// Package rangediff pairs the commits of two revisions of a patch
// series and reports which commits were carried over unchanged,
// changed, dropped, or added between them.
package rangediff

import (
	"context"
	"fmt"

	"github.com/git-series/git-series/internal/git"
)

// Kind classifies one row of a range-diff result.
type Kind int

const (
	// Paired means the row has both an old and a new commit.
	Paired Kind = iota
	// Deleted means the row's old commit has no counterpart in the
	// new range.
	Deleted
	// New means the row's new commit has no counterpart in the old
	// range.
	New
)

// Row is a single rendered line of a range-diff result.
type Row struct {
	Kind Kind

	// OldIndex/NewIndex are 1-based, offset by the stripped common
	// prefix, as described in spec.md §4.4. Zero means "not present
	// on this side".
	OldIndex, NewIndex int

	Old, New PatchText

	// Changed is true for a Paired row whose diff-of-diffs is
	// non-empty ("!" rather than "=").
	Changed bool

	// Detail is the indented diff-of-diffs body, set only when
	// Changed is true.
	Detail string
}

// Result is the full output of a range-diff comparison.
type Result struct {
	Rows []Row

	// CommonPrefix is the number of leading commits shared verbatim
	// between the two ranges, stripped before comparison.
	CommonPrefix int
}

// Compare computes the range-diff between (oldBase, oldTip) and
// (newBase, newTip), following the algorithm in spec.md §4.4:
// enumerate each range, strip the common prefix, build an N×N cost
// matrix padded with deletion/creation/ignored cells, solve the
// minimum-weight assignment, then classify and order the rows.
func Compare(ctx context.Context, repo *git.Repository, oldBase, oldTip, newBase, newTip git.Hash) (*Result, error) {
	oldHashes, err := repo.CommitsBetween(ctx, oldBase, oldTip)
	if err != nil {
		return nil, fmt.Errorf("walk old range: %w", err)
	}
	newHashes, err := repo.CommitsBetween(ctx, newBase, newTip)
	if err != nil {
		return nil, fmt.Errorf("walk new range: %w", err)
	}

	common := commonPrefixLen(oldHashes, newHashes)
	oldHashes = oldHashes[common:]
	newHashes = newHashes[common:]

	oldTexts, err := buildPatchTexts(ctx, repo, oldHashes)
	if err != nil {
		return nil, err
	}
	newTexts, err := buildPatchTexts(ctx, repo, newHashes)
	if err != nil {
		return nil, err
	}

	rows, err := assign(oldTexts, newTexts, common)
	if err != nil {
		return nil, err
	}

	return &Result{Rows: rows, CommonPrefix: common}, nil
}

func buildPatchTexts(ctx context.Context, repo *git.Repository, hashes []git.Hash) ([]PatchText, error) {
	texts := make([]PatchText, len(hashes))
	for i, h := range hashes {
		t, err := BuildPatchText(ctx, repo, h)
		if err != nil {
			return nil, err
		}
		texts[i] = t
	}
	return texts, nil
}

func commonPrefixLen(a, b []git.Hash) int {
	n := min(len(a), len(b))
	i := 0
	for i < n && a[i] == b[i] {
		i++
	}
	return i
}

// assign builds the cost matrix described in spec.md §4.4, solves it,
// classifies each cell, and emits rows in the documented order: L2 is
// walked in order, flushing any pending deletions from L1 whose index
// precedes the next unconsumed L1 commit, so deletions appear after
// the matched commits they follow in the old range.
func assign(oldTexts, newTexts []PatchText, commonPrefix int) ([]Row, error) {
	m, n := len(oldTexts), len(newTexts)
	size := m + n
	if size == 0 {
		return nil, nil
	}

	cost := make([][]float64, size)
	diffs := make([][]lineDiff, m)
	for i := range diffs {
		diffs[i] = make([]lineDiff, n)
	}

	for i := 0; i < size; i++ {
		cost[i] = make([]float64, size)
		for j := 0; j < size; j++ {
			switch {
			case i < m && j < n:
				d := computeLineDiff(oldTexts[i].Simplified, newTexts[j].Simplified)
				diffs[i][j] = d
				cost[i][j] = d.cost()
			case i < m && j >= n:
				cost[i][j] = float64(oldTexts[i].LineCount) / 2
			case i >= m && j < n:
				cost[i][j] = float64(newTexts[j].LineCount) / 2
			default:
				cost[i][j] = 0
			}
		}
	}

	colForRow := solveAssignment(cost)

	// pairedOld[j] = old index paired with new index j, or -1.
	// deletedOld[i] is set when old index i was assigned a padding
	// column (j >= n), i.e. it has no counterpart in the new range.
	pairedOld := make([]int, n) // index into oldTexts, or -1
	for j := range pairedOld {
		pairedOld[j] = -1
	}
	deletedOld := make(map[int]bool)

	for i := 0; i < m; i++ {
		j := colForRow[i]
		if j < n {
			pairedOld[j] = i
		} else {
			deletedOld[i] = true
		}
	}

	var rows []Row
	flushed := 0
	flushDeletionsUpTo := func(upTo int) {
		for flushed < upTo {
			if deletedOld[flushed] {
				rows = append(rows, deletionRow(oldTexts[flushed], flushed, commonPrefix))
			}
			flushed++
		}
	}

	for j := 0; j < n; j++ {
		i := pairedOld[j]
		if i >= 0 {
			flushDeletionsUpTo(i)
			rows = append(rows, pairedRow(oldTexts[i], newTexts[j], i, j, commonPrefix, diffs[i][j]))
			if flushed == i {
				flushed = i + 1
			}
		} else {
			rows = append(rows, newRow(newTexts[j], j, commonPrefix))
		}
	}
	flushDeletionsUpTo(m)

	return rows, nil
}

func deletionRow(old PatchText, i, commonPrefix int) Row {
	return Row{
		Kind:     Deleted,
		OldIndex: commonPrefix + i + 1,
		Old:      old,
	}
}

func newRow(nt PatchText, j, commonPrefix int) Row {
	return Row{
		Kind:     New,
		NewIndex: commonPrefix + j + 1,
		New:      nt,
	}
}

func pairedRow(old, nt PatchText, i, j, commonPrefix int, d lineDiff) Row {
	r := Row{
		Kind:     Paired,
		OldIndex: commonPrefix + i + 1,
		NewIndex: commonPrefix + j + 1,
		Old:      old,
		New:      nt,
		Changed:  !d.isEmpty(),
	}
	if r.Changed {
		r.Detail = d.render()
	}
	return r
}
