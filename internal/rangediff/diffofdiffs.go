package rangediff

import (
	"strings"

	"github.com/hexops/gotextdiff"
	"github.com/hexops/gotextdiff/myers"
	"github.com/hexops/gotextdiff/span"
)

// lineDiff computes the line-level unified diff between two
// simplified patch texts: the "diff-of-diffs" spec.md §4.4 calls for
// as both the cost-matrix cell (additions+deletions) and the
// indented, marker-prefixed rendering of a changed pair.
type lineDiff struct {
	additions, deletions int
	hunks                []gotextdiff.Hunk
}

func computeLineDiff(before, after string) lineDiff {
	edits := myers.ComputeEdits(span.URIFromPath("a"), before, after)
	unified := gotextdiff.ToUnified("a", "b", before, edits)

	var d lineDiff
	for _, h := range unified.Hunks {
		d.hunks = append(d.hunks, *h)
		for _, l := range h.Lines {
			switch l.Kind {
			case gotextdiff.Delete:
				d.deletions++
			case gotextdiff.Insert:
				d.additions++
			}
		}
	}
	return d
}

// cost is the additions+deletions line-level cost the assignment
// matrix uses for a paired (i<m, j<n) cell.
func (d lineDiff) cost() float64 {
	return float64(d.additions + d.deletions)
}

// isEmpty reports whether the two sides were identical, i.e. the
// pair's "=" rendering applies instead of "!".
func (d lineDiff) isEmpty() bool {
	return d.additions == 0 && d.deletions == 0
}

// render produces the indented, context-suppressed diff-of-diffs body
// used under a "!" paired row: one line per changed line, prefixed
// with "<" for the old side and ">" for the new side.
func (d lineDiff) render() string {
	var b strings.Builder
	for _, h := range d.hunks {
		for _, l := range h.Lines {
			switch l.Kind {
			case gotextdiff.Delete:
				b.WriteString("    < ")
				b.WriteString(strings.TrimRight(l.Content, "\n"))
				b.WriteByte('\n')
			case gotextdiff.Insert:
				b.WriteString("    > ")
				b.WriteString(strings.TrimRight(l.Content, "\n"))
				b.WriteByte('\n')
			}
		}
	}
	return b.String()
}
