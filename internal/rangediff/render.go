package rangediff

import (
	"fmt"
	"strings"

	"github.com/git-series/git-series/internal/ui"
)

var (
	deletedStyle = ui.NewStyle().Foreground(ui.Red)
	newStyle     = ui.NewStyle().Foreground(ui.Green)
)

// Render renders the full range-diff result as text, one row per
// line (plus an indented diff-of-diffs block under changed pairs),
// following the row formats in spec.md §4.4.
func (res *Result) Render() string {
	var b strings.Builder
	for _, row := range res.Rows {
		b.WriteString(row.render())
		b.WriteByte('\n')
		if row.Kind == Paired && row.Changed {
			b.WriteString(row.Detail)
		}
	}
	return b.String()
}

func (row Row) render() string {
	switch row.Kind {
	case Deleted:
		line := fmt.Sprintf("%d: %s < ----: ---- %s",
			row.OldIndex, row.Old.Hash.Short(), row.Old.Subject)
		return deletedStyle.Render(line)
	case New:
		line := fmt.Sprintf("----: ---- > %d: %s %s",
			row.NewIndex, row.New.Hash.Short(), row.New.Subject)
		return newStyle.Render(line)
	default: // Paired
		ch := "="
		if row.Changed {
			ch = "!"
		}
		return fmt.Sprintf("%d: %s %s %d: %s %s",
			row.OldIndex, row.Old.Hash.Short(), ch,
			row.NewIndex, row.New.Hash.Short(), row.New.Subject)
	}
}
