package main

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/git-series/git-series/internal/git"
	"github.com/git-series/git-series/internal/rangediff"
	"github.com/git-series/git-series/internal/refspace"
	"github.com/git-series/git-series/internal/seriesstate"
	"github.com/git-series/git-series/internal/text"
	"github.com/git-series/git-series/internal/ui"
)

type logCmd struct {
	Patch bool `short:"p" help:"Show the diff introduced by each revision."`
}

func (*logCmd) Help() string {
	return text.Dedent(`
		Shows the revision history of the current series' committed
		ref, newest first, one entry per committed revision. With -p,
		also shows the diff each revision introduced relative to the
		one before it.
	`)
}

func (cmd *logCmd) Run(ctx context.Context, logger *log.Logger, opts *globalOptions) error {
	app, err := openApp(ctx, logger)
	if err != nil {
		return err
	}

	name, err := refspace.Current(ctx, app.repo)
	if err != nil {
		return fmt.Errorf("resolve current series: %w", err)
	}
	refs := refspace.Refs(name)

	revs, err := seriesstate.History(ctx, app.repo, refs.Committed)
	if err != nil {
		return fmt.Errorf("load history: %w", err)
	}

	out := app.output(ctx, "log", opts)
	defer out.Close()

	commitStyle := ui.NewStyle().Foreground(ui.Yellow).Bold(true)
	for _, rev := range revs {
		info, err := app.repo.CommitInfoOf(ctx, rev.Hash.String())
		if err != nil {
			return fmt.Errorf("read commit %s: %w", rev.Hash.Short(), err)
		}

		fmt.Fprintln(out, commitStyle.Render("commit "+rev.Hash.String()))
		fmt.Fprintf(out, "Author: %s <%s>\n", info.AuthorName, info.AuthorEmail)
		fmt.Fprintf(out, "Date:   %s\n\n", info.AuthorDateRFC2822)
		fmt.Fprintf(out, "    %s\n\n", info.Message.Subject)

		if !cmd.Patch {
			continue
		}

		if rev.Merge {
			fmt.Fprintln(out, "(Diffs of series merge commits not yet supported)")
			fmt.Fprintln(out)
			continue
		}

		oldTree := git.EmptyTreeHash
		if !rev.PrevTip.IsZero() {
			oldTree, err = app.repo.PeelToTree(ctx, rev.PrevTip.String())
			if err != nil {
				return fmt.Errorf("peel %s to tree: %w", rev.PrevTip.Short(), err)
			}
		}
		newTree, err := app.repo.PeelToTree(ctx, rev.Hash.String())
		if err != nil {
			return fmt.Errorf("peel %s to tree: %w", rev.Hash.Short(), err)
		}

		diff, err := rangediff.SeriesDiff(ctx, app.repo, oldTree, newTree)
		if err != nil {
			return fmt.Errorf("diff revision %s: %w", rev.Hash.Short(), err)
		}
		if _, err := io.WriteString(out, diff); err != nil {
			return err
		}
		fmt.Fprintln(out)
	}

	return nil
}
