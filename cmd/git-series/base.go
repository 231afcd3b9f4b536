package main

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/git-series/git-series/internal/seriesstate"
	"github.com/git-series/git-series/internal/text"
)

type baseCmd struct {
	Commit string `arg:"" optional:"" help:"Commit to set as the series' base."`
	Delete bool   `short:"d" help:"Clear the working copy's base entry."`
}

func (*baseCmd) Help() string {
	return text.Dedent(`
		With no arguments, prints the working copy's base commit.
		With a commit, sets it as the base, which must be the series
		tip or one of its ancestors. With -d, clears the base entry.
	`)
}

func (cmd *baseCmd) Run(ctx context.Context, logger *log.Logger, opts *globalOptions) error {
	app, err := openApp(ctx, logger)
	if err != nil {
		return err
	}

	s, err := seriesstate.LoadCurrent(ctx, app.repo, logger)
	if err != nil {
		return fmt.Errorf("load current series: %w", err)
	}

	switch {
	case cmd.Delete:
		s.ClearBase()
	case cmd.Commit != "":
		oid, err := app.repo.PeelToCommit(ctx, cmd.Commit)
		if err != nil {
			return fmt.Errorf("resolve %s: %w", cmd.Commit, err)
		}
		if err := s.SetBase(ctx, app.repo, oid); err != nil {
			return err
		}
	default:
		out := app.output(ctx, "base", opts)
		defer out.Close()
		if s.Working().HasBase() {
			fmt.Fprintln(out, s.Working().Base)
		}
		return nil
	}

	author, committer, err := app.identity(ctx)
	if err != nil {
		return err
	}
	if err := s.Write(ctx, seriesstate.Identity{Author: author, Committer: committer}); err != nil {
		return fmt.Errorf("write working state: %w", err)
	}
	return nil
}
