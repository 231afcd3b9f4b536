package main

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/git-series/git-series/internal/rangediff"
	"github.com/git-series/git-series/internal/seriesstate"
	"github.com/git-series/git-series/internal/text"
)

type diffCmd struct {
	Staged bool `help:"Diff committed against staged, instead of staged against working."`
}

func (*diffCmd) Help() string {
	return text.Dedent(`
		Shows uncommitted changes to the current series: by default,
		staged vs. working; with --staged, committed vs. staged.
	`)
}

func (cmd *diffCmd) Run(ctx context.Context, logger *log.Logger, opts *globalOptions) error {
	app, err := openApp(ctx, logger)
	if err != nil {
		return err
	}

	s, err := seriesstate.LoadCurrent(ctx, app.repo, logger)
	if err != nil {
		return fmt.Errorf("load current series: %w", err)
	}

	oldRev, newRev := s.Staged(), s.Working()
	if cmd.Staged {
		oldRev, newRev = s.Committed(), s.Staged()
	}

	oldTree, err := oldRev.Build(ctx, app.repo)
	if err != nil {
		return fmt.Errorf("materialize tree: %w", err)
	}
	newTree, err := newRev.Build(ctx, app.repo)
	if err != nil {
		return fmt.Errorf("materialize tree: %w", err)
	}

	diff, err := rangediff.SeriesDiff(ctx, app.repo, oldTree, newTree)
	if err != nil {
		return fmt.Errorf("diff series: %w", err)
	}

	out := app.output(ctx, "diff", opts)
	defer out.Close()
	_, err = io.WriteString(out, diff)
	return err
}
