package main

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/git-series/git-series/internal/seriesstate"
	"github.com/git-series/git-series/internal/text"
	"github.com/git-series/git-series/internal/ui"
)

type statusCmd struct{}

func (*statusCmd) Help() string {
	return text.Dedent(`
		Shows the current series' name, phase, whether its staged copy
		differs from what's committed, and whether its working copy
		differs from what's staged.
	`)
}

func (cmd *statusCmd) Run(ctx context.Context, logger *log.Logger, opts *globalOptions) error {
	app, err := openApp(ctx, logger)
	if err != nil {
		return err
	}

	s, err := seriesstate.LoadCurrent(ctx, app.repo, logger)
	if err != nil {
		return fmt.Errorf("load current series: %w", err)
	}

	committedTree, err := s.Committed().Build(ctx, app.repo)
	if err != nil {
		return fmt.Errorf("materialize committed tree: %w", err)
	}
	stagedTree, err := s.Staged().Build(ctx, app.repo)
	if err != nil {
		return fmt.Errorf("materialize staged tree: %w", err)
	}
	workingTree, err := s.Working().Build(ctx, app.repo)
	if err != nil {
		return fmt.Errorf("materialize working tree: %w", err)
	}

	out := app.output(ctx, "status", opts)
	defer out.Close()

	header := ui.NewStyle().Foreground(ui.Cyan).Bold(true)
	fmt.Fprintf(out, "%s %s (%s)\n", header.Render("On series"), s.Name(), s.Phase())

	if stagedTree == committedTree {
		fmt.Fprintln(out, "Nothing staged for commit.")
	} else {
		fmt.Fprintln(out, "Changes staged for commit.")
	}

	if workingTree == stagedTree {
		fmt.Fprintln(out, "No uncommitted changes to series, base, or cover letter.")
	} else {
		fmt.Fprintln(out, "Uncommitted changes to series, base, or cover letter not staged.")
	}

	return nil
}
