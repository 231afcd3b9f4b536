package main

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/git-series/git-series/internal/seriesstate"
	"github.com/git-series/git-series/internal/text"
)

type addCmd struct {
	Names []string `arg:"" optional:"" help:"Entries to stage: series, base, cover. Defaults to all three." enum:"series,base,cover"`
}

func (*addCmd) Help() string {
	return text.Dedent(`
		Copies the named entries (series, base, cover) from the
		working copy into the staged copy, ready for "commit".
		Defaults to all three entries.
	`)
}

func (cmd *addCmd) Run(ctx context.Context, logger *log.Logger, opts *globalOptions) error {
	app, err := openApp(ctx, logger)
	if err != nil {
		return err
	}

	names, err := seriesstate.ParseEntryNames(cmd.Names)
	if err != nil {
		return err
	}

	s, err := seriesstate.LoadCurrent(ctx, app.repo, logger)
	if err != nil {
		return fmt.Errorf("load current series: %w", err)
	}

	s.Add(names)

	author, committer, err := app.identity(ctx)
	if err != nil {
		return err
	}
	if err := s.Write(ctx, seriesstate.Identity{Author: author, Committer: committer}); err != nil {
		return fmt.Errorf("write staged state: %w", err)
	}
	return nil
}

type unaddCmd struct {
	Names []string `arg:"" optional:"" help:"Entries to unstage: series, base, cover. Defaults to all three." enum:"series,base,cover"`
}

func (*unaddCmd) Help() string {
	return text.Dedent(`
		Resets the named staged entries to the last committed
		revision, or clears them if the series has never been
		committed. Defaults to all three entries.
	`)
}

func (cmd *unaddCmd) Run(ctx context.Context, logger *log.Logger, opts *globalOptions) error {
	app, err := openApp(ctx, logger)
	if err != nil {
		return err
	}

	names, err := seriesstate.ParseEntryNames(cmd.Names)
	if err != nil {
		return err
	}

	s, err := seriesstate.LoadCurrent(ctx, app.repo, logger)
	if err != nil {
		return fmt.Errorf("load current series: %w", err)
	}

	s.Unadd(names)

	author, committer, err := app.identity(ctx)
	if err != nil {
		return err
	}
	if err := s.Write(ctx, seriesstate.Identity{Author: author, Committer: committer}); err != nil {
		return fmt.Errorf("write staged state: %w", err)
	}
	return nil
}
