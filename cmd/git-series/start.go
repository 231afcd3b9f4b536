package main

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/git-series/git-series/internal/refspace"
	"github.com/git-series/git-series/internal/seriesstate"
	"github.com/git-series/git-series/internal/text"
)

type startCmd struct {
	Name string `arg:"" help:"Name of the series to start." predictor:"series"`
}

func (*startCmd) Help() string {
	return text.Dedent(`
		Starts a new series with the given name, checked out at HEAD.
		The series has no committed revisions until its first commit.
	`)
}

func (cmd *startCmd) Run(ctx context.Context, logger *log.Logger, opts *globalOptions) error {
	app, err := openApp(ctx, logger)
	if err != nil {
		return err
	}

	author, committer, err := app.identity(ctx)
	if err != nil {
		return err
	}

	_, err = seriesstate.Start(ctx, app.repo, refspace.Name(cmd.Name), seriesstate.Identity{
		Author:    author,
		Committer: committer,
	})
	if err != nil {
		return fmt.Errorf("start series %q: %w", cmd.Name, err)
	}
	return nil
}
