package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/git-series/git-series/internal/refspace"
	"github.com/git-series/git-series/internal/seriesstate"
	"github.com/git-series/git-series/internal/text"
)

type deleteCmd struct {
	Name string `arg:"" help:"Name of the series to delete." predictor:"series"`
}

func (*deleteCmd) Help() string {
	return text.Dedent(`
		Deletes all refs backing a series. Forbidden for the
		currently checked-out series; "detach" or "checkout" another
		series first.
	`)
}

func (cmd *deleteCmd) Run(ctx context.Context, logger *log.Logger, opts *globalOptions) error {
	app, err := openApp(ctx, logger)
	if err != nil {
		return err
	}

	s, err := seriesstate.Load(ctx, app.repo, logger, refspace.Name(cmd.Name))
	if err != nil {
		return fmt.Errorf("load series %q: %w", cmd.Name, err)
	}

	if err := seriesstate.Delete(ctx, app.repo, s); err != nil {
		if errors.Is(err, seriesstate.ErrCurrentSeries) {
			return fmt.Errorf("%w: detach or checkout another series first", err)
		}
		return fmt.Errorf("delete series %q: %w", cmd.Name, err)
	}
	return nil
}
