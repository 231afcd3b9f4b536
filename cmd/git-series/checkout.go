package main

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/git-series/git-series/internal/refspace"
	"github.com/git-series/git-series/internal/seriesstate"
	"github.com/git-series/git-series/internal/text"
)

type checkoutCmd struct {
	Name string `arg:"" help:"Name of the series to check out." predictor:"series"`
}

func (*checkoutCmd) Help() string {
	return text.Dedent(`
		Switches the current series to the named one, and checks out
		its working tip. The working tree must be clean: a checkout
		conflict aborts without touching either series.
	`)
}

func (cmd *checkoutCmd) Run(ctx context.Context, logger *log.Logger, opts *globalOptions) error {
	app, err := openApp(ctx, logger)
	if err != nil {
		return err
	}

	if err := seriesstate.Checkout(ctx, app.repo, refspace.Name(cmd.Name)); err != nil {
		return fmt.Errorf("checkout series %q: %w", cmd.Name, err)
	}
	return nil
}

type detachCmd struct{}

func (*detachCmd) Help() string {
	return text.Dedent(`
		Stops tracking a current series, without touching the working
		tree or deleting any refs. A later "checkout" resumes tracking.
	`)
}

func (cmd *detachCmd) Run(ctx context.Context, logger *log.Logger, opts *globalOptions) error {
	app, err := openApp(ctx, logger)
	if err != nil {
		return err
	}

	if err := seriesstate.Detach(ctx, app.repo); err != nil {
		return err
	}
	return nil
}
