package main

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/git-series/git-series/internal/refspace"
	"github.com/git-series/git-series/internal/text"
	"github.com/git-series/git-series/internal/ui"
)

type seriesCmd struct{}

func (*seriesCmd) Help() string {
	return text.Dedent(`
		Lists every series known to the repository, oldest-committed
		first, marking the current series (if any) with a "*".
	`)
}

func (cmd *seriesCmd) Run(ctx context.Context, logger *log.Logger, opts *globalOptions) error {
	app, err := openApp(ctx, logger)
	if err != nil {
		return err
	}

	names, err := refspace.ListByCreation(ctx, app.repo)
	if err != nil {
		return fmt.Errorf("list series: %w", err)
	}

	current, err := refspace.Current(ctx, app.repo)
	hasCurrent := err == nil

	out := app.output(ctx, "series", opts)
	defer out.Close()

	marker := ui.NewStyle().Foreground(ui.Green).Bold(true)
	for _, name := range names {
		if hasCurrent && name == current {
			fmt.Fprintln(out, marker.Render("* "+string(name)))
		} else {
			fmt.Fprintln(out, "  "+string(name))
		}
	}
	return nil
}
