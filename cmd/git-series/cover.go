package main

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/git-series/git-series/internal/editor"
	"github.com/git-series/git-series/internal/seriesstate"
	"github.com/git-series/git-series/internal/text"
)

type coverCmd struct {
	Delete bool `short:"d" help:"Clear the working copy's cover letter."`
}

func (*coverCmd) Help() string {
	return text.Dedent(`
		With no flags, opens the configured editor on the working
		copy's cover letter. With -d, clears it instead.
	`)
}

func (cmd *coverCmd) Run(ctx context.Context, logger *log.Logger, opts *globalOptions) error {
	app, err := openApp(ctx, logger)
	if err != nil {
		return err
	}

	s, err := seriesstate.LoadCurrent(ctx, app.repo, logger)
	if err != nil {
		return fmt.Errorf("load current series: %w", err)
	}

	if cmd.Delete {
		s.ClearCover()
	} else {
		current := ""
		if s.Working().HasCover() {
			current = string(s.Working().Cover)
		}

		template := editor.Template(editor.TemplateOptions{
			Message: current,
			Comment: "Enter the cover letter for this series.\nLines starting with '#' are ignored, and an empty letter aborts.",
		})
		msg, err := editor.Edit(ctx, app.repo, template)
		if err != nil {
			return fmt.Errorf("edit cover letter: %w", err)
		}
		if msg == "" {
			return nil
		}
		if err := s.SetCover(msg); err != nil {
			return err
		}
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
