package main

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/git-series/git-series/internal/editor"
	"github.com/git-series/git-series/internal/git"
	"github.com/git-series/git-series/internal/rangediff"
	"github.com/git-series/git-series/internal/seriesstate"
	"github.com/git-series/git-series/internal/text"
)

type commitCmd struct {
	All     bool   `short:"a" help:"Commit from the working copy instead of the staged copy."`
	Message string `short:"m" help:"Commit message. Opens the editor if omitted."`
	Verbose bool   `short:"v" help:"Include the revision's diff as a comment in the editor template."`
}

func (*commitCmd) Help() string {
	return text.Dedent(`
		Commits a new revision of the current series from the staged
		copy (or, with -a, directly from the working copy). Without
		-m, opens the configured editor to collect the message.
	`)
}

func (cmd *commitCmd) Run(ctx context.Context, logger *log.Logger, opts *globalOptions) error {
	app, err := openApp(ctx, logger)
	if err != nil {
		return err
	}

	s, err := seriesstate.LoadCurrent(ctx, app.repo, logger)
	if err != nil {
		return fmt.Errorf("load current series: %w", err)
	}

	message := cmd.Message
	if message == "" {
		message, err = cmd.editMessage(ctx, app, s)
		if err != nil {
			return err
		}
		if message == "" {
			return fmt.Errorf("aborting commit due to empty commit message")
		}
	}

	author, committer, err := app.identity(ctx)
	if err != nil {
		return err
	}

	if _, err := s.Commit(ctx, app.repo, seriesstate.CommitOptions{
		Message:  message,
		All:      cmd.All,
		Identity: seriesstate.Identity{Author: author, Committer: committer},
	}); err != nil {
		return fmt.Errorf("commit series: %w", err)
	}
	return nil
}

func (cmd *commitCmd) editMessage(ctx context.Context, app *appContext, s *seriesstate.Series) (string, error) {
	src := s.Staged()
	if cmd.All {
		src = s.Working()
	}

	opts := editor.TemplateOptions{
		Comment: fmt.Sprintf("Committing revision of series %q.", s.Name()),
	}

	if cmd.Verbose {
		committedTree, err := s.Committed().Build(ctx, app.repo)
		if err != nil {
			return "", fmt.Errorf("materialize committed tree: %w", err)
		}
		newTree, err := src.Build(ctx, app.repo)
		if err != nil {
			return "", fmt.Errorf("materialize tree: %w", err)
		}
		diff, err := rangediff.SeriesDiff(ctx, app.repo, orEmptyTree(committedTree), newTree)
		if err != nil {
			return "", fmt.Errorf("diff revision: %w", err)
		}
		opts.Diff = diff
	}

	template := editor.Template(opts)
	msg, err := editor.Edit(ctx, app.repo, template)
	if err != nil {
		return "", fmt.Errorf("edit commit message: %w", err)
	}
	return msg, nil
}

func orEmptyTree(h git.Hash) git.Hash {
	if h == "" {
		return git.EmptyTreeHash
	}
	return h
}
