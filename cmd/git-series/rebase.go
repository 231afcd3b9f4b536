package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/git-series/git-series/internal/git"
	"github.com/git-series/git-series/internal/seriesstate"
	"github.com/git-series/git-series/internal/text"
)

type rebaseCmd struct {
	Onto        string   `arg:"" optional:"" help:"New base to rebase the series onto. Defaults to the series' current base."`
	Interactive bool     `short:"i" help:"Edit the rebase instructions before applying them."`
	Exec        []string `short:"x" help:"Command to run after each commit (repeatable)."`
}

func (*rebaseCmd) Help() string {
	return text.Dedent(`
		Rebases the current series' working tip onto a new base,
		updating the working copy's base entry to match. At least one
		of <onto> or -i is required, mirroring "git rebase" itself.
	`)
}

func (cmd *rebaseCmd) Run(ctx context.Context, logger *log.Logger, opts *globalOptions) error {
	if cmd.Onto == "" && !cmd.Interactive {
		return fmt.Errorf("specify <onto>, -i, or both")
	}

	app, err := openApp(ctx, logger)
	if err != nil {
		return err
	}

	s, err := seriesstate.LoadCurrent(ctx, app.repo, logger)
	if err != nil {
		return fmt.Errorf("load current series: %w", err)
	}

	if !s.Working().HasBase() {
		return fmt.Errorf("series %q has no base set; run 'git-series base <commit>' first", s.Name())
	}
	upstream := s.Working().Base.String()

	onto := cmd.Onto
	if onto == "" {
		onto = upstream
	}

	rebaseErr := app.repo.Rebase(ctx, git.RebaseRequest{
		Upstream:    upstream,
		Onto:        onto,
		Autostash:   true,
		Interactive: cmd.Interactive,
		Exec:        cmd.Exec,
	})
	if rebaseErr != nil {
		if errors.Is(rebaseErr, git.ErrRebaseInterrupted) {
			return fmt.Errorf("rebase interrupted; resolve conflicts and run 'git rebase --continue', then re-add the series")
		}
		return fmt.Errorf("rebase: %w", rebaseErr)
	}

	// Reload to pick up the new HEAD left by the rebase, then
	// persist the new base if one was requested.
	s, err = seriesstate.LoadCurrent(ctx, app.repo, logger)
	if err != nil {
		return fmt.Errorf("reload current series: %w", err)
	}

	if cmd.Onto != "" {
		ontoHash, err := app.repo.PeelToCommit(ctx, cmd.Onto)
		if err != nil {
			return fmt.Errorf("resolve %s: %w", cmd.Onto, err)
		}
		if err := s.SetBase(ctx, app.repo, ontoHash); err != nil {
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
