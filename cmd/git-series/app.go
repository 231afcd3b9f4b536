// Command git-series manages patch series as first-class, independent
// objects layered on top of Git, the way "git series" tracks a
// mutable-tip commit sequence, its base, and a cover letter across
// revisions, without ever touching a branch.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/log"

	"github.com/git-series/git-series/internal/git"
	"github.com/git-series/git-series/internal/gsconfig"
	"github.com/git-series/git-series/internal/ui"
)

// globalOptions holds flags shared by every subcommand.
type globalOptions struct {
	NoPager bool         `name:"no-pager" help:"Do not pipe output through a pager."`
	Color   ui.ColorMode `name:"color" enum:"auto,always,never" default:"auto" help:"Colorize output: auto, always, or never."`
}

// appContext bundles the handles every command needs: the repository,
// raw git-config access (for color/pager resolution), and git-series'
// own layered config.
type appContext struct {
	repo   *git.Repository
	git    *git.Config
	config *gsconfig.Config
}

// openApp opens the repository rooted at the current directory and
// loads its configuration. Every command's Run starts here, the way
// the teacher's command files each open their own repository handle
// rather than sharing process-wide state.
func openApp(ctx context.Context, logger *log.Logger) (*appContext, error) {
	repo, err := git.Open(ctx, ".", git.OpenOptions{Log: logger})
	if err != nil {
		return nil, fmt.Errorf("open repository: %w", err)
	}

	gitCfg := git.NewConfig(git.ConfigOptions{Dir: repo.Root(), Log: logger})

	gsCfg, err := gsconfig.Load(ctx, gitCfg, repo.Root())
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}

	return &appContext{repo: repo, git: gitCfg, config: gsCfg}, nil
}

// identity resolves the author/committer pair to sign series commits
// with, translating [gsconfig.ErrNoIdentity] into a user-facing hint.
func (a *appContext) identity(ctx context.Context) (author, committer *git.Signature, err error) {
	author, committer, err = a.config.Identity(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("%w (run 'git config user.name' / 'user.email' to set one)", err)
	}
	return author, committer, nil
}

// output acquires the process' primary output sink for cmd, resolving
// color and pager policy from git-config the way "git log"/"git diff"
// do: a CLI flag wins, then NO_COLOR, then color.<cmd>/color.ui, then
// auto-detection; paging follows the analogous GIT_PAGER/pager.<cmd>/
// core.pager/PAGER chain.
func (a *appContext) output(ctx context.Context, cmd string, opts *globalOptions) ui.Output {
	enabled := ui.ResolveColor(ctx, a.git, cmd, opts.Color, os.Stdout.Fd())
	ui.SetColorEnabled(enabled)
	return ui.Open(ctx, a.git, ui.OpenOptions{Cmd: cmd, NoPager: opts.NoPager})
}
