package main

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/git-series/git-series/internal/mailformat"
	"github.com/git-series/git-series/internal/seriesstate"
	"github.com/git-series/git-series/internal/text"
)

type reqCmd struct {
	URL   string `arg:"" help:"URL of the remote the series was pushed to."`
	Ref   string `arg:"" help:"Tag or branch name the series was pushed as."`
	Patch bool   `short:"p" help:"Include the full patch in the rendered summary."`
}

func (*reqCmd) Help() string {
	return text.Dedent(`
		Renders a pull-request summary for the current series: a
		shortlog, a diffstat, and (with -p) the full patch, preceded
		by a tag's message if <tag-or-branch> resolved to an
		annotated tag.
	`)
}

func (cmd *reqCmd) Run(ctx context.Context, logger *log.Logger, opts *globalOptions) error {
	app, err := openApp(ctx, logger)
	if err != nil {
		return err
	}

	s, err := seriesstate.LoadCurrent(ctx, app.repo, logger)
	if err != nil {
		return fmt.Errorf("load current series: %w", err)
	}
	committed := s.Committed()
	if !committed.HasSeries() || !committed.HasBase() {
		return fmt.Errorf("series %q has no committed base and series tip", s.Name())
	}

	resolved, err := mailformat.ResolveRemoteRef(ctx, app.repo, cmd.URL, cmd.Ref, committed.Series)
	if err != nil {
		return fmt.Errorf("resolve %s on %s: %w", cmd.Ref, cmd.URL, err)
	}

	cover := ""
	if committed.HasCover() {
		cover = string(committed.Cover)
	}

	summary, err := mailformat.Req(ctx, app.repo, committed.Base, committed.Series, resolved, mailformat.ReqOptions{
		Remote:       cmd.URL,
		Name:         cmd.Ref,
		Cover:        cover,
		IncludePatch: cmd.Patch,
	})
	if err != nil {
		return fmt.Errorf("render summary: %w", err)
	}

	out := app.output(ctx, "req", opts)
	defer out.Close()
	_, err = io.WriteString(out, summary)
	return err
}
