package main

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/git-series/git-series/internal/refspace"
	"github.com/git-series/git-series/internal/seriesstate"
	"github.com/git-series/git-series/internal/text"
)

type cpCmd struct {
	Args []string `arg:"" name:"source-dest" help:"<dest>, or <source> <dest>." predictor:"series"`
}

func (*cpCmd) Help() string {
	return text.Dedent(`
		Copies a series' refs to a new name. With one argument, copies
		the current series; with two, copies the first to the second.
	`)
}

func (cmd *cpCmd) Run(ctx context.Context, logger *log.Logger, opts *globalOptions) error {
	app, err := openApp(ctx, logger)
	if err != nil {
		return err
	}

	src, dst, err := parseSrcDst(ctx, app, cmd.Args)
	if err != nil {
		return err
	}

	if err := seriesstate.Copy(ctx, app.repo, src, dst); err != nil {
		return fmt.Errorf("copy series %q to %q: %w", src, dst, err)
	}
	return nil
}

type mvCmd struct {
	Args []string `arg:"" name:"source-dest" help:"<dest>, or <source> <dest>." predictor:"series"`
}

func (*mvCmd) Help() string {
	return text.Dedent(`
		Renames a series. With one argument, renames the current
		series; with two, renames the first to the second. If the
		source was the current series, it remains current under its
		new name.
	`)
}

func (cmd *mvCmd) Run(ctx context.Context, logger *log.Logger, opts *globalOptions) error {
	app, err := openApp(ctx, logger)
	if err != nil {
		return err
	}

	src, dst, err := parseSrcDst(ctx, app, cmd.Args)
	if err != nil {
		return err
	}

	if err := seriesstate.Move(ctx, app.repo, src, dst); err != nil {
		return fmt.Errorf("rename series %q to %q: %w", src, dst, err)
	}
	return nil
}

// parseSrcDst resolves a cp/mv command's one-or-two positional
// arguments: a single name copies/renames the current series to that
// name, two names give the source and destination explicitly.
func parseSrcDst(ctx context.Context, app *appContext, names []string) (src, dst refspace.Name, err error) {
	switch len(names) {
	case 1:
		cur, err := refspace.Current(ctx, app.repo)
		if err != nil {
			return "", "", fmt.Errorf("resolve current series: %w", err)
		}
		return cur, refspace.Name(names[0]), nil
	case 2:
		return refspace.Name(names[0]), refspace.Name(names[1]), nil
	default:
		return "", "", fmt.Errorf("expected 1 or 2 arguments, got %d", len(names))
	}
}
