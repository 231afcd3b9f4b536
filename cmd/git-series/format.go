package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/git-series/git-series/internal/mailformat"
	"github.com/git-series/git-series/internal/seriesstate"
	"github.com/git-series/git-series/internal/text"
)

type formatCmd struct {
	Stdout        bool   `help:"Write all patches to standard output instead of separate files."`
	InReplyTo     string `name:"in-reply-to" help:"Message-Id to thread the series under."`
	NoFrom        bool   `name:"no-from" help:"Never repeat the author in the body."`
	RerollVersion int    `short:"v" name:"reroll-version" help:"Mark this as the Nth reroll of the series."`
	RFC           bool   `help:"Use an 'RFC PATCH' subject prefix."`
	SubjectPrefix string `name:"subject-prefix" help:"Override the default 'PATCH' subject prefix."`
}

func (*formatCmd) Help() string {
	return text.Dedent(`
		Formats the current series' committed revision as one mail
		message per commit, plus a cover letter if one is set, in the
		style of "git format-patch".
	`)
}

func (cmd *formatCmd) Run(ctx context.Context, logger *log.Logger, opts *globalOptions) error {
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
		return fmt.Errorf("series %q has no committed base and series tip to format", s.Name())
	}

	prefix := cmd.SubjectPrefix
	if prefix == "" {
		prefix = app.config.SubjectPrefix()
	}
	rfc := cmd.RFC || app.config.RFC()
	reroll := cmd.RerollVersion
	if reroll == 0 {
		reroll = app.config.FromVersion()
	}

	cover := ""
	if committed.HasCover() {
		cover = string(committed.Cover)
	}

	mails, err := mailformat.Format(ctx, app.repo, mailformat.FormatOptions{
		Base:          committed.Base,
		Series:        committed.Series,
		Cover:         cover,
		RerollVersion: reroll,
		SubjectPrefix: prefix,
		RFC:           rfc,
		NoFrom:        cmd.NoFrom,
		InReplyTo:     cmd.InReplyTo,
	})
	if err != nil {
		return fmt.Errorf("format series: %w", err)
	}

	if cmd.Stdout {
		out := app.output(ctx, "format", opts)
		defer out.Close()
		for _, m := range mails {
			if _, err := io.WriteString(out, m.String()); err != nil {
				return err
			}
		}
		return nil
	}

	for _, m := range mails {
		if err := os.WriteFile(filepath.Join(".", m.FileName), []byte(m.String()), 0o644); err != nil {
			return fmt.Errorf("write %s: %w", m.FileName, err)
		}
		fmt.Println(m.FileName)
	}
	return nil
}
