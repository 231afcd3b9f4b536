// Command git-series manages patch series as first-class, independent
// objects layered on top of Git, the way "git series" tracks a
// mutable-tip commit sequence, its base, and a cover letter across
// revisions, without ever touching a branch.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/alecthomas/kong"
	charmlog "github.com/charmbracelet/log"

	"github.com/git-series/git-series/internal/komplete"
)

func main() {
	logger := charmlog.New(os.Stderr)
	logger.SetReportTimestamp(false)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var cmd mainCmd
	parser, err := kong.New(&cmd,
		kong.Name("git-series"),
		kong.Description("git-series tracks patch series as first-class objects on top of Git."),
		kong.Bind(logger, &cmd.globalOptions),
		kong.BindTo(ctx, (*context.Context)(nil)),
		kong.UsageOnError(),
	)
	if err != nil {
		fmt.Fprintln(os.Stderr, "git-series:", err)
		os.Exit(1)
	}

	komplete.Run(parser)

	kctx, err := parser.Parse(os.Args[1:])
	if err != nil {
		parser.FatalIfErrorf(err)
	}

	kctx.FatalIfErrorf(kctx.Run())
}

var version = "dev"

// versionFlag prints the program's version and exits, the moment kong
// resolves the flag, before any subcommand runs.
type versionFlag bool

func (versionFlag) BeforeReset(app *kong.Kong) error {
	fmt.Fprintln(app.Stdout, "git-series", version)
	app.Exit(0)
	return nil
}

type mainCmd struct {
	globalOptions

	Version versionFlag `name:"version" help:"Print version information and exit."`

	Series   seriesCmd   `cmd:"" help:"List series in the repository."`
	Start    startCmd    `cmd:"" help:"Start a new series."`
	Checkout checkoutCmd `cmd:"" aliases:"co" help:"Switch the current series."`
	Detach   detachCmd   `cmd:"" help:"Stop tracking a series without deleting it."`
	Delete   deleteCmd   `cmd:"" aliases:"rm" help:"Delete a series."`
	Cp       cpCmd       `cmd:"" help:"Copy a series."`
	Mv       mvCmd       `cmd:"" aliases:"rename" help:"Rename a series."`

	Status statusCmd `cmd:"" help:"Show the status of the current series."`
	Diff   diffCmd   `cmd:"" help:"Show uncommitted changes to the current series."`
	Log    logCmd    `cmd:"" help:"Show the revision history of the current series."`

	Add    addCmd    `cmd:"" help:"Stage entries of the current series."`
	Unadd  unaddCmd  `cmd:"" help:"Unstage entries of the current series."`
	Base   baseCmd   `cmd:"" help:"Get or set the base commit of the current series."`
	Cover  coverCmd  `cmd:"" help:"Get or set the cover letter of the current series."`
	Commit commitCmd `cmd:"" help:"Commit a new revision of the current series."`

	Rebase rebaseCmd `cmd:"" help:"Rebase the current series."`
	Format formatCmd `cmd:"" aliases:"format-patch" help:"Format the current series as an mbox file."`
	Req    reqCmd    `cmd:"" aliases:"pull-request,request-pull" help:"Generate a pull request summary."`

	Completions komplete.Command `cmd:"" hidden:"" help:"Generate shell completions."`
}
