package ui

import (
	"context"
	"io"
	"os"

	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"

	"github.com/git-series/git-series/internal/git"
)

// Output is the process' primary output sink: either standard output
// directly, or a pager child process's stdin. It is acquired once per
// command invocation and released at process exit, per spec.md §9's
// "global state is the output sink" note; the two implementations
// share this single write trait so callers never branch on which one
// is active.
type Output interface {
	io.Writer

	// Close flushes and releases the sink. For a direct sink this is
	// a no-op; for a pager sink it closes the pager's stdin and waits
	// for it to exit.
	Close() error
}

type directOutput struct {
	io.Writer
}

func (directOutput) Close() error { return nil }

// OpenOptions configures [Open].
type OpenOptions struct {
	// Cmd is the subcommand name, used to resolve pager.<cmd>/color.<cmd>.
	Cmd string

	// NoPager disables paging unconditionally (e.g. a user-facing
	// --no-pager flag, or output being redirected to a non-terminal).
	NoPager bool
}

// Open acquires the process' primary output sink for cmd: a pager
// child process if one is configured, paging is not disabled, and
// stdout is a terminal; direct stdout otherwise. The returned
// Output's color support is wrapped through go-colorable so ANSI
// escapes degrade correctly on Windows consoles.
func Open(ctx context.Context, cfg *git.Config, opts OpenOptions) Output {
	stdout := colorable.NewColorable(os.Stdout)

	if opts.NoPager || !isatty.IsTerminal(os.Stdout.Fd()) {
		return directOutput{stdout}
	}

	pager, disabled := ResolvePager(ctx, cfg, opts.Cmd)
	if disabled {
		return directOutput{stdout}
	}

	p, err := StartPager(pager)
	if err != nil {
		// Fall back to direct output; a broken pager configuration
		// shouldn't prevent the command from producing output.
		return directOutput{stdout}
	}
	return p
}
