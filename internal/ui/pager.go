package ui

import (
	"cmp"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"

	"github.com/buildkite/shellwords"

	"github.com/git-series/git-series/internal/git"
)

// ResolvePager reports the pager command to use for cmd, following
// Git's own precedence: GIT_PAGER, then pager.<cmd>, then core.pager,
// then PAGER, then "less". An empty core.pager (explicitly set to the
// empty string) disables paging, matching Git's own convention.
func ResolvePager(ctx context.Context, cfg *git.Config, cmd string) (pager string, disabled bool) {
	if v, ok := os.LookupEnv("GIT_PAGER"); ok {
		return v, v == ""
	}
	if v, err := cfg.Get(ctx, git.ConfigKey("pager."+cmd)); err == nil {
		return v, v == ""
	}
	if v, err := cfg.Get(ctx, "core.pager"); err == nil {
		return v, v == ""
	}
	if v, ok := os.LookupEnv("PAGER"); ok {
		return v, v == ""
	}
	return "less", false
}

// Pager is a running pager child process whose stdin becomes the
// program's primary output. The pager owns the output file descriptor
// from Start until Close reaps it, per spec.md §9.
type Pager struct {
	cmd   *exec.Cmd
	stdin io.WriteCloser
}

// StartPager spawns the given pager command, piping its stdin from
// Write calls and its stdout/stderr to the current process' own.
func StartPager(pager string) (*Pager, error) {
	args, err := shellwords.SplitPosix(pager)
	if err != nil {
		return nil, fmt.Errorf("split pager command %q: %w", pager, err)
	}
	if len(args) == 0 {
		return nil, fmt.Errorf("pager command is empty")
	}

	cmd := exec.Command(args[0], args[1:]...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.Env = append(os.Environ(), "LESS="+cmp.Or(os.Getenv("LESS"), "FRX"), "LV="+cmp.Or(os.Getenv("LV"), "-c"))

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("pipe pager stdin: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start pager %q: %w", pager, err)
	}

	return &Pager{cmd: cmd, stdin: stdin}, nil
}

// Write implements io.Writer, forwarding to the pager's stdin.
func (p *Pager) Write(b []byte) (int, error) {
	return p.stdin.Write(b)
}

// Close closes the pager's stdin and waits for it to exit. The
// pager's own exit code is reported but never masks a prior error,
// matching spec.md §9's ownership rule for the output sink.
func (p *Pager) Close() error {
	closeErr := p.stdin.Close()
	waitErr := p.cmd.Wait()
	if closeErr != nil {
		return fmt.Errorf("close pager stdin: %w", closeErr)
	}
	if waitErr != nil {
		return fmt.Errorf("pager exited with error: %w", waitErr)
	}
	return nil
}
