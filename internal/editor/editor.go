// Package editor resolves and invokes the user's configured editor to
// collect commit and cover letter messages, the way "git commit"
// resolves GIT_EDITOR/core.editor/$EDITOR and prettifies the result.
package editor

import (
	"bufio"
	"cmp"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/buildkite/shellwords"

	"github.com/git-series/git-series/internal/git"
)

// Resolve reports the editor command to invoke, following the same
// precedence Git itself uses: GIT_EDITOR (as resolved by "git var
// GIT_EDITOR", which already folds in core.editor, VISUAL, and
// EDITOR), falling back to "vi" if even that is unset.
func Resolve(ctx context.Context, repo *git.Repository) string {
	if v, err := repo.Var(ctx, "GIT_EDITOR"); err == nil && v != "" {
		return v
	}
	return cmp.Or(os.Getenv("VISUAL"), os.Getenv("EDITOR"), "vi")
}

// command builds the *exec.Cmd to invoke the editor on the given
// file. The editor string may be a shell command with arguments
// ("code --wait") or a bare binary name; buildkite/shellwords tokenizes
// it the same way a shell would, without needing to shell out to sh.
func command(editor string, path string) (*exec.Cmd, error) {
	args, err := shellwords.SplitPosix(editor)
	if err != nil {
		return nil, fmt.Errorf("split editor command %q: %w", editor, err)
	}
	if len(args) == 0 {
		return nil, fmt.Errorf("editor command is empty")
	}

	cmd := exec.Command(args[0], append(args[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd, nil
}

// Edit opens the configured editor on a temporary file seeded with
// template, waits for it to exit, and returns the prettified result:
// comment lines stripped, anything at or after a scissors line
// discarded, and leading/trailing blank lines trimmed.
//
// An empty Message after prettification (template unchanged or
// cleared) is returned as "", matching "git commit"'s own convention
// of treating an unmodified template as an empty message.
func Edit(ctx context.Context, repo *git.Repository, template string) (string, error) {
	f, err := os.CreateTemp("", "git-series-*.txt")
	if err != nil {
		return "", fmt.Errorf("create temporary file: %w", err)
	}
	path := f.Name()
	defer func() { _ = os.Remove(path) }()

	if _, err := f.WriteString(template); err != nil {
		_ = f.Close()
		return "", fmt.Errorf("write template: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close template: %w", err)
	}

	cmd, err := command(Resolve(ctx, repo), path)
	if err != nil {
		return "", err
	}
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("run editor: %w", err)
	}

	edited, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read edited message: %w", err)
	}

	return Prettify(string(edited)), nil
}

// scissorsLine is Git's own marker for "discard everything below
// this, including the line itself" in a commit message template
// opened with --verbose.
const scissorsLine = "# ------------------------ >8 ------------------------"

// Prettify normalizes an edited message the way "git commit --cleanup=strip"
// does: lines at or past a scissors line are discarded, "#"-prefixed
// comment lines are dropped, and leading/trailing blank lines are
// trimmed. Internal runs of more than one blank line are preserved,
// since a cover letter's body may use blank lines for structure.
func Prettify(raw string) string {
	if i := strings.Index(raw, scissorsLine); i >= 0 {
		raw = raw[:i]
	}

	var lines []string
	sc := bufio.NewScanner(strings.NewReader(raw))
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for sc.Scan() {
		line := sc.Text()
		if strings.HasPrefix(line, "#") {
			continue
		}
		lines = append(lines, line)
	}

	return strings.Trim(strings.Join(lines, "\n"), "\n")
}
