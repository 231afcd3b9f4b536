package git

import (
	"context"
	"fmt"
)

// Var returns the value of the given Git variable, as reported by
// "git var". This is how GIT_EDITOR, GIT_PAGER and similar are
// resolved against Git's own configuration and environment fallback
// chain.
func (r *Repository) Var(ctx context.Context, name string) (string, error) {
	out, err := r.gitCmd(ctx, "var", name).OutputString(r.exec)
	if err != nil {
		return "", fmt.Errorf("git var %s: %w", name, err)
	}
	return out, nil
}
