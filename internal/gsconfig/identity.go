package gsconfig

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/git-series/git-series/internal/git"
)

// ErrNoIdentity is returned by [Config.Identity] when neither the
// GIT_*_NAME/EMAIL environment variables nor user.name/user.email are
// set.
var ErrNoIdentity = errors.New("no usable author/committer identity: set user.name and user.email")

// Identity resolves the author and committer signatures to use for a
// series commit, following the same order "git commit" itself does:
// GIT_AUTHOR_NAME/EMAIL (resp. GIT_COMMITTER_*) environment variables
// first, falling back to user.name/user.email from git-config, then
// (for the email half only) the plain $EMAIL environment variable,
// and finally failing with [ErrNoIdentity] if neither supplies a
// usable identity.
func (c *Config) Identity(ctx context.Context) (author, committer *git.Signature, err error) {
	author, err = c.signature(ctx, "AUTHOR")
	if err != nil {
		return nil, nil, err
	}
	committer, err = c.signature(ctx, "COMMITTER")
	if err != nil {
		return nil, nil, err
	}
	return author, committer, nil
}

func (c *Config) signature(ctx context.Context, role string) (*git.Signature, error) {
	name := os.Getenv("GIT_" + role + "_NAME")
	email := os.Getenv("GIT_" + role + "_EMAIL")

	if name == "" {
		if v, err := c.git.Get(ctx, "user.name"); err == nil {
			name = v
		}
	}
	if email == "" {
		if v, err := c.git.Get(ctx, "user.email"); err == nil {
			email = v
		}
	}
	if email == "" {
		email = os.Getenv("EMAIL")
	}

	if name == "" || email == "" {
		return nil, fmt.Errorf("%s: %w", role, ErrNoIdentity)
	}
	return &git.Signature{Name: name, Email: email}, nil
}
