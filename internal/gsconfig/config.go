// Package gsconfig resolves git-series configuration from git-config
// keys and an optional repo-level .git-series.yml, the way spice's
// own internal/spice wraps internal/git's Config for its own
// namespaced settings.
package gsconfig

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/git-series/git-series/internal/git"
)

// Config resolves git-series settings, blending git-config values
// (user.name, user.email, core.editor) with an optional repo-level
// .git-series.yml for settings that have no natural git-config home.
// Pager and color keys are not read here; internal/ui resolves them.
type Config struct {
	git  *git.Config
	file fileConfig
}

// fileConfig is the shape of .git-series.yml.
type fileConfig struct {
	// SubjectPrefix overrides the default "PATCH" mail subject tag.
	SubjectPrefix string `yaml:"subjectPrefix"`

	// RFC defaults "format" to the "RFC PATCH" tag.
	RFC bool `yaml:"rfc"`

	// FromVersion seeds the "vN" counter for "format" when it was not
	// given an explicit reroll version with -v.
	FromVersion int `yaml:"fromVersion"`
}

// Load builds a [Config] for the repository at dir: cfg supplies
// git-config access, and dir/.git-series.yml, if present, supplies
// the file-based overlay.
func Load(ctx context.Context, cfg *git.Config, dir string) (*Config, error) {
	var fc fileConfig
	data, err := os.ReadFile(filepath.Join(dir, ".git-series.yml"))
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &fc); err != nil {
			return nil, fmt.Errorf("parse .git-series.yml: %w", err)
		}
	case errors.Is(err, os.ErrNotExist):
		// No file overlay; git-config and built-in defaults apply.
	default:
		return nil, fmt.Errorf("read .git-series.yml: %w", err)
	}

	return &Config{git: cfg, file: fc}, nil
}

// SubjectPrefix reports the default mail subject tag ("PATCH" unless
// overridden), following the precedence CLI flag > .git-series.yml >
// built-in default; the CLI flag itself is applied by the caller,
// since [Config] only resolves the config/default half of that chain.
func (c *Config) SubjectPrefix() string {
	if c.file.SubjectPrefix != "" {
		return c.file.SubjectPrefix
	}
	return "PATCH"
}

// RFC reports whether "format" should default to the "RFC PATCH" tag.
func (c *Config) RFC() bool {
	return c.file.RFC
}

// FromVersion reports the configured reroll-version seed for "format",
// or 0 if unset.
func (c *Config) FromVersion() int {
	return c.file.FromVersion
}

// Editor resolves core.editor from git-config, or "" if unset,
// leaving the GIT_EDITOR/VISUAL/EDITOR/vi fallback chain to
// internal/editor.Resolve (which calls "git var GIT_EDITOR" and
// already folds core.editor into that resolution).
func (c *Config) Editor(ctx context.Context) string {
	v, err := c.git.Get(ctx, "core.editor")
	if err != nil {
		return ""
	}
	return v
}
