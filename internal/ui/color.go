package ui

import (
	"context"
	"os"

	"github.com/mattn/go-isatty"

	"github.com/git-series/git-series/internal/git"
)

// ColorMode mirrors Git's own color.ui tri-state: always colorize,
// never colorize, or decide based on whether the output is a
// terminal.
type ColorMode string

// Supported color modes, matching Git's own color.ui values.
const (
	ColorAuto   ColorMode = "auto"
	ColorAlways ColorMode = "always"
	ColorNever  ColorMode = "never"
)

// ResolveColor decides whether output should be colorized, following
// Git's own precedence for color.ui: an explicit CLI flag wins, then
// NO_COLOR (https://no-color.org, which Git itself has honored since
// 2.23), then the color.<cmd> and color.ui git config keys, then
// "auto" (colorize only if fd is a terminal).
func ResolveColor(ctx context.Context, cfg *git.Config, cmd string, flag ColorMode, fd uintptr) bool {
	if flag != "" && flag != ColorAuto {
		return flag == ColorAlways
	}
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}

	for _, key := range []git.ConfigKey{
		git.ConfigKey("color." + cmd),
		"color.ui",
	} {
		if v, err := cfg.Get(ctx, key); err == nil {
			switch v {
			case "always":
				return true
			case "never":
				return false
			case "auto", "true", "1":
				return isatty.IsTerminal(fd)
			case "false", "0":
				return false
			}
		}
	}

	return isatty.IsTerminal(fd)
}
