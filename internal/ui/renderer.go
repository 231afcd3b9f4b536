// Package ui provides the output sink, color policy, and styling
// shared by every command that renders a series, a range-diff, or a
// mail summary to the user.
package ui

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Renderer is a lipgloss renderer bound to stderr. Status/progress
// output (not the mailbox/patch data written to stdout) goes to
// stderr so it doesn't contaminate a piped "format" or "req" output;
// its colorization is what color policy below controls.
var Renderer = lipgloss.NewRenderer(os.Stderr)

func init() {
	lipgloss.SetDefaultRenderer(Renderer)
}

// NewStyle returns a new lipgloss style bound to Renderer.
func NewStyle() lipgloss.Style {
	return Renderer.NewStyle()
}

// SetColorEnabled overrides the renderer's automatic color detection,
// per the resolved [ColorMode]. Disabling color downgrades the
// renderer's profile to plain ASCII, matching how "git"'s own
// color.ui=never strips escape codes entirely rather than merely
// discouraging them.
func SetColorEnabled(enabled bool) {
	if !enabled {
		Renderer.SetColorProfile(termenv.Ascii)
	}
}
