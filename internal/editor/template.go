package editor

import "strings"

// TemplateOptions seeds the text shown to the user in a commit/cover
// editor session.
type TemplateOptions struct {
	// Message is the current message, pre-filled for re-editing.
	Message string

	// Comment is a human-readable instruction line, e.g.
	// "Enter the commit message for this revision of the series."
	Comment string

	// Status lists the entries about to be committed, one per line,
	// e.g. "series: a1b2c3d -> e4f5a6b". Rendered as comments below
	// Comment.
	Status []string

	// Diff is the verbose (-v) diff against the previous committed
	// revision, rendered as comments below the scissors line so it is
	// discarded along with the rest of the template.
	Diff string
}

// Template renders a commit/cover message template the way "git
// commit" seeds its own editor buffer: the current message first,
// then a blank line, then commented-out instructions and status, and
// finally (if a diff was requested) a scissors line followed by the
// diff, which Prettify discards unconditionally.
func Template(opts TemplateOptions) string {
	var b strings.Builder
	b.WriteString(opts.Message)
	if !strings.HasSuffix(opts.Message, "\n") {
		b.WriteByte('\n')
	}
	b.WriteByte('\n')

	if opts.Comment != "" {
		for _, line := range strings.Split(opts.Comment, "\n") {
			b.WriteString("# " + line + "\n")
		}
		b.WriteString("#\n")
	}
	for _, line := range opts.Status {
		b.WriteString("# " + line + "\n")
	}

	if opts.Diff != "" {
		b.WriteByte('\n')
		b.WriteString(scissorsLine)
		b.WriteByte('\n')
		b.WriteString("# Do not modify or remove the line above.\n")
		b.WriteString("# Everything below it will be ignored.\n")
		for _, line := range strings.Split(opts.Diff, "\n") {
			b.WriteString("# " + line + "\n")
		}
	}

	return b.String()
}
