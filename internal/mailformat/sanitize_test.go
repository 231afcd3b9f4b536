package mailformat_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/git-series/git-series/internal/mailformat"
)

func TestSanitizeSummary(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Fix the bug", "Fix-the-bug"},
		{"Add foo.bar support", "Add-foo.bar-support"},
		{"weird!!chars??", "weird-chars"},
		{"trailing dot.", "trailing-dot"},
		{"multi...dots", "multi.dots"},
		{"trailing-dash-", "trailing-dash"},
		{"under_score_kept", "under_score_kept"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, mailformat.SanitizeSummary(tt.in), "input: %q", tt.in)
	}
}
