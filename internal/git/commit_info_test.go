package git

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCommitInfo(t *testing.T) {
	raw := "abc123\x00Jane Doe\x00jane@example.com\x001700000000\x00Tue, 14 Nov 2023 12:00:00 +0000\x00" +
		"John Roe\x00john@example.com\x001700000100\x00parent1 parent2\x00Add widget\x00Body line one.\nBody line two.\n"

	info, err := parseCommitInfo(raw)
	require.NoError(t, err)

	assert.Equal(t, Hash("abc123"), info.Hash)
	assert.Equal(t, "Jane Doe", info.AuthorName)
	assert.Equal(t, "jane@example.com", info.AuthorEmail)
	assert.Equal(t, "Tue, 14 Nov 2023 12:00:00 +0000", info.AuthorDateRFC2822)
	assert.Equal(t, "John Roe", info.CommitterName)
	assert.Equal(t, []Hash{"parent1", "parent2"}, info.Parents)
	assert.True(t, info.IsMerge())
	assert.Equal(t, "Add widget", info.Message.Subject)
	assert.Equal(t, "Body line one.\nBody line two.", info.Message.Body)
	assert.EqualValues(t, 1700000000, info.AuthorUnixSeconds())
	assert.EqualValues(t, 1700000100, info.CommitterUnixSeconds())
}

func TestParseCommitInfo_noParents(t *testing.T) {
	raw := "abc123\x00Jane Doe\x00jane@example.com\x001700000000\x00Tue, 14 Nov 2023 12:00:00 +0000\x00" +
		"John Roe\x00john@example.com\x001700000100\x00\x00Initial commit\x00\n"

	info, err := parseCommitInfo(raw)
	require.NoError(t, err)
	assert.Empty(t, info.Parents)
	assert.False(t, info.IsMerge())
}

func TestParseCommitInfo_malformed(t *testing.T) {
	_, err := parseCommitInfo("too\x00few\x00fields")
	assert.Error(t, err)
}
