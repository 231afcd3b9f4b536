package git

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

// CommitInfo is the metadata of a single commit needed to render it as
// a patch: its author, its parents, and its message.
type CommitInfo struct {
	// Hash is the commit's own hash.
	Hash Hash

	// AuthorName and AuthorEmail identify the commit's author.
	AuthorName, AuthorEmail string

	// AuthorDate is the author timestamp, as a Unix epoch seconds string.
	AuthorDate string

	// AuthorDateRFC2822 is the author timestamp, preformatted the way
	// Git renders it for a mail Date: header.
	AuthorDateRFC2822 string

	// CommitterName and CommitterEmail identify the commit's committer.
	CommitterName, CommitterEmail string

	// CommitterDate is the committer timestamp, as a Unix epoch seconds string.
	CommitterDate string

	// Parents are the commit's parent hashes, in order.
	// A length greater than one means this is a merge commit.
	Parents []Hash

	// Message is the commit's subject and body.
	Message CommitMessage
}

// AuthorUnixSeconds parses AuthorDate as Unix epoch seconds.
func (c CommitInfo) AuthorUnixSeconds() int64 {
	n, _ := strconv.ParseInt(c.AuthorDate, 10, 64)
	return n
}

// CommitterUnixSeconds parses CommitterDate as Unix epoch seconds.
func (c CommitInfo) CommitterUnixSeconds() int64 {
	n, _ := strconv.ParseInt(c.CommitterDate, 10, 64)
	return n
}

// IsMerge reports whether the commit has more than one parent.
func (c CommitInfo) IsMerge() bool { return len(c.Parents) > 1 }

const commitInfoFormat = "%H%x00%an%x00%ae%x00%at%x00%aD%x00%cn%x00%ce%x00%ct%x00%P%x00%s%x00%b"

// CommitInfoOf reads the metadata of a single commit.
func (r *Repository) CommitInfoOf(ctx context.Context, commitish string) (CommitInfo, error) {
	out, err := r.gitCmd(ctx, "show", "--no-patch", "--format="+commitInfoFormat, commitish).
		OutputString(r.exec)
	if err != nil {
		return CommitInfo{}, fmt.Errorf("git show: %w", err)
	}
	return parseCommitInfo(out)
}

func parseCommitInfo(raw string) (CommitInfo, error) {
	fields := strings.SplitN(raw, "\x00", 11)
	if len(fields) < 11 {
		return CommitInfo{}, fmt.Errorf("malformed commit info: %q", raw)
	}

	var parents []Hash
	if fields[8] != "" {
		for _, p := range strings.Fields(fields[8]) {
			parents = append(parents, Hash(p))
		}
	}

	return CommitInfo{
		Hash:              Hash(fields[0]),
		AuthorName:        fields[1],
		AuthorEmail:       fields[2],
		AuthorDate:        fields[3],
		AuthorDateRFC2822: fields[4],
		CommitterName:     fields[5],
		CommitterEmail:    fields[6],
		CommitterDate:     fields[7],
		Parents:           parents,
		Message: CommitMessage{
			Subject: strings.TrimSpace(fields[9]),
			Body:    strings.TrimSpace(fields[10]),
		},
	}, nil
}
