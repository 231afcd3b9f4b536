package mailformat

import (
	"context"
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/git-series/git-series/internal/git"
)

// RefKind classifies how a requested name resolved on the remote.
type RefKind int

const (
	// AnnotatedTag means the name resolved to an annotated tag object.
	AnnotatedTag RefKind = iota
	// LightweightTag means the name resolved to a tag ref pointing
	// directly at a commit.
	LightweightTag
	// Branch means the name resolved to a branch ref.
	Branch
)

func (k RefKind) String() string {
	switch k {
	case AnnotatedTag:
		return "annotated tag"
	case LightweightTag:
		return "lightweight tag"
	case Branch:
		return "branch"
	default:
		return "unknown"
	}
}

// ResolvedRef is a name resolved against a remote's refs, per the
// precedence order in spec.md §4.5: annotated tag, then lightweight
// tag, then branch.
type ResolvedRef struct {
	Kind RefKind
	Name string

	// TagObject is the annotated tag object's hash, set only when
	// Kind is AnnotatedTag.
	TagObject git.Hash

	// Commit is the commit the name ultimately points to.
	Commit git.Hash
}

// ErrRemoteRefNotFound is returned by ResolveRemoteRef when none of
// refs/tags/<name> or refs/heads/<name> exist on the remote.
type ErrRemoteRefNotFound struct {
	Remote, Name string
}

func (e *ErrRemoteRefNotFound) Error() string {
	return fmt.Sprintf("%q is not a tag or branch on remote %q", e.Name, e.Remote)
}

// ErrRemoteRefMismatch is returned by ResolveRemoteRef when the
// resolved name exists but does not point at the expected commit.
type ErrRemoteRefMismatch struct {
	Name     string
	Want     git.Hash
	Got      git.Hash
}

func (e *ErrRemoteRefMismatch) Error() string {
	return fmt.Sprintf("remote ref %q points at %s, not the requested %s",
		e.Name, e.Got.Short(), e.Want.Short())
}

// ResolveRemoteRef resolves name against remote's tags and branches,
// and verifies it points at want.
func ResolveRemoteRef(ctx context.Context, repo *git.Repository, remote, name string, want git.Hash) (ResolvedRef, error) {
	refs := map[string]git.Hash{}
	patterns := []string{
		"refs/tags/" + name,
		"refs/heads/" + name,
	}
	for ref, err := range repo.ListRemoteRefs(ctx, remote, &git.ListRemoteRefsOptions{Patterns: patterns}) {
		if err != nil {
			return ResolvedRef{}, fmt.Errorf("ls-remote: %w", err)
		}
		refs[ref.Name] = ref.Hash
	}

	var resolved ResolvedRef
	switch {
	case refs["refs/tags/"+name] != "":
		tagHash := refs["refs/tags/"+name]
		typ, err := repo.ObjectType(ctx, tagHash)
		if err != nil {
			return ResolvedRef{}, fmt.Errorf("inspect tag object: %w", err)
		}
		if typ == git.TagType {
			commit, err := repo.PeelToCommit(ctx, tagHash.String())
			if err != nil {
				return ResolvedRef{}, fmt.Errorf("peel tag %s: %w", name, err)
			}
			resolved = ResolvedRef{Kind: AnnotatedTag, Name: name, TagObject: tagHash, Commit: commit}
		} else {
			resolved = ResolvedRef{Kind: LightweightTag, Name: name, Commit: tagHash}
		}
	case refs["refs/heads/"+name] != "":
		resolved = ResolvedRef{Kind: Branch, Name: name, Commit: refs["refs/heads/"+name]}
	default:
		return ResolvedRef{}, &ErrRemoteRefNotFound{Remote: remote, Name: name}
	}

	if resolved.Commit != want {
		return ResolvedRef{}, &ErrRemoteRefMismatch{Name: name, Want: want, Got: resolved.Commit}
	}
	return resolved, nil
}

// TagMessage reads an annotated tag's message, with any trailing PGP
// signature block (starting at "-----BEGIN PGP SIGNATURE-----")
// stripped.
func TagMessage(ctx context.Context, repo *git.Repository, tagObject git.Hash) (string, error) {
	var buf strings.Builder
	if err := repo.ReadObject(ctx, git.TagType, tagObject, &buf); err != nil {
		return "", fmt.Errorf("read tag object: %w", err)
	}

	raw := buf.String()
	// The tag object's own header block ends at the first blank
	// line; everything after that is the tag message.
	_, message, ok := strings.Cut(raw, "\n\n")
	if !ok {
		message = ""
	}

	if i := strings.Index(message, "-----BEGIN PGP SIGNATURE-----"); i >= 0 {
		message = message[:i]
	}
	return strings.TrimRight(message, "\n") + "\n", nil
}

// ReqOptions configures [Req].
type ReqOptions struct {
	Remote string
	Name   string

	// Cover is the series' own cover letter body, used to decide
	// whether to also append it after a tag's message.
	Cover string

	// IncludePatch, if set, includes the full textual diff in the
	// rendered output in addition to the shortlog and diffstat.
	IncludePatch bool
}

// Req renders the summary body for the req (pull-request) operation:
// a shortlog, a diffstat, and optionally the full patch, preceded by
// the resolved ref's tag message (if any), per spec.md §4.5.
func Req(ctx context.Context, repo *git.Repository, base, tip git.Hash, resolved ResolvedRef, opts ReqOptions) (string, error) {
	var b strings.Builder

	if resolved.Kind == AnnotatedTag {
		msg, err := TagMessage(ctx, repo, resolved.TagObject)
		if err != nil {
			return "", err
		}
		b.WriteString(strings.Repeat("-", 72))
		b.WriteByte('\n')
		b.WriteString(msg)
		if opts.Cover != "" && !strings.Contains(msg, opts.Cover) {
			b.WriteByte('\n')
			b.WriteString(opts.Cover)
			b.WriteByte('\n')
		}
		b.WriteString(strings.Repeat("-", 72))
		b.WriteByte('\n')
		b.WriteByte('\n')
	}

	hashes, err := repo.CommitsBetween(ctx, base, tip)
	if err != nil {
		return "", fmt.Errorf("walk series: %w", err)
	}

	shortlog, err := buildShortlog(ctx, repo, hashes)
	if err != nil {
		return "", err
	}
	fmt.Fprintf(&b, "%s commit%s (%s):\n", humanize.Comma(int64(len(hashes))), plural(len(hashes)), resolved.Name)
	b.WriteString(shortlog)
	b.WriteByte('\n')

	stat, err := repo.Diffstat(ctx, base, tip)
	if err != nil {
		return "", fmt.Errorf("diffstat: %w", err)
	}
	b.WriteString(stat)

	if opts.IncludePatch {
		patch, err := repo.Patch(ctx, base, tip, git.PatchOptions{})
		if err != nil {
			return "", fmt.Errorf("diff: %w", err)
		}
		b.WriteByte('\n')
		b.WriteString(patch)
	}

	return b.String(), nil
}

func buildShortlog(ctx context.Context, repo *git.Repository, hashes []git.Hash) (string, error) {
	var b strings.Builder
	for _, h := range hashes {
		info, err := repo.CommitInfoOf(ctx, h.String())
		if err != nil {
			return "", fmt.Errorf("read commit %s: %w", h.Short(), err)
		}
		fmt.Fprintf(&b, "  %s: %s\n", h.Short(), info.Message.Subject)
	}
	return b.String(), nil
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}
