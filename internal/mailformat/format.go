// Package mailformat renders a committed patch series as RFC 2822
// mail messages, in the style of git-format-patch, and renders the
// summary used by the req (pull-request) operation.
package mailformat

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/git-series/git-series/internal/git"
)

// Version is reported in every mail's mbox signature line. Set by the
// CLI from its build info.
var Version = "dev"

// Mail is one rendered mail message, ready to be written as an mbox
// entry or a separate patch file.
type Mail struct {
	// FileName is the suggested "[vN-]NNNN-<summary>.patch" file name
	// for this mail, without any directory.
	FileName string

	Subject    string
	From       string
	Date       string
	MessageID  string
	InReplyTo  string
	References string

	// MboxFrom is the synthetic mbox separator line:
	// "From <commit-id> Mon Sep 17 00:00:00 2001".
	MboxFrom string

	Body string
}

// String renders the mail as it would appear in an mbox file or a
// standalone patch file: the mbox separator, then RFC 2822 headers,
// then a blank line, then the body.
func (m Mail) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", m.MboxFrom)
	fmt.Fprintf(&b, "From: %s\n", m.From)
	fmt.Fprintf(&b, "Date: %s\n", m.Date)
	fmt.Fprintf(&b, "Subject: %s\n", m.Subject)
	fmt.Fprintf(&b, "Message-Id: %s\n", m.MessageID)
	if m.InReplyTo != "" {
		fmt.Fprintf(&b, "In-Reply-To: %s\n", m.InReplyTo)
		fmt.Fprintf(&b, "References: %s\n", m.References)
	}
	b.WriteByte('\n')
	b.WriteString(m.Body)
	return b.String()
}

// FormatOptions configures [Format].
type FormatOptions struct {
	// Base is the series base commit; the range formatted is
	// Base..Series.
	Base git.Hash

	// Series is the series tip commit.
	Series git.Hash

	// Cover is the cover letter text (subject + body), or "" if the
	// series has no cover letter.
	Cover string

	// RerollVersion is the "vN" reroll number, or 0 for the first
	// submission (in which case no "vN" is added to subjects).
	RerollVersion int

	// SubjectPrefix overrides the default "PATCH" prefix. Ignored
	// when RFC is set.
	SubjectPrefix string

	// RFC renders the prefix as "RFC PATCH".
	RFC bool

	// NoFrom, when set, keeps the commit author only in the From:
	// header, never repeating it in the body even when the
	// committer differs from the author.
	NoFrom bool

	// InReplyTo, if set, overrides the computed thread root.
	InReplyTo string
}

// Format renders a committed series as a sequence of mail messages:
// optionally a cover letter, followed by one patch per commit in
// Base..Series, in topological order. It returns an error, wrapping
// the git layer's own, if reading the range fails, and a plain error
// if the range is empty or contains a merge commit.
func Format(ctx context.Context, repo *git.Repository, opts FormatOptions) ([]Mail, error) {
	hashes, err := repo.CommitsBetween(ctx, opts.Base, opts.Series)
	if err != nil {
		return nil, fmt.Errorf("walk series: %w", err)
	}
	if len(hashes) == 0 {
		return nil, fmt.Errorf("series is empty: base and tip are the same commit")
	}

	infos := make([]git.CommitInfo, len(hashes))
	for i, h := range hashes {
		info, err := repo.CommitInfoOf(ctx, h.String())
		if err != nil {
			return nil, fmt.Errorf("read commit %s: %w", h.Short(), err)
		}
		if info.IsMerge() {
			return nil, fmt.Errorf("commit %s is a merge commit: format does not support merges", h.Short())
		}
		infos[i] = info
	}

	total := len(infos)
	hasCover := opts.Cover != ""
	numberWidth := len(strconv.Itoa(total))
	prefix := subjectPrefix(opts)

	var mails []Mail
	var rootID string

	if hasCover {
		coverSubject, coverBody, _ := strings.Cut(opts.Cover, "\n\n")
		subject := formatSubject(prefix, opts.RerollVersion, 0, total, true, coverSubject)
		last := infos[total-1]
		id := messageID("cover", last.CommitterUnixSeconds(), last.CommitterEmail)
		rootID = id

		stat, err := repo.Diffstat(ctx, opts.Base, opts.Series)
		if err != nil {
			return nil, fmt.Errorf("diffstat: %w", err)
		}

		body := coverBody
		if body != "" {
			body += "\n\n"
		}
		body += stat
		body += "\nbase-commit: " + opts.Base.String() + "\n"
		body += signature()

		mails = append(mails, Mail{
			FileName:  "0000-cover-letter.patch",
			Subject:   subject,
			From:      fmt.Sprintf("%s <%s>", last.CommitterName, last.CommitterEmail),
			Date:      last.AuthorDateRFC2822,
			MessageID: id,
			Body:      body,
		})
	}

	if opts.InReplyTo != "" {
		rootID = ensureAngleBrackets(opts.InReplyTo)
	}

	for i, info := range infos {
		num := i + 1
		id := messageID(info.Hash.String(), info.CommitterUnixSeconds(), info.CommitterEmail)

		if rootID == "" {
			rootID = id
		}

		var inReplyTo, references string
		if id != rootID {
			inReplyTo = rootID
			references = rootID
		}

		subject := formatSubject(prefix, opts.RerollVersion, num, total, hasCover, info.Message.Subject)

		patch, err := repo.Patch(ctx, parentOf(info), info.Hash, git.PatchOptions{})
		if err != nil {
			return nil, fmt.Errorf("diff %s: %w", info.Hash.Short(), err)
		}
		stat, err := repo.Diffstat(ctx, parentOf(info), info.Hash)
		if err != nil {
			return nil, fmt.Errorf("diffstat %s: %w", info.Hash.Short(), err)
		}

		var body strings.Builder
		body.WriteString(info.Message.Body)
		if !opts.NoFrom && info.AuthorEmail != info.CommitterEmail {
			fmt.Fprintf(&body, "\n\nFrom: %s <%s>\n", info.AuthorName, info.AuthorEmail)
		}
		body.WriteString("\n---\n")
		body.WriteString(stat)
		body.WriteByte('\n')
		body.WriteString(patch)
		if !hasCover && i == 0 {
			fmt.Fprintf(&body, "\nbase-commit: %s\n", opts.Base.String())
		}
		body.WriteString(signature())

		from := info.CommitterName + " <" + info.CommitterEmail + ">"
		if opts.NoFrom {
			from = info.AuthorName + " <" + info.AuthorEmail + ">"
		}

		mails = append(mails, Mail{
			FileName: fmt.Sprintf("%s-%s.patch",
				numberPrefix(opts.RerollVersion, num, numberWidth),
				SanitizeSummary(info.Message.Subject)),
			Subject:    subject,
			From:       from,
			Date:       info.AuthorDateRFC2822,
			MessageID:  id,
			InReplyTo:  inReplyTo,
			References: references,
			MboxFrom:   "From " + info.Hash.String() + " Mon Sep 17 00:00:00 2001",
			Body:       body.String(),
		})
	}

	return mails, nil
}

func parentOf(info git.CommitInfo) git.Hash {
	if len(info.Parents) == 1 {
		return info.Parents[0]
	}
	return ""
}

func subjectPrefix(opts FormatOptions) string {
	switch {
	case opts.RFC:
		return "RFC PATCH"
	case opts.SubjectPrefix != "":
		return opts.SubjectPrefix
	default:
		return "PATCH"
	}
}

// formatSubject renders the "[PATCH vN NN/TT] summary" subject line.
// hasCover forces the NN/TT counter even for num==0 (the cover
// letter); without a cover, a single-patch series omits NN/TT
// entirely, per spec.md §4.5.
func formatSubject(prefix string, reroll, num, total int, hasCover bool, summary string) string {
	tag := prefix
	if reroll > 0 {
		tag += fmt.Sprintf(" v%d", reroll)
	}
	if hasCover || total > 1 {
		width := len(strconv.Itoa(total))
		tag += fmt.Sprintf(" %s/%s", zeroPad(num, width), zeroPad(total, width))
	}
	return fmt.Sprintf("[%s] %s", tag, summary)
}

func numberPrefix(reroll, num, width int) string {
	s := zeroPad(num, width)
	if reroll > 0 {
		return fmt.Sprintf("v%d-%s", reroll, s)
	}
	return s
}

func zeroPad(n, width int) string {
	s := strconv.Itoa(n)
	for len(s) < width {
		s = "0" + s
	}
	return s
}

func signature() string {
	return "-- \ngit-series " + Version + "\n"
}
