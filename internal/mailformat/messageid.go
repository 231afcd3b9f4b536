package mailformat

import "fmt"

// messageID builds a Message-Id token in the form
// "<token.whenSeconds.git-series.email>", per spec.md §4.5. token is
// either "cover" or a commit id.
func messageID(token string, whenSeconds int64, email string) string {
	return fmt.Sprintf("<%s.%d.git-series.%s>", token, whenSeconds, email)
}

// ensureAngleBrackets adds "<" ">" around id if not already present,
// for a user-supplied --in-reply-to value.
func ensureAngleBrackets(id string) string {
	if id == "" {
		return id
	}
	if id[0] != '<' {
		id = "<" + id
	}
	if id[len(id)-1] != '>' {
		id += ">"
	}
	return id
}
