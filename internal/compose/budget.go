package compose

import (
	"strings"
	"unicode/utf8"
)

// MaxTweetChars is the platform's hard character budget.
const MaxTweetChars = 280

// Budget joins the body lines and appends the space-joined hashtags on a
// final line. While the result exceeds the limit, hashtags are dropped from
// the end of the list one at a time (the list is ordered most- to
// least-significant, so the least significant tag goes first). Body lines are
// never altered: if the body alone exceeds the limit it is returned as-is.
// Length is counted in runes, matching how the platform counts characters.
func Budget(lines, hashtags []string, limit int) string {
	body := strings.Join(lines, "\n")

	for n := len(hashtags); n > 0; n-- {
		full := body + "\n" + strings.Join(hashtags[:n], " ")
		if utf8.RuneCountInString(full) <= limit {
			return full
		}
	}

	return body
}
