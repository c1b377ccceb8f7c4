// Package annotate computes derived fields of a post: cleaned text, topic tags and sentiment.
package annotate

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

var newlines = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ")

// Clean decomposes text, drops everything outside ASCII, replaces line breaks with spaces
// and trims the result. Accented letters keep their base letter.
func Clean(text string) string {
	if text == "" {
		return ""
	}

	decomposed := norm.NFKD.String(text)
	var b strings.Builder
	b.Grow(len(decomposed))
	for _, r := range decomposed {
		if r < utf8.RuneSelf {
			b.WriteRune(r)
		}
	}

	return strings.TrimSpace(newlines.Replace(b.String()))
}
