package annotate

import (
	"strings"

	"github.com/subscope/subscope/pkg/keywords"
)

// Tag returns topics whose keywords appear in the lowercased title and body.
// Matching is plain substring containment, so "ai" matches inside "said".
// Topics are returned in the mapping order.
func Tag(title, body string, topics *keywords.Topics) []string {
	text := strings.ToLower(title + " " + body)
	res := []string{}
	topics.Each(func(name string, kws []string) bool {
		for _, kw := range kws {
			if strings.Contains(text, kw) {
				res = append(res, name)
				break
			}
		}
		return true
	})
	return res
}

// FormatTags joins tags with commas, empty string for no tags
func FormatTags(tags []string) string {
	return strings.Join(tags, ",")
}
