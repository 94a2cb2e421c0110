package qa

import (
	"regexp"
	"strings"
)

var (
	_slugSeparators = regexp.MustCompile(`[\p{Z}\s.,;:!?/]+`)
	_slugInvalid    = regexp.MustCompile(`[^\p{L}\p{N}_-]+`)
)

// Slug derives a stable identifier from the question text of an item.
//
// The text is split on whitespace and punctuation,
// characters other than letters, digits, '_' and '-'
// are removed from each word,
// and the remaining words are joined with '-'.
//
//	Slug("Hello, world!") == "Hello-world"
func Slug(question string) string {
	var words []string
	for _, word := range _slugSeparators.Split(question, -1) {
		if word = _slugInvalid.ReplaceAllString(word, ""); word != "" {
			words = append(words, word)
		}
	}
	return strings.Join(words, "-")
}
