package html

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Title turns the name of a document into a human-readable title.
// Underscores and hyphens become spaces
// and each word is capitalized.
//
//	Title("irregular_verbs") == "Irregular Verbs"
func Title(name string) string {
	words := strings.FieldsFunc(name, func(r rune) bool {
		return r == '_' || r == '-' || r == ' '
	})
	// cases.Caser holds state so it can't be shared.
	return cases.Title(language.English).String(strings.Join(words, " "))
}
