package qa

import (
	"regexp"
	"strings"
)

// A span is a "[...]" or "(...)" group.
// Spans may contain one level of nested spans of the same kind,
// so "[a [b] c]" is a single span.
// Deeper nesting is not supported.
var (
	_bracketSpan = regexp.MustCompile(`\[(?:[^\[\]]|\[[^\[\]]+\])+\]`)
	_parenSpan   = regexp.MustCompile(`\((?:[^()]|\([^()]+\))+\)`)

	// Legacy documents require at least one character
	// before a nested span.
	_legacyBracketSpan = regexp.MustCompile(`\[[^\[\]]+(?:\[[^\[\]]+\][^\[\]]*)*\]`)
	_legacyParenSpan   = regexp.MustCompile(`\([^()]+(?:\([^()]+\)[^()]*)*\)`)
	_legacyDelimited   = regexp.MustCompile(`^(?:\[.*\]|\(.*\))$`)
)

// piece is a fragment of one side of an item line.
type piece struct {
	text string

	// span reports whether text is wholly enclosed
	// in brackets or parentheses.
	span bool
}

// splitSpans splits s around matches of re,
// keeping both the matches and the text between them.
// Pieces that are entirely whitespace are dropped.
func splitSpans(re *regexp.Regexp, s string) []piece {
	var (
		pieces []piece
		last   int
	)
	add := func(text string, span bool) {
		if strings.TrimSpace(text) != "" {
			pieces = append(pieces, piece{text: text, span: span})
		}
	}
	for _, loc := range re.FindAllStringIndex(s, -1) {
		add(s[last:loc[0]], false)
		add(s[loc[0]:loc[1]], true)
		last = loc[1]
	}
	add(s[last:], false)
	return pieces
}

// splitPieces splits one side of an item line
// into plain text and spans.
//
// Bracketed spans are found first.
// Parenthesized spans are then found in the text between them.
func splitPieces(s string) []piece {
	var pieces []piece
	for _, p := range splitSpans(_bracketSpan, s) {
		if p.span {
			pieces = append(pieces, p)
			continue
		}
		pieces = append(pieces, splitSpans(_parenSpan, p.text)...)
	}
	return pieces
}

// splitLegacyPieces is the legacy variant of splitPieces.
// Parentheses are searched for inside bracketed spans as well,
// and a piece is a span only if it starts and ends with a delimiter.
func splitLegacyPieces(s string) []piece {
	var pieces []piece
	for _, outer := range splitSpans(_legacyBracketSpan, s) {
		for _, p := range splitSpans(_legacyParenSpan, outer.text) {
			p.span = _legacyDelimited.MatchString(p.text)
			pieces = append(pieces, p)
		}
	}
	return pieces
}
