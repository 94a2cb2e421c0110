package qa

import (
	"bufio"
	"errors"
	"io"
	"regexp"
	"slices"
	"strings"

	"braces.dev/errtrace"
)

// Grammar selects the dialect of the study format.
type Grammar int

const (
	// StandardGrammar keeps word-class markers like "(vt.)" inline
	// and assigns a stable ID to each item.
	StandardGrammar Grammar = iota

	// LegacyGrammar treats every parenthesized span as a note
	// and does not assign IDs to items.
	// Use it to reproduce output generated by older versions.
	LegacyGrammar
)

func (g Grammar) String() string {
	switch g {
	case StandardGrammar:
		return "standard"
	case LegacyGrammar:
		return "legacy"
	default:
		return "unknown"
	}
}

// DefaultWordClasses are the word-class markers
// recognized by [StandardGrammar] out of the box.
// A marker appears in a document in parentheses, e.g. "(vt.)".
var DefaultWordClasses = []string{"v.", "vt.", "vi.", "n.", "adj.", "adv."}

const (
	_separator     = ":="
	_commentMarker = "#"
	_equalsMarker  = "="
)

var _commentLine = regexp.MustCompile(`^#\s*(.*)$`)

type options struct {
	grammar     Grammar
	wordClasses []string
}

// Option customizes a [Parser].
type Option func(*options)

// WithGrammar selects the grammar used by the parser.
// Defaults to [StandardGrammar].
func WithGrammar(g Grammar) Option {
	return func(o *options) {
		o.grammar = g
	}
}

// WithWordClasses adds word-class markers
// to those in [DefaultWordClasses].
// Markers are specified without the surrounding parentheses.
func WithWordClasses(classes ...string) Option {
	return func(o *options) {
		o.wordClasses = append(o.wordClasses, classes...)
	}
}

// Parser parses documents in the study format.
//
// A Parser is safe for concurrent use.
type Parser struct {
	grammar Grammar

	wordClass   *regexp.Regexp // a complete "(vt.)" piece
	commaBefore *regexp.Regexp // ", (vt.)"
	commaAfter  *regexp.Regexp // "(vt.), "
}

// NewParser builds a new parser with the given options.
func NewParser(opts ...Option) *Parser {
	o := options{
		grammar:     StandardGrammar,
		wordClasses: slices.Clone(DefaultWordClasses),
	}
	for _, opt := range opts {
		opt(&o)
	}

	alts := make([]string, 0, len(o.wordClasses))
	for _, wc := range o.wordClasses {
		if wc = strings.TrimSpace(wc); wc != "" {
			alts = append(alts, regexp.QuoteMeta(wc))
		}
	}
	marker := `\((?:` + strings.Join(alts, "|") + `)\)`

	return &Parser{
		grammar:     o.grammar,
		wordClass:   regexp.MustCompile(`^` + marker + `$`),
		commaBefore: regexp.MustCompile(`\s*,\s*(` + marker + `)`),
		commaAfter:  regexp.MustCompile(`(` + marker + `)\s*,\s*`),
	}
}

// Grammar reports the grammar used by this parser.
func (p *Parser) Grammar() Grammar {
	return p.grammar
}

// Parse reads a document from r and parses it line by line.
// Blank lines are skipped.
//
// Parsing stops at the first malformed line.
// The returned error is then a [*FormatError]
// holding the line number.
func (p *Parser) Parse(r io.Reader) ([]Component, error) {
	var components []Component

	scan := bufio.NewScanner(r)
	scan.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for lineno := 1; scan.Scan(); lineno++ {
		cs, err := p.ParseLine(scan.Text())
		if err != nil {
			var ferr *FormatError
			if errors.As(err, &ferr) {
				ferr.Line = lineno
			}
			return nil, errtrace.Wrap(err)
		}
		components = append(components, cs...)
	}
	if err := scan.Err(); err != nil {
		return nil, errtrace.Wrap(err)
	}
	return components, nil
}

// ParseLine parses a single line of a document.
// The line must not include a trailing newline.
//
// Comment lines produce exactly one [*Comment].
// Item lines produce an [*Item],
// optionally followed by an [*Annotation] of synonyms
// and an [*Annotation] of other notes, in that order.
// Blank lines produce nothing.
func (p *Parser) ParseLine(line string) ([]Component, error) {
	line = strings.TrimSpace(line)
	switch {
	case line == "":
		return nil, nil
	case strings.HasPrefix(line, _commentMarker):
		return errtrace.Wrap2(p.parseComment(line))
	default:
		return errtrace.Wrap2(p.parseItem(line))
	}
}

func (p *Parser) parseComment(line string) ([]Component, error) {
	m := _commentLine.FindStringSubmatch(line)
	if m == nil {
		return nil, &FormatError{Text: line, Err: ErrMalformedComment}
	}
	return []Component{&Comment{Text: m[1]}}, nil
}

func (p *Parser) parseItem(line string) ([]Component, error) {
	question, answer, ok := strings.Cut(line, _separator)
	if !ok {
		return nil, &FormatError{Text: line, Err: ErrMissingSeparator}
	}

	q := p.extract(strings.TrimSpace(question))
	a := p.extract(strings.TrimSpace(answer))

	item := &Item{
		Question: p.join(q.texts),
		Answer:   p.join(a.texts),
	}
	if p.grammar == StandardGrammar {
		item.ID = Slug(item.Question)
	}

	components := []Component{item}
	if equals := strings.Join(slices.Concat(q.equals, a.equals), ", "); len(equals) > 0 {
		components = append(components, &Annotation{
			Text:   _equalsMarker + equals,
			Equals: true,
		})
	}
	if notes := strings.Join(slices.Concat(q.notes, a.notes), "; "); len(notes) > 0 {
		components = append(components, &Annotation{Text: notes})
	}
	return components, nil
}

// fragments holds the classified pieces of one side of an item line.
type fragments struct {
	texts  []string // plain text, including word-class markers
	equals []string // synonyms from "(=...)" spans
	notes  []string // all other spans
}

func (p *Parser) extract(side string) fragments {
	if p.grammar == LegacyGrammar {
		return extractLegacy(side)
	}

	var f fragments
	for _, pc := range splitPieces(side) {
		text := strings.TrimSpace(pc.text)
		switch {
		case !pc.span, p.wordClass.MatchString(text):
			f.texts = append(f.texts, text)

		case strings.HasPrefix(text[1:], _equalsMarker):
			inner := strings.TrimSpace(text[2 : len(text)-1])
			if len(inner) > 0 {
				f.equals = append(f.equals, inner)
			}

		default:
			inner := strings.TrimSpace(text[1 : len(text)-1])
			if len(inner) > 0 {
				f.notes = append(f.notes, inner)
			}
		}
	}
	return f
}

func extractLegacy(side string) fragments {
	var f fragments
	for _, pc := range splitLegacyPieces(side) {
		if !pc.span {
			f.texts = append(f.texts, pc.text)
			continue
		}

		inner := pc.text[1 : len(pc.text)-1]
		if rest, ok := strings.CutPrefix(inner, _equalsMarker); ok {
			f.equals = append(f.equals, rest)
		} else {
			f.notes = append(f.notes, inner)
		}
	}
	return f
}

// join joins the plain text fragments of one side.
// Commas adjacent to word-class markers are dropped
// so that "run (vt.) to jog" reads as written.
func (p *Parser) join(texts []string) string {
	s := strings.Join(texts, ", ")
	if p.grammar == LegacyGrammar {
		return s
	}
	s = p.commaBefore.ReplaceAllString(s, " ${1}")
	s = p.commaAfter.ReplaceAllString(s, "${1} ")
	return s
}
