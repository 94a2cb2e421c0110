// Package qa parses the line-oriented question/answer study format.
//
// Each line of a document is one of:
//
//	# A comment, rendered as a section header
//	question [note] := answer (=synonym)
//
// Lines are parsed into an ordered list of [Component]s.
// A comment line produces a single [Comment].
// An item line produces an [Item],
// followed by up to two [Annotation]s:
// one collecting the "=" (synonym) spans of the line,
// and one collecting all other bracketed or parenthesized notes.
package qa

// Component is a single parsed unit of a document.
// It is one of [*Comment], [*Item], or [*Annotation].
type Component interface {
	component()
}

// Comment is a free-form note that introduces a section of the document.
type Comment struct {
	Text string
}

// Item is a single question/answer pair.
type Item struct {
	// Question and Answer hold the text of each side
	// with annotations removed.
	Question string
	Answer   string

	// ID is a stable identifier derived from Question.
	// It is empty for documents parsed with [LegacyGrammar].
	ID string
}

// Annotation is a note attached to the item preceding it.
type Annotation struct {
	// Text of the annotation.
	// For synonym annotations, this includes the leading "=".
	Text string

	// Equals reports whether this annotation lists synonyms.
	Equals bool
}

func (*Comment) component()    {}
func (*Item) component()       {}
func (*Annotation) component() {}

var (
	_ Component = (*Comment)(nil)
	_ Component = (*Item)(nil)
	_ Component = (*Annotation)(nil)
)
