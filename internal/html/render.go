// Package html renders parsed study documents into HTML pages.
package html

import (
	"bytes"
	"cmp"
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"braces.dev/errtrace"
	"go.abhg.dev/qa2html/internal/must"
	"go.abhg.dev/qa2html/internal/qa"
)

const _staticDir = "_"

// Placeholders in page and index templates.
// They are replaced verbatim.
const (
	TitlePlaceholder   = "%TITLE%"
	ContentPlaceholder = "%CONTENT%"
)

// Defaults used when the Renderer leaves the corresponding field empty.
const (
	DefaultQuestionLabel = "English Phrase"
	DefaultAnswerLabel   = "Japanese Description"
	DefaultIndexTitle    = "Index"
)

var (
	//go:embed tmpl/*.html
	_tmplFS embed.FS

	//go:embed static
	_staticFS embed.FS

	// DefaultPageTemplate is the page layout used
	// when Renderer.PageTemplate is empty.
	//
	//go:embed layout/page.html
	DefaultPageTemplate string

	// DefaultIndexTemplate is the index layout used
	// when Renderer.IndexTemplate is empty.
	//
	//go:embed layout/index.html
	DefaultIndexTemplate string

	_contentTmpl = template.Must(template.ParseFS(_tmplFS, "tmpl/content.html"))
	_indexTmpl   = template.Must(template.ParseFS(_tmplFS, "tmpl/index.html"))
)

// Renderer renders study documents into HTML.
//
// The zero value is ready to use.
type Renderer struct {
	// PageTemplate is the layout for each document.
	// %TITLE% and %CONTENT% are replaced with the document's title
	// and its table of items.
	PageTemplate string

	// IndexTemplate is the layout for the index of all documents.
	// %TITLE% and %CONTENT% are replaced with IndexTitle
	// and the list of documents.
	IndexTemplate string

	// IndexTitle is the title of the index page.
	IndexTitle string

	// Column headers for the question and answer columns.
	QuestionLabel string
	AnswerLabel   string

	// Checkboxes adds a leading column holding a checkbox for each item.
	// Checkboxes are identified by the item's ID.
	Checkboxes bool
}

// WriteStatic dumps the stylesheets and scripts
// referenced by the default templates into the given directory.
func (r *Renderer) WriteStatic(dir string) error {
	dir = filepath.Join(dir, _staticDir)
	static := must.Get(fs.Sub(_staticFS, "static"))
	return errtrace.Wrap(fs.WalkDir(static, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil || path == "." {
			return err
		}

		outPath := filepath.Join(dir, path)
		if d.IsDir() {
			return os.MkdirAll(outPath, 0o1755)
		}

		bs, err := fs.ReadFile(static, path)
		if err != nil {
			return err
		}
		return os.WriteFile(outPath, bs, 0o644)
	}))
}

// contentData is the input to the content template.
type contentData struct {
	QuestionLabel string
	AnswerLabel   string
	Checkboxes    bool
	Columns       int
	Rows          []row
}

// row is a single row of the content table.
type row struct {
	// Item rows use ID, Question and Answer.
	Item     bool
	ID       string
	Question string
	Answer   string

	// Other rows span the table.
	Class string
	Text  string
}

// RenderContent renders the table of components
// that makes up the body of a document page.
//
// Output is deterministic:
// the same components always produce the same bytes.
func (r *Renderer) RenderContent(w io.Writer, components []qa.Component) error {
	data := contentData{
		QuestionLabel: cmp.Or(r.QuestionLabel, DefaultQuestionLabel),
		AnswerLabel:   cmp.Or(r.AnswerLabel, DefaultAnswerLabel),
		Checkboxes:    r.Checkboxes,
		Columns:       2,
		Rows:          make([]row, 0, len(components)),
	}
	if r.Checkboxes {
		data.Columns++
	}

	ids := newIDSet()
	for _, c := range components {
		switch c := c.(type) {
		case *qa.Comment:
			data.Rows = append(data.Rows, row{Class: "comment", Text: c.Text})
		case *qa.Item:
			data.Rows = append(data.Rows, row{
				Item:     true,
				ID:       ids.Unique(c.ID),
				Question: c.Question,
				Answer:   c.Answer,
			})
		case *qa.Annotation:
			class := "note"
			if c.Equals {
				class = "note equals"
			}
			data.Rows = append(data.Rows, row{Class: class, Text: c.Text})
		default:
			return errtrace.Wrap(fmt.Errorf("unexpected component %T", c))
		}
	}

	return errtrace.Wrap(_contentTmpl.ExecuteTemplate(w, "content", data))
}

// RenderPage renders a complete page for a single document.
// Nothing is written to w if rendering fails.
func (r *Renderer) RenderPage(w io.Writer, title string, components []qa.Component) error {
	var content bytes.Buffer
	if err := r.RenderContent(&content, components); err != nil {
		return errtrace.Wrap(err)
	}
	return errtrace.Wrap(fill(w, cmp.Or(r.PageTemplate, DefaultPageTemplate), title, content.String()))
}

// IndexEntry is a document listed on the index page.
type IndexEntry struct {
	// Title is the human-readable name of the document.
	Title string

	// Href is the link to the document
	// relative to the index page.
	Href string
}

// RenderIndex renders the index page listing the given documents.
// Entries are listed sorted by title.
func (r *Renderer) RenderIndex(w io.Writer, entries []IndexEntry) error {
	entries = slices.Clone(entries)
	slices.SortStableFunc(entries, func(a, b IndexEntry) int {
		if c := strings.Compare(a.Title, b.Title); c != 0 {
			return c
		}
		return strings.Compare(a.Href, b.Href)
	})

	var content bytes.Buffer
	if err := _indexTmpl.ExecuteTemplate(&content, "index", entries); err != nil {
		return errtrace.Wrap(err)
	}

	tmpl := cmp.Or(r.IndexTemplate, DefaultIndexTemplate)
	title := cmp.Or(r.IndexTitle, DefaultIndexTitle)
	return errtrace.Wrap(fill(w, tmpl, title, content.String()))
}

// fill replaces the placeholders in a page template
// and writes the result to w.
//
// Placeholders are replaced in a single pass
// so a title or content that contains a placeholder
// is not expanded again.
func fill(w io.Writer, tmpl, title, content string) error {
	_, err := strings.NewReplacer(
		TitlePlaceholder, template.HTMLEscapeString(title),
		ContentPlaceholder, content,
	).WriteString(w, tmpl)
	return errtrace.Wrap(err)
}

// idSet hands out checkbox IDs that are unique within a page.
type idSet struct{ seen map[string]struct{} }

func newIDSet() *idSet {
	return &idSet{seen: make(map[string]struct{})}
}

// Unique returns id if it hasn't been used yet on this page.
// Otherwise, it appends the smallest numeric suffix
// that makes it unique.
func (s *idSet) Unique(id string) string {
	if len(id) == 0 {
		id = "item"
	}
	candidate := id
	for n := 2; ; n++ {
		if _, ok := s.seen[candidate]; !ok {
			break
		}
		candidate = fmt.Sprintf("%s-%d", id, n)
	}
	s.seen[candidate] = struct{}{}
	return candidate
}
