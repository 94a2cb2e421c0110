package html

import (
	"bytes"
	"io/fs"
	"os"
	"sort"
	"strings"
	"testing"

	"github.com/andybalholm/cascadia"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.abhg.dev/qa2html/internal/qa"
	"golang.org/x/net/html"
)

func TestRenderer_WriteStatic(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, new(Renderer).WriteStatic(dir))

	var want []string
	err := fs.WalkDir(_staticFS, "static", func(path string, _ fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		want = append(want, strings.TrimPrefix(path, "static"))
		return nil
	})
	require.NoError(t, err)
	sort.Strings(want)

	var got []string
	err = fs.WalkDir(os.DirFS(dir), "_", func(path string, _ fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		got = append(got, strings.TrimPrefix(path, "_"))
		return nil
	})
	require.NoError(t, err)
	sort.Strings(got)

	assert.Equal(t, want, got)
	assert.Contains(t, got, "/css/main.css")
	assert.Contains(t, got, "/js/study.js")
}

func TestStudyScript_selectors(t *testing.T) {
	t.Parallel()

	// The script must look for the markup that the templates produce.
	script, err := fs.ReadFile(_staticFS, "static/js/study.js")
	require.NoError(t, err)
	for _, want := range []string{
		"tr.item",
		"input.uk-checkbox",
		".answer-text",
		"toggle-answers",
		"clear-checkboxes",
		".footer",
		"scrollPercentage",
	} {
		assert.Contains(t, string(script), want)
	}
}

func TestRenderer_RenderContent_rows(t *testing.T) {
	t.Parallel()

	components := []qa.Component{
		&qa.Comment{Text: "Greetings"},
		&qa.Item{Question: "hello", Answer: "こんにちは", ID: "hello"},
		&qa.Annotation{Text: "=やあ", Equals: true},
		&qa.Annotation{Text: "informal"},
		&qa.Item{Question: "run (vt.) to jog", Answer: "走る", ID: "run-vt-to-jog"},
	}

	var buff bytes.Buffer
	require.NoError(t,
		(&Renderer{Checkboxes: true}).RenderContent(&buff, components))

	doc := parseFragment(t, buff.String())

	headers := cascadia.QueryAll(doc, cascadia.MustCompile("table.qa th"))
	require.Len(t, headers, 3)
	assert.Equal(t, "English Phrase", allText(headers[1]))
	assert.Equal(t, "Japanese Description", allText(headers[2]))

	rows := cascadia.QueryAll(doc, cascadia.MustCompile("table.qa tr"))
	require.Len(t, rows, 6, "header + one row per component")

	comment := cascadia.MustCompile("tr.comment > td").MatchFirst(doc)
	require.NotNil(t, comment)
	assert.Equal(t, "Greetings", allText(comment))
	assert.Equal(t, "3", attr(comment, "colspan"))

	var notes []string
	for _, td := range cascadia.QueryAll(doc, cascadia.MustCompile("tr.note > td")) {
		notes = append(notes, allText(td))
		assert.Equal(t, "3", attr(td, "colspan"))
	}
	assert.Equal(t, []string{"=やあ", "informal"}, notes)

	equals := cascadia.MustCompile("tr.note.equals > td").MatchFirst(doc)
	require.NotNil(t, equals)
	assert.Equal(t, "=やあ", allText(equals))

	items := cascadia.QueryAll(doc, cascadia.MustCompile("tr.item"))
	assert.Len(t, items, 2, "one item row per item")

	var ids []string
	for _, box := range cascadia.QueryAll(doc, cascadia.MustCompile(`tr.item input[type="checkbox"].uk-checkbox`)) {
		ids = append(ids, attr(box, "id"))
	}
	assert.Equal(t, []string{"hello", "run-vt-to-jog"}, ids)

	var questions, answers []string
	for _, td := range cascadia.QueryAll(doc, cascadia.MustCompile("td.question-text")) {
		questions = append(questions, allText(td))
	}
	for _, td := range cascadia.QueryAll(doc, cascadia.MustCompile("td.answer-text")) {
		answers = append(answers, allText(td))
	}
	assert.Equal(t, []string{"hello", "run (vt.) to jog"}, questions)
	assert.Equal(t, []string{"こんにちは", "走る"}, answers)
}

func TestRenderer_RenderContent_noCheckboxes(t *testing.T) {
	t.Parallel()

	components := []qa.Component{
		&qa.Item{Question: "hello", Answer: "こんにちは"},
		&qa.Annotation{Text: "greeting"},
	}

	var buff bytes.Buffer
	require.NoError(t, (&Renderer{
		QuestionLabel: "Q",
		AnswerLabel:   "A",
	}).RenderContent(&buff, components))

	doc := parseFragment(t, buff.String())
	assert.Nil(t, cascadia.MustCompile("input").MatchFirst(doc))
	assert.Len(t, cascadia.QueryAll(doc, cascadia.MustCompile("tr.item > td")), 2,
		"item rows hold only the question and answer")

	var headers []string
	for _, th := range cascadia.QueryAll(doc, cascadia.MustCompile("th")) {
		headers = append(headers, allText(th))
	}
	assert.Equal(t, []string{"Q", "A"}, headers)

	note := cascadia.MustCompile("tr.note > td").MatchFirst(doc)
	require.NotNil(t, note)
	assert.Equal(t, "2", attr(note, "colspan"))
}

func TestRenderer_RenderContent_uniqueIDs(t *testing.T) {
	t.Parallel()

	components := []qa.Component{
		&qa.Item{Question: "bank", Answer: "銀行", ID: "bank"},
		&qa.Item{Question: "bank", Answer: "土手", ID: "bank"},
		&qa.Item{Question: "bank-2", Answer: "x", ID: "bank-2"},
		&qa.Item{Question: "!!!", Answer: "y"},
	}

	var buff bytes.Buffer
	require.NoError(t,
		(&Renderer{Checkboxes: true}).RenderContent(&buff, components))

	var ids []string
	doc := parseFragment(t, buff.String())
	for _, box := range cascadia.QueryAll(doc, cascadia.MustCompile("input")) {
		ids = append(ids, attr(box, "id"))
	}
	assert.Equal(t, []string{"bank", "bank-2", "bank-2-2", "item"}, ids)
}

func TestRenderer_RenderContent_escaping(t *testing.T) {
	t.Parallel()

	components := []qa.Component{
		&qa.Comment{Text: "A & B"},
		&qa.Item{Question: "a < b", Answer: "<b>bold</b>", ID: "a-b"},
	}

	var buff bytes.Buffer
	require.NoError(t, new(Renderer).RenderContent(&buff, components))

	assert.Contains(t, buff.String(), "A &amp; B")
	assert.Contains(t, buff.String(), "&lt;b&gt;bold&lt;/b&gt;")

	doc := parseFragment(t, buff.String())
	answer := cascadia.MustCompile("td.answer-text").MatchFirst(doc)
	require.NotNil(t, answer)
	assert.Equal(t, "<b>bold</b>", allText(answer))
}

func TestRenderer_RenderContent_deterministic(t *testing.T) {
	t.Parallel()

	components := []qa.Component{
		&qa.Comment{Text: "c"},
		&qa.Item{Question: "q", Answer: "a", ID: "q"},
		&qa.Item{Question: "q", Answer: "b", ID: "q"},
		&qa.Annotation{Text: "n"},
	}
	r := Renderer{Checkboxes: true}

	var first, second bytes.Buffer
	require.NoError(t, r.RenderContent(&first, components))
	require.NoError(t, r.RenderContent(&second, components))
	assert.Equal(t, first.String(), second.String())
}

func TestRenderer_RenderContent_empty(t *testing.T) {
	t.Parallel()

	var buff bytes.Buffer
	require.NoError(t, new(Renderer).RenderContent(&buff, nil))

	doc := parseFragment(t, buff.String())
	assert.Len(t, cascadia.QueryAll(doc, cascadia.MustCompile("tr")), 1)
}

func TestRenderer_RenderPage(t *testing.T) {
	t.Parallel()

	r := Renderer{
		PageTemplate: "<html><head><title>%TITLE%</title></head>" +
			"<body><h1>%TITLE%</h1>%CONTENT%</body></html>",
	}

	var buff bytes.Buffer
	require.NoError(t, r.RenderPage(&buff, "Greetings & Farewells", []qa.Component{
		&qa.Item{Question: "%TITLE%", Answer: "%CONTENT%", ID: "TITLE"},
	}))

	doc, err := html.Parse(bytes.NewReader(buff.Bytes()))
	require.NoError(t, err, "invalid HTML:\n%v", buff.String())

	title := cascadia.MustCompile("title").MatchFirst(doc)
	require.NotNil(t, title)
	assert.Equal(t, "Greetings & Farewells", allText(title))

	h1 := cascadia.MustCompile("h1").MatchFirst(doc)
	require.NotNil(t, h1)
	assert.Equal(t, "Greetings & Farewells", allText(h1))
	assert.Contains(t, buff.String(), "<h1>Greetings &amp; Farewells</h1>",
		"title is HTML-escaped")

	// Placeholders inside the content are not expanded.
	question := cascadia.MustCompile("td.question-text").MatchFirst(doc)
	require.NotNil(t, question)
	assert.Equal(t, "%TITLE%", allText(question))
}

func TestRenderer_RenderPage_defaultTemplate(t *testing.T) {
	t.Parallel()

	var buff bytes.Buffer
	require.NoError(t, (&Renderer{Checkboxes: true}).RenderPage(&buff, "Verbs", []qa.Component{
		&qa.Item{Question: "run", Answer: "走る", ID: "run"},
	}))
	assert.NotContains(t, buff.String(), TitlePlaceholder)
	assert.NotContains(t, buff.String(), ContentPlaceholder)

	doc, err := html.Parse(bytes.NewReader(buff.Bytes()))
	require.NoError(t, err)

	title := cascadia.MustCompile("title").MatchFirst(doc)
	require.NotNil(t, title)
	assert.Equal(t, "Verbs", allText(title))

	for _, sel := range []string{
		"#toggle-answers",
		"#clear-checkboxes",
		"tr.item input#run",
		".footer > #scrollPercentage",
	} {
		assert.NotNil(t, cascadia.MustCompile(sel).MatchFirst(doc), "missing %v", sel)
	}
}

func TestRenderer_RenderIndex(t *testing.T) {
	t.Parallel()

	entries := []IndexEntry{
		{Title: "Verbs", Href: "verbs.html"},
		{Title: "Adjectives", Href: "adjectives.html"},
		{Title: "Irregular Verbs", Href: "irregular_verbs.html"},
	}

	var buff bytes.Buffer
	require.NoError(t, new(Renderer).RenderIndex(&buff, entries))

	doc, err := html.Parse(bytes.NewReader(buff.Bytes()))
	require.NoError(t, err, "invalid HTML:\n%v", buff.String())

	title := cascadia.MustCompile("title").MatchFirst(doc)
	require.NotNil(t, title)
	assert.Equal(t, "Index", allText(title))

	var got []IndexEntry
	for _, a := range cascadia.QueryAll(doc, cascadia.MustCompile("ul.index > li > a")) {
		got = append(got, IndexEntry{Title: allText(a), Href: attr(a, "href")})
	}
	assert.Equal(t, []IndexEntry{
		{Title: "Adjectives", Href: "adjectives.html"},
		{Title: "Irregular Verbs", Href: "irregular_verbs.html"},
		{Title: "Verbs", Href: "verbs.html"},
	}, got)

	// The input is left untouched.
	assert.Equal(t, "Verbs", entries[0].Title)
}

func TestRenderer_RenderIndex_customTemplate(t *testing.T) {
	t.Parallel()

	r := Renderer{
		IndexTemplate: "[%TITLE%] %CONTENT%",
		IndexTitle:    "Vocabulary",
	}

	var buff bytes.Buffer
	require.NoError(t, r.RenderIndex(&buff, nil))
	assert.Equal(t, "[Vocabulary] <ul class=\"index\">\n</ul>", buff.String())
}

func TestTitle(t *testing.T) {
	t.Parallel()

	tests := []struct {
		give string
		want string
	}{
		{give: "verbs", want: "Verbs"},
		{give: "irregular_verbs", want: "Irregular Verbs"},
		{give: "phrasal-verbs_part_2", want: "Phrasal Verbs Part 2"},
		{give: "ALL_CAPS", want: "All Caps"},
		{give: "__odd__name__", want: "Odd Name"},
		{give: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.give, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, Title(tt.give))
		})
	}
}

func parseFragment(t *testing.T, s string) *html.Node {
	t.Helper()

	doc, err := html.Parse(strings.NewReader("<!DOCTYPE html><html><body>" + s + "</body></html>"))
	require.NoError(t, err, "invalid HTML:\n%v", s)
	return doc
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func allText(n *html.Node) string {
	var (
		sb    strings.Builder
		visit func(*html.Node)
	)
	visit = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for n := n.FirstChild; n != nil; n = n.NextSibling {
			visit(n)
		}
	}
	visit(n)
	return sb.String()
}
