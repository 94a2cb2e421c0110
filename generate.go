package main

import (
	"bytes"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"braces.dev/errtrace"
	"github.com/bmatcuk/doublestar/v4"
	"go.abhg.dev/qa2html/internal/errdefer"
	"go.abhg.dev/qa2html/internal/html"
	"go.abhg.dev/qa2html/internal/qa"
)

const (
	_indexFile = "index.html"
	_pageExt   = ".html"
)

// Parser parses a study document.
type Parser interface {
	Parse(io.Reader) ([]qa.Component, error)
}

var _ Parser = (*qa.Parser)(nil)

// Renderer renders parsed study documents into HTML.
type Renderer interface {
	WriteStatic(dir string) error
	RenderPage(w io.Writer, title string, components []qa.Component) error
	RenderIndex(w io.Writer, entries []html.IndexEntry) error
}

var _ Renderer = (*html.Renderer)(nil)

// Generator converts study documents into HTML pages.
//
// In terms of code organization,
// Generator's purpose is to add a separation between main
// and the program's core logic to aid in testability.
type Generator struct {
	Log      *log.Logger
	Debug    *log.Logger // optional
	Parser   Parser
	Renderer Renderer

	// OutDir is the directory that pages are written to.
	// It is created if it doesn't exist.
	OutDir string

	// NoIndex skips regeneration of index.html.
	NoIndex bool

	// NoStatic skips writing static assets.
	NoStatic bool
}

// Generate converts the given input documents into pages,
// and regenerates the index page.
//
// It stops at the first document that fails to convert.
// Pages for documents converted before that are kept.
func (g *Generator) Generate(inputs []string) error {
	if err := os.MkdirAll(g.OutDir, 0o1755); err != nil {
		return errtrace.Wrap(err)
	}

	if !g.NoStatic {
		if err := g.Renderer.WriteStatic(g.OutDir); err != nil {
			return errtrace.Wrap(fmt.Errorf("write static files: %w", err))
		}
	}

	for _, input := range inputs {
		if _, err := g.Convert(input); err != nil {
			return errtrace.Wrap(err)
		}
	}

	if g.NoIndex {
		return nil
	}
	return errtrace.Wrap(g.GenerateIndex())
}

// Convert converts a single document into a page in OutDir,
// and returns the path to the page.
//
// The page is written only if the entire document is valid.
func (g *Generator) Convert(input string) (string, error) {
	name, err := OutputName(input)
	if err != nil {
		return "", errtrace.Wrap(err)
	}

	components, err := g.parseFile(input)
	if err != nil {
		return "", errtrace.Wrap(fmt.Errorf("%v: %w", input, err))
	}
	g.debugf("%v: parsed %d components", input, len(components))

	var buff bytes.Buffer
	title := html.Title(strings.TrimSuffix(name, _pageExt))
	if err := g.Renderer.RenderPage(&buff, title, components); err != nil {
		return "", errtrace.Wrap(fmt.Errorf("%v: render: %w", input, err))
	}

	outPath := filepath.Join(g.OutDir, name)
	if err := os.WriteFile(outPath, buff.Bytes(), 0o644); err != nil {
		return "", errtrace.Wrap(err)
	}
	g.Log.Printf("Created %v", outPath)
	return outPath, nil
}

func (g *Generator) parseFile(path string) (_ []qa.Component, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errtrace.Wrap(err)
	}
	defer errdefer.Close(&err, f)

	return errtrace.Wrap2(g.Parser.Parse(f))
}

// GenerateIndex writes an index.html to OutDir
// that links to every other page in OutDir.
//
// The directory is listed afresh each time,
// so pages from earlier runs are included.
func (g *Generator) GenerateIndex() error {
	ents, err := os.ReadDir(g.OutDir)
	if err != nil {
		return errtrace.Wrap(err)
	}

	var entries []html.IndexEntry
	for _, ent := range ents {
		name := ent.Name()
		if ent.IsDir() || name == _indexFile || filepath.Ext(name) != _pageExt {
			continue
		}
		entries = append(entries, html.IndexEntry{
			Title: html.Title(strings.TrimSuffix(name, _pageExt)),
			Href:  name,
		})
	}
	g.debugf("index: %d pages", len(entries))

	var buff bytes.Buffer
	if err := g.Renderer.RenderIndex(&buff, entries); err != nil {
		return errtrace.Wrap(fmt.Errorf("render index: %w", err))
	}

	outPath := filepath.Join(g.OutDir, _indexFile)
	if err := os.WriteFile(outPath, buff.Bytes(), 0o644); err != nil {
		return errtrace.Wrap(err)
	}
	g.Log.Printf("Created %v", outPath)
	return nil
}

func (g *Generator) debugf(format string, args ...any) {
	if g.Debug != nil {
		g.Debug.Printf(format, args...)
	}
}

// OutputName reports the name of the page generated for an input document:
// the lower-cased base name of the input with its extension replaced by ".html".
func OutputName(input string) (string, error) {
	base := strings.ToLower(filepath.Base(input))
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	if len(stem) == 0 {
		// Dotfiles like ".words" keep their name.
		stem = base
	}
	name := stem + _pageExt
	if name == _indexFile {
		return "", errtrace.Errorf("%v: name %q is reserved for the index page", input, stem)
	}
	return name, nil
}

// expandInputs expands glob patterns in the command line arguments.
//
// Arguments that aren't patterns are kept as-is,
// even if the file doesn't exist,
// so that the conversion reports the missing file.
func expandInputs(patterns []string) ([]string, error) {
	var (
		inputs []string
		seen   = make(map[string]struct{})
	)
	for _, pattern := range patterns {
		matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
		if err != nil {
			return nil, errtrace.Wrap(fmt.Errorf("bad pattern %q: %w", pattern, err))
		}
		if len(matches) == 0 {
			if isPattern(pattern) {
				return nil, errtrace.Errorf("no files match %q", pattern)
			}
			matches = []string{pattern}
		}
		slices.Sort(matches)

		for _, m := range matches {
			if _, ok := seen[m]; ok {
				continue
			}
			seen[m] = struct{}{}
			inputs = append(inputs, m)
		}
	}
	return inputs, nil
}

func isPattern(s string) bool {
	return strings.ContainsAny(s, "*?[{")
}
