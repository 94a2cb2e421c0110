// qa2html converts question/answer study documents into static HTML pages.
//
// Usage:
//
//	qa2html [options] FILE|PATTERN ...
//
// Each input document is converted into a page in the output directory,
// and an index page listing every page in that directory is regenerated.
// See 'qa2html -h format' for a description of the input format.
package main

import (
	"context"
	"errors"
	"io"
	"log"
	"os"
	"os/signal"

	"braces.dev/errtrace"
	"go.abhg.dev/qa2html/internal/errdefer"
	"go.abhg.dev/qa2html/internal/html"
	"go.abhg.dev/qa2html/internal/qa"
)

func main() {
	cmd := mainCmd{
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}
	os.Exit(cmd.Run(os.Args[1:]))
}

// mainCmd is the actual entry point to the program.
type mainCmd struct {
	Stdout io.Writer // == os.Stdout
	Stderr io.Writer // == os.Stderr

	// Context for watch mode.
	// Defaults to one that's canceled on interrupt.
	Context context.Context

	log *log.Logger
}

func (cmd *mainCmd) Run(args []string) (exitCode int) {
	cmd.log = log.New(cmd.Stderr, "", 0)

	opts, err := (&cliParser{
		Stdout: cmd.Stdout,
		Stderr: cmd.Stderr,
	}).Parse(args)
	if err != nil {
		// '$cmd -h' should exit with zero.
		if errors.Is(err, errHelp) {
			return 0
		}
		// No need to print anything.
		// Parse prints messages.
		return 1
	}

	if err := cmd.run(opts); err != nil {
		cmd.log.Printf("qa2html: %v", err)
		return 1
	}
	return 0
}

func (cmd *mainCmd) run(opts *params) (err error) {
	debugLog, closeDebug, err := opts.Debug.Logger(cmd.Stderr, "debug: ")
	if err != nil {
		return errtrace.Wrap(err)
	}
	defer errdefer.Run(&err, closeDebug)

	pageTmpl, err := readTemplate(opts.PageTemplate)
	if err != nil {
		return errtrace.Wrap(err)
	}
	indexTmpl, err := readTemplate(opts.IndexTemplate)
	if err != nil {
		return errtrace.Wrap(err)
	}

	grammar := qa.StandardGrammar
	if opts.Legacy {
		grammar = qa.LegacyGrammar
	}
	parser := qa.NewParser(
		qa.WithGrammar(grammar),
		qa.WithWordClasses(opts.WordClasses()...),
	)

	gen := Generator{
		Log:    cmd.log,
		Debug:  debugLog,
		Parser: parser,
		Renderer: &html.Renderer{
			PageTemplate:  pageTmpl,
			IndexTemplate: indexTmpl,
			IndexTitle:    opts.IndexTitle,
			QuestionLabel: opts.QuestionLabel,
			AnswerLabel:   opts.AnswerLabel,
			// Only the standard grammar gives items IDs for checkboxes.
			Checkboxes:    parser.Grammar() == qa.StandardGrammar,
		},
		OutDir:   opts.OutputDir,
		NoIndex:  opts.NoIndex,
		NoStatic: opts.NoStatic,
	}

	inputs, err := expandInputs(opts.Inputs)
	if err != nil {
		return errtrace.Wrap(err)
	}
	debugLog.Printf("grammar=%v inputs=%q", parser.Grammar(), inputs)

	if err := gen.Generate(inputs); err != nil {
		return errtrace.Wrap(err)
	}
	if !opts.Watch {
		return nil
	}

	ctx := cmd.Context
	if ctx == nil {
		var stop context.CancelFunc
		ctx, stop = signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
	}

	w := Watcher{
		Log:       cmd.log,
		Generator: &gen,
	}
	return errtrace.Wrap(w.Watch(ctx, inputs))
}

// readTemplate reads an external page template.
// An empty path selects the built-in template.
func readTemplate(path string) (string, error) {
	if len(path) == 0 {
		return "", nil
	}
	bs, err := os.ReadFile(path)
	if err != nil {
		return "", errtrace.Wrap(err)
	}
	return string(bs), nil
}
