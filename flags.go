package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/peterbourgon/ff/v3"
	"go.abhg.dev/qa2html/internal/flagvalue"
)

var (
	errHelp             = flag.ErrHelp
	errInvalidArguments = errors.New("invalid arguments")
)

// _envVarPrefix is the prefix for environment variables
// that may be used in place of flags.
// For example, QA2HTML_OUT may be used in place of -out.
const _envVarPrefix = "QA2HTML"

// params holds all arguments for qa2html.
type params struct {
	version bool
	help    Help

	Debug flagvalue.FileSwitch

	OutputDir     string
	PageTemplate  string
	IndexTemplate string
	NoIndex       bool
	NoStatic      bool

	IndexTitle    string
	QuestionLabel string
	AnswerLabel   string

	Legacy     bool
	WordClass  []wordClass
	Watch      bool
	ConfigFile string

	Inputs []string
}

// WordClasses returns the extra word-class markers as strings.
func (p *params) WordClasses() []string {
	classes := make([]string, len(p.WordClass))
	for i, wc := range p.WordClass {
		classes[i] = string(wc)
	}
	return classes
}

// cliParser parses the command line arguments for qa2html.
type cliParser struct {
	Stdout io.Writer
	Stderr io.Writer
}

func (cmd *cliParser) newFlagSet() (*params, *flag.FlagSet) {
	flag := flag.NewFlagSet("qa2html", flag.ContinueOnError)
	// Parse reports errors itself
	// so that errors from the environment or configuration file
	// are reported the same way as those from the command line.
	flag.SetOutput(io.Discard)
	flag.Usage = func() {
		DefaultHelp.Write(cmd.Stderr)
	}

	var p params

	// Filesystem:
	flag.StringVar(&p.OutputDir, "out", "www", "")
	flag.StringVar(&p.PageTemplate, "page-template", "", "")
	flag.StringVar(&p.IndexTemplate, "index-template", "", "")
	flag.BoolVar(&p.NoIndex, "no-index", false, "")
	flag.BoolVar(&p.NoStatic, "no-static", false, "")

	// HTML output:
	flag.StringVar(&p.IndexTitle, "index-title", "", "")
	flag.StringVar(&p.QuestionLabel, "question-label", "", "")
	flag.StringVar(&p.AnswerLabel, "answer-label", "", "")

	// Parsing:
	flag.BoolVar(&p.Legacy, "legacy", false, "")
	flag.Var(flagvalue.ListOf(&p.WordClass), "word-class", "")

	// Program-level:
	flag.BoolVar(&p.Watch, "watch", false, "")
	flag.StringVar(&p.ConfigFile, "config", "", "")
	flag.Var(&p.Debug, "debug", "")
	flag.BoolVar(&p.version, "version", false, "")
	flag.Var(&p.help, "help", "")
	flag.Var(&p.help, "h", "")

	return &p, flag
}

func (cmd *cliParser) Parse(args []string) (*params, error) {
	p, flag := cmd.newFlagSet()
	err := ff.Parse(flag, args,
		ff.WithEnvVarPrefix(_envVarPrefix),
		ff.WithConfigFileFlag("config"),
		ff.WithConfigFileParser(ff.PlainParser),
	)
	if err != nil {
		fmt.Fprintln(cmd.Stderr, err)
		return nil, err
	}
	args = flag.Args()

	if p.version {
		fmt.Fprintln(cmd.Stdout, "qa2html", _version)
		return nil, errHelp
	}

	if p.help == DefaultHelp && len(args) > 0 {
		// The user might have done "-h foo"
		// instead of "-h=foo".
		// If the argument is a known help topic,
		// take it.
		var h Help
		if err := h.Set(args[0]); err == nil {
			if _, ok := _helpTopics[h]; ok {
				p.help = h
			}
		}
	}

	switch p.help {
	case NoHelp:
		// proceed as usual
	default:
		if err := p.help.Write(cmd.Stderr); err != nil {
			fmt.Fprintln(cmd.Stderr, err)
		}
		return nil, errHelp
	}

	p.Inputs = args
	if len(p.Inputs) == 0 {
		fmt.Fprintln(cmd.Stderr, "Please provide at least one input file.")
		UsageHelp.Write(cmd.Stderr)
		return nil, errInvalidArguments
	}

	return p, nil
}

// wordClass is a word-class marker passed with -word-class,
// e.g. "prep." for "(prep.)".
type wordClass string

var _ flag.Getter = (*wordClass)(nil)

func (wc *wordClass) Get() any { return string(*wc) }

func (wc *wordClass) String() string { return string(*wc) }

func (wc *wordClass) Set(s string) error {
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(strings.TrimPrefix(s, "("), ")")
	if len(s) == 0 {
		return errors.New("word class must not be empty")
	}
	if strings.ContainsAny(s, "()[]") {
		return fmt.Errorf("word class %q must not contain brackets", s)
	}
	*wc = wordClass(s)
	return nil
}
