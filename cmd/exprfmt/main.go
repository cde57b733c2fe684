package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/alecthomas/kong"
	"github.com/alecthomas/repr"

	"github.com/zephyrtronium/exprfmt"
	"github.com/zephyrtronium/exprfmt/internal/config"
	"github.com/zephyrtronium/exprfmt/internal/observability"
)

const description = `
Reformat arithmetic and logical expressions with minimal parentheses.

Expressions are read from the arguments, from --in files, or from stdin, one
per line. Each is printed back with only the parentheses its meaning needs, or
with every mixed-precedence operand bracketed under --explicit.
`

type cli struct {
	Exprs        []string `arg:"" optional:"" help:"Expressions to reformat. Reads --in files or stdin when none are given."`
	In           []string `short:"i" type:"path" help:"Read expressions from files, one per line."`
	Explicit     bool     `short:"e" help:"Bracket every operand whose operator differs from its parent's."`
	Compact      bool     `short:"c" help:"Omit spaces around symbolic binary operators."`
	MaxDepth     int      `help:"Maximum nesting depth of an expression."`
	NoEmptyCalls bool     `help:"Reject calls with no arguments."`
	Echo         bool     `help:"Print parse trees."`
	Check        bool     `help:"Print only expressions whose formatting would change, and exit 1 if there are any."`
	Repl         bool     `short:"r" help:"Reformat expressions interactively."`
	Stats        bool     `help:"Print totals when finished."`
	Config       string   `type:"path" env:"EXPRFMT_CONFIG" help:"YAML or JSON settings file."`
	LogLevel     string   `help:"Log level: debug, info, warn, or error."`
}

// settings loads the config file, if any, and applies flags over it.
func (c *cli) settings() (config.Settings, error) {
	s := config.Defaults()
	if c.Config != "" {
		cfg, err := config.FromFile(c.Config)
		if err != nil {
			return s, err
		}
		if s, err = config.Load(cfg); err != nil {
			return s, fmt.Errorf("%s: %w", c.Config, err)
		}
	}
	if c.Explicit {
		s.Style = config.StyleExplicit
	}
	if c.Compact {
		s.Compact = true
	}
	if c.MaxDepth != 0 {
		s.MaxDepth = c.MaxDepth
	}
	if c.NoEmptyCalls {
		s.NoEmptyCalls = true
	}
	if c.Check {
		s.Check = true
	}
	if c.Stats {
		s.Telemetry = true
	}
	if c.LogLevel != "" {
		s.LogLevel = c.LogLevel
	}
	return s, s.Validate()
}

// app reformats inputs according to settings.
type app struct {
	out    io.Writer
	errw   io.Writer
	logger *slog.Logger
	tel    *observability.Telemetry

	popts []exprfmt.ParseOption
	fopts []exprfmt.FormatOption
	check bool
	echo  bool

	// failed and changed count inputs across all sources.
	failed  int
	changed int
}

func newApp(s config.Settings, echo bool, stdout, stderr io.Writer) (*app, error) {
	level, err := s.Level()
	if err != nil {
		return nil, err
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))
	tel := observability.Disabled()
	if s.Telemetry {
		tel = observability.NewTelemetry(logger)
	}
	a := app{
		out:    stdout,
		errw:   stderr,
		logger: logger,
		tel:    tel,
		popts:  s.ParseOptions(),
		fopts:  s.FormatOptions(),
		check:  s.Check,
		echo:   echo,
	}
	return &a, nil
}

// status is the exit code for the inputs processed so far.
func (a *app) status() int {
	if a.failed > 0 || (a.check && a.changed > 0) {
		return 1
	}
	return 0
}

// reformat handles one expression. Blank input is ignored.
func (a *app) reformat(ctx context.Context, source string, line int, src string) {
	text := strings.TrimSpace(src)
	if text == "" {
		return
	}
	ctx, span := a.tel.Spans.StartInputSpan(ctx, line, text)
	done := observability.TimedOperation()
	start := time.Now()

	n, err := exprfmt.Parse(src, a.popts...)
	a.tel.Metrics.RecordInput(ctx, source, time.Since(start), err)
	a.tel.Spans.EndSpanWithError(span, err)
	if err != nil {
		a.failed++
		observability.LogFailure(a.logger, line, err)
		fmt.Fprintln(a.errw, exprfmt.Snippet(fmt.Errorf("%s:%d: %w", source, line, err), src))
		return
	}
	out := exprfmt.Format(n, a.fopts...)
	changed := out != text
	observability.LogReformatted(a.logger, line, changed, done())
	if changed {
		a.changed++
		a.tel.Metrics.RecordChange(ctx, source)
	}

	if a.echo {
		fmt.Fprintln(a.out, repr.String(n, repr.Indent("  ")))
	}
	switch {
	case !a.check:
		fmt.Fprintln(a.out, out)
	case changed:
		fmt.Fprintf(a.out, "%s:%d: %s\n", source, line, out)
	}
}

// source reformats each line of r.
func (a *app) source(ctx context.Context, name string, r io.Reader) error {
	logger := observability.EnrichLogger(a.logger, name)
	observability.LogSourceStart(logger, name)
	ctx, span := a.tel.Spans.StartSourceSpan(ctx, name)
	done := observability.TimedOperation()
	failed := a.failed

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64<<10), 1<<20)
	line := 0
	for sc.Scan() {
		line++
		a.reformat(ctx, name, line, sc.Text())
	}
	err := sc.Err()
	if err != nil {
		err = fmt.Errorf("reading %s: %w", name, err)
	}
	a.tel.Spans.EndSpanWithError(span, err)
	observability.LogSourceComplete(logger, name, done(), line, a.failed-failed)
	return err
}

// args reformats expressions given on the command line.
func (a *app) args(ctx context.Context, exprs []string) {
	ctx, span := a.tel.Spans.StartSourceSpan(ctx, "args")
	for i, src := range exprs {
		a.reformat(ctx, "args", i+1, src)
	}
	a.tel.Spans.EndSpanWithError(span, nil)
}

// file reformats the expressions in a named file.
func (a *app) file(ctx context.Context, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return a.source(ctx, path, f)
}

// finish reports totals if telemetry is on and shuts it down.
func (a *app) finish(ctx context.Context, stats bool) {
	if stats {
		s, err := a.tel.Summary(ctx)
		if err != nil {
			a.logger.Error("collecting totals", slog.String("error", err.Error()))
		} else {
			a.logger.Info("totals", slog.Any("totals", s))
			fmt.Fprintf(a.errw, "%d inputs, %d invalid, %d changed\n", s.Inputs, s.Errors, s.Changed)
		}
	}
	if err := a.tel.Shutdown(ctx); err != nil {
		a.logger.Warn("telemetry shutdown failed", slog.String("error", err.Error()))
	}
}

// run is the whole command, separated from main for testing.
func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	var c cli
	parser, err := kong.New(&c,
		kong.Name("exprfmt"),
		kong.Description(description),
		kong.UsageOnError(),
		kong.Writers(stdout, stderr),
	)
	if err != nil {
		panic(err)
	}
	if _, err := parser.Parse(args); err != nil {
		fmt.Fprintf(stderr, "exprfmt: %v\n", err)
		return 2
	}
	s, err := c.settings()
	if err != nil {
		fmt.Fprintf(stderr, "exprfmt: %v\n", err)
		return 2
	}
	a, err := newApp(s, c.Echo, stdout, stderr)
	if err != nil {
		fmt.Fprintf(stderr, "exprfmt: %v\n", err)
		return 2
	}
	ctx := context.Background()
	defer a.finish(ctx, s.Telemetry)

	if c.Repl {
		ln := newLiner()
		defer ln.Close()
		a.repl(ctx, ln)
		return 0
	}
	if len(c.Exprs) > 0 {
		a.args(ctx, c.Exprs)
	}
	for _, path := range c.In {
		if err := a.file(ctx, path); err != nil {
			fmt.Fprintf(stderr, "exprfmt: %v\n", err)
			a.failed++
		}
	}
	if len(c.Exprs) == 0 && len(c.In) == 0 {
		if err := a.source(ctx, "stdin", stdin); err != nil {
			fmt.Fprintf(stderr, "exprfmt: %v\n", err)
			a.failed++
		}
	}
	return a.status()
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}
