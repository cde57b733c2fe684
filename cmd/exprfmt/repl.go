package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"

	"github.com/zephyrtronium/exprfmt"
)

const (
	promptMain  = "> "
	promptCont  = ". "
	historyFile = ".exprfmt_history"
)

// prompter reads lines interactively. *liner.State implements it.
type prompter interface {
	Prompt(prompt string) (string, error)
	AppendHistory(item string)
}

// historyLiner is a liner whose history persists in the user's home directory.
type historyLiner struct {
	*liner.State
	path string
}

func newLiner() *historyLiner {
	ln := liner.NewLiner()
	ln.SetCtrlCAborts(true)
	h := historyLiner{State: ln}
	if home, err := os.UserHomeDir(); err == nil {
		h.path = filepath.Join(home, historyFile)
		if f, err := os.Open(h.path); err == nil {
			ln.ReadHistory(f)
			f.Close()
		}
	}
	return &h
}

// Close saves history and restores the terminal.
func (h *historyLiner) Close() error {
	if h.path != "" {
		if f, err := os.Create(h.path); err == nil {
			h.WriteHistory(f)
			f.Close()
		}
	}
	return h.State.Close()
}

// repl reformats expressions read from p until end of input or :quit.
func (a *app) repl(ctx context.Context, p prompter) {
	ctx, span := a.tel.Spans.StartSourceSpan(ctx, "repl")
	defer a.tel.Spans.EndSpanWithError(span, nil)
	fmt.Fprintln(a.out, "exprfmt: enter expressions to reformat, :quit to exit")
	line := 0
	for {
		src, ok := a.read(p)
		if !ok {
			fmt.Fprintln(a.out)
			return
		}
		text := strings.TrimSpace(src)
		switch text {
		case "":
			continue
		case ":q", ":quit":
			return
		}
		line++
		a.reformat(ctx, "repl", line, src)
		p.AppendHistory(strings.ReplaceAll(text, "\n", " "))
	}
}

// read reads one expression, prompting for more lines while the input so far
// is an incomplete expression. ok is false at end of input.
func (a *app) read(p prompter) (src string, ok bool) {
	var b strings.Builder
	for {
		prompt := promptMain
		if b.Len() > 0 {
			prompt = promptCont
		}
		line, err := p.Prompt(prompt)
		switch {
		case errors.Is(err, io.EOF):
			if b.Len() > 0 {
				// Let the parse error for the partial input show.
				return b.String(), true
			}
			return "", false
		case errors.Is(err, liner.ErrPromptAborted):
			return "", true
		case err != nil:
			return "", false
		}

		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)

		_, perr := exprfmt.Parse(b.String(), a.popts...)
		var pe *exprfmt.ParseError
		if errors.As(perr, &pe) && pe.Incomplete() {
			continue
		}
		return b.String(), true
	}
}
