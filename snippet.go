package exprfmt

import (
	"errors"
	"strconv"
	"strings"
)

// Snippet renders an error together with the line of src it refers to and a
// caret under the offending column:
//
//	7: unbalanced parentheses: expected close paren, found end of input
//	   1 | a + (b
//	     |       ^
//
// If err does not wrap an InputError, the result is just err.Error(). Positions
// past the end of src are clamped to it.
func Snippet(err error, src string) string {
	var ie InputError
	if !errors.As(err, &ie) {
		return err.Error()
	}
	lines := strings.Split(src, "\n")
	line, col := 1, ie.Pos()
	if col < 1 {
		col = 1
	}
	// Pos counts runes across the whole input, newlines included.
	for line < len(lines) {
		n := len([]rune(lines[line-1])) + 1
		if col <= n {
			break
		}
		col -= n
		line++
	}
	text := lines[line-1]
	if n := len([]rune(text)) + 1; col > n {
		col = n
	}

	var b strings.Builder
	b.WriteString(err.Error())
	b.WriteByte('\n')
	b.WriteString(gutter(strconv.Itoa(line)))
	b.WriteString(text)
	b.WriteByte('\n')
	b.WriteString(gutter(""))
	// Reuse tabs from the source so the caret lines up under them.
	for _, r := range []rune(text)[:col-1] {
		if r == '\t' {
			b.WriteByte('\t')
		} else {
			b.WriteByte(' ')
		}
	}
	b.WriteByte('^')
	return b.String()
}

// gutter pads a line number into the margin of a snippet.
func gutter(num string) string {
	const width = 4
	if len(num) < width {
		num = strings.Repeat(" ", width-len(num)) + num
	}
	return num + " | "
}
