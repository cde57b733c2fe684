package exprfmt

import "strconv"

// Option is an option for Reformat. Every ParseOption and FormatOption is an
// Option.
type Option interface {
	isOption()
}

// ParseOption is an option for parsing.
type ParseOption interface {
	Option
	parseOption(parsectx) parsectx
}

// DefaultMaxDepth is the default limit on how deeply expressions may nest.
const DefaultMaxDepth = 256

type (
	depthopt     int
	emptycallopt bool
)

// parsectx holds general data for parsing.
type parsectx struct {
	// maxdepth is the nesting limit. Zero means DefaultMaxDepth.
	maxdepth int
	// noempty disallows calls with no arguments.
	noempty bool
}

func (p parsectx) limit() int {
	if p.maxdepth <= 0 {
		return DefaultMaxDepth
	}
	return p.maxdepth
}

// MaxDepth limits how deeply the parser recurses. Every parenthesized
// subexpression, function argument, operand of a prefix operator, and
// right-hand side of a binary operator is one level. Panics if n is not
// positive.
func MaxDepth(n int) ParseOption {
	if n <= 0 {
		panic("exprfmt: invalid max depth " + strconv.Itoa(n))
	}
	return depthopt(n)
}

func (depthopt) isOption() {}

func (o depthopt) parseOption(p parsectx) parsectx {
	p.maxdepth = int(o)
	return p
}

// NoEmptyCalls makes the parser reject function calls with no arguments, like
// f().
func NoEmptyCalls() ParseOption {
	return emptycallopt(true)
}

func (emptycallopt) isOption() {}

func (o emptycallopt) parseOption(p parsectx) parsectx {
	p.noempty = bool(o)
	return p
}
