package exprfmt

import (
	"strings"
)

// FormatOption is an option for formatting.
type FormatOption interface {
	Option
	formatOption(fmtctx) fmtctx
}

type (
	explicitopt struct{}
	compactopt  struct{}
)

// fmtctx holds the formatting conventions in effect.
type fmtctx struct {
	// explicit brackets operands whose operator differs from the parent's.
	explicit bool
	// compact omits spaces around symbolic binary operators.
	compact bool
}

// Explicit brackets every compound operand that a reader might otherwise need
// the precedence table to group: operands with a different precedence than
// their parent operator, chains of right-associative operators, prefix
// operations inside binary ones, and compound operands of prefix operators.
// For example, "a+b*c" formats as "a + (b * c)", "a**b**c" as
// "a ** (b ** c)", and "-abs(a-b)" as "-(abs(a - b))". Chains of one
// left-associative precedence level stay flat: "a + b - c".
func Explicit() FormatOption {
	return explicitopt{}
}

func (explicitopt) isOption() {}

func (explicitopt) formatOption(f fmtctx) fmtctx {
	f.explicit = true
	return f
}

// Compact omits the spaces around symbolic binary operators, e.g. "a+b*c"
// instead of "a + b * c". Keyword operators are always spaced.
func Compact() FormatOption {
	return compactopt{}
}

func (compactopt) isOption() {}

func (compactopt) formatOption(f fmtctx) fmtctx {
	f.compact = true
	return f
}

// Format renders an expression tree as text. With no options, the result has
// the fewest parentheses that parse back to the same tree. Format panics if
// the tree contains an operator that isn't in the operator tables.
func Format(n Node, opts ...FormatOption) string {
	var f fmtctx
	for _, opt := range opts {
		f = opt.formatOption(f)
	}
	var b strings.Builder
	f.expr(&b, n, lowest, lowest)
	return b.String()
}

// Reformat parses src and formats the result. Parse options and format
// options may be given together.
func Reformat(src string, opts ...Option) (string, error) {
	var (
		popts []ParseOption
		fopts []FormatOption
	)
	for _, opt := range opts {
		if o, ok := opt.(ParseOption); ok {
			popts = append(popts, o)
		}
		if o, ok := opt.(FormatOption); ok {
			fopts = append(fopts, o)
		}
	}
	n, err := Parse(src, popts...)
	if err != nil {
		return "", err
	}
	return Format(n, fopts...), nil
}

// expr writes n. min is the precedence below which n must be bracketed to stay
// attached to its parent. follow is the precedence of the binary operator
// written immediately after n, or lowest if none follows before the enclosing
// bracket or the end of the text; a prefix operation must be bracketed if
// follow would otherwise extend its operand.
func (f fmtctx) expr(b *strings.Builder, n Node, min, follow int) {
	switch n := n.(type) {
	case *Literal:
		b.WriteString(n.Text)
	case *Variable:
		b.WriteString(n.Name)
	case *Call:
		b.WriteString(n.Func)
		b.WriteByte('(')
		for i, arg := range n.Args {
			if i > 0 {
				b.WriteString(", ")
			}
			f.expr(b, arg, lowest, lowest)
		}
		b.WriteByte(')')
	case *Unary:
		op := mustUnop(n.Op)
		wrap := follow >= op.Prec
		if wrap {
			b.WriteByte('(')
			follow = lowest
		}
		b.WriteString(op.Symbol)
		if keywords[op.Symbol] {
			b.WriteByte(' ')
		}
		f.operand(b, n.X, op.Prec, follow, f.explicit && !leaf(n.X))
		if wrap {
			b.WriteByte(')')
		}
	case *Binary:
		op := mustBinop(n.Op)
		wrap := op.Prec < min
		if wrap {
			b.WriteByte('(')
			follow = lowest
		}
		lmin, rmin := op.Prec, op.Prec+1
		if op.Right {
			lmin, rmin = op.Prec+1, op.Prec
		}
		f.operand(b, n.Left, lmin, op.Prec, f.explicitBinary(op, n.Left))
		if f.compact && !keywords[op.Symbol] {
			b.WriteString(op.Symbol)
		} else {
			b.WriteByte(' ')
			b.WriteString(op.Symbol)
			b.WriteByte(' ')
		}
		f.operand(b, n.Right, rmin, follow, f.explicitBinary(op, n.Right))
		if wrap {
			b.WriteByte(')')
		}
	default:
		panic("exprfmt: invalid node " + dump(n))
	}
}

// operand writes an operand of an operator, bracketing it unconditionally if
// force is set.
func (f fmtctx) operand(b *strings.Builder, n Node, min, follow int, force bool) {
	if !force {
		f.expr(b, n, min, follow)
		return
	}
	b.WriteByte('(')
	f.expr(b, n, lowest, lowest)
	b.WriteByte(')')
}

// explicitBinary decides whether the Explicit convention brackets an operand
// of a binary operator.
func (f fmtctx) explicitBinary(parent Operator, n Node) bool {
	if !f.explicit {
		return false
	}
	switch n := n.(type) {
	case *Unary:
		return true
	case *Binary:
		op := mustBinop(n.Op)
		return op.Prec != parent.Prec || op.Right
	default:
		return false
	}
}

// leaf reports whether n is a literal or variable.
func leaf(n Node) bool {
	switch n.(type) {
	case *Literal, *Variable:
		return true
	default:
		return false
	}
}
