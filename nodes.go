package exprfmt

import (
	"fmt"
	"slices"
)

// Node is a node in the syntax tree of an expression. The implementations are
// exactly *Literal, *Variable, *Unary, *Binary, and *Call.
type Node interface {
	// Precedence returns how tightly the node holds together: the precedence
	// of its operator, or a value above every operator for leaves and calls.
	Precedence() int
	// String formats the node with minimal parentheses.
	String() string

	node()
}

// Literal is a number.
type Literal struct {
	// Text is the numeral as written, e.g. "2", "2.5", or ".5".
	Text string
}

// Variable is a name that is not followed by an argument list.
type Variable struct {
	Name string
}

// Unary is a prefix operator applied to an operand.
type Unary struct {
	Op string
	X  Node
}

// Binary is an infix operator applied to two operands.
type Binary struct {
	Op    string
	Left  Node
	Right Node
}

// Call is a function call with any number of arguments.
type Call struct {
	Func string
	Args []Node
}

func (*Literal) node()  {}
func (*Variable) node() {}
func (*Unary) node()    {}
func (*Binary) node()   {}
func (*Call) node()     {}

func (*Literal) Precedence() int  { return atomic }
func (*Variable) Precedence() int { return atomic }
func (*Call) Precedence() int     { return atomic }
func (n *Unary) Precedence() int  { return mustUnop(n.Op).Prec }
func (n *Binary) Precedence() int { return mustBinop(n.Op).Prec }

func (n *Literal) String() string  { return Format(n) }
func (n *Variable) String() string { return Format(n) }
func (n *Unary) String() string    { return Format(n) }
func (n *Binary) String() string   { return Format(n) }
func (n *Call) String() string     { return Format(n) }

// Equal reports whether two trees have the same shape, operators, names, and
// numeral text. Nil nodes are equal only to nil.
func Equal(a, b Node) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	switch a := a.(type) {
	case *Literal:
		b, ok := b.(*Literal)
		return ok && a.Text == b.Text
	case *Variable:
		b, ok := b.(*Variable)
		return ok && a.Name == b.Name
	case *Unary:
		b, ok := b.(*Unary)
		return ok && a.Op == b.Op && Equal(a.X, b.X)
	case *Binary:
		b, ok := b.(*Binary)
		return ok && a.Op == b.Op && Equal(a.Left, b.Left) && Equal(a.Right, b.Right)
	case *Call:
		b, ok := b.(*Call)
		if !ok || a.Func != b.Func || len(a.Args) != len(b.Args) {
			return false
		}
		for i := range a.Args {
			if !Equal(a.Args[i], b.Args[i]) {
				return false
			}
		}
		return true
	default:
		panic("exprfmt: invalid node " + dump(a))
	}
}

// Vars returns the sorted names of the variables in a tree. Function names
// are not variables.
func Vars(n Node) []string {
	var names []string
	walk(n, func(n Node) {
		if v, ok := n.(*Variable); ok {
			names = append(names, v.Name)
		}
	})
	slices.Sort(names)
	return slices.Compact(names)
}

// walk calls f on n and each of its descendants in prefix order.
func walk(n Node, f func(Node)) {
	f(n)
	switch n := n.(type) {
	case *Literal, *Variable:
	case *Unary:
		walk(n.X, f)
	case *Binary:
		walk(n.Left, f)
		walk(n.Right, f)
	case *Call:
		for _, arg := range n.Args {
			walk(arg, f)
		}
	default:
		panic("exprfmt: invalid node " + dump(n))
	}
}

// dump describes a node that the other functions here don't understand.
func dump(n Node) string {
	return fmt.Sprintf("%T", n)
}
