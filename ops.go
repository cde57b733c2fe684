package exprfmt

import "strconv"

// Operator describes how tightly an operator symbol binds.
type Operator struct {
	// Symbol is the operator as written in source.
	Symbol string
	// Prec is the precedence value. Higher is more binding.
	Prec int
	// Right indicates right-associativity. All prefix operators are
	// right-associative.
	Right bool
}

// Arity is a set of ways an operator symbol can be used.
type Arity uint8

const (
	// Infix marks a symbol usable as a binary operator.
	Infix Arity = 1 << iota
	// Prefix marks a symbol usable as a unary operator.
	Prefix
)

const (
	// lowest is the precedence threshold for a whole expression. It is lower
	// than every operator's precedence.
	lowest = 0
	// atomic is the precedence of nodes that never need brackets.
	atomic = 100
)

var binops = map[string]Operator{
	"or":  {"or", 1, false},
	"and": {"and", 2, false},
	"==":  {"==", 4, false},
	"!=":  {"!=", 4, false},
	"<":   {"<", 4, false},
	"<=":  {"<=", 4, false},
	">":   {">", 4, false},
	">=":  {">=", 4, false},
	"+":   {"+", 5, false},
	"-":   {"-", 5, false},
	"*":   {"*", 6, false},
	"/":   {"/", 6, false},
	"%":   {"%", 6, false},
	"**":  {"**", 8, true},
}

var unops = map[string]Operator{
	"not": {"not", 3, true},
	"-":   {"-", 7, true},
	"+":   {"+", 7, true},
}

// keywords are the operators spelled like identifiers.
var keywords = map[string]bool{
	"and": true,
	"or":  true,
	"not": true,
}

// BinaryOperator gets the binary operator for a symbol.
func BinaryOperator(sym string) (Operator, bool) {
	op, ok := binops[sym]
	return op, ok
}

// UnaryOperator gets the prefix operator for a symbol.
func UnaryOperator(sym string) (Operator, bool) {
	op, ok := unops[sym]
	return op, ok
}

// OperatorArity returns the ways sym can be used. The result is zero if sym is
// not an operator.
func OperatorArity(sym string) Arity {
	var a Arity
	if _, ok := binops[sym]; ok {
		a |= Infix
	}
	if _, ok := unops[sym]; ok {
		a |= Prefix
	}
	return a
}

// mustBinop is BinaryOperator for trees that are supposed to be valid.
func mustBinop(sym string) Operator {
	op, ok := binops[sym]
	if !ok {
		panic("exprfmt: unknown binary operator " + strconv.Quote(sym))
	}
	return op
}

// mustUnop is UnaryOperator for trees that are supposed to be valid.
func mustUnop(sym string) Operator {
	op, ok := unops[sym]
	if !ok {
		panic("exprfmt: unknown unary operator " + strconv.Quote(sym))
	}
	return op
}
