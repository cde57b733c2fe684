package exprfmt

import "strconv"

// Reason is the kind of problem a ParseError describes.
type Reason int8

const (
	// ReasonUnexpected is a token that cannot start or continue an
	// expression where it appears, including a premature end of input.
	ReasonUnexpected Reason = iota + 1
	// ReasonUnbalanced is an open paren with no close paren or vice versa.
	ReasonUnbalanced
	// ReasonArgList is a function argument followed by something other than
	// a comma or a close paren.
	ReasonArgList
	// ReasonEmpty is an input with no expression at all.
	ReasonEmpty
	// ReasonTrailing is input left over after a complete expression.
	ReasonTrailing
	// ReasonEmptyCall is an empty argument list when those are disallowed.
	ReasonEmptyCall
	// ReasonDepth is an expression nested deeper than the parser allows.
	ReasonDepth
)

func (r Reason) String() string {
	switch r {
	case ReasonUnexpected:
		return "unexpected token"
	case ReasonUnbalanced:
		return "unbalanced parentheses"
	case ReasonArgList:
		return "malformed argument list"
	case ReasonEmpty:
		return "empty expression"
	case ReasonTrailing:
		return "unexpected trailing input"
	case ReasonEmptyCall:
		return "empty argument list"
	case ReasonDepth:
		return "expression nested too deeply"
	default:
		return "Reason(" + strconv.Itoa(int(r)) + ")"
	}
}

// ParseError is an error indicating input that is made of valid tokens but is
// not a valid expression. It implements InputError.
type ParseError struct {
	// Col is the position of the offending token.
	Col int
	// Token is the offending token. It is empty if the problem was reaching
	// the end of the input.
	Token string
	// Reason is the kind of problem.
	Reason Reason
	// Func is the function whose argument list is malformed, if any.
	Func string
}

func (err *ParseError) Error() string {
	found := "end of input"
	if err.Token != "" {
		found = strconv.Quote(err.Token)
	}
	switch err.Reason {
	case ReasonUnexpected:
		if err.Token == "" {
			return errpos(err.Col, "unexpected end of input")
		}
		return errpos(err.Col, "unexpected token "+found)
	case ReasonUnbalanced:
		if err.Token == ")" {
			return errpos(err.Col, "unbalanced parentheses: close paren with no open paren")
		}
		return errpos(err.Col, "unbalanced parentheses: expected close paren, found "+found)
	case ReasonArgList:
		return errpos(err.Col, "expected , or ) in arguments to "+err.Func+", found "+found)
	case ReasonEmptyCall:
		return errpos(err.Col, "empty argument list in call to "+err.Func)
	case ReasonTrailing:
		return errpos(err.Col, "unexpected trailing input "+found)
	default:
		return errpos(err.Col, err.Reason.String())
	}
}

func (err *ParseError) Pos() int {
	return err.Col
}

// Incomplete reports whether the error was caused by the input ending early,
// e.g. after an operator or before a close paren. More input could fix such
// an error.
func (err *ParseError) Incomplete() bool {
	if err.Token != "" {
		return false
	}
	switch err.Reason {
	case ReasonUnexpected, ReasonUnbalanced, ReasonArgList:
		return true
	default:
		return false
	}
}

// errpos is a shortcut to create an error message with a position.
func errpos(pos int, msg string) string {
	return strconv.Itoa(pos) + ": " + msg
}

// InputError is an error with position information. Every error resulting from
// invalid input implements InputError.
type InputError interface {
	error
	// Pos returns the position of the error as the number of runes up to and
	// including the start of the token that caused the error.
	Pos() int
}

var (
	_ InputError = (*ParseError)(nil)
	_ InputError = (*LexError)(nil)
)
