package exprfmt

// Expr = Primary { BinOp Expr }
// Primary = number | name | name '(' [ Expr { ',' Expr } ] ')' | UnOp Expr | '(' Expr ')'
// BinOp = 'or' | 'and' | '==' | '!=' | '<' | '<=' | '>' | '>=' | '+' | '-' | '*' | '/' | '%' | '**'
// UnOp = 'not' | '-' | '+'
//
// Binary operators nest by precedence climbing. The operand of a prefix
// operator extends through every binary operator at least as binding as the
// prefix operator itself, so "not a == b" is "not (a == b)" but "-a * b" is
// "(-a) * b".

// Parse parses an expression. Invalid tokens give a *LexError; otherwise,
// invalid input gives a *ParseError.
func Parse(src string, opts ...ParseOption) (Node, error) {
	toks, err := Tokenize(src)
	if err != nil {
		return nil, err
	}
	return ParseTokens(toks, opts...)
}

// ParseTokens parses a token sequence as produced by Tokenize. The sequence
// must end with an End token and contain no others.
func ParseTokens(toks []Token, opts ...ParseOption) (Node, error) {
	var p parsectx
	for _, opt := range opts {
		p = opt.parseOption(p)
	}
	if len(toks) == 0 || toks[len(toks)-1].Kind != TokenEnd {
		panic("exprfmt: token sequence does not end with End")
	}
	ps := parser{toks: toks, ctx: p, limit: p.limit()}
	if ps.peek().Kind == TokenEnd {
		return nil, &ParseError{Col: ps.peek().Pos, Reason: ReasonEmpty}
	}
	n, err := ps.expr(lowest)
	if err != nil {
		return nil, err
	}
	switch tok := ps.peek(); tok.Kind {
	case TokenEnd:
	case TokenRightParen:
		return nil, &ParseError{Col: tok.Pos, Token: tok.Text, Reason: ReasonUnbalanced}
	default:
		return nil, &ParseError{Col: tok.Pos, Token: tok.Text, Reason: ReasonTrailing}
	}
	return n, nil
}

type parser struct {
	toks  []Token
	pos   int
	depth int
	limit int
	ctx   parsectx
}

// peek returns the next token without consuming it.
func (p *parser) peek() Token {
	return p.toks[p.pos]
}

// next consumes the next token. Once the End token is reached, next keeps
// returning it.
func (p *parser) next() Token {
	tok := p.toks[p.pos]
	if tok.Kind != TokenEnd {
		p.pos++
	}
	return tok
}

// enter records one level of nesting. The caller must call leave when enter
// succeeds.
func (p *parser) enter() error {
	if p.depth >= p.limit {
		tok := p.peek()
		return &ParseError{Col: tok.Pos, Token: tok.Text, Reason: ReasonDepth}
	}
	p.depth++
	return nil
}

func (p *parser) leave() {
	p.depth--
}

// expr parses an expression whose binary operators all have precedence at
// least min. It stops before the first token that can't continue it.
func (p *parser) expr(min int) (Node, error) {
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()
	n, err := p.primary()
	if err != nil {
		return nil, err
	}
	for {
		tok := p.peek()
		if tok.Kind != TokenOperator {
			return n, nil
		}
		op, ok := binops[tok.Text]
		if !ok || op.Prec < min {
			// A prefix-only operator like "not" here is trailing input, which
			// the caller reports.
			return n, nil
		}
		p.next()
		next := op.Prec + 1
		if op.Right {
			next = op.Prec
		}
		rhs, err := p.expr(next)
		if err != nil {
			return nil, err
		}
		n = &Binary{Op: op.Symbol, Left: n, Right: rhs}
	}
}

// primary parses a single operand: a literal, variable, call, prefix
// operation, or parenthesized expression.
func (p *parser) primary() (Node, error) {
	tok := p.next()
	switch tok.Kind {
	case TokenNumber:
		return &Literal{Text: tok.Text}, nil
	case TokenIdent:
		if p.peek().Kind == TokenLeftParen {
			return p.call(tok)
		}
		return &Variable{Name: tok.Text}, nil
	case TokenOperator:
		op, ok := unops[tok.Text]
		if !ok {
			return nil, &ParseError{Col: tok.Pos, Token: tok.Text, Reason: ReasonUnexpected}
		}
		x, err := p.expr(op.Prec)
		if err != nil {
			return nil, err
		}
		return &Unary{Op: op.Symbol, X: x}, nil
	case TokenLeftParen:
		n, err := p.expr(lowest)
		if err != nil {
			return nil, err
		}
		end := p.next()
		if end.Kind != TokenRightParen {
			return nil, &ParseError{Col: end.Pos, Token: end.Text, Reason: ReasonUnbalanced}
		}
		return n, nil
	case TokenRightParen, TokenComma, TokenEnd:
		return nil, &ParseError{Col: tok.Pos, Token: tok.Text, Reason: ReasonUnexpected}
	default:
		panic("exprfmt: unknown token: " + tok.String())
	}
}

// call parses the argument list of a call to the function named by name. The
// next token is the open paren.
func (p *parser) call(name Token) (Node, error) {
	open := p.next()
	n := &Call{Func: name.Text}
	if end := p.peek(); end.Kind == TokenRightParen {
		p.next()
		if p.ctx.noempty {
			return nil, &ParseError{Col: open.Pos, Token: open.Text, Reason: ReasonEmptyCall, Func: name.Text}
		}
		return n, nil
	}
	for {
		arg, err := p.expr(lowest)
		if err != nil {
			return nil, err
		}
		n.Args = append(n.Args, arg)
		switch end := p.next(); end.Kind {
		case TokenComma:
			continue
		case TokenRightParen:
			return n, nil
		default:
			return nil, &ParseError{Col: end.Pos, Token: end.Text, Reason: ReasonArgList, Func: name.Text}
		}
	}
}
