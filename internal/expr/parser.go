package expr

import (
	"fmt"
	"strconv"
	"strings"
)

// maxDepth bounds recursion on hostile input like "((((((...".
const maxDepth = 256

type parser struct {
	toks  []token
	pos   int
	depth int
}

// Parse turns text into a syntax tree without compiling it.
func Parse(text string) (Node, error) {
	if strings.TrimSpace(text) == "" {
		return nil, &SyntaxError{Pos: 0, Msg: "empty expression"}
	}
	toks, err := newLexer(text).tokenize()
	if err != nil {
		return nil, err
	}

	p := &parser{toks: toks}
	n, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if tok := p.peek(); tok.kind != tokEOF {
		if tok.kind == tokRParen {
			return nil, &SyntaxError{Pos: tok.pos, Msg: "unbalanced ')'"}
		}
		return nil, &SyntaxError{Pos: tok.pos, Msg: fmt.Sprintf("unexpected %s", describe(tok))}
	}
	return n, nil
}

func (p *parser) peek() token {
	return p.toks[p.pos]
}

func (p *parser) advance() token {
	tok := p.toks[p.pos]
	if tok.kind != tokEOF {
		p.pos++
	}
	return tok
}

func (p *parser) expect(kind tokenKind, open token) error {
	tok := p.peek()
	if tok.kind == kind {
		p.advance()
		return nil
	}
	if tok.kind == tokEOF {
		return &SyntaxError{Pos: open.pos, Msg: fmt.Sprintf("unbalanced %s", open.kind)}
	}
	return &SyntaxError{Pos: tok.pos, Msg: fmt.Sprintf("expected %s, found %s", kind, describe(tok))}
}

func (p *parser) enter() error {
	p.depth++
	if p.depth > maxDepth {
		return &SyntaxError{Pos: p.peek().pos, Msg: "expression nested too deeply"}
	}
	return nil
}

func (p *parser) leave() { p.depth-- }

func (p *parser) parseExpr() (Node, error) {
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()

	left, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	for {
		tok := p.peek()
		if tok.kind != tokPlus && tok.kind != tokMinus {
			return left, nil
		}
		p.advance()
		right, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		left = &BinaryOp{Op: tok.text[0], Left: left, Right: right}
	}
}

func (p *parser) parseTerm() (Node, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	coeff := numberLed(left)
	for {
		tok := p.peek()
		switch tok.kind {
		case tokStar, tokSlash:
			p.advance()
			right, err := p.parseUnary()
			if err != nil {
				return nil, err
			}
			left = &BinaryOp{Op: tok.text[0], Left: left, Right: right}
			coeff = numberLed(right)
		case tokIdent, tokLParen:
			// A coefficient stays one across a chain: 2x(x+1).
			if !coeff {
				return nil, &SyntaxError{Pos: tok.pos, Msg: fmt.Sprintf("unexpected %s", describe(tok))}
			}
			right, err := p.parsePower()
			if err != nil {
				return nil, err
			}
			left = &BinaryOp{Op: '*', Left: left, Right: right}
		default:
			return left, nil
		}
	}
}

// numberLed reports whether the factor n may be the coefficient of an
// implicit product: a numeric literal, possibly signed (2x, -2x).
func numberLed(n Node) bool {
	switch v := n.(type) {
	case Literal:
		return v.Name == ""
	case *UnaryOp:
		return numberLed(v.Operand)
	}
	return false
}

func (p *parser) parseUnary() (Node, error) {
	tok := p.peek()
	if tok.kind == tokPlus || tok.kind == tokMinus {
		if err := p.enter(); err != nil {
			return nil, err
		}
		defer p.leave()

		p.advance()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &UnaryOp{Op: tok.text[0], Operand: operand}, nil
	}
	return p.parsePower()
}

func (p *parser) parsePower() (Node, error) {
	base, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	if p.peek().kind != tokCaret {
		return base, nil
	}
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()

	p.advance()
	exp, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	return &BinaryOp{Op: '^', Left: base, Right: exp}, nil
}

func (p *parser) parsePrimary() (Node, error) {
	tok := p.advance()
	switch tok.kind {
	case tokNumber:
		return Literal{Value: tok.num}, nil

	case tokIdent:
		if tok.text == "x" {
			return Variable{}, nil
		}
		if v, ok := constants[tok.text]; ok {
			return Literal{Value: v, Name: tok.text}, nil
		}
		fn, ok := funcByName[tok.text]
		if !ok {
			return nil, &SyntaxError{Pos: tok.pos, Msg: "unknown identifier " + strconv.Quote(tok.text)}
		}
		open := p.peek()
		if open.kind != tokLParen {
			return nil, &SyntaxError{Pos: open.pos, Msg: fmt.Sprintf("expected '(' after %s", tok.text)}
		}
		p.advance()
		arg, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if err := p.expect(tokRParen, open); err != nil {
			return nil, err
		}
		return &Call{Func: fn, Arg: arg}, nil

	case tokLParen:
		inner, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if err := p.expect(tokRParen, tok); err != nil {
			return nil, err
		}
		return inner, nil

	case tokPipe:
		inner, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if err := p.expect(tokPipe, tok); err != nil {
			return nil, err
		}
		return &Call{Func: FuncAbs, Arg: inner}, nil

	case tokEOF:
		return nil, &SyntaxError{Pos: tok.pos, Msg: "unexpected end of input"}

	case tokRParen:
		return nil, &SyntaxError{Pos: tok.pos, Msg: "unbalanced ')'"}
	}
	return nil, &SyntaxError{Pos: tok.pos, Msg: fmt.Sprintf("unexpected %s", describe(tok))}
}

func describe(tok token) string {
	switch tok.kind {
	case tokNumber, tokIdent:
		return fmt.Sprintf("%s %q", tok.kind, tok.text)
	}
	return tok.kind.String()
}
