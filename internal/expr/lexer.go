package expr

import (
	"strconv"
	"strings"
	"unicode"
)

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokNumber
	tokIdent
	tokPlus
	tokMinus
	tokStar
	tokSlash
	tokCaret
	tokLParen
	tokRParen
	tokPipe
)

func (k tokenKind) String() string {
	switch k {
	case tokEOF:
		return "end of input"
	case tokNumber:
		return "number"
	case tokIdent:
		return "identifier"
	case tokPlus:
		return "'+'"
	case tokMinus:
		return "'-'"
	case tokStar:
		return "'*'"
	case tokSlash:
		return "'/'"
	case tokCaret:
		return "'^'"
	case tokLParen:
		return "'('"
	case tokRParen:
		return "')'"
	case tokPipe:
		return "'|'"
	}
	return "unknown token"
}

type token struct {
	kind tokenKind
	pos  int
	text string
	num  float64
}

type lexer struct {
	input string
	pos   int
}

func newLexer(input string) *lexer {
	return &lexer{input: input}
}

func (l *lexer) skipWhitespace() {
	for l.pos < len(l.input) && unicode.IsSpace(rune(l.input[l.pos])) {
		l.pos++
	}
}

// tokenize scans the whole input up front; expressions are short.
func (l *lexer) tokenize() ([]token, error) {
	var toks []token
	for {
		tok, err := l.next()
		if err != nil {
			return nil, err
		}
		toks = append(toks, tok)
		if tok.kind == tokEOF {
			return toks, nil
		}
	}
}

func (l *lexer) next() (token, error) {
	l.skipWhitespace()
	if l.pos >= len(l.input) {
		return token{kind: tokEOF, pos: l.pos}, nil
	}

	start := l.pos
	c := l.input[l.pos]

	switch c {
	case '+':
		l.pos++
		return token{kind: tokPlus, pos: start, text: "+"}, nil
	case '-':
		l.pos++
		return token{kind: tokMinus, pos: start, text: "-"}, nil
	case '*':
		l.pos++
		if l.pos < len(l.input) && l.input[l.pos] == '*' {
			l.pos++
			return token{kind: tokCaret, pos: start, text: "**"}, nil
		}
		return token{kind: tokStar, pos: start, text: "*"}, nil
	case '/':
		l.pos++
		return token{kind: tokSlash, pos: start, text: "/"}, nil
	case '^':
		l.pos++
		return token{kind: tokCaret, pos: start, text: "^"}, nil
	case '(':
		l.pos++
		return token{kind: tokLParen, pos: start, text: "("}, nil
	case ')':
		l.pos++
		return token{kind: tokRParen, pos: start, text: ")"}, nil
	case '|':
		l.pos++
		return token{kind: tokPipe, pos: start, text: "|"}, nil
	}

	if isDigit(c) || c == '.' {
		return l.number()
	}
	if isLetter(c) {
		for l.pos < len(l.input) && (isLetter(l.input[l.pos]) || isDigit(l.input[l.pos])) {
			l.pos++
		}
		text := strings.ToLower(l.input[start:l.pos])
		return token{kind: tokIdent, pos: start, text: text}, nil
	}

	return token{}, &SyntaxError{Pos: start, Msg: "unexpected character " + strconv.QuoteRune(rune(c))}
}

func (l *lexer) number() (token, error) {
	start := l.pos
	digits := 0
	for l.pos < len(l.input) && isDigit(l.input[l.pos]) {
		l.pos++
		digits++
	}
	if l.pos < len(l.input) && l.input[l.pos] == '.' {
		l.pos++
		for l.pos < len(l.input) && isDigit(l.input[l.pos]) {
			l.pos++
			digits++
		}
	}
	if digits == 0 {
		return token{}, &SyntaxError{Pos: start, Msg: "malformed number"}
	}

	// An exponent only counts when digits follow; otherwise "2e" is 2*e.
	if l.pos < len(l.input) && (l.input[l.pos] == 'e' || l.input[l.pos] == 'E') {
		j := l.pos + 1
		if j < len(l.input) && (l.input[j] == '+' || l.input[j] == '-') {
			j++
		}
		if j < len(l.input) && isDigit(l.input[j]) {
			for j < len(l.input) && isDigit(l.input[j]) {
				j++
			}
			l.pos = j
		}
	}

	text := l.input[start:l.pos]
	v, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return token{}, &SyntaxError{Pos: start, Msg: "malformed number " + strconv.Quote(text)}
	}
	return token{kind: tokNumber, pos: start, text: text, num: v}, nil
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c == '_'
}
