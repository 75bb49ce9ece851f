package parser

import (
	"fmt"

	"github.com/leapstack-labs/leaplint/pkg/dialect"
	"github.com/leapstack-labs/leaplint/pkg/token"
)

// Lexer tokenizes SQL input without dropping anything: whitespace, newlines
// and comments come out as tokens, so the concatenated literals always
// equal the input.
type Lexer struct {
	input   string
	start   int // offset of the token being scanned
	pos     int // current offset
	loc     token.Position
	dialect *dialect.Dialect
}

// NewLexer creates a new Lexer for the given input.
func NewLexer(input string, d *dialect.Dialect) *Lexer {
	return &Lexer{
		input:   input,
		loc:     token.Position{Line: 1, Column: 1},
		dialect: d,
	}
}

// Tokenize scans the whole input. The final token is always EOF.
func (l *Lexer) Tokenize() ([]token.Token, error) {
	var toks []token.Token
	for {
		tok, err := l.NextToken()
		if err != nil {
			return nil, err
		}
		toks = append(toks, tok)
		if tok.Type == token.EOF {
			return toks, nil
		}
	}
}

func (l *Lexer) ch() byte {
	if l.pos >= len(l.input) {
		return 0
	}
	return l.input[l.pos]
}

func (l *Lexer) peekChar() byte {
	if l.pos+1 >= len(l.input) {
		return 0
	}
	return l.input[l.pos+1]
}

// emit builds a token from input[start:pos] and moves the location past it.
func (l *Lexer) emit(t token.TokenType) token.Token {
	lit := l.input[l.start:l.pos]
	tok := token.Token{Type: t, Literal: lit, Pos: l.loc}
	l.loc = l.loc.Advance(lit)
	return tok
}

func (l *Lexer) errorf(format string, args ...any) error {
	return &ParseError{Pos: l.loc, Message: fmt.Sprintf(format, args...)}
}

// NextToken returns the next token.
func (l *Lexer) NextToken() (token.Token, error) {
	l.start = l.pos
	c := l.ch()

	switch {
	case l.pos >= len(l.input):
		return l.emit(token.EOF), nil
	case c == ' ' || c == '\t' || c == '\f' || (c == '\r' && l.peekChar() != '\n'):
		for c := l.ch(); c == ' ' || c == '\t' || c == '\f' || (c == '\r' && l.peekChar() != '\n'); c = l.ch() {
			l.pos++
		}
		return l.emit(token.WHITESPACE), nil
	case c == '\n':
		l.pos++
		return l.emit(token.NEWLINE), nil
	case c == '\r':
		l.pos += 2
		return l.emit(token.NEWLINE), nil
	case c == '-' && l.peekChar() == '-':
		for l.pos < len(l.input) && l.ch() != '\n' && !(l.ch() == '\r' && l.peekChar() == '\n') {
			l.pos++
		}
		tok := l.emit(token.COMMENT)
		tok.Comment = token.LineComment
		return tok, nil
	case c == '/' && l.peekChar() == '*':
		return l.readBlockComment()
	case c == '\'':
		return l.readString()
	case isDigit(c) || (c == '.' && isDigit(l.peekChar())):
		return l.readNumber(), nil
	case isIdentStart(c):
		return l.readWord(), nil
	}

	if end, ok := l.dialect.IsIdentifierQuote(c); ok {
		return l.readQuotedIdent(end)
	}
	return l.readOperator()
}

func (l *Lexer) readBlockComment() (token.Token, error) {
	l.pos += 2
	for {
		if l.pos >= len(l.input) {
			return token.Token{}, l.errorf(errUnterminatedBlock)
		}
		if l.ch() == '*' && l.peekChar() == '/' {
			l.pos += 2
			break
		}
		l.pos++
	}
	tok := l.emit(token.COMMENT)
	tok.Comment = token.BlockComment
	return tok, nil
}

func (l *Lexer) readString() (token.Token, error) {
	l.pos++
	for {
		if l.pos >= len(l.input) {
			return token.Token{}, l.errorf(errUnterminatedString)
		}
		if l.ch() == '\'' {
			if l.peekChar() == '\'' {
				l.pos += 2
				continue
			}
			l.pos++
			return l.emit(token.STRING), nil
		}
		l.pos++
	}
}

func (l *Lexer) readQuotedIdent(end byte) (token.Token, error) {
	l.pos++
	for {
		if l.pos >= len(l.input) {
			return token.Token{}, l.errorf(errUnterminatedQuote)
		}
		if l.ch() == end {
			if l.peekChar() == end && end != ']' {
				l.pos += 2
				continue
			}
			l.pos++
			return l.emit(token.QUOTED_IDENT), nil
		}
		l.pos++
	}
}

func (l *Lexer) readNumber() token.Token {
	for isDigit(l.ch()) {
		l.pos++
	}
	if l.ch() == '.' && isDigit(l.peekChar()) {
		l.pos++
		for isDigit(l.ch()) {
			l.pos++
		}
	}
	if c := l.ch(); c == 'e' || c == 'E' {
		next := l.peekChar()
		if isDigit(next) || ((next == '+' || next == '-') && l.pos+2 < len(l.input) && isDigit(l.input[l.pos+2])) {
			l.pos += 2
			for isDigit(l.ch()) {
				l.pos++
			}
		}
	}
	return l.emit(token.NUMBER)
}

func (l *Lexer) readWord() token.Token {
	for isIdentPart(l.ch()) {
		l.pos++
	}
	word := l.input[l.start:l.pos]
	if t, ok := l.dialect.LookupKeyword(word); ok {
		return l.emit(t)
	}
	return l.emit(token.IDENT)
}

func (l *Lexer) readOperator() (token.Token, error) {
	c, next := l.ch(), l.peekChar()
	two := func(t token.TokenType) (token.Token, error) {
		l.pos += 2
		return l.emit(t), nil
	}
	one := func(t token.TokenType) (token.Token, error) {
		l.pos++
		return l.emit(t), nil
	}

	switch c {
	case '<':
		switch next {
		case '=':
			return two(token.LE)
		case '>':
			return two(token.NE)
		}
		return one(token.LT)
	case '>':
		if next == '=' {
			return two(token.GE)
		}
		return one(token.GT)
	case '!':
		if next == '=' {
			return two(token.NE)
		}
	case '|':
		if next == '|' {
			return two(token.DPIPE)
		}
	case ':':
		if next == ':' && l.dialect.SupportsCastOperator() {
			return two(token.DCOLON)
		}
	case '=':
		return one(token.EQ)
	case '+':
		return one(token.PLUS)
	case '-':
		return one(token.MINUS)
	case '*':
		return one(token.STAR)
	case '/':
		return one(token.SLASH)
	case '%':
		return one(token.PERCENT)
	case '.':
		return one(token.DOT)
	case ',':
		return one(token.COMMA)
	case ';':
		return one(token.SEMICOLON)
	case '(':
		return one(token.LPAREN)
	case ')':
		return one(token.RPAREN)
	case '[':
		return one(token.LBRACKET)
	case ']':
		return one(token.RBRACKET)
	}
	return token.Token{}, l.errorf(errIllegalChar, string(c))
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c >= 0x80
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || isDigit(c) || c == '$'
}
