// Package parser builds lossless segment trees from SQL text.
//
// # Usage
//
//	d, _ := dialect.Get("postgres")
//	root, err := parser.Parse("SELECT a FROM t", d)
//	if err != nil {
//	    // *parser.ParseError
//	}
//	fmt.Print(root.Raw()) // exactly the input
//
// # Grammar Overview
//
// The parser is a recursive descent parser for the subset of SQL the lint
// rules reason about:
//
//	file          → statement (';' statement)* [';']
//	statement     → [WITH cte_list] query | update | delete
//	query         → select [(UNION|INTERSECT|EXCEPT) [ALL|DISTINCT] select]*
//	select        → SELECT [DISTINCT [ON (...)] | ALL] select_list
//	                [FROM from_list] [WHERE expr] [GROUP BY expr_list]
//	                [HAVING expr] [QUALIFY expr] [ORDER BY order_list]
//	                [LIMIT expr [OFFSET expr]]
//	update        → UPDATE table [alias] SET set_list [FROM from_list] [WHERE expr]
//	delete        → DELETE FROM table [alias] [WHERE expr]
//
// Every token, including whitespace, newlines and comments, ends up as a
// leaf in the tree. Trivia between two code tokens is attached to the
// innermost node spanning both. Zero-width indent and dedent markers bracket
// the bodies of clauses and brackets.
package parser

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/leaplint/pkg/dialect"
	"github.com/leapstack-labs/leaplint/pkg/segment"
	"github.com/leapstack-labs/leaplint/pkg/token"
)

// Parser turns a token stream into a segment tree.
type Parser struct {
	toks    []token.Token
	pos     int
	dialect *dialect.Dialect
}

// bailout carries a ParseError up the recursive descent.
type bailout struct {
	err *ParseError
}

// Parse parses source with the given dialect. A nil dialect means ANSI.
func Parse(source string, d *dialect.Dialect) (root *segment.Segment, err error) {
	if d == nil {
		d, err = dialect.Lookup(dialect.Default)
		if err != nil {
			return nil, err
		}
	}
	toks, err := NewLexer(source, d).Tokenize()
	if err != nil {
		return nil, err
	}

	p := &Parser{toks: toks, dialect: d}
	defer func() {
		if r := recover(); r != nil {
			b, ok := r.(bailout)
			if !ok {
				panic(r)
			}
			root, err = nil, b.err
		}
	}()
	return p.parseFile(), nil
}

// ---------- Token Helpers ----------

func (p *Parser) cur() token.Token {
	return p.toks[p.pos]
}

func (p *Parser) at(offset int) token.Token {
	if p.pos+offset >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}
	return p.toks[p.pos+offset]
}

func (p *Parser) advance() token.Token {
	tok := p.toks[p.pos]
	if tok.Type != token.EOF {
		p.pos++
	}
	return tok
}

// peekCode returns the next non-trivia token without consuming anything.
func (p *Parser) peekCode() token.Token {
	return p.peekCodeN(0)
}

// peekCodeN returns the n-th (0-based) upcoming non-trivia token.
func (p *Parser) peekCodeN(n int) token.Token {
	for i := p.pos; i < len(p.toks); i++ {
		if token.IsTrivia(p.toks[i].Type) {
			continue
		}
		if n == 0 {
			return p.toks[i]
		}
		n--
	}
	return p.toks[len(p.toks)-1]
}

// trivia consumes whitespace, newlines and comments as leaves.
func (p *Parser) trivia() []*segment.Segment {
	var out []*segment.Segment
	for token.IsTrivia(p.cur().Type) {
		tok := p.advance()
		switch tok.Type {
		case token.WHITESPACE:
			out = append(out, segment.NewLeaf(segment.TypeWhitespace, tok.Literal, tok.Pos))
		case token.NEWLINE:
			out = append(out, segment.NewLeaf(segment.TypeNewline, tok.Literal, tok.Pos))
		default:
			out = append(out, segment.NewLeaf(tok.Comment.SegmentType(), tok.Literal, tok.Pos, segment.TypeComment))
		}
	}
	return out
}

func (p *Parser) failf(tok token.Token, format string, args ...any) {
	panic(bailout{err: &ParseError{Pos: tok.Pos, Message: fmt.Sprintf(format, args...)}})
}

func (p *Parser) unexpected(expected string) {
	tok := p.cur()
	p.failf(tok, errUnexpectedToken, describe(tok), expected)
}

func describe(tok token.Token) string {
	if tok.Type == token.EOF {
		return "end of input"
	}
	return fmt.Sprintf("%q", tok.Literal)
}

// expect consumes a token of type t, failing otherwise.
func (p *Parser) expect(t token.TokenType, expected string) token.Token {
	if p.cur().Type != t {
		p.unexpected(expected)
	}
	return p.advance()
}

// isWord reports whether tok is the given dialect keyword.
func isWord(tok token.Token, word string) bool {
	return strings.EqualFold(tok.Literal, word) && (token.IsDynamic(tok.Type) || tok.Type == token.IDENT)
}

func isIdent(tok token.Token) bool {
	return tok.Type == token.IDENT || tok.Type == token.QUOTED_IDENT
}

// ---------- Leaf Helpers ----------

func (p *Parser) keyword(t token.TokenType) *segment.Segment {
	tok := p.expect(t, t.String())
	return segment.NewLeaf(segment.TypeKeyword, tok.Literal, tok.Pos)
}

// keywordLeaf consumes the current token as a keyword, whatever its type.
func (p *Parser) keywordLeaf() *segment.Segment {
	tok := p.advance()
	return segment.NewLeaf(segment.TypeKeyword, tok.Literal, tok.Pos)
}

func (p *Parser) symbol(t token.TokenType, typ string) *segment.Segment {
	tok := p.expect(t, fmt.Sprintf("%q", t.String()))
	return segment.NewLeaf(typ, tok.Literal, tok.Pos, segment.TypeSymbol)
}

func (p *Parser) identifier() *segment.Segment {
	tok := p.cur()
	switch tok.Type {
	case token.IDENT:
		p.advance()
		return segment.NewLeaf(segment.TypeNakedIdentifier, tok.Literal, tok.Pos, segment.TypeIdentifier)
	case token.QUOTED_IDENT:
		p.advance()
		return segment.NewLeaf(segment.TypeQuotedIdentifier, tok.Literal, tok.Pos, segment.TypeIdentifier)
	}
	p.unexpected("identifier")
	return nil
}

func (p *Parser) indent() *segment.Segment {
	return segment.Indent(p.cur().Pos)
}

func (p *Parser) dedent() *segment.Segment {
	return segment.Dedent(p.cur().Pos)
}

// ---------- File and Statements ----------

func (p *Parser) parseFile() *segment.Segment {
	kids := p.trivia()
	for p.cur().Type != token.EOF {
		if p.cur().Type == token.SEMICOLON {
			kids = append(kids, p.symbol(token.SEMICOLON, segment.TypeStatementTerminator))
		} else {
			kids = append(kids, segment.NewNode(segment.TypeStatement, []*segment.Segment{p.parseStatement()}))
			if next := p.peekCode(); next.Type != token.SEMICOLON && next.Type != token.EOF {
				kids = append(kids, p.trivia()...)
				p.unexpected("end of statement")
			}
		}
		kids = append(kids, p.trivia()...)
	}
	return segment.NewNode(segment.TypeFile, kids)
}

func (p *Parser) parseStatement() *segment.Segment {
	switch p.cur().Type {
	case token.WITH:
		return p.parseWith()
	case token.SELECT, token.LPAREN:
		return p.parseQuery()
	case token.UPDATE:
		return p.parseUpdate()
	case token.DELETE:
		return p.parseDelete()
	}
	p.unexpected("statement")
	return nil
}

func (p *Parser) parseWith() *segment.Segment {
	kids := []*segment.Segment{p.keyword(token.WITH)}
	if p.peekCode().Type == token.RECURSIVE {
		kids = append(kids, p.trivia()...)
		kids = append(kids, p.keyword(token.RECURSIVE))
	}
	kids = append(kids, p.trivia()...)
	kids = append(kids, p.parseCTE())
	for p.peekCode().Type == token.COMMA {
		kids = append(kids, p.trivia()...)
		kids = append(kids, p.symbol(token.COMMA, segment.TypeComma))
		kids = append(kids, p.trivia()...)
		kids = append(kids, p.parseCTE())
	}
	kids = append(kids, p.trivia()...)
	switch p.cur().Type {
	case token.UPDATE:
		kids = append(kids, p.parseUpdate())
	case token.DELETE:
		kids = append(kids, p.parseDelete())
	default:
		kids = append(kids, p.parseQuery())
	}
	return segment.NewNode(segment.TypeWithClause, kids)
}

func (p *Parser) parseCTE() *segment.Segment {
	kids := []*segment.Segment{p.identifier()}
	if p.peekCode().Type == token.LPAREN {
		kids = append(kids, p.trivia()...)
		kids = append(kids, p.parseBracketed(p.parseIdentifierList))
	}
	kids = append(kids, p.trivia()...)
	kids = append(kids, p.keyword(token.AS))
	kids = append(kids, p.trivia()...)
	if p.cur().Type != token.LPAREN {
		p.unexpected("(")
	}
	kids = append(kids, p.parseBracketed(p.parseQueryContent))
	return segment.NewNode(segment.TypeCommonTable, kids)
}

func (p *Parser) parseIdentifierList() []*segment.Segment {
	kids := []*segment.Segment{p.identifier()}
	for p.peekCode().Type == token.COMMA {
		kids = append(kids, p.trivia()...)
		kids = append(kids, p.symbol(token.COMMA, segment.TypeComma))
		kids = append(kids, p.trivia()...)
		kids = append(kids, p.identifier())
	}
	return kids
}

// ---------- Queries ----------

func (p *Parser) atSetOperator() bool {
	switch p.peekCode().Type {
	case token.UNION, token.INTERSECT, token.EXCEPT:
		return true
	}
	return false
}

func (p *Parser) parseQuery() *segment.Segment {
	first := p.parseQueryTerm()
	if !p.atSetOperator() {
		return first
	}
	kids := []*segment.Segment{first}
	for p.atSetOperator() {
		kids = append(kids, p.trivia()...)
		kids = append(kids, p.parseSetOperator())
		kids = append(kids, p.trivia()...)
		kids = append(kids, p.parseQueryTerm())
	}
	return segment.NewNode(segment.TypeSetExpression, kids)
}

func (p *Parser) parseQueryTerm() *segment.Segment {
	switch p.cur().Type {
	case token.SELECT:
		return p.parseSelect()
	case token.LPAREN:
		return p.parseBracketed(p.parseQueryContent)
	}
	p.unexpected("SELECT")
	return nil
}

// parseQueryContent parses a (possibly WITH-prefixed) query inside brackets.
func (p *Parser) parseQueryContent() []*segment.Segment {
	if p.cur().Type == token.WITH {
		return []*segment.Segment{p.parseWith()}
	}
	return []*segment.Segment{p.parseQuery()}
}

func (p *Parser) parseSetOperator() *segment.Segment {
	kids := []*segment.Segment{p.keywordLeaf()}
	if next := p.peekCode().Type; next == token.ALL || next == token.DISTINCT {
		kids = append(kids, p.trivia()...)
		kids = append(kids, p.keywordLeaf())
	}
	return segment.NewNode(segment.TypeSetOperator, kids)
}

func (p *Parser) parseSelect() *segment.Segment {
	kids := []*segment.Segment{p.parseSelectClause()}
	for {
		var clause func() *segment.Segment
		next := p.peekCode()
		switch {
		case next.Type == token.FROM:
			clause = p.parseFromClause
		case next.Type == token.WHERE:
			clause = func() *segment.Segment { return p.parseExpressionClause(token.WHERE, segment.TypeWhereClause) }
		case next.Type == token.GROUP:
			clause = p.parseGroupBy
		case next.Type == token.HAVING:
			clause = func() *segment.Segment { return p.parseExpressionClause(token.HAVING, segment.TypeHavingClause) }
		case isWord(next, "QUALIFY"):
			clause = func() *segment.Segment { return p.parseExpressionClause(next.Type, "qualify_clause") }
		case next.Type == token.ORDER:
			clause = p.parseOrderBy
		case next.Type == token.LIMIT:
			clause = p.parseLimit
		default:
			return segment.NewNode(segment.TypeSelectStatement, kids)
		}
		kids = append(kids, p.trivia()...)
		kids = append(kids, clause())
	}
}

func (p *Parser) parseSelectClause() *segment.Segment {
	kids := []*segment.Segment{p.keyword(token.SELECT), p.indent()}
	if next := p.peekCode().Type; next == token.DISTINCT || next == token.ALL {
		kids = append(kids, p.trivia()...)
		kids = append(kids, p.parseSelectModifier())
	}
	kids = append(kids, p.trivia()...)
	kids = append(kids, p.parseSelectElement())
	for p.peekCode().Type == token.COMMA {
		kids = append(kids, p.trivia()...)
		kids = append(kids, p.symbol(token.COMMA, segment.TypeComma))
		kids = append(kids, p.trivia()...)
		kids = append(kids, p.parseSelectElement())
	}
	kids = append(kids, p.dedent())
	return segment.NewNode(segment.TypeSelectClause, kids)
}

func (p *Parser) parseSelectModifier() *segment.Segment {
	if p.cur().Type == token.ALL {
		return segment.NewNode(segment.TypeSelectClauseModifier, []*segment.Segment{p.keywordLeaf()})
	}
	kids := []*segment.Segment{p.keyword(token.DISTINCT)}
	if p.dialect.SupportsDistinctOn() && p.peekCode().Type == token.ON {
		kids = append(kids, p.trivia()...)
		kids = append(kids, p.keyword(token.ON))
		kids = append(kids, p.trivia()...)
		if p.cur().Type != token.LPAREN {
			p.unexpected("(")
		}
		kids = append(kids, p.parseBracketed(p.parseExpressionList))
	}
	return segment.NewNode(segment.TypeSelectClauseModifier, kids)
}

func (p *Parser) parseSelectElement() *segment.Segment {
	if p.atWildcard() {
		return segment.NewNode(segment.TypeSelectClauseElement, []*segment.Segment{p.parseWildcard()})
	}
	kids := []*segment.Segment{p.parseExpression()}
	if alias := p.tryAlias(); alias != nil {
		kids = append(kids, alias...)
	}
	return segment.NewNode(segment.TypeSelectClauseElement, kids)
}

// atWildcard reports whether the upcoming tokens are * or qualifier.*.
func (p *Parser) atWildcard() bool {
	for i := 0; ; i += 2 {
		tok := p.at(i)
		if tok.Type == token.STAR {
			return true
		}
		if !isIdent(tok) || p.at(i+1).Type != token.DOT {
			return false
		}
	}
}

func (p *Parser) parseWildcard() *segment.Segment {
	var kids []*segment.Segment
	for p.cur().Type != token.STAR {
		kids = append(kids, p.identifier(), p.symbol(token.DOT, segment.TypeDot))
	}
	kids = append(kids, p.symbol(token.STAR, segment.TypeStar))
	return segment.NewNode(segment.TypeWildcardExpression, []*segment.Segment{
		segment.NewNode(segment.TypeWildcardIdentifier, kids),
	})
}

// tryAlias parses an explicit (AS x) or implicit (x) alias and returns the
// leading trivia followed by the alias_expression. It returns nil, having
// consumed nothing, when no alias follows.
func (p *Parser) tryAlias() []*segment.Segment {
	next := p.peekCode()
	if next.Type != token.AS && !isIdent(next) {
		return nil
	}
	kids := p.trivia()
	var alias []*segment.Segment
	if p.cur().Type == token.AS {
		alias = append(alias, p.keyword(token.AS))
		alias = append(alias, p.trivia()...)
	}
	alias = append(alias, p.identifier())
	return append(kids, segment.NewNode(segment.TypeAliasExpression, alias))
}

// ---------- Clauses ----------

func (p *Parser) parseFromClause() *segment.Segment {
	kids := []*segment.Segment{p.keyword(token.FROM), p.indent()}
	kids = append(kids, p.trivia()...)
	kids = append(kids, p.parseFromExpression())
	for p.peekCode().Type == token.COMMA {
		kids = append(kids, p.trivia()...)
		kids = append(kids, p.symbol(token.COMMA, segment.TypeComma))
		kids = append(kids, p.trivia()...)
		kids = append(kids, p.parseFromExpression())
	}
	kids = append(kids, p.dedent())
	return segment.NewNode(segment.TypeFromClause, kids)
}

func (p *Parser) atJoin() bool {
	switch p.peekCode().Type {
	case token.JOIN, token.LEFT, token.RIGHT, token.FULL, token.INNER, token.CROSS, token.NATURAL:
		// LEFT( and RIGHT( are string functions, not joins
		return p.peekCodeN(1).Type != token.LPAREN
	}
	return false
}

func (p *Parser) parseFromExpression() *segment.Segment {
	kids := []*segment.Segment{p.parseFromExpressionElement()}
	for p.atJoin() {
		kids = append(kids, p.trivia()...)
		kids = append(kids, p.parseJoin())
	}
	return segment.NewNode(segment.TypeFromExpression, kids)
}

func (p *Parser) parseFromExpressionElement() *segment.Segment {
	var table *segment.Segment
	switch {
	case p.cur().Type == token.LPAREN:
		table = p.parseBracketed(p.parseQueryContent)
	case isIdent(p.cur()):
		table = p.parseObjectReference(segment.TypeTableReference)
		if p.cur().Type == token.LPAREN {
			table = p.parseFunctionCall([]*segment.Segment{segment.NewNode(segment.TypeFunctionName, table.Children())})
		}
	default:
		p.unexpected("table expression")
	}
	kids := []*segment.Segment{segment.NewNode(segment.TypeTableExpression, []*segment.Segment{table})}
	if alias := p.tryAlias(); alias != nil {
		kids = append(kids, alias...)
	}
	return segment.NewNode(segment.TypeFromExpressionElem, kids)
}

func (p *Parser) parseJoin() *segment.Segment {
	var kids []*segment.Segment
	for p.cur().Type != token.JOIN {
		switch p.cur().Type {
		case token.LEFT, token.RIGHT, token.FULL, token.INNER, token.CROSS, token.NATURAL, token.OUTER:
			kids = append(kids, p.keywordLeaf())
			kids = append(kids, p.trivia()...)
		default:
			p.unexpected("JOIN")
		}
	}
	kids = append(kids, p.keyword(token.JOIN))
	kids = append(kids, p.trivia()...)
	kids = append(kids, p.parseFromExpressionElement())

	switch p.peekCode().Type {
	case token.ON:
		kids = append(kids, p.trivia()...)
		cond := []*segment.Segment{p.keyword(token.ON), p.indent()}
		cond = append(cond, p.trivia()...)
		cond = append(cond, p.parseExpression(), p.dedent())
		kids = append(kids, segment.NewNode(segment.TypeJoinOnCondition, cond))
	case token.USING:
		kids = append(kids, p.trivia()...)
		kids = append(kids, p.keyword(token.USING))
		kids = append(kids, p.trivia()...)
		if p.cur().Type != token.LPAREN {
			p.unexpected("(")
		}
		kids = append(kids, p.parseBracketed(p.parseIdentifierList))
	}
	return segment.NewNode(segment.TypeJoinClause, kids)
}

// parseExpressionClause parses KEYWORD expr for WHERE, HAVING and QUALIFY.
func (p *Parser) parseExpressionClause(t token.TokenType, typ string) *segment.Segment {
	if p.cur().Type != t {
		p.unexpected(t.String())
	}
	kids := []*segment.Segment{p.keywordLeaf(), p.indent()}
	kids = append(kids, p.trivia()...)
	kids = append(kids, p.parseExpression(), p.dedent())
	return segment.NewNode(typ, kids)
}

func (p *Parser) parseGroupBy() *segment.Segment {
	kids := []*segment.Segment{p.keyword(token.GROUP)}
	kids = append(kids, p.trivia()...)
	kids = append(kids, p.keyword(token.BY), p.indent())
	kids = append(kids, p.trivia()...)
	if p.cur().Type == token.ALL {
		kids = append(kids, p.keywordLeaf())
	} else {
		kids = append(kids, p.parseExpressionList()...)
	}
	kids = append(kids, p.dedent())
	return segment.NewNode(segment.TypeGroupByClause, kids)
}

func (p *Parser) parseOrderBy() *segment.Segment {
	kids := []*segment.Segment{p.keyword(token.ORDER)}
	kids = append(kids, p.trivia()...)
	kids = append(kids, p.keyword(token.BY), p.indent())
	kids = append(kids, p.trivia()...)
	kids = append(kids, p.parseOrderItem()...)
	for p.peekCode().Type == token.COMMA {
		kids = append(kids, p.trivia()...)
		kids = append(kids, p.symbol(token.COMMA, segment.TypeComma))
		kids = append(kids, p.trivia()...)
		kids = append(kids, p.parseOrderItem()...)
	}
	kids = append(kids, p.dedent())
	return segment.NewNode(segment.TypeOrderByClause, kids)
}

func (p *Parser) parseOrderItem() []*segment.Segment {
	kids := []*segment.Segment{p.parseExpression()}
	if next := p.peekCode().Type; next == token.ASC || next == token.DESC {
		kids = append(kids, p.trivia()...)
		kids = append(kids, p.keywordLeaf())
	}
	if isWord(p.peekCode(), "NULLS") {
		kids = append(kids, p.trivia()...)
		kids = append(kids, p.keywordLeaf())
		kids = append(kids, p.trivia()...)
		if !isWord(p.cur(), "FIRST") && !isWord(p.cur(), "LAST") {
			p.unexpected("FIRST or LAST")
		}
		kids = append(kids, p.keywordLeaf())
	}
	return kids
}

func (p *Parser) parseLimit() *segment.Segment {
	kids := []*segment.Segment{p.keyword(token.LIMIT)}
	kids = append(kids, p.trivia()...)
	kids = append(kids, p.parseExpression())
	switch p.peekCode().Type {
	case token.OFFSET:
		kids = append(kids, p.trivia()...)
		kids = append(kids, p.keyword(token.OFFSET))
		kids = append(kids, p.trivia()...)
		kids = append(kids, p.parseExpression())
	case token.COMMA:
		kids = append(kids, p.trivia()...)
		kids = append(kids, p.symbol(token.COMMA, segment.TypeComma))
		kids = append(kids, p.trivia()...)
		kids = append(kids, p.parseExpression())
	}
	return segment.NewNode(segment.TypeLimitClause, kids)
}

// ---------- DML ----------

func (p *Parser) parseUpdate() *segment.Segment {
	kids := []*segment.Segment{p.keyword(token.UPDATE)}
	kids = append(kids, p.trivia()...)
	kids = append(kids, p.parseObjectReference(segment.TypeTableReference))
	if alias := p.tryAlias(); alias != nil {
		kids = append(kids, alias...)
	}
	kids = append(kids, p.trivia()...)
	kids = append(kids, p.parseSetClauseList())
	if p.peekCode().Type == token.FROM {
		kids = append(kids, p.trivia()...)
		kids = append(kids, p.parseFromClause())
	}
	if p.peekCode().Type == token.WHERE {
		kids = append(kids, p.trivia()...)
		kids = append(kids, p.parseExpressionClause(token.WHERE, segment.TypeWhereClause))
	}
	return segment.NewNode(segment.TypeUpdateStatement, kids)
}

func (p *Parser) parseSetClauseList() *segment.Segment {
	kids := []*segment.Segment{p.keyword(token.SET), p.indent()}
	kids = append(kids, p.trivia()...)
	kids = append(kids, p.parseSetClause())
	for p.peekCode().Type == token.COMMA {
		kids = append(kids, p.trivia()...)
		kids = append(kids, p.symbol(token.COMMA, segment.TypeComma))
		kids = append(kids, p.trivia()...)
		kids = append(kids, p.parseSetClause())
	}
	kids = append(kids, p.dedent())
	return segment.NewNode(segment.TypeSetClauseList, kids)
}

func (p *Parser) parseSetClause() *segment.Segment {
	kids := []*segment.Segment{p.parseObjectReference(segment.TypeColumnReference)}
	kids = append(kids, p.trivia()...)
	if p.cur().Type != token.EQ {
		p.unexpected("=")
	}
	kids = append(kids, p.comparisonOperator())
	kids = append(kids, p.trivia()...)
	kids = append(kids, p.parseExpression())
	return segment.NewNode(segment.TypeSetClause, kids)
}

func (p *Parser) parseDelete() *segment.Segment {
	kids := []*segment.Segment{p.keyword(token.DELETE)}
	kids = append(kids, p.trivia()...)
	kids = append(kids, p.parseFromClause())
	if p.peekCode().Type == token.WHERE {
		kids = append(kids, p.trivia()...)
		kids = append(kids, p.parseExpressionClause(token.WHERE, segment.TypeWhereClause))
	}
	return segment.NewNode(segment.TypeDeleteStatement, kids)
}

// ---------- Brackets and References ----------

// parseBracketed parses '(' inner ')' with indent markers around the body.
func (p *Parser) parseBracketed(inner func() []*segment.Segment) *segment.Segment {
	kids := []*segment.Segment{p.symbol(token.LPAREN, segment.TypeStartBracket), p.indent()}
	kids = append(kids, p.trivia()...)
	if p.cur().Type != token.RPAREN {
		kids = append(kids, inner()...)
		kids = append(kids, p.trivia()...)
	}
	if p.cur().Type != token.RPAREN {
		p.unexpected(")")
	}
	kids = append(kids, p.dedent(), p.symbol(token.RPAREN, segment.TypeEndBracket))
	return segment.NewNode(segment.TypeBracketed, kids)
}

// parseObjectReference parses a dotted name such as schema.table.
func (p *Parser) parseObjectReference(typ string) *segment.Segment {
	kids := []*segment.Segment{p.identifier()}
	for p.cur().Type == token.DOT && isIdent(p.at(1)) {
		kids = append(kids, p.symbol(token.DOT, segment.TypeDot), p.identifier())
	}
	return segment.NewNode(typ, kids, segment.TypeObjectReference)
}
