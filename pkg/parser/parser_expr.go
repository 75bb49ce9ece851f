package parser

import (
	"github.com/leapstack-labs/leaplint/pkg/segment"
	"github.com/leapstack-labs/leaplint/pkg/token"
)

// Expressions are kept flat: operands, operators and the trivia between
// them are direct children of one expression node, so rules can look at the
// siblings of an operator. A lone operand is returned unwrapped.
//
//	expr    → operand (operator operand)*
//	operand → [NOT | - | + | EXISTS]* primary [:: type]

func (p *Parser) parseExpression() *segment.Segment {
	items := p.parseOperand()
	for {
		ops, ok := p.tryOperator()
		if !ok {
			break
		}
		items = append(items, ops...)
		if last := ops[len(ops)-1]; last.IsType(segment.TypeCastingOperator) {
			items = append(items, p.trivia()...)
			items = append(items, p.parseDataType())
			continue
		}
		items = append(items, p.trivia()...)
		items = append(items, p.parseOperand()...)
	}
	if len(items) == 1 {
		return items[0]
	}
	return segment.NewNode(segment.TypeExpression, items)
}

// parseExpressionList parses expr (, expr)*.
func (p *Parser) parseExpressionList() []*segment.Segment {
	kids := []*segment.Segment{p.parseExpression()}
	for p.peekCode().Type == token.COMMA {
		kids = append(kids, p.trivia()...)
		kids = append(kids, p.symbol(token.COMMA, segment.TypeComma))
		kids = append(kids, p.trivia()...)
		kids = append(kids, p.parseExpression())
	}
	return kids
}

func (p *Parser) parseOperand() []*segment.Segment {
	var items []*segment.Segment
	for {
		switch p.cur().Type {
		case token.NOT, token.EXISTS:
			items = append(items, p.keywordLeaf())
			items = append(items, p.trivia()...)
			continue
		case token.MINUS, token.PLUS:
			tok := p.advance()
			items = append(items, segment.NewLeaf("sign_indicator", tok.Literal, tok.Pos, segment.TypeSymbol))
			items = append(items, p.trivia()...)
			continue
		}
		break
	}
	return append(items, p.parsePrimary())
}

// tryOperator consumes the trivia and operator tokens joining two operands.
// It consumes nothing and returns false when no operator follows.
func (p *Parser) tryOperator() ([]*segment.Segment, bool) {
	next := p.peekCode()
	switch {
	case token.IsComparison(next.Type):
		kids := p.trivia()
		return append(kids, p.comparisonOperator()), true
	case next.Type == token.DCOLON:
		kids := p.trivia()
		return append(kids, p.symbol(token.DCOLON, segment.TypeCastingOperator)), true
	case next.Type == token.PLUS || next.Type == token.MINUS || next.Type == token.STAR ||
		next.Type == token.SLASH || next.Type == token.PERCENT || next.Type == token.DPIPE:
		kids := p.trivia()
		tok := p.advance()
		return append(kids, segment.NewLeaf(segment.TypeBinaryOperator, tok.Literal, tok.Pos, segment.TypeSymbol)), true
	case next.Type == token.AND || next.Type == token.OR:
		kids := p.trivia()
		tok := p.advance()
		return append(kids, segment.NewLeaf(segment.TypeKeyword, tok.Literal, tok.Pos, segment.TypeBinaryOperator)), true
	case next.Type == token.IS:
		kids := p.trivia()
		kids = append(kids, p.keywordLeaf())
		if p.peekCode().Type == token.NOT {
			kids = append(kids, p.trivia()...)
			kids = append(kids, p.keywordLeaf())
		}
		if p.peekCode().Type == token.DISTINCT {
			kids = append(kids, p.trivia()...)
			kids = append(kids, p.keywordLeaf())
			kids = append(kids, p.trivia()...)
			kids = append(kids, p.keyword(token.FROM))
		}
		return kids, true
	case next.Type == token.NOT && p.isPredicateKeyword(p.peekCodeN(1)):
		kids := p.trivia()
		kids = append(kids, p.keywordLeaf())
		kids = append(kids, p.trivia()...)
		return append(kids, p.keywordLeaf()), true
	case p.isPredicateKeyword(next):
		kids := p.trivia()
		return append(kids, p.keywordLeaf()), true
	}
	return nil, false
}

func (p *Parser) isPredicateKeyword(tok token.Token) bool {
	switch tok.Type {
	case token.IN, token.LIKE, token.BETWEEN:
		return true
	}
	return token.IsDynamic(tok.Type) && (isWord(tok, "ILIKE") || isWord(tok, "RLIKE"))
}

func (p *Parser) comparisonOperator() *segment.Segment {
	tok := p.advance()
	return segment.NewNode(segment.TypeComparisonOperator, []*segment.Segment{
		segment.NewLeaf(segment.TypeRawComparisonOperator, tok.Literal, tok.Pos, segment.TypeSymbol),
	})
}

func (p *Parser) parsePrimary() *segment.Segment {
	tok := p.cur()
	switch tok.Type {
	case token.NUMBER:
		p.advance()
		return segment.NewLeaf(segment.TypeNumericLiteral, tok.Literal, tok.Pos, segment.TypeLiteral)
	case token.STRING:
		p.advance()
		return segment.NewLeaf(segment.TypeQuotedLiteral, tok.Literal, tok.Pos, segment.TypeLiteral)
	case token.NULL:
		p.advance()
		return segment.NewLeaf(segment.TypeNullLiteral, tok.Literal, tok.Pos, segment.TypeLiteral)
	case token.TRUE, token.FALSE:
		p.advance()
		return segment.NewLeaf(segment.TypeBooleanLiteral, tok.Literal, tok.Pos, segment.TypeLiteral)
	case token.LPAREN:
		return p.parseBracketed(p.parseBracketContent)
	case token.CASE:
		return p.parseCase()
	case token.CAST:
		return p.parseCast()
	case token.STAR:
		return p.symbol(token.STAR, segment.TypeStar)
	case token.LEFT, token.RIGHT:
		if p.at(1).Type == token.LPAREN {
			name := segment.NewNode(segment.TypeFunctionName, []*segment.Segment{p.keywordLeaf()})
			return p.parseFunctionCall([]*segment.Segment{name})
		}
	case token.IDENT, token.QUOTED_IDENT:
		return p.parseReferenceOrFunction()
	}
	p.unexpected("expression")
	return nil
}

// parseBracketContent parses the body of a bracketed expression: a
// subquery or a comma separated expression list.
func (p *Parser) parseBracketContent() []*segment.Segment {
	switch p.cur().Type {
	case token.SELECT, token.WITH:
		return p.parseQueryContent()
	}
	return p.parseExpressionList()
}

func (p *Parser) parseReferenceOrFunction() *segment.Segment {
	ref := p.parseObjectReference(segment.TypeColumnReference)
	isCall := p.cur().Type == token.LPAREN ||
		(ref.NumChildren() == 1 && p.cur().Type == token.WHITESPACE && p.at(1).Type == token.LPAREN)
	if !isCall {
		return ref
	}
	kids := []*segment.Segment{segment.NewNode(segment.TypeFunctionName, ref.Children())}
	return p.parseFunctionCall(kids)
}

// parseFunctionCall parses the argument list and optional OVER clause of a
// function whose name has been parsed into kids.
func (p *Parser) parseFunctionCall(kids []*segment.Segment) *segment.Segment {
	kids = append(kids, p.trivia()...)
	kids = append(kids, p.parseBracketed(p.parseFunctionArgs))
	if p.peekCode().Type == token.OVER {
		kids = append(kids, p.trivia()...)
		over := []*segment.Segment{p.keyword(token.OVER)}
		over = append(over, p.trivia()...)
		if p.cur().Type == token.LPAREN {
			over = append(over, p.parseBracketed(p.parseWindowSpec))
		} else {
			over = append(over, p.identifier())
		}
		kids = append(kids, segment.NewNode("over_clause", over))
	}
	return segment.NewNode(segment.TypeFunction, kids)
}

func (p *Parser) parseFunctionArgs() []*segment.Segment {
	var kids []*segment.Segment
	if t := p.cur().Type; t == token.DISTINCT || t == token.ALL {
		kids = append(kids, p.keywordLeaf())
		kids = append(kids, p.trivia()...)
	}
	return append(kids, p.parseExpressionList()...)
}

// parseWindowSpec parses PARTITION BY / ORDER BY / frame content loosely:
// keywords, commas and expressions in any order.
func (p *Parser) parseWindowSpec() []*segment.Segment {
	var kids []*segment.Segment
	for {
		next := p.peekCode()
		if next.Type == token.RPAREN || next.Type == token.EOF {
			return kids
		}
		if len(kids) > 0 {
			kids = append(kids, p.trivia()...)
		}
		switch {
		case next.Type == token.COMMA:
			kids = append(kids, p.symbol(token.COMMA, segment.TypeComma))
		case token.IsKeyword(next.Type) && next.Type != token.CASE && next.Type != token.CAST &&
			next.Type != token.NULL && next.Type != token.NOT:
			kids = append(kids, p.keywordLeaf())
		default:
			kids = append(kids, p.parseExpression())
		}
	}
}

func (p *Parser) parseCase() *segment.Segment {
	kids := []*segment.Segment{p.keyword(token.CASE), p.indent()}
	if p.peekCode().Type != token.WHEN {
		kids = append(kids, p.trivia()...)
		kids = append(kids, p.parseExpression())
	}
	for p.peekCode().Type == token.WHEN {
		kids = append(kids, p.trivia()...)
		when := []*segment.Segment{p.keyword(token.WHEN)}
		when = append(when, p.trivia()...)
		when = append(when, p.parseExpression())
		when = append(when, p.trivia()...)
		when = append(when, p.keyword(token.THEN))
		when = append(when, p.trivia()...)
		when = append(when, p.parseExpression())
		kids = append(kids, segment.NewNode("when_clause", when))
	}
	if p.peekCode().Type == token.ELSE {
		kids = append(kids, p.trivia()...)
		els := []*segment.Segment{p.keyword(token.ELSE)}
		els = append(els, p.trivia()...)
		els = append(els, p.parseExpression())
		kids = append(kids, segment.NewNode("else_clause", els))
	}
	kids = append(kids, p.trivia()...)
	kids = append(kids, p.dedent(), p.keyword(token.END))
	return segment.NewNode(segment.TypeCaseExpression, kids)
}

func (p *Parser) parseCast() *segment.Segment {
	name := segment.NewNode(segment.TypeFunctionName, []*segment.Segment{p.keyword(token.CAST)})
	kids := []*segment.Segment{name}
	kids = append(kids, p.trivia()...)
	kids = append(kids, p.parseBracketed(func() []*segment.Segment {
		args := []*segment.Segment{p.parseExpression()}
		args = append(args, p.trivia()...)
		args = append(args, p.keyword(token.AS))
		args = append(args, p.trivia()...)
		return append(args, p.parseDataType())
	}))
	return segment.NewNode(segment.TypeFunction, kids)
}

// parseDataType parses a type name with optional precision, e.g. VARCHAR(10).
func (p *Parser) parseDataType() *segment.Segment {
	var kids []*segment.Segment
	switch {
	case isIdent(p.cur()):
		kids = append(kids, p.identifier())
	case token.IsKeyword(p.cur().Type):
		kids = append(kids, p.keywordLeaf())
	default:
		p.unexpected("data type")
	}
	if p.cur().Type == token.LPAREN {
		kids = append(kids, p.parseBracketed(p.parseExpressionList))
	}
	return segment.NewNode("data_type", kids)
}
