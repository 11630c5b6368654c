package lang

import (
	"fmt"
)

// Parser builds an Ast from a token stream. Any unexpected token aborts the
// parse; the error carries the offending token's line:column position.
type Parser struct {
	tokens []Token
	cursor int
	ast    *Ast
}

// Parse consumes tokens (as produced by Lex, EOF-terminated) into an AST.
func Parse(tokens []Token) (*Ast, error) {
	parser := &Parser{tokens: tokens, ast: &Ast{}}

	for parser.peek().Kind != TokenEOF {
		statement, err := parser.expressionStatement()
		if err != nil {
			return nil, err
		}
		parser.ast.Statements = append(parser.ast.Statements, statement)
	}

	return parser.ast, nil
}

func (p *Parser) expressionStatement() (Statement, error) {
	expr, err := p.expression()
	if err != nil {
		return Statement{}, err
	}
	return Statement{ID: expr.ID, Span: expr.Span}, nil
}

func (p *Parser) expression() (Expression, error) {
	token := p.peek()
	if token.Kind == TokenKeyword && token.Lexeme == "for" {
		return p.forLoop()
	}
	return p.primaryExpression()
}

func (p *Parser) primaryExpression() (Expression, error) {
	token := p.peek()
	switch token.Kind {
	case TokenIdentifier:
		switch p.peekAt(1).Kind {
		case TokenLeftParen:
			return p.callExpression()
		case TokenAssign, TokenColonColon:
			return p.constantDefinition()
		default:
			name, err := p.consumeThenMatch(TokenIdentifier)
			if err != nil {
				return Expression{}, err
			}
			return p.ast.emplaceExpression(Expression{Kind: ExprVariable, Span: name.Span, Name: name}), nil
		}
	case TokenStringLiteral:
		return p.stringLiteral()
	case TokenNumber:
		if p.peekAt(1).Kind == TokenDotDot {
			return p.rangeExpression()
		}
		return p.number()
	case TokenLeftBracket:
		return p.list()
	case TokenLeftParen:
		return p.tuple()
	default:
		return Expression{}, p.errorf(token, "expected an expression, got %s", token.Kind)
	}
}

func (p *Parser) stringLiteral() (Expression, error) {
	token, err := p.consumeThenMatch(TokenStringLiteral)
	if err != nil {
		return Expression{}, err
	}
	return p.ast.emplaceExpression(Expression{Kind: ExprStringLiteral, Span: token.Span, Literal: token}), nil
}

func (p *Parser) number() (Expression, error) {
	token, err := p.consumeThenMatch(TokenNumber)
	if err != nil {
		return Expression{}, err
	}
	return p.ast.emplaceExpression(Expression{Kind: ExprNumber, Span: token.Span, Literal: token}), nil
}

func (p *Parser) list() (Expression, error) {
	open, err := p.consumeThenMatch(TokenLeftBracket)
	if err != nil {
		return Expression{}, err
	}
	elements, end, err := p.delimitedElements(TokenRightBracket)
	if err != nil {
		return Expression{}, err
	}
	return p.ast.emplaceExpression(Expression{Kind: ExprList, Span: open.Span.join(end), Elements: elements}), nil
}

func (p *Parser) tuple() (Expression, error) {
	open, err := p.consumeThenMatch(TokenLeftParen)
	if err != nil {
		return Expression{}, err
	}
	elements, end, err := p.delimitedElements(TokenRightParen)
	if err != nil {
		return Expression{}, err
	}
	return p.ast.emplaceExpression(Expression{Kind: ExprTuple, Span: open.Span.join(end), Elements: elements}), nil
}

// delimitedElements parses a comma-separated expression sequence up to the
// closing token. Commas are separators but not enforced between elements.
func (p *Parser) delimitedElements(closing TokenKind) ([]ExpressionID, Span, error) {
	var elements []ExpressionID
	for {
		token := p.peek()
		switch token.Kind {
		case closing:
			p.next()
			return elements, token.Span, nil
		case TokenComma:
			p.next()
		case TokenEOF:
			return nil, Span{}, p.errorf(token, "expected %s but ran out of tokens", closing)
		default:
			expr, err := p.expression()
			if err != nil {
				return nil, Span{}, err
			}
			elements = append(elements, expr.ID)
		}
	}
}

func (p *Parser) callExpression() (Expression, error) {
	callee, err := p.consumeThenMatch(TokenIdentifier)
	if err != nil {
		return Expression{}, err
	}
	if _, err := p.consumeThenMatch(TokenLeftParen); err != nil {
		return Expression{}, err
	}
	arguments, end, err := p.delimitedElements(TokenRightParen)
	if err != nil {
		return Expression{}, err
	}
	return p.ast.emplaceExpression(Expression{
		Kind:     ExprCall,
		Span:     callee.Span.join(end),
		Name:     callee,
		Elements: arguments,
	}), nil
}

// constantDefinition parses `name = value`. The `name :: value` spelling is
// accepted as well.
func (p *Parser) constantDefinition() (Expression, error) {
	name, err := p.consumeThenMatch(TokenIdentifier)
	if err != nil {
		return Expression{}, err
	}

	sep := p.next()
	if sep.Kind != TokenAssign && sep.Kind != TokenColonColon {
		return Expression{}, p.errorf(sep, "expected `=` after constant name, got %s", sep.Kind)
	}

	value, err := p.primaryExpression()
	if err != nil {
		return Expression{}, err
	}

	return p.ast.emplaceExpression(Expression{
		Kind:  ExprConstant,
		Span:  name.Span.join(value.Span),
		Name:  name,
		Value: value.ID,
	}), nil
}

func (p *Parser) rangeExpression() (Expression, error) {
	start, err := p.consumeThenMatch(TokenNumber)
	if err != nil {
		return Expression{}, err
	}
	if _, err := p.consumeThenMatch(TokenDotDot); err != nil {
		return Expression{}, err
	}
	end, err := p.consumeThenMatch(TokenNumber)
	if err != nil {
		return Expression{}, err
	}

	return p.ast.emplaceExpression(Expression{
		Kind:       ExprRange,
		Span:       start.Span.join(end.Span),
		RangeStart: start,
		RangeEnd:   end,
	}), nil
}

// forLoop parses `for <binding> in <range> { <body>* }`. The binding is
// recorded but not bound to an environment: loop bodies only repeat side
// effects.
func (p *Parser) forLoop() (Expression, error) {
	forToken := p.next()

	binding, err := p.consumeThenMatch(TokenIdentifier)
	if err != nil {
		return Expression{}, err
	}

	in := p.next()
	if in.Kind != TokenKeyword || in.Lexeme != "in" {
		return Expression{}, p.errorf(in, "expected `in` after loop binding, got %s", in.Kind)
	}

	rangeExpr, err := p.expression()
	if err != nil {
		return Expression{}, err
	}

	if _, err := p.consumeThenMatch(TokenLeftCurly); err != nil {
		return Expression{}, err
	}

	var body []ExpressionID
	lastSpan := rangeExpr.Span
	for p.peek().Kind != TokenRightCurly {
		if p.peek().Kind == TokenEOF {
			return Expression{}, p.errorf(p.peek(), "expected `}` but ran out of tokens")
		}
		expr, err := p.expression()
		if err != nil {
			return Expression{}, err
		}
		body = append(body, expr.ID)
		lastSpan = expr.Span
	}
	if _, err := p.consumeThenMatch(TokenRightCurly); err != nil {
		return Expression{}, err
	}

	return p.ast.emplaceExpression(Expression{
		Kind:     ExprFor,
		Span:     forToken.Span.join(lastSpan),
		Name:     binding,
		Value:    rangeExpr.ID,
		Elements: body,
	}), nil
}

func (p *Parser) consumeThenMatch(expected TokenKind) (Token, error) {
	token := p.next()
	if token.Kind != expected {
		if token.Kind == TokenEOF {
			return Token{}, p.errorf(token, "expected %s but ran out of tokens", expected)
		}
		return Token{}, p.errorf(token, "expected %s but got %s", expected, token.Kind)
	}
	return token, nil
}

// peek returns the current token without consuming it. The EOF sentinel is
// sticky: peeking past the end keeps returning it.
func (p *Parser) peek() Token {
	return p.peekAt(0)
}

func (p *Parser) peekAt(offset int) Token {
	if p.cursor+offset >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[p.cursor+offset]
}

func (p *Parser) next() Token {
	token := p.peek()
	if p.cursor < len(p.tokens)-1 {
		p.cursor++
	}
	return token
}

func (p *Parser) errorf(token Token, format string, args ...any) error {
	return fmt.Errorf("%s: %s", token.Span, fmt.Sprintf(format, args...))
}
