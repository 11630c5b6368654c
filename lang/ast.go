package lang

import (
	"fmt"
	"strings"
)

// ExpressionID is an index into the AST's expression arena. Nested
// expressions reference each other by ID instead of by pointer, which keeps
// the tree acyclic and cheap to share.
type ExpressionID int

// ExpressionKind tags the nine expression variants.
// Exhaustive: every dispatcher over ExpressionKind must handle all nine.
type ExpressionKind uint8

const (
	ExprCall ExpressionKind = iota
	ExprStringLiteral
	ExprNumber
	ExprList
	ExprTuple
	ExprVariable
	ExprConstant
	ExprRange
	ExprFor
)

func (k ExpressionKind) String() string {
	switch k {
	case ExprCall:
		return "Call"
	case ExprStringLiteral:
		return "StringLiteral"
	case ExprNumber:
		return "Number"
	case ExprList:
		return "List"
	case ExprTuple:
		return "Tuple"
	case ExprVariable:
		return "Variable"
	case ExprConstant:
		return "Constant"
	case ExprRange:
		return "Range"
	case ExprFor:
		return "For"
	default:
		panic(fmt.Sprintf("unhandled expression kind %d", uint8(k)))
	}
}

// Expression is one arena slot. Which payload fields are meaningful depends
// on Kind:
//
//	Call          Name (callee), Elements (arguments)
//	StringLiteral Literal
//	Number        Literal
//	List, Tuple   Elements
//	Variable      Name
//	Constant      Name, Value
//	Range         RangeStart, RangeEnd (number tokens, half-open)
//	For           Name (binding), Value (range expression), Elements (body)
type Expression struct {
	Kind ExpressionKind
	Span Span
	ID   ExpressionID

	Name       Token
	Literal    Token
	Value      ExpressionID
	RangeStart Token
	RangeEnd   Token
	Elements   []ExpressionID
}

// Statement wraps a top-level expression. A single variant, kept as its own
// type so statements can grow structure without touching the arena.
type Statement struct {
	ID   ExpressionID
	Span Span
}

// Ast owns the statement list and the expression arena.
type Ast struct {
	Statements  []Statement
	Expressions []Expression
}

// ExpressionByID resolves an arena index.
func (a *Ast) ExpressionByID(id ExpressionID) Expression {
	return a.Expressions[id]
}

// emplaceExpression appends expr to the arena, assigning its ID.
func (a *Ast) emplaceExpression(expr Expression) Expression {
	expr.ID = ExpressionID(len(a.Expressions))
	a.Expressions = append(a.Expressions, expr)
	return expr
}

func (e Expression) String() string {
	joinIDs := func(ids []ExpressionID) string {
		parts := make([]string, len(ids))
		for i, id := range ids {
			parts[i] = fmt.Sprintf("#%d", id)
		}
		return strings.Join(parts, ", ")
	}

	switch e.Kind {
	case ExprCall:
		return fmt.Sprintf("Call { name = %s, arguments = [%s] }", e.Name.Lexeme, joinIDs(e.Elements))
	case ExprStringLiteral:
		return fmt.Sprintf("StringLiteral { literal = %q }", e.Literal.Lexeme)
	case ExprNumber:
		return fmt.Sprintf("Number { number = %s }", e.Literal.Lexeme)
	case ExprList:
		return fmt.Sprintf("List { elements = [%s] }", joinIDs(e.Elements))
	case ExprTuple:
		return fmt.Sprintf("Tuple { elements = [%s] }", joinIDs(e.Elements))
	case ExprVariable:
		return fmt.Sprintf("Variable { name = %s }", e.Name.Lexeme)
	case ExprConstant:
		return fmt.Sprintf("Constant { name = %s, value = #%d }", e.Name.Lexeme, e.Value)
	case ExprRange:
		return fmt.Sprintf("Range { start = %s, end = %s }", e.RangeStart.Lexeme, e.RangeEnd.Lexeme)
	case ExprFor:
		return fmt.Sprintf("For { binding = %s, range = #%d, body = [%s] }", e.Name.Lexeme, e.Value, joinIDs(e.Elements))
	default:
		panic(fmt.Sprintf("unhandled expression kind %d", uint8(e.Kind)))
	}
}
