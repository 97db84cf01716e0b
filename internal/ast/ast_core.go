// Package ast defines the read-only AST contract the analyzer
// consumes. It is a plain data model — no parser lives here, and no
// analysis logic. A real front end would construct these nodes
// directly; tests in this repo build them by hand.
package ast

import "github.com/polarflow/polarflow/internal/token"

// Node is the base interface for all AST nodes.
type Node interface {
	TokenLiteral() string
	GetRange() token.Range
	Accept(v Visitor)
}

// Statement is a Node that represents a statement.
type Statement interface {
	Node
	statementNode()
}

// Expression is a Node that represents an expression.
type Expression interface {
	Node
	expressionNode()
}

// Program is the root node: a single analyzed source file.
type Program struct {
	Tok   token.Token
	Range token.Range
	Body  []Statement
}

func (p *Program) Accept(v Visitor)          { v.VisitProgram(p) }
func (p *Program) TokenLiteral() string      { return p.Tok.Lexeme }
func (p *Program) GetRange() token.Range     { return p.Range }

// VarKind distinguishes the three JS-shaped declaration forms. The
// other binding kinds diagnostics describe (param, function, class,
// import) are not VarKind values; internal/state tracks them as
// BindingKind.
type VarKind int

const (
	VarVar VarKind = iota
	VarLet
	VarConst
)

func (k VarKind) String() string {
	switch k {
	case VarVar:
		return "var"
	case VarLet:
		return "let"
	case VarConst:
		return "const"
	default:
		return "?"
	}
}
