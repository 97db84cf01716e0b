package ast

import "github.com/polarflow/polarflow/internal/token"

// TypeNode is an optional, source-level type annotation. The grammar
// has no mandatory type syntax; annotations are an opt-in hint the
// analyzer checks the inferred type against rather than a requirement
// — inference is the core job here, not checking.
type TypeNode interface {
	Node
	typeNode()
}

// NamedTypeNode references a type by name, e.g. `string`, `MyClass`.
type NamedTypeNode struct {
	Tok   token.Token
	Range token.Range
	Name  string
}

func (n *NamedTypeNode) Accept(v Visitor)      { v.VisitNamedTypeNode(n) }
func (n *NamedTypeNode) TokenLiteral() string  { return n.Tok.Lexeme }
func (n *NamedTypeNode) GetRange() token.Range { return n.Range }
func (n *NamedTypeNode) typeNode()             {}

// UnionTypeNode is `A | B | C`.
type UnionTypeNode struct {
	Tok     token.Token
	Range   token.Range
	Members []TypeNode
}

func (n *UnionTypeNode) Accept(v Visitor)      { v.VisitUnionTypeNode(n) }
func (n *UnionTypeNode) TokenLiteral() string  { return n.Tok.Lexeme }
func (n *UnionTypeNode) GetRange() token.Range { return n.Range }
func (n *UnionTypeNode) typeNode()             {}
