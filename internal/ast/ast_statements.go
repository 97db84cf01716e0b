package ast

import "github.com/polarflow/polarflow/internal/token"

type BlockStatement struct {
	Tok   token.Token
	Range token.Range
	Body  []Statement
}

func (n *BlockStatement) Accept(v Visitor)      { v.VisitBlockStatement(n) }
func (n *BlockStatement) TokenLiteral() string  { return n.Tok.Lexeme }
func (n *BlockStatement) GetRange() token.Range { return n.Range }
func (n *BlockStatement) statementNode()        {}

type EmptyStatement struct {
	Tok   token.Token
	Range token.Range
}

func (n *EmptyStatement) Accept(v Visitor)      { v.VisitEmptyStatement(n) }
func (n *EmptyStatement) TokenLiteral() string  { return n.Tok.Lexeme }
func (n *EmptyStatement) GetRange() token.Range { return n.Range }
func (n *EmptyStatement) statementNode()        {}

type DebuggerStatement struct {
	Tok   token.Token
	Range token.Range
}

func (n *DebuggerStatement) Accept(v Visitor)      { v.VisitDebuggerStatement(n) }
func (n *DebuggerStatement) TokenLiteral() string  { return n.Tok.Lexeme }
func (n *DebuggerStatement) GetRange() token.Range { return n.Range }
func (n *DebuggerStatement) statementNode()        {}

type ExpressionStatement struct {
	Tok        token.Token
	Range      token.Range
	Expression Expression
}

func (n *ExpressionStatement) Accept(v Visitor)      { v.VisitExpressionStatement(n) }
func (n *ExpressionStatement) TokenLiteral() string  { return n.Tok.Lexeme }
func (n *ExpressionStatement) GetRange() token.Range { return n.Range }
func (n *ExpressionStatement) statementNode()        {}

// VariableDeclarator is one binding in a `var`/`let`/`const` list;
// Target is usually an *IdentifierPattern but may be an *ArrayPattern
// or *ObjectPattern for destructuring.
type VariableDeclarator struct {
	Target         Pattern
	TypeAnnotation TypeNode
	Init           Expression // nil for `let x;`
}

type VariableDeclaration struct {
	Tok          token.Token
	Range        token.Range
	Kind         VarKind
	Declarators  []VariableDeclarator
}

func (n *VariableDeclaration) Accept(v Visitor)      { v.VisitVariableDeclaration(n) }
func (n *VariableDeclaration) TokenLiteral() string  { return n.Tok.Lexeme }
func (n *VariableDeclaration) GetRange() token.Range { return n.Range }
func (n *VariableDeclaration) statementNode()        {}

// FunctionDeclaration is a named function in statement position;
// its binding is hoisted to the top of the enclosing scope.
type FunctionDeclaration struct {
	Tok       token.Token
	Range     token.Range
	Name      string
	Params    []Param
	ReturnAnn TypeNode
	Body      []Statement
	IsAsync   bool
	IsGen     bool
}

func (n *FunctionDeclaration) Accept(v Visitor)      { v.VisitFunctionDeclaration(n) }
func (n *FunctionDeclaration) TokenLiteral() string  { return n.Tok.Lexeme }
func (n *FunctionDeclaration) GetRange() token.Range { return n.Range }
func (n *FunctionDeclaration) statementNode()        {}

// ClassDeclaration is a named class in statement position (hoisted).
type ClassDeclaration struct {
	Tok        token.Token
	Range      token.Range
	Name       string
	SuperClass Expression
	Members    []ClassMember
}

func (n *ClassDeclaration) Accept(v Visitor)      { v.VisitClassDeclaration(n) }
func (n *ClassDeclaration) TokenLiteral() string  { return n.Tok.Lexeme }
func (n *ClassDeclaration) GetRange() token.Range { return n.Range }
func (n *ClassDeclaration) statementNode()        {}

// --- Control flow ---

type IfStatement struct {
	Tok        token.Token
	Range      token.Range
	Test       Expression
	Consequent Statement
	Alternate  Statement // nil, or another *IfStatement for else-if chains
}

func (n *IfStatement) Accept(v Visitor)      { v.VisitIfStatement(n) }
func (n *IfStatement) TokenLiteral() string  { return n.Tok.Lexeme }
func (n *IfStatement) GetRange() token.Range { return n.Range }
func (n *IfStatement) statementNode()        {}

type WhileStatement struct {
	Tok   token.Token
	Range token.Range
	Test  Expression
	Body  Statement
	Label string
}

func (n *WhileStatement) Accept(v Visitor)      { v.VisitWhileStatement(n) }
func (n *WhileStatement) TokenLiteral() string  { return n.Tok.Lexeme }
func (n *WhileStatement) GetRange() token.Range { return n.Range }
func (n *WhileStatement) statementNode()        {}

type DoWhileStatement struct {
	Tok   token.Token
	Range token.Range
	Body  Statement
	Test  Expression
	Label string
}

func (n *DoWhileStatement) Accept(v Visitor)      { v.VisitDoWhileStatement(n) }
func (n *DoWhileStatement) TokenLiteral() string  { return n.Tok.Lexeme }
func (n *DoWhileStatement) GetRange() token.Range { return n.Range }
func (n *DoWhileStatement) statementNode()        {}

// ForStatement is the classic C-style `for(init;test;update)`. Any of
// Init/Test/Update may be nil.
type ForStatement struct {
	Tok    token.Token
	Range  token.Range
	Init   Statement // *VariableDeclaration or *ExpressionStatement, or nil
	Test   Expression
	Update Expression
	Body   Statement
	Label  string
}

func (n *ForStatement) Accept(v Visitor)      { v.VisitForStatement(n) }
func (n *ForStatement) TokenLiteral() string  { return n.Tok.Lexeme }
func (n *ForStatement) GetRange() token.Range { return n.Range }
func (n *ForStatement) statementNode()        {}

// ForInOfStatement covers both `for (x in obj)` and `for (x of iter)`.
type ForInOfStatement struct {
	Tok        token.Token
	Range      token.Range
	Of         bool // true: for-of, false: for-in
	Kind       VarKind
	Target     Pattern // the loop variable binding
	Iterable   Expression
	Body       Statement
	Label      string
}

func (n *ForInOfStatement) Accept(v Visitor)      { v.VisitForInOfStatement(n) }
func (n *ForInOfStatement) TokenLiteral() string  { return n.Tok.Lexeme }
func (n *ForInOfStatement) GetRange() token.Range { return n.Range }
func (n *ForInOfStatement) statementNode()        {}

type SwitchCase struct {
	Test        Expression // nil for `default`
	Consequent  []Statement
}

type SwitchStatement struct {
	Tok          token.Token
	Range        token.Range
	Discriminant Expression
	Cases        []SwitchCase
	Label        string
}

func (n *SwitchStatement) Accept(v Visitor)      { v.VisitSwitchStatement(n) }
func (n *SwitchStatement) TokenLiteral() string  { return n.Tok.Lexeme }
func (n *SwitchStatement) GetRange() token.Range { return n.Range }
func (n *SwitchStatement) statementNode()        {}

type TryStatement struct {
	Tok         token.Token
	Range       token.Range
	Block       *BlockStatement
	CatchParam  Pattern // nil if `catch {}` with no binding
	CatchBody   *BlockStatement // nil if no catch clause
	FinallyBody *BlockStatement // nil if no finally clause
}

func (n *TryStatement) Accept(v Visitor)      { v.VisitTryStatement(n) }
func (n *TryStatement) TokenLiteral() string  { return n.Tok.Lexeme }
func (n *TryStatement) GetRange() token.Range { return n.Range }
func (n *TryStatement) statementNode()        {}

type ThrowStatement struct {
	Tok      token.Token
	Range    token.Range
	Argument Expression
}

func (n *ThrowStatement) Accept(v Visitor)      { v.VisitThrowStatement(n) }
func (n *ThrowStatement) TokenLiteral() string  { return n.Tok.Lexeme }
func (n *ThrowStatement) GetRange() token.Range { return n.Range }
func (n *ThrowStatement) statementNode()        {}

type ReturnStatement struct {
	Tok      token.Token
	Range    token.Range
	Argument Expression // nil for bare `return;`
}

func (n *ReturnStatement) Accept(v Visitor)      { v.VisitReturnStatement(n) }
func (n *ReturnStatement) TokenLiteral() string  { return n.Tok.Lexeme }
func (n *ReturnStatement) GetRange() token.Range { return n.Range }
func (n *ReturnStatement) statementNode()        {}

type BreakStatement struct {
	Tok   token.Token
	Range token.Range
	Label string // empty if unlabeled
}

func (n *BreakStatement) Accept(v Visitor)      { v.VisitBreakStatement(n) }
func (n *BreakStatement) TokenLiteral() string  { return n.Tok.Lexeme }
func (n *BreakStatement) GetRange() token.Range { return n.Range }
func (n *BreakStatement) statementNode()        {}

type ContinueStatement struct {
	Tok   token.Token
	Range token.Range
	Label string
}

func (n *ContinueStatement) Accept(v Visitor)      { v.VisitContinueStatement(n) }
func (n *ContinueStatement) TokenLiteral() string  { return n.Tok.Lexeme }
func (n *ContinueStatement) GetRange() token.Range { return n.Range }
func (n *ContinueStatement) statementNode()        {}

type LabeledStatement struct {
	Tok   token.Token
	Range token.Range
	Label string
	Body  Statement
}

func (n *LabeledStatement) Accept(v Visitor)      { v.VisitLabeledStatement(n) }
func (n *LabeledStatement) TokenLiteral() string  { return n.Tok.Lexeme }
func (n *LabeledStatement) GetRange() token.Range { return n.Range }
func (n *LabeledStatement) statementNode()        {}
