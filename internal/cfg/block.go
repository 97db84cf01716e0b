// Package cfg lowers a statement list to a control-flow graph of basic
// blocks with explicit terminators and typed edges.
package cfg

import "github.com/polarflow/polarflow/internal/ast"

// BlockID is an arena handle ("arenas with integer handles").
type BlockID int

// NarrowCond is an edge's optional narrowing condition: the expression
// known to be truthy (or falsy) along that edge.
type NarrowCond struct {
	Expr       ast.Expression
	WhenTruthy bool
}

// JumpKind distinguishes a resolved break from a resolved continue.
type JumpKind int

const (
	JumpBreak JumpKind = iota
	JumpContinue
)

// Terminator is the closed set of basic-block terminators. Every
// variant below implements Successors() so dominator computation and
// RPO never need a kind switch of their own.
type Terminator interface {
	isTerminator()
	Successors() []BlockID
}

// FallthroughTerm is an unconditional jump to the next block.
type FallthroughTerm struct {
	Next BlockID
}

func (FallthroughTerm) isTerminator()            {}
func (t FallthroughTerm) Successors() []BlockID  { return []BlockID{t.Next} }

// BranchTerm is an `if`-shaped two-way conditional terminator.
type BranchTerm struct {
	Cond Condition
	Then BlockID
	Else BlockID
}

func (BranchTerm) isTerminator()           {}
func (t BranchTerm) Successors() []BlockID { return []BlockID{t.Then, t.Else} }

// Condition is the test expression a Branch terminator carries. A
// normal condition is just the AST expression; HasNext marks the
// synthetic for-in/for-of "has more elements" proxy the first Open
// Question asks for.
type Condition struct {
	Expr    ast.Expression
	HasNext bool // true: this condition is a synthesized for-in/for-of proxy over Expr
}

// SwitchEdge is one (test, target) pair of a Switch terminator.
type SwitchEdge struct {
	Test   ast.Expression
	Target BlockID
}

// SwitchTerm carries the ordered case list and a default target;
// C-style fallthrough between cases must be preserved.
type SwitchTerm struct {
	Discriminant ast.Expression
	Cases        []SwitchEdge
	Default      BlockID
}

func (SwitchTerm) isTerminator() {}
func (t SwitchTerm) Successors() []BlockID {
	out := make([]BlockID, 0, len(t.Cases)+1)
	for _, c := range t.Cases {
		out = append(out, c.Target)
	}
	out = append(out, t.Default)
	return out
}

// ReturnTerm exits the current function; Argument is nil for a bare
// `return;`.
type ReturnTerm struct {
	Argument ast.Expression
}

func (ReturnTerm) isTerminator()           {}
func (ReturnTerm) Successors() []BlockID   { return nil }

// ThrowTerm exits to the nearest enclosing catch, or out of the
// function entirely when Handler is nil.
type ThrowTerm struct {
	Argument ast.Expression
	Handler  *BlockID
}

func (ThrowTerm) isTerminator() {}
func (t ThrowTerm) Successors() []BlockID {
	if t.Handler == nil {
		return nil
	}
	return []BlockID{*t.Handler}
}

// JumpTerm is a break/continue resolved to a concrete target block at
// build time.
type JumpTerm struct {
	Target BlockID
	Kind   JumpKind
	Label  string
}

func (JumpTerm) isTerminator()           {}
func (t JumpTerm) Successors() []BlockID { return []BlockID{t.Target} }

// UnresolvedJumpTerm marks a break/continue with no enclosing loop or
// switch: the block has no successor at all. Real source never
// reaches this — a parser rejects the break/continue first — but a
// hand-built or fixture-derived CFG can still hit it, so the builder
// degrades to a dead-end block instead of panicking.
type UnresolvedJumpTerm struct {
	Kind  JumpKind
	Label string
}

func (UnresolvedJumpTerm) isTerminator()         {}
func (UnresolvedJumpTerm) Successors() []BlockID { return nil }

// TryTerm references the four try/catch/finally children.
type TryTerm struct {
	TryBlock         BlockID
	CatchBlock       *BlockID // nil if no catch clause
	FinallyBlock     *BlockID // nil if no finally clause
	Continuation     BlockID  // where control resumes after try/catch/finally
	CatchBindingName string
}

func (TryTerm) isTerminator() {}
func (t TryTerm) Successors() []BlockID {
	out := []BlockID{t.TryBlock}
	if t.CatchBlock != nil {
		out = append(out, *t.CatchBlock)
	}
	if t.FinallyBlock != nil {
		out = append(out, *t.FinallyBlock)
	}
	return out
}

// Block is an ordered statement sequence plus exactly one terminator
// once construction finishes.
type Block struct {
	ID         BlockID
	Statements []ast.Statement
	Terminator Terminator
	// Unreachable marks a block created only because source statements
	// followed an already-written terminator in the same source block.
	Unreachable bool
}
