package solver

import (
	"github.com/polarflow/polarflow/internal/ast"
	"github.com/polarflow/polarflow/internal/cfg"
	"github.com/polarflow/polarflow/internal/state"
	"github.com/polarflow/polarflow/internal/types"
)

// hoist pre-binds every var and function declaration reachable from
// stmts without descending into nested function/class bodies, matching
// JS hoisting: a var is visible (as undefined) from the top of its
// enclosing function, and a function declaration is visible with its
// full signature before its textual position, so mutually recursive
// top-level functions can call one another regardless of declaration
// order. Function signatures are computed in two passes: every hoisted
// name is first bound to a placeholder so a forward or mutually
// recursive call resolves instead of reporting undefined, then each
// function's real signature is computed and rebound — a call to a
// not-yet-rebound sibling still only sees the placeholder, so a
// recursive/mutually-recursive call's argument or return type widens
// to any rather than being precisely inferred, a known gap symmetric
// with the one documented on class method self-reference.
func hoist(tr *state.Transferer, env *state.Env, stmts []ast.Statement) *state.Env {
	s := state.NewState(env)
	var funcDecls []*ast.FunctionDeclaration

	walkStmts(stmts, func(st ast.Statement) {
		switch n := st.(type) {
		case *ast.VariableDeclaration:
			if n.Kind != ast.VarVar {
				return
			}
			for _, d := range n.Declarators {
				for _, name := range patternNames(d.Target) {
					if _, exists := s.Env.Lookup(name); exists {
						continue
					}
					s.Env = s.Env.Declare(name, state.Binding{
						Name: name, Type: types.Undefined(), DeclSite: n.GetRange(),
						Kind: state.KindVar, DefinitelyAssigned: false,
					})
				}
			}
		case *ast.FunctionDeclaration:
			funcDecls = append(funcDecls, n)
			s.Env = s.Env.Declare(n.Name, state.Binding{
				Name: n.Name, Type: types.Any{Reason: "forward-declared function"}, DeclSite: n.GetRange(),
				Kind: state.KindFunction, DefinitelyAssigned: true,
			})
		}
	})

	for _, n := range funcDecls {
		s = tr.TransferBlock(s, []ast.Statement{n})
	}
	return s.Env
}

func patternNames(p ast.Pattern) []string {
	switch n := p.(type) {
	case *ast.IdentifierPattern:
		return []string{n.Name}
	case *ast.ArrayPattern:
		var out []string
		for _, el := range n.Elements {
			if el.Target == nil {
				continue
			}
			out = append(out, patternNames(el.Target)...)
		}
		return out
	case *ast.ObjectPattern:
		var out []string
		for _, prop := range n.Properties {
			out = append(out, patternNames(prop.Value)...)
		}
		return out
	default:
		return nil
	}
}

// walkStmts visits every statement reachable from stmts without
// crossing into a nested function, arrow, or class body, invoking
// visit on each one (including the compound statement itself, so a
// caller can match on *ast.VariableDeclaration etc. at any nesting
// depth).
func walkStmts(stmts []ast.Statement, visit func(ast.Statement)) {
	for _, st := range stmts {
		walkStmt(st, visit)
	}
}

func walkStmt(st ast.Statement, visit func(ast.Statement)) {
	visit(st)
	switch n := st.(type) {
	case *ast.BlockStatement:
		walkStmts(n.Body, visit)
	case *ast.IfStatement:
		walkStmt(n.Consequent, visit)
		if n.Alternate != nil {
			walkStmt(n.Alternate, visit)
		}
	case *ast.WhileStatement:
		walkStmt(n.Body, visit)
	case *ast.DoWhileStatement:
		walkStmt(n.Body, visit)
	case *ast.ForStatement:
		if vd, ok := n.Init.(*ast.VariableDeclaration); ok {
			visit(vd)
		}
		walkStmt(n.Body, visit)
	case *ast.ForInOfStatement:
		walkStmt(n.Body, visit)
	case *ast.SwitchStatement:
		for _, c := range n.Cases {
			walkStmts(c.Consequent, visit)
		}
	case *ast.TryStatement:
		walkStmts(n.Block.Body, visit)
		if n.CatchBody != nil {
			walkStmts(n.CatchBody.Body, visit)
		}
		if n.FinallyBody != nil {
			walkStmts(n.FinallyBody.Body, visit)
		}
	case *ast.LabeledStatement:
		walkStmt(n.Body, visit)
	}
}

// mutatedNames collects every identifier that is the target of an
// assignment expression (any assignment operator) found inside one of
// g's expression statements, descending through binary, logical,
// conditional, call and unary operands. It is used to decide which loop-header bindings need widening before the
// fixed point can stabilize in a handful of iterations.
func mutatedNames(g *cfg.Graph) map[string]bool {
	out := map[string]bool{}
	var scanExpr func(ast.Expression)
	scanExpr = func(e ast.Expression) {
		switch n := e.(type) {
		case *ast.AssignmentExpression:
			if id, ok := n.Target.(*ast.Identifier); ok {
				out[id.Name] = true
			}
			scanExpr(n.Value)
		case *ast.BinaryExpression:
			scanExpr(n.Left)
			scanExpr(n.Right)
		case *ast.LogicalExpression:
			scanExpr(n.Left)
			scanExpr(n.Right)
		case *ast.ConditionalExpression:
			scanExpr(n.Test)
			scanExpr(n.Consequent)
			scanExpr(n.Alternate)
		case *ast.CallExpression:
			scanExpr(n.Callee)
			for _, a := range n.Args {
				scanExpr(a)
			}
		case *ast.UnaryExpression:
			scanExpr(n.Operand)
		}
	}
	for _, blk := range g.Blocks {
		for _, st := range blk.Statements {
			if es, ok := st.(*ast.ExpressionStatement); ok {
				scanExpr(es.Expression)
			}
		}
	}
	return out
}
