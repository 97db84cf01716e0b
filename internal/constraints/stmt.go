package constraints

import (
	"github.com/polarflow/polarflow/internal/ast"
	"github.com/polarflow/polarflow/internal/types"
)

// InferProgram runs every top-level statement through the generator in
// a fresh child of env, returning the resulting environment (useful
// for tests and for a caller that wants the generalized top-level
// bindings without re-running the whole program).
func (g *Generator) InferProgram(env *Env, stmts []ast.Statement) *Env {
	return g.inferStmts(env.Child(), stmts)
}

func (g *Generator) inferStmts(env *Env, stmts []ast.Statement) *Env {
	for _, s := range stmts {
		env = g.inferStmt(env, s)
	}
	return env
}

func (g *Generator) inferStmt(env *Env, stmt ast.Statement) *Env {
	switch n := stmt.(type) {
	case *ast.ExpressionStatement:
		g.InferExpr(env, n.Expression)
		return env

	case *ast.VariableDeclaration:
		return g.inferVarDecl(env, n)

	case *ast.FunctionDeclaration:
		return g.inferFunctionDecl(env, n)

	case *ast.ClassDeclaration:
		// See the ClassExpression case in InferExpr: class typing stays
		// with the direct-transfer front-end.
		return env.Declare(n.Name, Mono(types.Any{Reason: "class declaration not modeled in the constraint front-end"}))

	case *ast.BlockStatement:
		g.inferStmts(env.Child(), n.Body)
		return env

	case *ast.IfStatement:
		g.InferExpr(env, n.Test)
		g.inferStmt(env.Child(), n.Consequent)
		if n.Alternate != nil {
			g.inferStmt(env.Child(), n.Alternate)
		}
		return env

	case *ast.WhileStatement:
		g.InferExpr(env, n.Test)
		g.inferStmt(env.Child(), n.Body)
		return env

	case *ast.DoWhileStatement:
		g.inferStmt(env.Child(), n.Body)
		g.InferExpr(env, n.Test)
		return env

	case *ast.ForStatement:
		loopEnv := env.Child()
		if n.Init != nil {
			loopEnv = g.inferStmt(loopEnv, n.Init)
		}
		if n.Test != nil {
			g.InferExpr(loopEnv, n.Test)
		}
		if n.Update != nil {
			g.InferExpr(loopEnv, n.Update)
		}
		g.inferStmt(loopEnv.Child(), n.Body)
		return env

	case *ast.ForInOfStatement:
		iterT := g.InferExpr(env, n.Iterable)
		loopEnv := env.Child()
		var elemT types.Type
		if n.Of {
			elemT = g.fresh()
			g.emit(iterT, types.Array{Element: elemT}, n.GetRange(), "for-of iterable")
		} else {
			elemT = types.Str()
		}
		loopEnv = g.bindPattern(loopEnv, n.Target, elemT, false)
		g.inferStmt(loopEnv.Child(), n.Body)
		return env

	case *ast.SwitchStatement:
		g.InferExpr(env, n.Discriminant)
		for _, c := range n.Cases {
			if c.Test != nil {
				g.InferExpr(env, c.Test)
			}
			g.inferStmts(env.Child(), c.Consequent)
		}
		return env

	case *ast.TryStatement:
		g.inferStmts(env.Child(), n.Block.Body)
		if n.CatchBody != nil {
			catchEnv := env.Child()
			if n.CatchParam != nil {
				catchEnv = g.bindPattern(catchEnv, n.CatchParam, types.Any{Reason: "caught exception"}, false)
			}
			g.inferStmts(catchEnv, n.CatchBody.Body)
		}
		if n.FinallyBody != nil {
			g.inferStmts(env.Child(), n.FinallyBody.Body)
		}
		return env

	case *ast.ThrowStatement:
		g.InferExpr(env, n.Argument)
		return env

	case *ast.ReturnStatement:
		var argT types.Type
		if n.Argument == nil {
			argT = types.Undefined()
		} else {
			argT = g.InferExpr(env, n.Argument)
		}
		if g.returnVar != nil {
			g.emit(argT, *g.returnVar, n.GetRange(), "return")
		}
		return env

	case *ast.LabeledStatement:
		g.inferStmt(env, n.Body)
		return env

	case *ast.BreakStatement, *ast.ContinueStatement, *ast.EmptyStatement, *ast.DebuggerStatement:
		return env

	default:
		return env
	}
}

// inferVarDecl implements `let x = e`: fresh α; ⟨type(e) ≤ α⟩; bind x
// to the scheme generalizing α over variables free in α but not in
// env. A declarator with no initializer can't be generalized (there is
// no body to infer a useful scheme from) and binds monomorphically to
// undefined, mirroring the direct-transfer front-end's `let x;`
// handling.
func (g *Generator) inferVarDecl(env *Env, n *ast.VariableDeclaration) *Env {
	for _, d := range n.Declarators {
		if d.Init == nil {
			env = g.bindPattern(env, d.Target, types.Undefined(), true)
			continue
		}
		g.level++
		initT := g.InferExpr(env, d.Init)
		g.level--

		alpha := g.fresh()
		g.emit(initT, alpha, d.Init.GetRange(), "let binding")
		env = g.bindGeneralized(env, d.Target, alpha)
	}
	return env
}

// bindGeneralized generalizes t over env and binds it to pattern's
// name(s). Destructuring targets bind each projected field
// monomorphically instead of generalizing per-field independently,
// since MLsub's polar lattice does not give a destructured projection
// its own, separately quantifiable type the way a direct let-bound
// name does — this mirrors the same simplification internal/state's
// bindPattern makes for its own, monomorphic environment.
func (g *Generator) bindGeneralized(env *Env, pattern ast.Pattern, t types.Type) *Env {
	if id, ok := pattern.(*ast.IdentifierPattern); ok {
		sc := Generalize(t, env)
		return env.Declare(id.Name, sc)
	}
	return g.bindPattern(env, pattern, t, true)
}

// bindPattern distributes t across pattern monomorphically: a plain
// identifier binds t directly; array/object patterns read projected
// slots the same way internal/state's bindPattern does, widened to any
// where the projection can't be expressed as a single flow constraint
// without first resolving t through biunification.
func (g *Generator) bindPattern(env *Env, pattern ast.Pattern, t types.Type, definitelyAssigned bool) *Env {
	switch p := pattern.(type) {
	case *ast.IdentifierPattern:
		final := t
		if p.Default != nil {
			dt := g.InferExpr(env, p.Default)
			final = types.Union([]types.Type{t, dt})
		}
		return env.Declare(p.Name, Mono(final))

	case *ast.ArrayPattern:
		elem := g.fresh()
		g.emit(t, types.Array{Element: elem}, p.GetRange(), "array destructuring")
		for _, el := range p.Elements {
			if el.Target == nil {
				continue
			}
			if el.Rest {
				env = g.bindPattern(env, el.Target, types.Array{Element: elem}, true)
				continue
			}
			env = g.bindPattern(env, el.Target, elem, definitelyAssigned)
		}
		return env

	case *ast.ObjectPattern:
		for _, prop := range p.Properties {
			if prop.Rest {
				env = g.bindPattern(env, prop.Value, types.Any{Reason: "rest-destructured object residual"}, true)
				continue
			}
			fieldVar := g.fresh()
			shape := types.NewRecord([]string{prop.Key}, map[string]types.RecordField{prop.Key: {Type: fieldVar}})
			g.emit(t, shape, p.GetRange(), "object destructuring ."+prop.Key)
			env = g.bindPattern(env, prop.Value, fieldVar, definitelyAssigned)
		}
		return env

	default:
		return env
	}
}

// inferFunctionDecl binds a function declaration's name to the
// generalization of its own inferred signature — generalizing a
// function literal the same way `let f = function(){...}` would, so a
// generic top-level helper can be used at more than one instantiation.
// The name is pre-bound monomorphically to a fresh variable before the
// body is walked so a recursive self-call resolves instead of reading
// as undefined; the real inferred signature then flows into that
// variable, and it is the variable — not the signature directly —
// that gets generalized.
func (g *Generator) inferFunctionDecl(env *Env, n *ast.FunctionDeclaration) *Env {
	selfVar := g.fresh()
	recEnv := env.Declare(n.Name, Mono(selfVar))
	g.level++
	fn := g.inferFunctionLiteral(recEnv, n.Params, n.ReturnAnn, n.Body, nil, n.IsAsync, n.IsGen)
	g.level--
	g.emit(fn, selfVar, n.GetRange(), "recursive function binding")
	return env.Declare(n.Name, Generalize(selfVar, env))
}
