package constraints

import (
	"github.com/polarflow/polarflow/internal/ast"
	"github.com/polarflow/polarflow/internal/types"
)

// InferExpr walks e producing its flow type and appending every
// constraint the walk required to g's accumulator. The returned type
// is always the expression's positive-position (producer) type — the
// τ+ side of any constraint a caller builds against it.
func (g *Generator) InferExpr(env *Env, e ast.Expression) types.Type {
	switch n := e.(type) {
	case *ast.NullLiteral:
		return types.Null()
	case *ast.UndefinedLiteral:
		return types.Undefined()
	case *ast.BoolLiteral:
		return types.BoolLit(n.Value)
	case *ast.NumberLiteral:
		return types.NumLit(n.Value)
	case *ast.StringLiteral:
		return types.StrLit(n.Value)
	case *ast.BigIntLiteral:
		return types.BigInt()
	case *ast.RegexLiteral:
		return types.Any{Reason: "regex literal"}
	case *ast.TemplateLiteral:
		for _, sub := range n.Expressions {
			g.InferExpr(env, sub)
		}
		return types.Str()

	case *ast.Identifier:
		sc, ok := env.Lookup(n.Name)
		if !ok {
			return types.Any{Reason: "undefined variable " + n.Name}
		}
		return Instantiate(sc, g.arena, g.level)

	case *ast.ThisExpression:
		sc, ok := env.Lookup("this")
		if !ok {
			return types.Any{Reason: "this outside a method"}
		}
		return Instantiate(sc, g.arena, g.level)
	case *ast.SuperExpression:
		return types.Any{Reason: "super is not modeled"}

	case *ast.MemberExpression:
		return g.inferMember(env, n)
	case *ast.IndexExpression:
		return g.inferIndex(env, n)

	case *ast.UnaryExpression:
		return g.inferUnary(env, n)
	case *ast.BinaryExpression:
		return g.inferBinary(env, n)
	case *ast.LogicalExpression:
		lt := g.InferExpr(env, n.Left)
		rt := g.InferExpr(env, n.Right)
		return types.Union([]types.Type{lt, rt})
	case *ast.ConditionalExpression:
		g.InferExpr(env, n.Test)
		ct := g.InferExpr(env, n.Consequent)
		at := g.InferExpr(env, n.Alternate)
		return types.Union([]types.Type{ct, at})
	case *ast.AssignmentExpression:
		return g.inferAssignment(env, n)
	case *ast.SpreadElement:
		return g.InferExpr(env, n.Argument)

	case *ast.CallExpression:
		return g.inferCall(env, n)
	case *ast.NewExpression:
		return g.inferNew(env, n)

	case *ast.ArrayLiteral:
		return g.inferArrayLiteral(env, n)
	case *ast.ObjectLiteral:
		return g.inferObjectLiteral(env, n)

	case *ast.FunctionExpression:
		return g.inferFunctionLiteral(env, n.Params, n.ReturnAnn, n.Body, nil, n.IsAsync, n.IsGen)
	case *ast.ArrowFunctionExpression:
		return g.inferFunctionLiteral(env, n.Params, n.ReturnAnn, n.Body, n.ExprBody, n.IsAsync, false)

	case *ast.ClassExpression:
		// Class typing (nominal identity, member synthesis) belongs to
		// the direct-transfer front-end; the constraint path widens a
		// class expression's own type rather than duplicating that pass.
		return types.Any{Reason: "class expression not modeled in the constraint front-end"}

	default:
		return types.Any{Reason: "unrecognized expression"}
	}
}

// inferMember implements `e.ℓ`: fresh ρ; ⟨type(e) ≤ {ℓ: ρ}⟩.
func (g *Generator) inferMember(env *Env, n *ast.MemberExpression) types.Type {
	objT := g.InferExpr(env, n.Object)
	rho := g.fresh()
	shape := types.NewRecord([]string{n.Property}, map[string]types.RecordField{
		n.Property: {Type: rho},
	})
	g.emit(objT, shape, n.GetRange(), "member access ."+n.Property)
	if n.Optional {
		return types.Union([]types.Type{rho, types.Undefined()})
	}
	return rho
}

// inferIndex handles `e[i]`: a literal string index behaves like
// member access (a known field name); anything else is treated as an
// array element read, since that is the only indexable shape this
// front-end tracks structurally.
func (g *Generator) inferIndex(env *Env, n *ast.IndexExpression) types.Type {
	objT := g.InferExpr(env, n.Object)
	if lit, ok := n.Index.(*ast.StringLiteral); ok {
		g.InferExpr(env, n.Index)
		rho := g.fresh()
		shape := types.NewRecord([]string{lit.Value}, map[string]types.RecordField{
			lit.Value: {Type: rho},
		})
		g.emit(objT, shape, n.GetRange(), "index access [\""+lit.Value+"\"]")
		return rho
	}
	g.InferExpr(env, n.Index)
	rho := g.fresh()
	g.emit(objT, types.Array{Element: rho}, n.GetRange(), "index access")
	return rho
}

func (g *Generator) inferUnary(env *Env, n *ast.UnaryExpression) types.Type {
	operandT := g.InferExpr(env, n.Operand)
	switch n.Operator {
	case "!":
		return types.Bool()
	case "typeof":
		return types.Str()
	case "void":
		return types.Undefined()
	case "delete":
		return types.Bool()
	case "+", "-", "~":
		g.emit(operandT, types.Num(), n.GetRange(), "unary "+n.Operator+" operand")
		return types.Num()
	default:
		return types.Any{Reason: "unrecognized unary operator"}
	}
}

func (g *Generator) inferBinary(env *Env, n *ast.BinaryExpression) types.Type {
	lt := g.InferExpr(env, n.Left)
	rt := g.InferExpr(env, n.Right)
	switch n.Operator {
	case "+":
		// `+` is overloaded between string concatenation and numeric
		// addition in the source language, so neither operand is
		// constrained here; the result stays the full string|number
		// union instead of narrowing to an upper bound that would reject
		// one of the two valid uses.
		return types.Union([]types.Type{types.Str(), types.Num()})
	case "-", "*", "/", "%", "**", "&", "|", "^", "<<", ">>", ">>>":
		g.emit(lt, types.Num(), n.GetRange(), "binary "+n.Operator+" left operand")
		g.emit(rt, types.Num(), n.GetRange(), "binary "+n.Operator+" right operand")
		return types.Num()
	case "==", "!=", "===", "!==", "<", "<=", ">", ">=", "in", "instanceof":
		return types.Bool()
	default:
		return types.Any{Reason: "unrecognized binary operator"}
	}
}

func (g *Generator) inferAssignment(env *Env, n *ast.AssignmentExpression) types.Type {
	vt := g.InferExpr(env, n.Value)
	targetT := g.InferExpr(env, n.Target)
	switch n.Operator {
	case "=":
		g.emit(vt, targetT, n.GetRange(), "assignment")
	case "+=":
		// No constraint is emitted, for the same reason as binary
		// `+`: the target's own type already bounds what's valid.
	case "-=", "*=", "/=", "%=", "**=", "&=", "|=", "^=", "<<=", ">>=", ">>>=":
		g.emit(vt, types.Num(), n.GetRange(), "compound assignment "+n.Operator)
	case "&&=", "||=", "??=":
	}
	return vt
}

// inferCall implements `f(e1,…,en)`: fresh ρ; ⟨type(f) ≤
// (e1,…,en) → ρ⟩.
func (g *Generator) inferCall(env *Env, n *ast.CallExpression) types.Type {
	calleeT := g.InferExpr(env, n.Callee)
	argTypes := make([]types.Type, len(n.Args))
	for i, a := range n.Args {
		argTypes[i] = g.InferExpr(env, a)
	}
	rho := g.fresh()
	params := make([]types.FuncParam, len(argTypes))
	for i, at := range argTypes {
		params[i] = types.FuncParam{Name: "_", Type: at}
	}
	required := types.Function{Params: params, Return: rho}
	g.emit(calleeT, required, n.GetRange(), "call")
	if n.Optional {
		return types.Union([]types.Type{rho, types.Undefined()})
	}
	return rho
}

// inferNew treats construction like a call whose callee must be
// callable with `new`: the structural shape biunify checks against is
// the same function-arity/argument-type constraint a plain call uses,
// since this front-end doesn't carry a separate nominal-class
// constructor constraint form the way internal/state's direct
// transfer does via *types.Class.
func (g *Generator) inferNew(env *Env, n *ast.NewExpression) types.Type {
	calleeT := g.InferExpr(env, n.Callee)
	argTypes := make([]types.Type, len(n.Args))
	for i, a := range n.Args {
		argTypes[i] = g.InferExpr(env, a)
	}
	rho := g.fresh()
	params := make([]types.FuncParam, len(argTypes))
	for i, at := range argTypes {
		params[i] = types.FuncParam{Name: "_", Type: at}
	}
	required := types.Function{Params: params, Return: rho}
	g.emit(calleeT, required, n.GetRange(), "construction")
	return rho
}

func (g *Generator) inferArrayLiteral(env *Env, n *ast.ArrayLiteral) types.Type {
	tuple := make([]types.Type, 0, len(n.Elements))
	sawSpread := false
	for _, el := range n.Elements {
		if spread, ok := el.(*ast.SpreadElement); ok {
			sawSpread = true
			at := g.InferExpr(env, spread.Argument)
			elem := g.fresh()
			g.emit(at, types.Array{Element: elem}, spread.GetRange(), "array spread element")
			tuple = append(tuple, elem)
			continue
		}
		tuple = append(tuple, g.InferExpr(env, el))
	}
	if sawSpread {
		return types.Array{Element: types.Union(tuple)}
	}
	return types.Array{Tuple: tuple, Element: types.Union(tuple)}
}

func (g *Generator) inferObjectLiteral(env *Env, n *ast.ObjectLiteral) types.Type {
	order := make([]string, 0, len(n.Properties))
	fields := make(map[string]types.RecordField, len(n.Properties))
	for _, p := range n.Properties {
		if spread, ok := p.Value.(*ast.SpreadElement); ok {
			at := g.InferExpr(env, spread.Argument)
			if rec, ok := at.(types.Record); ok {
				for _, name := range rec.Names() {
					f, _ := rec.Field(name)
					if _, exists := fields[name]; !exists {
						order = append(order, name)
					}
					fields[name] = f
				}
			}
			continue
		}
		vt := g.InferExpr(env, p.Value)
		if _, exists := fields[p.Key]; !exists {
			order = append(order, p.Key)
		}
		fields[p.Key] = types.RecordField{Type: vt}
	}
	return types.NewRecord(order, fields)
}

// inferFunctionLiteral builds a Function type for a function/arrow
// body: each unannotated parameter gets a fresh variable (so calls at
// different argument types can each flow their own constraint into
// it), and the body is inferred in a child environment with a fresh
// result variable that every `return e` inside it flows into.
func (g *Generator) inferFunctionLiteral(env *Env, params []ast.Param, returnAnn ast.TypeNode, body []ast.Statement, exprBody ast.Expression, async, gen bool) types.Function {
	childEnv := env.Child()
	funcParams := make([]types.FuncParam, 0, len(params))
	for _, p := range params {
		var pt types.Type
		if p.TypeAnnotation != nil {
			pt = resolveAnnotation(p.TypeAnnotation)
		} else {
			pt = g.fresh()
		}
		childEnv = childEnv.Declare(firstIdentifierName(p.Pattern), Mono(pt))
		funcParams = append(funcParams, types.FuncParam{Name: firstIdentifierName(p.Pattern), Type: pt, Optional: p.Optional, Rest: p.Rest})
	}

	savedReturnVar := g.returnVar
	resultVar := g.fresh()
	g.returnVar = &resultVar
	defer func() { g.returnVar = savedReturnVar }()

	var ret types.Type
	switch {
	case returnAnn != nil:
		ret = resolveAnnotation(returnAnn)
	case exprBody != nil:
		bodyT := g.InferExpr(childEnv, exprBody)
		g.emit(bodyT, resultVar, exprBody.GetRange(), "arrow concise body")
		ret = resultVar
	default:
		// A function that falls off its end returns undefined, the same
		// as every explicit `return e` flowing into resultVar below.
		g.emit(types.Undefined(), resultVar, nodeRangeOf(body), "implicit fall-through return")
		g.inferStmts(childEnv, body)
		ret = resultVar
	}
	return types.Function{Params: funcParams, Return: ret, Async: async, Generator: gen}
}
