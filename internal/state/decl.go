package state

import (
	"github.com/polarflow/polarflow/internal/ast"
	"github.com/polarflow/polarflow/internal/config"
	"github.com/polarflow/polarflow/internal/types"
)

func (tr *Transferer) transferVarDecl(s State, n *ast.VariableDeclaration) State {
	kind := FromVarKind(n.Kind)
	for _, d := range n.Declarators {
		var t types.Type
		assigned := d.Init != nil
		if d.Init != nil {
			t, s = tr.eval(s, d.Init)
		} else {
			t = types.Undefined()
		}
		s = tr.bindPattern(s, d.Target, t, kind, assigned)
	}
	return s
}

// bindPattern distributes t across pattern element-wise: a plain
// identifier binds directly (applying its default when t could be
// undefined); an array pattern reads tuple slots positionally (or the
// shared element type past a tuple's length) with a rest element
// getting the residual array type; an object pattern reads named
// fields, with a rest property getting every field the pattern didn't
// name.
func (tr *Transferer) bindPattern(s State, pattern ast.Pattern, t types.Type, kind BindingKind, definitelyAssigned bool) State {
	switch p := pattern.(type) {
	case *ast.IdentifierPattern:
		final := t
		if p.Default != nil {
			dt, s2 := tr.eval(s, p.Default)
			s = s2
			final = types.Union([]types.Type{stripUndefined(t), dt})
			definitelyAssigned = true
		}
		s.Env = s.Env.Declare(p.Name, Binding{Name: p.Name, Type: final, DeclSite: p.GetRange(), Kind: kind, DefinitelyAssigned: definitelyAssigned})
		return s

	case *ast.ArrayPattern:
		elemType, tuple := arrayShape(t)
		for i, el := range p.Elements {
			if el.Target == nil {
				continue // elision
			}
			if el.Rest {
				var residual []types.Type
				if tuple != nil && i < len(tuple) {
					residual = tuple[i:]
				}
				restType := types.Array{Element: elemType}
				if residual != nil {
					restType = types.Array{Tuple: residual, Element: types.Union(residual)}
				}
				s = tr.bindPattern(s, el.Target, restType, kind, true)
				continue
			}
			var slot types.Type
			if tuple != nil && i < len(tuple) {
				slot = tuple[i]
			} else {
				slot = elemType
			}
			s = tr.bindPattern(s, el.Target, slot, kind, definitelyAssigned)
		}
		return s

	case *ast.ObjectPattern:
		named := map[string]bool{}
		for _, prop := range p.Properties {
			if prop.Rest {
				continue
			}
			named[prop.Key] = true
		}
		for _, prop := range p.Properties {
			if prop.Rest {
				s = tr.bindPattern(s, prop.Value, residualRecord(t, named), kind, true)
				continue
			}
			ft, ok := recordFieldType(t, prop.Key)
			if !ok {
				ft = types.Any{Reason: "missing destructured property"}
			}
			s = tr.bindPattern(s, prop.Value, ft, kind, definitelyAssigned)
		}
		return s

	default:
		return s
	}
}

func stripUndefined(t types.Type) types.Type {
	members := unionMembers(t)
	kept := make([]types.Type, 0, len(members))
	for _, m := range members {
		if p, ok := m.(types.Primitive); ok && p.Base == config.UndefinedBase {
			continue
		}
		kept = append(kept, m)
	}
	return types.Union(kept)
}

func arrayShape(t types.Type) (elem types.Type, tuple []types.Type) {
	arr, ok := t.(types.Array)
	if !ok {
		return types.Any{Reason: "destructuring a non-array"}, nil
	}
	return arr.Element, arr.Tuple
}

func residualRecord(t types.Type, named map[string]bool) types.Type {
	rec, ok := t.(types.Record)
	if !ok {
		return types.Any{Reason: "rest-destructuring a non-record"}
	}
	order := make([]string, 0, rec.Len())
	fields := make(map[string]types.RecordField, rec.Len())
	for _, name := range rec.Names() {
		if named[name] {
			continue
		}
		f, _ := rec.Field(name)
		order = append(order, name)
		fields[name] = f
	}
	return types.NewRecord(order, fields)
}

func (tr *Transferer) transferFunctionDecl(s State, n *ast.FunctionDeclaration) State {
	fn := tr.functionType(n.Params, n.ReturnAnn, n.Body, nil, s.Env, n.IsAsync, n.IsGen)
	s.Env = s.Env.Declare(n.Name, Binding{Name: n.Name, Type: fn, DeclSite: n.GetRange(), Kind: KindFunction, DefinitelyAssigned: true})
	return s
}

// functionType builds a Function type for a function/arrow body: each
// parameter's type comes from its annotation, falling back to Any for
// one left for inference to widen later; the return type comes from
// the annotation, the arrow's concise body, or an inference pass over
// the block body's return statements.
func (tr *Transferer) functionType(params []ast.Param, returnAnn ast.TypeNode, body []ast.Statement, exprBody ast.Expression, outerEnv *Env, async, gen bool) types.Function {
	childEnv := outerEnv.Child()
	funcParams := make([]types.FuncParam, 0, len(params))
	paramState := NewState(childEnv)
	for _, p := range params {
		var pt types.Type
		if p.TypeAnnotation != nil {
			pt = resolveTypeAnnotation(p.TypeAnnotation)
		} else {
			pt = types.Any{Reason: "unannotated parameter"}
		}
		paramState = tr.bindPattern(paramState, p.Pattern, pt, KindParam, true)
		funcParams = append(funcParams, types.FuncParam{Name: firstIdentifierName(p.Pattern), Type: pt, Optional: p.Optional, Rest: p.Rest})
	}

	var ret types.Type
	switch {
	case returnAnn != nil:
		ret = resolveTypeAnnotation(returnAnn)
	case exprBody != nil:
		ret, _ = tr.eval(paramState, exprBody)
	default:
		ret = tr.inferReturnType(paramState, body)
	}
	return types.Function{Params: funcParams, Return: ret, Async: async, Generator: gen}
}

// inferReturnType walks body structurally (not a full CFG pass) to
// collect every return statement's argument type and unions them; a
// function with no return, or only bare returns, infers undefined.
func (tr *Transferer) inferReturnType(s State, body []ast.Statement) types.Type {
	var found []types.Type
	var walkStmts func([]ast.Statement)
	var walkStmt func(ast.Statement)
	walkStmts = func(stmts []ast.Statement) {
		for _, st := range stmts {
			walkStmt(st)
		}
	}
	walkStmt = func(st ast.Statement) {
		switch n := st.(type) {
		case *ast.ReturnStatement:
			if n.Argument == nil {
				found = append(found, types.Undefined())
				return
			}
			t, _ := tr.eval(s, n.Argument)
			found = append(found, t)
		case *ast.BlockStatement:
			walkStmts(n.Body)
		case *ast.IfStatement:
			walkStmt(n.Consequent)
			if n.Alternate != nil {
				walkStmt(n.Alternate)
			}
		case *ast.WhileStatement:
			walkStmt(n.Body)
		case *ast.DoWhileStatement:
			walkStmt(n.Body)
		case *ast.ForStatement:
			walkStmt(n.Body)
		case *ast.ForInOfStatement:
			walkStmt(n.Body)
		case *ast.SwitchStatement:
			for _, c := range n.Cases {
				walkStmts(c.Consequent)
			}
		case *ast.TryStatement:
			walkStmts(n.Block.Body)
			if n.CatchBody != nil {
				walkStmts(n.CatchBody.Body)
			}
			if n.FinallyBody != nil {
				walkStmts(n.FinallyBody.Body)
			}
		case *ast.LabeledStatement:
			walkStmt(n.Body)
		}
	}
	walkStmts(body)
	if len(found) == 0 {
		return types.Undefined()
	}
	return types.Union(found)
}

func firstIdentifierName(p ast.Pattern) string {
	if id, ok := p.(*ast.IdentifierPattern); ok {
		return id.Name
	}
	return ""
}

// resolveTypeAnnotation maps a source-level type annotation to a
// lattice type. Annotations are an opt-in hint here, not a grammar
// requirement, so an unrecognized name degrades to Any rather than
// failing the analysis.
func resolveTypeAnnotation(node ast.TypeNode) types.Type {
	switch n := node.(type) {
	case *ast.NamedTypeNode:
		switch n.Name {
		case "string":
			return types.Str()
		case "number":
			return types.Num()
		case "boolean":
			return types.Bool()
		case "bigint":
			return types.BigInt()
		case "symbol":
			return types.Sym()
		case "null":
			return types.Null()
		case "undefined", "void":
			return types.Undefined()
		case "any":
			return types.Any{}
		case "unknown":
			return types.Unknown{}
		case "never":
			return types.Never{}
		default:
			return types.Any{Reason: "unresolved type annotation " + n.Name}
		}
	case *ast.UnionTypeNode:
		members := make([]types.Type, len(n.Members))
		for i, m := range n.Members {
			members[i] = resolveTypeAnnotation(m)
		}
		return types.Union(members)
	default:
		return types.Any{Reason: "unrecognized type annotation node"}
	}
}
