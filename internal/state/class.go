package state

import (
	"github.com/polarflow/polarflow/internal/ast"
	"github.com/polarflow/polarflow/internal/types"
)

func (tr *Transferer) transferClassDecl(s State, n *ast.ClassDeclaration) State {
	cls := tr.classType(s, n.Name, n.SuperClass, n.Members)
	s.Env = s.Env.Declare(n.Name, Binding{Name: n.Name, Type: cls, DeclSite: n.GetRange(), Kind: KindClass, DefinitelyAssigned: true})
	return s
}

// classType synthesizes a class type in two passes: first gather
// constructor parameters and every `this.x = ...` assignment
// in the constructor body, plus declared fields, into an instance
// record; second infer every method's type with `this` bound to that
// record. A method can therefore see sibling fields through `this`
// but not sibling methods — those calls fall back to `any` with a
// missing-property diagnostic, a known gap in tying the knot on a
// value-typed (non-recursive) instance record.
func (tr *Transferer) classType(s State, name string, superClassExpr ast.Expression, members []ast.ClassMember) *types.Class {
	scratch := State{Env: s.Env, Exprs: s.Exprs, Reachable: true}

	var parent *types.Class
	if superClassExpr != nil {
		if t, _ := tr.eval(scratch, superClassExpr); t != nil {
			if cls, ok := t.(*types.Class); ok {
				parent = cls
			}
		}
	}

	order := make([]string, 0, len(members))
	fields := make(map[string]types.RecordField, len(members))
	addField := func(key string, f types.RecordField) {
		if _, exists := fields[key]; !exists {
			order = append(order, key)
		}
		fields[key] = f
	}
	if parent != nil {
		for _, pname := range parent.Instance.Names() {
			pf, _ := parent.Instance.Field(pname)
			addField(pname, pf)
		}
	}

	var ctor *ast.ClassMember
	for i := range members {
		m := &members[i]
		switch m.Kind {
		case ast.ClassConstructor:
			ctor = m
		case ast.ClassField:
			if m.IsStatic {
				continue
			}
			var ft types.Type
			switch {
			case m.FieldAnn != nil:
				ft = resolveTypeAnnotation(m.FieldAnn)
			case m.FieldInit != nil:
				ft, _ = tr.eval(scratch, m.FieldInit)
			default:
				ft = types.Undefined()
			}
			addField(m.Key, types.RecordField{Type: ft})
		}
	}

	var ctorParams []types.FuncParam
	if ctor != nil {
		ctorEnv := s.Env.Child()
		ctorState := State{Env: ctorEnv, Exprs: s.Exprs, Reachable: true}
		for _, p := range ctor.Value.Params {
			var pt types.Type
			if p.TypeAnnotation != nil {
				pt = resolveTypeAnnotation(p.TypeAnnotation)
			} else {
				pt = types.Any{Reason: "unannotated constructor parameter"}
			}
			ctorState = tr.bindPattern(ctorState, p.Pattern, pt, KindParam, true)
			ctorParams = append(ctorParams, types.FuncParam{Name: firstIdentifierName(p.Pattern), Type: pt, Optional: p.Optional, Rest: p.Rest})
		}
		scanThisAssigns(ctor.Value.Body, ctorState, tr, addField)
	}

	instance := types.NewRecord(order, fields)

	methodState := State{Env: s.Env.Child().Declare("this", Binding{Name: "this", Type: instance, Kind: KindParam, DefinitelyAssigned: true}), Exprs: s.Exprs, Reachable: true}
	staticOrder := make([]string, 0)
	staticFields := make(map[string]types.RecordField)
	addStatic := func(key string, f types.RecordField) {
		if _, exists := staticFields[key]; !exists {
			staticOrder = append(staticOrder, key)
		}
		staticFields[key] = f
	}

	for i := range members {
		m := &members[i]
		switch m.Kind {
		case ast.ClassMethod:
			fn := tr.functionType(m.Value.Params, m.Value.ReturnAnn, m.Value.Body, nil, methodState.Env, m.Value.IsAsync, m.Value.IsGen)
			if m.IsStatic {
				addStatic(m.Key, types.RecordField{Type: fn})
			} else {
				addField(m.Key, types.RecordField{Type: fn})
			}
		case ast.ClassGetter:
			fn := tr.functionType(m.Value.Params, m.Value.ReturnAnn, m.Value.Body, nil, methodState.Env, m.Value.IsAsync, m.Value.IsGen)
			target := addField
			if m.IsStatic {
				target = addStatic
			}
			target(m.Key, types.RecordField{Type: fn.Return})
		case ast.ClassSetter:
			if m.IsStatic {
				continue
			}
			// A setter alone doesn't widen the field's read type;
			// leave whatever the constructor/field pass already gave
			// this key, or default it to any if nothing did.
			if _, ok := fields[m.Key]; !ok {
				addField(m.Key, types.RecordField{Type: types.Any{Reason: "setter-only property"}})
			}
		case ast.ClassField:
			if !m.IsStatic {
				continue
			}
			var ft types.Type
			switch {
			case m.FieldAnn != nil:
				ft = resolveTypeAnnotation(m.FieldAnn)
			case m.FieldInit != nil:
				ft, _ = tr.eval(scratch, m.FieldInit)
			default:
				ft = types.Undefined()
			}
			addStatic(m.Key, types.RecordField{Type: ft})
		}
	}

	instance = types.NewRecord(order, fields)
	static := types.NewRecord(staticOrder, staticFields)
	ctorFn := types.Function{Params: ctorParams, Return: types.Undefined()}

	return &types.Class{Name: name, Constructor: ctorFn, Instance: instance, Static: static, Parent: parent}
}

// scanThisAssigns walks the constructor body (descending through
// blocks, conditionals, and loops, but not into nested function
// literals) collecting every `this.x = value` assignment into fields.
func scanThisAssigns(body []ast.Statement, s State, tr *Transferer, addField func(string, types.RecordField)) {
	var walkStmts func([]ast.Statement)
	var walkStmt func(ast.Statement)
	walkExpr := func(e ast.Expression) {
		assign, ok := e.(*ast.AssignmentExpression)
		if !ok || assign.Operator != "=" {
			return
		}
		member, ok := assign.Target.(*ast.MemberExpression)
		if !ok {
			return
		}
		if _, ok := member.Object.(*ast.ThisExpression); !ok {
			return
		}
		vt, _ := tr.eval(s, assign.Value)
		addField(member.Property, types.RecordField{Type: vt})
	}
	walkStmts = func(stmts []ast.Statement) {
		for _, st := range stmts {
			walkStmt(st)
		}
	}
	walkStmt = func(st ast.Statement) {
		switch n := st.(type) {
		case *ast.ExpressionStatement:
			walkExpr(n.Expression)
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
		case *ast.TryStatement:
			walkStmts(n.Block.Body)
			if n.CatchBody != nil {
				walkStmts(n.CatchBody.Body)
			}
			if n.FinallyBody != nil {
				walkStmts(n.FinallyBody.Body)
			}
		}
	}
	walkStmts(body)
}
