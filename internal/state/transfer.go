package state

import (
	"github.com/polarflow/polarflow/internal/ast"
	"github.com/polarflow/polarflow/internal/config"
	"github.com/polarflow/polarflow/internal/diag"
	"github.com/polarflow/polarflow/internal/types"
)

// Transferer runs the expression and statement transfer rules over a
// single block's statement list. It owns no block-spanning state of
// its own — everything it needs travels through the State it's given
// and returns — so one Transferer is safely reused across every block
// of an analysis.
type Transferer struct {
	diags *diag.Bag
	arena *types.VarArena
}

func NewTransferer(diags *diag.Bag, arena *types.VarArena) *Transferer {
	return &Transferer{diags: diags, arena: arena}
}

// TransferBlock runs every statement of blk against entry, in order,
// and returns the resulting exit state. The per-expression type map
// is rebuilt fresh for this pass; callers that need the types from a
// fully converged analysis should run one final pass after the
// fixed-point loop settles.
func (tr *Transferer) TransferBlock(entry State, stmts []ast.Statement) State {
	s := entry
	s.Exprs = map[ast.Expression]types.Type{}
	for _, stmt := range stmts {
		if !s.Reachable {
			return s
		}
		s = tr.transferStmt(s, stmt)
	}
	return s
}

// EvalExpr evaluates a single expression against s, for use by a
// caller (the solver) walking a terminator's test/discriminant/thrown
// expression outside the ordinary statement list.
func (tr *Transferer) EvalExpr(s State, e ast.Expression) (types.Type, State) {
	return tr.eval(s, e)
}

func (tr *Transferer) transferStmt(s State, stmt ast.Statement) State {
	switch n := stmt.(type) {
	case *ast.ExpressionStatement:
		_, s = tr.eval(s, n.Expression)
		return s
	case *ast.VariableDeclaration:
		return tr.transferVarDecl(s, n)
	case *ast.FunctionDeclaration:
		return tr.transferFunctionDecl(s, n)
	case *ast.ClassDeclaration:
		return tr.transferClassDecl(s, n)
	case *ast.EmptyStatement, *ast.DebuggerStatement:
		return s
	default:
		return s
	}
}

func (tr *Transferer) eval(s State, e ast.Expression) (types.Type, State) {
	t, s := tr.evalInner(s, e)
	if s.Exprs != nil {
		s.Exprs[e] = t
	}
	return t, s
}

func (tr *Transferer) evalInner(s State, e ast.Expression) (types.Type, State) {
	switch n := e.(type) {
	case *ast.NullLiteral:
		return types.Null(), s
	case *ast.UndefinedLiteral:
		return types.Undefined(), s
	case *ast.BoolLiteral:
		return types.BoolLit(n.Value), s
	case *ast.NumberLiteral:
		return types.NumLit(n.Value), s
	case *ast.StringLiteral:
		return types.StrLit(n.Value), s
	case *ast.BigIntLiteral:
		return types.BigInt(), s
	case *ast.RegexLiteral:
		return tr.instanceOf(s, "RegExp"), s
	case *ast.TemplateLiteral:
		for _, sub := range n.Expressions {
			_, s = tr.eval(s, sub)
		}
		return types.Str(), s
	case *ast.Identifier:
		if n.Name == forInOfElementName {
			// The builder's synthetic for-in/for-of element proxy
			// is looked up without an undefined-variable report;
			// nothing binds it, so it falls through to any.
			b, ok := s.Env.Lookup(n.Name)
			if ok {
				return b.Type, s
			}
			return types.Any{Reason: "for-in/for-of element not yet bound"}, s
		}
		b, ok := s.Env.Lookup(n.Name)
		if !ok {
			tr.diags.Addf(diag.UndefinedVariable, n.GetRange(), "undefined variable %q", n.Name)
			return types.Any{Reason: "undefined variable"}, s
		}
		return b.Type, s
	case *ast.ThisExpression:
		if b, ok := s.Env.Lookup("this"); ok {
			return b.Type, s
		}
		return types.Any{Reason: "this outside a method"}, s
	case *ast.SuperExpression:
		return types.Any{Reason: "super is not modeled"}, s
	case *ast.MemberExpression:
		return tr.evalMember(s, n)
	case *ast.IndexExpression:
		return tr.evalIndex(s, n)
	case *ast.UnaryExpression:
		return tr.evalUnary(s, n)
	case *ast.BinaryExpression:
		return tr.evalBinary(s, n)
	case *ast.LogicalExpression:
		return tr.evalLogical(s, n)
	case *ast.ConditionalExpression:
		return tr.evalConditional(s, n)
	case *ast.AssignmentExpression:
		return tr.evalAssignment(s, n)
	case *ast.SpreadElement:
		return tr.eval(s, n.Argument)
	case *ast.CallExpression:
		return tr.evalCall(s, n)
	case *ast.NewExpression:
		return tr.evalNew(s, n)
	case *ast.ArrayLiteral:
		return tr.evalArrayLiteral(s, n)
	case *ast.ObjectLiteral:
		return tr.evalObjectLiteral(s, n)
	case *ast.FunctionExpression:
		fn := tr.functionType(n.Params, n.ReturnAnn, n.Body, nil, s.Env, n.IsAsync, n.IsGen)
		return fn, s
	case *ast.ArrowFunctionExpression:
		fn := tr.functionType(n.Params, n.ReturnAnn, n.Body, n.ExprBody, s.Env, n.IsAsync, false)
		return fn, s
	case *ast.ClassExpression:
		cls := tr.classType(s, n.Name, n.SuperClass, n.Members)
		return cls, s
	default:
		return types.Any{Reason: "unrecognized expression"}, s
	}
}

// instanceOf looks a builtin class name up in the environment and
// returns its instance record, falling back to Any before the builtin catalog has
// seeded the environment this name belongs to.
func (tr *Transferer) instanceOf(s State, name string) types.Type {
	b, ok := s.Env.Lookup(name)
	if !ok {
		return types.Any{Reason: name + " is not declared"}
	}
	if cls, ok := b.Type.(*types.Class); ok {
		return cls.Instance
	}
	return types.Any{Reason: name + " is not a class"}
}

func (tr *Transferer) evalMember(s State, n *ast.MemberExpression) (types.Type, State) {
	objType, s := tr.eval(s, n.Object)
	t, ok := recordFieldType(objType, n.Property)
	if !ok {
		if n.Optional {
			return types.Undefined(), s
		}
		if _, isAny := objType.(types.Any); !isAny {
			tr.diags.Addf(diag.MissingProperty, n.GetRange(), "property %q does not exist on type %s", n.Property, objType.String())
		}
		return types.Any{Reason: "missing property"}, s
	}
	if n.Optional {
		return types.Union([]types.Type{t, types.Undefined()}), s
	}
	return t, s
}

func (tr *Transferer) evalIndex(s State, n *ast.IndexExpression) (types.Type, State) {
	objType, s := tr.eval(s, n.Object)
	idxType, s2 := tr.eval(s, n.Index)
	s = s2
	switch obj := objType.(type) {
	case types.Array:
		if obj.Tuple != nil {
			if lit, ok := idxType.(types.Primitive); ok && lit.Base == config.NumBase && lit.IsLiteral() {
				i := int(lit.Literal.(float64))
				if i >= 0 && i < len(obj.Tuple) {
					return obj.Tuple[i], s
				}
			}
		}
		return obj.Element, s
	case types.Record:
		if lit, ok := idxType.(types.Primitive); ok && lit.Base == config.StrBase && lit.IsLiteral() {
			if t, ok := recordFieldType(obj, lit.Literal.(string)); ok {
				return t, s
			}
		}
		return types.Any{Reason: "dynamic record index"}, s
	default:
		return types.Any{Reason: "indexing a non-indexable type"}, s
	}
}

// recordFieldType looks a field up on a Record, on a Class's static
// members, or on whichever Intersection member (e.g. Array's
// callable-signature-and-static-record shape) carries the field. A
// UnionType's members are not searched (Union already joins an
// all-Record union into one Record).
func recordFieldType(t types.Type, name string) (types.Type, bool) {
	switch v := t.(type) {
	case types.Record:
		f, ok := v.Field(name)
		if !ok {
			return nil, false
		}
		return f.Type, true
	case *types.Class:
		f, ok := v.Static.Field(name)
		if !ok {
			return nil, false
		}
		return f.Type, true
	case types.IntersectionType:
		for _, m := range v.Members {
			if ft, ok := recordFieldType(m, name); ok {
				return ft, true
			}
		}
		return nil, false
	case types.Any:
		return types.Any{Reason: "member of any"}, true
	default:
		return nil, false
	}
}

// callableSignature extracts a Function signature from t, unwrapping
// an Intersection (e.g. Array's callable-signature-and-static-record
// shape) to find the callable member.
func callableSignature(t types.Type) (types.Function, bool) {
	switch v := t.(type) {
	case types.Function:
		return v, true
	case types.IntersectionType:
		for _, m := range v.Members {
			if fn, ok := callableSignature(m); ok {
				return fn, true
			}
		}
	}
	return types.Function{}, false
}

func (tr *Transferer) evalUnary(s State, n *ast.UnaryExpression) (types.Type, State) {
	operandType, s := tr.eval(s, n.Operand)
	switch n.Operator {
	case "!":
		return types.Bool(), s
	case "typeof":
		return types.Str(), s
	case "void":
		return types.Undefined(), s
	case "delete":
		return types.Bool(), s
	case "+", "-", "~":
		_ = operandType
		return types.Num(), s
	default:
		return types.Any{Reason: "unrecognized unary operator"}, s
	}
}

func (tr *Transferer) evalBinary(s State, n *ast.BinaryExpression) (types.Type, State) {
	lt, s := tr.eval(s, n.Left)
	rt, s := tr.eval(s, n.Right)
	switch n.Operator {
	case "+":
		return addResultType(lt, rt), s
	case "-", "*", "/", "%", "**", "&", "|", "^", "<<", ">>", ">>>":
		return types.Num(), s
	case "==", "!=", "===", "!==", "<", "<=", ">", ">=", "in", "instanceof":
		return types.Bool(), s
	default:
		return types.Any{Reason: "unrecognized binary operator"}, s
	}
}

// addResultType implements the `+` special case: string wins if
// either side is definitely a string; numeric if both sides are
// definitely numeric (literal if both operands are literal); an
// optimistic number when one side is any/unknown and the other
// numeric; and the full string|number union when neither side's
// shape is known.
func addResultType(lt, rt types.Type) types.Type {
	if isDefinitelyString(lt) || isDefinitelyString(rt) {
		return types.Str()
	}
	if isDefinitelyNumeric(lt) && isDefinitelyNumeric(rt) {
		lp, lok := lt.(types.Primitive)
		rp, rok := rt.(types.Primitive)
		if lok && rok && lp.IsLiteral() && rp.IsLiteral() {
			lv, lvok := lp.Literal.(float64)
			rv, rvok := rp.Literal.(float64)
			if lvok && rvok {
				return types.NumLit(lv + rv)
			}
		}
		return types.Num()
	}
	if isOptimisticallyNumeric(lt, rt) || isOptimisticallyNumeric(rt, lt) {
		return types.Num()
	}
	return types.Union([]types.Type{types.Str(), types.Num()})
}

func isDefinitelyString(t types.Type) bool {
	p, ok := t.(types.Primitive)
	return ok && p.Base == config.StrBase
}

func isDefinitelyNumeric(t types.Type) bool {
	p, ok := t.(types.Primitive)
	return ok && (p.Base == config.NumBase || p.Base == config.BigIntBase)
}

func isOptimisticallyNumeric(maybeAnything, numericSide types.Type) bool {
	switch maybeAnything.(type) {
	case types.Any, types.Unknown:
		return isDefinitelyNumeric(numericSide)
	}
	return false
}

func (tr *Transferer) evalLogical(s State, n *ast.LogicalExpression) (types.Type, State) {
	lt, s := tr.eval(s, n.Left)
	rt, s := tr.eval(s, n.Right)
	switch n.Operator {
	case "&&", "||":
		return types.Union([]types.Type{lt, rt}), s
	case "??":
		if !isNullable(lt) {
			return lt, s
		}
		members := unionMembers(lt)
		kept := make([]types.Type, 0, len(members))
		for _, m := range members {
			if classifyNullish(m, nullishEither) != yes {
				kept = append(kept, m)
			}
		}
		return types.Union(append(kept, rt)), s
	default:
		return types.Any{Reason: "unrecognized logical operator"}, s
	}
}

func isNullable(t types.Type) bool {
	for _, m := range unionMembers(t) {
		if classifyNullish(m, nullishEither) == yes {
			return true
		}
	}
	return false
}

func (tr *Transferer) evalConditional(s State, n *ast.ConditionalExpression) (types.Type, State) {
	_, s = tr.eval(s, n.Test)
	ct, s1 := tr.eval(s, n.Consequent)
	at, s2 := tr.eval(s1, n.Alternate)
	return types.Union([]types.Type{ct, at}), s2
}

func (tr *Transferer) evalAssignment(s State, n *ast.AssignmentExpression) (types.Type, State) {
	vt, s := tr.eval(s, n.Value)
	switch n.Operator {
	case "+=":
		cur, s2 := tr.eval(s, n.Target)
		vt = addResultType(cur, vt)
		s = s2
	case "-=", "*=", "/=", "%=", "**=", "&=", "|=", "^=", "<<=", ">>=", ">>>=":
		_, s2 := tr.eval(s, n.Target)
		vt = types.Num()
		s = s2
	case "&&=", "||=", "??=":
		cur, s2 := tr.eval(s, n.Target)
		vt = types.Union([]types.Type{cur, vt})
		s = s2
	}

	switch target := n.Target.(type) {
	case *ast.Identifier:
		if b, ok := s.Env.Lookup(target.Name); ok && b.Kind == KindConst {
			tr.diags.Addf(diag.ConstAssignment, n.GetRange(), "cannot reassign const %q", target.Name)
			return vt, s
		}
		s.Env = s.Env.Assign(target.Name, vt)
		return vt, s
	case *ast.MemberExpression, *ast.IndexExpression:
		// Records are structural and immutable values here; a property
		// write doesn't widen the object's declared type.
		_, s = tr.eval(s, target)
		return vt, s
	default:
		return vt, s
	}
}

func (tr *Transferer) evalCall(s State, n *ast.CallExpression) (types.Type, State) {
	calleeType, s := tr.eval(s, n.Callee)
	argTypes := make([]types.Type, len(n.Args))
	for i, a := range n.Args {
		argTypes[i], s = tr.eval(s, a)
	}
	fn, ok := callableSignature(calleeType)
	if !ok {
		if _, isAny := calleeType.(types.Any); isAny {
			return types.Any{Reason: "call through any"}, s
		}
		if n.Optional {
			return types.Undefined(), s
		}
		tr.diags.Addf(diag.NotCallable, n.GetRange(), "type %s is not callable", calleeType.String())
		return types.Any{Reason: "call on non-function"}, s
	}
	tr.checkArgs(n, fn.Params, argTypes)
	if fn.Return == nil {
		return types.Undefined(), s
	}
	return fn.Return, s
}

func (tr *Transferer) checkArgs(n *ast.CallExpression, params []types.FuncParam, args []types.Type) {
	required := 0
	for _, p := range params {
		if !p.Optional && !p.Rest {
			required++
		}
	}
	if len(args) < required && (len(params) == 0 || !params[len(params)-1].Rest) {
		tr.diags.Addf(diag.ArgumentCount, n.GetRange(), "expected at least %d argument(s), got %d", required, len(args))
	}
}

func (tr *Transferer) evalNew(s State, n *ast.NewExpression) (types.Type, State) {
	calleeType, s := tr.eval(s, n.Callee)
	for _, a := range n.Args {
		_, s = tr.eval(s, a)
	}
	cls, ok := calleeType.(*types.Class)
	if !ok {
		if _, isAny := calleeType.(types.Any); isAny {
			return types.Any{Reason: "new through any"}, s
		}
		tr.diags.Addf(diag.NotConstructable, n.GetRange(), "type %s is not constructable", calleeType.String())
		return types.Any{Reason: "new on non-class"}, s
	}
	return cls.Instance, s
}

func (tr *Transferer) evalArrayLiteral(s State, n *ast.ArrayLiteral) (types.Type, State) {
	tuple := make([]types.Type, 0, len(n.Elements))
	sawSpread := false
	for _, el := range n.Elements {
		if spread, ok := el.(*ast.SpreadElement); ok {
			sawSpread = true
			at, s2 := tr.eval(s, spread.Argument)
			s = s2
			if arr, ok := at.(types.Array); ok {
				if arr.Tuple != nil {
					tuple = append(tuple, arr.Tuple...)
				} else {
					tuple = append(tuple, arr.Element)
				}
			}
			continue
		}
		et, s2 := tr.eval(s, el)
		s = s2
		tuple = append(tuple, et)
	}
	if sawSpread {
		return types.Array{Element: types.Union(tuple)}, s
	}
	return types.Array{Tuple: tuple, Element: types.Union(tuple)}, s
}

func (tr *Transferer) evalObjectLiteral(s State, n *ast.ObjectLiteral) (types.Type, State) {
	order := make([]string, 0, len(n.Properties))
	fields := make(map[string]types.RecordField, len(n.Properties))
	for _, p := range n.Properties {
		if spread, ok := p.Value.(*ast.SpreadElement); ok {
			at, s2 := tr.eval(s, spread.Argument)
			s = s2
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
		vt, s2 := tr.eval(s, p.Value)
		s = s2
		if _, exists := fields[p.Key]; !exists {
			order = append(order, p.Key)
		}
		fields[p.Key] = types.RecordField{Type: vt}
	}
	return types.NewRecord(order, fields), s
}
