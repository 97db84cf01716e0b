package state

import (
	"testing"

	"github.com/polarflow/polarflow/internal/ast"
	"github.com/polarflow/polarflow/internal/cfg"
	"github.com/polarflow/polarflow/internal/config"
	"github.com/polarflow/polarflow/internal/diag"
	"github.com/polarflow/polarflow/internal/types"
)

func ident(name string) *ast.Identifier {
	return &ast.Identifier{Name: name}
}

func newTransferer() (*Transferer, *diag.Bag) {
	bag := &diag.Bag{}
	return NewTransferer(bag, types.NewVarArena()), bag
}

func TestEnvDeclareIsCopyOnWrite(t *testing.T) {
	root := NewEnv()
	child := root.Declare("x", Binding{Name: "x", Type: types.Num()})
	if _, ok := root.Lookup("x"); ok {
		t.Errorf("declaring on child env must not mutate the parent")
	}
	b, ok := child.Lookup("x")
	if !ok || !types.Equals(b.Type, types.Num()) {
		t.Errorf("expected x: num in the child env, got %v %v", b, ok)
	}
}

func TestEnvAssignFindsOuterFrame(t *testing.T) {
	outer := NewEnv().Declare("x", Binding{Name: "x", Type: types.NumLit(1)})
	inner := outer.Child()
	updated := inner.Assign("x", types.NumLit(2))
	b, ok := updated.Lookup("x")
	if !ok || !types.Equals(b.Type, types.NumLit(2)) {
		t.Fatalf("expected x updated to 2 via outer frame, got %v", b)
	}
	if !b.PossiblyMutated || !b.DefinitelyAssigned {
		t.Errorf("assign should mark possibly-mutated and definitely-assigned")
	}
	if ob, _ := outer.Lookup("x"); !types.Equals(ob.Type, types.NumLit(1)) {
		t.Errorf("original outer env must be untouched, got %v", ob)
	}
}

func TestJoinUnreachableIsIdentity(t *testing.T) {
	s := NewState(NewEnv().Declare("x", Binding{Name: "x", Type: types.Num()}))
	joined := Join(s, Unreachable())
	if !joined.Reachable {
		t.Fatalf("join with unreachable should keep the reachable side")
	}
	if b, ok := joined.Env.Lookup("x"); !ok || !types.Equals(b.Type, types.Num()) {
		t.Errorf("expected x carried through, got %v", b)
	}
	if Join(Unreachable(), Unreachable()).Reachable {
		t.Errorf("both sides unreachable should stay unreachable")
	}
}

func TestJoinUnionsBindingTypesAndsAssignment(t *testing.T) {
	a := NewState(NewEnv().Declare("x", Binding{Name: "x", Type: types.StrLit("a"), DefinitelyAssigned: true}))
	b := NewState(NewEnv().Declare("x", Binding{Name: "x", Type: types.NumLit(1), DefinitelyAssigned: false}))
	joined := Join(a, b)
	bind, ok := joined.Env.Lookup("x")
	if !ok {
		t.Fatalf("expected x in joined env")
	}
	if bind.DefinitelyAssigned {
		t.Errorf("definitely-assigned should AND across branches")
	}
	u, ok := bind.Type.(types.UnionType)
	if !ok || len(u.Members) != 2 {
		t.Errorf("expected a 2-member union, got %s", bind.Type)
	}
}

func TestStatesEqualIgnoresExprMap(t *testing.T) {
	env := NewEnv().Declare("x", Binding{Name: "x", Type: types.Num(), DefinitelyAssigned: true})
	a := NewState(env)
	b := NewState(env)
	a.Exprs[ident("x")] = types.Str()
	if !Equal(a, b) {
		t.Errorf("Equal should ignore the per-expression type map")
	}
}

func TestWidenLiteralToBase(t *testing.T) {
	env := NewEnv().Declare("i", Binding{Name: "i", Type: types.NumLit(0)})
	s := NewState(env)
	widened := Widen(s, map[string]bool{"i": true})
	b, _ := widened.Env.Lookup("i")
	if !types.Equals(b.Type, types.Num()) {
		t.Errorf("expected i widened to num, got %s", b.Type)
	}
	if Widen(s, map[string]bool{"j": true}).Env != s.Env {
		t.Errorf("widening a name absent from the env should be a no-op")
	}
}

func TestBinaryPlusStringWins(t *testing.T) {
	tr, _ := newTransferer()
	s := NewState(NewEnv())
	bin := &ast.BinaryExpression{Operator: "+", Left: &ast.StringLiteral{Value: "a"}, Right: &ast.NumberLiteral{Value: 1}}
	got, _ := tr.eval(s, bin)
	if !types.Equals(got, types.Str()) {
		t.Errorf("expected string, got %s", got)
	}
}

func TestBinaryPlusBothLiteralNumbersFold(t *testing.T) {
	tr, _ := newTransferer()
	s := NewState(NewEnv())
	bin := &ast.BinaryExpression{Operator: "+", Left: &ast.NumberLiteral{Value: 1}, Right: &ast.NumberLiteral{Value: 2}}
	got, _ := tr.eval(s, bin)
	if !types.Equals(got, types.NumLit(3)) {
		t.Errorf("expected literal 3, got %s", got)
	}
}

func TestIdentifierLookupMissingReportsDiagnostic(t *testing.T) {
	tr, bag := newTransferer()
	s := NewState(NewEnv())
	_, _ = tr.eval(s, ident("missing"))
	if bag.Len() != 1 || bag.Items()[0].Code != diag.UndefinedVariable {
		t.Fatalf("expected one UndefinedVariable diagnostic, got %v", bag.Items())
	}
}

func TestConstReassignmentDiagnostic(t *testing.T) {
	tr, bag := newTransferer()
	env := NewEnv().Declare("x", Binding{Name: "x", Type: types.NumLit(1), Kind: KindConst, DefinitelyAssigned: true})
	s := NewState(env)
	assign := &ast.AssignmentExpression{Operator: "=", Target: ident("x"), Value: &ast.NumberLiteral{Value: 2}}
	_, _ = tr.eval(s, assign)
	if bag.Len() != 1 || bag.Items()[0].Code != diag.ConstAssignment {
		t.Fatalf("expected a ConstAssignment diagnostic, got %v", bag.Items())
	}
}

func TestVariableDeclarationDestructuresArray(t *testing.T) {
	tr, _ := newTransferer()
	s := NewState(NewEnv())
	decl := &ast.VariableDeclaration{
		Kind: ast.VarLet,
		Declarators: []ast.VariableDeclarator{{
			Target: &ast.ArrayPattern{Elements: []ast.ArrayPatternElement{
				{Target: &ast.IdentifierPattern{Name: "a"}},
				{Target: &ast.IdentifierPattern{Name: "rest"}, Rest: true},
			}},
			Init: &ast.ArrayLiteral{Elements: []ast.Expression{
				&ast.NumberLiteral{Value: 1},
				&ast.StringLiteral{Value: "x"},
				&ast.StringLiteral{Value: "y"},
			}},
		}},
	}
	s = tr.transferVarDecl(s, decl)
	a, ok := s.Env.Lookup("a")
	if !ok || !types.Equals(a.Type, types.NumLit(1)) {
		t.Errorf("expected a = 1, got %v", a)
	}
	rest, ok := s.Env.Lookup("rest")
	if !ok {
		t.Fatalf("expected rest binding")
	}
	arr, ok := rest.Type.(types.Array)
	if !ok || len(arr.Tuple) != 2 {
		t.Errorf("expected rest to be a 2-element residual tuple, got %s", rest.Type)
	}
}

func TestNarrowTypeofFiltersUnion(t *testing.T) {
	env := NewEnv().Declare("x", Binding{Name: "x", Type: types.Union([]types.Type{types.Str(), types.Num()})})
	s := NewState(env)
	cond := &ast.BinaryExpression{
		Operator: "===",
		Left:     &ast.UnaryExpression{Operator: "typeof", Operand: ident("x")},
		Right:    &ast.StringLiteral{Value: "string"},
	}
	narrow := &cfg.NarrowCond{Expr: cond, WhenTruthy: true}
	narrowed := ApplyNarrow(s, narrow, config.DefaultNarrowingRules())
	b, _ := narrowed.Env.Lookup("x")
	if !types.Equals(b.Type, types.Str()) {
		t.Errorf("expected x narrowed to string, got %s", b.Type)
	}

	falseEdge := &cfg.NarrowCond{Expr: cond, WhenTruthy: false}
	narrowedFalse := ApplyNarrow(s, falseEdge, config.DefaultNarrowingRules())
	bf, _ := narrowedFalse.Env.Lookup("x")
	if !types.Equals(bf.Type, types.Num()) {
		t.Errorf("expected x narrowed to num on false edge, got %s", bf.Type)
	}
}

func TestNarrowNullishRemovesNullable(t *testing.T) {
	env := NewEnv().Declare("x", Binding{Name: "x", Type: types.Union([]types.Type{types.Str(), types.Null(), types.Undefined()})})
	s := NewState(env)
	cond := &ast.BinaryExpression{Operator: "!=", Left: ident("x"), Right: &ast.NullLiteral{}}
	narrow := &cfg.NarrowCond{Expr: cond, WhenTruthy: true}
	narrowed := ApplyNarrow(s, narrow, config.DefaultNarrowingRules())
	b, _ := narrowed.Env.Lookup("x")
	if !types.Equals(b.Type, types.Str()) {
		t.Errorf("expected x != null to strip null/undefined, got %s", b.Type)
	}
}

func TestNarrowTruthinessKeepsAmbiguousMembers(t *testing.T) {
	env := NewEnv().Declare("x", Binding{Name: "x", Type: types.Union([]types.Type{types.StrLit(""), types.Str(), types.NumLit(0)})})
	s := NewState(env)
	narrow := &cfg.NarrowCond{Expr: ident("x"), WhenTruthy: true}
	narrowed := ApplyNarrow(s, narrow, config.DefaultNarrowingRules())
	b, _ := narrowed.Env.Lookup("x")
	if !types.Equals(b.Type, types.Str()) {
		t.Errorf("expected only the ambiguous base string to survive the true edge, got %s", b.Type)
	}
}

func TestFunctionTypeInfersReturnFromBody(t *testing.T) {
	tr, _ := newTransferer()
	fn := &ast.FunctionExpression{
		Params: []ast.Param{{Pattern: &ast.IdentifierPattern{Name: "n"}, TypeAnnotation: &ast.NamedTypeNode{Name: "number"}}},
		Body: []ast.Statement{
			&ast.ReturnStatement{Argument: &ast.Identifier{Name: "n"}},
		},
	}
	s := NewState(NewEnv())
	got, _ := tr.eval(s, fn)
	ft, ok := got.(types.Function)
	if !ok {
		t.Fatalf("expected a Function type, got %T", got)
	}
	if !types.Equals(ft.Return, types.Num()) {
		t.Errorf("expected inferred return num, got %s", ft.Return)
	}
	if len(ft.Params) != 1 || !types.Equals(ft.Params[0].Type, types.Num()) {
		t.Errorf("expected one num param, got %v", ft.Params)
	}
}

func TestClassSynthesizesInstanceFromConstructorAssignments(t *testing.T) {
	tr, _ := newTransferer()
	ctor := &ast.FunctionExpression{
		Params: []ast.Param{{Pattern: &ast.IdentifierPattern{Name: "name"}, TypeAnnotation: &ast.NamedTypeNode{Name: "string"}}},
		Body: []ast.Statement{
			&ast.ExpressionStatement{Expression: &ast.AssignmentExpression{
				Operator: "=",
				Target:   &ast.MemberExpression{Object: &ast.ThisExpression{}, Property: "name"},
				Value:    ident("name"),
			}},
		},
	}
	members := []ast.ClassMember{
		{Key: "constructor", Kind: ast.ClassConstructor, Value: ctor},
		{Key: "greet", Kind: ast.ClassMethod, Value: &ast.FunctionExpression{
			Body: []ast.Statement{
				&ast.ReturnStatement{Argument: &ast.MemberExpression{Object: &ast.ThisExpression{}, Property: "name"}},
			},
		}},
	}
	s := NewState(NewEnv())
	cls := tr.classType(s, "Greeter", nil, members)

	nameField, ok := cls.Instance.Field("name")
	if !ok || !types.Equals(nameField.Type, types.Str()) {
		t.Fatalf("expected instance field name: string, got %v %v", nameField, ok)
	}
	greetField, ok := cls.Instance.Field("greet")
	if !ok {
		t.Fatalf("expected a greet method on the instance")
	}
	greetFn, ok := greetField.Type.(types.Function)
	if !ok || !types.Equals(greetFn.Return, types.Str()) {
		t.Errorf("expected greet(): string, got %v", greetField.Type)
	}
}
