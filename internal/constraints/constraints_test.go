package constraints

import (
	"testing"

	"github.com/polarflow/polarflow/internal/ast"
	"github.com/polarflow/polarflow/internal/types"
)

func ident(name string) *ast.Identifier { return &ast.Identifier{Name: name} }

func letDecl(name string, init ast.Expression) *ast.VariableDeclaration {
	return &ast.VariableDeclaration{
		Kind: ast.VarLet,
		Declarators: []ast.VariableDeclarator{
			{Target: &ast.IdentifierPattern{Name: name}, Init: init},
		},
	}
}

func TestLetGeneralizationAllowsTwoInstantiations(t *testing.T) {
	identityFn := &ast.ArrowFunctionExpression{
		Params:   []ast.Param{{Pattern: &ast.IdentifierPattern{Name: "x"}}},
		ExprBody: ident("x"),
	}
	program := []ast.Statement{
		letDecl("id", identityFn),
		letDecl("a", &ast.CallExpression{Callee: ident("id"), Args: []ast.Expression{&ast.NumberLiteral{Value: 1}}}),
		letDecl("b", &ast.CallExpression{Callee: ident("id"), Args: []ast.Expression{&ast.StringLiteral{Value: "s"}}}),
	}

	g := NewGenerator(types.NewVarArena())
	env := g.InferProgram(NewEnv(), program)

	idScheme, ok := env.Lookup("id")
	if !ok {
		t.Fatalf("expected id to be bound")
	}
	if len(idScheme.Vars) == 0 {
		t.Errorf("expected id's scheme to generalize at least one variable, got %v", idScheme)
	}

	var callConstraints []Constraint
	for _, c := range g.Constraints() {
		if c.Note == "call" {
			callConstraints = append(callConstraints, c)
		}
	}
	if len(callConstraints) != 2 {
		t.Fatalf("expected 2 call constraints, got %d", len(callConstraints))
	}
	if types.Equals(callConstraints[0].Sub, callConstraints[1].Sub) {
		t.Errorf("expected id's two call sites to instantiate distinct copies of its scheme, got identical constraint types")
	}
}

func TestLetWithNoInitBindsUndefinedMonomorphically(t *testing.T) {
	program := []ast.Statement{
		&ast.VariableDeclaration{
			Kind:        ast.VarLet,
			Declarators: []ast.VariableDeclarator{{Target: &ast.IdentifierPattern{Name: "x"}}},
		},
	}
	g := NewGenerator(types.NewVarArena())
	env := g.InferProgram(NewEnv(), program)

	sc, ok := env.Lookup("x")
	if !ok {
		t.Fatalf("expected x to be bound")
	}
	if len(sc.Vars) != 0 {
		t.Errorf("expected an uninitialized let to bind monomorphically, got %d quantified vars", len(sc.Vars))
	}
	if !types.Equals(sc.Type, types.Undefined()) {
		t.Errorf("expected x's type to be undefined, got %s", sc.Type.String())
	}
}

func TestMemberAccessEmitsASingleFieldRecordConstraint(t *testing.T) {
	program := []ast.Statement{
		&ast.ExpressionStatement{
			Expression: &ast.MemberExpression{Object: ident("obj"), Property: "length"},
		},
	}
	g := NewGenerator(types.NewVarArena())
	env := NewEnv().Declare("obj", Mono(types.Any{}))
	g.InferProgram(env, program)

	found := false
	for _, c := range g.Constraints() {
		rec, ok := c.Super.(types.Record)
		if !ok {
			continue
		}
		if _, ok := rec.Field("length"); ok {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a constraint requiring a record with field %q, got %v", "length", g.Constraints())
	}
}

func TestReturnFlowsIntoTheEnclosingFunctionResultVariable(t *testing.T) {
	fn := &ast.FunctionDeclaration{
		Name:   "f",
		Params: nil,
		Body: []ast.Statement{
			&ast.ReturnStatement{Argument: &ast.NumberLiteral{Value: 42}},
		},
	}
	g := NewGenerator(types.NewVarArena())
	env := g.InferProgram(NewEnv(), []ast.Statement{fn})

	sc, ok := env.Lookup("f")
	if !ok {
		t.Fatalf("expected f to be bound")
	}
	found := false
	for _, c := range g.Constraints() {
		if c.Note == "return" {
			if lit, ok := c.Sub.(types.Primitive); ok && lit.Literal == 42.0 {
				found = true
			}
		}
	}
	if !found {
		t.Errorf("expected a return constraint carrying the literal 42, got %v", g.Constraints())
	}
	_ = sc
}

func TestRecursiveFunctionDeclarationResolvesSelfCall(t *testing.T) {
	// function f(n) { return f(n); }
	fn := &ast.FunctionDeclaration{
		Name:   "f",
		Params: []ast.Param{{Pattern: &ast.IdentifierPattern{Name: "n"}}},
		Body: []ast.Statement{
			&ast.ReturnStatement{Argument: &ast.CallExpression{Callee: ident("f"), Args: []ast.Expression{ident("n")}}},
		},
	}
	g := NewGenerator(types.NewVarArena())
	env := g.InferProgram(NewEnv(), []ast.Statement{fn})
	if _, ok := env.Lookup("f"); !ok {
		t.Fatalf("expected f to be bound")
	}
	// A self-call inside the body must not fall back to the
	// "undefined variable" widening: if it had, the callee side of the
	// call constraint would be types.Any with that specific reason.
	for _, c := range g.Constraints() {
		if c.Note != "call" {
			continue
		}
		if a, ok := c.Sub.(types.Any); ok && a.Reason == "undefined variable f" {
			t.Errorf("expected the recursive call to f to resolve, got an undefined-variable widening")
		}
	}
}
