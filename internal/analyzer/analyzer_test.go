package analyzer

import (
	"testing"

	"github.com/polarflow/polarflow/internal/ast"
	"github.com/polarflow/polarflow/internal/shape"
	"github.com/polarflow/polarflow/internal/types"
)

func ident(name string) *ast.Identifier { return &ast.Identifier{Name: name} }

func program(stmts ...ast.Statement) *ast.Program {
	return &ast.Program{Body: stmts}
}

func TestAnalyzeProgramDirectTransferAnnotatesADeclaration(t *testing.T) {
	prog := program(
		&ast.VariableDeclaration{
			Kind: ast.VarLet,
			Declarators: []ast.VariableDeclarator{{
				Target: &ast.IdentifierPattern{Name: "x"},
				Init:   &ast.NumberLiteral{Value: 1},
			}},
		},
		&ast.ExpressionStatement{Expression: ident("x")},
	)

	a := New(DefaultOptions())
	res := a.AnalyzeProgram(prog)

	if len(res.Diagnostics) != 0 {
		t.Fatalf("expected no diagnostics, got %v", res.Diagnostics)
	}
	if len(res.Annotations) != 1 || res.Annotations[0].Name != "x" {
		t.Fatalf("expected one annotation named x, got %+v", res.Annotations)
	}
	if !types.Equals(res.Annotations[0].Type, types.NumLit(1)) {
		t.Errorf("expected x to type as literal 1, got %s", res.Annotations[0].TypeString)
	}
	if res.ID == "" {
		t.Errorf("expected a non-empty instance id")
	}
}

func TestAnalyzeProgramDebugOptionPopulatesSolvedResult(t *testing.T) {
	prog := program(&ast.ExpressionStatement{Expression: &ast.NumberLiteral{Value: 1}})

	opts := DefaultOptions()
	opts.Debug = true
	a := New(opts)
	res := a.AnalyzeProgram(prog)

	if res.Debug == nil {
		t.Fatalf("expected Debug to be populated when Options.Debug is set")
	}
	if !res.Debug.Converged {
		t.Errorf("expected the trivial program to converge")
	}
}

func TestAnalyzeProgramConstraintFrontEndAnnotatesADeclaration(t *testing.T) {
	prog := program(
		&ast.VariableDeclaration{
			Kind: ast.VarConst,
			Declarators: []ast.VariableDeclarator{{
				Target: &ast.IdentifierPattern{Name: "x"},
				Init:   &ast.NumberLiteral{Value: 1},
			}},
		},
	)

	opts := DefaultOptions()
	opts.UseConstraints = true
	a := New(opts)
	res := a.AnalyzeProgram(prog)

	if len(res.Annotations) != 1 || res.Annotations[0].Name != "x" {
		t.Fatalf("expected one annotation named x, got %+v", res.Annotations)
	}
	if res.Annotations[0].Kind != shape.KindConst {
		t.Errorf("expected x to be annotated as a const, got kind %v", res.Annotations[0].Kind)
	}
	if res.Debug != nil {
		t.Errorf("expected Debug to stay nil for the constraint front end")
	}
}

func TestTwoAnalyzersGetDistinctInstanceIDs(t *testing.T) {
	a1 := New(DefaultOptions())
	a2 := New(DefaultOptions())
	if a1.ID() == a2.ID() {
		t.Errorf("expected distinct instance ids, got %q twice", a1.ID())
	}
}
