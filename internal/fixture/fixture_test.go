package fixture

import (
	"testing"

	"github.com/polarflow/polarflow/internal/ast"
)

func TestParseBuildsAVariableDeclarationAndReference(t *testing.T) {
	prog, err := Parse([]byte(`{
		"body": [
			{"type":"var","kind":"let","name":"x","init":{"type":"number","value":1}},
			{"type":"expr","value":{"type":"identifier","name":"x"}}
		]
	}`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(prog.Body) != 2 {
		t.Fatalf("expected 2 statements, got %d", len(prog.Body))
	}

	decl, ok := prog.Body[0].(*ast.VariableDeclaration)
	if !ok {
		t.Fatalf("expected *ast.VariableDeclaration, got %T", prog.Body[0])
	}
	if decl.Kind != ast.VarLet {
		t.Errorf("expected let, got %v", decl.Kind)
	}
	if len(decl.Declarators) != 1 {
		t.Fatalf("expected one declarator, got %d", len(decl.Declarators))
	}
	target, ok := decl.Declarators[0].Target.(*ast.IdentifierPattern)
	if !ok || target.Name != "x" {
		t.Fatalf("expected identifier pattern x, got %+v", decl.Declarators[0].Target)
	}
	if _, ok := decl.Declarators[0].Init.(*ast.NumberLiteral); !ok {
		t.Fatalf("expected number literal init, got %T", decl.Declarators[0].Init)
	}

	ref, ok := prog.Body[1].(*ast.ExpressionStatement)
	if !ok {
		t.Fatalf("expected *ast.ExpressionStatement, got %T", prog.Body[1])
	}
	if _, ok := ref.Expression.(*ast.Identifier); !ok {
		t.Fatalf("expected identifier expression, got %T", ref.Expression)
	}
}

func TestParseOrdersSyntheticRangesByDeclarationOrder(t *testing.T) {
	prog, err := Parse([]byte(`{
		"body": [
			{"type":"var","kind":"const","name":"a","init":{"type":"number","value":1}},
			{"type":"var","kind":"const","name":"b","init":{"type":"number","value":2}}
		]
	}`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	first := prog.Body[0].GetRange().Start.Offset
	second := prog.Body[1].GetRange().Start.Offset
	if first >= second {
		t.Errorf("expected first declaration's offset (%d) before second's (%d)", first, second)
	}
}

func TestParseBuildsIfWhileAndFunction(t *testing.T) {
	prog, err := Parse([]byte(`{
		"body": [
			{"type":"function","name":"f","params":["n"],"body":[
				{"type":"if","test":{"type":"identifier","name":"n"},
				 "then":{"type":"return","arg":{"type":"number","value":1}},
				 "else":{"type":"return","arg":{"type":"number","value":0}}}
			]},
			{"type":"while","test":{"type":"bool","value":true},
			 "do":{"type":"block","body":[]}}
		]
	}`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	fn, ok := prog.Body[0].(*ast.FunctionDeclaration)
	if !ok {
		t.Fatalf("expected *ast.FunctionDeclaration, got %T", prog.Body[0])
	}
	if fn.Name != "f" || len(fn.Params) != 1 {
		t.Fatalf("unexpected function shape: %+v", fn)
	}
	ifStmt, ok := fn.Body[0].(*ast.IfStatement)
	if !ok {
		t.Fatalf("expected *ast.IfStatement, got %T", fn.Body[0])
	}
	if ifStmt.Alternate == nil {
		t.Errorf("expected an else branch")
	}

	if _, ok := prog.Body[1].(*ast.WhileStatement); !ok {
		t.Fatalf("expected *ast.WhileStatement, got %T", prog.Body[1])
	}
}

func TestParseRejectsUnknownNodeType(t *testing.T) {
	_, err := Parse([]byte(`{"body":[{"type":"nonsense"}]}`))
	if err == nil {
		t.Fatalf("expected an error for an unknown statement type")
	}
}
