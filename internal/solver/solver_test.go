package solver

import (
	"testing"

	"github.com/polarflow/polarflow/internal/ast"
	"github.com/polarflow/polarflow/internal/cfg"
	"github.com/polarflow/polarflow/internal/config"
	"github.com/polarflow/polarflow/internal/diag"
	"github.com/polarflow/polarflow/internal/state"
	"github.com/polarflow/polarflow/internal/types"
)

func ident(name string) *ast.Identifier { return &ast.Identifier{Name: name} }

func buildAndSolve(t *testing.T, stmts []ast.Statement) (*Result, *diag.Bag) {
	t.Helper()
	g, cfgDiags := cfg.Build(stmts)
	if len(cfgDiags) != 0 {
		t.Fatalf("unexpected cfg diagnostics: %v", cfgDiags)
	}
	bag := &diag.Bag{}
	sv := New(bag, types.NewVarArena(), config.DefaultOptions())
	return sv.Solve(stmts, g, state.NewEnv()), bag
}

func TestSolveSimpleDeclarationAndUse(t *testing.T) {
	useStmt := &ast.ExpressionStatement{Expression: ident("x")}
	stmts := []ast.Statement{
		&ast.VariableDeclaration{
			Kind: ast.VarLet,
			Declarators: []ast.VariableDeclarator{{
				Target: &ast.IdentifierPattern{Name: "x"},
				Init:   &ast.NumberLiteral{Value: 1},
			}},
		},
		useStmt,
	}
	res, bag := buildAndSolve(t, stmts)
	if !res.Converged {
		t.Fatalf("expected convergence, got %d iterations", res.Iterations)
	}
	if bag.Len() != 0 {
		t.Fatalf("expected no diagnostics, got %v", bag.Items())
	}
	got, ok := res.Exprs[useStmt.Expression]
	if !ok || !types.Equals(got, types.NumLit(1)) {
		t.Errorf("expected x's use to type as literal 1, got %v %v", got, ok)
	}
}

func TestSolveHoistsVarBeforeDeclaration(t *testing.T) {
	useStmt := &ast.ExpressionStatement{Expression: ident("x")}
	stmts := []ast.Statement{
		useStmt,
		&ast.VariableDeclaration{
			Kind: ast.VarVar,
			Declarators: []ast.VariableDeclarator{{
				Target: &ast.IdentifierPattern{Name: "x"},
				Init:   &ast.NumberLiteral{Value: 1},
			}},
		},
	}
	_, bag := buildAndSolve(t, stmts)
	if bag.Len() != 0 {
		t.Fatalf("expected a hoisted var to be visible with no diagnostics, got %v", bag.Items())
	}
}

func TestSolveReportsUndefinedLetBeforeDeclaration(t *testing.T) {
	useStmt := &ast.ExpressionStatement{Expression: ident("x")}
	stmts := []ast.Statement{
		useStmt,
		&ast.VariableDeclaration{
			Kind: ast.VarLet,
			Declarators: []ast.VariableDeclarator{{
				Target: &ast.IdentifierPattern{Name: "x"},
				Init:   &ast.NumberLiteral{Value: 1},
			}},
		},
	}
	_, bag := buildAndSolve(t, stmts)
	if bag.Len() != 1 || bag.Items()[0].Code != diag.UndefinedVariable {
		t.Fatalf("expected one UndefinedVariable diagnostic for a let used before declaration, got %v", bag.Items())
	}
}

func TestSolveMutualRecursionAcrossHoistedFunctions(t *testing.T) {
	isEven := &ast.FunctionDeclaration{
		Name: "isEven",
		Params: []ast.Param{{Pattern: &ast.IdentifierPattern{Name: "n"}, TypeAnnotation: &ast.NamedTypeNode{Name: "number"}}},
		Body: []ast.Statement{
			&ast.ReturnStatement{Argument: &ast.CallExpression{Callee: ident("isOdd"), Args: []ast.Expression{ident("n")}}},
		},
	}
	isOdd := &ast.FunctionDeclaration{
		Name: "isOdd",
		Params: []ast.Param{{Pattern: &ast.IdentifierPattern{Name: "n"}, TypeAnnotation: &ast.NamedTypeNode{Name: "number"}}},
		Body: []ast.Statement{
			&ast.ReturnStatement{Argument: &ast.BoolLiteral{Value: true}},
		},
	}
	stmts := []ast.Statement{isEven, isOdd}
	_, bag := buildAndSolve(t, stmts)
	for _, d := range bag.Items() {
		if d.Code == diag.UndefinedVariable {
			t.Errorf("expected isOdd to be visible to isEven via hoisting, got %v", d)
		}
	}
}

func TestSolveJoinsBranchesAfterTypeofNarrowing(t *testing.T) {
	var consequent, alternate, after ast.Statement
	consequentStmt := &ast.ExpressionStatement{Expression: ident("x")}
	alternateStmt := &ast.ExpressionStatement{Expression: ident("x")}
	afterStmt := &ast.ExpressionStatement{Expression: ident("x")}
	consequent = &ast.BlockStatement{Body: []ast.Statement{consequentStmt}}
	alternate = &ast.BlockStatement{Body: []ast.Statement{alternateStmt}}
	after = afterStmt

	stmts := []ast.Statement{
		&ast.VariableDeclaration{
			Kind: ast.VarLet,
			Declarators: []ast.VariableDeclarator{{
				Target: &ast.IdentifierPattern{Name: "x"},
				Init:   &ast.StringLiteral{Value: "a"},
			}},
		},
		&ast.IfStatement{
			Test: &ast.BinaryExpression{
				Operator: "===",
				Left:     &ast.UnaryExpression{Operator: "typeof", Operand: ident("x")},
				Right:    &ast.StringLiteral{Value: "string"},
			},
			Consequent: consequent,
			Alternate:  alternate,
		},
		after,
	}
	res, bag := buildAndSolve(t, stmts)
	if bag.Len() != 0 {
		t.Fatalf("expected no diagnostics, got %v", bag.Items())
	}
	got, ok := res.Exprs[afterStmt.Expression]
	if !ok {
		t.Fatalf("expected a type recorded for x after the if")
	}
	if !types.Equals(got, types.StrLit("a")) {
		t.Errorf("expected x: \"a\" after the join, got %s", got)
	}
}

func TestSolveWidensLoopMutatedVariable(t *testing.T) {
	bodyAssign := &ast.ExpressionStatement{Expression: &ast.AssignmentExpression{
		Operator: "=",
		Target:   ident("i"),
		Value:    &ast.BinaryExpression{Operator: "+", Left: ident("i"), Right: &ast.NumberLiteral{Value: 1}},
	}}
	useInLoop := &ast.ExpressionStatement{Expression: ident("i")}
	stmts := []ast.Statement{
		&ast.VariableDeclaration{
			Kind: ast.VarLet,
			Declarators: []ast.VariableDeclarator{{
				Target: &ast.IdentifierPattern{Name: "i"},
				Init:   &ast.NumberLiteral{Value: 0},
			}},
		},
		&ast.WhileStatement{
			Test: &ast.BinaryExpression{Operator: "<", Left: ident("i"), Right: &ast.NumberLiteral{Value: 10}},
			Body: &ast.BlockStatement{Body: []ast.Statement{useInLoop, bodyAssign}},
		},
	}
	res, bag := buildAndSolve(t, stmts)
	if !res.Converged {
		t.Fatalf("expected the loop to converge within the iteration cap, got %d iterations", res.Iterations)
	}
	for _, d := range bag.Items() {
		if d.Code == diag.DidNotConverge {
			t.Fatalf("did not expect a non-convergence diagnostic")
		}
	}
	got, ok := res.Exprs[useInLoop.Expression]
	if !ok {
		t.Fatalf("expected a recorded type for i inside the loop body")
	}
	if !types.Equals(got, types.Num()) {
		t.Errorf("expected i widened to num inside the loop, got %s", got)
	}
}
