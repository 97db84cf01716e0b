package debugdump

import (
	"bytes"
	"strings"
	"testing"

	"github.com/polarflow/polarflow/internal/ast"
	"github.com/polarflow/polarflow/internal/cfg"
	"github.com/polarflow/polarflow/internal/config"
	"github.com/polarflow/polarflow/internal/diag"
	"github.com/polarflow/polarflow/internal/solver"
	"github.com/polarflow/polarflow/internal/state"
	"github.com/polarflow/polarflow/internal/types"
)

func ident(name string) *ast.Identifier { return &ast.Identifier{Name: name} }

func buildAndSolve(t *testing.T, stmts []ast.Statement) *solver.Result {
	t.Helper()
	g, cfgDiags := cfg.Build(stmts)
	if len(cfgDiags) != 0 {
		t.Fatalf("unexpected cfg diagnostics: %v", cfgDiags)
	}
	sv := solver.New(&diag.Bag{}, types.NewVarArena(), config.DefaultOptions())
	return sv.Solve(stmts, g, state.NewEnv())
}

func TestDumpShowsDeclaredBindingAndConvergence(t *testing.T) {
	stmts := []ast.Statement{
		&ast.VariableDeclaration{
			Kind: ast.VarLet,
			Declarators: []ast.VariableDeclarator{{
				Target: &ast.IdentifierPattern{Name: "x"},
				Init:   &ast.NumberLiteral{Value: 1},
			}},
		},
		&ast.ExpressionStatement{Expression: ident("x")},
	}
	res := buildAndSolve(t, stmts)

	var buf bytes.Buffer
	if err := Dump(&buf, res, Options{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "x: 1") {
		t.Errorf("expected the dump to show x's inferred literal type, got:\n%s", out)
	}
	if !strings.Contains(out, "converged after") {
		t.Errorf("expected a convergence summary line, got:\n%s", out)
	}
	if strings.Contains(out, "\x1b[") {
		t.Errorf("expected no ANSI escapes when Color is unset, got:\n%s", out)
	}
}

func TestDumpColorWrapsTheBlockHeader(t *testing.T) {
	stmts := []ast.Statement{
		&ast.ExpressionStatement{Expression: &ast.NumberLiteral{Value: 1}},
	}
	res := buildAndSolve(t, stmts)

	var buf bytes.Buffer
	if err := Dump(&buf, res, Options{Color: true}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(buf.String(), "\x1b[") {
		t.Errorf("expected ANSI escapes when Color is set, got:\n%s", buf.String())
	}
}

func TestDescribeTerminatorNamesEachKind(t *testing.T) {
	cases := []struct {
		term cfg.Terminator
		want string
	}{
		{cfg.FallthroughTerm{Next: 2}, "-> fallthrough(2)"},
		{cfg.BranchTerm{Then: 1, Else: 2}, "-> branch(then=1, else=2)"},
		{cfg.ReturnTerm{}, "-> return"},
		{cfg.ThrowTerm{}, "-> throw(uncaught)"},
		{cfg.JumpTerm{Target: 3, Kind: cfg.JumpBreak}, "-> break(3)"},
		{cfg.UnresolvedJumpTerm{Kind: cfg.JumpContinue}, "-> unresolved continue"},
	}
	for _, c := range cases {
		if got := describeTerminator(c.term); got != c.want {
			t.Errorf("describeTerminator(%#v) = %q, want %q", c.term, got, c.want)
		}
	}
}

func TestDumpMarksUnreachableBlocksAndStates(t *testing.T) {
	stmts := []ast.Statement{
		&ast.ReturnStatement{Argument: &ast.NumberLiteral{Value: 1}},
		&ast.ExpressionStatement{Expression: &ast.NumberLiteral{Value: 2}},
	}
	g, cfgDiags := cfg.Build(stmts)
	if len(cfgDiags) != 1 || cfgDiags[0].Code != diag.UnreachableCode {
		t.Fatalf("expected one unreachable-code diagnostic from the cfg builder, got %v", cfgDiags)
	}
	res := solver.New(&diag.Bag{}, types.NewVarArena(), config.DefaultOptions()).Solve(stmts, g, state.NewEnv())

	var buf bytes.Buffer
	if err := Dump(&buf, res, Options{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(buf.String(), "unreachable") {
		t.Errorf("expected the dead code after the return to be marked unreachable, got:\n%s", buf.String())
	}
}
