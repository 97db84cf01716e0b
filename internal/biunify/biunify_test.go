package biunify

import (
	"testing"

	"github.com/polarflow/polarflow/internal/constraints"
	"github.com/polarflow/polarflow/internal/diag"
	"github.com/polarflow/polarflow/internal/token"
	"github.com/polarflow/polarflow/internal/types"
)

func TestVariableResolvesToItsLowerBound(t *testing.T) {
	s := NewSolver()
	v := types.Var{ID: 1}
	s.Add(types.NumLit(1), v, token.Range{}, "let binding")

	if len(s.Diagnostics()) != 0 {
		t.Fatalf("expected no diagnostics, got %v", s.Diagnostics())
	}
	subst := s.Resolve()
	got, ok := subst[1]
	if !ok {
		t.Fatalf("expected variable 1 to resolve")
	}
	if !types.Equals(got, types.NumLit(1)) {
		t.Errorf("expected resolved type %s, got %s", types.NumLit(1), got)
	}
}

func TestFunctionDescentIsContravariantInParamsCovariantInReturn(t *testing.T) {
	s := NewSolver()
	param := types.Var{ID: 1}
	ret := types.Var{ID: 2}
	required := types.Function{
		Params: []types.FuncParam{{Name: "_", Type: param}},
		Return: ret,
	}
	provided := types.Function{
		Params: []types.FuncParam{{Name: "_", Type: types.Str()}},
		Return: types.NumLit(42),
	}
	s.Add(provided, required, token.Range{}, "call")

	if len(s.Diagnostics()) != 0 {
		t.Fatalf("expected no diagnostics, got %v", s.Diagnostics())
	}
	subst := s.Resolve()
	if got, ok := subst[1]; !ok || !types.Equals(got, types.Str()) {
		t.Errorf("expected the parameter variable to resolve to string (contravariant flow), got %v ok=%v", got, ok)
	}
	if got, ok := subst[2]; !ok || !types.Equals(got, types.NumLit(42)) {
		t.Errorf("expected the return variable to resolve to the literal return type (covariant flow), got %v ok=%v", got, ok)
	}
}

func TestMissingRecordFieldIsDiagnosed(t *testing.T) {
	s := NewSolver()
	obj := types.NewRecord([]string{"x"}, map[string]types.RecordField{
		"x": {Type: types.Num()},
	})
	required := types.NewRecord([]string{"x", "y"}, map[string]types.RecordField{
		"x": {Type: types.Num()},
		"y": {Type: types.Str()},
	})
	s.Add(obj, required, token.Range{}, "member access .y")

	found := false
	for _, d := range s.Diagnostics() {
		if d.Code == diag.MissingProperty {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a missing-property diagnostic, got %v", s.Diagnostics())
	}
}

func TestOptionalRecordFieldIsNotRequired(t *testing.T) {
	s := NewSolver()
	obj := types.EmptyRecord()
	required := types.NewRecord([]string{"y"}, map[string]types.RecordField{
		"y": {Type: types.Str(), Optional: true},
	})
	s.Add(obj, required, token.Range{}, "member access .y")

	if len(s.Diagnostics()) != 0 {
		t.Errorf("expected no diagnostics for a missing optional field, got %v", s.Diagnostics())
	}
}

func TestCallingANonFunctionIsNotCallable(t *testing.T) {
	s := NewSolver()
	required := types.Function{Return: types.Var{ID: 1}}
	s.Add(types.Num(), required, token.Range{}, "call")

	found := false
	for _, d := range s.Diagnostics() {
		if d.Code == diag.NotCallable {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a not-callable diagnostic, got %v", s.Diagnostics())
	}
}

func TestConstructingANonClassIsNotConstructable(t *testing.T) {
	s := NewSolver()
	required := types.Function{Return: types.Var{ID: 1}}
	s.Add(types.Str(), required, token.Range{}, "construction")

	found := false
	for _, d := range s.Diagnostics() {
		if d.Code == diag.NotConstructable {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a not-constructable diagnostic, got %v", s.Diagnostics())
	}
}

func TestArgumentCountMismatchIsDiagnosed(t *testing.T) {
	s := NewSolver()
	required := types.Function{
		Params: []types.FuncParam{{Name: "_", Type: types.Num()}, {Name: "_", Type: types.Num()}},
		Return: types.Var{ID: 1},
	}
	provided := types.Function{
		Params: []types.FuncParam{{Name: "_", Type: types.Num()}},
		Return: types.Undefined(),
	}
	s.Add(provided, required, token.Range{}, "call")

	found := false
	for _, d := range s.Diagnostics() {
		if d.Code == diag.ArgumentCount {
			found = true
		}
	}
	if !found {
		t.Errorf("expected an argument-count diagnostic, got %v", s.Diagnostics())
	}
}

func TestBaseIsNotAssignableToLiteral(t *testing.T) {
	s := NewSolver()
	s.Add(types.Num(), types.NumLit(1), token.Range{}, "")

	found := false
	for _, d := range s.Diagnostics() {
		if d.Code == diag.IncompatibleTypes {
			found = true
		}
	}
	if !found {
		t.Errorf("expected base ≤ literal to be diagnosed as incompatible, got %v", s.Diagnostics())
	}
}

func TestUnionOnTheLeftSplitsIntoPerMemberConstraints(t *testing.T) {
	s := NewSolver()
	sub := types.Union([]types.Type{types.NumLit(1), types.NumLit(2)})
	s.Add(sub, types.Num(), token.Range{}, "")

	if len(s.Diagnostics()) != 0 {
		t.Errorf("expected every union member to satisfy the base type, got %v", s.Diagnostics())
	}
}

func TestUnionOnTheRightSucceedsIfAnyMemberMatches(t *testing.T) {
	s := NewSolver()
	super := types.Union([]types.Type{types.Str(), types.Num()})
	s.Add(types.NumLit(3), super, token.Range{}, "")

	if len(s.Diagnostics()) != 0 {
		t.Errorf("expected a number literal to satisfy one member of string|number, got %v", s.Diagnostics())
	}
}

func TestAnyIsAnUnconditionalEscapeHatch(t *testing.T) {
	s := NewSolver()
	s.Add(types.Any{Reason: "widened"}, types.Function{Return: types.Num()}, token.Range{}, "call")

	if len(s.Diagnostics()) != 0 {
		t.Errorf("expected any to satisfy any constraint, got %v", s.Diagnostics())
	}
}

func TestSolveWiresConstraintListEndToEnd(t *testing.T) {
	v := types.Var{ID: 7}
	cs := []constraints.Constraint{{Sub: types.StrLit("hi"), Super: v, Note: "let binding"}}
	subst, diags := Solve(cs)
	if len(diags) != 0 {
		t.Fatalf("expected no diagnostics, got %v", diags)
	}
	if got, ok := subst[7]; !ok || !types.Equals(got, types.StrLit("hi")) {
		t.Errorf("expected variable 7 to resolve to %q, got %v", "hi", got)
	}
}
