package shape

import (
	"testing"

	"github.com/polarflow/polarflow/internal/diag"
	"github.com/polarflow/polarflow/internal/token"
	"github.com/polarflow/polarflow/internal/types"
)

func TestSimplifyDropsUnknownFromAUnion(t *testing.T) {
	u := types.Union([]types.Type{types.Num(), types.Unknown{}})
	got := Simplify(u)
	if !types.Equals(got, types.Num()) {
		t.Errorf("expected unknown to be dropped from the union, got %s", got)
	}
}

func TestSimplifyWidensALargeLiteralUnionToItsBase(t *testing.T) {
	u := types.UnionType{Members: []types.Type{types.StrLit("a"), types.StrLit("b"), types.StrLit("c")}}
	got := Simplify(u)
	if !types.Equals(got, types.Str()) {
		t.Errorf("expected a 3-member string literal union to widen to str, got %s", got)
	}
}

func TestSimplifyKeepsASmallLiteralUnionPrecise(t *testing.T) {
	u := types.UnionType{Members: []types.Type{types.StrLit("a"), types.StrLit("b")}}
	got := Simplify(u)
	gotUnion, ok := got.(types.UnionType)
	if !ok || len(gotUnion.Members) != 2 {
		t.Errorf("expected a 2-member literal union to stay precise, got %s", got)
	}
}

func TestSimplifyOnRecordPreservesFieldPrecisionInPlace(t *testing.T) {
	rec := types.NewRecord([]string{"x"}, map[string]types.RecordField{
		"x": {Type: types.Union([]types.Type{types.Num(), types.Unknown{}})},
	})
	got, ok := Simplify(rec).(types.Record)
	if !ok {
		t.Fatalf("expected a Record back, got %T", Simplify(rec))
	}
	xf, _ := got.Field("x")
	if !types.Equals(xf.Type, types.Num()) {
		t.Errorf("expected field x to simplify to num, got %s", xf.Type)
	}
}

func TestSimplifyOnFunctionSimplifiesItsReturnType(t *testing.T) {
	fn := types.Function{Params: []types.FuncParam{{Name: "_", Type: types.Num()}}, Return: types.Str()}
	got, ok := Simplify(fn).(types.Function)
	if !ok {
		t.Fatalf("expected a Function back, got %T", Simplify(fn))
	}
	if !types.Equals(got.Return, types.Str()) {
		t.Errorf("expected the return type to round-trip to str, got %s", got.Return)
	}
}

func TestAnnotateAttachesTheSimplifiedType(t *testing.T) {
	u := types.Union([]types.Type{types.Num(), types.Unknown{}})
	a := Annotate(token.Range{}, "VariableDeclarator", "x", u, KindVariable)
	if a.TypeString != "num" {
		t.Errorf("expected the annotation's type string to reflect simplification, got %q", a.TypeString)
	}
	if a.Name != "x" || a.Kind != KindVariable {
		t.Errorf("expected name/kind to be carried through, got %+v", a)
	}
}

func TestSortAnnotationsOrdersBySourceStart(t *testing.T) {
	later := Annotation{Range: token.Range{Start: token.Position{Offset: 10}}}
	earlier := Annotation{Range: token.Range{Start: token.Position{Offset: 2}}}
	list := []Annotation{later, earlier}
	SortAnnotations(list)
	if list[0].Range.Start.Offset != 2 {
		t.Errorf("expected the earlier-offset annotation first, got %+v", list)
	}
}

func TestFromDiagCarriesMessageRangeAndNodeType(t *testing.T) {
	d := diag.New(diag.NotCallable, token.Range{}, "x is not callable").WithNodeType("CallExpression")
	ext := FromDiag(d)
	if ext.Message != "x is not callable" || ext.NodeType != "CallExpression" {
		t.Errorf("expected message/nodeType to carry through, got %+v", ext)
	}
}

func TestSortDiagnosticsOrdersBySourceStart(t *testing.T) {
	later := Diagnostic{Range: token.Range{Start: token.Position{Offset: 10}}}
	earlier := Diagnostic{Range: token.Range{Start: token.Position{Offset: 2}}}
	list := []Diagnostic{later, earlier}
	SortDiagnostics(list)
	if list[0].Range.Start.Offset != 2 {
		t.Errorf("expected the earlier-offset diagnostic first, got %+v", list)
	}
}
