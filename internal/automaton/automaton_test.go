package automaton

import (
	"testing"

	"github.com/polarflow/polarflow/internal/types"
)

func TestPrimitiveRoundTripsThroughBuildAndToType(t *testing.T) {
	a := Build(types.Num(), Positive)
	got := ToType(a)
	if !types.Equals(got, types.Num()) {
		t.Errorf("expected num to round-trip, got %s", got)
	}
}

func TestLiteralRoundTripsThroughBuildAndToType(t *testing.T) {
	a := Build(types.StrLit("hi"), Positive)
	got := ToType(a)
	if !types.Equals(got, types.StrLit("hi")) {
		t.Errorf("expected literal \"hi\" to round-trip, got %s", got)
	}
}

func TestFunctionRoundTripsWithParamsAndReturn(t *testing.T) {
	fn := types.Function{
		Params: []types.FuncParam{{Name: "_", Type: types.Str()}},
		Return: types.Num(),
	}
	a := Build(fn, Positive)
	got, ok := ToType(a).(types.Function)
	if !ok {
		t.Fatalf("expected a Function back, got %T", ToType(a))
	}
	if len(got.Params) != 1 || !types.Equals(got.Params[0].Type, types.Str()) {
		t.Errorf("expected a single string parameter, got %v", got.Params)
	}
	if !types.Equals(got.Return, types.Num()) {
		t.Errorf("expected num return, got %s", got.Return)
	}
}

func TestRecordRoundTripsWithFieldsAndOptionality(t *testing.T) {
	rec := types.NewRecord([]string{"x", "y"}, map[string]types.RecordField{
		"x": {Type: types.Num()},
		"y": {Type: types.Str(), Optional: true},
	})
	a := Build(rec, Positive)
	got, ok := ToType(a).(types.Record)
	if !ok {
		t.Fatalf("expected a Record back, got %T", ToType(a))
	}
	xf, ok := got.Field("x")
	if !ok || !types.Equals(xf.Type, types.Num()) {
		t.Errorf("expected field x: num, got %v ok=%v", xf, ok)
	}
	yf, ok := got.Field("y")
	if !ok || !yf.Optional {
		t.Errorf("expected field y to survive as optional, got %v ok=%v", yf, ok)
	}
}

func TestArrayRoundTripsWithElementType(t *testing.T) {
	arr := types.Array{Element: types.Num()}
	a := Build(arr, Positive)
	got, ok := ToType(a).(types.Array)
	if !ok {
		t.Fatalf("expected an Array back, got %T", ToType(a))
	}
	if !types.Equals(got.Element, types.Num()) {
		t.Errorf("expected num element, got %s", got.Element)
	}
}

func TestRecursiveTypeSurvivesBuildAndToTypeRoundTrip(t *testing.T) {
	binder := types.Var{ID: 1, Name: "a"}
	body := types.Array{Element: binder}
	rec := types.Recursive{Binder: binder, Body: body}

	a := Build(rec, Positive)
	got, ok := ToType(a).(types.Recursive)
	if !ok {
		t.Fatalf("expected a Recursive back, got %T", ToType(a))
	}
	inner, ok := got.Body.(types.Array)
	if !ok {
		t.Fatalf("expected the recursive body to be an Array, got %T", got.Body)
	}
	v, ok := inner.Element.(types.Var)
	if !ok || v.ID != got.Binder.ID {
		t.Errorf("expected the array element to refer back to the binder, got %v", inner.Element)
	}
}

func TestUnionMembersAttachToOneStateAndRecombineOnPositiveSide(t *testing.T) {
	var u types.Type = types.UnionType{Members: []types.Type{types.StrLit("a"), types.NumLit(1)}}
	a := Build(u, Positive)
	start := a.States[a.Start]
	if !start.Heads[HeadStr] || !start.Heads[HeadNum] {
		t.Fatalf("expected both str and num heads on the union's single state, got %v", start.Heads)
	}
	got := ToType(a)
	if _, ok := got.(types.UnionType); !ok {
		t.Errorf("expected ToType to recombine into a Union, got %T (%s)", got, got)
	}
}

func TestIntersectionMembersRecombineOnNegativeSide(t *testing.T) {
	rec1 := types.NewRecord([]string{"x"}, map[string]types.RecordField{"x": {Type: types.Num()}})
	rec2 := types.NewRecord([]string{"y"}, map[string]types.RecordField{"y": {Type: types.Str()}})
	var i types.Type = types.IntersectionType{Members: []types.Type{rec1, rec2}}
	a := Build(i, Negative)
	got, ok := ToType(a).(types.Record)
	if !ok {
		t.Fatalf("expected the intersection of two disjoint records to recombine into one Record, got %T", ToType(a))
	}
	if _, ok := got.Field("x"); !ok {
		t.Errorf("expected field x to survive, got %v", got.Names())
	}
	if _, ok := got.Field("y"); !ok {
		t.Errorf("expected field y to survive, got %v", got.Names())
	}
}

func TestMinimizeDropsUnreachableStates(t *testing.T) {
	states := []*State{}
	b := &builder{states: &states}
	start := b.convert(types.Num(), Positive, map[int64]int{})
	// An orphan state with nothing pointing to it.
	newState(&states, Positive)
	a := &Automaton{States: states, Start: start}

	min := Minimize(a)
	if len(min.States) != 1 {
		t.Errorf("expected unreachable state to be dropped, got %d states", len(min.States))
	}
}

func TestMinimizeCollapsesStructurallyIdenticalStates(t *testing.T) {
	fn := types.Function{
		Params: []types.FuncParam{{Name: "_", Type: types.Num()}},
		Return: types.Num(),
	}
	rec := types.NewRecord([]string{"a", "b"}, map[string]types.RecordField{
		"a": {Type: fn},
		"b": {Type: fn},
	})
	a := Build(rec, Positive)
	min := Minimize(a)

	got, ok := ToType(min).(types.Record)
	if !ok {
		t.Fatalf("expected a Record back, got %T", ToType(min))
	}
	af, _ := got.Field("a")
	bf, _ := got.Field("b")
	if !types.Equals(af.Type, bf.Type) {
		t.Errorf("expected fields a and b to still agree after minimization, got %s vs %s", af.Type, bf.Type)
	}

	start := min.States[min.Start]
	aID, bID := start.Fields["a"], start.Fields["b"]
	if aID != bID {
		t.Errorf("expected the two structurally identical function states to collapse to one, got %d and %d", aID, bID)
	}
}

func TestMinimizeKeepsDistinctFunctionReturnTypesApart(t *testing.T) {
	fnA := types.Function{Return: types.Num()}
	fnB := types.Function{Return: types.Str()}
	rec := types.NewRecord([]string{"a", "b"}, map[string]types.RecordField{
		"a": {Type: fnA},
		"b": {Type: fnB},
	})
	a := Build(rec, Positive)
	min := Minimize(a)

	start := min.States[min.Start]
	aID, bID := start.Fields["a"], start.Fields["b"]
	if aID == bID {
		t.Errorf("expected functions with different return types to stay in separate classes")
	}
}
