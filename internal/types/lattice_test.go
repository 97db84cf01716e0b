package types

import "testing"

func TestUnionCommutativeAndIdentities(t *testing.T) {
	a := Str()
	b := Num()

	if !Equals(Union([]Type{a, b}), Union([]Type{b, a})) {
		t.Errorf("union should be commutative")
	}
	if !Equals(Union([]Type{a, Never{}}), a) {
		t.Errorf("union with Never should be identity, got %s", Union([]Type{a, Never{}}))
	}
	if _, ok := Union([]Type{a, Any{}}).(Any); !ok {
		t.Errorf("union with Any should absorb to Any")
	}
}

func TestIntersectionIdentities(t *testing.T) {
	a := Str()
	if _, ok := Intersection([]Type{a, Never{}}).(Never); !ok {
		t.Errorf("intersection with Never should be Never")
	}
	if !Equals(Intersection([]Type{a, Any{}}), a) {
		t.Errorf("intersection with Any should be identity")
	}
}

func TestUnionFlattensAndDedups(t *testing.T) {
	a, b, c := Str(), Num(), Bool()
	nested := Union([]Type{Union([]Type{a, b}), c})
	u, ok := nested.(UnionType)
	if !ok {
		t.Fatalf("expected a flattened Union, got %T", nested)
	}
	if len(u.Members) != 3 {
		t.Errorf("expected 3 distinct members, got %d (%s)", len(u.Members), u)
	}

	dup := Union([]Type{a, a, b})
	if du, ok := dup.(UnionType); ok && len(du.Members) != 2 {
		t.Errorf("expected dedup to leave 2 members, got %d", len(du.Members))
	}
}

func TestRecordJoinIsWidthSubtyping(t *testing.T) {
	ab := NewRecord([]string{"a", "b"}, map[string]RecordField{
		"a": {Type: NumLit(1)},
		"b": {Type: NumLit(2)},
	})
	ac := NewRecord([]string{"a", "c"}, map[string]RecordField{
		"a": {Type: NumLit(3)},
		"c": {Type: NumLit(4)},
	})

	joined := Union([]Type{ab, ac})
	rec, ok := joined.(Record)
	if !ok {
		t.Fatalf("expected Record, got %T", joined)
	}
	if rec.Len() != 1 {
		t.Fatalf("expected exactly field 'a', got %v", rec.Names())
	}
	if _, ok := rec.Field("b"); ok {
		t.Errorf("field 'b' should not survive the join")
	}
	fa, ok := rec.Field("a")
	if !ok {
		t.Fatalf("expected field 'a'")
	}
	if !Equals(fa.Type, Union([]Type{NumLit(1), NumLit(3)})) {
		t.Errorf("joined field 'a' should be the union of both literals, got %s", fa.Type)
	}
}

func TestRecordMeetIsDomainUnion(t *testing.T) {
	ab := NewRecord([]string{"a", "b"}, map[string]RecordField{
		"a": {Type: Num()},
		"b": {Type: Num()},
	})
	ac := NewRecord([]string{"a", "c"}, map[string]RecordField{
		"a": {Type: Num()},
		"c": {Type: Str()},
	})
	met := Intersection([]Type{ab, ac})
	rec, ok := met.(Record)
	if !ok {
		t.Fatalf("expected Record, got %T", met)
	}
	if rec.Len() != 3 {
		t.Errorf("expected fields a,b,c; got %v", rec.Names())
	}
}

func TestSubstituteSkipsBoundRecursiveOccurrences(t *testing.T) {
	arena := NewVarArena()
	binder := arena.Fresh(0)
	rec := NewRecord([]string{"next"}, map[string]RecordField{
		"next": {Type: binder},
	})
	self := Recursive{Binder: binder, Body: rec}

	replaced := Substitute(self, binder.ID, Num())
	r2, ok := replaced.(Recursive)
	if !ok {
		t.Fatalf("expected Recursive to be preserved, got %T", replaced)
	}
	if !Equals(r2, self) {
		t.Errorf("substitution should not rewrite the bound occurrence: got %s", r2)
	}
}

func TestEqualsAlphaEquivalentRecursive(t *testing.T) {
	arena := NewVarArena()
	a := arena.Fresh(0)
	b := arena.Fresh(0)
	ra := Recursive{Binder: a, Body: NewRecord([]string{"next"}, map[string]RecordField{"next": {Type: a}})}
	rb := Recursive{Binder: b, Body: NewRecord([]string{"next"}, map[string]RecordField{"next": {Type: b}})}
	if !Equals(ra, rb) {
		t.Errorf("alpha-equivalent recursive types should be equal")
	}
}
