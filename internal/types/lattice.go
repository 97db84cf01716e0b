package types

import "golang.org/x/exp/slices"

// Union builds the join of members:
//   - flatten nested unions
//   - drop Never (identity element)
//   - any Any member absorbs the whole union to Any
//   - deduplicate (structural equality)
//   - if every surviving member is a Record, apply record-join instead
//     of building a literal Union node
//   - collapse a single surviving member to itself (no singleton-list
//     Union wrapper)
func Union(members []Type) Type {
	flat := make([]Type, 0, len(members))
	for _, m := range members {
		flattenUnion(m, &flat)
	}

	for _, m := range flat {
		if _, ok := m.(Any); ok {
			return m
		}
	}

	deduped := dedupeTypes(flat)

	if len(deduped) == 0 {
		return Never{}
	}
	if len(deduped) == 1 {
		return deduped[0]
	}

	if allRecords(deduped) {
		acc := deduped[0].(Record)
		for _, m := range deduped[1:] {
			acc = recordJoin(acc, m.(Record))
		}
		return acc
	}

	return UnionType{Members: deduped}
}

func flattenUnion(t Type, out *[]Type) {
	switch v := t.(type) {
	case Never:
		return
	case UnionType:
		for _, m := range v.Members {
			flattenUnion(m, out)
		}
	default:
		*out = append(*out, t)
	}
}

// Intersection builds the meet of members, dual to Union:
//   - flatten nested intersections
//   - any Never member absorbs to Never
//   - Any is the identity element (dropped unless it's the only member)
//   - deduplicate
//   - all-Record members use record-meet
//   - collapse a singleton survivor
func Intersection(members []Type) Type {
	flat := make([]Type, 0, len(members))
	for _, m := range members {
		flattenIntersection(m, &flat)
	}

	for _, m := range flat {
		if _, ok := m.(Never); ok {
			return Never{}
		}
	}

	kept := make([]Type, 0, len(flat))
	for _, m := range flat {
		if _, ok := m.(Any); ok {
			continue
		}
		kept = append(kept, m)
	}
	if len(kept) == 0 {
		// Every member was Any (or the list was empty): Any is the
		// identity, so an all-Any intersection is still Any.
		if len(flat) > 0 {
			return Any{}
		}
		return Any{}
	}

	deduped := dedupeTypes(kept)
	if len(deduped) == 1 {
		return deduped[0]
	}

	if allRecords(deduped) {
		acc := deduped[0].(Record)
		for _, m := range deduped[1:] {
			acc = recordMeet(acc, m.(Record))
		}
		return acc
	}

	return IntersectionType{Members: deduped}
}

func flattenIntersection(t Type, out *[]Type) {
	switch v := t.(type) {
	case Any:
		return
	case IntersectionType:
		for _, m := range v.Members {
			flattenIntersection(m, out)
		}
	default:
		*out = append(*out, t)
	}
}

func allRecords(ts []Type) bool {
	for _, t := range ts {
		if _, ok := t.(Record); !ok {
			return false
		}
	}
	return len(ts) > 0
}

func dedupeTypes(ts []Type) []Type {
	out := make([]Type, 0, len(ts))
	for _, t := range ts {
		if !slices.ContainsFunc(out, func(seen Type) bool { return Equals(t, seen) }) {
			out = append(out, t)
		}
	}
	return out
}

// recordJoin is the domain-intersection join: only fields present in
// both records survive, with the field type joined. This is what
// gives width subtyping "for free" on the positive side.
func recordJoin(a, b Record) Record {
	order := make([]string, 0)
	fields := make(map[string]RecordField)
	for _, name := range a.order {
		fa, ok := a.fields[name]
		if !ok {
			continue
		}
		fb, ok := b.fields[name]
		if !ok {
			continue
		}
		order = append(order, name)
		fields[name] = RecordField{
			Type:     Union([]Type{fa.Type, fb.Type}),
			Optional: fa.Optional || fb.Optional,
			Readonly: fa.Readonly || fb.Readonly,
		}
	}
	return NewRecord(order, fields)
}

// recordMeet is the domain-union meet: every field from either record
// is kept; fields present in both are met, the rest are taken
// verbatim.
func recordMeet(a, b Record) Record {
	order := make([]string, 0, len(a.order)+len(b.order))
	fields := make(map[string]RecordField)
	for _, name := range a.order {
		order = append(order, name)
	}
	for _, name := range b.order {
		if _, ok := a.fields[name]; !ok {
			order = append(order, name)
		}
	}
	for _, name := range order {
		fa, okA := a.fields[name]
		fb, okB := b.fields[name]
		switch {
		case okA && okB:
			fields[name] = RecordField{
				Type:     Intersection([]Type{fa.Type, fb.Type}),
				Optional: fa.Optional && fb.Optional,
				Readonly: fa.Readonly || fb.Readonly,
			}
		case okA:
			fields[name] = fa
		default:
			fields[name] = fb
		}
	}
	return NewRecord(order, fields)
}
