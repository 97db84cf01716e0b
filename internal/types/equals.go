package types

// Equals is structural equality: alpha-equivalent on Recursive binders
// (renaming is tracked in alpha) and order-independent on Union /
// Intersection members.
func Equals(a, b Type) bool {
	return equalsAlpha(a, b, map[int64]int64{})
}

// alpha maps a recursive binder ID seen on the left to the
// corresponding binder ID on the right, so `rec a. {next: a}` equals
// `rec b. {next: b}`.
func equalsAlpha(a, b Type, alpha map[int64]int64) bool {
	switch av := a.(type) {
	case Var:
		bv, ok := b.(Var)
		if !ok {
			return false
		}
		if mapped, ok := alpha[av.ID]; ok {
			return mapped == bv.ID
		}
		return av.ID == bv.ID
	case Primitive:
		bv, ok := b.(Primitive)
		if !ok {
			return false
		}
		return av.Base == bv.Base && literalEqual(av.Literal, bv.Literal)
	case Top:
		_, ok := b.(Top)
		return ok
	case Bottom:
		_, ok := b.(Bottom)
		return ok
	case Any:
		_, ok := b.(Any)
		return ok
	case Never:
		_, ok := b.(Never)
		return ok
	case Unknown:
		_, ok := b.(Unknown)
		return ok
	case Function:
		bv, ok := b.(Function)
		if !ok || len(av.Params) != len(bv.Params) || av.Async != bv.Async || av.Generator != bv.Generator {
			return false
		}
		for i, p := range av.Params {
			q := bv.Params[i]
			if p.Optional != q.Optional || p.Rest != q.Rest || !equalsAlpha(p.Type, q.Type, alpha) {
				return false
			}
		}
		return nilableEquals(av.Return, bv.Return, alpha)
	case Record:
		bv, ok := b.(Record)
		if !ok || len(av.order) != len(bv.order) {
			return false
		}
		for name, f := range av.fields {
			g, ok := bv.fields[name]
			if !ok || f.Optional != g.Optional || f.Readonly != g.Readonly || !equalsAlpha(f.Type, g.Type, alpha) {
				return false
			}
		}
		return true
	case Array:
		bv, ok := b.(Array)
		if !ok {
			return false
		}
		if (av.Tuple == nil) != (bv.Tuple == nil) {
			return false
		}
		if av.Tuple != nil {
			if len(av.Tuple) != len(bv.Tuple) {
				return false
			}
			for i := range av.Tuple {
				if !equalsAlpha(av.Tuple[i], bv.Tuple[i], alpha) {
					return false
				}
			}
			return true
		}
		return equalsAlpha(av.Element, bv.Element, alpha)
	case Promise:
		bv, ok := b.(Promise)
		if !ok {
			return false
		}
		return equalsAlpha(av.Resolved, bv.Resolved, alpha)
	case *Class:
		bv, ok := b.(*Class)
		if !ok {
			return false
		}
		return av.Name == bv.Name
	case UnionType:
		bv, ok := b.(UnionType)
		if !ok {
			return false
		}
		return sameMembersUnordered(av.Members, bv.Members, alpha)
	case IntersectionType:
		bv, ok := b.(IntersectionType)
		if !ok {
			return false
		}
		return sameMembersUnordered(av.Members, bv.Members, alpha)
	case Recursive:
		bv, ok := b.(Recursive)
		if !ok {
			return false
		}
		nv := make(map[int64]int64, len(alpha)+1)
		for k, v := range alpha {
			nv[k] = v
		}
		nv[av.Binder.ID] = bv.Binder.ID
		return equalsAlpha(av.Body, bv.Body, nv)
	default:
		return false
	}
}

func nilableEquals(a, b Type, alpha map[int64]int64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return equalsAlpha(a, b, alpha)
}

func literalEqual(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a == b
}

func sameMembersUnordered(as, bs []Type, alpha map[int64]int64) bool {
	if len(as) != len(bs) {
		return false
	}
	used := make([]bool, len(bs))
	for _, a := range as {
		found := false
		for j, b := range bs {
			if used[j] {
				continue
			}
			if equalsAlpha(a, b, alpha) {
				used[j] = true
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
