package types

// Subst maps type-variable IDs to their replacement type: a plain map
// keyed by variable identity, applied with a cycle guard.
type Subst map[int64]Type

// FreeVars collects the free type variables of t, skipping any bound
// occurrence inside a Recursive binder.
func FreeVars(t Type) []Var {
	seen := map[int64]bool{}
	var out []Var
	var walk func(Type, map[int64]bool)
	walk = func(t Type, bound map[int64]bool) {
		switch v := t.(type) {
		case Var:
			if bound[v.ID] {
				return
			}
			if !seen[v.ID] {
				seen[v.ID] = true
				out = append(out, v)
			}
		case Primitive, Top, Bottom, Any, Never, Unknown:
			return
		case Function:
			for _, p := range v.Params {
				walk(p.Type, bound)
			}
			if v.Return != nil {
				walk(v.Return, bound)
			}
		case Record:
			for _, name := range v.order {
				walk(v.fields[name].Type, bound)
			}
		case Array:
			if v.Tuple != nil {
				for _, m := range v.Tuple {
					walk(m, bound)
				}
			} else {
				walk(v.Element, bound)
			}
		case Promise:
			walk(v.Resolved, bound)
		case *Class:
			walk(&v.Constructor, bound)
			walk(v.Instance, bound)
			walk(v.Static, bound)
		case UnionType:
			for _, m := range v.Members {
				walk(m, bound)
			}
		case IntersectionType:
			for _, m := range v.Members {
				walk(m, bound)
			}
		case Recursive:
			inner := make(map[int64]bool, len(bound)+1)
			for k := range bound {
				inner[k] = true
			}
			inner[v.Binder.ID] = true
			walk(v.Body, inner)
		case *Function:
			walk(*v, bound)
		}
	}
	walk(t, map[int64]bool{})
	return out
}

// Substitute replaces every free occurrence of the variable varID with
// replacement, never descending into a Recursive binder that rebinds
// the same ID.
func Substitute(t Type, varID int64, replacement Type) Type {
	return ApplySubst(t, Subst{varID: replacement})
}

// ApplySubst applies a whole substitution map at once. Once a variable
// has been substituted along the current path, it will not be
// substituted again, breaking infinite recursion on cyclic subst maps
// built during biunification.
func ApplySubst(t Type, s Subst) Type {
	return applyWithVisited(t, s, map[int64]bool{})
}

func applyWithVisited(t Type, s Subst, visited map[int64]bool) Type {
	switch v := t.(type) {
	case Var:
		if visited[v.ID] {
			return v
		}
		repl, ok := s[v.ID]
		if !ok {
			return v
		}
		if rv, ok := repl.(Var); ok && rv.ID == v.ID {
			return v
		}
		nv := copyVisited(visited)
		nv[v.ID] = true
		return applyWithVisited(repl, s, nv)
	case Primitive, Top, Bottom, Any, Never, Unknown:
		return t
	case Function:
		return applyFunc(v, s, visited)
	case *Function:
		f := applyFunc(*v, s, visited)
		return f
	case Record:
		order := append([]string(nil), v.order...)
		fields := make(map[string]RecordField, len(v.fields))
		for name, f := range v.fields {
			fields[name] = RecordField{
				Type:     applyWithVisited(f.Type, s, visited),
				Optional: f.Optional,
				Readonly: f.Readonly,
			}
		}
		return NewRecord(order, fields)
	case Array:
		if v.Tuple != nil {
			tuple := make([]Type, len(v.Tuple))
			for i, m := range v.Tuple {
				tuple[i] = applyWithVisited(m, s, visited)
			}
			return Array{Tuple: tuple, Element: Union(tuple)}
		}
		return Array{Element: applyWithVisited(v.Element, s, visited)}
	case Promise:
		return Promise{Resolved: applyWithVisited(v.Resolved, s, visited)}
	case *Class:
		ctor := applyFunc(v.Constructor, s, visited)
		inst := applyWithVisited(v.Instance, s, visited).(Record)
		static := applyWithVisited(v.Static, s, visited).(Record)
		return &Class{Name: v.Name, Constructor: ctor, Instance: inst, Static: static, Parent: v.Parent}
	case UnionType:
		members := make([]Type, len(v.Members))
		for i, m := range v.Members {
			members[i] = applyWithVisited(m, s, visited)
		}
		return Union(members)
	case IntersectionType:
		members := make([]Type, len(v.Members))
		for i, m := range v.Members {
			members[i] = applyWithVisited(m, s, visited)
		}
		return Intersection(members)
	case Recursive:
		// The binder is locally bound: mark it visited for the inner
		// walk so the substitution never rewrites captured occurrences.
		nv := copyVisited(visited)
		nv[v.Binder.ID] = true
		return Recursive{Binder: v.Binder, Body: applyWithVisited(v.Body, s, nv)}
	default:
		return t
	}
}

func applyFunc(f Function, s Subst, visited map[int64]bool) Function {
	params := make([]FuncParam, len(f.Params))
	for i, p := range f.Params {
		params[i] = FuncParam{Name: p.Name, Type: applyWithVisited(p.Type, s, visited), Optional: p.Optional, Rest: p.Rest}
	}
	var ret Type
	if f.Return != nil {
		ret = applyWithVisited(f.Return, s, visited)
	}
	return Function{Params: params, Return: ret, Async: f.Async, Generator: f.Generator}
}

func copyVisited(v map[int64]bool) map[int64]bool {
	nv := make(map[int64]bool, len(v)+1)
	for k := range v {
		nv[k] = true
	}
	return nv
}
