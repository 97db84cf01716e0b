// Package shape owns the analyzer's external interface: the stable
// Annotation/Diagnostic records a formatter consumes, and the
// Simplify pass that canonicalizes an inferred type before it's handed
// across that boundary. Nothing downstream of this package should ever
// see a raw inference artifact (a bare type variable, a degenerate
// never/unknown union) that Simplify could have already resolved.
package shape

import (
	"fmt"
	"sort"

	"github.com/polarflow/polarflow/internal/automaton"
	"github.com/polarflow/polarflow/internal/diag"
	"github.com/polarflow/polarflow/internal/token"
	"github.com/polarflow/polarflow/internal/types"
)

// Kind classifies what an Annotation is attached to.
type Kind int

const (
	KindVariable Kind = iota
	KindConst
	KindFunction
	KindClass
	KindParameter
	KindProperty
)

func (k Kind) String() string {
	switch k {
	case KindVariable:
		return "variable"
	case KindConst:
		return "const"
	case KindFunction:
		return "function"
	case KindClass:
		return "class"
	case KindParameter:
		return "parameter"
	case KindProperty:
		return "property"
	default:
		return "variable"
	}
}

// Annotation is one declaration or significant expression's inferred
// type, shaped for a formatter: a source range, the node it came from,
// an optional name, the simplified type plus its rendered string, and
// a Kind distinguishing what sort of binding this is.
type Annotation struct {
	Range      token.Range
	NodeType   string
	Name       string
	Type       types.Type
	TypeString string
	Kind       Kind
}

// Diagnostic is the external, sorted-at-the-boundary error record; it
// carries diag.Diagnostic's message, range and node type but drops the
// internal Code enum entirely, matching the external contract's shape
// independent of this repo's internal taxonomy.
type Diagnostic struct {
	Message  string
	Range    token.Range
	NodeType string
}

// FromDiag converts a diag.Diagnostic to the external record.
func FromDiag(d diag.Diagnostic) Diagnostic {
	return Diagnostic{Message: d.Message, Range: d.Range, NodeType: d.NodeType}
}

// Annotate builds an external Annotation from inferred data, applying
// Simplify to the type before it's attached.
func Annotate(rng token.Range, nodeType, name string, t types.Type, kind Kind) Annotation {
	simplified := Simplify(t)
	return Annotation{
		Range:      rng,
		NodeType:   nodeType,
		Name:       name,
		Type:       simplified,
		TypeString: simplified.String(),
		Kind:       kind,
	}
}

// SortAnnotations orders a by source start offset, satisfying the
// ordering law the external contract requires; ties keep their
// original relative order (sort.SliceStable), since two annotations at
// the same offset only arise from a declaration and its initializer
// sharing a start position, and the declaration should print first.
func SortAnnotations(a []Annotation) {
	sort.SliceStable(a, func(i, j int) bool {
		return a[i].Range.Start.Offset < a[j].Range.Start.Offset
	})
}

// SortDiagnostics orders d by source start offset, the same guarantee
// SortAnnotations gives the annotation list.
func SortDiagnostics(d []Diagnostic) {
	sort.SliceStable(d, func(i, j int) bool {
		return d[i].Range.Start.Offset < d[j].Range.Start.Offset
	})
}

// Simplify canonicalizes t for output: drop degenerate unknowns/nevers
// from unions, widen a union of only literals sharing one base down to
// that base, and round-trip every other leaf type through the
// automaton. Records, unions, intersections, functions, arrays,
// promises and recursive types are rebuilt in place with each member
// simplified; they are not round-tripped through the automaton as a
// whole. For records this keeps field-type precision the round trip
// would lose (Minimize's head-signature partitioning only
// distinguishes field names, not their full structural type).
func Simplify(t types.Type) types.Type {
	return simplify(t, map[int64]bool{})
}

func simplify(t types.Type, seen map[int64]bool) types.Type {
	switch v := t.(type) {
	case types.Record:
		return simplifyRecord(v, seen)
	case types.UnionType:
		return simplifyUnion(v, seen)
	case types.IntersectionType:
		return simplifyIntersection(v, seen)
	case types.Function:
		return simplifyFunction(v, seen)
	case types.Array:
		return simplifyArray(v, seen)
	case types.Promise:
		return types.Promise{Resolved: simplify(v.Resolved, seen)}
	case types.Recursive:
		if seen[v.Binder.ID] {
			return v
		}
		inner := make(map[int64]bool, len(seen)+1)
		for k := range seen {
			inner[k] = true
		}
		inner[v.Binder.ID] = true
		return types.Recursive{Binder: v.Binder, Body: simplify(v.Body, inner)}
	default:
		return roundTrip(t)
	}
}

// roundTrip pushes t through Build -> Minimize -> ToType, which merges
// structurally-equivalent subterms and drops unreachable automaton
// states; simplify applies it to leaf types only (primitives,
// variables, classes and the like), never to a compound type.
func roundTrip(t types.Type) types.Type {
	a := automaton.Build(t, automaton.Positive)
	min := automaton.Minimize(a)
	return automaton.ToType(min)
}

func simplifyRecord(r types.Record, seen map[int64]bool) types.Type {
	names := r.Names()
	fields := make(map[string]types.RecordField, len(names))
	for _, name := range names {
		f, _ := r.Field(name)
		fields[name] = types.RecordField{
			Type:     simplify(f.Type, seen),
			Optional: f.Optional,
			Readonly: f.Readonly,
		}
	}
	return types.NewRecord(names, fields)
}

func simplifyUnion(u types.UnionType, seen map[int64]bool) types.Type {
	members := dropDegenerate(u.Members, seen)
	return widenLiteralUnion(types.Union(members))
}

func simplifyIntersection(i types.IntersectionType, seen map[int64]bool) types.Type {
	members := make([]types.Type, len(i.Members))
	for idx, m := range i.Members {
		members[idx] = simplify(m, seen)
	}
	return types.Intersection(members)
}

// dropDegenerate simplifies every member and removes Unknown (a
// not-yet-resolved placeholder that should never survive to output)
// and Never (already the Union identity, but cheaper to drop before
// the smart constructor re-walks the list) unless they're the only
// member present.
func dropDegenerate(members []types.Type, seen map[int64]bool) []types.Type {
	simplified := make([]types.Type, len(members))
	for i, m := range members {
		simplified[i] = simplify(m, seen)
	}
	kept := make([]types.Type, 0, len(simplified))
	for _, m := range simplified {
		switch m.(type) {
		case types.Unknown, types.Never:
			continue
		default:
			kept = append(kept, m)
		}
	}
	if len(kept) == 0 {
		return simplified
	}
	return kept
}

// widenLiteralUnion collapses a union of three or more literals
// sharing one base down to that unrefined base (e.g. 'a' | 'b' | 'c'
// -> string). Two or fewer literals still print precisely.
func widenLiteralUnion(t types.Type) types.Type {
	u, ok := t.(types.UnionType)
	if !ok || len(u.Members) <= 2 {
		return t
	}
	base := ""
	for _, m := range u.Members {
		p, ok := m.(types.Primitive)
		if !ok || !p.IsLiteral() {
			return t
		}
		if base == "" {
			base = p.Base
		} else if base != p.Base {
			return t
		}
	}
	return types.Primitive{Base: base}
}

func simplifyFunction(f types.Function, seen map[int64]bool) types.Type {
	params := make([]types.FuncParam, len(f.Params))
	for i, p := range f.Params {
		params[i] = types.FuncParam{
			Name:     p.Name,
			Type:     simplify(p.Type, seen),
			Optional: p.Optional,
			Rest:     p.Rest,
		}
	}
	var ret types.Type
	if f.Return != nil {
		ret = simplify(f.Return, seen)
	}
	return types.Function{Params: params, Return: ret, Async: f.Async, Generator: f.Generator}
}

func simplifyArray(a types.Array, seen map[int64]bool) types.Type {
	if a.Tuple != nil {
		tuple := make([]types.Type, len(a.Tuple))
		for i, m := range a.Tuple {
			tuple[i] = simplify(m, seen)
		}
		return types.Array{Tuple: tuple, Element: simplify(a.Element, seen)}
	}
	return types.Array{Element: simplify(a.Element, seen)}
}

// String renders an annotation the way a formatter would inline it as
// a trailing comment: "name: type".
func (a Annotation) String() string {
	if a.Name == "" {
		return a.TypeString
	}
	return fmt.Sprintf("%s: %s", a.Name, a.TypeString)
}
