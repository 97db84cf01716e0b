// Package biunify solves the flow constraints internal/constraints
// emits: each `sub ≤ super` inequality is eliminated by the MLsub
// rules — atomic elimination for variables, structural descent for
// everything else — accumulating per-variable lower/upper bounds until
// every constraint has been processed. A constraint that can't be
// satisfied is recorded as a diag.Diagnostic rather than aborting the
// pass; solving always finishes with either a usable substitution or a
// non-empty diagnostic list.
package biunify

import (
	"github.com/polarflow/polarflow/internal/constraints"
	"github.com/polarflow/polarflow/internal/diag"
	"github.com/polarflow/polarflow/internal/token"
	"github.com/polarflow/polarflow/internal/types"
)

// bounds accumulates what has flowed into (lower) and what a variable
// must flow into (upper) over the course of solving.
type bounds struct {
	lower []types.Type
	upper []types.Type
}

// Solver is the biunification engine; it is not safe for concurrent
// use by design (one analysis owns one solver, mirroring the
// instance-local variable arena it consumes constraints from).
type Solver struct {
	bounds map[int64]*bounds
	seen   map[string]bool
	diags  diag.Bag
}

// NewSolver returns an empty solver.
func NewSolver() *Solver {
	return &Solver{bounds: map[int64]*bounds{}, seen: map[string]bool{}}
}

// Solve biunifies every constraint in order and returns the resulting
// substitution (one entry per variable with at least one bound) along
// with every diagnostic raised along the way.
func Solve(cs []constraints.Constraint) (types.Subst, []diag.Diagnostic) {
	s := NewSolver()
	for _, c := range cs {
		s.Add(c.Sub, c.Super, c.Range, c.Note)
	}
	return s.Resolve(), s.diags.Items()
}

// Add biunifies one constraint against the solver's accumulated state.
func (s *Solver) Add(sub, super types.Type, rng token.Range, note string) {
	s.descend(sub, super, rng, note)
}

// Diagnostics returns every diagnostic raised so far.
func (s *Solver) Diagnostics() []diag.Diagnostic {
	return s.diags.Items()
}

func (s *Solver) boundsFor(id int64) *bounds {
	b, ok := s.bounds[id]
	if !ok {
		b = &bounds{}
		s.bounds[id] = b
	}
	return b
}

// Resolve collapses every variable's accumulated bounds to a single
// concrete type: the join of its lower bounds when it has any (the
// widest thing observed flowing in), else the meet of its upper bounds
// (the narrowest thing it was required to satisfy), else it is left
// out of the substitution entirely — an unconstrained variable stays a
// free head tag for the automaton to carry through unresolved.
func (s *Solver) Resolve() types.Subst {
	out := types.Subst{}
	for id, b := range s.bounds {
		switch {
		case len(b.lower) > 0:
			out[id] = types.Union(b.lower)
		case len(b.upper) > 0:
			out[id] = types.Intersection(b.upper)
		}
	}
	return out
}

func (s *Solver) incompatible(sub, super types.Type, rng token.Range, extra string) {
	msg := sub.String() + " is not assignable to " + super.String()
	if extra != "" {
		msg += ": " + extra
	}
	s.diags.Addf(diag.IncompatibleTypes, rng, "%s", msg)
}

// descend is the single recursive entry point: every rule in the file
// — atomic elimination, structural descent, the union/intersection
// splits, the literal-vs-base rule — reduces to zero or more further
// calls to descend, so that nested positions pick up solved bounds
// from outer ones for free by the time Resolve runs.
func (s *Solver) descend(sub, super types.Type, rng token.Range, note string) {
	if types.Equals(sub, super) {
		return
	}
	if isEscapeHatch(sub) || isEscapeHatch(super) {
		return
	}
	if _, ok := sub.(types.Never); ok {
		return // never is the bottom of the lattice, a subtype of everything
	}
	if _, ok := super.(types.Unknown); ok {
		return // unknown is the top of the lattice, a supertype of everything
	}

	key := sub.String() + "≤" + super.String()
	if s.seen[key] {
		return // already solved earlier in this Solve, or in progress higher on the stack: co-inductive success
	}
	s.seen[key] = true

	if v, ok := sub.(types.Var); ok {
		s.addUpperBound(v, super, rng, note)
		return
	}
	if v, ok := super.(types.Var); ok {
		s.addLowerBound(v, sub, rng, note)
		return
	}

	if u, ok := sub.(types.UnionType); ok {
		for _, m := range u.Members {
			s.descend(m, super, rng, note)
		}
		return
	}
	if i, ok := super.(types.IntersectionType); ok {
		for _, m := range i.Members {
			s.descend(sub, m, rng, note)
		}
		return
	}
	if u, ok := super.(types.UnionType); ok {
		s.disjunctive(sub, u.Members, rng, note, "is not a member of "+super.String())
		return
	}
	if i, ok := sub.(types.IntersectionType); ok {
		s.disjunctive(super, i.Members, rng, note, "does not satisfy every member of "+sub.String())
		return
	}

	// A required Function shape is checked before the switch below so a
	// non-function sub of any kind (not just a mismatched Primitive) is
	// reported as not-callable/not-constructable rather than the
	// generic incompatible-types fallback.
	if superFn, ok := super.(types.Function); ok {
		subFn, ok := sub.(types.Function)
		if !ok {
			code := diag.NotCallable
			if note == "construction" {
				code = diag.NotConstructable
			}
			s.diags.Addf(code, rng, "%s is not callable as %s", sub, super)
			return
		}
		s.descendFunction(subFn, superFn, rng, note)
		return
	}

	switch subT := sub.(type) {
	case types.Primitive:
		s.descendPrimitive(subT, super, rng)
	case types.Function:
		s.incompatible(sub, super, rng, "")
	case types.Record:
		s.descendRecord(subT, super, rng, note)
	case types.Array:
		s.descendArray(subT, super, rng, note)
	case types.Promise:
		superT, ok := super.(types.Promise)
		if !ok {
			s.incompatible(sub, super, rng, "")
			return
		}
		s.descend(subT.Resolved, superT.Resolved, rng, note)
	case *types.Class:
		superT, ok := super.(*types.Class)
		if !ok || !subT.IsSubclassOf(superT.Name) {
			s.incompatible(sub, super, rng, "")
			return
		}
	default:
		s.incompatible(sub, super, rng, "")
	}
}

// disjunctive tries sub against each candidate in turn (a bounded
// search, never more than len(candidates) attempts) on a private
// solver state, committing the first one that raises no new
// diagnostic. If none succeed the original pair is reported as
// incompatible.
func (s *Solver) disjunctive(sub types.Type, candidates []types.Type, rng token.Range, note, failureDetail string) {
	for _, cand := range candidates {
		trial := s.fork()
		trial.descend(sub, cand, rng, note)
		if trial.diags.Len() == 0 {
			s.merge(trial)
			return
		}
	}
	s.diags.Addf(diag.IncompatibleTypes, rng, "%s %s", sub, failureDetail)
}

// fork returns a solver that shares no state with s, seeded with s's
// current bounds/seen-set copies so a trial attempt can be discarded
// without side effects if it fails.
func (s *Solver) fork() *Solver {
	t := NewSolver()
	for id, b := range s.bounds {
		t.bounds[id] = &bounds{lower: append([]types.Type(nil), b.lower...), upper: append([]types.Type(nil), b.upper...)}
	}
	for k, v := range s.seen {
		t.seen[k] = v
	}
	return t
}

// merge folds a successful trial's new bounds back into s.
func (s *Solver) merge(trial *Solver) {
	s.bounds = trial.bounds
	for k, v := range trial.seen {
		s.seen[k] = v
	}
}

func isEscapeHatch(t types.Type) bool {
	_, ok := t.(types.Any)
	return ok
}

// addUpperBound implements the `α ≤ τ` atomic elimination rule: record
// τ as a new upper bound for α (failing the occurs check first), then
// replay every already-known lower bound of α against τ so a bound
// learned late still propagates through constraints recorded earlier.
func (s *Solver) addUpperBound(v types.Var, super types.Type, rng token.Range, note string) {
	if occursUnguarded(v, super) {
		s.diags.Addf(diag.InfiniteType, rng, "infinite type: %s occurs in %s", v, super)
		return
	}
	b := s.boundsFor(v.ID)
	b.upper = append(b.upper, super)
	for _, l := range append([]types.Type(nil), b.lower...) {
		s.descend(l, super, rng, note)
	}
}

// addLowerBound implements the `τ ≤ α` atomic elimination rule,
// symmetric to addUpperBound.
func (s *Solver) addLowerBound(v types.Var, sub types.Type, rng token.Range, note string) {
	if occursUnguarded(v, sub) {
		s.diags.Addf(diag.InfiniteType, rng, "infinite type: %s occurs in %s", v, sub)
		return
	}
	b := s.boundsFor(v.ID)
	b.lower = append(b.lower, sub)
	for _, u := range append([]types.Type(nil), b.upper...) {
		s.descend(sub, u, rng, note)
	}
}

// occursUnguarded reports whether v is free in t with no constructor
// between them. Any occurrence inside a Function/Record/Array/Promise/
// Class/Union/Intersection is guarded by that constructor (the same
// guard a `rec` binder provides) and is fine; an occurrence anywhere
// else can only mean t is a bare variable, which is a var-to-var link,
// not a genuine cycle.
func occursUnguarded(v types.Var, t types.Type) bool {
	switch t.(type) {
	case types.Function, types.Record, types.Array, types.Promise, *types.Class, types.UnionType, types.IntersectionType, types.Recursive:
		return false
	default:
		for _, fv := range types.FreeVars(t) {
			if fv.ID == v.ID {
				return true
			}
		}
		return false
	}
}

func (s *Solver) descendPrimitive(sub types.Primitive, super types.Type, rng token.Range) {
	superT, ok := super.(types.Primitive)
	if !ok {
		s.incompatible(sub, super, rng, "")
		return
	}
	if sub.Base != superT.Base {
		s.incompatible(sub, super, rng, "")
		return
	}
	if superT.IsLiteral() {
		// base ≤ literal is never sound; literal ≤ literal with a
		// different value isn't either (Equals already let an equal
		// pair through above).
		s.incompatible(sub, super, rng, "a base type is not assignable to a literal type")
	}
	// literal ≤ base, and base ≤ base, are both fine.
}

// descendFunction assumes the caller has already confirmed super is a
// Function (the not-callable/not-constructable check lives there,
// where a non-function sub of any shape is reported uniformly).
func (s *Solver) descendFunction(sub, superT types.Function, rng token.Range, note string) {
	if len(sub.Params) != len(superT.Params) {
		s.diags.Addf(diag.ArgumentCount, rng, "expected %d argument(s), got %d", len(sub.Params), len(superT.Params))
	} else {
		for i := range sub.Params {
			// Contravariant: the caller's argument type must satisfy the
			// callee's declared parameter type, so the flow runs from the
			// required side back into the provided side.
			s.descend(superT.Params[i].Type, sub.Params[i].Type, rng, note)
		}
	}
	if sub.Return != nil && superT.Return != nil {
		s.descend(sub.Return, superT.Return, rng, note) // covariant
	}
}

func (s *Solver) descendRecord(sub types.Record, super types.Type, rng token.Range, note string) {
	superT, ok := super.(types.Record)
	if !ok {
		s.incompatible(sub, super, rng, "")
		return
	}
	for _, name := range superT.Names() {
		sf, _ := superT.Field(name)
		vf, ok := sub.Field(name)
		if !ok {
			if !sf.Optional {
				s.diags.Addf(diag.MissingProperty, rng, "missing property %q required by %s", name, super)
			}
			continue
		}
		s.descend(vf.Type, sf.Type, rng, note)
	}
}

func (s *Solver) descendArray(sub types.Array, super types.Type, rng token.Range, note string) {
	superT, ok := super.(types.Array)
	if !ok {
		s.incompatible(sub, super, rng, "")
		return
	}
	s.descend(sub.Element, superT.Element, rng, note) // covariant
}
