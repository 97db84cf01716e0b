package constraints

import "github.com/polarflow/polarflow/internal/types"

// Scheme is a rank-1 polymorphic type: Type with every variable in
// Vars universally quantified. A Scheme with no Vars is a monomorphic
// type wearing the same shape so call sites never need to special-case
// "might be polymorphic".
type Scheme struct {
	Vars []types.Var
	Type types.Type
}

// Mono wraps t as a scheme with no quantified variables.
func Mono(t types.Type) Scheme { return Scheme{Type: t} }

func freeVarsOfScheme(sc Scheme) map[int64]bool {
	bound := make(map[int64]bool, len(sc.Vars))
	for _, v := range sc.Vars {
		bound[v.ID] = true
	}
	out := map[int64]bool{}
	for _, v := range types.FreeVars(sc.Type) {
		if !bound[v.ID] {
			out[v.ID] = true
		}
	}
	return out
}

// Generalize closes over every variable free in t but not free
// anywhere in env, producing the scheme `let x = e` binds x to. This
// is the classic Algorithm-W generalization rule, carried over
// unchanged to the polar lattice: biunification doesn't change which
// variables are safe to quantify, only how constraints on them are
// solved.
func Generalize(t types.Type, env *Env) Scheme {
	envFree := env.FreeVars()
	var quantified []types.Var
	for _, v := range types.FreeVars(t) {
		if !envFree[v.ID] {
			quantified = append(quantified, v)
		}
	}
	return Scheme{Vars: quantified, Type: t}
}

// Instantiate replaces every quantified variable of sc with a fresh
// one at level, so each use site of a polymorphic binding gets its own
// independent copy of the scheme's variables — the mechanism that lets
// `identity(1)` and `identity("a")` coexist against one `let identity
// = x => x`.
func Instantiate(sc Scheme, arena *types.VarArena, level int) types.Type {
	if len(sc.Vars) == 0 {
		return sc.Type
	}
	subst := make(types.Subst, len(sc.Vars))
	for _, v := range sc.Vars {
		subst[v.ID] = arena.Fresh(level)
	}
	return types.ApplySubst(sc.Type, subst)
}
