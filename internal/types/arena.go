package types

import "fmt"

// VarArena mints fresh type variables. The counter is
// analysis-instance-local rather than a package global, so parallel
// analyses never share state — each Analyzer owns exactly one VarArena.
type VarArena struct {
	next int64
}

// NewVarArena starts a fresh, independent counter.
func NewVarArena() *VarArena {
	return &VarArena{}
}

// Fresh mints an unnamed variable at the given let-generalization
// level.
func (a *VarArena) Fresh(level int) Var {
	a.next++
	return Var{ID: a.next, Name: fmt.Sprintf("t%d", a.next), Level: level}
}

// FreshNamed mints a variable that prefers a human-readable name (e.g.
// "gen_a") over the default "tN" scheme, used for generalized scheme
// variables so debug output stays legible.
func (a *VarArena) FreshNamed(name string, level int) Var {
	a.next++
	return Var{ID: a.next, Name: name, Level: level}
}
