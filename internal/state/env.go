// Package state implements the abstract flow state a fixed-point
// analysis walks the CFG with: type environments, per-expression type
// maps, reachability, and the transfer rules that turn one block's
// entry state into its exit state.
package state

import (
	"github.com/polarflow/polarflow/internal/ast"
	"github.com/polarflow/polarflow/internal/token"
	"github.com/polarflow/polarflow/internal/types"
)

// BindingKind extends ast.VarKind with the binding forms that are
// never spelled with var/let/const but still need a kind for
// diagnostics and narrowing.
type BindingKind int

const (
	KindVar BindingKind = iota
	KindLet
	KindConst
	KindParam
	KindFunction
	KindClass
	KindImport
)

func FromVarKind(k ast.VarKind) BindingKind {
	switch k {
	case ast.VarConst:
		return KindConst
	case ast.VarLet:
		return KindLet
	default:
		return KindVar
	}
}

// Binding is one name's entry in a type environment.
type Binding struct {
	Name               string
	Type               types.Type
	DeclSite           token.Range
	Kind               BindingKind
	DefinitelyAssigned bool
	PossiblyMutated    bool
}

// Env is a scoped, parent-linked mapping from names to bindings.
// Updates are copy-on-write: every mutating method returns a new Env,
// leaving the receiver (and anything else pointing at it) untouched,
// so a single entry env can be extended independently down two
// branches of a conditional.
type Env struct {
	parent *Env
	vars   map[string]Binding
}

// NewEnv returns an empty root environment.
func NewEnv() *Env {
	return &Env{vars: map[string]Binding{}}
}

// Child opens a new nested frame; lookups fall through to e when a
// name isn't declared in the child.
func (e *Env) Child() *Env {
	return &Env{parent: e, vars: map[string]Binding{}}
}

// Lookup walks the parent chain for name, innermost frame first.
func (e *Env) Lookup(name string) (Binding, bool) {
	for cur := e; cur != nil; cur = cur.parent {
		if b, ok := cur.vars[name]; ok {
			return b, true
		}
	}
	return Binding{}, false
}

// Declare introduces or shadows name in e's own frame.
func (e *Env) Declare(name string, b Binding) *Env {
	nv := copyVars(e.vars)
	nv[name] = b
	return &Env{parent: e.parent, vars: nv}
}

// Assign rewrites name's type wherever it is bound in the chain,
// marking it definitely-assigned and possibly-mutated. If name isn't
// bound anywhere, it is implicitly declared as a var in e's own frame
// (sloppy-mode global assignment).
func (e *Env) Assign(name string, t types.Type) *Env {
	if b, ok := e.vars[name]; ok {
		b.Type = t
		b.DefinitelyAssigned = true
		b.PossiblyMutated = true
		return e.Declare(name, b)
	}
	if e.parent != nil {
		if _, ok := e.parent.Lookup(name); ok {
			return &Env{parent: e.parent.Assign(name, t), vars: e.vars}
		}
	}
	return e.Declare(name, Binding{Name: name, Type: t, Kind: KindVar, DefinitelyAssigned: true, PossiblyMutated: true})
}

// Visible flattens the whole chain into one map, innermost frame
// winning over outer declarations of the same name.
func (e *Env) Visible() map[string]Binding {
	out := map[string]Binding{}
	var frames []*Env
	for cur := e; cur != nil; cur = cur.parent {
		frames = append(frames, cur)
	}
	for i := len(frames) - 1; i >= 0; i-- {
		for name, b := range frames[i].vars {
			out[name] = b
		}
	}
	return out
}

func copyVars(vars map[string]Binding) map[string]Binding {
	nv := make(map[string]Binding, len(vars)+1)
	for k, v := range vars {
		nv[k] = v
	}
	return nv
}
