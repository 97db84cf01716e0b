package state

import (
	"github.com/polarflow/polarflow/internal/ast"
	"github.com/polarflow/polarflow/internal/types"
)

// State is a typing state at one CFG point: an environment, the
// per-expression types discovered while transferring the block that
// produced it, and whether that point is reachable at all.
// Unreachable is a distinguished bottom: its Env and Exprs are nil and
// must never be read.
type State struct {
	Env       *Env
	Exprs     map[ast.Expression]types.Type
	Reachable bool
}

// Unreachable returns the bottom state.
func Unreachable() State {
	return State{Reachable: false}
}

// NewState opens a fresh reachable state rooted at env, with an empty
// per-expression type map ready for a transfer pass to fill in.
func NewState(env *Env) State {
	return State{Env: env, Exprs: map[ast.Expression]types.Type{}, Reachable: true}
}

// Join combines two predecessor states environment-wise: if both are
// reachable, binding types union and definitely-assigned flags AND;
// if only one is reachable, it passes through unchanged; if neither
// is, the result is unreachable.
func Join(a, b State) State {
	switch {
	case !a.Reachable && !b.Reachable:
		return Unreachable()
	case !a.Reachable:
		return NewState(b.Env)
	case !b.Reachable:
		return NewState(a.Env)
	}
	return NewState(joinEnv(a.Env, b.Env))
}

// JoinAll folds Join across states, short-circuiting to Unreachable
// for an empty list.
func JoinAll(states []State) State {
	if len(states) == 0 {
		return Unreachable()
	}
	acc := states[0]
	for _, s := range states[1:] {
		acc = Join(acc, s)
	}
	return acc
}

func joinEnv(a, b *Env) *Env {
	av, bv := a.Visible(), b.Visible()
	out := make(map[string]Binding, len(av)+len(bv))
	for name, ab := range av {
		if bb, ok := bv[name]; ok {
			out[name] = Binding{
				Name:               name,
				Type:               types.Union([]types.Type{ab.Type, bb.Type}),
				DeclSite:           ab.DeclSite,
				Kind:               ab.Kind,
				DefinitelyAssigned: ab.DefinitelyAssigned && bb.DefinitelyAssigned,
				PossiblyMutated:    ab.PossiblyMutated || bb.PossiblyMutated,
			}
			continue
		}
		out[name] = ab
	}
	for name, bb := range bv {
		if _, ok := av[name]; !ok {
			out[name] = bb
		}
	}
	return &Env{vars: out}
}

// Equal is statesEqual: structural over the environment's visible
// bindings (type and definitely-assigned, the two fields Join
// actually combines) and reachability, ignoring the per-expression
// map. This is what the fixed-point loop uses to detect convergence.
func Equal(a, b State) bool {
	if a.Reachable != b.Reachable {
		return false
	}
	if !a.Reachable {
		return true
	}
	av, bv := a.Env.Visible(), b.Env.Visible()
	if len(av) != len(bv) {
		return false
	}
	for name, ab := range av {
		bb, ok := bv[name]
		if !ok || ab.DefinitelyAssigned != bb.DefinitelyAssigned || !types.Equals(ab.Type, bb.Type) {
			return false
		}
	}
	return true
}

// Widen replaces the literal types of every name in mutated with its
// base type, so a loop header join over a variable that takes on a
// new literal value each iteration still reaches a fixed point.
func Widen(s State, mutated map[string]bool) State {
	if !s.Reachable || len(mutated) == 0 {
		return s
	}
	vis := s.Env.Visible()
	out := make(map[string]Binding, len(vis))
	changed := false
	for name, b := range vis {
		if mutated[name] {
			widened := types.BaseOf(b.Type)
			if u, ok := b.Type.(types.UnionType); ok {
				members := make([]types.Type, len(u.Members))
				for i, m := range u.Members {
					members[i] = types.BaseOf(m)
				}
				widened = types.Union(members)
			}
			if !types.Equals(widened, b.Type) {
				changed = true
				b.Type = widened
			}
		}
		out[name] = b
	}
	if !changed {
		return s
	}
	return NewState(&Env{vars: out})
}
