package constraints

// Env is a scoped, parent-linked mapping from names to polymorphic
// schemes — the constraint generator's own environment, distinct from
// internal/state's monomorphic Env since every binding here carries a
// quantifier set rather than a single resolved type. Copy-on-write,
// mirroring internal/state.Env's threading style.
type Env struct {
	parent *Env
	vars   map[string]Scheme
}

// NewEnv returns an empty root environment.
func NewEnv() *Env {
	return &Env{vars: map[string]Scheme{}}
}

// Child opens a new nested frame.
func (e *Env) Child() *Env {
	return &Env{parent: e, vars: map[string]Scheme{}}
}

// Declare introduces or shadows name in e's own frame, returning a new
// Env so the receiver is left untouched.
func (e *Env) Declare(name string, sc Scheme) *Env {
	nv := make(map[string]Scheme, len(e.vars)+1)
	for k, v := range e.vars {
		nv[k] = v
	}
	nv[name] = sc
	return &Env{parent: e.parent, vars: nv}
}

// Lookup walks the parent chain for name, innermost frame first.
func (e *Env) Lookup(name string) (Scheme, bool) {
	for cur := e; cur != nil; cur = cur.parent {
		if sc, ok := cur.vars[name]; ok {
			return sc, true
		}
	}
	return Scheme{}, false
}

// Visible flattens the whole chain into one map, innermost frame
// winning over outer declarations of the same name — used by a caller
// that wants every top-level scheme after inference finishes rather
// than looking names up one at a time.
func (e *Env) Visible() map[string]Scheme {
	out := map[string]Scheme{}
	var frames []*Env
	for cur := e; cur != nil; cur = cur.parent {
		frames = append(frames, cur)
	}
	for i := len(frames) - 1; i >= 0; i-- {
		for name, sc := range frames[i].vars {
			out[name] = sc
		}
	}
	return out
}

// FreeVars is the set of type-variable IDs free anywhere in e's visible
// bindings (each binding's own quantified variables excluded) — the
// set generalization must not quantify over, since those variables
// still belong to an enclosing, not-yet-generalized scope.
func (e *Env) FreeVars() map[int64]bool {
	out := map[int64]bool{}
	for cur := e; cur != nil; cur = cur.parent {
		for _, sc := range cur.vars {
			for id := range freeVarsOfScheme(sc) {
				out[id] = true
			}
		}
	}
	return out
}
