// Package constraints is the alternative, constraint-based front-end:
// instead of transferring concrete types block by block the way
// internal/state does, it walks the AST once and emits an ordered list
// of flow constraints `sub ≤ super`, deferring their resolution to
// internal/biunify. This is where rank-1 let-polymorphism lives — a
// binding's scheme is generalized once at its `let` and instantiated
// fresh at every use, something a single forward transfer pass doesn't
// attempt.
package constraints

import (
	"github.com/polarflow/polarflow/internal/ast"
	"github.com/polarflow/polarflow/internal/token"
	"github.com/polarflow/polarflow/internal/types"
)

// Constraint is one flow inequality `Sub ≤ Super`, tagged with the
// source range and a short note identifying which rule produced it
// (surfaced by internal/biunify's error messages).
type Constraint struct {
	Sub   types.Type
	Super types.Type
	Range token.Range
	Note  string
}

// Generator walks an AST accumulating Constraints; it mints fresh
// variables from arena and tracks the enclosing function's result
// variable so `return e` has somewhere to flow into.
type Generator struct {
	arena       *types.VarArena
	level       int
	constraints []Constraint
	returnVar   *types.Var
}

// NewGenerator returns a Generator that mints variables from arena.
func NewGenerator(arena *types.VarArena) *Generator {
	return &Generator{arena: arena}
}

// Constraints returns every constraint emitted so far, in emission
// order (the order internal/biunify processes them in).
func (g *Generator) Constraints() []Constraint {
	return g.constraints
}

func (g *Generator) emit(sub, super types.Type, rng token.Range, note string) {
	g.constraints = append(g.constraints, Constraint{Sub: sub, Super: super, Range: rng, Note: note})
}

func (g *Generator) fresh() types.Var {
	return g.arena.Fresh(g.level)
}

// resolveAnnotation maps a source-level type annotation to a lattice
// type, the same fallback-to-any-on-unknown-name behavior internal/
// state's resolveTypeAnnotation uses, duplicated here since the two
// front-ends don't share an AST-to-lattice translation package.
func resolveAnnotation(node ast.TypeNode) types.Type {
	switch n := node.(type) {
	case *ast.NamedTypeNode:
		switch n.Name {
		case "string":
			return types.Str()
		case "number":
			return types.Num()
		case "boolean":
			return types.Bool()
		case "bigint":
			return types.BigInt()
		case "symbol":
			return types.Sym()
		case "null":
			return types.Null()
		case "undefined", "void":
			return types.Undefined()
		case "any":
			return types.Any{}
		case "unknown":
			return types.Unknown{}
		case "never":
			return types.Never{}
		default:
			return types.Any{Reason: "unresolved type annotation " + n.Name}
		}
	case *ast.UnionTypeNode:
		members := make([]types.Type, len(n.Members))
		for i, m := range n.Members {
			members[i] = resolveAnnotation(m)
		}
		return types.Union(members)
	default:
		return types.Any{Reason: "unrecognized type annotation node"}
	}
}

// nodeRangeOf returns the first statement's range for attaching a
// diagnostic to a function body as a whole, falling back to the zero
// range for an empty body (there is nothing more specific to point at).
func nodeRangeOf(body []ast.Statement) token.Range {
	if len(body) == 0 {
		return token.Range{}
	}
	return body[0].GetRange()
}

func firstIdentifierName(p ast.Pattern) string {
	if id, ok := p.(*ast.IdentifierPattern); ok {
		return id.Name
	}
	return ""
}
