// Package automaton converts a polar type to a deterministic automaton
// and back, and minimizes one by partition refinement. Two polar types
// are interconvertible iff their automata accept the same language, so
// round-tripping a type through Build → Minimize → ToType is always a
// safe simplification — this is how internal/shape canonicalizes
// output types.
package automaton

import (
	"fmt"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/polarflow/polarflow/internal/config"
	"github.com/polarflow/polarflow/internal/types"
)

// Polarity tracks whether a state stands for a producer (positive,
// e.g. an inferred result) or a consumer (negative, e.g. a required
// parameter) position; structural descent into a contravariant
// position (a function parameter) flips it.
type Polarity int

const (
	Positive Polarity = iota
	Negative
)

func (p Polarity) Flip() Polarity {
	if p == Positive {
		return Negative
	}
	return Positive
}

func (p Polarity) String() string {
	if p == Positive {
		return "+"
	}
	return "-"
}

// Head is a constructor tag a state's head set can carry; a state can
// carry more than one (a Union/Intersection attaches every member's
// heads onto one state instead of fanning out into separate states).
type Head int

const (
	HeadBool Head = iota
	HeadNum
	HeadStr
	HeadNull
	HeadUndefined
	HeadSym
	HeadBigInt
	HeadAny
	HeadUnknown
	HeadNever
	HeadFunction
	HeadRecord
	HeadArray
	HeadPromise
	HeadClass
	HeadVar
)

// State is one automaton node: a head set plus the structural
// transitions out of it — d0,d1,… for function parameters, r for the
// return/result position, f:name for record fields, e for an array
// element (tuple slots reuse the d0,d1,… slots), resolved for a
// promise's resolved type.
type State struct {
	ID       int
	Polarity Polarity
	Heads    map[Head]bool

	IsLiteral    bool
	LiteralBase  string
	LiteralValue any

	ClassName string

	VarID   int64
	VarName string

	Params []int // function parameters (contravariant) or tuple slots (covariant)
	Return int   // -1 if none
	Element int  // array element / promise resolved position, -1 if none

	Fields        map[string]int
	FieldOptional map[string]bool
}

// Automaton is a set of states plus a start state; states reference
// each other by index into States.
type Automaton struct {
	States []*State
	Start  int
}

func newState(states *[]*State, p Polarity) *State {
	st := &State{
		ID:       len(*states),
		Polarity: p,
		Heads:    map[Head]bool{},
		Return:   -1,
		Element:  -1,
	}
	*states = append(*states, st)
	return st
}

// Build converts t, read at polarity, into an automaton with one state
// per subterm. Recursive binders are realized by reusing the binder's
// own state as the jump target rather than threading a separate
// flow-edge list: a `rec a. a[]` type's `a` occurrences resolve
// directly back to the array state itself, which gives the same
// structural-sharing DFS that a flow edge would, without a second
// transition kind to carry through minimization.
func Build(t types.Type, polarity Polarity) *Automaton {
	states := []*State{}
	b := &builder{states: &states}
	start := b.convert(t, polarity, map[int64]int{})
	return &Automaton{States: states, Start: start}
}

type builder struct {
	states *[]*State
}

func (b *builder) convert(t types.Type, polarity Polarity, recBinders map[int64]int) int {
	switch v := t.(type) {
	case types.Var:
		if sid, ok := recBinders[v.ID]; ok {
			return sid
		}
		st := newState(b.states, polarity)
		st.Heads[HeadVar] = true
		st.VarID = v.ID
		st.VarName = v.Name
		return st.ID

	case types.Primitive:
		st := newState(b.states, polarity)
		st.Heads[primitiveHead(v.Base)] = true
		if v.IsLiteral() {
			st.IsLiteral = true
			st.LiteralBase = v.Base
			st.LiteralValue = v.Literal
		}
		return st.ID

	case types.Top:
		st := newState(b.states, polarity)
		st.Heads[HeadUnknown] = true
		return st.ID
	case types.Unknown:
		st := newState(b.states, polarity)
		st.Heads[HeadUnknown] = true
		return st.ID
	case types.Bottom:
		st := newState(b.states, polarity)
		st.Heads[HeadNever] = true
		return st.ID
	case types.Never:
		st := newState(b.states, polarity)
		st.Heads[HeadNever] = true
		return st.ID
	case types.Any:
		st := newState(b.states, polarity)
		st.Heads[HeadAny] = true
		return st.ID

	case types.Function:
		st := newState(b.states, polarity)
		st.Heads[HeadFunction] = true
		st.Params = make([]int, len(v.Params))
		for i, p := range v.Params {
			st.Params[i] = b.convert(p.Type, polarity.Flip(), recBinders)
		}
		if v.Return != nil {
			st.Return = b.convert(v.Return, polarity, recBinders)
		}
		return st.ID

	case types.Record:
		st := newState(b.states, polarity)
		st.Heads[HeadRecord] = true
		st.Fields = map[string]int{}
		st.FieldOptional = map[string]bool{}
		for _, name := range v.Names() {
			f, _ := v.Field(name)
			st.Fields[name] = b.convert(f.Type, polarity, recBinders)
			st.FieldOptional[name] = f.Optional
		}
		return st.ID

	case types.Array:
		st := newState(b.states, polarity)
		st.Heads[HeadArray] = true
		if v.Tuple != nil {
			st.Params = make([]int, len(v.Tuple))
			for i, m := range v.Tuple {
				st.Params[i] = b.convert(m, polarity, recBinders)
			}
		}
		st.Element = b.convert(v.Element, polarity, recBinders)
		return st.ID

	case types.Promise:
		st := newState(b.states, polarity)
		st.Heads[HeadPromise] = true
		st.Element = b.convert(v.Resolved, polarity, recBinders)
		return st.ID

	case *types.Class:
		st := newState(b.states, polarity)
		st.Heads[HeadClass] = true
		st.ClassName = v.Name
		st.Fields = map[string]int{}
		st.FieldOptional = map[string]bool{}
		for _, name := range v.Instance.Names() {
			f, _ := v.Instance.Field(name)
			st.Fields[name] = b.convert(f.Type, polarity, recBinders)
			st.FieldOptional[name] = f.Optional
		}
		return st.ID

	case types.UnionType:
		st := newState(b.states, polarity)
		for _, m := range v.Members {
			b.attach(st, m, polarity, recBinders)
		}
		return st.ID

	case types.IntersectionType:
		st := newState(b.states, polarity)
		for _, m := range v.Members {
			b.attach(st, m, polarity, recBinders)
		}
		return st.ID

	case types.Recursive:
		st := newState(b.states, polarity)
		inner := make(map[int64]int, len(recBinders)+1)
		for k, v2 := range recBinders {
			inner[k] = v2
		}
		inner[v.Binder.ID] = st.ID
		b.attach(st, v.Body, polarity, inner)
		return st.ID

	default:
		st := newState(b.states, polarity)
		st.Heads[HeadAny] = true
		return st.ID
	}
}

// attach converts member on its own, then merges every piece of the
// resulting state into dst and leaves the temporary state orphaned
// (Minimize's unreachable-state sweep drops it). This is what realizes
// "Union/intersection attach all member heads to the same state".
func (b *builder) attach(dst *State, member types.Type, polarity Polarity, recBinders map[int64]int) {
	id := b.convert(member, polarity, recBinders)
	src := (*b.states)[id]
	for h := range src.Heads {
		dst.Heads[h] = true
	}
	if src.IsLiteral {
		dst.IsLiteral = true
		dst.LiteralBase = src.LiteralBase
		dst.LiteralValue = src.LiteralValue
	}
	if src.ClassName != "" {
		dst.ClassName = src.ClassName
	}
	if src.VarName != "" || src.VarID != 0 {
		dst.VarID = src.VarID
		dst.VarName = src.VarName
	}
	if len(src.Params) > 0 {
		dst.Params = src.Params
	}
	if src.Return != -1 {
		dst.Return = src.Return
	}
	if src.Element != -1 {
		dst.Element = src.Element
	}
	if len(src.Fields) > 0 {
		if dst.Fields == nil {
			dst.Fields = map[string]int{}
			dst.FieldOptional = map[string]bool{}
		}
		for name, fid := range src.Fields {
			dst.Fields[name] = fid
			dst.FieldOptional[name] = src.FieldOptional[name]
		}
	}
}

func primitiveHead(base string) Head {
	switch base {
	case config.BoolBase:
		return HeadBool
	case config.NumBase:
		return HeadNum
	case config.StrBase:
		return HeadStr
	case config.NullBase:
		return HeadNull
	case config.UndefinedBase:
		return HeadUndefined
	case config.SymBase:
		return HeadSym
	case config.BigIntBase:
		return HeadBigInt
	default:
		return HeadAny
	}
}

func (h Head) String() string {
	switch h {
	case HeadBool:
		return "bool"
	case HeadNum:
		return "num"
	case HeadStr:
		return "str"
	case HeadNull:
		return "null"
	case HeadUndefined:
		return "undef"
	case HeadSym:
		return "sym"
	case HeadBigInt:
		return "bigint"
	case HeadAny:
		return "any"
	case HeadUnknown:
		return "unknown"
	case HeadNever:
		return "never"
	case HeadFunction:
		return "function"
	case HeadRecord:
		return "record"
	case HeadArray:
		return "array"
	case HeadPromise:
		return "promise"
	case HeadClass:
		return "class"
	case HeadVar:
		return "var"
	default:
		return fmt.Sprintf("head(%d)", int(h))
	}
}

func sortedKeys(m map[string]int) []string {
	out := maps.Keys(m)
	slices.Sort(out)
	return out
}
