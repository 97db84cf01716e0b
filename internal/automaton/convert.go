package automaton

import (
	"strconv"

	"github.com/polarflow/polarflow/internal/config"
	"github.com/polarflow/polarflow/internal/types"
)

// ToType reconstructs a polar type from an automaton by a DFS from
// Start. A state revisited while still on the current DFS path means
// the automaton is cyclic at that point; the first time this happens
// for a given state a fresh recursion binder is synthesized and the
// eventual result for that state is wrapped in types.Recursive. Binder
// IDs are negative, counting down from -1, so they can never collide
// with a live inference variable's ID (those are always allocated
// positive by the instance-local counter in internal/types).
func ToType(a *Automaton) types.Type {
	c := &converter{
		a:        a,
		visiting: map[int]bool{},
		done:     map[int]types.Type{},
		binder:   map[int]types.Var{},
		nextRec:  -1,
	}
	return c.convert(a.Start)
}

type converter struct {
	a        *Automaton
	visiting map[int]bool
	done     map[int]types.Type
	binder   map[int]types.Var
	nextRec  int64
}

func (c *converter) convert(id int) types.Type {
	if t, ok := c.done[id]; ok {
		return t
	}
	if c.visiting[id] {
		v, ok := c.binder[id]
		if !ok {
			v = types.Var{ID: c.nextRec, Name: "rec" + strconv.Itoa(id)}
			c.nextRec--
			c.binder[id] = v
		}
		return v
	}

	c.visiting[id] = true
	body := c.headsToType(c.a.States[id])
	delete(c.visiting, id)

	if v, wrapped := c.binder[id]; wrapped {
		body = types.Recursive{Binder: v, Body: body}
	}
	c.done[id] = body
	return body
}

// headsToType reconstructs a state's type from its head set. A state
// normally carries exactly one head; more than one only happens when
// Union/Intersection construction attached several members onto the
// same state, in which case the parts are recombined by the state's
// own polarity — Union on the positive side (a producer may be any of
// several shapes), Intersection on the negative side (a consumer must
// satisfy all of them at once).
func (c *converter) headsToType(st *State) types.Type {
	parts := make([]types.Type, 0, len(st.Heads))
	for h := range st.Heads {
		parts = append(parts, c.headToType(st, h))
	}
	switch len(parts) {
	case 0:
		return types.Never{}
	case 1:
		return parts[0]
	}
	if st.Polarity == Positive {
		return types.Union(parts)
	}
	return types.Intersection(parts)
}

func (c *converter) headToType(st *State, h Head) types.Type {
	switch h {
	case HeadBool:
		return c.primitiveOrLiteral(st, config.BoolBase)
	case HeadNum:
		return c.primitiveOrLiteral(st, config.NumBase)
	case HeadStr:
		return c.primitiveOrLiteral(st, config.StrBase)
	case HeadNull:
		return c.primitiveOrLiteral(st, config.NullBase)
	case HeadUndefined:
		return c.primitiveOrLiteral(st, config.UndefinedBase)
	case HeadSym:
		return c.primitiveOrLiteral(st, config.SymBase)
	case HeadBigInt:
		return c.primitiveOrLiteral(st, config.BigIntBase)
	case HeadAny:
		return types.Any{}
	case HeadUnknown:
		return types.Unknown{}
	case HeadNever:
		return types.Never{}
	case HeadVar:
		return types.Var{ID: st.VarID, Name: st.VarName}
	case HeadFunction:
		return c.functionType(st)
	case HeadRecord:
		return c.recordType(st)
	case HeadArray:
		return c.arrayType(st)
	case HeadPromise:
		return types.Promise{Resolved: c.convert(st.Element)}
	case HeadClass:
		return c.classType(st)
	default:
		return types.Any{}
	}
}

func (c *converter) primitiveOrLiteral(st *State, base string) types.Type {
	if st.IsLiteral && st.LiteralBase == base {
		return types.Primitive{Base: base, Literal: st.LiteralValue}
	}
	return types.Primitive{Base: base}
}

func (c *converter) functionType(st *State) types.Type {
	params := make([]types.FuncParam, len(st.Params))
	for i, pid := range st.Params {
		params[i] = types.FuncParam{Name: "_", Type: c.convert(pid)}
	}
	var ret types.Type
	if st.Return != -1 {
		ret = c.convert(st.Return)
	}
	return types.Function{Params: params, Return: ret}
}

func (c *converter) recordType(st *State) types.Type {
	names := sortedKeys(st.Fields)
	fields := make(map[string]types.RecordField, len(names))
	for _, name := range names {
		fields[name] = types.RecordField{
			Type:     c.convert(st.Fields[name]),
			Optional: st.FieldOptional[name],
		}
	}
	return types.NewRecord(names, fields)
}

func (c *converter) arrayType(st *State) types.Type {
	if len(st.Params) > 0 {
		tuple := make([]types.Type, len(st.Params))
		for i, pid := range st.Params {
			tuple[i] = c.convert(pid)
		}
		return types.Array{Element: c.convert(st.Element), Tuple: tuple}
	}
	return types.Array{Element: c.convert(st.Element)}
}

func (c *converter) classType(st *State) types.Type {
	names := sortedKeys(st.Fields)
	fields := make(map[string]types.RecordField, len(names))
	for _, name := range names {
		fields[name] = types.RecordField{
			Type:     c.convert(st.Fields[name]),
			Optional: st.FieldOptional[name],
		}
	}
	return &types.Class{Name: st.ClassName, Instance: types.NewRecord(names, fields)}
}
