// Package builtins seeds the root type environment with the host
// globals a JS-shaped program can reference without declaring: console,
// Math, JSON, the wrapper/constructor objects (Object, Array, String,
// Number, Boolean, Function, Promise, Symbol), the built-in classes
// (Date, RegExp, Map, Set, Error and its subclasses), a handful of
// global functions, and the pseudo-constants undefined/NaN/Infinity.
package builtins

import (
	"github.com/polarflow/polarflow/internal/config"
	"github.com/polarflow/polarflow/internal/state"
	"github.com/polarflow/polarflow/internal/types"
)

// Seed declares every builtin into a fresh child frame of env and
// returns it; env itself is left untouched, consistent with the rest
// of internal/state's copy-on-write environments.
func Seed(env *state.Env) *state.Env {
	e := env.Child()
	e = declareConst(e, config.ConsoleName, consoleType())
	e = declareConst(e, config.MathName, mathType())
	e = declareConst(e, config.JSONName, jsonType())

	e = declareConst(e, config.ObjectName, objectType())
	e = declareConst(e, config.ArrayName, arrayType())
	e = declareConst(e, config.StringName, stringType())
	e = declareConst(e, config.NumberName, numberType())
	e = declareConst(e, config.BooleanName, booleanType())
	e = declareConst(e, config.FunctionName, functionCtorType())
	e = declareConst(e, config.SymbolName, symbolType())

	e = declareConst(e, config.PromiseName, promiseClass())

	dateClass := dateClassType()
	e = declareConst(e, config.DateName, dateClass)
	e = declareConst(e, config.RegExpName, regExpClassType())
	e = declareConst(e, config.MapName, mapClassType())
	e = declareConst(e, config.SetName, setClassType())

	errorClass := errorClassType()
	e = declareConst(e, config.ErrorName, errorClass)
	for _, name := range []string{config.TypeErrorName, config.RangeErrorName, config.SyntaxErrorName, config.ReferenceErrorName} {
		e = declareConst(e, name, errorSubclass(name, errorClass))
	}

	e = declareGlobalFunctions(e)
	e = declarePseudoConstants(e)
	return e
}

func declareConst(e *state.Env, name string, t types.Type) *state.Env {
	return e.Declare(name, state.Binding{Name: name, Type: t, Kind: state.KindConst, DefinitelyAssigned: true})
}

// variadicFunc builds a function signature accepting any number of
// arguments of type argT (use types.Any{} for "anything"), returning
// ret.
func variadicFunc(argT, ret types.Type) types.Function {
	return types.Function{
		Params: []types.FuncParam{{Name: "args", Type: argT, Rest: true}},
		Return: ret,
	}
}

func fn(ret types.Type, params ...types.FuncParam) types.Function {
	return types.Function{Params: params, Return: ret}
}

func param(name string, t types.Type) types.FuncParam {
	return types.FuncParam{Name: name, Type: t}
}

func optParam(name string, t types.Type) types.FuncParam {
	return types.FuncParam{Name: name, Type: t, Optional: true}
}

func rec(order []string, fields map[string]types.RecordField) types.Record {
	return types.NewRecord(order, fields)
}

func field(t types.Type) types.RecordField {
	return types.RecordField{Type: t}
}

// anyT is the widened escape hatch used for members whose true type
// depends on generic instantiation (Map's K/V, Promise's resolved
// value, …) that this builtin seeder does not track per call site.
func anyT(reason string) types.Type { return types.Any{Reason: reason} }

// callableWithStatics models a builtin like Array or Object that is
// both directly callable (a conversion/coercion function) and carries
// static members accessed off its own name: the intersection of a
// callable signature and a record of static members.
func callableWithStatics(call types.Function, staticOrder []string, statics map[string]types.RecordField) types.Type {
	return types.Intersection([]types.Type{call, rec(staticOrder, statics)})
}
