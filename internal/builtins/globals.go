package builtins

import (
	"github.com/polarflow/polarflow/internal/config"
	"github.com/polarflow/polarflow/internal/state"
	"github.com/polarflow/polarflow/internal/types"
)

// declareGlobalFunctions seeds the free-standing globals: the numeric
// coercion/validation pair, the URI escaping quartet, and the timer
// functions (whose callback and id types are widened to any/num since
// this analyzer never models the event loop).
func declareGlobalFunctions(e *state.Env) *state.Env {
	e = declareConst(e, config.ParseIntName, fn(types.Num(), param("text", types.Str()), optParam("radix", types.Num())))
	e = declareConst(e, config.ParseFloatName, fn(types.Num(), param("text", types.Str())))
	e = declareConst(e, config.IsNaNName, fn(types.Bool(), param("value", types.Num())))
	e = declareConst(e, config.IsFiniteName, fn(types.Bool(), param("value", types.Num())))

	uriFunc := fn(types.Str(), param("uri", types.Str()))
	e = declareConst(e, config.EncodeURIName, uriFunc)
	e = declareConst(e, config.DecodeURIName, uriFunc)
	e = declareConst(e, config.EncodeURIComponentName, uriFunc)
	e = declareConst(e, config.DecodeURIComponentName, uriFunc)

	timerCallback := variadicFunc(anyT("timer argument"), types.Undefined())
	setTimer := types.Function{
		Params: []types.FuncParam{param("callback", timerCallback), optParam("delay", types.Num())},
		Return: types.Num(),
	}
	clearTimer := fn(types.Undefined(), param("id", types.Num()))
	e = declareConst(e, config.SetTimeoutName, setTimer)
	e = declareConst(e, config.SetIntervalName, setTimer)
	e = declareConst(e, config.ClearTimeoutName, clearTimer)
	e = declareConst(e, config.ClearIntervalName, clearTimer)
	return e
}

// declarePseudoConstants seeds the three bindings that read like
// values but aren't declared by any user code: undefined, NaN, and
// Infinity. NaN and Infinity stay unrefined num rather than literal
// singletons since float64 NaN famously isn't equal to itself, which
// would make a literal-identity comparison in internal/types misbehave.
func declarePseudoConstants(e *state.Env) *state.Env {
	e = declareConst(e, config.UndefinedName, types.Undefined())
	e = declareConst(e, config.NaNName, types.Num())
	e = declareConst(e, config.InfinityName, types.Num())
	return e
}
