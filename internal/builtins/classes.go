package builtins

import (
	"github.com/polarflow/polarflow/internal/config"
	"github.com/polarflow/polarflow/internal/types"
)

// promiseClass models Promise as a *types.Class so `new
// Promise(executor)` resolves through evalNew like any other built-in
// class. Chained calls (.then/.catch) return any rather than
// a precisely re-specialized Promise<U>: tracking the resolved value
// through a chain needs a generic instantiation this seeder doesn't
// perform, a known simplification shared with Map/Set's key/value
// types below.
func promiseClass() *types.Class {
	resolveCb := variadicFunc(anyT("resolve value"), types.Undefined())
	rejectCb := variadicFunc(anyT("reject reason"), types.Undefined())
	executor := fn(types.Undefined(), param("resolve", resolveCb), param("reject", rejectCb))

	instance := rec([]string{"then", "catch", "finally"}, map[string]types.RecordField{
		"then":    field(fn(anyT("Promise.then result"), optParam("onFulfilled", anyT("fulfillment handler")), optParam("onRejected", anyT("rejection handler")))),
		"catch":   field(fn(anyT("Promise.catch result"), optParam("onRejected", anyT("rejection handler")))),
		"finally": field(fn(anyT("Promise.finally result"), optParam("onFinally", anyT("finally handler")))),
	})
	statics := rec([]string{"resolve", "reject", "all", "race", "allSettled", "any"}, map[string]types.RecordField{
		"resolve":    field(fn(instance, optParam("value", anyT("resolved value")))),
		"reject":     field(fn(instance, optParam("reason", anyT("rejected reason")))),
		"all":        field(fn(instance, param("iterable", anyT("iterable of promises")))),
		"race":       field(fn(instance, param("iterable", anyT("iterable of promises")))),
		"allSettled": field(fn(instance, param("iterable", anyT("iterable of promises")))),
		"any":        field(fn(instance, param("iterable", anyT("iterable of promises")))),
	})
	ctor := types.Function{Params: []types.FuncParam{{Name: "executor", Type: executor}}, Return: types.Undefined()}
	return &types.Class{Name: config.PromiseName, Constructor: ctor, Instance: instance, Static: statics}
}

// dateClassType carries a back-reference to its own instance record,
// so `new Date()` yields that record directly.
func dateClassType() *types.Class {
	getter := fn(types.Num())
	instance := rec(
		[]string{"getTime", "getFullYear", "getMonth", "getDate", "getDay", "getHours",
			"getMinutes", "getSeconds", "getMilliseconds", "getTimezoneOffset",
			"setFullYear", "setMonth", "setDate", "setHours", "setMinutes",
			"toISOString", "toDateString", "toTimeString", "toString", "valueOf"},
		map[string]types.RecordField{
			"getTime": field(getter), "getFullYear": field(getter), "getMonth": field(getter),
			"getDate": field(getter), "getDay": field(getter), "getHours": field(getter),
			"getMinutes": field(getter), "getSeconds": field(getter), "getMilliseconds": field(getter),
			"getTimezoneOffset": field(getter),
			"setFullYear":       field(fn(types.Num(), param("year", types.Num()))),
			"setMonth":          field(fn(types.Num(), param("month", types.Num()))),
			"setDate":           field(fn(types.Num(), param("day", types.Num()))),
			"setHours":          field(fn(types.Num(), param("hours", types.Num()))),
			"setMinutes":        field(fn(types.Num(), param("minutes", types.Num()))),
			"toISOString":       field(fn(types.Str())),
			"toDateString":      field(fn(types.Str())),
			"toTimeString":      field(fn(types.Str())),
			"toString":          field(fn(types.Str())),
			"valueOf":           field(fn(types.Num())),
		},
	)
	statics := rec([]string{"now", "parse", "UTC"}, map[string]types.RecordField{
		"now":   field(fn(types.Num())),
		"parse": field(fn(types.Num(), param("text", types.Str()))),
		"UTC":   field(variadicFunc(types.Num(), types.Num())),
	})
	ctor := types.Function{Params: []types.FuncParam{{Name: "args", Type: anyT("Date() constructor argument"), Rest: true}}, Return: types.Undefined()}
	return &types.Class{Name: config.DateName, Constructor: ctor, Instance: instance, Static: statics}
}

func regExpClassType() *types.Class {
	matchResult := types.Union([]types.Type{types.Array{Element: types.Str()}, types.Null()})
	instance := rec(
		[]string{"test", "exec", "source", "flags", "global", "ignoreCase", "multiline", "lastIndex", "toString"},
		map[string]types.RecordField{
			"test":       field(fn(types.Bool(), param("str", types.Str()))),
			"exec":       field(fn(matchResult, param("str", types.Str()))),
			"source":     field(types.Str()),
			"flags":      field(types.Str()),
			"global":     field(types.Bool()),
			"ignoreCase": field(types.Bool()),
			"multiline":  field(types.Bool()),
			"lastIndex":  field(types.Num()),
			"toString":   field(fn(types.Str())),
		},
	)
	ctor := types.Function{
		Params: []types.FuncParam{param("pattern", types.Str()), optParam("flags", types.Str())},
		Return: types.Undefined(),
	}
	return &types.Class{Name: config.RegExpName, Constructor: ctor, Instance: instance, Static: types.EmptyRecord()}
}

func mapClassType() *types.Class {
	key, val := anyT("Map key"), anyT("Map value")
	instance := rec(
		[]string{"get", "set", "has", "delete", "clear", "forEach", "keys", "values", "entries", "size"},
		map[string]types.RecordField{
			"get":     field(fn(types.Union([]types.Type{val, types.Undefined()}), param("key", key))),
			"set":     field(fn(anyT("Map instance"), param("key", key), param("value", val))),
			"has":     field(fn(types.Bool(), param("key", key))),
			"delete":  field(fn(types.Bool(), param("key", key))),
			"clear":   field(fn(types.Undefined())),
			"forEach": field(fn(types.Undefined(), param("callback", anyT("Map.forEach callback")))),
			"keys":    field(fn(types.Array{Element: key})),
			"values":  field(fn(types.Array{Element: val})),
			"entries": field(fn(types.Array{Element: anyT("Map entry")})),
			"size":    field(types.Num()),
		},
	)
	ctor := types.Function{Params: []types.FuncParam{optParam("entries", anyT("Map initializer"))}, Return: types.Undefined()}
	return &types.Class{Name: config.MapName, Constructor: ctor, Instance: instance, Static: types.EmptyRecord()}
}

func setClassType() *types.Class {
	elem := anyT("Set element")
	instance := rec(
		[]string{"add", "has", "delete", "clear", "forEach", "values", "size"},
		map[string]types.RecordField{
			"add":     field(fn(anyT("Set instance"), param("value", elem))),
			"has":     field(fn(types.Bool(), param("value", elem))),
			"delete":  field(fn(types.Bool(), param("value", elem))),
			"clear":   field(fn(types.Undefined())),
			"forEach": field(fn(types.Undefined(), param("callback", anyT("Set.forEach callback")))),
			"values":  field(fn(types.Array{Element: elem})),
			"size":    field(types.Num()),
		},
	)
	ctor := types.Function{Params: []types.FuncParam{optParam("iterable", anyT("Set initializer"))}, Return: types.Undefined()}
	return &types.Class{Name: config.SetName, Constructor: ctor, Instance: instance, Static: types.EmptyRecord()}
}

// errorClassType and errorSubclass share one Instance shape: every
// Error subclass carries the same name/message/stack surface, only
// the nominal chain (via Parent) tells them apart for instanceof.
func errorClassType() *types.Class {
	instance := rec([]string{"name", "message", "stack", "toString"}, map[string]types.RecordField{
		"name":     field(types.Str()),
		"message":  field(types.Str()),
		"stack":    field(types.Str()),
		"toString": field(fn(types.Str())),
	})
	ctor := types.Function{Params: []types.FuncParam{optParam("message", types.Str())}, Return: types.Undefined()}
	return &types.Class{Name: config.ErrorName, Constructor: ctor, Instance: instance, Static: types.EmptyRecord()}
}

func errorSubclass(name string, parent *types.Class) *types.Class {
	return &types.Class{Name: name, Constructor: parent.Constructor, Instance: parent.Instance, Static: types.EmptyRecord(), Parent: parent}
}
