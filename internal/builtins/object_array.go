package builtins

import "github.com/polarflow/polarflow/internal/types"

// objectType models the global Object: calling it coerces to any (the
// shape of an arbitrary object isn't tracked structurally here), and
// its static members cover the inspection/construction surface most
// programs actually touch.
func objectType() types.Type {
	call := fn(anyT("Object() coercion"), optParam("value", anyT("Object() argument")))
	strArray := types.Array{Element: types.Str()}
	anyArray := types.Array{Element: anyT("Object.values element")}
	statics := map[string]types.RecordField{
		"keys":           field(fn(strArray, param("obj", anyT("Object.keys target")))),
		"values":         field(fn(anyArray, param("obj", anyT("Object.values target")))),
		"entries":        field(fn(types.Array{Element: anyT("Object.entries pair")}, param("obj", anyT("Object.entries target")))),
		"assign":         field(variadicFunc(anyT("Object.assign source"), anyT("Object.assign result"))),
		"freeze":         field(fn(anyT("Object.freeze result"), param("obj", anyT("Object.freeze target")))),
		"isFrozen":       field(fn(types.Bool(), param("obj", anyT("Object.isFrozen target")))),
		"create":         field(fn(anyT("Object.create result"), param("proto", anyT("Object.create prototype")))),
		"getPrototypeOf": field(fn(anyT("Object.getPrototypeOf result"), param("obj", anyT("Object.getPrototypeOf target")))),
		"fromEntries":    field(fn(anyT("Object.fromEntries result"), param("entries", anyT("Object.fromEntries entries")))),
		"defineProperty": field(fn(anyT("Object.defineProperty result"), param("obj", anyT("target")), param("key", types.Str()), param("descriptor", anyT("property descriptor")))),
	}
	order := []string{"keys", "values", "entries", "assign", "freeze", "isFrozen", "create", "getPrototypeOf", "fromEntries", "defineProperty"}
	return callableWithStatics(call, order, statics)
}

// arrayType models Array as the intersection of a callable constructor
// signature and a record of static members.
func arrayType() types.Type {
	elem := anyT("Array() element")
	call := variadicFunc(elem, types.Array{Element: elem})
	statics := map[string]types.RecordField{
		"isArray": field(fn(types.Bool(), param("value", anyT("Array.isArray argument")))),
		"from":    field(fn(types.Array{Element: anyT("Array.from element")}, param("iterable", anyT("Array.from source")))),
		"of":      field(variadicFunc(anyT("Array.of element"), types.Array{Element: anyT("Array.of element")})),
	}
	return callableWithStatics(call, []string{"isArray", "from", "of"}, statics)
}

func stringType() types.Type {
	call := fn(types.Str(), optParam("value", anyT("String() argument")))
	statics := map[string]types.RecordField{
		"fromCharCode":  field(variadicFunc(types.Num(), types.Str())),
		"fromCodePoint": field(variadicFunc(types.Num(), types.Str())),
		"raw":           field(variadicFunc(anyT("String.raw argument"), types.Str())),
	}
	return callableWithStatics(call, []string{"fromCharCode", "fromCodePoint", "raw"}, statics)
}

func numberType() types.Type {
	call := fn(types.Num(), optParam("value", anyT("Number() argument")))
	statics := map[string]types.RecordField{
		"isInteger":        field(fn(types.Bool(), param("value", anyT("Number.isInteger argument")))),
		"isFinite":         field(fn(types.Bool(), param("value", anyT("Number.isFinite argument")))),
		"isNaN":            field(fn(types.Bool(), param("value", anyT("Number.isNaN argument")))),
		"isSafeInteger":    field(fn(types.Bool(), param("value", anyT("Number.isSafeInteger argument")))),
		"parseFloat":       field(fn(types.Num(), param("text", types.Str()))),
		"parseInt":         field(fn(types.Num(), param("text", types.Str()), optParam("radix", types.Num()))),
		"MAX_SAFE_INTEGER": field(types.Num()),
		"MIN_SAFE_INTEGER": field(types.Num()),
		"MAX_VALUE":        field(types.Num()),
		"MIN_VALUE":        field(types.Num()),
		"EPSILON":          field(types.Num()),
		"POSITIVE_INFINITY": field(types.Num()),
		"NEGATIVE_INFINITY": field(types.Num()),
		"NaN":              field(types.Num()),
	}
	order := []string{"isInteger", "isFinite", "isNaN", "isSafeInteger", "parseFloat", "parseInt",
		"MAX_SAFE_INTEGER", "MIN_SAFE_INTEGER", "MAX_VALUE", "MIN_VALUE", "EPSILON",
		"POSITIVE_INFINITY", "NEGATIVE_INFINITY", "NaN"}
	return callableWithStatics(call, order, statics)
}

func booleanType() types.Type {
	call := fn(types.Bool(), optParam("value", anyT("Boolean() argument")))
	return callableWithStatics(call, nil, map[string]types.RecordField{})
}

// functionCtorType models the rarely-used Function constructor
// (`new Function(...args, body)`); its result is always widened to any
// since the source it compiles from is itself just a string.
func functionCtorType() types.Type {
	call := variadicFunc(types.Str(), anyT("Function() constructor result"))
	return callableWithStatics(call, nil, map[string]types.RecordField{})
}

// symbolType models Symbol as callable (producing a fresh sym) plus
// the handful of well-known statics programs actually reference.
func symbolType() types.Type {
	call := fn(types.Sym(), optParam("description", types.Str()))
	statics := map[string]types.RecordField{
		"for":           field(fn(types.Sym(), param("key", types.Str()))),
		"iterator":      field(types.Sym()),
		"asyncIterator": field(types.Sym()),
	}
	return callableWithStatics(call, []string{"for", "iterator", "asyncIterator"}, statics)
}
