package builtins

import "github.com/polarflow/polarflow/internal/types"

// jsonType models JSON.stringify/parse; both accept an optional second
// (and for stringify, third) argument the host uses for a reviver or
// indentation, widened to any since their shape varies by call.
func jsonType() types.Type {
	stringify := fn(
		types.Union([]types.Type{types.Str(), types.Undefined()}),
		param("value", anyT("JSON.stringify value")),
		optParam("replacer", anyT("JSON.stringify replacer")),
		optParam("space", types.Union([]types.Type{types.Num(), types.Str()})),
	)
	parse := fn(
		anyT("JSON.parse result"),
		param("text", types.Str()),
		optParam("reviver", anyT("JSON.parse reviver")),
	)
	return rec([]string{"stringify", "parse"}, map[string]types.RecordField{
		"stringify": field(stringify),
		"parse":     field(parse),
	})
}
