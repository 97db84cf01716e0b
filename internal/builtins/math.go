package builtins

import "github.com/polarflow/polarflow/internal/types"

// mathType models Math as a record: the usual constants plus every
// arithmetic function taking and returning num. PI and E carry their
// values as number literals; the other constants and the functions are
// not literal-refined even where the host engine's signature is, since
// Math's inputs are almost never literals in practice.
func mathType() types.Type {
	unary := fn(types.Num(), param("x", types.Num()))
	binary := fn(types.Num(), param("x", types.Num()), param("y", types.Num()))
	variadicNums := variadicFunc(types.Num(), types.Num())

	order := []string{
		"PI", "E", "LN2", "LN10", "LOG2E", "LOG10E", "SQRT1_2", "SQRT2",
		"abs", "floor", "ceil", "round", "trunc", "sign",
		"sqrt", "cbrt", "pow", "exp", "log", "log2", "log10",
		"sin", "cos", "tan", "asin", "acos", "atan", "atan2",
		"max", "min", "random", "hypot",
	}
	fields := map[string]types.RecordField{
		"PI": field(types.NumLit(3.141592653589793)),
		"E":  field(types.NumLit(2.718281828459045)),

		"LN2": field(types.Num()), "LN10": field(types.Num()),
		"LOG2E": field(types.Num()), "LOG10E": field(types.Num()),
		"SQRT1_2": field(types.Num()), "SQRT2": field(types.Num()),

		"abs": field(unary), "floor": field(unary), "ceil": field(unary),
		"round": field(unary), "trunc": field(unary), "sign": field(unary),
		"sqrt": field(unary), "cbrt": field(unary), "exp": field(unary),
		"log": field(unary), "log2": field(unary), "log10": field(unary),
		"sin": field(unary), "cos": field(unary), "tan": field(unary),
		"asin": field(unary), "acos": field(unary), "atan": field(unary),

		"pow":   field(binary),
		"atan2": field(binary),

		"max":    field(variadicNums),
		"min":    field(variadicNums),
		"hypot":  field(variadicNums),
		"random": field(fn(types.Num())),
	}
	return rec(order, fields)
}
