package builtins

import "github.com/polarflow/polarflow/internal/types"

// consoleType models console as a plain record of variadic logging
// methods; every one of them returns undefined, matching the host's
// runtime behavior without tracking what actually gets printed.
func consoleType() types.Type {
	logMethod := field(variadicFunc(anyT("console argument"), types.Undefined()))
	return rec(
		[]string{"log", "warn", "error", "info", "debug", "trace", "table", "group", "groupEnd", "assert"},
		map[string]types.RecordField{
			"log":      logMethod,
			"warn":     logMethod,
			"error":    logMethod,
			"info":     logMethod,
			"debug":    logMethod,
			"trace":    logMethod,
			"table":    logMethod,
			"group":    logMethod,
			"groupEnd": field(fn(types.Undefined())),
			"assert":   logMethod,
		},
	)
}
