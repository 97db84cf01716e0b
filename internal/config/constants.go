// Package config carries the analyzer's compile-time constants and its
// YAML-loaded runtime options.
package config

// Version is the current polarflow analyzer version.
var Version = "0.1.0"

// IsTestMode lets tests normalize non-deterministic output (fresh
// type-variable names) before comparing golden output.
var IsTestMode = false

// Names of the globals internal/builtins seeds into the root environment.
const (
	ConsoleName  = "console"
	MathName     = "Math"
	JSONName     = "JSON"
	ObjectName   = "Object"
	ArrayName    = "Array"
	StringName   = "String"
	NumberName   = "Number"
	BooleanName  = "Boolean"
	FunctionName = "Function"
	PromiseName  = "Promise"
	SymbolName   = "Symbol"
	DateName     = "Date"
	RegExpName   = "RegExp"
	MapName      = "Map"
	SetName      = "Set"
	ErrorName    = "Error"
)

// Names of the Error subclasses internal/builtins seeds, each inheriting Error's
// instance shape.
const (
	TypeErrorName      = "TypeError"
	RangeErrorName     = "RangeError"
	SyntaxErrorName    = "SyntaxError"
	ReferenceErrorName = "ReferenceError"
)

// Names of the global functions and pseudo-constants internal/builtins seeds alongside
// the builtin objects above.
const (
	ParseIntName           = "parseInt"
	ParseFloatName         = "parseFloat"
	IsNaNName              = "isNaN"
	IsFiniteName           = "isFinite"
	EncodeURIName          = "encodeURI"
	DecodeURIName          = "decodeURI"
	EncodeURIComponentName = "encodeURIComponent"
	DecodeURIComponentName = "decodeURIComponent"
	SetTimeoutName         = "setTimeout"
	SetIntervalName        = "setInterval"
	ClearTimeoutName       = "clearTimeout"
	ClearIntervalName      = "clearInterval"

	UndefinedName = "undefined"
	NaNName       = "NaN"
	InfinityName  = "Infinity"
)

// Primitive base type names
const (
	BoolBase      = "bool"
	NumBase       = "num"
	StrBase       = "str"
	NullBase      = "null"
	UndefinedBase = "undef"
	SymBase       = "sym"
	BigIntBase    = "bigint"
)

// DefaultMaxIterations is the fixed-point loop's hard ceiling before it
// gives up and reports that the analysis did not converge.
const DefaultMaxIterations = 4000
