package types

import "github.com/polarflow/polarflow/internal/config"

// Constructors for the unrefined primitive bases.
func Bool() Type      { return Primitive{Base: config.BoolBase} }
func Num() Type       { return Primitive{Base: config.NumBase} }
func Str() Type       { return Primitive{Base: config.StrBase} }
func Null() Type      { return Primitive{Base: config.NullBase} }
func Undefined() Type { return Primitive{Base: config.UndefinedBase} }
func Sym() Type       { return Primitive{Base: config.SymBase} }
func BigInt() Type    { return Primitive{Base: config.BigIntBase} }

// Literal constructors for literal singleton refinements.
func BoolLit(v bool) Type      { return Primitive{Base: config.BoolBase, Literal: v} }
func NumLit(v float64) Type    { return Primitive{Base: config.NumBase, Literal: v} }
func StrLit(v string) Type     { return Primitive{Base: config.StrBase, Literal: v} }

// BaseOf widens a literal primitive to its base type; non-primitives
// and already-base primitives are returned unchanged. Exposed here for
// reuse by the flow state's loop widening.
func BaseOf(t Type) Type {
	p, ok := t.(Primitive)
	if !ok || !p.IsLiteral() {
		return t
	}
	return Primitive{Base: p.Base}
}

// BaseName returns the name of p's base type, whether or not p is a
// literal.
func (p Primitive) BaseName() string { return p.Base }
