package state

import (
	"github.com/polarflow/polarflow/internal/ast"
	"github.com/polarflow/polarflow/internal/cfg"
	"github.com/polarflow/polarflow/internal/config"
	"github.com/polarflow/polarflow/internal/types"
)

// verdict is a three-valued classification of a single union member
// against a condition: yes (definitely satisfies it), no (definitely
// doesn't), or unknown (an unrefined type the condition can't decide
// on). unknown members are never excluded by narrowing, which is what
// keeps every pattern in this file sound rather than merely plausible.
type verdict int

const (
	unknown verdict = iota
	yes
	no
)

// ApplyNarrow refines s along one CFG edge using its narrowing
// condition. Patterns that don't match one of the recognized shapes
// leave the environment untouched.
func ApplyNarrow(s State, n *cfg.NarrowCond, rules config.NarrowingRules) State {
	if n == nil || !s.Reachable {
		return s
	}
	if rules.TypeofNarrowing {
		if name, kind, wanted, ok := matchTypeofCheck(n.Expr, n.WhenTruthy); ok {
			return narrowByVerdict(s, name, wanted, func(t types.Type) verdict {
				k := typeofKind(t)
				switch {
				case k == "":
					return unknown
				case k == kind:
					return yes
				default:
					return no
				}
			})
		}
	}
	if rules.NullishNarrowing {
		if name, nullish, wanted, ok := matchNullishCheck(n.Expr, n.WhenTruthy); ok {
			return narrowByVerdict(s, name, wanted, func(t types.Type) verdict {
				return classifyNullish(t, nullish)
			})
		}
	}
	if rules.TruthinessNarrow {
		if name, ok := asIdentifierName(n.Expr); ok {
			return narrowByVerdict(s, name, n.WhenTruthy, func(t types.Type) verdict {
				switch classifyTruthiness(t) {
				case truthyDefinite:
					return yes
				case falsyDefinite:
					return no
				default:
					return unknown
				}
			})
		}
	}
	return s
}

// narrowByVerdict drops exactly the union members classify proves
// contradict the wanted side of the condition, keeping every member
// classify can't decide.
func narrowByVerdict(s State, name string, wanted bool, classify func(types.Type) verdict) State {
	b, ok := s.Env.Lookup(name)
	if !ok {
		return s
	}
	members := unionMembers(b.Type)
	kept := make([]types.Type, 0, len(members))
	for _, m := range members {
		v := classify(m)
		excluded := (wanted && v == no) || (!wanted && v == yes)
		if !excluded {
			kept = append(kept, m)
		}
	}
	if len(kept) == len(members) {
		return s
	}
	b.Type = types.Union(kept)
	return NewState(s.Env.Declare(name, b))
}

func unionMembers(t types.Type) []types.Type {
	if u, ok := t.(types.UnionType); ok {
		return u.Members
	}
	return []types.Type{t}
}

func asIdentifierName(expr ast.Expression) (string, bool) {
	id, ok := expr.(*ast.Identifier)
	if !ok {
		return "", false
	}
	return id.Name, true
}

// matchTypeofCheck recognizes `typeof x === "kind"` (or `!==`),
// returning the bound name, the string literal kind, and whether this
// edge wants members that match that kind (accounting for a negated
// operator combined with which edge this is).
func matchTypeofCheck(expr ast.Expression, whenTruthy bool) (name, kind string, wanted bool, ok bool) {
	bin, ok := expr.(*ast.BinaryExpression)
	if !ok || (bin.Operator != "===" && bin.Operator != "!==") {
		return "", "", false, false
	}
	id, lit, matched := typeofOperands(bin.Left, bin.Right)
	if !matched {
		id, lit, matched = typeofOperands(bin.Right, bin.Left)
	}
	if !matched {
		return "", "", false, false
	}
	equalsOp := bin.Operator == "==="
	return id, lit, equalsOp == whenTruthy, true
}

func typeofOperands(a, b ast.Expression) (name, literal string, ok bool) {
	un, isTypeof := a.(*ast.UnaryExpression)
	if !isTypeof || un.Operator != "typeof" {
		return "", "", false
	}
	id, isIdent := un.Operand.(*ast.Identifier)
	if !isIdent {
		return "", "", false
	}
	str, isStr := b.(*ast.StringLiteral)
	if !isStr {
		return "", "", false
	}
	return id.Name, str.Value, true
}

type nullishKind int

const (
	nullishNull nullishKind = iota
	nullishUndefined
	nullishEither
)

// matchNullishCheck recognizes `x === null`, `x === undefined`, and
// the loose `x == null` / `x != null` (which treats null and
// undefined as equal), returning whether this edge wants the nullish
// side of the check.
func matchNullishCheck(expr ast.Expression, whenTruthy bool) (name string, nullish nullishKind, wanted bool, ok bool) {
	bin, ok := expr.(*ast.BinaryExpression)
	if !ok {
		return "", 0, false, false
	}
	var equalsOp bool
	switch bin.Operator {
	case "===", "==":
		equalsOp = true
	case "!==", "!=":
		equalsOp = false
	default:
		return "", 0, false, false
	}
	loose := bin.Operator == "==" || bin.Operator == "!="

	id, nk, matched := nullishOperands(bin.Left, bin.Right, loose)
	if !matched {
		id, nk, matched = nullishOperands(bin.Right, bin.Left, loose)
	}
	if !matched {
		return "", 0, false, false
	}
	return id, nk, equalsOp == whenTruthy, true
}

func nullishOperands(a, b ast.Expression, loose bool) (name string, kind nullishKind, ok bool) {
	id, isIdent := a.(*ast.Identifier)
	if !isIdent {
		return "", 0, false
	}
	switch b.(type) {
	case *ast.NullLiteral:
		if loose {
			return id.Name, nullishEither, true
		}
		return id.Name, nullishNull, true
	case *ast.UndefinedLiteral:
		if loose {
			return id.Name, nullishEither, true
		}
		return id.Name, nullishUndefined, true
	default:
		return "", 0, false
	}
}

func classifyNullish(t types.Type, nullish nullishKind) verdict {
	switch t.(type) {
	case types.Any, types.Var, types.Unknown, types.Top:
		return unknown
	}
	p, ok := t.(types.Primitive)
	if !ok {
		return no
	}
	isNull := p.Base == config.NullBase
	isUndef := p.Base == config.UndefinedBase
	switch nullish {
	case nullishNull:
		if isNull {
			return yes
		}
		return no
	case nullishUndefined:
		if isUndef {
			return yes
		}
		return no
	default:
		if isNull || isUndef {
			return yes
		}
		return no
	}
}

type truthiness int

const (
	truthyAmbiguous truthiness = iota
	truthyDefinite
	falsyDefinite
)

// classifyTruthiness reports whether t's value is always truthy,
// always falsy, or ambiguous (an unrefined base type that could be
// either). Objects, arrays, functions, classes and promises are
// always truthy, matching ordinary JS semantics.
func classifyTruthiness(t types.Type) truthiness {
	switch v := t.(type) {
	case types.Primitive:
		if !v.IsLiteral() {
			switch v.Base {
			case config.NullBase, config.UndefinedBase:
				return falsyDefinite
			case config.SymBase:
				return truthyDefinite
			default:
				return truthyAmbiguous
			}
		}
		if isFalsyLiteral(v.Literal) {
			return falsyDefinite
		}
		return truthyDefinite
	case types.Function, types.Record, types.Array, types.Promise, *types.Class:
		return truthyDefinite
	default:
		return truthyAmbiguous
	}
}

func isFalsyLiteral(v any) bool {
	switch lit := v.(type) {
	case bool:
		return !lit
	case float64:
		return lit == 0
	case string:
		return lit == ""
	default:
		return false
	}
}

func typeofKind(t types.Type) string {
	switch v := t.(type) {
	case types.Primitive:
		switch v.Base {
		case config.StrBase:
			return "string"
		case config.NumBase, config.BigIntBase:
			return "number"
		case config.BoolBase:
			return "boolean"
		case config.UndefinedBase:
			return "undefined"
		case config.NullBase:
			return "object"
		case config.SymBase:
			return "symbol"
		}
	case types.Function:
		return "function"
	case *types.Class:
		return "function"
	case types.Record, types.Array, types.Promise:
		return "object"
	}
	return ""
}
