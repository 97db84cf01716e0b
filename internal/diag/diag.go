// Package diag defines the closed diagnostic taxonomy the analyzer
// reports. Diagnostics are data, never control flow: nothing in this
// repo panics or returns a bare error for an analysis-level problem —
// callers always get a Diagnostic value back instead of an exception.
package diag

import (
	"fmt"

	"github.com/polarflow/polarflow/internal/token"
)

// Code is the closed set of diagnostic kinds this analyzer reports.
type Code int

const (
	IncompatibleTypes Code = iota
	MissingProperty
	NotCallable
	NotConstructable
	ArgumentCount
	InfiniteType
	ConstAssignment
	UndefinedVariable
	UndefinedProperty
	UnreachableCode
	DidNotConverge
	Ambiguous
	Unsatisfiable
)

func (c Code) String() string {
	switch c {
	case IncompatibleTypes:
		return "incompatible-types"
	case MissingProperty:
		return "missing-property"
	case NotCallable:
		return "not-callable"
	case NotConstructable:
		return "not-constructable"
	case ArgumentCount:
		return "argument-count"
	case InfiniteType:
		return "infinite-type"
	case ConstAssignment:
		return "const-assignment"
	case UndefinedVariable:
		return "undefined-variable"
	case UndefinedProperty:
		return "undefined-property"
	case UnreachableCode:
		return "unreachable-code"
	case DidNotConverge:
		return "did-not-converge"
	case Ambiguous:
		return "ambiguous"
	case Unsatisfiable:
		return "unsatisfiable"
	default:
		return "unknown-diagnostic"
	}
}

// Diagnostic is the stable, caller-facing record this package reports.
type Diagnostic struct {
	Code     Code
	Message  string
	Range    token.Range
	NodeType string // optional, e.g. "CallExpression"
}

func (d Diagnostic) Error() string {
	return fmt.Sprintf("%s:%d:%d: %s: %s", d.Code, d.Range.Start.Line, d.Range.Start.Column, d.Code, d.Message)
}

// New builds a Diagnostic at a source range.
func New(code Code, rng token.Range, format string, args ...any) Diagnostic {
	return Diagnostic{Code: code, Message: fmt.Sprintf(format, args...), Range: rng}
}

// WithNodeType returns a copy of d annotated with the AST node type
// that produced it, used only for debug/report rendering.
func (d Diagnostic) WithNodeType(nodeType string) Diagnostic {
	d.NodeType = nodeType
	return d
}

// Bag accumulates diagnostics in emission order; the caller sorts by
// source position only at the external boundary, which keeps reports
// deterministic regardless of traversal order.
type Bag struct {
	items []Diagnostic
}

func (b *Bag) Add(d Diagnostic) {
	b.items = append(b.items, d)
}

func (b *Bag) Addf(code Code, rng token.Range, format string, args ...any) {
	b.Add(New(code, rng, format, args...))
}

func (b *Bag) Items() []Diagnostic {
	return b.items
}

func (b *Bag) Len() int {
	return len(b.items)
}
