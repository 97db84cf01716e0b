package types

import "strings"

// FuncParam is one ordered parameter slot of a Function type: name,
// type, whether it's optional, and whether it's a rest parameter.
type FuncParam struct {
	Name     string
	Type     Type
	Optional bool
	Rest     bool
}

// Function is contravariant in Params and covariant in Return; the
// variance itself lives in biunify's structural descent, not here.
type Function struct {
	Params    []FuncParam
	Return    Type
	Async     bool
	Generator bool
}

func (Function) isType() {}

func (f Function) String() string {
	parts := make([]string, len(f.Params))
	for i, p := range f.Params {
		opt := ""
		if p.Optional {
			opt = "?"
		}
		rest := ""
		if p.Rest {
			rest = "..."
		}
		name := p.Name
		if name == "" {
			name = "_"
		}
		parts[i] = rest + name + opt + ": " + p.Type.String()
	}
	ret := "void"
	if f.Return != nil {
		ret = f.Return.String()
	}
	prefix := ""
	if f.Async {
		prefix = "async "
	}
	return prefix + "(" + strings.Join(parts, ", ") + ") => " + ret
}

// RecordField is one field of a structural Record.
type RecordField struct {
	Type     Type
	Optional bool
	Readonly bool
}

// Record is the structural lattice member; fields are stored in a map
// keyed by name plus an explicit insertion order so String() output
// and iteration stay deterministic without re-sorting on every call.
type Record struct {
	order  []string
	fields map[string]RecordField
}

func (Record) isType() {}

// NewRecord builds a Record from an ordered field list, rejecting
// duplicate names by keeping the last occurrence (callers build field
// lists from distinguishable AST properties, so duplicates only arise
// from re-declaration, which the declaration-level pass diagnoses
// separately).
func NewRecord(fieldsInOrder []string, fields map[string]RecordField) Record {
	order := make([]string, 0, len(fieldsInOrder))
	seen := make(map[string]bool, len(fieldsInOrder))
	for _, name := range fieldsInOrder {
		if seen[name] {
			continue
		}
		seen[name] = true
		order = append(order, name)
	}
	return Record{order: order, fields: fields}
}

// EmptyRecord is the record with no fields — the supertype of every
// other record under width subtyping.
func EmptyRecord() Record {
	return Record{fields: map[string]RecordField{}}
}

func (r Record) Names() []string {
	return append([]string(nil), r.order...)
}

func (r Record) Field(name string) (RecordField, bool) {
	f, ok := r.fields[name]
	return f, ok
}

func (r Record) Len() int { return len(r.order) }

func (r Record) String() string {
	parts := make([]string, 0, len(r.order))
	for _, name := range r.order {
		f := r.fields[name]
		opt := ""
		if f.Optional {
			opt = "?"
		}
		ro := ""
		if f.Readonly {
			ro = "readonly "
		}
		parts = append(parts, ro+name+opt+": "+f.Type.String())
	}
	return "{ " + strings.Join(parts, ", ") + " }"
}

// Array is covariant in Element; when Tuple is non-nil this is a fixed
// -length tuple and Element is the join of the tuple's members (the
// "residual" type rest-destructuring reads from past the tuple).
type Array struct {
	Element Type
	Tuple   []Type
}

func (Array) isType() {}

func (a Array) String() string {
	if a.Tuple != nil {
		return "[" + joinTypes(a.Tuple, ", ") + "]"
	}
	return a.Element.String() + "[]"
}

func (a Array) IsTuple() bool { return a.Tuple != nil }

// Promise is covariant in Resolved.
type Promise struct {
	Resolved Type
}

func (Promise) isType() {}
func (p Promise) String() string {
	return "Promise<" + p.Resolved.String() + ">"
}

// Class is nominal by Name (with an optional Parent chain, checked by
// IsSubclassOf); Instance/Static hold its member records. Subtyping
// between two classes is checked nominally only: their Instance
// records are not compared structurally.
type Class struct {
	Name        string
	Constructor Function
	Instance    Record
	Static      Record
	Parent      *Class
}

func (*Class) isType() {}

func (c *Class) String() string {
	return "class " + c.Name
}

// IsSubclassOf walks the Parent chain looking for name.
func (c *Class) IsSubclassOf(name string) bool {
	for cur := c; cur != nil; cur = cur.Parent {
		if cur.Name == name {
			return true
		}
	}
	return false
}

// UnionType is positive-polarity only; members are flattened
// and deduplicated by the Union() constructor in lattice.go, never by
// this type directly.
type UnionType struct {
	Members []Type
}

func (UnionType) isType() {}
func (u UnionType) String() string {
	return joinTypes(u.Members, " | ")
}

// IntersectionType is negative-polarity only.
type IntersectionType struct {
	Members []Type
}

func (IntersectionType) isType() {}
func (i IntersectionType) String() string {
	return joinTypes(i.Members, " & ")
}

// Recursive binds Binder within Body for cyclic structural types; the
// binder must occur only at guarded covariant positions.
type Recursive struct {
	Binder Var
	Body   Type
}

func (Recursive) isType() {}
func (r Recursive) String() string {
	return "rec " + r.Binder.String() + ". " + r.Body.String()
}
