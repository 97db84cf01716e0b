// Package fixture builds an *ast.Program from a tiny JSON shorthand,
// standing in for a real parser: just enough statement/expression
// shapes to drive the analyzer from a hand-written test file or the
// CLI, with no position information beyond a synthetic, order
// -preserving offset per node.
package fixture

import (
	"encoding/json"
	"fmt"

	"github.com/polarflow/polarflow/internal/ast"
	"github.com/polarflow/polarflow/internal/token"
)

// node is the shared wire shape every statement and expression decodes
// from; which fields apply depends on Type.
type node struct {
	Type string `json:"type"`

	// Literals / identifiers
	Name  string          `json:"name"`
	Value json.RawMessage `json:"value"`

	// Operators
	Op    string          `json:"op"`
	Left  json.RawMessage `json:"left"`
	Right json.RawMessage `json:"right"`
	Arg   json.RawMessage `json:"arg"`

	// Calls / member access
	Callee   json.RawMessage   `json:"callee"`
	Args     []json.RawMessage `json:"args"`
	Object   json.RawMessage   `json:"object"`
	Property string            `json:"property"`

	// Assignment / conditional
	Target json.RawMessage `json:"target"`

	// Control flow
	Test json.RawMessage `json:"test"`
	Then json.RawMessage `json:"then"`
	Else json.RawMessage `json:"else"`
	Do   json.RawMessage `json:"do"`

	// Declarations
	Kind   string            `json:"kind"`
	Init   json.RawMessage   `json:"init"`
	Params []string          `json:"params"`
	Body   []json.RawMessage `json:"body"`
}

// Program is the top-level fixture document: a flat statement list,
// matching ast.Program.Body.
type Program struct {
	Body []json.RawMessage `json:"body"`
}

// Parse decodes data as a Program fixture and builds the ast.Program
// it describes.
func Parse(data []byte) (*ast.Program, error) {
	var doc Program
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("fixture: decoding program: %w", err)
	}
	b := &builder{}
	body, err := b.stmts(doc.Body)
	if err != nil {
		return nil, err
	}
	return &ast.Program{Range: b.nextRange(), Body: body}, nil
}

// builder hands out synthetic, monotonically increasing source
// positions so every node has a distinct Range and SortAnnotations'
// offset ordering matches fixture declaration order.
type builder struct {
	pos int
}

func (b *builder) nextRange() token.Range {
	start := token.Position{Offset: b.pos, Line: 1, Column: b.pos + 1}
	b.pos++
	end := token.Position{Offset: b.pos, Line: 1, Column: b.pos + 1}
	return token.Range{Start: start, End: end}
}

func (b *builder) stmts(raws []json.RawMessage) ([]ast.Statement, error) {
	out := make([]ast.Statement, 0, len(raws))
	for _, raw := range raws {
		s, err := b.stmt(raw)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

func (b *builder) decode(raw json.RawMessage) (node, error) {
	var n node
	if err := json.Unmarshal(raw, &n); err != nil {
		return node{}, fmt.Errorf("fixture: decoding node: %w", err)
	}
	return n, nil
}

func (b *builder) stmt(raw json.RawMessage) (ast.Statement, error) {
	n, err := b.decode(raw)
	if err != nil {
		return nil, err
	}
	rng := b.nextRange()

	switch n.Type {
	case "var":
		init, err := b.maybeExpr(n.Init)
		if err != nil {
			return nil, err
		}
		kind := ast.VarLet
		switch n.Kind {
		case "const":
			kind = ast.VarConst
		case "var":
			kind = ast.VarVar
		}
		return &ast.VariableDeclaration{
			Range: rng,
			Kind:  kind,
			Declarators: []ast.VariableDeclarator{{
				Target: &ast.IdentifierPattern{Range: rng, Name: n.Name},
				Init:   init,
			}},
		}, nil

	case "expr":
		e, err := b.expr(n.Value)
		if err != nil {
			return nil, err
		}
		return &ast.ExpressionStatement{Range: rng, Expression: e}, nil

	case "if":
		test, err := b.expr(n.Test)
		if err != nil {
			return nil, err
		}
		then, err := b.stmt(n.Then)
		if err != nil {
			return nil, err
		}
		var alt ast.Statement
		if len(n.Else) > 0 {
			alt, err = b.stmt(n.Else)
			if err != nil {
				return nil, err
			}
		}
		return &ast.IfStatement{Range: rng, Test: test, Consequent: then, Alternate: alt}, nil

	case "while":
		test, err := b.expr(n.Test)
		if err != nil {
			return nil, err
		}
		body, err := b.stmt(n.Do)
		if err != nil {
			return nil, err
		}
		return &ast.WhileStatement{Range: rng, Test: test, Body: body}, nil

	case "block":
		body, err := b.stmts(n.Body)
		if err != nil {
			return nil, err
		}
		return &ast.BlockStatement{Range: rng, Body: body}, nil

	case "function":
		params := make([]ast.Param, 0, len(n.Params))
		for _, p := range n.Params {
			params = append(params, ast.Param{Pattern: &ast.IdentifierPattern{Range: b.nextRange(), Name: p}})
		}
		body, err := b.stmts(n.Body)
		if err != nil {
			return nil, err
		}
		return &ast.FunctionDeclaration{Range: rng, Name: n.Name, Params: params, Body: body}, nil

	case "return":
		arg, err := b.maybeExpr(n.Arg)
		if err != nil {
			return nil, err
		}
		return &ast.ReturnStatement{Range: rng, Argument: arg}, nil

	case "throw":
		arg, err := b.expr(n.Arg)
		if err != nil {
			return nil, err
		}
		return &ast.ThrowStatement{Range: rng, Argument: arg}, nil

	default:
		return nil, fmt.Errorf("fixture: unknown statement type %q", n.Type)
	}
}

func (b *builder) maybeExpr(raw json.RawMessage) (ast.Expression, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	return b.expr(raw)
}

func (b *builder) expr(raw json.RawMessage) (ast.Expression, error) {
	n, err := b.decode(raw)
	if err != nil {
		return nil, err
	}
	rng := b.nextRange()

	switch n.Type {
	case "number":
		var v float64
		if err := json.Unmarshal(n.Value, &v); err != nil {
			return nil, fmt.Errorf("fixture: number value: %w", err)
		}
		return &ast.NumberLiteral{Range: rng, Value: v}, nil

	case "string":
		var v string
		if err := json.Unmarshal(n.Value, &v); err != nil {
			return nil, fmt.Errorf("fixture: string value: %w", err)
		}
		return &ast.StringLiteral{Range: rng, Value: v}, nil

	case "bool":
		var v bool
		if err := json.Unmarshal(n.Value, &v); err != nil {
			return nil, fmt.Errorf("fixture: bool value: %w", err)
		}
		return &ast.BoolLiteral{Range: rng, Value: v}, nil

	case "null":
		return &ast.NullLiteral{Range: rng}, nil

	case "undefined":
		return &ast.UndefinedLiteral{Range: rng}, nil

	case "identifier":
		return &ast.Identifier{Range: rng, Name: n.Name}, nil

	case "binary":
		left, err := b.expr(n.Left)
		if err != nil {
			return nil, err
		}
		right, err := b.expr(n.Right)
		if err != nil {
			return nil, err
		}
		return &ast.BinaryExpression{Range: rng, Operator: n.Op, Left: left, Right: right}, nil

	case "logical":
		left, err := b.expr(n.Left)
		if err != nil {
			return nil, err
		}
		right, err := b.expr(n.Right)
		if err != nil {
			return nil, err
		}
		return &ast.LogicalExpression{Range: rng, Operator: n.Op, Left: left, Right: right}, nil

	case "unary":
		arg, err := b.expr(n.Arg)
		if err != nil {
			return nil, err
		}
		return &ast.UnaryExpression{Range: rng, Operator: n.Op, Operand: arg}, nil

	case "call":
		callee, err := b.expr(n.Callee)
		if err != nil {
			return nil, err
		}
		args := make([]ast.Expression, 0, len(n.Args))
		for _, raw := range n.Args {
			a, err := b.expr(raw)
			if err != nil {
				return nil, err
			}
			args = append(args, a)
		}
		return &ast.CallExpression{Range: rng, Callee: callee, Args: args}, nil

	case "assignment":
		target, err := b.expr(n.Target)
		if err != nil {
			return nil, err
		}
		value, err := b.expr(n.Value)
		if err != nil {
			return nil, err
		}
		op := n.Op
		if op == "" {
			op = "="
		}
		return &ast.AssignmentExpression{Range: rng, Operator: op, Target: target, Value: value}, nil

	case "conditional":
		test, err := b.expr(n.Test)
		if err != nil {
			return nil, err
		}
		then, err := b.expr(n.Then)
		if err != nil {
			return nil, err
		}
		alt, err := b.expr(n.Else)
		if err != nil {
			return nil, err
		}
		return &ast.ConditionalExpression{Range: rng, Test: test, Consequent: then, Alternate: alt}, nil

	case "member":
		obj, err := b.expr(n.Object)
		if err != nil {
			return nil, err
		}
		return &ast.MemberExpression{Range: rng, Object: obj, Property: n.Property}, nil

	default:
		return nil, fmt.Errorf("fixture: unknown expression type %q", n.Type)
	}
}
