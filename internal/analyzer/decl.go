package analyzer

import (
	"github.com/polarflow/polarflow/internal/ast"
	"github.com/polarflow/polarflow/internal/shape"
	"github.com/polarflow/polarflow/internal/token"
)

// decl is one top-level named declaration: enough to build an
// Annotation once its type is known, without re-deriving a source
// range or Kind from a Binding/Scheme that may not carry either.
type decl struct {
	Name     string
	Range    token.Range
	Kind     shape.Kind
	NodeType string
}

// topLevelDecls collects every named declaration directly in stmts —
// variable declarators bound to a plain identifier, function
// declarations, class declarations — skipping destructuring targets
// and anything nested inside a block, which neither front end
// generalizes at top level anyway.
func topLevelDecls(stmts []ast.Statement) []decl {
	var out []decl
	for _, s := range stmts {
		switch n := s.(type) {
		case *ast.VariableDeclaration:
			kind := shape.KindVariable
			if n.Kind == ast.VarConst {
				kind = shape.KindConst
			}
			for _, d := range n.Declarators {
				if id, ok := d.Target.(*ast.IdentifierPattern); ok {
					out = append(out, decl{Name: id.Name, Range: n.Range, Kind: kind, NodeType: "VariableDeclarator"})
				}
			}
		case *ast.FunctionDeclaration:
			out = append(out, decl{Name: n.Name, Range: n.Range, Kind: shape.KindFunction, NodeType: "FunctionDeclaration"})
		case *ast.ClassDeclaration:
			out = append(out, decl{Name: n.Name, Range: n.Range, Kind: shape.KindClass, NodeType: "ClassDeclaration"})
		}
	}
	return out
}
