package analyzer

import (
	"sort"

	"github.com/polarflow/polarflow/internal/biunify"
	"github.com/polarflow/polarflow/internal/builtins"
	"github.com/polarflow/polarflow/internal/cfg"
	"github.com/polarflow/polarflow/internal/constraints"
	"github.com/polarflow/polarflow/internal/pipeline"
	"github.com/polarflow/polarflow/internal/shape"
	"github.com/polarflow/polarflow/internal/solver"
	"github.com/polarflow/polarflow/internal/state"
	"github.com/polarflow/polarflow/internal/types"
)

// cfgStage lowers the program to a control-flow graph and seeds the
// entry environment with the host globals.
type cfgStage struct{}

func (cfgStage) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	g, diags := cfg.Build(ctx.Program.Body)
	for _, d := range diags {
		ctx.Diags.Add(d)
	}
	ctx.Graph = g
	ctx.Env = builtins.Seed(state.NewEnv())
	return ctx
}

// solveStage runs the fixed-point loop to convergence.
type solveStage struct{}

func (solveStage) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	sv := solver.New(ctx.Diags, ctx.Arena, ctx.Opts)
	ctx.Solved = sv.Solve(ctx.Program.Body, ctx.Graph, ctx.Env)
	return ctx
}

// solveShapeStage turns the solved result's final environment into
// sorted, simplified Annotations and Diagnostics.
type solveShapeStage struct{}

func (solveShapeStage) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	if ctx.Solved.Final.Reachable {
		visible := ctx.Solved.Final.Env.Visible()
		seeded := ctx.Env.Visible()
		names := make([]string, 0, len(visible))
		for name := range visible {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			b := visible[name]
			if sb, ok := seeded[name]; ok && sb.DeclSite == b.DeclSite && types.Equals(sb.Type, b.Type) {
				continue // an untouched builtin, not a declaration of the program
			}
			kind, nodeType := bindingShape(b.Kind)
			ctx.Annotations = append(ctx.Annotations, shape.Annotate(b.DeclSite, nodeType, name, b.Type, kind))
		}
	}
	finishShape(ctx)
	return ctx
}

// bindingShape maps a state.BindingKind to the external Kind/NodeType
// pair an Annotation carries; KindVar and KindLet both read as a plain
// variable annotation since the external contract doesn't distinguish
// them.
func bindingShape(k state.BindingKind) (shape.Kind, string) {
	switch k {
	case state.KindConst:
		return shape.KindConst, "VariableDeclarator"
	case state.KindParam:
		return shape.KindParameter, "Parameter"
	case state.KindFunction:
		return shape.KindFunction, "FunctionDeclaration"
	case state.KindClass:
		return shape.KindClass, "ClassDeclaration"
	case state.KindImport:
		return shape.KindVariable, "ImportSpecifier"
	default:
		return shape.KindVariable, "VariableDeclarator"
	}
}

// constraintStage walks the program once emitting flow constraints
// starting from the same builtin catalog as the direct-transfer
// front end so both agree on what's in global scope.
type constraintStage struct{}

func (constraintStage) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	ctx.CGen = constraints.NewGenerator(ctx.Arena)
	ctx.CEnv = ctx.CGen.InferProgram(seedConstraintsEnv(), ctx.Program.Body)
	return ctx
}

// seedConstraintsEnv mirrors builtins.Seed's catalog into a
// constraints.Env of monomorphic schemes, so the constraint front end
// never has to maintain its own copy of the global type catalog.
func seedConstraintsEnv() *constraints.Env {
	seeded := builtins.Seed(state.NewEnv())
	env := constraints.NewEnv()
	for name, b := range seeded.Visible() {
		env = env.Declare(name, constraints.Mono(b.Type))
	}
	return env
}

// biunifyStage resolves the emitted constraints to a substitution
// to a substitution.
type biunifyStage struct{}

func (biunifyStage) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	subst, diags := biunify.Solve(ctx.CGen.Constraints())
	ctx.Subst = subst
	for _, d := range diags {
		ctx.Diags.Add(d)
	}
	return ctx
}

// constraintShapeStage applies the substitution to each top-level
// declaration's scheme and shapes the result the same way
// solveShapeStage does for the other front end.
type constraintShapeStage struct{}

func (constraintShapeStage) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	visible := ctx.CEnv.Visible()
	for _, d := range topLevelDecls(ctx.Program.Body) {
		sc, ok := visible[d.Name]
		if !ok {
			continue
		}
		resolved := types.ApplySubst(sc.Type, ctx.Subst)
		ctx.Annotations = append(ctx.Annotations, shape.Annotate(d.Range, d.NodeType, d.Name, resolved, d.Kind))
	}
	finishShape(ctx)
	return ctx
}

func finishShape(ctx *pipeline.PipelineContext) {
	for _, d := range ctx.Diags.Items() {
		ctx.Diagnostics = append(ctx.Diagnostics, shape.FromDiag(d))
	}
	shape.SortAnnotations(ctx.Annotations)
	shape.SortDiagnostics(ctx.Diagnostics)
}
