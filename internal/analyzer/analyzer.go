// Package analyzer wires the type lattice, control-flow graph, fixed
// -point solver, constraint generator, biunification solver, and
// output shaping packages behind one entry point: Analyzer.
// AnalyzeProgram. Each Analyzer owns its own type-variable arena and
// diagnostic bag, so two Analyzer values never observe each other's
// state even when run concurrently.
package analyzer

import (
	"github.com/google/uuid"

	"github.com/polarflow/polarflow/internal/ast"
	"github.com/polarflow/polarflow/internal/config"
	"github.com/polarflow/polarflow/internal/diag"
	"github.com/polarflow/polarflow/internal/pipeline"
	"github.com/polarflow/polarflow/internal/shape"
	"github.com/polarflow/polarflow/internal/solver"
	"github.com/polarflow/polarflow/internal/types"
)

// Options configures one Analyzer. Embedding config.AnalyzerOptions
// keeps the fixed-point/narrowing/front-end knobs in the one place
// internal/config already owns; Debug is analyzer-local since it only
// controls whether AnalyzeProgram bothers keeping the solved CFG
// around for internal/debugdump to render afterward.
type Options struct {
	config.AnalyzerOptions
	// Debug populates Result.Debug with the direct-transfer front
	// end's solver.Result. No effect when UseConstraints is set — the
	// constraint front end never builds a CFG to show.
	Debug bool
}

// DefaultOptions returns the recommended defaults for a fresh analysis.
func DefaultOptions() Options {
	return Options{AnalyzerOptions: config.DefaultOptions()}
}

// Result is one completed analysis: its Annotations and Diagnostics,
// ready to hand to a formatter, plus the instance id that produced
// them and the optional debug bundle.
type Result struct {
	ID          string
	Annotations []shape.Annotation
	Diagnostics []shape.Diagnostic
	// Debug is non-nil only when Options.Debug was set and the
	// direct-transfer front end ran.
	Debug *solver.Result
}

// Analyzer owns one analysis's instance-local state: its type
// -variable arena, its diagnostic bag, and a uuid used only to
// correlate this instance's debug/log output — never for type
// identity and never persisted.
type Analyzer struct {
	id    string
	opts  Options
	arena *types.VarArena
	diags *diag.Bag
}

// New returns an Analyzer configured by opts.
func New(opts Options) *Analyzer {
	return &Analyzer{
		id:    uuid.NewString(),
		opts:  opts,
		arena: types.NewVarArena(),
		diags: &diag.Bag{},
	}
}

// ID is this instance's correlation id.
func (a *Analyzer) ID() string { return a.id }

// AnalyzeProgram runs prog through either the direct-transfer front
// end or the constraint-based front end, as
// Options.UseConstraints selects, and shapes the result for external
// consumption. It is not reentrant: a single Analyzer must finish
// one AnalyzeProgram call before starting another.
func (a *Analyzer) AnalyzeProgram(prog *ast.Program) Result {
	ctx := pipeline.NewPipelineContext(prog, a.arena, a.diags, a.opts.AnalyzerOptions)

	var stages []pipeline.Processor
	if a.opts.UseConstraints {
		stages = []pipeline.Processor{constraintStage{}, biunifyStage{}, constraintShapeStage{}}
	} else {
		stages = []pipeline.Processor{cfgStage{}, solveStage{}, solveShapeStage{}}
	}
	out := pipeline.New(stages...).Run(ctx)

	res := Result{
		ID:          a.id,
		Annotations: out.Annotations,
		Diagnostics: out.Diagnostics,
	}
	if a.opts.Debug && !a.opts.UseConstraints {
		res.Debug = out.Solved
	}
	return res
}
