package pipeline

import (
	"github.com/polarflow/polarflow/internal/ast"
	"github.com/polarflow/polarflow/internal/cfg"
	"github.com/polarflow/polarflow/internal/config"
	"github.com/polarflow/polarflow/internal/constraints"
	"github.com/polarflow/polarflow/internal/diag"
	"github.com/polarflow/polarflow/internal/shape"
	"github.com/polarflow/polarflow/internal/solver"
	"github.com/polarflow/polarflow/internal/state"
	"github.com/polarflow/polarflow/internal/types"
)

// Processor is one stage of an analysis pipeline; it reads whatever
// fields an earlier stage filled in and returns a context with its own
// fields filled in, in place or copied — Process owns that choice.
type Processor interface {
	Process(ctx *PipelineContext) *PipelineContext
}

// PipelineContext threads one analysis's state through the stage
// sequence an Analyzer builds. Not every field is meaningful for every
// front end: the direct-transfer stages (cfg.Build, solver.Solve) fill
// Graph/Solved, the constraint-based stages fill CGen/CEnv/Subst, and
// either path converges on Annotations/Diagnostics by the final stage.
type PipelineContext struct {
	Program *ast.Program
	Arena   *types.VarArena
	Diags   *diag.Bag
	Opts    config.AnalyzerOptions

	// Direct-transfer front end.
	Graph  *cfg.Graph
	Env    *state.Env
	Solved *solver.Result

	// Constraint-based front end.
	CGen  *constraints.Generator
	CEnv  *constraints.Env
	Subst types.Subst

	// Filled in by the final stage of either front end.
	Annotations []shape.Annotation
	Diagnostics []shape.Diagnostic

	// Halted stops the pipeline before the next stage runs (e.g. the
	// CFG builder itself reported diagnostics and there is no graph
	// left for the solver to walk).
	Halted bool
}

// NewPipelineContext seeds a context for analyzing prog with opts,
// sharing arena and diags with whatever else the caller tracks them
// (the Analyzer façade keeps both instance-local across one
// AnalyzeProgram call).
func NewPipelineContext(prog *ast.Program, arena *types.VarArena, diags *diag.Bag, opts config.AnalyzerOptions) *PipelineContext {
	return &PipelineContext{Program: prog, Arena: arena, Diags: diags, Opts: opts}
}
