package pipeline

// Pipeline represents a sequence of processing stages.
type Pipeline struct {
	processors []Processor
}

func New(processors ...Processor) *Pipeline {
	return &Pipeline{processors: processors}
}

// Run executes the pipeline.
func (p *Pipeline) Run(initialCtx *PipelineContext) *PipelineContext {
	ctx := initialCtx
	for _, processor := range p.processors {
		if ctx.Halted {
			// A stage hit something later stages can't usefully run
			// against (e.g. the CFG itself never built) — stop instead
			// of feeding it a zero-value context.
			break
		}
		ctx = processor.Process(ctx)
		// Otherwise continue on errors to collect diagnostics from all
		// stages (e.g. LSP needs both parse and semantic errors).
	}
	return ctx
}
