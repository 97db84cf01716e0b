package pipeline

import (
	"testing"

	"github.com/polarflow/polarflow/internal/ast"
	"github.com/polarflow/polarflow/internal/config"
	"github.com/polarflow/polarflow/internal/diag"
	"github.com/polarflow/polarflow/internal/types"
)

type recordStage struct {
	name string
	log  *[]string
}

func (s recordStage) Process(ctx *PipelineContext) *PipelineContext {
	*s.log = append(*s.log, s.name)
	return ctx
}

type haltStage struct{}

func (haltStage) Process(ctx *PipelineContext) *PipelineContext {
	ctx.Halted = true
	return ctx
}

func newTestContext() *PipelineContext {
	return NewPipelineContext(&ast.Program{}, types.NewVarArena(), &diag.Bag{}, config.DefaultOptions())
}

func TestRunExecutesEveryStageInOrder(t *testing.T) {
	var log []string
	p := New(recordStage{"first", &log}, recordStage{"second", &log}, recordStage{"third", &log})
	p.Run(newTestContext())
	if len(log) != 3 || log[0] != "first" || log[1] != "second" || log[2] != "third" {
		t.Fatalf("expected stages to run in order, got %v", log)
	}
}

func TestRunStopsAtAHaltedStage(t *testing.T) {
	var log []string
	p := New(recordStage{"first", &log}, haltStage{}, recordStage{"never", &log})
	p.Run(newTestContext())
	if len(log) != 1 || log[0] != "first" {
		t.Fatalf("expected only the stage before Halted to run, got %v", log)
	}
}

func TestRunReturnsTheFinalContext(t *testing.T) {
	p := New(haltStage{})
	out := p.Run(newTestContext())
	if !out.Halted {
		t.Errorf("expected the returned context to reflect Halted")
	}
}
