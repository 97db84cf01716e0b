// Package solver drives the fixed-point flow analysis over a control
// -flow graph: it iterates reverse post-order, joining predecessor
// exit states (narrowed along each edge) into each block's entry state
// and re-running the block's transfer rules, until every block's state
// stops changing or an iteration ceiling is hit.
package solver

import (
	"github.com/dustin/go-humanize"

	"github.com/polarflow/polarflow/internal/ast"
	"github.com/polarflow/polarflow/internal/cfg"
	"github.com/polarflow/polarflow/internal/config"
	"github.com/polarflow/polarflow/internal/diag"
	"github.com/polarflow/polarflow/internal/state"
	"github.com/polarflow/polarflow/internal/token"
	"github.com/polarflow/polarflow/internal/types"
)

// Result is one CFG's completed analysis: every block's exit state, the
// state joined across every reachable exit (function/program result),
// and the per-expression type map accumulated over the final pass.
type Result struct {
	Graph      *cfg.Graph
	BlockExit  map[cfg.BlockID]state.State
	BlockEntry map[cfg.BlockID]state.State
	Final      state.State
	Exprs      map[ast.Expression]types.Type
	Iterations int
	Converged  bool
}

// Solver owns the diagnostic bag and type-variable arena for one
// analysis; it is not safe to share a Solver across concurrent
// analyses run against the same arena.
type Solver struct {
	diags *diag.Bag
	arena *types.VarArena
	tr    *state.Transferer
	opts  config.AnalyzerOptions
}

func New(diags *diag.Bag, arena *types.VarArena, opts config.AnalyzerOptions) *Solver {
	return &Solver{diags: diags, arena: arena, tr: state.NewTransferer(diags, arena), opts: opts}
}

// Solve runs the fixed-point loop over g starting from initialEnv,
// which already carries whatever builtins and enclosing-scope bindings
// the graph's statements can see. stmts is the same statement list g
// was built from, in source order, used only for the hoisting pre-pass
// (the block-lowered graph no longer reflects source nesting).
func (sv *Solver) Solve(stmts []ast.Statement, g *cfg.Graph, initialEnv *state.Env) *Result {
	hoisted := hoist(sv.tr, initialEnv, stmts)
	mutated := mutatedNames(g)

	// The fixed-point passes report into a scratch bag; only the final
	// pass below reports into sv.diags, so each diagnostic appears once.
	reporting := sv.tr
	sv.tr = state.NewTransferer(&diag.Bag{}, sv.arena)

	entry := make(map[cfg.BlockID]state.State, len(g.Blocks))
	exit := make(map[cfg.BlockID]state.State, len(g.Blocks))
	for id := range g.Blocks {
		exit[id] = state.Unreachable()
	}

	rpo := g.ReversePostOrder()
	converged := false
	iter := 0
	for ; iter < sv.opts.MaxIterations; iter++ {
		changed := false
		for _, id := range rpo {
			blk := g.Blocks[id]
			var in state.State
			if id == g.Entry {
				in = state.NewState(hoisted)
			} else {
				in = sv.joinPreds(g, id, exit)
			}
			if isLoopHeader(g, id) {
				in = state.Widen(in, mutated)
			}
			entry[id] = in

			out := sv.runBlock(in, blk)
			prev, seen := exit[id]
			exit[id] = out
			if !seen || !state.Equal(prev, out) {
				changed = true
			}
		}
		if !changed {
			converged = true
			iter++
			break
		}
	}
	if !converged {
		sv.diags.Addf(diag.DidNotConverge, token.Range{}, "analysis did not converge after %s iterations", humanize.Comma(int64(sv.opts.MaxIterations)))
	}

	sv.tr = reporting
	finalExprs := map[ast.Expression]types.Type{}
	var finals []state.State
	for _, id := range rpo {
		blk := g.Blocks[id]
		out := sv.runBlockInto(entry[id], blk, finalExprs)
		exit[id] = out
		if terminatorSuccessors(blk.Terminator) == 0 && out.Reachable {
			finals = append(finals, out)
		}
	}

	return &Result{
		Graph:      g,
		BlockEntry: entry,
		BlockExit:  exit,
		Final:      state.JoinAll(finals),
		Exprs:      finalExprs,
		Iterations: iter,
		Converged:  converged,
	}
}

func (sv *Solver) runBlock(in state.State, blk *cfg.Block) state.State {
	s := sv.tr.TransferBlock(in, blk.Statements)
	return sv.transferTerminator(s, blk.Terminator)
}

// runBlockInto is identical to runBlock but copies the resulting
// per-expression types into a caller-owned map, used for the final
// pass once the fixed point has settled.
func (sv *Solver) runBlockInto(in state.State, blk *cfg.Block, dest map[ast.Expression]types.Type) state.State {
	s := sv.tr.TransferBlock(in, blk.Statements)
	s = sv.transferTerminator(s, blk.Terminator)
	for k, v := range s.Exprs {
		dest[k] = v
	}
	return s
}

// terminatorSuccessors reports term's successor count, treating the
// unset terminator of the graph's trailing "normal exit" sentinel
// block (the one cfg.Build appends after the last statement falls
// through) as having none.
func terminatorSuccessors(term cfg.Terminator) int {
	if term == nil {
		return 0
	}
	return len(term.Successors())
}

// transferTerminator evaluates whatever expression a terminator
// carries (a branch test, a switch discriminant and case tests, a
// return or throw argument) purely for its diagnostics and type map
// entries; the terminator itself never changes reachability here —
// narrowing happens edge-by-edge in joinPreds.
func (sv *Solver) transferTerminator(s state.State, term cfg.Terminator) state.State {
	if !s.Reachable || term == nil {
		return s
	}
	switch t := term.(type) {
	case cfg.BranchTerm:
		if t.Cond.Expr != nil {
			_, s = sv.tr.EvalExpr(s, t.Cond.Expr)
		}
	case cfg.SwitchTerm:
		_, s = sv.tr.EvalExpr(s, t.Discriminant)
		for _, c := range t.Cases {
			if c.Test != nil {
				_, s = sv.tr.EvalExpr(s, c.Test)
			}
		}
	case cfg.ReturnTerm:
		if t.Argument != nil {
			_, s = sv.tr.EvalExpr(s, t.Argument)
		}
	case cfg.ThrowTerm:
		_, s = sv.tr.EvalExpr(s, t.Argument)
	}
	return s
}

// joinPreds computes id's entry state as the join of every
// predecessor's exit state, each narrowed along the edge that reaches
// id. A predecessor later in RPO (reachable only via a back edge)
// still has its Unreachable() seed in exit until this pass catches up
// to it, which the next outer iteration resolves.
func (sv *Solver) joinPreds(g *cfg.Graph, id cfg.BlockID, exit map[cfg.BlockID]state.State) state.State {
	preds := g.Preds(id)
	if len(preds) == 0 {
		return state.Unreachable()
	}
	result := state.Unreachable()
	for _, p := range preds {
		narrow := edgeNarrow(g, p, id)
		narrowed := state.ApplyNarrow(exit[p], narrow, sv.opts.Narrowing)
		result = state.Join(result, narrowed)
	}
	return result
}

func edgeNarrow(g *cfg.Graph, from, to cfg.BlockID) *cfg.NarrowCond {
	for _, e := range g.Edges {
		if e.From == from && e.To == to {
			return e.Narrow
		}
	}
	return nil
}

func isLoopHeader(g *cfg.Graph, id cfg.BlockID) bool {
	for _, p := range g.Preds(id) {
		if g.IsBackEdge(p, id) {
			return true
		}
	}
	return false
}
