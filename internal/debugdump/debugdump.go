// Package debugdump renders a solved control-flow graph as a terminal
// -friendly trace: every block's entry/exit environment, its
// terminator, and the iteration count the fixed point took to settle.
// Nothing in the analyzer depends on this package; it exists purely so
// a caller running interactively can ask "what did block 3 look like
// on the way in."
package debugdump

import (
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"

	"github.com/polarflow/polarflow/internal/cfg"
	"github.com/polarflow/polarflow/internal/solver"
	"github.com/polarflow/polarflow/internal/state"
)

// ANSI SGR codes used when Options.Color is set. Kept to the handful
// a trace actually needs instead of pulling in a color library for
// three escape sequences.
const (
	colorReset  = "\x1b[0m"
	colorBold   = "\x1b[1m"
	colorCyan   = "\x1b[36m"
	colorRed    = "\x1b[31m"
	colorGreen  = "\x1b[32m"
	colorYellow = "\x1b[33m"
)

// Options configures one dump.
type Options struct {
	// Color emits ANSI escapes around block headers and the
	// convergence summary. Callers normally set this from DetectColor
	// rather than hardcoding it.
	Color bool
}

// DetectColor reports whether f looks like a terminal a human is
// watching, the same test the analyzer's CLI uses to decide whether a
// dump was redirected to a file or pipe.
func DetectColor(f *os.File) bool {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// Dump writes res to w: one section per block in reverse post-order,
// each showing the entry and exit environments and the terminator,
// followed by a one-line convergence summary.
func Dump(w io.Writer, res *solver.Result, opts Options) error {
	d := &dumper{w: w, opts: opts}
	for _, id := range res.Graph.ReversePostOrder() {
		if err := d.block(res, id); err != nil {
			return err
		}
	}
	return d.summary(res)
}

type dumper struct {
	w    io.Writer
	opts Options
}

func (d *dumper) color(code, s string) string {
	if !d.opts.Color {
		return s
	}
	return code + s + colorReset
}

func (d *dumper) block(res *solver.Result, id cfg.BlockID) error {
	blk := res.Graph.Blocks[id]
	header := fmt.Sprintf("block %d", id)
	if blk.Unreachable {
		header = d.color(colorRed, header+" (unreachable)")
	} else {
		header = d.color(colorBold+colorCyan, header)
	}
	if _, err := fmt.Fprintln(d.w, header); err != nil {
		return err
	}

	entry := res.BlockEntry[id]
	exit := res.BlockExit[id]
	if err := d.env(" entry", entry); err != nil {
		return err
	}
	if err := d.env(" exit ", exit); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(d.w, "  %s\n", describeTerminator(blk.Terminator)); err != nil {
		return err
	}
	return nil
}

func (d *dumper) env(label string, s state.State) error {
	if !s.Reachable {
		_, err := fmt.Fprintf(d.w, " %s: unreachable\n", label)
		return err
	}
	visible := s.Env.Visible()
	names := make([]string, 0, len(visible))
	for name := range visible {
		names = append(names, name)
	}
	sort.Strings(names)
	if len(names) == 0 {
		_, err := fmt.Fprintf(d.w, " %s: (empty)\n", label)
		return err
	}
	if _, err := fmt.Fprintf(d.w, " %s:\n", label); err != nil {
		return err
	}
	for _, name := range names {
		b := visible[name]
		flags := ""
		if !b.DefinitelyAssigned {
			flags += " maybe-unassigned"
		}
		if b.PossiblyMutated {
			flags += " mutated"
		}
		if _, err := fmt.Fprintf(d.w, "   %s: %s%s\n", name, b.Type.String(), flags); err != nil {
			return err
		}
	}
	return nil
}

func (d *dumper) summary(res *solver.Result) error {
	status := d.color(colorGreen, "converged")
	if !res.Converged {
		status = d.color(colorYellow, "did not converge")
	}
	_, err := fmt.Fprintf(d.w, "%s after %s iteration(s)\n", status, humanize.Comma(int64(res.Iterations)))
	return err
}

// describeTerminator renders a block's terminator as a short
// "-> target(s)" line; the successor list itself comes from
// Terminator.Successors() so this never drifts from what the solver
// and dominator computation actually traverse.
func describeTerminator(term cfg.Terminator) string {
	if term == nil {
		return "-> (none)"
	}
	switch t := term.(type) {
	case cfg.FallthroughTerm:
		return fmt.Sprintf("-> fallthrough(%d)", t.Next)
	case cfg.BranchTerm:
		return fmt.Sprintf("-> branch(then=%d, else=%d)", t.Then, t.Else)
	case cfg.SwitchTerm:
		return fmt.Sprintf("-> switch(%d case(s), default=%d)", len(t.Cases), t.Default)
	case cfg.ReturnTerm:
		return "-> return"
	case cfg.ThrowTerm:
		if t.Handler != nil {
			return fmt.Sprintf("-> throw(caught at %d)", *t.Handler)
		}
		return "-> throw(uncaught)"
	case cfg.JumpTerm:
		kind := "break"
		if t.Kind == cfg.JumpContinue {
			kind = "continue"
		}
		return fmt.Sprintf("-> %s(%d)", kind, t.Target)
	case cfg.UnresolvedJumpTerm:
		kind := "break"
		if t.Kind == cfg.JumpContinue {
			kind = "continue"
		}
		return fmt.Sprintf("-> unresolved %s", kind)
	case cfg.TryTerm:
		return fmt.Sprintf("-> try(body=%d, continuation=%d)", t.TryBlock, t.Continuation)
	default:
		return fmt.Sprintf("-> %T", t)
	}
}
