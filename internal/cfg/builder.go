package cfg

import (
	"github.com/polarflow/polarflow/internal/ast"
	"github.com/polarflow/polarflow/internal/diag"
)

// loopScope tracks the break/continue targets of one enclosing loop or
// switch, plus its optional label. The builder keeps a stack of these
// for nested loop/switch/label scopes.
type loopScope struct {
	label          string
	breakTarget    BlockID
	continueTarget BlockID
	isSwitch       bool // switch scopes accept break but not continue
}

// handlerFrame is the nearest enclosing catch/finally while lowering a
// protected (try) body.
type handlerFrame struct {
	catchBlock   *BlockID
	finallyBlock *BlockID
}

// Builder lowers one statement list (a function body or the top-level
// program) into a Graph.
type Builder struct {
	g        *Graph
	diags    *diag.Bag
	loops    []loopScope
	handlers []handlerFrame
}

// Build lowers stmts into a complete, finalized Graph.
func Build(stmts []ast.Statement) (*Graph, []diag.Diagnostic) {
	bd := &Builder{g: newGraph(), diags: &diag.Bag{}}
	entry := bd.newBlock()
	bd.g.Entry = entry.ID
	exit := bd.lowerStmts(stmts, entry)
	if exit != nil {
		exitBlock := bd.newBlock()
		bd.terminate(exit, FallthroughTerm{Next: exitBlock.ID})
		bd.addEdge(exit.ID, exitBlock.ID, EdgeNormal, nil)
	}
	bd.g.Finalize()
	return bd.g, bd.diags.Items()
}

func (bd *Builder) newBlock() *Block {
	b := &Block{ID: bd.g.newBlockID()}
	bd.g.addBlock(b)
	return b
}

func (bd *Builder) addEdge(from, to BlockID, kind EdgeKind, narrow *NarrowCond) {
	bd.g.Edges = append(bd.g.Edges, Edge{From: from, To: to, Kind: kind, Narrow: narrow})
}

func (bd *Builder) terminate(b *Block, term Terminator) {
	b.Terminator = term
}

// lowerStmts lowers a statement list starting at `start`, which is
// already open (no terminator yet). It returns the still-open block to
// continue from, or nil if every path terminated.
func (bd *Builder) lowerStmts(stmts []ast.Statement, start *Block) *Block {
	cur := start
	for _, s := range stmts {
		if cur == nil {
			// The previous statement terminated its block but source
			// statements remain: start a fresh, unreachable block.
			cur = bd.newBlock()
			cur.Unreachable = true
			bd.diags.Addf(diag.UnreachableCode, s.GetRange(), "unreachable code")
		}
		cur = bd.lowerStmt(s, cur)
	}
	return cur
}

func (bd *Builder) lowerStmt(s ast.Statement, cur *Block) *Block {
	switch n := s.(type) {
	case *ast.BlockStatement:
		return bd.lowerStmts(n.Body, cur)

	case *ast.EmptyStatement, *ast.DebuggerStatement:
		cur.Statements = append(cur.Statements, s)
		return cur

	case *ast.ExpressionStatement, *ast.VariableDeclaration,
		*ast.FunctionDeclaration, *ast.ClassDeclaration:
		cur.Statements = append(cur.Statements, s)
		return cur

	case *ast.IfStatement:
		return bd.lowerIf(n, cur)
	case *ast.WhileStatement:
		return bd.lowerWhile(n, cur, n.Label)
	case *ast.DoWhileStatement:
		return bd.lowerDoWhile(n, cur, n.Label)
	case *ast.ForStatement:
		return bd.lowerFor(n, cur, n.Label)
	case *ast.ForInOfStatement:
		return bd.lowerForInOf(n, cur, n.Label)
	case *ast.SwitchStatement:
		return bd.lowerSwitch(n, cur, n.Label)
	case *ast.TryStatement:
		return bd.lowerTry(n, cur)
	case *ast.ThrowStatement:
		return bd.lowerThrow(n, cur)
	case *ast.ReturnStatement:
		bd.terminate(cur, ReturnTerm{Argument: n.Argument})
		return nil
	case *ast.BreakStatement:
		return bd.lowerBreak(n, cur)
	case *ast.ContinueStatement:
		return bd.lowerContinue(n, cur)
	case *ast.LabeledStatement:
		return bd.lowerLabeled(n, cur)
	default:
		cur.Statements = append(cur.Statements, s)
		return cur
	}
}

func (bd *Builder) lowerIf(n *ast.IfStatement, cur *Block) *Block {
	thenBlock := bd.newBlock()
	var elseBlock *Block
	merge := bd.newBlock()

	if n.Alternate != nil {
		elseBlock = bd.newBlock()
	}

	elseTarget := merge.ID
	if elseBlock != nil {
		elseTarget = elseBlock.ID
	}

	bd.terminate(cur, BranchTerm{Cond: Condition{Expr: n.Test}, Then: thenBlock.ID, Else: elseTarget})
	bd.addEdge(cur.ID, thenBlock.ID, EdgeTrueBranch, &NarrowCond{Expr: n.Test, WhenTruthy: true})
	bd.addEdge(cur.ID, elseTarget, EdgeFalseBranch, &NarrowCond{Expr: n.Test, WhenTruthy: false})

	thenExit := bd.lowerStmt(n.Consequent, thenBlock)
	if thenExit != nil {
		bd.terminate(thenExit, FallthroughTerm{Next: merge.ID})
		bd.addEdge(thenExit.ID, merge.ID, EdgeNormal, nil)
	}

	if elseBlock != nil {
		elseExit := bd.lowerStmt(n.Alternate, elseBlock)
		if elseExit != nil {
			bd.terminate(elseExit, FallthroughTerm{Next: merge.ID})
			bd.addEdge(elseExit.ID, merge.ID, EdgeNormal, nil)
		}
	}

	// If both arms terminate, merge stays unreached; it still exists so
	// any statements following the if have somewhere to attach.
	return merge
}

func (bd *Builder) lowerWhile(n *ast.WhileStatement, cur *Block, label string) *Block {
	header := bd.newBlock()
	bd.terminate(cur, FallthroughTerm{Next: header.ID})
	bd.addEdge(cur.ID, header.ID, EdgeNormal, nil)

	body := bd.newBlock()
	exit := bd.newBlock()

	bd.terminate(header, BranchTerm{Cond: Condition{Expr: n.Test}, Then: body.ID, Else: exit.ID})
	bd.addEdge(header.ID, body.ID, EdgeTrueBranch, &NarrowCond{Expr: n.Test, WhenTruthy: true})
	bd.addEdge(header.ID, exit.ID, EdgeFalseBranch, &NarrowCond{Expr: n.Test, WhenTruthy: false})

	bd.loops = append(bd.loops, loopScope{label: label, breakTarget: exit.ID, continueTarget: header.ID})
	bodyExit := bd.lowerStmt(n.Body, body)
	bd.loops = bd.loops[:len(bd.loops)-1]

	if bodyExit != nil {
		bd.terminate(bodyExit, FallthroughTerm{Next: header.ID})
		bd.addEdge(bodyExit.ID, header.ID, EdgeBackEdge, nil)
	}
	return exit
}

func (bd *Builder) lowerDoWhile(n *ast.DoWhileStatement, cur *Block, label string) *Block {
	body := bd.newBlock()
	bd.terminate(cur, FallthroughTerm{Next: body.ID})
	bd.addEdge(cur.ID, body.ID, EdgeNormal, nil)

	testBlock := bd.newBlock()
	exit := bd.newBlock()

	bd.loops = append(bd.loops, loopScope{label: label, breakTarget: exit.ID, continueTarget: testBlock.ID})
	bodyExit := bd.lowerStmt(n.Body, body)
	bd.loops = bd.loops[:len(bd.loops)-1]

	if bodyExit != nil {
		bd.terminate(bodyExit, FallthroughTerm{Next: testBlock.ID})
		bd.addEdge(bodyExit.ID, testBlock.ID, EdgeNormal, nil)
	}

	bd.terminate(testBlock, BranchTerm{Cond: Condition{Expr: n.Test}, Then: body.ID, Else: exit.ID})
	bd.addEdge(testBlock.ID, body.ID, EdgeBackEdge, &NarrowCond{Expr: n.Test, WhenTruthy: true})
	bd.addEdge(testBlock.ID, exit.ID, EdgeFalseBranch, &NarrowCond{Expr: n.Test, WhenTruthy: false})

	return exit
}

func (bd *Builder) lowerFor(n *ast.ForStatement, cur *Block, label string) *Block {
	preHeader := cur
	if n.Init != nil {
		after := bd.lowerStmt(n.Init, preHeader)
		if after == nil {
			// Init can't realistically terminate; keep building safely.
			after = bd.newBlock()
		}
		preHeader = after
	}

	header := bd.newBlock()
	bd.terminate(preHeader, FallthroughTerm{Next: header.ID})
	bd.addEdge(preHeader.ID, header.ID, EdgeNormal, nil)

	body := bd.newBlock()
	update := bd.newBlock()
	exit := bd.newBlock()

	if n.Test != nil {
		bd.terminate(header, BranchTerm{Cond: Condition{Expr: n.Test}, Then: body.ID, Else: exit.ID})
		bd.addEdge(header.ID, body.ID, EdgeTrueBranch, &NarrowCond{Expr: n.Test, WhenTruthy: true})
		bd.addEdge(header.ID, exit.ID, EdgeFalseBranch, &NarrowCond{Expr: n.Test, WhenTruthy: false})
	} else {
		bd.terminate(header, FallthroughTerm{Next: body.ID})
		bd.addEdge(header.ID, body.ID, EdgeNormal, nil)
	}

	bd.loops = append(bd.loops, loopScope{label: label, breakTarget: exit.ID, continueTarget: update.ID})
	bodyExit := bd.lowerStmt(n.Body, body)
	bd.loops = bd.loops[:len(bd.loops)-1]

	if bodyExit != nil {
		bd.terminate(bodyExit, FallthroughTerm{Next: update.ID})
		bd.addEdge(bodyExit.ID, update.ID, EdgeNormal, nil)
	}

	if n.Update != nil {
		update.Statements = append(update.Statements, &ast.ExpressionStatement{Expression: n.Update, Range: n.Update.GetRange()})
	}
	bd.terminate(update, FallthroughTerm{Next: header.ID})
	bd.addEdge(update.ID, header.ID, EdgeBackEdge, nil)

	return exit
}

// lowerForInOf lowers for-in/for-of. The loop header's condition wraps
// the iterable expression with HasNext set, marking it as a
// has-more-elements test rather than an ordinary truthiness test. The
// body edge narrows on the iterable's truthiness; the exit edge carries
// no narrowing, since running out of elements says nothing about the
// iterable's truthiness.
func (bd *Builder) lowerForInOf(n *ast.ForInOfStatement, cur *Block, label string) *Block {
	header := bd.newBlock()
	bd.terminate(cur, FallthroughTerm{Next: header.ID})
	bd.addEdge(cur.ID, header.ID, EdgeNormal, nil)

	body := bd.newBlock()
	exit := bd.newBlock()

	hasNext := Condition{Expr: n.Iterable, HasNext: true}
	bd.terminate(header, BranchTerm{Cond: hasNext, Then: body.ID, Else: exit.ID})
	bd.addEdge(header.ID, body.ID, EdgeTrueBranch, &NarrowCond{Expr: n.Iterable, WhenTruthy: true})
	bd.addEdge(header.ID, exit.ID, EdgeFalseBranch, nil)

	// The loop-variable assignment lives at the body head.
	bindTok := n.Tok
	loopBind := &ast.VariableDeclaration{
		Tok:   bindTok,
		Range: n.Range,
		Kind:  n.Kind,
		Declarators: []ast.VariableDeclarator{
			{Target: n.Target, Init: &ast.Identifier{Tok: bindTok, Range: n.Range, Name: forInOfElementName}},
		},
	}
	body.Statements = append(body.Statements, loopBind)

	bd.loops = append(bd.loops, loopScope{label: label, breakTarget: exit.ID, continueTarget: header.ID})
	bodyExit := bd.lowerStmt(n.Body, body)
	bd.loops = bd.loops[:len(bd.loops)-1]

	if bodyExit != nil {
		bd.terminate(bodyExit, FallthroughTerm{Next: header.ID})
		bd.addEdge(bodyExit.ID, header.ID, EdgeBackEdge, nil)
	}
	return exit
}

// forInOfElementName is a synthetic identifier, not a real source
// binding, that the transfer function (internal/state) recognizes.
// Nothing declares it, so the loop variable is typed any; the
// element/key type of the iterable is not computed.
const forInOfElementName = "$forInOfElement"

func (bd *Builder) lowerSwitch(n *ast.SwitchStatement, cur *Block, label string) *Block {
	exit := bd.newBlock()

	caseBlocks := make([]*Block, len(n.Cases))
	for i := range n.Cases {
		caseBlocks[i] = bd.newBlock()
	}

	var edges []SwitchEdge
	defaultTarget := exit.ID
	for i, c := range n.Cases {
		if c.Test == nil {
			defaultTarget = caseBlocks[i].ID
			continue
		}
		edges = append(edges, SwitchEdge{Test: c.Test, Target: caseBlocks[i].ID})
	}
	bd.terminate(cur, SwitchTerm{Discriminant: n.Discriminant, Cases: edges, Default: defaultTarget})
	for _, e := range edges {
		bd.addEdge(cur.ID, e.Target, EdgeNormal, &NarrowCond{Expr: e.Test, WhenTruthy: true})
	}
	if defaultTarget != exit.ID || len(n.Cases) == 0 {
		bd.addEdge(cur.ID, defaultTarget, EdgeNormal, nil)
	} else {
		bd.addEdge(cur.ID, exit.ID, EdgeNormal, nil)
	}

	bd.loops = append(bd.loops, loopScope{label: label, breakTarget: exit.ID, isSwitch: true})
	for i, c := range n.Cases {
		caseExit := bd.lowerStmts(c.Consequent, caseBlocks[i])
		if caseExit == nil {
			continue
		}
		// C-style fallthrough: an un-terminated case body falls into
		// the next case block, or the switch exit if it's the last one.
		var next BlockID
		if i+1 < len(n.Cases) {
			next = caseBlocks[i+1].ID
		} else {
			next = exit.ID
		}
		bd.terminate(caseExit, FallthroughTerm{Next: next})
		bd.addEdge(caseExit.ID, next, EdgeNormal, nil)
	}
	bd.loops = bd.loops[:len(bd.loops)-1]

	return exit
}

func (bd *Builder) lowerTry(n *ast.TryStatement, cur *Block) *Block {
	tryBlock := bd.newBlock()
	continuation := bd.newBlock()

	var catchBlockID, finallyBlockID *BlockID
	var catchEntry, finallyEntry *Block

	if n.CatchBody != nil {
		catchEntry = bd.newBlock()
		id := catchEntry.ID
		catchBlockID = &id
	}
	if n.FinallyBody != nil {
		finallyEntry = bd.newBlock()
		id := finallyEntry.ID
		finallyBlockID = &id
	}

	bd.terminate(cur, TryTerm{
		TryBlock:         tryBlock.ID,
		CatchBlock:       catchBlockID,
		FinallyBlock:     finallyBlockID,
		Continuation:     continuation.ID,
		CatchBindingName: catchBindingName(n.CatchParam),
	})
	bd.addEdge(cur.ID, tryBlock.ID, EdgeNormal, nil)
	if catchBlockID != nil {
		bd.addEdge(cur.ID, *catchBlockID, EdgeException, nil)
	}

	bd.handlers = append(bd.handlers, handlerFrame{catchBlock: catchBlockID, finallyBlock: finallyBlockID})
	tryExit := bd.lowerStmt(n.Block, tryBlock)
	bd.handlers = bd.handlers[:len(bd.handlers)-1]

	landingPad := continuation.ID
	if finallyBlockID != nil {
		landingPad = *finallyBlockID
	}

	if tryExit != nil {
		bd.terminate(tryExit, FallthroughTerm{Next: landingPad})
		bd.addEdge(tryExit.ID, landingPad, EdgeNormal, nil)
	}

	if catchEntry != nil {
		catchExit := bd.lowerStmt(n.CatchBody, catchEntry)
		if catchExit != nil {
			bd.terminate(catchExit, FallthroughTerm{Next: landingPad})
			bd.addEdge(catchExit.ID, landingPad, EdgeNormal, nil)
		}
	}

	if finallyEntry != nil {
		finallyExit := bd.lowerStmt(n.FinallyBody, finallyEntry)
		if finallyExit != nil {
			bd.terminate(finallyExit, FallthroughTerm{Next: continuation.ID})
			bd.addEdge(finallyExit.ID, continuation.ID, EdgeFinally, nil)
		}
	}

	return continuation
}

func catchBindingName(p ast.Pattern) string {
	if id, ok := p.(*ast.IdentifierPattern); ok {
		return id.Name
	}
	return ""
}

func (bd *Builder) lowerThrow(n *ast.ThrowStatement, cur *Block) *Block {
	var handler *BlockID
	for i := len(bd.handlers) - 1; i >= 0; i-- {
		if bd.handlers[i].catchBlock != nil {
			handler = bd.handlers[i].catchBlock
			break
		}
	}
	bd.terminate(cur, ThrowTerm{Argument: n.Argument, Handler: handler})
	if handler != nil {
		bd.addEdge(cur.ID, *handler, EdgeException, nil)
	}
	return nil
}

func (bd *Builder) lowerBreak(n *ast.BreakStatement, cur *Block) *Block {
	scope, ok := bd.findLoopOrSwitch(n.Label, true)
	if !ok {
		bd.terminate(cur, UnresolvedJumpTerm{Kind: JumpBreak, Label: n.Label})
		return nil
	}
	bd.terminate(cur, JumpTerm{Target: scope.breakTarget, Kind: JumpBreak, Label: n.Label})
	bd.addEdge(cur.ID, scope.breakTarget, EdgeBreak, nil)
	return nil
}

func (bd *Builder) lowerContinue(n *ast.ContinueStatement, cur *Block) *Block {
	scope, ok := bd.findLoopOrSwitch(n.Label, false)
	if !ok {
		bd.terminate(cur, UnresolvedJumpTerm{Kind: JumpContinue, Label: n.Label})
		return nil
	}
	bd.terminate(cur, JumpTerm{Target: scope.continueTarget, Kind: JumpContinue, Label: n.Label})
	bd.addEdge(cur.ID, scope.continueTarget, EdgeContinue, nil)
	return nil
}

// findLoopOrSwitch resolves a (possibly labeled) break/continue to the
// nearest matching scope. allowSwitch is true only for break, which
// may target an unlabeled switch; continue always skips switch scopes.
func (bd *Builder) findLoopOrSwitch(label string, allowSwitch bool) (loopScope, bool) {
	for i := len(bd.loops) - 1; i >= 0; i-- {
		s := bd.loops[i]
		if label != "" {
			if s.label == label {
				return s, true
			}
			continue
		}
		if s.isSwitch && !allowSwitch {
			continue
		}
		return s, true
	}
	return loopScope{}, false
}

func (bd *Builder) lowerLabeled(n *ast.LabeledStatement, cur *Block) *Block {
	switch body := n.Body.(type) {
	case *ast.WhileStatement:
		return bd.lowerWhile(body, cur, n.Label)
	case *ast.DoWhileStatement:
		return bd.lowerDoWhile(body, cur, n.Label)
	case *ast.ForStatement:
		return bd.lowerFor(body, cur, n.Label)
	case *ast.ForInOfStatement:
		return bd.lowerForInOf(body, cur, n.Label)
	case *ast.SwitchStatement:
		return bd.lowerSwitch(body, cur, n.Label)
	default:
		// A label on a non-loop statement only gives `break label;`
		// something to target; push a break-only scope around it.
		exit := bd.newBlock()
		bd.loops = append(bd.loops, loopScope{label: n.Label, breakTarget: exit.ID, isSwitch: true})
		bodyExit := bd.lowerStmt(n.Body, cur)
		bd.loops = bd.loops[:len(bd.loops)-1]
		if bodyExit != nil {
			bd.terminate(bodyExit, FallthroughTerm{Next: exit.ID})
			bd.addEdge(bodyExit.ID, exit.ID, EdgeNormal, nil)
		}
		return exit
	}
}
