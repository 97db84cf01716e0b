package cfg

import "golang.org/x/tools/container/intsets"

// Graph is the complete control-flow graph for one function body (or
// the top-level program).
type Graph struct {
	Blocks map[BlockID]*Block
	Entry  BlockID
	Edges  []Edge

	order int // next BlockID to allocate; arena-local, not a package global

	preds map[BlockID][]BlockID
	succs map[BlockID][]BlockID

	rpo       []BlockID
	rpoComputed bool

	dominators     map[BlockID]*intsets.Sparse
	postDominators map[BlockID]*intsets.Sparse
	backEdges      map[[2]BlockID]bool
}

func newGraph() *Graph {
	return &Graph{
		Blocks: make(map[BlockID]*Block),
		preds:  make(map[BlockID][]BlockID),
		succs:  make(map[BlockID][]BlockID),
	}
}

func (g *Graph) newBlockID() BlockID {
	id := BlockID(g.order)
	g.order++
	return id
}

func (g *Graph) addBlock(b *Block) {
	g.Blocks[b.ID] = b
}

// Finalize computes adjacency, reverse post-order, dominators,
// post-dominators, and the back-edge set from g.Edges. Call once after
// the builder has written every block's terminator.
func (g *Graph) Finalize() {
	g.preds = make(map[BlockID][]BlockID)
	g.succs = make(map[BlockID][]BlockID)
	for _, e := range g.Edges {
		g.succs[e.From] = append(g.succs[e.From], e.To)
		g.preds[e.To] = append(g.preds[e.To], e.From)
	}
	g.computeRPO()
	g.computeDominators()
	g.computePostDominators()
	g.computeBackEdges()
}

// Preds / Succs expose adjacency for callers (solver, debug dump).
func (g *Graph) Preds(b BlockID) []BlockID { return g.preds[b] }
func (g *Graph) Succs(b BlockID) []BlockID { return g.succs[b] }

// ReversePostOrder returns the cached RPO sequence ("compute
// it once per pass into a vector").
func (g *Graph) ReversePostOrder() []BlockID {
	return g.rpo
}

func (g *Graph) computeRPO() {
	visited := make(map[BlockID]bool)
	var post []BlockID
	var visit func(BlockID)
	visit = func(b BlockID) {
		if visited[b] {
			return
		}
		visited[b] = true
		for _, s := range g.succs[b] {
			visit(s)
		}
		post = append(post, b)
	}
	visit(g.Entry)
	reachable := len(post)
	// Any block unreachable from Entry (dead code after a terminator)
	// is still scheduled, after the reachable ones, so the solver can
	// mark it bottom without special-casing it.
	for id := range g.Blocks {
		visit(id)
	}
	rpo := make([]BlockID, 0, len(post))
	for i := reachable - 1; i >= 0; i-- {
		rpo = append(rpo, post[i])
	}
	for i := len(post) - 1; i >= reachable; i-- {
		rpo = append(rpo, post[i])
	}
	g.rpo = rpo
	g.rpoComputed = true
}

// Dominates reports whether a dominates b ("iteratively
// intersect predecessors' dominator sets until fixpoint").
func (g *Graph) Dominates(a, b BlockID) bool {
	set, ok := g.dominators[b]
	if !ok {
		return a == b
	}
	return set.Has(int(a))
}

func (g *Graph) computeDominators() {
	g.dominators = make(map[BlockID]*intsets.Sparse)
	all := &intsets.Sparse{}
	for id := range g.Blocks {
		all.Insert(int(id))
	}
	for id := range g.Blocks {
		set := &intsets.Sparse{}
		if id == g.Entry {
			set.Insert(int(id))
		} else {
			set.Copy(all)
		}
		g.dominators[id] = set
	}
	changed := true
	for changed {
		changed = false
		for _, id := range g.rpo {
			if id == g.Entry {
				continue
			}
			preds := g.preds[id]
			if len(preds) == 0 {
				continue
			}
			var newSet intsets.Sparse
			newSet.Copy(g.dominators[preds[0]])
			for _, p := range preds[1:] {
				newSet.IntersectionWith(g.dominators[p])
			}
			newSet.Insert(int(id))
			if !newSet.Equals(g.dominators[id]) {
				g.dominators[id] = &newSet
				changed = true
			}
		}
	}
}

// PostDominates reports whether a post-dominates b.
func (g *Graph) PostDominates(a, b BlockID) bool {
	set, ok := g.postDominators[b]
	if !ok {
		return a == b
	}
	return set.Has(int(a))
}

func (g *Graph) computePostDominators() {
	g.postDominators = make(map[BlockID]*intsets.Sparse)
	all := &intsets.Sparse{}
	for id := range g.Blocks {
		all.Insert(int(id))
	}
	exits := g.exitBlocks()
	isExit := make(map[BlockID]bool, len(exits))
	for _, e := range exits {
		isExit[e] = true
	}
	for id := range g.Blocks {
		set := &intsets.Sparse{}
		if isExit[id] {
			set.Insert(int(id))
		} else {
			set.Copy(all)
		}
		g.postDominators[id] = set
	}
	order := g.rpo
	changed := true
	for changed {
		changed = false
		for i := len(order) - 1; i >= 0; i-- {
			id := order[i]
			if isExit[id] {
				continue
			}
			succs := g.succs[id]
			if len(succs) == 0 {
				continue
			}
			var newSet intsets.Sparse
			newSet.Copy(g.postDominators[succs[0]])
			for _, s := range succs[1:] {
				newSet.IntersectionWith(g.postDominators[s])
			}
			newSet.Insert(int(id))
			if !newSet.Equals(g.postDominators[id]) {
				g.postDominators[id] = &newSet
				changed = true
			}
		}
	}
}

func (g *Graph) exitBlocks() []BlockID {
	var out []BlockID
	for id := range g.Blocks {
		if len(g.succs[id]) == 0 {
			out = append(out, id)
		}
	}
	return out
}

// IsBackEdge reports whether from->to is a back edge: from->to is a
// back edge exactly when to dominates from.
func (g *Graph) IsBackEdge(from, to BlockID) bool {
	return g.backEdges[[2]BlockID{from, to}]
}

func (g *Graph) computeBackEdges() {
	g.backEdges = make(map[[2]BlockID]bool)
	for _, e := range g.Edges {
		if g.Dominates(e.To, e.From) {
			g.backEdges[[2]BlockID{e.From, e.To}] = true
		}
	}
}
