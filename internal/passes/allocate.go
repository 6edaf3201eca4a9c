package passes

import (
	"sort"

	"nodegraph/internal/blocks"
	"nodegraph/internal/ir"
)

// baseIndex is the highest offset Allocate will ever hand out in
// TemporaryMemory; slots are packed downward from it so that programs
// using few temporaries stay clustered near the top of the block instead
// of spreading across its full declared size.
const baseIndex = 4095

// Allocate is the final pass: every remaining SSARef (including the
// per-word SSARefs AggregateToScalar splits aggregates into) is assigned a
// TempRef in blocks.TemporaryMemory. An AggregateRef AggregateToScalar
// left alone is not assigned a slot. Two SSARefs that are never
// simultaneously live share the same offset; this is a standard
// liveness-then-greedy-color register allocator, the "packing" this
// backend needs in place of a general-purpose register allocator.
type Allocate struct{}

func (*Allocate) Name() string { return "allocate" }
func (*Allocate) Requires() []string {
	return []string{"ccp", "coalesce-flow", "arithmetic-simplification", "aggregate-to-scalar", "basic-dce", "basic-dse"}
}

func (p *Allocate) Apply(c *ir.Cfg) (bool, error) {
	ids := ir.TraversePreorder(c)
	if len(ids) == 0 {
		return false, nil
	}

	liveOut, liveIn := computeLiveness(c, ids)
	interferes := buildInterference(c, ids, liveOut)

	order := make([]int, 0, len(interferes))
	for ref := range interferes {
		order = append(order, ref)
	}
	sort.Ints(order)

	colors := map[int]int{}
	for _, ref := range order {
		used := map[int]bool{}
		for other := range interferes[ref] {
			if color, ok := colors[other]; ok {
				used[color] = true
			}
		}
		color := 0
		for used[color] {
			color++
		}
		colors[ref] = color
	}

	slotFor := func(id int) *ir.TempRef {
		return &ir.TempRef{Block: blocks.TemporaryMemory, Offset: baseIndex - colors[id]}
	}

	changed := false
	t := &ssaRewriter{slotFor: slotFor}
	for _, id := range ids {
		n := c.Nodes[id]
		for i, node := range n.Body {
			rewritten := ir.Transform(t, node)
			if rewritten != node {
				changed = true
			}
			n.Body[i] = rewriteRefNode(rewritten, slotFor)
		}
		if n.Branch != nil {
			n.Branch = ir.Transform(t, n.Branch)
		}
	}
	_ = liveIn
	return changed, nil
}

// rewriteRefNode additionally rewrites a top-level Set's own target ref,
// which ir.Transform passes through unchanged (it only recurses into
// Value), because the ref a Set writes to is not itself a child Node.
func rewriteRefNode(n ir.Node, slotFor func(int) *ir.TempRef) ir.Node {
	set, ok := n.(*ir.Set)
	if !ok {
		return n
	}
	if ssa, ok := set.Ref.(*ir.SSARef); ok {
		return &ir.Set{Ref: slotFor(ssa.ID), Value: set.Value}
	}
	return n
}

type ssaRewriter struct {
	ir.IdentityTransformer
	slotFor func(int) *ir.TempRef
}

func (r *ssaRewriter) TransformGet(g *ir.Get) ir.Node {
	if ssa, ok := g.Ref.(*ir.SSARef); ok {
		return &ir.Get{Ref: r.slotFor(ssa.ID)}
	}
	return g
}

// computeLiveness runs backward dataflow to a fixed point over the SSARef
// ids read/written in the graph, returning per-node live-in and live-out
// sets keyed by SSARef id.
func computeLiveness(c *ir.Cfg, ids []int) (liveOut, liveIn map[int]map[int]bool) {
	liveOut = map[int]map[int]bool{}
	liveIn = map[int]map[int]bool{}
	for _, id := range ids {
		liveOut[id] = map[int]bool{}
		liveIn[id] = map[int]bool{}
	}

	for iter := 0; iter < len(ids)+2; iter++ {
		stable := true
		for i := len(ids) - 1; i >= 0; i-- {
			id := ids[i]
			out := map[int]bool{}
			for _, e := range c.EdgesFrom(id) {
				for ref := range liveIn[e.To] {
					out[ref] = true
				}
			}
			in := simulateLiveIn(c.Nodes[id], out)
			if !intSetEqual(out, liveOut[id]) || !intSetEqual(in, liveIn[id]) {
				stable = false
			}
			liveOut[id] = out
			liveIn[id] = in
		}
		if stable {
			break
		}
	}
	return liveOut, liveIn
}

func simulateLiveIn(n *ir.CfgNode, out map[int]bool) map[int]bool {
	live := map[int]bool{}
	for k := range out {
		live[k] = true
	}
	if n.Branch != nil {
		markSSAUses(n.Branch, live)
	}
	for i := len(n.Body) - 1; i >= 0; i-- {
		applyLiveness(n.Body[i], live)
	}
	return live
}

func applyLiveness(n ir.Node, live map[int]bool) {
	if set, ok := n.(*ir.Set); ok {
		if ssa, ok := set.Ref.(*ir.SSARef); ok {
			delete(live, ssa.ID)
		}
		markSSAUses(set.Value, live)
		return
	}
	markSSAUses(n, live)
}

func markSSAUses(n ir.Node, live map[int]bool) {
	switch v := n.(type) {
	case *ir.Get:
		if ssa, ok := v.Ref.(*ir.SSARef); ok {
			live[ssa.ID] = true
		}
	case *ir.Func:
		for _, a := range v.Args {
			markSSAUses(a, live)
		}
	case *ir.Set:
		markSSAUses(v.Value, live)
	}
}

func intSetEqual(a, b map[int]bool) bool {
	if len(a) != len(b) {
		return false
	}
	for k := range a {
		if !b[k] {
			return false
		}
	}
	return true
}

// buildInterference walks each node's body backward once more (now that
// liveOut is final), recording that every pair of refs simultaneously live
// at any instruction boundary interferes and so cannot share a color.
func buildInterference(c *ir.Cfg, ids []int, liveOut map[int]map[int]bool) map[int]map[int]bool {
	graph := map[int]map[int]bool{}
	addEdge := func(a, b int) {
		if a == b {
			return
		}
		if graph[a] == nil {
			graph[a] = map[int]bool{}
		}
		if graph[b] == nil {
			graph[b] = map[int]bool{}
		}
		graph[a][b] = true
		graph[b][a] = true
	}
	ensure := func(id int) {
		if graph[id] == nil {
			graph[id] = map[int]bool{}
		}
	}

	for _, id := range ids {
		n := c.Nodes[id]
		live := map[int]bool{}
		for k := range liveOut[id] {
			live[k] = true
			ensure(k)
		}
		if n.Branch != nil {
			markSSAUses(n.Branch, live)
		}
		for i := len(n.Body) - 1; i >= 0; i-- {
			if set, ok := n.Body[i].(*ir.Set); ok {
				if ssa, ok := set.Ref.(*ir.SSARef); ok {
					ensure(ssa.ID)
					for other := range live {
						addEdge(ssa.ID, other)
					}
					delete(live, ssa.ID)
				}
				markSSAUses(set.Value, live)
			} else {
				markSSAUses(n.Body[i], live)
			}
			for k := range live {
				ensure(k)
			}
		}
	}
	return graph
}
