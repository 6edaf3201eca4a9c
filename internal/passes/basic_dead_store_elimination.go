package passes

import "nodegraph/internal/ir"

// BasicDeadStoreElimination removes a Set that is provably overwritten by
// a later Set to the same ref within the same block before anything reads
// the ref in between. It is block-local only: it never reasons about
// whether a later block might read the ref, so it never removes a store
// that could be live across an edge — the cross-block case is left for
// BasicDeadCodeElimination's global used-anywhere check, which is
// conservative in the other direction (keeps more than strictly necessary,
// never removes something still live).
type BasicDeadStoreElimination struct{}

func (*BasicDeadStoreElimination) Name() string { return "basic-dse" }
func (*BasicDeadStoreElimination) Requires() []string {
	return []string{"ccp", "coalesce-flow", "basic-dce"}
}

func (p *BasicDeadStoreElimination) Apply(c *ir.Cfg) (bool, error) {
	changed := false
	ir.TraverseCfg(c, func(n *ir.CfgNode) {
		dead := map[int]bool{}
		pending := map[string]int{}
		for i, node := range n.Body {
			markReads(node, pending)
			if set, ok := node.(*ir.Set); ok {
				key := set.Ref.String()
				if prev, ok := pending[key]; ok {
					dead[prev] = true
				}
				pending[key] = i
			}
		}
		if len(dead) == 0 {
			return
		}
		kept := n.Body[:0]
		for i, node := range n.Body {
			if dead[i] {
				changed = true
				continue
			}
			kept = append(kept, node)
		}
		n.Body = kept
	})
	return changed, nil
}

// markReads clears any pending dead-store candidacy for refs this node
// reads, including reads nested inside a Set's own value expression (a
// Set's value is evaluated, and so read, before its target is written).
func markReads(n ir.Node, pending map[string]int) {
	switch v := n.(type) {
	case *ir.Get:
		delete(pending, v.Ref.String())
	case *ir.Func:
		for _, a := range v.Args {
			markReads(a, pending)
		}
	case *ir.Set:
		markReads(v.Value, pending)
	}
}
