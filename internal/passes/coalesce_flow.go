package passes

import "nodegraph/internal/ir"

// CoalesceFlow merges a node into its successor whenever the edge between
// them is the only edge on both ends: the node has exactly one outgoing
// edge and no branch, and that successor has exactly one incoming edge.
// This removes the empty pass-through blocks control-flow lowering tends
// to produce (an if/while's merge block jumping straight to another merge
// block, a loop header with a trivially-true guard) without touching any
// block that genuinely merges or splits control flow.
type CoalesceFlow struct{}

func (*CoalesceFlow) Name() string       { return "coalesce-flow" }
func (*CoalesceFlow) Requires() []string { return []string{"ccp"} }

func (p *CoalesceFlow) Apply(c *ir.Cfg) (bool, error) {
	changed := false
	for {
		merged := false
		for _, id := range ir.TraversePreorder(c) {
			n, ok := c.Nodes[id]
			if !ok {
				continue
			}
			out := c.EdgesFrom(id)
			if len(out) != 1 || n.Branch != nil || out[0].Cond != nil {
				continue
			}
			succID := out[0].To
			if succID == id {
				continue
			}
			succ := c.Nodes[succID]
			if succ == nil {
				continue
			}
			if len(c.EdgesTo(succID)) != 1 {
				continue
			}
			if c.Entry == succID {
				// Never fold the entry node away; leave this edge as
				// it is so Entry stays valid.
				continue
			}
			n.Body = append(n.Body, succ.Body...)
			n.Branch = succ.Branch
			for _, phi := range succ.Phis {
				rewritePhiSource(phi, succID, id)
				n.Phis = append(n.Phis, phi)
			}
			c.RemoveEdge(out[0])
			for _, e := range c.EdgesFrom(succID) {
				c.AddEdge(&ir.CfgEdge{From: id, To: e.To, Cond: e.Cond})
			}
			c.ClearFromEdges(succID)
			delete(c.Nodes, succID)
			merged = true
			changed = true
			break
		}
		if !merged {
			break
		}
	}
	return changed, nil
}

func rewritePhiSource(phi *ir.Phi, oldID, newID int) {
	if v, ok := phi.Sources[oldID]; ok {
		delete(phi.Sources, oldID)
		phi.Sources[newID] = v
	}
}
