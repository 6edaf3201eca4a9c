package passes

import (
	"nodegraph/internal/blocks"
	"nodegraph/internal/ir"
)

// BasicDeadCodeElimination removes CfgNodes unreachable from the entry, and
// within each surviving node, removes body instructions whose result is
// never read and which have no observable effect. A Set is dropped only
// when nothing anywhere in the Cfg reads its target ref and its value
// expression calls no effectful builtin (blocks.IsEffectful); a bare
// expression statement (no enclosing Set) is dropped on the same
// effectful-or-keep rule. This is deliberately conservative: it never
// reasons about *which* path to a read is live (that would need the
// per-edge reachability CCP's branch folding could provide), only whether
// any read of the ref exists anywhere in the whole graph.
type BasicDeadCodeElimination struct{}

func (*BasicDeadCodeElimination) Name() string { return "basic-dce" }
func (*BasicDeadCodeElimination) Requires() []string {
	return []string{"ccp", "coalesce-flow", "arithmetic-simplification", "aggregate-to-scalar"}
}

func (p *BasicDeadCodeElimination) Apply(c *ir.Cfg) (bool, error) {
	changed := false
	if removed := c.RemoveDeadNodes(); len(removed) > 0 {
		changed = true
	}

	used := map[string]bool{}
	markUsedRefs(c, used)

	ir.TraverseCfg(c, func(n *ir.CfgNode) {
		kept := n.Body[:0]
		for _, node := range n.Body {
			if keepInstruction(node, used) {
				kept = append(kept, node)
			} else {
				changed = true
			}
		}
		n.Body = kept
	})
	return changed, nil
}

func markUsedRefs(c *ir.Cfg, used map[string]bool) {
	var walk func(n ir.Node)
	walk = func(n ir.Node) {
		switch v := n.(type) {
		case *ir.Get:
			used[v.Ref.String()] = true
		case *ir.Func:
			for _, a := range v.Args {
				walk(a)
			}
		case *ir.Set:
			walk(v.Value)
		}
	}
	ir.TraverseCfg(c, func(n *ir.CfgNode) {
		for _, node := range n.Body {
			walk(node)
		}
		if n.Branch != nil {
			walk(n.Branch)
		}
		for _, phi := range n.Phis {
			for _, src := range phi.Sources {
				walk(src)
			}
		}
	})
}

func keepInstruction(n ir.Node, used map[string]bool) bool {
	switch v := n.(type) {
	case *ir.Set:
		return used[v.Ref.String()] || hasEffect(v.Value)
	case *ir.Comment:
		return true
	default:
		return hasEffect(n)
	}
}

func hasEffect(n ir.Node) bool {
	switch v := n.(type) {
	case *ir.Func:
		if blocks.IsEffectful(v.Name) {
			return true
		}
		for _, a := range v.Args {
			if hasEffect(a) {
				return true
			}
		}
		return false
	case *ir.Set:
		return hasEffect(v.Value)
	default:
		return false
	}
}
