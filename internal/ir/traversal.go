package ir

// TraverseCfg visits every node reachable from the entry exactly once, in
// no particular order, calling visit for each. Use this when a pass only
// needs to touch every live node (e.g. to collect a set of used refs) and
// does not care about order.
func TraverseCfg(c *Cfg, visit func(*CfgNode)) {
	seen := map[int]bool{}
	var walk func(id int)
	walk = func(id int) {
		if seen[id] {
			return
		}
		seen[id] = true
		n, ok := c.Nodes[id]
		if !ok {
			return
		}
		visit(n)
		for _, e := range c.edgesFrom[id] {
			walk(e.To)
		}
	}
	walk(c.Entry)
}

// TraversePreorder returns every reachable node id in preorder: a node is
// listed before any node only reachable through it, ties broken by the
// canonical edge Order (real conditions ascending, then the nil edge) so
// the result is deterministic across runs on an identical graph. This is
// the order GetFlatCfg uses to number blocks.
func TraversePreorder(c *Cfg) []int {
	seen := map[int]bool{}
	var order []int
	var walk func(id int)
	walk = func(id int) {
		if seen[id] {
			return
		}
		seen[id] = true
		order = append(order, id)
		for _, e := range c.EdgesFrom(id) {
			walk(e.To)
		}
	}
	if _, ok := c.Nodes[c.Entry]; ok {
		walk(c.Entry)
	}
	return order
}

// TraversePostorder returns every reachable node id in postorder: a node is
// listed only after every node it reaches (other than through a back edge)
// has been listed. Dominance and liveness-style backward analyses iterate
// in reverse postorder for fast convergence; this is that building block.
func TraversePostorder(c *Cfg) []int {
	seen := map[int]bool{}
	var order []int
	var walk func(id int)
	walk = func(id int) {
		if seen[id] {
			return
		}
		seen[id] = true
		for _, e := range c.EdgesFrom(id) {
			walk(e.To)
		}
		order = append(order, id)
	}
	if _, ok := c.Nodes[c.Entry]; ok {
		walk(c.Entry)
	}
	return order
}
