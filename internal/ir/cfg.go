package ir

import "sort"

// Phi merges the value of Ref across a node's predecessors. Sources maps a
// predecessor node's ID to the Node providing Ref's value on that edge; a
// predecessor with no entry means the node never wrote Ref on that path,
// which is the condition compileerr.UnresolvedPhi reports.
type Phi struct {
	Ref     Ref
	Sources map[int]Node
}

// CfgNode is one basic block: a straight-line sequence of Nodes evaluated
// in order, any number of Phis resolved on entry, and the edges leaving it
// recorded separately in the owning Cfg (edges are not stored on the node
// itself, so that ReplaceNode and RemoveDeadNodes can rewire them without
// walking node bodies).
type CfgNode struct {
	ID   int
	Phis []*Phi
	Body []Node
	// Branch is the value, evaluated after Body runs, that selects which
	// outgoing edge is taken: the edge whose Cond equals Branch's value,
	// or the nil-Cond edge if none matches. nil when the node has at
	// most one outgoing edge (no branch to evaluate).
	Branch Node
}

// CfgEdge is a directed edge between two CfgNodes. Cond nil means this is
// the unconditional or "else" edge out of From; a non-nil Cond is compared
// against the node's branch value to pick the taken edge, the same
// default-sorts-last convention Order relies on for preorder determinism.
type CfgEdge struct {
	From, To int
	Cond     *float64
}

// Order imposes the canonical ordering used when iterating a node's
// outgoing edges: real conditions first in ascending numeric order, the nil
// ("otherwise") edge last. This makes preorder traversal deterministic and
// keeps the default branch of a flattened switch in the conventional
// last position.
func Order(edges []*CfgEdge) {
	sort.SliceStable(edges, func(i, j int) bool {
		a, b := edges[i].Cond, edges[j].Cond
		if a == nil {
			return false
		}
		if b == nil {
			return true
		}
		return *a < *b
	})
}

// Cfg is a control-flow graph of CfgNodes. Entry is the id of the unique
// entry node. Edges are indexed both ways so that RemoveNode/ReplaceNode
// and the traversal helpers never need a linear scan.
type Cfg struct {
	Entry      int
	Nodes      map[int]*CfgNode
	edgesFrom  map[int][]*CfgEdge
	edgesTo    map[int][]*CfgEdge
	nextNodeID int
}

func NewCfg() *Cfg {
	return &Cfg{
		Nodes:     map[int]*CfgNode{},
		edgesFrom: map[int][]*CfgEdge{},
		edgesTo:   map[int][]*CfgEdge{},
	}
}

// NewNode allocates a fresh CfgNode, registers it, and returns it.
func (c *Cfg) NewNode() *CfgNode {
	n := &CfgNode{ID: c.nextNodeID}
	c.nextNodeID++
	c.Nodes[n.ID] = n
	return n
}

// AddEdge records a directed edge between two already-added nodes.
func (c *Cfg) AddEdge(e *CfgEdge) {
	c.edgesFrom[e.From] = append(c.edgesFrom[e.From], e)
	c.edgesTo[e.To] = append(c.edgesTo[e.To], e)
}

// EdgesFrom returns the outgoing edges of a node in canonical Order.
func (c *Cfg) EdgesFrom(id int) []*CfgEdge {
	edges := append([]*CfgEdge(nil), c.edgesFrom[id]...)
	Order(edges)
	return edges
}

// EdgesTo returns the incoming edges of a node, in no particular order.
func (c *Cfg) EdgesTo(id int) []*CfgEdge {
	return c.edgesTo[id]
}

// RemoveEdge deletes a single edge from the graph.
func (c *Cfg) RemoveEdge(e *CfgEdge) {
	c.edgesFrom[e.From] = removeEdge(c.edgesFrom[e.From], e)
	c.edgesTo[e.To] = removeEdge(c.edgesTo[e.To], e)
}

func removeEdge(edges []*CfgEdge, target *CfgEdge) []*CfgEdge {
	out := edges[:0]
	for _, e := range edges {
		if e != target {
			out = append(out, e)
		}
	}
	return out
}

// ClearFromEdges removes every outgoing edge of a node.
func (c *Cfg) ClearFromEdges(id int) {
	for _, e := range c.edgesFrom[id] {
		c.edgesTo[e.To] = removeEdge(c.edgesTo[e.To], e)
	}
	delete(c.edgesFrom, id)
}

// ClearToEdges removes every incoming edge of a node.
func (c *Cfg) ClearToEdges(id int) {
	for _, e := range c.edgesTo[id] {
		c.edgesFrom[e.From] = removeEdge(c.edgesFrom[e.From], e)
	}
	delete(c.edgesTo, id)
}

// RemoveNode deletes a node and every edge touching it.
func (c *Cfg) RemoveNode(id int) {
	c.ClearFromEdges(id)
	c.ClearToEdges(id)
	delete(c.Nodes, id)
}

// ReplaceNode rewires every edge that pointed at old to point at
// replacement instead, preserves old's incoming edges' From-side identity
// (so any Phi.Sources keyed by a predecessor id referencing old still
// resolves correctly against the surviving graph), and removes old.
func (c *Cfg) ReplaceNode(old, replacement int) {
	if old == replacement {
		return
	}
	for _, e := range append([]*CfgEdge(nil), c.edgesTo[old]...) {
		c.RemoveEdge(e)
		c.AddEdge(&CfgEdge{From: e.From, To: replacement, Cond: e.Cond})
	}
	for _, e := range append([]*CfgEdge(nil), c.edgesFrom[old]...) {
		c.RemoveEdge(e)
		c.AddEdge(&CfgEdge{From: replacement, To: e.To, Cond: e.Cond})
	}
	if c.Entry == old {
		c.Entry = replacement
	}
	delete(c.Nodes, old)
}

// RemoveDeadNodes deletes every node not reachable from Entry, along with
// the edges they participate in. It returns the set of removed node ids so
// a pass can also prune Phi.Sources entries keyed by them.
func (c *Cfg) RemoveDeadNodes() map[int]bool {
	reachable := map[int]bool{}
	var walk func(id int)
	walk = func(id int) {
		if reachable[id] {
			return
		}
		reachable[id] = true
		for _, e := range c.edgesFrom[id] {
			walk(e.To)
		}
	}
	if _, ok := c.Nodes[c.Entry]; ok {
		walk(c.Entry)
	}
	removed := map[int]bool{}
	for id := range c.Nodes {
		if !reachable[id] {
			removed[id] = true
		}
	}
	for id := range removed {
		c.RemoveNode(id)
	}
	return removed
}
