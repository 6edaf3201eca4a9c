// Package flatten turns an already-optimized ir.Cfg into the two artifacts
// the engine actually consumes: a FlatCfg (blocks numbered and laid out in
// a flat array, edges encoded by target index) and an engine-node array
// (the Cfg's expression trees interned into a single acyclic, index-
// ordered list the runtime evaluates bottom-up).
package flatten

import (
	"fmt"
	"strings"

	"nodegraph/internal/ir"
)

// FlatCfgNode is one numbered block: its body, optional branch value, and
// its successor encoding (Default: the implicit/otherwise successor, or -1
// for none; Targets: condition value -> successor index, for a multi-way
// branch).
type FlatCfgNode struct {
	Index   int
	Body    []ir.Node
	Branch  ir.Node
	Default int
	Targets map[float64]int
}

// FlatCfg is a Cfg whose nodes have been numbered in preorder and whose
// exit node (the node with no outgoing edges) has been repositioned to the
// last index — appending a synthetic empty sentinel block if the original
// graph had no unreachable-from-nowhere single exit to move, matching the
// engine's expectation that block N-1 is always the function's single
// exit point.
type FlatCfg struct {
	Nodes []*FlatCfgNode
}

// GetFlatCfg numbers every node reachable from c.Entry in preorder, then
// moves whichever numbered node has zero outgoing edges to the final
// index (appending an empty sentinel if none does, i.e. every live path
// loops forever without a natural exit — a well-formed function body never
// hits this, but GetFlatCfg must still produce a valid FlatCfg for it).
func GetFlatCfg(c *ir.Cfg) *FlatCfg {
	order := ir.TraversePreorder(c)
	indexOf := map[int]int{}
	for i, id := range order {
		indexOf[id] = i
	}

	nodes := make([]*FlatCfgNode, 0, len(order)+1)
	exitPos := -1
	for i, id := range order {
		n := c.Nodes[id]
		fn := &FlatCfgNode{Index: i, Body: n.Body, Branch: n.Branch}
		out := c.EdgesFrom(id)
		if len(out) == 0 {
			fn.Default = -1
			exitPos = i
		} else {
			targets := map[float64]int{}
			defaultIdx := -1
			for _, e := range out {
				if e.Cond == nil {
					defaultIdx = indexOf[e.To]
				} else {
					targets[*e.Cond] = indexOf[e.To]
				}
			}
			fn.Default = defaultIdx
			fn.Targets = targets
		}
		nodes = append(nodes, fn)
	}

	last := len(nodes) - 1
	if exitPos == -1 {
		nodes = append(nodes, &FlatCfgNode{Index: len(nodes), Default: -1})
		exitPos = len(nodes) - 1
		last = exitPos
	}
	if exitPos != last {
		nodes[exitPos], nodes[last] = nodes[last], nodes[exitPos]
		renumber(nodes, exitPos, last)
	}
	return &FlatCfg{Nodes: nodes}
}

// renumber fixes up Index fields and every Default/Targets reference after
// swapping the nodes originally at a and b.
func renumber(nodes []*FlatCfgNode, a, b int) {
	for i, n := range nodes {
		n.Index = i
	}
	fix := func(idx int) int {
		switch idx {
		case a:
			return b
		case b:
			return a
		default:
			return idx
		}
	}
	for _, n := range nodes {
		if n.Default >= 0 {
			n.Default = fix(n.Default)
		}
		for k, v := range n.Targets {
			n.Targets[k] = fix(v)
		}
	}
}

// String renders the flat CFG as plain text, kept (per the original
// Python's FlatCfg, which this is a simplified port of) alongside the
// richer diagram rendering that format is not reproduced here — a mermaid
// or SVG export has no consumer in this backend's own test suite or CLI.
func (f *FlatCfg) String() string {
	var b strings.Builder
	for _, n := range f.Nodes {
		fmt.Fprintf(&b, "block %d:\n", n.Index)
		for _, node := range n.Body {
			fmt.Fprintf(&b, "  %s\n", node.String())
		}
		if n.Branch != nil {
			fmt.Fprintf(&b, "  branch %s\n", n.Branch.String())
		}
		if n.Default >= 0 {
			fmt.Fprintf(&b, "  -> %d (default)\n", n.Default)
		}
		for cond, idx := range n.Targets {
			fmt.Fprintf(&b, "  -> %d if == %g\n", idx, cond)
		}
	}
	return b.String()
}
