package ir

import (
	"fmt"
	"sort"
	"strings"
)

// Printer renders a Cfg as indented, human-readable text: one block per
// node in id order, its phis, its body, and its outgoing edges. It keeps no
// state between calls to Print other than the indent level.
type Printer struct {
	indent int
	out    strings.Builder
}

func NewPrinter() *Printer {
	return &Printer{}
}

func (p *Printer) writeLine(format string, args ...any) {
	p.out.WriteString(strings.Repeat("  ", p.indent))
	p.out.WriteString(fmt.Sprintf(format, args...))
	p.out.WriteByte('\n')
}

// Print renders the full graph and returns the accumulated text.
func (p *Printer) Print(c *Cfg) string {
	p.out.Reset()
	var ids []int
	for id := range c.Nodes {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	p.writeLine("cfg entry=%d", c.Entry)
	for _, id := range ids {
		p.printNode(c, c.Nodes[id])
	}
	return p.out.String()
}

func (p *Printer) printNode(c *Cfg, n *CfgNode) {
	p.writeLine("block %d:", n.ID)
	p.indent++
	for _, phi := range n.Phis {
		p.writeLine("phi %s = %s", phi.Ref.String(), phiSourcesString(phi))
	}
	for _, node := range n.Body {
		p.writeLine("%s", node.String())
	}
	if n.Branch != nil {
		p.writeLine("branch %s", n.Branch.String())
	}
	for _, e := range c.EdgesFrom(n.ID) {
		if e.Cond == nil {
			p.writeLine("-> %d", e.To)
		} else {
			p.writeLine("-> %d if == %g", e.To, *e.Cond)
		}
	}
	p.indent--
}

func phiSourcesString(phi *Phi) string {
	var keys []int
	for k := range phi.Sources {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%d: %s", k, phi.Sources[k].String())
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
