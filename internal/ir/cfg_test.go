package ir

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCfgAddEdgeAndTraversal(t *testing.T) {
	c := NewCfg()
	a := c.NewNode()
	b := c.NewNode()
	d := c.NewNode()
	c.Entry = a.ID
	c.AddEdge(&CfgEdge{From: a.ID, To: b.ID})
	c.AddEdge(&CfgEdge{From: b.ID, To: d.ID})

	order := TraversePreorder(c)
	require.Equal(t, []int{a.ID, b.ID, d.ID}, order)

	post := TraversePostorder(c)
	require.Equal(t, []int{d.ID, b.ID, a.ID}, post)
}

func TestCfgEdgeOrderDefaultLast(t *testing.T) {
	c := NewCfg()
	n := c.NewNode()
	t1 := c.NewNode()
	t2 := c.NewNode()
	def := c.NewNode()
	c.Entry = n.ID
	one, two := 1.0, 2.0
	c.AddEdge(&CfgEdge{From: n.ID, To: def.ID})
	c.AddEdge(&CfgEdge{From: n.ID, To: t2.ID, Cond: &two})
	c.AddEdge(&CfgEdge{From: n.ID, To: t1.ID, Cond: &one})

	edges := c.EdgesFrom(n.ID)
	require.Len(t, edges, 3)
	require.Equal(t, t1.ID, edges[0].To)
	require.Equal(t, t2.ID, edges[1].To)
	require.Equal(t, def.ID, edges[2].To)
}

func TestCfgRemoveDeadNodes(t *testing.T) {
	c := NewCfg()
	a := c.NewNode()
	b := c.NewNode()
	dead := c.NewNode()
	c.Entry = a.ID
	c.AddEdge(&CfgEdge{From: a.ID, To: b.ID})

	removed := c.RemoveDeadNodes()
	require.True(t, removed[dead.ID])
	require.Len(t, c.Nodes, 2)
}

func TestCfgReplaceNode(t *testing.T) {
	c := NewCfg()
	a := c.NewNode()
	b := c.NewNode()
	d := c.NewNode()
	c.Entry = a.ID
	c.AddEdge(&CfgEdge{From: a.ID, To: b.ID})
	c.AddEdge(&CfgEdge{From: b.ID, To: d.ID})

	c.ReplaceNode(b.ID, d.ID)
	require.NotContains(t, c.Nodes, b.ID)
	edges := c.EdgesFrom(a.ID)
	require.Len(t, edges, 1)
	require.Equal(t, d.ID, edges[0].To)
}

func TestTempRefEqual(t *testing.T) {
	r1 := &TempRef{Block: 100, Offset: 5}
	r2 := &TempRef{Block: 100, Offset: 5}
	r3 := &TempRef{Block: 100, Offset: 6}
	require.True(t, r1.Equal(r2))
	require.False(t, r1.Equal(r3))
}
