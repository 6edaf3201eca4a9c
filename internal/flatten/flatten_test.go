package flatten

import (
	"testing"

	"github.com/stretchr/testify/require"

	"nodegraph/internal/ir"
)

func TestGetFlatCfgMovesExitLast(t *testing.T) {
	c := ir.NewCfg()
	exit := c.NewNode()
	mid := c.NewNode()
	entry := c.NewNode()
	c.Entry = entry.ID
	c.AddEdge(&ir.CfgEdge{From: entry.ID, To: mid.ID})
	c.AddEdge(&ir.CfgEdge{From: mid.ID, To: exit.ID})

	flat := GetFlatCfg(c)
	require.Len(t, flat.Nodes, 3)
	last := flat.Nodes[len(flat.Nodes)-1]
	require.Equal(t, -1, last.Default)
	require.Empty(t, last.Targets)
}

func TestGetFlatCfgSyntheticExit(t *testing.T) {
	c := ir.NewCfg()
	a := c.NewNode()
	b := c.NewNode()
	c.Entry = a.ID
	c.AddEdge(&ir.CfgEdge{From: a.ID, To: b.ID})
	c.AddEdge(&ir.CfgEdge{From: b.ID, To: a.ID})

	flat := GetFlatCfg(c)
	require.Len(t, flat.Nodes, 3)
	require.Equal(t, -1, flat.Nodes[2].Default)
}

func TestGetEngineNodesAcyclic(t *testing.T) {
	c := ir.NewCfg()
	n := c.NewNode()
	c.Entry = n.ID
	ref := &ir.TempRef{Block: 100, Offset: 1}
	n.Body = []ir.Node{
		&ir.Set{Ref: ref, Value: &ir.Func{Name: "Add", Args: []ir.Node{&ir.Const{Value: 1}, &ir.Const{Value: 2}}}},
	}
	flat := GetFlatCfg(c)
	finalized, err := GetEngineNodes(flat)
	require.NoError(t, err)
	require.NotEmpty(t, finalized.Nodes)
	for i, node := range finalized.Nodes {
		for _, a := range node.Args {
			require.Less(t, a, i)
		}
	}
}

func TestGetEngineNodesWrapsSingleBlockAsExecute(t *testing.T) {
	c := ir.NewCfg()
	n := c.NewNode()
	c.Entry = n.ID
	n.Body = []ir.Node{&ir.Const{Value: 7}}

	flat := GetFlatCfg(c)
	finalized, err := GetEngineNodes(flat)
	require.NoError(t, err)

	root := finalized.Nodes[finalized.Root]
	require.Equal(t, "Execute", root.Func)
	// body const, plus the terminal (Value(-1), since the block has no test).
	require.Len(t, root.Args, 2)
}

func TestGetEngineNodesWrapsMultiBlockAsJumpLoop(t *testing.T) {
	c := ir.NewCfg()
	a := c.NewNode()
	b := c.NewNode()
	c.Entry = a.ID
	c.AddEdge(&ir.CfgEdge{From: a.ID, To: b.ID})

	flat := GetFlatCfg(c)
	finalized, err := GetEngineNodes(flat)
	require.NoError(t, err)

	root := finalized.Nodes[finalized.Root]
	require.Equal(t, "JumpLoop", root.Func)
	require.Len(t, root.Args, len(flat.Nodes))
	for _, idx := range root.Args {
		require.Equal(t, "Execute", finalized.Nodes[idx].Func)
	}
}

func TestGetEngineNodesTwoWayBranchBuildsIf(t *testing.T) {
	c := ir.NewCfg()
	entry := c.NewNode()
	t1 := c.NewNode()
	f1 := c.NewNode()
	c.Entry = entry.ID
	entry.Branch = &ir.Const{Value: 1}
	one := 1.0
	c.AddEdge(&ir.CfgEdge{From: entry.ID, To: t1.ID, Cond: &one})
	c.AddEdge(&ir.CfgEdge{From: entry.ID, To: f1.ID})

	flat := GetFlatCfg(c)
	finalized, err := GetEngineNodes(flat)
	require.NoError(t, err)

	var entryExec *EngineNode
	for _, n := range finalized.Nodes {
		if n.Func == "Execute" && len(n.Args) == 1 {
			if terminal := finalized.Nodes[n.Args[0]]; terminal.Func == "If" {
				entryExec = n
			}
		}
	}
	require.NotNil(t, entryExec, "expected an Execute node whose terminal is an If")
}
