package passes

import (
	"testing"

	"github.com/stretchr/testify/require"

	"nodegraph/internal/ir"
)

// TestCCPShortCircuitsMultiplyByZero checks that CCP folds
// Multiply(Get(x), Const(0)) to Const(0) even though Get(x) never becomes
// a known constant — the one case evalFunc must fold without every
// argument already being constant.
func TestCCPShortCircuitsMultiplyByZero(t *testing.T) {
	cfg := ir.NewCfg()
	n := cfg.NewNode()
	cfg.Entry = n.ID

	x := &ir.TempRef{Block: 100, Offset: 0} // TemporaryMemory — never assigned, so CCP can never learn its value.
	out := &ir.SSARef{ID: 0}
	n.Body = []ir.Node{
		&ir.Set{
			Ref:   out,
			Value: &ir.Func{Name: "Multiply", Args: []ir.Node{&ir.Get{Ref: x}, &ir.Const{Value: 0}}},
		},
	}

	pass := &ConditionalConstantPropagation{}
	changed, err := pass.Apply(cfg)
	require.NoError(t, err)
	require.True(t, changed)

	set := n.Body[0].(*ir.Set)
	c, ok := set.Value.(*ir.Const)
	require.True(t, ok, "Multiply by a constant 0 should fold to Const(0) regardless of the other operand")
	require.Equal(t, 0.0, c.Value)
}

func TestCCPDoesNotFoldMultiplyWithoutAZeroOrAllConstants(t *testing.T) {
	cfg := ir.NewCfg()
	n := cfg.NewNode()
	cfg.Entry = n.ID

	x := &ir.TempRef{Block: 100, Offset: 0}
	out := &ir.SSARef{ID: 0}
	n.Body = []ir.Node{
		&ir.Set{
			Ref:   out,
			Value: &ir.Func{Name: "Multiply", Args: []ir.Node{&ir.Get{Ref: x}, &ir.Const{Value: 5}}},
		},
	}

	pass := &ConditionalConstantPropagation{}
	_, err := pass.Apply(cfg)
	require.NoError(t, err)

	set := n.Body[0].(*ir.Set)
	_, ok := set.Value.(*ir.Const)
	require.False(t, ok, "Multiply by a non-zero constant must not fold while the other operand is unknown")
}

func TestCCPFoldsFullyConstantExpression(t *testing.T) {
	cfg := ir.NewCfg()
	n := cfg.NewNode()
	cfg.Entry = n.ID

	out := &ir.SSARef{ID: 0}
	n.Body = []ir.Node{
		&ir.Set{
			Ref:   out,
			Value: &ir.Func{Name: "Floor", Args: []ir.Node{&ir.Const{Value: 3.7}}},
		},
	}

	pass := &ConditionalConstantPropagation{}
	changed, err := pass.Apply(cfg)
	require.NoError(t, err)
	require.True(t, changed)

	set := n.Body[0].(*ir.Set)
	c, ok := set.Value.(*ir.Const)
	require.True(t, ok)
	require.Equal(t, 3.0, c.Value)
}
