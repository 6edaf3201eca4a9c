package scope

import (
	"testing"

	"github.com/stretchr/testify/require"

	"nodegraph/internal/ir"
)

func TestBuildFunctionStraightLine(t *testing.T) {
	ref := &ir.SSARef{ID: 0}
	body := []Statement{
		&SetStatement{Ref: ref, Value: &ir.Const{Value: 5}},
		&ExecuteStatement{Value: &ir.Func{Name: "DebugLog", Args: []ir.Node{&ir.Get{Ref: ref}}}},
	}
	cfg, diags := BuildFunction("test", body)
	require.False(t, diags.HasErrors())
	require.NotNil(t, cfg.Nodes[cfg.Entry])
}

func TestBuildFunctionIf(t *testing.T) {
	ref := &ir.SSARef{ID: 0}
	body := []Statement{
		&IfStatement{
			Cond: &ir.Const{Value: 1},
			Then: []Statement{&SetStatement{Ref: ref, Value: &ir.Const{Value: 1}}},
			Else: []Statement{&SetStatement{Ref: ref, Value: &ir.Const{Value: 0}}},
		},
	}
	cfg, diags := BuildFunction("test", body)
	require.False(t, diags.HasErrors())
	// entry, then, else, after, exit = 5 nodes
	require.Len(t, cfg.Nodes, 5)
}

func TestBuildFunctionWhileBreak(t *testing.T) {
	ref := &ir.SSARef{ID: 0}
	body := []Statement{
		&WhileStatement{
			Cond: &ir.Const{Value: 1},
			Body: []Statement{
				&IfStatement{
					Cond: &ir.Get{Ref: ref},
					Then: []Statement{&BreakStatement{}},
				},
				&SetStatement{Ref: ref, Value: &ir.Const{Value: 1}},
			},
		},
	}
	cfg, diags := BuildFunction("test", body)
	require.False(t, diags.HasErrors())
	require.NotEmpty(t, cfg.Nodes)
}

func TestBreakOutsideLoopRecordsDiagnostic(t *testing.T) {
	body := []Statement{&BreakStatement{}}
	_, diags := BuildFunction("test", body)
	require.True(t, diags.HasErrors())
	require.Equal(t, "E002", string(diags.FirstError().Code))
}

func TestScopeMisuseAfterJumpRecordsDiagnostic(t *testing.T) {
	b := NewBuilder()
	s := b.NewScope()
	target := b.NewScope()
	s.Jump(target)

	// The scope already ended with the Jump above; every further attempt
	// to use it is a lowering bug and must surface as a diagnostic rather
	// than silently vanishing.
	s.Add(&ir.Const{Value: 1})
	require.True(t, b.Diagnostics.HasErrors())
	require.Equal(t, "E008", string(b.Diagnostics.FirstError().Code))
}

func TestScopeMisuseAfterBreakRecordsDiagnostic(t *testing.T) {
	b := NewBuilder()
	exit := b.NewScope()
	b.PushLoop("", exit.NodeID(), exit.NodeID())
	s := b.NewScope()
	s.Break("")
	s.Break("")
	require.True(t, b.Diagnostics.HasErrors())
	require.Equal(t, "E008", string(b.Diagnostics.FirstError().Code))
}

func TestReturnJoinsExit(t *testing.T) {
	body := []Statement{
		&ReturnStatement{Value: &ir.Const{Value: 42}},
		&ExecuteStatement{Value: &ir.Func{Name: "DebugLog", Args: nil}},
	}
	cfg, diags := BuildFunction("test", body)
	require.False(t, diags.HasErrors())
	// the ExecuteStatement after an unconditional return is unreachable
	// and must never have been appended to any live block.
	found := false
	ir.TraverseCfg(cfg, func(n *ir.CfgNode) {
		for _, node := range n.Body {
			if f, ok := node.(*ir.Func); ok && f.Name == "DebugLog" {
				found = true
			}
		}
	})
	require.False(t, found)
}
