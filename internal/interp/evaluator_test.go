package interp

import (
	"testing"

	"github.com/stretchr/testify/require"

	"nodegraph/internal/ir"
)

func TestEvalFoldsConstants(t *testing.T) {
	expr := &ir.Func{Name: "Add", Args: []ir.Node{&ir.Const{Value: 2}, &ir.Const{Value: 3}}}
	v, ok := Eval(expr, nil)
	require.True(t, ok)
	require.Equal(t, 5.0, v)
}

func TestEvalUnresolvedGetFails(t *testing.T) {
	expr := &ir.Get{Ref: &ir.SSARef{ID: 0}}
	_, ok := Eval(expr, nil)
	require.False(t, ok)
}

func TestEvalReaderSupplied(t *testing.T) {
	ref := &ir.SSARef{ID: 0}
	read := func(r ir.Ref) (float64, bool) {
		if r.Equal(ref) {
			return 7, true
		}
		return 0, false
	}
	expr := &ir.Func{Name: "Multiply", Args: []ir.Node{&ir.Get{Ref: ref}, &ir.Const{Value: 2}}}
	v, ok := Eval(expr, read)
	require.True(t, ok)
	require.Equal(t, 14.0, v)
}
