package fixture

import (
	"testing"

	"github.com/stretchr/testify/require"

	"nodegraph/internal/interp"
	"nodegraph/internal/ir"
	"nodegraph/internal/scope"
)

func TestParseAndLowerStraightLine(t *testing.T) {
	prog, err := ParseSource("t.ng", `
		let x = 1 + 2;
		DebugLog(x);
	`)
	require.NoError(t, err)
	body := Lower(prog)
	require.Len(t, body, 2)

	cfg, diags := scope.BuildFunction("test", body)
	require.False(t, diags.HasErrors())

	world := interp.NewWorld(1)
	_, err = interp.NewCFGInterpreter(world).Run(cfg)
	require.NoError(t, err)
	require.Equal(t, []string{"DebugLog[3]"}, world.Effects)
}

func TestParseWhileLoop(t *testing.T) {
	prog, err := ParseSource("t.ng", `
		let i = 0;
		while (i < 3) {
			DebugLog(i);
			i = i + 1;
		}
	`)
	require.NoError(t, err)
	cfg, diags := scope.BuildFunction("test", Lower(prog))
	require.False(t, diags.HasErrors())

	world := interp.NewWorld(1)
	_, err = interp.NewCFGInterpreter(world).Run(cfg)
	require.NoError(t, err)
	require.Equal(t, []string{"DebugLog[0]", "DebugLog[1]", "DebugLog[2]"}, world.Effects)
}

func TestParseSyntaxError(t *testing.T) {
	_, err := ParseSource("t.ng", `let = 1;`)
	require.Error(t, err)
}

// TestLetOfBarePackBindsAggregateRef confirms that a `let` whose entire
// right-hand side is a bare "Pack(...)" call — the only shape
// internal/passes.AggregateToScalar ever treats as splittable — binds the
// variable to an ir.AggregateRef instead of an ordinary scalar SSARef, so
// that pass has something real to exercise.
func TestLetOfBarePackBindsAggregateRef(t *testing.T) {
	prog, err := ParseSource("t.ng", `let v = Pack(1, 2, 3);`)
	require.NoError(t, err)
	body := Lower(prog)
	require.Len(t, body, 1)

	set := body[0].(*scope.SetStatement)
	agg, ok := set.Ref.(*ir.AggregateRef)
	require.True(t, ok, "Ref should be an AggregateRef, got %T", set.Ref)
	require.Equal(t, 3, agg.Size)

	fn, ok := set.Value.(*ir.Func)
	require.True(t, ok)
	require.Equal(t, "Pack", fn.Name)
	require.Len(t, fn.Args, 3)
}

// TestLetOfParenthesizedPackStaysScalar checks that asPackCall only
// recognizes a bare call, not one wrapped in any operator — `(Pack(1,2)) +
// 0` or similar should still bind an ordinary SSARef and leave the Pack
// call as an ordinary sub-expression, since nothing downstream can split a
// Pack that isn't the entire right-hand side of its defining Set.
func TestLetOfParenthesizedPackStaysScalar(t *testing.T) {
	prog, err := ParseSource("t.ng", `let v = (Pack(1, 2)) + 0;`)
	require.NoError(t, err)
	set := Lower(prog)[0].(*scope.SetStatement)
	_, ok := set.Ref.(*ir.AggregateRef)
	require.False(t, ok)
}
