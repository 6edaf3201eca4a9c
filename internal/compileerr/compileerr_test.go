package compileerr

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDiagnosticError(t *testing.T) {
	d := BreakOutsideLoop("loopA")
	require.Equal(t, LevelError, d.Level)
	require.Equal(t, CodeBreakOutsideLoop, d.Code)
	require.Contains(t, d.Error(), "loopA")
	require.Contains(t, d.Error(), "error[E002]")
}

func TestDiagnosticsAccumulation(t *testing.T) {
	var d Diagnostics
	require.False(t, d.HasErrors())
	require.Nil(t, d.FirstError())

	d.Add(UnreachableStatement())
	require.False(t, d.HasErrors())
	require.Len(t, d.All(), 1)
	require.Empty(t, d.Errors())

	d.Add(ReturnOutsideFunc())
	require.True(t, d.HasErrors())
	require.Len(t, d.Errors(), 1)
	require.Equal(t, CodeReturnOutsideFunc, d.FirstError().Code)
}

func TestScopeMisuse(t *testing.T) {
	d := ScopeMisuse("add")
	require.Equal(t, LevelError, d.Level)
	require.Equal(t, CodeScopeMisuse, d.Code)
	require.Contains(t, d.Error(), "add")
}

func TestDiagnosticsErrorfAndWarnf(t *testing.T) {
	var d Diagnostics
	d.Errorf(CodeUnknownBuiltin, "unknown builtin %q", "Frobnicate")
	d.Warnf(WarnOversizedEntity, "entity %q too big", "Player")

	require.Len(t, d.All(), 2)
	require.True(t, d.HasErrors())
	require.Equal(t, LevelWarning, d.All()[1].Level)
}
