package blocks

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBlockValuesMatchHostRuntime(t *testing.T) {
	require.Equal(t, Block(0), LevelMemory)
	require.Equal(t, Block(9), LevelUIConfiguration)
	require.Equal(t, Block(10), EntityInfoArray)
	require.Equal(t, Block(12), EntitySharedMemoryArray)
	require.Equal(t, Block(20), EntityInfo)
	require.Equal(t, Block(24), EntitySharedMemory)
	require.Equal(t, Block(30), ArchetypeLife)
	require.Equal(t, Block(50), EngineRom)
	require.Equal(t, Block(100), TemporaryMemory)
	require.Equal(t, Block(101), TemporaryData)
}

func TestBlockString(t *testing.T) {
	require.Equal(t, "EntityMemory", EntityMemory.String())
	require.Equal(t, "TemporaryMemory", TemporaryMemory.String())
	require.Equal(t, "Block(?)", Block(999).String())
}

func TestBlockWritable(t *testing.T) {
	require.False(t, EntityInfo.Writable())
	require.False(t, EntityInput.Writable())
	require.True(t, EntityMemory.Writable())
	require.True(t, TemporaryMemory.Writable())
}

func TestBlockDeclared(t *testing.T) {
	require.True(t, EntityMemory.Declared())
	require.False(t, TemporaryMemory.Declared())
	require.False(t, TemporaryData.Declared())
}

func TestIsEffectful(t *testing.T) {
	require.True(t, IsEffectful("DebugLog"))
	require.True(t, IsEffectful("SpawnArchetype"))
	require.False(t, IsEffectful("Add"))
	require.False(t, IsEffectful("NotARealBuiltin"))
}
