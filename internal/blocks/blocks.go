// Package blocks enumerates the engine's fixed memory blocks and the
// builtin functions that are allowed to have side effects.
package blocks

// Block identifies one of the engine's fixed memory regions. Values match
// the host engine's well-known block indices exactly and must not be
// renumbered or compacted.
type Block int

const (
	LevelMemory          Block = 0
	LevelData            Block = 1
	LevelOption          Block = 2
	LevelTransform       Block = 3
	LevelBackground      Block = 4
	LevelUI              Block = 5
	LevelBucket          Block = 6
	LevelScore           Block = 7
	LevelLife            Block = 8
	LevelUIConfiguration Block = 9

	EntityInfoArray         Block = 10
	EntityDataArray         Block = 11
	EntitySharedMemoryArray Block = 12

	EntityInfo         Block = 20
	EntityMemory       Block = 21
	EntityData         Block = 22
	EntityInput        Block = 23
	EntitySharedMemory Block = 24

	ArchetypeLife Block = 30

	EngineRom Block = 50

	TemporaryMemory Block = 100
	TemporaryData   Block = 101
)

var names = map[Block]string{
	LevelMemory:          "LevelMemory",
	LevelData:            "LevelData",
	LevelOption:          "LevelOption",
	LevelTransform:       "LevelTransform",
	LevelBackground:      "LevelBackground",
	LevelUI:              "LevelUI",
	LevelBucket:          "LevelBucket",
	LevelScore:           "LevelScore",
	LevelLife:            "LevelLife",
	LevelUIConfiguration: "LevelUIConfiguration",

	EntityInfoArray:         "EntityInfoArray",
	EntityDataArray:         "EntityDataArray",
	EntitySharedMemoryArray: "EntitySharedMemoryArray",

	EntityInfo:         "EntityInfo",
	EntityMemory:       "EntityMemory",
	EntityData:         "EntityData",
	EntityInput:        "EntityInput",
	EntitySharedMemory: "EntitySharedMemory",

	ArchetypeLife: "ArchetypeLife",

	EngineRom: "EngineRom",

	TemporaryMemory: "TemporaryMemory",
	TemporaryData:   "TemporaryData",
}

func (b Block) String() string {
	if s, ok := names[b]; ok {
		return s
	}
	return "Block(?)"
}

// Writable reports whether code may store into a ref backed by this block.
// The read-only info/input/rom blocks may only ever be loaded from.
func (b Block) Writable() bool {
	switch b {
	case EntityInfoArray, EntityDataArray, EntitySharedMemoryArray,
		EntityInfo, EntityInput, ArchetypeLife, EngineRom:
		return false
	default:
		return true
	}
}

// Declared reports whether this block has a fixed, externally declared
// size, as opposed to the two Temporary blocks the allocator packs freely.
func (b Block) Declared() bool {
	return b != TemporaryMemory && b != TemporaryData
}

// EffectfulFunctions is the allow-list of builtin call names that are
// permitted to have effects beyond their return value (drawing, audio,
// spawning, debug output). Dead code elimination never removes a call to
// one of these even if its result is unused.
var EffectfulFunctions = map[string]bool{
	"Draw":                             true,
	"DrawCurvedL":                      true,
	"DrawCurvedR":                      true,
	"DrawCurvedLR":                     true,
	"Play":                             true,
	"PlayLooped":                       true,
	"PlayScheduled":                    true,
	"PlayLoopedScheduled":              true,
	"SpawnParticleEffect":              true,
	"SpawnParticleEffectWithTransform": true,
	"MoveParticleEffect":               true,
	"DestroyParticleEffect":            true,
	"SpawnArchetype":                   true,
	"DebugPause":                       true,
	"DebugLog":                         true,
}

// IsEffectful reports whether calling the named builtin may have an effect
// that must be preserved even when its result is never read.
func IsEffectful(name string) bool {
	return EffectfulFunctions[name]
}
