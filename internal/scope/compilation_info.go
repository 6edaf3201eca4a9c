package scope

import "fmt"

// CallbackKind identifies which engine callback a function is being
// compiled for (e.g. "updateSequential", "touch", "navigate"). It is
// recorded on the CompilationInfo; lowering checks no builtin against it.
type CallbackKind string

// CompilationInfo is the active-compilation singleton: exactly one may be
// entered at a time, held in the package-level variable active that Enter
// sets and Exit clears. It
// carries cross-function bookkeeping a single Builder doesn't need on its
// own: which callback is being compiled, and a stable per-script id for
// archetypes/callbacks referenced by name.
type CompilationInfo struct {
	Callback  CallbackKind
	ScriptIDs map[string]int

	nextScriptID int

	b *Builder
}

// builder returns the Builder lowering is running against. Statement
// implementations reach it through the active CompilationInfo rather than
// a parameter, the same "ambient context, not threaded by hand" shape as
// the rest of this package's Enter/Exit/Active API.
func (c *CompilationInfo) builder() *Builder {
	return c.b
}

var active *CompilationInfo

// Enter installs info as the active compilation context. It panics if a
// context is already active, since nesting compilations is never valid:
// one CompilationInfo compiles one function at a time on its goroutine.
func Enter(info *CompilationInfo) {
	if active != nil {
		panic("scope: CompilationInfo already active")
	}
	active = info
}

// Exit clears the active compilation context. It panics if called without
// a matching Enter, catching a use-after-exit bug immediately rather than
// silently operating on a stale context.
func Exit() {
	if active == nil {
		panic("scope: Exit called with no active CompilationInfo")
	}
	active = nil
}

// Active returns the currently active CompilationInfo, or nil if none.
func Active() *CompilationInfo {
	return active
}

// ScriptID returns the stable id for name, minting a fresh one on first
// use. Ids are assigned in first-use order, so they are stable across a
// single compilation but not across compilations with a different call
// order — callers that need cross-run stability must pre-seed ScriptIDs.
func (c *CompilationInfo) ScriptID(name string) int {
	if c.ScriptIDs == nil {
		c.ScriptIDs = map[string]int{}
	}
	if id, ok := c.ScriptIDs[name]; ok {
		return id
	}
	id := c.nextScriptID
	c.nextScriptID++
	c.ScriptIDs[name] = id
	return id
}

func (c *CompilationInfo) String() string {
	return fmt.Sprintf("CompilationInfo{callback=%s, scripts=%d}", c.Callback, len(c.ScriptIDs))
}
