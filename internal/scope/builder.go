package scope

import (
	"nodegraph/internal/compileerr"
	"nodegraph/internal/ir"
)

// loopLabel tracks one enclosing breakable/continuable construct: the node
// id a Break jumps to (the block after the construct) and the node id a
// Continue jumps to (the construct's header/step block).
type loopLabel struct {
	label        string
	breakTarget  int
	continueTarget int
}

// Builder is the single active-compilation context for one function's
// worth of lowering: it owns the Cfg under construction, mints fresh SSA
// refs, and resolves labeled break/continue against a stack of enclosing
// loops — the same explicit, entered-once context object idiom the rest of
// this codebase uses instead of package-level globals.
type Builder struct {
	Cfg         *ir.Cfg
	Diagnostics *compileerr.Diagnostics

	nextRef    int
	labelStack []loopLabel
}

// NewBuilder starts a fresh compilation context with an empty Cfg.
func NewBuilder() *Builder {
	return &Builder{
		Cfg:         ir.NewCfg(),
		Diagnostics: &compileerr.Diagnostics{},
	}
}

// NewTemp mints a fresh, not-yet-allocated SSA ref. Every value produced
// during lowering gets one of these; internal/passes.Allocate rewrites them
// into TempRefs once liveness and coalescing have run.
func (b *Builder) NewTemp() *ir.SSARef {
	r := &ir.SSARef{ID: b.nextRef}
	b.nextRef++
	return r
}

// NewScope allocates a fresh CfgNode and wraps it in a live BlockScope.
func (b *Builder) NewScope() Scope {
	n := b.Cfg.NewNode()
	return &BlockScope{b: b, node: n}
}

// PushLoop registers a new enclosing loop for Break/Continue resolution.
// Callers call PopLoop once lowering the loop body is complete.
func (b *Builder) PushLoop(label string, breakTarget, continueTarget int) {
	b.labelStack = append(b.labelStack, loopLabel{label: label, breakTarget: breakTarget, continueTarget: continueTarget})
}

func (b *Builder) PopLoop() {
	b.labelStack = b.labelStack[:len(b.labelStack)-1]
}

// findLabel resolves a (possibly empty) label to a target node id, walking
// the label stack from innermost to outermost. An empty label matches the
// innermost enclosing loop regardless of its own label, mirroring an
// unlabeled break/continue in a source language with labeled loops. An
// empty label never matches the function-level entry BuildFunction pushes
// for Return, so an unlabeled break/continue outside any loop is not found.
func (b *Builder) findLabel(label string, isBreak bool) (int, bool) {
	for i := len(b.labelStack) - 1; i >= 0; i-- {
		entry := b.labelStack[i]
		if label != "" && entry.label != label {
			continue
		}
		if label == "" && entry.label == functionExitLabel {
			continue
		}
		if isBreak {
			return entry.breakTarget, true
		}
		return entry.continueTarget, true
	}
	return 0, false
}

// BuildFunction lowers a sequence of top-level Statements into a complete
// Cfg: a fresh entry scope, each statement evaluated in turn threading the
// returned scope forward, and a synthetic exit node every live path (an
// implicit fall-off-the-end as well as every Return, via functionExitLabel)
// joins into, so the Cfg always has a single, well-defined exit.
func BuildFunction(callback CallbackKind, body []Statement) (*ir.Cfg, *compileerr.Diagnostics) {
	b := NewBuilder()
	info := &CompilationInfo{Callback: callback, b: b}
	Enter(info)
	defer Exit()

	entry := b.NewScope()
	b.Cfg.Entry = entry.NodeID()
	exit := b.NewScope()

	b.PushLoop(functionExitLabel, exit.NodeID(), exit.NodeID())
	cur := entry
	for _, stmt := range body {
		cur = stmt.Evaluate(cur)
	}
	b.PopLoop()
	cur.Jump(exit)

	return b.Cfg, b.Diagnostics
}
