// Package passes implements the optimization pipeline run over an
// ir.Cfg once a scope.Builder has finished lowering it: constant
// propagation, flow coalescing, arithmetic simplification, aggregate
// splitting, dead code/store elimination, and final slot allocation.
package passes

import "nodegraph/internal/ir"

// Pass transforms a Cfg in place. Requires names the passes that must have
// already run in this pipeline invocation; Pipeline.Run resolves this into
// an execution order rather than requiring callers to get the order right
// by hand.
type Pass interface {
	Name() string
	Requires() []string
	Apply(c *ir.Cfg) (changed bool, err error)
}

// Pipeline runs a set of passes to a fixed point: each full round reruns
// every pass in dependency order, and the pipeline stops once a round makes
// no further changes (or MaxRounds is hit, as a backstop against a
// pathological non-terminating pass interaction).
type Pipeline struct {
	passes    []Pass
	MaxRounds int
}

func NewPipeline(passes ...Pass) *Pipeline {
	return &Pipeline{passes: passes, MaxRounds: 32}
}

// DefaultPipeline is the standard preset: conditional constant propagation,
// flow coalescing, arithmetic simplification, aggregate-to-scalar
// splitting, basic dead code elimination, basic dead store elimination,
// and finally slot allocation — the same seven-pass order the original
// backend's optimization preset runs, translated one file per pass.
func DefaultPipeline() *Pipeline {
	return NewPipeline(
		&ConditionalConstantPropagation{},
		&CoalesceFlow{},
		&ArithmeticSimplification{},
		&AggregateToScalar{},
		&BasicDeadCodeElimination{},
		&BasicDeadStoreElimination{},
		&Allocate{},
	)
}

// order resolves p.passes into a valid execution order satisfying every
// pass's Requires(), breaking ties by the order passes were registered in.
// A required name that no registered pass has is ignored. It panics on a
// cyclic requirement set, since that is a programming error in how the
// pipeline was assembled, not a runtime condition callers should have to
// handle.
func (p *Pipeline) order() []Pass {
	byName := map[string]Pass{}
	for _, ps := range p.passes {
		byName[ps.Name()] = ps
	}
	var order []Pass
	done := map[string]bool{}
	var visit func(Pass, map[string]bool)
	visit = func(ps Pass, visiting map[string]bool) {
		if done[ps.Name()] {
			return
		}
		if visiting[ps.Name()] {
			panic("passes: cyclic Requires() among " + ps.Name())
		}
		visiting[ps.Name()] = true
		for _, dep := range ps.Requires() {
			if d, ok := byName[dep]; ok {
				visit(d, visiting)
			}
		}
		delete(visiting, ps.Name())
		done[ps.Name()] = true
		order = append(order, ps)
	}
	for _, ps := range p.passes {
		visit(ps, map[string]bool{})
	}
	return order
}

// Run executes every pass to a fixed point and returns the total number of
// rounds performed (at least 1, even if nothing changed).
func (p *Pipeline) Run(c *ir.Cfg) (rounds int, err error) {
	ordered := p.order()
	max := p.MaxRounds
	if max <= 0 {
		max = 32
	}
	for rounds = 1; rounds <= max; rounds++ {
		anyChanged := false
		for _, ps := range ordered {
			changed, err := ps.Apply(c)
			if err != nil {
				return rounds, err
			}
			anyChanged = anyChanged || changed
		}
		if !anyChanged {
			return rounds, nil
		}
	}
	return max, nil
}
