package passes

import "nodegraph/internal/ir"

// AggregateToScalar splits every AggregateRef that is only ever written as
// a whole "Pack" construction into Size individual SSARefs, one per word.
// This is the common case for struct/vector-shaped locals: once split,
// each component can be allocated, propagated, and eliminated completely
// independently of its siblings, instead of the whole aggregate needing to
// move, live, and die as one unit. An AggregateRef with any other kind of
// write (one this simplified pass cannot prove is a full "Pack") is left
// alone. Allocate assigns slots to SSARefs only, so such a ref stays an
// AggregateRef and gets no TemporaryMemory slot.
type AggregateToScalar struct{}

func (*AggregateToScalar) Name() string       { return "aggregate-to-scalar" }
func (*AggregateToScalar) Requires() []string { return []string{"ccp", "coalesce-flow"} }

func (p *AggregateToScalar) Apply(c *ir.Cfg) (bool, error) {
	splittable := map[string]*ir.AggregateRef{}
	unsplittable := map[string]bool{}

	ir.TraverseCfg(c, func(n *ir.CfgNode) {
		for _, node := range n.Body {
			set, ok := node.(*ir.Set)
			if !ok {
				continue
			}
			agg, ok := set.Ref.(*ir.AggregateRef)
			if !ok {
				continue
			}
			key := agg.String()
			if unsplittable[key] {
				continue
			}
			fn, ok := set.Value.(*ir.Func)
			if !ok || fn.Name != "Pack" || len(fn.Args) != agg.Size {
				unsplittable[key] = true
				delete(splittable, key)
				continue
			}
			splittable[key] = agg
		}
	})

	if len(splittable) == 0 {
		return false, nil
	}

	t := &aggregateTransformer{splittable: splittable}
	changed := false
	ir.TraverseCfg(c, func(n *ir.CfgNode) {
		body := make([]ir.Node, 0, len(n.Body))
		for _, node := range n.Body {
			rewritten := ir.Transform(t, node)
			if rewritten != node {
				changed = true
			}
			if fn, ok := rewritten.(*ir.Func); ok && fn.Name == "__split_pack" {
				body = append(body, fn.Args...)
				continue
			}
			body = append(body, rewritten)
		}
		n.Body = body
		if n.Branch != nil {
			rewritten := ir.Transform(t, n.Branch)
			if rewritten != n.Branch {
				changed = true
			}
			n.Branch = rewritten
		}
	})
	return changed, nil
}

// aggregateTransformer rewrites every reference to a splittable
// AggregateRef, wherever it occurs in the tree — not just as the direct
// Ref of a top-level Set, but nested inside a Func's args or another Set's
// Value — by riding ir.Transform's generic bottom-up recursion instead of
// hand-walking each node kind.
type aggregateTransformer struct {
	ir.IdentityTransformer
	splittable map[string]*ir.AggregateRef
}

// TransformSet rewrites the defining write of a splittable aggregate (a
// Set of a whole "Pack" value) into N component Sets, one per slot.
func (t *aggregateTransformer) TransformSet(s *ir.Set) ir.Node {
	agg, ok := s.Ref.(*ir.AggregateRef)
	if !ok {
		return s
	}
	if _, known := t.splittable[agg.String()]; !known {
		return s
	}
	fn := s.Value.(*ir.Func)
	// Represent the split write as a "__split_pack" Func wrapping the N
	// component Sets; Apply splices a top-level one into the block body
	// as those Sets, in order.
	args := make([]ir.Node, 0, agg.Size)
	for i := 0; i < agg.Size; i++ {
		args = append(args, &ir.Set{Ref: agg.Slot(i), Value: fn.Args[i]})
	}
	return &ir.Func{Name: "__split_pack", Args: args}
}

// TransformGet rewrites a read of the whole splittable aggregate back into
// a "Pack" of its now-independent component slots, so a Get that never
// appears as a Set's own Ref — e.g. nested inside another Func's
// arguments — still sees the split form rather than dangling on a Ref
// that flattening can no longer allocate.
func (t *aggregateTransformer) TransformGet(g *ir.Get) ir.Node {
	agg, ok := g.Ref.(*ir.AggregateRef)
	if !ok {
		return g
	}
	if _, known := t.splittable[agg.String()]; !known {
		return g
	}
	args := make([]ir.Node, agg.Size)
	for i := 0; i < agg.Size; i++ {
		args[i] = &ir.Get{Ref: agg.Slot(i)}
	}
	return &ir.Func{Name: "Pack", Args: args}
}
