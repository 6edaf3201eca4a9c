package passes

import "nodegraph/internal/ir"

// ArithmeticSimplification applies algebraic identities that CCP's
// all-constant-arguments folding can't reach because one operand is a
// runtime value: x+0, 0+x, x*1, 1*x, x*0, 0*x, x-0, x/1, double negation,
// double logical-not. It rewrites bottom-up via ir.Transform so a
// simplification exposed by simplifying a child (e.g. `(x * 1) + 0` ->
// `x + 0` -> `x`) is caught within a single Apply call.
type ArithmeticSimplification struct{}

func (*ArithmeticSimplification) Name() string       { return "arithmetic-simplification" }
func (*ArithmeticSimplification) Requires() []string { return []string{"ccp"} }

func (p *ArithmeticSimplification) Apply(c *ir.Cfg) (bool, error) {
	changed := false
	t := &simplifier{}
	ir.TraverseCfg(c, func(n *ir.CfgNode) {
		for i, node := range n.Body {
			rewritten := ir.Transform(t, node)
			if rewritten != node {
				changed = true
			}
			n.Body[i] = rewritten
		}
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

type simplifier struct{ ir.IdentityTransformer }

func isConst(n ir.Node, v float64) bool {
	c, ok := n.(*ir.Const)
	return ok && c.Value == v
}

func (s *simplifier) TransformFunc(f *ir.Func) ir.Node {
	switch f.Name {
	case "Add":
		if len(f.Args) == 2 {
			if isConst(f.Args[0], 0) {
				return f.Args[1]
			}
			if isConst(f.Args[1], 0) {
				return f.Args[0]
			}
		}
	case "Subtract":
		if len(f.Args) == 2 {
			if isConst(f.Args[1], 0) {
				return f.Args[0]
			}
		}
	case "Multiply":
		if len(f.Args) == 2 {
			if isConst(f.Args[0], 0) || isConst(f.Args[1], 0) {
				return &ir.Const{Value: 0}
			}
			if isConst(f.Args[0], 1) {
				return f.Args[1]
			}
			if isConst(f.Args[1], 1) {
				return f.Args[0]
			}
		}
	case "Divide":
		if len(f.Args) == 2 && isConst(f.Args[1], 1) {
			return f.Args[0]
		}
	case "Negate":
		if len(f.Args) == 1 {
			if inner, ok := f.Args[0].(*ir.Func); ok && inner.Name == "Negate" && len(inner.Args) == 1 {
				return inner.Args[0]
			}
		}
	case "Not":
		if len(f.Args) == 1 {
			if inner, ok := f.Args[0].(*ir.Func); ok && inner.Name == "Not" && len(inner.Args) == 1 {
				return inner.Args[0]
			}
		}
	}
	return f
}
