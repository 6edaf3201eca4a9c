package passes

import (
	"nodegraph/internal/interp"
	"nodegraph/internal/ir"
)

// latticeKind is the three-point lattice conditional constant propagation
// reasons over: a ref's value at a program point is either not yet known
// (undef, the optimistic starting assumption), a single known constant, or
// provably not a single constant (not-a-constant, once two predecessors
// disagree).
type latticeKind int

const (
	undef latticeKind = iota
	constVal
	notAConst
)

type lattice struct {
	kind latticeKind
	val  float64
}

func meet(a, b lattice) lattice {
	if a.kind == undef {
		return b
	}
	if b.kind == undef {
		return a
	}
	if a.kind == notAConst || b.kind == notAConst {
		return lattice{kind: notAConst}
	}
	if a.val == b.val {
		return a
	}
	return lattice{kind: notAConst}
}

// ConditionalConstantPropagation folds Get(ref) reads into Const nodes
// wherever every reaching definition of ref agrees on a single value, and
// folds calls to purely arithmetic builtins whose arguments are all
// constant. It is conservative about branches: it does not prune edges
// itself (that is BasicDeadCodeElimination's job, driven by reachability)
// — it only replaces values, leaving the Cfg's shape untouched.
type ConditionalConstantPropagation struct{}

func (*ConditionalConstantPropagation) Name() string     { return "ccp" }
func (*ConditionalConstantPropagation) Requires() []string { return nil }

func (p *ConditionalConstantPropagation) Apply(c *ir.Cfg) (bool, error) {
	envOut := map[int]map[string]lattice{}
	order := ir.TraversePreorder(c)
	if len(order) == 0 {
		return false, nil
	}

	// Converge envOut to a fixed point first (pure analysis, no rewriting
	// yet) so that folding below sees the final, not an intermediate,
	// lattice state.
	for pass := 0; pass < len(order)+2; pass++ {
		stable := true
		for _, id := range order {
			n := c.Nodes[id]
			env := map[string]lattice{}
			for _, e := range c.EdgesTo(id) {
				if out, ok := envOut[e.From]; ok {
					for k, v := range out {
						env[k] = meet(env[k], v)
					}
				}
			}
			out := simulate(n, env)
			if !envEqual(out, envOut[id]) {
				stable = false
			}
			envOut[id] = out
		}
		if stable {
			break
		}
	}

	changed := false
	for _, id := range order {
		n := c.Nodes[id]
		env := map[string]lattice{}
		for _, e := range c.EdgesTo(id) {
			if out, ok := envOut[e.From]; ok {
				for k, v := range out {
					env[k] = meet(env[k], v)
				}
			}
		}
		local := copyEnv(env)
		for i, node := range n.Body {
			folded := foldNode(node, local)
			if folded != node {
				changed = true
			}
			n.Body[i] = folded
			applyEffect(folded, local)
		}
		if n.Branch != nil {
			folded := foldNode(n.Branch, local)
			if folded != n.Branch {
				changed = true
			}
			n.Branch = folded
		}
	}
	return changed, nil
}

// simulate computes the outgoing lattice env of a node given its incoming
// env, without mutating the node — used during the analysis-only
// convergence loop above.
func simulate(n *ir.CfgNode, in map[string]lattice) map[string]lattice {
	env := copyEnv(in)
	for _, node := range n.Body {
		applyEffect(node, env)
	}
	return env
}

// applyEffect updates env for any Set node's target; evalLattice itself
// never mutates env, so Set handling lives in the one place that walks a
// body (simulate, and the rewriting loop in Apply) matching.
func applyEffect(n ir.Node, env map[string]lattice) {
	if s, ok := n.(*ir.Set); ok {
		env[s.Ref.String()] = evalLattice(s.Value, env)
	}
}

// evalLattice computes the lattice value of an expression without
// rewriting it.
func evalLattice(n ir.Node, env map[string]lattice) lattice {
	switch v := n.(type) {
	case *ir.Const:
		return lattice{kind: constVal, val: v.Value}
	case *ir.Get:
		if l, ok := env[v.Ref.String()]; ok {
			return l
		}
		return lattice{kind: notAConst}
	case *ir.Func:
		return evalFunc(v, env)
	default:
		return lattice{kind: notAConst}
	}
}

// foldNode replaces n with a Const node when it evaluates to a known
// constant in env, recursing into Func arguments first so nested
// expressions fold bottom-up.
func foldNode(n ir.Node, env map[string]lattice) ir.Node {
	switch v := n.(type) {
	case *ir.Get:
		if l, ok := env[v.Ref.String()]; ok && l.kind == constVal {
			return &ir.Const{Value: l.val}
		}
		return n
	case *ir.Func:
		args := make([]ir.Node, len(v.Args))
		anyChanged := false
		for i, a := range v.Args {
			args[i] = foldNode(a, env)
			if args[i] != a {
				anyChanged = true
			}
		}
		folded := &ir.Func{Name: v.Name, Args: args}
		if l := evalFunc(folded, env); l.kind == constVal {
			return &ir.Const{Value: l.val}
		}
		if anyChanged {
			return folded
		}
		return n
	case *ir.Set:
		return &ir.Set{Ref: v.Ref, Value: foldNode(v.Value, env)}
	default:
		return n
	}
}

func copyEnv(env map[string]lattice) map[string]lattice {
	out := make(map[string]lattice, len(env))
	for k, v := range env {
		out[k] = v
	}
	return out
}

func envEqual(a, b map[string]lattice) bool {
	if len(a) != len(b) {
		return false
	}
	for k, v := range a {
		if b[k] != v {
			return false
		}
	}
	return true
}

// evalFunc consults interp's PureBuiltins table — CCP never maintains its
// own copy of builtin semantics — folding only when every argument is
// already a known constant in env. Multiply is the one exception: a zero
// argument determines the result regardless of whatever the other
// arguments are, so it short-circuits to Const(0) even while a sibling
// argument is still a Get of some non-constant ref.
func evalFunc(f *ir.Func, env map[string]lattice) lattice {
	if f.Name == "Multiply" {
		for _, a := range f.Args {
			if l := evalLattice(a, env); l.kind == constVal && l.val == 0 {
				return lattice{kind: constVal, val: 0}
			}
		}
	}

	impl, ok := interp.PureBuiltins[f.Name]
	if !ok {
		return lattice{kind: notAConst}
	}
	args := make([]float64, len(f.Args))
	for i, a := range f.Args {
		l := evalLattice(a, env)
		if l.kind != constVal {
			return lattice{kind: notAConst}
		}
		args[i] = l.val
	}
	v, ok := impl(args)
	if !ok {
		return lattice{kind: notAConst}
	}
	return lattice{kind: constVal, val: v}
}
