package flatten

import (
	"fmt"
	"sort"

	"nodegraph/internal/blocks"
	"nodegraph/internal/compileerr"
	"nodegraph/internal/ir"
)

// EngineNode is one entry of the flattened, DAG-shaped node array the
// engine evaluates bottom-up: either a literal Value, or a Func call whose
// Args are indices into this same array. The acyclicity invariant every
// EngineNode must satisfy is that every entry in Args is strictly less
// than the node's own position in the array — so evaluating the array in
// index order always has every argument already computed.
type EngineNode struct {
	IsValue bool
	Value   float64
	Func    string
	Args    []int
}

func (n *EngineNode) String() string {
	if n.IsValue {
		return fmt.Sprintf("%g", n.Value)
	}
	return fmt.Sprintf("%s%v", n.Func, n.Args)
}

// interner structurally dedups EngineNodes: two requests for nodes with
// identical content return the same index, so a value referenced from
// multiple places in the source expression tree (e.g. a block base address
// used by several Get/Set calls) is only evaluated once by the runtime.
type interner struct {
	nodes []*EngineNode
	index map[string]int
}

func newInterner() *interner {
	return &interner{index: map[string]int{}}
}

func (in *interner) intern(key string, n *EngineNode) int {
	if idx, ok := in.index[key]; ok {
		return idx
	}
	idx := len(in.nodes)
	in.nodes = append(in.nodes, n)
	in.index[key] = idx
	return idx
}

// FinalizedCfg is the engine's consumable artifact: a single flat,
// interned EngineNode array plus the index of its root — the node a
// runtime should start evaluating. A packaging layer serializes Nodes
// as-is into the final artifact; Root tells it where to begin.
type FinalizedCfg struct {
	Nodes []*EngineNode
	Root  int
}

// GetEngineNodes lowers every block of f into a single Function("Execute",
// [body..., terminal]) node, then — if f has more than one block — wraps
// every block's Execute node into one Function("JumpLoop", execs...) so the
// whole function is a single tree rooted at one array entry. A single-block
// function has no need for the loop wrapper: its lone Execute node is the
// root directly.
func GetEngineNodes(f *FlatCfg) (*FinalizedCfg, error) {
	in := newInterner()
	execs := make([]int, len(f.Nodes))
	for i, block := range f.Nodes {
		idx, err := internBlock(in, block)
		if err != nil {
			return nil, err
		}
		execs[i] = idx
	}

	out := &FinalizedCfg{}
	switch {
	case len(execs) == 0:
		return nil, fmt.Errorf("flatten: cfg has no blocks")
	case len(execs) == 1:
		out.Root = execs[0]
	default:
		key := fmt.Sprintf("func:JumpLoop:%v", execs)
		out.Root = in.intern(key, &EngineNode{Func: "JumpLoop", Args: execs})
	}
	out.Nodes = in.nodes
	return out, validateAcyclic(out.Nodes)
}

// internBlock interns a block's body statements in order, then its
// terminal, and wraps both into one Execute node — the array's child
// indices are always interned strictly before the Execute node that
// references them, so the acyclicity invariant falls out of construction
// order rather than needing a separate topological pass.
func internBlock(in *interner, block *FlatCfgNode) (int, error) {
	args := make([]int, 0, len(block.Body)+1)
	for _, stmt := range block.Body {
		idx, err := internNode(in, stmt)
		if err != nil {
			return 0, err
		}
		args = append(args, idx)
	}
	terminal, err := internTerminal(in, block)
	if err != nil {
		return 0, err
	}
	args = append(args, terminal)
	key := fmt.Sprintf("func:Execute:%d:%v", block.Index, args)
	return in.intern(key, &EngineNode{Func: "Execute", Args: args}), nil
}

// internTerminal encodes a block's control-flow successor per the block's
// Default/Targets/Branch fields alone — it never re-derives this from Cfg
// edges directly, since FlatCfg has already reduced them to this shape:
//   - no successors: the block's own test value (or Value(-1) if it has
//     none — an exit block with no meaningful return value);
//   - exactly one, unconditional, successor: Value(successor index);
//   - exactly one conditional successor plus a default: a two-way
//     Function("If", [test, Value(true_idx), Value(false_idx)]);
//   - any other set of conditional successors (one without a default, or
//     several): an N-way
//     Function("Switch", [test, c1, Value(i1), c2, Value(i2), ...]),
//     using "SwitchWithDefault" instead when a default arm also exists
//     (the engine node algebra has no sentinel condition value to smuggle
//     a default in among ordinary numeric Switch conditions, so the extra
//     arm gets its own named builtin rather than an encoding hack).
func internTerminal(in *interner, block *FlatCfgNode) (int, error) {
	hasDefault := block.Default >= 0
	nTargets := len(block.Targets)

	if nTargets == 0 && !hasDefault {
		if block.Branch != nil {
			return internNode(in, block.Branch)
		}
		return internValue(in, -1), nil
	}
	if nTargets == 0 && hasDefault {
		return internValue(in, float64(block.Default)), nil
	}

	testIdx, err := internBranchTest(in, block)
	if err != nil {
		return 0, err
	}

	if nTargets == 1 && hasDefault {
		var trueIdx int
		for _, target := range block.Targets {
			trueIdx = target
		}
		args := []int{testIdx, internValue(in, float64(trueIdx)), internValue(in, float64(block.Default))}
		key := fmt.Sprintf("func:If:%v", args)
		return in.intern(key, &EngineNode{Func: "If", Args: args}), nil
	}

	conds := make([]float64, 0, nTargets)
	for c := range block.Targets {
		conds = append(conds, c)
	}
	sort.Float64s(conds)

	funcName := "Switch"
	if hasDefault {
		funcName = "SwitchWithDefault"
	}
	args := make([]int, 0, 2*nTargets+2)
	args = append(args, testIdx)
	for _, c := range conds {
		args = append(args, internValue(in, c), internValue(in, float64(block.Targets[c])))
	}
	if hasDefault {
		args = append(args, internValue(in, float64(block.Default)))
	}
	key := fmt.Sprintf("func:%s:%v", funcName, args)
	return in.intern(key, &EngineNode{Func: funcName, Args: args}), nil
}

// internBranchTest interns a block's test expression, falling back to
// Value(-1) for a branching block whose test was never set — a malformed
// input this repo's own builder never produces, but finalization must
// still handle any FlatCfg it's handed.
func internBranchTest(in *interner, block *FlatCfgNode) (int, error) {
	if block.Branch == nil {
		return internValue(in, -1), nil
	}
	return internNode(in, block.Branch)
}

func internValue(in *interner, v float64) int {
	return in.intern(fmt.Sprintf("const:%g", v), &EngineNode{IsValue: true, Value: v})
}

func internNode(in *interner, n ir.Node) (int, error) {
	switch v := n.(type) {
	case *ir.Const:
		return internValue(in, v.Value), nil
	case *ir.Comment:
		// Comments carry no runtime value; intern as an inert 0-valued
		// constant so callers that indexed into a body positionally
		// before dropping comments still have a slot to point at.
		return in.intern("comment:"+v.Text, &EngineNode{IsValue: true, Value: 0}), nil
	case *ir.Get:
		return internRefCall(in, "Get", v.Ref, nil)
	case *ir.Set:
		valIdx, err := internNode(in, v.Value)
		if err != nil {
			return 0, err
		}
		return internRefCall(in, "Set", v.Ref, []int{valIdx})
	case *ir.Func:
		args := make([]int, len(v.Args))
		for i, a := range v.Args {
			idx, err := internNode(in, a)
			if err != nil {
				return 0, err
			}
			args[i] = idx
		}
		key := fmt.Sprintf("func:%s:%v", v.Name, args)
		return in.intern(key, &EngineNode{Func: v.Name, Args: args}), nil
	default:
		return 0, fmt.Errorf("flatten: unsupported node type %T", n)
	}
}

// internRefCall encodes a Ref as two leading constant arguments (block
// index, offset) ahead of any value argument, so Get/Set calls carry their
// target the same uniform way every other builtin carries its operands.
func internRefCall(in *interner, op string, ref ir.Ref, extra []int) (int, error) {
	var block blocks.Block
	var offset float64
	switch r := ref.(type) {
	case *ir.TempRef:
		block, offset = r.Block, float64(r.Offset)
	case *ir.BlockRef:
		block, offset = r.Block, 0
	default:
		return 0, fmt.Errorf("flatten: ref %s was not allocated before finalization", ref.String())
	}
	blockIdx := internValue(in, float64(block))
	offIdx := internValue(in, offset)
	args := append([]int{blockIdx, offIdx}, extra...)
	key := fmt.Sprintf("ref:%s:%s:%v", op, ref.String(), args)
	return in.intern(key, &EngineNode{Func: op, Args: args}), nil
}

// validateAcyclic checks every node's acyclicity invariant: each argument
// index must be strictly less than the node's own index. The interner
// only ever appends a new node after all of its arguments have already
// been interned, so a violation here means a bug in internNode, not a
// malformed input program.
func validateAcyclic(nodes []*EngineNode) error {
	for i, n := range nodes {
		for _, a := range n.Args {
			if a >= i {
				return compileerr.CyclicEngineNode(i)
			}
		}
	}
	return nil
}
