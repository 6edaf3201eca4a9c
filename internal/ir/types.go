// Package ir defines the node-graph intermediate representation this
// compiler backend optimizes and flattens: a small sum-type expression
// language (Node), references into the engine's memory blocks (Ref), and a
// control-flow graph of basic blocks built from those nodes (Cfg).
package ir

import (
	"fmt"

	"nodegraph/internal/blocks"
)

// Node is the sum type of the IR's expression/statement forms. A Cfg node
// body is a sequence of Nodes; their results feed each other either through
// a Ref (a memory slot) or, before allocation, through an SSARef identity.
type Node interface {
	isNode()
	String() string
}

// Const is a literal numeric value. The engine has no integer type; every
// value, including booleans and block offsets, is a float64.
type Const struct {
	Value float64
}

func (*Const) isNode() {}
func (c *Const) String() string {
	if c.Value == float64(int64(c.Value)) {
		return fmt.Sprintf("%d", int64(c.Value))
	}
	return fmt.Sprintf("%g", c.Value)
}

// Comment carries a human-readable annotation with no runtime effect. Passes
// are free to drop Comments; none ever depend on one for correctness.
type Comment struct {
	Text string
}

func (*Comment) isNode() {}
func (c *Comment) String() string { return "# " + c.Text }

// Func calls a builtin or user function by name with positional arguments.
// A Func node may itself be a Ref's value (its result consumed elsewhere)
// or may be evaluated purely for effect (blocks.IsEffectful(Name)).
type Func struct {
	Name string
	Args []Node
}

func (*Func) isNode() {}
func (f *Func) String() string {
	s := f.Name + "("
	for i, a := range f.Args {
		if i > 0 {
			s += ", "
		}
		s += a.String()
	}
	return s + ")"
}

// Get reads the value currently stored at Ref.
type Get struct {
	Ref Ref
}

func (*Get) isNode() {}
func (g *Get) String() string { return "get(" + g.Ref.String() + ")" }

// Set stores Value at Ref and evaluates to Value (so Set can itself appear
// as an argument, mirroring the engine's expression-oriented assignment).
type Set struct {
	Ref   Ref
	Value Node
}

func (*Set) isNode() {}
func (s *Set) String() string { return "set(" + s.Ref.String() + ", " + s.Value.String() + ")" }

// Ref is the sum type of locations a Get/Set can address.
type Ref interface {
	isRef()
	String() string
	// Equal reports structural equality, used when merging duplicate refs
	// (coalescing, aggregate splitting) and when looking up phi slots.
	Equal(Ref) bool
}

// TempRef addresses a single word in one of the engine's memory blocks at a
// fixed offset. This is the vast majority of refs once allocation has run;
// before allocation, SSARef is used instead for values that don't yet have a
// fixed memory home.
type TempRef struct {
	Block  blocks.Block
	Offset int
}

func (*TempRef) isRef() {}
func (t *TempRef) String() string { return fmt.Sprintf("%s[%d]", t.Block, t.Offset) }
func (t *TempRef) Equal(o Ref) bool {
	other, ok := o.(*TempRef)
	return ok && other.Block == t.Block && other.Offset == t.Offset
}

// BlockRef addresses the base address of an entire memory block, used when
// a function needs the block's address itself rather than a word in it
// (e.g. to pass to a builtin that takes a pointer).
type BlockRef struct {
	Block blocks.Block
}

func (*BlockRef) isRef() {}
func (b *BlockRef) String() string { return fmt.Sprintf("&%s", b.Block) }
func (b *BlockRef) Equal(o Ref) bool {
	other, ok := o.(*BlockRef)
	return ok && other.Block == b.Block
}

// AggregateRef addresses Size consecutive not-yet-allocated words as a
// single unit, used for struct/vector-shaped values built and consumed
// through the "Pack" builtin. AggregateToScalar splits every AggregateRef
// it can prove is only ever accessed as a whole into Size individual
// SSARefs, after which nothing in the Cfg references it and it is dropped.
type AggregateRef struct {
	Base *SSARef
	Size int
}

func (*AggregateRef) isRef() {}
func (a *AggregateRef) String() string { return fmt.Sprintf("%s{%d}", a.Base.String(), a.Size) }
func (a *AggregateRef) Equal(o Ref) bool {
	other, ok := o.(*AggregateRef)
	return ok && other.Base.Equal(a.Base) && other.Size == a.Size
}

// Slot returns the individual SSARef AggregateToScalar assigns to word i of
// this aggregate (0 <= i < Size).
func (a *AggregateRef) Slot(i int) *SSARef {
	return &SSARef{ID: a.Base.ID*1_000_000 + i}
}

// SSARef identifies a not-yet-allocated temporary by a unique integer id.
// The CFG builder mints a fresh SSARef for every value produced before
// Allocate runs; Allocate rewrites every SSARef into a TempRef.
type SSARef struct {
	ID int
}

func (*SSARef) isRef() {}
func (s *SSARef) String() string { return fmt.Sprintf("%%%d", s.ID) }
func (s *SSARef) Equal(o Ref) bool {
	other, ok := o.(*SSARef)
	return ok && other.ID == s.ID
}

// InlineRef is a Ref that wraps a Node value instead of naming a memory
// location. Two InlineRefs are Equal only when both wrap a Const of the
// same value.
type InlineRef struct {
	Value Node
}

func (*InlineRef) isRef() {}
func (i *InlineRef) String() string { return "inline(" + i.Value.String() + ")" }
func (i *InlineRef) Equal(o Ref) bool {
	other, ok := o.(*InlineRef)
	if !ok {
		return false
	}
	oc, ok1 := other.Value.(*Const)
	ic, ok2 := i.Value.(*Const)
	return ok1 && ok2 && oc.Value == ic.Value
}
