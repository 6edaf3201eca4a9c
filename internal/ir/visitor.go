package ir

// Visitor walks a Node tree read-only. Each method returns after visiting
// the node's children; embed Visitor in a struct that overrides only the
// node kinds it cares about and delegates the rest to Walk.
type Visitor interface {
	VisitConst(*Const)
	VisitComment(*Comment)
	VisitFunc(*Func)
	VisitGet(*Get)
	VisitSet(*Set)
}

// Walk dispatches n to the matching Visitor method after recursing into any
// child Nodes, so a Visitor implementation never has to special-case
// recursion itself.
func Walk(v Visitor, n Node) {
	switch t := n.(type) {
	case *Const:
		v.VisitConst(t)
	case *Comment:
		v.VisitComment(t)
	case *Func:
		for _, a := range t.Args {
			Walk(v, a)
		}
		v.VisitFunc(t)
	case *Get:
		v.VisitGet(t)
	case *Set:
		Walk(v, t.Value)
		v.VisitSet(t)
	}
}

// Transformer rewrites a Node tree, returning a replacement for each node
// kind (typically the node itself, unchanged, when a transform doesn't
// apply). Transform recurses bottom-up so a Transformer only ever sees
// already-rewritten children.
type Transformer interface {
	TransformConst(*Const) Node
	TransformComment(*Comment) Node
	TransformFunc(*Func) Node
	TransformGet(*Get) Node
	TransformSet(*Set) Node
}

// Transform rewrites n bottom-up via t.
func Transform(t Transformer, n Node) Node {
	switch v := n.(type) {
	case *Const:
		return t.TransformConst(v)
	case *Comment:
		return t.TransformComment(v)
	case *Func:
		args := make([]Node, len(v.Args))
		for i, a := range v.Args {
			args[i] = Transform(t, a)
		}
		return t.TransformFunc(&Func{Name: v.Name, Args: args})
	case *Get:
		return t.TransformGet(v)
	case *Set:
		return t.TransformSet(&Set{Ref: v.Ref, Value: Transform(t, v.Value)})
	default:
		return n
	}
}

// IdentityTransformer is a Transformer base that returns every node
// unchanged; embed it and override only the methods a concrete transform
// needs, the same partial-override idiom as Visitor.
type IdentityTransformer struct{}

func (IdentityTransformer) TransformConst(c *Const) Node     { return c }
func (IdentityTransformer) TransformComment(c *Comment) Node { return c }
func (IdentityTransformer) TransformFunc(f *Func) Node       { return f }
func (IdentityTransformer) TransformGet(g *Get) Node         { return g }
func (IdentityTransformer) TransformSet(s *Set) Node         { return s }
