package interp

import "nodegraph/internal/ir"

// Reader resolves the current value of a ref during partial evaluation, or
// reports ok=false when the ref's value isn't known at compile time.
type Reader func(ref ir.Ref) (value float64, ok bool)

// Eval partially evaluates n: it folds every PureBuiltins call and Get
// whose operands are all statically known, and returns ok=false the moment
// it hits anything it can't resolve (an effectful call, a Get the Reader
// doesn't know, or an unrecognized builtin name).
// internal/passes.ConditionalConstantPropagation does not call Eval; it
// reads PureBuiltins directly from its own lattice evaluator.
func Eval(n ir.Node, read Reader) (value float64, ok bool) {
	switch v := n.(type) {
	case *ir.Const:
		return v.Value, true
	case *ir.Get:
		if read == nil {
			return 0, false
		}
		return read(v.Ref)
	case *ir.Func:
		impl, known := PureBuiltins[v.Name]
		if !known {
			return 0, false
		}
		args := make([]float64, len(v.Args))
		for i, a := range v.Args {
			val, ok := Eval(a, read)
			if !ok {
				return 0, false
			}
			args[i] = val
		}
		return impl(args)
	default:
		return 0, false
	}
}
