package fixture

import (
	"strconv"

	"nodegraph/internal/ir"
	"nodegraph/internal/scope"
)

// lowerer tracks the fixture-local variable environment: each `let`
// mints a fresh SSARef, and every later read/write of that name resolves
// to the same ref. This is a flat (non-block-scoped) environment — fixture
// programs are small enough that shadowing was never a feature worth
// building.
type lowerer struct {
	vars   map[string]ir.Ref
	nextID int
}

// Lower parses nothing itself; it takes an already-parsed Program and
// produces the scope.Statement sequence internal/scope.BuildFunction
// consumes.
func Lower(prog *Program) []scope.Statement {
	l := &lowerer{vars: map[string]ir.Ref{}}
	return l.lowerBlock(prog.Statements)
}

func (l *lowerer) fresh() *ir.SSARef {
	r := &ir.SSARef{ID: l.nextID}
	l.nextID++
	return r
}

func (l *lowerer) lowerBlock(stmts []*Statement) []scope.Statement {
	out := make([]scope.Statement, 0, len(stmts))
	for _, s := range stmts {
		out = append(out, l.lowerStatement(s))
	}
	return out
}

func (l *lowerer) lowerStatement(s *Statement) scope.Statement {
	switch {
	case s.Let != nil:
		if call := asPackCall(s.Let.Expr); call != nil {
			args := make([]ir.Node, len(call.Args))
			for i, a := range call.Args {
				args[i] = l.lowerExpr(a)
			}
			agg := &ir.AggregateRef{Base: l.fresh(), Size: len(args)}
			l.vars[s.Let.Name] = agg
			return &scope.SetStatement{Ref: agg, Value: &ir.Func{Name: "Pack", Args: args}}
		}
		ref := l.fresh()
		l.vars[s.Let.Name] = ref
		return &scope.SetStatement{Ref: ref, Value: l.lowerExpr(s.Let.Expr)}
	case s.Assign != nil:
		ref := l.vars[s.Assign.Name]
		return &scope.SetStatement{Ref: ref, Value: l.lowerExpr(s.Assign.Expr)}
	case s.If != nil:
		return &scope.IfStatement{
			Cond: l.lowerExpr(s.If.Cond),
			Then: l.lowerBlock(s.If.Then),
			Else: l.lowerBlock(s.If.Else),
		}
	case s.While != nil:
		return &scope.WhileStatement{
			Label: s.While.Label,
			Cond:  l.lowerExpr(s.While.Cond),
			Body:  l.lowerBlock(s.While.Body),
		}
	case s.Break != nil:
		return &scope.BreakStatement{Label: s.Break.Label}
	case s.Continue != nil:
		return &scope.ContinueStatement{Label: s.Continue.Label}
	case s.Return != nil:
		var v ir.Node
		if s.Return.Expr != nil {
			v = l.lowerExpr(s.Return.Expr)
		}
		return &scope.ReturnStatement{Value: v}
	case s.Expr != nil:
		return &scope.ExecuteStatement{Value: l.lowerExpr(s.Expr.Expr)}
	default:
		panic("fixture: empty statement")
	}
}

// asPackCall reports whether e is, syntactically, nothing but a bare call
// to "Pack" — no enclosing operators — so a `let` binding can special-case
// it into an AggregateRef instead of an ordinary scalar SSARef. Peels
// through every precedence layer's single-child case; any operator at any
// level disqualifies it.
func asPackCall(e *Expr) *CallExpr {
	or := e.Or
	if len(or.Rest) != 0 {
		return nil
	}
	and := or.Left
	if len(and.Rest) != 0 {
		return nil
	}
	cmp := and.Left
	if cmp.Right != nil {
		return nil
	}
	add := cmp.Left
	if len(add.Ops) != 0 {
		return nil
	}
	mul := add.Left
	if len(mul.Ops) != 0 {
		return nil
	}
	unary := mul.Left
	if unary.Op != "" {
		return nil
	}
	if unary.Value.Call == nil || unary.Value.Call.Name != "Pack" {
		return nil
	}
	return unary.Value.Call
}

func (l *lowerer) lowerExpr(e *Expr) ir.Node {
	return l.lowerOr(e.Or)
}

func (l *lowerer) lowerOr(e *OrExpr) ir.Node {
	n := l.lowerAnd(e.Left)
	for _, r := range e.Rest {
		n = &ir.Func{Name: "Or", Args: []ir.Node{n, l.lowerAnd(r)}}
	}
	return n
}

func (l *lowerer) lowerAnd(e *AndExpr) ir.Node {
	n := l.lowerCmp(e.Left)
	for _, r := range e.Rest {
		n = &ir.Func{Name: "And", Args: []ir.Node{n, l.lowerCmp(r)}}
	}
	return n
}

var cmpOps = map[string]string{
	"==": "Equal", "!=": "NotEqual",
	"<": "Less", "<=": "LessOr",
	">": "Greater", ">=": "GreaterOr",
}

func (l *lowerer) lowerCmp(e *CmpExpr) ir.Node {
	left := l.lowerAdd(e.Left)
	if e.Right == nil {
		return left
	}
	return &ir.Func{Name: cmpOps[e.Right.Op], Args: []ir.Node{left, l.lowerAdd(e.Right.Right)}}
}

func (l *lowerer) lowerAdd(e *AddExpr) ir.Node {
	n := l.lowerMul(e.Left)
	for _, op := range e.Ops {
		name := "Add"
		if op.Op == "-" {
			name = "Subtract"
		}
		n = &ir.Func{Name: name, Args: []ir.Node{n, l.lowerMul(op.Right)}}
	}
	return n
}

func (l *lowerer) lowerMul(e *MulExpr) ir.Node {
	n := l.lowerUnary(e.Left)
	for _, op := range e.Ops {
		name := map[string]string{"*": "Multiply", "/": "Divide", "%": "Mod"}[op.Op]
		n = &ir.Func{Name: name, Args: []ir.Node{n, l.lowerUnary(op.Right)}}
	}
	return n
}

func (l *lowerer) lowerUnary(e *UnaryExpr) ir.Node {
	v := l.lowerPrimary(e.Value)
	if e.Op == "" {
		return v
	}
	name := "Negate"
	if e.Op == "!" {
		name = "Not"
	}
	return &ir.Func{Name: name, Args: []ir.Node{v}}
}

func (l *lowerer) lowerPrimary(e *PrimaryExpr) ir.Node {
	switch {
	case e.Call != nil:
		args := make([]ir.Node, len(e.Call.Args))
		for i, a := range e.Call.Args {
			args[i] = l.lowerExpr(a)
		}
		return &ir.Func{Name: e.Call.Name, Args: args}
	case e.Number != nil:
		v, _ := strconv.ParseFloat(*e.Number, 64)
		return &ir.Const{Value: v}
	case e.Ident != nil:
		return &ir.Get{Ref: l.vars[*e.Ident]}
	case e.Sub != nil:
		return l.lowerExpr(e.Sub)
	default:
		panic("fixture: empty primary expression")
	}
}
