package scope

import "nodegraph/internal/ir"

// ExecuteStatement evaluates Value purely for its side effects, discarding
// any result. It is always Static: it never introduces a block of its own,
// only appends to whatever scope it's given.
type ExecuteStatement struct {
	Value ir.Node
}

func (*ExecuteStatement) Static() bool { return true }

func (e *ExecuteStatement) Evaluate(s Scope) Scope {
	s.Add(e.Value)
	return s
}

// SetStatement stores Value at Ref. Static for the same reason as
// ExecuteStatement: a plain assignment never branches.
type SetStatement struct {
	Ref   ir.Ref
	Value ir.Node
}

func (*SetStatement) Static() bool { return true }

func (st *SetStatement) Evaluate(s Scope) Scope {
	s.AddSource(st.Ref, st.Value)
	return s
}

// IfStatement lowers to a two-way branch: Cond is evaluated in the
// incoming scope, then control splits into Then/Else, each lowered into
// its own fresh block, both of which rejoin into a single after-block that
// execution continues in. Never Static, since it always needs at least the
// split (and, when both arms are non-terminal, the merge).
type IfStatement struct {
	Cond ir.Node
	Then []Statement
	Else []Statement
}

func (*IfStatement) Static() bool { return false }

func (ifs *IfStatement) Evaluate(s Scope) Scope {
	b := active.builder()
	thenScope := b.NewScope()
	elseScope := b.NewScope()
	s.JumpCond(ifs.Cond, thenScope, elseScope)

	after := b.NewScope()

	cur := Scope(thenScope)
	for _, st := range ifs.Then {
		cur = st.Evaluate(cur)
	}
	cur.Jump(after)

	cur = Scope(elseScope)
	for _, st := range ifs.Else {
		cur = st.Evaluate(cur)
	}
	cur.Jump(after)

	return after
}

// WhileStatement lowers to a loop header block (re-evaluates Cond each
// iteration), a body that jumps back to the header, and an after-block
// both a false Cond and any Break inside the body target. Continue inside
// the body jumps back to the header directly, mirroring a
// condition-re-checked `while` rather than a `do`/`for`-style step block.
type WhileStatement struct {
	Label string
	Cond  ir.Node
	Body  []Statement
}

func (*WhileStatement) Static() bool { return false }

func (w *WhileStatement) Evaluate(s Scope) Scope {
	b := active.builder()
	header := b.NewScope()
	bodyScope := b.NewScope()
	after := b.NewScope()

	s.Jump(header)
	header.JumpCond(w.Cond, bodyScope, after)

	b.PushLoop(w.Label, after.NodeID(), header.NodeID())
	cur := Scope(bodyScope)
	for _, st := range w.Body {
		cur = st.Evaluate(cur)
	}
	b.PopLoop()
	cur.Jump(header)

	return after
}

// BreakStatement jumps to the after-block of the loop (or labeled loop)
// it is breaking out of. Always non-Static and always ends the enclosing
// sequence: whatever the caller passes as the returned scope's successor
// is DeadScope.
type BreakStatement struct {
	Label string
}

func (*BreakStatement) Static() bool { return false }

func (br *BreakStatement) Evaluate(s Scope) Scope {
	return s.Break(br.Label)
}

// ContinueStatement jumps to the header/step block of the loop (or labeled
// loop) it is continuing.
type ContinueStatement struct {
	Label string
}

func (*ContinueStatement) Static() bool { return false }

func (c *ContinueStatement) Evaluate(s Scope) Scope {
	return s.Continue(c.Label)
}

// ReturnStatement is lowered as Break("_function"): BuildFunction wraps
// every function body in an implicit loop labeled "_function" whose
// after-block is the function's single exit node, so Return reuses exactly
// the same label-stack machinery as a labeled break.
type ReturnStatement struct {
	Value ir.Node
}

func (*ReturnStatement) Static() bool { return false }

func (r *ReturnStatement) Evaluate(s Scope) Scope {
	if r.Value != nil {
		s.Add(r.Value)
	}
	return s.Break(functionExitLabel)
}

const functionExitLabel = "_function"
