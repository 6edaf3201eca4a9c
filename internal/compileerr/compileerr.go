// Package compileerr defines the leveled diagnostics the backend emits.
// Unlike a source-level frontend, the backend has no file positions to
// attach to a diagnostic — its input is already a Statement tree — so each
// diagnostic carries a stable code and a free-form message only.
package compileerr

import "fmt"

// Level distinguishes a diagnostic that aborts compilation from one that is
// recorded but lets compilation proceed.
type Level int

const (
	LevelError Level = iota
	LevelWarning
)

func (l Level) String() string {
	if l == LevelWarning {
		return "warning"
	}
	return "error"
}

// Code is a stable identifier for a diagnostic kind, independent of its
// rendered message text.
type Code string

const (
	CodeUndefinedLabel      Code = "E001"
	CodeBreakOutsideLoop    Code = "E002"
	CodeContinueOutsideLoop Code = "E003"
	CodeReturnOutsideFunc   Code = "E004"
	CodeUnresolvedPhi       Code = "E005"
	CodeCyclicEngineNode    Code = "E006"
	CodeUnknownBuiltin      Code = "E007"
	CodeScopeMisuse         Code = "E008"

	WarnOversizedEntity       Code = "W001"
	WarnOutOfDeclaredBlock    Code = "W002"
	WarnUnreachableStatement  Code = "W003"
)

// Diagnostic is a single leveled compiler message.
type Diagnostic struct {
	Level   Level
	Code    Code
	Message string
}

func (d *Diagnostic) Error() string {
	return fmt.Sprintf("%s[%s]: %s", d.Level, d.Code, d.Message)
}

func newError(code Code, format string, args ...any) *Diagnostic {
	return &Diagnostic{Level: LevelError, Code: code, Message: fmt.Sprintf(format, args...)}
}

func newWarning(code Code, format string, args ...any) *Diagnostic {
	return &Diagnostic{Level: LevelWarning, Code: code, Message: fmt.Sprintf(format, args...)}
}

func UndefinedLabel(name string) *Diagnostic {
	return newError(CodeUndefinedLabel, "undefined label %q", name)
}

func BreakOutsideLoop(label string) *Diagnostic {
	return newError(CodeBreakOutsideLoop, "break to %q outside any enclosing loop", label)
}

func ContinueOutsideLoop(label string) *Diagnostic {
	return newError(CodeContinueOutsideLoop, "continue to %q outside any enclosing loop", label)
}

func ReturnOutsideFunc() *Diagnostic {
	return newError(CodeReturnOutsideFunc, "return statement outside any function body")
}

func UnresolvedPhi(blockID int) *Diagnostic {
	return newError(CodeUnresolvedPhi, "phi node in block %d has a predecessor with no incoming value", blockID)
}

func CyclicEngineNode(index int) *Diagnostic {
	return newError(CodeCyclicEngineNode, "engine node %d references an argument at or after its own index", index)
}

func UnknownBuiltin(name string) *Diagnostic {
	return newError(CodeUnknownBuiltin, "unknown builtin function %q", name)
}

// ScopeMisuse reports an attempt to use a scope after it has already ended
// (jumped, broken, continued, or returned from) — e.g. two statements both
// trying to terminate the same block, or appending a node to a block whose
// control flow has already been decided.
func ScopeMisuse(action string) *Diagnostic {
	return newError(CodeScopeMisuse, "scope already ended before %s", action)
}

func OversizedEntity(name string, size, limit int) *Diagnostic {
	return newWarning(WarnOversizedEntity, "entity %q occupies %d words, exceeding the recommended %d", name, size, limit)
}

func OutOfDeclaredBlock(block string, offset int) *Diagnostic {
	return newWarning(WarnOutOfDeclaredBlock, "access at offset %d falls outside the declared size of block %s", offset, block)
}

func UnreachableStatement() *Diagnostic {
	return newWarning(WarnUnreachableStatement, "statement is unreachable")
}

// Diagnostics accumulates diagnostics produced while building or optimizing
// a program. Warnings never stop compilation; the first error recorded is
// returned as the build's terminal error by the caller.
type Diagnostics struct {
	items []*Diagnostic
}

func (d *Diagnostics) Add(diag *Diagnostic) {
	d.items = append(d.items, diag)
}

func (d *Diagnostics) Errorf(code Code, format string, args ...any) {
	d.Add(newError(code, format, args...))
}

func (d *Diagnostics) Warnf(code Code, format string, args ...any) {
	d.Add(newWarning(code, format, args...))
}

// All returns every recorded diagnostic in emission order.
func (d *Diagnostics) All() []*Diagnostic {
	return d.items
}

// Errors returns only the error-level diagnostics.
func (d *Diagnostics) Errors() []*Diagnostic {
	var out []*Diagnostic
	for _, it := range d.items {
		if it.Level == LevelError {
			out = append(out, it)
		}
	}
	return out
}

// HasErrors reports whether any error-level diagnostic was recorded.
func (d *Diagnostics) HasErrors() bool {
	for _, it := range d.items {
		if it.Level == LevelError {
			return true
		}
	}
	return false
}

// FirstError returns the first error-level diagnostic, or nil if none.
func (d *Diagnostics) FirstError() *Diagnostic {
	for _, it := range d.items {
		if it.Level == LevelError {
			return it
		}
	}
	return nil
}
