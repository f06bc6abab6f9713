package vm

import (
	"bytes"
	"errors"
	"fmt"
)

var (
	ErrEmptyValueStack   = errors.New("value stack underflow")
	ErrEmptyHandlerStack = errors.New("handler stack underflow")
	ErrEmptyCallStack    = errors.New("call stack underflow")
	ErrBadFrame          = errors.New("encountered a stack frame of the wrong kind")
	ErrRegisterRange     = errors.New("register index out of range")
	ErrExecutionHalted   = errors.New("execution already halted")
)

// RuntimeError is an error encountered while stepping a compiled Program.
// Outside of a compiler bug, this should never happen: a well-formed
// Program always leaves its stacks balanced, so a RuntimeError points at
// either a codegen defect or hand-assembled bytecode that violates the
// VM's stack discipline.
type RuntimeError struct {
	Err  error
	XP   int
	Code OpCode
}

func (e *RuntimeError) Error() string {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "parsley/vm: runtime error @ XP %d (%s): %v", e.XP, e.Code, e.Err)
	return buf.String()
}

func (e *RuntimeError) Unwrap() error { return e.Err }

// ParseError reports that a compiled Program failed to match the input. It
// is the user-facing failure result, distinct from RuntimeError, which
// signals an implementation bug rather than an unmatched grammar.
type ParseError struct {
	// Pos, Line, Col locate the furthest point of failure reached before
	// backtracking gave up, which is usually the most useful position to
	// report to a human even though the VM itself backtracked past it.
	Pos  int
	Line int
	Col  int

	// Expected lists the distinct labels contributed by leaves that could
	// have succeeded at Pos, deduplicated and in first-seen order.
	Expected []string
}

func (e *ParseError) Error() string {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "parse error at line %d, column %d", e.Line, e.Col)
	if len(e.Expected) > 0 {
		buf.WriteString(": expected ")
		for i, s := range e.Expected {
			if i > 0 {
				buf.WriteString(" or ")
			}
			buf.WriteString(s)
		}
	}
	return buf.String()
}
