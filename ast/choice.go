package ast

// Alt tries P; if P fails without consuming input, it tries Q instead. If P
// consumes input before failing, the failure is reported immediately — this
// is the "implicit cut" (see compiler/codegen.go and vm/execution.go).
type Alt struct {
	Base
	P Child
	Q Child
}

func NewAlt(p, q Thunk) *Alt {
	return &Alt{Base: NewBase(), P: NewChild(p), Q: NewChild(q)}
}

// Attempt runs P, but rewinds the input cursor to its entry point on
// failure regardless of how much input P consumed — converting any failure
// of P into a zero-consumption failure, so that an enclosing Alt always
// tries its other branch.
type Attempt struct {
	Base
	P Child
}

func NewAttempt(p Thunk) *Attempt {
	return &Attempt{Base: NewBase(), P: NewChild(p)}
}

// LookAhead runs P and, on success, rewinds the input cursor to its entry
// point while keeping P's value. On failure, it propagates the failure
// (input already having been rewound by the normal handler mechanism).
type LookAhead struct {
	Base
	P Child
}

func NewLookAhead(p Thunk) *LookAhead {
	return &LookAhead{Base: NewBase(), P: NewChild(p)}
}

// NotFollowedBy runs P; if P succeeds, NotFollowedBy fails (without
// consuming input); if P fails, NotFollowedBy succeeds without consuming
// input, yielding nothing of interest (callers ignore its value).
type NotFollowedBy struct {
	Base
	P        Child
	Expected string
}

func NewNotFollowedBy(p Thunk, expected string) *NotFollowedBy {
	return &NotFollowedBy{Base: NewBase(), P: NewChild(p), Expected: expected}
}

// Ternary selects P or Q at runtime based on the value produced by B, which
// must yield a bool.
type Ternary struct {
	Base
	B Child
	P Child
	Q Child
}

func NewTernary(b, p, q Thunk) *Ternary {
	return &Ternary{Base: NewBase(), B: NewChild(b), P: NewChild(p), Q: NewChild(q)}
}
