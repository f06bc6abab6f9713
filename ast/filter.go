package ast

// Ensure runs P, then keeps its value only if Pred accepts it; otherwise
// the whole node fails with no particular message (as if by Empty).
type Ensure struct {
	Base
	P    Child
	Pred func(interface{}) bool
}

func NewEnsure(p Thunk, pred func(interface{}) bool) *Ensure {
	return &Ensure{Base: NewBase(), P: NewChild(p), Pred: pred}
}

// Guard runs P, then keeps its value only if Pred accepts it; otherwise it
// fails with the fixed user Message (as if by Fail(Message)).
type Guard struct {
	Base
	P       Child
	Pred    func(interface{}) bool
	Message string
}

func NewGuard(p Thunk, pred func(interface{}) bool, msg string) *Guard {
	return &Guard{Base: NewBase(), P: NewChild(p), Pred: pred, Message: msg}
}

// FastGuard is Guard with a message computed from the rejected value by Gen
// (func(interface{}) string), rather than a fixed string.
type FastGuard struct {
	Base
	P    Child
	Pred func(interface{}) bool
	Gen  func(interface{}) string
}

func NewFastGuard(p Thunk, pred func(interface{}) bool, gen func(interface{}) string) *FastGuard {
	return &FastGuard{Base: NewBase(), P: NewChild(p), Pred: pred, Gen: gen}
}
