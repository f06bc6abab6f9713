package ast

// Put runs P and stores its value in register Reg, discarding the value
// (callers ignore Put's own result).
type Put struct {
	Base
	Reg int
	P   Child
}

func NewPut(reg int, p Thunk) *Put {
	checkRegister(reg)
	return &Put{Base: NewBase(), Reg: reg, P: NewChild(p)}
}

// Local saves register Reg's current value, runs P and stores its result
// in Reg, runs Q with that value in place, and — on every exit path,
// success or failure alike — restores Reg to its saved value before
// propagating Q's outcome.
type Local struct {
	Base
	Reg int
	P   Child
	Q   Child
}

func NewLocal(reg int, p, q Thunk) *Local {
	checkRegister(reg)
	return &Local{Base: NewBase(), Reg: reg, P: NewChild(p), Q: NewChild(q)}
}
