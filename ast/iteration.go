package ast

// Many runs Body zero or more times, greedily, and yields the collected
// slice of values. Body must consume input on every successful iteration —
// a Body that optimises to zero-consumption "pure" is a compile-time error
// (see compiler/optimise.go), since it would loop forever.
type Many struct {
	Base
	Body Child
}

func NewMany(body Thunk) *Many {
	return &Many{Base: NewBase(), Body: NewChild(body)}
}

// SkipMany is Many without collecting a result; it yields nothing of
// interest (callers ignore its value).
type SkipMany struct {
	Base
	Body Child
}

func NewSkipMany(body Thunk) *SkipMany {
	return &SkipMany{Base: NewBase(), Body: NewChild(body)}
}

// ChainPre parses zero or more prefix operators from Op (each a
// func(interface{}) interface{}), then one P, and applies the operators
// right to left around P's value: op1(op2(...(opN(x))...)).
type ChainPre struct {
	Base
	P  Child
	Op Child
}

func NewChainPre(p, op Thunk) *ChainPre {
	return &ChainPre{Base: NewBase(), P: NewChild(p), Op: NewChild(op)}
}

// ChainPost parses one P, then zero or more postfix operators from Op (each
// a func(interface{}) interface{}), and applies them left to right around
// P's value: opN(...(op2(op1(x)))...).
type ChainPost struct {
	Base
	P  Child
	Op Child
}

func NewChainPost(p, op Thunk) *ChainPost {
	return &ChainPost{Base: NewBase(), P: NewChild(p), Op: NewChild(op)}
}

// ChainLeft parses one P, then zero or more (Op P) pairs, left-associating:
// op(...op(op(p0, p1), p2)..., pn). Op is a func(a, b interface{}) interface{}.
type ChainLeft struct {
	Base
	P  Child
	Op Child
}

func NewChainLeft(p, op Thunk) *ChainLeft {
	return &ChainLeft{Base: NewBase(), P: NewChild(p), Op: NewChild(op)}
}

// ChainRight parses one P, then zero or more (Op P) pairs, right-associating:
// op(p0, op(p1, ...op(p(n-1), pn)...)). Op is a func(a, b interface{}) interface{}.
type ChainRight struct {
	Base
	P  Child
	Op Child
}

func NewChainRight(p, op Thunk) *ChainRight {
	return &ChainRight{Base: NewBase(), P: NewChild(p), Op: NewChild(op)}
}

// SepEndBy1 parses one or more P, separated (and optionally terminated) by
// Sep, and yields the collected slice of P's values.
type SepEndBy1 struct {
	Base
	P   Child
	Sep Child
}

func NewSepEndBy1(p, sep Thunk) *SepEndBy1 {
	return &SepEndBy1{Base: NewBase(), P: NewChild(p), Sep: NewChild(sep)}
}

// LoopSignal is the value a ManyUntil body must produce on every iteration:
// either "keep going, here is this iteration's contribution" (Done=false)
// or "stop the loop now" (Done=true; Value is ignored).
type LoopSignal struct {
	Done  bool
	Value interface{}
}

// ManyUntil runs Body repeatedly. Each iteration must yield a LoopSignal:
// while Done is false, Value is appended to the result slice and the loop
// continues; the first Done=true iteration ends the loop (without
// appending anything) and ManyUntil yields the accumulated slice.
type ManyUntil struct {
	Base
	Body Child
}

func NewManyUntil(body Thunk) *ManyUntil {
	return &ManyUntil{Base: NewBase(), Body: NewChild(body)}
}
