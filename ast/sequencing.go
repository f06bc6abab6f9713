package ast

// Apply is the applicative <*>: it runs Pf for a function value, then Px for
// an argument value, and yields Pf's function applied to Px's value.
type Apply struct {
	Base
	Pf Child
	Px Child
}

func NewApply(pf, px Thunk) *Apply {
	return &Apply{Base: NewBase(), Pf: NewChild(pf), Px: NewChild(px)}
}

// ThenRight runs P, discards its value, then runs Q and yields Q's value.
type ThenRight struct {
	Base
	P Child
	Q Child
}

func NewThenRight(p, q Thunk) *ThenRight {
	return &ThenRight{Base: NewBase(), P: NewChild(p), Q: NewChild(q)}
}

// ThenLeft runs P, then Q, discards Q's value, and yields P's value.
type ThenLeft struct {
	Base
	P Child
	Q Child
}

func NewThenLeft(p, q Thunk) *ThenLeft {
	return &ThenLeft{Base: NewBase(), P: NewChild(p), Q: NewChild(q)}
}

// Bind is the monadic continuation: it runs P for a value, then builds and
// runs the parser K(value) and yields that parser's value.
//
// Unlike every other composite node, K's result is not a static child: the
// parser it returns can depend on the runtime value P produced, so most of
// a Bind node can't be visited by preprocess/optimise ahead of time. Only
// one statically-known-p case in the optimise rule set (P is Pure, so K is
// applied at compile time) lets the compiler see through K; a CharTok or
// StringTok P is not seen through. Everything else is lowered by codeGen
// to a dynamic call that compiles K's result each time it is produced at
// runtime.
type Bind struct {
	Base
	P Child
	K func(interface{}) Node
}

func NewBind(p Thunk, k func(interface{}) Node) *Bind {
	return &Bind{Base: NewBase(), P: NewChild(p), K: k}
}

// Lift2 applies Fn to the values produced by P and Q, in order.
type Lift2 struct {
	Base
	Fn interface{} // func(a, b interface{}) interface{}
	P  Child
	Q  Child
}

func NewLift2(fn interface{}, p, q Thunk) *Lift2 {
	return &Lift2{Base: NewBase(), Fn: fn, P: NewChild(p), Q: NewChild(q)}
}

// Lift3 applies Fn to the values produced by P, Q, and R, in order.
type Lift3 struct {
	Base
	Fn interface{} // func(a, b, c interface{}) interface{}
	P  Child
	Q  Child
	R  Child
}

func NewLift3(fn interface{}, p, q, r Thunk) *Lift3 {
	return &Lift3{Base: NewBase(), Fn: fn, P: NewChild(p), Q: NewChild(q), R: NewChild(r)}
}
