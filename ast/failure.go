package ast

// Empty fails immediately, consuming no input and contributing no label to
// the expected set (unless wrapped in an ErrorRelabel, in which case the
// label is absorbed during preprocess like any other leaf).
type Empty struct {
	Base
	Expected string
}

func NewEmpty() *Empty { return &Empty{Base: NewBase()} }

func (n *Empty) WithExpected(label string) *Empty {
	return &Empty{Base: n.Base, Expected: label}
}

func (*Empty) mzero() {}

// Fail fails immediately with a fixed user message, consuming no input.
type Fail struct {
	Base
	Message string
}

func NewFail(msg string) *Fail { return &Fail{Base: NewBase(), Message: msg} }

func (*Fail) mzero() {}

// Unexpected fails immediately with a fixed "unexpected" message,
// consuming no input.
type Unexpected struct {
	Base
	Message string
}

func NewUnexpected(msg string) *Unexpected { return &Unexpected{Base: NewBase(), Message: msg} }

func (*Unexpected) mzero() {}

// FastFail runs P, then always fails with a message computed from P's
// value by Gen (func(interface{}) string). P itself still consumes input
// as normal before the failure is raised.
type FastFail struct {
	Base
	P   Child
	Gen func(interface{}) string
}

func NewFastFail(p Thunk, gen func(interface{}) string) *FastFail {
	return &FastFail{Base: NewBase(), P: NewChild(p), Gen: gen}
}

func (*FastFail) mzero() {}

// FastUnexpected is FastFail's "unexpected" counterpart: it runs P, then
// always fails with an unexpected-message computed from P's value.
type FastUnexpected struct {
	Base
	P   Child
	Gen func(interface{}) string
}

func NewFastUnexpected(p Thunk, gen func(interface{}) string) *FastUnexpected {
	return &FastUnexpected{Base: NewBase(), P: NewChild(p), Gen: gen}
}

func (*FastUnexpected) mzero() {}
