// Package parsley is the public combinator surface: it wraps the ast
// constructors under the names a caller assembling a grammar actually
// reaches for, and provides the two entry points that turn a built-up
// Parser into a running parse — Compile, for a Program a caller wants to
// hold onto and Run repeatedly or concurrently, and Run, for a one-shot
// parse of a single Parser against a single input.
package parsley

import (
	"github.com/sunnyMiglani/Parsley/ast"
	"github.com/sunnyMiglani/Parsley/compiler"
	"github.com/sunnyMiglani/Parsley/vm"
)

// Parser is any node in the combinator tree. Callers build values of this
// type by composition and hand the result to Compile or Run; nothing in
// this package requires them to know the tree is closed underneath.
type Parser = ast.Node

// Pure always succeeds, consumes no input, and yields value.
func Pure(value interface{}) Parser { return ast.NewPure(value) }

// Empty always fails with no message, consuming no input.
func Empty() Parser { return ast.NewEmpty() }

// Fail always fails with msg as a user-supplied message, consuming no
// input.
func Fail(msg string) Parser { return ast.NewFail(msg) }

// Unexpected always fails, reporting msg as the unexpected thing found
// rather than as an expectation that went unmet.
func Unexpected(msg string) Parser { return ast.NewUnexpected(msg) }

// Attempt runs p; if p fails after consuming input, Attempt rewinds to
// where p started before propagating the failure, so a caller further up
// an Alt chain can still try an alternative.
func Attempt(p Parser) Parser { return ast.NewAttempt(ast.Lazy(p)) }

// LookAhead runs p and, on success, rewinds to where p started while
// keeping p's value; on failure it propagates the failure as-is (with
// whatever input p consumed before failing already rewound by the VM's
// ordinary backtracking).
func LookAhead(p Parser) Parser { return ast.NewLookAhead(ast.Lazy(p)) }

// NotFollowedBy succeeds, consuming no input, only when p fails; expected
// labels the negative expectation reported when p does succeed.
func NotFollowedBy(p Parser, expected string) Parser {
	return ast.NewNotFollowedBy(ast.Lazy(p), expected)
}

// Label overrides the Expected label p reports on failure when p is itself
// a leaf (a token, Satisfy, Eof, Empty or NotFollowedBy). When p is a
// combinator the label has no effect: the leaves beneath it keep their own
// labels.
func Label(p Parser, msg string) Parser { return ast.NewErrorRelabel(ast.Lazy(p), msg) }

// Many runs body repeatedly until an iteration fails, collecting each
// successful iteration's value into a []interface{}. A failing iteration
// ends the loop whether or not it consumed input first: the input is
// rewound to where that iteration began and Many succeeds with the values
// collected so far. body must
// consume input on every successful iteration; a body that can succeed
// without doing so makes Many loop forever, which Compile rejects.
func Many(body Parser) Parser { return ast.NewMany(ast.Lazy(body)) }

// SkipMany is Many without the collection: it runs body repeatedly for
// its side effects (register writes, consumed input) and discards each
// iteration's value, itself yielding no value of interest.
func SkipMany(body Parser) Parser { return ast.NewSkipMany(ast.Lazy(body)) }

// Sequence runs each of ps in order and collects their values into a
// []interface{} in the same order, failing as soon as any one of them
// does.
func Sequence(ps ...Parser) Parser {
	if len(ps) == 0 {
		return Pure([]interface{}{})
	}
	acc := ast.NewLift2(
		func(v, rest interface{}) interface{} {
			return append([]interface{}{v}, rest.([]interface{})...)
		},
		ast.Lazy(ps[0]),
		ast.Lazy(Sequence(ps[1:]...)),
	)
	return acc
}

// Traverse runs f(x) for every x in xs, in order, and collects the
// resulting parsers' values into a []interface{}, the applicative
// traverse of a plain Go slice.
func Traverse(xs []interface{}, f func(interface{}) Parser) Parser {
	ps := make([]Parser, len(xs))
	for i, x := range xs {
		ps[i] = f(x)
	}
	return Sequence(ps...)
}

// Join flattens a Parser whose value is itself a Parser, running the
// inner one and yielding its value. It is Bind with the identity
// continuation.
func Join(pp Parser) Parser {
	return ast.NewBind(ast.Lazy(pp), func(v interface{}) ast.Node {
		return v.(ast.Node)
	})
}

// Bind runs p for a value, then builds and runs k(value), yielding that
// parser's value.
func Bind(p Parser, k func(interface{}) Parser) Parser {
	return ast.NewBind(ast.Lazy(p), func(v interface{}) ast.Node { return k(v) })
}

// Line reads the current (zero-based) line number without consuming
// input.
func Line() Parser { return ast.NewLine() }

// Col reads the current (zero-based) column number without consuming
// input.
func Col() Parser { return ast.NewCol() }

// Get reads the current value of register reg without consuming input.
func Get(reg int) Parser { return ast.NewGet(reg) }

// Put runs p and stores its value in register reg.
func Put(reg int, p Parser) Parser { return ast.NewPut(reg, ast.Lazy(p)) }

// Modify applies fn to register reg's current value in place.
func Modify(reg int, fn func(interface{}) interface{}) Parser {
	return ast.NewModify(reg, fn, true)
}

// Local saves register reg, runs p and stores its value in reg, runs q
// with that value in scope, then restores reg to its saved value on
// every exit path before propagating q's outcome.
func Local(reg int, p, q Parser) Parser {
	return ast.NewLocal(reg, ast.Lazy(p), ast.Lazy(q))
}

// Compile lowers p to an executable Program. The returned Program is
// immutable and safe to Run concurrently.
func Compile(p Parser) *vm.Program {
	return compiler.Compile(p)
}

// Run compiles p and runs it once against input. Callers that will parse
// more than one input against the same grammar should call Compile once
// and reuse the resulting Program's Run method instead.
func Run(p Parser, input string) vm.Result {
	return Compile(p).Run(input, nil)
}
