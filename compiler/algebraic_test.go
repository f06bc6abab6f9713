package compiler

import (
	"math/rand"
	"testing"

	"github.com/sunnyMiglani/Parsley/ast"
	"github.com/sunnyMiglani/Parsley/charset"
)

// fuzzedCorpus is a deterministic pseudo-random sample of short inputs over
// a small alphabet. §8's algebraic laws must hold as an *observed* parse
// outcome — success/value or failure — on every one of these inputs, not
// as a syntactic comparison of the two sides' trees (the optimiser may
// rewrite either side into a completely different shape).
func fuzzedCorpus() []string {
	const alphabet = "ab01,^-"
	r := rand.New(rand.NewSource(1))
	corpus := []string{"", "a", "b", "0", "9", "5"}
	for i := 0; i < 40; i++ {
		n := r.Intn(6)
		buf := make([]byte, n)
		for j := range buf {
			buf[j] = alphabet[r.Intn(len(alphabet))]
		}
		corpus = append(corpus, string(buf))
	}
	return corpus
}

// assertSameOutcome compiles and runs both sides against every input in
// the corpus, failing on the first input where they disagree on
// success/failure or on the produced value.
func assertSameOutcome(t *testing.T, name string, lhs, rhs func() ast.Node, corpus []string) {
	t.Helper()
	for _, in := range corpus {
		a := run(t, lhs(), in)
		b := run(t, rhs(), in)
		if a.Success() != b.Success() {
			t.Fatalf("%s: input %q: success mismatch: lhs success=%v (err=%v), rhs success=%v (err=%v)",
				name, in, a.Success(), a.Err, b.Success(), b.Err)
		}
		if a.Success() && a.Value != b.Value {
			t.Fatalf("%s: input %q: value mismatch: lhs=%#v rhs=%#v", name, in, a.Value, b.Value)
		}
	}
}

func digitParser() ast.Node {
	return ast.NewSatisfySet(charset.Ranges(charset.Range{Lo: '0', Hi: '9'}), "digit")
}

func digitAsInt() ast.Node {
	toInt := func(v interface{}) interface{} { return int(v.(rune) - '0') }
	return ast.NewApply(ast.Lazy(ast.NewPure(toInt)), ast.Lazy(digitParser()))
}

func TestLawFunctorIdentity(t *testing.T) {
	id := func(v interface{}) interface{} { return v }
	assertSameOutcome(t, "functor identity",
		func() ast.Node { return ast.NewApply(ast.Lazy(ast.NewPure(id)), ast.Lazy(digitParser())) },
		func() ast.Node { return digitParser() },
		fuzzedCorpus())
}

func TestLawFunctorComposition(t *testing.T) {
	f := func(v interface{}) interface{} { return v.(int) + 1 }
	g := func(v interface{}) interface{} { return v.(int) * 2 }
	fg := func(v interface{}) interface{} { return f(g(v)) }
	assertSameOutcome(t, "functor composition",
		func() ast.Node {
			return ast.NewApply(ast.Lazy(ast.NewPure(f)), ast.Lazy(ast.NewApply(ast.Lazy(ast.NewPure(g)), ast.Lazy(digitAsInt()))))
		},
		func() ast.Node { return ast.NewApply(ast.Lazy(ast.NewPure(fg)), ast.Lazy(digitAsInt())) },
		fuzzedCorpus())
}

func TestLawApplicativeIdentity(t *testing.T) {
	id := func(v interface{}) interface{} { return v }
	assertSameOutcome(t, "applicative identity",
		func() ast.Node { return ast.NewApply(ast.Lazy(ast.NewPure(id)), ast.Lazy(digitAsInt())) },
		func() ast.Node { return digitAsInt() },
		fuzzedCorpus())
}

func TestLawApplicativeHomomorphism(t *testing.T) {
	f := func(v interface{}) interface{} { return v.(int) + 1 }
	assertSameOutcome(t, "applicative homomorphism",
		func() ast.Node { return ast.NewApply(ast.Lazy(ast.NewPure(f)), ast.Lazy(ast.NewPure(41))) },
		func() ast.Node { return ast.NewPure(f(41)) },
		fuzzedCorpus())
}

func TestLawApplicativeInterchange(t *testing.T) {
	// u is a parser that reads a digit and produces a function adding it.
	curryAdd := func(v interface{}) interface{} {
		x := v.(int)
		return func(y interface{}) interface{} { return x + y.(int) }
	}
	u := func() ast.Node { return ast.NewApply(ast.Lazy(ast.NewPure(curryAdd)), ast.Lazy(digitAsInt())) }
	const x = 7
	flip := func(fv interface{}) interface{} {
		fn := fv.(func(interface{}) interface{})
		return fn(x)
	}
	assertSameOutcome(t, "applicative interchange",
		func() ast.Node { return ast.NewApply(ast.Lazy(u()), ast.Lazy(ast.NewPure(x))) },
		func() ast.Node { return ast.NewApply(ast.Lazy(ast.NewPure(flip)), ast.Lazy(u())) },
		fuzzedCorpus())
}

func TestLawMonadLeftIdentity(t *testing.T) {
	k := func(v interface{}) ast.Node { return ast.NewPure(v.(int) + 1) }
	assertSameOutcome(t, "monad left identity",
		func() ast.Node { return ast.NewBind(ast.Lazy(ast.NewPure(41)), k) },
		func() ast.Node { return k(41) },
		fuzzedCorpus())
}

func TestLawMonadRightIdentity(t *testing.T) {
	pureK := func(v interface{}) ast.Node { return ast.NewPure(v) }
	assertSameOutcome(t, "monad right identity",
		func() ast.Node { return ast.NewBind(ast.Lazy(digitAsInt()), pureK) },
		func() ast.Node { return digitAsInt() },
		fuzzedCorpus())
}

func TestLawMonadAssociativity(t *testing.T) {
	g := func(v interface{}) ast.Node { return ast.NewPure(v.(int) + 1) }
	k := func(v interface{}) ast.Node { return ast.NewPure(v.(int) * 2) }
	assertSameOutcome(t, "monad associativity",
		func() ast.Node {
			return ast.NewBind(ast.Lazy(ast.NewBind(ast.Lazy(digitAsInt()), g)), k)
		},
		func() ast.Node {
			return ast.NewBind(ast.Lazy(digitAsInt()), func(x interface{}) ast.Node {
				return ast.NewBind(ast.Lazy(g(x)), k)
			})
		},
		fuzzedCorpus())
}

func TestLawAlternativeLeftCatch(t *testing.T) {
	assertSameOutcome(t, "alternative left-catch",
		func() ast.Node { return ast.NewAlt(ast.Lazy(ast.NewPure(9)), ast.Lazy(digitAsInt())) },
		func() ast.Node { return ast.NewPure(9) },
		fuzzedCorpus())
}

func TestLawAlternativeAssociativity(t *testing.T) {
	u := func() ast.Node { return ast.NewCharTok('a') }
	v := func() ast.Node { return ast.NewCharTok('b') }
	w := func() ast.Node { return ast.NewCharTok('c') }
	assertSameOutcome(t, "alternative associativity",
		func() ast.Node { return ast.NewAlt(ast.Lazy(ast.NewAlt(ast.Lazy(u()), ast.Lazy(v()))), ast.Lazy(w())) },
		func() ast.Node { return ast.NewAlt(ast.Lazy(u()), ast.Lazy(ast.NewAlt(ast.Lazy(v()), ast.Lazy(w())))) },
		fuzzedCorpus())
}

func TestLawEmptyIdentity(t *testing.T) {
	corpus := fuzzedCorpus()
	assertSameOutcome(t, "empty identity (left)",
		func() ast.Node { return ast.NewAlt(ast.Lazy(ast.NewEmpty()), ast.Lazy(digitAsInt())) },
		func() ast.Node { return digitAsInt() },
		corpus)
	assertSameOutcome(t, "empty identity (right)",
		func() ast.Node { return ast.NewAlt(ast.Lazy(digitAsInt()), ast.Lazy(ast.NewEmpty())) },
		func() ast.Node { return digitAsInt() },
		corpus)
}
