// Package charset implements sets of Unicode code points, used by the
// parser compiler to recognize single-character classes and to extract the
// concrete leading code points of an alternation for jump-table dispatch.
//
// It is the rune-oriented counterpart of a byte-set matcher: the same
// algebra (exactly one value, ranges, sparse enumeration, a dense bitmap
// fast path, and/or/not combinators) but built over code points instead of
// bytes, since parser input is a code-point sequence rather than a byte
// stream.
package charset

// Matcher is a predicate that returns true for certain code points.
//
// Implementations of Matcher must not change their state on a call to
// Match: the compiler calls Match repeatedly while tablifying alternations
// and assumes it is side-effect free.
type Matcher interface {
	// Match returns true iff code point r is in the set.
	Match(r rune) bool

	// ForEach calls f exactly once for each code point in the set, in
	// ascending order. Implementations that represent unbounded or very
	// large sets (All, Not) may refuse to enumerate by calling f zero
	// times only when Bounded returns false; callers that need concrete
	// leads for tablification should check Bounded first.
	ForEach(f func(r rune))

	// Bounded reports whether ForEach is practical to call: true for
	// sets with a small, explicit membership (Exactly, Ranges, Sparse,
	// finite And/Or compositions thereof), false for All and for
	// negations of bounded sets (which are effectively "everything
	// else").
	Bounded() bool

	// Optimize returns a Matcher that matches the same set of code
	// points, but possibly in a more efficient representation. If no
	// better implementation can be found, returns this matcher.
	Optimize() Matcher

	// String returns a string representation of the set, used in
	// disassembly and error messages.
	String() string
}

type asDenser interface {
	asDense() Matcher
}

// Runes appends each code point matched by m to out, then returns the
// updated slice. Panics if m is not Bounded.
func Runes(m Matcher, out []rune) []rune {
	if !m.Bounded() {
		panic("charset: Runes called on unbounded matcher")
	}
	m.ForEach(func(r rune) { out = append(out, r) })
	return out
}

func asDense(m Matcher) Matcher {
	if md, ok := m.(*mDense); ok {
		return md
	}
	if mx, ok := m.(asDenser); ok {
		return mx.asDense()
	}
	mm := &mDense{}
	m.ForEach(func(r rune) {
		if r >= 0 && r < denseLimit {
			index, mask := denseIM(r)
			mm.Set[index] |= mask
		}
	})
	return mm
}
