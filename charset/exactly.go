package charset

// Exactly returns a Matcher that matches one specific code point.
//
// • Match performance: fast
//
// • ForEach performance: fast
//
// • Usefulness: this is what the compiler emits for a single-character
//   literal, such as the discriminator of a CharTok leaf.
func Exactly(r rune) Matcher {
	return &mExact{Rune: r}
}

type mExact struct{ Rune rune }

var _ Matcher = (*mExact)(nil)

func (m *mExact) Match(r rune) bool {
	return r == m.Rune
}

func (m *mExact) ForEach(f func(r rune)) {
	f(m.Rune)
}

func (m *mExact) Bounded() bool { return true }

func (m *mExact) Optimize() Matcher {
	return m
}

func (m *mExact) String() string {
	return genericString(m)
}

func (m *mExact) asDense() Matcher {
	mm := &mDense{}
	if m.Rune >= 0 && m.Rune < denseLimit {
		index, mask := denseIM(m.Rune)
		mm.Set[index] = mask
	}
	return mm
}
