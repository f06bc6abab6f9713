package charset

// denseLimit bounds the dense bitmap to the Latin-1 code-point range. Parser
// grammars overwhelmingly discriminate on ASCII punctuation and digits, so a
// 256-bit map covers the hot path; anything above denseLimit simply never
// sets a bit and Match correctly reports false for it by falling through to
// the set's own composition instead (see (*mIntersection) and (*mUnion),
// which only call asDense on matchers actually known to live in this range).
const denseLimit = 256

// DenseSet returns a Matcher that matches any of the given code points, all
// of which must be < denseLimit. It is intended for small, ASCII-range
// alphabets such as operator or punctuation classes.
//
// • Match performance: fast
//
// • ForEach performance: slow
//
// • Usefulness: broad, but only below U+0100.
func DenseSet(given ...rune) Matcher {
	m := &mDense{}
	for _, r := range given {
		if r < 0 || r >= denseLimit {
			panic("charset: DenseSet rune out of range")
		}
		index, mask := denseIM(r)
		m.Set[index] |= mask
	}
	return m
}

type mDense struct {
	Set [8]uint32
}

var _ Matcher = (*mDense)(nil)

func (m *mDense) Match(r rune) bool {
	if r < 0 || r >= denseLimit {
		return false
	}
	index, mask := denseIM(r)
	return (m.Set[index] & mask) == mask
}

func (m *mDense) ForEach(f func(r rune)) {
	for i := uint(0); i < 8; i++ {
		for j := uint(0); j < 32; j++ {
			mask := uint32(1) << j
			if (m.Set[i] & mask) == mask {
				f(rune(i<<5) | rune(j))
			}
		}
	}
}

func (m *mDense) Bounded() bool { return true }

func (m *mDense) Optimize() Matcher {
	var n uint
	var only rune
	m.ForEach(func(r rune) { n++; only = r })

	switch n {
	case 0:
		return None()
	case 1:
		return Exactly(only)
	}
	return m
}

func (m *mDense) String() string {
	return genericString(m)
}

func denseIM(r rune) (index uint, mask uint32) {
	i := uint(r) >> 5
	j := uint(r) & 0x1f
	mask = uint32(1) << j
	return i, mask
}
