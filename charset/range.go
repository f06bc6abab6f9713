package charset

import (
	"sort"
)

// Range represents a range of consecutive code points.
//
// If Lo < Hi, this Range represents Lo, Lo+1, ..., Hi-1, Hi.
//
// If Lo == Hi, this Range represents the single code point Lo.
//
// If Lo > Hi, this Range represents the null set.
type Range struct {
	Lo rune
	Hi rune
}

// Ranges returns a Matcher that matches any code point that falls in one of
// the given Range entries.
//
// • Match performance: moderate
//
// • ForEach performance: fast
//
// • Usefulness: broad
//
// This is usually the best choice for things like "ASCII letter" or "decimal
// digit", where the set is a handful of contiguous spans.
func Ranges(rs ...Range) Matcher {
	return makeRange(rs)
}

type mRange struct {
	Ranges []Range
}

var _ Matcher = (*mRange)(nil)

func (m *mRange) Match(r rune) bool {
	i := sort.Search(len(m.Ranges), func(i int) bool {
		return m.Ranges[i].Hi >= r
	})
	if i >= len(m.Ranges) {
		return false
	}
	rr := m.Ranges[i]
	return rr.Lo <= r && r <= rr.Hi
}

func (m *mRange) ForEach(f func(r rune)) {
	for _, rr := range m.Ranges {
		for x := rr.Lo; x <= rr.Hi; x++ {
			f(x)
		}
	}
}

func (m *mRange) Bounded() bool { return true }

func (m *mRange) Optimize() Matcher {
	if len(m.Ranges) == 0 {
		return None()
	}
	if len(m.Ranges) == 1 && m.Ranges[0].Lo == m.Ranges[0].Hi {
		return Exactly(m.Ranges[0].Lo)
	}
	return m
}

func (m *mRange) String() string {
	return genericString(m)
}

func (m *mRange) asDense() Matcher {
	mm := &mDense{}
	for _, rr := range m.Ranges {
		lo, hi := rr.Lo, rr.Hi
		if lo < 0 {
			lo = 0
		}
		if hi >= denseLimit {
			hi = denseLimit - 1
		}
		for x := lo; x <= hi; x++ {
			index, mask := denseIM(x)
			mm.Set[index] |= mask
		}
	}
	return mm
}

func makeRange(rs []Range) *mRange {
	rs = coalesceRanges(rs)
	return &mRange{Ranges: rs}
}

func coalesceRanges(a []Range) []Range {
	// Because (*mRange).Match makes some assumptions for efficiency, we
	// have to guarantee that:
	//
	// - All Range entries have Lo <= Hi
	// - There are no overlapping Range entries
	// - The Range entries are sorted by Lo
	//
	// Since we're already doing all this work, adjacent-but-non-overlapping
	// ranges get coalesced into a single range too.
	b := make([]Range, 0, len(a))
	for _, r := range a {
		if r.Hi >= r.Lo {
			b = append(b, r)
		}
	}
	sort.Sort(rangeSlice(b))

	if len(b) < 2 {
		return b
	}

	c := make([]Range, 0, len(b))
	var lastHi rune
	var have bool
	for _, r := range b {
		switch {
		case have && lastHi >= r.Hi:
			// fully overlapping; discard
		case have && lastHi+1 >= r.Lo:
			c[len(c)-1].Hi = r.Hi
			lastHi = r.Hi
		default:
			c = append(c, r)
			lastHi = r.Hi
			have = true
		}
	}
	return c
}
