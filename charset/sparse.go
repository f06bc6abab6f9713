package charset

import (
	"sort"
)

// SparseSet returns a Matcher that matches any of the given code points.
//
// • Match performance: fast
//
// • ForEach performance: moderate
//
// • Usefulness: broad
//
// This is usually the best choice for a small set of unrelated code points,
// such as the first characters of a handful of keywords.
func SparseSet(given ...rune) Matcher {
	set := make(map[rune]struct{}, len(given))
	for _, r := range given {
		set[r] = struct{}{}
	}
	return &mSparse{Set: set}
}

type mSparse struct {
	Set map[rune]struct{}
}

var _ Matcher = (*mSparse)(nil)

func (m *mSparse) Match(r rune) bool {
	_, found := m.Set[r]
	return found
}

func (m *mSparse) ForEach(f func(r rune)) {
	sorted := make([]rune, 0, len(m.Set))
	for r := range m.Set {
		sorted = append(sorted, r)
	}
	sort.Sort(runeSlice(sorted))
	for _, r := range sorted {
		f(r)
	}
}

func (m *mSparse) Bounded() bool { return true }

func (m *mSparse) Optimize() Matcher {
	if len(m.Set) == 0 {
		return None()
	}
	if len(m.Set) == 1 {
		for r := range m.Set {
			return Exactly(r)
		}
	}
	return m
}

func (m *mSparse) String() string {
	return genericString(m)
}

func (m *mSparse) asDense() Matcher {
	mm := &mDense{}
	for r := range m.Set {
		if r >= 0 && r < denseLimit {
			index, mask := denseIM(r)
			mm.Set[index] |= mask
		}
	}
	return mm
}
