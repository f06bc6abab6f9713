package charset

import "sort"

// Or returns a Matcher that matches iff any of the given Matchers match.
//
// • Match performance: moderate (limited by inner matchers)
//
// • ForEach performance: moderate (limited by inner matchers); Bounded iff
//   every inner matcher is Bounded.
//
// • Usefulness: situational. This is what Satisfy(set) callers reach for
//   when combining a handful of named classes.
func Or(ms ...Matcher) Matcher {
	l := make([]Matcher, len(ms))
	copy(l, ms)
	return &mUnion{List: l}
}

type mUnion struct {
	List []Matcher
}

var _ Matcher = (*mUnion)(nil)

func (m *mUnion) Match(r rune) bool {
	for _, sub := range m.List {
		if sub.Match(r) {
			return true
		}
	}
	return false
}

func (m *mUnion) ForEach(f func(r rune)) {
	seen := make(map[rune]struct{})
	var all []rune
	for _, sub := range m.List {
		sub.ForEach(func(r rune) {
			if _, found := seen[r]; !found {
				seen[r] = struct{}{}
				all = append(all, r)
			}
		})
	}
	sort.Sort(runeSlice(all))
	for _, r := range all {
		f(r)
	}
}

func (m *mUnion) Bounded() bool {
	for _, sub := range m.List {
		if !sub.Bounded() {
			return false
		}
	}
	return true
}

func (m *mUnion) Optimize() Matcher {
	if len(m.List) == 0 {
		return None()
	}
	if len(m.List) == 1 {
		return m.List[0].Optimize()
	}
	if m.Bounded() && fitsDense(m) {
		return asDense(m).Optimize()
	}
	return m
}

func (m *mUnion) String() string {
	return genericString(m)
}
