package charset

// And returns a Matcher that matches iff all of the given Matchers match.
//
// • Match performance: moderate (limited by inner matchers)
//
// • ForEach performance: moderate (limited by inner matchers); Bounded iff
//   at least one inner matcher is Bounded.
//
// • Usefulness: situational
func And(ms ...Matcher) Matcher {
	l := make([]Matcher, len(ms))
	copy(l, ms)
	return &mIntersection{List: l}
}

type mIntersection struct {
	List []Matcher
}

var _ Matcher = (*mIntersection)(nil)

func (m *mIntersection) Match(r rune) bool {
	for _, sub := range m.List {
		if !sub.Match(r) {
			return false
		}
	}
	return true
}

func (m *mIntersection) ForEach(f func(r rune)) {
	driver, rest := m.driver()
	if driver == nil {
		return
	}
	driver.ForEach(func(r rune) {
		for _, sub := range rest {
			if !sub.Match(r) {
				return
			}
		}
		f(r)
	})
}

func (m *mIntersection) Bounded() bool {
	driver, _ := m.driver()
	return driver != nil
}

// driver picks the first Bounded member in List to enumerate, filtering the rest
// by Match. Returns nil if no member is Bounded.
func (m *mIntersection) driver() (Matcher, []Matcher) {
	for i, sub := range m.List {
		if sub.Bounded() {
			rest := make([]Matcher, 0, len(m.List)-1)
			rest = append(rest, m.List[:i]...)
			rest = append(rest, m.List[i+1:]...)
			return sub, rest
		}
	}
	return nil, nil
}

func (m *mIntersection) Optimize() Matcher {
	if len(m.List) == 0 {
		return All()
	}
	if len(m.List) == 1 {
		return m.List[0].Optimize()
	}
	if m.Bounded() && fitsDense(m) {
		return asDense(m).Optimize()
	}
	return m
}

func (m *mIntersection) String() string {
	return genericString(m)
}
