package charset

// Not returns a Matcher that inverts the given Matcher. The result is never
// Bounded, since "everything except a small set" is not practical to
// enumerate over the full code-point space.
//
// • Match performance: fast (limited by inner matcher)
//
// • ForEach performance: n/a (unbounded)
//
// • Usefulness: situational
func Not(m Matcher) Matcher {
	return &mNegation{Inner: m}
}

type mNegation struct {
	Inner Matcher
}

var _ Matcher = (*mNegation)(nil)

func (m *mNegation) Match(r rune) bool {
	return !m.Inner.Match(r)
}

func (m *mNegation) ForEach(f func(r rune)) {}

func (m *mNegation) Bounded() bool { return false }

func (m *mNegation) Optimize() Matcher {
	m.Inner = m.Inner.Optimize()
	switch sub := m.Inner.(type) {
	case *mAll:
		return None()
	case *mNone:
		return All()
	case *mNegation:
		return sub.Inner
	default:
		return m
	}
}

func (m *mNegation) String() string {
	return "!" + m.Inner.String()
}
