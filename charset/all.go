package charset

// All returns a Matcher that matches every code point.
//
// • Match performance: fast
//
// • ForEach performance: n/a (unbounded)
//
// • Usefulness: situational
func All() Matcher { return singletonAll }

type mAll struct{}

var _ Matcher = (*mAll)(nil)
var singletonAll = &mAll{}

func (m *mAll) Match(r rune) bool        { return true }
func (m *mAll) ForEach(f func(r rune))   {}
func (m *mAll) Bounded() bool            { return false }
func (m *mAll) Optimize() Matcher        { return singletonAll }
func (m *mAll) String() string           { return "." }
