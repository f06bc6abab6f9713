package charset

// None returns a Matcher that never matches any code point.
//
// • Match performance: fast
//
// • ForEach performance: fast
//
// • Usefulness: situational
func None() Matcher { return singletonNone }

type mNone struct{}

var _ Matcher = (*mNone)(nil)
var singletonNone = &mNone{}

func (m *mNone) Match(r rune) bool      { return false }
func (m *mNone) ForEach(f func(r rune)) {}
func (m *mNone) Bounded() bool          { return true }
func (m *mNone) Optimize() Matcher      { return singletonNone }
func (m *mNone) String() string         { return "[]" }
