package charset

import (
	"regexp"
	"testing"

	"github.com/sergi/go-diff/diffmatchpatch"
)

type matchRow struct {
	Input    rune
	Expected bool
}

func runMatchTests(t *testing.T, m Matcher, data []matchRow) {
	t.Helper()
	for i, row := range data {
		actual := m.Match(row.Input)
		if row.Expected != actual {
			t.Errorf("%s/%03d: %q: expected %v, got %v", t.Name(), i, row.Input, row.Expected, actual)
		}
	}
}

func runForEachTests(t *testing.T, m Matcher, expected []rune) {
	t.Helper()
	if !m.Bounded() {
		t.Fatalf("%s: matcher is not Bounded", t.Name())
	}
	actual := make([]rune, 0, len(expected))
	m.ForEach(func(r rune) {
		actual = append(actual, r)
	})
	if string(actual) == string(expected) {
		return
	}
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMainRunes(expected, actual, false)
	pretty := dmp.DiffPrettyText(diffs)
	nl := regexp.MustCompile(`(?m)^`)
	pretty = nl.ReplaceAllLiteralString(pretty, "\t")
	t.Errorf("%s: wrong output:\n%s", t.Name(), pretty)
}

func TestAll_Match(t *testing.T) {
	m := All()
	runMatchTests(t, m, []matchRow{
		{'0', true},
		{'A', true},
		{'z', true},
		{' ', true},
		{'ÿ', true},
		{'中', true},
	})
}

func TestNone_Match(t *testing.T) {
	m := None()
	runMatchTests(t, m, []matchRow{
		{'0', false},
		{'A', false},
	})
	runForEachTests(t, m, nil)
}

func TestExactly(t *testing.T) {
	m := Exactly('q')
	runMatchTests(t, m, []matchRow{
		{'q', true},
		{'Q', false},
		{'r', false},
	})
	runForEachTests(t, m, []rune{'q'})
	if got := m.Optimize(); got != m {
		t.Errorf("Exactly.Optimize should be a fixed point, got %v", got)
	}
}

func TestRanges(t *testing.T) {
	m := Ranges(Range{'0', '9'}, Range{'a', 'f'}, Range{'A', 'F'})
	runMatchTests(t, m, []matchRow{
		{'0', true},
		{'9', true},
		{'a', true},
		{'f', true},
		{'A', true},
		{'g', false},
		{'G', false},
		{' ', false},
	})
	var want []rune
	for r := rune('0'); r <= '9'; r++ {
		want = append(want, r)
	}
	for r := rune('A'); r <= 'F'; r++ {
		want = append(want, r)
	}
	for r := rune('a'); r <= 'f'; r++ {
		want = append(want, r)
	}
	runForEachTests(t, m, want)
}

func TestRanges_Coalesce(t *testing.T) {
	m := Ranges(Range{'a', 'c'}, Range{'d', 'f'}, Range{'b', 'e'}).(*mRange)
	if len(m.Ranges) != 1 || m.Ranges[0] != (Range{'a', 'f'}) {
		t.Errorf("expected coalesced [a-f], got %v", m.Ranges)
	}
}

func TestSparseSet(t *testing.T) {
	m := SparseSet('+', '-', '*', '/')
	runMatchTests(t, m, []matchRow{
		{'+', true},
		{'-', true},
		{'%', false},
	})
	runForEachTests(t, m, []rune{'*', '+', '-', '/'})
}

func TestDenseSet(t *testing.T) {
	m := DenseSet('a', 'e', 'i', 'o', 'u')
	runMatchTests(t, m, []matchRow{
		{'a', true},
		{'b', false},
		{'u', true},
	})
	runForEachTests(t, m, []rune{'a', 'e', 'i', 'o', 'u'})
}

func TestDenseSet_OutOfRangePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Errorf("expected panic for out-of-range rune")
		}
	}()
	DenseSet('中')
}

func TestAnd(t *testing.T) {
	digits := Ranges(Range{'0', '9'})
	notNine := Not(Exactly('9'))
	m := And(digits, notNine)
	runMatchTests(t, m, []matchRow{
		{'5', true},
		{'9', false},
		{'a', false},
	})
	if !m.Bounded() {
		t.Fatalf("intersection with a bounded member should be Bounded")
	}
}

func TestOr(t *testing.T) {
	m := Or(Exactly('+'), Exactly('-'))
	runMatchTests(t, m, []matchRow{
		{'+', true},
		{'-', true},
		{'*', false},
	})
	runForEachTests(t, m, []rune{'+', '-'})
}

func TestOr_UnboundedMember(t *testing.T) {
	m := Or(Exactly('+'), Not(Exactly('-')))
	if m.Bounded() {
		t.Errorf("union with an unbounded member must not be Bounded")
	}
}

func TestNot(t *testing.T) {
	m := Not(Exactly('x'))
	runMatchTests(t, m, []matchRow{
		{'x', false},
		{'y', true},
	})
	if m.Bounded() {
		t.Errorf("Not should never be Bounded")
	}
}

func TestNot_OptimizeDoubleNegation(t *testing.T) {
	inner := Exactly('x')
	m := Not(Not(inner))
	opt := m.Optimize()
	if opt != inner {
		t.Errorf("expected double negation to cancel, got %v", opt)
	}
}

func TestWideRangeSurvivesOptimize(t *testing.T) {
	// A range straddling denseLimit (256) must not be silently truncated
	// by Optimize's dense fast path.
	m := Or(Ranges(Range{200, 300}), Exactly(500))
	opt := m.Optimize()
	if !opt.Match(200) || !opt.Match(300) || !opt.Match(500) {
		t.Errorf("Optimize dropped members outside the dense range")
	}
	if opt.Match(301) {
		t.Errorf("Optimize matched a rune that should be excluded")
	}
}
