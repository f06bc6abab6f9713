package parsley

import "testing"

func TestRunSucceedsOnPureValue(t *testing.T) {
	res := Run(Pure("ok"), "")
	if !res.Success() || res.Value != "ok" {
		t.Fatalf("expected success with %q, got %v / %v", "ok", res.Value, res.Err)
	}
}

func TestSequenceCollectsValuesInOrder(t *testing.T) {
	res := Run(Sequence(Pure(1), Pure(2), Pure(3)), "")
	if !res.Success() {
		t.Fatalf("expected success, got %v", res.Err)
	}
	got, ok := res.Value.([]interface{})
	if !ok || len(got) != 3 || got[0] != 1 || got[1] != 2 || got[2] != 3 {
		t.Fatalf("expected [1 2 3], got %v", res.Value)
	}
}

func TestSequenceOfNoParsersYieldsEmptySlice(t *testing.T) {
	res := Run(Sequence(), "")
	if !res.Success() {
		t.Fatalf("expected success, got %v", res.Err)
	}
	got, ok := res.Value.([]interface{})
	if !ok || len(got) != 0 {
		t.Fatalf("expected an empty slice, got %v", res.Value)
	}
}

func TestTraverseAppliesFunctionToEachElement(t *testing.T) {
	xs := []interface{}{1, 2, 3}
	p := Traverse(xs, func(x interface{}) Parser {
		return Pure(x.(int) * 10)
	})
	res := Run(p, "")
	if !res.Success() {
		t.Fatalf("expected success, got %v", res.Err)
	}
	got, ok := res.Value.([]interface{})
	if !ok || len(got) != 3 || got[0] != 10 || got[1] != 20 || got[2] != 30 {
		t.Fatalf("expected [10 20 30], got %v", res.Value)
	}
}

func TestJoinFlattensNestedParser(t *testing.T) {
	inner := Pure(Pure(42))
	res := Run(Join(inner), "")
	if !res.Success() || res.Value != 42 {
		t.Fatalf("expected 42, got %v / %v", res.Value, res.Err)
	}
}

func TestBindSelectsContinuationFromValue(t *testing.T) {
	p := Bind(Pure(true), func(v interface{}) Parser {
		if v.(bool) {
			return Pure("yes")
		}
		return Pure("no")
	})
	res := Run(p, "")
	if !res.Success() || res.Value != "yes" {
		t.Fatalf("expected \"yes\", got %v / %v", res.Value, res.Err)
	}
}

func TestLocalRestoresRegisterAfterUse(t *testing.T) {
	p := Sequence(
		Put(0, Pure(1)),
		Local(0, Pure(99), Get(0)),
		Get(0),
	)
	res := Run(p, "")
	if !res.Success() {
		t.Fatalf("expected success, got %v", res.Err)
	}
	got := res.Value.([]interface{})
	if got[1] != 99 || got[2] != 1 {
		t.Fatalf("expected Local's value 99 then restored register 1, got %v", got)
	}
}

func TestModifyUpdatesRegisterInPlace(t *testing.T) {
	p := Sequence(
		Put(0, Pure(10)),
		Modify(0, func(v interface{}) interface{} { return v.(int) + 5 }),
		Get(0),
	)
	res := Run(p, "")
	if !res.Success() {
		t.Fatalf("expected success, got %v", res.Err)
	}
	got := res.Value.([]interface{})
	if got[2] != 15 {
		t.Fatalf("expected register 0 to be 15 after Modify, got %v", got)
	}
}

func TestFailPropagatesMessage(t *testing.T) {
	res := Run(Fail("boom"), "")
	if res.Success() {
		t.Fatalf("expected failure")
	}
}

func TestLabelOverridesExpectedMessage(t *testing.T) {
	res := Run(Label(Empty(), "a widget"), "")
	if res.Success() {
		t.Fatalf("expected failure")
	}
}

func TestCompileReturnsReusableProgram(t *testing.T) {
	prog := Compile(Pure(7))
	a := prog.Run("", nil)
	b := prog.Run("", nil)
	if a.Value != 7 || b.Value != 7 {
		t.Fatalf("expected both runs to yield 7, got %v and %v", a.Value, b.Value)
	}
}
