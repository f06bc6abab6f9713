package compiler

import (
	"fmt"
	"reflect"
	"testing"

	"github.com/renstrom/dedent"
	"github.com/sunnyMiglani/Parsley/ast"
	"github.com/sunnyMiglani/Parsley/charset"
	"github.com/sunnyMiglani/Parsley/vm"
)

func run(t *testing.T, root ast.Node, input string) vm.Result {
	t.Helper()
	prog := Compile(root)
	ex := vm.NewExecution(prog, input, nil)
	return ex.Run()
}

func mustSucceed(t *testing.T, res vm.Result) {
	t.Helper()
	if !res.Success() {
		t.Fatalf("expected success, got error: %v", res.Err)
	}
}

func mustFail(t *testing.T, res vm.Result) {
	t.Helper()
	if res.Success() {
		t.Fatalf("expected failure, got value: %v", res.Value)
	}
}

// --- algebraic rewrite rules ---

func TestOptimiseThenRightDropsLeadingPure(t *testing.T) {
	n := ast.NewThenRight(ast.Lazy(ast.NewPure(1)), ast.Lazy(ast.NewCharTok('a')))
	opt := optimise(preprocess(n))
	if _, ok := opt.(*ast.CharTok); !ok {
		t.Fatalf("ThenRight(Pure, q) should rewrite to q, got %T", opt)
	}
}

func TestOptimiseThenLeftDropsTrailingPure(t *testing.T) {
	n := ast.NewThenLeft(ast.Lazy(ast.NewCharTok('a')), ast.Lazy(ast.NewPure(1)))
	opt := optimise(preprocess(n))
	if _, ok := opt.(*ast.CharTok); !ok {
		t.Fatalf("ThenLeft(p, Pure) should rewrite to p, got %T", opt)
	}
}

func TestOptimiseApplyFusesPureFunctionAndPureArgument(t *testing.T) {
	fn := func(v interface{}) interface{} { return v.(int) + 1 }
	n := ast.NewApply(ast.Lazy(ast.NewPure(fn)), ast.Lazy(ast.NewPure(41)))
	opt := optimise(preprocess(n))
	pure, ok := opt.(*ast.Pure)
	if !ok {
		t.Fatalf("Apply(Pure(f), Pure(x)) should rewrite to Pure(f(x)), got %T", opt)
	}
	if pure.Value.(int) != 42 {
		t.Fatalf("expected fused value 42, got %v", pure.Value)
	}
}

func TestOptimiseAltDropsUnlabeledEmptyLeft(t *testing.T) {
	n := ast.NewAlt(ast.Lazy(ast.NewEmpty()), ast.Lazy(ast.NewCharTok('a')))
	opt := optimise(preprocess(n))
	if _, ok := opt.(*ast.CharTok); !ok {
		t.Fatalf("Alt(Empty, q) should rewrite to q, got %T", opt)
	}
}

func TestOptimiseAttemptOfPureIsPure(t *testing.T) {
	n := ast.NewAttempt(ast.Lazy(ast.NewPure(7)))
	opt := optimise(preprocess(n))
	if _, ok := opt.(*ast.Pure); !ok {
		t.Fatalf("Attempt(Pure) should rewrite to Pure, got %T", opt)
	}
}

func TestOptimiseLookAheadOfPureIsPure(t *testing.T) {
	n := ast.NewLookAhead(ast.Lazy(ast.NewPure(7)))
	opt := optimise(preprocess(n))
	if _, ok := opt.(*ast.Pure); !ok {
		t.Fatalf("LookAhead(Pure) should rewrite to Pure, got %T", opt)
	}
}

// --- end-to-end VM behavior ---

func TestCharTokMatchesAndFails(t *testing.T) {
	n := ast.NewCharTok('a')
	mustSucceed(t, run(t, n, "a"))
	mustFail(t, run(t, n, "b"))
}

func TestAltTriesSecondBranchOnZeroConsumptionFailure(t *testing.T) {
	n := ast.NewAlt(ast.Lazy(ast.NewCharTok('a')), ast.Lazy(ast.NewCharTok('b')))
	res := run(t, n, "b")
	mustSucceed(t, res)
	if res.Value.(rune) != 'b' {
		t.Fatalf("expected 'b', got %v", res.Value)
	}
}

// This is the implicit-cut behavior ast.Alt's doc comment requires: once P
// has consumed input before failing, Alt must not try Q at all, even though
// Q would otherwise match from the original start position.
func TestAltImplicitCutPropagatesFailureAfterConsumption(t *testing.T) {
	p := ast.NewThenRight(ast.Lazy(ast.NewCharTok('a')), ast.Lazy(ast.NewSatisfySet(charset.Exactly('x'), "'x'")))
	q := ast.NewCharTok('a')
	n := ast.NewAlt(ast.Lazy(p), ast.Lazy(q))
	// 'x' is a Satisfy rather than a CharTok so that the optimiser's
	// char/char fusion does not turn P into one atomic StringTok "ax",
	// which would fail without consuming anything.
	// Input is "ab": P consumes 'a', then fails to match 'x' against 'b'.
	// Q would match the leading 'a', but the implicit cut must suppress it.
	mustFail(t, run(t, n, "ab"))
}

func TestAttemptRewindsConsumedInputOnFailure(t *testing.T) {
	p := ast.NewThenRight(ast.Lazy(ast.NewCharTok('a')), ast.Lazy(ast.NewSatisfySet(charset.Exactly('x'), "'x'")))
	n := ast.NewAlt(ast.Lazy(ast.NewAttempt(ast.Lazy(p))), ast.Lazy(ast.NewCharTok('a')))
	// Attempt converts P's consuming failure back into a zero-consumption
	// one, so the enclosing Alt's second branch gets a chance after all.
	res := run(t, n, "ab")
	mustSucceed(t, res)
	if res.Value.(rune) != 'a' {
		t.Fatalf("expected 'a', got %v", res.Value)
	}
}

func TestLookAheadRewindsOnSuccessButKeepsValue(t *testing.T) {
	n := ast.NewThenLeft(ast.Lazy(ast.NewLookAhead(ast.Lazy(ast.NewCharTok('a')))), ast.Lazy(ast.NewCharTok('a')))
	res := run(t, n, "a")
	mustSucceed(t, res)
	if res.Value.(rune) != 'a' {
		t.Fatalf("expected 'a', got %v", res.Value)
	}
}

func TestNotFollowedBySucceedsWhenPFails(t *testing.T) {
	n := ast.NewNotFollowedBy(ast.Lazy(ast.NewCharTok('a')), "not a")
	mustSucceed(t, run(t, n, "b"))
}

func TestNotFollowedByFailsWhenPSucceeds(t *testing.T) {
	n := ast.NewNotFollowedBy(ast.Lazy(ast.NewCharTok('a')), "not a")
	mustFail(t, run(t, n, "a"))
}

func TestManyCollectsZeroOrMore(t *testing.T) {
	n := ast.NewMany(ast.Lazy(ast.NewCharTok('a')))
	res := run(t, n, "aaab")
	mustSucceed(t, res)
	vals, ok := res.Value.([]interface{})
	if !ok || len(vals) != 3 {
		t.Fatalf("expected 3 collected values, got %#v", res.Value)
	}
}

func TestManyAcceptsZeroIterations(t *testing.T) {
	n := ast.NewThenLeft(ast.Lazy(ast.NewMany(ast.Lazy(ast.NewCharTok('a')))), ast.Lazy(ast.NewCharTok('b')))
	res := run(t, n, "b")
	mustSucceed(t, res)
}

func TestChainLeftAssociatesLeft(t *testing.T) {
	digit := ast.NewSatisfySet(charset.Ranges(charset.Range{Lo: '0', Hi: '9'}), "digit")
	toInt := func(v interface{}) interface{} { return int(v.(rune) - '0') }
	sub := func(a, b interface{}) interface{} { return a.(int) - b.(int) }
	opNode := ast.NewThenRight(ast.Lazy(ast.NewCharTok('-')), ast.Lazy(ast.NewPure(sub)))

	p := ast.NewApply(ast.Lazy(ast.NewPure(toInt)), ast.Lazy(digit))
	n := ast.NewChainLeft(ast.Lazy(p), ast.Lazy(opNode))
	res := run(t, n, "9-3-2")
	mustSucceed(t, res)
	if res.Value.(int) != 4 {
		t.Fatalf("expected (9-3)-2 = 4, got %v", res.Value)
	}
}

func TestChainRightAssociatesRight(t *testing.T) {
	digit := ast.NewSatisfySet(charset.Ranges(charset.Range{Lo: '0', Hi: '9'}), "digit")
	toInt := func(v interface{}) interface{} { return int(v.(rune) - '0') }
	pow := func(a, b interface{}) interface{} {
		base, exp := a.(int), b.(int)
		r := 1
		for i := 0; i < exp; i++ {
			r *= base
		}
		return r
	}
	opNode := ast.NewThenRight(ast.Lazy(ast.NewCharTok('^')), ast.Lazy(ast.NewPure(pow)))
	p := ast.NewApply(ast.Lazy(ast.NewPure(toInt)), ast.Lazy(digit))
	n := ast.NewChainRight(ast.Lazy(p), ast.Lazy(opNode))
	// 2^3^2 right-associates as 2^(3^2) = 2^9 = 512
	res := run(t, n, "2^3^2")
	mustSucceed(t, res)
	if res.Value.(int) != 512 {
		t.Fatalf("expected 2^(3^2) = 512, got %v", res.Value)
	}
}

func TestSepEndBy1CollectsWithoutTrailingSeparator(t *testing.T) {
	n := ast.NewSepEndBy1(ast.Lazy(ast.NewCharTok('a')), ast.Lazy(ast.NewCharTok(',')))
	res := run(t, n, "a,a,a")
	mustSucceed(t, res)
	vals := res.Value.([]interface{})
	if len(vals) != 3 {
		t.Fatalf("expected 3 values, got %d", len(vals))
	}
}

func TestSepEndBy1AcceptsTrailingSeparator(t *testing.T) {
	n := ast.NewThenLeft(ast.Lazy(ast.NewSepEndBy1(ast.Lazy(ast.NewCharTok('a')), ast.Lazy(ast.NewCharTok(',')))), ast.Lazy(ast.NewEof()))
	res := run(t, n, "a,a,")
	mustSucceed(t, res)
	vals := res.Value.([]interface{})
	if len(vals) != 2 {
		t.Fatalf("expected 2 values, got %d", len(vals))
	}
}

func TestManyUntilStopsOnDoneSignal(t *testing.T) {
	body := ast.NewApply(
		ast.Lazy(ast.NewPure(func(v interface{}) interface{} {
			r := v.(rune)
			if r == ';' {
				return ast.LoopSignal{Done: true}
			}
			return ast.LoopSignal{Done: false, Value: r}
		})),
		ast.Lazy(ast.NewSatisfySet(charset.All(), "any")),
	)
	n := ast.NewManyUntil(ast.Lazy(body))
	res := run(t, n, "ab;")
	mustSucceed(t, res)
	vals := res.Value.([]interface{})
	if len(vals) != 2 || vals[0].(rune) != 'a' || vals[1].(rune) != 'b' {
		t.Fatalf("expected [a b], got %#v", vals)
	}
}

func TestBindSelectsParserFromRuntimeValue(t *testing.T) {
	n := ast.NewBind(ast.Lazy(ast.NewCharTok('a')), func(v interface{}) ast.Node {
		if v.(rune) == 'a' {
			return ast.NewCharTok('1')
		}
		return ast.NewCharTok('2')
	})
	res := run(t, n, "a1")
	mustSucceed(t, res)
	if res.Value.(rune) != '1' {
		t.Fatalf("expected '1', got %v", res.Value)
	}
}

func TestTernarySelectsBranchFromRuntimeBool(t *testing.T) {
	n := ast.NewTernary(ast.Lazy(ast.NewPure(true)), ast.Lazy(ast.NewCharTok('a')), ast.Lazy(ast.NewCharTok('b')))
	res := run(t, n, "a")
	mustSucceed(t, res)
}

func TestGuardAcceptsMatchingAndRejectsOther(t *testing.T) {
	digit := ast.NewSatisfySet(charset.Ranges(charset.Range{Lo: '0', Hi: '9'}), "digit")
	n := ast.NewGuard(ast.Lazy(digit), func(v interface{}) bool { return v.(rune) != '0' }, "nonzero digit required")
	mustFail(t, run(t, n, "0"))
	res := run(t, n, "5")
	mustSucceed(t, res)
	if res.Value.(rune) != '5' {
		t.Fatalf("expected '5', got %v", res.Value)
	}
}

func TestEnsureAcceptsMatchingAndRejectsOther(t *testing.T) {
	digit := ast.NewSatisfySet(charset.Ranges(charset.Range{Lo: '0', Hi: '9'}), "digit")
	n := ast.NewEnsure(ast.Lazy(digit), func(v interface{}) bool { return v.(rune) != '0' })
	mustFail(t, run(t, n, "0"))
	mustSucceed(t, run(t, n, "5"))
}

func TestFastGuardFailsWithDynamicMessage(t *testing.T) {
	digit := ast.NewSatisfySet(charset.Ranges(charset.Range{Lo: '0', Hi: '9'}), "digit")
	n := ast.NewFastGuard(ast.Lazy(digit), func(v interface{}) bool { return v.(rune) != '0' }, func(v interface{}) string {
		return "nonzero digit"
	})
	mustFail(t, run(t, n, "0"))
	mustSucceed(t, run(t, n, "5"))
}

func TestFastFailAlwaysFailsWithComputedMessage(t *testing.T) {
	n := ast.NewFastFail(ast.Lazy(ast.NewCharTok('a')), func(v interface{}) string {
		return "saw " + string(v.(rune))
	})
	res := run(t, n, "a")
	mustFail(t, res)
}

// --- jump-table tablify path ---

func TestTablifyDispatchesLeafOnlyAltChain(t *testing.T) {
	n := ast.NewAlt(
		ast.Lazy(ast.NewAlt(ast.Lazy(ast.NewCharTok('a')), ast.Lazy(ast.NewCharTok('b')))),
		ast.Lazy(ast.NewCharTok('c')),
	)
	for _, in := range []string{"a", "b", "c"} {
		res := run(t, n, in)
		mustSucceed(t, res)
		if res.Value.(rune) != rune(in[0]) {
			t.Fatalf("input %q: expected %v, got %v", in, in[0], res.Value)
		}
	}
	mustFail(t, run(t, n, "d"))
}

func TestTablifyFallsBackWhenArmIsNotALeaf(t *testing.T) {
	// Second arm is a composite (ThenRight), not a leaf with a charset.Matcher,
	// so tryEmitJumpTable must decline and emitAlt's ordinary CHOICE path runs.
	n := ast.NewAlt(
		ast.Lazy(ast.NewCharTok('a')),
		ast.Lazy(ast.NewThenRight(ast.Lazy(ast.NewCharTok('b')), ast.Lazy(ast.NewCharTok('c')))),
	)
	mustSucceed(t, run(t, n, "a"))
	mustSucceed(t, run(t, n, "bc"))
	mustFail(t, run(t, n, "b"))
}

// --- registers / Local / Debug ---

func TestGetPutRoundTripsRegisterValue(t *testing.T) {
	n := ast.NewThenRight(
		ast.Lazy(ast.NewPut(0, ast.Lazy(ast.NewPure(5)))),
		ast.Lazy(ast.NewGet(0)),
	)
	res := run(t, n, "")
	mustSucceed(t, res)
	if res.Value.(int) != 5 {
		t.Fatalf("expected register value 5, got %v", res.Value)
	}
}

func TestLocalRestoresRegisterAfterScope(t *testing.T) {
	inner := ast.NewThenRight(
		ast.Lazy(ast.NewPut(0, ast.Lazy(ast.NewPure(99)))),
		ast.Lazy(ast.NewGet(0)),
	)
	n := ast.NewThenRight(
		ast.Lazy(ast.NewPut(0, ast.Lazy(ast.NewPure(1)))),
		ast.Lazy(ast.NewThenRight(
			ast.Lazy(ast.NewLocal(0, ast.Lazy(inner), ast.Lazy(ast.NewGet(0)))),
			ast.Lazy(ast.NewGet(0)),
		)),
	)
	res := run(t, n, "")
	mustSucceed(t, res)
	if res.Value.(int) != 1 {
		t.Fatalf("Local should restore register 0 to 1 after its scope, got %v", res.Value)
	}
}

func TestDebugDoesNotChangeParseOutcome(t *testing.T) {
	n := ast.NewDebug(ast.Lazy(ast.NewCharTok('a')), "leaf", ast.BreakNone)
	res := run(t, n, "a")
	mustSucceed(t, res)
	if res.Value.(rune) != 'a' {
		t.Fatalf("expected 'a', got %v", res.Value)
	}
}

// --- subroutine sharing ---

func TestSubroutineSharedBodyCompilesOnce(t *testing.T) {
	shared := ast.NewSubroutine(ast.Lazy(ast.NewCharTok('x')))
	n := ast.NewAlt(
		// The first arm is wrapped in Attempt: it consumes 'x' before failing
		// on "x2", and without Attempt Alt's implicit cut would not try the
		// second call site at all.
		ast.Lazy(ast.NewAttempt(ast.Lazy(ast.NewThenRight(ast.Lazy(shared), ast.Lazy(ast.NewCharTok('1')))))),
		ast.Lazy(ast.NewThenRight(ast.Lazy(shared), ast.Lazy(ast.NewCharTok('2')))),
	)
	mustSucceed(t, run(t, n, "x1"))
	mustSucceed(t, run(t, n, "x2"))
	mustFail(t, run(t, n, "y1"))
}

// --- token-layer literals ---

func TestKeywordRejectsIdentifierPrefix(t *testing.T) {
	n := ast.NewKeyword("if")
	mustSucceed(t, run(t, n, "if"))
	mustFail(t, run(t, n, "ifx"))
}

func TestStringLiteralHonorsEscapes(t *testing.T) {
	n := ast.NewStringLiteral('"', '\\')
	res := run(t, n, `"a\"b"`)
	mustSucceed(t, res)
	if res.Value.(string) != `a"b` {
		t.Fatalf("expected unescaped a\"b, got %v", res.Value)
	}
}

func TestRawStringLiteralHasNoEscapeProcessing(t *testing.T) {
	n := ast.NewRawStringLiteral('\'')
	res := run(t, n, `'a\'`)
	mustSucceed(t, res)
	if res.Value.(string) != `a\` {
		t.Fatalf("expected raw body a\\, got %v", res.Value)
	}
}

func TestDisassembleRendersOneLinePerInstruction(t *testing.T) {
	prog := Compile(ast.NewCharTok('a'))
	expected := fmt.Sprintf("%4d  %s\n%4d  %s\n", 0, prog.Instrs[0].String(), 1, prog.Instrs[1].String())
	if prog.Disassemble() != expected {
		t.Fatalf("unexpected disassembly:\n%s", prog.Disassemble())
	}
}

func TestMultilineInputMatchesLineByLine(t *testing.T) {
	input := dedent.Dedent(`
		ab
		cd
	`)[1:]
	line := ast.NewThenRight(ast.Lazy(ast.NewStringTok("ab")), ast.Lazy(ast.NewCharTok('\n')))
	both := ast.NewThenRight(ast.Lazy(line), ast.Lazy(ast.NewStringTok("cd")))
	res := run(t, both, input)
	mustSucceed(t, res)
	if res.Value.(string) != "cd" {
		t.Fatalf("expected final value %q, got %v", "cd", res.Value)
	}
}

func TestDisassembleIsStable(t *testing.T) {
	prog := Compile(ast.NewCharTok('a'))
	a := prog.Disassemble()
	b := prog.Disassemble()
	if a != b {
		t.Fatalf("Disassemble should be deterministic")
	}
}

func TestCloneIsIndependentInstructionSlice(t *testing.T) {
	prog := Compile(ast.NewCharTok('a'))
	clone := prog.Clone()
	clone.Instrs[0].Code = vm.OpNOP
	if reflect.DeepEqual(prog.Instrs, clone.Instrs) {
		t.Fatalf("Clone should not share backing array with the original")
	}
}
