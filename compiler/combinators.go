package compiler

import (
	"github.com/sunnyMiglani/Parsley/ast"
	"github.com/sunnyMiglani/Parsley/vm"
)

// emitAlt implements Alt's implicit cut: the CHOICE frame guarding P is
// marked Cut, so fail() only backtracks into Q if P failed without
// consuming input; a failure of P that did consume input skips past this
// frame and keeps propagating outward, per ast.Alt's doc comment.
//
// Before falling back to that general shape, it first tries to tablify: a
// chain of Alt nodes whose every arm is a single leaf with an enumerable
// leading-rune set compiles to one JUMPTABLE dispatch instead of an
// n-deep CHOICE/COMMIT probe chain.
func (cs *codegenState) emitAlt(v *ast.Alt) {
	if cs.tryEmitJumpTable(v) {
		return
	}
	l1 := cs.a.newLabel()
	l2 := cs.a.newLabel()
	cs.a.markLabel(cs.a.emit(vm.Instruction{Code: vm.OpCHOICE, Arg0: 1}), l1)
	p := v.P.Get()
	q := v.Q.Get()
	cs.emitSeq(
		func() { cs.emit(p) },
		func() {
			cs.a.markLabel(cs.a.emit(vm.Instruction{Code: vm.OpCOMMIT}), l2)
			cs.a.here(l1)
		},
		func() { cs.emit(q) },
		func() { cs.a.here(l2) },
	)
}

// emitAttempt runs P, keeping its value and consumed input on success, and
// on failure lets the position already rewound by fail() propagate
// outward unchanged.
func (cs *codegenState) emitAttempt(v *ast.Attempt) {
	l1 := cs.a.newLabel()
	l2 := cs.a.newLabel()
	cs.a.markLabel(cs.a.emit(vm.Instruction{Code: vm.OpCHOICE}), l1)
	p := v.P.Get()
	cs.emitSeq(
		func() { cs.emit(p) },
		func() {
			cs.a.emit(vm.Instruction{Code: vm.OpDROPHANDLER})
			cs.a.markLabel(cs.a.emit(vm.Instruction{Code: vm.OpJMP}), l2)
			cs.a.here(l1)
			cs.a.emit(vm.Instruction{Code: vm.OpFAIL})
			cs.a.here(l2)
		},
	)
}

// emitLookAhead runs P, keeping its value but rewinding to the starting
// position on success; on failure it behaves like Attempt.
func (cs *codegenState) emitLookAhead(v *ast.LookAhead) {
	l1 := cs.a.newLabel()
	l2 := cs.a.newLabel()
	cs.a.markLabel(cs.a.emit(vm.Instruction{Code: vm.OpCHOICE}), l1)
	p := v.P.Get()
	cs.emitSeq(
		func() { cs.emit(p) },
		func() {
			cs.a.emit(vm.Instruction{Code: vm.OpRESETPOS})
			cs.a.markLabel(cs.a.emit(vm.Instruction{Code: vm.OpJMP}), l2)
			cs.a.here(l1)
			cs.a.emit(vm.Instruction{Code: vm.OpFAIL})
			cs.a.here(l2)
		},
	)
}

// emitNotFollowedBy succeeds, consuming nothing, only if P fails.
func (cs *codegenState) emitNotFollowedBy(v *ast.NotFollowedBy) {
	l1 := cs.a.newLabel()
	cs.a.markLabel(cs.a.emit(vm.Instruction{Code: vm.OpCHOICE}), l1)
	p := v.P.Get()
	cs.emitSeq(
		func() { cs.emit(p) },
		func() {
			cs.a.emit(vm.Instruction{Code: vm.OpRESETPOS})
			cs.a.emit(vm.Instruction{Code: vm.OpPOP})
			cs.a.emit(vm.Instruction{Code: vm.OpFAILMSG, Str: v.Expected})
			cs.a.here(l1)
			cs.a.emit(vm.Instruction{Code: vm.OpPUSH, Value: nil})
		},
	)
}

func (cs *codegenState) emitTernary(v *ast.Ternary) {
	lfalse := cs.a.newLabel()
	lend := cs.a.newLabel()
	b := v.B.Get()
	p := v.P.Get()
	q := v.Q.Get()
	cs.emitSeq(
		func() { cs.emit(b) },
		func() { cs.a.markLabel(cs.a.emit(vm.Instruction{Code: vm.OpBRANCH}), lfalse) },
		func() { cs.emit(p) },
		func() {
			cs.a.markLabel(cs.a.emit(vm.Instruction{Code: vm.OpJMP}), lend)
			cs.a.here(lfalse)
		},
		func() { cs.emit(q) },
		func() { cs.a.here(lend) },
	)
}

func appendOne(acc, v interface{}) interface{} {
	var s []interface{}
	if acc != nil {
		s = acc.([]interface{})
	}
	return append(s, v)
}

func (cs *codegenState) emitMany(v *ast.Many) {
	lloop := cs.a.newLabel()
	lexit := cs.a.newLabel()
	cs.a.emit(vm.Instruction{Code: vm.OpPUSH, Value: []interface{}(nil)})
	cs.a.here(lloop)
	cs.a.markLabel(cs.a.emit(vm.Instruction{Code: vm.OpCHOICE}), lexit)
	body := v.Body.Get()
	cs.emitSeq(
		func() { cs.emit(body) },
		func() {
			cs.a.emit(vm.Instruction{Code: vm.OpCOMBINE2, Fn: func(a, b interface{}) interface{} { return appendOne(a, b) }})
			cs.a.markLabel(cs.a.emit(vm.Instruction{Code: vm.OpCOMMIT}), lloop)
			cs.a.here(lexit)
		},
	)
}

func (cs *codegenState) emitSkipMany(v *ast.SkipMany) {
	lloop := cs.a.newLabel()
	lexit := cs.a.newLabel()
	cs.a.here(lloop)
	cs.a.markLabel(cs.a.emit(vm.Instruction{Code: vm.OpCHOICE}), lexit)
	body := v.Body.Get()
	cs.emitSeq(
		func() { cs.emit(body) },
		func() {
			cs.a.emit(vm.Instruction{Code: vm.OpPOP})
			cs.a.markLabel(cs.a.emit(vm.Instruction{Code: vm.OpCOMMIT}), lloop)
			cs.a.here(lexit)
			cs.a.emit(vm.Instruction{Code: vm.OpPUSH, Value: nil})
		},
	)
}

// emitChainPre collects zero or more prefix operators, then P, then folds
// the operators around it right to left (the first-parsed operator ends
// up applied outermost).
func (cs *codegenState) emitChainPre(v *ast.ChainPre) {
	lloop := cs.a.newLabel()
	lexit := cs.a.newLabel()
	cs.a.emit(vm.Instruction{Code: vm.OpPUSH, Value: []interface{}(nil)})
	cs.a.here(lloop)
	cs.a.markLabel(cs.a.emit(vm.Instruction{Code: vm.OpCHOICE}), lexit)
	op := v.Op.Get()
	p := v.P.Get()
	cs.emitSeq(
		func() { cs.emit(op) },
		func() {
			cs.a.emit(vm.Instruction{Code: vm.OpCOMBINE2, Fn: func(a, b interface{}) interface{} { return appendOne(a, b) }})
			cs.a.markLabel(cs.a.emit(vm.Instruction{Code: vm.OpCOMMIT}), lloop)
			cs.a.here(lexit)
		},
		func() { cs.emit(p) },
		func() { cs.a.emit(vm.Instruction{Code: vm.OpCOMBINE2, Fn: foldPre}) },
	)
}

func foldPre(opsList, x interface{}) interface{} {
	ops, _ := opsList.([]interface{})
	acc := x
	for i := len(ops) - 1; i >= 0; i-- {
		fn := ops[i].(func(interface{}) interface{})
		acc = fn(acc)
	}
	return acc
}

// emitChainPost parses P, then zero or more postfix operators, applying
// each one to the running value as it is parsed (left to right).
func (cs *codegenState) emitChainPost(v *ast.ChainPost) {
	lloop := cs.a.newLabel()
	lexit := cs.a.newLabel()
	p := v.P.Get()
	op := v.Op.Get()
	cs.emitSeq(
		func() { cs.emit(p) },
		func() {
			cs.a.here(lloop)
			cs.a.markLabel(cs.a.emit(vm.Instruction{Code: vm.OpCHOICE}), lexit)
		},
		func() { cs.emit(op) },
		func() {
			cs.a.emit(vm.Instruction{Code: vm.OpAPPLY})
			cs.a.markLabel(cs.a.emit(vm.Instruction{Code: vm.OpCOMMIT}), lloop)
			cs.a.here(lexit)
		},
	)
}

// emitChainLeft parses P, then zero or more (Op P) pairs, folding
// left-associatively as each pair is parsed.
func (cs *codegenState) emitChainLeft(v *ast.ChainLeft) {
	lloop := cs.a.newLabel()
	lexit := cs.a.newLabel()
	p := v.P.Get()
	op := v.Op.Get()
	cs.emitSeq(
		func() { cs.emit(p) },
		func() {
			cs.a.here(lloop)
			cs.a.markLabel(cs.a.emit(vm.Instruction{Code: vm.OpCHOICE}), lexit)
		},
		func() { cs.emit(op) },
		func() { cs.emit(p) },
		func() {
			cs.a.emit(vm.Instruction{Code: vm.OpAPPLY2})
			cs.a.markLabel(cs.a.emit(vm.Instruction{Code: vm.OpCOMMIT}), lloop)
			cs.a.here(lexit)
		},
	)
}

type chainRightState struct {
	values []interface{}
	ops    []func(interface{}, interface{}) interface{}
}

// emitChainRight parses P, then zero or more (Op P) pairs, and folds
// right-associatively: the whole chain is collected first and folded
// from the end back to the start once parsing completes.
func (cs *codegenState) emitChainRight(v *ast.ChainRight) {
	lloop := cs.a.newLabel()
	lexit := cs.a.newLabel()
	p := v.P.Get()
	op := v.Op.Get()
	cs.emitSeq(
		func() { cs.emit(p) },
		func() {
			cs.a.emit(vm.Instruction{Code: vm.OpPUSH, Value: chainRightWrap})
			cs.a.emit(vm.Instruction{Code: vm.OpAPPLY})
			cs.a.here(lloop)
			cs.a.markLabel(cs.a.emit(vm.Instruction{Code: vm.OpCHOICE}), lexit)
		},
		func() { cs.emit(op) },
		func() { cs.emit(p) },
		func() {
			cs.a.emit(vm.Instruction{Code: vm.OpCOMBINE3, Fn: chainRightStep})
			cs.a.markLabel(cs.a.emit(vm.Instruction{Code: vm.OpCOMMIT}), lloop)
			cs.a.here(lexit)
			cs.a.emit(vm.Instruction{Code: vm.OpPUSH, Value: chainRightFinalize})
			cs.a.emit(vm.Instruction{Code: vm.OpAPPLY})
		},
	)
}

func chainRightWrap(v0 interface{}) interface{} {
	return chainRightState{values: []interface{}{v0}}
}

func chainRightStep(state, opVal, pVal interface{}) interface{} {
	st := state.(chainRightState)
	st.ops = append(st.ops, opVal.(func(interface{}, interface{}) interface{}))
	st.values = append(st.values, pVal)
	return st
}

func chainRightFinalize(state interface{}) interface{} {
	st := state.(chainRightState)
	result := st.values[len(st.values)-1]
	for i := len(st.ops) - 1; i >= 0; i-- {
		result = st.ops[i](st.values[i], result)
	}
	return result
}

// emitSepEndBy1 parses one or more P separated, and optionally terminated,
// by Sep. Each (Sep, P) pair is guarded by its own CHOICE so that a
// trailing Sep with no following P ends the loop (keeping the separator's
// consumption) instead of failing the whole combinator.
func (cs *codegenState) emitSepEndBy1(v *ast.SepEndBy1) {
	lstart := cs.a.newLabel()
	louter := cs.a.newLabel()
	linner := cs.a.newLabel()
	lexit := cs.a.newLabel()

	p := v.P.Get()
	sep := v.Sep.Get()

	cs.emitSeq(
		func() { cs.emit(p) },
		func() {
			cs.a.emit(vm.Instruction{Code: vm.OpPUSH, Value: func(v0 interface{}) interface{} { return []interface{}{v0} }})
			cs.a.emit(vm.Instruction{Code: vm.OpAPPLY})

			cs.a.here(lstart)
			cs.a.markLabel(cs.a.emit(vm.Instruction{Code: vm.OpCHOICE}), louter)
		},
		func() { cs.emit(sep) },
		func() {
			cs.a.emit(vm.Instruction{Code: vm.OpPOP})
			cs.a.markLabel(cs.a.emit(vm.Instruction{Code: vm.OpCHOICE}), linner)
		},
		func() { cs.emit(p) },
		func() {
			cs.a.emit(vm.Instruction{Code: vm.OpCOMBINE2, Fn: func(a, b interface{}) interface{} { return appendOne(a, b) }})
			cs.a.emit(vm.Instruction{Code: vm.OpDROPHANDLER})
			cs.a.emit(vm.Instruction{Code: vm.OpDROPHANDLER})
			cs.a.markLabel(cs.a.emit(vm.Instruction{Code: vm.OpJMP}), lstart)

			cs.a.here(linner)
			cs.a.emit(vm.Instruction{Code: vm.OpDROPHANDLER})
			cs.a.markLabel(cs.a.emit(vm.Instruction{Code: vm.OpJMP}), lexit)

			cs.a.here(louter)
			cs.a.here(lexit)
		},
	)
}

// emitManyUntil runs Body repeatedly; each result must be an
// ast.LoopSignal, appended to the accumulated result until the first
// Done=true iteration ends the loop.
func (cs *codegenState) emitManyUntil(v *ast.ManyUntil) {
	lloop := cs.a.newLabel()
	lexit := cs.a.newLabel()
	body := v.Body.Get()
	cs.a.emit(vm.Instruction{Code: vm.OpPUSH, Value: []interface{}(nil)})
	cs.a.here(lloop)
	cs.emitSeq(
		func() { cs.emit(body) },
		func() {
			cs.a.emit(vm.Instruction{Code: vm.OpDUP})
			cs.a.emit(vm.Instruction{Code: vm.OpPUSH, Value: extractNotDone})
			cs.a.emit(vm.Instruction{Code: vm.OpAPPLY})
			cs.a.markLabel(cs.a.emit(vm.Instruction{Code: vm.OpBRANCH}), lexit)
			cs.a.emit(vm.Instruction{Code: vm.OpPUSH, Value: extractValue})
			cs.a.emit(vm.Instruction{Code: vm.OpAPPLY})
			cs.a.emit(vm.Instruction{Code: vm.OpCOMBINE2, Fn: func(a, b interface{}) interface{} { return appendOne(a, b) }})
			cs.a.markLabel(cs.a.emit(vm.Instruction{Code: vm.OpJMP}), lloop)
			cs.a.here(lexit)
			cs.a.emit(vm.Instruction{Code: vm.OpPOP})
		},
	)
}

func extractNotDone(signal interface{}) interface{} {
	return !signal.(ast.LoopSignal).Done
}

func extractValue(signal interface{}) interface{} {
	return signal.(ast.LoopSignal).Value
}

// emitBind compiles P, then a DYNCALL whose Fn compiles K(x) each time it
// is reached at runtime — K's result depends on a value
// only the VM has, so unlike every other combinator here, Bind cannot be
// lowered ahead of time; see ast.Bind's doc comment.
func (cs *codegenState) emitBind(v *ast.Bind) {
	p := v.P.Get()
	k := v.K
	build := func(x interface{}) *vm.Program {
		return compileDynCall(k(x))
	}
	cs.emitSeq(
		func() { cs.emit(p) },
		func() { cs.a.emit(vm.Instruction{Code: vm.OpDYNCALL, Fn: build}) },
	)
}

func (cs *codegenState) emitDebug(v *ast.Debug) {
	id := cs.debugID
	cs.debugID++
	if v.Break == ast.BreakEntry || v.Break == ast.BreakBoth {
		cs.a.emit(vm.Instruction{Code: vm.OpDEBUG, Str: v.Name, Arg0: int(vm.PhaseEntry), Arg1: id})
	}
	p := v.P.Get()
	cs.emitSeq(
		func() { cs.emit(p) },
		func() {
			if v.Break == ast.BreakExit || v.Break == ast.BreakBoth {
				cs.a.emit(vm.Instruction{Code: vm.OpDEBUG, Str: v.Name, Arg0: int(vm.PhaseExit), Arg1: id})
			}
		},
	)
}

func (cs *codegenState) emitPredicateScan(pred func(rune) bool, expected string) {
	fn := func(input []rune, pos int) (interface{}, int, bool) {
		if pos >= len(input) || !pred(input[pos]) {
			return nil, pos, false
		}
		return input[pos], pos + 1, true
	}
	cs.a.emit(vm.Instruction{Code: vm.OpSCAN, Fn: fn, Expected: expected})
}

// BRANCH falls through when the popped value is true and jumps to its
// Label when false, so the rejecting path goes behind the jump and the
// accepting path is reached by jumping over it.
func (cs *codegenState) emitPredicateFilter(pred func(interface{}) bool, message string) {
	fn := func(v interface{}) interface{} { return pred(v) }
	cs.a.emit(vm.Instruction{Code: vm.OpDUP})
	cs.a.emit(vm.Instruction{Code: vm.OpPUSH, Value: fn})
	cs.a.emit(vm.Instruction{Code: vm.OpAPPLY})
	lfail := cs.a.newLabel()
	lok := cs.a.newLabel()
	cs.a.markLabel(cs.a.emit(vm.Instruction{Code: vm.OpBRANCH}), lfail)
	cs.a.markLabel(cs.a.emit(vm.Instruction{Code: vm.OpJMP}), lok)
	cs.a.here(lfail)
	cs.a.emit(vm.Instruction{Code: vm.OpPOP})
	cs.a.emit(vm.Instruction{Code: vm.OpFAILMSG, Str: message})
	cs.a.here(lok)
}

// emitFastGuard runs Pred against P's already-emitted value, left on the
// stack; on rejection it computes Gen's message and fails with FAILDYN,
// otherwise P's value is left as the node's own result.
func (cs *codegenState) emitFastGuard(pred func(interface{}) bool, gen func(interface{}) string) {
	cs.a.emit(vm.Instruction{Code: vm.OpDUP})
	fn := func(v interface{}) interface{} { return pred(v) }
	cs.a.emit(vm.Instruction{Code: vm.OpPUSH, Value: fn})
	cs.a.emit(vm.Instruction{Code: vm.OpAPPLY})
	lfail := cs.a.newLabel()
	lok := cs.a.newLabel()
	cs.a.markLabel(cs.a.emit(vm.Instruction{Code: vm.OpBRANCH}), lfail)
	cs.a.markLabel(cs.a.emit(vm.Instruction{Code: vm.OpJMP}), lok)
	cs.a.here(lfail)
	msgFn := func(v interface{}) interface{} { return gen(v) }
	cs.a.emit(vm.Instruction{Code: vm.OpPUSH, Value: msgFn})
	cs.a.emit(vm.Instruction{Code: vm.OpAPPLY})
	cs.a.emit(vm.Instruction{Code: vm.OpFAILDYN})
	cs.a.here(lok)
}

// emitFastFail runs after P's value is already on the stack: it computes
// Gen's message from that value and fails with FAILDYN, always.
func (cs *codegenState) emitFastFail(gen func(interface{}) string, unexpected bool) {
	fn := func(v interface{}) interface{} {
		msg := gen(v)
		if unexpected {
			msg = "unexpected " + msg
		}
		return msg
	}
	cs.a.emit(vm.Instruction{Code: vm.OpPUSH, Value: fn})
	cs.a.emit(vm.Instruction{Code: vm.OpAPPLY})
	cs.a.emit(vm.Instruction{Code: vm.OpFAILDYN})
}
