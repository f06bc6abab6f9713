package compiler

import (
	"github.com/sunnyMiglani/Parsley/ast"
	"github.com/sunnyMiglani/Parsley/vm"
)

// workItem is a deferred subroutine body: a node whose code is compiled
// once, at label, after the main top-down pass reaches the end of the
// tree, so that self-referential (Fixpoint) and explicitly shared
// (Subroutine) bodies never recurse infinitely during emission.
type workItem struct {
	lbl  label
	node ast.Node
}

type codegenState struct {
	a        *asm
	shared   map[ast.ID]bool
	labels   map[ast.ID]label
	compiled map[ast.ID]bool
	worklist []workItem
	debugID  int

	// pending is the explicit CPS worklist that emit and emitSeq schedule
	// onto instead of calling back into themselves: run drains it
	// iteratively, so the native Go call stack never holds more than one
	// step's frame regardless of how deep the ast being compiled is.
	pending []func()
}

func newCodegenState(shared map[ast.ID]bool) *codegenState {
	return &codegenState{
		a:        newAsm(),
		shared:   shared,
		labels:   make(map[ast.ID]label),
		compiled: make(map[ast.ID]bool),
	}
}

// push schedules step on the pending stack. pending is LIFO, so step runs
// before any step that was already pending when it was pushed.
func (cs *codegenState) push(step func()) {
	cs.pending = append(cs.pending, step)
}

// emitSeq schedules steps to run in the order given. pending is a LIFO
// stack, so steps are pushed back-to-front: the first step passed in is
// the next one the trampoline runs.
func (cs *codegenState) emitSeq(steps ...func()) {
	for i := len(steps) - 1; i >= 0; i-- {
		cs.push(steps[i])
	}
}

// run is codegen's trampoline: it drives pending to empty, one step at a
// time, in a flat loop. A step that needs children compiled schedules them
// with emit/emitSeq rather than calling into emitInner directly, so no Go
// call frame here is ever nested more than one deep.
func (cs *codegenState) run() {
	for len(cs.pending) > 0 {
		i := len(cs.pending) - 1
		step := cs.pending[i]
		cs.pending = cs.pending[:i]
		step()
	}
}

func (cs *codegenState) labelFor(id ast.ID) label {
	if l, ok := cs.labels[id]; ok {
		return l
	}
	l := cs.a.newLabel()
	cs.labels[id] = l
	return l
}

func (cs *codegenState) emitCall(lbl label) {
	xp := cs.a.emit(vm.Instruction{Code: vm.OpGOSUB})
	cs.a.markLabel(xp, lbl)
}

// emit is the public entry point for compiling one node. It never compiles
// n inline: it schedules n's compilation as a pending step (see run), which
// is what keeps codegen's native call-stack depth independent of the ast's
// nesting depth. Nodes that were found (during the pre-scan in compile.go)
// to be either a Fixpoint target or a Subroutine body are compiled exactly
// once, at a label, the first time that step runs; every reference after
// that — including the reference that originally declared the node — is
// just a call to that shared label.
func (cs *codegenState) emit(n ast.Node) {
	cs.push(func() { cs.emitShared(n) })
}

func (cs *codegenState) emitShared(n ast.Node) {
	id := n.Identity()
	if cs.shared[id] {
		lbl := cs.labelFor(id)
		cs.emitCall(lbl)
		if !cs.compiled[id] {
			cs.compiled[id] = true
			cs.worklist = append(cs.worklist, workItem{lbl: lbl, node: n})
		}
		return
	}
	cs.emitInner(n)
}

// drainWorklist compiles every deferred shared body, in the order they
// were discovered, as a flat sequence of labeled procedures:
// label: <body>; RET. Each body is pushed as a pending emitInner step and
// drained with run (not routed through emit, which would only emit a call
// to the body's own label), so a shared body's own nesting depth is no more
// native-recursive than the main program's.
func (cs *codegenState) drainWorklist() {
	for len(cs.worklist) > 0 {
		item := cs.worklist[0]
		cs.worklist = cs.worklist[1:]
		cs.a.here(item.lbl)
		cs.push(func() { cs.emitInner(item.node) })
		cs.run()
		cs.a.emit(vm.Instruction{Code: vm.OpRET})
	}
}

func (cs *codegenState) emitInner(n ast.Node) {
	switch v := n.(type) {
	case *ast.Pure:
		cs.a.emit(vm.Instruction{Code: vm.OpPUSH, Value: v.Value})

	case *ast.Line:
		cs.a.emit(vm.Instruction{Code: vm.OpLINE})

	case *ast.Col:
		cs.a.emit(vm.Instruction{Code: vm.OpCOLUMN})

	case *ast.Get:
		cs.a.emit(vm.Instruction{Code: vm.OpGET, Arg0: v.Reg})

	case *ast.Modify:
		fn, _ := v.Fn.(func(interface{}) interface{})
		cs.a.emit(vm.Instruction{Code: vm.OpGET, Arg0: v.Reg})
		cs.a.emit(vm.Instruction{Code: vm.OpPUSH, Value: fn})
		cs.a.emit(vm.Instruction{Code: vm.OpAPPLY})
		cs.a.emit(vm.Instruction{Code: vm.OpPUT, Arg0: v.Reg})
		cs.a.emit(vm.Instruction{Code: vm.OpGET, Arg0: v.Reg})

	case *ast.CharTok:
		cs.a.emit(vm.Instruction{Code: vm.OpCHAR, Rune: v.Char, Expected: v.Expected})

	case *ast.StringTok:
		cs.a.emit(vm.Instruction{Code: vm.OpSTRING, Str: v.Text, Expected: v.Expected})

	case *ast.Satisfy:
		if v.Set != nil {
			cs.a.emit(vm.Instruction{Code: vm.OpMATCHSET, Matcher: v.Set, Expected: v.Expected})
		} else {
			cs.emitPredicateScan(v.Pred, v.Expected)
		}

	case *ast.Eof:
		cs.a.emit(vm.Instruction{Code: vm.OpEOF, Expected: v.Expected})

	case *ast.Keyword:
		cs.emitKeyword(v)

	case *ast.Operator:
		cs.a.emit(vm.Instruction{Code: vm.OpSCAN, Fn: scanLiteral(v.Text), Expected: v.Expected})

	case *ast.StringLiteral:
		cs.a.emit(vm.Instruction{Code: vm.OpSCAN, Fn: scanQuoted(v.Quote, v.Escape), Expected: v.Expected})

	case *ast.RawStringLiteral:
		cs.a.emit(vm.Instruction{Code: vm.OpSCAN, Fn: scanRawQuoted(v.Quote), Expected: v.Expected})

	case *ast.Empty:
		cs.a.emit(vm.Instruction{Code: vm.OpFAILMSG, Str: v.Expected})

	case *ast.Fail:
		cs.a.emit(vm.Instruction{Code: vm.OpFAILMSG, Str: v.Message})

	case *ast.Unexpected:
		cs.a.emit(vm.Instruction{Code: vm.OpFAILMSG, Str: "unexpected " + v.Message})

	case *ast.FastFail:
		cs.emitSeq(
			func() { cs.emit(v.P.Get()) },
			func() { cs.emitFastFail(v.Gen, false) },
		)

	case *ast.FastUnexpected:
		cs.emitSeq(
			func() { cs.emit(v.P.Get()) },
			func() { cs.emitFastFail(v.Gen, true) },
		)

	case *ast.Ensure:
		cs.emitSeq(
			func() { cs.emit(v.P.Get()) },
			func() { cs.emitPredicateFilter(v.Pred, "") },
		)

	case *ast.Guard:
		cs.emitSeq(
			func() { cs.emit(v.P.Get()) },
			func() { cs.emitPredicateFilter(v.Pred, v.Message) },
		)

	case *ast.FastGuard:
		cs.emitSeq(
			func() { cs.emit(v.P.Get()) },
			func() { cs.emitFastGuard(v.Pred, v.Gen) },
		)

	case *ast.Apply:
		cs.emitApply(v)

	case *ast.ThenRight:
		cs.emitThenRight(v)

	case *ast.ThenLeft:
		cs.emitSeq(
			func() { cs.emit(v.P.Get()) },
			func() { cs.emit(v.Q.Get()) },
			func() { cs.a.emit(vm.Instruction{Code: vm.OpPOP}) },
		)

	case *ast.Bind:
		cs.emitBind(v)

	case *ast.Lift2:
		fn, _ := v.Fn.(func(interface{}, interface{}) interface{})
		cs.emitSeq(
			func() { cs.emit(v.P.Get()) },
			func() { cs.emit(v.Q.Get()) },
			func() { cs.a.emit(vm.Instruction{Code: vm.OpCOMBINE2, Fn: fn}) },
		)

	case *ast.Lift3:
		fn, _ := v.Fn.(func(interface{}, interface{}, interface{}) interface{})
		cs.emitSeq(
			func() { cs.emit(v.P.Get()) },
			func() { cs.emit(v.Q.Get()) },
			func() { cs.emit(v.R.Get()) },
			func() { cs.a.emit(vm.Instruction{Code: vm.OpCOMBINE3, Fn: fn}) },
		)

	case *ast.Alt:
		cs.emitAlt(v)

	case *ast.Attempt:
		cs.emitAttempt(v)

	case *ast.LookAhead:
		cs.emitLookAhead(v)

	case *ast.NotFollowedBy:
		cs.emitNotFollowedBy(v)

	case *ast.Ternary:
		cs.emitTernary(v)

	case *ast.Many:
		cs.emitMany(v)

	case *ast.SkipMany:
		cs.emitSkipMany(v)

	case *ast.ChainPre:
		cs.emitChainPre(v)

	case *ast.ChainPost:
		cs.emitChainPost(v)

	case *ast.ChainLeft:
		cs.emitChainLeft(v)

	case *ast.ChainRight:
		cs.emitChainRight(v)

	case *ast.SepEndBy1:
		cs.emitSepEndBy1(v)

	case *ast.ManyUntil:
		cs.emitManyUntil(v)

	case *ast.Put:
		cs.emitSeq(
			func() { cs.emit(v.P.Get()) },
			func() { cs.a.emit(vm.Instruction{Code: vm.OpPUT, Arg0: v.Reg}) },
			func() { cs.a.emit(vm.Instruction{Code: vm.OpPUSH, Value: nil}) },
		)

	case *ast.Local:
		cs.emitSeq(
			func() { cs.a.emit(vm.Instruction{Code: vm.OpLOCAL, Arg0: v.Reg}) },
			func() { cs.emit(v.P.Get()) },
			func() { cs.a.emit(vm.Instruction{Code: vm.OpPUT, Arg0: v.Reg}) },
			func() { cs.emit(v.Q.Get()) },
			func() { cs.a.emit(vm.Instruction{Code: vm.OpLOCALEND, Arg0: v.Reg}) },
		)

	case *ast.Subroutine:
		cs.emit(v.P.Get())

	case *ast.Fixpoint:
		lbl := cs.labelFor(v.Target.Identity())
		cs.emitCall(lbl)
		if !cs.compiled[v.Target.Identity()] {
			cs.compiled[v.Target.Identity()] = true
			cs.worklist = append(cs.worklist, workItem{lbl: lbl, node: v.Target})
		}

	case *ast.Debug:
		cs.emitDebug(v)

	default:
		panic("compiler: codegen has no case for this ast.Node")
	}
}

// emitApply compiles Apply(Pf, Px), fusing the common Apply(Pure(f), p)
// shape into a single Perform-style instruction instead of the generic
// Push-f-then-Apply dance: CharTok and StringTok operands get their own
// dedicated fused opcode (CharTokFastPerform / StringTokFastPerform), and
// everything else falls back to p's code followed by a plain Perform.
func (cs *codegenState) emitApply(v *ast.Apply) {
	pf := v.Pf.Get()
	fn, ok := pureFunc(pf)
	if !ok {
		cs.emitSeq(
			func() { cs.emit(pf) },
			func() { cs.emit(v.Px.Get()) },
			func() {
				cs.a.emit(vm.Instruction{Code: vm.OpCOMBINE2, Fn: func(f, x interface{}) interface{} {
					return f.(func(interface{}) interface{})(x)
				}})
			},
		)
		return
	}

	px := v.Px.Get()
	switch p := px.(type) {
	case *ast.CharTok:
		cs.emitCharTokFastPerform(p, fn)
	case *ast.StringTok:
		cs.emitStringTokFastPerform(p, fn)
	default:
		cs.emitSeq(
			func() { cs.emit(px) },
			func() { cs.a.emit(vm.Instruction{Code: vm.OpPERFORM, Fn: fn}) },
		)
	}
}

// emitThenRight compiles ThenRight(P, Q), fusing the common
// ThenRight(Char/String/Satisfy, Pure(x)) shape — match and discard a
// token, then always produce the same constant — into a single Exchange
// instruction instead of match-then-pop-then-push.
func (cs *codegenState) emitThenRight(v *ast.ThenRight) {
	p := v.P.Get()
	q := v.Q.Get()
	pure, ok := q.(*ast.Pure)
	if !ok {
		cs.emitSeq(
			func() { cs.emit(p) },
			func() { cs.a.emit(vm.Instruction{Code: vm.OpPOP}) },
			func() { cs.emit(q) },
		)
		return
	}

	switch leaf := p.(type) {
	case *ast.CharTok:
		cs.emitCharTokExchange(leaf, pure.Value)
	case *ast.StringTok:
		cs.emitStringTokExchange(leaf, pure.Value)
	case *ast.Satisfy:
		if leaf.Set != nil {
			cs.emitSatisfyExchange(leaf, pure.Value)
		} else {
			cs.emitSeq(
				func() { cs.emit(p) },
				func() { cs.a.emit(vm.Instruction{Code: vm.OpPOP}) },
				func() { cs.emit(q) },
			)
		}
	default:
		cs.emitSeq(
			func() { cs.emit(p) },
			func() { cs.a.emit(vm.Instruction{Code: vm.OpPOP}) },
			func() { cs.emit(q) },
		)
	}
}
