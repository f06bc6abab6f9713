package vm

import "unicode/utf8"

// DebugPhase distinguishes the two DEBUG instructions codegen emits around
// a Debug node's body.
type DebugPhase int

const (
	PhaseEntry DebugPhase = iota
	PhaseExit
)

// DebugEvent is delivered to a Tracer at a Debug breakpoint.
type DebugEvent struct {
	Name  string
	Phase DebugPhase
	XP    int
	Pos   int
	Line  int
	Col   int
	Regs  [NumRegisters]interface{}
	Top   interface{}
	HasTop bool
}

// Tracer observes DEBUG instructions as they execute. Run is single
// threaded per Execution, so a Tracer implementation need not be
// concurrency-safe unless the same Tracer is shared across concurrent Runs.
type Tracer interface {
	OnDebug(ev DebugEvent)
}

// Execution is one run of a Program over one input. Create one with NewExecution
// and drive it with Run, or step it by hand with Step for debugging tools.
type Execution struct {
	prog  *Program
	input []rune

	xp   int
	pos  int
	line int
	col  int

	values   valueStack
	handlers handlerStack
	calls    callStack
	regs     registers

	captureStart []int
	tracer       Tracer

	halted bool
	result Result

	furthestPos      int
	furthestLine     int
	furthestCol      int
	furthestExpected []string
	seenExpected     map[string]bool
}

// NewExecution prepares a fresh Execution of prog over input. tracer may be
// nil.
func NewExecution(prog *Program, input string, tracer Tracer) *Execution {
	runes := []rune(input)
	ex := &Execution{
		prog:         prog,
		input:        runes,
		captureStart: make([]int, prog.NumCaptures),
		tracer:       tracer,
		seenExpected: make(map[string]bool),
	}
	return ex
}

// Run steps the Execution to completion and returns its Result.
func (ex *Execution) Run() Result {
	for !ex.halted {
		ex.Step()
	}
	return ex.result
}

func (ex *Execution) recordExpected(label string) {
	if label == "" {
		return
	}
	if ex.pos > ex.furthestPos {
		ex.furthestPos = ex.pos
		ex.furthestLine = ex.line
		ex.furthestCol = ex.col
		ex.furthestExpected = ex.furthestExpected[:0]
		ex.seenExpected = make(map[string]bool)
	}
	if ex.pos == ex.furthestPos && !ex.seenExpected[label] {
		ex.seenExpected[label] = true
		ex.furthestExpected = append(ex.furthestExpected, label)
	}
}

const tabStop = 4

func (ex *Execution) advance(n int) {
	for i := 0; i < n && ex.pos < len(ex.input); i++ {
		switch ex.input[ex.pos] {
		case '\n':
			ex.line++
			ex.col = 0
		case '\t':
			ex.col += tabStop - ex.col%tabStop
		default:
			ex.col++
		}
		ex.pos++
	}
}

func (ex *Execution) peek() (rune, bool) {
	if ex.pos >= len(ex.input) {
		return utf8.RuneError, false
	}
	return ex.input[ex.pos], true
}

// fail pops the innermost handler frame and rewinds to it, or halts the
// Execution with a ParseError if the handler stack is empty.
func (ex *Execution) fail() {
	for {
		f, ok := ex.handlers.pop()
		if !ok {
			ex.haltFailure()
			return
		}
		if f.IsLocal {
			ex.regs[f.Reg] = f.Saved
			continue
		}
		if f.Cut && ex.pos != f.Pos {
			continue
		}
		ex.pos = f.Pos
		ex.line = f.Line
		ex.col = f.Col
		ex.values.truncate(f.ValueDepth)
		ex.xp = f.XP
		return
	}
}

func (ex *Execution) haltFailure() {
	ex.halted = true
	ex.result = Result{
		Err: &ParseError{
			Pos:      ex.furthestPos,
			Line:     ex.furthestLine,
			Col:      ex.furthestCol,
			Expected: append([]string(nil), ex.furthestExpected...),
		},
	}
}

func (ex *Execution) haltRuntimeError(code OpCode, err error) {
	ex.halted = true
	ex.result = Result{Err: &RuntimeError{Err: err, XP: ex.xp, Code: code}}
}

// Step executes exactly one instruction. Calling Step after the Execution
// has halted is a no-op.
func (ex *Execution) Step() {
	if ex.halted {
		return
	}
	if ex.xp < 0 || ex.xp >= len(ex.prog.Instrs) {
		ex.haltRuntimeError(OpNOP, ErrBadFrame)
		return
	}
	in := ex.prog.Instrs[ex.xp]
	switch in.Code {
	case OpNOP:
		ex.xp++

	case OpHALT:
		v, ok := ex.values.pop()
		if !ok {
			ex.haltRuntimeError(in.Code, ErrEmptyValueStack)
			return
		}
		ex.halted = true
		ex.result = Result{Value: v, Pos: ex.pos, Line: ex.line, Col: ex.col}

	case OpPUSH:
		ex.values.push(in.Value)
		ex.xp++

	case OpPOP:
		if _, ok := ex.values.pop(); !ok {
			ex.haltRuntimeError(in.Code, ErrEmptyValueStack)
			return
		}
		ex.xp++

	case OpCHAR:
		r, ok := ex.peek()
		if ok && r == in.Rune {
			ex.advance(1)
			ex.values.push(r)
			ex.xp++
		} else {
			ex.recordExpected(expectedOr(in.Expected, quoteRuneForDisplay(in.Rune)))
			ex.fail()
		}

	case OpSTRING:
		if ex.matchLiteral(in.Str) {
			ex.advance(utf8.RuneCountInString(in.Str))
			ex.values.push(in.Str)
			ex.xp++
		} else {
			ex.recordExpected(expectedOr(in.Expected, in.Str))
			ex.fail()
		}

	case OpMATCHSET:
		r, ok := ex.peek()
		if ok && in.Matcher.Match(r) {
			ex.advance(1)
			ex.values.push(r)
			ex.xp++
		} else {
			ex.recordExpected(expectedOr(in.Expected, in.Matcher.String()))
			ex.fail()
		}

	case OpEOF:
		if ex.pos >= len(ex.input) {
			ex.values.push(nil)
			ex.xp++
		} else {
			ex.recordExpected(expectedOr(in.Expected, "end of input"))
			ex.fail()
		}

	case OpJUMPTABLE:
		ex.xp = ex.dispatch(in)

	case OpCHOICE:
		ex.handlers.push(HandlerFrame{
			XP: in.Label, Pos: ex.pos, Line: ex.line, Col: ex.col,
			ValueDepth: ex.values.len(), Cut: in.Arg0 != 0,
		})
		ex.xp++

	case OpCOMMIT:
		if _, ok := ex.handlers.pop(); !ok {
			ex.haltRuntimeError(in.Code, ErrEmptyHandlerStack)
			return
		}
		ex.xp = in.Label

	case OpFAIL:
		ex.fail()

	case OpFAILEMPTY:
		if f, ok := ex.handlers.top(); ok && f.Pos == ex.pos {
			ex.fail()
		} else {
			ex.xp++
		}

	case OpCALL, OpGOSUB:
		ex.calls.push(CallFrame{ReturnXP: ex.xp + 1})
		ex.xp = in.Label

	case OpDYNCALL:
		v, ok := ex.values.pop()
		if !ok {
			ex.haltRuntimeError(in.Code, ErrEmptyValueStack)
			return
		}
		build, ok := in.Fn.(func(interface{}) *Program)
		if !ok {
			ex.haltRuntimeError(in.Code, ErrBadFrame)
			return
		}
		child := build(v)
		ex.calls.push(CallFrame{ReturnXP: ex.xp + 1, ReturnProg: ex.prog})
		ex.prog = child
		ex.xp = 0

	case OpRET:
		f, ok := ex.calls.pop()
		if !ok {
			ex.haltRuntimeError(in.Code, ErrEmptyCallStack)
			return
		}
		if f.ReturnProg != nil {
			ex.prog = f.ReturnProg
		}
		ex.xp = f.ReturnXP

	case OpGET:
		checkRegister(in.Arg0)
		ex.values.push(ex.regs[in.Arg0])
		ex.xp++

	case OpPUT:
		checkRegister(in.Arg0)
		v, ok := ex.values.pop()
		if !ok {
			ex.haltRuntimeError(in.Code, ErrEmptyValueStack)
			return
		}
		ex.regs[in.Arg0] = v
		ex.xp++

	case OpLOCAL:
		checkRegister(in.Arg0)
		ex.handlers.push(HandlerFrame{IsLocal: true, Reg: in.Arg0, Saved: ex.regs[in.Arg0]})
		ex.xp++

	case OpLOCALEND:
		checkRegister(in.Arg0)
		f, ok := ex.handlers.pop()
		if !ok || !f.IsLocal {
			ex.haltRuntimeError(in.Code, ErrBadFrame)
			return
		}
		ex.regs[in.Arg0] = f.Saved
		ex.xp++

	case OpAPPLY:
		// Operand order is arg-then-fn: codegen computes the argument
		// first (leaving it on the stack), then pushes the function to
		// apply it with, so APPLY pops the function off the top and the
		// argument from just beneath it.
		fnv, ok := ex.values.pop()
		if !ok {
			ex.haltRuntimeError(in.Code, ErrEmptyValueStack)
			return
		}
		arg, ok := ex.values.pop()
		if !ok {
			ex.haltRuntimeError(in.Code, ErrEmptyValueStack)
			return
		}
		fn, ok := fnv.(func(interface{}) interface{})
		if !ok {
			ex.haltRuntimeError(in.Code, ErrBadFrame)
			return
		}
		ex.values.push(fn(arg))
		ex.xp++

	case OpDUP:
		if ex.values.len() == 0 {
			ex.haltRuntimeError(in.Code, ErrEmptyValueStack)
			return
		}
		ex.values.push(ex.values.values[ex.values.len()-1])
		ex.xp++

	case OpJMP:
		ex.xp = in.Label

	case OpBRANCH:
		v, ok := ex.values.pop()
		if !ok {
			ex.haltRuntimeError(in.Code, ErrEmptyValueStack)
			return
		}
		b, ok := v.(bool)
		if !ok {
			ex.haltRuntimeError(in.Code, ErrBadFrame)
			return
		}
		if b {
			ex.xp++
		} else {
			ex.xp = in.Label
		}

	case OpDROPHANDLER:
		if _, ok := ex.handlers.pop(); !ok {
			ex.haltRuntimeError(in.Code, ErrEmptyHandlerStack)
			return
		}
		ex.xp++

	case OpRESETPOS:
		f, ok := ex.handlers.pop()
		if !ok {
			ex.haltRuntimeError(in.Code, ErrEmptyHandlerStack)
			return
		}
		ex.pos, ex.line, ex.col = f.Pos, f.Line, f.Col
		ex.xp++

	case OpFAILMSG:
		ex.recordExpected(in.Str)
		ex.fail()

	case OpFAILDYN:
		msg, ok := ex.values.pop()
		if !ok {
			ex.haltRuntimeError(in.Code, ErrEmptyValueStack)
			return
		}
		s, _ := msg.(string)
		ex.recordExpected(s)
		ex.fail()

	case OpCOMBINE2:
		b, ok := ex.values.pop()
		if !ok {
			ex.haltRuntimeError(in.Code, ErrEmptyValueStack)
			return
		}
		a, ok := ex.values.pop()
		if !ok {
			ex.haltRuntimeError(in.Code, ErrEmptyValueStack)
			return
		}
		fn, ok := in.Fn.(func(interface{}, interface{}) interface{})
		if !ok {
			ex.haltRuntimeError(in.Code, ErrBadFrame)
			return
		}
		ex.values.push(fn(a, b))
		ex.xp++

	case OpCOMBINE3:
		c, ok := ex.values.pop()
		if !ok {
			ex.haltRuntimeError(in.Code, ErrEmptyValueStack)
			return
		}
		b, ok := ex.values.pop()
		if !ok {
			ex.haltRuntimeError(in.Code, ErrEmptyValueStack)
			return
		}
		a, ok := ex.values.pop()
		if !ok {
			ex.haltRuntimeError(in.Code, ErrEmptyValueStack)
			return
		}
		fn, ok := in.Fn.(func(interface{}, interface{}, interface{}) interface{})
		if !ok {
			ex.haltRuntimeError(in.Code, ErrBadFrame)
			return
		}
		ex.values.push(fn(a, b, c))
		ex.xp++

	case OpLINE:
		ex.values.push(ex.line)
		ex.xp++

	case OpCOLUMN:
		ex.values.push(ex.col)
		ex.xp++

	case OpCAP:
		if in.Arg0 < 0 || in.Arg0 >= len(ex.captureStart) {
			ex.haltRuntimeError(in.Code, ErrBadFrame)
			return
		}
		ex.captureStart[in.Arg0] = ex.pos
		ex.xp++

	case OpENDCAP:
		if in.Arg0 < 0 || in.Arg0 >= len(ex.captureStart) {
			ex.haltRuntimeError(in.Code, ErrBadFrame)
			return
		}
		start := ex.captureStart[in.Arg0]
		ex.values.push(string(ex.input[start:ex.pos]))
		ex.xp++

	case OpAPPLY2:
		b, ok := ex.values.pop()
		if !ok {
			ex.haltRuntimeError(in.Code, ErrEmptyValueStack)
			return
		}
		fnv, ok := ex.values.pop()
		if !ok {
			ex.haltRuntimeError(in.Code, ErrEmptyValueStack)
			return
		}
		a, ok := ex.values.pop()
		if !ok {
			ex.haltRuntimeError(in.Code, ErrEmptyValueStack)
			return
		}
		fn, ok := fnv.(func(interface{}, interface{}) interface{})
		if !ok {
			ex.haltRuntimeError(in.Code, ErrBadFrame)
			return
		}
		ex.values.push(fn(a, b))
		ex.xp++

	case OpPERFORM:
		arg, ok := ex.values.pop()
		if !ok {
			ex.haltRuntimeError(in.Code, ErrEmptyValueStack)
			return
		}
		fn, ok := in.Fn.(func(interface{}) interface{})
		if !ok {
			ex.haltRuntimeError(in.Code, ErrBadFrame)
			return
		}
		ex.values.push(fn(arg))
		ex.xp++

	case OpCHARPERFORM:
		r, ok := ex.peek()
		if ok && r == in.Rune {
			ex.advance(1)
			fn, ok := in.Fn.(func(interface{}) interface{})
			if !ok {
				ex.haltRuntimeError(in.Code, ErrBadFrame)
				return
			}
			ex.values.push(fn(r))
			ex.xp++
		} else {
			ex.recordExpected(expectedOr(in.Expected, quoteRuneForDisplay(in.Rune)))
			ex.fail()
		}

	case OpSTRINGPERFORM:
		if ex.matchLiteral(in.Str) {
			ex.advance(utf8.RuneCountInString(in.Str))
			fn, ok := in.Fn.(func(interface{}) interface{})
			if !ok {
				ex.haltRuntimeError(in.Code, ErrBadFrame)
				return
			}
			ex.values.push(fn(in.Str))
			ex.xp++
		} else {
			ex.recordExpected(expectedOr(in.Expected, in.Str))
			ex.fail()
		}

	case OpCHAREXCHANGE:
		r, ok := ex.peek()
		if ok && r == in.Rune {
			ex.advance(1)
			ex.values.push(in.Value)
			ex.xp++
		} else {
			ex.recordExpected(expectedOr(in.Expected, quoteRuneForDisplay(in.Rune)))
			ex.fail()
		}

	case OpSTRINGEXCHANGE:
		if ex.matchLiteral(in.Str) {
			ex.advance(utf8.RuneCountInString(in.Str))
			ex.values.push(in.Value)
			ex.xp++
		} else {
			ex.recordExpected(expectedOr(in.Expected, in.Str))
			ex.fail()
		}

	case OpMATCHSETEXCHANGE:
		r, ok := ex.peek()
		if ok && in.Matcher.Match(r) {
			ex.advance(1)
			ex.values.push(in.Value)
			ex.xp++
		} else {
			ex.recordExpected(expectedOr(in.Expected, in.Matcher.String()))
			ex.fail()
		}

	case OpSCAN:
		fn, ok := in.Fn.(func(input []rune, pos int) (value interface{}, newPos int, success bool))
		if !ok {
			ex.haltRuntimeError(in.Code, ErrBadFrame)
			return
		}
		v, newPos, ok2 := fn(ex.input, ex.pos)
		if ok2 {
			ex.advance(newPos - ex.pos)
			ex.values.push(v)
			ex.xp++
		} else {
			ex.recordExpected(in.Expected)
			ex.fail()
		}

	case OpDEBUG:
		if ex.tracer != nil {
			var top interface{}
			hasTop := ex.values.len() > 0
			if hasTop {
				top = ex.values.values[ex.values.len()-1]
			}
			ex.tracer.OnDebug(DebugEvent{
				Name: in.Str, Phase: DebugPhase(in.Arg0), XP: ex.xp,
				Pos: ex.pos, Line: ex.line, Col: ex.col,
				Regs: ex.regs, Top: top, HasTop: hasTop,
			})
		}
		ex.xp++

	default:
		ex.haltRuntimeError(in.Code, ErrBadFrame)
	}
}

func (ex *Execution) matchLiteral(s string) bool {
	pos := ex.pos
	for _, want := range s {
		if pos >= len(ex.input) || ex.input[pos] != want {
			return false
		}
		pos++
	}
	return true
}

func (ex *Execution) dispatch(in Instruction) int {
	r, ok := ex.peek()
	if !ok {
		return in.Label
	}
	for _, c := range in.Cases {
		if c.Set.Match(r) {
			return c.Label
		}
	}
	return in.Label
}

func quoteRuneForDisplay(r rune) string {
	return "'" + string(r) + "'"
}

func expectedOr(label, fallback string) string {
	if label != "" {
		return label
	}
	return fallback
}
