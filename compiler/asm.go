package compiler

import "github.com/sunnyMiglani/Parsley/vm"

// asm accumulates instructions with symbolic labels and resolves them to
// concrete addresses once the whole program has been emitted, the same
// two-phase shape as the teacher's fixed-point label resolver, simplified
// because every Instruction here occupies exactly one slot (no variable-
// length encoding to re-measure on each pass).
type asm struct {
	instrs    []vm.Instruction
	addrs     map[label]int
	nextLabel label
	numCaps   int
	pending   []labelRef
}

type label int

func newAsm() *asm {
	return &asm{addrs: make(map[label]int)}
}

// newLabel allocates a symbolic label not yet bound to an address.
func (a *asm) newLabel() label {
	a.nextLabel++
	return a.nextLabel
}

// here binds label l to the current (about to be emitted) instruction
// address.
func (a *asm) here(l label) {
	a.addrs[l] = len(a.instrs)
}

// emit appends an instruction and returns its address.
func (a *asm) emit(in vm.Instruction) int {
	a.instrs = append(a.instrs, in)
	return len(a.instrs) - 1
}

// labelRef records a still-symbolic label reference that finish must
// patch once every label has a bound address.
type labelRef struct {
	xp      int
	isCase  bool
	caseIdx int
	lbl     label
}

func (a *asm) markLabel(xp int, l label) {
	a.pending = append(a.pending, labelRef{xp: xp, lbl: l})
}

func (a *asm) markCaseLabel(xp, caseIdx int, l label) {
	a.pending = append(a.pending, labelRef{xp: xp, isCase: true, caseIdx: caseIdx, lbl: l})
}

// patchCases installs cases on the JUMPTABLE instruction at xp and queues
// each case's Label for resolution against labels, in order.
func (a *asm) patchCases(xp int, cases []vm.JumpCase, labels []label) {
	a.instrs[xp].Cases = cases
	for i, l := range labels {
		a.markCaseLabel(xp, i, l)
	}
}

func (a *asm) finish() *vm.Program {
	for _, ref := range a.pending {
		addr, ok := a.addrs[ref.lbl]
		if !ok {
			panic("compiler: label never defined")
		}
		if ref.isCase {
			a.instrs[ref.xp].Cases[ref.caseIdx].Label = addr
		} else {
			a.instrs[ref.xp].Label = addr
		}
	}
	return &vm.Program{Instrs: a.instrs, NumCaptures: a.numCaps}
}
