package compiler

import (
	"github.com/sunnyMiglani/Parsley/ast"
	"github.com/sunnyMiglani/Parsley/charset"
	"github.com/sunnyMiglani/Parsley/vm"
)

// flattenAltArms collects the left-to-right arms of a chain of nested Alt
// nodes built by repeated use of Alt (in either associativity), stopping
// the recursion at the first non-Alt node on each side. A chain with only
// one arm (n itself isn't an Alt) returns a single-element slice.
func flattenAltArms(n ast.Node) []ast.Node {
	alt, ok := n.(*ast.Alt)
	if !ok {
		return []ast.Node{n}
	}
	var arms []ast.Node
	arms = append(arms, flattenAltArms(alt.P.Get())...)
	arms = append(arms, flattenAltArms(alt.Q.Get())...)
	return arms
}

// leafMatcher returns the charset.Matcher a leaf node matches against the
// next input rune, if it has one: CharTok and Satisfy nodes backed by a
// charset.Matcher are tablifiable, everything else (StringTok, the token
// leaves, arbitrary Satisfy predicates, and any non-leaf combinator) is
// not, since tablify needs to enumerate the leading rune set without
// running the branch.
func leafMatcher(n ast.Node) (charset.Matcher, bool) {
	switch v := n.(type) {
	case *ast.CharTok:
		return charset.Exactly(v.Char), true
	case *ast.Satisfy:
		if v.Set != nil {
			return v.Set, true
		}
	}
	return nil, false
}

// foldAltArms rebuilds a right-associated Alt chain out of arms, the
// inverse of flattenAltArms, so a suffix left over after tablification can
// be handed back to ordinary Alt compilation (which may itself tablify a
// further leaf run inside that suffix).
func foldAltArms(arms []ast.Node) ast.Node {
	n := arms[len(arms)-1]
	for i := len(arms) - 2; i >= 0; i-- {
		n = &ast.Alt{Base: ast.NewBase(), P: ast.NewResolvedChild(arms[i]), Q: ast.NewResolvedChild(n)}
	}
	return n
}

// tryEmitJumpTable emits the maximal leading run of leaf-only arms in a
// flattened Alt chain as a single OpJUMPTABLE dispatching directly to
// whichever arm's leading rune matches, instead of the CHOICE/COMMIT probe
// chain emitAlt would otherwise build one arm at a time. A chain mixing
// tablifiable leaves with other arms is only partially tablified: the
// table's default case (no leaf's rune set matched) falls through to the
// ordinary Alt chain compiling whatever arms remain, so one non-leaf arm
// anywhere in the chain no longer forces giving up on tablification
// entirely. It reports whether it emitted anything; the caller falls back
// to plain CHOICE/COMMIT only when not even the first two arms are
// tablifiable leaves.
func (cs *codegenState) tryEmitJumpTable(v *ast.Alt) bool {
	arms := flattenAltArms(v)
	if len(arms) < 2 {
		return false
	}

	n := 0
	for n < len(arms) {
		if _, ok := leafMatcher(arms[n]); !ok {
			break
		}
		n++
	}
	if n < 2 {
		return false
	}
	leafArms := arms[:n]
	rest := arms[n:]

	matchers := make([]charset.Matcher, len(leafArms))
	for i, arm := range leafArms {
		m, _ := leafMatcher(arm)
		matchers[i] = m
	}

	lend := cs.a.newLabel()
	lfail := cs.a.newLabel()
	armLabels := make([]label, len(leafArms))
	for i := range leafArms {
		armLabels[i] = cs.a.newLabel()
	}

	jtXP := cs.a.emit(vm.Instruction{Code: vm.OpJUMPTABLE})
	cs.a.markLabel(jtXP, lfail) // default: leading rune matched none of the tabled arms

	for i, arm := range leafArms {
		cs.a.here(armLabels[i])
		cs.emitInner(arm)
		cs.a.markLabel(cs.a.emit(vm.Instruction{Code: vm.OpJMP}), lend)
	}

	cs.a.here(lfail)
	if len(rest) == 0 {
		cs.a.emit(vm.Instruction{Code: vm.OpFAILMSG, Str: altExpected(leafArms)})
		cs.a.here(lend)
	} else {
		remainder := foldAltArms(rest)
		cs.emitSeq(
			func() { cs.emit(remainder) },
			func() { cs.a.here(lend) },
		)
	}

	cases := make([]vm.JumpCase, len(leafArms))
	for i := range leafArms {
		cases[i] = vm.JumpCase{Set: matchers[i]}
	}
	cs.a.patchCases(jtXP, cases, armLabels)
	return true
}

// altExpected builds a combined failure label for a tablified Alt whose
// leading rune matched none of its arms, joining each leaf's own Expected
// the way a plain CHOICE/COMMIT chain's furthest-failure tracking would
// have accumulated them one CHAR/MATCHSET miss at a time.
func altExpected(arms []ast.Node) string {
	var s string
	for _, arm := range arms {
		var label string
		switch v := arm.(type) {
		case *ast.CharTok:
			label = v.Expected
		case *ast.Satisfy:
			label = v.Expected
		}
		if label == "" {
			continue
		}
		if s != "" {
			s += " or "
		}
		s += label
	}
	return s
}
