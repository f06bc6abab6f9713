package compiler

import (
	"github.com/sunnyMiglani/Parsley/ast"
	"github.com/sunnyMiglani/Parsley/vm"
)

// Compile lowers a parser built from the ast package into an executable
// vm.Program: preprocess resolves the tree's lazy Child thunks and turns
// self-reference into explicit ast.Fixpoint markers, optimise applies the
// algebraic rewrite rules to the resolved tree, and codegen emits flat
// vm.Instruction values for the result.
//
// Compile panics on a malformed grammar (an infinite-loop Many/SkipMany
// body, or an internal compiler invariant violation) rather than returning
// an error, matching ast's own panic-on-misuse convention for register
// range and node-closure violations.
func Compile(root ast.Node) *vm.Program {
	return compile(root, vm.Instruction{Code: vm.OpHALT})
}

// compileDynCall builds a Program the same way Compile does, except it
// ends in RET rather than HALT: the result is entered via OpDYNCALL's
// pushed CallFrame (see emitBind), so finishing its body must return
// control to the calling program, not halt the whole Execution.
func compileDynCall(root ast.Node) *vm.Program {
	return compile(root, vm.Instruction{Code: vm.OpRET})
}

func compile(root ast.Node, terminator vm.Instruction) *vm.Program {
	resolved := preprocess(root)
	opt := optimise(resolved)
	shared := collectShared(opt)

	cs := newCodegenState(shared)
	cs.emit(opt)
	cs.run()
	cs.a.emit(terminator)
	cs.drainWorklist()
	return cs.a.finish()
}

// collectShared walks the optimised tree once and returns the set of node
// identities that must be compiled exactly once and called via GOSUB: every
// ast.Fixpoint's Target (a back-edge into a node reached earlier on the same
// path) and every ast.Subroutine's body (an explicit share request). Walking
// stops at each identity's first visit, so a node reachable through many
// aliases is still only inspected once.
func collectShared(root ast.Node) map[ast.ID]bool {
	shared := make(map[ast.ID]bool)
	visited := make(map[ast.ID]bool)

	var walk func(n ast.Node)
	walk = func(n ast.Node) {
		id := n.Identity()
		if visited[id] {
			return
		}
		visited[id] = true

		if fp, ok := n.(*ast.Fixpoint); ok {
			shared[fp.Target.Identity()] = true
			return
		}
		if sub, ok := n.(*ast.Subroutine); ok {
			shared[sub.P.Get().Identity()] = true
		}
		for _, c := range children(n) {
			walk(c.Get())
		}
	}
	walk(root)
	return shared
}
