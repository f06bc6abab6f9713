// Package compiler turns an ast.Node tree into an executable *vm.Program in
// three passes:
//
//	preprocess   resolves every lazy ast.Child thunk to its target node,
//	             detects cycles by physical identity and replaces back-edges
//	             with ast.Fixpoint markers, and absorbs each ErrorRelabel
//	             label into its target when that target is a leaf
//	optimise     rewrites the resolved tree bottom-up using the applicative,
//	             alternative, and monad laws (and a handful of peephole
//	             fusions) until no rule applies
//	codegen      walks the optimised tree top-down, emitting vm.Instruction
//	             values with a symbolic label for every forward or
//	             backward jump, then resolves every label to a concrete
//	             instruction index
//
// Compile runs all three in order and returns the finished *vm.Program.
package compiler
