// Package vm implements the bytecode virtual machine that executes compiled
// parser programs produced by package compiler.
//
// Unlike a byte-packed instruction encoding, each Instruction here is a flat
// Go struct: one OpCode plus a handful of typed operand slots (Arg0/Arg1 for
// small integers such as register numbers or capture counts, Label for code
// addresses, Rune/Str/Matcher for literal operands, and Fn for an embedded
// user function). This trades code-size density for operand types that
// don't need re-decoding on every Step.
//
// Execution state lives in three stacks plus four registers:
//
//	value stack    operand results, pushed by leaves, popped/combined by
//	               combinators (OpPush/OpPop/OpApply/...)
//	handler stack  backtracking frames pushed by OpChoice, popped by
//	               OpCommit on success or consulted by OpFail on failure
//	call stack     return addresses pushed by OpCall/OpGoSub, popped by
//	               OpRet — including cross-program frames for dynamically
//	               compiled Bind continuations
//
// The instruction set, in rough execution-semantics order:
//
//	NOP                          do nothing
//	HALT                         stop the machine; final value stack slot
//	                             is the parse result
//	PUSH       Value             push the constant Value
//	POP                          discard the top of the value stack
//	CHAR       Rune              consume one rune if it matches Rune
//	STRING     Str               consume len(Str) runes if they match Str
//	MATCHSET   Matcher           consume one rune if Matcher accepts it
//	EOF                          succeed (consuming nothing) only at end of input
//	JUMPTABLE  []JumpCase        dispatch on the lookahead rune to a label,
//	                             or fall through to a default label
//	CHOICE     Label, Arg0       push a handler frame remembering the
//	                             current input position and Label; Arg0
//	                             nonzero marks it "cut": FAIL only
//	                             backtracks to it if nothing was consumed
//	                             since it was pushed, otherwise FAIL skips
//	                             it and keeps unwinding (Alt's implicit cut)
//	COMMIT     Label             pop a handler frame, discard it, jump to
//	                             Label (used once a branch need not be
//	                             retried)
//	FAIL                         pop and restore the top handler frame, or
//	                             propagate failure if the handler stack is
//	                             empty
//	FAILEMPTY                    FAIL only if no input was consumed since
//	                             the top handler frame was pushed;
//	                             otherwise continue with the next
//	                             instruction (the compiler never emits it)
//	CALL       Label             push a call frame, jump to Label
//	GOSUB      Label             like CALL, but for Subroutine bodies (same
//	                             program, shared by physical identity)
//	DYNCALL    Fn (build func)   pop a value, call Fn(value) to compile a
//	                             fresh child *Program starting at its
//	                             instruction 0, push a cross-program call
//	                             frame remembering the current Program, and
//	                             jump into the child (Bind's runtime-
//	                             compiled continuation)
//	RET                          pop a call frame and resume at its return
//	                             address, possibly in its ReturnProg
//	GET        Arg0 (register)   push Registers[Arg0]
//	PUT        Arg0 (register)   pop and store into Registers[Arg0]
//	LOCAL      Arg0 (register)   save Registers[Arg0] on the handler stack;
//	                             the matching LOCALEND restores it on
//	                             success, FAIL restores it when a failure
//	                             unwinds past the frame
//	LOCALEND   Arg0 (register)   restore Registers[Arg0] from the saved copy
//	APPLY                        pop a function and argument, push the
//	                             application's result
//	LINE                         push the current line number
//	COLUMN                       push the current column number
//	CAP        Arg0 (capture idx) begin a capture span
//	ENDCAP     Arg0 (capture idx) end a capture span, push the captured text
//	DEBUG      Arg0, Arg1        invoke the attached Tracer, if any; Arg0
//	                             is the phase (entry/exit), Arg1 the Debug id
//	DUP                          push a copy of the top of the value stack
//	JMP        Label             unconditional jump
//	BRANCH     Label             pop a bool; jump to Label if false, else
//	                             fall through
//	DROPHANDLER                  pop the top handler frame and discard it
//	                             (a guarded branch succeeded outright, so
//	                             there is nothing left to backtrack into)
//	RESETPOS                     pop the top handler frame and rewind
//	                             input position to it, keeping the value
//	                             stack untouched (LookAhead/NotFollowedBy
//	                             after a successful guarded branch)
//	FAILMSG    Str               record Str as the failure's expected
//	                             label and fail unconditionally
//	FAILDYN                      pop a string value, record it as the
//	                             failure's expected label, and fail
//	                             unconditionally (FastFail/FastGuard's
//	                             runtime-computed message)
//	COMBINE2   Fn (binary)       pop b then a, push Fn(a, b)
//	COMBINE3   Fn (ternary)      pop c, b, then a, push Fn(a, b, c)
//	APPLY2                       pop b, then a runtime function value,
//	                             then a; push function(a, b) — the
//	                             binary counterpart of APPLY, for chain
//	                             combinators whose operator is itself a
//	                             parsed value rather than a compile-time Fn
//	SCAN       Fn (scanner)      call Fn(input, pos); on success, advance
//	                             to the returned position and push the
//	                             returned value; on failure, record
//	                             Expected and fail — the general escape
//	                             hatch a token-layer leaf (Keyword,
//	                             Operator, StringLiteral,
//	                             RawStringLiteral) lowers to, in place of
//	                             a fixed instruction per lexical rule
//
// See data.go for the authoritative opcode metadata table.
package vm
