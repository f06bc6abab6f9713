package vm

// NumRegisters is the fixed number of general-purpose registers every
// Execution carries, addressed by GET/PUT/LOCAL's Arg0 operand. Four keeps
// register save/restore (LOCAL's HandlerFrame slot) a flat array copy
// instead of a map, and matches what real grammars actually need: one or
// two registers for indentation depth or "are we inside parens" flags is
// the common case, and a grammar needing more can always multiplex a
// register's value onto a small struct.
const NumRegisters = 4

type registers [NumRegisters]interface{}

func checkRegister(reg int) {
	if reg < 0 || reg >= NumRegisters {
		panic(&RuntimeError{Err: ErrRegisterRange, Code: OpGET})
	}
}
